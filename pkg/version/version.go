package version

// Version is the pathfinder release version. Overridden at build time via
// -ldflags "-X github.com/zeeshan01001/pathfinder/pkg/version.Version=v1.2.3".
var Version = "dev"
