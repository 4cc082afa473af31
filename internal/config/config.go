package config

import "time"

// Options holds all configuration for a pathfinder run. It is populated once
// from CLI flags and treated as read-only for the duration of the scan.
type Options struct {
	// Target
	Target       string // bare domain (subdomain mode) or base URL (path mode)
	Subdomains   bool   // enumerate subdomains via DNS instead of paths
	WordlistPath string // empty = use embedded
	Thorough     bool   // use the larger embedded wordlist
	Extensions   []string

	// Performance
	Threads          int
	Timeout          time.Duration
	Delay            time.Duration
	AdaptiveThrottle bool

	// Classification
	IncludeStatus []int
	ExcludeStatus []int
	Soft404       bool

	// HTTP
	SkipSSLVerify   bool
	UserAgent       string
	Proxy           string
	FollowRedirects bool

	// DNS
	Resolver string // "ip:port"; empty = first server from resolv.conf

	// Output
	OutputFile   string
	OutputFormat string // "txt", "json", "csv"
	Simple       bool
	NoColor      bool
	SortBy       string // "", "entry", "status", "size"

	// Resume
	ResumeFile string
}
