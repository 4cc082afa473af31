package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/zeeshan01001/pathfinder/internal/scanner"
)

// Console prints human-facing status lines to stderr so they never corrupt
// machine-readable output on stdout.
type Console struct {
	simple bool

	green  *color.Color
	cyan   *color.Color
	yellow *color.Color
	red    *color.Color
	dim    *color.Color
}

// NewConsole creates a console printer. noColor disables ANSI colors.
func NewConsole(simple, noColor bool) *Console {
	if noColor {
		color.NoColor = true
	}
	return &Console{
		simple: simple,
		green:  color.New(color.FgGreen),
		cyan:   color.New(color.FgCyan),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		dim:    color.New(color.Faint),
	}
}

// Banner prints the scan header. Suppressed in simple mode.
func (c *Console) Banner(version, target, mode string, entries, threads int) {
	if c.simple {
		return
	}
	c.cyan.Fprintf(os.Stderr, `
    ____        __  __    _______           __
   / __ \____ _/ /_/ /_  / ____(_)___  ____/ /__  _____
  / /_/ / __ '/ __/ __ \/ /_  / / __ \/ __  / _ \/ ___/
 / ____/ /_/ / /_/ / / / __/ / / / / / /_/ /  __/ /
/_/    \__,_/\__/_/ /_/_/   /_/_/ /_/\__,_/\___/_/
`)
	c.dim.Fprintf(os.Stderr, "  %s\n\n", version)
	fmt.Fprintf(os.Stderr, "  Target:   %s\n", target)
	fmt.Fprintf(os.Stderr, "  Mode:     %s\n", mode)
	fmt.Fprintf(os.Stderr, "  Wordlist: %d entries\n", entries)
	fmt.Fprintf(os.Stderr, "  Threads:  %d\n\n", threads)
}

// Statusf prints a "[*]" status line. Suppressed in simple mode.
func (c *Console) Statusf(format string, args ...any) {
	if c.simple {
		return
	}
	fmt.Fprintf(os.Stderr, "[*] "+format+"\n", args...)
}

// Warnf prints a "[!]" warning line. Shown even in simple mode.
func (c *Console) Warnf(format string, args ...any) {
	c.yellow.Fprint(os.Stderr, "[!] ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Found prints a live line for a discovered resource.
func (c *Console) Found(result *scanner.Result) {
	if c.simple {
		c.green.Fprint(os.Stderr, "✓ ")
		fmt.Fprintf(os.Stderr, "Found: %s\n", c.describe(result))
		return
	}
	c.green.Fprint(os.Stderr, "[+] ")
	if result.Host != "" {
		fmt.Fprintf(os.Stderr, "Found: %s -> %s\n", result.Host, strings.Join(result.Addresses, ", "))
		return
	}
	fmt.Fprintf(os.Stderr, "Found: %s (Status: %d)\n", result.URL, result.StatusCode)
}

// Summary prints the end-of-scan report.
func (c *Console) Summary(stats Stats) {
	if c.simple {
		fmt.Fprintf(os.Stderr, "\n✨ Done! Found %d of %d probes\n", stats.Found, stats.TotalProbes)
		return
	}
	fmt.Fprintf(os.Stderr,
		"\nCompleted: %d probes | Found: %d | Not found: %d | Errors: %d | Duration: %s | %.1f probes/s\n",
		stats.TotalProbes,
		stats.Found,
		stats.NotFound,
		stats.Errors,
		stats.Duration.Round(time.Millisecond),
		stats.ProbesPerSec,
	)
}

func (c *Console) describe(result *scanner.Result) string {
	if result.Host != "" {
		return result.Host
	}
	return result.URL
}
