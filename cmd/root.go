package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zeeshan01001/pathfinder/internal/config"
	"github.com/zeeshan01001/pathfinder/internal/runner"
	"github.com/zeeshan01001/pathfinder/pkg/version"
)

var (
	opts           config.Options
	timeoutSeconds int
)

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"MODE", []string{"subdomains", "thorough", "simple"}},
	{"WORDLIST", []string{"wordlist", "types"}},
	{"CLASSIFICATION", []string{"include-status", "exclude-status", "soft404"}},
	{"RATE-LIMIT", []string{"threads", "timeout", "delay", "adaptive-throttle"}},
	{"HTTP", []string{"no-ssl", "user-agent", "proxy", "follow-redirects"}},
	{"DNS", []string{"resolver"}},
	{"OUTPUT", []string{"out", "format", "sort", "no-color"}},
	{"CONFIGURATION", []string{"resume-file"}},
}

var rootCmd = &cobra.Command{
	Use:     "pathfinder <target> [flags]",
	Short:   "Fast path and subdomain brute-forcer",
	Version: version.Version,
	Long: `pathfinder is a reconnaissance tool that discovers hidden paths and
subdomains on a target host by probing a wordlist against HTTP(S)
endpoints or DNS, reporting every discovered resource.`,
	Example: `  pathfinder example.com
  pathfinder example.com -w custom.txt
  pathfinder -s example.com
  pathfinder example.com -o results.json --format json
  pathfinder example.com --types php,html,js --threads 50
  pathfinder example.com --thorough --no-ssl`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		opts.Target = strings.TrimSpace(args[0])
		if opts.Target == "" {
			return fmt.Errorf("target must not be empty")
		}

		if opts.Subdomains {
			// DNS mode wants a bare domain, not a URL.
			if strings.Contains(opts.Target, "/") {
				return fmt.Errorf("subdomain mode expects a bare domain, got %q", opts.Target)
			}
		} else if !strings.HasPrefix(opts.Target, "http://") && !strings.HasPrefix(opts.Target, "https://") {
			opts.Target = "https://" + opts.Target
		}

		if opts.Threads < 1 {
			return fmt.Errorf("--threads must be at least 1")
		}
		if timeoutSeconds < 1 {
			return fmt.Errorf("--timeout must be at least 1 second")
		}
		opts.Timeout = time.Duration(timeoutSeconds) * time.Second

		if len(opts.IncludeStatus) > 0 && len(opts.ExcludeStatus) > 0 {
			return fmt.Errorf("--include-status and --exclude-status are mutually exclusive")
		}
		switch opts.OutputFormat {
		case "txt", "json", "csv":
		default:
			return fmt.Errorf("--format must be one of: txt, json, csv")
		}
		if opts.SortBy != "" && opts.SortBy != "entry" && opts.SortBy != "status" && opts.SortBy != "size" {
			return fmt.Errorf("--sort must be one of: entry, status, size")
		}
		if opts.Subdomains && len(opts.Extensions) > 0 {
			return fmt.Errorf("--types has no effect in subdomain mode")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runner.Run(ctx, &opts)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Mode
	f.BoolVarP(&opts.Subdomains, "subdomains", "s", false, "Enumerate subdomains via DNS instead of paths")
	f.BoolVar(&opts.Thorough, "thorough", false, "Use the larger built-in wordlist")
	f.BoolVar(&opts.Simple, "simple", false, "Reduced-verbosity output (no banner or progress bar)")

	// Wordlist
	f.StringVarP(&opts.WordlistPath, "wordlist", "w", "", "Custom wordlist path (default: built-in)")
	f.StringSliceVar(&opts.Extensions, "types", nil, "File extensions appended to each entry (e.g. php,html,js)")

	// Classification
	f.VarP(&intSliceValue{target: &opts.IncludeStatus}, "include-status", "i", "Only these status codes count as found (comma-separated)")
	f.VarP(&intSliceValue{target: &opts.ExcludeStatus}, "exclude-status", "x", "Remove these status codes from the found set (comma-separated)")
	f.BoolVar(&opts.Soft404, "soft404", false, "Calibrate against random paths and drop catch-all responses")

	// Performance
	f.IntVar(&opts.Threads, "threads", 20, "Number of concurrent workers")
	f.IntVar(&timeoutSeconds, "timeout", 3, "Per-probe timeout in seconds")
	f.DurationVar(&opts.Delay, "delay", 0, "Delay between probes per worker")
	f.BoolVar(&opts.AdaptiveThrottle, "adaptive-throttle", false, "Auto back-off on 429/rate limits")

	// HTTP
	f.BoolVar(&opts.SkipSSLVerify, "no-ssl", false, "Disable TLS certificate verification")
	f.StringVar(&opts.UserAgent, "user-agent", "", "Custom User-Agent string")
	f.StringVar(&opts.Proxy, "proxy", "", "HTTP/SOCKS proxy URL")
	f.BoolVar(&opts.FollowRedirects, "follow-redirects", false, "Follow HTTP redirects")

	// DNS
	f.StringVar(&opts.Resolver, "resolver", "", "DNS server as ip[:port] (default: system resolver)")

	// Output
	f.StringVarP(&opts.OutputFile, "out", "o", "", "Write results to file instead of stdout")
	f.StringVar(&opts.OutputFormat, "format", "txt", "Output format: txt, json, csv")
	f.StringVar(&opts.SortBy, "sort", "", "Sort results: entry, status, size")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	// Resume
	f.StringVar(&opts.ResumeFile, "resume-file", "", "File to save/load scan progress for resume")

	// Custom help: categorized flags.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if fl := cmd.Flags().Lookup(name); fl != nil {
					fmt.Fprintln(w, formatFlag(fl))
				}
			}
		}
		fmt.Fprintln(w)
	})
}

// Execute runs the root command, exiting non-zero on any fatal error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// intSliceValue implements pflag.Value for comma-separated int slices.
type intSliceValue struct {
	target *[]int
}

func (v *intSliceValue) String() string {
	if v.target == nil || len(*v.target) == 0 {
		return ""
	}
	parts := make([]string, len(*v.target))
	for i, val := range *v.target {
		parts[i] = strconv.Itoa(val)
	}
	return strings.Join(parts, ",")
}

func (v *intSliceValue) Set(s string) error {
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid status code %q: %w", p, err)
		}
		*v.target = append(*v.target, n)
	}
	return nil
}

func (v *intSliceValue) Type() string { return "ints" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	if def := f.DefValue; def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}
