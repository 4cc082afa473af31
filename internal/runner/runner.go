package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/zeeshan01001/pathfinder/internal/config"
	"github.com/zeeshan01001/pathfinder/internal/filter"
	"github.com/zeeshan01001/pathfinder/internal/output"
	"github.com/zeeshan01001/pathfinder/internal/resume"
	"github.com/zeeshan01001/pathfinder/internal/scanner"
	"github.com/zeeshan01001/pathfinder/internal/wordlist"
	"github.com/zeeshan01001/pathfinder/pkg/version"
)

// Byte tolerance when matching response sizes against the soft-404 baseline.
const soft404Tolerance = 50

// Run executes the full scan pipeline: load wordlist, fan probes out across
// the worker pool, classify and collect results, serialize found entries.
func Run(ctx context.Context, opts *config.Options) error {
	console := output.NewConsole(opts.Simple, opts.NoColor)

	// 1. Load wordlist.
	entries, err := wordlist.Load(opts.WordlistPath, opts.Subdomains, opts.Thorough)
	if err != nil {
		return fmt.Errorf("loading wordlist: %w", err)
	}
	if !opts.Subdomains {
		entries = wordlist.ExpandExtensions(entries, opts.Extensions)
	}

	// 2. Create the prober for the selected mode.
	var (
		prober scanner.Prober
		req    *scanner.Requester
		target string
		mode   string
	)
	if opts.Subdomains {
		res, err := scanner.NewResolver(opts)
		if err != nil {
			return err
		}
		prober, target, mode = res, res.Domain(), "subdomains"
	} else {
		req, err = scanner.NewRequester(opts)
		if err != nil {
			return err
		}
		prober, target, mode = req, req.BaseURL(), "paths"
	}

	// 3. Classification: status policy plus optional demotion filters.
	policy := filter.NewStatusPolicy(opts.IncludeStatus, opts.ExcludeStatus)
	chain := filter.NewChain()
	if opts.Soft404 && !opts.Subdomains {
		console.Statusf("Calibrating soft-404 baseline against %s ...", target)
		sf, sfErr := filter.NewSoft404(ctx, req, soft404Tolerance)
		if sfErr != nil {
			console.Warnf("Soft-404 filter disabled: %v", sfErr)
		} else {
			chain.Add(sf)
			console.Statusf("Soft-404 filter ready")
		}
	}

	// 4. Resume support.
	var state *resume.State
	if opts.ResumeFile != "" {
		existing, err := resume.Load(opts.ResumeFile)
		if err != nil {
			return err
		}
		if existing != nil && existing.Matches(target, mode) {
			state = existing
			before := len(entries)
			entries = state.FilterRemaining(entries)
			console.Statusf("Resuming: skipping %d already completed entries", before-len(entries))
		} else {
			state = resume.New(opts.ResumeFile, target, mode, len(entries))
		}
	}
	if len(entries) == 0 {
		console.Statusf("All entries already completed")
		return nil
	}

	// 5. Output writer; a bad destination fails before any probe is sent.
	out, err := output.NewWriter(opts.OutputFormat, opts.OutputFile)
	if err != nil {
		return fmt.Errorf("creating output writer: %w", err)
	}
	defer out.Close()
	if opts.SortBy != "" {
		out = output.NewSortedWriter(out, opts.SortBy)
	}

	console.Banner(version.Version, target, mode, len(entries), opts.Threads)

	// 6. Worker pool.
	items := make([]scanner.WorkItem, len(entries))
	for i, e := range entries {
		items[i] = scanner.WorkItem{Entry: e}
	}

	throttler := scanner.NewThrottler(opts.Delay, opts.AdaptiveThrottle, opts.Simple)
	pauser, restoreTerm := startStdinToggle(opts.Simple)
	defer restoreTerm()

	progress := output.NewProgress(len(items), !opts.Simple)
	start := time.Now()

	results := scanner.RunWorkerPool(ctx, prober, items, scanner.WorkerConfig{
		Threads:   opts.Threads,
		Throttler: throttler,
		Pauser:    pauser,
	})

	// 7. Collect. This loop is the single owner of the result slice; workers
	// only ever touch the fan-in channel.
	var collected []scanner.Result
	stats := output.Stats{TotalProbes: len(items)}

	for result := range results {
		progress.Increment()
		if state != nil {
			state.MarkCompleted(result.Entry)
		}

		switch {
		case result.Err != nil:
			result.Outcome = scanner.OutcomeError
			stats.Errors++
		case isHit(opts.Subdomains, policy, &result):
			if demoted, _ := chain.Apply(&result); demoted {
				result.Outcome = scanner.OutcomeNotFound
				stats.NotFound++
				break
			}
			result.Outcome = scanner.OutcomeFound
			stats.Found++
			progress.Clear()
			console.Found(&result)
		default:
			result.Outcome = scanner.OutcomeNotFound
			stats.NotFound++
		}

		collected = append(collected, result)
	}
	progress.Finish()

	// 8. Resume bookkeeping: keep the state file only when interrupted.
	if state != nil {
		if ctx.Err() != nil {
			if err := state.Save(); err != nil {
				console.Warnf("Could not save resume state: %v", err)
			} else {
				console.Warnf("Progress saved to %s — rerun with --resume-file to continue", opts.ResumeFile)
			}
		} else {
			_ = state.Remove()
		}
	}

	stats.Duration = time.Since(start)
	if pauser != nil {
		stats.Duration -= pauser.PausedDuration()
	}
	if completed := len(collected); completed > 0 && stats.Duration > 0 {
		stats.ProbesPerSec = float64(completed) / stats.Duration.Seconds()
	}

	// 9. Serialize found results. Interrupted runs still flush everything
	// collected so far.
	if err := writeResults(out, collected, stats); err != nil {
		console.Warnf("Writing results failed: %v — dumping to console", err)
		echoResults(console, collected)
		return fmt.Errorf("writing results: %w", err)
	}

	console.Summary(stats)
	if opts.OutputFile != "" {
		console.Statusf("Results saved to %s", opts.OutputFile)
	}
	return nil
}

// isHit decides whether a completed probe found something: resolved
// addresses in subdomain mode, a matching status code in path mode.
func isHit(subdomains bool, policy *filter.StatusPolicy, result *scanner.Result) bool {
	if subdomains {
		return len(result.Addresses) > 0
	}
	return policy.Found(result.StatusCode)
}

// writeResults serializes the found subset of collected results.
func writeResults(out output.Writer, collected []scanner.Result, stats output.Stats) error {
	if err := out.WriteHeader(); err != nil {
		return err
	}
	for i := range collected {
		if collected[i].Outcome != scanner.OutcomeFound {
			continue
		}
		if err := out.WriteResult(&collected[i]); err != nil {
			return err
		}
	}
	return out.WriteFooter(stats)
}

// echoResults is the fallback when the output destination fails: found
// entries are replayed on the console so the scan is not lost.
func echoResults(console *output.Console, collected []scanner.Result) {
	for i := range collected {
		if collected[i].Outcome == scanner.OutcomeFound {
			console.Found(&collected[i])
		}
	}
}
