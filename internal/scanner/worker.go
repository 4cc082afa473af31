package scanner

import (
	"context"
	"sync"
	"time"
)

// Prober issues one network probe for a wordlist entry. Requester (HTTP)
// and Resolver (DNS) both implement it.
type Prober interface {
	Probe(ctx context.Context, entry string) Result
}

// WorkerConfig holds options for the worker pool.
type WorkerConfig struct {
	Threads   int
	Throttler *Throttler
	Pauser    *Pauser // nil = no pause support
}

// RunWorkerPool fans the work items out across a fixed number of workers and
// returns a channel of results. At most Threads probes are in flight at any
// instant. The channel is closed once every item has been processed or the
// context is cancelled; on cancellation no new items are dispatched but
// in-flight probes run to completion or timeout.
func RunWorkerPool(
	ctx context.Context,
	prober Prober,
	items []WorkItem,
	cfg WorkerConfig,
) <-chan Result {
	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}
	itemsCh := make(chan WorkItem, threads*2)
	resultsCh := make(chan Result, threads*2)

	var wg sync.WaitGroup

	// Producer: feed items into channel, stopping on cancellation.
	go func() {
		defer close(itemsCh)
		for _, item := range items {
			select {
			case itemsCh <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Workers: consume items, produce results.
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemsCh {
				if cfg.Pauser != nil {
					cfg.Pauser.Wait()
				}

				if cfg.Throttler != nil {
					if delay := cfg.Throttler.Delay(); delay > 0 {
						select {
						case <-time.After(delay):
						case <-ctx.Done():
							return
						}
					}
				}

				result := prober.Probe(ctx, item.Entry)
				if result.Err != nil && ctx.Err() != nil {
					// Probe aborted by cancellation, not a real failure.
					return
				}

				if cfg.Throttler != nil {
					if result.Err != nil {
						cfg.Throttler.RecordError()
					} else {
						cfg.Throttler.RecordStatus(result.StatusCode)
					}
				}

				resultsCh <- result
			}
		}()
	}

	// Closer: when all workers finish, close the results channel.
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	return resultsCh
}
