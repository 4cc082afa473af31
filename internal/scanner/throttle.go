package scanner

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const (
	minBackoff = 500 * time.Millisecond
	maxBackoff = 30 * time.Second
)

// Throttler paces workers with a per-probe delay. In adaptive mode it backs
// off exponentially when the target signals rate limiting (429/503) or when
// probes fail repeatedly, and recovers toward the base delay on healthy
// responses.
type Throttler struct {
	mu          sync.Mutex
	baseDelay   time.Duration
	curDelay    time.Duration
	consecutive int
	adaptive    bool
	quiet       bool
}

// NewThrottler creates a throttler with the given base per-probe delay.
func NewThrottler(baseDelay time.Duration, adaptive, quiet bool) *Throttler {
	return &Throttler{
		baseDelay: baseDelay,
		curDelay:  baseDelay,
		adaptive:  adaptive,
		quiet:     quiet,
	}
}

// Delay returns the delay workers should sleep before the next probe.
func (t *Throttler) Delay() time.Duration {
	if !t.adaptive {
		return t.baseDelay
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.curDelay
}

// RecordStatus feeds a response status into the adaptive controller.
func (t *Throttler) RecordStatus(statusCode int) {
	if !t.adaptive {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if statusCode == 429 || statusCode == 503 {
		t.consecutive++
		t.backoff(fmt.Sprintf("rate limited (HTTP %d)", statusCode))
		return
	}

	if t.consecutive > 0 {
		t.consecutive = 0
		recovered := t.curDelay / 2
		if recovered < t.baseDelay {
			recovered = t.baseDelay
		}
		if recovered != t.curDelay {
			t.curDelay = recovered
			if !t.quiet && t.curDelay > t.baseDelay {
				fmt.Fprintf(os.Stderr, "\n[+] Recovering — delay now %s/probe\n", t.curDelay)
			}
		}
	}
}

// RecordError flags a probe failure as a possible rate-limit signal. Three
// consecutive failures trigger a back-off.
func (t *Throttler) RecordError() {
	if !t.adaptive {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.consecutive++
	if t.consecutive >= 3 {
		t.backoff("repeated probe errors")
	}
}

// backoff doubles the current delay within [minBackoff, maxBackoff].
// Caller must hold t.mu.
func (t *Throttler) backoff(reason string) {
	next := t.curDelay * 2
	if next < minBackoff {
		next = minBackoff
	}
	if next > maxBackoff {
		next = maxBackoff
	}
	if next != t.curDelay {
		t.curDelay = next
		if !t.quiet {
			fmt.Fprintf(os.Stderr, "\n[!] %s — backing off to %s/probe\n", reason, t.curDelay)
		}
	}
}
