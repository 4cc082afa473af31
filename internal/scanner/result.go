package scanner

import "time"

// Outcome classifies a completed probe.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeFound
	OutcomeError
)

// Result holds the outcome of a single probe. In path mode URL, StatusCode,
// ContentLength and RedirectURL are populated; in subdomain mode Host and
// Addresses are. A Result is never mutated after classification.
type Result struct {
	Entry         string // the wordlist entry that produced this probe
	URL           string
	Host          string // fully qualified domain (subdomain mode)
	StatusCode    int
	ContentLength int64
	RedirectURL   string
	BodyHash      [16]byte // MD5 of the response body
	Addresses     []string // resolved A/AAAA records
	Duration      time.Duration
	Timestamp     time.Time
	Err           error
	Outcome       Outcome
}

// Target returns the probed identity: the full URL in path mode, the
// qualified hostname in subdomain mode.
func (r *Result) Target() string {
	if r.URL != "" {
		return r.URL
	}
	return r.Host
}
