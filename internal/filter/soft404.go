package filter

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/zeeshan01001/pathfinder/internal/scanner"
)

const calibrationProbes = 4

// baseline describes the catch-all response shape for one status code.
type baseline struct {
	statusCode    int
	contentLength int64
	bodyHash      [16]byte
	hashExact     bool // calibration bodies were byte-identical
}

// Soft404 detects custom not-found pages served with a success status. It
// calibrates by requesting random paths that cannot exist and recording the
// response shape; scan results matching a baseline are demoted.
type Soft404 struct {
	baselines []baseline
	tolerance int64 // byte tolerance for length matching
}

// NewSoft404 calibrates against the target. Returns an error when too few
// calibration probes succeed to establish a baseline.
func NewSoft404(ctx context.Context, req *scanner.Requester, tolerance int) (*Soft404, error) {
	var results []scanner.Result
	for i := 0; i < calibrationProbes; i++ {
		res := req.Probe(ctx, randomPath())
		if res.Err != nil {
			continue
		}
		results = append(results, res)
	}
	if len(results) < 2 {
		return nil, fmt.Errorf("only %d/%d calibration probes succeeded, need at least 2", len(results), calibrationProbes)
	}

	groups := make(map[int][]scanner.Result)
	for _, r := range results {
		groups[r.StatusCode] = append(groups[r.StatusCode], r)
	}

	sf := &Soft404{tolerance: int64(tolerance)}
	for code, group := range groups {
		if len(group) < 2 {
			continue
		}

		sameHash := true
		for _, g := range group[1:] {
			if g.BodyHash != group[0].BodyHash {
				sameHash = false
				break
			}
		}
		if sameHash {
			sf.baselines = append(sf.baselines, baseline{
				statusCode:    code,
				contentLength: group[0].ContentLength,
				bodyHash:      group[0].BodyHash,
				hashExact:     true,
			})
			continue
		}

		// Bodies differ (pages that echo the requested path); fall back to
		// the median length if the sizes converge within tolerance.
		lengths := make([]int64, len(group))
		for i, g := range group {
			lengths[i] = g.ContentLength
		}
		sort.Slice(lengths, func(i, j int) bool { return lengths[i] < lengths[j] })
		median := lengths[len(lengths)/2]

		converges := true
		for _, l := range lengths {
			if abs64(l-median) > sf.tolerance {
				converges = false
				break
			}
		}
		if converges {
			sf.baselines = append(sf.baselines, baseline{
				statusCode:    code,
				contentLength: median,
			})
		}
	}

	if len(sf.baselines) == 0 {
		return nil, fmt.Errorf("calibration could not establish any baselines")
	}
	return sf, nil
}

func (sf *Soft404) Name() string { return "soft-404" }

func (sf *Soft404) ShouldFilter(result *scanner.Result) bool {
	// An empty 200 body is almost certainly a catch-all, not real content.
	if result.StatusCode == 200 && result.ContentLength == 0 {
		return true
	}
	for _, b := range sf.baselines {
		if result.StatusCode != b.statusCode {
			continue
		}
		if b.hashExact {
			return result.BodyHash == b.bodyHash
		}
		return abs64(result.ContentLength-b.contentLength) <= sf.tolerance
	}
	return false
}

// randomPath returns a path that should never exist on any real server.
func randomPath() string {
	buf := make([]byte, 12)
	_, _ = rand.Read(buf)
	return "pf-" + hex.EncodeToString(buf)
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
