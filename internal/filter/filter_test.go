package filter

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zeeshan01001/pathfinder/internal/config"
	"github.com/zeeshan01001/pathfinder/internal/scanner"
)

func TestStatusPolicyDefault(t *testing.T) {
	p := NewStatusPolicy(nil, nil)

	found := []int{200, 204, 301, 302, 307, 401, 403}
	for _, code := range found {
		if !p.Found(code) {
			t.Errorf("status %d should count as found by default", code)
		}
	}
	notFound := []int{404, 400, 405, 500, 502, 503}
	for _, code := range notFound {
		if p.Found(code) {
			t.Errorf("status %d should not count as found by default", code)
		}
	}
}

func TestStatusPolicyInclude(t *testing.T) {
	p := NewStatusPolicy([]int{200}, nil)

	if !p.Found(200) {
		t.Error("200 should be found with include list")
	}
	if p.Found(301) {
		t.Error("301 should not be found when the include list replaces the default")
	}
}

func TestStatusPolicyExclude(t *testing.T) {
	p := NewStatusPolicy(nil, []int{403})

	if p.Found(403) {
		t.Error("403 should be removed from the found set by exclude")
	}
	if !p.Found(200) {
		t.Error("200 should remain found with exclude list")
	}
}

type alwaysFilter struct{ name string }

func (f alwaysFilter) Name() string                        { return f.name }
func (f alwaysFilter) ShouldFilter(_ *scanner.Result) bool { return true }

type neverFilter struct{}

func (neverFilter) Name() string                        { return "never" }
func (neverFilter) ShouldFilter(_ *scanner.Result) bool { return false }

func TestChainShortCircuits(t *testing.T) {
	chain := NewChain()
	chain.Add(neverFilter{})
	chain.Add(alwaysFilter{name: "first"})
	chain.Add(alwaysFilter{name: "second"})

	filtered, reason := chain.Apply(&scanner.Result{})
	if !filtered {
		t.Fatal("expected chain to filter")
	}
	if reason != "first" {
		t.Errorf("reason = %q, want %q", reason, "first")
	}
}

func TestChainEmpty(t *testing.T) {
	chain := NewChain()
	if filtered, _ := chain.Apply(&scanner.Result{StatusCode: 200}); filtered {
		t.Error("empty chain should not filter")
	}
}

func calibratedSoft404(t *testing.T, handler http.Handler) *Soft404 {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	req, err := scanner.NewRequester(&config.Options{
		Target:  srv.URL,
		Threads: 2,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	sf, err := NewSoft404(context.Background(), req, 50)
	if err != nil {
		t.Fatalf("NewSoft404: %v", err)
	}
	return sf
}

func TestSoft404FiltersIdenticalCatchAll(t *testing.T) {
	const catchAll = "<html><body>Sorry, we could not find that page.</body></html>"
	sf := calibratedSoft404(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		fmt.Fprint(w, catchAll)
	}))

	catchAllResult := &scanner.Result{
		StatusCode:    200,
		ContentLength: int64(len(catchAll)),
		BodyHash:      md5Of(catchAll),
	}
	if !sf.ShouldFilter(catchAllResult) {
		t.Error("identical catch-all response should be filtered")
	}

	real := &scanner.Result{
		StatusCode:    200,
		ContentLength: 4096,
		BodyHash:      md5Of("completely different real content"),
	}
	if sf.ShouldFilter(real) {
		t.Error("distinct real content should not be filtered")
	}
}

func TestSoft404FiltersEchoingCatchAll(t *testing.T) {
	// Catch-all that embeds the requested path: hashes differ, sizes converge.
	sf := calibratedSoft404(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		fmt.Fprintf(w, "<html><body>No page at %s, sorry.</body></html>", r.URL.Path)
	}))

	similar := &scanner.Result{
		StatusCode:    200,
		ContentLength: 70,
		BodyHash:      md5Of("unique body"),
	}
	if !sf.ShouldFilter(similar) {
		t.Error("size-converging catch-all should be filtered")
	}

	big := &scanner.Result{
		StatusCode:    200,
		ContentLength: 9000,
		BodyHash:      md5Of("big page"),
	}
	if sf.ShouldFilter(big) {
		t.Error("page far outside size tolerance should not be filtered")
	}
}

func TestSoft404EmptyOK(t *testing.T) {
	sf := calibratedSoft404(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		fmt.Fprint(w, "stub")
	}))

	empty := &scanner.Result{StatusCode: 200, ContentLength: 0}
	if !sf.ShouldFilter(empty) {
		t.Error("empty 200 body should always be filtered")
	}
}

func TestSoft404CalibrationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	srv.Close() // server already down: every calibration probe fails

	req, err := scanner.NewRequester(&config.Options{
		Target:  srv.URL,
		Threads: 1,
		Timeout: time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewSoft404(context.Background(), req, 50); err == nil {
		t.Fatal("expected calibration error against unreachable server")
	}
}

func md5Of(s string) [16]byte {
	return md5.Sum([]byte(s))
}
