package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/miekg/dns"

	"github.com/zeeshan01001/pathfinder/internal/config"
	"github.com/zeeshan01001/pathfinder/internal/output"
)

func writeWordlist(t *testing.T, entries []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wordlist.txt")
	if err := os.WriteFile(path, []byte(strings.Join(entries, "\n")), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testOpts(t *testing.T, target, wordlistPath string) *config.Options {
	t.Helper()
	return &config.Options{
		Target:       target,
		WordlistPath: wordlistPath,
		Threads:      2,
		Timeout:      5 * time.Second,
		Simple:       true,
		NoColor:      true,
		OutputFile:   filepath.Join(t.TempDir(), "results.json"),
		OutputFormat: "json",
	}
}

func readJSON(t *testing.T, path string) []output.Entry {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []output.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("parsing results: %v\n%s", err, data)
	}
	return entries
}

func countingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestBasicScanJSON(t *testing.T) {
	srv, requests := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/admin" {
			w.WriteHeader(200)
			fmt.Fprint(w, "admin page")
			return
		}
		w.WriteHeader(404)
		fmt.Fprint(w, "not found")
	})

	wordlist := writeWordlist(t, []string{"admin", "login"})
	opts := testOpts(t, srv.URL, wordlist)

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	if n := requests.Load(); n != 2 {
		t.Errorf("issued %d probes, want exactly 2", n)
	}

	entries := readJSON(t, opts.OutputFile)
	if len(entries) != 1 {
		t.Fatalf("expected 1 found entry, got %d: %v", len(entries), entries)
	}
	if entries[0].Target != srv.URL+"/admin" || entries[0].Status != 200 {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}

func TestExtensionsMultiplyProbes(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]int)
	srv, requests := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen[r.URL.Path]++
		mu.Unlock()
		w.WriteHeader(404)
	})

	wordlist := writeWordlist(t, []string{"admin", "login"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.Extensions = []string{"php", "html"}

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	// n entries x m extensions, every constructed target probed exactly once.
	if n := requests.Load(); n != 4 {
		t.Errorf("issued %d probes, want 4", n)
	}
	mu.Lock()
	defer mu.Unlock()
	for path, n := range seen {
		if n != 1 {
			t.Errorf("path %s probed %d times, want 1", path, n)
		}
	}
	for _, want := range []string{"/admin.php", "/admin.html", "/login.php", "/login.html"} {
		if seen[want] != 1 {
			t.Errorf("path %s never probed", want)
		}
	}
}

func TestMissingWordlistIsFatal(t *testing.T) {
	srv, requests := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})

	opts := testOpts(t, srv.URL, filepath.Join(t.TempDir(), "nope.txt"))
	err := Run(context.Background(), opts)
	if err == nil {
		t.Fatal("expected fatal error for missing wordlist")
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("dispatched %d probes before failing, want 0", n)
	}
}

func TestNoSSLAgainstSelfSignedCert(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		fmt.Fprint(w, "secret")
	}))
	defer srv.Close()

	wordlist := writeWordlist(t, []string{"admin"})

	// Verification on: the probe errors but the run still completes.
	strict := testOpts(t, srv.URL, wordlist)
	if err := Run(context.Background(), strict); err != nil {
		t.Fatalf("run should complete despite TLS errors: %v", err)
	}
	if entries := readJSON(t, strict.OutputFile); len(entries) != 0 {
		t.Errorf("expected no found entries with TLS verification, got %v", entries)
	}

	// --no-ssl: same probe succeeds.
	lax := testOpts(t, srv.URL, wordlist)
	lax.SkipSSLVerify = true
	if err := Run(context.Background(), lax); err != nil {
		t.Fatal(err)
	}
	if entries := readJSON(t, lax.OutputFile); len(entries) != 1 {
		t.Errorf("expected 1 found entry with --no-ssl, got %v", entries)
	}
}

func TestTimeoutDoesNotBlockQueue(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			<-block
			return
		}
		w.WriteHeader(200)
	})

	wordlist := writeWordlist(t, []string{"slow", "admin", "login"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.Timeout = 1 * time.Second

	start := time.Now()
	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("run took %s, hung probe should time out in about 1s", elapsed)
	}

	entries := readJSON(t, opts.OutputFile)
	targets := make(map[string]bool, len(entries))
	for _, e := range entries {
		targets[e.Target] = true
	}
	if !targets[srv.URL+"/admin"] || !targets[srv.URL+"/login"] {
		t.Errorf("fast probes missing from output: %v", entries)
	}
	if targets[srv.URL+"/slow"] {
		t.Errorf("timed-out probe should not be reported found: %v", entries)
	}
}

func TestTextOutputToFile(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/backup" {
			w.WriteHeader(403)
			return
		}
		w.WriteHeader(404)
	})

	wordlist := writeWordlist(t, []string{"backup", "other"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.OutputFormat = "txt"
	opts.OutputFile = filepath.Join(t.TempDir(), "results.txt")

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(opts.OutputFile)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "/backup") {
		t.Errorf("expected /backup (403 counts as found) in output:\n%s", out)
	}
	if strings.Contains(out, "/other") {
		t.Errorf("unexpected /other in output:\n%s", out)
	}
}

func TestSoft404DemotesCatchAll(t *testing.T) {
	const catchAll = "<html><body>This page does not exist but we say 200 anyway.</body></html>"
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/admin" {
			w.WriteHeader(200)
			fmt.Fprint(w, "Welcome to the real admin panel with distinctly different content here.")
			return
		}
		w.WriteHeader(200)
		fmt.Fprint(w, catchAll)
	})

	wordlist := writeWordlist(t, []string{"admin", "fakeone", "faketwo"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.Soft404 = true

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	entries := readJSON(t, opts.OutputFile)
	if len(entries) != 1 {
		t.Fatalf("expected only /admin to survive the soft-404 filter, got %v", entries)
	}
	if entries[0].Target != srv.URL+"/admin" {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}

func TestResumeSkipsCompletedEntries(t *testing.T) {
	srv, requests := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	})

	wordlist := writeWordlist(t, []string{"admin", "login", "backup"})
	opts := testOpts(t, srv.URL, wordlist)
	opts.ResumeFile = filepath.Join(t.TempDir(), "scan.state")

	// Seed a state claiming two entries are already done.
	seedURL := srv.URL
	seed := fmt.Sprintf(`{"target":%q,"mode":"paths","completed_entries":["admin","login"],"total_entries":3}`, seedURL)
	if err := os.WriteFile(opts.ResumeFile, []byte(seed), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("issued %d probes, want 1 (two entries already completed)", n)
	}
	// Completed run removes the state file.
	if _, err := os.Stat(opts.ResumeFile); !os.IsNotExist(err) {
		t.Error("resume file should be removed after a completed run")
	}
}

func TestSubdomainScan(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	dnsSrv := &dns.Server{
		PacketConn: pc,
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
			m := new(dns.Msg)
			m.SetReply(r)
			q := r.Question[0]
			if q.Name == "www.example.test." && q.Qtype == dns.TypeA {
				rr, _ := dns.NewRR("www.example.test. 60 IN A 127.0.0.1")
				m.Answer = append(m.Answer, rr)
			} else if q.Name != "www.example.test." {
				m.Rcode = dns.RcodeNameError
			}
			_ = w.WriteMsg(m)
		}),
	}
	go dnsSrv.ActivateAndServe()
	defer dnsSrv.Shutdown()

	wordlist := writeWordlist(t, []string{"www", "missing"})
	opts := testOpts(t, "example.test", wordlist)
	opts.Subdomains = true
	opts.Resolver = pc.LocalAddr().String()
	opts.Timeout = 2 * time.Second

	if err := Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	entries := readJSON(t, opts.OutputFile)
	if len(entries) != 1 {
		t.Fatalf("expected 1 resolved subdomain, got %v", entries)
	}
	if entries[0].Target != "www.example.test" {
		t.Errorf("target = %q, want www.example.test", entries[0].Target)
	}
	if len(entries[0].Addresses) != 1 || entries[0].Addresses[0] != "127.0.0.1" {
		t.Errorf("addresses = %v, want [127.0.0.1]", entries[0].Addresses)
	}
}

func TestInterruptFlushesCollectedResults(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin" {
			// Later entries stall until the context is cancelled.
			select {
			case <-release:
			case <-time.After(3 * time.Second):
			}
			w.WriteHeader(404)
			return
		}
		once.Do(func() {})
		w.WriteHeader(200)
	})

	entries := []string{"admin"}
	for i := 0; i < 30; i++ {
		entries = append(entries, fmt.Sprintf("stall%02d", i))
	}
	wordlist := writeWordlist(t, entries)
	opts := testOpts(t, srv.URL, wordlist)
	opts.Threads = 2
	opts.Timeout = 10 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(500 * time.Millisecond)
		cancel()
		close(release)
	}()

	if err := Run(ctx, opts); err != nil {
		t.Fatal(err)
	}

	found := readJSON(t, opts.OutputFile)
	targets := make(map[string]bool, len(found))
	for _, e := range found {
		targets[e.Target] = true
	}
	if !targets[srv.URL+"/admin"] {
		t.Errorf("interrupted run should still flush found results, got %v", found)
	}
}
