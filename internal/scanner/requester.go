package scanner

import (
	"context"
	"crypto/md5"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zeeshan01001/pathfinder/internal/config"
)

// Requester probes paths on a single base URL over HTTP(S).
type Requester struct {
	client    *http.Client
	baseURL   *url.URL
	userAgent string
}

// NewRequester creates a Requester from the provided options. TLS certificate
// verification is on unless SkipSSLVerify is set.
func NewRequester(opts *config.Options) (*Requester, error) {
	base, err := url.Parse(opts.Target)
	if err != nil {
		return nil, fmt.Errorf("invalid target %q: %w", opts.Target, err)
	}
	if base.Scheme == "" {
		base.Scheme = "https"
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid target %q: no host", opts.Target)
	}
	base.Path = strings.TrimRight(base.Path, "/")

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: opts.SkipSSLVerify},
		DialContext: (&net.Dialer{
			Timeout: opts.Timeout,
		}).DialContext,
		MaxIdleConnsPerHost: opts.Threads,
		MaxIdleConns:        opts.Threads,
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}

	if !opts.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "PathFinder/1.0"
	}

	return &Requester{
		client:    client,
		baseURL:   base,
		userAgent: ua,
	}, nil
}

// BaseURL returns the normalized base URL being scanned.
func (r *Requester) BaseURL() string {
	return r.baseURL.String()
}

// Probe requests <base>/<entry> and returns a Result. Network errors are
// reported in the Result, not as a returned error, so a failed probe never
// aborts the batch.
func (r *Requester) Probe(ctx context.Context, entry string) Result {
	targetURL := r.baseURL.String() + "/" + strings.TrimLeft(entry, "/")

	result := Result{
		Entry:     entry,
		URL:       targetURL,
		Timestamp: time.Now(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		result.Err = err
		return result
	}
	req.Header.Set("User-Agent", r.userAgent)

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	defer resp.Body.Close()

	// Read the body fully so size and hash reflect actual content, then drop it.
	body, err := io.ReadAll(resp.Body)
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = fmt.Errorf("reading response body for %s: %w", entry, err)
		return result
	}

	result.StatusCode = resp.StatusCode
	result.ContentLength = int64(len(body))
	result.BodyHash = md5.Sum(body)
	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		result.RedirectURL = resp.Header.Get("Location")
	}
	return result
}
