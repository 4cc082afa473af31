package scanner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/zeeshan01001/pathfinder/internal/config"
)

// Resolver probes subdomains of a single apex domain via DNS.
type Resolver struct {
	client *dns.Client
	server string // "ip:port"
	domain string
}

// NewResolver creates a Resolver for the given options. When no resolver is
// configured, the first nameserver from /etc/resolv.conf is used, falling
// back to Google public DNS when the file cannot be read.
func NewResolver(opts *config.Options) (*Resolver, error) {
	domain := strings.TrimSuffix(strings.ToLower(opts.Target), ".")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "https://")
	if domain == "" || strings.ContainsAny(domain, "/ ") {
		return nil, fmt.Errorf("invalid domain %q", opts.Target)
	}

	server := opts.Resolver
	if server == "" {
		if conf, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil && len(conf.Servers) > 0 {
			server = conf.Servers[0] + ":" + conf.Port
		} else {
			server = "8.8.8.8:53"
		}
	} else if !strings.Contains(server, ":") {
		server += ":53"
	}

	return &Resolver{
		client: &dns.Client{Timeout: opts.Timeout},
		server: server,
		domain: domain,
	}, nil
}

// Domain returns the apex domain being enumerated.
func (r *Resolver) Domain() string {
	return r.domain
}

// Probe resolves <entry>.<domain> and returns a Result. NXDOMAIN and empty
// answers are a quiet not-found; query failures (timeout, refused server)
// are reported in the Result so they never abort the batch.
func (r *Resolver) Probe(ctx context.Context, entry string) Result {
	fqdn := strings.Trim(entry, ".") + "." + r.domain

	result := Result{
		Entry:     entry,
		Host:      fqdn,
		Timestamp: time.Now(),
	}

	start := time.Now()
	addrs, err := r.resolve(ctx, fqdn)
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = err
		return result
	}
	result.Addresses = addrs
	return result
}

// resolve queries A then AAAA records for the name. A nil error with no
// addresses means the name does not exist.
func (r *Resolver) resolve(ctx context.Context, fqdn string) ([]string, error) {
	var addrs []string
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(fqdn), qtype)
		msg.RecursionDesired = true

		reply, _, err := r.client.ExchangeContext(ctx, msg, r.server)
		if err != nil {
			return nil, fmt.Errorf("querying %s: %w", fqdn, err)
		}
		if reply.Rcode == dns.RcodeNameError {
			return nil, nil
		}
		if reply.Rcode != dns.RcodeSuccess {
			return nil, fmt.Errorf("querying %s: %s", fqdn, dns.RcodeToString[reply.Rcode])
		}
		for _, ans := range reply.Answer {
			switch rec := ans.(type) {
			case *dns.A:
				addrs = append(addrs, rec.A.String())
			case *dns.AAAA:
				addrs = append(addrs, rec.AAAA.String())
			}
		}
	}
	return addrs, nil
}
