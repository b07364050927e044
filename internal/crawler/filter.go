package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// InDomainFilter keeps URLs on the start URL's domain or its subdomains.
type InDomainFilter struct {
	Domain string
}

func NewInDomainFilter(startURL string) (*InDomainFilter, error) {
	u, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("invalid start URL: %w", err)
	}

	// Extract hostname and strip "www." to allow subdomains
	host := u.Hostname()
	domain := strings.TrimPrefix(host, "www.")

	if domain == "" {
		return nil, fmt.Errorf("could not extract domain from %s", startURL)
	}

	return &InDomainFilter{Domain: strings.ToLower(domain)}, nil
}

// Allow implements engine.URLFilter.
func (filter InDomainFilter) Allow(_ context.Context, link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	return host == filter.Domain || strings.HasSuffix(host, "."+filter.Domain)
}
