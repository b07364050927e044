package crawler

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
)

// RobotsGate answers whether a URL may be fetched under its host's robots.txt.
// Each host's rules are fetched once and cached.
type RobotsGate struct {
	mu          sync.Mutex
	agent       string
	client      *http.Client
	robotsCache map[string]*robotstxt.Group
	logger      *zap.Logger
}

func NewRobotsGate(agent string, client *http.Client, logger *zap.Logger) *RobotsGate {
	if client == nil {
		client = http.DefaultClient
	}
	return &RobotsGate{
		agent:       agent,
		client:      client,
		robotsCache: make(map[string]*robotstxt.Group),
		logger:      logger.Named("robots"),
	}
}

// Allow implements engine.URLFilter.
func (d *RobotsGate) Allow(ctx context.Context, link string) bool {
	return d.IsAllowed(ctx, link)
}

func (d *RobotsGate) IsAllowed(ctx context.Context, link string) bool {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	group, exists := d.robotsCache[u.Host]
	if !exists {
		group = d.fetch(ctx, u)
		d.robotsCache[u.Host] = group
	}

	if group == nil {
		return true // No robots.txt or parse error = Allowed
	}
	return group.Test(u.Path)
}

func (d *RobotsGate) fetch(ctx context.Context, u *url.URL) *robotstxt.Group {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", d.agent)

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Debug("robots.txt unavailable", zap.String("host", u.Host), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		d.logger.Debug("robots.txt unparsable", zap.String("host", u.Host), zap.Error(err))
		return nil
	}
	return data.FindGroup(d.agent)
}
