package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

// RobotsUserAgent is the agent name matched against robots.txt rules.
const RobotsUserAgent = "SmartPriceTrackerBot"

type robotsEntry struct {
	data    *robotstxt.RobotsData
	fetched time.Time
}

// Robots caches one robots.txt policy per host. Many fetch tasks read the
// cache concurrently; an expired host is refreshed by exactly one of them
// (singleflight) while the rest wait for that result.
type Robots struct {
	client *http.Client
	ttl    time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	cache map[string]robotsEntry
	group singleflight.Group
}

func NewRobots(timeout, ttl time.Duration) *Robots {
	return &Robots{
		client: &http.Client{Timeout: timeout},
		ttl:    ttl,
		now:    time.Now,
		cache:  make(map[string]robotsEntry),
	}
}

// Allowed reports whether rawURL may be fetched under the host's robots
// policy. An unreachable robots.txt counts as permission to fetch public
// product pages, matching how cautious manual checking would treat it.
func (r *Robots) Allowed(ctx context.Context, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	base := parsed.Scheme + "://" + parsed.Host

	r.mu.RLock()
	entry, ok := r.cache[base]
	r.mu.RUnlock()

	if !ok || r.now().Sub(entry.fetched) >= r.ttl {
		v, _, _ := r.group.Do(base, func() (interface{}, error) {
			data := r.fetch(ctx, base+"/robots.txt")
			r.mu.Lock()
			r.cache[base] = robotsEntry{data: data, fetched: r.now()}
			r.mu.Unlock()
			return data, nil
		})
		entry = robotsEntry{data: v.(*robotstxt.RobotsData)}
	}

	return entry.data.TestAgent(parsed.RequestURI(), RobotsUserAgent)
}

func (r *Robots) fetch(ctx context.Context, robotsURL string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return allowAll()
	}
	req.Header.Set("User-Agent", RobotsUserAgent+"/0.1 (+respect-robots)")

	resp, err := r.client.Do(req)
	if err != nil {
		return allowAll()
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return allowAll()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return allowAll()
	}
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return allowAll()
	}
	return data
}

func allowAll() *robotstxt.RobotsData {
	data, _ := robotstxt.FromBytes(nil)
	return data
}
