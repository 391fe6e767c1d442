// Package fetcher issues single-attempt HTTP fetches for product and search
// pages. Retry policy lives in the scheduler, not here.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"pricetracker/scraper"
)

// DefaultUserAgent identifies the tracker on sites that tolerate bots.
const DefaultUserAgent = "Mozilla/5.0 (compatible; SmartPriceTracker/0.1; +respect-robots)"

// Kind classifies a fetch failure.
type Kind string

const (
	KindDisallowed   Kind = "disallowed"
	KindHTTPError    Kind = "http_error"
	KindTimeout      Kind = "timeout"
	KindNetworkError Kind = "network_error"
)

// Error is the typed failure returned for every expected fetch problem.
type Error struct {
	Kind   Kind
	Status int // set for KindHTTPError
	URL    string
}

func (e *Error) Error() string {
	if e.Kind == KindHTTPError {
		return fmt.Sprintf("fetch %s: http %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

// Reason is the human-readable form stored in blocked_reason/error_message.
func (e *Error) Reason() string {
	switch e.Kind {
	case KindDisallowed:
		return "robots.txt disallow"
	case KindHTTPError:
		return fmt.Sprintf("HTTP error: %d", e.Status)
	case KindTimeout:
		return "request timed out"
	default:
		return "network error"
	}
}

// Result is a successful fetch.
type Result struct {
	HTML     []byte
	FinalURL string
}

type platformHeaders struct {
	userAgent      string
	acceptLanguage string
}

// Amazon and eBay reject obvious bot agents outright; the Nigerian platforms
// are fine with the honest tracker UA.
var headersByPlatform = map[scraper.Platform]platformHeaders{
	scraper.PlatformAmazon: {
		userAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		acceptLanguage: "en-US,en;q=0.9",
	},
	scraper.PlatformEbay: {
		userAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		acceptLanguage: "en-US,en;q=0.9",
	},
	scraper.PlatformJumia: {userAgent: DefaultUserAgent, acceptLanguage: "en-NG,en;q=0.8"},
	scraper.PlatformKonga: {userAgent: DefaultUserAgent, acceptLanguage: "en-NG,en;q=0.8"},
	scraper.PlatformJiji:  {userAgent: DefaultUserAgent, acceptLanguage: "en-NG,en;q=0.8"},
}

// Fetcher performs robots-aware single fetches.
type Fetcher struct {
	client *http.Client
	robots *Robots
}

func New(timeout time.Duration, robots *Robots) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		robots: robots,
	}
}

// Fetch retrieves the page at url. It consults the robots policy first and
// never retries; every failure comes back as a *Error.
func (f *Fetcher) Fetch(ctx context.Context, url string, platform scraper.Platform) (*Result, error) {
	if f.robots != nil && !f.robots.Allowed(ctx, url) {
		return nil, &Error{Kind: KindDisallowed, URL: url}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindNetworkError, URL: url}
	}

	hdr, ok := headersByPlatform[platform]
	if !ok {
		hdr = platformHeaders{userAgent: DefaultUserAgent, acceptLanguage: "en"}
	}
	req.Header.Set("User-Agent", hdr.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", hdr.acceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err, url)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &Error{Kind: KindHTTPError, Status: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err, url)
	}

	return &Result{HTML: body, FinalURL: resp.Request.URL.String()}, nil
}

func classifyTransportError(err error, url string) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindTimeout, URL: url}
	}
	return &Error{Kind: KindNetworkError, URL: url}
}
