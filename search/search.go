// Package search queries a platform's search surface and parses the result
// page into candidate listings. Ranking and filtering live in rank.go so raw
// parser output stays inspectable.
package search

import (
	"pricetracker/scraper"
)

// Candidate is one raw search-result listing, not yet tracked.
type Candidate struct {
	Title    string
	Price    *float64
	Currency string
	URL      string
	Image    string
}

// Searcher builds and parses one platform's search surface.
type Searcher interface {
	Platform() scraper.Platform
	BuildURL(query string) string
	Parse(html []byte) []Candidate
}

// parsers keep more than the pipeline stores; relevance filtering trims later
const maxParsedCandidates = 40

var searchers = map[scraper.Platform]Searcher{
	scraper.PlatformJiji:  jijiSearcher{},
	scraper.PlatformJumia: jumiaSearcher{},
}

// ForPlatform returns the searcher for p, if that platform has a usable
// search surface.
func ForPlatform(p scraper.Platform) (Searcher, bool) {
	s, ok := searchers[p]
	return s, ok
}
