package search

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pricetracker/scraper"
)

const jijiBaseURL = "https://jiji.ng"

var nairaNearby = regexp.MustCompile(`₦\s?[\d,]+`)

// routes that anchors on search pages point at but are never listings
var jijiNonListingPaths = []string{
	"login", "signup", "register", "privacy", "terms", "about", "help", "contact", "search",
}

type jijiSearcher struct{}

func (jijiSearcher) Platform() scraper.Platform { return scraper.PlatformJiji }

func (jijiSearcher) BuildURL(query string) string {
	return jijiBaseURL + "/search?query=" + url.QueryEscape(strings.TrimSpace(query))
}

// Parse walks every anchor on the page and keeps the ones that look like
// listings. Jiji changes markup often, so this leans on URL shape and nearby
// naira amounts rather than class names.
func (jijiSearcher) Parse(html []byte) []Candidate {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}

	var candidates []Candidate
	seen := make(map[string]bool)

	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if href == "" {
			return true
		}

		listingURL := resolveURL(jijiBaseURL, href)
		if listingURL == "" || seen[listingURL] {
			return true
		}
		seen[listingURL] = true

		if !looksLikeJijiListing(listingURL) {
			return true
		}

		title := jijiCardTitle(a)
		price := jijiPriceNear(a)

		// junk reduction: need at least a price or a meaningful title
		if price == nil && title == "" {
			return true
		}

		image := ""
		if img := a.Find("img").First(); img.Length() > 0 {
			image, _ = img.Attr("src")
			if image == "" {
				image, _ = img.Attr("data-src")
			}
		}

		candidates = append(candidates, Candidate{
			Title:    title,
			Price:    price,
			Currency: "NGN",
			URL:      listingURL,
			Image:    image,
		})
		return len(candidates) < maxParsedCandidates
	})

	return candidates
}

func looksLikeJijiListing(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(parsed.Path)
	if path == "" || path == "/" {
		return false
	}
	for _, bad := range jijiNonListingPaths {
		if strings.Contains(path, bad) {
			return false
		}
	}
	if strings.Contains(path, "/ad/") || strings.HasSuffix(path, ".html") {
		return true
	}
	// long slug-like paths are usually listings too
	return len(path) >= 20 && strings.Count(path, "/") >= 2
}

func jijiCardTitle(a *goquery.Selection) string {
	if t, ok := a.Attr("aria-label"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if t, ok := a.Attr("title"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	txt := strings.TrimSpace(a.Text())
	// super-short link text is "Open"/"View", not a title
	if len(txt) >= 8 {
		return txt
	}
	return ""
}

func jijiPriceNear(a *goquery.Selection) *float64 {
	for _, node := range []*goquery.Selection{a, a.Parent(), a.Parent().Parent()} {
		if node == nil || node.Length() == 0 {
			continue
		}
		if m := nairaNearby.FindString(node.Text()); m != "" {
			if p, ok := scraper.ParsePrice(m); ok {
				return &p
			}
		}
	}
	return nil
}

func resolveURL(base, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}
