package search

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pricetracker/scraper"
)

const jumiaBaseURL = "https://www.jumia.com.ng"

type jumiaSearcher struct{}

func (jumiaSearcher) Platform() scraper.Platform { return scraper.PlatformJumia }

func (jumiaSearcher) BuildURL(query string) string {
	return jumiaBaseURL + "/catalog/?q=" + url.QueryEscape(strings.TrimSpace(query))
}

// Parse reads the catalog grid. Jumia's markup is steadier than jiji's, so
// this targets the product cards directly.
func (jumiaSearcher) Parse(html []byte) []Candidate {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}

	var candidates []Candidate
	seen := make(map[string]bool)

	doc.Find("article.prd").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("a.core").First()
		href, _ := link.Attr("href")
		if href == "" {
			return true
		}
		listingURL := resolveURL(jumiaBaseURL, href)
		if listingURL == "" || seen[listingURL] {
			return true
		}
		seen[listingURL] = true

		title := strings.TrimSpace(card.Find("h3.name").First().Text())
		if title == "" {
			title = strings.TrimSpace(link.AttrOr("data-name", ""))
		}

		var price *float64
		if txt := strings.TrimSpace(card.Find("div.prc").First().Text()); txt != "" {
			if p, ok := scraper.ParsePrice(txt); ok {
				price = &p
			}
		}

		if price == nil && title == "" {
			return true
		}

		image := ""
		if img := card.Find("img.img").First(); img.Length() > 0 {
			image, _ = img.Attr("data-src")
			if image == "" {
				image, _ = img.Attr("src")
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
