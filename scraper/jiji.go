package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Jiji listing pages are JS-heavy and change often; every step here has a
// fallback.

var nairaPattern = regexp.MustCompile(`₦\s?[\d,]+`)

var jijiPriceSelectors = []string{
	`[data-testid="ad-price"]`,
	".qa-advert-price",
	".b-advert-title__price",
	".b-advert-price",
	".price",
}

func extractJiji(doc *goquery.Document) ProductData {
	title := firstText(doc, "h1")
	if title == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
			title = strings.TrimSpace(og)
		}
	}

	price := priceFromSelectors(doc, jijiPriceSelectors...)
	if price == nil {
		// last resort: scan page text for a naira amount
		if m := nairaPattern.FindString(doc.Find("body").Text()); m != "" {
			if p, ok := ParsePrice(m); ok {
				price = &p
			}
		}
	}

	image := ""
	if og, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok {
		image = strings.TrimSpace(og)
	}
	if image == "" {
		doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			src, _ := s.Attr("src")
			if src == "" {
				src, _ = s.Attr("data-src")
			}
			if strings.HasPrefix(src, "http") {
				image = src
				return false
			}
			return true
		})
	}

	availability := AvailabilityAvailable
	lower := strings.ToLower(title)
	if strings.Contains(lower, "not found") || strings.Contains(lower, "404") {
		availability = AvailabilityUnavailable
	}

	return ProductData{
		Title:        title,
		Price:        price,
		Currency:     "NGN",
		Image:        image,
		Availability: availability,
	}
}
