package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func extractAmazon(doc *goquery.Document) ProductData {
	title := firstText(doc, "#productTitle")
	if title == "" {
		title = "Amazon Product"
	}

	// price moves around depending on the offer type
	price := priceFromSelectors(doc,
		"#priceblock_ourprice",
		"#priceblock_dealprice",
		".a-price .a-offscreen",
	)

	availability := AvailabilityUnknown
	if avail := strings.ToLower(firstText(doc, "#availability")); avail != "" {
		if strings.Contains(avail, "in stock") {
			availability = AvailabilityAvailable
		} else if strings.Contains(avail, "out of stock") || strings.Contains(avail, "unavailable") {
			availability = AvailabilityUnavailable
		}
	}

	return ProductData{
		Title:          title,
		Price:          price,
		Currency:       "USD",
		Image:          firstImage(doc, "#imgTagWrapperId img", "img"),
		Availability:   availability,
		ReferencePrice: priceFromSelectors(doc, ".a-text-price .a-offscreen"),
	}
}
