package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func extractEbay(doc *goquery.Document) ProductData {
	title := firstText(doc, "h1#itemTitle", "h1")
	title = strings.TrimSpace(strings.ReplaceAll(title, "Details about  ", ""))
	if title == "" {
		title = "eBay Product"
	}

	price := priceFromSelectors(doc, "#prcIsum", ".x-price-primary span", "[itemprop=price]")

	currency := "USD"
	if cur, ok := doc.Find(`meta[itemprop="priceCurrency"]`).First().Attr("content"); ok {
		if cur = strings.TrimSpace(cur); cur != "" {
			currency = cur
		}
	}

	availability := AvailabilityUnknown
	if pageContains(doc, "out of stock") {
		availability = AvailabilityUnavailable
	} else if price != nil {
		availability = AvailabilityAvailable
	}

	return ProductData{
		Title:          title,
		Price:          price,
		Currency:       currency,
		Image:          firstImage(doc, "#icImg", "img"),
		Availability:   availability,
		ReferencePrice: priceFromSelectors(doc, ".notranslate.ms-2", "del"),
	}
}
