package scraper

import "github.com/PuerkitoBio/goquery"

func extractJumia(doc *goquery.Document) ProductData {
	title := firstText(doc, "h1")
	if title == "" {
		title = "Jumia Product"
	}

	price := priceFromSelectors(doc, "[data-price]", ".-b.-ltr.-tal.-fs24", ".-fs24")

	availability := AvailabilityUnknown
	if pageContains(doc, "out of stock") {
		availability = AvailabilityUnavailable
	} else if price != nil {
		availability = AvailabilityAvailable
	}

	return ProductData{
		Title:          title,
		Price:          price,
		Currency:       "NGN",
		Image:          firstImage(doc, "img"),
		Availability:   availability,
		ReferencePrice: priceFromSelectors(doc, "del", ".-tal.-gy5"),
	}
}
