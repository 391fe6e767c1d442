package scraper

import "github.com/PuerkitoBio/goquery"

func extractKonga(doc *goquery.Document) ProductData {
	title := firstText(doc, "h1")
	if title == "" {
		title = "Konga Product"
	}

	price := priceFromSelectors(doc, `[data-testid="price"]`, ".f6", "span")

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
		ReferencePrice: priceFromSelectors(doc, "del", ".old"),
	}
}
