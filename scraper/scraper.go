// Package scraper turns raw product-page HTML into normalized price data.
// One extractor per platform; all of them are best-effort and fail softly.
package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Platform string

const (
	PlatformJumia  Platform = "jumia"
	PlatformKonga  Platform = "konga"
	PlatformAmazon Platform = "amazon"
	PlatformEbay   Platform = "ebay"
	PlatformJiji   Platform = "jiji"
)

// ParsePlatform normalizes a user-supplied platform name.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PlatformJumia, PlatformKonga, PlatformAmazon, PlatformEbay, PlatformJiji:
		return p, true
	}
	return "", false
}

// PlatformFromURL infers the platform from a product URL's host.
func PlatformFromURL(rawURL string) (Platform, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "jumia"):
		return PlatformJumia, true
	case strings.Contains(host, "konga"):
		return PlatformKonga, true
	case strings.Contains(host, "amazon"):
		return PlatformAmazon, true
	case strings.Contains(host, "ebay"):
		return PlatformEbay, true
	case strings.Contains(host, "jiji"):
		return PlatformJiji, true
	}
	return "", false
}

const (
	AvailabilityAvailable   = "available"
	AvailabilityUnavailable = "unavailable"
	AvailabilityUnknown     = "unknown"
)

// ProductData is the normalized output of every extractor.
type ProductData struct {
	Title          string
	Price          *float64
	Currency       string
	Image          string
	Availability   string
	ReferencePrice *float64
}

// Extraction failure reasons. ReasonNoPrice is a soft miss: the page parsed
// but no price field was found. ReasonLikelyBlocked means the page is an
// anti-bot interstitial and is the signal that flips a product to blocked.
const (
	ReasonNoPrice       = "no_price"
	ReasonLikelyBlocked = "likely_blocked"
)

type ExtractError struct {
	Reason string
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

type extractFunc func(doc *goquery.Document) ProductData

var extractors = map[Platform]extractFunc{
	PlatformJumia:  extractJumia,
	PlatformKonga:  extractKonga,
	PlatformAmazon: extractAmazon,
	PlatformEbay:   extractEbay,
	PlatformJiji:   extractJiji,
}

// Markers that show up on CAPTCHA / interstitial pages instead of product
// content. Checked case-insensitively against title and page text.
var blockedMarkers = []string{
	"captcha",
	"robot check",
	"are you a human",
	"access denied",
	"unusual traffic",
	"request blocked",
	"verify you are a human",
	"enable javascript and cookies to continue",
}

// Extract parses html for the given platform. On ReasonNoPrice the returned
// ProductData still carries whatever was found (title, image, currency) so
// the caller can keep metadata fresh without recording a price.
func Extract(platform Platform, html []byte) (ProductData, error) {
	fn, ok := extractors[platform]
	if !ok {
		return ProductData{}, fmt.Errorf("unsupported platform %q", platform)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ProductData{}, &ExtractError{Reason: ReasonLikelyBlocked}
	}

	if looksBlocked(doc) {
		return ProductData{}, &ExtractError{Reason: ReasonLikelyBlocked}
	}

	data := fn(doc)
	if data.Price == nil {
		return data, &ExtractError{Reason: ReasonNoPrice}
	}
	return data, nil
}

func looksBlocked(doc *goquery.Document) bool {
	title := strings.ToLower(doc.Find("title").First().Text())
	body := strings.ToLower(doc.Find("body").Text())
	for _, marker := range blockedMarkers {
		if strings.Contains(title, marker) || strings.Contains(body, marker) {
			return true
		}
	}
	return false
}

var nonPriceChars = regexp.MustCompile(`[^\d.,]`)

// ParsePrice normalizes locale-formatted price text ("₦ 120,000",
// "$1,299.99", "1.299,99") into a float. Returns false when no number
// survives cleanup.
func ParsePrice(text string) (float64, bool) {
	cleaned := strings.TrimSpace(nonPriceChars.ReplaceAllString(text, ""))
	if cleaned == "" {
		return 0, false
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")
	switch {
	case hasComma && hasDot:
		// whichever separator appears last is the decimal point
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			i := strings.LastIndex(cleaned, ",")
			cleaned = strings.ReplaceAll(cleaned[:i], ",", "") + "." + cleaned[i+1:]
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		// a single comma followed by 1-2 digits reads as a decimal separator
		if strings.Count(cleaned, ",") == 1 {
			parts := strings.SplitN(cleaned, ",", 2)
			if len(parts[1]) == 1 || len(parts[1]) == 2 {
				cleaned = parts[0] + "." + parts[1]
			} else {
				cleaned = parts[0] + parts[1]
			}
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// priceFromSelectors returns the first selector whose text parses to a price.
func priceFromSelectors(doc *goquery.Document, selectors ...string) *float64 {
	for _, sel := range selectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if p, ok := ParsePrice(strings.TrimSpace(el.Text())); ok {
			return &p
		}
	}
	return nil
}

func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func firstImage(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if src, ok := doc.Find(sel).First().Attr("src"); ok && src != "" {
			return src
		}
	}
	return ""
}

func pageContains(doc *goquery.Document, needle string) bool {
	return strings.Contains(strings.ToLower(doc.Find("body").Text()), needle)
}
