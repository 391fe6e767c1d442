package scraper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"₦ 120,000", 120000, true},
		{"$1,299.99", 1299.99, true},
		{"1.299,99", 1299.99, true},
		{"1.234.567,89", 1234567.89, true},
		{"€2.499,00", 2499, true},
		{"NGN 45,500.00", 45500, true},
		{"99", 99, true},
		{"1,5", 1.5, true},
		{"12,34", 12.34, true},
		{"1,234", 1234, true},
		{"Out of stock", 0, false},
		{"", 0, false},
		{"   ", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParsePrice(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 0.001, "input %q", tt.in)
		}
	}
}

func TestParsePlatform(t *testing.T) {
	p, ok := ParsePlatform("  Jumia ")
	require.True(t, ok)
	assert.Equal(t, PlatformJumia, p)

	_, ok = ParsePlatform("aliexpress")
	assert.False(t, ok)
}

func TestPlatformFromURL(t *testing.T) {
	p, ok := PlatformFromURL("https://www.jumia.com.ng/some-phone-12345.html")
	require.True(t, ok)
	assert.Equal(t, PlatformJumia, p)

	p, ok = PlatformFromURL("https://jiji.ng/lagos/phones/iphone-13.html")
	require.True(t, ok)
	assert.Equal(t, PlatformJiji, p)

	_, ok = PlatformFromURL("https://example.com/item")
	assert.False(t, ok)
}

func TestExtractJumia(t *testing.T) {
	html := []byte(`<html><head><title>Samsung Galaxy A15 | Jumia Nigeria</title></head>
	<body>
	  <h1 class="-fs20 -pts -pbxs">Samsung Galaxy A15 6.5" 128GB</h1>
	  <span class="-b -ltr -tal -fs24" data-price="154000">₦ 154,000</span>
	  <span class="-tal -gy5 -lthr -fs16">₦ 189,000</span>
	  <img class="-fw -fh" data-src="https://ng.jumia.is/unsafe/product/a15.jpg" src="placeholder.gif"/>
	  <p class="-df -i-ctr -fs12">In stock</p>
	</body></html>`)

	data, err := Extract(PlatformJumia, html)
	require.NoError(t, err)
	require.NotNil(t, data.Price)
	assert.InDelta(t, 154000, *data.Price, 0.001)
	assert.Equal(t, "NGN", data.Currency)
	assert.Contains(t, data.Title, "Samsung Galaxy A15")
}

func TestExtractNoPrice(t *testing.T) {
	html := []byte(`<html><head><title>Some Gadget</title></head>
	<body><h1 class="-fs20 -pts -pbxs">Some Gadget Pro Max</h1><p>Currently unavailable</p></body></html>`)

	data, err := Extract(PlatformJumia, html)
	require.Error(t, err)

	var ee *ExtractError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, ReasonNoPrice, ee.Reason)
	// partial metadata still comes back for a soft miss
	assert.Equal(t, "Some Gadget Pro Max", data.Title)
	assert.Nil(t, data.Price)
}

func TestExtractLikelyBlocked(t *testing.T) {
	html := []byte(`<html><head><title>Robot Check</title></head>
	<body><p>To discuss automated access to Amazon data please contact us.</p>
	<p>Type the characters you see in this image.</p></body></html>`)

	_, err := Extract(PlatformAmazon, html)
	require.Error(t, err)

	var ee *ExtractError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, ReasonLikelyBlocked, ee.Reason)
}

func TestExtractBlockedWinsOverNoPrice(t *testing.T) {
	// an interstitial has no price either; the blocked signal must win
	html := []byte(`<html><head><title>Access Denied</title></head><body></body></html>`)

	_, err := Extract(PlatformEbay, html)
	var ee *ExtractError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, ReasonLikelyBlocked, ee.Reason)
}

func TestExtractEbayCurrencyFromMeta(t *testing.T) {
	html := []byte(`<html><head><title>Dell XPS 13 Laptop | eBay</title>
	<meta itemprop="priceCurrency" content="USD"/></head>
	<body>
	  <h1 class="x-item-title__mainTitle"><span class="ux-textspans">Dell XPS 13 9310 i7</span></h1>
	  <div class="x-price-primary"><span class="ux-textspans">US $649.99</span></div>
	</body></html>`)

	data, err := Extract(PlatformEbay, html)
	require.NoError(t, err)
	require.NotNil(t, data.Price)
	assert.InDelta(t, 649.99, *data.Price, 0.001)
	assert.Equal(t, "USD", data.Currency)
}
