package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJijiParse(t *testing.T) {
	html := []byte(`<html><body>
	  <nav><a href="/login">Log in</a><a href="/about">About</a></nav>
	  <div class="results">
	    <div class="card">
	      <a href="/lagos/mobile-phones/apple-iphone-13-128gb-ABC123.html" aria-label="Apple iPhone 13 128GB">
	        <img src="https://pictures.jiji.ng/iphone13.jpg"/>
	      </a>
	      <span class="price">₦ 450,000</span>
	    </div>
	    <div class="card">
	      <a href="https://jiji.ng/abuja/laptops/hp-elitebook-840-XYZ789.html">HP EliteBook 840 G5 Core i5</a>
	      <span class="price">₦ 230,000</span>
	    </div>
	    <a href="/">home</a>
	  </div>
	</body></html>`)

	got := jijiSearcher{}.Parse(html)
	require.Len(t, got, 2)

	assert.Equal(t, "https://jiji.ng/lagos/mobile-phones/apple-iphone-13-128gb-ABC123.html", got[0].URL)
	assert.Equal(t, "Apple iPhone 13 128GB", got[0].Title)
	require.NotNil(t, got[0].Price)
	assert.InDelta(t, 450000, *got[0].Price, 0.001)
	assert.Equal(t, "https://pictures.jiji.ng/iphone13.jpg", got[0].Image)

	assert.Equal(t, "HP EliteBook 840 G5 Core i5", got[1].Title)
	require.NotNil(t, got[1].Price)
	assert.InDelta(t, 230000, *got[1].Price, 0.001)
}

func TestJijiBuildURL(t *testing.T) {
	assert.Equal(t, "https://jiji.ng/search?query=iphone+13", jijiSearcher{}.BuildURL("iphone 13"))
}

func TestLooksLikeJijiListing(t *testing.T) {
	assert.True(t, looksLikeJijiListing("https://jiji.ng/lagos/phones/iphone-13.html"))
	assert.True(t, looksLikeJijiListing("https://jiji.ng/ad/12345"))
	assert.True(t, looksLikeJijiListing("https://jiji.ng/lagos/mobile-phones/samsung-galaxy-a15"))
	assert.False(t, looksLikeJijiListing("https://jiji.ng/"))
	assert.False(t, looksLikeJijiListing("https://jiji.ng/login"))
	assert.False(t, looksLikeJijiListing("https://jiji.ng/search?query=x"))
}
