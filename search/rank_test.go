package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestScoreTitlePhraseBonus(t *testing.T) {
	tokens := tokenizeQuery("iphone 15")

	phraseScore, phraseMatches := scoreTitle(tokens, "Apple iPhone 15 128GB Blue")
	accessoryScore, _ := scoreTitle(tokens, "Case for iPhone 11 12 13 14 15 Pro")

	assert.Equal(t, 2, phraseMatches)
	assert.Greater(t, phraseScore, accessoryScore)
}

func TestTokenizeQueryDropsStopwords(t *testing.T) {
	tokens := tokenizeQuery("Brand New iPhone 15 for Sale in Lagos")
	assert.Equal(t, []string{"iphone", "15"}, tokens)
}

func TestRankRequiresTwoMatchesForMultiTokenQueries(t *testing.T) {
	candidates := []Candidate{
		{Title: "Apple iPhone 15 128GB", Price: f(950000), URL: "https://jiji.ng/ad/a"},
		{Title: "iPhone charger cable", Price: f(3000), URL: "https://jiji.ng/ad/b"},
		{Title: "Samsung Galaxy S24", Price: f(800000), URL: "https://jiji.ng/ad/c"},
	}

	ranked := Rank(candidates, "iphone 15", nil)
	require.Len(t, ranked, 1)
	assert.Equal(t, "https://jiji.ng/ad/a", ranked[0].URL)
}

func TestRankMaxPriceFilter(t *testing.T) {
	candidates := []Candidate{
		{Title: "USB flash drive 64GB", Price: f(40), URL: "u1"},
		{Title: "USB flash drive 64GB metal", Price: f(60), URL: "u2"},
		{Title: "USB flash drive 64GB mini", Price: f(45), URL: "u3"},
		{Title: "USB flash drive 64GB noname", Price: nil, URL: "u4"},
	}

	max := 50.0
	ranked := Rank(candidates, "usb flash drive", &max)

	require.Len(t, ranked, 2)
	for _, c := range ranked {
		require.NotNil(t, c.Price)
		assert.LessOrEqual(t, *c.Price, max)
	}
}

func TestRankOrdersByScoreThenPrice(t *testing.T) {
	candidates := []Candidate{
		{Title: "Sony WH-1000XM4 headphones", Price: f(250000), URL: "expensive"},
		{Title: "Sony WH-1000XM4 headphones", Price: f(180000), URL: "cheap"},
		{Title: "Sony carrying pouch", Price: f(5000), URL: "pouch"},
	}

	ranked := Rank(candidates, "sony headphones", nil)
	require.Len(t, ranked, 2)
	assert.Equal(t, "cheap", ranked[0].URL)
	assert.Equal(t, "expensive", ranked[1].URL)
}

func TestRankEmptyQuery(t *testing.T) {
	assert.Nil(t, Rank([]Candidate{{Title: "anything"}}, "the for in", nil))
}

func TestJumiaParse(t *testing.T) {
	html := []byte(`<html><body><section>
	  <article class="prd _fb col c-prd">
	    <a class="core" href="/samsung-galaxy-a15-128gb-12345.html" data-name="Samsung Galaxy A15 128GB">
	      <img class="img" data-src="https://ng.jumia.is/a15.jpg"/>
	      <h3 class="name">Samsung Galaxy A15 128GB</h3>
	      <div class="prc">₦ 154,000</div>
	    </a>
	  </article>
	  <article class="prd _fb col c-prd">
	    <a class="core" href="https://www.jumia.com.ng/tecno-spark-20-67890.html">
	      <h3 class="name">Tecno Spark 20</h3>
	      <div class="prc">₦ 98,500</div>
	    </a>
	  </article>
	  <article class="prd"><a class="core" href=""><h3 class="name">broken card</h3></a></article>
	</section></body></html>`)

	got := jumiaSearcher{}.Parse(html)
	require.Len(t, got, 2)

	assert.Equal(t, "https://www.jumia.com.ng/samsung-galaxy-a15-128gb-12345.html", got[0].URL)
	assert.Equal(t, "Samsung Galaxy A15 128GB", got[0].Title)
	require.NotNil(t, got[0].Price)
	assert.InDelta(t, 154000, *got[0].Price, 0.001)
	assert.Equal(t, "NGN", got[0].Currency)
	assert.Equal(t, "https://ng.jumia.is/a15.jpg", got[0].Image)

	assert.Equal(t, "https://www.jumia.com.ng/tecno-spark-20-67890.html", got[1].URL)
}

func TestJumiaBuildURL(t *testing.T) {
	assert.Equal(t,
		"https://www.jumia.com.ng/catalog/?q=iphone+15+pro",
		jumiaSearcher{}.BuildURL(" iphone 15 pro "))
}
