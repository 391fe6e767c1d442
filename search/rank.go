package search

import (
	"regexp"
	"sort"
	"strings"
)

// Tokens that match almost any listing title and say nothing about the
// product itself.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "or": true, "the": true, "for": true,
	"to": true, "of": true, "in": true, "on": true, "with": true,
	"buy": true, "sale": true, "used": true, "new": true, "brand": true,
	"original": true, "london": true, "lagos": true, "abuja": true,
	"nigeria": true, "naija": true,
}

var punctuation = regexp.MustCompile(`[^\w\s]`)
var whitespace = regexp.MustCompile(`\s+`)

const maxQueryTokens = 12

func normalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "₦", " ")
	s = punctuation.ReplaceAllString(s, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func tokenizeQuery(query string) []string {
	var tokens []string
	for _, t := range strings.Fields(normalizeText(query)) {
		if t == "" || stopwords[t] {
			continue
		}
		tokens = append(tokens, t)
		if len(tokens) == maxQueryTokens {
			break
		}
	}
	return tokens
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// scoreTitle returns (score, matches): score grows with token matches and an
// exact phrase hit; matches counts unique query tokens found in the title.
func scoreTitle(queryTokens []string, title string) (int, int) {
	if title == "" {
		return 0, 0
	}

	titleNorm := normalizeText(title)
	titleTokens := make(map[string]bool)
	for _, t := range strings.Fields(titleNorm) {
		titleTokens[t] = true
	}

	seen := make(map[string]bool)
	score, matches := 0, 0
	for _, qt := range queryTokens {
		if seen[qt] {
			continue
		}
		seen[qt] = true
		if titleTokens[qt] {
			matches++
			score += 10
		}
		// numbers carry model info (15, 128) and deserve extra weight
		if isDigits(qt) && titleTokens[qt] {
			score += 8
		}
	}

	// phrase bonus keeps "iphone 15" above random accessories
	if phrase := strings.Join(queryTokens, " "); phrase != "" && strings.Contains(titleNorm, phrase) {
		score += 20
	}

	return score, matches
}

// Rank filters candidates by relevance to query and by maxPrice (post-filter;
// raw parser output stays untouched for debugging), then orders best matches
// first with cheaper listings breaking ties.
func Rank(candidates []Candidate, query string, maxPrice *float64) []Candidate {
	queryTokens := tokenizeQuery(query)
	if len(queryTokens) == 0 {
		return nil
	}

	// multi-token queries need at least two token hits to count as relevant
	requiredMatches := 1
	if len(queryTokens) >= 2 {
		requiredMatches = 2
	}

	type scored struct {
		c       Candidate
		score   int
		matches int
	}

	var kept []scored
	for _, c := range candidates {
		if maxPrice != nil {
			if c.Price == nil || *c.Price > *maxPrice {
				continue
			}
		}
		score, matches := scoreTitle(queryTokens, c.Title)
		if matches < requiredMatches {
			continue
		}
		kept = append(kept, scored{c: c, score: score, matches: matches})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].score != kept[j].score {
			return kept[i].score > kept[j].score
		}
		if kept[i].matches != kept[j].matches {
			return kept[i].matches > kept[j].matches
		}
		// price ascending, unknown prices last
		pi, pj := kept[i].c.Price, kept[j].c.Price
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi < *pj
		}
	})

	out := make([]Candidate, len(kept))
	for i, s := range kept {
		out[i] = s.c
	}
	return out
}
