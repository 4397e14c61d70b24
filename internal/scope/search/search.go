// Package search provides fuzzy, typo-tolerant ranking of storefront menu items.
package search

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// AllCategories selects every item regardless of category
const AllCategories = "All"

// Score ladder
const (
	scoreExact     = 1000
	scoreSubstring = 900
	scoreWordExact = 500
	scoreWordStart = 300
	scoreWordPart  = 200
	scoreWordFuzzy = 100
	scoreMultiWord = 150
)

// ItemID identifies a catalog item. Catalog files use either numbers or strings.
type ItemID string

// UnmarshalJSON accepts both JSON numbers and strings
func (id *ItemID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ItemID(n.String())
	return nil
}

// Item is a single dish in the storefront catalog
type Item struct {
	ID          ItemID          `json:"id"`
	Name        string          `json:"name"`
	Categories  []string        `json:"categories"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
}

// InCategory reports whether the item belongs to category.
// An empty category or AllCategories matches everything.
func (it Item) InCategory(category string) bool {
	if category == "" || category == AllCategories {
		return true
	}
	for _, c := range it.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ScoredItem is an item annotated with its relevance to a query
type ScoredItem struct {
	Item
	RelevanceScore int `json:"relevanceScore"`
}

// Query is the storefront menu filter: free text plus a category chip
type Query struct {
	Text     string
	Category string
}

// Rank scores every item against q and returns the matching subset,
// most relevant first. With an empty query only the category filter
// applies and the catalog order is kept. items is never modified.
func Rank(items []Item, q Query) []ScoredItem {
	text := strings.TrimSpace(q.Text)

	results := make([]ScoredItem, 0, len(items))
	for _, it := range items {
		if !it.InCategory(q.Category) {
			continue
		}
		if text == "" {
			results = append(results, ScoredItem{Item: it})
			continue
		}
		score := Score(it.Name, text)
		if score > 0 {
			results = append(results, ScoredItem{Item: it, RelevanceScore: score})
		}
	}

	if text != "" {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].RelevanceScore > results[j].RelevanceScore
		})
	}

	return results
}

// Score computes the relevance of itemName for query. Higher is better,
// zero means no match. An empty query always scores zero.
func Score(itemName, query string) int {
	if query == "" {
		return 0
	}

	name := strings.ToLower(itemName)
	q := strings.ToLower(query)

	if name == q {
		return scoreExact
	}
	if strings.Contains(name, q) {
		return scoreSubstring
	}

	nameWords := strings.Fields(name)
	queryWords := strings.Fields(q)

	score := 0
	for _, qw := range queryWords {
		if utf8.RuneCountInString(qw) < 2 {
			continue
		}
		for index, nw := range nameWords {
			score += wordScore(nw, qw, index)
		}
	}

	// Bonus for matching several query words
	matching := 0
	seen := make(map[string]bool, len(queryWords))
	for _, qw := range queryWords {
		if seen[qw] {
			continue
		}
		seen[qw] = true
		for _, nw := range nameWords {
			if wordMatches(nw, qw) {
				matching++
				break
			}
		}
	}
	if matching > 1 {
		score += scoreMultiWord * matching
	}

	if score < 0 {
		return 0
	}
	return score
}

func wordScore(nameWord, queryWord string, index int) int {
	switch {
	case nameWord == queryWord:
		return scoreWordExact - 10*index
	case strings.HasPrefix(nameWord, queryWord):
		return scoreWordStart - 10*index
	case strings.Contains(nameWord, queryWord):
		return scoreWordPart - 10*index
	}

	distance := Levenshtein(nameWord, queryWord)
	if distance <= maxDistance(queryWord) {
		return scoreWordFuzzy - 20*distance - 5*index
	}
	return 0
}

func wordMatches(nameWord, queryWord string) bool {
	return nameWord == queryWord ||
		strings.Contains(nameWord, queryWord) ||
		Levenshtein(nameWord, queryWord) <= maxDistance(queryWord)
}

// maxDistance is the typo budget for a query word: one edit for short
// words, two for anything longer than four characters
func maxDistance(word string) int {
	if utf8.RuneCountInString(word) <= 4 {
		return 1
	}
	return 2
}

// Levenshtein returns the edit distance between a and b, counting
// single-rune insertions, deletions and substitutions
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	m, n := len(ra), len(rb)

	dist := make([][]int, m+1)
	for i := range dist {
		dist[i] = make([]int, n+1)
		dist[i][0] = i
	}
	for j := 0; j <= n; j++ {
		dist[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			dist[i][j] = min(
				dist[i-1][j]+1,
				dist[i][j-1]+1,
				dist[i-1][j-1]+cost,
			)
		}
	}

	return dist[m][n]
}

// Categories lists the distinct categories of items in first-seen order,
// prefixed with AllCategories
func Categories(items []Item) []string {
	out := []string{AllCategories}
	seen := map[string]bool{AllCategories: true}
	for _, it := range items {
		for _, c := range it.Categories {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}
