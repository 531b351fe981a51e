// Package author parses author search strings and matches them against
// library authors.
package author

import (
	"strings"

	"github.com/matsen/bibliograph/internal/library"
)

// Query is a parsed author search.
type Query struct {
	First string // may be empty
	Last  string
}

// ParseQuery accepts "Last", "First Last" or "Last, First". With several
// space-separated words the final one is the last name.
func ParseQuery(input string) Query {
	input = strings.TrimSpace(input)
	if input == "" {
		return Query{}
	}

	if last, first, ok := strings.Cut(input, ","); ok && strings.TrimSpace(last) != "" {
		return Query{First: strings.TrimSpace(first), Last: strings.TrimSpace(last)}
	}

	parts := strings.Fields(input)
	if len(parts) == 1 {
		return Query{Last: parts[0]}
	}
	return Query{
		First: strings.Join(parts[:len(parts)-1], " "),
		Last:  parts[len(parts)-1],
	}
}

// givenNames joins first and middle names the way they are typed.
func givenNames(a *library.Author) string {
	if a.Middlenames == "" {
		return a.Firstname
	}
	return a.Firstname + " " + a.Middlenames
}

// Matches reports whether a satisfies the query: the last name must be
// equal ignoring case, the given names must start with q.First ignoring case.
func (q Query) Matches(a *library.Author) bool {
	if q.Last == "" || !strings.EqualFold(q.Last, a.Lastname) {
		return false
	}
	if q.First == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(givenNames(a)), strings.ToLower(q.First))
}

// MatchesAny reports whether any of authors matches.
func (q Query) MatchesAny(authors []*library.Author) bool {
	for _, a := range authors {
		if q.Matches(a) {
			return true
		}
	}
	return false
}

// AllMatch reports whether every query matches at least one of authors.
func AllMatch(queries []Query, authors []*library.Author) bool {
	for _, q := range queries {
		if !q.MatchesAny(authors) {
			return false
		}
	}
	return true
}

// FilterArticles returns the articles of g whose author list satisfies
// every query, in the graph's article order.
func FilterArticles(g *library.Graph, queries []Query) []*library.Article {
	var out []*library.Article
	for _, a := range g.Articles() {
		if AllMatch(queries, g.ArticleAuthors(a)) {
			out = append(out, a)
		}
	}
	return out
}
