package library

import (
	"strconv"
	"strings"
)

// NoAuthors is the display string of an article without authors.
const NoAuthors = "---"

// DisplayAuthors derives the short author string shown in article lists:
// "---" for no authors, "A" or "A & B" for one or two, "A et al." for more.
func DisplayAuthors(lastnames []string) string {
	switch {
	case len(lastnames) == 0:
		return NoAuthors
	case len(lastnames) < 3:
		return strings.Join(lastnames, " & ")
	default:
		first := lastnames[0]
		if first == "" {
			first = NoAuthors
		}
		return first + " et al."
	}
}

// RecomputeYear copies the calendar year of Published into Year. Without a
// published date the year is left alone.
func RecomputeYear(a *Article) {
	if a.Published == nil {
		return
	}
	a.Year = a.Published.Year()
}

// RecomputeAuthorsForDisplay refreshes a.AuthorsForDisplay from the
// article's current author list.
func (g *Graph) RecomputeAuthorsForDisplay(a *Article) {
	lastnames := make([]string, 0, len(a.AuthorIDs))
	for _, id := range a.AuthorIDs {
		if au, ok := g.authors[id]; ok {
			lastnames = append(lastnames, au.Lastname)
		}
	}
	a.AuthorsForDisplay = DisplayAuthors(lastnames)
}

// LongReference formats a one-line reference:
//
//	Last, First, Last, First (2020): Title. Journal. doi
func (g *Graph) LongReference(a *Article) string {
	var b strings.Builder
	for i, au := range g.ArticleAuthors(a) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(au.Lastname)
		b.WriteString(", ")
		b.WriteString(au.Firstname)
	}

	b.WriteString(" (")
	b.WriteString(strconv.Itoa(a.Year))
	b.WriteString("): ")
	if a.Title != "" {
		b.WriteString(a.Title)
	} else {
		b.WriteString("-")
	}
	b.WriteString(". ")

	if j := g.ArticleJournal(a); j != nil {
		name := j.Name
		if name == "" {
			name = "-"
		}
		b.WriteString(name)
	}
	if a.DOI != "" {
		b.WriteString(". ")
		b.WriteString(a.DOI)
	}
	return b.String()
}
