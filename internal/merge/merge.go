// Package merge applies Crossref metadata onto an existing article.
package merge

import (
	"strconv"
	"strings"

	"github.com/matsen/bibliograph/internal/crossref"
	"github.com/matsen/bibliograph/internal/identity"
	"github.com/matsen/bibliograph/internal/library"
)

// Changes lists the article fields a merge overwrote.
type Changes struct {
	Fields          []string `json:"fields"`
	AuthorsReplaced bool     `json:"authors_replaced"`
	JournalID       string   `json:"journal_id,omitempty"`
}

// Apply overwrites a's title, DOI, pages, volume and issue with the values
// present in m, sets the year when m's year is a number, and reconciles
// journal and authors through rec. The author list is only replaced when
// at least one author was resolved. The title is taken verbatim.
func Apply(tx *library.Tx, rec *identity.Reconciler, a *library.Article, m *crossref.Match) Changes {
	var ch Changes
	set := func(field string, dst *string, v string) {
		if v == "" {
			return
		}
		*dst = v
		ch.Fields = append(ch.Fields, field)
	}

	set("title", &a.Title, m.Title)
	set("doi", &a.DOI, m.DOI)
	set("pages", &a.Pages, m.Pages)
	set("volume", &a.Volume, m.Volume)
	set("issue", &a.Issue, m.Issue)
	if a.Abstract == "" {
		set("abstract", &a.Abstract, m.Abstract)
	}

	if y, err := strconv.Atoi(strings.TrimSpace(m.Year)); err == nil {
		a.Year = y
		ch.Fields = append(ch.Fields, "year")
	}

	if m.Journal != "" {
		j := rec.Journal(m.Journal, m.JournalAbbrev, m.ISSN)
		tx.SetJournal(a, j)
		ch.JournalID = j.ID
	}

	var names []string
	for _, n := range m.Authors {
		if last, _ := identity.SplitName(n); last != "" {
			names = append(names, n)
		}
	}
	if authors := rec.Authors(names, rec.AuthorStrict); len(authors) > 0 {
		tx.SetAuthors(a, authors)
		ch.AuthorsReplaced = true
	}
	return ch
}
