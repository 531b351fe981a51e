// Package identity decides, for every author, journal and keyword named by
// incoming data, whether an existing library entity is reused or a new one
// is created.
//
// An Index is built once per import or merge session from the working
// graph of a transaction. It is not kept in sync with the graph on its own:
// every entity created during the session must be registered so that later
// records in the same batch find it. The Reconciler does this for callers.
package identity

import (
	"github.com/matsen/bibliograph/internal/library"
)

// Kind names an indexed entity type.
type Kind string

const (
	KindAuthor  Kind = "author"
	KindJournal Kind = "journal"
	KindKeyword Kind = "keyword"
)

// Index maps identity keys to entities: authors by lastname, journals by
// exact name, keywords by exact text.
type Index struct {
	authors        map[string]*library.Author
	authorsForLast map[string][]*library.Author
	journals       map[string]*library.Journal
	keywords       map[string]*library.Keyword
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		authors:        make(map[string]*library.Author),
		authorsForLast: make(map[string][]*library.Author),
		journals:       make(map[string]*library.Journal),
		keywords:       make(map[string]*library.Keyword),
	}
}

// Build scans g once. When several authors share a lastname the one
// scanned last is the lastname hit; all of them stay reachable through
// AuthorsNamed.
func Build(g *library.Graph) *Index {
	idx := NewIndex()
	for _, a := range g.Authors() {
		idx.AddAuthor(a)
	}
	for _, j := range g.Journals() {
		idx.AddJournal(j)
	}
	for _, k := range g.Keywords() {
		idx.AddKeyword(k)
	}
	return idx
}

// AddAuthor registers a. It becomes the lastname hit for a.Lastname.
func (idx *Index) AddAuthor(a *library.Author) {
	idx.authors[a.Lastname] = a
	idx.authorsForLast[a.Lastname] = append(idx.authorsForLast[a.Lastname], a)
}

// AddJournal registers j under its name.
func (idx *Index) AddJournal(j *library.Journal) {
	idx.journals[j.Name] = j
}

// AddKeyword registers k under its text.
func (idx *Index) AddKeyword(k *library.Keyword) {
	idx.keywords[k.Text] = k
}

// Author returns the author registered for lastname.
func (idx *Index) Author(lastname string) (*library.Author, bool) {
	a, ok := idx.authors[lastname]
	return a, ok
}

// AuthorsNamed returns every registered author with the given lastname in
// registration order.
func (idx *Index) AuthorsNamed(lastname string) []*library.Author {
	return idx.authorsForLast[lastname]
}

// Journal returns the journal registered under name.
func (idx *Index) Journal(name string) (*library.Journal, bool) {
	j, ok := idx.journals[name]
	return j, ok
}

// Keyword returns the keyword registered under text.
func (idx *Index) Keyword(text string) (*library.Keyword, bool) {
	k, ok := idx.keywords[text]
	return k, ok
}

// Lookup returns the id of the entity of the given kind registered under
// key, or "" and false.
func (idx *Index) Lookup(kind Kind, key string) (string, bool) {
	switch kind {
	case KindAuthor:
		if a, ok := idx.Author(key); ok {
			return a.ID, true
		}
	case KindJournal:
		if j, ok := idx.Journal(key); ok {
			return j.ID, true
		}
	case KindKeyword:
		if k, ok := idx.Keyword(key); ok {
			return k.ID, true
		}
	}
	return "", false
}

// Len returns the number of registered keys per kind.
func (idx *Index) Len(kind Kind) int {
	switch kind {
	case KindAuthor:
		return len(idx.authors)
	case KindJournal:
		return len(idx.journals)
	case KindKeyword:
		return len(idx.keywords)
	}
	return 0
}
