package library

import (
	"fmt"
	"slices"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NewArticle creates an article with a fresh id and added timestamp.
func (t *Tx) NewArticle() *Article {
	a := &Article{
		ID:                NewID(),
		Added:             t.now(),
		AuthorsForDisplay: NoAuthors,
	}
	t.articles[a.ID] = a
	return a
}

// NewAuthor creates an author.
func (t *Tx) NewAuthor(lastname, firstname, middlenames string) *Author {
	a := &Author{
		ID:          NewID(),
		Lastname:    lastname,
		Firstname:   firstname,
		Middlenames: middlenames,
	}
	t.authors[a.ID] = a
	return a
}

// NewJournal creates a journal.
func (t *Tx) NewJournal(name, abbrev, issn string) *Journal {
	j := &Journal{
		ID:     NewID(),
		Name:   name,
		Abbrev: abbrev,
		ISSN:   issn,
	}
	t.journals[j.ID] = j
	return j
}

// NewKeyword creates a keyword.
func (t *Tx) NewKeyword(text string) *Keyword {
	k := &Keyword{ID: NewID(), Text: text}
	t.keywords[k.ID] = k
	return k
}

// mutate applies fn to a with the reverse indexes kept in step.
func (t *Tx) mutate(a *Article, fn func()) {
	t.unindexArticle(a)
	fn()
	t.indexArticle(a)
}

func uniqueAuthorIDs(authors []*Author) []string {
	ids := make([]string, 0, len(authors))
	for _, au := range authors {
		if au == nil || slices.Contains(ids, au.ID) {
			continue
		}
		ids = append(ids, au.ID)
	}
	return ids
}

// SetAuthors replaces the author list of a, dropping duplicates while
// keeping first-seen order.
func (t *Tx) SetAuthors(a *Article, authors []*Author) {
	t.mutate(a, func() {
		a.AuthorIDs = uniqueAuthorIDs(authors)
	})
	t.RecomputeAuthorsForDisplay(a)
}

// AddAuthor appends au to the author list unless already present.
func (t *Tx) AddAuthor(a *Article, au *Author) {
	if slices.Contains(a.AuthorIDs, au.ID) {
		return
	}
	t.mutate(a, func() {
		a.AuthorIDs = append(a.AuthorIDs, au.ID)
	})
	t.RecomputeAuthorsForDisplay(a)
}

// RemoveAuthor removes the author with the given id from the author list.
func (t *Tx) RemoveAuthor(a *Article, authorID string) {
	t.mutate(a, func() {
		a.AuthorIDs = slices.DeleteFunc(a.AuthorIDs, func(id string) bool { return id == authorID })
	})
	t.RecomputeAuthorsForDisplay(a)
}

// MoveAuthor moves the author at index from to index to.
func (t *Tx) MoveAuthor(a *Article, from, to int) error {
	n := len(a.AuthorIDs)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move author %d -> %d: index out of range (have %d)", from, to, n)
	}
	id := a.AuthorIDs[from]
	ids := slices.Delete(slices.Clone(a.AuthorIDs), from, from+1)
	a.AuthorIDs = slices.Insert(ids, to, id)
	t.RecomputeAuthorsForDisplay(a)
	return nil
}

// ReplaceAuthor puts au at position idx of the author list. When au
// already appears earlier in the list, that earlier position wins.
func (t *Tx) ReplaceAuthor(a *Article, idx int, au *Author) error {
	if idx < 0 || idx >= len(a.AuthorIDs) {
		return fmt.Errorf("replace author %d: index out of range (have %d)", idx, len(a.AuthorIDs))
	}
	authors := t.ArticleAuthors(a)
	authors[idx] = au
	t.SetAuthors(a, authors)
	return nil
}

// SetEditors replaces the editor list of a.
func (t *Tx) SetEditors(a *Article, editors []*Author) {
	t.mutate(a, func() {
		a.EditorIDs = uniqueAuthorIDs(editors)
	})
}

// SetJournal sets the journal of a; nil clears it.
func (t *Tx) SetJournal(a *Article, j *Journal) {
	t.mutate(a, func() {
		if j == nil {
			a.JournalID = ""
		} else {
			a.JournalID = j.ID
		}
	})
}

// AddKeyword attaches k to a.
func (t *Tx) AddKeyword(a *Article, k *Keyword) {
	if slices.Contains(a.KeywordIDs, k.ID) {
		return
	}
	t.mutate(a, func() {
		a.KeywordIDs = append(a.KeywordIDs, k.ID)
	})
}

// RemoveKeyword detaches the keyword with the given id from a.
func (t *Tx) RemoveKeyword(a *Article, keywordID string) {
	t.mutate(a, func() {
		a.KeywordIDs = slices.DeleteFunc(a.KeywordIDs, func(id string) bool { return id == keywordID })
	})
}

// SetPublished sets the publication date and derives Year from it. A nil
// date clears Published and leaves Year as it was.
func (t *Tx) SetPublished(a *Article, published *time.Time) {
	if published == nil {
		a.Published = nil
		return
	}
	p := *published
	a.Published = &p
	RecomputeYear(a)
}

// DeleteArticle removes an article. Its authors, journal and keywords stay.
func (t *Tx) DeleteArticle(id string) error {
	a, ok := t.articles[id]
	if !ok {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	t.unindexArticle(a)
	delete(t.articles, id)
	return nil
}

// DeleteAuthor removes an author that no article references.
func (t *Tx) DeleteAuthor(id string) error {
	if _, ok := t.authors[id]; !ok {
		return fmt.Errorf("author %s: %w", id, ErrNotFound)
	}
	if n := t.AuthorReferences(id); n > 0 {
		return fmt.Errorf("author %s: %w (%d articles)", id, ErrInUse, n)
	}
	delete(t.authors, id)
	return nil
}

// DeleteJournal removes a journal that no article references.
func (t *Tx) DeleteJournal(id string) error {
	if _, ok := t.journals[id]; !ok {
		return fmt.Errorf("journal %s: %w", id, ErrNotFound)
	}
	if n := t.JournalReferences(id); n > 0 {
		return fmt.Errorf("journal %s: %w (%d articles)", id, ErrInUse, n)
	}
	delete(t.journals, id)
	return nil
}

// DeleteKeyword detaches a keyword from every article and deletes it along
// with the collections bound to it.
func (t *Tx) DeleteKeyword(id string) error {
	if _, ok := t.keywords[id]; !ok {
		return fmt.Errorf("keyword %s: %w", id, ErrNotFound)
	}
	var tagged []string
	for articleID := range t.byKeyword[id] {
		tagged = append(tagged, articleID)
	}
	for _, articleID := range tagged {
		t.RemoveKeyword(t.articles[articleID], id)
	}
	for _, c := range t.Collections() {
		if c.Kind == CollectionKeyword && c.KeywordID == id {
			t.removeCollection(c.ID)
		}
	}
	delete(t.keywords, id)
	return nil
}

// TitleCaseJournal capitalizes every word of a journal name.
func (t *Tx) TitleCaseJournal(j *Journal) {
	j.Name = cases.Title(language.Und).String(j.Name)
}
