package identity

import (
	"strings"

	"github.com/matsen/bibliograph/internal/library"
)

// NameSeparator splits "Lastname, Given names" author strings.
const NameSeparator = ", "

// SplitName splits a "Lastname, Given names" string. A name without the
// separator is all lastname.
func SplitName(full string) (lastname, rest string) {
	lastname, rest, _ = strings.Cut(full, NameSeparator)
	return lastname, rest
}

// Stats counts the entities a Reconciler created and reused.
type Stats struct {
	AuthorsCreated  int `json:"authors_created"`
	AuthorsReused   int `json:"authors_reused"`
	JournalsCreated int `json:"journals_created"`
	JournalsReused  int `json:"journals_reused"`
	KeywordsCreated int `json:"keywords_created"`
	KeywordsReused  int `json:"keywords_reused"`
}

// Reconciler resolves names against an Index, creating missing entities in
// a transaction and registering them immediately.
type Reconciler struct {
	tx    *library.Tx
	idx   *Index
	Stats Stats
}

// NewReconciler binds idx to tx. idx must have been built from tx's graph.
func NewReconciler(tx *library.Tx, idx *Index) *Reconciler {
	return &Reconciler{tx: tx, idx: idx}
}

// Index returns the session index.
func (r *Reconciler) Index() *Index { return r.idx }

// Author resolves a "Lastname, Given names" string by lastname alone. A new
// author takes the first given name as firstname and the second, if any,
// as middlenames.
func (r *Reconciler) Author(full string) *library.Author {
	lastname, rest := SplitName(full)
	if a, ok := r.idx.Author(lastname); ok {
		r.Stats.AuthorsReused++
		return a
	}

	var first, middle string
	given := strings.Fields(rest)
	if len(given) > 0 {
		first = given[0]
	}
	if len(given) > 1 {
		middle = given[1]
	}
	return r.createAuthor(lastname, first, middle)
}

// AuthorStrict resolves a "Lastname, Firstname" string, reusing an author
// only when the lastname matches and the existing firstname starts with
// the given one. A new author keeps the whole remainder as firstname.
func (r *Reconciler) AuthorStrict(full string) *library.Author {
	lastname, first := SplitName(full)
	for _, a := range r.idx.AuthorsNamed(lastname) {
		if strings.HasPrefix(a.Firstname, first) {
			r.Stats.AuthorsReused++
			return a
		}
	}
	return r.createAuthor(lastname, first, "")
}

func (r *Reconciler) createAuthor(lastname, first, middle string) *library.Author {
	a := r.tx.NewAuthor(lastname, first, middle)
	r.idx.AddAuthor(a)
	r.Stats.AuthorsCreated++
	return a
}

// Authors resolves each name with resolve and drops repeats, keeping the
// first occurrence.
func (r *Reconciler) Authors(names []string, resolve func(string) *library.Author) []*library.Author {
	var out []*library.Author
	seen := make(map[string]bool)
	for _, n := range names {
		a := resolve(n)
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out
}

// Journal resolves a journal by exact name. A new journal copies abbrev and
// issn; an existing one is returned unchanged.
func (r *Reconciler) Journal(name, abbrev, issn string) *library.Journal {
	if j, ok := r.idx.Journal(name); ok {
		r.Stats.JournalsReused++
		return j
	}
	j := r.tx.NewJournal(name, abbrev, issn)
	r.idx.AddJournal(j)
	r.Stats.JournalsCreated++
	return j
}

// Keyword resolves a keyword by exact text.
func (r *Reconciler) Keyword(text string) *library.Keyword {
	if k, ok := r.idx.Keyword(text); ok {
		r.Stats.KeywordsReused++
		return k
	}
	k := r.tx.NewKeyword(text)
	r.idx.AddKeyword(k)
	r.Stats.KeywordsCreated++
	return k
}
