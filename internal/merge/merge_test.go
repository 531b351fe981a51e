package merge

import (
	"testing"
	"time"

	"github.com/matsen/bibliograph/internal/crossref"
	"github.com/matsen/bibliograph/internal/identity"
	"github.com/matsen/bibliograph/internal/library"
)

type fixture struct {
	tx      *library.Tx
	rec     *identity.Reconciler
	article *library.Article
	darwin  *library.Author
	nature  *library.Journal
}

func setup(t *testing.T) *fixture {
	t.Helper()
	lib := library.New(nil)
	seed := lib.Begin()
	darwin := seed.NewAuthor("Darwin", "Charles", "Robert")
	nature := seed.NewJournal("Nature", "Nature", "0028-0836")
	a := seed.NewArticle()
	a.Title = "Draft title"
	a.Pages = "1-2"
	a.Abstract = "Existing abstract"
	seed.SetAuthors(a, []*library.Author{seed.NewAuthor("Placeholder", "", "")})
	if err := seed.Commit(); err != nil {
		t.Fatal(err)
	}

	tx := lib.Begin()
	t.Cleanup(tx.Rollback)
	art, _ := tx.Article(a.ID)
	d, _ := tx.Author(darwin.ID)
	n, _ := tx.Journal(nature.ID)
	return &fixture{
		tx:      tx,
		rec:     identity.NewReconciler(tx, identity.Build(tx.Graph)),
		article: art,
		darwin:  d,
		nature:  n,
	}
}

func TestApply_Full(t *testing.T) {
	f := setup(t)
	m := &crossref.Match{
		Title:         "On the *origin* of species",
		DOI:           "10.5962/bhl.title.82303",
		Pages:         "1-502",
		Volume:        "1",
		Issue:         "2",
		Year:          "1859",
		Journal:       "Nature",
		JournalAbbrev: "Ignored",
		Authors:       []string{"Darwin, Char", "Wallace, Alfred Russel"},
		Abstract:      "New abstract",
	}

	ch := Apply(f.tx, f.rec, f.article, m)
	a := f.article

	if a.Title != "On the *origin* of species" {
		t.Errorf("Title = %q, want verbatim", a.Title)
	}
	if a.DOI != m.DOI || a.Pages != "1-502" || a.Volume != "1" || a.Issue != "2" || a.Year != 1859 {
		t.Errorf("scalars = %+v", a)
	}
	if a.Abstract != "Existing abstract" {
		t.Errorf("Abstract overwritten: %q", a.Abstract)
	}
	if a.JournalID != f.nature.ID || f.nature.Abbrev != "Nature" {
		t.Errorf("journal not reused unchanged: id=%s abbrev=%q", a.JournalID, f.nature.Abbrev)
	}

	authors := f.tx.ArticleAuthors(a)
	if len(authors) != 2 || authors[0].ID != f.darwin.ID {
		t.Fatalf("authors = %+v", authors)
	}
	if authors[1].Lastname != "Wallace" || authors[1].Firstname != "Alfred Russel" {
		t.Errorf("new author = %+v", authors[1])
	}
	if a.AuthorsForDisplay != "Darwin & Wallace" {
		t.Errorf("AuthorsForDisplay = %q", a.AuthorsForDisplay)
	}
	if !ch.AuthorsReplaced {
		t.Error("Changes.AuthorsReplaced = false")
	}
}

func TestApply_FirstnamePrefixRequired(t *testing.T) {
	f := setup(t)
	Apply(f.tx, f.rec, f.article, &crossref.Match{Authors: []string{"Darwin, Erasmus"}})

	authors := f.tx.ArticleAuthors(f.article)
	if len(authors) != 1 || authors[0].ID == f.darwin.ID {
		t.Fatalf("Darwin, Erasmus matched Charles Darwin: %+v", authors)
	}
	if authors[0].Firstname != "Erasmus" {
		t.Errorf("new author = %+v", authors[0])
	}
	if got := len(f.rec.Index().AuthorsNamed("Darwin")); got != 2 {
		t.Errorf("index has %d Darwins, want the new one registered", got)
	}
}

func TestApply_SameNewAuthorTwice(t *testing.T) {
	f := setup(t)
	Apply(f.tx, f.rec, f.article, &crossref.Match{Authors: []string{"Mayr, Ernst", "Mayr, Ernst"}})
	if got := len(f.article.AuthorIDs); got != 1 {
		t.Errorf("author list has %d entries, want 1", got)
	}
	if f.rec.Stats.AuthorsCreated != 1 {
		t.Errorf("AuthorsCreated = %d, want 1", f.rec.Stats.AuthorsCreated)
	}
}

func TestApply_PartialMatch(t *testing.T) {
	f := setup(t)
	before := f.article.AuthorIDs[0]

	ch := Apply(f.tx, f.rec, f.article, &crossref.Match{Year: "n.d.", Journal: "Evolution", ISSN: "0014-3820"})

	a := f.article
	if a.Title != "Draft title" || a.Pages != "1-2" {
		t.Errorf("absent fields cleared existing values: %+v", a)
	}
	if a.Year != 0 {
		t.Errorf("Year = %d from unparsable text", a.Year)
	}
	if len(a.AuthorIDs) != 1 || a.AuthorIDs[0] != before {
		t.Error("empty author resolution replaced existing authors")
	}
	if ch.AuthorsReplaced {
		t.Error("Changes.AuthorsReplaced = true")
	}
	j := f.tx.ArticleJournal(a)
	if j == nil || j.Name != "Evolution" || j.ISSN != "0014-3820" {
		t.Errorf("created journal = %+v", j)
	}
}

func TestApply_FillsMissingAbstract(t *testing.T) {
	f := setup(t)
	f.article.Abstract = ""
	Apply(f.tx, f.rec, f.article, &crossref.Match{Abstract: "From Crossref"})
	if f.article.Abstract != "From Crossref" {
		t.Errorf("Abstract = %q", f.article.Abstract)
	}
}

func TestApply_YearSurvivesCommit(t *testing.T) {
	lib := library.New(nil)
	seed := lib.Begin()
	a := seed.NewArticle()
	published := time.Date(2019, 3, 4, 0, 0, 0, 0, time.UTC)
	seed.SetPublished(a, &published)
	if err := seed.Commit(); err != nil {
		t.Fatal(err)
	}

	tx := lib.Begin()
	art, _ := tx.Article(a.ID)
	Apply(tx, identity.NewReconciler(tx, identity.Build(tx.Graph)), art, &crossref.Match{Year: "2021"})
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	got, _ := lib.Graph().Article(a.ID)
	if got.Year != 2021 {
		t.Errorf("committed Year = %d, want merged 2021", got.Year)
	}
	if got.Published == nil || !got.Published.Equal(published) {
		t.Errorf("Published = %v, want unchanged %v", got.Published, published)
	}
}
