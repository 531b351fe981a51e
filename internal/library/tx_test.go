package library

import (
	"errors"
	"testing"
	"time"
)

func newTestTx(t *testing.T) *Tx {
	t.Helper()
	tx := New(nil).Begin()
	t.Cleanup(tx.Rollback)
	return tx
}

func TestTx_AuthorMutationsRecomputeDisplay(t *testing.T) {
	tx := newTestTx(t)
	a := tx.NewArticle()
	if a.AuthorsForDisplay != "---" {
		t.Fatalf("new article AuthorsForDisplay = %q, want ---", a.AuthorsForDisplay)
	}

	smith := tx.NewAuthor("Smith", "John", "")
	doe := tx.NewAuthor("Doe", "Jane", "")
	roe := tx.NewAuthor("Roe", "Richard", "")

	tx.AddAuthor(a, smith)
	if a.AuthorsForDisplay != "Smith" {
		t.Errorf("after add = %q, want Smith", a.AuthorsForDisplay)
	}

	tx.AddAuthor(a, doe)
	if a.AuthorsForDisplay != "Smith & Doe" {
		t.Errorf("after second add = %q, want Smith & Doe", a.AuthorsForDisplay)
	}

	tx.AddAuthor(a, smith)
	if len(a.AuthorIDs) != 2 {
		t.Errorf("duplicate add grew list to %d", len(a.AuthorIDs))
	}

	tx.AddAuthor(a, roe)
	if a.AuthorsForDisplay != "Smith et al." {
		t.Errorf("after third add = %q, want Smith et al.", a.AuthorsForDisplay)
	}

	if err := tx.MoveAuthor(a, 2, 0); err != nil {
		t.Fatalf("MoveAuthor() error = %v", err)
	}
	if a.AuthorsForDisplay != "Roe et al." {
		t.Errorf("after move = %q, want Roe et al.", a.AuthorsForDisplay)
	}

	tx.RemoveAuthor(a, roe.ID)
	if a.AuthorsForDisplay != "Smith & Doe" {
		t.Errorf("after remove = %q, want Smith & Doe", a.AuthorsForDisplay)
	}

	other := tx.NewAuthor("Black", "", "")
	if err := tx.ReplaceAuthor(a, 1, other); err != nil {
		t.Fatalf("ReplaceAuthor() error = %v", err)
	}
	if a.AuthorsForDisplay != "Smith & Black" {
		t.Errorf("after replace = %q, want Smith & Black", a.AuthorsForDisplay)
	}

	tx.SetAuthors(a, nil)
	if a.AuthorsForDisplay != "---" {
		t.Errorf("after clear = %q, want ---", a.AuthorsForDisplay)
	}
}

func TestTx_MoveAuthorOutOfRange(t *testing.T) {
	tx := newTestTx(t)
	a := tx.NewArticle()
	tx.AddAuthor(a, tx.NewAuthor("Smith", "", ""))
	if err := tx.MoveAuthor(a, 0, 3); err == nil {
		t.Error("MoveAuthor() expected error for out-of-range index")
	}
	if err := tx.ReplaceAuthor(a, 5, tx.NewAuthor("Doe", "", "")); err == nil {
		t.Error("ReplaceAuthor() expected error for out-of-range index")
	}
}

func TestTx_ReplaceAuthorKeepsEarlierDuplicate(t *testing.T) {
	tx := newTestTx(t)
	a := tx.NewArticle()
	x := tx.NewAuthor("X", "", "")
	y := tx.NewAuthor("Y", "", "")
	z := tx.NewAuthor("Z", "", "")
	tx.SetAuthors(a, []*Author{x, y, z})

	if err := tx.ReplaceAuthor(a, 2, x); err != nil {
		t.Fatalf("ReplaceAuthor() error = %v", err)
	}
	if len(a.AuthorIDs) != 2 || a.AuthorIDs[0] != x.ID || a.AuthorIDs[1] != y.ID {
		t.Errorf("AuthorIDs = %v, want [%s %s]", a.AuthorIDs, x.ID, y.ID)
	}
}

func TestTx_SetPublished(t *testing.T) {
	tx := newTestTx(t)
	a := tx.NewArticle()
	a.Year = 1980

	tx.SetPublished(a, nil)
	if a.Year != 1980 {
		t.Errorf("Year = %d after clearing date, want 1980", a.Year)
	}

	p := time.Date(2003, time.July, 1, 0, 0, 0, 0, time.UTC)
	tx.SetPublished(a, &p)
	if a.Year != 2003 {
		t.Errorf("Year = %d, want 2003", a.Year)
	}
	if a.Published == &p {
		t.Error("SetPublished stored the caller's pointer")
	}
}

func TestTx_DeleteAuthorInUse(t *testing.T) {
	lib := New(nil)
	tx := lib.Begin()
	a := tx.NewArticle()
	au := tx.NewAuthor("Smith", "John", "")
	tx.AddAuthor(a, au)
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	tx = lib.Begin()
	err := tx.DeleteAuthor(au.ID)
	if !errors.Is(err, ErrInUse) {
		t.Fatalf("DeleteAuthor() error = %v, want ErrInUse", err)
	}
	if _, ok := tx.Author(au.ID); !ok {
		t.Error("author was removed despite refusal")
	}
	tx.Rollback()

	if _, ok := lib.Graph().Author(au.ID); !ok {
		t.Error("author missing from committed graph")
	}
}

func TestTx_DeleteEditorInUse(t *testing.T) {
	tx := newTestTx(t)
	a := tx.NewArticle()
	ed := tx.NewAuthor("Editor", "", "")
	tx.SetEditors(a, []*Author{ed})

	if err := tx.DeleteAuthor(ed.ID); !errors.Is(err, ErrInUse) {
		t.Errorf("DeleteAuthor() error = %v, want ErrInUse", err)
	}

	tx.SetEditors(a, nil)
	if err := tx.DeleteAuthor(ed.ID); err != nil {
		t.Errorf("DeleteAuthor() after detaching error = %v", err)
	}
}

func TestTx_DeleteJournal(t *testing.T) {
	tx := newTestTx(t)
	a := tx.NewArticle()
	j := tx.NewJournal("Nature", "Nat.", "")
	tx.SetJournal(a, j)

	if err := tx.DeleteJournal(j.ID); !errors.Is(err, ErrInUse) {
		t.Fatalf("DeleteJournal() error = %v, want ErrInUse", err)
	}

	if err := tx.DeleteArticle(a.ID); err != nil {
		t.Fatalf("DeleteArticle() error = %v", err)
	}
	if err := tx.DeleteJournal(j.ID); err != nil {
		t.Errorf("DeleteJournal() error = %v", err)
	}
	if err := tx.DeleteJournal(j.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteJournal() error = %v, want ErrNotFound", err)
	}
}

func TestTx_DeleteKeywordDetachesAndRemovesCollection(t *testing.T) {
	tx := newTestTx(t)
	k := tx.NewKeyword("evolution")
	a := tx.NewArticle()
	b := tx.NewArticle()
	tx.AddKeyword(a, k)
	tx.AddKeyword(b, k)
	c := tx.NewKeywordCollection(k)

	if err := tx.DeleteKeyword(k.ID); err != nil {
		t.Fatalf("DeleteKeyword() error = %v", err)
	}
	if len(a.KeywordIDs) != 0 || len(b.KeywordIDs) != 0 {
		t.Errorf("keyword still attached: %v %v", a.KeywordIDs, b.KeywordIDs)
	}
	if _, ok := tx.Collection(c.ID); ok {
		t.Error("keyword collection survived keyword deletion")
	}
	if _, ok := tx.Keyword(k.ID); ok {
		t.Error("keyword survived deletion")
	}
}

func TestTx_TitleCaseJournal(t *testing.T) {
	tx := newTestTx(t)
	j := tx.NewJournal("journal of theoretical biology", "", "")
	tx.TitleCaseJournal(j)
	if j.Name != "Journal Of Theoretical Biology" {
		t.Errorf("Name = %q", j.Name)
	}
}
