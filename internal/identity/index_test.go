package identity

import (
	"testing"

	"github.com/matsen/bibliograph/internal/library"
)

func newSession(t *testing.T) (*library.Tx, *Reconciler) {
	t.Helper()
	lib := library.New(nil)
	seed := lib.Begin()
	seed.NewAuthor("Darwin", "Charles", "Robert")
	seed.NewJournal("Nature", "Nature", "0028-0836")
	seed.NewKeyword("evolution")
	if err := seed.Commit(); err != nil {
		t.Fatal(err)
	}

	tx := lib.Begin()
	t.Cleanup(tx.Rollback)
	return tx, NewReconciler(tx, Build(tx.Graph))
}

func TestBuild_Lookup(t *testing.T) {
	tx, r := newSession(t)
	idx := r.Index()

	tests := []struct {
		kind Kind
		key  string
		want bool
	}{
		{KindAuthor, "Darwin", true},
		{KindAuthor, "darwin", false},
		{KindJournal, "Nature", true},
		{KindJournal, "Nature Genetics", false},
		{KindKeyword, "evolution", true},
		{KindKeyword, "Evolution", false},
		{Kind("unknown"), "Nature", false},
	}
	for _, tt := range tests {
		id, ok := idx.Lookup(tt.kind, tt.key)
		if ok != tt.want {
			t.Errorf("Lookup(%s, %q) ok = %v, want %v", tt.kind, tt.key, ok, tt.want)
		}
		if ok && id == "" {
			t.Errorf("Lookup(%s, %q) returned empty id", tt.kind, tt.key)
		}
	}

	if n := idx.Len(KindJournal); n != len(tx.Journals()) {
		t.Errorf("Len(journal) = %d, want %d", n, len(tx.Journals()))
	}
}

func TestReconciler_RegistersNewEntities(t *testing.T) {
	tx, r := newSession(t)

	first := r.Journal("Evolution", "Evol.", "")
	second := r.Journal("Evolution", "Different", "1234")
	if first.ID != second.ID {
		t.Fatal("journal created twice within one session")
	}
	if second.Abbrev != "Evol." {
		t.Errorf("reused journal was modified: abbrev = %q", second.Abbrev)
	}

	k1 := r.Keyword("speciation")
	k2 := r.Keyword("speciation")
	if k1.ID != k2.ID {
		t.Error("keyword created twice within one session")
	}

	if r.Stats.JournalsCreated != 1 || r.Stats.JournalsReused != 1 {
		t.Errorf("journal stats = %+v", r.Stats)
	}
	if got := len(tx.Journals()); got != 2 {
		t.Errorf("journals in tx = %d, want 2", got)
	}
}

func TestReconciler_Author(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantLast   string
		wantFirst  string
		wantMiddle string
	}{
		{"full", "Wallace, Alfred Russel", "Wallace", "Alfred", "Russel"},
		{"first only", "Mendel, Gregor", "Mendel", "Gregor", ""},
		{"lastname only", "Aristotle", "Aristotle", "", ""},
		{"three given names", "Haldane, John Burdon Sanderson", "Haldane", "John", "Burdon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, r := newSession(t)
			a := r.Author(tt.input)
			if a.Lastname != tt.wantLast || a.Firstname != tt.wantFirst || a.Middlenames != tt.wantMiddle {
				t.Errorf("Author(%q) = %q/%q/%q, want %q/%q/%q", tt.input,
					a.Lastname, a.Firstname, a.Middlenames, tt.wantLast, tt.wantFirst, tt.wantMiddle)
			}
			if _, ok := r.Index().Author(tt.wantLast); !ok {
				t.Error("new author not registered in index")
			}
		})
	}
}

func TestReconciler_AuthorMatchesLastnameOnly(t *testing.T) {
	_, r := newSession(t)
	a := r.Author("Darwin, Erasmus")
	if a.Firstname != "Charles" {
		t.Errorf("Author(Darwin, Erasmus) = %q, want existing Charles Darwin", a.Firstname)
	}
	if r.Stats.AuthorsCreated != 0 {
		t.Errorf("AuthorsCreated = %d, want 0", r.Stats.AuthorsCreated)
	}
}

func TestReconciler_AuthorStrict(t *testing.T) {
	_, r := newSession(t)

	if a := r.AuthorStrict("Darwin, Char"); a.Firstname != "Charles" {
		t.Errorf("prefix match failed: got %q", a.Firstname)
	}

	erasmus := r.AuthorStrict("Darwin, Erasmus")
	if erasmus.Firstname != "Erasmus" {
		t.Errorf("AuthorStrict created %q, want Erasmus", erasmus.Firstname)
	}
	if again := r.AuthorStrict("Darwin, Erasmus"); again.ID != erasmus.ID {
		t.Error("AuthorStrict did not reuse the author it just created")
	}

	if a := r.AuthorStrict("Fisher, Ronald Aylmer"); a.Firstname != "Ronald Aylmer" || a.Middlenames != "" {
		t.Errorf("AuthorStrict new author = %q/%q", a.Firstname, a.Middlenames)
	}
}

func TestReconciler_AuthorsDeduplicates(t *testing.T) {
	_, r := newSession(t)
	got := r.Authors([]string{"Darwin, C", "Wallace, A", "Darwin, Charles"}, r.Author)
	if len(got) != 2 {
		t.Fatalf("Authors() returned %d, want 2", len(got))
	}
	if got[0].Lastname != "Darwin" || got[1].Lastname != "Wallace" {
		t.Errorf("order = %s, %s", got[0].Lastname, got[1].Lastname)
	}
}
