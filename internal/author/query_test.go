package author

import (
	"testing"

	"github.com/matsen/bibliograph/internal/library"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Query
	}{
		{"last name only", "Felsenstein", Query{Last: "Felsenstein"}},
		{"first last", "Joseph Felsenstein", Query{First: "Joseph", Last: "Felsenstein"}},
		{"first middle last", "Ronald A Fisher", Query{First: "Ronald A", Last: "Fisher"}},
		{"comma form", "Fisher, Ronald", Query{First: "Ronald", Last: "Fisher"}},
		{"comma form extra space", "Fisher,   Ronald A", Query{First: "Ronald A", Last: "Fisher"}},
		{"surrounding space", "  Wright ", Query{Last: "Wright"}},
		{"empty", "", Query{}},
		{"blank", "  \t ", Query{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseQuery(tt.input); got != tt.want {
				t.Errorf("ParseQuery(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestQuery_Matches(t *testing.T) {
	fisher := &library.Author{Lastname: "Fisher", Firstname: "Ronald", Middlenames: "Aylmer"}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"last only", "Fisher", true},
		{"case insensitive", "fisher", true},
		{"first prefix", "Ron Fisher", true},
		{"first and middle", "Ronald Aylmer Fisher", true},
		{"comma form", "Fisher, R", true},
		{"wrong first", "Sewall Fisher", false},
		{"last name is not a prefix match", "Fish", false},
		{"empty query", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseQuery(tt.query).Matches(fisher); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilterArticles(t *testing.T) {
	lib := library.New(nil)
	tx := lib.Begin()
	fisher := tx.NewAuthor("Fisher", "Ronald", "")
	wright := tx.NewAuthor("Wright", "Sewall", "")
	haldane := tx.NewAuthor("Haldane", "John", "")

	both := tx.NewArticle()
	tx.SetAuthors(both, []*library.Author{fisher, wright})
	solo := tx.NewArticle()
	tx.SetAuthors(solo, []*library.Author{haldane})
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	g := lib.Graph()
	got := FilterArticles(g, []Query{ParseQuery("Fisher"), ParseQuery("Wright")})
	if len(got) != 1 || got[0].ID != both.ID {
		t.Errorf("FilterArticles(Fisher AND Wright) = %d articles, want the joint one", len(got))
	}

	got = FilterArticles(g, []Query{ParseQuery("Haldane, J")})
	if len(got) != 1 || got[0].ID != solo.ID {
		t.Errorf("FilterArticles(Haldane) = %d articles", len(got))
	}

	if got := FilterArticles(g, []Query{ParseQuery("Kimura")}); len(got) != 0 {
		t.Errorf("FilterArticles(Kimura) = %d articles, want 0", len(got))
	}
}
