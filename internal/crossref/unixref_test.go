package crossref

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseUnixref_Full(t *testing.T) {
	m, err := ParseUnixref(readFixture(t, "unixref_full.xml"))
	if err != nil {
		t.Fatalf("ParseUnixref() error = %v", err)
	}

	want := &Match{
		Journal:       "Animal Conservation",
		JournalAbbrev: "Anim Conserv",
		ISSN:          "1367-9430",
		Issue:         "6",
		Volume:        "18",
		Title:         "Bats in the anthropocene",
		Authors:       []string{"Runkel, Volker", "Rainho, Ana"},
		Abstract:      "Urban Pipistrellus populations are growing.",
		DOI:           "10.1111/acv.12200",
		Year:          "2015",
		Month:         "05",
		Day:           "12",
		Pages:         "509-518",
	}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("ParseUnixref() =\n%+v\nwant\n%+v", m, want)
	}
}

func TestParseUnixref_MissingAbstract(t *testing.T) {
	m, err := ParseUnixref(readFixture(t, "unixref_no_abstract.xml"))
	if err != nil {
		t.Fatalf("ParseUnixref() error = %v", err)
	}
	if m.Abstract != "" {
		t.Errorf("Abstract = %q, want empty", m.Abstract)
	}
	if m.Title != "Speciation by distance" || m.Journal != "Evolution" || m.Year != "1943" {
		t.Errorf("present fields not populated: %+v", m)
	}
	if m.Pages != "114" {
		t.Errorf("Pages = %q, want first page only", m.Pages)
	}
	if len(m.Authors) != 1 || m.Authors[0] != "Wright, Sewall" {
		t.Errorf("Authors = %q", m.Authors)
	}
	if m.JournalAbbrev != "" || m.ISSN != "" || m.Volume != "" || m.Issue != "" || m.Month != "" {
		t.Errorf("absent fields populated: %+v", m)
	}
}

func TestParseUnixref_SingleAbstract(t *testing.T) {
	data := []byte(`<crossref_result><query_result><body><query><doi_record><crossref><journal>
		<journal_article>
			<jats:abstract xmlns:jats="http://www.ncbi.nlm.nih.gov/JATS1"><jats:p>Only one.</jats:p></jats:abstract>
		</journal_article>
	</journal></crossref></doi_record></query></body></query_result></crossref_result>`)

	m, err := ParseUnixref(data)
	if err != nil {
		t.Fatal(err)
	}
	if m.Abstract != "Only one." {
		t.Errorf("Abstract = %q", m.Abstract)
	}
}

func TestParseUnixref_Errors(t *testing.T) {
	if _, err := ParseUnixref([]byte("<crossref_result><query_result>")); !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("truncated: error = %v, want ErrInvalidResponse", err)
	}
	if _, err := ParseUnixref(readFixture(t, "unixref_unresolved.xml")); !errors.Is(err, ErrNotFound) {
		t.Errorf("unresolved: error = %v, want ErrNotFound", err)
	}
}
