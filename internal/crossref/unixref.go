package crossref

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// text collects the character data of an element and its descendants, so
// that JATS inline markup inside an abstract paragraph is kept as text.
type text string

func (t *text) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case xml.CharData:
			b.Write(v)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				*t = text(strings.Join(strings.Fields(b.String()), " "))
				return nil
			}
			depth--
		}
	}
}

func first(ts []text) string {
	if len(ts) == 0 {
		return ""
	}
	return string(ts[0])
}

type unixrefResult struct {
	XMLName xml.Name `xml:"crossref_result"`
	Query   struct {
		Status    string     `xml:"status,attr"`
		DOIRecord *doiRecord `xml:"doi_record"`
	} `xml:"query_result>body>query"`
}

type doiRecord struct {
	Journal struct {
		Metadata struct {
			FullTitle   []text `xml:"full_title"`
			AbbrevTitle []text `xml:"abbrev_title"`
			ISSN        []text `xml:"issn"`
		} `xml:"journal_metadata"`
		Issue struct {
			Issue  []text `xml:"issue"`
			Volume []text `xml:"journal_volume>volume"`
		} `xml:"journal_issue"`
		Articles []journalArticle `xml:"journal_article"`
	} `xml:"crossref>journal"`
}

type journalArticle struct {
	Titles  []text `xml:"titles>title"`
	Persons []struct {
		Surname   text `xml:"surname"`
		GivenName text `xml:"given_name"`
	} `xml:"contributors>person_name"`
	Abstracts []struct {
		Paragraphs []text `xml:"p"`
	} `xml:"abstract"`
	DOI   []text `xml:"doi_data>doi"`
	Dates []struct {
		Year  text `xml:"year"`
		Month text `xml:"month"`
		Day   text `xml:"day"`
	} `xml:"publication_date"`
	Pages struct {
		FirstPage text `xml:"first_page"`
		LastPage  text `xml:"last_page"`
	} `xml:"pages"`
}

// ParseUnixref decodes a unixref response into a Match. Missing fields are
// left empty. A response whose query has no doi_record is ErrNotFound;
// a body that does not decode is ErrInvalidResponse.
func ParseUnixref(data []byte) (*Match, error) {
	var res unixrefResult
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = xml.HTMLEntity
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	rec := res.Query.DOIRecord
	if rec == nil {
		return nil, fmt.Errorf("%w (query status %q)", ErrNotFound, res.Query.Status)
	}

	j := rec.Journal
	m := &Match{
		Journal:       first(j.Metadata.FullTitle),
		JournalAbbrev: first(j.Metadata.AbbrevTitle),
		ISSN:          first(j.Metadata.ISSN),
		Issue:         first(j.Issue.Issue),
		Volume:        first(j.Issue.Volume),
	}
	for _, a := range j.Articles {
		a.applyTo(m)
	}
	return m, nil
}

// applyTo copies the fields present in a onto m. Later articles in the
// same record override earlier ones; authors accumulate.
func (a journalArticle) applyTo(m *Match) {
	if t := first(a.Titles); t != "" {
		m.Title = t
	}
	for _, p := range a.Persons {
		m.Authors = append(m.Authors, string(p.Surname)+", "+string(p.GivenName))
	}
	// Of the first two abstracts, the second wins when present.
	for i, abs := range a.Abstracts {
		if i > 1 {
			break
		}
		if p := first(abs.Paragraphs); p != "" {
			m.Abstract = p
		}
	}
	if d := first(a.DOI); d != "" {
		m.DOI = d
	}
	if len(a.Dates) > 0 {
		d := a.Dates[0]
		if d.Year != "" {
			m.Year = string(d.Year)
		}
		if d.Month != "" {
			m.Month = string(d.Month)
		}
		if d.Day != "" {
			m.Day = string(d.Day)
		}
	}
	if fp := string(a.Pages.FirstPage); fp != "" {
		m.Pages = fp
		if lp := string(a.Pages.LastPage); lp != "" {
			m.Pages += "-" + lp
		}
	}
}
