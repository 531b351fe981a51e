package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexibleString unmarshals from either a JSON string or number.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(n.String())
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexibleString", string(data))
}

func (f FlexibleString) String() string {
	return strings.TrimSpace(string(f))
}

// PaperpileEntry is one entry of a Paperpile JSON export.
type PaperpileEntry struct {
	ID        string `json:"_id"`
	Citekey   string `json:"citekey"`
	DOI       string `json:"doi"`
	Title     string `json:"title"`
	Abstract  string `json:"abstract"`
	Journal   string `json:"journal"`
	Published struct {
		Year  FlexibleString `json:"year"`
		Month FlexibleString `json:"month"`
		Day   FlexibleString `json:"day"`
	} `json:"published"`
	Author []struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"author"`
	Editor []struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"editor"`
	Attachments []struct {
		ArticlePDF int    `json:"article_pdf"` // 1 = main PDF
		Filename   string `json:"filename"`
	} `json:"attachments"`
}

// ParsePaperpile parses a Paperpile JSON export. Entries without a title
// are reported in the error list and skipped; a document that is not a
// JSON array yields a single error wrapping ErrParse.
func ParsePaperpile(data []byte) ([]Record, []error) {
	var entries []PaperpileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, []error{fmt.Errorf("%w: Paperpile JSON: %v", ErrParse, err)}
	}

	var (
		records []Record
		errs    []error
	)
	for i, entry := range entries {
		if strings.TrimSpace(entry.Title) == "" {
			errs = append(errs, fmt.Errorf("entry %d (%s): missing title", i+1, entry.label()))
			continue
		}
		records = append(records, entry.toRecord())
	}
	return records, errs
}

func (e PaperpileEntry) label() string {
	if e.Citekey != "" {
		return e.Citekey
	}
	return e.ID
}

func (e PaperpileEntry) toRecord() Record {
	rec := Record{
		Title:    e.Title,
		DOI:      e.DOI,
		Abstract: e.Abstract,
		Journal:  e.Journal,
		Year:     e.Published.Year.String(),
		PubDate:  paperpileDayMonth(e.Published.Month.String(), e.Published.Day.String()),
	}
	for _, a := range e.Author {
		rec.Authors = append(rec.Authors, joinName(a.Last, a.First))
	}
	for _, a := range e.Editor {
		rec.Editors = append(rec.Editors, joinName(a.Last, a.First))
	}
	for _, att := range e.Attachments {
		if att.ArticlePDF == 1 {
			rec.PDFPath = att.Filename
			break
		}
	}
	return rec
}

func joinName(last, first string) string {
	if first == "" {
		return last
	}
	return last + ", " + first
}

// paperpileDayMonth renders numeric month and day as "Mar 4" or "March",
// the forms parsePubDate reads.
func paperpileDayMonth(month, day string) string {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return ""
	}
	name := time.Month(m).String()
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return name
	}
	return name + " " + strconv.Itoa(d)
}
