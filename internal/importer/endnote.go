package importer

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// ErrParse indicates an export file that could not be read as a whole.
var ErrParse = errors.New("parse error")

// The export embeds this presentation markup inside text nodes.
const (
	styleOpen  = `<style face="normal" font="default" size="100%">`
	styleClose = `</style>`
)

// xmlText collects all character data below an element, including text
// nested in leftover markup elements.
type xmlText string

func (t *xmlText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
				*t = xmlText(strings.TrimSpace(b.String()))
				return nil
			}
			depth--
		}
	}
}

func (t xmlText) String() string { return string(t) }

func texts(ts []xmlText) []string {
	var out []string
	for _, t := range ts {
		if t != "" {
			out = append(out, string(t))
		}
	}
	return out
}

type endnoteXML struct {
	XMLName xml.Name        `xml:"xml"`
	Records []endnoteRecord `xml:"records>record"`
}

type endnoteAuthors struct {
	Author []xmlText `xml:"author"`
}

type endnotePeriodical struct {
	FullTitle xmlText `xml:"full-title"`
	Abbr1     xmlText `xml:"abbr-1"`
}

type endnoteRecord struct {
	RefType struct {
		Name string `xml:"name,attr"`
	} `xml:"ref-type"`
	Contributors struct {
		Authors          []endnoteAuthors `xml:"authors"`
		SecondaryAuthors endnoteAuthors   `xml:"secondary-authors"`
	} `xml:"contributors"`
	Titles struct {
		Title          xmlText `xml:"title"`
		SecondaryTitle xmlText `xml:"secondary-title"`
	} `xml:"titles"`
	Periodical []endnotePeriodical `xml:"periodical"`
	Pages       xmlText             `xml:"pages"`
	Volume      xmlText             `xml:"volume"`
	Number      xmlText             `xml:"number"`
	Edition     xmlText             `xml:"edition"`
	ISBN        xmlText             `xml:"isbn"`
	Abstract    xmlText             `xml:"abstract"`
	PubLocation xmlText             `xml:"pub-location"`
	Publisher   xmlText             `xml:"publisher"`
	Keywords    []xmlText           `xml:"keywords>keyword"`
	Dates       struct {
		Year    xmlText `xml:"year"`
		PubDate xmlText `xml:"pub-dates>date"`
	} `xml:"dates"`
	URLs struct {
		Related []xmlText `xml:"related-urls>url"`
		PDF     []xmlText `xml:"pdf-urls>url"`
	} `xml:"urls"`
}

// ParseEndNote parses an EndNote XML export. The style wrapper tags are
// removed before parsing. Any decoding failure is reported as ErrParse and
// no records are returned.
func ParseEndNote(data []byte) ([]Record, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: file is not valid UTF-8", ErrParse)
	}
	data = bytes.ReplaceAll(data, []byte(styleOpen), nil)
	data = bytes.ReplaceAll(data, []byte(styleClose), nil)

	var doc endnoteXML
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = xml.HTMLEntity
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	records := make([]Record, 0, len(doc.Records))
	for _, r := range doc.Records {
		records = append(records, r.toRecord())
	}
	return records, nil
}

func (r endnoteRecord) toRecord() Record {
	rec := Record{
		Type:        strings.TrimSpace(r.RefType.Name),
		Title:       r.Titles.Title.String(),
		Subtitle:    r.Titles.SecondaryTitle.String(),
		Year:        r.Dates.Year.String(),
		PubDate:     r.Dates.PubDate.String(),
		Pages:       r.Pages.String(),
		Volume:      r.Volume.String(),
		Issue:       r.Number.String(),
		Edition:     r.Edition.String(),
		ISBN:        r.ISBN.String(),
		Abstract:    r.Abstract.String(),
		City:        r.PubLocation.String(),
		PublishedBy: r.Publisher.String(),
		Keywords:    texts(r.Keywords),
	}

	// The first authors list holds authors; a second one, present for
	// books, holds editors.
	if len(r.Contributors.Authors) > 0 {
		rec.Authors = texts(r.Contributors.Authors[0].Author)
	}
	if len(r.Contributors.Authors) > 1 {
		rec.Editors = texts(r.Contributors.Authors[1].Author)
	}
	if len(rec.Editors) == 0 {
		rec.Editors = texts(r.Contributors.SecondaryAuthors.Author)
	}

	for _, p := range r.Periodical {
		if p.FullTitle != "" {
			rec.Journal = p.FullTitle.String()
			rec.JournalAbbrev = p.Abbr1.String()
		}
	}

	if urls := texts(r.URLs.Related); len(urls) > 0 {
		rec.DOI = urls[0]
	}
	if urls := texts(r.URLs.PDF); len(urls) > 0 {
		rec.PDFPath = localPath(urls[0])
	}
	return rec
}

// localPath turns a file URL into a path; other values are returned as is.
func localPath(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.Scheme != "file" {
		return s
	}
	return u.Path
}
