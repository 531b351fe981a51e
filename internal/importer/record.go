package importer

import (
	"strconv"
	"strings"
	"time"
)

// Record is one bibliographic entry as read from an export file, before
// reconciliation. Empty strings mean the field was absent.
type Record struct {
	Type     string
	Title    string
	Subtitle string

	// Authors and Editors hold "Lastname, Given names" strings.
	Authors []string
	Editors []string

	// Year is the raw year text. PubDate is the day and month within
	// that year, e.g. "Mar 4".
	Year    string
	PubDate string

	// DOI is the DOI or DOI URL as given. PDFPath names a local file.
	DOI     string
	PDFPath string

	Pages       string
	Volume      string
	Issue       string
	Edition     string
	ISBN        string
	Abstract    string
	City        string
	PublishedBy string

	Journal       string
	JournalAbbrev string
	JournalISSN   string

	Keywords []string
}

// dateLayouts are tried in order against "<PubDate> <Year>".
var dateLayouts = []string{
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2006",
	"January 2006",
}

// parseYear returns the integer year, or 0 for text that is not a number.
func parseYear(s string) int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return y
}

// parsePubDate combines day-and-month text with a year using English month
// names. It returns nil when nothing matches.
func parsePubDate(dayMonth, year string) *time.Time {
	dayMonth = strings.Join(strings.Fields(dayMonth), " ")
	year = strings.TrimSpace(year)
	if dayMonth == "" || year == "" {
		return nil
	}
	value := dayMonth + " " + year
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
