package crossref

// Match is the metadata Crossref reports for one DOI. Every field is
// optional; an empty string means the response did not contain it.
type Match struct {
	Journal       string `json:"journal,omitempty"`
	JournalAbbrev string `json:"journal_abbrev,omitempty"`
	ISSN          string `json:"issn,omitempty"`
	Issue         string `json:"issue,omitempty"`
	Volume        string `json:"volume,omitempty"`
	Title         string `json:"title,omitempty"`

	// Authors holds "Surname, Given" strings in document order.
	Authors []string `json:"authors,omitempty"`

	Abstract string `json:"abstract,omitempty"`
	DOI      string `json:"doi,omitempty"`
	Year     string `json:"year,omitempty"`
	Month    string `json:"month,omitempty"`
	Day      string `json:"day,omitempty"`

	// Pages is "first-last", or just the first page.
	Pages string `json:"pages,omitempty"`
}
