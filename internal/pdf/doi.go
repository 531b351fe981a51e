package pdf

import (
	"strings"
)

const doiToken = "doi"

// ExtractDOI looks for the first case-insensitive "doi" in text and reads
// the DOI that follows it on the same line. The line is lowercased, cut
// after the token, one leading ':' is dropped and the first
// whitespace-separated word is accepted when it starts with "10".
func ExtractDOI(text string) (string, bool) {
	lower := strings.ToLower(text)
	at := strings.Index(lower, doiToken)
	if at < 0 {
		return "", false
	}

	rest := lower[at+len(doiToken):]
	if end := strings.IndexAny(rest, "\r\n"); end >= 0 {
		rest = rest[:end]
	}
	rest = strings.TrimPrefix(rest, ":")

	fields := strings.Fields(rest)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "10") {
		return "", false
	}
	return fields[0], true
}

// ExtractDOIFromFile scans the PDF page by page and applies ExtractDOI to
// the first page that mentions "doi". Later pages are not consulted, so a
// malformed first mention yields no DOI.
func ExtractDOIFromFile(filePath string) (string, bool, error) {
	var (
		doi   string
		found bool
	)
	err := PageText(filePath, func(_ int, text string) bool {
		if !strings.Contains(strings.ToLower(text), doiToken) {
			return true
		}
		doi, found = ExtractDOI(text)
		return false
	})
	if err != nil {
		return "", false, err
	}
	return doi, found, nil
}
