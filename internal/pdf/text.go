// Package pdf extracts text and DOIs from PDF documents, keeps the managed
// per-article PDF copies and opens them in a reader application.
package pdf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoTextExtracted indicates a PDF without any extractable text layer.
var ErrNoTextExtracted = errors.New("no text could be extracted from PDF")

// PageText calls fn with the plain text of each page in order until fn
// returns false. Pages that fail to decode are skipped.
func PageText(filePath string, fn func(page int, text string) bool) error {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening PDF %s: %w", filePath, err)
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if !fn(i, text) {
			break
		}
	}
	return nil
}

// ExtractText returns the text of the first maxPages pages, or of every
// page when maxPages <= 0.
func ExtractText(filePath string, maxPages int) (string, error) {
	var b strings.Builder
	err := PageText(filePath, func(page int, text string) bool {
		b.WriteString(text)
		b.WriteString("\n")
		return maxPages <= 0 || page < maxPages
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrNoTextExtracted
	}
	return b.String(), nil
}
