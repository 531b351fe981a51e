package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/matsen/bibliograph/internal/library"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search/list commands

	ListTitleMaxLen   = 50 // Used in list command output
	SearchTitleMaxLen = 70 // Used in search result summaries

	TextWrapWidth       = 60 // Standard text wrap width
	DetailTextWrapWidth = 68 // Wider wrap for detail views
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("error:"), fmt.Sprintf(format, args...))
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("error:"), msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// printOK prints a green check line in human mode.
func printOK(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

// printWarn prints a yellow warning line in human mode.
func printWarn(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", color.YellowString("!"), fmt.Sprintf(format, args...))
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
	Path   string `json:"path,omitempty"`
}

// AuthorView is an author as shown to users.
type AuthorView struct {
	ID          string `json:"id"`
	Lastname    string `json:"lastname"`
	Firstname   string `json:"firstname,omitempty"`
	Middlenames string `json:"middlenames,omitempty"`
	Articles    int    `json:"articles"`
}

// ArticleView is an article with its relationships resolved to names.
type ArticleView struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Subtitle          string       `json:"subtitle,omitempty"`
	Type              string       `json:"type,omitempty"`
	Year              int          `json:"year"`
	Published         *time.Time   `json:"published,omitempty"`
	AuthorsForDisplay string       `json:"authors_for_display"`
	Authors           []AuthorView `json:"authors,omitempty"`
	Editors           []AuthorView `json:"editors,omitempty"`
	Journal           string       `json:"journal,omitempty"`
	Volume            string       `json:"volume,omitempty"`
	Issue             string       `json:"issue,omitempty"`
	Pages             string       `json:"pages,omitempty"`
	Edition           string       `json:"edition,omitempty"`
	ISBN              string       `json:"isbn,omitempty"`
	City              string       `json:"city,omitempty"`
	PublishedBy       string       `json:"published_by,omitempty"`
	DOI               string       `json:"doi,omitempty"`
	Abstract          string       `json:"abstract,omitempty"`
	Keywords          []string     `json:"keywords,omitempty"`
	RelatedFile       string       `json:"related_file,omitempty"`
	Added             time.Time    `json:"added"`
	Reference         string       `json:"reference"`
}

func authorViews(g *library.Graph, authors []*library.Author) []AuthorView {
	out := make([]AuthorView, 0, len(authors))
	for _, a := range authors {
		out = append(out, AuthorView{
			ID:          a.ID,
			Lastname:    a.Lastname,
			Firstname:   a.Firstname,
			Middlenames: a.Middlenames,
			Articles:    g.AuthorReferences(a.ID),
		})
	}
	return out
}

func newArticleView(g *library.Graph, a *library.Article) ArticleView {
	v := ArticleView{
		ID:                a.ID,
		Title:             a.Title,
		Subtitle:          a.Subtitle,
		Type:              a.Type,
		Year:              a.Year,
		Published:         a.Published,
		AuthorsForDisplay: a.AuthorsForDisplay,
		Authors:           authorViews(g, g.ArticleAuthors(a)),
		Editors:           authorViews(g, g.ArticleEditors(a)),
		Volume:            a.Volume,
		Issue:             a.Issue,
		Pages:             a.Pages,
		Edition:           a.Edition,
		ISBN:              a.ISBN,
		City:              a.City,
		PublishedBy:       a.PublishedBy,
		DOI:               a.DOI,
		Abstract:          a.Abstract,
		RelatedFile:       a.RelatedFile,
		Added:             a.Added,
		Reference:         g.LongReference(a),
	}
	if j := g.ArticleJournal(a); j != nil {
		v.Journal = j.Name
	}
	for _, k := range g.ArticleKeywords(a) {
		v.Keywords = append(v.Keywords, k.Text)
	}
	return v
}

func articleViews(g *library.Graph, articles []*library.Article) []ArticleView {
	out := make([]ArticleView, 0, len(articles))
	for _, a := range articles {
		out = append(out, newArticleView(g, a))
	}
	return out
}

// printArticleSummary prints one numbered search or list entry.
func printArticleSummary(num int, v ArticleView) {
	fmt.Printf("[%d] %s\n", num, color.HiBlackString(v.ID))
	fmt.Printf("    %s\n", truncateString(v.Title, SearchTitleMaxLen))
	if v.Journal != "" {
		fmt.Printf("    %s, %s (%d)\n", v.AuthorsForDisplay, v.Journal, v.Year)
	} else {
		fmt.Printf("    %s (%d)\n", v.AuthorsForDisplay, v.Year)
	}
	fmt.Println()
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// wrapText wraps text to the specified width with indentation on subsequent lines.
func wrapText(text string, width int, indent string) string {
	if len(text) <= width {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= width {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n"+indent)
}
