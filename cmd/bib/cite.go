package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/bibliograph/internal/clipboard"
)

const clipboardUnavailableMsg = "clipboard unavailable (install wl-clipboard, xclip or xsel on Linux)"

var (
	citeCopy bool
	citeURL  bool
)

func init() {
	citeCmd.Flags().BoolVar(&citeCopy, "copy", false, "Also copy the result to the clipboard")
	citeCmd.Flags().BoolVar(&citeURL, "url", false, "Print the doi.org link instead of the reference")
	rootCmd.AddCommand(citeCmd)
}

var citeCmd = &cobra.Command{
	Use:   "cite <article-id>",
	Short: "Print the reference string of an article",
	Long: `Print the reference string of an article, e.g.

  Smith, John, Doe, Jane (2024): Machine Learning in Biology. Nature. 10.1234/smith

With --url the article's DOI is printed as a https://doi.org/ link.`,
	Args: cobra.ExactArgs(1),
	RunE: runCite,
}

// CiteResult is the JSON output of cite.
type CiteResult struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Copied  bool   `json:"copied"`
	Warning string `json:"warning,omitempty"`
}

func runCite(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()
	a := repo.mustArticle(args[0])

	text := repo.lib.Graph().LongReference(a)
	if citeURL {
		if a.DOI == "" {
			exitWithError(ExitNotFound, "article %s has no DOI", a.ID)
		}
		text = "https://doi.org/" + a.DOI
	}

	copied := false
	var warning string
	if citeCopy {
		err := clipboard.New().Copy(context.Background(), text)
		switch {
		case errors.Is(err, clipboard.ErrUnavailable):
			warning = clipboardUnavailableMsg
		case err != nil:
			warning = fmt.Sprintf("clipboard error: %v", err)
		default:
			copied = true
		}
	}
	if !humanOutput {
		outputJSON(CiteResult{ID: a.ID, Text: text, Copied: copied, Warning: warning})
		return nil
	}
	fmt.Println(text)
	if copied {
		fmt.Fprintln(os.Stderr, "Copied to clipboard")
	} else if warning != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
	return nil
}
