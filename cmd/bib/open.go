package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/bibliograph/internal/pdf"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <article-id>",
	Short: "Open an article's PDF in the configured reader",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()
	a := repo.mustArticle(args[0])
	if a.RelatedFile == "" {
		exitWithError(ExitNotFound, "article %s has no PDF attached", a.ID)
	}

	opener := pdf.NewOpener(repo.pdfs, repo.cfg.PDFReader)
	path, err := opener.ResolvePath(a.RelatedFile)
	if err != nil {
		exitWithError(ExitNotFound, "%v", err)
	}
	if err := opener.Open(a.RelatedFile); err != nil {
		exitWithError(ExitError, "opening PDF: %v", err)
	}

	if humanOutput {
		fmt.Printf("Opened %s\n", path)
	} else {
		outputJSON(StatusResponse{Status: "opened", ID: a.ID, Path: path})
	}
	return nil
}
