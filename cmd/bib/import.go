package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matsen/bibliograph/internal/importer"
)

var (
	importFormat string
	importDryRun bool
)

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", string(importer.FormatEndNote), "Import format (endnote, paperpile)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would be imported without writing")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import references from an export file",
	Long: `Import references from an export file.

Every record becomes a new article. Authors are matched by last name,
journals by exact name and keywords by exact text; anything not yet in
the library is created. PDFs referenced by the export are copied into
managed storage.

Usage:
  bib import library.xml
  bib import --format paperpile export.json
  bib import library.xml --dry-run

Supported formats:
  endnote    - EndNote XML export
  paperpile  - Paperpile JSON export`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	format := importer.Format(importFormat)
	if !slices.Contains(importer.Formats, format) {
		exitWithError(ExitError, "unknown format: %s (valid: %v)", importFormat, importer.Formats)
	}

	repo := mustOpenRepository()
	im := importer.New(repo.lib, repo.pdfs, log)
	im.DryRun = importDryRun

	res, err := im.ImportFile(args[0], format)
	if err != nil {
		code := exitCodeFor(err)
		if errors.Is(err, importer.ErrParse) {
			code = ExitDataError
		}
		exitWithError(code, "%v", err)
	}
	if !importDryRun {
		repo.refreshCache()
	}

	if !humanOutput {
		outputJSON(res)
		return nil
	}

	verb := "Imported"
	if importDryRun {
		verb = "Would import"
	}
	printOK("%s %d articles", verb, res.Records)
	fmt.Printf("  Authors:  %d new, %d existing\n", res.AuthorsCreated, res.AuthorsReused)
	fmt.Printf("  Journals: %d new, %d existing\n", res.JournalsCreated, res.JournalsReused)
	fmt.Printf("  Keywords: %d new, %d existing\n", res.KeywordsCreated, res.KeywordsReused)
	if res.PDFsCopied > 0 {
		fmt.Printf("  PDFs:     %d copied\n", res.PDFsCopied)
	}
	if res.PDFErrors > 0 {
		printWarn("%d PDFs could not be copied", res.PDFErrors)
	}
	for _, s := range res.Skipped {
		printWarn("skipped: %s", s)
	}
	return nil
}
