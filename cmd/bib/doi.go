package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/bibliograph/internal/crossref"
	"github.com/matsen/bibliograph/internal/pdf"
)

func init() {
	doiCmd.AddCommand(doiExtractCmd)
	doiCmd.AddCommand(doiLookupCmd)
	rootCmd.AddCommand(doiCmd)
}

var doiCmd = &cobra.Command{
	Use:   "doi",
	Short: "Extract DOIs from PDFs and look them up",
}

var doiExtractCmd = &cobra.Command{
	Use:   "extract <pdf>",
	Short: "Print the DOI found in a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runDOIExtract,
}

var doiLookupCmd = &cobra.Command{
	Use:   "lookup <doi>",
	Short: "Fetch metadata for a DOI from Crossref",
	Args:  cobra.ExactArgs(1),
	RunE:  runDOILookup,
}

// DOIResponse is the response for doi extract.
type DOIResponse struct {
	Path  string `json:"path"`
	DOI   string `json:"doi"`
	Found bool   `json:"found"`
}

func runDOIExtract(cmd *cobra.Command, args []string) error {
	doi, found, err := pdf.ExtractDOIFromFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		if !found {
			fmt.Println("No DOI found")
		} else {
			fmt.Println(doi)
		}
		return nil
	}
	outputJSON(DOIResponse{Path: args[0], DOI: doi, Found: found})
	return nil
}

func runDOILookup(cmd *cobra.Command, args []string) error {
	client := newCrossrefClient()
	m, err := client.Fetch(context.Background(), args[0])
	if err != nil {
		code := ExitNetwork
		if crossref.IsNotFound(err) {
			code = ExitNotFound
		} else if errors.Is(err, crossref.ErrInvalidResponse) {
			code = ExitDataError
		}
		exitWithError(code, "%v", err)
	}

	if !humanOutput {
		outputJSON(m)
		return nil
	}

	fmt.Printf("Title:    %s\n", wrapText(m.Title, TextWrapWidth, "          "))
	for i, a := range m.Authors {
		label := "          "
		if i == 0 {
			label = "Authors:  "
		}
		fmt.Printf("%s%s\n", label, a)
	}
	if m.Journal != "" {
		fmt.Printf("Journal:  %s\n", m.Journal)
	}
	if m.Volume != "" || m.Issue != "" || m.Pages != "" {
		fmt.Printf("Volume:   %s(%s) %s\n", m.Volume, m.Issue, m.Pages)
	}
	if m.Year != "" {
		fmt.Printf("Year:     %s\n", m.Year)
	}
	fmt.Printf("DOI:      %s\n", m.DOI)
	if m.Abstract != "" {
		fmt.Println()
		fmt.Println("Abstract:")
		fmt.Printf("  %s\n", wrapText(m.Abstract, DetailTextWrapWidth, "  "))
	}
	return nil
}
