package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/bibliograph/internal/attach"
)

var attachOffline bool

func init() {
	attachCmd.Flags().BoolVar(&attachOffline, "offline", false, "Attach without looking up the DOI")
	rootCmd.AddCommand(attachCmd)
}

var attachCmd = &cobra.Command{
	Use:   "attach <article-id> <pdf>",
	Short: "Attach a PDF to an article and fill metadata from its DOI",
	Long: `Copy a PDF into managed storage for an article, look for a DOI in its
text and, when one is found, fetch the article metadata from Crossref and
merge it into the article.

The PDF is attached even when no DOI is found or the lookup fails.

Examples:
  bib attach 3f2a... ~/Downloads/paper.pdf
  bib attach 3f2a... paper.pdf --offline`,
	Args: cobra.ExactArgs(2),
	RunE: runAttach,
}

func runAttach(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()

	var resolver attach.Resolver
	if !attachOffline {
		resolver = newCrossrefClient()
	}
	svc := attach.New(repo.lib, repo.pdfs, resolver, log)

	res, err := svc.Attach(context.Background(), args[0], args[1])
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	repo.refreshCache()

	if !humanOutput {
		outputJSON(res)
		return nil
	}

	printOK("Attached %s", res.RelatedFile)
	switch {
	case res.DOI == "":
		printWarn("no DOI found in PDF")
	case !res.Resolved:
		printWarn("DOI %s could not be resolved", res.DOI)
	default:
		fmt.Printf("  DOI %s resolved\n", res.DOI)
		if len(res.Changes.Fields) > 0 {
			fmt.Printf("  Updated: %v\n", res.Changes.Fields)
		}
		if res.Changes.AuthorsReplaced {
			fmt.Println("  Authors replaced")
		}
	}
	return nil
}
