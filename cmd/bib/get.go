package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a single article by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()
	g := repo.lib.Graph()
	v := newArticleView(g, repo.mustArticle(args[0]))

	if humanOutput {
		printArticleDetail(v)
	} else {
		outputJSON(v)
	}
	return nil
}

func printArticleDetail(v ArticleView) {
	fmt.Println(v.ID)
	fmt.Println(strings.Repeat("═", 70))
	fmt.Println()

	title := v.Title
	if v.Subtitle != "" {
		title += ": " + v.Subtitle
	}
	fmt.Printf("Title:    %s\n", wrapText(title, TextWrapWidth, "          "))
	fmt.Println()

	if len(v.Authors) > 0 {
		var names []string
		for _, a := range v.Authors {
			names = append(names, strings.Join(strings.Fields(a.Firstname+" "+a.Middlenames+" "+a.Lastname), " "))
		}
		fmt.Printf("Authors:  %s\n", wrapText(strings.Join(names, ", "), TextWrapWidth, "          "))
	}
	if len(v.Editors) > 0 {
		var names []string
		for _, a := range v.Editors {
			names = append(names, strings.Join(strings.Fields(a.Firstname+" "+a.Lastname), " "))
		}
		fmt.Printf("Editors:  %s\n", strings.Join(names, ", "))
	}
	if v.Type != "" {
		fmt.Printf("Type:     %s\n", v.Type)
	}
	if v.Journal != "" {
		fmt.Printf("Journal:  %s\n", v.Journal)
	}
	if v.Volume != "" || v.Issue != "" || v.Pages != "" {
		fmt.Printf("Volume:   %s(%s) %s\n", v.Volume, v.Issue, v.Pages)
	}
	if v.PublishedBy != "" {
		fmt.Printf("Publisher: %s %s\n", v.PublishedBy, v.City)
	}

	date := fmt.Sprintf("%d", v.Year)
	if v.Published != nil {
		date = v.Published.Format("2006-01-02")
	}
	fmt.Printf("Date:     %s\n", date)

	if v.DOI != "" {
		fmt.Printf("DOI:      %s\n", v.DOI)
	}
	if len(v.Keywords) > 0 {
		fmt.Printf("Keywords: %s\n", strings.Join(v.Keywords, ", "))
	}

	if v.Abstract != "" {
		fmt.Println()
		fmt.Println("Abstract:")
		fmt.Printf("  %s\n", wrapText(v.Abstract, DetailTextWrapWidth, "  "))
	}

	if v.RelatedFile != "" {
		fmt.Println()
		fmt.Printf("PDF:      %s\n", v.RelatedFile)
	}
}
