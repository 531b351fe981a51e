package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/bibliograph/internal/library"
)

var (
	listLimit      int
	listCollection string
)

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum results to return (0 = all)")
	listCmd.Flags().StringVar(&listCollection, "collection", "", "Only list articles in this collection")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles",
	Long: `List articles in the order they were added.

Examples:
  bib list
  bib list --limit 100
  bib list --collection <collection-id>`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()
	g := repo.lib.Graph()

	articles := g.Articles()
	if listCollection != "" {
		if _, ok := g.Collection(listCollection); !ok {
			exitWithError(ExitNotFound, "collection not found: %s", listCollection)
		}
		articles = nil
		for _, id := range g.ArticlesInCollection(listCollection) {
			if a, ok := g.Article(id); ok {
				articles = append(articles, a)
			}
		}
	}
	total := len(articles)
	if listLimit > 0 && listLimit < total {
		articles = articles[:listLimit]
	}

	if !humanOutput {
		outputJSON(articleViews(g, articles))
		return nil
	}

	if len(articles) == 0 {
		fmt.Println("No articles in repository")
		return nil
	}
	if len(articles) < total {
		fmt.Printf("%d articles (showing first %d):\n\n", total, len(articles))
	} else {
		fmt.Printf("%d articles:\n\n", total)
	}
	for _, a := range articles {
		printArticleLine(a)
	}
	return nil
}

func printArticleLine(a *library.Article) {
	fmt.Printf("  %-36s %-20s %4d  %s\n", a.ID, truncateString(a.AuthorsForDisplay, 20), a.Year, truncateString(a.Title, ListTitleMaxLen))
}
