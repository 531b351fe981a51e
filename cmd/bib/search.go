package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/bibliograph/internal/author"
	"github.com/matsen/bibliograph/internal/library"
)

var (
	searchLimit   int
	searchField   string
	searchAuthors []string
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	searchCmd.Flags().StringVar(&searchField, "field", "", "Restrict the query to one field (title, authors)")
	searchCmd.Flags().StringArrayVar(&searchAuthors, "author", nil, "Require an author (\"Last\", \"First Last\" or \"Last, First\"); repeatable")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search articles",
	Long: `Search articles by full text or by author.

Plain queries search title, abstract, authors, journal and keywords.
--author filters by author name with prefix matching on the first name;
several --author flags must all match.

Examples:
  bib search "phylogenetics"
  bib search --field title influenza
  bib search --author "Matsen"
  bib search "selection" --author "Frederick Matsen" --author "Minin"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && len(searchAuthors) == 0 {
		exitWithError(ExitError, "a query or --author is required")
	}

	repo := mustOpenRepository()
	g := repo.lib.Graph()

	queries := make([]author.Query, 0, len(searchAuthors))
	for _, s := range searchAuthors {
		queries = append(queries, author.ParseQuery(s))
	}

	var articles []*library.Article
	if len(args) == 0 {
		articles = author.FilterArticles(g, queries)
	} else {
		db := mustOpenDatabase(repo.root)
		defer db.Close()

		var (
			ids []string
			err error
		)
		if searchField != "" {
			ids, err = db.SearchField(searchField, args[0], 0)
		} else {
			ids, err = db.Search(args[0], 0)
		}
		if err != nil {
			exitWithError(ExitError, "searching: %v", err)
		}
		for _, id := range ids {
			// The cache may lag behind the JSONL files.
			a, ok := g.Article(id)
			if ok && author.AllMatch(queries, g.ArticleAuthors(a)) {
				articles = append(articles, a)
			}
		}
	}

	if searchLimit > 0 && len(articles) > searchLimit {
		articles = articles[:searchLimit]
	}
	views := articleViews(g, articles)

	if !humanOutput {
		outputJSON(views)
		return nil
	}
	if len(views) == 0 {
		fmt.Println("No articles found")
		return nil
	}
	fmt.Printf("Found %d articles:\n\n", len(views))
	for i, v := range views {
		printArticleSummary(i+1, v)
	}
	return nil
}
