package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/bibliograph/internal/author"
	"github.com/matsen/bibliograph/internal/library"
)

var authorsName string

func init() {
	authorsListCmd.Flags().StringVar(&authorsName, "name", "", "Only list authors matching a name (\"Last\", \"First Last\" or \"Last, First\")")
	authorsCmd.AddCommand(authorsListCmd, authorsDeleteCmd)
	rootCmd.AddCommand(authorsCmd)
}

var authorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "List and delete authors",
}

var authorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List authors with their article counts",
	Args:  cobra.NoArgs,
	RunE:  runAuthorsList,
}

var authorsDeleteCmd = &cobra.Command{
	Use:   "delete <author-id>",
	Short: "Delete an author no article refers to",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthorsDelete,
}

func runAuthorsList(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()
	g := repo.lib.Graph()

	authors := g.Authors()
	if authorsName != "" {
		q := author.ParseQuery(authorsName)
		var matched []*library.Author
		for _, a := range authors {
			if q.Matches(a) {
				matched = append(matched, a)
			}
		}
		authors = matched
	}
	views := authorViews(g, authors)

	if !humanOutput {
		outputJSON(views)
		return nil
	}
	if len(views) == 0 {
		fmt.Println("No authors found")
		return nil
	}
	for _, v := range views {
		name := v.Lastname
		if given := strings.TrimSpace(v.Firstname + " " + v.Middlenames); given != "" {
			name += ", " + given
		}
		fmt.Printf("  %-36s %-40s %3d\n", v.ID, truncateString(name, 40), v.Articles)
	}
	return nil
}

func runAuthorsDelete(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()

	tx := repo.lib.Begin()
	if err := tx.DeleteAuthor(args[0]); err != nil {
		tx.Rollback()
		exitWithError(exitCodeFor(err), "%v", err)
	}
	repo.mustCommit(tx)

	if humanOutput {
		printOK("Deleted author %s", args[0])
	} else {
		outputJSON(StatusResponse{Status: "deleted", ID: args[0]})
	}
	return nil
}
