package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/bibliograph/internal/identity"
	"github.com/matsen/bibliograph/internal/library"
)

func init() {
	keywordsCmd.AddCommand(keywordsListCmd, keywordsAddCmd, keywordsRemoveCmd, keywordsDeleteCmd)
	rootCmd.AddCommand(keywordsCmd)
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Manage keywords",
}

var keywordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List keywords with their article counts",
	Args:  cobra.NoArgs,
	RunE:  runKeywordsList,
}

var keywordsAddCmd = &cobra.Command{
	Use:   "add <article-id> <keyword>",
	Short: "Tag an article with a keyword",
	Long: `Tag an article with a keyword, reusing an existing keyword with the
same text. New keywords also get a collection in the Keywords section.`,
	Args: cobra.ExactArgs(2),
	RunE: runKeywordsAdd,
}

var keywordsRemoveCmd = &cobra.Command{
	Use:   "remove <article-id> <keyword-id>",
	Short: "Remove a keyword from an article",
	Args:  cobra.ExactArgs(2),
	RunE:  runKeywordsRemove,
}

var keywordsDeleteCmd = &cobra.Command{
	Use:   "delete <keyword-id>",
	Short: "Delete a keyword from every article",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeywordsDelete,
}

// KeywordView is a keyword with its article count.
type KeywordView struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Articles int    `json:"articles"`
}

func keywordViews(g *library.Graph) []KeywordView {
	counts := make(map[string]int)
	for _, a := range g.Articles() {
		for _, id := range a.KeywordIDs {
			counts[id]++
		}
	}
	keywords := g.Keywords()
	out := make([]KeywordView, 0, len(keywords))
	for _, k := range keywords {
		out = append(out, KeywordView{ID: k.ID, Text: k.Text, Articles: counts[k.ID]})
	}
	return out
}

func runKeywordsList(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()
	views := keywordViews(repo.lib.Graph())

	if !humanOutput {
		outputJSON(views)
		return nil
	}
	if len(views) == 0 {
		fmt.Println("No keywords")
		return nil
	}
	for _, v := range views {
		fmt.Printf("  %-36s %-40s %3d\n", v.ID, truncateString(v.Text, 40), v.Articles)
	}
	return nil
}

func runKeywordsAdd(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()
	repo.mustArticle(args[0])

	tx := repo.lib.Begin()
	a, _ := tx.Article(args[0])
	rec := identity.NewReconciler(tx, identity.Build(tx.Graph))
	k := rec.Keyword(args[1])
	tx.AddKeyword(a, k)
	tx.NewKeywordCollection(k)
	repo.mustCommit(tx)

	if humanOutput {
		printOK("Tagged %s with %q", a.ID, k.Text)
	} else {
		outputJSON(StatusResponse{Status: "added", ID: k.ID})
	}
	return nil
}

func runKeywordsRemove(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()
	repo.mustArticle(args[0])

	tx := repo.lib.Begin()
	a, _ := tx.Article(args[0])
	tx.RemoveKeyword(a, args[1])
	repo.mustCommit(tx)

	if humanOutput {
		printOK("Removed keyword %s from %s", args[1], a.ID)
	} else {
		outputJSON(StatusResponse{Status: "removed", ID: args[1]})
	}
	return nil
}

func runKeywordsDelete(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()

	tx := repo.lib.Begin()
	if err := tx.DeleteKeyword(args[0]); err != nil {
		tx.Rollback()
		exitWithError(exitCodeFor(err), "%v", err)
	}
	repo.mustCommit(tx)

	if humanOutput {
		printOK("Deleted keyword %s", args[0])
	} else {
		outputJSON(StatusResponse{Status: "deleted", ID: args[0]})
	}
	return nil
}
