package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/matsen/bibliograph/internal/library"
)

func init() {
	collectionsCmd.AddCommand(collectionsListCmd, collectionsCreateCmd, collectionsAddCmd, collectionsRemoveCmd, collectionsDeleteCmd)
	rootCmd.AddCommand(collectionsCmd)
}

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Manage the collections tree",
}

var collectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the collections tree",
	Args:  cobra.NoArgs,
	RunE:  runCollectionsList,
}

var collectionsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection under Collections",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionsCreate,
}

var collectionsAddCmd = &cobra.Command{
	Use:   "add <collection-id> <article-id>...",
	Short: "Add articles to a collection",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCollectionsAdd,
}

var collectionsRemoveCmd = &cobra.Command{
	Use:   "remove <collection-id> <article-id>...",
	Short: "Remove articles from a collection",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCollectionsRemove,
}

var collectionsDeleteCmd = &cobra.Command{
	Use:   "delete <collection-id>",
	Short: "Delete a collection and everything below it",
	Long: `Delete a collection and everything below it.

The fixed sections (All articles, Collections, Keywords, Smart Collections)
cannot be deleted, nor can any collection containing one.`,
	Args: cobra.ExactArgs(1),
	RunE: runCollectionsDelete,
}

// CollectionNode is a collection with its children, for tree output.
type CollectionNode struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Kind      library.CollectionKind `json:"kind"`
	CanDelete bool                   `json:"can_delete"`
	Articles  int                    `json:"articles"`
	Children  []CollectionNode       `json:"children,omitempty"`
}

func collectionTree(g *library.Graph, parentID string) []CollectionNode {
	children := g.Children(parentID)
	out := make([]CollectionNode, 0, len(children))
	for _, c := range children {
		out = append(out, CollectionNode{
			ID:        c.ID,
			Name:      c.Name,
			Kind:      c.Kind,
			CanDelete: c.CanDelete,
			Articles:  len(g.ArticlesInCollection(c.ID)),
			Children:  collectionTree(g, c.ID),
		})
	}
	return out
}

func printCollectionTree(nodes []CollectionNode, depth int) {
	for _, n := range nodes {
		indent := strings.Repeat("  ", depth)
		name := n.Name
		if n.Kind == library.CollectionSection || n.Kind == library.CollectionAll {
			name = color.New(color.Bold).Sprint(name)
		}
		if n.Kind == library.CollectionSection {
			fmt.Printf("%s%s\n", indent, name)
		} else {
			fmt.Printf("%s%s (%d)  %s\n", indent, name, n.Articles, color.New(color.Faint).Sprint(n.ID))
		}
		printCollectionTree(n.Children, depth+1)
	}
}

func runCollectionsList(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()
	tree := collectionTree(repo.lib.Graph(), "")

	if !humanOutput {
		outputJSON(tree)
		return nil
	}
	if len(tree) == 0 {
		fmt.Println("No collections (run 'bib init' to create the sections)")
		return nil
	}
	printCollectionTree(tree, 0)
	return nil
}

func runCollectionsCreate(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		exitWithError(ExitError, "collection name must not be empty")
	}
	repo := mustOpenRepository()

	tx := repo.lib.Begin()
	c := tx.NewCollection(name)
	repo.mustCommit(tx)

	if humanOutput {
		printOK("Created collection %q (%s)", c.Name, c.ID)
	} else {
		outputJSON(StatusResponse{Status: "created", ID: c.ID})
	}
	return nil
}

// beginMembershipChange opens a transaction and resolves the collection and
// articles named on the command line, exiting if any is missing.
func beginMembershipChange(repo *repository, args []string) (*library.Tx, *library.Collection, []*library.Article) {
	tx := repo.lib.Begin()
	c, ok := tx.Collection(args[0])
	if !ok {
		tx.Rollback()
		exitWithError(ExitNotFound, "collection not found: %s", args[0])
	}
	var articles []*library.Article
	for _, id := range args[1:] {
		a, ok := tx.Article(id)
		if !ok {
			tx.Rollback()
			exitWithError(ExitNotFound, "article not found: %s", id)
		}
		articles = append(articles, a)
	}
	return tx, c, articles
}

func runCollectionsAdd(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()

	tx, c, articles := beginMembershipChange(repo, args)
	for _, a := range articles {
		if err := tx.AddToCollection(a, c); err != nil {
			tx.Rollback()
			exitWithError(ExitConflict, "%v", err)
		}
	}
	repo.mustCommit(tx)

	if humanOutput {
		printOK("Added %d articles to %q", len(articles), c.Name)
	} else {
		outputJSON(StatusResponse{Status: "added", ID: c.ID})
	}
	return nil
}

func runCollectionsRemove(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()

	tx, c, articles := beginMembershipChange(repo, args)
	for _, a := range articles {
		tx.RemoveFromCollection(a, c.ID)
	}
	repo.mustCommit(tx)

	if humanOutput {
		printOK("Removed %d articles from %q", len(articles), c.Name)
	} else {
		outputJSON(StatusResponse{Status: "removed", ID: c.ID})
	}
	return nil
}

func runCollectionsDelete(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()

	tx := repo.lib.Begin()
	if err := tx.DeleteCollection(args[0]); err != nil {
		tx.Rollback()
		exitWithError(exitCodeFor(err), "%v", err)
	}
	repo.mustCommit(tx)

	if humanOutput {
		printOK("Deleted collection %s", args[0])
	} else {
		outputJSON(StatusResponse{Status: "deleted", ID: args[0]})
	}
	return nil
}
