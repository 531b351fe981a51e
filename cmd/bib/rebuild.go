package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Recreate the search cache from the library files",
	Long: `Drop and refill .bibliograph/cache/library.db from the JSONL files.

The cache is refreshed after every change, so this is only needed when
the files were edited or synced by hand, or when the cache is damaged.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult reports the indexed articles and the size of the library.
type RebuildResult struct {
	Status   string         `json:"status"`
	Articles int            `json:"articles"`
	Library  map[string]int `json:"library"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()
	db := mustOpenDatabase(repo.root)
	defer db.Close()

	g := repo.lib.Graph()
	indexed, err := db.Rebuild(g.Snapshot())
	if err != nil {
		exitWithError(ExitDataError, "rebuilding search cache: %v", err)
	}
	counts := g.Counts()
	log.WithField("articles", indexed).Debug("search cache rebuilt")

	if !humanOutput {
		outputJSON(RebuildResult{Status: "rebuilt", Articles: indexed, Library: counts})
		return nil
	}

	printOK("Indexed %d articles", indexed)
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-12s %d\n", k, counts[k])
	}
	return nil
}
