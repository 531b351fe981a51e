package main

import (
	"github.com/spf13/cobra"
)

var deleteKeepPDF bool

func init() {
	deleteCmd.Flags().BoolVar(&deleteKeepPDF, "keep-pdf", false, "Keep the managed PDF copy")
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <article-id>",
	Short: "Delete an article",
	Long: `Delete an article. Its authors, journal and keywords stay in the
library. The managed PDF copy is removed unless --keep-pdf is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	repo := mustOpenRepository()
	id := args[0]

	tx := repo.lib.Begin()
	if err := tx.DeleteArticle(id); err != nil {
		tx.Rollback()
		exitWithError(exitCodeFor(err), "%v", err)
	}
	repo.mustCommit(tx)

	if !deleteKeepPDF {
		if err := repo.pdfs.Remove(id); err != nil {
			log.WithError(err).Warn("removing managed PDF")
		}
	}

	if humanOutput {
		printOK("Deleted article %s", id)
	} else {
		outputJSON(StatusResponse{Status: "deleted", ID: id})
	}
	return nil
}
