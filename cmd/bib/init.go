package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/bibliograph/internal/config"
	"github.com/matsen/bibliograph/internal/library"
	"github.com/matsen/bibliograph/internal/storage"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new bibliograph repository",
	Long: `Initialize a new bibliograph repository in the current directory.

Creates:
  .bibliograph/
  ├── *.jsonl         # Articles, authors, journals, keywords, collections
  ├── config.json     # Default config
  ├── pdfs/           # Managed PDF copies
  └── cache/          # Search cache (gitignored)`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a bibliograph repository")
	}

	store, err := storage.Open(config.DataPath(root))
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	cfg := config.Default()
	if err := os.MkdirAll(cfg.PDFPath(root), 0755); err != nil {
		exitWithError(ExitError, "creating PDF directory: %v", err)
	}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "creating config.json: %v", err)
	}
	if err := os.WriteFile(filepath.Join(config.DataPath(root), ".gitignore"), []byte(config.CacheDir+"/\n"), 0644); err != nil {
		exitWithError(ExitError, "creating .gitignore: %v", err)
	}

	lib := library.New(store)
	tx := lib.Begin()
	tx.EnsureSections()
	if err := tx.Commit(); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized bibliograph repository in %s\n", root)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}
	return nil
}
