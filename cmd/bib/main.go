// Package main provides the bib CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/matsen/bibliograph/internal/config"
	"github.com/matsen/bibliograph/internal/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	logLevel    string
	noColor     bool

	log       logrus.FieldLogger = logging.Discard()
	globalCfg *config.GlobalConfig
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bib",
	Short: "Personal bibliographic reference manager",
	Long: `bib manages a personal library of articles, authors, journals,
keywords and collections.

Data is stored as JSONL under .bibliograph/ with an ephemeral SQLite
cache for search. Authors, journals and keywords are reconciled on import
so that the same name always refers to the same entity. All commands
output JSON by default; use --human for text.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides log.level in the global config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.Version = Version
}

// setup loads .env, the global config and the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		return err
	}
	globalCfg = cfg

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	l, err := logging.New(logging.Options{Level: level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	log = l

	if noColor || !isTTY() {
		color.NoColor = true
	}
	return nil
}

// isTTY returns true if stdout is a terminal.
func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// getStartingDirectory returns the directory to start searching for a
// repository: BIB_ROOT when set, else the working directory.
func getStartingDirectory() (string, int) {
	if root := os.Getenv("BIB_ROOT"); root != "" {
		return root, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}
