package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/bibliograph/internal/config"
)

var configGlobal bool

func init() {
	configCmd.Flags().BoolVar(&configGlobal, "global", false, "Read or write the global config (~/.config/bib/config.yml)")
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  bib config                                   # Show repository config
  bib config pdf-reader                        # Get specific value
  bib config pdf-reader skim                   # Set value
  bib config --global crossref.pid me@example.org

Repository keys:
  pdf-dir     Managed PDF directory (relative paths are under the repository)
  pdf-reader  PDF reader preference (system, skim, preview, zathura, evince, okular)

Global keys:
  crossref.pid, crossref.base_url, crossref.rate_limit, log.level, log.format`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// normalizeKey accepts both pdf-dir and pdf_dir spellings.
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "-", "_")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configGlobal {
		return runGlobalConfig(args)
	}

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("pdf_dir:    %s\n", cfg.PDFDir)
			fmt.Printf("pdf_reader: %s\n", cfg.PDFReader)
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	key := normalizeKey(args[0])
	if len(args) == 1 {
		value, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	if err := cfg.Set(key, args[1]); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, args[1])
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: args[1]})
	}
	return nil
}

func runGlobalConfig(args []string) error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if len(args) == 0 {
		if humanOutput {
			for _, key := range []string{"crossref.pid", "crossref.base_url", "crossref.rate_limit", "log.level", "log.format"} {
				value, _ := cfg.GetGlobal(key)
				fmt.Printf("%-20s %s\n", key+":", value)
			}
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	key := strings.ToLower(args[0])
	if len(args) == 1 {
		value, err := cfg.GetGlobal(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	if err := cfg.SetGlobal(key, args[1]); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := config.SaveGlobalConfig(cfg); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s in %s\n", key, args[1], config.GlobalConfigPath())
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: args[1]})
	}
	return nil
}
