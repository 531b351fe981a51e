// Package config handles repository and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Config represents repository configuration stored in .bibliograph/config.json.
type Config struct {
	PDFDir    string `json:"pdf_dir"`    // Managed PDF storage root; relative paths are under the repository root
	PDFReader string `json:"pdf_reader"` // Reader preference: system, skim, zathura, etc.
}

const (
	DataDir    = ".bibliograph"
	ConfigFile = "config.json"
	PDFDirName = "pdfs"
	CacheDir   = "cache"
	DBFile     = "library.db"
)

// ValidReaders lists the supported PDF reader values.
var ValidReaders = []string{"system", "skim", "preview", "zathura", "evince", "okular"}

// Default returns the configuration written by "bib init".
func Default() *Config {
	return &Config{
		PDFDir:    filepath.Join(DataDir, PDFDirName),
		PDFReader: "system",
	}
}

// DataPath returns the path to the .bibliograph directory from a root path.
func DataPath(root string) string {
	return filepath.Join(root, DataDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, DataDir, ConfigFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, DataDir, CacheDir)
}

// DBPath returns the path to the search cache database from a root path.
func DBPath(root string) string {
	return filepath.Join(root, DataDir, CacheDir, DBFile)
}

// PDFPath resolves the configured PDF directory against root.
func (c *Config) PDFPath(root string) string {
	dir := c.PDFDir
	if dir == "" {
		dir = filepath.Join(DataDir, PDFDirName)
	}
	dir = ExpandPath(dir)
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// IsRepository checks if the given path contains a bibliograph repository.
func IsRepository(root string) bool {
	info, err := os.Stat(DataPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a bibliograph repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a bibliograph repository (no %s directory found)", DataDir)
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root. A
// missing config file yields the defaults.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Set updates a config value by its JSON key after validating it.
func (c *Config) Set(key, value string) error {
	switch key {
	case "pdf_dir":
		c.PDFDir = value
	case "pdf_reader":
		if err := ValidatePDFReader(value); err != nil {
			return err
		}
		c.PDFReader = value
	default:
		return fmt.Errorf("unknown config key: %s (valid: pdf_dir, pdf_reader)", key)
	}
	return nil
}

// Get returns a config value by its JSON key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "pdf_dir":
		return c.PDFDir, nil
	case "pdf_reader":
		return c.PDFReader, nil
	default:
		return "", fmt.Errorf("unknown config key: %s (valid: pdf_dir, pdf_reader)", key)
	}
}

// ValidatePDFReader checks that the reader value is valid.
func ValidatePDFReader(reader string) error {
	if reader == "" {
		return nil // Empty defaults to "system"
	}
	if slices.Contains(ValidReaders, reader) {
		return nil
	}
	return fmt.Errorf("invalid pdf_reader: %s (valid: %v)", reader, ValidReaders)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
