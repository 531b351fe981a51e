package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/bib/config.yml.
// Every value can be overridden by a BIB_ environment variable, e.g.
// BIB_CROSSREF_PID for crossref.pid.
type GlobalConfig struct {
	Crossref CrossrefConfig `mapstructure:"crossref" yaml:"crossref" json:"crossref"`
	Log      LogConfig      `mapstructure:"log" yaml:"log" json:"log"`
}

// CrossrefConfig configures the DOI lookup service.
type CrossrefConfig struct {
	PID       string  `mapstructure:"pid" yaml:"pid,omitempty" json:"pid"`
	BaseURL   string  `mapstructure:"base_url" yaml:"base_url,omitempty" json:"base_url"`
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit,omitempty" json:"rate_limit"`
}

// LogConfig configures diagnostics written to stderr.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level,omitempty" json:"level"`
	Format string `mapstructure:"format" yaml:"format,omitempty" json:"format"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "bib"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "BIB"
)

// Defaults for the global configuration.
const (
	DefaultCrossrefBaseURL   = "https://doi.crossref.org/servlet/query"
	DefaultCrossrefRateLimit = 5.0
	DefaultLogLevel          = "warn"
	DefaultLogFormat         = "text"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/bib/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("crossref.pid", "")
	v.SetDefault("crossref.base_url", DefaultCrossrefBaseURL)
	v.SetDefault("crossref.rate_limit", DefaultCrossrefRateLimit)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadGlobalConfig loads the global configuration file merged with
// defaults and environment overrides. A missing file is not an error.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	v := newViper()
	if path := GlobalConfigPath(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading global config: %w", err)
			}
		}
	}

	var cfg GlobalConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// SaveGlobalConfig writes cfg to the global config file, creating its
// directory if needed.
func SaveGlobalConfig(cfg *GlobalConfig) error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine global config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating global config: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}
	ResetGlobalConfigCache()
	return nil
}

// SetGlobal updates one dotted key of the global config, e.g. "crossref.pid".
func (g *GlobalConfig) SetGlobal(key, value string) error {
	switch key {
	case "crossref.pid":
		g.Crossref.PID = value
	case "crossref.base_url":
		g.Crossref.BaseURL = value
	case "crossref.rate_limit":
		r, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid crossref.rate_limit %q: %w", value, err)
		}
		g.Crossref.RateLimit = r
	case "log.level":
		g.Log.Level = value
	case "log.format":
		g.Log.Format = value
	default:
		return fmt.Errorf("unknown global config key: %s", key)
	}
	return nil
}

// GetGlobal returns one dotted key of the global config.
func (g *GlobalConfig) GetGlobal(key string) (string, error) {
	switch key {
	case "crossref.pid":
		return g.Crossref.PID, nil
	case "crossref.base_url":
		return g.Crossref.BaseURL, nil
	case "crossref.rate_limit":
		return strconv.FormatFloat(g.Crossref.RateLimit, 'g', -1, 64), nil
	case "log.level":
		return g.Log.Level, nil
	case "log.format":
		return g.Log.Format, nil
	default:
		return "", fmt.Errorf("unknown global config key: %s", key)
	}
}
