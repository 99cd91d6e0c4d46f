// Package config loads and manages the mqs configuration file stored at
// ~/.config/mqs/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/mileage"
	"gopkg.in/yaml.v3"
)

// DefaultConfigDir is the directory under the user's config dir for mqs state.
const DefaultConfigDir = "mqs"

// DefaultConfigFile is the config file name within the config directory.
const DefaultConfigFile = "config.yaml"

// Config represents the contents of ~/.config/mqs/config.yaml.
type Config struct {
	// LedgerPath is the authoritative JSONL ledger file.
	LedgerPath string `yaml:"ledger_path"`
	// StorePath is the SQLite mirror database.
	StorePath string `yaml:"store_path"`
	// Currency of all costs in the ledger.
	Currency string `yaml:"currency"`
	// Model is the genai model used by extract and assist.
	Model string `yaml:"model"`
	// FareProbes are the public fare endpoints the value command may consult.
	FareProbes []mileage.FareProbe `yaml:"fare_probes,omitempty"`
	// ImportProfiles maps a profile name to the jsonpath field mapping used
	// by import-json.
	ImportProfiles map[string]mileage.ImportProfile `yaml:"import_profiles,omitempty"`
}

// configDir returns the path to the config directory.
func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determining config directory: %w", err)
	}
	return filepath.Join(base, DefaultConfigDir), nil
}

// configPath returns the full path to the config file.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// defaultConfig returns the configuration used when no file exists yet.
func defaultConfig() *Config {
	dir, err := configDir()
	if err != nil {
		dir = "."
	}
	return &Config{
		LedgerPath: filepath.Join(dir, "ledger.jsonl"),
		StorePath:  filepath.Join(dir, "mileage.db"),
		Currency:   mileage.DefaultCurrency,
		Model:      "gemini-2.5-pro",
	}
}

// Load reads the config file. Returns the defaults if the file doesn't
// exist; missing fields fall back to their defaults too.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads a config from an explicit path.
func LoadFile(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	def := defaultConfig()
	if cfg.LedgerPath == "" {
		cfg.LedgerPath = def.LedgerPath
	}
	if cfg.StorePath == "" {
		cfg.StorePath = def.StorePath
	}
	if cfg.Currency == "" {
		cfg.Currency = def.Currency
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	return cfg, nil
}

// Save writes the config back to its standard location.
func Save(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes a config to an explicit path.
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
