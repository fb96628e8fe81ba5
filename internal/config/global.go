package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/xcite/config.yml.
// Durations are kept as strings so the file stays human-editable.
type GlobalConfig struct {
	Mailto       string `yaml:"mailto,omitempty"`
	APIKey       string `yaml:"api_key,omitempty"`
	BaseURL      string `yaml:"base_url,omitempty"`
	PageInterval string `yaml:"page_interval,omitempty"`
	CachePath    string `yaml:"cache_path,omitempty"`
	CacheTTL     string `yaml:"cache_ttl,omitempty"`
	TopK         int    `yaml:"top_k,omitempty"`
	LogMode      string `yaml:"log_mode,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "xcite"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/xcite/config.yml.
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

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
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

// SaveGlobalConfig writes cfg to GlobalConfigPath and refreshes the cache.
func SaveGlobalConfig(cfg *GlobalConfig) error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}
	// 0600: the file may hold an API key
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	globalConfigCache = cfg
	return nil
}

// Set validates value, stores it under key, and saves the file. An empty
// value unsets the key.
func Set(key, value string) error {
	if err := ValidateKey(key, value); err != nil {
		return err
	}

	loaded, err := LoadGlobalConfig()
	if err != nil {
		return err
	}
	cfg := *loaded

	switch key {
	case "mailto":
		cfg.Mailto = value
	case "api_key":
		cfg.APIKey = value
	case "base_url":
		cfg.BaseURL = value
	case "page_interval":
		cfg.PageInterval = value
	case "cache_path":
		cfg.CachePath = value
	case "cache_ttl":
		cfg.CacheTTL = value
	case "top_k":
		cfg.TopK = 0
		if value != "" {
			cfg.TopK, _ = strconv.Atoi(value)
		}
	case "log_mode":
		cfg.LogMode = value
	}

	return SaveGlobalConfig(&cfg)
}

// Load reads the global config and resolves it into effective settings.
func Load() (*Settings, error) {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	return Resolve(cfg)
}

// HelpfulConfigMessage explains how to identify yourself to OpenAlex.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`OpenAlex serves identified clients faster (the "polite pool").

Tip: set your email once:
  xcite config set mailto you@example.org

or export OPENALEX_MAILTO. Settings live in %s`,
		configPath)
}
