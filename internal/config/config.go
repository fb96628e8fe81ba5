// Package config handles xcite's global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/matsen/xcite/internal/logger"
)

// Defaults applied when a key is unset.
const (
	DefaultPageInterval = time.Second
	DefaultCacheTTL     = 24 * time.Hour
	DefaultTopK         = 20
	DefaultLogMode      = logger.ModeQuiet

	// CacheDir is the directory name under XDG_CACHE_HOME.
	CacheDir = "xcite"
	// CacheFile is the page cache database name.
	CacheFile = "pages.db"
)

// Keys accepted by Set, in display order.
var ValidKeys = []string{
	"mailto",
	"api_key",
	"base_url",
	"page_interval",
	"cache_path",
	"cache_ttl",
	"top_k",
	"log_mode",
}

// Settings is the effective configuration: file values, then environment
// overrides, then defaults.
type Settings struct {
	Mailto       string        `json:"mailto,omitempty"`
	APIKey       string        `json:"api_key,omitempty"`
	BaseURL      string        `json:"base_url,omitempty"`
	PageInterval time.Duration `json:"page_interval"`
	CachePath    string        `json:"cache_path"`
	CacheTTL     time.Duration `json:"cache_ttl"`
	TopK         int           `json:"top_k"`
	LogMode      string        `json:"log_mode"`
}

// Resolve turns a GlobalConfig into Settings, applying OPENALEX_MAILTO and
// OPENALEX_API_KEY from the environment and filling defaults.
func Resolve(cfg *GlobalConfig) (*Settings, error) {
	if cfg == nil {
		cfg = &GlobalConfig{}
	}
	s := &Settings{
		Mailto:       cfg.Mailto,
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		PageInterval: DefaultPageInterval,
		CachePath:    DefaultCachePath(),
		CacheTTL:     DefaultCacheTTL,
		TopK:         DefaultTopK,
		LogMode:      DefaultLogMode,
	}

	if v := os.Getenv("OPENALEX_MAILTO"); v != "" {
		s.Mailto = v
	}
	if v := os.Getenv("OPENALEX_API_KEY"); v != "" {
		s.APIKey = v
	}

	if cfg.PageInterval != "" {
		d, err := parseDuration("page_interval", cfg.PageInterval)
		if err != nil {
			return nil, err
		}
		s.PageInterval = d
	}
	if cfg.CacheTTL != "" {
		d, err := parseDuration("cache_ttl", cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		s.CacheTTL = d
	}
	if cfg.CachePath != "" {
		s.CachePath = ExpandTilde(cfg.CachePath)
	}
	if cfg.TopK != 0 {
		if cfg.TopK < 0 {
			return nil, fmt.Errorf("invalid top_k: %d (must be positive)", cfg.TopK)
		}
		s.TopK = cfg.TopK
	}
	if cfg.LogMode != "" {
		if err := ValidateLogMode(cfg.LogMode); err != nil {
			return nil, err
		}
		s.LogMode = cfg.LogMode
	}

	return s, nil
}

func parseDuration(key, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q (use a duration like 1s or 24h)", key, v)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: %q (must not be negative)", key, v)
	}
	return d, nil
}

// ValidateLogMode checks that mode is one the logger accepts.
func ValidateLogMode(mode string) error {
	switch mode {
	case logger.ModeQuiet, logger.ModeDev, logger.ModeProd:
		return nil
	}
	return fmt.Errorf("invalid log_mode: %s (valid: %s, %s, %s)", mode, logger.ModeQuiet, logger.ModeDev, logger.ModeProd)
}

// ValidateKey checks value for key without writing anything.
func ValidateKey(key, value string) error {
	switch key {
	case "mailto":
		if value != "" && !strings.Contains(value, "@") {
			return fmt.Errorf("invalid mailto: %q (expected an email address)", value)
		}
	case "api_key", "cache_path":
	case "base_url":
		if value != "" && !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("invalid base_url: %q (expected http:// or https://)", value)
		}
	case "page_interval", "cache_ttl":
		if value != "" {
			_, err := parseDuration(key, value)
			return err
		}
	case "top_k":
		if value != "" {
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid top_k: %q (must be a positive integer)", value)
			}
		}
	case "log_mode":
		if value != "" {
			return ValidateLogMode(value)
		}
	default:
		return fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(ValidKeys, ", "))
	}
	return nil
}

// DefaultCachePath returns the page cache location. Respects
// XDG_CACHE_HOME, defaults to ~/.cache/xcite/pages.db.
func DefaultCachePath() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), CacheDir, CacheFile)
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, CacheDir, CacheFile)
}

// ExpandTilde expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
