package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/xcite/internal/config"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `Show the effective configuration, or change a value.

Values come from ~/.config/xcite/config.yml; OPENALEX_MAILTO and
OPENALEX_API_KEY in the environment (or a .env file) take precedence.

Usage:
  xcite config                              # Show effective config
  xcite config set mailto you@example.org   # Set a value
  xcite config set top_k ""                 # Unset a value
  xcite config path                         # Print the config file path

Keys:
  mailto         Email sent to OpenAlex (polite pool)
  api_key        OpenAlex premium API key
  base_url       API base URL (default https://api.openalex.org)
  page_interval  Minimum time between page requests (default 1s)
  cache_path     Page cache database (default ~/.cache/xcite/pages.db)
  cache_ttl      How long cached pages stay fresh (default 24h)
  top_k          Collaborators per author in graphs (default 20)
  log_mode       quiet, dev, or prod (default quiet)`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := mustLoadSettings()
		if !humanOutput {
			outputJSON(configView(s))
			return
		}
		v := configView(s)
		for _, k := range config.ValidKeys {
			fmt.Printf("%-14s %s\n", k+":", v[k])
		}
		if s.Mailto == "" {
			fmt.Printf("\n%s\n", config.HelpfulConfigMessage())
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		if humanOutput {
			fmt.Printf("Set %s = %s\n", key, value)
			return
		}
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := config.GlobalConfigPath()
		if humanOutput {
			fmt.Println(path)
			return
		}
		outputJSON(StatusResponse{Status: "ok", Path: path})
	},
}

// configView renders settings as strings keyed like the config file. The API
// key is masked.
func configView(s *config.Settings) map[string]string {
	apiKey := ""
	if s.APIKey != "" {
		apiKey = maskSecret(s.APIKey)
	}
	return map[string]string{
		"mailto":        s.Mailto,
		"api_key":       apiKey,
		"base_url":      s.BaseURL,
		"page_interval": s.PageInterval.String(),
		"cache_path":    s.CachePath,
		"cache_ttl":     s.CacheTTL.String(),
		"top_k":         fmt.Sprintf("%d", s.TopK),
		"log_mode":      s.LogMode,
	}
}

// maskSecret keeps the last four characters of a secret.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
