package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/xcite/internal/pagecache"
)

func init() {
	cacheCmd.AddCommand(cachePurgeCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show or maintain the local page cache",
	Long: `Show or maintain the local cache of OpenAlex result pages.

Pages are kept for cache_ttl (default 24h) and reused by later runs.

Examples:
  xcite cache            # Show cache statistics
  xcite cache purge      # Delete expired pages
  xcite cache clear      # Delete everything`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c, path := mustOpenCache()
		defer c.Close()

		stats, err := c.Stats()
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		stats.Path = path
		if humanOutput {
			fmt.Printf("Cache: %s\n", path)
			fmt.Printf("  pages:   %d (%d expired)\n", stats.Pages, stats.Expired)
			fmt.Printf("  size:    %s\n", formatBytes(stats.Bytes))
			return
		}
		outputJSON(stats)
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired pages",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c, path := mustOpenCache()
		defer c.Close()
		n, err := c.Purge()
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		reportCacheChange("purged", path, n)
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached page",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c, path := mustOpenCache()
		defer c.Close()
		n, err := c.Clear()
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		reportCacheChange("cleared", path, n)
	},
}

// mustOpenCache opens the configured page cache, exits on error.
// The caller is responsible for calling Close().
func mustOpenCache() (*pagecache.Cache, string) {
	s := mustLoadSettings()
	c, err := pagecache.Open(s.CachePath, s.CacheTTL)
	if err != nil {
		exitWithError(ExitError, "opening page cache: %v", err)
	}
	return c, s.CachePath
}

func reportCacheChange(status, path string, n int64) {
	if humanOutput {
		fmt.Printf("Cache %s: %d pages removed\n", status, n)
		return
	}
	outputJSON(StatusResponse{Status: status, Path: path, Count: n})
}
