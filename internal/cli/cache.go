package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/pyscope/internal/cache"
	"github.com/mvp-joe/pyscope/internal/config"
)

// cacheCmd represents the cache command group
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the introspection result cache",
	Long: `Manage the SQLite cache of introspection result envelopes.

Available commands:
  info        - Show cache location and entry counts
  clear       - Remove every cached entry
  invalidate  - Remove the entry for one script`,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and entry counts",
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached entry",
	RunE:  runCacheClear,
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate <script>",
	Short: "Remove the cached entry for one script",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheInvalidate,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd)
}

func openStore() (*cache.Store, error) {
	cfg, err := config.LoadFrom(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cache.Open(cfg.Cache.BaseDir)
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Cache Location: %s\n", store.Path())
	fmt.Printf("Total Entries: %d\n", stats.TotalEntries)
	fmt.Printf("Valid Entries: %d\n", stats.ValidEntries)
	fmt.Printf("Stale Entries: %d\n", stats.StaleEntries)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Cache cleared.")
	return nil
}

func runCacheInvalidate(cmd *cobra.Command, args []string) error {
	scriptPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve script path: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Invalidate(scriptPath); err != nil {
		return err
	}
	fmt.Printf("Invalidated cache entry for %s\n", scriptPath)
	return nil
}
