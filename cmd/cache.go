package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/internal/iocache"
	"github.com/huangsam/analyzer/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Snapshot store only; ranking history is left unset
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on snapshot cache management.
//
// Note: Cache subcommands skip project resolution and only open the snapshot store.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the ranking snapshot cache (powers rank moves)",
	Long: `Manage the cache holding the last ranking of every project.

The rank command compares each ranking with the previous one of the same
project and shows how far every specimen moved. Clearing the cache resets
every specimen to "new".

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached snapshots

Examples:
  analyzer cache status
  analyzer cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached ranking snapshots",
	Long: `Delete every stored ranking snapshot from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the snapshot table

Examples:
  analyzer cache clear
  ANALYZER_CACHE_BACKEND=mysql ANALYZER_CACHE_DB_CONNECT="..." analyzer cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, the number of cached snapshots, the time range they
span and the approximate storage size.

Examples:
  analyzer cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSnapshotStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("cache backend %q is not initialized", cfg.CacheBackend))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
