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

// analysisBackendFromConfig reads the history backend. An unset backend means
// SQLite, the same store rank --record falls back to.
func analysisBackendFromConfig() (schema.DatabaseBackend, string, error) {
	backend := schema.DatabaseBackend(viper.GetString("analysis-backend"))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	connStr := viper.GetString("analysis-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// analysisSetup loads minimal configuration needed for history operations.
func analysisSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := analysisBackendFromConfig()
	if err != nil {
		return err
	}

	// History store only; no snapshot cache for analysis commands
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// analysisSetupWrapper wraps analysisSetup to provide PreRunE for analysis commands.
func analysisSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisSetup()
}

// analysisMigrateSetup loads the backend for migrations without creating any
// tables, so migrations can run against a fresh database.
func analysisMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, connStr, err := analysisBackendFromConfig()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetAnalysisDBFilePath()
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr

	return nil
}

// analysisCmd focused on ranking history management.
var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage ranking history and exports",
	Long: `Manage the history written by rank --record.

Every recorded run stores:
- Run metadata (project, timestamps, weight sum, configuration)
- The score, label and rank of every specimen

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export history to Parquet for analytics
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  analyzer analysis status
  analyzer analysis export --output-file history.parquet`,
}

// analysisClearCmd clears the ranking history.
var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded ranking runs",
	Long: `Delete every recorded ranking run and specimen score.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  analyzer analysis export --output-file backup.parquet
  analyzer analysis clear`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseCaching()
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, contract.GetAnalysisDBFilePath(), cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

// analysisStatusCmd shows history status.
var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display ranking history statistics and connection details",
	Long: `Show the backend, the number of recorded runs, the time range they span,
the number of specimen scores and the table sizes.

Examples:
  analyzer analysis status`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetAnalysisStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get analysis status", err)
		}
		iocache.PrintAnalysisStatus(os.Stdout, status)
	},
}

// analysisExportCmd exports ranking history to Parquet files.
var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export ranking history to Parquet for BI tools and analytics",
	Long: `Export all recorded runs and specimen scores to two Parquet files named
after --output-file, ready for DuckDB, pandas or Spark.

Requires: --output-file parameter

Examples:
  analyzer analysis export --output-file history.parquet`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteAnalysisExport(os.Stderr, iocache.Manager.GetAnalysisStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// analysisMigrateCmd runs database migrations for the history store.
var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the ranking history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  analyzer analysis migrate
  analyzer analysis migrate --target-version 0`,
	PreRunE: analysisMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateAnalysis(cfg.AnalysisBackend, cfg.AnalysisDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
