// Package cmd defines the command-line interface for analyzer.
package cmd

import (
	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(propertyCmd)
	rootCmd.AddCommand(specimenCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)

	// Add the property subcommands to the parent property command
	propertyCmd.AddCommand(propertyAddCmd)
	propertyCmd.AddCommand(propertyRemoveCmd)
	propertyCmd.AddCommand(propertyRenameCmd)
	propertyCmd.AddCommand(propertyRetypeCmd)
	propertyCmd.AddCommand(propertySetCmd)

	// Add the specimen subcommands to the parent specimen command
	specimenCmd.AddCommand(specimenAddCmd)
	specimenCmd.AddCommand(specimenRemoveCmd)
	specimenCmd.AddCommand(specimenRenameCmd)
	specimenCmd.AddCommand(specimenSetCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Bool("detail", false, "Print the normalized value of every scoring property")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display (0 = all)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Snapshot cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Ranking history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for ranking history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of rankCmd to Viper
	rankCmd.Flags().Bool("explain", false, "Print the properties contributing most to each score")
	rankCmd.Flags().Bool("record", false, "Record this ranking in the history store")
	rankCmd.Flags().String("weights-override", "", "Run-only property weights (format: 'speed:3,cost:-1')")
	if err := viper.BindPFlags(rankCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rank flags", err)
	}

	// Bind all flags of checkCmd to Viper
	checkCmd.Flags().Float64("fail-below", 0.5, "Minimum score every scored specimen must reach (0..1)")
	if err := viper.BindPFlags(checkCmd.Flags()); err != nil {
		contract.LogFatal("Error binding check flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Address the HTTP API listens on")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}

	// Editing flags are read straight from the command, not from Viper
	propertyAddCmd.Flags().String("type", string(schema.TextType), "Property type: Text or Double or Boolean")
	propertyAddCmd.Flags().Int("weight", 0, "Property weight (negative weights invert the contribution)")
	propertyAddCmd.Flags().String("strategy", string(schema.MaxStrategy), "Normalization strategy for Double properties")
	propertySetCmd.Flags().Int("weight", 0, "New property weight")
	propertySetCmd.Flags().String("strategy", "", "New normalization strategy")
	specimenCmd.PersistentFlags().Int("index", 0, "1-based position among specimens sharing the name")
}
