package contract

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/analyzer/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 0 // 0 shows every specimen
	MaxResultLimit     = 1000
	DefaultPrecision   = 3
	MaxPrecision       = 4
	DefaultAddr        = ":8080"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a command.
// This struct remains the "final, validated" config.
type Config struct {
	ProjectPath string
	ResultLimit int
	Detail      bool
	Explain     bool
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	Record      bool
	Addr        string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	// WeightOverrides replaces property weights for a single run without saving them.
	WeightOverrides map[string]int

	// FailBelow is the minimum score every scored specimen must reach in check.
	FailBelow float64

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ProjectPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile        string `mapstructure:"output-file"`
	Limit             int    `mapstructure:"limit"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	Detail            bool   `mapstructure:"detail"`
	Width             int    `mapstructure:"width"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	Color             string `mapstructure:"color"`

	// --- Fields from rankCmd.Flags() ---
	Explain       bool   `mapstructure:"explain"`
	Record        bool   `mapstructure:"record"`
	WeightsString string `mapstructure:"weights-override"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`

	// --- Fields from checkCmd.Flags() ---
	FailBelow float64 `mapstructure:"fail-below"`

	// --- Weight overrides from config file ---
	Weights map[string]int `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.WeightOverrides != nil {
		clone.WeightOverrides = maps.Clone(c.WeightOverrides)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWeightOverrides(cfg, input); err != nil {
		return err
	}
	if err := resolveProjectPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return err
	}

	// Cache and analysis must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		analysisDBPath := cfg.AnalysisDBConnect
		if analysisDBPath == "" {
			analysisDBPath = GetAnalysisDBFilePath()
		}
		if cacheDBPath == analysisDBPath {
			return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Explain = input.Explain
	cfg.Record = input.Record
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", input.Output)
	}
	if (cfg.Output == schema.ParquetOut || cfg.Output == schema.XLSXOut) && cfg.OutputFile == "" {
		return fmt.Errorf("output format %s requires --output-file", cfg.Output)
	}

	if input.FailBelow < 0 || input.FailBelow > 1 {
		return fmt.Errorf("fail-below must be between 0 and 1 (received %.2f)", input.FailBelow)
	}
	cfg.FailBelow = input.FailBelow

	cfg.Addr = strings.TrimSpace(input.Addr)
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	return validateBackendConfigs(cfg, input)
}

// processWeightOverrides merges config file weights with the command-line
// --weights-override flag, which takes precedence.
func processWeightOverrides(cfg *Config, input *ConfigRawInput) error {
	overrides := make(map[string]int, len(input.Weights))
	maps.Copy(overrides, input.Weights)

	if input.WeightsString != "" {
		parsed, err := ParseWeightsString(input.WeightsString)
		if err != nil {
			return fmt.Errorf("invalid --weights-override format: %w", err)
		}
		maps.Copy(overrides, parsed)
	}
	if len(overrides) == 0 {
		cfg.WeightOverrides = nil
		return nil
	}
	cfg.WeightOverrides = overrides
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveProjectPath makes the project path absolute. A directory argument
// resolves to the single project file inside it.
func resolveProjectPath(cfg *Config, input *ConfigRawInput) error {
	if input.ProjectPathStr == "" {
		cfg.ProjectPath = ""
		return nil
	}
	absPath, err := filepath.Abs(input.ProjectPathStr)
	if err != nil {
		return err
	}
	absPath = filepath.Clean(absPath)

	info, err := os.Stat(absPath)
	if err != nil || !info.IsDir() {
		// Missing files are reported when the project is opened
		cfg.ProjectPath = absPath
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(absPath, "*"+schema.ProjectExtension))
	if err != nil {
		return err
	}
	switch len(matches) {
	case 0:
		return fmt.Errorf("no %s file found in %s", schema.ProjectExtension, absPath)
	case 1:
		cfg.ProjectPath = matches[0]
		return nil
	default:
		return fmt.Errorf("multiple %s files found in %s; pass one explicitly", schema.ProjectExtension, absPath)
	}
}

// ParseWeightsString parses a string like "speed:3,cost:-1" into a map of
// property name to weight.
func ParseWeightsString(s string) (map[string]int, error) {
	weights := make(map[string]int)
	if s == "" {
		return weights, nil
	}

	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.LastIndex(part, ":")
		if idx <= 0 {
			return nil, fmt.Errorf("invalid weight format '%s', expected 'property:weight'", part)
		}
		name := strings.TrimSpace(part[:idx])
		valueStr := strings.TrimSpace(part[idx+1:])

		value, err := strconv.Atoi(valueStr)
		if err != nil {
			return nil, fmt.Errorf("invalid weight '%s' for property %s: %w", valueStr, name, err)
		}
		weights[name] = value
	}
	return weights, nil
}
