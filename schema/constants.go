package schema

// Custom string types for type safety.
type (
	// PropertyType represents the runtime type of a property value.
	PropertyType string

	// NormalizationStrategy represents the curve used to map a raw value into [0, 1].
	NormalizationStrategy string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// ScoreLabel represents a coarse bucket for a specimen score.
	ScoreLabel string
)

// ProjectExtension is the default extension for project files.
const ProjectExtension = ".asproj"

// All property types supported.
const (
	TextType    PropertyType = "Text" // default
	DoubleType  PropertyType = "Double"
	BooleanType PropertyType = "Boolean"
)

// All normalization strategies supported.
const (
	MaxStrategy             NormalizationStrategy = "Max" // default
	MinStrategy             NormalizationStrategy = "Min"
	QuartMaxStrategy        NormalizationStrategy = "QuartMax"
	InverseQuartMaxStrategy NormalizationStrategy = "InverseQuartMax"
	QuartMinStrategy        NormalizationStrategy = "QuartMin"
	InverseQuartMinStrategy NormalizationStrategy = "InverseQuartMin"

	// LegacyInverseMaxStrategy is only accepted when reading old project files.
	// It is migrated to MinStrategy on load.
	LegacyInverseMaxStrategy NormalizationStrategy = "InverseMax"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All score labels supported.
const (
	TopLabel      ScoreLabel = "Top"
	HighLabel     ScoreLabel = "High"
	ModerateLabel ScoreLabel = "Moderate"
	LowLabel      ScoreLabel = "Low"
	UnscoredLabel ScoreLabel = "Unscored"
)

// AllPropertyTypes returns a list of all supported property types.
var AllPropertyTypes = []PropertyType{TextType, DoubleType, BooleanType}

// AllStrategies returns the live normalization strategies in display order.
var AllStrategies = []NormalizationStrategy{
	MaxStrategy,
	MinStrategy,
	QuartMaxStrategy,
	InverseQuartMaxStrategy,
	QuartMinStrategy,
	InverseQuartMinStrategy,
}

// ValidPropertyTypes lists all valid property types.
var ValidPropertyTypes = map[PropertyType]struct{}{
	TextType:    {},
	DoubleType:  {},
	BooleanType: {},
}

// ValidStrategies lists all strategies that may be read from a project file.
var ValidStrategies = map[NormalizationStrategy]struct{}{
	MaxStrategy:              {},
	MinStrategy:              {},
	QuartMaxStrategy:         {},
	InverseQuartMaxStrategy:  {},
	QuartMinStrategy:         {},
	InverseQuartMinStrategy:  {},
	LegacyInverseMaxStrategy: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
