// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/analyzer/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetSnapshotStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking ranking runs and their scores.
type AnalysisStore interface {
	// BeginAnalysis creates a new ranking run and returns its unique ID
	BeginAnalysis(startTime time.Time, summary schema.RunSummary) (int64, error)

	// EndAnalysis updates the ranking run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalSpecimens int) error

	// RecordSpecimenScores stores the ranked scores of one run
	RecordSpecimenScores(analysisID int64, scores []schema.SpecimenScore) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every recorded run, oldest first
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllSpecimenScores returns every recorded specimen score
	GetAllSpecimenScores() ([]schema.SpecimenScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}

// OutputWriter renders command results in the configured output format.
type OutputWriter interface {
	// WriteRanking prints a ranked project
	WriteRanking(result schema.RankingResult, cfg *Config, duration time.Duration) error

	// WriteProperties prints the property definitions of a project
	WriteProperties(result schema.RankingResult, cfg *Config) error

	// WriteMetrics prints the normalization curves
	WriteMetrics(model schema.MetricsRenderModel, cfg *Config) error

	// WriteCheck prints the outcome of a threshold check
	WriteCheck(result schema.CheckResult, cfg *Config) error
}
