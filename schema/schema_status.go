package schema

import "time"

// CacheStatus represents the status of the snapshot cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// AnalysisStatus represents the status of the ranking history store.
type AnalysisStatus struct {
	Backend             string           `json:"backend"`
	Connected           bool             `json:"connected"`
	TotalRuns           int              `json:"total_runs"`
	LastRunID           int64            `json:"last_run_id"`
	LastRunTime         time.Time        `json:"last_run_time"`
	OldestRunTime       time.Time        `json:"oldest_run_time"`
	TotalSpecimensRated int              `json:"total_specimens_rated"`
	TableSizes          map[string]int64 `json:"table_sizes"`
}

// RunSummary describes a ranking run when it is opened in the history store.
type RunSummary struct {
	ProjectName   string
	ProjectPath   string
	PropertyCount int
	WeightSum     int
	ConfigParams  map[string]any
}

// SpecimenScore is one ranked specimen recorded for a run.
type SpecimenScore struct {
	SpecimenID   string
	SpecimenName string
	Rank         int
	Score        float64
	Scored       bool
	Label        ScoreLabel
}

// AnalysisRunRecord represents a row from the analyzer_ranking_runs table.
type AnalysisRunRecord struct {
	AnalysisID     int64
	ProjectName    string
	ProjectPath    string
	StartTime      time.Time
	EndTime        *time.Time
	RunDurationMs  *int32
	TotalSpecimens int32
	TotalProps     int32
	WeightSum      int32
	ConfigParams   *string
}

// SpecimenScoreRecord represents a row from the analyzer_specimen_scores table.
type SpecimenScoreRecord struct {
	AnalysisID   int64
	SpecimenID   string
	SpecimenName string
	AnalysisTime time.Time
	Rank         int32
	Score        *float64 // nil when the specimen was not scored
	ScoreLabel   string
}
