package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/schema"
)

// Table names for ranking history.
const (
	rankingRunsTable    = "analyzer_ranking_runs"
	specimenScoresTable = "analyzer_specimen_scores"
)

// historyTables lists the history tables in drop order.
var historyTables = []string{specimenScoresTable, rankingRunsTable}

// AnalysisStoreImpl records ranking runs and the scores they produced.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore opens the backend and creates the history tables.
// NoneBackend returns a store that records nothing.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetAnalysisDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := createAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}
	return &AnalysisStoreImpl{db: db, backend: backend}, nil
}

// createAnalysisTables creates the history tables when missing.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{rankingRunsTable, getCreateRankingRunsQuery(backend)},
		{specimenScoresTable, getCreateSpecimenScoresQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

func getCreateRankingRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(rankingRunsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				project_name VARCHAR(255) NOT NULL,
				project_path VARCHAR(1024),
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_specimens INT NOT NULL DEFAULT 0,
				total_properties INT NOT NULL DEFAULT 0,
				weight_sum INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGSERIAL PRIMARY KEY,
				project_name TEXT NOT NULL,
				project_path TEXT,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_specimens INT NOT NULL DEFAULT 0,
				total_properties INT NOT NULL DEFAULT 0,
				weight_sum INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id INTEGER PRIMARY KEY AUTOINCREMENT,
				project_name TEXT NOT NULL,
				project_path TEXT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_specimens INTEGER NOT NULL DEFAULT 0,
				total_properties INTEGER NOT NULL DEFAULT 0,
				weight_sum INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

func getCreateSpecimenScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(specimenScoresTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				specimen_id CHAR(36) NOT NULL,
				specimen_name VARCHAR(255) NOT NULL,
				analysis_time DATETIME(6) NOT NULL,
				specimen_rank INT NOT NULL,
				score DOUBLE,
				score_label VARCHAR(50) NOT NULL,
				PRIMARY KEY (analysis_id, specimen_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				specimen_id TEXT NOT NULL,
				specimen_name TEXT NOT NULL,
				analysis_time TIMESTAMPTZ NOT NULL,
				specimen_rank INT NOT NULL,
				score DOUBLE PRECISION,
				score_label TEXT NOT NULL,
				PRIMARY KEY (analysis_id, specimen_id)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id INTEGER NOT NULL,
				specimen_id TEXT NOT NULL,
				specimen_name TEXT NOT NULL,
				analysis_time TEXT NOT NULL,
				specimen_rank INTEGER NOT NULL,
				score REAL,
				score_label TEXT NOT NULL,
				PRIMARY KEY (analysis_id, specimen_id)
			);
		`, quotedTableName)
	}
}

// BeginAnalysis opens a ranking run and returns its ID.
func (as *AnalysisStoreImpl) BeginAnalysis(startTime time.Time, summary schema.RunSummary) (int64, error) {
	if as.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(summary.ConfigParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(rankingRunsTable, as.backend)
	args := []any{
		summary.ProjectName, summary.ProjectPath, formatTime(startTime, as.backend),
		summary.PropertyCount, summary.WeightSum, string(configJSON),
	}
	columns := "project_name, project_path, start_time, total_properties, weight_sum, config_params"

	var analysisID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6) RETURNING analysis_id`, quotedTableName, columns)
		err = as.db.QueryRow(query, args...).Scan(&analysisID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)`, quotedTableName, columns)
		var result sql.Result
		result, err = as.db.Exec(query, args...)
		if err == nil {
			analysisID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert ranking run: %w", err)
	}
	return analysisID, nil
}

// EndAnalysis closes a ranking run with its duration and specimen count.
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, totalSpecimens int) error {
	if as.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(rankingRunsTable, as.backend)
	var rawStart any
	query := rebind(fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = ?`, quotedTableName), as.backend)
	if err := as.db.QueryRow(query, analysisID).Scan(&rawStart); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", analysisID, err)
	}
	startTime, err := scanTime(rawStart)
	if err != nil {
		return fmt.Errorf("failed to parse start_time: %w", err)
	}

	update := rebind(fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_specimens = ? WHERE analysis_id = ?`, quotedTableName), as.backend)
	durationMs := endTime.Sub(startTime).Milliseconds()
	if _, err := as.db.Exec(update, formatTime(endTime, as.backend), durationMs, totalSpecimens, analysisID); err != nil {
		return fmt.Errorf("failed to update ranking run: %w", err)
	}
	return nil
}

// RecordSpecimenScores stores the ranked specimens of a run in one transaction.
func (as *AnalysisStoreImpl) RecordSpecimenScores(analysisID int64, scores []schema.SpecimenScore) error {
	if as.db == nil || len(scores) == 0 {
		return nil
	}

	tx, err := as.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := rebind(fmt.Sprintf(`
		INSERT INTO %s (analysis_id, specimen_id, specimen_name, analysis_time, specimen_rank, score, score_label)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, quoteTableName(specimenScoresTable, as.backend)), as.backend)
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare score insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	analysisTime := formatTime(time.Now(), as.backend)
	for _, s := range scores {
		var score sql.NullFloat64
		if s.Scored {
			score = sql.NullFloat64{Float64: s.Score, Valid: true}
		}
		if _, err := stmt.Exec(analysisID, s.SpecimenID, s.SpecimenName, analysisTime, s.Rank, score, string(s.Label)); err != nil {
			return fmt.Errorf("failed to insert score for %s: %w", s.SpecimenName, err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns run counts, the run time range and per-table row counts.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}
	if as.db == nil {
		return status, nil
	}

	runs := quoteTableName(rankingRunsTable, as.backend)
	if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var rawLast, rawOldest any
		row := as.db.QueryRow(fmt.Sprintf("SELECT analysis_id, start_time FROM %s ORDER BY analysis_id DESC LIMIT 1", runs))
		if err := row.Scan(&status.LastRunID, &rawLast); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		row = as.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id ASC LIMIT 1", runs))
		if err := row.Scan(&rawOldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		var err error
		if status.LastRunTime, err = scanTime(rawLast); err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		if status.OldestRunTime, err = scanTime(rawOldest); err != nil {
			return status, fmt.Errorf("failed to parse oldest run time: %w", err)
		}

		row = as.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_specimens), 0) FROM %s", runs))
		if err := row.Scan(&status.TotalSpecimensRated); err != nil {
			return status, fmt.Errorf("failed to get total specimens rated: %w", err)
		}
	}

	for _, table := range []string{rankingRunsTable, specimenScoresTable} {
		var count int64
		row := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllAnalysisRuns returns every ranking run ordered by ID.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, project_name, project_path, start_time, end_time, run_duration_ms,
		total_specimens, total_properties, weight_sum, config_params FROM %s ORDER BY analysis_id`,
		quoteTableName(rankingRunsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var (
			record      schema.AnalysisRunRecord
			projectPath sql.NullString
			rawStart    any
			rawEnd      any
			duration    sql.NullInt32
			config      sql.NullString
		)
		if err := rows.Scan(&record.AnalysisID, &record.ProjectName, &projectPath, &rawStart, &rawEnd, &duration,
			&record.TotalSpecimens, &record.TotalProps, &record.WeightSum, &config); err != nil {
			return nil, fmt.Errorf("failed to scan ranking run: %w", err)
		}
		record.ProjectPath = projectPath.String
		if record.StartTime, err = scanTime(rawStart); err != nil {
			return nil, fmt.Errorf("failed to parse start time: %w", err)
		}
		if rawEnd != nil {
			end, err := scanTime(rawEnd)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end time: %w", err)
			}
			record.EndTime = &end
		}
		if duration.Valid {
			record.RunDurationMs = &duration.Int32
		}
		if config.Valid {
			record.ConfigParams = &config.String
		}
		results = append(results, record)
	}
	return results, rows.Err()
}

// GetAllSpecimenScores returns every recorded score ordered by run and rank.
func (as *AnalysisStoreImpl) GetAllSpecimenScores() ([]schema.SpecimenScoreRecord, error) {
	if as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, specimen_id, specimen_name, analysis_time, specimen_rank, score, score_label
		FROM %s ORDER BY analysis_id, specimen_rank, specimen_name`, quoteTableName(specimenScoresTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query specimen scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SpecimenScoreRecord
	for rows.Next() {
		var (
			record  schema.SpecimenScoreRecord
			rawTime any
			score   sql.NullFloat64
		)
		if err := rows.Scan(&record.AnalysisID, &record.SpecimenID, &record.SpecimenName, &rawTime,
			&record.Rank, &score, &record.ScoreLabel); err != nil {
			return nil, fmt.Errorf("failed to scan specimen score: %w", err)
		}
		if record.AnalysisTime, err = scanTime(rawTime); err != nil {
			return nil, fmt.Errorf("failed to parse analysis time: %w", err)
		}
		if score.Valid {
			record.Score = &score.Float64
		}
		results = append(results, record)
	}
	return results, rows.Err()
}
