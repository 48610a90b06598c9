// Package parquet exports rankings and ranking history as Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/analyzer/schema"
	"github.com/parquet-go/parquet-go"
)

// RankingRun maps to the analyzer_ranking_runs table.
type RankingRun struct {
	AnalysisID     int64      `parquet:"analysis_id,snappy"`
	ProjectName    string     `parquet:"project_name,snappy,dict"`
	ProjectPath    string     `parquet:"project_path,snappy,dict"`
	StartTime      time.Time  `parquet:"start_time,snappy"`
	EndTime        *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs  *int32     `parquet:"run_duration_ms,optional,snappy"`
	TotalSpecimens int32      `parquet:"total_specimens,snappy"`
	TotalProps     int32      `parquet:"total_properties,snappy"`
	WeightSum      int32      `parquet:"weight_sum,snappy"`
	ConfigParams   *string    `parquet:"config_params,optional,snappy"` // JSON
}

// SpecimenScore maps to the analyzer_specimen_scores table.
type SpecimenScore struct {
	AnalysisID   int64     `parquet:"analysis_id,snappy"`
	SpecimenID   string    `parquet:"specimen_id,snappy"`
	SpecimenName string    `parquet:"specimen_name,snappy"`
	AnalysisTime time.Time `parquet:"analysis_time,snappy"`
	Rank         int32     `parquet:"rank,snappy"`
	Score        *float64  `parquet:"score,optional,snappy"` // null when unscored
	ScoreLabel   string    `parquet:"score_label,snappy,dict"`
}

// RankedRow is one line of a ranking written by the rank command.
type RankedRow struct {
	Rank      int32    `parquet:"rank,snappy"`
	ID        string   `parquet:"id,snappy"`
	Name      string   `parquet:"name,snappy"`
	Value     *float64 `parquet:"value,optional,snappy"`
	Label     string   `parquet:"label,snappy,dict"`
	RankDelta *int32   `parquet:"rank_delta,optional,snappy"`
	// Values holds every property value rendered as text, keyed by property name.
	Values string `parquet:"values,snappy"`
}

// WriteRankingRunsParquet writes ranking runs to outputPath.
func WriteRankingRunsParquet(data []RankingRun, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteSpecimenScoresParquet writes recorded scores to outputPath.
func WriteSpecimenScoresParquet(data []SpecimenScore, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteRankingParquet writes a ranking to outputPath.
func WriteRankingParquet(data []RankedRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// writeRows writes every row with a schema inferred from the struct tags of T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// ConvertRankingRunRecords converts history rows for export.
func ConvertRankingRunRecords(records []schema.AnalysisRunRecord) []RankingRun {
	result := make([]RankingRun, len(records))
	for i, record := range records {
		result[i] = RankingRun{
			AnalysisID:     record.AnalysisID,
			ProjectName:    record.ProjectName,
			ProjectPath:    record.ProjectPath,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			RunDurationMs:  record.RunDurationMs,
			TotalSpecimens: record.TotalSpecimens,
			TotalProps:     record.TotalProps,
			WeightSum:      record.WeightSum,
			ConfigParams:   record.ConfigParams,
		}
	}
	return result
}

// ConvertSpecimenScoreRecords converts recorded scores for export.
func ConvertSpecimenScoreRecords(records []schema.SpecimenScoreRecord) []SpecimenScore {
	result := make([]SpecimenScore, len(records))
	for i, record := range records {
		result[i] = SpecimenScore{
			AnalysisID:   record.AnalysisID,
			SpecimenID:   record.SpecimenID,
			SpecimenName: record.SpecimenName,
			AnalysisTime: record.AnalysisTime,
			Rank:         record.Rank,
			Score:        record.Score,
			ScoreLabel:   record.ScoreLabel,
		}
	}
	return result
}

// ConvertRankedSpecimens flattens ranking rows for export.
func ConvertRankedSpecimens(rows []schema.RankedSpecimen) []RankedRow {
	result := make([]RankedRow, len(rows))
	for i, row := range rows {
		out := RankedRow{
			Rank:   int32(row.Rank),
			ID:     row.ID,
			Name:   row.Name,
			Value:  row.Value,
			Label:  string(row.Label),
			Values: formatValues(row.Properties),
		}
		if row.RankDelta != nil {
			delta := int32(*row.RankDelta)
			out.RankDelta = &delta
		}
		result[i] = out
	}
	return result
}

// formatValues renders values as "name=value" pairs in name order.
func formatValues(values map[string]schema.Value) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + values[name].String()
	}
	return strings.Join(parts, ";")
}
