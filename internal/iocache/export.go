package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/internal/parquet"
)

// ExecuteAnalysisExport writes the ranking history of store to two Parquet
// files named after outputFile.
func ExecuteAnalysisExport(w io.Writer, store contract.AnalysisStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("analysis store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total ranking runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total specimen records: %d\n", status.TableSizes[specimenScoresTable])

	runs, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve ranking runs: %w", err)
	}
	scores, err := store.GetAllSpecimenScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve specimen scores: %w", err)
	}

	runsFile := outputFile + ".ranking_runs.parquet"
	runRows := parquet.ConvertRankingRunRecords(runs)
	if err := parquet.WriteRankingRunsParquet(runRows, runsFile); err != nil {
		return fmt.Errorf("failed to write ranking runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d ranking runs to: %s\n", len(runRows), runsFile)

	scoresFile := outputFile + ".specimen_scores.parquet"
	scoreRows := parquet.ConvertSpecimenScoreRecords(scores)
	if err := parquet.WriteSpecimenScoresParquet(scoreRows, scoresFile); err != nil {
		return fmt.Errorf("failed to write specimen scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d specimen scores to: %s\n", len(scoreRows), scoresFile)
	return nil
}
