package iocache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/analyzer/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteAnalysisStore(t *testing.T) *AnalysisStoreImpl {
	t.Helper()
	store, err := NewAnalysisStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "analysis.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*AnalysisStoreImpl)
}

func TestAnalysisStore_NoneBackend(t *testing.T) {
	store, err := NewAnalysisStore(schema.NoneBackend, "")
	require.NoError(t, err)

	id, err := store.BeginAnalysis(time.Now(), schema.RunSummary{ProjectName: "cars"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), id)
	assert.NoError(t, store.RecordSpecimenScores(1, []schema.SpecimenScore{{SpecimenID: "x"}}))
	assert.NoError(t, store.EndAnalysis(1, time.Now(), 1))

	runs, err := store.GetAllAnalysisRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, store.Close())
}

func TestAnalysisStore_RunLifecycle(t *testing.T) {
	store := newSQLiteAnalysisStore(t)

	start := time.Now().Add(-2 * time.Second)
	id, err := store.BeginAnalysis(start, schema.RunSummary{
		ProjectName:   "cars",
		ProjectPath:   "/tmp/cars.asproj",
		PropertyCount: 2,
		WeightSum:     3,
		ConfigParams:  map[string]any{"limit": 10},
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	scores := []schema.SpecimenScore{
		{SpecimenID: "id-b", SpecimenName: "B", Rank: 1, Score: 0.9, Scored: true, Label: schema.TopLabel},
		{SpecimenID: "id-a", SpecimenName: "A", Rank: 2, Score: 0.1, Scored: true, Label: schema.LowLabel},
		{SpecimenID: "id-c", SpecimenName: "C", Rank: 3, Label: schema.UnscoredLabel},
	}
	require.NoError(t, store.RecordSpecimenScores(id, scores))
	require.NoError(t, store.EndAnalysis(id, start.Add(1500*time.Millisecond), len(scores)))

	runs, err := store.GetAllAnalysisRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, id, run.AnalysisID)
	assert.Equal(t, "cars", run.ProjectName)
	assert.Equal(t, "/tmp/cars.asproj", run.ProjectPath)
	assert.Equal(t, int32(3), run.TotalSpecimens)
	assert.Equal(t, int32(2), run.TotalProps)
	assert.Equal(t, int32(3), run.WeightSum)
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(1500), *run.RunDurationMs)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"limit":10}`, *run.ConfigParams)

	records, err := store.GetAllSpecimenScores()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "B", records[0].SpecimenName)
	require.NotNil(t, records[0].Score)
	assert.InDelta(t, 0.9, *records[0].Score, 1e-12)
	assert.Nil(t, records[2].Score)
	assert.Equal(t, "Unscored", records[2].ScoreLabel)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, id, status.LastRunID)
	assert.Equal(t, 3, status.TotalSpecimensRated)
	assert.Equal(t, int64(3), status.TableSizes[specimenScoresTable])
}

func TestAnalysisStore_DuplicateScoreRollsBack(t *testing.T) {
	store := newSQLiteAnalysisStore(t)
	id, err := store.BeginAnalysis(time.Now(), schema.RunSummary{ProjectName: "cars"})
	require.NoError(t, err)

	err = store.RecordSpecimenScores(id, []schema.SpecimenScore{
		{SpecimenID: "same", SpecimenName: "A", Rank: 1, Label: schema.UnscoredLabel},
		{SpecimenID: "same", SpecimenName: "B", Rank: 2, Label: schema.UnscoredLabel},
	})
	assert.Error(t, err)

	records, err := store.GetAllSpecimenScores()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAnalysisStore_EndUnknownRun(t *testing.T) {
	store := newSQLiteAnalysisStore(t)
	assert.Error(t, store.EndAnalysis(42, time.Now(), 0))
}

func TestExecuteAnalysisExport(t *testing.T) {
	store := newSQLiteAnalysisStore(t)
	var out bytes.Buffer
	base := filepath.Join(t.TempDir(), "history")

	assert.Error(t, ExecuteAnalysisExport(&out, store, ""))
	assert.Error(t, ExecuteAnalysisExport(&out, store, base), "empty history has nothing to export")

	id, err := store.BeginAnalysis(time.Now(), schema.RunSummary{ProjectName: "cars"})
	require.NoError(t, err)
	require.NoError(t, store.RecordSpecimenScores(id, []schema.SpecimenScore{
		{SpecimenID: "a", SpecimenName: "A", Rank: 1, Score: 1, Scored: true, Label: schema.TopLabel},
	}))
	require.NoError(t, store.EndAnalysis(id, time.Now(), 1))

	require.NoError(t, ExecuteAnalysisExport(&out, store, base))
	for _, suffix := range []string{".ranking_runs.parquet", ".specimen_scores.parquet"} {
		_, err := os.Stat(base + suffix)
		assert.NoError(t, err)
	}
	assert.Contains(t, out.String(), "Exported 1 ranking runs")
}

func TestPrintAnalysisStatus(t *testing.T) {
	var out bytes.Buffer
	PrintAnalysisStatus(&out, schema.AnalysisStatus{
		Backend:    "sqlite",
		Connected:  true,
		TotalRuns:  2,
		TableSizes: map[string]int64{specimenScoresTable: 4, rankingRunsTable: 2},
	})
	text := out.String()
	assert.Contains(t, text, "Total Runs: 2")
	assert.Less(t, bytes.Index(out.Bytes(), []byte(rankingRunsTable)), bytes.Index(out.Bytes(), []byte(specimenScoresTable)))

	out.Reset()
	PrintCacheStatus(&out, schema.CacheStatus{Backend: "none"})
	assert.Contains(t, out.String(), "Connected: false")
	assert.NotContains(t, out.String(), "Total Snapshots")
}
