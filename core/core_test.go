package core

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/internal/iocache"
	"github.com/huangsam/analyzer/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recordingWriter captures what the executors hand to the output layer.
type recordingWriter struct {
	ranking    *schema.RankingResult
	properties *schema.RankingResult
	metrics    *schema.MetricsRenderModel
	check      *schema.CheckResult
}

var _ contract.OutputWriter = &recordingWriter{}

func (w *recordingWriter) WriteRanking(result schema.RankingResult, _ *contract.Config, _ time.Duration) error {
	w.ranking = &result
	return nil
}

func (w *recordingWriter) WriteProperties(result schema.RankingResult, _ *contract.Config) error {
	w.properties = &result
	return nil
}

func (w *recordingWriter) WriteMetrics(model schema.MetricsRenderModel, _ *contract.Config) error {
	w.metrics = &model
	return nil
}

func (w *recordingWriter) WriteCheck(result schema.CheckResult, _ *contract.Config) error {
	w.check = &result
	return nil
}

// writeCarsProject saves a project where Alpha > Gamma > Beta with scores .75, .5, .25.
func writeCarsProject(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars"+schema.ProjectExtension)
	p, err := NewProjectAt("cars", path)
	require.NoError(t, err)
	require.NoError(t, p.AddProperty(schema.Property{Name: "speed", Type: schema.DoubleType, Weight: 3, Strategy: schema.MaxStrategy}))
	require.NoError(t, p.AddProperty(schema.Property{Name: "cost", Type: schema.DoubleType, Weight: 1, Strategy: schema.MinStrategy}))
	require.NoError(t, p.AddProperty(schema.Property{Name: "notes", Type: schema.TextType}))
	for _, s := range []struct {
		name        string
		speed, cost float64
	}{{"Alpha", 200, 30}, {"Beta", 100, 10}, {"Gamma", 150, 20}} {
		_, err := p.AddSpecimen(s.name, map[string]schema.Value{
			"speed": schema.NumberValue(s.speed),
			"cost":  schema.NumberValue(s.cost),
		})
		require.NoError(t, err)
	}
	require.NoError(t, p.Save(""))
	return path
}

func TestExecuteRank(t *testing.T) {
	path := writeCarsProject(t)
	key := contract.SnapshotKey(path)

	previous := schema.RankingSnapshot{
		Project: "cars",
		TakenAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Entries: []schema.SnapshotEntry{{Name: "Beta", Rank: 1}, {Name: "Alpha", Rank: 2}, {Name: "Gamma", Rank: 3}},
	}
	prevData, err := json.Marshal(previous)
	require.NoError(t, err)

	store := &iocache.MockCacheStore{}
	store.On("Get", key).Return(prevData, currentSnapshotVersion, int64(0), nil)
	store.On("Set", key, mock.Anything, currentSnapshotVersion, mock.AnythingOfType("int64")).Return(nil)

	history := &iocache.MockAnalysisStore{}
	history.On("BeginAnalysis", mock.Anything, mock.MatchedBy(func(s schema.RunSummary) bool {
		return s.ProjectName == "cars" && s.PropertyCount == 3 && s.WeightSum == 4
	})).Return(int64(7), nil)
	history.On("RecordSpecimenScores", int64(7), mock.MatchedBy(func(scores []schema.SpecimenScore) bool {
		return len(scores) == 3 && scores[0].SpecimenName == "Alpha" && scores[0].Scored
	})).Return(nil)
	history.On("EndAnalysis", int64(7), mock.Anything, 3).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSnapshotStore").Return(store)
	mgr.On("GetAnalysisStore").Return(history)

	cfg := &contract.Config{ProjectPath: path, ResultLimit: 2, Record: true}
	w := &recordingWriter{}
	require.NoError(t, ExecuteRank(context.Background(), cfg, mgr, w))

	require.NotNil(t, w.ranking)
	result := w.ranking
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 4, result.WeightSum)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Alpha", result.Rows[0].Name)
	assert.InDelta(t, 0.75, *result.Rows[0].Value, 1e-9)
	assert.Equal(t, schema.HighLabel, result.Rows[0].Label)
	assert.Equal(t, 1, *result.Rows[0].RankDelta)
	assert.Equal(t, "Gamma", result.Rows[1].Name)
	assert.Equal(t, map[string]float64{"speed": 0.5, "cost": 0.5}, result.Rows[1].Normalized)
	require.NotNil(t, result.PreviousAt)
	assert.Equal(t, previous.TakenAt, result.PreviousAt.UTC())

	store.AssertExpectations(t)
	history.AssertExpectations(t)
	mgr.AssertExpectations(t)

	var stored schema.RankingSnapshot
	for _, call := range store.Calls {
		if call.Method == "Set" {
			require.NoError(t, json.Unmarshal(call.Arguments.Get(1).([]byte), &stored))
		}
	}
	require.Len(t, stored.Entries, 3)
	assert.Equal(t, "Beta", stored.Entries[2].Name)
}

func TestExecuteRank_NoStores(t *testing.T) {
	path := writeCarsProject(t)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSnapshotStore").Return(nil)

	w := &recordingWriter{}
	require.NoError(t, ExecuteRank(context.Background(), &contract.Config{ProjectPath: path}, mgr, w))

	require.Len(t, w.ranking.Rows, 3)
	assert.Nil(t, w.ranking.PreviousAt)
	for _, r := range w.ranking.Rows {
		assert.Nil(t, r.RankDelta)
	}
	mgr.AssertNotCalled(t, "GetAnalysisStore")
}

func TestExecuteRank_CacheMissAndStaleVersion(t *testing.T) {
	path := writeCarsProject(t)
	key := contract.SnapshotKey(path)

	store := &iocache.MockCacheStore{}
	store.On("Get", key).Return([]byte(`{"entries":[]}`), currentSnapshotVersion+1, int64(0), nil)
	store.On("Set", key, mock.Anything, currentSnapshotVersion, mock.AnythingOfType("int64")).Return(errors.New("disk full"))
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSnapshotStore").Return(store)

	w := &recordingWriter{}
	require.NoError(t, ExecuteRank(context.Background(), &contract.Config{ProjectPath: path}, mgr, w))
	assert.Nil(t, w.ranking.PreviousAt)
}

func TestExecuteRank_WeightOverridesAreNotSaved(t *testing.T) {
	path := writeCarsProject(t)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSnapshotStore").Return(nil)

	cfg := &contract.Config{ProjectPath: path, WeightOverrides: map[string]int{"cost": 0, "missing": 5}}
	w := &recordingWriter{}
	require.NoError(t, ExecuteRank(context.Background(), cfg, mgr, w))

	assert.Equal(t, 3, w.ranking.WeightSum)
	assert.InDelta(t, 1.0, *w.ranking.Rows[0].Value, 1e-9)
	assert.InDelta(t, 0.0, *w.ranking.Rows[2].Value, 1e-9)

	reopened, err := OpenProject(path)
	require.NoError(t, err)
	prop, ok := reopened.Property("cost")
	require.True(t, ok)
	assert.Equal(t, 1, prop.Weight)
}

func TestExecuteRank_Errors(t *testing.T) {
	mgr := &iocache.MockCacheManager{}
	w := &recordingWriter{}

	err := ExecuteRank(context.Background(), &contract.Config{}, mgr, w)
	assert.ErrorIs(t, err, ErrNoPath)

	err = ExecuteRank(context.Background(), &contract.Config{ProjectPath: filepath.Join(t.TempDir(), "nope.asproj")}, mgr, w)
	assert.True(t, IsLoadError(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = ExecuteRank(ctx, &contract.Config{ProjectPath: writeCarsProject(t)}, mgr, w)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, w.ranking)
}

func TestExecuteShow(t *testing.T) {
	path := writeCarsProject(t)
	w := &recordingWriter{}
	require.NoError(t, ExecuteShow(context.Background(), &contract.Config{ProjectPath: path}, nil, w))

	require.NotNil(t, w.properties)
	assert.Equal(t, "cars", w.properties.Project)
	assert.Equal(t, path, w.properties.Path)
	require.Len(t, w.properties.Properties, 3)
	assert.Equal(t, "notes", w.properties.Properties[2].Name)
	assert.Equal(t, 3, w.properties.Total)
}

func TestExecuteMetrics(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, ExecuteMetrics(context.Background(), &contract.Config{}, nil, w))

	require.NotNil(t, w.metrics)
	require.Len(t, w.metrics.Curves, 6)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, w.metrics.Positions)
	assert.Equal(t, schema.MaxStrategy, w.metrics.Curves[0].Strategy)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, w.metrics.Curves[0].Samples, 1e-9)
	assert.InDeltaSlice(t, []float64{1, 0.75, 0.5, 0.25, 0}, w.metrics.Curves[1].Samples, 1e-9)
}

func TestExecuteCheck(t *testing.T) {
	path := writeCarsProject(t)

	t.Run("passes", func(t *testing.T) {
		w := &recordingWriter{}
		require.NoError(t, ExecuteCheck(context.Background(), &contract.Config{ProjectPath: path, FailBelow: 0.2}, nil, w))
		assert.True(t, w.check.Passed)
		assert.Equal(t, 3, w.check.ScoredCount)
		assert.InDelta(t, 0.25, w.check.MinScore, 1e-9)
		assert.InDelta(t, 0.5, w.check.AvgScore, 1e-9)
		assert.Empty(t, w.check.Failed)
	})

	t.Run("fails", func(t *testing.T) {
		w := &recordingWriter{}
		err := ExecuteCheck(context.Background(), &contract.Config{ProjectPath: path, FailBelow: 0.6}, nil, w)
		assert.ErrorIs(t, err, ErrCheckFailed)
		require.Len(t, w.check.Failed, 2)
		assert.Equal(t, schema.CheckFailedSpecimen{Rank: 2, Name: "Gamma", Score: 0.5}, w.check.Failed[0])
		assert.Equal(t, "Beta", w.check.Failed[1].Name)
	})
}

func TestBuildCheckResult_Unscored(t *testing.T) {
	p, err := NewProject("flat")
	require.NoError(t, err)
	require.NoError(t, p.AddProperty(schema.Property{Name: "speed", Type: schema.DoubleType, Weight: 0}))
	_, err = p.AddSpecimen("A", nil)
	require.NoError(t, err)

	result := BuildCheckResult(p, 0.9)
	assert.True(t, result.Passed)
	assert.Equal(t, 1, result.TotalSpecimens)
	assert.Zero(t, result.ScoredCount)
}

func TestBuildRankingResult_Limit(t *testing.T) {
	p, err := OpenProject(writeCarsProject(t))
	require.NoError(t, err)

	result := BuildRankingResult(p, 1, nil)
	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, schema.TextValue(""), result.Rows[0].Properties["notes"])
	assert.NotContains(t, result.Rows[0].Normalized, "notes")

	top := TopSpecimens(p, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "Gamma", top[1].Name())
}
