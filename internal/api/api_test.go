package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/analyzer/core"
	"github.com/huangsam/analyzer/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, http.Handler, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars.asproj")
	p, err := core.NewProjectAt("cars", path)
	require.NoError(t, err)
	require.NoError(t, p.AddProperty(schema.Property{Name: "speed", Type: schema.DoubleType, Weight: 1}))
	_, err = p.AddSpecimen("Slow", map[string]schema.Value{"speed": schema.NumberValue(10)})
	require.NoError(t, err)
	_, err = p.AddSpecimen("Fast", map[string]schema.Value{"speed": schema.NumberValue(90)})
	require.NoError(t, err)

	s := NewServer(p, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return s, NewRouter(s), path
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	_, h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)

	do(t, h, http.MethodDelete, "/api/v1/properties/ghost", nil)
	rec = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `analyzer_mutations_total{kind="property.remove",result="error"} 1`)
	assert.Contains(t, rec.Body.String(), "analyzer_specimens 2")
}

func TestGetRanking(t *testing.T) {
	_, h, _ := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/v1/ranking", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[schema.RankingResult](t, rec)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Fast", result.Rows[0].Name)
	assert.InDelta(t, 1.0, *result.Rows[0].Value, 1e-9)

	rec = do(t, h, http.MethodGet, "/api/v1/ranking?limit=1", nil)
	assert.Len(t, decode[schema.RankingResult](t, rec).Rows, 1)

	rec = do(t, h, http.MethodGet, "/api/v1/ranking?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPropertyLifecycle(t *testing.T) {
	_, h, _ := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/properties", map[string]any{
		"name": "cost", "type": "Double", "weight": 1, "normalizationStrategy": "Min",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, schema.MinStrategy, decode[schema.Property](t, rec).Strategy)

	rec = do(t, h, http.MethodPost, "/api/v1/properties", map[string]any{"name": "cost", "type": "Double"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/properties", map[string]any{"name": "x", "type": "Complex"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/v1/properties/cost", map[string]any{"name": "price", "weight": 4})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[schema.Property](t, rec)
	assert.Equal(t, "price", updated.Name)
	assert.Equal(t, 4, updated.Weight)

	rec = do(t, h, http.MethodPatch, "/api/v1/properties/price", map[string]any{"name": "speed"})
	require.Equal(t, http.StatusConflict, rec.Code)
	conflict := decode[map[string]any](t, rec)
	assert.Equal(t, "price", conflict["old"])
	assert.Equal(t, "speed", conflict["new"])

	rec = do(t, h, http.MethodPatch, "/api/v1/properties/price", map[string]any{"normalizationStrategy": "Cubic"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/properties", nil)
	props := decode[[]schema.Property](t, rec)
	require.Len(t, props, 2)
	assert.Equal(t, "price", props[1].Name)

	rec = do(t, h, http.MethodDelete, "/api/v1/properties/price", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/v1/properties/price", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRetypeConflict(t *testing.T) {
	_, h, _ := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/properties", map[string]any{"name": "notes", "type": "Text"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/v1/project", nil)
	project := decode[projectView](t, rec)
	slowID := project.Specimens[0].ID.String()

	rec = do(t, h, http.MethodPatch, "/api/v1/specimens/"+slowID, map[string]any{"properties": map[string]any{"notes": "rusty"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPatch, "/api/v1/properties/notes", map[string]any{"type": "Double"})
	require.Equal(t, http.StatusConflict, rec.Code)
	conflict := decode[map[string]any](t, rec)
	assert.Equal(t, "notes", conflict["property"])
	assert.Equal(t, "Slow", conflict["specimen"])
}

func TestSpecimenLifecycle(t *testing.T) {
	_, h, _ := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/specimens", map[string]any{
		"name": "Mid", "properties": map[string]any{"speed": 50},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[specimenView](t, rec)
	assert.Equal(t, "Mid", created.Name)
	id := created.ID.String()

	rec = do(t, h, http.MethodGet, "/api/v1/ranking", nil)
	result := decode[schema.RankingResult](t, rec)
	assert.Equal(t, "Mid", result.Rows[1].Name)
	assert.InDelta(t, 0.5, *result.Rows[1].Value, 1e-9)

	rec = do(t, h, http.MethodPatch, "/api/v1/specimens/"+id, map[string]any{"name": "Turbo", "properties": map[string]any{"speed": 100}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodGet, "/api/v1/ranking", nil)
	assert.Equal(t, "Turbo", decode[schema.RankingResult](t, rec).Rows[0].Name)

	rec = do(t, h, http.MethodPatch, "/api/v1/specimens/"+id, map[string]any{"properties": map[string]any{"speed": "fast"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPatch, "/api/v1/specimens/"+id, map[string]any{"properties": map[string]any{"ghost": 1}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/specimens", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/specimens/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/v1/specimens/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/v1/specimens/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveProject(t *testing.T) {
	s, h, path := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/v1/project", nil)
	assert.True(t, decode[projectView](t, rec).Dirty)

	rec = do(t, h, http.MethodPost, "/api/v1/save", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[map[string]any](t, rec)
	assert.Equal(t, path, saved["path"])
	assert.Equal(t, false, saved["dirty"])

	reopened, err := core.OpenProject(path)
	require.NoError(t, err)
	assert.Len(t, reopened.Specimens(), 2)

	other := filepath.Join(t.TempDir(), "copy.yaml")
	rec = do(t, h, http.MethodPost, "/api/v1/save", map[string]string{"path": other})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, other, s.project.Path())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/save", strings.NewReader("{"))
	bad := httptest.NewRecorder()
	h.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestDatasetChangeMetrics(t *testing.T) {
	s, h, _ := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/specimens", map[string]any{"name": "Best", "properties": map[string]any{"speed": 200}})
	require.Equal(t, http.StatusCreated, rec.Code)

	families, err := s.registry.Gather()
	require.NoError(t, err)
	changes := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "analyzer_dataset_changes_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			changes[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, changes[string(core.DatasetAdded)])
	assert.Equal(t, 2.0, changes[string(core.DatasetRankChanged)])
}
