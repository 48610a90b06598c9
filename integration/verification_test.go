//go:build integration

// Package integration contains end-to-end tests that drive the analyzer binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"testing"

	"github.com/huangsam/analyzer/core"
	"github.com/huangsam/analyzer/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noStores = []string{"ANALYZER_CACHE_BACKEND=none"}

// TestRankMatchesLibrary ranks a CLI-built project and compares the JSON output
// with the ranking computed in-process from the same file.
func TestRankMatchesLibrary(t *testing.T) {
	dir := t.TempDir()
	project := createCarsProject(t, dir, noStores)

	out, err := runAnalyzer(t, dir, noStores, "rank", project, "--output", "json")
	require.NoError(t, err)

	var cli schema.RankingResult
	require.NoError(t, json.Unmarshal(out, &cli))

	p, err := core.OpenProject(project)
	require.NoError(t, err)
	want := core.BuildRankingResult(p, 0, nil)

	require.Len(t, cli.Rows, len(want.Rows))
	assert.Equal(t, want.WeightSum, cli.WeightSum)
	for i, row := range want.Rows {
		assert.Equal(t, row.Name, cli.Rows[i].Name, "rank %d", i+1)
		assert.Equal(t, row.Label, cli.Rows[i].Label, "rank %d", i+1)
		require.NotNil(t, cli.Rows[i].Value)
		assert.InDelta(t, *row.Value, *cli.Rows[i].Value, 1e-9, "rank %d", i+1)
	}
}

// TestEditingCommands checks that conflicting edits leave the file untouched.
func TestEditingCommands(t *testing.T) {
	dir := t.TempDir()
	project := createCarsProject(t, dir, noStores)

	_, err := runAnalyzer(t, dir, noStores, "property", "retype", project, "notes", "Double")
	assert.Error(t, err, "notes=demo cannot become a number")

	_, err = runAnalyzer(t, dir, noStores, "property", "rename", project, "cost", "speed")
	assert.Error(t, err, "rename onto an existing property")

	p, err := core.OpenProject(project)
	require.NoError(t, err)
	_, ok := p.Property("cost")
	assert.True(t, ok)
	notes, _ := p.Property("notes")
	assert.Equal(t, schema.TextType, notes.Type)

	_, err = runAnalyzer(t, dir, noStores, "specimen", "add", project, "Alpha", "speed=50")
	require.NoError(t, err)
	_, err = runAnalyzer(t, dir, noStores, "specimen", "remove", project, "Alpha")
	assert.Error(t, err, "two specimens are named Alpha")
	_, err = runAnalyzer(t, dir, noStores, "specimen", "remove", project, "Alpha", "--index", "2")
	require.NoError(t, err)

	p, err = core.OpenProject(project)
	require.NoError(t, err)
	require.Len(t, p.FindSpecimens("Alpha"), 1)
	speed, _ := p.FindSpecimens("Alpha")[0].Value("speed")
	assert.InDelta(t, 200.0, speed.Number(), 1e-9)
}

// TestCheckExitCode checks the pass and fail exit codes of check.
func TestCheckExitCode(t *testing.T) {
	dir := t.TempDir()
	project := createCarsProject(t, dir, noStores)

	_, err := runAnalyzer(t, dir, noStores, "check", project, "--fail-below", "0")
	require.NoError(t, err)

	out, err := runAnalyzer(t, dir, noStores, "check", project, "--fail-below", "0.99", "--color", "no")
	require.Error(t, err)
	assert.Contains(t, string(out), "are below")
}
