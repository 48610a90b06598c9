// Package core has the project aggregate and the command entry points that
// load, rank, check and edit projects.
package core

import (
	"context"
	"time"

	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/schema"
)

// ExecutorFunc defines the function signature for the read-only commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, w contract.OutputWriter) error

// ExecuteRank ranks the project at cfg.ProjectPath and prints it. The previous
// ranking is read from the snapshot cache for rank deltas and replaced by this
// one; with cfg.Record the run is also written to the analysis store.
func ExecuteRank(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, w contract.OutputWriter) error {
	start := time.Now()
	p, err := LoadForRun(cfg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	snapshots := mgr.GetSnapshotStore()
	key := contract.SnapshotKey(p.Path())
	previous := loadSnapshot(snapshots, key)

	full := BuildRankingResult(p, 0, previous)
	storeSnapshot(snapshots, key, p.Snapshot())
	if cfg.Record {
		recordRankingRun(cfg, mgr.GetAnalysisStore(), full, start)
	}

	result := full
	result.Rows = limitRows(full.Rows, cfg.ResultLimit)
	return w.WriteRanking(result, cfg, time.Since(start))
}

// ExecuteShow prints the property definitions of a project.
func ExecuteShow(_ context.Context, cfg *contract.Config, _ contract.CacheManager, w contract.OutputWriter) error {
	p, err := LoadForRun(cfg)
	if err != nil {
		return err
	}
	return w.WriteProperties(BuildRankingResult(p, 0, nil), cfg)
}

// ExecuteMetrics prints every normalization curve. It needs no project.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.CacheManager, w contract.OutputWriter) error {
	return w.WriteMetrics(BuildMetricsModel(), cfg)
}

// ExecuteCheck ranks the project and verifies every scored specimen reaches
// cfg.FailBelow. A failed check prints its result and returns ErrCheckFailed.
func ExecuteCheck(_ context.Context, cfg *contract.Config, _ contract.CacheManager, w contract.OutputWriter) error {
	p, err := LoadForRun(cfg)
	if err != nil {
		return err
	}
	result := BuildCheckResult(p, cfg.FailBelow)
	if err := w.WriteCheck(result, cfg); err != nil {
		return err
	}
	if !result.Passed {
		return ErrCheckFailed
	}
	return nil
}

// GetRankingResult ranks the configured project without printing it. The
// snapshot cache is only read, so repeated calls report the same deltas.
func GetRankingResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.RankingResult, error) {
	p, err := LoadForRun(cfg)
	if err != nil {
		return schema.RankingResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return schema.RankingResult{}, err
	}
	var previous *schema.RankingSnapshot
	if mgr != nil {
		previous = loadSnapshot(mgr.GetSnapshotStore(), contract.SnapshotKey(p.Path()))
	}
	return BuildRankingResult(p, cfg.ResultLimit, previous), nil
}

// LoadForRun opens the configured project and applies weight overrides to
// the loaded copy. Overrides naming unknown properties are skipped with a warning.
func LoadForRun(cfg *contract.Config) (*Project, error) {
	if cfg.ProjectPath == "" {
		return nil, ErrNoPath
	}
	p, err := OpenProject(cfg.ProjectPath)
	if err != nil {
		return nil, err
	}
	skipped, err := ApplyWeightOverrides(p, cfg.WeightOverrides)
	if err != nil {
		return nil, err
	}
	for _, name := range skipped {
		contract.LogWarn("Ignoring weight override", &NotFoundError{Kind: "property", Name: name})
	}
	return p, nil
}
