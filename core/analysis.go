package core

import (
	"time"

	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/schema"
)

// recordRankingRun writes one run and its scores to the analysis store.
// Tracking failures are logged and never fail the ranking.
func recordRankingRun(cfg *contract.Config, store contract.AnalysisStore, result schema.RankingResult, start time.Time) {
	if store == nil {
		return
	}

	summary := schema.RunSummary{
		ProjectName:   result.Project,
		ProjectPath:   result.Path,
		PropertyCount: len(result.Properties),
		WeightSum:     result.WeightSum,
		ConfigParams: map[string]any{
			"result_limit": cfg.ResultLimit,
			"precision":    cfg.Precision,
			"output":       string(cfg.Output),
			"overrides":    cfg.WeightOverrides,
		},
	}
	analysisID, err := store.BeginAnalysis(start, summary)
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return
	}

	scores := make([]schema.SpecimenScore, len(result.Rows))
	for i, r := range result.Rows {
		scores[i] = schema.SpecimenScore{
			SpecimenID:   r.ID,
			SpecimenName: r.Name,
			Rank:         r.Rank,
			Scored:       r.Value != nil,
			Label:        r.Label,
		}
		if r.Value != nil {
			scores[i].Score = *r.Value
		}
	}
	if err := store.RecordSpecimenScores(analysisID, scores); err != nil {
		contract.LogWarn("Failed to record specimen scores", err)
	}
	if err := store.EndAnalysis(analysisID, time.Now(), len(scores)); err != nil {
		contract.LogWarn("Failed to finalize analysis tracking", err)
	}
}
