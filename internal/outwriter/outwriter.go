// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

var _ contract.OutputWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRanking prints a ranking using the configured output format.
func (ow *OutWriter) WriteRanking(result schema.RankingResult, cfg *contract.Config, duration time.Duration) error {
	return WriteRankingResults(result, cfg, duration)
}

// WriteProperties prints the property definitions using the configured output format.
func (ow *OutWriter) WriteProperties(result schema.RankingResult, cfg *contract.Config) error {
	return WritePropertyDefinitions(result, cfg)
}

// WriteMetrics prints the normalization curves using the configured output format.
func (ow *OutWriter) WriteMetrics(model schema.MetricsRenderModel, cfg *contract.Config) error {
	return WriteMetricsDefinitions(model, cfg)
}

// WriteCheck prints a check result using the configured output format.
func (ow *OutWriter) WriteCheck(result schema.CheckResult, cfg *contract.Config) error {
	return WriteCheckResult(result, cfg)
}
