package cmd

import (
	"github.com/huangsam/analyzer/core"
	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/internal/outwriter"
	"github.com/spf13/cobra"
)

// metricsCmd displays the normalization curves.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the normalization curves used to score properties",
	Long: `Show the formula of every normalization strategy and sample each curve
across the [0, 1] range.

No project is read - this is purely informational.

Examples:
  analyzer metrics
  analyzer metrics --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, cacheManager, outwriter.NewOutWriter()); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
