package cmd

import (
	"github.com/huangsam/analyzer/core"
	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/internal/outwriter"
	"github.com/spf13/cobra"
)

// rankCmd focused on ranking the specimens of a project.
var rankCmd = &cobra.Command{
	Use:   "rank [project]",
	Short: "Score and rank every specimen of a project",
	Long: `Score every specimen of a project on a 0..1 scale and print them best first.

Each scoring property (Double or Boolean) is normalized with its strategy and
weighted; the score is the weighted mean over the weight sum. Specimens of a
project whose weights sum to zero are listed as Unscored.

The previous ranking of the same project is kept in the snapshot cache, so the
table shows how far each specimen moved since the last run.

Examples:
  # Rank the only project in the current directory
  analyzer rank

  # Top 10 with normalized values and score breakdown
  analyzer rank cars.asproj --limit 10 --detail --explain

  # Try other weights without touching the project file
  analyzer rank cars.asproj --weights-override "speed:5,cost:-2"

  # Keep a history of rankings for later export
  analyzer rank cars.asproj --record --analysis-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRank(rootCtx, cfg, cacheManager, outwriter.NewOutWriter()); err != nil {
			contract.LogFatal("Cannot rank project", err)
		}
	},
}
