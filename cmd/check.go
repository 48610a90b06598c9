package cmd

import (
	"errors"
	"os"

	"github.com/huangsam/analyzer/core"
	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/internal/outwriter"
	"github.com/spf13/cobra"
)

// checkCmd focused on CI/CD policy enforcement.
var checkCmd = &cobra.Command{
	Use:   "check [project]",
	Short: "Fail when a scored specimen falls below a threshold",
	Long: `Score every specimen and exit with a non-zero code when any scored specimen
is below --fail-below. Unscored specimens are ignored.

Use cases:
- Gate a data pipeline on the quality of generated specimens
- Catch regressions after editing property weights

Examples:
  analyzer check cars.asproj --fail-below 0.4
  analyzer check cars.asproj --fail-below 0.6 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: projectSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := core.ExecuteCheck(rootCtx, cfg, cacheManager, outwriter.NewOutWriter())
		if errors.Is(err, core.ErrCheckFailed) {
			os.Exit(1)
		}
		if err != nil {
			contract.LogFatal("Policy check failed", err)
		}
	},
}
