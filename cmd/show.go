package cmd

import (
	"github.com/huangsam/analyzer/core"
	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/internal/outwriter"
	"github.com/spf13/cobra"
)

// showCmd prints the property definitions of a project.
var showCmd = &cobra.Command{
	Use:   "show [project]",
	Short: "Display the properties of a project and their weights",
	Long: `Show every property of a project with its type, weight and normalization strategy.

Examples:
  analyzer show cars.asproj
  analyzer show cars.asproj --output csv --output-file properties.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: projectSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteShow(rootCtx, cfg, cacheManager, outwriter.NewOutWriter()); err != nil {
			contract.LogFatal("Cannot show project", err)
		}
	},
}
