package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/analyzer/core"
	"github.com/huangsam/analyzer/internal/contract"
	"github.com/spf13/cobra"
)

// newCmd creates an empty project file.
var newCmd = &cobra.Command{
	Use:   "new <name> <path>",
	Short: "Create an empty project file",
	Long: `Create a project with no properties and no specimens and save it to path.

The file format follows the extension: .asproj and .json are JSON, .yaml and
.yml are YAML. An existing file is never overwritten.

Examples:
  analyzer new cars cars.asproj
  analyzer new bikes bikes.yaml`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(_ *cobra.Command, args []string) error {
		return configSetup(args[1:])
	},
	Run: func(_ *cobra.Command, args []string) {
		p, err := core.ExecuteNew(args[0], cfg.ProjectPath)
		if err != nil {
			contract.LogFatal("Cannot create project", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "✅ Created project %s at %s\n", p.Name(), p.Path())
	},
}
