package cmd

import (
	"maps"
	"slices"

	"github.com/huangsam/analyzer/core"
	"github.com/spf13/cobra"
)

// specimenIndex returns the --index flag shared by the specimen commands.
func specimenIndex(cmd *cobra.Command) int {
	index, _ := cmd.Flags().GetInt("index")
	return index
}

// specimenCmd groups the specimen editing commands.
var specimenCmd = &cobra.Command{
	Use:   "specimen",
	Short: "Add, remove and change the specimens of a project",
	Long: `Edit the specimens of a project file. Specimens are addressed by name;
when several share a name, --index picks one by its 1-based position among them.

Values are given as property=value and converted to the property type, so
"speed=12.5" and "electric=true" both work.

Examples:
  analyzer specimen add cars.asproj Alpha speed=200 cost=30
  analyzer specimen set cars.asproj Alpha cost=28
  analyzer specimen rename cars.asproj Alpha Alpha-GT --index 2`,
}

var specimenAddCmd = &cobra.Command{
	Use:     "add <project> <name> [property=value...]",
	Short:   "Add a specimen, with default values for unset properties",
	Args:    cobra.MinimumNArgs(2),
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		runEdit("add specimen", func(p *core.Project) error {
			values, err := core.ParseAssignments(p, args[2:])
			if err != nil {
				return err
			}
			_, err = p.AddSpecimen(args[1], values)
			return err
		})
	},
}

var specimenRemoveCmd = &cobra.Command{
	Use:     "remove <project> <name>",
	Short:   "Remove a specimen",
	Args:    cobra.ExactArgs(2),
	PreRunE: configSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		runEdit("remove specimen", func(p *core.Project) error {
			s, err := core.ResolveSpecimen(p, args[1], specimenIndex(cmd))
			if err != nil {
				return err
			}
			return p.RemoveSpecimen(s.ID)
		})
	},
}

var specimenRenameCmd = &cobra.Command{
	Use:     "rename <project> <name> <new-name>",
	Short:   "Rename a specimen",
	Args:    cobra.ExactArgs(3),
	PreRunE: configSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		runEdit("rename specimen", func(p *core.Project) error {
			s, err := core.ResolveSpecimen(p, args[1], specimenIndex(cmd))
			if err != nil {
				return err
			}
			return p.RenameSpecimen(s.ID, args[2])
		})
	},
}

var specimenSetCmd = &cobra.Command{
	Use:     "set <project> <name> <property=value>...",
	Short:   "Change property values of a specimen",
	Args:    cobra.MinimumNArgs(3),
	PreRunE: configSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		runEdit("set specimen values", func(p *core.Project) error {
			s, err := core.ResolveSpecimen(p, args[1], specimenIndex(cmd))
			if err != nil {
				return err
			}
			values, err := core.ParseAssignments(p, args[2:])
			if err != nil {
				return err
			}
			for _, name := range slices.Sorted(maps.Keys(values)) {
				if err := p.SetSpecimenValue(s.ID, name, values[name]); err != nil {
					return err
				}
			}
			return nil
		})
	},
}
