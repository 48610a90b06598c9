package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/analyzer/core"
	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/schema"
	"github.com/spf13/cobra"
)

// runEdit applies edit to the configured project and reports the saved file.
func runEdit(action string, edit func(p *core.Project) error) {
	p, err := core.EditProject(cfg.ProjectPath, edit)
	if err != nil {
		contract.LogFatal("Cannot "+action, err)
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Saved %s\n", p.Title())
}

// parseStrategyFlag reads a strategy name and maps retired names onto live ones.
func parseStrategyFlag(raw string) (schema.NormalizationStrategy, error) {
	s, err := schema.ParseStrategy(raw)
	if err != nil {
		return "", err
	}
	return s.Migrate(), nil
}

// propertyCmd groups the property editing commands.
var propertyCmd = &cobra.Command{
	Use:   "property",
	Short: "Add, remove and change the properties of a project",
	Long: `Edit the properties of a project file. Every subcommand saves the project
when it changed and leaves the file untouched when the edit fails.

Subcommands:
  add    - Declare a new property
  remove - Drop a property and its values
  rename - Rename a property in place
  retype - Convert a property and all its values to another type
  set    - Change the weight or strategy of a property

Examples:
  analyzer property add cars.asproj speed --type Double --weight 3
  analyzer property retype cars.asproj doors Double
  analyzer property set cars.asproj cost --weight -1 --strategy Min`,
}

var propertyAddCmd = &cobra.Command{
	Use:     "add <project> <name>",
	Short:   "Declare a new property",
	Args:    cobra.ExactArgs(2),
	PreRunE: configSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		rawType, _ := cmd.Flags().GetString("type")
		rawStrategy, _ := cmd.Flags().GetString("strategy")
		weight, _ := cmd.Flags().GetInt("weight")

		propType, err := schema.ParsePropertyType(rawType)
		if err != nil {
			contract.LogFatal("Cannot add property", err)
		}
		strategy, err := parseStrategyFlag(rawStrategy)
		if err != nil {
			contract.LogFatal("Cannot add property", err)
		}

		runEdit("add property", func(p *core.Project) error {
			return p.AddProperty(schema.Property{Name: args[1], Type: propType, Weight: weight, Strategy: strategy})
		})
	},
}

var propertyRemoveCmd = &cobra.Command{
	Use:     "remove <project> <name>",
	Short:   "Drop a property and its values from every specimen",
	Args:    cobra.ExactArgs(2),
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		runEdit("remove property", func(p *core.Project) error {
			return p.RemoveProperty(args[1])
		})
	},
}

var propertyRenameCmd = &cobra.Command{
	Use:     "rename <project> <name> <new-name>",
	Short:   "Rename a property, keeping its values",
	Args:    cobra.ExactArgs(3),
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		runEdit("rename property", func(p *core.Project) error {
			return p.RenameProperty(args[1], args[2])
		})
	},
}

var propertyRetypeCmd = &cobra.Command{
	Use:   "retype <project> <name> <type>",
	Short: "Convert a property and every value to another type",
	Long: `Convert a property to Text, Double or Boolean. All values are converted
first; when any of them cannot be converted nothing changes and the
offending specimen is reported.`,
	Args:    cobra.ExactArgs(3),
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		propType, err := schema.ParsePropertyType(args[2])
		if err != nil {
			contract.LogFatal("Cannot retype property", err)
		}
		runEdit("retype property", func(p *core.Project) error {
			return p.RetypeProperty(args[1], propType)
		})
	},
}

var propertySetCmd = &cobra.Command{
	Use:     "set <project> <name>",
	Short:   "Change the weight or normalization strategy of a property",
	Args:    cobra.ExactArgs(2),
	PreRunE: configSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		setWeight := cmd.Flags().Changed("weight")
		setStrategy := cmd.Flags().Changed("strategy")
		if !setWeight && !setStrategy {
			contract.LogFatal("Cannot set property", errors.New("pass --weight or --strategy"))
		}
		weight, _ := cmd.Flags().GetInt("weight")
		rawStrategy, _ := cmd.Flags().GetString("strategy")

		var strategy schema.NormalizationStrategy
		if setStrategy {
			var err error
			if strategy, err = parseStrategyFlag(rawStrategy); err != nil {
				contract.LogFatal("Cannot set property", err)
			}
		}

		runEdit("set property", func(p *core.Project) error {
			if setWeight {
				if err := p.SetPropertyWeight(args[1], weight); err != nil {
					return err
				}
			}
			if setStrategy {
				return p.SetPropertyStrategy(args[1], strategy)
			}
			return nil
		})
	},
}
