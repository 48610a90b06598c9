package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of analyzer.",
	Long: `Display the release version, commit, build time and Go runtime of this binary.

Include the output when reporting a bug.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("analyzer CLI\n")
		cmd.Printf("  Version:  %s\n", version)
		cmd.Printf("  Commit:   %s\n", commit)
		cmd.Printf("  Built:    %s\n", date)
		cmd.Printf("  Runtime:  %s\n", runtime.Version())
		cmd.Printf("  Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}
