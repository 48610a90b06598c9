package cmd

import (
	"github.com/huangsam/analyzer/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Analyzer MCP server",
	Long:  `Launch an MCP server that allows AI agents to rank projects and inspect normalization curves via standard tools.`,
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// Projects are named per tool call, so no path is resolved here.
		return sharedSetup(rootCtx, cmd, nil)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
