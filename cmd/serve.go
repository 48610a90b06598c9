package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/analyzer/core"
	"github.com/huangsam/analyzer/internal/api"
	"github.com/huangsam/analyzer/internal/contract"
	"github.com/spf13/cobra"
)

// serveCmd exposes one project over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve [project]",
	Short: "Serve a project over a JSON HTTP API",
	Long: `Open a project and serve it over HTTP. Mutations go through the same
validation as the CLI; POST /api/v1/save writes the project back to disk.

Prometheus metrics are served on /metrics and liveness on /health.

Examples:
  analyzer serve cars.asproj
  analyzer serve cars.asproj --addr 127.0.0.1:9000`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: projectSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		p, err := core.OpenProject(cfg.ProjectPath)
		if err != nil {
			contract.LogFatal("Cannot open project", err)
		}

		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("serving project", "project", p.Name(), "path", p.Path(), "addr", cfg.Addr)
		if err := api.NewServer(p, logger).ListenAndServe(ctx, cfg.Addr); err != nil {
			contract.LogFatal("Server stopped", err)
		}
	},
}
