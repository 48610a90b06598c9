// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// strategyNames lists the strategies a client may pass, legacy name included.
func strategyNames() []string {
	names := make([]string, 0, len(schema.AllStrategies)+1)
	for _, s := range schema.AllStrategies {
		names = append(names, string(s))
	}
	return append(names, string(schema.LegacyInverseMaxStrategy))
}

func typeNames() []string {
	names := make([]string, len(schema.AllPropertyTypes))
	for i, t := range schema.AllPropertyTypes {
		names[i] = string(t)
	}
	return names
}

// NewMCPServer initializes and configures the Analyzer MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Analyzer Ranking Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	s.AddTool(mcp.NewTool("rank_project",
		mcp.WithDescription("Score and rank every specimen of an analyzer project file."),
		mcp.WithString("path", mcp.Description("Path to the project file (.asproj, .json or .yaml)."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked specimens returned.")),
		mcp.WithObject("weights", mcp.Description("Property weights to use for this ranking only, e.g. {\"speed\": 3}.")),
	), h.handleRankProject)

	s.AddTool(mcp.NewTool("describe_project",
		mcp.WithDescription("Describe the properties, weights and normalization strategies of a project."),
		mcp.WithString("path", mcp.Description("Path to the project file."), mcp.Required()),
	), h.handleDescribeProject)

	s.AddTool(mcp.NewTool("normalize_value",
		mcp.WithDescription("Normalize one raw value onto [0, 1] against a distribution of values."),
		mcp.WithString("strategy", mcp.Description("Normalization strategy."), mcp.Enum(strategyNames()...), mcp.Required()),
		mcp.WithNumber("value", mcp.Description("The raw value to normalize."), mcp.Required()),
		mcp.WithArray("values", mcp.Description("Every value of the property across specimens."),
			mcp.Items(map[string]any{"type": "number"}), mcp.Required()),
	), h.handleNormalizeValue)

	s.AddTool(mcp.NewTool("convert_value",
		mcp.WithDescription("Convert a property value between Text, Double and Boolean the way a property retype does."),
		mcp.WithString("from", mcp.Description("Current property type."), mcp.Enum(typeNames()...), mcp.Required()),
		mcp.WithString("to", mcp.Description("Target property type."), mcp.Enum(typeNames()...), mcp.Required()),
		mcp.WithString("value", mcp.Description("The value in invariant text form, e.g. \"3.5\" or \"true\"."), mcp.Required()),
	), h.handleConvertValue)

	s.AddTool(mcp.NewTool("list_curves",
		mcp.WithDescription("List every normalization strategy with its formula and sample points."),
	), h.handleListCurves)

	return s
}

// StartMCPServer starts the Analyzer MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
