package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/huangsam/analyzer/core"
	"github.com/huangsam/analyzer/core/algo"
	"github.com/huangsam/analyzer/internal/contract"
	"github.com/huangsam/analyzer/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// jsonResult wraps data as an indented JSON text result.
func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRankProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.ProjectPath = request.GetString("path", "")
	if cfg.ProjectPath == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	weights, err := parseWeights(request.GetArguments()["weights"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid weights: %v", err)), nil
	}
	if len(weights) > 0 {
		cfg.WeightOverrides = weights
	}

	result, err := core.GetRankingResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleDescribeProject(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.ProjectPath = request.GetString("path", "")
	if cfg.ProjectPath == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	p, err := core.LoadForRun(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot open project: %v", err)), nil
	}

	type propertyView struct {
		schema.Property
		Scores bool `json:"scores"`
	}
	props := p.Properties()
	views := make([]propertyView, len(props))
	for i, prop := range props {
		views[i] = propertyView{Property: prop, Scores: prop.Type.Scores()}
	}
	return jsonResult(map[string]any{
		"name":       p.Name(),
		"path":       p.Path(),
		"title":      p.Title(),
		"weight_sum": p.WeightSum(),
		"specimens":  len(p.Specimens()),
		"properties": views,
	})
}

func (h *toolHandler) handleNormalizeValue(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	strategy, err := schema.ParseStrategy(request.GetString("strategy", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := request.RequireFloat("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	values, err := parseNumbers(request.GetArguments()["values"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid values: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"strategy":   strategy.Migrate(),
		"value":      value,
		"normalized": algo.Normalize(strategy, value, values),
	})
}

func (h *toolHandler) handleConvertValue(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := schema.ParsePropertyType(request.GetString("from", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := schema.ParsePropertyType(request.GetString("to", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw := request.GetString("value", "")

	input, err := algo.TryConvert(schema.TextType, from, schema.TextValue(raw))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("value is not a valid %s: %v", from, err)), nil
	}
	output, err := algo.TryConvert(from, to, input)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"from":   from,
		"to":     to,
		"input":  input,
		"output": output,
	})
}

func (h *toolHandler) handleListCurves(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(core.BuildMetricsModel())
}

// parseNumbers reads a JSON array of numbers.
func parseNumbers(raw any) ([]float64, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array of numbers")
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, ok := item.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("item %d is not a finite number", i)
		}
		out[i] = f
	}
	return out, nil
}

// parseWeights reads an optional object of integer weights.
func parseWeights(raw any) (map[string]int, error) {
	if raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object of property weights")
	}
	out := make(map[string]int, len(obj))
	for name, v := range obj {
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("weight for %q must be an integer", name)
		}
		out[name] = int(f)
	}
	return out, nil
}
