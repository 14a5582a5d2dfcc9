package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/baikal/iotrace/internal/analyzer"
	"github.com/baikal/iotrace/internal/model"
	"github.com/baikal/iotrace/internal/output"
	"github.com/mark3labs/mcp-go/mcp"
)

// runAnalysis loads and analyzes a trace quietly.
func runAnalysis(path string) (*model.Report, error) {
	cfg := analyzer.DefaultConfig()
	cfg.Quiet = true
	return analyzer.BuildReport(path, cfg)
}

// handleAnalyzeTrace runs the full analysis and returns the report.
func handleAnalyzeTrace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)
	path := stringArg(args, "path", "")
	if path == "" {
		return errResult("path is required"), nil
	}

	report, err := runAnalysis(path)
	if err != nil {
		return errResult(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	if stringArg(args, "format", "json") == "text" {
		return newTextResult(output.RenderText(report)), nil
	}

	jsonData, err := json.Marshal(report)
	if err != nil {
		return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
	}
	return newTextResult(string(jsonData)), nil
}

// handleGetGlobalMetrics returns the trace-wide aggregate together with
// the trace path, the rank count and the number of active files.
func handleGetGlobalMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)
	path := stringArg(args, "path", "")
	if path == "" {
		return errResult("path is required"), nil
	}

	report, err := runAnalysis(path)
	if err != nil {
		return errResult(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	summary := map[string]interface{}{
		"trace":       report.Metadata.TracePath,
		"total_ranks": report.Metadata.TotalRanks,
		"files":       len(report.ActiveFiles()),
		"global":      report.Global,
	}
	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
	}
	return newTextResult(string(jsonData)), nil
}

// handleListFiles returns the per-file metrics of active files.
func handleListFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)
	path := stringArg(args, "path", "")
	if path == "" {
		return errResult("path is required"), nil
	}
	op := stringArg(args, "op", "")
	if op != "" && op != "write" && op != "read" {
		return errResult(fmt.Sprintf("unknown op %q, want write or read", op)), nil
	}

	report, err := runAnalysis(path)
	if err != nil {
		return errResult(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	type entry struct {
		File  string           `json:"file"`
		Write *model.OpMetrics `json:"write,omitempty"`
		Read  *model.OpMetrics `json:"read,omitempty"`
	}
	var entries []entry
	for _, name := range report.ActiveFiles() {
		fm := report.Files[name]
		e := entry{File: name}
		if op == "" || op == "write" {
			w := fm.Write
			e.Write = &w
		}
		if op == "" || op == "read" {
			r := fm.Read
			e.Read = &r
		}
		entries = append(entries, e)
	}

	jsonData, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
	}
	return newTextResult(string(jsonData)), nil
}

// getArgs safely extracts the arguments map from a CallToolRequest.
// Returns an empty map if Arguments is nil or not a map.
func getArgs(request mcp.CallToolRequest) map[string]interface{} {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

// stringArg extracts a string argument with a default value.
func stringArg(args map[string]interface{}, key, defaultVal string) string {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return defaultVal
	}
	return s
}

// newTextResult creates a successful MCP tool result with text content.
func newTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// errResult creates an MCP tool error result (IsError=true).
// This is returned as a tool-level error, not a transport-level JSON-RPC error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: msg,
			},
		},
	}
}
