// Package mcp exposes trace analysis over the Model Context Protocol,
// so AI agents can run and inspect I/O performance reports.
package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server instance.
type Server struct {
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server with registered tools.
func NewServer(version string) *Server {
	s := server.NewMCPServer("iotrace", version, server.WithLogging())

	registerTools(s)

	return &Server{
		mcpServer: s,
	}
}

// Start runs the server in stdio mode (blocking).
func (s *Server) Start(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.mcpServer)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools adds all supported tools to the server.
func registerTools(s *server.MCPServer) {
	// Tool: analyze_trace
	analyzeTool := mcp.NewTool("analyze_trace",
		mcp.WithDescription("Run the full I/O performance analysis on a trace file. Returns the complete report: per-file bytes, times, and bandwidths at the POSIX and MPI-IO layers plus global aggregates."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the JSON trace file to analyze"),
		),
		mcp.WithString("format",
			mcp.Description("Report format: json (default) or text"),
			mcp.DefaultString("json"),
			mcp.Enum("json", "text"),
		),
	)
	s.AddTool(analyzeTool, handleAnalyzeTrace)

	// Tool: get_global_metrics
	globalTool := mcp.NewTool("get_global_metrics",
		mcp.WithDescription("Analyze a trace file and return the global aggregates (total bytes, max op/end-to-end times, and aggregate/average/min/max bandwidths per operation and layer) with the trace path, rank count, and number of active files."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the JSON trace file to analyze"),
		),
	)
	s.AddTool(globalTool, handleGetGlobalMetrics)

	// Tool: list_files
	listTool := mcp.NewTool("list_files",
		mcp.WithDescription("Analyze a trace file and list the files with nonzero I/O activity, with their per-file metrics. Optionally restrict to one operation."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the JSON trace file to analyze"),
		),
		mcp.WithString("op",
			mcp.Description("Restrict to one operation: write or read. Omit for both."),
			mcp.Enum("write", "read"),
		),
	)
	s.AddTool(listTool, handleListFiles)
}
