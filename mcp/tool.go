// Package mcp exposes the script pipeline over the Model Context Protocol.
//
// The server publishes the pipeline's tools (web search, document reading,
// Notion export) plus a generate_script tool that runs the full
// research-and-screenwrite pipeline, so MCP clients can drive script
// generation directly.
package mcp

import (
	ai "github.com/dlevitt/scriptforge"
	"github.com/mark3labs/mcp-go/mcp"
)

// ToMCPTool converts a pipeline tool to an MCP tool, reusing its JSON
// parameter schema as the MCP raw input schema.
func ToMCPTool(t ai.Tool) mcp.Tool {
	return mcp.NewToolWithRawSchema(t.Name, t.Description, t.Parameters)
}

// ToMCPCallToolResult converts a pipeline tool result to an MCP call result.
// In-band error results become MCP error results.
func ToMCPCallToolResult(result ai.ToolResult) *mcp.CallToolResult {
	if result.IsError {
		return mcp.NewToolResultError(result.Content)
	}
	return mcp.NewToolResultText(result.Content)
}
