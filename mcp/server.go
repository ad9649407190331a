package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	ai "github.com/dlevitt/scriptforge"
	"github.com/dlevitt/scriptforge/tool"
	"github.com/dlevitt/scriptforge/workflow"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
	engine  *workflow.Engine
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithEngine exposes the script pipeline as a generate_script tool.
func WithEngine(e *workflow.Engine) ServerOption {
	return func(c *serverConfig) {
		c.engine = e
	}
}

// generateScriptArgs are the arguments for the generate_script tool.
type generateScriptArgs struct {
	Topic    string `json:"topic" desc:"The subject of the video script" required:"true"`
	Tones    string `json:"tones" desc:"Comma-separated style descriptors, e.g. 'educational, upbeat'"`
	Platform string `json:"platform" desc:"Target platform: 'YouTube' for long-form or 'short' for short-form"`
	FilePath string `json:"file_path" desc:"Optional path to a reference .docx document"`
}

// NewServer creates an MCP server exposing the tools in registry, plus a
// generate_script tool when an engine is configured.
func NewServer(registry *tool.Registry, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "scriptforge-mcp-server",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	if registry != nil {
		for _, name := range registry.Names() {
			t, ok := registry.GetTool(name)
			if !ok {
				continue
			}
			s.AddTool(ToMCPTool(t), wrapHandler(registry, name))
		}
	}

	if cfg.engine != nil {
		s.AddTool(generateScriptTool(), generateScriptHandler(cfg.engine))
	}

	return s
}

// wrapHandler adapts a registered pipeline tool to the MCP handler signature.
// Handler errors become MCP error results rather than protocol failures.
func wrapHandler(registry *tool.Registry, toolName string) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsJSON := "{}"
		if req.Params.Arguments != nil {
			data, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
			}
			argsJSON = string(data)
		}

		result, err := registry.Execute(ctx, ai.ToolCall{
			Name:      toolName,
			Arguments: argsJSON,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return ToMCPCallToolResult(result), nil
	}
}

func generateScriptTool() mcp.Tool {
	return mcp.NewToolWithRawSchema(
		"generate_script",
		"Generate a complete video script for a topic by researching it and writing a platform-appropriate screenplay",
		ai.MustSchemaFor[generateScriptArgs](),
	)
}

func generateScriptHandler(engine *workflow.Engine) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
		}

		var args generateScriptArgs
		if err := json.Unmarshal(data, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		script, err := engine.Run(ctx, workflow.Request{
			Topic:    args.Topic,
			Tones:    args.Tones,
			Platform: args.Platform,
			FilePath: args.FilePath,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(script), nil
	}
}

// ServeStdio starts an MCP server over stdin/stdout, the standard transport
// for MCP servers invoked as subprocesses.
func ServeStdio(registry *tool.Registry, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(registry, opts...))
}
