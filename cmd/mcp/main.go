// Command mcp serves the script pipeline over MCP stdio.
//
// MCP clients discover a generate_script tool that runs the full
// research-and-screenwrite pipeline, plus the individual web_search and
// read_document tools for direct use.
//
// Usage:
//
//	go run ./cmd/mcp
//
// Configuration comes from the environment (a .env file is loaded when
// present): OPENAI_API_KEY or ANTHROPIC_API_KEY for the model provider,
// TAVILY_API_KEY for web search, and SCRIPTFORGE_MODEL to override the
// default model.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dlevitt/scriptforge/client"
	"github.com/dlevitt/scriptforge/mcp"
	"github.com/dlevitt/scriptforge/prompt"
	"github.com/dlevitt/scriptforge/provider/openai"
	"github.com/dlevitt/scriptforge/tool"
	"github.com/dlevitt/scriptforge/workflow"
)

func main() {
	godotenv.Load()

	model := os.Getenv("SCRIPTFORGE_MODEL")
	if model == "" {
		model = openai.DefaultChatModel.String()
	}

	c := client.New(client.Config{
		APIKeys: client.APIKeys{
			OpenAI:    os.Getenv("OPENAI_API_KEY"),
			Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
		},
		Defaults: client.Defaults{
			Chat: model,
		},
	})

	promptCfg, err := prompt.DefaultConfig()
	if err != nil {
		log.Fatal(err)
	}

	roleCfg := tool.RoleConfig{
		TavilyAPIKey: os.Getenv("TAVILY_API_KEY"),
	}
	engine := workflow.New(c, promptCfg, roleCfg)

	// Expose both roles' tools for direct use alongside the pipeline.
	registry := tool.ForRole(tool.RoleResearcher, roleCfg)
	for _, reg := range registryOf(tool.RoleScreenwriter, roleCfg) {
		registry.Add(reg)
	}

	if err := mcp.ServeStdio(registry,
		mcp.WithName("scriptforge"),
		mcp.WithVersion("1.0.0"),
		mcp.WithEngine(engine),
	); err != nil {
		log.Fatal(err)
	}
}

// registryOf returns the registrations for a role so they can be merged
// into another registry.
func registryOf(role string, cfg tool.RoleConfig) []tool.Registration {
	r := tool.ForRole(role, cfg)
	regs := make([]tool.Registration, 0, r.Len())
	for _, t := range r.Tools() {
		if h, ok := r.Get(t.Name); ok {
			regs = append(regs, tool.WithTool(t, h))
		}
	}
	return regs
}
