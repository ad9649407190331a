package tool

import (
	ai "github.com/dlevitt/scriptforge"
	"github.com/dlevitt/scriptforge/notion"
)

// Pipeline role names.
const (
	RoleResearcher   = "researcher"
	RoleScreenwriter = "screenwriter"
)

// RoleConfig holds the external service configuration the role tools need.
type RoleConfig struct {
	// TavilyAPIKey enables the web_search tool for the researcher.
	TavilyAPIKey string

	// SearchOptions are extra options applied to the web search tool.
	SearchOptions []WebSearchOption

	// DefaultDocument is the reference document read when the model omits a path.
	DefaultDocument string

	// Notion enables the notion_export tool for the screenwriter when non-nil.
	Notion *notion.Client

	// NotionParentPageID is the parent page for exported scripts.
	NotionParentPageID string
}

// ForRole builds the tool registry for a pipeline role.
// The researcher gets web search; the screenwriter gets document reading and,
// when a Notion client is configured, script export. Unknown roles get an
// empty registry so the agent runs without tools.
func ForRole(role string, cfg RoleConfig) *Registry {
	r := NewRegistry()

	switch role {
	case RoleResearcher:
		opts := append([]WebSearchOption{WithSearchAPIKey(cfg.TavilyAPIKey)}, cfg.SearchOptions...)
		r.Add(registrationOf(NewWebSearchTool(opts...)))

	case RoleScreenwriter:
		r.Add(registrationOf(NewReadDocumentTool(WithDefaultDocument(cfg.DefaultDocument))))
		if cfg.Notion != nil {
			r.Add(registrationOf(NewNotionExportTool(cfg.Notion, cfg.NotionParentPageID)))
		}
	}

	return r
}

func registrationOf(t ai.Tool, h Handler) Registration {
	return Registration{Tool: t, Handler: h}
}
