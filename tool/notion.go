package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	ai "github.com/dlevitt/scriptforge"
	"github.com/dlevitt/scriptforge/notion"
)

// notionExportArgs defines arguments for the Notion export tool.
type notionExportArgs struct {
	Title   string `json:"title" desc:"Title for the Notion page" required:"true"`
	Content string `json:"content" desc:"Markdown content of the script" required:"true"`
}

// NewNotionExportTool creates a tool that publishes a script as a Notion page
// under the given parent page. Export failures are reported as "Error: ..."
// strings so the model can recover.
func NewNotionExportTool(client *notion.Client, parentPageID string) (ai.Tool, Handler) {
	t := ai.Tool{
		Name:        "notion_export",
		Description: "Export the final script to a Notion page",
		Parameters:  MustSchemaFor[notionExportArgs](),
	}

	handler := func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args notionExportArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", err
		}
		if strings.TrimSpace(args.Title) == "" || strings.TrimSpace(args.Content) == "" {
			return "Error: both title and content are required", nil
		}

		page, err := client.CreatePage(ctx, parentPageID, args.Title, args.Content)
		if err != nil {
			return fmt.Sprintf("Error: notion export failed: %v", err), nil
		}
		return fmt.Sprintf("Exported script to Notion page %s", page.URL), nil
	}

	return t, handler
}
