package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	ai "github.com/dlevitt/scriptforge"
	"github.com/dlevitt/scriptforge/docx"
)

// DocumentToolOption configures the document reading tool.
type DocumentToolOption func(*documentToolConfig)

type documentToolConfig struct {
	defaultPath string
}

// WithDefaultDocument sets the document read when the model omits a path.
func WithDefaultDocument(path string) DocumentToolOption {
	return func(c *documentToolConfig) {
		c.defaultPath = path
	}
}

// readDocumentArgs defines arguments for the document reading tool.
type readDocumentArgs struct {
	FilePath string `json:"file_path" desc:"Path to the .docx file to read"`
}

// NewReadDocumentTool creates a tool that extracts text from a .docx file.
// Read failures are reported as "Error: ..." strings so the model can recover.
func NewReadDocumentTool(opts ...DocumentToolOption) (ai.Tool, Handler) {
	cfg := &documentToolConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	t := ai.Tool{
		Name:        "read_document",
		Description: "Read the text content of a reference .docx document",
		Parameters:  MustSchemaFor[readDocumentArgs](),
	}

	handler := func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args readDocumentArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", err
		}

		path := args.FilePath
		if path == "" {
			path = cfg.defaultPath
		}
		if path == "" {
			return "Error: no document path provided", nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".docx") {
			return fmt.Sprintf("Error: %s is not a .docx file", path), nil
		}

		text, err := docx.ReadText(path)
		if err != nil {
			return fmt.Sprintf("Error: could not read document: %v", err), nil
		}
		if strings.TrimSpace(text) == "" {
			return "The document is empty.", nil
		}
		return text, nil
	}

	return t, handler
}
