// Package notion provides a minimal Notion REST API client for exporting
// generated scripts as pages.
//
// Markdown script text is converted to Notion blocks (headings, bullet items,
// dividers, paragraphs). Pages are created with the first batch of blocks and
// the remainder appended in batches of 100, which is the API's per-request
// block limit.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	apiBaseURL    = "https://api.notion.com/v1"
	apiVersion    = "2022-06-28"
	maxBlockBatch = 100
	// Notion rejects rich text fragments longer than 2000 characters.
	maxTextLength = 2000
)

// Client calls the Notion REST API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
}

// ClientOption configures the Notion client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// New creates a Notion client with the given integration token.
func New(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    apiBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Block is a Notion block object in API wire format.
type Block map[string]any

// Page is the subset of the page object we consume.
type Page struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreatePage creates a page titled title under the given parent page and
// fills it with the markdown content converted to blocks. Blocks beyond the
// first 100 are appended in follow-up batches.
func (c *Client) CreatePage(ctx context.Context, parentPageID, title, markdown string) (*Page, error) {
	blocks := MarkdownToBlocks(markdown)

	first := blocks
	var rest []Block
	if len(blocks) > maxBlockBatch {
		first = blocks[:maxBlockBatch]
		rest = blocks[maxBlockBatch:]
	}

	body := map[string]any{
		"parent": map[string]any{"page_id": parentPageID},
		"properties": map[string]any{
			"title": map[string]any{
				"title": richText(title),
			},
		},
		"children": first,
	}

	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	for len(rest) > 0 {
		batch := rest
		if len(batch) > maxBlockBatch {
			batch = rest[:maxBlockBatch]
		}
		rest = rest[len(batch):]

		appendBody := map[string]any{"children": batch}
		path := fmt.Sprintf("/blocks/%s/children", page.ID)
		if err := c.do(ctx, http.MethodPatch, path, appendBody, nil); err != nil {
			return nil, fmt.Errorf("append blocks: %w", err)
		}
	}

	return &page, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: status %d: %s", e.StatusCode, e.Body)
}

// MarkdownToBlocks converts markdown text into Notion block objects.
// Supported constructs: #/##/### headings, - and * bullets, --- dividers,
// and plain paragraphs. Long lines are split to satisfy the rich text limit.
func MarkdownToBlocks(markdown string) []Block {
	var blocks []Block
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case trimmed == "---":
			blocks = append(blocks, Block{
				"object":  "block",
				"type":    "divider",
				"divider": map[string]any{},
			})
		case strings.HasPrefix(trimmed, "### "):
			blocks = append(blocks, textBlock("heading_3", strings.TrimPrefix(trimmed, "### ")))
		case strings.HasPrefix(trimmed, "## "):
			blocks = append(blocks, textBlock("heading_2", strings.TrimPrefix(trimmed, "## ")))
		case strings.HasPrefix(trimmed, "# "):
			blocks = append(blocks, textBlock("heading_1", strings.TrimPrefix(trimmed, "# ")))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			blocks = append(blocks, textBlock("bulleted_list_item", trimmed[2:]))
		default:
			blocks = append(blocks, textBlock("paragraph", trimmed))
		}
	}
	return blocks
}

func textBlock(blockType, text string) Block {
	return Block{
		"object":  "block",
		"type":    blockType,
		blockType: map[string]any{"rich_text": richText(text)},
	}
}

func richText(text string) []map[string]any {
	var parts []map[string]any
	for len(text) > 0 {
		chunk := text
		if len(chunk) > maxTextLength {
			chunk = chunk[:maxTextLength]
		}
		text = text[len(chunk):]
		parts = append(parts, map[string]any{
			"type": "text",
			"text": map[string]any{"content": chunk},
		})
	}
	if parts == nil {
		parts = []map[string]any{}
	}
	return parts
}
