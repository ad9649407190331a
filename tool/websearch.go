package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	ai "github.com/dlevitt/scriptforge"
)

const tavilySearchURL = "https://api.tavily.com/search"

// WebSearchOption configures the web search tool.
type WebSearchOption func(*webSearchConfig)

type webSearchConfig struct {
	apiKey      string
	endpoint    string
	maxResults  int
	searchDepth string
	httpClient  *http.Client
}

// WithSearchAPIKey sets the Tavily API key.
func WithSearchAPIKey(key string) WebSearchOption {
	return func(c *webSearchConfig) {
		c.apiKey = key
	}
}

// WithSearchEndpoint overrides the search API endpoint (used in tests).
func WithSearchEndpoint(url string) WebSearchOption {
	return func(c *webSearchConfig) {
		c.endpoint = url
	}
}

// WithSearchMaxResults limits the number of results. Default is 5.
func WithSearchMaxResults(n int) WebSearchOption {
	return func(c *webSearchConfig) {
		c.maxResults = n
	}
}

// WithSearchDepth sets the Tavily search depth ("basic" or "advanced").
// Default is "advanced".
func WithSearchDepth(depth string) WebSearchOption {
	return func(c *webSearchConfig) {
		c.searchDepth = depth
	}
}

// WithSearchHTTPClient replaces the default HTTP client.
func WithSearchHTTPClient(hc *http.Client) WebSearchOption {
	return func(c *webSearchConfig) {
		c.httpClient = hc
	}
}

func applyWebSearchOpts(opts []WebSearchOption) *webSearchConfig {
	cfg := &webSearchConfig{
		endpoint:    tavilySearchURL,
		maxResults:  5,
		searchDepth: "advanced",
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// webSearchArgs defines arguments for the web search tool.
type webSearchArgs struct {
	Query string `json:"query" desc:"The search query" required:"true"`
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
	IncludeAnsw bool   `json:"include_answer"`
}

type tavilyResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// NewWebSearchTool creates a tool that searches the web via the Tavily API.
// Failures are reported as "Error: ..." strings so the model can recover.
func NewWebSearchTool(opts ...WebSearchOption) (ai.Tool, Handler) {
	cfg := applyWebSearchOpts(opts)

	t := ai.Tool{
		Name:        "web_search",
		Description: "Search the web for current information on a topic",
		Parameters:  MustSchemaFor[webSearchArgs](),
	}

	handler := func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args webSearchArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", err
		}
		if strings.TrimSpace(args.Query) == "" {
			return "Error: query must not be empty", nil
		}
		if cfg.apiKey == "" {
			return "Error: search is not configured (missing API key)", nil
		}

		payload, err := json.Marshal(tavilyRequest{
			APIKey:      cfg.apiKey,
			Query:       args.Query,
			SearchDepth: cfg.searchDepth,
			MaxResults:  cfg.maxResults,
			IncludeAnsw: true,
		})
		if err != nil {
			return "", err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.endpoint, bytes.NewReader(payload))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := cfg.httpClient.Do(req)
		if err != nil {
			return fmt.Sprintf("Error: search request failed: %v", err), nil
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Sprintf("Error: search returned status %d", resp.StatusCode), nil
		}

		var result tavilyResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Sprintf("Error: could not decode search response: %v", err), nil
		}

		return formatSearchResults(args.Query, result), nil
	}

	return t, handler
}

func formatSearchResults(query string, result tavilyResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Search results for %q:\n\n", query)

	if result.Answer != "" {
		fmt.Fprintf(&sb, "Summary: %s\n\n", result.Answer)
	}

	if len(result.Results) == 0 {
		sb.WriteString("No results found.")
		return sb.String()
	}

	for i, r := range result.Results {
		fmt.Fprintf(&sb, "%d. %s\n%s\n%s\n\n", i+1, r.Title, r.URL, r.Content)
	}
	return strings.TrimRight(sb.String(), "\n")
}
