package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/dlevitt/scriptforge"
	"github.com/dlevitt/scriptforge/docx"
	"github.com/dlevitt/scriptforge/notion"
)

func notionTestClient() *notion.Client {
	return notion.New("test-token")
}

func callTool(t *testing.T, h Handler, args string) string {
	t.Helper()
	out, err := h(context.Background(), ai.ToolCall{ID: "call-1", Name: "t", Arguments: args})
	require.NoError(t, err)
	return out
}

func TestWebSearchTool(t *testing.T) {
	t.Run("formats results from the search API", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{
				"answer": "Rome was founded in 753 BC.",
				"results": [
					{"title": "Founding of Rome", "url": "https://example.com/rome", "content": "Legend says 753 BC."}
				]
			}`)
		}))
		defer srv.Close()

		_, handler := NewWebSearchTool(
			WithSearchAPIKey("key"),
			WithSearchEndpoint(srv.URL),
		)

		out := callTool(t, handler, `{"query":"founding of Rome"}`)
		assert.Contains(t, out, `Search results for "founding of Rome"`)
		assert.Contains(t, out, "Rome was founded in 753 BC.")
		assert.Contains(t, out, "https://example.com/rome")
	})

	t.Run("empty query is an in-band error", func(t *testing.T) {
		_, handler := NewWebSearchTool(WithSearchAPIKey("key"))
		out := callTool(t, handler, `{"query":"  "}`)
		assert.Contains(t, out, "Error:")
	})

	t.Run("missing api key is an in-band error", func(t *testing.T) {
		_, handler := NewWebSearchTool()
		out := callTool(t, handler, `{"query":"anything"}`)
		assert.Contains(t, out, "Error: search is not configured")
	})

	t.Run("non-200 status is an in-band error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, handler := NewWebSearchTool(WithSearchAPIKey("key"), WithSearchEndpoint(srv.URL))
		out := callTool(t, handler, `{"query":"anything"}`)
		assert.Contains(t, out, "Error: search returned status 429")
	})

	t.Run("no results", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"results": []}`)
		}))
		defer srv.Close()

		_, handler := NewWebSearchTool(WithSearchAPIKey("key"), WithSearchEndpoint(srv.URL))
		out := callTool(t, handler, `{"query":"anything"}`)
		assert.Contains(t, out, "No results found.")
	})
}

func TestReadDocumentTool(t *testing.T) {
	writeDoc := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "ref.docx")
		require.NoError(t, docx.WriteFile(path, docx.Script{Title: "Reference", Body: body}))
		return path
	}

	t.Run("reads document text", func(t *testing.T) {
		path := writeDoc(t, "Structure: hook, body, outro.")
		_, handler := NewReadDocumentTool()

		out := callTool(t, handler, fmt.Sprintf(`{"file_path":%q}`, path))
		assert.Contains(t, out, "Structure: hook, body, outro.")
	})

	t.Run("falls back to the default document", func(t *testing.T) {
		path := writeDoc(t, "Default reference content.")
		_, handler := NewReadDocumentTool(WithDefaultDocument(path))

		out := callTool(t, handler, `{}`)
		assert.Contains(t, out, "Default reference content.")
	})

	t.Run("rejects non-docx paths", func(t *testing.T) {
		_, handler := NewReadDocumentTool()
		out := callTool(t, handler, `{"file_path":"notes.txt"}`)
		assert.Contains(t, out, "Error: notes.txt is not a .docx file")
	})

	t.Run("missing path is an in-band error", func(t *testing.T) {
		_, handler := NewReadDocumentTool()
		out := callTool(t, handler, `{}`)
		assert.Contains(t, out, "Error: no document path provided")
	})

	t.Run("unreadable file is an in-band error", func(t *testing.T) {
		_, handler := NewReadDocumentTool()
		out := callTool(t, handler, fmt.Sprintf(`{"file_path":%q}`, filepath.Join(t.TempDir(), "absent.docx")))
		assert.Contains(t, out, "Error: could not read document")
	})
}

func TestNotionExportTool(t *testing.T) {
	t.Run("exports and reports the page url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id":"page-1","url":"https://notion.so/page-1"}`)
		}))
		defer srv.Close()

		client := notion.New("token", notion.WithBaseURL(srv.URL))
		_, handler := NewNotionExportTool(client, "parent-1")

		out := callTool(t, handler, `{"title":"My Script","content":"# Script\nbody"}`)
		assert.Equal(t, "Exported script to Notion page https://notion.so/page-1", out)
	})

	t.Run("missing fields are an in-band error", func(t *testing.T) {
		_, handler := NewNotionExportTool(notionTestClient(), "parent-1")
		out := callTool(t, handler, `{"title":"","content":""}`)
		assert.Contains(t, out, "Error: both title and content are required")
	})

	t.Run("api failure is an in-band error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		client := notion.New("token", notion.WithBaseURL(srv.URL))
		_, handler := NewNotionExportTool(client, "parent-1")

		out := callTool(t, handler, `{"title":"T","content":"C"}`)
		assert.Contains(t, out, "Error: notion export failed")
	})
}
