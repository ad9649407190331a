package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/dlevitt/scriptforge"
)

func echoRegistration() Registration {
	return Func("echo", "Echo the input back", func(ctx context.Context, args struct {
		Text string `json:"text" required:"true"`
	}) (string, error) {
		return args.Text, nil
	})
}

func TestRegistry(t *testing.T) {
	t.Run("register and execute", func(t *testing.T) {
		r := NewRegistry().Add(echoRegistration())

		result, err := r.Execute(context.Background(), ai.ToolCall{
			ID:        "call-1",
			Name:      "echo",
			Arguments: `{"text":"hello"}`,
		})
		require.NoError(t, err)

		assert.Equal(t, "call-1", result.ToolCallID)
		assert.Equal(t, "hello", result.Content)
		assert.False(t, result.IsError)
	})

	t.Run("handler errors become in-band tool results", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister(ai.Tool{Name: "boom", Description: "always fails"},
			func(ctx context.Context, call ai.ToolCall) (string, error) {
				return "", errors.New("it broke")
			})

		result, err := r.Execute(context.Background(), ai.ToolCall{ID: "call-2", Name: "boom", Arguments: "{}"})
		require.NoError(t, err)

		assert.True(t, result.IsError)
		assert.Contains(t, result.Content, "it broke")
	})

	t.Run("unknown tool returns ErrToolNotFound", func(t *testing.T) {
		r := NewRegistry()

		_, err := r.Execute(context.Background(), ai.ToolCall{Name: "missing", Arguments: "{}"})
		var notFound *ErrToolNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "missing", notFound.Name)
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		r := NewRegistry().Add(echoRegistration())

		err := r.Register(ai.Tool{Name: "echo"}, func(ctx context.Context, call ai.ToolCall) (string, error) {
			return "", nil
		})
		var dup *ErrToolAlreadyRegistered
		assert.ErrorAs(t, err, &dup)
	})

	t.Run("unregister removes the tool", func(t *testing.T) {
		r := NewRegistry().Add(echoRegistration())
		require.Equal(t, 1, r.Len())

		r.Unregister("echo")
		assert.Equal(t, 0, r.Len())
		_, ok := r.Get("echo")
		assert.False(t, ok)
	})

	t.Run("gettool returns the definition by name", func(t *testing.T) {
		r := NewRegistry().Add(echoRegistration())

		def, ok := r.GetTool("echo")
		require.True(t, ok)
		assert.Equal(t, "echo", def.Name)
		assert.NotEmpty(t, def.Parameters)

		_, ok = r.GetTool("missing")
		assert.False(t, ok)
	})

	t.Run("withtool wraps an existing tool and handler", func(t *testing.T) {
		def := ai.Tool{Name: "ping", Description: "Reply with pong"}
		reg := WithTool(def, func(ctx context.Context, call ai.ToolCall) (string, error) {
			return "pong", nil
		})
		r := NewRegistry().Add(reg)

		result, err := r.Execute(context.Background(), ai.ToolCall{ID: "call-3", Name: "ping", Arguments: "{}"})
		require.NoError(t, err)
		assert.Equal(t, "pong", result.Content)
	})

	t.Run("tools lists registered definitions", func(t *testing.T) {
		r := NewRegistry().Add(echoRegistration())

		tools := r.Tools()
		require.Len(t, tools, 1)
		assert.Equal(t, "echo", tools[0].Name)
		assert.NotEmpty(t, tools[0].Parameters)
	})
}

func TestForRole(t *testing.T) {
	t.Run("researcher gets web search", func(t *testing.T) {
		r := ForRole(RoleResearcher, RoleConfig{TavilyAPIKey: "key"})
		assert.Equal(t, []string{"web_search"}, r.Names())
	})

	t.Run("screenwriter gets document reading", func(t *testing.T) {
		r := ForRole(RoleScreenwriter, RoleConfig{})
		assert.Equal(t, []string{"read_document"}, r.Names())
	})

	t.Run("screenwriter gets notion export when configured", func(t *testing.T) {
		r := ForRole(RoleScreenwriter, RoleConfig{Notion: notionTestClient()})
		assert.ElementsMatch(t, []string{"read_document", "notion_export"}, r.Names())
	})

	t.Run("unknown role gets no tools", func(t *testing.T) {
		r := ForRole("director", RoleConfig{})
		assert.Equal(t, 0, r.Len())
	})
}
