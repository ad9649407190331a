package agent

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/dlevitt/scriptforge"
	"github.com/dlevitt/scriptforge/event"
	"github.com/dlevitt/scriptforge/tool"
)

// scriptedChat returns canned responses in order.
type scriptedChat struct {
	mu        sync.Mutex
	responses []*ai.Response
	err       error
	calls     int
}

func (s *scriptedChat) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	s.calls++
	if len(s.responses) == 0 {
		return &ai.Response{Content: "done", FinishReason: "stop"}, nil
	}
	r := s.responses[0]
	s.responses = s.responses[1:]
	return r, nil
}

func (s *scriptedChat) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan event.Event, error) {
	return nil, errors.New("not implemented")
}

func echoRegistry() *tool.Registry {
	return tool.NewRegistry().Add(
		tool.Func("echo", "Echo the input", func(ctx context.Context, args struct {
			Text string `json:"text"`
		}) (string, error) {
			return args.Text, nil
		}),
	)
}

func TestAgentRun(t *testing.T) {
	t.Run("completes when the model stops calling tools", func(t *testing.T) {
		chat := &scriptedChat{responses: []*ai.Response{
			{Content: "final answer", FinishReason: "stop"},
		}}
		a := New(chat, tool.NewRegistry())

		result, err := a.Run(context.Background(), []ai.Message{ai.NewUserMessage("hi")})
		require.NoError(t, err)

		assert.Equal(t, TerminationComplete, result.Termination)
		assert.Equal(t, "final answer", result.FinalText())
		assert.Equal(t, 1, result.Steps)
	})

	t.Run("executes tool calls and feeds results back", func(t *testing.T) {
		chat := &scriptedChat{responses: []*ai.Response{
			{
				Content: "",
				ToolCalls: []ai.ToolCall{
					{ID: "call-1", Name: "echo", Arguments: `{"text":"hello"}`},
				},
			},
			{Content: "echoed: hello", FinishReason: "stop"},
		}}
		a := New(chat, echoRegistry())

		result, err := a.Run(context.Background(), []ai.Message{ai.NewUserMessage("echo hello")})
		require.NoError(t, err)

		assert.Equal(t, TerminationComplete, result.Termination)
		assert.Equal(t, "echoed: hello", result.FinalText())
		assert.Equal(t, 2, result.Steps)

		// History: user, assistant w/ tool call, tool results, assistant.
		require.Len(t, result.Messages, 4)
		assert.Equal(t, ai.RoleTool, result.Messages[2].Role)
		require.Len(t, result.Messages[2].ToolResults, 1)
		assert.Equal(t, "hello", result.Messages[2].ToolResults[0].Content)
	})

	t.Run("parallel tool calls all execute", func(t *testing.T) {
		chat := &scriptedChat{responses: []*ai.Response{
			{
				ToolCalls: []ai.ToolCall{
					{ID: "call-1", Name: "echo", Arguments: `{"text":"a"}`},
					{ID: "call-2", Name: "echo", Arguments: `{"text":"b"}`},
					{ID: "call-3", Name: "echo", Arguments: `{"text":"c"}`},
				},
			},
			{Content: "all done", FinishReason: "stop"},
		}}
		a := New(chat, echoRegistry())

		result, err := a.Run(context.Background(), []ai.Message{ai.NewUserMessage("go")})
		require.NoError(t, err)

		results := result.Messages[2].ToolResults
		require.Len(t, results, 3)
		// Order matches the tool call order regardless of execution order.
		assert.Equal(t, "a", results[0].Content)
		assert.Equal(t, "b", results[1].Content)
		assert.Equal(t, "c", results[2].Content)
	})

	t.Run("unknown tool becomes an error result the model can see", func(t *testing.T) {
		chat := &scriptedChat{responses: []*ai.Response{
			{
				ToolCalls: []ai.ToolCall{
					{ID: "call-1", Name: "missing", Arguments: "{}"},
				},
			},
			{Content: "recovered", FinishReason: "stop"},
		}}
		a := New(chat, echoRegistry())

		result, err := a.Run(context.Background(), []ai.Message{ai.NewUserMessage("go")})
		require.NoError(t, err)

		results := result.Messages[2].ToolResults
		require.Len(t, results, 1)
		assert.True(t, results[0].IsError)
		assert.Contains(t, results[0].Content, "missing")
	})

	t.Run("stops at max steps", func(t *testing.T) {
		// The model asks for a tool on every step.
		a := New(&alwaysToolChat{}, echoRegistry())

		result, err := a.Run(context.Background(), []ai.Message{ai.NewUserMessage("go")},
			WithMaxSteps(3),
		)
		require.NoError(t, err)
		assert.Equal(t, TerminationMaxSteps, result.Termination)
		assert.Equal(t, 4, result.Steps)
	})

	t.Run("chat errors terminate the run", func(t *testing.T) {
		cause := errors.New("boom")
		a := New(&scriptedChat{err: cause}, tool.NewRegistry())

		result, err := a.Run(context.Background(), []ai.Message{ai.NewUserMessage("hi")})
		require.ErrorIs(t, err, cause)
		assert.Equal(t, TerminationError, result.Termination)
	})

	t.Run("cancelled context terminates the run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		a := New(&scriptedChat{}, tool.NewRegistry())

		result, err := a.Run(ctx, []ai.Message{ai.NewUserMessage("hi")})
		require.NoError(t, err)
		assert.Equal(t, TerminationCancelled, result.Termination)
	})

	t.Run("timeout terminates the run between steps", func(t *testing.T) {
		a := New(&slowToolChat{delay: 20 * time.Millisecond}, echoRegistry())

		result, err := a.Run(context.Background(), []ai.Message{ai.NewUserMessage("hi")},
			WithTimeout(5*time.Millisecond),
		)
		require.NoError(t, err)
		assert.Equal(t, TerminationTimeout, result.Termination)
	})

	t.Run("does not mutate the caller's message slice", func(t *testing.T) {
		chat := &scriptedChat{responses: []*ai.Response{
			{Content: "final", FinishReason: "stop"},
		}}
		a := New(chat, tool.NewRegistry())

		messages := []ai.Message{ai.NewUserMessage("hi")}
		_, err := a.Run(context.Background(), messages)
		require.NoError(t, err)
		assert.Len(t, messages, 1)
	})
}

// alwaysToolChat requests a tool call on every step.
type alwaysToolChat struct{}

func (a *alwaysToolChat) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	return &ai.Response{
		ToolCalls: []ai.ToolCall{{ID: "call-1", Name: "echo", Arguments: `{"text":"again"}`}},
	}, nil
}

func (a *alwaysToolChat) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan event.Event, error) {
	return nil, errors.New("not implemented")
}

// slowToolChat takes longer than the run timeout and keeps requesting tools,
// so the deadline is observed between steps.
type slowToolChat struct {
	delay time.Duration
}

func (s *slowToolChat) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	time.Sleep(s.delay)
	return &ai.Response{
		ToolCalls: []ai.ToolCall{{ID: "call-1", Name: "echo", Arguments: `{"text":"slow"}`}},
	}, nil
}

func (s *slowToolChat) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan event.Event, error) {
	return nil, errors.New("not implemented")
}
