package agent

import (
	"context"
	"sync"

	ai "github.com/dlevitt/scriptforge"
	"github.com/dlevitt/scriptforge/chat"
	"github.com/dlevitt/scriptforge/event"
	"github.com/dlevitt/scriptforge/tool"
)

// Agent orchestrates autonomous tool-calling conversations.
type Agent struct {
	chatClient chat.Client
	registry   *tool.Registry
}

// New creates a new Agent with the given chat client and tool registry.
func New(c chat.Client, registry *tool.Registry) *Agent {
	return &Agent{
		chatClient: c,
		registry:   registry,
	}
}

// Run executes the agent loop and returns the final result.
// This is a blocking call that runs until the agent completes.
func (a *Agent) Run(ctx context.Context, messages []ai.Message, opts ...Option) (*Result, error) {
	options := ApplyOptions(opts...)

	// Apply overall timeout if specified
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	event.Emit(options.Events, event.Event{Type: event.RunStart})

	// Prepare chat options with tools
	chatOpts := options.ChatOptions
	if a.registry != nil && a.registry.Len() > 0 {
		chatOpts = append([]ai.Option{ai.WithTools(a.registry.Tools())}, chatOpts...)
	}

	// Copy messages to avoid mutating the caller's slice
	history := make([]ai.Message, len(messages))
	copy(history, messages)

	result := &Result{}
	var lastResponse *ai.Response
	step := 0

	for {
		step++
		result.Steps = step

		// Check termination conditions before the step
		if reason := checkTermination(ctx, step, options); reason != "" {
			result.Messages = history
			result.Response = lastResponse
			result.Termination = reason
			event.Emit(options.Events, event.Event{Type: event.RunEnd, Step: step, Response: lastResponse, Message: string(reason)})
			return result, nil
		}

		event.Emit(options.Events, event.Event{Type: event.StageStart, Step: step})

		response, err := a.chatClient.Chat(ctx, history, chatOpts...)
		if err != nil {
			result.Messages = history
			result.Termination = TerminationError
			result.Error = err
			event.Emit(options.Events, event.Event{Type: event.RunError, Step: step, Error: err})
			return result, err
		}

		result.TotalUsage.Add(response.Usage)
		lastResponse = response

		event.Emit(options.Events, event.Event{Type: event.StageEnd, Step: step, Response: response})

		// No tool calls = natural completion
		if len(response.ToolCalls) == 0 {
			history = append(history, ai.Message{Role: ai.RoleAssistant, Content: response.Content})
			result.Messages = history
			result.Response = response
			result.Termination = TerminationComplete
			event.Emit(options.Events, event.Event{Type: event.RunEnd, Step: step, Response: response, Message: string(TerminationComplete)})
			return result, nil
		}

		// Append assistant message with tool calls, execute them, append results
		history = append(history, ai.Message{
			Role:      ai.RoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		var results []ai.ToolResult
		if options.ParallelToolCalls && len(response.ToolCalls) > 1 {
			results = a.executeToolCallsParallel(ctx, response.ToolCalls, options, step)
		} else {
			results = a.executeToolCallsSequential(ctx, response.ToolCalls, options, step)
		}

		history = append(history, ai.NewToolResultMessage(results...))
	}
}

func (a *Agent) executeToolCallsSequential(ctx context.Context, toolCalls []ai.ToolCall, options *Options, step int) []ai.ToolResult {
	results := make([]ai.ToolResult, len(toolCalls))

	for i, tc := range toolCalls {
		results[i] = a.executeToolCall(ctx, tc, options, step)
	}

	return results
}

func (a *Agent) executeToolCallsParallel(ctx context.Context, toolCalls []ai.ToolCall, options *Options, step int) []ai.ToolResult {
	results := make([]ai.ToolResult, len(toolCalls))
	var wg sync.WaitGroup

	for i, tc := range toolCalls {
		wg.Add(1)
		go func(idx int, call ai.ToolCall) {
			defer wg.Done()
			results[idx] = a.executeToolCall(ctx, call, options, step)
		}(i, tc)
	}

	wg.Wait()
	return results
}

func (a *Agent) executeToolCall(ctx context.Context, tc ai.ToolCall, options *Options, step int) ai.ToolResult {
	event.Emit(options.Events, event.Event{Type: event.ToolCallStart, Step: step, ToolCall: &tc})

	// Apply handler timeout
	execCtx := ctx
	if options.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, options.HandlerTimeout)
		defer cancel()
	}

	result, err := a.registry.Execute(execCtx, tc)
	if err != nil {
		// Tool not found or other registry error
		result = ai.ToolResult{
			ToolCallID: tc.ID,
			Content:    err.Error(),
			IsError:    true,
		}
	}

	event.Emit(options.Events, event.Event{Type: event.ToolCallEnd, Step: step, ToolCall: &tc})
	event.Emit(options.Events, event.Event{Type: event.ToolCallResult, Step: step, ToolCall: &tc, ToolResult: &result})
	return result
}

func checkTermination(ctx context.Context, step int, options *Options) TerminationReason {
	// Check context cancellation/timeout
	if ctx.Err() != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return TerminationTimeout
		}
		return TerminationCancelled
	}

	// Check max steps (step is 1-indexed, check before executing)
	if options.MaxSteps > 0 && step > options.MaxSteps {
		return TerminationMaxSteps
	}

	return ""
}
