// Package event provides a unified event system for streaming responses
// across the client, agent, and workflow packages. The workflow engine emits
// stage-level events that the SSE layer in cmd/serve translates into frames.
package event

import (
	"time"

	ai "github.com/dlevitt/scriptforge"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when execution begins (agent run, pipeline run, or chat stream).
	RunStart Type = "run_start"

	// RunEnd fires when execution completes successfully.
	RunEnd Type = "run_end"

	// RunError fires when an unrecoverable error occurs.
	RunError Type = "run_error"
)

// Stage lifecycle events (agent/workflow only)
const (
	// StageStart fires when a pipeline stage or agent step begins.
	StageStart Type = "stage_start"

	// StageEnd fires when a pipeline stage or agent step completes.
	StageEnd Type = "stage_end"
)

// Message lifecycle events
const (
	// MessageStart fires when an assistant message begins.
	MessageStart Type = "message_start"

	// MessageDelta fires for each streaming token.
	MessageDelta Type = "message_delta"

	// MessageEnd fires when an assistant message completes.
	MessageEnd Type = "message_end"
)

// Tool call lifecycle events
const (
	// ToolCallStart fires when a tool call begins (contains tool name).
	ToolCallStart Type = "tool_call_start"

	// ToolCallEnd fires when tool call transmission is complete.
	ToolCallEnd Type = "tool_call_end"

	// ToolCallResult fires with the tool execution result.
	ToolCallResult Type = "tool_call_result"
)

// Pipeline-specific events
const (
	// RouteSelected fires when the engine decides whether to loop back or finish.
	RouteSelected Type = "route_selected"

	// LoopIteration fires at the start of each research retry.
	LoopIteration Type = "loop_iteration"
)

// Event represents an observable occurrence during streaming execution.
// This unified type is used by the client, agent, and workflow packages.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// MessageID identifies the message for Start/Delta/End correlation.
	MessageID string

	// Delta contains streaming content for MessageDelta events.
	Delta string

	// Response contains the complete response for MessageEnd and RunEnd events.
	Response *ai.Response

	// ToolCall contains the tool call for tool-related events.
	ToolCall *ai.ToolCall

	// ToolResult contains the result for ToolCallResult events.
	ToolResult *ai.ToolResult

	// Step is the current iteration number (1-indexed) for agent events.
	Step int

	// StageName identifies the stage for pipeline events ("research", "screenwrite").
	StageName string

	// RouteName identifies the selected route for RouteSelected events.
	RouteName string

	// Iteration is the research attempt number (1-indexed) for LoopIteration events.
	Iteration int

	// Error contains the error for RunError events.
	Error error

	// Message contains additional context (e.g., stage output, termination reason).
	Message string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit sends an event with timestamp to the channel (non-blocking).
func Emit(ch chan<- Event, e Event) {
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
