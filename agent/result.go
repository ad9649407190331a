package agent

import ai "github.com/dlevitt/scriptforge"

// TerminationReason indicates why the agent stopped execution.
type TerminationReason string

const (
	// TerminationComplete indicates normal completion (no more tool calls).
	TerminationComplete TerminationReason = "complete"

	// TerminationMaxSteps indicates the step limit was reached.
	TerminationMaxSteps TerminationReason = "max_steps"

	// TerminationTimeout indicates the context deadline was exceeded.
	TerminationTimeout TerminationReason = "timeout"

	// TerminationCancelled indicates context cancellation.
	TerminationCancelled TerminationReason = "cancelled"

	// TerminationError indicates an unrecoverable error occurred.
	TerminationError TerminationReason = "error"
)

// Result represents the final outcome of an agent execution.
type Result struct {
	// Response is the final response from the model.
	// May carry the last available response when termination was not natural.
	Response *ai.Response

	// Messages is the complete conversation history including tool traffic.
	Messages []ai.Message

	// Steps is the number of iterations completed.
	Steps int

	// Termination indicates why execution stopped.
	Termination TerminationReason

	// TotalUsage aggregates token usage across all steps.
	TotalUsage ai.Usage

	// Error contains any error that caused termination (if applicable).
	Error error
}

// FinalText returns the content of the final model response, or "" if the
// agent produced no response.
func (r *Result) FinalText() string {
	if r.Response == nil {
		return ""
	}
	return r.Response.Content
}
