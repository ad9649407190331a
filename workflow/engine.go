// Package workflow implements the script generation pipeline: a research
// stage followed by a screenwriting stage, with a conditional loop back to
// research when the screenwriter signals that its source material is too
// thin. The engine owns the routing decision and a bounded retry budget so
// a model that keeps asking for more research cannot loop forever.
package workflow

import (
	"context"
	"net/http"

	ai "github.com/dlevitt/scriptforge"
	"github.com/dlevitt/scriptforge/agent"
	"github.com/dlevitt/scriptforge/chat"
	"github.com/dlevitt/scriptforge/event"
	"github.com/dlevitt/scriptforge/prompt"
	"github.com/dlevitt/scriptforge/tool"
)

// Stage names used in pipeline events.
const (
	StageResearch    = "research"
	StageScreenwrite = "screenwrite"
)

// Route names used in RouteSelected events.
const (
	RouteResearch = "research"
	RouteFinish   = "finish"
)

// DefaultMaxResearchRetries bounds how many times the screenwriter may send
// the pipeline back to research. Once spent, the engine finishes with the
// last draft instead of looping again.
const DefaultMaxResearchRetries = 2

// Options configures pipeline execution. Engine-level options set the
// baseline; per-run options override it for a single run.
type Options struct {
	// Model overrides the chat client's default model.
	Model string

	// MaxResearchRetries bounds sentinel-driven loop-backs to the research
	// stage. Default is DefaultMaxResearchRetries.
	MaxResearchRetries int

	// Events receives pipeline events when non-nil. Events are sent
	// non-blocking; a full channel drops them.
	Events chan<- event.Event

	// AgentOptions are applied to every stage's agent run.
	AgentOptions []agent.Option
}

// Option is a functional option for pipeline execution.
type Option func(*Options)

// WithModel sets the model used by both stages.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxResearchRetries bounds how many loop-backs to research the
// screenwriter is granted. Default is DefaultMaxResearchRetries.
func WithMaxResearchRetries(n int) Option {
	return func(o *Options) {
		o.MaxResearchRetries = n
	}
}

// WithEvents sets a channel that receives pipeline events.
func WithEvents(ch chan<- event.Event) Option {
	return func(o *Options) {
		o.Events = ch
	}
}

// WithAgentOptions applies agent options to every stage run.
func WithAgentOptions(opts ...agent.Option) Option {
	return func(o *Options) {
		o.AgentOptions = append(o.AgentOptions, opts...)
	}
}

// Engine runs the two-stage script pipeline. An Engine is safe for
// concurrent use: each run owns its own state and the engine's configuration
// is immutable after New.
type Engine struct {
	chatClient chat.Client
	config     *prompt.Config
	tools      tool.RoleConfig
	baseOpts   []Option
}

// New creates a pipeline engine. The prompt config and tool role config are
// treated as immutable; opts set the baseline options for every run.
func New(c chat.Client, cfg *prompt.Config, tools tool.RoleConfig, opts ...Option) *Engine {
	return &Engine{
		chatClient: c,
		config:     cfg,
		tools:      tools,
		baseOpts:   opts,
	}
}

// Run executes the pipeline and returns the final script.
func (e *Engine) Run(ctx context.Context, req Request, opts ...Option) (string, error) {
	state, err := e.RunState(ctx, req, opts...)
	if err != nil {
		return "", err
	}
	return state.FinalScript, nil
}

// RunState executes the pipeline and returns the full final state, including
// the intermediate research results. Streaming callers use this form.
//
// Stage errors propagate unchanged; the engine performs no retry of its own.
// The only loop is content-driven: a script containing the research sentinel
// sends the run back to the research stage, at most MaxResearchRetries times.
func (e *Engine) RunState(ctx context.Context, req Request, opts ...Option) (*State, error) {
	options := e.applyOptions(opts)

	if req.Topic == "" {
		return nil, ai.NewUserInputError("topic is required", http.StatusBadRequest, nil)
	}

	state := newState(req)
	event.Emit(options.Events, event.Event{Type: event.RunStart, Message: state.Topic})

	for {
		if err := ctx.Err(); err != nil {
			event.Emit(options.Events, event.Event{Type: event.RunError, Error: err})
			return nil, err
		}

		event.Emit(options.Events, event.Event{Type: event.StageStart, StageName: StageResearch, Iteration: state.ResearchAttempts + 1})
		if err := e.research(ctx, state, options); err != nil {
			event.Emit(options.Events, event.Event{Type: event.RunError, StageName: StageResearch, Error: err})
			return nil, err
		}
		event.Emit(options.Events, event.Event{Type: event.StageEnd, StageName: StageResearch, Message: state.ResearchResults})

		if err := ctx.Err(); err != nil {
			event.Emit(options.Events, event.Event{Type: event.RunError, Error: err})
			return nil, err
		}

		event.Emit(options.Events, event.Event{Type: event.StageStart, StageName: StageScreenwrite})
		candidate, needsMore, err := e.screenwrite(ctx, state, options)
		if err != nil {
			event.Emit(options.Events, event.Event{Type: event.RunError, StageName: StageScreenwrite, Error: err})
			return nil, err
		}
		event.Emit(options.Events, event.Event{Type: event.StageEnd, StageName: StageScreenwrite})

		if !needsMore {
			state.NeedsMoreResearch = false
			state.FinalScript = candidate
			event.Emit(options.Events, event.Event{Type: event.RouteSelected, RouteName: RouteFinish})
			break
		}

		// The draft is a loop request, not a usable script.
		state.NeedsMoreResearch = true
		state.FinalScript = ""

		retriesUsed := state.ResearchAttempts - 1
		if retriesUsed >= options.MaxResearchRetries {
			// Retry budget spent: finish with the last draft rather than
			// trusting the model to eventually stop asking.
			state.NeedsMoreResearch = false
			state.FinalScript = candidate
			event.Emit(options.Events, event.Event{Type: event.RouteSelected, RouteName: RouteFinish, Message: "research retry budget exhausted"})
			break
		}

		event.Emit(options.Events, event.Event{Type: event.RouteSelected, RouteName: RouteResearch})
		event.Emit(options.Events, event.Event{Type: event.LoopIteration, Iteration: state.ResearchAttempts + 1})

		// The loop request is consumed by the routing decision.
		state.NeedsMoreResearch = false
	}

	event.Emit(options.Events, event.Event{Type: event.RunEnd, Message: state.FinalScript})
	return state, nil
}

func (e *Engine) applyOptions(runOpts []Option) *Options {
	o := &Options{
		MaxResearchRetries: DefaultMaxResearchRetries,
	}
	for _, opt := range e.baseOpts {
		opt(o)
	}
	for _, opt := range runOpts {
		opt(o)
	}
	return o
}

// agentOptions builds the per-stage agent options from the pipeline options.
func (e *Engine) agentOptions(options *Options) []agent.Option {
	opts := []agent.Option{agent.WithEvents(options.Events)}
	if options.Model != "" {
		opts = append(opts, agent.WithModel(options.Model))
	}
	return append(opts, options.AgentOptions...)
}
