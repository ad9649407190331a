package workflow

import (
	"strconv"
	"strings"
	"time"
)

// Platform names accepted by a script request. Anything else falls back to
// the long-form template.
const (
	PlatformYouTube = "YouTube"
	PlatformShort   = "short"
)

// DefaultTones is used when the caller supplies no tones.
const DefaultTones = "professional"

// Request describes one script generation request.
type Request struct {
	// Topic is the subject of the script. Required.
	Topic string

	// Tones is a comma-joined list of style descriptors.
	// Empty defaults to "professional".
	Tones string

	// FilePath is an optional reference document the screenwriter may read.
	FilePath string

	// Platform selects the script format ("YouTube" or "short").
	// Unrecognized values fall back to YouTube long-form.
	Platform string

	// CurrentYear anchors time-sensitive research. Empty defaults to the
	// engine's current year.
	CurrentYear string
}

// State is the mutable shared state of one pipeline run. A run owns its
// state exclusively; it is never shared across concurrent runs.
type State struct {
	Topic       string
	Tones       string
	FilePath    string
	Platform    string
	CurrentYear string

	// ResearchResults is set once per research pass and overwritten on a
	// repeated pass.
	ResearchResults string

	// FinalScript is set only when the screenwriting stage judges the
	// script complete. Non-empty exactly when the run has finished.
	FinalScript string

	// NeedsMoreResearch is set by the screenwriting stage and consumed by
	// the engine's routing decision.
	NeedsMoreResearch bool

	// ResearchAttempts counts completed research passes.
	ResearchAttempts int
}

// newState builds the initial state for a request, applying defaults.
func newState(req Request) *State {
	tones := strings.TrimSpace(req.Tones)
	if tones == "" {
		tones = DefaultTones
	}

	year := strings.TrimSpace(req.CurrentYear)
	if year == "" {
		year = strconv.Itoa(time.Now().Year())
	}

	platform := req.Platform
	if platform != PlatformShort {
		platform = PlatformYouTube
	}

	return &State{
		Topic:       req.Topic,
		Tones:       tones,
		FilePath:    req.FilePath,
		Platform:    platform,
		CurrentYear: year,
	}
}
