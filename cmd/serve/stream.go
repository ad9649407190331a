package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dlevitt/scriptforge/event"
	"github.com/dlevitt/scriptforge/workflow"
)

// Stream frame statuses, in emission order.
const (
	frameStarted           = "started"
	frameResearchCompleted = "research_completed"
	frameCompleted         = "completed"
	frameFailed            = "failed"
)

// streamFrame is one SSE data frame of the streaming generation endpoint.
type streamFrame struct {
	Status          string `json:"status"`
	ResearchResults string `json:"research_results,omitempty"`
	FinalScript     string `json:"final_script,omitempty"`
	FilePath        string `json:"file_path,omitempty"`
	Error           string `json:"error,omitempty"`
}

// handleGenerateScriptStream runs the pipeline inline and streams progress
// frames over SSE: started, research_completed per research pass, then
// completed or failed.
func (s *Server) handleGenerateScriptStream(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := s.parseScriptRequest(r)
	if err != nil {
		slog.Warn("invalid streaming request", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.uploaded {
		defer os.Remove(req.FilePath)
	}

	log := slog.With("topic", req.Topic, "platform", req.Platform)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	log.Info("streaming request started")
	if err := writeSSE(w, flusher, streamFrame{Status: frameStarted}); err != nil {
		log.Error("failed to write SSE frame", "error", err)
		return
	}

	// Run the pipeline in a goroutine and forward its stage events as
	// frames until it finishes.
	events := event.NewChannel()
	var state *workflow.State
	var runErr error
	done := make(chan struct{})

	go func() {
		defer close(events)
		defer close(done)
		state, runErr = s.engine.RunState(r.Context(), workflow.Request{
			Topic:    req.Topic,
			Tones:    req.Tones,
			Platform: req.Platform,
			FilePath: req.FilePath,
		}, workflow.WithEvents(events))
	}()

	var frameCount int
	for ev := range events {
		if ev.Type == event.StageEnd && ev.StageName == workflow.StageResearch {
			frameCount++
			if err := writeSSE(w, flusher, streamFrame{
				Status:          frameResearchCompleted,
				ResearchResults: ev.Message,
			}); err != nil {
				log.Error("failed to write SSE frame", "error", err)
				<-done
				return
			}
		}
	}
	<-done

	duration := time.Since(start)
	if runErr != nil {
		log.Error("streaming request failed", "duration_ms", duration.Milliseconds(), "error", runErr)
		writeSSE(w, flusher, streamFrame{Status: frameFailed, Error: runErr.Error()})
		return
	}

	frame := streamFrame{Status: frameCompleted, FinalScript: state.FinalScript}
	if path, err := s.renderScript(uuid.NewString(), req.Topic, state.FinalScript); err == nil {
		frame.FilePath = path
	} else {
		log.Warn("script document rendering failed", "error", err)
	}

	if err := writeSSE(w, flusher, frame); err != nil {
		log.Error("failed to write SSE frame", "error", err)
		return
	}
	log.Info("streaming request completed",
		"duration_ms", duration.Milliseconds(),
		"frames_sent", frameCount+2,
	)
}

// writeSSE writes one frame in SSE data format.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, frame streamFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to serialize frame: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	flusher.Flush()
	return nil
}
