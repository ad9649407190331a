package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dlevitt/scriptforge/docx"
	"github.com/dlevitt/scriptforge/taskstore"
	"github.com/dlevitt/scriptforge/workflow"
)

// maxUploadBytes bounds the multipart form size for reference uploads.
const maxUploadBytes = 32 << 20

// Server wires the script pipeline to the HTTP API.
type Server struct {
	cfg    *Config
	engine *workflow.Engine
	tasks  *taskstore.Store
}

// NewServer creates the HTTP server around the pipeline engine.
func NewServer(cfg *Config, engine *workflow.Engine, tasks *taskstore.Store) *Server {
	return &Server{cfg: cfg, engine: engine, tasks: tasks}
}

// Routes builds the HTTP mux with all endpoints and middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("POST /generate-script", s.requireAPIKey(http.HandlerFunc(s.handleGenerateScript)))
	mux.Handle("POST /generate-script/stream", s.requireAPIKey(http.HandlerFunc(s.handleGenerateScriptStream)))
	mux.HandleFunc("GET /task/{id}", s.handleTask)
	mux.HandleFunc("GET /download-script/{id}", s.handleDownload)
	return corsMiddleware(mux)
}

// scriptRequest is the common request shape for both generation endpoints.
type scriptRequest struct {
	Topic    string
	Tones    string
	Platform string

	// FilePath is where the reference document lives on disk.
	FilePath string

	// uploaded marks FilePath as a temp upload to remove after the run.
	uploaded bool
}

// parseScriptRequest reads the multipart form, saving an uploaded reference
// document when one is present. Only .docx uploads are accepted.
func (s *Server) parseScriptRequest(r *http.Request) (*scriptRequest, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	req := &scriptRequest{
		Topic: strings.TrimSpace(r.FormValue("topic")),
		// Clients may repeat the tones field; join them into one list.
		Tones:    strings.Join(r.Form["tones"], ", "),
		Platform: r.FormValue("platform"),
	}
	if req.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == http.ErrMissingFile:
		req.FilePath = s.templateFor(req.Platform)
		return req, nil
	case err != nil:
		return nil, fmt.Errorf("invalid file upload: %w", err)
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".docx") {
		return nil, fmt.Errorf("only .docx reference documents are accepted")
	}

	path := filepath.Join(s.cfg.UploadDir, "upload-"+uuid.NewString()+".docx")
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("save upload: %w", err)
	}

	req.FilePath = path
	req.uploaded = true
	return req, nil
}

// templateFor returns the built-in reference template for a platform, or ""
// when the template file is not present on disk.
func (s *Server) templateFor(platform string) string {
	path := s.cfg.YouTubeTemplate
	if platform == workflow.PlatformShort {
		path = s.cfg.ShortTemplate
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// handleGenerateScript accepts a generation request and runs it in the
// background, returning a task id for polling.
func (s *Server) handleGenerateScript(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseScriptRequest(r)
	if err != nil {
		slog.Warn("invalid generation request", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	task := s.tasks.Create()
	log := slog.With("task_id", task.ID, "topic", req.Topic, "platform", req.Platform)
	log.Info("generation task accepted")

	go s.runTask(task.ID, req, log)

	writeJSON(w, http.StatusOK, map[string]string{
		"task_id": task.ID,
		"status":  string(task.Status),
	})
}

// runTask executes one pipeline run in the background, recording progress
// in the task store. Uploaded reference documents are removed afterwards.
func (s *Server) runTask(taskID string, req *scriptRequest, log *slog.Logger) {
	if req.uploaded {
		defer os.Remove(req.FilePath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunTimeout)
	defer cancel()

	s.tasks.SetRunning(taskID)
	start := time.Now()

	state, err := s.engine.RunState(ctx, workflow.Request{
		Topic:    req.Topic,
		Tones:    req.Tones,
		Platform: req.Platform,
		FilePath: req.FilePath,
	})
	if err != nil {
		log.Error("generation failed", "duration_ms", time.Since(start).Milliseconds(), "error", err)
		s.tasks.SetFailed(taskID, err.Error())
		return
	}

	outPath, err := s.renderScript(taskID, req.Topic, state.FinalScript)
	if err != nil {
		// The script itself succeeded; report it without a document.
		log.Warn("script document rendering failed", "error", err)
		outPath = ""
	}

	s.tasks.SetCompleted(taskID, state.FinalScript, outPath)
	log.Info("generation completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"research_attempts", state.ResearchAttempts,
		"file_path", outPath,
	)
}

// renderScript writes the final script as a docx document in the output dir.
func (s *Server) renderScript(taskID, topic, script string) (string, error) {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.cfg.OutputDir, "script-"+taskID+".docx")
	err := docx.WriteFile(path, docx.Script{
		Title:       topic,
		GeneratedAt: time.Now(),
		Body:        script,
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// handleTask reports the status of a background generation task.
func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	task, ok := s.tasks.Get(id)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleDownload serves the rendered document of a completed task.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	task, ok := s.tasks.Get(id)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "task not found")
		return
	}
	if task.Status != taskstore.StatusCompleted || task.FilePath == "" {
		writeJSONError(w, http.StatusConflict, "script is not ready for download")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(task.FilePath)))
	http.ServeFile(w, r, task.FilePath)
}

// requireAPIKey guards an endpoint with the X-API-KEY header. The check is
// disabled when no key is configured.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKey != "" && r.Header.Get("X-API-KEY") != s.cfg.APIKey {
			slog.Warn("unauthorized request", "path", r.URL.Path)
			writeJSONError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-KEY")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
