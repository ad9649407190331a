// Command serve runs the script generation HTTP service.
//
// Endpoints:
//
//	POST /generate-script         start a background generation task
//	POST /generate-script/stream  generate with SSE progress frames
//	GET  /task/{id}               poll a task's status
//	GET  /download-script/{id}    download the rendered document
//	GET  /health                  health check
//
// Configuration comes from environment variables (a .env file is loaded
// when present); see LoadConfig for the full list.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dlevitt/scriptforge/client"
	"github.com/dlevitt/scriptforge/notion"
	"github.com/dlevitt/scriptforge/prompt"
	"github.com/dlevitt/scriptforge/taskstore"
	"github.com/dlevitt/scriptforge/tool"
	"github.com/dlevitt/scriptforge/workflow"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.LogLevel)

	c := client.New(client.Config{
		APIKeys: client.APIKeys{
			OpenAI:    cfg.OpenAIKey,
			Anthropic: cfg.AnthropicKey,
		},
		Defaults: client.Defaults{
			Chat: cfg.Model,
		},
	})

	promptCfg, err := prompt.DefaultConfig()
	if err != nil {
		slog.Error("failed to load prompt templates", "error", err)
		os.Exit(1)
	}

	roleCfg := tool.RoleConfig{
		TavilyAPIKey: cfg.TavilyKey,
	}
	if cfg.NotionToken != "" {
		roleCfg.Notion = notion.New(cfg.NotionToken)
		roleCfg.NotionParentPageID = cfg.NotionParentPageID
	}

	engineOpts := []workflow.Option{
		workflow.WithMaxResearchRetries(cfg.MaxResearchRetries),
	}
	if cfg.Model != "" {
		engineOpts = append(engineOpts, workflow.WithModel(cfg.Model))
	}
	engine := workflow.New(c, promptCfg, roleCfg, engineOpts...)

	tasks := taskstore.New(cfg.TaskTTL, taskstore.DefaultCleanupInterval)
	server := NewServer(cfg, engine, tasks)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Routes(),
	}

	go func() {
		slog.Info("server listening", "port", cfg.Port, "model", cfg.Model)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

// setupLogging configures the default slog logger from the configured level.
func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
