package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dlevitt/scriptforge/provider/openai"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Port     string
	LogLevel string // debug, info, warn, error

	// APIKey guards the generation endpoints via the X-API-KEY header.
	// Empty disables the check.
	APIKey string

	// Model selection
	Model string

	// Provider keys
	OpenAIKey    string
	AnthropicKey string
	TavilyKey    string

	// Notion export (optional)
	NotionToken        string
	NotionParentPageID string

	// Pipeline config
	MaxResearchRetries int
	RunTimeout         time.Duration

	// UploadDir receives reference documents from multipart uploads.
	UploadDir string

	// OutputDir receives rendered script documents.
	OutputDir string

	// Template documents used when no reference file is uploaded.
	YouTubeTemplate string
	ShortTemplate   string

	// TaskTTL controls how long finished tasks stay pollable.
	TaskTTL time.Duration
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("SCRIPTFORGE_PORT", "8000"),
		LogLevel:           getEnvOrDefault("SCRIPTFORGE_LOG_LEVEL", "info"),
		APIKey:             os.Getenv("SCRIPTFORGE_API_KEY"),
		Model:              getEnvOrDefault("SCRIPTFORGE_MODEL", openai.DefaultChatModel.String()),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:       os.Getenv("ANTHROPIC_API_KEY"),
		TavilyKey:          os.Getenv("TAVILY_API_KEY"),
		NotionToken:        os.Getenv("NOTION_TOKEN"),
		NotionParentPageID: os.Getenv("NOTION_PARENT_PAGE_ID"),
		MaxResearchRetries: getEnvIntOrDefault("SCRIPTFORGE_MAX_RESEARCH_RETRIES", 2),
		RunTimeout:         getEnvDurationOrDefault("SCRIPTFORGE_RUN_TIMEOUT", 10*time.Minute),
		UploadDir:          getEnvOrDefault("SCRIPTFORGE_UPLOAD_DIR", os.TempDir()),
		OutputDir:          getEnvOrDefault("SCRIPTFORGE_OUTPUT_DIR", "output"),
		YouTubeTemplate:    getEnvOrDefault("SCRIPTFORGE_YOUTUBE_TEMPLATE", "templates/youtube_template.docx"),
		ShortTemplate:      getEnvOrDefault("SCRIPTFORGE_SHORT_TEMPLATE", "templates/short_template.docx"),
		TaskTTL:            getEnvDurationOrDefault("SCRIPTFORGE_TASK_TTL", time.Hour),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.OpenAIKey == "" && c.AnthropicKey == "" {
		return fmt.Errorf("OPENAI_API_KEY or ANTHROPIC_API_KEY is required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
