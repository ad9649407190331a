package client

import (
	"context"
	"strings"
	"sync"

	ai "github.com/dlevitt/scriptforge"
	"github.com/dlevitt/scriptforge/chat"
	"github.com/dlevitt/scriptforge/event"
	"github.com/dlevitt/scriptforge/provider/anthropic"
	"github.com/dlevitt/scriptforge/provider/openai"
	"github.com/dlevitt/scriptforge/retry"
)

// APIKeys holds API keys for different providers.
// Only configure keys for providers you intend to use.
type APIKeys struct {
	OpenAI    string
	Anthropic string
}

// Defaults holds default models for each capability.
// The model's provider determines which backend is used.
type Defaults struct {
	Chat string
}

// Config holds configuration for creating a unified client.
type Config struct {
	// APIKeys contains authentication keys for each provider.
	// Only configure keys for providers you intend to use.
	APIKeys APIKeys

	// Defaults contains default models for each capability.
	// The model's provider determines which backend is used.
	Defaults Defaults

	// RetryConfig configures retry behavior for transient errors.
	// If nil, uses default retry configuration (10 retries with exponential backoff).
	RetryConfig *retry.Config
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultTemperature sets the default temperature for chat requests.
// Per-request options override this default.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithTemperature(t))
	}
}

// WithDefaultMaxTokens sets the default max tokens for chat requests.
// Per-request options override this default.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithMaxTokens(n))
	}
}

// WithDefaultChatOptions sets default options for all chat requests.
// Per-request options override these defaults.
func WithDefaultChatOptions(opts ...ai.Option) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, opts...)
	}
}

// Client is a unified interface to the configured AI providers.
// Provider clients are lazily initialized when first needed.
type Client struct {
	apiKeys         APIKeys
	defaults        Defaults
	retryConfig     retry.Config
	defaultChatOpts []ai.Option

	// Lazy-initialized providers (protected by mutex)
	mu              sync.RWMutex
	openaiClient    *openai.Client
	anthropicClient *anthropic.Client
}

// New creates a unified client with the given configuration.
// Provider clients are lazily initialized when first needed based on the model used.
// Optional ClientOption arguments configure default behaviors like temperature.
func New(cfg Config, opts ...ClientOption) *Client {
	retryConfig := retry.DefaultConfig()
	if cfg.RetryConfig != nil {
		retryConfig = *cfg.RetryConfig
	}

	c := &Client{
		apiKeys:     cfg.APIKeys,
		defaults:    cfg.Defaults,
		retryConfig: retryConfig,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getOpenAIClient returns the OpenAI client, initializing it if needed.
func (c *Client) getOpenAIClient() (*openai.Client, error) {
	c.mu.RLock()
	if c.openaiClient != nil {
		defer c.mu.RUnlock()
		return c.openaiClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.openaiClient != nil {
		return c.openaiClient, nil
	}

	if c.apiKeys.OpenAI == "" {
		return nil, &ErrMissingAPIKey{Provider: "openai"}
	}

	c.openaiClient = openai.New(c.apiKeys.OpenAI)
	return c.openaiClient, nil
}

// getAnthropicClient returns the Anthropic client, initializing it if needed.
func (c *Client) getAnthropicClient() (*anthropic.Client, error) {
	c.mu.RLock()
	if c.anthropicClient != nil {
		defer c.mu.RUnlock()
		return c.anthropicClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.anthropicClient != nil {
		return c.anthropicClient, nil
	}

	if c.apiKeys.Anthropic == "" {
		return nil, &ErrMissingAPIKey{Provider: "anthropic"}
	}

	c.anthropicClient = anthropic.New(c.apiKeys.Anthropic)
	return c.anthropicClient, nil
}

// resolveProvider determines which provider to use for a given model.
func resolveProvider(model string) ai.Provider {
	if strings.HasPrefix(model, "claude") {
		return ai.ProviderAnthropic
	}
	return ai.ProviderOpenAI
}

// getChatProvider returns the chat provider for the given model.
func (c *Client) getChatProvider(model string) (ai.ChatProvider, ai.Provider, error) {
	provider := resolveProvider(model)

	switch provider {
	case ai.ProviderAnthropic:
		client, err := c.getAnthropicClient()
		if err != nil {
			return nil, "", err
		}
		return client, provider, nil
	default:
		client, err := c.getOpenAIClient()
		if err != nil {
			return nil, "", err
		}
		return client, provider, nil
	}
}

// Chat sends a conversation and returns a complete response.
// The model can be specified via WithModel option, or the default chat model is used.
// Automatically retries on transient errors according to the client's retry configuration.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	// Prepend default options so per-request options override them
	opts = append(c.defaultChatOpts, opts...)
	options := ai.ApplyOptions(opts...)

	// Determine which model to use
	model := options.Model
	if model == "" {
		model = c.defaults.Chat
	}
	if model == "" {
		return nil, &ErrNoModel{Operation: "chat"}
	}

	// Get the appropriate provider
	chatProvider, _, err := c.getChatProvider(model)
	if err != nil {
		return nil, err
	}

	// Ensure model is passed to the underlying provider
	if options.Model == "" {
		opts = append([]ai.Option{ai.WithModel(model)}, opts...)
	}

	return retry.Do(ctx, c.retryConfig, func() (*ai.Response, error) {
		return chatProvider.Chat(ctx, messages, opts...)
	})
}

// ChatStream sends a conversation and returns a channel of rich events.
// The model can be specified via WithModel option, or the default chat model is used.
// Automatically retries on transient errors when establishing the stream connection.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan event.Event, error) {
	// Prepend default options so per-request options override them
	opts = append(c.defaultChatOpts, opts...)
	options := ai.ApplyOptions(opts...)

	// Determine which model to use
	model := options.Model
	if model == "" {
		model = c.defaults.Chat
	}
	if model == "" {
		return nil, &ErrNoModel{Operation: "chat_stream"}
	}

	// Get the appropriate provider
	chatProvider, _, err := c.getChatProvider(model)
	if err != nil {
		return nil, err
	}

	// Ensure model is passed to the underlying provider
	if options.Model == "" {
		opts = append([]ai.Option{ai.WithModel(model)}, opts...)
	}

	stream, err := retry.DoStream(ctx, c.retryConfig, func() (<-chan ai.StreamEvent, error) {
		return chatProvider.ChatStream(ctx, messages, opts...)
	})
	if err != nil {
		return nil, err
	}

	events := event.NewChannel()
	go func() {
		defer close(events)

		messageID := ai.GenerateMessageID()
		event.Emit(events, event.Event{Type: event.MessageStart, MessageID: messageID})

		for se := range stream {
			switch {
			case se.Err != nil:
				event.Emit(events, event.Event{Type: event.RunError, MessageID: messageID, Error: se.Err})
				return
			case se.Done:
				event.Emit(events, event.Event{Type: event.MessageEnd, MessageID: messageID, Response: se.Response})
				event.Emit(events, event.Event{Type: event.RunEnd, MessageID: messageID, Response: se.Response})
			case se.Delta != "":
				event.Emit(events, event.Event{Type: event.MessageDelta, MessageID: messageID, Delta: se.Delta})
			}
		}
	}()

	return events, nil
}

var _ chat.Client = (*Client)(nil)
