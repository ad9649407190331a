// Package client provides a unified chat client across AI providers.
//
// The client dispatches requests to the OpenAI or Anthropic backend based on
// the requested model, lazily initializing provider clients when first needed.
// Transient errors (rate limits, server errors, network failures) are retried
// with exponential backoff.
//
// # Basic Usage
//
//	c := client.New(client.Config{
//	    APIKeys: client.APIKeys{OpenAI: os.Getenv("OPENAI_API_KEY")},
//	    Defaults: client.Defaults{Chat: "gpt-4o-mini"},
//	})
//
//	resp, err := c.Chat(ctx, messages)
//
// The returned Client implements [chat.Client] and can be passed to the agent
// and workflow packages.
package client
