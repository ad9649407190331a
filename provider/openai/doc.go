// Package openai provides an OpenAI API client implementing the scriptforge
// provider interfaces.
//
// This package wraps the official OpenAI Go SDK to provide GPT model access
// through the scriptforge unified interface.
//
// # Basic Usage
//
//	client := openai.New(os.Getenv("OPENAI_API_KEY"))
//
//	messages := []scriptforge.Message{
//	    {Role: scriptforge.RoleSystem, Content: "You are a helpful assistant."},
//	    {Role: scriptforge.RoleUser, Content: "Hello!"},
//	}
//
//	resp, err := client.Chat(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// # Model Selection
//
// Set a default model at client creation:
//
//	client := openai.New(apiKey, openai.WithModel(openai.GPT4o))
//
// Or override per-request:
//
//	resp, err := client.Chat(ctx, messages, scriptforge.WithModel(openai.GPT4oMini.String()))
package openai
