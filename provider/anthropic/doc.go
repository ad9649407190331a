// Package anthropic provides an Anthropic API client implementing the
// scriptforge provider interfaces.
//
// This package wraps the official Anthropic Go SDK to provide Claude model
// access through the scriptforge unified interface.
//
// # Basic Usage
//
//	client := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
//
//	resp, err := client.Chat(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
package anthropic
