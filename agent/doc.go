// Package agent orchestrates autonomous tool-calling conversations.
//
// An Agent repeatedly sends the conversation to the model, executes any tool
// calls the model requests through its tool registry, appends the results,
// and continues until the model responds without tool calls or a limit is
// reached.
//
// # Basic Usage
//
//	a := agent.New(chatClient, registry)
//	result, err := a.Run(ctx, messages, agent.WithMaxSteps(5))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Response.Content)
//
// # Termination Conditions
//
// The agent stops when:
//
//   - The model responds without tool calls (TerminationComplete)
//   - MaxSteps is reached (TerminationMaxSteps)
//   - Timeout is exceeded (TerminationTimeout)
//   - Context is cancelled (TerminationCancelled)
//   - An error occurs (TerminationError)
package agent
