// Package scriptforge provides the shared types for the scriptforge video
// script generation service: conversation messages, model responses, tool
// definitions, request options, and categorized errors.
//
// The packages build on each other roughly bottom-up:
//
//   - provider/openai, provider/anthropic: SDK-backed chat providers
//   - retry: transient-error detection and exponential backoff
//   - client: unified provider-dispatching chat client
//   - tool: tool registry, the concrete agent tools (web search, document
//     reading, Notion export), and the per-role capability sets
//   - agent: the autonomous tool-calling loop used by pipeline stages
//   - prompt: agent/task template rendering
//   - workflow: the research → screenwrite script pipeline engine
//   - taskstore: async task records for the HTTP layer
//   - cmd/serve: the HTTP/SSE front end
package scriptforge
