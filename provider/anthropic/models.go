package anthropic

// ChatModel represents an Anthropic chat model.
type ChatModel string

const (
	// Claude 4 Family (Current)
	ClaudeOpus4   ChatModel = "claude-opus-4-0"
	ClaudeSonnet4 ChatModel = "claude-sonnet-4-0"

	// Claude 3.x Family
	Claude37Sonnet ChatModel = "claude-3-7-sonnet-latest"
	Claude35Haiku  ChatModel = "claude-3-5-haiku-latest"

	// Pinned versions (use for production stability)
	ClaudeSonnet4_20250514 ChatModel = "claude-sonnet-4-20250514"

	// DefaultChatModel is the recommended default model.
	DefaultChatModel ChatModel = ClaudeSonnet4
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
