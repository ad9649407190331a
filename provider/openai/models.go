package openai

// ChatModel represents an OpenAI chat/completion model.
type ChatModel string

const (
	// GPT-4o Series
	GPT4o     ChatModel = "gpt-4o"
	GPT4oMini ChatModel = "gpt-4o-mini"

	// GPT-4.1 Series
	GPT41     ChatModel = "gpt-4.1"
	GPT41Mini ChatModel = "gpt-4.1-mini"
	GPT41Nano ChatModel = "gpt-4.1-nano"

	// O-Series Reasoning Models
	O3Mini ChatModel = "o3-mini"
	O4Mini ChatModel = "o4-mini"

	// DefaultChatModel is the model used when none is configured.
	// Script generation is prompt-heavy, so the mini tier is the default.
	DefaultChatModel ChatModel = GPT4oMini
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
