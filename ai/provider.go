// Package ai implements the multi-provider LLM client.
//
// Design decisions:
//   - Provider is an interface so backends (Anthropic, OpenAI, Ollama,
//     OpenRouter) are interchangeable without touching TUI code.
//   - All methods accept a context for cancellation (async-friendly).
//   - Streaming is a channel of Fragments; a mid-stream failure arrives
//     as a terminal Fragment carrying the error, never a panic or an
//     abrupt close the consumer can't distinguish from success.
//   - The Client facade converts every failure into displayable text:
//     a chat turn must always produce something to render.
package ai

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Fragment is one unit of a streaming response. Err is non-nil only on
// the terminal fragment of a failed stream.
type Fragment struct {
	Text string
	Err  error
}

// Provider is the interface all AI backends implement.
type Provider interface {
	// Chat sends a conversation and returns the complete assistant reply.
	Chat(ctx context.Context, messages []Message, system string) (string, error)

	// Stream sends a conversation and delivers the reply incrementally.
	// The returned channel is closed when the response is complete; a
	// setup failure (bad request, non-2xx status) is returned directly.
	Stream(ctx context.Context, messages []Message, system string) (<-chan Fragment, error)

	// Name returns the provider name for display and logging.
	Name() string
}
