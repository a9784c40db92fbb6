package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/datatalk-ai/datatalk/applog"
	"github.com/datatalk-ai/datatalk/config"
)

const notConfiguredText = "I'm not configured yet. Please set up a provider first."

// Client is the unified entry point for all AI calls. It resolves the
// configured backend per call (config can change between turns) and
// converts every failure into displayable text: a chat turn always
// produces something to render, never an error and never a crash.
//
// There is deliberately no retry logic — a transient failure surfaces
// once as an inline message and the user re-sends.
type Client struct {
	store *config.Store
}

// NewClient creates a client bound to the config store.
func NewClient(store *config.Store) *Client {
	return &Client{store: store}
}

// Configured reports whether a provider is selected and credentialed.
// Ollama needs no credential; the cloud providers need an API key.
func (c *Client) Configured() bool {
	provider := c.store.Provider()
	if provider == "" {
		return false
	}
	if !provider.RequiresKey() {
		return true
	}
	return c.store.APIKey() != ""
}

// ProviderName returns a display name for the active backend.
func (c *Client) ProviderName() string {
	backend, err := NewBackend(c.store)
	if err != nil {
		return "(not configured)"
	}
	return backend.Name()
}

// Chat sends the conversation and returns the complete reply text.
func (c *Client) Chat(ctx context.Context, messages []Message, system string) string {
	backend, err := NewBackend(c.store)
	if err != nil {
		return notConfiguredText
	}

	applog.AIRequest(backend.Name(), len(messages), system)
	text, err := backend.Chat(ctx, messages, system)
	applog.AIResponse(backend.Name(), len(text), err)
	if err != nil {
		return c.errorText(err)
	}
	return text
}

// Stream sends the conversation and returns a lazy sequence of text
// fragments. The channel always yields at least one fragment and is
// always closed; failures arrive as rendered text, never an error.
func (c *Client) Stream(ctx context.Context, messages []Message, system string) <-chan string {
	out := make(chan string, 1)

	backend, err := NewBackend(c.store)
	if err != nil {
		out <- notConfiguredText
		close(out)
		return out
	}

	applog.AIRequest(backend.Name(), len(messages), system)
	fragments, err := backend.Stream(ctx, messages, system)
	if err != nil {
		applog.AIResponse(backend.Name(), 0, err)
		out <- c.errorText(err)
		close(out)
		return out
	}

	go func() {
		defer close(out)
		total := 0
		for f := range fragments {
			if f.Err != nil {
				applog.AIResponse(backend.Name(), total, f.Err)
				out <- "\n" + c.errorText(f.Err)
				return
			}
			total += len(f.Text)
			out <- f.Text
		}
		applog.AIResponse(backend.Name(), total, nil)
	}()
	return out
}

// errorText renders a provider failure for display. A user-initiated
// cancellation becomes "(interrupted)" rather than an error message.
func (c *Client) errorText(err error) string {
	if errors.Is(err, context.Canceled) {
		return "(interrupted)"
	}
	return fmt.Sprintf("Error talking to %s: %v", c.store.Provider(), err)
}
