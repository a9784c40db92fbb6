package ai

import (
	"fmt"
	"os"

	"github.com/datatalk-ai/datatalk/config"
)

// NewBackend constructs a provider from the current configuration.
// The switch is exhaustive over the closed provider set so adding or
// removing a provider is a compile-visible change here.
func NewBackend(store *config.Store) (Provider, error) {
	provider := store.Provider()
	model := store.Model()

	switch provider {
	case config.ProviderAnthropic:
		if store.APIKey() == "" {
			return nil, fmt.Errorf("anthropic API key not set")
		}
		return NewAnthropic(store.APIKey(), model), nil

	case config.ProviderOpenAI:
		if store.APIKey() == "" {
			return nil, fmt.Errorf("openai API key not set")
		}
		return NewOpenAI(store.APIKey(), model), nil

	case config.ProviderOpenRouter:
		if store.APIKey() == "" {
			return nil, fmt.Errorf("openrouter API key not set")
		}
		return NewOpenRouter(store.APIKey(), model), nil

	case config.ProviderOllama:
		return NewOllama(os.Getenv("OLLAMA_HOST"), model), nil

	case "":
		return nil, fmt.Errorf("no AI provider configured")

	default:
		return nil, fmt.Errorf("unknown AI provider %q", provider)
	}
}
