package ai

// NewOpenRouter creates an OpenRouter provider. OpenRouter exposes the
// OpenAI chat completions protocol under a different base URL, so it
// shares the OpenAI implementation.
func NewOpenRouter(apiKey, model string) *OpenAI {
	if model == "" {
		model = "anthropic/claude-3-haiku"
	}
	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://openrouter.ai/api/v1",
		label:   "openrouter",
	}
}
