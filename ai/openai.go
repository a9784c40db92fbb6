package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OpenAI implements the Provider interface for the OpenAI chat
// completions API. OpenRouter speaks the same wire protocol, so the
// openrouter provider reuses this type with a different base URL.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	label   string
}

var _ Provider = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI provider.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com/v1",
		label:   "openai",
	}
}

func (o *OpenAI) Name() string {
	return fmt.Sprintf("%s (%s)", o.label, o.model)
}

type openaiMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (o *OpenAI) buildRequest(ctx context.Context, system string, messages []Message, stream bool) (*http.Request, error) {
	// The system prompt goes first as a "system" role message.
	apiMsgs := make([]openaiMsg, 0, len(messages)+1)
	apiMsgs = append(apiMsgs, openaiMsg{Role: RoleSystem, Content: system})
	for _, m := range messages {
		apiMsgs = append(apiMsgs, openaiMsg(m))
	}

	body := map[string]interface{}{
		"model":      o.model,
		"messages":   apiMsgs,
		"max_tokens": 2048,
	}
	if stream {
		body["stream"] = true
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	return req, nil
}

func (o *OpenAI) Chat(ctx context.Context, messages []Message, system string) (string, error) {
	req, err := o.buildRequest(ctx, system, messages, false)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", o.label, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s API error (%d): %s", o.label, resp.StatusCode, string(respBody))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%s parse error: %w", o.label, err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", o.label)
	}
	return result.Choices[0].Message.Content, nil
}

func (o *OpenAI) Stream(ctx context.Context, messages []Message, system string) (<-chan Fragment, error) {
	req, err := o.buildRequest(ctx, system, messages, true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", o.label, err)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%s API error (%d): %s", o.label, resp.StatusCode, string(respBody))
	}

	ch := make(chan Fragment)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				return
			}

			var chunk struct {
				Choices []struct {
					Delta struct {
						Content string `json:"content"`
					} `json:"delta"`
				} `json:"choices"`
			}
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				ch <- Fragment{Text: chunk.Choices[0].Delta.Content}
			}
		}
		if err := scanner.Err(); err != nil {
			ch <- Fragment{Err: fmt.Errorf("%s stream: %w", o.label, err)}
		}
	}()
	return ch, nil
}
