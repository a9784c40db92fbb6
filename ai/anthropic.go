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

// Anthropic implements the Provider interface for the Anthropic
// Messages API, including SSE streaming.
type Anthropic struct {
	apiKey  string
	model   string
	baseURL string
}

var _ Provider = (*Anthropic)(nil)

// NewAnthropic creates an Anthropic provider.
func NewAnthropic(apiKey, model string) *Anthropic {
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}
	return &Anthropic{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.anthropic.com",
	}
}

func (a *Anthropic) Name() string {
	return fmt.Sprintf("anthropic (%s)", a.model)
}

type anthropicMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// buildRequest assembles the Messages API payload. Anthropic doesn't
// use a "system" role in messages — it's a top-level field.
func (a *Anthropic) buildRequest(ctx context.Context, system string, messages []Message, stream bool) (*http.Request, error) {
	apiMsgs := make([]anthropicMsg, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = m.Content
			continue
		}
		apiMsgs = append(apiMsgs, anthropicMsg(m))
	}
	if len(apiMsgs) == 0 {
		return nil, fmt.Errorf("anthropic requires at least one user message")
	}

	body := map[string]interface{}{
		"model":      a.model,
		"max_tokens": 2048,
		"system":     system,
		"messages":   apiMsgs,
	}
	if stream {
		body["stream"] = true
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	return req, nil
}

func (a *Anthropic) Chat(ctx context.Context, messages []Message, system string) (string, error) {
	req, err := a.buildRequest(ctx, system, messages, false)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("anthropic parse error: %w", err)
	}

	var text string
	for _, block := range result.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("anthropic returned no text content")
	}
	return text, nil
}

func (a *Anthropic) Stream(ctx context.Context, messages []Message, system string) (<-chan Fragment, error) {
	req, err := a.buildRequest(ctx, system, messages, true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("anthropic API error (%d): %s", resp.StatusCode, string(respBody))
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

			var event struct {
				Type  string `json:"type"`
				Delta struct {
					Type string `json:"type"`
					Text string `json:"text"`
				} `json:"delta"`
			}
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				continue // keepalives and unknown events
			}

			switch event.Type {
			case "content_block_delta":
				if event.Delta.Text != "" {
					ch <- Fragment{Text: event.Delta.Text}
				}
			case "message_stop":
				return
			}
		}
		if err := scanner.Err(); err != nil {
			ch <- Fragment{Err: fmt.Errorf("anthropic stream: %w", err)}
		}
	}()
	return ch, nil
}
