package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Ollama implements the Provider interface for local Ollama instances.
// No API key is needed.
type Ollama struct {
	host  string
	model string
}

var _ Provider = (*Ollama)(nil)

// NewOllama creates an Ollama provider.
func NewOllama(host, model string) *Ollama {
	if host == "" {
		host = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	return &Ollama{host: host, model: model}
}

func (o *Ollama) Name() string {
	return fmt.Sprintf("ollama (%s)", o.model)
}

type ollamaMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (o *Ollama) buildRequest(ctx context.Context, system string, messages []Message, stream bool) (*http.Request, error) {
	apiMsgs := make([]ollamaMsg, 0, len(messages)+1)
	apiMsgs = append(apiMsgs, ollamaMsg{Role: RoleSystem, Content: system})
	for _, m := range messages {
		apiMsgs = append(apiMsgs, ollamaMsg(m))
	}

	body := map[string]interface{}{
		"model":    o.model,
		"messages": apiMsgs,
		"stream":   stream,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.host+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (o *Ollama) Chat(ctx context.Context, messages []Message, system string) (string, error) {
	req, err := o.buildRequest(ctx, system, messages, false)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed (is Ollama running at %s?): %w", o.host, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("ollama parse error: %w", err)
	}
	if result.Message.Content == "" {
		return "", fmt.Errorf("ollama returned empty response")
	}
	return result.Message.Content, nil
}

// Stream reads Ollama's JSON-lines streaming format: one JSON object
// per chunk, with done=true on the last.
func (o *Ollama) Stream(ctx context.Context, messages []Message, system string) (<-chan Fragment, error) {
	req, err := o.buildRequest(ctx, system, messages, true)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed (is Ollama running at %s?): %w", o.host, err)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(respBody))
	}

	ch := make(chan Fragment)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		dec := json.NewDecoder(resp.Body)
		for {
			var chunk struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
				Done bool `json:"done"`
			}
			if err := dec.Decode(&chunk); err != nil {
				if err != io.EOF {
					ch <- Fragment{Err: fmt.Errorf("ollama stream: %w", err)}
				}
				return
			}
			if chunk.Message.Content != "" {
				ch <- Fragment{Text: chunk.Message.Content}
			}
			if chunk.Done {
				return
			}
		}
	}()
	return ch, nil
}
