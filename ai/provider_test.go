package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan Fragment) (string, error) {
	t.Helper()
	var text string
	for f := range ch {
		if f.Err != nil {
			return text, f.Err
		}
		text += f.Text
	}
	return text, nil
}

func TestAnthropic_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var body struct {
			System   string `json:"system"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// The system message must be hoisted out of the messages array.
		assert.Equal(t, "be brief", body.System)
		for _, m := range body.Messages {
			assert.NotEqual(t, RoleSystem, m.Role)
		}

		fmt.Fprint(w, `{"content":[{"type":"text","text":"hello "},{"type":"text","text":"world"}]}`)
	}))
	defer srv.Close()

	p := NewAnthropic("test-key", "")
	p.baseURL = srv.URL

	text, err := p.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestAnthropic_ChatAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewAnthropic("test-key", "")
	p.baseURL = srv.URL

	_, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestAnthropic_Stream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: message_start\n")
		fmt.Fprint(w, "data: {\"type\":\"message_start\"}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"one \"}}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"two\"}}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"message_stop\"}\n\n")
	}))
	defer srv.Close()

	p := NewAnthropic("test-key", "")
	p.baseURL = srv.URL

	ch, err := p.Stream(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "")
	require.NoError(t, err)

	text, err := collect(t, ch)
	require.NoError(t, err)
	assert.Equal(t, "one two", text)
}

func TestOpenAI_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// System prompt arrives as the first message.
		require.NotEmpty(t, body.Messages)
		assert.Equal(t, RoleSystem, body.Messages[0].Role)
		assert.Equal(t, "be brief", body.Messages[0].Content)

		fmt.Fprint(w, `{"choices":[{"message":{"content":"response text"}}]}`)
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", "")
	p.baseURL = srv.URL

	text, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "be brief")
	require.NoError(t, err)
	assert.Equal(t, "response text", text)
}

func TestOpenAI_Stream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", "")
	p.baseURL = srv.URL

	ch, err := p.Stream(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "")
	require.NoError(t, err)

	text, err := collect(t, ch)
	require.NoError(t, err)
	assert.Equal(t, "ab", text)
}

func TestOpenRouter_Defaults(t *testing.T) {
	p := NewOpenRouter("key", "")
	assert.Equal(t, "https://openrouter.ai/api/v1", p.baseURL)
	assert.Equal(t, "openrouter (anthropic/claude-3-haiku)", p.Name())
}

func TestOllama_Stream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		fmt.Fprintln(w, `{"message":{"content":"chunk1 "},"done":false}`)
		fmt.Fprintln(w, `{"message":{"content":"chunk2"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"content":""},"done":true}`)
	}))
	defer srv.Close()

	p := NewOllama(srv.URL, "")
	ch, err := p.Stream(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "")
	require.NoError(t, err)

	text, err := collect(t, ch)
	require.NoError(t, err)
	assert.Equal(t, "chunk1 chunk2", text)
}

func TestOllama_ChatEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":{"content":""}}`)
	}))
	defer srv.Close()

	p := NewOllama(srv.URL, "")
	_, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestProviderNames(t *testing.T) {
	assert.Equal(t, "anthropic (claude-3-5-haiku-20241022)", NewAnthropic("k", "").Name())
	assert.Equal(t, "openai (gpt-4o-mini)", NewOpenAI("k", "").Name())
	assert.Equal(t, "ollama (llama3.2)", NewOllama("", "").Name())
}
