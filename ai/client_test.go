package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatalk-ai/datatalk/config"
)

func testStore(t *testing.T) *config.Store {
	t.Helper()
	// Neutralize any real keys in the environment.
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	s, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	return s
}

func TestClient_Configured(t *testing.T) {
	t.Run("no provider", func(t *testing.T) {
		assert.False(t, NewClient(testStore(t)).Configured())
	})

	t.Run("cloud provider without key", func(t *testing.T) {
		store := testStore(t)
		require.NoError(t, store.SetProvider(config.ProviderAnthropic))
		assert.False(t, NewClient(store).Configured())
	})

	t.Run("cloud provider with key", func(t *testing.T) {
		store := testStore(t)
		require.NoError(t, store.SetProvider(config.ProviderOpenAI))
		require.NoError(t, store.SetAPIKey("sk-test"))
		assert.True(t, NewClient(store).Configured())
	})

	t.Run("ollama needs no key", func(t *testing.T) {
		store := testStore(t)
		require.NoError(t, store.SetProvider(config.ProviderOllama))
		assert.True(t, NewClient(store).Configured())
	})

	t.Run("key from environment", func(t *testing.T) {
		store := testStore(t)
		require.NoError(t, store.SetProvider(config.ProviderOpenRouter))
		t.Setenv("OPENROUTER_API_KEY", "env-key")
		assert.True(t, NewClient(store).Configured())
	})
}

func TestClient_NotConfiguredPlaceholder(t *testing.T) {
	client := NewClient(testStore(t))
	msgs := []Message{{Role: RoleUser, Content: "hi"}}

	text := client.Chat(context.Background(), msgs, "")
	assert.Equal(t, notConfiguredText, text)

	var streamed string
	for chunk := range client.Stream(context.Background(), msgs, "") {
		streamed += chunk
	}
	assert.Equal(t, notConfiguredText, streamed)
}

func TestClient_StreamEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"content":"stream "},"done":false}`)
		fmt.Fprintln(w, `{"message":{"content":"works"},"done":true}`)
	}))
	defer srv.Close()

	store := testStore(t)
	require.NoError(t, store.SetProvider(config.ProviderOllama))
	t.Setenv("OLLAMA_HOST", srv.URL)

	client := NewClient(store)
	var text string
	for chunk := range client.Stream(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "") {
		text += chunk
	}
	assert.Equal(t, "stream works", text)
}

func TestClient_StreamErrorBecomesText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	store := testStore(t)
	require.NoError(t, store.SetProvider(config.ProviderOllama))
	t.Setenv("OLLAMA_HOST", srv.URL)

	client := NewClient(store)
	var text string
	for chunk := range client.Stream(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, "") {
		text += chunk
	}
	assert.Contains(t, text, "Error talking to ollama")
	assert.Contains(t, text, "404")
}

func TestClient_ErrorText(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.SetProvider(config.ProviderAnthropic))
	client := NewClient(store)

	assert.Equal(t, "(interrupted)", client.errorText(context.Canceled))
	assert.Equal(t, "(interrupted)", client.errorText(fmt.Errorf("request: %w", context.Canceled)))
	assert.Equal(t, "Error talking to anthropic: boom", client.errorText(fmt.Errorf("boom")))
}

func TestBuildSystem(t *testing.T) {
	t.Run("no context", func(t *testing.T) {
		assert.Equal(t, SystemPrompt, BuildSystem(""))
	})

	t.Run("with context", func(t *testing.T) {
		out := BuildSystem("Loaded dataset: 10 rows × 3 columns")
		assert.Contains(t, out, SystemPrompt)
		assert.Contains(t, out, "CURRENT SESSION CONTEXT:")
		assert.Contains(t, out, "Loaded dataset")
	})
}
