// Package config manages the persisted datatalk configuration.
//
// Settings are stored as a flat JSON document in ~/.datatalk/config.json:
// provider, model, and api_key. API keys can also come from environment
// variables (ANTHROPIC_API_KEY, OPENAI_API_KEY, OPENROUTER_API_KEY) so the
// key never has to touch disk.
//
// Separated from cmd so ai and tui can depend on config without
// importing Cobra.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/datatalk-ai/datatalk/applog"
)

// Provider identifies an AI backend. The set is closed: ai.NewBackend
// switches exhaustively over these values.
type Provider string

const (
	ProviderAnthropic  Provider = "anthropic"
	ProviderOpenAI     Provider = "openai"
	ProviderOllama     Provider = "ollama"
	ProviderOpenRouter Provider = "openrouter"
)

// ProviderNames lists the valid providers in display order.
var ProviderNames = []Provider{
	ProviderAnthropic,
	ProviderOpenAI,
	ProviderOllama,
	ProviderOpenRouter,
}

// DefaultModel returns the model used when none is configured.
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderAnthropic:
		return "claude-3-5-haiku-20241022"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderOllama:
		return "llama3.2"
	case ProviderOpenRouter:
		return "anthropic/claude-3-haiku"
	}
	return ""
}

// RequiresKey reports whether the provider needs an API credential.
// Ollama runs locally and needs none.
func (p Provider) RequiresKey() bool {
	return p != ProviderOllama
}

// keyEnvVar names the environment variable consulted as an API-key
// fallback for the provider.
func (p Provider) keyEnvVar() string {
	switch p {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	}
	return ""
}

// ValidProvider reports whether name is a member of the closed set.
func ValidProvider(name string) bool {
	for _, p := range ProviderNames {
		if string(p) == name {
			return true
		}
	}
	return false
}

// document is the on-disk shape. Absent fields are treated as unset;
// unknown fields are dropped on the next save.
type document struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
}

// Store holds the configuration and persists every mutation.
type Store struct {
	path string
	doc  document
}

// Load reads the config file from ~/.datatalk/config.json. A malformed
// file logs a warning and resets to empty defaults; startup never fails
// on bad config.
func Load() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	return LoadFrom(filepath.Join(homeDir, ".datatalk", "config.json"))
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		applog.Error("config: could not parse %s, resetting: %v", path, err)
		s.doc = document{}
	}
	return s, nil
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Provider returns the configured provider, or "" when unset or invalid.
func (s *Store) Provider() Provider {
	if ValidProvider(s.doc.Provider) {
		return Provider(s.doc.Provider)
	}
	return ""
}

// SetProvider selects a provider and persists it. When no model has
// been chosen yet, the provider's default model is filled in so Model
// always resolves to a non-empty value afterwards.
func (s *Store) SetProvider(p Provider) error {
	if !ValidProvider(string(p)) {
		return fmt.Errorf("unknown provider %q, choose one of %v", p, ProviderNames)
	}
	s.doc.Provider = string(p)
	if s.doc.Model == "" {
		s.doc.Model = p.DefaultModel()
	}
	applog.Event("config", "provider set to %s", p)
	return s.save()
}

// Model returns the configured model, falling back to the selected
// provider's default. Empty iff no provider is set.
func (s *Store) Model() string {
	if s.doc.Model != "" {
		return s.doc.Model
	}
	return s.Provider().DefaultModel()
}

// SetModel overrides the model name and persists it.
func (s *Store) SetModel(name string) error {
	s.doc.Model = name
	return s.save()
}

// APIKey returns the stored credential, or the provider's environment
// variable when nothing is on disk. Empty when unset.
func (s *Store) APIKey() string {
	if s.doc.APIKey != "" {
		return s.doc.APIKey
	}
	if env := s.Provider().keyEnvVar(); env != "" {
		return os.Getenv(env)
	}
	return ""
}

// SetAPIKey stores the credential and persists it.
func (s *Store) SetAPIKey(key string) error {
	s.doc.APIKey = key
	applog.Event("config", "api key updated")
	return s.save()
}

// MaskedKey renders the API key for display: first 8 and last 4
// characters for long keys, the raw value otherwise.
func (s *Store) MaskedKey() string {
	key := s.APIKey()
	if key == "" {
		return "(not set)"
	}
	if len(key) > 12 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	return key
}
