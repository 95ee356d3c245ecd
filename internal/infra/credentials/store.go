package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"marketgen/internal/infra"
	"marketgen/internal/sqlinline"
)

// Providers whose API keys may be kept in integration_tokens.
const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderLeonardo = "leonardo"
)

// Supported reports whether provider has a stored key slot.
func Supported(provider string) bool {
	switch provider {
	case ProviderGemini, ProviderOpenAI, ProviderLeonardo:
		return true
	}
	return false
}

// Store reads and writes provider API keys.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Token returns the stored key for provider or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	if s == nil || s.sql == nil {
		return "", nil
	}
	row := s.sql.QueryRow(ctx, sqlinline.QSelectProviderToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("load %s token: %w", provider, err)
	}
	return strings.TrimSpace(token), nil
}

// SetToken stores key for provider, replacing any previous value.
func (s *Store) SetToken(ctx context.Context, provider, key string) error {
	if !Supported(provider) {
		return fmt.Errorf("unsupported provider %q", provider)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%s api key is required", provider)
	}
	raw, err := json.Marshal(map[string]any{"source": "providerkey"})
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertProviderToken, provider, key, raw)
	return err
}

// EnsureSchema creates the integration_tokens table when it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.sql.Exec(ctx, sqlinline.QEnsureIntegrationTokens); err != nil {
		return fmt.Errorf("ensure integration_tokens: %w", err)
	}
	return nil
}

// Resolve fills empty API keys in cfg from the store. Keys already present in
// the environment win.
func (s *Store) Resolve(ctx context.Context, cfg *infra.Config) error {
	if s == nil || cfg == nil {
		return nil
	}
	slots := []struct {
		provider string
		dst      *string
	}{
		{ProviderGemini, &cfg.GeminiAPIKey},
		{ProviderOpenAI, &cfg.OpenAIAPIKey},
		{ProviderLeonardo, &cfg.LeonardoAPIKey},
	}
	for _, slot := range slots {
		if *slot.dst != "" {
			continue
		}
		token, err := s.Token(ctx, slot.provider)
		if err != nil {
			return err
		}
		*slot.dst = token
	}
	return nil
}
