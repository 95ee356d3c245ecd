package credentials

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"marketgen/internal/infra"
)

type stubExecutor struct {
	tokens map[string]string
	err    error
	exec   struct {
		query string
		args  []any
	}
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.exec.query = query
	s.exec.args = args
	return pgconn.CommandTag{}, s.err
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if s.err != nil {
		return stubRow{err: s.err}
	}
	provider, _ := args[0].(string)
	token, ok := s.tokens[provider]
	if !ok {
		return stubRow{err: pgx.ErrNoRows}
	}
	return stubRow{token: token}
}

type stubRow struct {
	token string
	err   error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) == 0 {
		return errors.New("no dest")
	}
	ptr, ok := dest[0].(*string)
	if !ok {
		return errors.New("invalid dest")
	}
	*ptr = r.token
	return nil
}

func TestToken(t *testing.T) {
	store := NewStore(&stubExecutor{tokens: map[string]string{ProviderGemini: " abc123 "}})
	key, err := store.Token(context.Background(), ProviderGemini)
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if key != "abc123" {
		t.Fatalf("expected abc123, got %q", key)
	}
}

func TestToken_NoRows(t *testing.T) {
	store := NewStore(&stubExecutor{})
	key, err := store.Token(context.Background(), ProviderLeonardo)
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if key != "" {
		t.Fatalf("expected empty key, got %q", key)
	}
}

func TestToken_Error(t *testing.T) {
	store := NewStore(&stubExecutor{err: errors.New("connection reset")})
	if _, err := store.Token(context.Background(), ProviderOpenAI); err == nil {
		t.Fatal("expected error")
	}
}

func TestSetToken(t *testing.T) {
	exec := &stubExecutor{}
	store := NewStore(exec)
	if err := store.SetToken(context.Background(), ProviderOpenAI, " secret "); err != nil {
		t.Fatalf("SetToken error: %v", err)
	}
	if len(exec.exec.args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(exec.exec.args))
	}
	if v, ok := exec.exec.args[0].(string); !ok || v != ProviderOpenAI {
		t.Fatalf("expected provider argument, got %T %v", exec.exec.args[0], exec.exec.args[0])
	}
	if v, ok := exec.exec.args[1].(string); !ok || v != "secret" {
		t.Fatalf("expected secret argument, got %T %v", exec.exec.args[1], exec.exec.args[1])
	}
}

func TestSetTokenRejects(t *testing.T) {
	store := NewStore(&stubExecutor{})
	if err := store.SetToken(context.Background(), ProviderGemini, " "); err == nil {
		t.Fatal("expected error for empty key")
	}
	if err := store.SetToken(context.Background(), "qwen", "secret"); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestResolveKeepsEnvironmentKeys(t *testing.T) {
	store := NewStore(&stubExecutor{tokens: map[string]string{
		ProviderGemini:   "db-gemini",
		ProviderOpenAI:   "db-openai",
		ProviderLeonardo: "db-leonardo",
	}})
	cfg := &infra.Config{GeminiAPIKey: "env-gemini"}

	if err := store.Resolve(context.Background(), cfg); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if cfg.GeminiAPIKey != "env-gemini" {
		t.Fatalf("GeminiAPIKey = %q, want env value", cfg.GeminiAPIKey)
	}
	if cfg.OpenAIAPIKey != "db-openai" {
		t.Fatalf("OpenAIAPIKey = %q", cfg.OpenAIAPIKey)
	}
	if cfg.LeonardoAPIKey != "db-leonardo" {
		t.Fatalf("LeonardoAPIKey = %q", cfg.LeonardoAPIKey)
	}
}

func TestResolveNilStore(t *testing.T) {
	var store *Store
	cfg := &infra.Config{}
	if err := store.Resolve(context.Background(), cfg); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
}

func TestEnsureSchema(t *testing.T) {
	exec := &stubExecutor{}
	if err := NewStore(exec).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema error: %v", err)
	}
	if !strings.Contains(exec.exec.query, "create table if not exists integration_tokens") {
		t.Fatalf("unexpected query %q", exec.exec.query)
	}

	exec.err = errors.New("permission denied")
	if err := NewStore(exec).EnsureSchema(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
