package credentials

import (
	"context"
	"errors"
	"strings"

	"codequest/internal/store"
)

const (
	ProviderGemini = "gemini"
)

const keyPrefix = "credential:"

// Store keeps provider API keys in the durable key-value store so a device
// can be provisioned once instead of carrying the key in its environment.
type Store struct {
	kv store.KV
}

func NewStore(kv store.KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) GeminiAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderGemini)
}

// Token returns the stored key for a provider, or empty when none is set.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	raw, ok, err := s.kv.Get(ctx, keyPrefix+provider)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(raw), nil
}

func (s *Store) SetGeminiAPIKey(ctx context.Context, key string) error {
	return s.SetToken(ctx, ProviderGemini, key)
}

func (s *Store) SetToken(ctx context.Context, provider, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("api key is required")
	}
	return s.kv.Set(ctx, keyPrefix+provider, token)
}
