package memory

import (
	"context"
	"sync"
)

// TokenStore is the in-process ports.TokenStore used when Redis is not
// configured.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[int64]string
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[int64]string)}
}

func (t *TokenStore) Current(_ context.Context, userID int64) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tokens[userID], nil
}

func (t *TokenStore) Save(_ context.Context, userID int64, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokens[userID] = token
	return nil
}
