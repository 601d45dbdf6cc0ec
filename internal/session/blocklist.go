package session

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Blocklist records revoked token IDs until they would have expired anyway.
type Blocklist interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// InMemoryBlocklist keeps revoked IDs in go-cache.
type InMemoryBlocklist struct {
	mu    sync.RWMutex
	cache *cache.Cache
}

func NewInMemoryBlocklist() *InMemoryBlocklist {
	return &InMemoryBlocklist{cache: cache.New(time.Hour, 10*time.Minute)}
}

func (b *InMemoryBlocklist) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := time.Until(expiresAt)
	if remaining <= 0 {
		return nil
	}
	b.cache.Set(jti, true, remaining)
	return nil
}

func (b *InMemoryBlocklist) Contains(ctx context.Context, jti string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, found := b.cache.Get(jti)
	return found, nil
}
