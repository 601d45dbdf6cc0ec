package intake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"estate_leads_backend/internal/common"
	"estate_leads_backend/internal/config"
	"estate_leads_backend/internal/platform/crypto"

	"github.com/patrickmn/go-cache"
	goredis "github.com/redis/go-redis/v9"
)

// Guard is the in-flight flag of a submit. Acquire fails with
// common.ErrSubmitInProgress while another holder has the key. The flag expires
// after its TTL so a crashed submit cannot block a draft forever.
type Guard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// NewGuard builds the backend selected by SUBMIT_GUARD_BACKEND.
func NewGuard(cfg *config.Config, client *goredis.Client) (Guard, error) {
	switch cfg.SubmitGuardBackend {
	case config.GuardBackendRedis:
		if client == nil {
			return nil, fmt.Errorf("submit guard: redis backend selected without a client")
		}
		return NewRedisGuard(client, cfg.SubmitGuardTTL), nil
	case config.GuardBackendMemory, "":
		return NewMemoryGuard(cfg.SubmitGuardTTL), nil
	}
	return nil, fmt.Errorf("submit guard: unsupported backend %q", cfg.SubmitGuardBackend)
}

// MemoryGuard is a single process guard on go-cache.
type MemoryGuard struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
}

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &MemoryGuard{cache: cache.New(ttl, ttl), ttl: ttl}
}

func (g *MemoryGuard) Acquire(ctx context.Context, key string) (func(), error) {
	token, err := crypto.GenerateSecureRandomString(16)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.cache.Add(key, token, g.ttl); err != nil {
		return nil, common.ErrSubmitInProgress
	}
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if held, ok := g.cache.Get(key); ok && held == token {
			g.cache.Delete(key)
		}
	}, nil
}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisGuard shares the flag across replicas with SET NX.
type RedisGuard struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewRedisGuard(client *goredis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	token, err := crypto.GenerateSecureRandomString(16)
	if err != nil {
		return nil, err
	}
	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("submit guard: %w", err)
	}
	if !ok {
		return nil, common.ErrSubmitInProgress
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, g.client, []string{key}, token).Err()
	}, nil
}
