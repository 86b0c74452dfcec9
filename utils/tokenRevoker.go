package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevoker remembers token ids that were logged out before they expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisTokenRevoker struct {
	client    *redis.Client
	keyPrefix string
}

var _ TokenRevoker = (*RedisTokenRevoker)(nil)

func NewRedisTokenRevoker(ctx context.Context, addr, password string, db int) (*RedisTokenRevoker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisTokenRevokerWithClient(client), nil
}

func NewRedisTokenRevokerWithClient(client *redis.Client) *RedisTokenRevoker {
	return &RedisTokenRevoker{client: client, keyPrefix: "token:revoked:"}
}

func (r *RedisTokenRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *RedisTokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return n > 0, nil
}

func (r *RedisTokenRevoker) Close() error {
	return r.client.Close()
}

// MemoryTokenRevoker keeps revocations in process memory. Revocations are
// lost on restart and not shared between instances.
type MemoryTokenRevoker struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

var _ TokenRevoker = (*MemoryTokenRevoker)(nil)

func NewMemoryTokenRevoker() *MemoryTokenRevoker {
	return &MemoryTokenRevoker{expires: make(map[string]time.Time), now: time.Now}
}

func (r *MemoryTokenRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, exp := range r.expires {
		if !exp.After(now) {
			delete(r.expires, id)
		}
	}
	r.expires[jti] = now.Add(ttl)
	return nil
}

func (r *MemoryTokenRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.expires[jti]
	if !ok {
		return false, nil
	}
	if !exp.After(r.now()) {
		delete(r.expires, jti)
		return false, nil
	}
	return true, nil
}
