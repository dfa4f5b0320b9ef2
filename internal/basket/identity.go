package basket

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pkgredis "github.com/dvaldez/storefront-backend/pkg/redis"
)

// IdentityHolder is the durable single-slot record of which basket id a
// client currently owns. Exactly one id is active per client at a time.
type IdentityHolder interface {
	// Get returns the held basket id, or "" when none is held.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, basketID string) error
	Clear(ctx context.Context) error
}

type redisIdentity struct {
	client    *pkgredis.Client
	sessionID string
	ttl       time.Duration
}

// NewRedisIdentity binds an identity slot to one client session in Redis,
// surviving page reloads the way the browser's local storage slot did.
func NewRedisIdentity(client *pkgredis.Client, sessionID string, ttl time.Duration) (IdentityHolder, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}
	return &redisIdentity{client: client, sessionID: sessionID, ttl: ttl}, nil
}

func (h *redisIdentity) Get(ctx context.Context) (string, error) {
	id, err := h.client.Get(ctx, h.client.SessionBasketKey(h.sessionID))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("get basket id for session %s: %w", h.sessionID, err)
	}
	return id, nil
}

func (h *redisIdentity) Set(ctx context.Context, basketID string) error {
	if basketID == "" {
		return fmt.Errorf("basket id required")
	}
	return h.client.Set(ctx, h.client.SessionBasketKey(h.sessionID), basketID, h.ttl)
}

func (h *redisIdentity) Clear(ctx context.Context) error {
	_, err := h.client.Del(ctx, h.client.SessionBasketKey(h.sessionID))
	return err
}

// MemoryIdentity is a process-local identity holder used in tests and
// single-process setups.
type MemoryIdentity struct {
	mu sync.Mutex
	id string
}

func NewMemoryIdentity() *MemoryIdentity {
	return &MemoryIdentity{}
}

func (h *MemoryIdentity) Get(_ context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.id, nil
}

func (h *MemoryIdentity) Set(_ context.Context, basketID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.id = basketID
	return nil
}

func (h *MemoryIdentity) Clear(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.id = ""
	return nil
}
