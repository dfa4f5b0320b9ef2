package basket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/dvaldez/storefront-backend/pkg/redis"
)

// Store is the durable key-value mapping of basket id to basket.
type Store interface {
	// Get returns the stored basket, or nil when the id is unknown.
	Get(ctx context.Context, id string) (*Basket, error)
	// Put persists the basket and returns the stored value.
	Put(ctx context.Context, b *Basket) (*Basket, error)
	// Delete removes the basket, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}

type redisStore struct {
	client *pkgredis.Client
	ttl    time.Duration
}

// NewRedisStore builds the Redis-backed basket store. Baskets expire after
// ttl so abandoned sessions do not accumulate.
func NewRedisStore(client *pkgredis.Client, ttl time.Duration) (Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (*Basket, error) {
	raw, err := s.client.Get(ctx, s.client.BasketKey(id))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get basket %s: %w", id, err)
	}
	var b Basket
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil, fmt.Errorf("decode basket %s: %w", id, err)
	}
	return &b, nil
}

func (s *redisStore) Put(ctx context.Context, b *Basket) (*Basket, error) {
	if b == nil || b.ID == "" {
		return nil, fmt.Errorf("basket with id required")
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode basket %s: %w", b.ID, err)
	}
	if err := s.client.Set(ctx, s.client.BasketKey(b.ID), raw, s.ttl); err != nil {
		return nil, fmt.Errorf("put basket %s: %w", b.ID, err)
	}
	return b, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := s.client.Del(ctx, s.client.BasketKey(id))
	if err != nil {
		return false, fmt.Errorf("delete basket %s: %w", id, err)
	}
	return removed > 0, nil
}
