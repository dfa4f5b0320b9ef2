package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/dvaldez/storefront-backend/internal/basket"
	"github.com/dvaldez/storefront-backend/pkg/logger"
	pkgredis "github.com/dvaldez/storefront-backend/pkg/redis"
)

// IdentityFactory builds the basket identity slot for a session.
type IdentityFactory func(sessionID string) (basket.IdentityHolder, error)

// RedisIdentityFactory keys each session's basket identity in Redis.
func RedisIdentityFactory(client *pkgredis.Client, ttl time.Duration) IdentityFactory {
	return func(sessionID string) (basket.IdentityHolder, error) {
		return basket.NewRedisIdentity(client, sessionID, ttl)
	}
}

// Manager hands out one basket container per session, building each lazily
// on first use. Containers share the store; identity slots are per session.
type Manager struct {
	store      basket.Store
	identities IdentityFactory
	logg       *logger.Logger

	mu         sync.Mutex
	containers map[string]*basket.Container
}

// NewManager builds the session manager.
func NewManager(store basket.Store, identities IdentityFactory, logg *logger.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("basket store required")
	}
	if identities == nil {
		return nil, fmt.Errorf("identity factory required")
	}
	return &Manager{
		store:      store,
		identities: identities,
		logg:       logg,
		containers: map[string]*basket.Container{},
	}, nil
}

// Container returns the basket container bound to the session, creating it
// on first access.
func (m *Manager) Container(sessionID string) (*basket.Container, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.containers[sessionID]; ok {
		return c, nil
	}
	identity, err := m.identities(sessionID)
	if err != nil {
		return nil, err
	}
	c, err := basket.NewContainer(m.store, identity, m.logg)
	if err != nil {
		return nil, err
	}
	m.containers[sessionID] = c
	return c, nil
}

// Evict drops the cached container for a session. The persisted basket, if
// any, is untouched.
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.containers, sessionID)
}
