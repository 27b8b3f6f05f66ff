// Package profile caches user profile summaries for the lifetime of a
// session. The cache is an explicit object owned by whoever wires the
// app together, not process-wide state; sign-out invalidates it.
package profile

import (
	"context"
	"sync"

	"github.com/moyim-dev/moyim/shared/api"
	"github.com/moyim-dev/moyim/shared/domain"
	"github.com/moyim-dev/moyim/shared/logger"
)

// Storage defines the minimal backend operation needed for cache fills.
type Storage interface {
	FetchProfile(ctx context.Context, userId domain.UserId) (api.UserRecord, error)
}

type Cache struct {
	storage  Storage
	mu       sync.RWMutex
	profiles map[domain.UserId]domain.UserSummary
}

func NewCache(storage Storage) *Cache {
	return &Cache{
		storage:  storage,
		profiles: make(map[domain.UserId]domain.UserSummary),
	}
}

// Get returns the cached summary or fetches it through the backend.
func (c *Cache) Get(ctx context.Context, userId domain.UserId) (domain.UserSummary, error) {
	c.mu.RLock()
	cached, ok := c.profiles[userId]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	rec, err := c.storage.FetchProfile(ctx, userId)
	if err != nil {
		return domain.UserSummary{}, err
	}
	summary := api.MapUser(rec)

	c.mu.Lock()
	c.profiles[userId] = summary
	c.mu.Unlock()
	return summary, nil
}

// Invalidate drops everything. Called on sign-out.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.profiles = make(map[domain.UserId]domain.UserSummary)
	c.mu.Unlock()
	logger.Log.Debug("profile cache invalidated", "component", "profile_cache")
}
