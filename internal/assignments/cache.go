package assignments

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atrium-portal/atrium/internal/authz"
)

// Cache is a short-TTL read-through cache in front of an assignment store.
// A freshly granted role may not be visible until the entry expires, which
// the portal accepts as its eventual-consistency window. Redis failures
// fall through to the underlying store.
type Cache struct {
	store  authz.AssignmentStore
	client *redis.Client
	ttl    time.Duration
}

// NewCache wraps store with a Redis cache.
func NewCache(store authz.AssignmentStore, client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{store: store, client: client, ttl: ttl}
}

type cachedAssignment struct {
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// FindActiveByUser serves from cache when possible, loading and caching on
// miss.
func (c *Cache) FindActiveByUser(ctx context.Context, userID string) ([]authz.Assignment, error) {
	key := c.key(userID)
	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached []cachedAssignment
		if err := json.Unmarshal(data, &cached); err == nil {
			assignments := make([]authz.Assignment, 0, len(cached))
			for _, a := range cached {
				assignments = append(assignments, authz.Assignment{
					Role:       authz.Role(a.Role),
					Provenance: authz.ProvenanceExplicit,
					Active:     a.Active,
				})
			}
			return assignments, nil
		}
	}

	assignments, err := c.store.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cached := make([]cachedAssignment, 0, len(assignments))
	for _, a := range assignments {
		cached = append(cached, cachedAssignment{Role: string(a.Role), Active: a.Active})
	}
	if data, err := json.Marshal(cached); err == nil {
		// Best effort: a failed write only costs a future cache miss.
		_ = c.client.Set(ctx, key, data, c.ttl).Err()
	}
	return assignments, nil
}

// Invalidate drops the cached entry for an identity.
func (c *Cache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *Cache) key(userID string) string {
	return "authz:assignments:" + userID
}
