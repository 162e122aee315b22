package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/convoyrelief/convoyd/pkg/authz"
	"github.com/convoyrelief/convoyd/pkg/identity"
)

const keyPrefix = "convoyd:profile:"

var _ authz.ProfileCache = (*RedisProfileCache)(nil)

// New creates a Redis client and checks that it answers.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: ping: %w", err)
	}

	return client, nil
}

// RedisProfileCache keeps JSON encoded profiles in Redis for a fixed TTL.
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProfileCache instantiates the cache. ttl must be positive.
func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{client: client, ttl: ttl}
}

// Key returns the Redis key of a subject's profile.
func Key(subjectID string) string {
	return keyPrefix + subjectID
}

// Get loads a cached profile. A miss returns (nil, nil).
func (c *RedisProfileCache) Get(ctx context.Context, subjectID string) (*identity.Profile, error) {
	payload, err := c.client.Get(ctx, Key(subjectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p identity.Profile
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("cache: decode profile %s: %w", subjectID, err)
	}
	return &p, nil
}

// Set stores an active profile. Inactive profiles are skipped.
func (c *RedisProfileCache) Set(ctx context.Context, p *identity.Profile) error {
	if p == nil || !p.IsActive {
		return nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(p.SubjectID), raw, c.ttl).Err()
}

// Invalidate removes a subject's profile.
func (c *RedisProfileCache) Invalidate(ctx context.Context, subjectID string) error {
	return c.client.Del(ctx, Key(subjectID)).Err()
}
