package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playpulse/playpulse-backend/internal/logging"
	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

const (
	pageKeyPrefix    = "pp:public:page:"    // rendered page: pp:public:page:{project_slug}:{version_ref}
	versionKeyPrefix = "pp:public:version:" // set of page keys built from a version: pp:public:version:{version_id}
	defaultTTL       = 5 * time.Minute
)

// PublicCache caches resolved public update pages in Redis. A page can be cached under both its
// slug and its raw id, so each version keeps a set of the keys built from it for invalidation.
// Redis errors are logged and treated as misses.
type PublicCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPublicCache(client *redis.Client, ttl time.Duration) *PublicCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &PublicCache{client: client, ttl: ttl}
}

func (c *PublicCache) Get(ctx context.Context, projectSlug, versionRef string) (*domain.PublicUpdate, bool) {
	data, err := c.client.Get(ctx, pageKey(projectSlug, versionRef)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logging.NewLogger(ctx).LogWarnf("public_cache_get", "redis get failed: %v", err)
		return nil, false
	}

	var u domain.PublicUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		logging.NewLogger(ctx).LogWarnf("public_cache_get", "dropping undecodable entry: %v", err)
		return nil, false
	}
	return &u, true
}

func (c *PublicCache) Set(ctx context.Context, projectSlug, versionRef string, u *domain.PublicUpdate) {
	data, err := json.Marshal(u)
	if err != nil {
		logging.NewLogger(ctx).LogWarnf("public_cache_set", "marshal failed: %v", err)
		return
	}

	key := pageKey(projectSlug, versionRef)
	idx := versionKeyPrefix + u.Version.ID

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, c.ttl)
	pipe.SAdd(ctx, idx, key)
	pipe.Expire(ctx, idx, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logging.NewLogger(ctx).LogWarnf("public_cache_set", "redis pipeline failed: %v", err)
	}
}

// Invalidate drops every cached page built from versionID.
func (c *PublicCache) Invalidate(ctx context.Context, versionID string) {
	idx := versionKeyPrefix + versionID

	keys, err := c.client.SMembers(ctx, idx).Result()
	if err != nil {
		logging.NewLogger(ctx).LogWarnf("public_cache_invalidate", "redis smembers failed: %v", err)
		return
	}

	pipe := c.client.Pipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, idx)
	if _, err := pipe.Exec(ctx); err != nil {
		logging.NewLogger(ctx).LogWarnf("public_cache_invalidate", "redis pipeline failed: %v", err)
	}
}

func pageKey(projectSlug, versionRef string) string {
	return pageKeyPrefix + projectSlug + ":" + versionRef
}
