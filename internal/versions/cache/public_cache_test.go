package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

func setupCache(t *testing.T) (*PublicCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewPublicCache(client, time.Minute), mr
}

func page(versionID string) *domain.PublicUpdate {
	return &domain.PublicUpdate{
		Project:  domain.PublicProject{Name: "Demo", Slug: "demo"},
		Version:  domain.Version{ID: versionID, Version: "1.0", IsPublished: true},
		Page:     *domain.EmptyPage(versionID),
		Sections: []domain.Section{},
	}
}

func TestPublicCache_SetGet(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "demo", "10-launch")
	assert.False(t, ok)

	c.Set(ctx, "demo", "10-launch", page("v1"))
	got, ok := c.Get(ctx, "demo", "10-launch")
	require.True(t, ok)
	assert.Equal(t, "v1", got.Version.ID)
	assert.JSONEq(t, `{"rows":[]}`, string(got.Page.Content))

	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, "demo", "10-launch")
	assert.False(t, ok, "entries expire")
}

func TestPublicCache_InvalidateDropsEveryAlias(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	c.Set(ctx, "demo", "10-launch", page("v1"))
	c.Set(ctx, "demo", "v1", page("v1"))
	c.Set(ctx, "demo", "11-patch", page("v2"))

	c.Invalidate(ctx, "v1")

	_, ok := c.Get(ctx, "demo", "10-launch")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "demo", "v1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "demo", "11-patch")
	assert.True(t, ok)

	c.Invalidate(ctx, "never-cached")
}

func TestPublicCache_OutageIsAMiss(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()
	c.Set(ctx, "demo", "v1", page("v1"))

	mr.Close()

	_, ok := c.Get(ctx, "demo", "v1")
	assert.False(t, ok)
	c.Set(ctx, "demo", "v1", page("v1"))
	c.Invalidate(ctx, "v1")
}
