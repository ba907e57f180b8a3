package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "github.com/indianathe3rdKing/quicklog-api/internal/domain/user"
)

func setupCache(t *testing.T) (UserCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisUserCache(client, 5*time.Minute, zaptest.NewLogger(t)), mr
}

func strPtr(s string) *string {
	return &s
}

func TestRedisUserCache_SetAndGet(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	u := &domain.User{
		ID:        "u-1",
		Name:      strPtr("John"),
		Email:     strPtr("john@example.com"),
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Words:     []string{"Apple", "banana"},
		Version:   2,
	}

	require.NoError(t, c.Set(ctx, u))

	got, err := c.Get(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Name, got.Name)
	assert.Equal(t, u.Words, got.Words)
	assert.Equal(t, u.Version, got.Version)
}

func TestRedisUserCache_GetMiss(t *testing.T) {
	c, _ := setupCache(t)

	got, err := c.Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_SetNil(t *testing.T) {
	c, _ := setupCache(t)
	assert.Error(t, c.Set(context.Background(), nil))
}

func TestRedisUserCache_Delete(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &domain.User{ID: "u-1"}))
	require.NoError(t, c.Delete(ctx, "u-1"))

	got, err := c.Get(ctx, "u-1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisUserCache_TTLExpiry(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &domain.User{ID: "u-1"}))

	mr.FastForward(10 * time.Minute)

	got, err := c.Get(ctx, "u-1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
