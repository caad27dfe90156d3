package cache_test

import (
	"testing"
	"time"

	"app/internal/cache"

	"github.com/stretchr/testify/assert"
)

type stubClock struct{ now time.Time }

func (c *stubClock) Now() time.Time { return c.now }

func TestCodeCache_GetWithinTTL(t *testing.T) {
	clock := &stubClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := cache.NewCodeCache(clock)

	c.Put("admin@example.com", "123456", 5*time.Minute)

	clock.now = clock.now.Add(4 * time.Minute)

	v, ok := c.Get("admin@example.com")
	assert.True(t, ok)
	assert.Equal(t, "123456", v)
}

func TestCodeCache_ExpiresAfterTTL(t *testing.T) {
	clock := &stubClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := cache.NewCodeCache(clock)

	c.Put("admin@example.com", "123456", 5*time.Minute)

	clock.now = clock.now.Add(5*time.Minute + time.Second)

	_, ok := c.Get("admin@example.com")
	assert.False(t, ok)

	// 期限切れエントリはその場で破棄される。時計を戻しても復活しない
	clock.now = clock.now.Add(-2 * time.Minute)
	_, ok = c.Get("admin@example.com")
	assert.False(t, ok)
}

func TestCodeCache_PutOverwritesSameKey(t *testing.T) {
	clock := &stubClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := cache.NewCodeCache(clock)

	c.Put("admin@example.com", "111111", 5*time.Minute)
	c.Put("admin@example.com", "222222", 5*time.Minute)

	v, ok := c.Get("admin@example.com")
	assert.True(t, ok)
	assert.Equal(t, "222222", v)
}

func TestCodeCache_DeleteIsFinal(t *testing.T) {
	clock := &stubClock{now: time.Now()}
	c := cache.NewCodeCache(clock)

	c.Put("admin@example.com", "123456", 5*time.Minute)
	c.Delete("admin@example.com")

	_, ok := c.Get("admin@example.com")
	assert.False(t, ok)
}
