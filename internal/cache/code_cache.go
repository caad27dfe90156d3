package cache

import (
	"sync"
	"time"
)

// 時刻はテストで差し替えられるようにinterfaceにする
type Clock interface {
	Now() time.Time
}

type entry struct {
	value     string
	expiresAt time.Time
}

// ワンタイムコードの時限キャッシュ。
// グローバルなmapを持たず、期限切れはGet時に破棄する。
type CodeCache struct {
	mu      sync.Mutex
	clock   Clock
	entries map[string]entry
}

func NewCodeCache(clock Clock) *CodeCache {
	return &CodeCache{
		clock:   clock,
		entries: make(map[string]entry),
	}
}

// Put はkeyにvalueをttlつきで保存する。同じkeyは上書き。
func (c *CodeCache) Put(key string, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
}

// Get は期限内の値を返す。期限切れはその場で削除してfalse。
func (c *CodeCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.clock.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return "", false
	}
	return e.value, true
}

// Delete は使用済みコードを破棄する（ワンタイム保証）。
func (c *CodeCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}
