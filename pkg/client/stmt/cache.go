// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// stmtCache maps raw query text to shared statement metadata, evicting the
// least recently used entry when full. The cache performs no I/O: it is the
// caller's job to close whatever put displaces. Only the task driving the
// connection touches the cache, so it needs no locking of its own.
type stmtCache struct {
	entries *lru.Cache[string, *stmtInner]
	// displaced holds the entry the LRU dropped during the current put.
	displaced *stmtInner
}

// newStmtCache returns a cache holding at most capacity entries. A
// non-positive capacity disables caching entirely.
func newStmtCache(capacity int) *stmtCache {
	c := &stmtCache{}
	if capacity <= 0 {
		return c
	}
	entries, err := lru.NewWithEvict(capacity, func(_ string, inner *stmtInner) {
		c.displaced = inner
	})
	if err != nil {
		// NewWithEvict only rejects non-positive sizes
		panic(err)
	}
	c.entries = entries
	return c
}

func (c *stmtCache) get(rawQuery string) *stmtInner {
	if c.entries == nil {
		return nil
	}
	if inner, ok := c.entries.Get(rawQuery); ok {
		return inner
	}
	return nil
}

// put installs a freshly prepared entry under its raw-query key and returns
// the entry evicted to make room, if any. The insert itself never fails.
func (c *stmtCache) put(inner *stmtInner) *stmtInner {
	if c.entries == nil {
		return nil
	}
	c.displaced = nil
	c.entries.Add(inner.rawQuery, inner)
	displaced := c.displaced
	c.displaced = nil
	return displaced
}

func (c *stmtCache) remove(rawQuery string) {
	if c.entries == nil {
		return
	}
	c.entries.Remove(rawQuery)
	c.displaced = nil
}

// takeAll drains the cache, returning every entry for disposal.
func (c *stmtCache) takeAll() []*stmtInner {
	if c.entries == nil {
		return nil
	}
	inners := c.entries.Values()
	c.entries.Purge()
	c.displaced = nil
	return inners
}

func (c *stmtCache) len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}
