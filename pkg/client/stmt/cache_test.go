// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func cachedStmt(id uint32, rawQuery string) *stmtInner {
	return &stmtInner{rawQuery: rawQuery, stmtID: id, connID: testConnID}
}

func TestCachePutAndGet(t *testing.T) {
	cache := newStmtCache(2)
	inner := cachedStmt(1, "SELECT 1")
	require.Nil(t, cache.put(inner))
	require.Same(t, inner, cache.get("SELECT 1"))
	require.Nil(t, cache.get("SELECT 2"))
	require.Equal(t, 1, cache.len())
}

func TestCacheDisplacesLRU(t *testing.T) {
	cache := newStmtCache(2)
	first := cachedStmt(1, "SELECT 1")
	require.Nil(t, cache.put(first))
	require.Nil(t, cache.put(cachedStmt(2, "SELECT 2")))
	displaced := cache.put(cachedStmt(3, "SELECT 3"))
	require.Same(t, first, displaced)
	require.Nil(t, cache.get("SELECT 1"))
	require.Equal(t, 2, cache.len())
}

func TestCacheGetRefreshesRecency(t *testing.T) {
	cache := newStmtCache(2)
	first := cachedStmt(1, "SELECT 1")
	second := cachedStmt(2, "SELECT 2")
	require.Nil(t, cache.put(first))
	require.Nil(t, cache.put(second))
	require.Same(t, first, cache.get("SELECT 1"))
	require.Same(t, second, cache.put(cachedStmt(3, "SELECT 3")))
}

func TestCacheRemove(t *testing.T) {
	cache := newStmtCache(2)
	require.Nil(t, cache.put(cachedStmt(1, "SELECT 1")))
	cache.remove("SELECT 1")
	require.Nil(t, cache.get("SELECT 1"))
	require.Equal(t, 0, cache.len())
	// removing an absent key is a no-op
	cache.remove("SELECT 1")
}

func TestCacheTakeAll(t *testing.T) {
	cache := newStmtCache(4)
	for i := uint32(1); i <= 3; i++ {
		require.Nil(t, cache.put(cachedStmt(i, fmt.Sprintf("SELECT %d", i))))
	}
	inners := cache.takeAll()
	require.Len(t, inners, 3)
	require.Equal(t, 0, cache.len())
	require.Nil(t, cache.get("SELECT 1"))
	require.Empty(t, cache.takeAll())
}

func TestCacheDisabledOps(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		cache := newStmtCache(capacity)
		require.Nil(t, cache.put(cachedStmt(1, "SELECT 1")))
		require.Nil(t, cache.get("SELECT 1"))
		require.Equal(t, 0, cache.len())
		require.Nil(t, cache.takeAll())
		cache.remove("SELECT 1")
	}
}
