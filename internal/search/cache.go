package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

const (
	resultCacheTTL      = 60 * time.Second
	resultCacheCapacity = 256
	fetchCacheCapacity  = 50
)

// resultCache is the process-local, thread-safe search-result cache: a
// repeated query within resultCacheTTL returns the prior response
// unchanged. expirable.LRU already evicts expired entries before falling
// back to oldest-insertion eviction on overflow.
type resultCache struct {
	lru *expirable.LRU[string, *Outcome]
}

func newResultCache() *resultCache {
	return &resultCache{lru: expirable.NewLRU[string, *Outcome](resultCacheCapacity, nil, resultCacheTTL)}
}

// resultCacheKey builds lowercase(trim(query)) + ":" + topK.
func resultCacheKey(query string, topK int) string {
	return strings.ToLower(strings.TrimSpace(query)) + ":" + fmt.Sprint(topK)
}

func (c *resultCache) get(key string) (*Outcome, bool) {
	return c.lru.Peek(key) // Peek, not Get: never promotes, so overflow evicts the oldest insertion
}

func (c *resultCache) put(key string, resp *Outcome) {
	c.lru.Add(key, resp)
}

// invalidate drops every entry, called whenever an ingestion run
// completes so stale results can't outlive a reindex.
func (c *resultCache) invalidate() {
	c.lru.Purge()
}

// fetchKey identifies a fetch by the exact line range requested.
type fetchKey struct {
	FilePath  string
	StartLine int
	EndLine   int
}

// fetchCache is the process-local fetch cache: capacity 50, FIFO
// eviction (simplelru.LRU without touching recency on Get gives FIFO
// behavior here since only Add ever reorders).
type fetchCache struct {
	lru *simplelru.LRU[fetchKey, string]
}

func newFetchCache() *fetchCache {
	lru, _ := simplelru.NewLRU[fetchKey, string](fetchCacheCapacity, nil)
	return &fetchCache{lru: lru}
}

func (c *fetchCache) get(key fetchKey) (string, bool) {
	return c.lru.Peek(key) // Peek, not Get: never promotes, so eviction stays FIFO
}

func (c *fetchCache) put(key fetchKey, body string) {
	c.lru.Add(key, body)
}
