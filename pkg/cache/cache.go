// Package cache provides the bounded in-memory result cache of the query
// pipeline and the keys it is addressed by.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultSize is the number of results kept when no size is configured.
const DefaultSize = 20

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cubeql",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Result cache lookups that found an entry.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cubeql",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Result cache lookups that found nothing.",
	})
	cacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cubeql",
		Subsystem: "cache",
		Name:      "evictions_total",
		Help:      "Entries dropped because the cache was full.",
	})
)

// LRU is a fixed-capacity cache with least-recently-used eviction.
// It is safe for concurrent use.
type LRU struct {
	size  int
	inner *lru.Cache[string, string]
}

// New creates an LRU holding at most size entries.
func New(size int) (*LRU, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}
	inner, err := lru.NewWithEvict[string, string](size, func(string, string) {
		cacheEvictions.Inc()
	})
	if err != nil {
		return nil, err
	}
	return &LRU{size: size, inner: inner}, nil
}

// Get returns the value stored for key and marks it most recently used.
func (c *LRU) Get(key string) (string, bool) {
	v, ok := c.inner.Get(key)
	if ok {
		cacheHits.Inc()
	} else {
		cacheMisses.Inc()
	}
	return v, ok
}

// Put stores value under key, replacing any previous value, and marks it most
// recently used. When the cache is full the least recently used entry is evicted.
func (c *LRU) Put(key, value string) {
	c.inner.Add(key, value)
}

// Len returns the number of stored entries.
func (c *LRU) Len() int {
	return c.inner.Len()
}

// Size returns the configured capacity.
func (c *LRU) Size() int {
	return c.size
}

// Keys returns the stored keys from least to most recently used.
func (c *LRU) Keys() []string {
	return c.inner.Keys()
}

// Purge drops every entry.
func (c *LRU) Purge() {
	c.inner.Purge()
}

// SelectionKey is the cache key of a cube selection for question.
func SelectionKey(question string) string {
	return "cube:" + digest("cube", question)
}

// GenerationKey is the cache key of a query generation for question against cube.
// The question is length-prefixed so no (question, cube) split of the same
// bytes shares a key.
func GenerationKey(question, cube string) string {
	return "query:" + digest("query", strconv.Itoa(len(question)), ":", question, cube)
}

func digest(namespace string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(namespace))
	h.Write([]byte{0})
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
