package pipeline

import (
	"context"

	"github.com/OFFIS-RIT/cubeql/pkg/cache"
)

// Store is the cache Cached reads from and writes to. *cache.LRU implements it.
type Store interface {
	Get(key string) (string, bool)
	Put(key, value string)
}

// Cached short-circuits repeated identical requests to a Runner. Only
// successful results are stored. Two concurrent misses on the same key both
// run the inner pipeline; the later Put wins.
type Cached struct {
	inner Runner
	store Store
}

func NewCached(inner Runner, store Store) *Cached {
	return &Cached{inner: inner, store: store}
}

func (c *Cached) SelectCube(ctx context.Context, question string) (string, error) {
	key := cache.SelectionKey(question)
	if v, ok := c.store.Get(key); ok {
		return v, nil
	}

	v, err := c.inner.SelectCube(ctx, question)
	if err != nil {
		return "", err
	}
	c.store.Put(key, v)
	return v, nil
}

func (c *Cached) GenerateQuery(ctx context.Context, question, cubeID string) (string, error) {
	key := cache.GenerationKey(question, cubeID)
	if v, ok := c.store.Get(key); ok {
		return v, nil
	}

	v, err := c.inner.GenerateQuery(ctx, question, cubeID)
	if err != nil {
		return "", err
	}
	c.store.Put(key, v)
	return v, nil
}

// SelectAndGenerate runs both stages, each going through the cache.
func (c *Cached) SelectAndGenerate(ctx context.Context, question string) (Result, error) {
	return SelectAndGenerate(ctx, c, question)
}
