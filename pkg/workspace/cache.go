package workspace

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/pkg/client"
)

// Fetcher loads the canonical record for a cache key
type Fetcher func(ctx context.Context, key string) (*client.CanvasData, error)

// QueryCache keeps the last confirmed server state per canvas id
type QueryCache struct {
	fetch  Fetcher
	logger *zap.Logger

	mu       sync.Mutex
	entries  map[string]*client.CanvasData
	inflight map[string]*refetch
}

type refetch struct {
	cancel context.CancelFunc
}

// NewQueryCache creates a cache that reloads entries with fetch
func NewQueryCache(fetch Fetcher, logger *zap.Logger) *QueryCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryCache{
		fetch:    fetch,
		logger:   logger,
		entries:  make(map[string]*client.CanvasData),
		inflight: make(map[string]*refetch),
	}
}

// Get returns a copy of the cached record
func (c *QueryCache) Get(key string) (*client.CanvasData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data.Clone(), ok
}

// Set stores data under key
func (c *QueryCache) Set(key string, data *client.CanvasData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data.Clone()
}

// Update edits the cached record in place. It reports false when key is absent.
func (c *QueryCache) Update(key string, fn func(*client.CanvasData)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.entries[key]
	if !ok {
		return false
	}
	next := data.Clone()
	fn(next)
	c.entries[key] = next
	return true
}

// Invalidate drops the entry and any refetch in flight for it
func (c *QueryCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelRefetchLocked(key)
	delete(c.entries, key)
}

// Refetch reloads key from the server. A newer Refetch or Mutate for the
// same key cancels this one and its result is discarded.
func (c *QueryCache) Refetch(ctx context.Context, key string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rf := &refetch{cancel: cancel}
	c.mu.Lock()
	c.cancelRefetchLocked(key)
	c.inflight[key] = rf
	c.mu.Unlock()

	data, err := c.fetch(ctx, key)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[key] != rf {
		return context.Canceled
	}
	delete(c.inflight, key)
	if err != nil {
		return err
	}
	c.entries[key] = data.Clone()
	return nil
}

// Mutate runs call with an optimistic edit applied to the cached record.
// In-flight refetches for key are cancelled first. When call fails the
// record is restored to its prior state. Either way the record is then
// refetched. The returned error is call's.
func (c *QueryCache) Mutate(ctx context.Context, key string, optimistic func(*client.CanvasData), call func(ctx context.Context) error) error {
	c.mu.Lock()
	c.cancelRefetchLocked(key)
	snapshot, had := c.entries[key]
	if had && optimistic != nil {
		next := snapshot.Clone()
		optimistic(next)
		c.entries[key] = next
	}
	c.mu.Unlock()

	err := call(ctx)
	if err != nil {
		c.mu.Lock()
		if had {
			c.entries[key] = snapshot
		} else {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		c.logger.Debug("Rolled back optimistic update", zap.String("key", key), zap.Error(err))
	}

	if refetchErr := c.Refetch(ctx, key); refetchErr != nil && !errors.Is(refetchErr, context.Canceled) {
		c.logger.Warn("Failed to refetch after mutation", zap.String("key", key), zap.Error(refetchErr))
	}
	return err
}

func (c *QueryCache) cancelRefetchLocked(key string) {
	if rf, ok := c.inflight[key]; ok {
		rf.cancel()
		delete(c.inflight, key)
	}
}
