package sponsors

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type registerLoader interface {
	Load(ctx context.Context) (Outcome, error)
}

// Cache holds a single register outcome for the lifetime of the process.
// Concurrent callers share one load. Unavailable outcomes are cached, errors are not.
// The shared load runs detached from caller cancellation: a cancelled caller returns
// its own context error while the load carries on for the others.
type Cache struct {
	loader registerLoader
	logger *zap.Logger

	flight  singleflight.Group
	mu      sync.Mutex
	outcome *Outcome
}

func NewCache(loader registerLoader, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{loader: loader, logger: logger}
}

// Get returns the cached outcome, loading it on first use.
func (c *Cache) Get(ctx context.Context) (Outcome, error) {
	if outcome, ok := c.cached(); ok {
		return outcome, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan("register", func() (any, error) {
		if outcome, ok := c.cached(); ok {
			return outcome, nil
		}

		outcome, err := c.loader.Load(loadCtx)
		if err != nil {
			return Outcome{}, err
		}

		c.mu.Lock()
		c.outcome = &outcome
		c.mu.Unlock()

		c.logger.Debug("sponsor register cached",
			zap.Stringer("status", outcome.Status),
			zap.Int("names", outcome.Register.Len()),
		)
		return outcome, nil
	})

	select {
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Outcome{}, res.Err
		}
		if res.Shared {
			c.logger.Debug("sponsor register load shared")
		}
		return res.Val.(Outcome), nil
	}
}

func (c *Cache) cached() (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome == nil {
		return Outcome{}, false
	}
	return *c.outcome, true
}

// Loaded reports whether an outcome is held, available or not.
func (c *Cache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome != nil
}

// Invalidate drops the cached outcome so the next Get loads again.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcome = nil
}
