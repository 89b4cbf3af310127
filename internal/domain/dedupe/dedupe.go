// Package dedupe tracks report runs that are currently in flight so that a
// duplicate request for the same target and location is rejected.
package dedupe

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 1024

// Guard records in-flight keys to ensure at-most-one concurrent run per key.
type Guard interface {
	// Acquire atomically claims key. It returns ErrInFlight when key is
	// already claimed and ErrCapacity when the guard is full.
	Acquire(ctx context.Context, key string) error

	// Release frees key once the run finished, successfully or not.
	Release(ctx context.Context, key string)

	Size() int64
}

// Key normalizes a target/location pair into a guard key.
func Key(target, location string) string {
	return strings.ToLower(strings.TrimSpace(target)) + "|" + strings.ToLower(strings.TrimSpace(location))
}

// inMemoryGuard implements Guard with a mutex-protected set.
// For bounded mode (maxSize > 0) new keys are refused once the set is full;
// in-flight keys are never evicted.
// For unbounded mode (maxSize <= 0) there is no size limit.
type inMemoryGuard struct {
	mu      sync.Mutex
	active  map[string]struct{}
	maxSize int
	size    atomic.Int64
}

// NewInMemoryGuard creates a new in-memory guard with configuration options.
func NewInMemoryGuard(opts ...Option) Guard {
	g := &inMemoryGuard{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.active = make(map[string]struct{})
	return g
}

func (g *inMemoryGuard) Acquire(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.active[key]; exists {
		return ErrInFlight
	}
	if g.maxSize > 0 && len(g.active) >= g.maxSize {
		return ErrCapacity
	}
	g.active[key] = struct{}{}
	g.size.Add(1)
	return nil
}

func (g *inMemoryGuard) Release(_ context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.active[key]; exists {
		delete(g.active, key)
		g.size.Add(-1)
	}
}

// Size returns the number of keys currently in flight.
func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}
