package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/tomz197/clack/internal/collide"
)

// errPowerTooLarge is returned when a power would need more collisions than
// the server allows.
var errPowerTooLarge = errors.New("power too large for this server")

type runFunc func(ctx context.Context, opts collide.Options) (collide.Result, error)

// cacheEntry is one timeline, finished or still being simulated.
type cacheEntry struct {
	done chan struct{} // closed when tl/err are set
	tl   *collide.Timeline
	err  error
}

// timelineCache shares one finished timeline per power between sessions.
// Runs are deterministic and timelines are read-only once returned.
// Simulations run outside the lock, and concurrent requests for the same
// power wait on a single run.
type timelineCache struct {
	mu         sync.Mutex
	maxEvents  int
	maxEntries int
	run        runFunc
	entries    *orderedmap.OrderedMap[int, *cacheEntry] // least recently used first
}

func newTimelineCache(maxEvents, maxEntries int) *timelineCache {
	return &timelineCache{
		maxEvents:  maxEvents,
		maxEntries: maxEntries,
		run:        collide.Run,
		entries:    orderedmap.NewOrderedMap[int, *cacheEntry](),
	}
}

// expectedCollisions approximates the collision count for power: the first
// power+1 digits of pi.
func expectedCollisions(power int) float64 {
	return math.Pi * math.Pow(10, float64(power))
}

// get returns the timeline for power, simulating it on first use.
// Failed runs are not cached.
func (c *timelineCache) get(ctx context.Context, power int) (*collide.Timeline, error) {
	if c.maxEvents > 0 && expectedCollisions(power) > float64(c.maxEvents) {
		return nil, fmt.Errorf("%w: power %d needs about %.0f collisions, limit is %d",
			errPowerTooLarge, power, expectedCollisions(power), c.maxEvents)
	}

	c.mu.Lock()
	e, ok := c.entries.Get(power)
	if ok {
		// Move to the back of the eviction order.
		c.entries.Delete(power)
		c.entries.Set(power, e)
		c.mu.Unlock()
		return c.wait(ctx, e)
	}
	e = &cacheEntry{done: make(chan struct{})}
	c.entries.Set(power, e)
	c.evict()
	c.mu.Unlock()

	// The run outlives the session that started it; others may be waiting.
	res, err := c.run(context.WithoutCancel(ctx), collide.Options{Power: power, MaxEvents: c.maxEvents})
	e.tl, e.err = res.Timeline, err
	close(e.done)

	if err != nil {
		c.mu.Lock()
		if cur, ok := c.entries.Get(power); ok && cur == e {
			c.entries.Delete(power)
		}
		c.mu.Unlock()
		return nil, err
	}
	return e.tl, nil
}

// wait blocks until e is finished or ctx is done.
func (c *timelineCache) wait(ctx context.Context, e *cacheEntry) (*collide.Timeline, error) {
	select {
	case <-e.done:
		return e.tl, e.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// evict drops least recently used finished entries beyond maxEntries.
// In-flight entries are skipped. Must be called with mu held.
func (c *timelineCache) evict() {
	if c.maxEntries <= 0 {
		return
	}
	for _, key := range c.entries.Keys() {
		if c.entries.Len() <= c.maxEntries {
			return
		}
		e, _ := c.entries.Get(key)
		select {
		case <-e.done:
			c.entries.Delete(key)
		default:
		}
	}
}
