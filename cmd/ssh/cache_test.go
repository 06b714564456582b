package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomz197/clack/internal/collide"
)

func TestTimelineCacheReuses(t *testing.T) {
	c := newTimelineCache(0, 0)
	a, err := c.get(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.get(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("second get simulated again")
	}
	if a.Len() != 32 {
		t.Errorf("power 1 timeline has %d entries, want 32", a.Len())
	}
}

func TestTimelineCacheSkipsFailures(t *testing.T) {
	c := newTimelineCache(0, 0)
	c.run = func(ctx context.Context, opts collide.Options) (collide.Result, error) {
		return collide.Result{}, collide.ErrDidNotConverge
	}
	if _, err := c.get(context.Background(), 2); !errors.Is(err, collide.ErrDidNotConverge) {
		t.Fatalf("err = %v, want ErrDidNotConverge", err)
	}
	if c.entries.Len() != 0 {
		t.Error("failed run was cached")
	}
}

func TestTimelineCacheRejectsLargePower(t *testing.T) {
	c := newTimelineCache(10_000, 0)
	c.run = func(ctx context.Context, opts collide.Options) (collide.Result, error) {
		t.Errorf("power %d was simulated", opts.Power)
		return collide.Result{}, nil
	}
	if _, err := c.get(context.Background(), 4); !errors.Is(err, errPowerTooLarge) {
		t.Fatalf("err = %v, want errPowerTooLarge", err)
	}
	if _, err := c.get(context.Background(), 200); !errors.Is(err, errPowerTooLarge) {
		t.Fatalf("err = %v, want errPowerTooLarge", err)
	}
}

func TestTimelineCacheDoesNotSerializePowers(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	c := newTimelineCache(0, 0)
	c.run = func(ctx context.Context, opts collide.Options) (collide.Result, error) {
		if opts.Power == 3 {
			close(started)
			<-release
		}
		return collide.Run(ctx, opts)
	}

	slow := make(chan error, 1)
	go func() {
		_, err := c.get(context.Background(), 3)
		slow <- err
	}()
	<-started

	// Power 0 must finish while power 3 is still running.
	fast := make(chan error, 1)
	go func() {
		_, err := c.get(context.Background(), 0)
		fast <- err
	}()
	select {
	case err := <-fast:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("power 0 waited for power 3")
	}

	close(release)
	if err := <-slow; err != nil {
		t.Fatal(err)
	}
}

func TestTimelineCacheSharesInFlightRun(t *testing.T) {
	var runs atomic.Int32
	release := make(chan struct{})
	c := newTimelineCache(0, 0)
	c.run = func(ctx context.Context, opts collide.Options) (collide.Result, error) {
		runs.Add(1)
		<-release
		return collide.Run(ctx, opts)
	}

	var wg sync.WaitGroup
	results := make([]*collide.Timeline, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tl, err := c.get(context.Background(), 1)
			if err != nil {
				t.Error(err)
			}
			results[i] = tl
		}(i)
	}

	// Let every goroutine reach the cache before the run finishes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := runs.Load(); n != 1 {
		t.Errorf("simulated %d times, want 1", n)
	}
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Errorf("result %d is a different timeline", i)
		}
	}
}

func TestTimelineCacheWaiterCanceled(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	c := newTimelineCache(0, 0)
	c.run = func(ctx context.Context, opts collide.Options) (collide.Result, error) {
		close(started)
		<-release
		return collide.Run(ctx, opts)
	}
	defer close(release)

	go func() { _, _ = c.get(context.Background(), 1) }()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.get(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestTimelineCacheEvicts(t *testing.T) {
	c := newTimelineCache(0, 2)
	for _, power := range []int{0, 1, 2} {
		if _, err := c.get(context.Background(), power); err != nil {
			t.Fatal(err)
		}
	}
	// Power 0 was evicted; touching 1 makes 2 the least recently used.
	if _, err := c.get(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	keys := c.entries.Keys()
	if len(keys) != 2 || keys[0] != 2 || keys[1] != 1 {
		t.Errorf("cached powers = %v, want [2 1]", keys)
	}
}

func TestSizeTracker(t *testing.T) {
	s := newSizeTracker(80, 24)
	s.update(100, 30)
	w, h, err := s.getSize()
	if err != nil || w != 100 || h != 30 {
		t.Errorf("getSize = %d, %d, %v", w, h, err)
	}
}
