package store_test

import (
	"sync"
	"testing"
	"time"

	"github.com/serroba/videosync-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock shared by store tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newTestQuotaStore(t *testing.T, clock *fakeClock) *store.RateLimitMemoryStore {
	t.Helper()

	s := store.NewRateLimitMemoryStore(store.WithClock(clock.Now), store.WithSweepInterval(0))
	t.Cleanup(func() { _ = s.Shutdown() })

	return s
}

func TestRateLimitMemoryStore_Hit(t *testing.T) {
	t.Run("counts hits within a window", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestQuotaStore(t, clock)

		for i := 1; i <= 3; i++ {
			w := s.Hit("key1", time.Minute)

			assert.Equal(t, i, w.Count)
			assert.Equal(t, clock.Now().Add(time.Minute), w.ResetAt)
		}
	})

	t.Run("keeps reset time fixed within a window", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestQuotaStore(t, clock)

		first := s.Hit("key1", time.Minute)

		clock.Advance(30 * time.Second)

		second := s.Hit("key1", time.Minute)

		assert.Equal(t, first.ResetAt, second.ResetAt)
		assert.Equal(t, 2, second.Count)
	})

	t.Run("tracks keys independently", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestQuotaStore(t, clock)

		s.Hit("key1", time.Minute)
		s.Hit("key1", time.Minute)

		w := s.Hit("key2", time.Minute)

		assert.Equal(t, 1, w.Count, "key2 should have its own counter")
	})

	t.Run("starts a fresh window exactly at reset time", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestQuotaStore(t, clock)

		first := s.Hit("key1", time.Minute)
		s.Hit("key1", time.Minute)

		clock.Advance(time.Minute)

		w := s.Hit("key1", time.Minute)

		assert.Equal(t, 1, w.Count)
		assert.True(t, w.ResetAt.After(first.ResetAt))
	})

	t.Run("keeps the old window one instant before reset", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestQuotaStore(t, clock)

		s.Hit("key1", time.Minute)

		clock.Advance(time.Minute - time.Nanosecond)

		w := s.Hit("key1", time.Minute)

		assert.Equal(t, 2, w.Count)
	})

	t.Run("does not lose concurrent increments", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestQuotaStore(t, clock)

		const workers, perWorker = 16, 100

		var wg sync.WaitGroup

		for range workers {
			wg.Add(1)

			go func() {
				defer wg.Done()

				for range perWorker {
					s.Hit("shared", time.Minute)
				}
			}()
		}

		wg.Wait()

		w := s.Hit("shared", time.Minute)

		assert.Equal(t, workers*perWorker+1, w.Count)
	})
}

func TestRateLimitMemoryStore_Sweep(t *testing.T) {
	t.Run("removes only expired windows", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestQuotaStore(t, clock)

		s.Hit("short", 10*time.Second)
		s.Hit("long", time.Hour)
		s.Hit("long", time.Hour)

		clock.Advance(10 * time.Second)

		removed := s.Sweep(clock.Now())

		assert.Equal(t, 1, removed)
		assert.Equal(t, 1, s.Len())

		w := s.Hit("long", time.Hour)
		assert.Equal(t, 3, w.Count, "unexpired window should keep its count")

		w = s.Hit("short", 10*time.Second)
		assert.Equal(t, 1, w.Count, "swept key should start over")
	})

	t.Run("sweeps nothing before any window ends", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestQuotaStore(t, clock)

		s.Hit("a", time.Minute)
		s.Hit("b", time.Minute)

		assert.Zero(t, s.Sweep(clock.Now()))
		assert.Equal(t, 2, s.Len())
	})
}

func TestRateLimitMemoryStore_Sweeper(t *testing.T) {
	t.Run("reclaims expired windows in the background", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore(store.WithSweepInterval(5 * time.Millisecond))
		defer func() { _ = s.Shutdown() }()

		s.Hit("key1", time.Millisecond)

		require.Eventually(t, func() bool {
			return s.Len() == 0
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("shutdown is idempotent", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore(store.WithSweepInterval(time.Millisecond))

		require.NoError(t, s.Shutdown())
		require.NoError(t, s.Shutdown())
	})
}
