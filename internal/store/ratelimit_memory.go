package store

import (
	"sync"
	"time"

	"github.com/serroba/videosync-go/internal/ratelimit"
)

// DefaultSweepInterval is how often expired quota windows are reclaimed.
const DefaultSweepInterval = 5 * time.Minute

// quotaRecord is the fixed window of one key. Only RateLimitMemoryStore touches it.
type quotaRecord struct {
	count   int
	resetAt time.Time
}

// RateLimitMemoryStore is an in-memory fixed-window implementation of ratelimit.Store.
type RateLimitMemoryStore struct {
	mu      sync.Mutex
	records map[string]*quotaRecord
	now     func() time.Time

	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// RateLimitMemoryOption configures a RateLimitMemoryStore.
type RateLimitMemoryOption func(*RateLimitMemoryStore)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) RateLimitMemoryOption {
	return func(s *RateLimitMemoryStore) { s.now = now }
}

// WithSweepInterval sets the background sweep cadence. Zero disables the sweeper.
func WithSweepInterval(d time.Duration) RateLimitMemoryOption {
	return func(s *RateLimitMemoryStore) { s.interval = d }
}

// NewRateLimitMemoryStore creates a store and starts its sweeper.
// Call Shutdown to stop the sweeper.
func NewRateLimitMemoryStore(opts ...RateLimitMemoryOption) *RateLimitMemoryStore {
	s := &RateLimitMemoryStore{
		records:  make(map[string]*quotaRecord),
		now:      time.Now,
		interval: DefaultSweepInterval,
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.interval > 0 {
		s.wg.Add(1)

		go s.sweepLoop()
	}

	return s
}

func (s *RateLimitMemoryStore) Hit(key string, window time.Duration) ratelimit.Window {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.getOrCreate(key, window)
	rec.count++

	return ratelimit.Window{Count: rec.count, ResetAt: rec.resetAt}
}

// getOrCreate must be called with mu held. A window is over at resetAt itself.
func (s *RateLimitMemoryStore) getOrCreate(key string, window time.Duration) *quotaRecord {
	now := s.now()

	rec, ok := s.records[key]
	if ok && now.Before(rec.resetAt) {
		return rec
	}

	rec = &quotaRecord{resetAt: now.Add(window)}
	s.records[key] = rec

	return rec
}

// Sweep removes every window that has ended by now and returns how many were removed.
func (s *RateLimitMemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0

	for key, rec := range s.records {
		if !now.Before(rec.resetAt) {
			delete(s.records, key)

			removed++
		}
	}

	return removed
}

// Len returns the number of tracked windows, expired or not.
func (s *RateLimitMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

func (s *RateLimitMemoryStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

// Shutdown stops the sweeper and waits for it to exit. It is safe to call more than once.
func (s *RateLimitMemoryStore) Shutdown() error {
	s.stopOnce.Do(func() { close(s.done) })
	s.wg.Wait()

	return nil
}

// Compile-time check.
var _ ratelimit.Store = (*RateLimitMemoryStore)(nil)
