package ratelimit

import "time"

// Window is a snapshot of one key's fixed window after a hit was recorded.
type Window struct {
	Count   int
	ResetAt time.Time
}

// Store holds fixed-window counters.
type Store interface {
	// Hit records one request for key and returns the updated window.
	// A missing or expired window is replaced by a fresh one lasting window
	// before the count is incremented; both steps happen atomically.
	Hit(key string, window time.Duration) Window
}
