package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithClock overrides the snapshot timestamp source. Tests use this to pin
// LoadedAt.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// CacheOption applies a configuration option to the sqlite Cache.
type CacheOption func(*Cache)

// WithBusyTimeout sets how long sqlite waits on a locked database.
func WithBusyTimeout(d time.Duration) CacheOption {
	return func(c *Cache) {
		if d > 0 {
			c.busyTimeout = d
		}
	}
}
