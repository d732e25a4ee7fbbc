package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window counter keyed by client identity
type Limiter struct {
	mu      sync.Mutex
	hits    map[string][]time.Time
	window  time.Duration
	maxHits int
	now     func() time.Time
}

func NewLimiter(window time.Duration, maxHits int) *Limiter {
	return &Limiter{
		hits:    make(map[string][]time.Time),
		window:  window,
		maxHits: maxHits,
		now:     time.Now,
	}
}

// Allow records a hit for key and reports whether it fits inside the window
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	valid := l.prune(key, now.Add(-l.window))

	if len(valid) >= l.maxHits {
		return false
	}

	l.hits[key] = append(valid, now)
	return true
}

// prune drops hits older than windowStart; keys with no hits left are removed
// so idle clients do not accumulate in the map.
func (l *Limiter) prune(key string, windowStart time.Time) []time.Time {
	hits, exists := l.hits[key]
	if !exists {
		return nil
	}

	valid := hits[:0]
	for _, hit := range hits {
		if hit.After(windowStart) {
			valid = append(valid, hit)
		}
	}

	if len(valid) == 0 {
		delete(l.hits, key)
		return nil
	}

	l.hits[key] = valid
	return valid
}
