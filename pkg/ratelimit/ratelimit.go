package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window counter keyed by client. Each call trims only
// the caller's hits; clients idle for a whole window are dropped by a sweep
// that runs at most once per window.
type Limiter struct {
	mu        sync.Mutex
	hits      map[string][]time.Time
	window    time.Duration
	maxHits   int
	now       func() time.Time
	lastSweep time.Time
}

func NewLimiter(window time.Duration, maxHits int) *Limiter {
	return &Limiter{
		hits:    make(map[string][]time.Time),
		window:  window,
		maxHits: maxHits,
		now:     time.Now,
	}
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)
	if l.lastSweep.IsZero() {
		l.lastSweep = now
	} else if !now.Before(l.lastSweep.Add(l.window)) {
		l.sweep(windowStart)
		l.lastSweep = now
	}

	hits := trim(l.hits[key], windowStart)
	if len(hits) >= l.maxHits {
		l.hits[key] = hits
		return false
	}

	l.hits[key] = append(hits, now)
	return true
}

// Clients returns how many clients currently hold hits.
func (l *Limiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

func (l *Limiter) sweep(windowStart time.Time) {
	for key, hits := range l.hits {
		if hits = trim(hits, windowStart); len(hits) == 0 {
			delete(l.hits, key)
			continue
		}
		l.hits[key] = hits
	}
}

// trim drops hits at or before windowStart. Hits are kept in arrival order.
func trim(hits []time.Time, windowStart time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(windowStart) {
		i++
	}
	return hits[i:]
}
