package pagegen

import (
	"context"
	"sync"
	"time"
)

// LoginLimiter rate-limits failed admin logins per client IP over a sliding
// window.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

// NewLoginLimiter creates a LoginLimiter that allows max failures per window.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// Run drops expired entries every window until ctx is done.
func (l *LoginLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *LoginLimiter) sweep() {
	cutoff := l.now().Add(-l.window)
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, hits := range l.attempts {
		if kept := prune(hits, cutoff); len(kept) == 0 {
			delete(l.attempts, ip)
		} else {
			l.attempts[ip] = kept
		}
	}
}

func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Check reports whether ip may attempt another login. It does not record
// anything; call Record after a failure.
func (l *LoginLimiter) Check(ip string) bool {
	cutoff := l.now().Add(-l.window)
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := prune(l.attempts[ip], cutoff)
	if len(kept) == 0 {
		delete(l.attempts, ip)
	} else {
		l.attempts[ip] = kept
	}
	return len(kept) < l.max
}

// Record registers a failed login attempt for ip.
func (l *LoginLimiter) Record(ip string) {
	l.mu.Lock()
	l.attempts[ip] = append(l.attempts[ip], l.now())
	l.mu.Unlock()
}

// Reset forgets ip, typically after a successful login.
func (l *LoginLimiter) Reset(ip string) {
	l.mu.Lock()
	delete(l.attempts, ip)
	l.mu.Unlock()
}
