package pagegen

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(max int, window time.Duration) (*LoginLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLoginLimiter(max, window)
	l.now = clock.now
	return l, clock
}

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	limiter, _ := newTestLimiter(2, time.Minute)
	ip := "203.0.113.10"

	for i := 0; i < 2; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("attempt %d blocked, want allowed", i+1)
		}
		limiter.Record(ip)
	}
	if limiter.Check(ip) {
		t.Fatal("expected third attempt to be blocked")
	}
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	limiter, clock := newTestLimiter(1, time.Minute)
	ip := "203.0.113.20"

	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatal("expected attempt inside window to be blocked")
	}
	clock.advance(61 * time.Second)
	if !limiter.Check(ip) {
		t.Fatal("expected attempt after window to be allowed")
	}
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	limiter, _ := newTestLimiter(1, time.Minute)

	limiter.Record("203.0.113.30")
	if !limiter.Check("203.0.113.31") {
		t.Fatal("expected second ip to be allowed independently")
	}
	if limiter.Check("203.0.113.30") {
		t.Fatal("expected first ip to be blocked after max")
	}
}

func TestLoginLimiterReset(t *testing.T) {
	limiter, _ := newTestLimiter(1, time.Minute)
	limiter.Record("198.51.100.1")
	limiter.Reset("198.51.100.1")
	if !limiter.Check("198.51.100.1") {
		t.Fatal("expected reset ip to be allowed")
	}
}

func TestLoginLimiterSweep(t *testing.T) {
	limiter, clock := newTestLimiter(3, time.Minute)
	limiter.Record("198.51.100.2")
	clock.advance(2 * time.Minute)
	limiter.sweep()

	limiter.mu.Lock()
	n := len(limiter.attempts)
	limiter.mu.Unlock()
	if n != 0 {
		t.Errorf("sweep left %d entries", n)
	}
}

func TestLoginLimiterRunStops(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
