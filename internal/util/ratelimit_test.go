package util

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLimiterBoundsConcurrency(t *testing.T) {
	l := NewLimiter(3, time.Microsecond)

	var inFlight, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.Execute(context.Background(), func() error {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				inFlight.Add(-1)
				return nil
			})
			if err != nil {
				t.Errorf("Execute: %v", err)
			}
		}()
	}
	wg.Wait()

	if p := peak.Load(); p > 3 {
		t.Errorf("peak in-flight = %d, want <= 3", p)
	}
}

func TestLimiterSpacesCallStarts(t *testing.T) {
	l := NewLimiter(5, 20*time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Execute(context.Background(), func() error { return nil }); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}
	// First call is free; the next two must each wait the interval.
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("3 calls took %s, want >= 40ms of pacing", elapsed)
	}
}

func TestLimiterCancelledWhileWaiting(t *testing.T) {
	l := NewLimiter(1, time.Hour)
	// Burn the initial token.
	if err := l.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Execute(ctx, func() error { return nil }); err == nil {
		t.Errorf("expected context error while waiting for pacing")
	}
}
