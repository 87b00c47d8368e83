package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter bounds in-flight calls and paces call starts. One Limiter is
// shared across the whole run so the upstream sees a single
// process-wide budget regardless of how many shards are fetching.
type Limiter struct {
	sem   chan struct{}
	pacer *rate.Limiter
}

// NewLimiter admits at most maxConcurrent calls at a time and keeps at
// least minInterval between successive call starts.
func NewLimiter(maxConcurrent int, minInterval time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Limiter{
		sem:   make(chan struct{}, maxConcurrent),
		pacer: rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// Execute runs fn once admission and pacing allow. The wait is
// cancellable; fn's error is returned as-is.
func (l *Limiter) Execute(ctx context.Context, fn func() error) error {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.sem }()

	if err := l.pacer.Wait(ctx); err != nil {
		return err
	}
	return fn()
}
