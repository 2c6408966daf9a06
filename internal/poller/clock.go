package poller

import (
	"context"
	"time"
)

// Clock is the wait primitive of a session. Tests inject a fake that returns
// immediately and records the requested durations.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock sleeps on a timer and wakes early when ctx is done.
type RealClock struct{}

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
