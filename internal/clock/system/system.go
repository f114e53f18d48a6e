// Package system provides real clock and sleeper implementations.
package system

import (
	"context"
	"time"
)

// Clock implements pricing.Clock using time.Now.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current local time. Message timestamps follow the
// scheduler's timezone, matching the audience of the notification.
func (Clock) Now() time.Time {
	return time.Now()
}

// Sleeper implements pricing.Sleeper with a real timer.
type Sleeper struct{}

// NewSleeper creates a new Sleeper.
func NewSleeper() *Sleeper {
	return &Sleeper{}
}

// Sleep waits for d or until the context is done, whichever comes first.
func (Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
