package throttle

import (
	"context"
	"time"
)

// DefaultInterval is the pause applied after every completion request.
const DefaultInterval = time.Second

// Throttle pauses between remote calls.
type Throttle interface {
	Pause(executionContext context.Context) error
}

// Sleeper blocks for a duration or until the context ends.
type Sleeper interface {
	Sleep(executionContext context.Context, duration time.Duration) error
}

// ContextSleeper sleeps on a timer and returns early with the context error.
type ContextSleeper struct{}

// Sleep blocks for duration unless the context is done first.
func (ContextSleeper) Sleep(executionContext context.Context, duration time.Duration) error {
	if duration <= 0 {
		return executionContext.Err()
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-executionContext.Done():
		return executionContext.Err()
	case <-timer.C:
		return nil
	}
}

// IntervalThrottle pauses for a fixed interval on every call.
type IntervalThrottle struct {
	interval time.Duration
	sleeper  Sleeper
}

// NewIntervalThrottle constructs an IntervalThrottle. A nil sleeper uses ContextSleeper.
func NewIntervalThrottle(interval time.Duration, sleeper Sleeper) *IntervalThrottle {
	if sleeper == nil {
		sleeper = ContextSleeper{}
	}
	return &IntervalThrottle{interval: interval, sleeper: sleeper}
}

// Interval reports the configured pause.
func (throttle *IntervalThrottle) Interval() time.Duration {
	return throttle.interval
}

// Pause waits for the configured interval.
func (throttle *IntervalThrottle) Pause(executionContext context.Context) error {
	return throttle.sleeper.Sleep(executionContext, throttle.interval)
}

// Noop never pauses.
type Noop struct{}

// Pause returns immediately.
func (Noop) Pause(context.Context) error {
	return nil
}
