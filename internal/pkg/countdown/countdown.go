// Package countdown implements one-shot deadline timers: remaining time is
// computed in whole seconds against an injected clock, and the expiry callback
// is guaranteed to fire at most once no matter how often the timer is ticked.
package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"

	"campus-booking/internal/pkg/clock"
)

// Remaining returns the whole seconds left until deadline, floored and
// clamped at zero.
func Remaining(deadline, now time.Time) time.Duration {
	d := deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d.Truncate(time.Second)
}

// Format renders a duration as HH:MM:SS. Durations of a day or more keep
// accumulating in the hour field.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Timer tracks a single deadline. Tick evaluates the deadline against the
// clock and fires the callback exactly once when the remaining time reaches
// zero; Run drives Tick on a one-second ticker until expiry or cancellation.
type Timer struct {
	deadline time.Time
	clock    clock.Clock
	onExpire func()
	fireOnce sync.Once
	stopOnce sync.Once
	done     chan struct{}
}

func NewTimer(deadline time.Time, clk clock.Clock, onExpire func()) *Timer {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Timer{
		deadline: deadline,
		clock:    clk,
		onExpire: onExpire,
		done:     make(chan struct{}),
	}
}

// Tick reevaluates the deadline. It reports whether the timer has expired.
// Repeated calls after expiry never fire the callback again.
func (t *Timer) Tick() bool {
	if Remaining(t.deadline, t.clock.Now()) > 0 {
		return false
	}
	t.fireOnce.Do(func() {
		if t.onExpire != nil {
			t.onExpire()
		}
	})
	return true
}

// Remaining returns the clamped whole-second duration until the deadline.
func (t *Timer) Remaining() time.Duration {
	return Remaining(t.deadline, t.clock.Now())
}

// String renders the remaining time as HH:MM:SS.
func (t *Timer) String() string {
	return Format(t.Remaining())
}

// Run ticks once per second until the timer expires, Stop is called, or the
// context is cancelled. It performs an immediate tick so deadlines already in
// the past fire without waiting for the first interval.
func (t *Timer) Run(ctx context.Context) {
	if t.Tick() {
		return
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		case <-ticker.C:
			if t.Tick() {
				return
			}
		}
	}
}

// Stop cancels a running timer without firing the callback.
func (t *Timer) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
	})
}
