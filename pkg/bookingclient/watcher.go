package bookingclient

import (
	"context"
	"sync"
	"time"

	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/pkg/countdown"

	"github.com/google/uuid"
)

// Clock re-exports the time source interface so importers outside this
// module can substitute their own in tests.
type Clock = clock.Clock

// DeadlineWatcher runs one countdown per booking deadline (arrival
// confirmation, booking end) and invokes the callback exactly once at expiry.
// Re-watching the same booking replaces its timer, so an amended booking
// never fires against its old deadline.
type DeadlineWatcher struct {
	clock Clock

	mu     sync.Mutex
	timers map[uuid.UUID]*countdown.Timer
}

func NewDeadlineWatcher(clk Clock) *DeadlineWatcher {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &DeadlineWatcher{
		clock:  clk,
		timers: make(map[uuid.UUID]*countdown.Timer),
	}
}

// Watch starts a countdown for the booking's deadline. onExpire runs at most
// once, from the timer's goroutine. A deadline already in the past fires
// immediately.
func (w *DeadlineWatcher) Watch(ctx context.Context, bookingID uuid.UUID, deadline time.Time, onExpire func()) {
	var timer *countdown.Timer
	timer = countdown.NewTimer(deadline, w.clock, func() {
		if onExpire != nil {
			onExpire()
		}
		w.remove(bookingID, timer)
	})

	w.mu.Lock()
	if old, ok := w.timers[bookingID]; ok {
		old.Stop()
	}
	w.timers[bookingID] = timer
	w.mu.Unlock()

	go timer.Run(ctx)
}

// Remaining returns the whole seconds left on a watched booking's deadline.
func (w *DeadlineWatcher) Remaining(bookingID uuid.UUID) (time.Duration, bool) {
	w.mu.Lock()
	timer, ok := w.timers[bookingID]
	w.mu.Unlock()
	if !ok {
		return 0, false
	}
	return timer.Remaining(), true
}

// Cancel stops a booking's countdown without firing it.
func (w *DeadlineWatcher) Cancel(bookingID uuid.UUID) {
	w.mu.Lock()
	timer, ok := w.timers[bookingID]
	if ok {
		delete(w.timers, bookingID)
	}
	w.mu.Unlock()
	if ok {
		timer.Stop()
	}
}

// Stop cancels every running countdown.
func (w *DeadlineWatcher) Stop() {
	w.mu.Lock()
	timers := w.timers
	w.timers = make(map[uuid.UUID]*countdown.Timer)
	w.mu.Unlock()
	for _, t := range timers {
		t.Stop()
	}
}

// remove clears the entry after expiry, but only if it still belongs to the
// fired timer. A concurrent Watch may already have replaced it.
func (w *DeadlineWatcher) remove(bookingID uuid.UUID, fired *countdown.Timer) {
	w.mu.Lock()
	if w.timers[bookingID] == fired {
		delete(w.timers, bookingID)
	}
	w.mu.Unlock()
}
