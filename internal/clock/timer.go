package clock

import (
	"sync"
	"time"
)

// ResettableTimer fires a callback after a configurable duration unless it is
// stopped or reset first. Each Reset discards the previous schedule, so a
// callback from an earlier schedule never fires late.
// It is safe for concurrent use.
type ResettableTimer struct {
	clock      Clock
	mu         sync.Mutex
	pending    Stopper
	generation uint64
}

// NewResettableTimer returns an idle timer scheduling on c.
//
// Precondition: c must be non-nil.
func NewResettableTimer(c Clock) *ResettableTimer {
	return &ResettableTimer{clock: c}
}

// Reset cancels any pending schedule and starts a new one that calls onFire after duration.
//
// Precondition: duration > 0; onFire must not be nil.
// Postcondition: onFire will be called after duration from now unless Stop or Reset is called first.
func (rt *ResettableTimer) Reset(duration time.Duration, onFire func()) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.pending != nil {
		rt.pending.Stop()
	}
	rt.generation++
	gen := rt.generation
	rt.pending = rt.clock.AfterFunc(duration, func() {
		rt.mu.Lock()
		current := rt.generation == gen
		if current {
			rt.pending = nil
		}
		rt.mu.Unlock()
		if current {
			onFire()
		}
	})
}

// Stop prevents the pending callback from firing. Safe to call multiple times.
//
// Postcondition: no previously scheduled onFire will be called after Stop returns.
func (rt *ResettableTimer) Stop() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.generation++
	if rt.pending != nil {
		rt.pending.Stop()
		rt.pending = nil
	}
}

// Active reports whether a callback is scheduled and has not fired.
func (rt *ResettableTimer) Active() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.pending != nil
}
