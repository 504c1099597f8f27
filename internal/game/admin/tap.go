package admin

import (
	"time"

	"github.com/cory-johannsen/wheel/internal/clock"
)

// TapDetector counts rapid activations of the unlock element. Each activation
// restarts the window; when the window expires the count drops back to zero.
// Reaching the required count reports an unlock and starts a fresh sequence.
// It is not safe for concurrent use; give it a clock whose callbacks run on
// the caller's event loop.
type TapDetector struct {
	required int
	window   time.Duration
	timer    *clock.ResettableTimer
	count    int
}

// NewTapDetector returns a detector needing required activations, each within window of the previous one.
//
// Precondition: c non-nil; required >= 1; window > 0.
func NewTapDetector(c clock.Clock, required int, window time.Duration) *TapDetector {
	return &TapDetector{required: required, window: window, timer: clock.NewResettableTimer(c)}
}

// Activate records one activation and reports whether it completed the sequence.
//
// Postcondition: On true, Count() == 0 and no window timer is pending.
func (d *TapDetector) Activate() bool {
	d.count++
	if d.count >= d.required {
		d.count = 0
		d.timer.Stop()
		return true
	}
	d.timer.Reset(d.window, func() { d.count = 0 })
	return false
}

// Count returns the activations in the current sequence.
func (d *TapDetector) Count() int { return d.count }

// Stop cancels any pending window timer.
func (d *TapDetector) Stop() {
	d.timer.Stop()
	d.count = 0
}
