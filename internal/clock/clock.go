// Package clock abstracts wall time and one-shot timers so that timer-driven
// behaviour can be driven deterministically in tests.
package clock

import "time"

// Stopper cancels a pending one-shot timer.
type Stopper interface {
	// Stop prevents the timer from firing. It reports whether the call
	// stopped the timer, false if it had already fired or been stopped.
	Stop() bool
}

// Clock supplies the current time and schedules one-shot callbacks.
type Clock interface {
	Now() time.Time
	// AfterFunc calls f once after d has elapsed unless the returned Stopper is stopped first.
	//
	// Precondition: f must not be nil.
	AfterFunc(d time.Duration, f func()) Stopper
}

type realClock struct{}

// Real returns a Clock backed by the time package. Callbacks run on their own goroutine.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

type postingClock struct {
	inner Clock
	post  func(func())
}

// Posting wraps c so that every timer callback is handed to post instead of
// being called directly. An event loop passes a post function that enqueues
// the callback, keeping all state mutation on the loop goroutine.
//
// Precondition: c and post must be non-nil.
func Posting(c Clock, post func(func())) Clock {
	return &postingClock{inner: c, post: post}
}

func (p *postingClock) Now() time.Time { return p.inner.Now() }

func (p *postingClock) AfterFunc(d time.Duration, f func()) Stopper {
	return p.inner.AfterFunc(d, func() { p.post(f) })
}
