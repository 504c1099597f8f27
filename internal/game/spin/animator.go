// Package spin drives the wheel rotation: it computes where a spin must stop,
// interpolates the visual angle while spinning, and reports the result once
// the configured duration has elapsed.
package spin

import (
	"time"

	"github.com/cory-johannsen/wheel/internal/clock"
	"github.com/cory-johannsen/wheel/internal/random"
)

// State is the animator state.
type State int

const (
	Idle State = iota
	Spinning
)

// String returns the lowercase state name.
func (s State) String() string {
	if s == Spinning {
		return "spinning"
	}
	return "idle"
}

// DefaultFullRotations is the minimum number of whole turns in every spin.
const DefaultFullRotations = 3

// randomStopMargin keeps a random stop away from the segment dividers,
// expressed as a fraction of the segment width on each side.
const randomStopMargin = 0.05

// Request describes one spin.
type Request struct {
	// EntryCount is the number of segments on the wheel.
	EntryCount int
	// Winner is the precomputed winning index.
	Winner int
	// Forced is true when Winner came from an admin preset. Forced spins stop
	// exactly at the segment start; random spins add jitter within the segment.
	Forced bool
	// Duration is how long the visual rotation lasts.
	Duration time.Duration
}

// Result is reported once per spin when the rotation completes.
type Result struct {
	Winner    int
	Target    float64
	RestAngle float64
}

// Animator is the Idle/Spinning state machine for the wheel rotation.
// It is not safe for concurrent use; drive it from a single event loop and
// give it a clock whose callbacks are delivered on that loop.
type Animator struct {
	clock         clock.Clock
	src           random.Source
	fullRotations int

	state     State
	rest      float64
	from      float64
	target    float64
	winner    int
	startedAt time.Time
	duration  time.Duration
}

// NewAnimator returns an idle Animator resting at angle 0.
//
// Precondition: c and src must be non-nil; fullRotations >= 3.
func NewAnimator(c clock.Clock, src random.Source, fullRotations int) *Animator {
	if fullRotations < DefaultFullRotations {
		fullRotations = DefaultFullRotations
	}
	return &Animator{clock: c, src: src, fullRotations: fullRotations}
}

// Start begins a spin and schedules exactly one completion callback.
// It is a no-op returning false while a spin is running or when the wheel is
// empty. Spins cannot be cancelled.
//
// Precondition: 0 <= req.Winner < req.EntryCount; req.Duration > 0; onComplete non-nil.
// Postcondition: On true, State() == Spinning and onComplete fires after req.Duration.
func (a *Animator) Start(req Request, onComplete func(Result)) bool {
	if a.state == Spinning || req.EntryCount <= 0 {
		return false
	}

	a.from = a.rest
	a.target = a.targetFor(req)
	a.winner = req.Winner
	a.startedAt = a.clock.Now()
	a.duration = req.Duration
	a.state = Spinning

	a.clock.AfterFunc(req.Duration, func() {
		a.complete(onComplete)
	})
	return true
}

// targetFor returns the cumulative angle at which req stops. The wheel keeps
// turning forward from the current rest angle by whole rotations plus the
// distance to the winner's segment.
func (a *Animator) targetFor(req Request) float64 {
	width := SegmentWidth(req.EntryCount)
	want := SegmentOffset(req.Winner, req.EntryCount)
	if !req.Forced {
		want += width * (randomStopMargin + (1-2*randomStopMargin)*a.src.Float64())
	}
	// Aim at the winner from the current rest angle instead of adding a raw
	// offset to it, so the pointer stops inside the winner on every spin.
	delta := Normalize(want - a.rest)
	return a.rest + float64(a.fullRotations)*360 + delta
}

func (a *Animator) complete(onComplete func(Result)) {
	if a.state != Spinning {
		return
	}
	a.state = Idle
	a.rest = Normalize(a.target)
	onComplete(Result{Winner: a.winner, Target: a.target, RestAngle: a.rest})
}

// State returns the current animator state.
func (a *Animator) State() State { return a.state }

// Spinning reports whether a spin is in progress.
func (a *Animator) Spinning() bool { return a.state == Spinning }

// RestAngle returns the angle the wheel settled at after the last spin, in [0, 360).
func (a *Animator) RestAngle() float64 { return a.rest }

// Target returns the cumulative stop angle of the current or last spin.
func (a *Animator) Target() float64 { return a.target }

// Winner returns the winning index of the current or last spin.
func (a *Animator) Winner() int { return a.winner }

// Progress returns linear progress of the current spin in [0, 1]; 1 when idle.
func (a *Animator) Progress(now time.Time) float64 {
	if a.state != Spinning || a.duration <= 0 {
		return 1
	}
	p := float64(now.Sub(a.startedAt)) / float64(a.duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// AngleAt returns the visual wheel angle at now.
//
// Postcondition: Returns RestAngle() when idle; otherwise a value eased between
// the previous rest angle and Target().
func (a *Animator) AngleAt(now time.Time) float64 {
	if a.state != Spinning {
		return a.rest
	}
	return a.from + (a.target-a.from)*Ease(a.Progress(now))
}
