// Package wheel owns the application state of the fortune wheel: the entry
// list, the admin session and the spin state machine, mutated only through
// the methods of App from a single event loop.
package wheel

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wheel/internal/clock"
	"github.com/cory-johannsen/wheel/internal/game/admin"
	"github.com/cory-johannsen/wheel/internal/game/entry"
	"github.com/cory-johannsen/wheel/internal/game/selection"
	"github.com/cory-johannsen/wheel/internal/game/spin"
	"github.com/cory-johannsen/wheel/internal/random"
)

// ErrSpinning is returned for entry mutations while a spin is in progress,
// since the pending winning index refers to the list as it was at spin start.
var ErrSpinning = errors.New("the wheel is spinning")

// Outcome describes one spin.
type Outcome struct {
	ID        uuid.UUID
	Winner    int
	Label     string
	Forced    bool
	RestAngle float64
}

// Options configures an App.
type Options struct {
	Store         *entry.Store
	Gate          *admin.Gate
	Clock         clock.Clock
	Source        random.Source
	FullRotations int
	Chord         admin.Chord
	TapCount      int
	TapWindow     time.Duration
	Logger        *zap.Logger
}

// App is the explicit application state. It is not safe for concurrent use;
// Options.Clock must deliver timer callbacks on the goroutine that calls App.
type App struct {
	store    *entry.Store
	gate     *admin.Gate
	animator *spin.Animator
	chord    *admin.ChordDetector
	taps     *admin.TapDetector
	clock    clock.Clock
	src      random.Source
	logger   *zap.Logger

	pending  *Outcome
	last     *Outcome
	onResult func(Outcome)
	onUnlock func()
}

// New assembles an App from opts.
//
// Precondition: every pointer and interface in opts is non-nil; opts.Chord
// comes from admin.ParseChord.
func New(opts Options) *App {
	return &App{
		store:    opts.Store,
		gate:     opts.Gate,
		animator: spin.NewAnimator(opts.Clock, opts.Source, opts.FullRotations),
		chord:    admin.NewChordDetector(opts.Chord),
		taps:     admin.NewTapDetector(opts.Clock, opts.TapCount, opts.TapWindow),
		clock:    opts.Clock,
		src:      opts.Source,
		logger:   opts.Logger,
	}
}

// OnResult registers the callback receiving every completed spin.
func (a *App) OnResult(fn func(Outcome)) { a.onResult = fn }

// OnUnlock registers the callback fired when an unlock gesture completes.
func (a *App) OnUnlock(fn func()) { a.onUnlock = fn }

// Load reads the persisted entry list.
//
// Postcondition: Entries() is non-empty even when an error is returned.
func (a *App) Load(ctx context.Context) error {
	err := a.store.Load(ctx)
	a.gate.EntriesChanged(a.store.Len())
	if err != nil {
		a.logger.Error("loading entries", zap.Error(err))
		return err
	}
	a.logger.Info("entries loaded", zap.Int("count", a.store.Len()))
	return nil
}

// Entries returns a copy of the entry list.
func (a *App) Entries() []string { return a.store.Entries() }

// AddEntry appends text to the wheel.
func (a *App) AddEntry(ctx context.Context, text string) error {
	if a.animator.Spinning() {
		return ErrSpinning
	}
	err := a.store.Add(ctx, text)
	a.logMutation("entry added", err, zap.String("text", text))
	return err
}

// UpdateEntry replaces the text of entry i.
func (a *App) UpdateEntry(ctx context.Context, i int, text string) error {
	if a.animator.Spinning() {
		return ErrSpinning
	}
	err := a.store.Update(ctx, i, text)
	a.logMutation("entry updated", err, zap.Int("index", i), zap.String("text", text))
	return err
}

// RemoveEntry deletes entry i and re-validates the preset winner.
//
// Postcondition: Returns entry.ErrLastEntry and changes nothing when i is the
// only entry.
func (a *App) RemoveEntry(ctx context.Context, i int) error {
	if a.animator.Spinning() {
		return ErrSpinning
	}
	before := a.store.Len()
	err := a.store.Remove(ctx, i)
	if a.store.Len() < before {
		a.gate.EntryRemoved(i)
	}
	a.logMutation("entry removed", err, zap.Int("index", i))
	return err
}

// Reset restores the default entries and clears the preset winner.
func (a *App) Reset(ctx context.Context) error {
	if a.animator.Spinning() {
		return ErrSpinning
	}
	err := a.store.Reset(ctx)
	a.gate.EntriesReset()
	a.logMutation("entries reset", err)
	return err
}

func (a *App) logMutation(msg string, err error, fields ...zap.Field) {
	switch {
	case err == nil:
		a.logger.Info(msg, append(fields, zap.Int("count", a.store.Len()))...)
	case errors.Is(err, entry.ErrEmptyEntry), errors.Is(err, entry.ErrLastEntry), errors.Is(err, entry.ErrIndexOutOfRange):
		a.logger.Debug(msg+" rejected", append(fields, zap.Error(err))...)
	default:
		a.logger.Error(msg, append(fields, zap.Error(err))...)
	}
}

// Spin starts a spin. It reports false without side effects while spinning.
//
// Postcondition: On true, the registered result callback fires exactly once
// after the admin spin duration.
func (a *App) Spin() (uuid.UUID, bool) {
	n := a.store.Len()
	if a.animator.Spinning() || n == 0 {
		return uuid.Nil, false
	}

	active, preset := a.gate.Authenticated(), a.gate.Preset()
	winner := selection.SelectWinner(n, active, preset, a.src)
	_, forced := selection.Forced(n, active, preset)

	id := uuid.New()
	out := &Outcome{ID: id, Winner: winner, Label: a.store.At(winner), Forced: forced}
	started := a.animator.Start(spin.Request{
		EntryCount: n,
		Winner:     winner,
		Forced:     forced,
		Duration:   a.gate.SpinDuration(),
	}, a.complete)
	if !started {
		return uuid.Nil, false
	}
	a.pending = out

	a.logger.Info("spin started",
		zap.String("spin_id", id.String()),
		zap.Int("entries", n),
		zap.Bool("forced", forced),
		zap.Float64("target", a.animator.Target()),
		zap.Duration("duration", a.gate.SpinDuration()),
	)
	return id, true
}

func (a *App) complete(res spin.Result) {
	out := a.pending
	a.pending = nil
	if out == nil {
		return
	}
	out.RestAngle = res.RestAngle
	a.last = out

	a.logger.Info("spin completed",
		zap.String("spin_id", out.ID.String()),
		zap.Int("winner", out.Winner),
		zap.String("label", out.Label),
		zap.Float64("rest_angle", out.RestAngle),
	)
	if a.onResult != nil {
		a.onResult(*out)
	}
}

// Spinning reports whether a spin is in progress.
func (a *App) Spinning() bool { return a.animator.Spinning() }

// SpinState returns the animator state.
func (a *App) SpinState() spin.State { return a.animator.State() }

// Angle returns the wheel's visual angle at the current clock time.
func (a *App) Angle() float64 { return a.animator.AngleAt(a.clock.Now()) }

// RestAngle returns the angle at which the last spin settled.
func (a *App) RestAngle() float64 { return a.animator.RestAngle() }

// Last returns the most recent completed spin.
func (a *App) Last() (Outcome, bool) {
	if a.last == nil {
		return Outcome{}, false
	}
	return *a.last, true
}

// ClearResult hides the last outcome, as when the result banner is dismissed.
func (a *App) ClearResult() { a.last = nil }

// Authenticated reports whether the admin session is logged in.
func (a *App) Authenticated() bool { return a.gate.Authenticated() }

// Login authenticates the admin session.
func (a *App) Login(password string) error {
	if err := a.gate.Login(password); err != nil {
		a.logger.Warn("admin login failed")
		return err
	}
	a.logger.Info("admin logged in")
	return nil
}

// SetPasswordField stores the text typed into the masked password input.
func (a *App) SetPasswordField(text string) { a.gate.SetPasswordField(text) }

// PasswordField returns the text typed into the masked password input.
func (a *App) PasswordField() string { return a.gate.PasswordField() }

// Logout ends the admin session.
func (a *App) Logout() {
	a.gate.Logout()
	a.logger.Info("admin logged out")
}

// Preset returns the preset winner index, or nil.
func (a *App) Preset() *int { return a.gate.Preset() }

// SetPreset selects the forced winner; nil restores random selection.
func (a *App) SetPreset(idx *int) error {
	if err := a.gate.SetPreset(idx, a.store.Len()); err != nil {
		return err
	}
	if idx == nil {
		a.logger.Info("preset cleared")
	} else {
		a.logger.Info("preset set", zap.Int("index", *idx))
	}
	return nil
}

// Duration returns the spin duration in seconds.
func (a *App) Duration() float64 { return a.gate.Duration() }

// SetDuration sets the spin duration, clamped and rounded.
func (a *App) SetDuration(seconds float64) (float64, error) {
	got, err := a.gate.SetDuration(seconds)
	if err != nil {
		return got, err
	}
	a.logger.Info("spin duration set", zap.Float64("requested", seconds), zap.Float64("seconds", got))
	return got, nil
}

// Activate records one activation of the unlock element.
//
// Postcondition: Returns true and fires the unlock callback when the tap
// sequence completes.
func (a *App) Activate() bool {
	if !a.taps.Activate() {
		return false
	}
	a.unlocked("taps")
	return true
}

// TapCount returns the activations in the current tap sequence.
func (a *App) TapCount() int { return a.taps.Count() }

// KeyChord feeds the keys held for one key event to the chord detector.
//
// Postcondition: Returns true and fires the unlock callback when keys hold the chord.
func (a *App) KeyChord(keys ...admin.Key) bool {
	if !a.chord.Snapshot(keys...) {
		return false
	}
	a.unlocked("chord")
	return true
}

func (a *App) unlocked(via string) {
	a.logger.Debug("admin unlock gesture", zap.String("via", via))
	if a.onUnlock != nil {
		a.onUnlock()
	}
}

// Close stops pending timers.
func (a *App) Close() {
	a.taps.Stop()
}
