// Package admin implements the hidden operator mode: the password gate that
// exposes the preset winner and spin duration, and the two unlock gestures
// (a key chord and a rapid tap sequence) that reveal it.
package admin

import (
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Spin duration bounds in seconds.
const (
	MinDuration  = 1.0
	MaxDuration  = 10.0
	DurationStep = 0.5
)

// State is the gate state.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

// String returns a human-readable state name.
func (s State) String() string {
	if s == LoggedIn {
		return "logged in"
	}
	return "logged out"
}

var (
	// ErrInvalidPassword is returned when a login attempt does not match the shared secret.
	ErrInvalidPassword = errors.New("incorrect password")
	// ErrNotAuthenticated is returned when an admin-only field is changed while logged out.
	ErrNotAuthenticated = errors.New("admin login required")
	// ErrPresetOutOfRange is returned when a preset index does not name an entry.
	ErrPresetOutOfRange = errors.New("preset winner out of range")
)

// Gate is the admin session: an authenticated flag, an optional preset
// winner and the spin duration. It is never persisted.
// It is not safe for concurrent use.
type Gate struct {
	hash          []byte
	state         State
	preset        *int
	duration      float64
	passwordField string
}

// NewGate returns a logged-out Gate checking passwords against the bcrypt hash.
//
// Precondition: passwordHash must be a bcrypt hash.
// Postcondition: Duration() == ClampDuration(durationSeconds).
func NewGate(passwordHash string, durationSeconds float64) *Gate {
	return &Gate{hash: []byte(passwordHash), duration: ClampDuration(durationSeconds)}
}

// HashPassword creates a bcrypt hash of the given password.
//
// Precondition: password must be non-empty.
// Postcondition: Returns a bcrypt hash string.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing admin password: %w", err)
	}
	return string(hash), nil
}

// State returns the current gate state.
func (g *Gate) State() State { return g.state }

// Authenticated reports whether the gate is logged in.
func (g *Gate) Authenticated() bool { return g.state == LoggedIn }

// SetPasswordField records the text typed into the password input.
func (g *Gate) SetPasswordField(s string) { g.passwordField = s }

// PasswordField returns the text typed into the password input.
func (g *Gate) PasswordField() string { return g.passwordField }

// Login compares password against the shared secret.
//
// Postcondition: On success State() == LoggedIn. On mismatch returns
// ErrInvalidPassword and the state is unchanged.
func (g *Gate) Login(password string) error {
	if bcrypt.CompareHashAndPassword(g.hash, []byte(password)) != nil {
		return ErrInvalidPassword
	}
	g.state = LoggedIn
	return nil
}

// Logout ends the session, clearing the preset winner and the password field.
// The spin duration is kept.
//
// Postcondition: State() == LoggedOut; Preset() == nil; PasswordField() == "".
func (g *Gate) Logout() {
	g.state = LoggedOut
	g.preset = nil
	g.passwordField = ""
}

// Preset returns a copy of the preset winner index, or nil for a random spin.
func (g *Gate) Preset() *int {
	if g.preset == nil {
		return nil
	}
	v := *g.preset
	return &v
}

// SetPreset selects the forced winner; nil restores random selection.
//
// Precondition: entryCount is the current number of entries.
// Postcondition: Returns ErrNotAuthenticated when logged out, or
// ErrPresetOutOfRange when idx does not name an entry; Preset() is unchanged on error.
func (g *Gate) SetPreset(idx *int, entryCount int) error {
	if !g.Authenticated() {
		return ErrNotAuthenticated
	}
	if idx == nil {
		g.preset = nil
		return nil
	}
	if *idx < 0 || *idx >= entryCount {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrPresetOutOfRange, *idx, entryCount)
	}
	v := *idx
	g.preset = &v
	return nil
}

// Duration returns the spin duration in seconds.
func (g *Gate) Duration() float64 { return g.duration }

// SpinDuration returns the spin duration as a time.Duration.
func (g *Gate) SpinDuration() time.Duration {
	return time.Duration(g.duration * float64(time.Second))
}

// SetDuration sets the spin duration, clamped to [1, 10] seconds in 0.5 steps.
//
// Postcondition: Returns the stored value, or ErrNotAuthenticated when logged out.
func (g *Gate) SetDuration(seconds float64) (float64, error) {
	if !g.Authenticated() {
		return g.duration, ErrNotAuthenticated
	}
	g.duration = ClampDuration(seconds)
	return g.duration, nil
}

// EntryRemoved re-validates the preset after the entry at index was removed:
// the preset is cleared if it pointed at index and shifted down by one if it
// pointed past it.
func (g *Gate) EntryRemoved(index int) {
	if g.preset == nil {
		return
	}
	switch {
	case *g.preset == index:
		g.preset = nil
	case *g.preset > index:
		v := *g.preset - 1
		g.preset = &v
	}
}

// EntriesReset clears the preset after the entry list was replaced wholesale.
func (g *Gate) EntriesReset() {
	g.preset = nil
}

// EntriesChanged clears the preset if it no longer names one of entryCount entries.
func (g *Gate) EntriesChanged(entryCount int) {
	if g.preset != nil && *g.preset >= entryCount {
		g.preset = nil
	}
}

// ClampDuration bounds seconds to [1, 10] and rounds it to the nearest 0.5.
// NaN maps to the minimum.
func ClampDuration(seconds float64) float64 {
	if math.IsNaN(seconds) || seconds < MinDuration {
		return MinDuration
	}
	if seconds > MaxDuration {
		return MaxDuration
	}
	return math.Round(seconds/DurationStep) * DurationStep
}
