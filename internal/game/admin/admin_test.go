package admin_test

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wheel/internal/clock"
	"github.com/cory-johannsen/wheel/internal/game/admin"
)

var (
	hashOnce sync.Once
	hash     string
)

// secretHash hashes the test secret once; bcrypt is deliberately slow.
func secretHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		h, err := admin.HashPassword("admin123")
		require.NoError(t, err)
		hash = h
	})
	return hash
}

func loggedIn(t *testing.T) *admin.Gate {
	t.Helper()
	g := admin.NewGate(secretHash(t), 1)
	require.NoError(t, g.Login("admin123"))
	return g
}

func intPtr(v int) *int { return &v }

func TestGate_LoginSuccess(t *testing.T) {
	g := admin.NewGate(secretHash(t), 1)
	assert.Equal(t, admin.LoggedOut, g.State())
	require.NoError(t, g.Login("admin123"))
	assert.Equal(t, admin.LoggedIn, g.State())
	assert.True(t, g.Authenticated())
}

func TestGate_LoginMismatchStaysLoggedOut(t *testing.T) {
	g := admin.NewGate(secretHash(t), 1)
	err := g.Login("wrong")
	assert.ErrorIs(t, err, admin.ErrInvalidPassword)
	assert.Equal(t, admin.LoggedOut, g.State())
}

func TestGate_LogoutClearsPresetAndPassword(t *testing.T) {
	g := loggedIn(t)
	g.SetPasswordField("admin123")
	require.NoError(t, g.SetPreset(intPtr(2), 3))
	_, err := g.SetDuration(4)
	require.NoError(t, err)

	g.Logout()
	assert.Equal(t, admin.LoggedOut, g.State())
	assert.Nil(t, g.Preset())
	assert.Empty(t, g.PasswordField())
	assert.Equal(t, 4.0, g.Duration(), "duration survives logout")
}

func TestGate_FieldsRequireLogin(t *testing.T) {
	g := admin.NewGate(secretHash(t), 1)
	assert.ErrorIs(t, g.SetPreset(intPtr(0), 3), admin.ErrNotAuthenticated)
	_, err := g.SetDuration(5)
	assert.ErrorIs(t, err, admin.ErrNotAuthenticated)
	assert.Equal(t, 1.0, g.Duration())
}

func TestGate_SetPresetValidatesRange(t *testing.T) {
	g := loggedIn(t)
	assert.ErrorIs(t, g.SetPreset(intPtr(3), 3), admin.ErrPresetOutOfRange)
	assert.ErrorIs(t, g.SetPreset(intPtr(-1), 3), admin.ErrPresetOutOfRange)
	assert.Nil(t, g.Preset())

	require.NoError(t, g.SetPreset(intPtr(1), 3))
	assert.Equal(t, 1, *g.Preset())
	require.NoError(t, g.SetPreset(nil, 3))
	assert.Nil(t, g.Preset())
}

func TestGate_PresetIsCopied(t *testing.T) {
	g := loggedIn(t)
	require.NoError(t, g.SetPreset(intPtr(1), 3))
	p := g.Preset()
	*p = 2
	assert.Equal(t, 1, *g.Preset())
}

// Property: removal clears the preset at the removed index, decrements it
// when a lower index is removed, and leaves it alone otherwise.
func TestGate_EntryRemovedProperty(t *testing.T) {
	h := secretHash(t)
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 30).Draw(rt, "n")
		preset := rapid.IntRange(0, n-1).Draw(rt, "preset")
		removed := rapid.IntRange(0, n-1).Draw(rt, "removed")

		g := admin.NewGate(h, 1)
		if err := g.Login("admin123"); err != nil {
			rt.Fatalf("login: %v", err)
		}
		if err := g.SetPreset(intPtr(preset), n); err != nil {
			rt.Fatalf("set preset: %v", err)
		}
		g.EntryRemoved(removed)

		got := g.Preset()
		switch {
		case removed == preset:
			if got != nil {
				rt.Fatalf("preset %d should be cleared, got %d", preset, *got)
			}
		case removed < preset:
			if got == nil || *got != preset-1 {
				rt.Fatalf("preset %d should shift to %d, got %v", preset, preset-1, got)
			}
		default:
			if got == nil || *got != preset {
				rt.Fatalf("preset %d should be unchanged, got %v", preset, got)
			}
		}
	})
}

func TestGate_EntriesResetAndChanged(t *testing.T) {
	g := loggedIn(t)
	require.NoError(t, g.SetPreset(intPtr(4), 5))
	g.EntriesChanged(5)
	assert.NotNil(t, g.Preset())
	g.EntriesChanged(4)
	assert.Nil(t, g.Preset())

	require.NoError(t, g.SetPreset(intPtr(0), 5))
	g.EntriesReset()
	assert.Nil(t, g.Preset())
}

func TestClampDuration(t *testing.T) {
	cases := map[float64]float64{
		0:    1,
		-3:   1,
		1:    1,
		1.2:  1,
		1.3:  1.5,
		2.75: 3,
		10:   10,
		42:   10,
	}
	for in, want := range cases {
		assert.Equal(t, want, admin.ClampDuration(in), "ClampDuration(%g)", in)
	}
	assert.Equal(t, 1.0, admin.ClampDuration(math.NaN()))
}

// Property: clamped durations are in range and on the half-second grid.
func TestClampDurationProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := rapid.Float64Range(-100, 100).Draw(rt, "seconds")
		got := admin.ClampDuration(in)
		if got < admin.MinDuration || got > admin.MaxDuration {
			rt.Fatalf("ClampDuration(%g) = %g out of range", in, got)
		}
		if math.Mod(got, admin.DurationStep) != 0 {
			rt.Fatalf("ClampDuration(%g) = %g not a multiple of %g", in, got, admin.DurationStep)
		}
	})
}

func TestGate_SpinDuration(t *testing.T) {
	g := loggedIn(t)
	_, err := g.SetDuration(2.5)
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, g.SpinDuration())
}

func TestParseChord(t *testing.T) {
	c, err := admin.ParseChord("Ctrl+Shift+A")
	require.NoError(t, err)
	assert.Equal(t, "ctrl+shift+a", c.String())

	for _, bad := range []string{"", "a", "ctrl", "ctrl+", "ctrl+ab", "ctrl+ctrl+a", "ctrl+a+b"} {
		_, err := admin.ParseChord(bad)
		assert.ErrorIs(t, err, admin.ErrInvalidChord, "chord %q", bad)
	}
}

func TestChordDetector_KeyDownUp(t *testing.T) {
	c, err := admin.ParseChord("ctrl+shift+a")
	require.NoError(t, err)
	d := admin.NewChordDetector(c)

	assert.False(t, d.KeyDown(admin.KeyCtrl))
	assert.False(t, d.KeyDown(admin.KeyShift))
	assert.True(t, d.KeyDown(admin.CharKey('A')), "the event completing the chord must see fresh state")

	d.KeyUp(admin.KeyShift)
	assert.False(t, d.KeyDown(admin.CharKey('a')))
}

func TestChordDetector_Snapshot(t *testing.T) {
	c, err := admin.ParseChord("ctrl+a")
	require.NoError(t, err)
	d := admin.NewChordDetector(c)

	assert.True(t, d.Snapshot(admin.KeyCtrl, admin.CharKey('a')))
	assert.False(t, d.Snapshot(admin.CharKey('a')), "snapshot replaces previously held keys")
	assert.True(t, d.Snapshot(admin.KeyCtrl, admin.KeyShift, admin.CharKey('a')))
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Scenario: five rapid activations unlock; after the window expires the
// counter is back at zero before the next activation counts.
func TestTapDetector_Scenario(t *testing.T) {
	f := clock.NewFake(epoch)
	d := admin.NewTapDetector(f, 5, 2*time.Second)

	for i := 0; i < 4; i++ {
		assert.False(t, d.Activate())
		f.Advance(500 * time.Millisecond)
	}
	assert.True(t, d.Activate(), "fifth activation within the window unlocks")
	assert.Equal(t, 0, d.Count())

	for i := 0; i < 4; i++ {
		d.Activate()
	}
	f.Advance(2 * time.Second)
	assert.Equal(t, 0, d.Count(), "window expiry resets the counter")

	assert.False(t, d.Activate(), "a late activation starts a new sequence")
	assert.Equal(t, 1, d.Count())
}

func TestTapDetector_WindowRestartsOnEachActivation(t *testing.T) {
	f := clock.NewFake(epoch)
	d := admin.NewTapDetector(f, 3, time.Second)

	d.Activate()
	f.Advance(900 * time.Millisecond)
	d.Activate()
	f.Advance(900 * time.Millisecond)
	assert.Equal(t, 2, d.Count(), "second activation restarted the window")
	assert.True(t, d.Activate())
	assert.Equal(t, 0, f.Pending())
}

func TestTapDetector_Stop(t *testing.T) {
	f := clock.NewFake(epoch)
	d := admin.NewTapDetector(f, 3, time.Second)
	d.Activate()
	d.Stop()
	assert.Equal(t, 0, d.Count())
	assert.Equal(t, 0, f.Pending())
}
