package command_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/cory-johannsen/wheel/internal/clock"
	"github.com/cory-johannsen/wheel/internal/game/admin"
	"github.com/cory-johannsen/wheel/internal/game/command"
	"github.com/cory-johannsen/wheel/internal/game/entry"
	"github.com/cory-johannsen/wheel/internal/game/wheel"
	"github.com/cory-johannsen/wheel/internal/random"
	"github.com/cory-johannsen/wheel/internal/storage"
)

var _ command.Wheel = (*wheel.App)(nil)

func newDispatcher(t *testing.T, entries ...string) (*command.Dispatcher, *wheel.App, *clock.Fake) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	chord, err := admin.ParseChord("ctrl+a")
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	fake := clock.NewFake(time.Unix(0, 0))
	app := wheel.New(wheel.Options{
		Store:         entry.NewStore(storage.NewMemory(), "", entries, logger),
		Gate:          admin.NewGate(string(hash), 1),
		Clock:         fake,
		Source:        random.NewFixed([]int{0}, []float64{0.5}),
		FullRotations: 3,
		Chord:         chord,
		TapCount:      5,
		TapWindow:     2 * time.Second,
		Logger:        logger,
	})
	require.NoError(t, app.Load(context.Background()))
	return command.NewDispatcher(command.DefaultRegistry(), app), app, fake
}

func TestExecute_EmptyLine(t *testing.T) {
	d, _, _ := newDispatcher(t, "A")
	assert.Equal(t, command.Reply{}, d.Execute(context.Background(), "   ", false))
}

func TestExecute_Unknown(t *testing.T) {
	d, _, _ := newDispatcher(t, "A")
	r := d.Execute(context.Background(), "dance", false)
	assert.Equal(t, command.LevelWarn, r.Level)
	assert.Contains(t, r.Message, "Unknown command")
}

func TestExecute_AdminCommandsHiddenOutsideDialog(t *testing.T) {
	d, app, _ := newDispatcher(t, "A")
	r := d.Execute(context.Background(), "login admin123", false)
	assert.Contains(t, r.Message, "Unknown command")
	assert.False(t, app.Authenticated())

	r = d.Execute(context.Background(), "login admin123", true)
	assert.Equal(t, command.LevelInfo, r.Level)
	assert.True(t, app.Authenticated())
}

func TestExecute_EntryCommands(t *testing.T) {
	ctx := context.Background()
	d, app, _ := newDispatcher(t, "A", "B")

	r := d.Execute(ctx, "add  Free coffee ", false)
	assert.Equal(t, `Added "Free coffee".`, r.Message)

	r = d.Execute(ctx, "edit 1 Tea", false)
	assert.Equal(t, `Entry 1 is now "Tea".`, r.Message)

	r = d.Execute(ctx, "rm 2", false)
	assert.Equal(t, `Removed "B".`, r.Message)
	assert.Equal(t, []string{"Tea", "Free coffee"}, app.Entries())

	r = d.Execute(ctx, "list", false)
	assert.Equal(t, "1. Tea  2. Free coffee", r.Message)
}

func TestExecute_EntryErrors(t *testing.T) {
	ctx := context.Background()
	d, app, _ := newDispatcher(t, "only")

	cases := map[string]string{
		"add":         "Usage: add <text>",
		"edit 1":      "Usage: edit <n> <text>",
		"edit x Tea":  "No such entry.",
		"edit 9 Tea":  "No such entry.",
		"remove":      "Usage: remove <n>",
		"remove 0":    "No such entry.",
		"remove 1":    "You need at least one entry in the wheel.",
		"remove many": "No such entry.",
	}
	for line, want := range cases {
		r := d.Execute(ctx, line, false)
		assert.Equal(t, want, r.Message, "line %q", line)
		assert.Equal(t, command.LevelWarn, r.Level, "line %q", line)
	}
	assert.Equal(t, []string{"only"}, app.Entries())
}

func TestExecute_ResetNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	d, app, _ := newDispatcher(t, "A", "B")
	require.NoError(t, app.AddEntry(ctx, "C"))

	r := d.Execute(ctx, "reset", false)
	assert.Equal(t, command.ActionConfirmReset, r.Action)
	assert.Len(t, app.Entries(), 3, "nothing changes before confirmation")

	r = command.HandleResetConfirmed(ctx, app, false)
	assert.Equal(t, "Reset cancelled.", r.Message)
	assert.Len(t, app.Entries(), 3)

	r = command.HandleResetConfirmed(ctx, app, true)
	assert.Equal(t, "Entries reset to defaults.", r.Message)
	assert.Equal(t, []string{"A", "B"}, app.Entries())
}

func TestExecute_Spin(t *testing.T) {
	ctx := context.Background()
	d, app, fake := newDispatcher(t, "A", "B")

	assert.Equal(t, "Spinning...", d.Execute(ctx, "spin", false).Message)
	assert.True(t, app.Spinning())
	assert.Equal(t, "The wheel is already spinning.", d.Execute(ctx, "go", false).Message)
	assert.Equal(t, "Wait for the wheel to stop.", d.Execute(ctx, "add X", false).Message)
	assert.Equal(t, "Wait for the wheel to stop.", d.Execute(ctx, "reset", false).Message)

	fake.Advance(time.Second)
	assert.False(t, app.Spinning())
	last, ok := app.Last()
	require.True(t, ok)
	assert.Equal(t, "A", last.Label)
}

func TestExecute_SystemActions(t *testing.T) {
	ctx := context.Background()
	d, _, _ := newDispatcher(t, "A")
	assert.Equal(t, command.ActionQuit, d.Execute(ctx, "quit", false).Action)
	assert.Equal(t, command.ActionShowHelp, d.Execute(ctx, "?", false).Action)
	assert.Equal(t, command.ActionCloseAdmin, d.Execute(ctx, "close", true).Action)
	assert.Equal(t, command.ActionPromptPassword, d.Execute(ctx, "login", true).Action)
}

func TestExecute_AdminFlow(t *testing.T) {
	ctx := context.Background()
	d, app, _ := newDispatcher(t, "A", "B", "C")

	assert.Equal(t, "Log in first.", d.Execute(ctx, "preset 2", true).Message)
	assert.Equal(t, "Incorrect password.", d.Execute(ctx, "login hunter2", true).Message)
	assert.False(t, app.Authenticated())

	assert.Equal(t, "Admin settings unlocked.", d.Execute(ctx, "login admin123", true).Message)
	assert.Equal(t, `Next winner: "B".`, d.Execute(ctx, "preset 2", true).Message)
	assert.Equal(t, 1, *app.Preset())
	assert.Equal(t, "No such entry.", d.Execute(ctx, "preset 4", true).Message)
	assert.Equal(t, 1, *app.Preset())
	assert.Equal(t, "Winner will be random.", d.Execute(ctx, "preset none", true).Message)
	assert.Nil(t, app.Preset())

	assert.Equal(t, "Spin duration set to 10s.", d.Execute(ctx, "duration 42", true).Message)
	assert.Equal(t, "Spin duration set to 2.5s.", d.Execute(ctx, "dur 2.4s", true).Message)
	assert.Equal(t, "Spin duration is 2.5s.", d.Execute(ctx, "duration", true).Message)
	assert.Equal(t, "Duration must be a number of seconds.", d.Execute(ctx, "duration soon", true).Message)

	require.Equal(t, `Next winner: "C".`, d.Execute(ctx, "preset 3", true).Message)
	assert.Equal(t, "Logged out.", d.Execute(ctx, "logout", true).Message)
	assert.False(t, app.Authenticated())
	assert.Nil(t, app.Preset())
	assert.Equal(t, 2.5, app.Duration())
}
