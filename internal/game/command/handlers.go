package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/cory-johannsen/wheel/internal/game/admin"
	"github.com/cory-johannsen/wheel/internal/game/entry"
	"github.com/cory-johannsen/wheel/internal/game/wheel"
)

// Wheel is the application state the handlers operate on. *wheel.App implements it.
type Wheel interface {
	Entries() []string
	AddEntry(ctx context.Context, text string) error
	UpdateEntry(ctx context.Context, i int, text string) error
	RemoveEntry(ctx context.Context, i int) error
	Reset(ctx context.Context) error
	Spin() (uuid.UUID, bool)
	Spinning() bool
	Authenticated() bool
	Login(password string) error
	Logout()
	Preset() *int
	SetPreset(idx *int) error
	Duration() float64
	SetDuration(seconds float64) (float64, error)
}

// Level classifies a reply for display.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Action asks the shell to do something beyond showing the message.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionConfirmReset
	ActionPromptPassword
	ActionShowHelp
	ActionCloseAdmin
)

// Reply is the outcome of one command line.
type Reply struct {
	Message string
	Level   Level
	Action  Action
}

func info(format string, args ...any) Reply {
	return Reply{Message: fmt.Sprintf(format, args...)}
}

func warn(format string, args ...any) Reply {
	return Reply{Message: fmt.Sprintf(format, args...), Level: LevelWarn}
}

// Dispatcher resolves command lines against a Registry and runs them on a Wheel.
type Dispatcher struct {
	registry *Registry
	wheel    Wheel
}

// NewDispatcher returns a Dispatcher.
//
// Precondition: reg and w must be non-nil.
func NewDispatcher(reg *Registry, w Wheel) *Dispatcher {
	return &Dispatcher{registry: reg, wheel: w}
}

// Registry returns the registry commands are resolved against.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Execute runs one command line. Admin commands resolve only when adminOpen
// is true, so the hidden mode is not discoverable from the main prompt.
//
// Postcondition: Never returns an empty Reply for a non-empty unknown command.
func (d *Dispatcher) Execute(ctx context.Context, line string, adminOpen bool) Reply {
	parsed := Parse(line)
	if parsed.Command == "" {
		return Reply{}
	}
	cmd, ok := d.registry.Resolve(parsed.Command)
	if !ok || (cmd.Category == CategoryAdmin && !adminOpen) {
		return warn("Unknown command %q. Type help for the list of commands.", parsed.Command)
	}

	switch cmd.Handler {
	case HandlerSpin:
		return HandleSpin(d.wheel)
	case HandlerAdd:
		return HandleAdd(ctx, d.wheel, parsed.RawArgs)
	case HandlerEdit:
		return HandleEdit(ctx, d.wheel, parsed.RawArgs)
	case HandlerRemove:
		return HandleRemove(ctx, d.wheel, parsed.RawArgs)
	case HandlerReset:
		if d.wheel.Spinning() {
			return warn("Wait for the wheel to stop.")
		}
		return Reply{
			Message: "Reset to default entries? This will remove all your custom entries. (y/n)",
			Level:   LevelWarn,
			Action:  ActionConfirmReset,
		}
	case HandlerList:
		return HandleList(d.wheel)
	case HandlerHelp:
		return Reply{Action: ActionShowHelp}
	case HandlerQuit:
		return Reply{Message: "Goodbye.", Action: ActionQuit}
	case HandlerLogin:
		if parsed.RawArgs == "" {
			return Reply{Message: "Password:", Action: ActionPromptPassword}
		}
		return HandleLogin(d.wheel, parsed.RawArgs)
	case HandlerLogout:
		d.wheel.Logout()
		return info("Logged out.")
	case HandlerPreset:
		return HandlePreset(d.wheel, parsed.RawArgs)
	case HandlerDuration:
		return HandleDuration(d.wheel, parsed.RawArgs)
	case HandlerClose:
		return Reply{Action: ActionCloseAdmin}
	default:
		return Reply{Message: fmt.Sprintf("command %q has no handler", cmd.Name), Level: LevelError}
	}
}

// HandleSpin starts a spin.
func HandleSpin(w Wheel) Reply {
	if _, ok := w.Spin(); !ok {
		return warn("The wheel is already spinning.")
	}
	return info("Spinning...")
}

// HandleAdd appends raw as a new entry.
func HandleAdd(ctx context.Context, w Wheel, raw string) Reply {
	if strings.TrimSpace(raw) == "" {
		return warn("Usage: add <text>")
	}
	if err := w.AddEntry(ctx, raw); err != nil {
		return errorReply("add", err)
	}
	return info("Added %q.", strings.TrimSpace(raw))
}

// HandleEdit replaces an entry's text; raw is "<n> <text>".
func HandleEdit(ctx context.Context, w Wheel, raw string) Reply {
	num, text := SplitFirst(raw)
	if num == "" || text == "" {
		return warn("Usage: edit <n> <text>")
	}
	i, err := ParseIndex(num)
	if err != nil {
		return errorReply("edit", err)
	}
	if err := w.UpdateEntry(ctx, i, text); err != nil {
		return errorReply("edit", err)
	}
	return info("Entry %d is now %q.", i+1, text)
}

// HandleRemove deletes the entry numbered raw.
func HandleRemove(ctx context.Context, w Wheel, raw string) Reply {
	if raw == "" {
		return warn("Usage: remove <n>")
	}
	i, err := ParseIndex(raw)
	if err != nil {
		return errorReply("remove", err)
	}
	entries := w.Entries()
	if err := w.RemoveEntry(ctx, i); err != nil {
		return errorReply("remove", err)
	}
	return info("Removed %q.", entries[i])
}

// HandleResetConfirmed answers the reset confirmation prompt.
func HandleResetConfirmed(ctx context.Context, w Wheel, yes bool) Reply {
	if !yes {
		return info("Reset cancelled.")
	}
	if err := w.Reset(ctx); err != nil {
		return errorReply("reset", err)
	}
	return info("Entries reset to defaults.")
}

// HandleList renders the entries on one line.
func HandleList(w Wheel) Reply {
	entries := w.Entries()
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%d. %s", i+1, e)
	}
	return info("%s", strings.Join(parts, "  "))
}

// HandleLogin checks the admin password.
func HandleLogin(w Wheel, password string) Reply {
	if err := w.Login(password); err != nil {
		return errorReply("login", err)
	}
	return info("Admin settings unlocked.")
}

// HandlePreset sets or clears the forced winner; raw is an entry number or "none".
func HandlePreset(w Wheel, raw string) Reply {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return warn("Usage: preset <n|none>")
	case "none", "random", "off":
		if err := w.SetPreset(nil); err != nil {
			return errorReply("preset", err)
		}
		return info("Winner will be random.")
	}
	i, err := ParseIndex(raw)
	if err != nil {
		return errorReply("preset", err)
	}
	if err := w.SetPreset(&i); err != nil {
		return errorReply("preset", err)
	}
	return info("Next winner: %q.", w.Entries()[i])
}

// HandleDuration sets the spin duration in seconds.
func HandleDuration(w Wheel, raw string) Reply {
	if raw == "" {
		return info("Spin duration is %gs.", w.Duration())
	}
	secs, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(raw), "s"), 64)
	if err != nil {
		return warn("Duration must be a number of seconds.")
	}
	got, err := w.SetDuration(secs)
	if err != nil {
		return errorReply("duration", err)
	}
	return info("Spin duration set to %gs.", got)
}

func errorReply(op string, err error) Reply {
	switch {
	case errors.Is(err, entry.ErrLastEntry):
		return warn("You need at least one entry in the wheel.")
	case errors.Is(err, entry.ErrEmptyEntry):
		return warn("Entry text must not be empty.")
	case errors.Is(err, entry.ErrIndexOutOfRange), errors.Is(err, ErrBadIndex):
		return warn("No such entry.")
	case errors.Is(err, admin.ErrInvalidPassword):
		return warn("Incorrect password.")
	case errors.Is(err, admin.ErrNotAuthenticated):
		return warn("Log in first.")
	case errors.Is(err, admin.ErrPresetOutOfRange):
		return warn("No such entry.")
	case errors.Is(err, wheel.ErrSpinning):
		return warn("Wait for the wheel to stop.")
	default:
		return Reply{Message: fmt.Sprintf("%s failed: %v", op, err), Level: LevelError}
	}
}
