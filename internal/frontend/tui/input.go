package tui

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wheel/internal/game/admin"
	"github.com/cory-johannsen/wheel/internal/game/command"
)

// HandleEvent applies one terminal event and reports whether the shell keeps running.
func (s *Shell) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return s.handleKey(ev)
	case *tcell.EventMouse:
		s.handleMouse(ev)
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

func (s *Shell) handleKey(ev *tcell.EventKey) bool {
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0
	if ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && ctrl && unicode.ToLower(ev.Rune()) == 'c') {
		return false
	}
	if s.app.KeyChord(chordKeys(ev)...) {
		return true
	}

	switch s.mode {
	case ModeConfirmReset:
		s.handleConfirm(ev)
		return true
	case ModeHelp:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyEnter || ev.Rune() == 'q' {
			s.mode = ModeMain
		}
		return true
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		s.escape()
	case tcell.KeyEnter:
		return s.submit()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(s.input) > 0 {
			s.input = s.input[:len(s.input)-1]
			s.syncPassword()
		}
	case tcell.KeyRune:
		if ctrl {
			break
		}
		s.input = append(s.input, ev.Rune())
		s.syncPassword()
	}
	return true
}

func (s *Shell) handleConfirm(ev *tcell.EventKey) {
	var yes bool
	switch {
	case ev.Key() == tcell.KeyRune && unicode.ToLower(ev.Rune()) == 'y':
		yes = true
	case ev.Key() == tcell.KeyRune && unicode.ToLower(ev.Rune()) == 'n', ev.Key() == tcell.KeyEscape:
	default:
		return
	}
	ctx, cancel := s.opContext()
	defer cancel()
	s.mode = ModeMain
	s.show(command.HandleResetConfirmed(ctx, s.app, yes))
}

func (s *Shell) escape() {
	switch s.mode {
	case ModePassword:
		s.mode = ModeAdmin
		s.input = s.input[:0]
	case ModeAdmin:
		s.mode = ModeMain
		s.input = s.input[:0]
	default:
		s.input = s.input[:0]
		s.app.ClearResult()
	}
}

func (s *Shell) syncPassword() {
	if s.mode == ModePassword {
		s.app.SetPasswordField(string(s.input))
	}
}

func (s *Shell) submit() bool {
	line := string(s.input)
	s.input = s.input[:0]

	switch s.mode {
	case ModePassword:
		s.mode = ModeAdmin
		s.show(command.HandleLogin(s.app, s.app.PasswordField()))
		return true
	case ModeMain:
		if strings.TrimSpace(line) == "" {
			s.show(command.HandleSpin(s.app))
			return true
		}
	}

	ctx, cancel := s.opContext()
	defer cancel()
	reply := s.dispatcher.Execute(ctx, line, s.mode == ModeAdmin)
	s.show(reply)

	switch reply.Action {
	case command.ActionQuit:
		return false
	case command.ActionConfirmReset:
		s.mode = ModeConfirmReset
	case command.ActionPromptPassword:
		s.mode = ModePassword
		s.app.SetPasswordField("")
	case command.ActionShowHelp:
		s.mode = ModeHelp
	case command.ActionCloseAdmin:
		s.mode = ModeMain
	}
	return true
}

func (s *Shell) show(r command.Reply) {
	if r.Message == "" {
		return
	}
	if r.Level == command.LevelError {
		s.logger.Error("command failed", zap.String("message", r.Message))
	}
	s.setStatus(r.Level, r.Message)
}

// handleMouse counts a primary-button press on the title as one activation
// of the unlock element.
func (s *Shell) handleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0
	if pressed && !s.mouseDown {
		x, y := ev.Position()
		if s.titleSpan.contains(x, y) {
			s.app.Activate()
		}
	}
	s.mouseDown = pressed
}

// chordKeys lists the keys held for one key event. Terminals report
// modifiers with each press, so every event is a complete snapshot.
func chordKeys(ev *tcell.EventKey) []admin.Key {
	mods := ev.Modifiers()
	keys := make([]admin.Key, 0, 4)
	if mods&tcell.ModCtrl != 0 {
		keys = append(keys, admin.KeyCtrl)
	}
	if mods&tcell.ModShift != 0 {
		keys = append(keys, admin.KeyShift)
	}
	if mods&tcell.ModAlt != 0 {
		keys = append(keys, admin.KeyAlt)
	}
	if mods&tcell.ModMeta != 0 {
		keys = append(keys, admin.KeyMeta)
	}

	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		r := ev.Rune()
		if unicode.IsUpper(r) {
			keys = append(keys, admin.KeyShift)
		}
		keys = append(keys, admin.CharKey(r))
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ && mods&tcell.ModCtrl != 0:
		keys = append(keys, admin.CharKey(rune('a'+int(k-tcell.KeyCtrlA))))
	}
	return keys
}
