// Package tui is the full-screen terminal shell of the wheel. One goroutine
// owns the application state: it handles terminal events, frame ticks and
// timer callbacks posted through a Queue.
package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wheel/internal/game/command"
	"github.com/cory-johannsen/wheel/internal/game/spin"
	"github.com/cory-johannsen/wheel/internal/game/wheel"
)

const (
	defaultFrameInterval = 16 * time.Millisecond
	storageTimeout       = 2 * time.Second
	eventBuffer          = 100
)

// Queue carries callbacks from timer goroutines onto the shell's event loop.
type Queue chan func()

// NewQueue returns a Queue buffering size callbacks.
func NewQueue(size int) Queue {
	return make(Queue, size)
}

// Post enqueues fn. It blocks while the queue is full.
func (q Queue) Post(fn func()) {
	q <- fn
}

// Cues plays the audio feedback of a spin.
type Cues interface {
	Tick()
	Chime()
}

type silent struct{}

func (silent) Tick()  {}
func (silent) Chime() {}

// Mode is the dialog currently in front.
type Mode int

const (
	ModeMain Mode = iota
	ModeHelp
	ModeAdmin
	ModePassword
	ModeConfirmReset
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeMain:
		return "main"
	case ModeHelp:
		return "help"
	case ModeAdmin:
		return "admin"
	case ModePassword:
		return "password"
	case ModeConfirmReset:
		return "confirm-reset"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Options configures a Shell.
type Options struct {
	App        *wheel.App
	Dispatcher *command.Dispatcher
	// Queue must be the queue whose Post the App's clock delivers timer callbacks through.
	Queue Queue
	// Cues may be nil for a silent shell.
	Cues          Cues
	FrameInterval time.Duration
	Title         string
	Logger        *zap.Logger
}

// Shell renders the wheel and routes input to the application state.
// Start and Stop make it a server.Service.
type Shell struct {
	screen     tcell.Screen
	app        *wheel.App
	dispatcher *command.Dispatcher
	queue      Queue
	cues       Cues
	frame      time.Duration
	title      string
	logger     *zap.Logger

	mode        Mode
	input       []rune
	status      string
	level       command.Level
	titleSpan   span
	mouseDown   bool
	lastSegment int

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a Shell drawing on screen and registers its result and unlock
// callbacks on opts.App.
//
// Precondition: screen must be initialised; opts.App, opts.Dispatcher,
// opts.Queue and opts.Logger must be non-nil.
func New(screen tcell.Screen, opts Options) *Shell {
	s := &Shell{
		screen:      screen,
		app:         opts.App,
		dispatcher:  opts.Dispatcher,
		queue:       opts.Queue,
		cues:        opts.Cues,
		frame:       opts.FrameInterval,
		title:       opts.Title,
		logger:      opts.Logger,
		lastSegment: -1,
		stop:        make(chan struct{}),
	}
	if s.cues == nil {
		s.cues = silent{}
	}
	if s.frame <= 0 {
		s.frame = defaultFrameInterval
	}
	if s.title == "" {
		s.title = "WHEEL OF FORTUNE"
	}
	s.app.OnResult(s.onResult)
	s.app.OnUnlock(s.onUnlock)
	return s
}

// Mode returns the dialog in front.
func (s *Shell) Mode() Mode { return s.mode }

// Status returns the status line text.
func (s *Shell) Status() string { return s.status }

// Start runs the event loop until the user quits or Stop is called.
func (s *Shell) Start() error {
	s.screen.EnableMouse()
	defer s.screen.DisableMouse()

	events := make(chan tcell.Event, eventBuffer)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-s.stop:
				return
			}
		}
	}()

	ticker := time.NewTicker(s.frame)
	defer ticker.Stop()

	s.logger.Info("shell started", zap.Duration("frame_interval", s.frame))
	s.Draw()
	for {
		select {
		case ev := <-events:
			if !s.HandleEvent(ev) {
				s.logger.Info("shell quit by user")
				return nil
			}
			s.Draw()
		case fn := <-s.queue:
			fn()
			s.Draw()
		case <-ticker.C:
			if s.app.Spinning() {
				s.frameTick()
				s.Draw()
			}
		case <-s.stop:
			return nil
		}
	}
}

// Stop ends the event loop. It is safe to call more than once.
func (s *Shell) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// frameTick clicks once each time a new segment passes under the pointer.
func (s *Shell) frameTick() {
	n := len(s.app.Entries())
	if n == 0 {
		return
	}
	seg := spin.SegmentAt(s.app.Angle(), n)
	if seg != s.lastSegment {
		s.lastSegment = seg
		s.cues.Tick()
	}
}

func (s *Shell) onResult(o wheel.Outcome) {
	s.setStatus(command.LevelInfo, fmt.Sprintf("Winner: %s", o.Label))
	s.cues.Chime()
}

func (s *Shell) onUnlock() {
	if s.mode == ModeAdmin || s.mode == ModePassword {
		return
	}
	s.mode = ModeAdmin
	s.input = s.input[:0]
	s.setStatus(command.LevelInfo, "Admin access")
}

func (s *Shell) setStatus(level command.Level, msg string) {
	s.level = level
	s.status = msg
}

func (s *Shell) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storageTimeout)
}
