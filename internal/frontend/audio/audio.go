// Package audio plays short cues while the wheel spins. Audio is optional:
// every method is a no-op until Initialize succeeds.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	tickFreq     = 1320.0
	tickLength   = 15 * time.Millisecond
	chimeLength  = 120 * time.Millisecond
	bufferLength = 50 * time.Millisecond
)

// chimeNotes is a rising major arpeggio.
var chimeNotes = []float64{523.25, 659.25, 783.99, 1046.50}

// Player owns the speaker and a mixer all cues are added to.
type Player struct {
	mu          sync.Mutex
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer returns an uninitialised Player for the given sample rate.
func NewPlayer(sampleRate int) *Player {
	return &Player{
		sampleRate: beep.SampleRate(sampleRate),
		mixer:      &beep.Mixer{},
	}
}

// Initialize opens the speaker. Calling it again after success is a no-op.
//
// Postcondition: On error the Player stays silent and remains safe to use.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(bufferLength)); err != nil {
		return fmt.Errorf("initialising speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Enabled reports whether cues are audible.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Tick plays the short click of the pointer passing a segment divider.
func (p *Player) Tick() {
	p.play(func() (beep.Streamer, error) {
		return Tone(p.sampleRate, tickFreq, tickLength)
	})
}

// Chime plays the winner fanfare.
func (p *Player) Chime() {
	p.play(func() (beep.Streamer, error) {
		return Chime(p.sampleRate)
	})
}

func (p *Player) play(build func() (beep.Streamer, error)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	s, err := build()
	if err != nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences all cues and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

// Tone returns a sine tone of freq lasting d.
func Tone(sr beep.SampleRate, freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, fmt.Errorf("tone %gHz: %w", freq, err)
	}
	return beep.Take(sr.N(d), sine), nil
}

// Chime returns the winner fanfare as one streamer.
func Chime(sr beep.SampleRate) (beep.Streamer, error) {
	notes := make([]beep.Streamer, 0, len(chimeNotes))
	for _, f := range chimeNotes {
		s, err := Tone(sr, f, chimeLength)
		if err != nil {
			return nil, err
		}
		notes = append(notes, s)
	}
	return beep.Seq(notes...), nil
}
