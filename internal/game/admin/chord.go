package admin

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Key names one physical key: a modifier or a lowercase character.
type Key string

// Modifier keys.
const (
	KeyCtrl  Key = "ctrl"
	KeyShift Key = "shift"
	KeyAlt   Key = "alt"
	KeyMeta  Key = "meta"
)

var modifiers = map[Key]bool{KeyCtrl: true, KeyShift: true, KeyAlt: true, KeyMeta: true}

// CharKey returns the Key for a printable character, case-folded.
func CharKey(r rune) Key {
	return Key(strings.ToLower(string(r)))
}

// Chord is a set of keys that must be held simultaneously.
type Chord []Key

// ErrInvalidChord is returned for chords that cannot be parsed.
var ErrInvalidChord = errors.New("invalid key chord")

// ParseChord parses a chord such as "ctrl+shift+a".
//
// Postcondition: Returns a sorted, duplicate-free Chord with at least one
// modifier and exactly one character key, or an error wrapping ErrInvalidChord.
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	seen := make(map[Key]bool, len(parts))
	var chord Chord
	chars := 0
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("%w %q: empty key", ErrInvalidChord, s)
		}
		k := Key(p)
		if !modifiers[k] {
			if utf8.RuneCountInString(p) != 1 {
				return nil, fmt.Errorf("%w %q: unknown key %q", ErrInvalidChord, s, p)
			}
			chars++
		}
		if seen[k] {
			return nil, fmt.Errorf("%w %q: duplicate key %q", ErrInvalidChord, s, p)
		}
		seen[k] = true
		chord = append(chord, k)
	}
	if chars != 1 || len(chord) < 2 {
		return nil, fmt.Errorf("%w %q: need modifiers plus exactly one character key", ErrInvalidChord, s)
	}
	sort.Slice(chord, func(i, j int) bool { return chord[i] < chord[j] })
	return chord, nil
}

// String renders the chord as "ctrl+shift+a" with modifiers first.
func (c Chord) String() string {
	mods := make([]string, 0, len(c))
	var rest []string
	for _, k := range c {
		if modifiers[k] {
			mods = append(mods, string(k))
		} else {
			rest = append(rest, string(k))
		}
	}
	return strings.Join(append(mods, rest...), "+")
}

// ChordDetector tracks which keys are held and reports when the chord is
// complete. Every check reads the held set as updated by the event being
// handled, never a copy taken before it.
type ChordDetector struct {
	chord Chord
	held  map[Key]bool
}

// NewChordDetector returns a detector for chord with no keys held.
//
// Precondition: chord must come from ParseChord.
func NewChordDetector(chord Chord) *ChordDetector {
	return &ChordDetector{chord: chord, held: make(map[Key]bool)}
}

// Chord returns the chord being detected.
func (d *ChordDetector) Chord() Chord { return d.chord }

// KeyDown marks k held and reports whether the chord is now fully held.
func (d *ChordDetector) KeyDown(k Key) bool {
	d.held[k] = true
	return d.matches()
}

// KeyUp marks k released.
func (d *ChordDetector) KeyUp(k Key) {
	delete(d.held, k)
}

// Snapshot replaces the held set with keys and reports whether the chord is
// fully held. Terminals report modifiers with each key press and never report
// releases, so the shell passes one snapshot per key event.
func (d *ChordDetector) Snapshot(keys ...Key) bool {
	d.held = make(map[Key]bool, len(keys))
	for _, k := range keys {
		d.held[k] = true
	}
	return d.matches()
}

// Reset releases every key.
func (d *ChordDetector) Reset() {
	d.held = make(map[Key]bool)
}

func (d *ChordDetector) matches() bool {
	for _, k := range d.chord {
		if !d.held[k] {
			return false
		}
	}
	return true
}
