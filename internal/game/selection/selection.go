// Package selection decides which entry wins the next spin.
package selection

import "github.com/cory-johannsen/wheel/internal/random"

// SelectWinner returns the winning index for a wheel of entryCount entries.
//
// The preset index is honoured only when adminActive is true, preset is
// non-nil and 0 <= *preset < entryCount. In every other case the winner is
// drawn uniformly from [0, entryCount) using src. An empty wheel yields 0;
// callers never spin an empty wheel.
//
// Precondition: src must be non-nil.
// Postcondition: 0 <= result < entryCount whenever entryCount > 0.
func SelectWinner(entryCount int, adminActive bool, preset *int, src random.Source) int {
	if entryCount <= 0 {
		return 0
	}
	if forced, ok := Forced(entryCount, adminActive, preset); ok {
		return forced
	}
	return src.Intn(entryCount)
}

// Forced reports the preset index and true when it applies to a wheel of entryCount entries.
func Forced(entryCount int, adminActive bool, preset *int) (int, bool) {
	if !adminActive || preset == nil {
		return 0, false
	}
	if *preset < 0 || *preset >= entryCount {
		return 0, false
	}
	return *preset, true
}
