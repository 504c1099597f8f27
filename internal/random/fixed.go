package random

import "sync"

// Fixed is a deterministic Source that replays preset values. Intn values are
// reduced modulo n; Float64 values are returned as given.
// It is intended for tests.
type Fixed struct {
	mu     sync.Mutex
	ints   []int
	floats []float64
	ii, fi int
}

// NewFixed returns a Fixed source cycling through ints and floats.
//
// Precondition: ints must be non-empty if Intn is called; floats likewise for Float64.
func NewFixed(ints []int, floats []float64) *Fixed {
	return &Fixed{ints: ints, floats: floats}
}

// Intn returns the next preset int modulo n.
func (f *Fixed) Intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.ints[f.ii%len(f.ints)] % n
	f.ii++
	return v
}

// Float64 returns the next preset float.
func (f *Fixed) Float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.floats[f.fi%len(f.floats)]
	f.fi++
	return v
}
