package spin

import "math"

// pointerOffset aligns the fixed top pointer with the start of segment 0.
const pointerOffset = 180.0

// boundaryTolerance absorbs floating point error when an angle sits exactly on a segment start.
const boundaryTolerance = 1e-6

// SegmentWidth returns the angular width of one segment in degrees.
//
// Precondition: n > 0.
func SegmentWidth(n int) float64 {
	return 360.0 / float64(n)
}

// SegmentOffset returns the rotation that places the start of segment i under the pointer.
//
// Precondition: n > 0.
// Postcondition: Returns 180 + i*(360/n).
func SegmentOffset(i, n int) float64 {
	return pointerOffset + float64(i)*SegmentWidth(n)
}

// SegmentAt returns the index of the segment under the pointer when the wheel
// rests at angle. It is the inverse of SegmentOffset.
//
// Precondition: n > 0.
// Postcondition: 0 <= result < n.
func SegmentAt(angle float64, n int) int {
	rel := Normalize(angle - pointerOffset)
	idx := int(math.Floor(rel/SegmentWidth(n) + boundaryTolerance))
	return idx % n
}

// Normalize maps angle into [0, 360).
func Normalize(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
