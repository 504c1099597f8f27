package spin

// The wheel decelerates along cubic-bezier(0.32, 0.94, 0.60, 1).
const (
	easeX1 = 0.32
	easeY1 = 0.94
	easeX2 = 0.60
	easeY2 = 1.0
)

// Ease maps linear progress p in [0, 1] onto the easing curve.
//
// Postcondition: Ease(0) == 0, Ease(1) == 1, and Ease is non-decreasing.
func Ease(p float64) float64 {
	switch {
	case p <= 0:
		return 0
	case p >= 1:
		return 1
	}
	return bezier(solveX(p), easeY1, easeY2)
}

// bezier evaluates one axis of a cubic bezier anchored at 0 and 1.
func bezier(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
}

func bezierSlope(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*p1 + 6*u*t*(p2-p1) + 3*t*t*(1-p2)
}

// solveX finds the curve parameter t whose x coordinate equals x.
func solveX(x float64) float64 {
	t := x
	for i := 0; i < 8; i++ {
		d := bezier(t, easeX1, easeX2) - x
		if (d > -1e-7 && d < 1e-7) && t >= 0 && t <= 1 {
			return t
		}
		s := bezierSlope(t, easeX1, easeX2)
		if s > -1e-6 && s < 1e-6 {
			break
		}
		t -= d / s
		if t < 0 || t > 1 {
			break
		}
	}

	// Newton did not converge; fall back to bisection, which always does since x(t) is monotonic.
	lo, hi := 0.0, 1.0
	t = x
	for i := 0; i < 50; i++ {
		v := bezier(t, easeX1, easeX2)
		if v > x-1e-7 && v < x+1e-7 {
			return t
		}
		if v < x {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return t
}
