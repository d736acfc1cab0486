package axis

// Window and intercept arithmetic.
// Mirrors the way spreadsheet charts pick bounds: the dominant extreme is
// rounded up to the next multiple of 5 below 100, and the minority side is
// snapped to the dominant side's step so gridlines land evenly on both sides
// of zero.

import "math"

const (
	// DefaultSteps is the number of gridline intervals on the dominant side.
	DefaultSteps = 4

	roundLimit = 100.0
	roundTo    = 5.0

	// guards ceil() against float noise, e.g. 10/(10/4) = 4.000000000000001
	epsilon = 1e-9
)

// Window is the [Min, Max] range an axis displays.
type Window struct {
	Min float64
	Max float64
}

// Extent is the total span of the window.
func (w Window) Extent() float64 { return w.Max - w.Min }

// Degenerate reports whether the window has no extent at all.
func (w Window) Degenerate() bool { return w.Min == 0 && w.Max == 0 }

// PositiveDominant reports whether the positive side is at least as large as
// the negative one.
func (w Window) PositiveDominant() bool { return w.Max >= math.Abs(w.Min) }

// Dominant returns the magnitude of the dominant bound.
func (w Window) Dominant() float64 {
	return math.Max(w.Max, math.Abs(w.Min))
}

// ComputeWindow derives display bounds for numeric values.
func ComputeWindow(values []float64, steps int) Window {
	if steps <= 0 {
		steps = DefaultSteps
	}
	pos, neg := partition(values)

	max := safeMax(pos)
	if max < roundLimit {
		max = roundUp(max, roundTo)
	}
	min := safeMin(neg)
	if math.Abs(min) < roundLimit {
		min = -roundUp(math.Abs(min), roundTo)
	}
	if min == 0 {
		// avoid -0 leaking into labels
		min = 0
	}

	if min != 0 && max != 0 {
		if math.Abs(min) <= max {
			min = -snap(math.Abs(min), max/float64(steps))
		} else {
			max = snap(max, math.Abs(min)/float64(steps))
		}
	}
	return Window{Min: min, Max: max}
}

// CategoryWindow sizes a categorical window to the number of categories.
func CategoryWindow(n int) Window {
	if n < 0 {
		n = 0
	}
	return Window{Min: 0, Max: float64(n)}
}

// ComputeIntercept returns how many units of the dominant quadrant
// correspond to one unit of the minority quadrant.
func ComputeIntercept(w Window) float64 {
	switch {
	case w.Min == 0:
		return w.Max
	case w.Max == 0:
		return math.Abs(w.Min)
	}
	lo, hi := math.Abs(w.Min), w.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	return hi / lo
}

// RelativeZero returns the pixel offset of the zero line from the start of
// an axis of the given length.
func RelativeZero(w Window, ratio, length float64) float64 {
	switch {
	case w.Min >= 0:
		return 0
	case w.Max <= 0:
		return length
	}
	part := length / (ratio + 1)
	if w.PositiveDominant() {
		return part
	}
	return part * ratio
}

func partition(values []float64) (pos, neg []float64) {
	for _, v := range values {
		switch {
		case v > 0:
			pos = append(pos, v)
		case v < 0:
			neg = append(neg, v)
		}
	}
	return pos, neg
}

func safeMax(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func safeMin(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// roundUp rounds a non-negative value up to the next multiple of nearest.
func roundUp(v, nearest float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Max(math.Ceil(v/nearest-epsilon), 1) * nearest
}

// snap rescales a magnitude to an integer multiple of step. It rounds up
// so the snapped side still contains its data.
func snap(v, step float64) float64 {
	if step <= 0 || v <= 0 {
		return v
	}
	return math.Max(math.Ceil(v/step-epsilon), 1) * step
}
