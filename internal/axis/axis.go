// Package axis computes display windows, intercept geometry and pixel
// positions for chart axes.
//
// An Axis is built once per render pass from already collected values and is
// immutable afterwards, apart from the non-owning reference to the axis it
// intercepts. All operations are pure and safe for concurrent use.
package axis

import (
	"math"
	"strconv"
)

type Kind int

const (
	Numeric Kind = iota + 1
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Perpendicular returns the other orientation.
func (o Orientation) Perpendicular() Orientation {
	if o == Vertical {
		return Horizontal
	}
	return Vertical
}

// Point is a position in pixel space with a top-left origin.
type Point struct {
	X float64
	Y float64
}

// Config describes an axis before construction.
type Config struct {
	Kind        Kind
	Orientation Orientation
	// Length is the pixel length available to the axis.
	Length float64
	// Steps is the number of gridline intervals on the dominant side.
	// Zero selects DefaultSteps.
	Steps int
	// Values feed a numeric axis.
	Values []float64
	// Labels feed a categorical axis, in display order.
	Labels []string
	// Bucket centres categorical positions inside their cells.
	Bucket bool
}

// Axis is a laid out axis.
type Axis struct {
	kind        Kind
	orientation Orientation
	length      float64
	steps       int
	bucket      bool
	values      []float64
	labels      []string
	index       map[string]int

	window Window
	ratio  float64
	zero   float64

	intercept *Axis
}

// New validates cfg and computes the axis window, intercept ratio and zero
// offset.
func New(cfg Config) (*Axis, error) {
	if math.IsNaN(cfg.Length) || math.IsInf(cfg.Length, 0) || cfg.Length <= 0 {
		return nil, configErr("length", "must be positive, got %v", cfg.Length)
	}
	steps := cfg.Steps
	if steps == 0 {
		steps = DefaultSteps
	}
	if steps < 0 {
		return nil, configErr("steps", "must be positive, got %d", cfg.Steps)
	}
	if cfg.Orientation != Horizontal && cfg.Orientation != Vertical {
		return nil, configErr("orientation", "unknown orientation %d", int(cfg.Orientation))
	}

	a := &Axis{
		kind:        cfg.Kind,
		orientation: cfg.Orientation,
		length:      cfg.Length,
		steps:       steps,
		bucket:      cfg.Bucket,
	}

	switch cfg.Kind {
	case Numeric:
		if len(cfg.Labels) > 0 {
			return nil, configErr("labels", "numeric axis cannot take category labels")
		}
		if len(cfg.Values) == 0 {
			return nil, configErr("values", "numeric axis has no values")
		}
		for i, v := range cfg.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, configErr("values", "value %d is not finite", i)
			}
		}
		a.values = append([]float64(nil), cfg.Values...)
		a.window = ComputeWindow(a.values, steps)
	case Categorical:
		if len(cfg.Values) > 0 {
			return nil, configErr("values", "categorical axis cannot take numeric values")
		}
		if len(cfg.Labels) == 0 {
			return nil, configErr("labels", "categorical axis has no categories")
		}
		a.labels = append([]string(nil), cfg.Labels...)
		a.index = make(map[string]int, len(a.labels))
		for i, l := range a.labels {
			if _, dup := a.index[l]; dup {
				return nil, configErr("labels", "duplicate category %q", l)
			}
			a.index[l] = i
		}
		a.window = CategoryWindow(len(a.labels))
	default:
		return nil, configErr("kind", "unknown axis kind %s", cfg.Kind)
	}

	a.ratio = ComputeIntercept(a.window)
	if a.kind == Numeric {
		a.zero = RelativeZero(a.window, a.ratio, a.length)
	}
	return a, nil
}

func (a *Axis) Kind() Kind               { return a.kind }
func (a *Axis) Orientation() Orientation { return a.orientation }
func (a *Axis) Length() float64          { return a.length }
func (a *Axis) Steps() int               { return a.steps }
func (a *Axis) Bucket() bool             { return a.bucket }
func (a *Axis) Window() Window           { return a.window }
func (a *Axis) Ratio() float64           { return a.ratio }
func (a *Axis) Zero() float64            { return a.zero }
func (a *Axis) Labels() []string         { return append([]string(nil), a.labels...) }
func (a *Axis) Values() []float64        { return append([]float64(nil), a.values...) }
func (a *Axis) Intercepting() *Axis      { return a.intercept }
func (a *Axis) Numeric() bool            { return a.kind == Numeric }
func (a *Axis) Horizontal() bool         { return a.orientation == Horizontal }
func (a *Axis) String() string           { return a.kind.String() + "/" + a.orientation.String() }

// Contains reports whether label is one of the axis categories.
func (a *Axis) Contains(label string) bool {
	_, ok := a.index[label]
	return ok
}

// Intercept records the perpendicular axis. The reference is only used to
// read the other axis' zero offset.
func (a *Axis) Intercept(other *Axis) {
	a.intercept = other
}

// Link makes two axes intercept each other.
func Link(a, b *Axis) {
	a.Intercept(b)
	b.Intercept(a)
}

// CellWidth is the width of one category cell. Numeric axes report the
// length of one step.
func (a *Axis) CellWidth() float64 {
	if a.kind == Categorical {
		return a.length / float64(len(a.labels))
	}
	return a.unit() * a.Increment()
}

// Increment is the value distance between two whole ticks.
func (a *Axis) Increment() float64 {
	if a.kind == Categorical {
		return 1
	}
	return a.window.Dominant() / float64(a.steps)
}

func (a *Axis) unit() float64 {
	ext := a.window.Extent()
	if ext == 0 {
		return 0
	}
	return a.length / ext
}

// Position maps a value to a pixel offset along the axis, measured from the
// axis origin. On categorical axes the value is a category index.
func (a *Axis) Position(value float64) float64 {
	if a.kind == Categorical {
		pos := value * a.CellWidth()
		if a.bucket {
			pos += a.CellWidth() / 2
		}
		return pos
	}
	return a.zero + value*a.unit()
}

// PositionOf maps a category label to a pixel offset along the axis.
func (a *Axis) PositionOf(label string) (float64, error) {
	i, ok := a.index[label]
	if !ok {
		return 0, &LookupError{Label: label}
	}
	return a.Position(float64(i)), nil
}

// IndexOf returns the position of label in the category sequence.
func (a *Axis) IndexOf(label string) (int, error) {
	i, ok := a.index[label]
	if !ok {
		return -1, &LookupError{Label: label}
	}
	return i, nil
}

// Point converts an along-axis offset into pixel space. Vertical axes grow
// upward, so the Y coordinate decreases as the offset increases.
func (a *Axis) Point(origin Point, offset float64) Point {
	if a.orientation == Vertical {
		return Point{X: origin.X, Y: origin.Y - offset}
	}
	return Point{X: origin.X + offset, Y: origin.Y}
}

// InterceptOffset is where the intercepting axis sits along this axis: the
// zero line of a numeric axis, or the origin of a categorical one.
func (a *Axis) InterceptOffset() float64 {
	return a.zero
}
