package style

import (
	"fmt"
	"strconv"
	"strings"
)

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Anchor returns the horizontal anchor (0 left, 0.5 centre, 1 right).
func (a Align) Anchor() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignRight:
		return 1
	default:
		return 0
	}
}

func (a Align) valid() bool {
	return a == AlignLeft || a == AlignCenter || a == AlignRight || a == ""
}

// FontStyle selects a face, a size in pixels and an alignment.
type FontStyle struct {
	Face  string  `mapstructure:"face" yaml:"face"`
	Size  float64 `mapstructure:"size" yaml:"size"`
	Align Align   `mapstructure:"align" yaml:"align"`
}

const (
	DefaultFace     = "sans"
	DefaultFontSize = 12.0
)

// Font returns a FontStyle with defaults filled in.
func Font(size float64, align Align) FontStyle {
	return FontStyle{Face: DefaultFace, Size: size, Align: align}
}

// Normalized fills zero fields with defaults.
func (f FontStyle) Normalized() FontStyle {
	if f.Face == "" {
		f.Face = DefaultFace
	}
	if f.Size <= 0 {
		f.Size = DefaultFontSize
	}
	if f.Align == "" {
		f.Align = AlignLeft
	}
	return f
}

// Rotation is a text rotation in degrees; negative values turn
// counter-clockwise on screen.
type Rotation float64

var namedRotations = map[string]Rotation{
	"horizontal": 0,
	"vertical":   -90,
	"diagonal":   -45,
}

// ParseRotation accepts a named rotation or a number of degrees.
func ParseRotation(s string) (Rotation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if r, ok := namedRotations[s]; ok {
		return r, nil
	}
	deg, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rotation %q", s)
	}
	return Rotation(deg), nil
}

// Degrees returns the rotation as a plain float.
func (r Rotation) Degrees() float64 { return float64(r) }
