package style

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
)

var ErrColor = errors.New("invalid color")

// Color is a straight (non premultiplied) RGBA color with components in
// [0, 1].
type Color struct {
	R, G, B, A float64
}

var (
	Black = Color{0, 0, 0, 1}
	White = Color{1, 1, 1, 1}
)

// RGB creates an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// ParseHex parses "#rgb", "#rgba", "#rrggbb" and "#rrggbbaa" (the leading
// '#' is optional).
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	var r, g, b, a uint32
	a = 255

	var err error
	switch len(hex) {
	case 3, 4:
		for i, dst := range []*uint32{&r, &g, &b, &a}[:len(hex)] {
			if *dst, err = parseHex(hex[i : i+1]); err != nil {
				return Color{}, fmt.Errorf("%w: %q", ErrColor, s)
			}
			*dst *= 17
		}
	case 6, 8:
		for i, dst := range []*uint32{&r, &g, &b, &a}[:len(hex)/2] {
			if *dst, err = parseHex(hex[i*2 : i*2+2]); err != nil {
				return Color{}, fmt.Errorf("%w: %q", ErrColor, s)
			}
		}
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrColor, s)
	}

	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, nil
}

// MustHex is ParseHex for literals known to be valid.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(s string) (uint32, error) {
	var v uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		v *= 16
		switch {
		case '0' <= c && c <= '9':
			v += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			v += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			v += uint32(c - 'A' + 10)
		default:
			return 0, ErrColor
		}
	}
	return v, nil
}

// WithAlpha returns c with its alpha multiplied by alpha.
func (c Color) WithAlpha(alpha float64) Color {
	c.A = clamp01(c.A * alpha)
	return c
}

// NRGBA converts to the standard library color model.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

// Hex formats the color as #rrggbb, or #rrggbbaa when translucent.
func (c Color) Hex() string {
	n := c.NRGBA()
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// CSS formats the color for an SVG fill or stroke attribute.
func (c Color) CSS() string {
	n := c.NRGBA()
	return fmt.Sprintf("rgb(%d,%d,%d)", n.R, n.G, n.B)
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.Hex() }

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
