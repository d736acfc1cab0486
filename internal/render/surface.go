package render

import (
	"errors"
	"fmt"
	"io"

	"chartkit/internal/font"
	"chartkit/internal/style"
)

var (
	ErrNoDimensions  = errors.New("surface has no dimensions")
	// ErrSurfaceClosed is returned when drawing on an encoded SVG surface.
	ErrSurfaceClosed = errors.New("surface already encoded")
)

// Surface is a pixel-addressed drawing target with a top-left origin.
//
// DrawText anchors the text box like gg does: ax is the fraction of the
// width left of x, ay the fraction of the height below the baseline at y.
// (0, 0) puts the baseline start at the point, (0.5, 0.5) centres the text.
// The box is rotated about (x, y); negative degrees turn counter-clockwise.
type Surface interface {
	Format() Format
	Size() (w, h float64)
	SetColor(c style.Color)
	SetLineWidth(w float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()
	FillRect(x, y, w, h float64)
	DrawText(text string, f style.FontStyle, x, y, ax, ay float64, rotation style.Rotation) error
	Encode(w io.Writer) error
}

// New creates an empty surface of w x h pixels.
func New(format Format, w, h int, book *font.Book) (Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrNoDimensions, w, h)
	}
	if book == nil {
		book = font.NewBook()
	}
	switch format {
	case PNG:
		return newPNG(w, h, book), nil
	case SVG:
		return newSVG(w, h, book), nil
	case PDF:
		return newPDF(w, h, book), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

type opacity struct {
	Surface
	alpha float64
}

// NewOpacity scales the alpha of every colour set on s by alpha (0..1).
func NewOpacity(s Surface, alpha float64) Surface {
	if alpha >= 1 {
		return s
	}
	if o, ok := s.(*opacity); ok {
		return &opacity{Surface: o.Surface, alpha: o.alpha * alpha}
	}
	return &opacity{Surface: s, alpha: alpha}
}

func (o *opacity) SetColor(c style.Color) {
	o.Surface.SetColor(c.WithAlpha(o.alpha))
}

// Rect strokes the outline of a rectangle.
func Rect(s Surface, x, y, w, h float64) {
	s.MoveTo(x, y)
	s.LineTo(x+w, y)
	s.LineTo(x+w, y+h)
	s.LineTo(x, y+h)
	s.LineTo(x, y)
	s.Stroke()
}

// Line strokes a single segment.
func Line(s Surface, x1, y1, x2, y2 float64) {
	s.MoveTo(x1, y1)
	s.LineTo(x2, y2)
	s.Stroke()
}
