package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"chartkit/internal/font"
	"chartkit/internal/style"

	svg "github.com/ajstarks/svgo"
)

// svgSurface streams elements into a buffer; the document is closed on the
// first Encode and drawing after that is dropped. Geometry goes through path
// data so coordinates keep their fractional part.
type svgSurface struct {
	w, h   int
	book   *font.Book
	buf    bytes.Buffer
	canvas *svg.SVG
	closed bool

	color style.Color
	width float64
	path  strings.Builder
}

func newSVG(w, h int, book *font.Book) *svgSurface {
	s := &svgSurface{w: w, h: h, book: book, color: style.Black, width: 1}
	s.canvas = svg.New(&s.buf)
	s.canvas.Start(w, h)
	return s
}

func (s *svgSurface) Format() Format { return SVG }

func (s *svgSurface) Size() (float64, float64) { return float64(s.w), float64(s.h) }

func (s *svgSurface) SetColor(c style.Color) { s.color = c }
func (s *svgSurface) SetLineWidth(w float64) { s.width = w }

func (s *svgSurface) MoveTo(x, y float64) {
	fmt.Fprintf(&s.path, "M%s %s ", num(x), num(y))
}

func (s *svgSurface) LineTo(x, y float64) {
	if s.path.Len() == 0 {
		s.MoveTo(x, y)
		return
	}
	fmt.Fprintf(&s.path, "L%s %s ", num(x), num(y))
}

func (s *svgSurface) Stroke() {
	if s.path.Len() == 0 || s.closed {
		s.path.Reset()
		return
	}
	d := strings.TrimSpace(s.path.String())
	s.path.Reset()
	s.canvas.Path(d, fmt.Sprintf("fill:none;stroke:%s;stroke-opacity:%s;stroke-width:%s",
		s.color.CSS(), num(s.color.A), num(s.width)))
}

func (s *svgSurface) FillRect(x, y, w, h float64) {
	if s.closed {
		return
	}
	d := fmt.Sprintf("M%s %s h%s v%s h%s Z", num(x), num(y), num(w), num(h), num(-w))
	s.canvas.Path(d, fmt.Sprintf("fill:%s;fill-opacity:%s", s.color.CSS(), num(s.color.A)))
}

func (s *svgSurface) DrawText(text string, f style.FontStyle, x, y, ax, ay float64, rotation style.Rotation) error {
	if s.closed {
		return fmt.Errorf("svg text %q: %w", text, ErrSurfaceClosed)
	}
	f = f.Normalized()
	w, h, err := s.book.Measure(f, text, 0)
	if err != nil {
		return fmt.Errorf("svg text %q: %w", text, err)
	}
	tx, ty := x-ax*w, y+ay*h
	attrs := fmt.Sprintf("font-family:%s;font-size:%spx;fill:%s;fill-opacity:%s",
		family(f.Face), num(f.Size), s.color.CSS(), num(s.color.A))
	if strings.EqualFold(f.Face, "sans-bold") {
		attrs += ";font-weight:bold"
	}

	if rotation != 0 {
		s.canvas.Gtransform(fmt.Sprintf("rotate(%s %s %s)", num(rotation.Degrees()), num(x), num(y)))
		defer s.canvas.Gend()
	}
	s.canvas.Text(int(math.Round(tx)), int(math.Round(ty)), text, attrs)
	return nil
}

func (s *svgSurface) Encode(w io.Writer) error {
	if !s.closed {
		s.canvas.End()
		s.closed = true
	}
	_, err := w.Write(s.buf.Bytes())
	return err
}

// family maps a face name to a CSS font family.
func family(face string) string {
	switch strings.ToLower(face) {
	case "sans", "sans-serif", "sans-bold":
		return "sans-serif"
	case "serif":
		return "serif"
	case "mono":
		return "monospace"
	}
	name := strings.TrimSuffix(filepath.Base(face), filepath.Ext(face))
	return "'" + strings.ReplaceAll(name, "'", "") + "',sans-serif"
}

func num(v float64) string {
	v = math.Round(v*100)/100 + 0 // no "-0"
	return strconv.FormatFloat(v, 'f', -1, 64)
}
