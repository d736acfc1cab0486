package render

import (
	"fmt"
	"io"

	"chartkit/internal/font"
	"chartkit/internal/style"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
)

const (
	// mmPerPx converts CSS pixels (96 dpi) to the millimetres canvas works in.
	mmPerPx = 25.4 / 96
	ptPerPx = 0.75
)

// pdfSurface draws through tdewolff/canvas. Canvas has a bottom-left origin
// in millimetres, so every coordinate is flipped and scaled on the way in.
type pdfSurface struct {
	w, h     int
	book     *font.Book
	c        *canvas.Canvas
	ctx      *canvas.Context
	color    style.Color
	families map[string]*canvas.FontFamily
}

func newPDF(w, h int, book *font.Book) *pdfSurface {
	c := canvas.New(float64(w)*mmPerPx, float64(h)*mmPerPx)
	s := &pdfSurface{
		w:        w,
		h:        h,
		book:     book,
		c:        c,
		ctx:      canvas.NewContext(c),
		color:    style.Black,
		families: make(map[string]*canvas.FontFamily),
	}
	s.ctx.SetStrokeWidth(mmPerPx)
	return s
}

func (s *pdfSurface) Format() Format { return PDF }

func (s *pdfSurface) Size() (float64, float64) { return float64(s.w), float64(s.h) }

func (s *pdfSurface) pt(x, y float64) (float64, float64) {
	return x * mmPerPx, (float64(s.h) - y) * mmPerPx
}

func (s *pdfSurface) SetColor(c style.Color) {
	s.color = c
	s.ctx.SetStrokeColor(c.NRGBA())
	s.ctx.SetFillColor(c.NRGBA())
}

func (s *pdfSurface) SetLineWidth(w float64) { s.ctx.SetStrokeWidth(w * mmPerPx) }

func (s *pdfSurface) MoveTo(x, y float64) { s.ctx.MoveTo(s.pt(x, y)) }
func (s *pdfSurface) LineTo(x, y float64) { s.ctx.LineTo(s.pt(x, y)) }
func (s *pdfSurface) Stroke()             { s.ctx.Stroke() }

func (s *pdfSurface) FillRect(x, y, w, h float64) {
	s.ctx.MoveTo(s.pt(x, y))
	s.ctx.LineTo(s.pt(x+w, y))
	s.ctx.LineTo(s.pt(x+w, y+h))
	s.ctx.LineTo(s.pt(x, y+h))
	s.ctx.Close()
	s.ctx.Fill()
}

func (s *pdfSurface) family(face string) (*canvas.FontFamily, error) {
	if fam, ok := s.families[face]; ok {
		return fam, nil
	}
	data, err := s.book.Bytes(face)
	if err != nil {
		return nil, err
	}
	fam := canvas.NewFontFamily(face)
	if err := fam.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("failed to load font %s: %w", face, err)
	}
	s.families[face] = fam
	return fam, nil
}

func (s *pdfSurface) DrawText(text string, f style.FontStyle, x, y, ax, ay float64, rotation style.Rotation) error {
	f = f.Normalized()
	fam, err := s.family(f.Face)
	if err != nil {
		return fmt.Errorf("pdf text %q: %w", text, err)
	}
	w, h, err := s.book.Measure(f, text, 0)
	if err != nil {
		return fmt.Errorf("pdf text %q: %w", text, err)
	}

	face := fam.Face(f.Size*ptPerPx, s.color.NRGBA(), canvas.FontRegular, canvas.FontNormal)
	line := canvas.NewTextLine(face, text, canvas.Left)

	s.ctx.Push()
	defer s.ctx.Pop()
	if rotation != 0 {
		px, py := s.pt(x, y)
		// y is flipped, so the turn direction flips with it
		s.ctx.RotateAbout(-rotation.Degrees(), px, py)
	}
	tx, ty := s.pt(x-ax*w, y+ay*h)
	s.ctx.DrawText(tx, ty, line)
	return nil
}

func (s *pdfSurface) Encode(w io.Writer) error {
	return pdf.Writer(w, s.c)
}
