package render

import (
	"fmt"
	"io"

	"chartkit/internal/font"
	"chartkit/internal/style"

	"github.com/fogleman/gg"
	xfont "golang.org/x/image/font"
)

type faceKey struct {
	name string
	size float64
}

// pngSurface rasterises with gg. Faces come from the book but are owned by
// the surface, since a face must not be shared across goroutines.
type pngSurface struct {
	dc    *gg.Context
	book  *font.Book
	faces map[faceKey]xfont.Face
}

func newPNG(w, h int, book *font.Book) *pngSurface {
	return &pngSurface{
		dc:    gg.NewContext(w, h),
		book:  book,
		faces: make(map[faceKey]xfont.Face),
	}
}

func (s *pngSurface) Format() Format { return PNG }

func (s *pngSurface) Size() (float64, float64) {
	return float64(s.dc.Width()), float64(s.dc.Height())
}

func (s *pngSurface) SetColor(c style.Color) { s.dc.SetColor(c.NRGBA()) }
func (s *pngSurface) SetLineWidth(w float64) { s.dc.SetLineWidth(w) }
func (s *pngSurface) MoveTo(x, y float64)    { s.dc.MoveTo(x, y) }
func (s *pngSurface) LineTo(x, y float64)    { s.dc.LineTo(x, y) }
func (s *pngSurface) Stroke()                { s.dc.Stroke() }

func (s *pngSurface) FillRect(x, y, w, h float64) {
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Fill()
}

func (s *pngSurface) face(f style.FontStyle) (xfont.Face, error) {
	key := faceKey{f.Face, f.Size}
	if face, ok := s.faces[key]; ok {
		return face, nil
	}
	face, err := s.book.Face(f.Face, f.Size)
	if err != nil {
		return nil, err
	}
	s.faces[key] = face
	return face, nil
}

func (s *pngSurface) DrawText(text string, f style.FontStyle, x, y, ax, ay float64, rotation style.Rotation) error {
	f = f.Normalized()
	face, err := s.face(f)
	if err != nil {
		return fmt.Errorf("png text %q: %w", text, err)
	}
	s.dc.SetFontFace(face)
	s.dc.Push()
	defer s.dc.Pop()
	if rotation != 0 {
		s.dc.RotateAbout(gg.Radians(rotation.Degrees()), x, y)
	}
	s.dc.DrawStringAnchored(text, x, y, ax, ay)
	return nil
}

func (s *pngSurface) Encode(w io.Writer) error {
	return s.dc.EncodePNG(w)
}
