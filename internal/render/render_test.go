package render

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"strings"
	"testing"

	"chartkit/internal/font"
	"chartkit/internal/style"

	"github.com/google/go-cmp/cmp"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"png":   PNG,
		"SVG":   SVG,
		".pdf":  PDF,
		" Png ": PNG,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("ParseFormat(gif) error = %v, want ErrUnknownFormat", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	got, err := FormatFromPath("out/plants.SVG")
	if err != nil || got != SVG {
		t.Fatalf("FormatFromPath() = %q, %v", got, err)
	}
	for _, p := range []string{"chart", "chart.jpeg"} {
		if _, err := FormatFromPath(p); !errors.Is(err, ErrUnknownFormat) {
			t.Fatalf("FormatFromPath(%q) error = %v, want ErrUnknownFormat", p, err)
		}
	}
}

func TestNewRejectsEmptySurface(t *testing.T) {
	for _, dims := range [][2]int{{0, 100}, {100, 0}, {-1, -1}} {
		_, err := New(PNG, dims[0], dims[1], nil)
		if !errors.Is(err, ErrNoDimensions) {
			t.Fatalf("New(%v) error = %v, want ErrNoDimensions", dims, err)
		}
	}
	if _, err := New("bmp", 10, 10, nil); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("New(bmp) error = %v, want ErrUnknownFormat", err)
	}
}

func draw(t *testing.T, s Surface) {
	t.Helper()
	s.SetColor(style.MustHex("#ff0000"))
	s.FillRect(0, 0, 40, 30)
	s.SetColor(style.Black)
	s.SetLineWidth(2)
	Line(s, 0, 50, 100, 50)
	Rect(s, 10, 10, 20, 20)
	if err := s.DrawText("Height <cm>", style.Font(12, style.AlignCenter), 50, 60, 0.5, 0.5, -90); err != nil {
		t.Fatalf("DrawText() error = %v", err)
	}
}

func TestPNGSurface(t *testing.T) {
	s, err := New(PNG, 120, 80, font.NewBook())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	draw(t, s)

	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Fatalf("bounds = %v, want 120x80", b)
	}
	r, g, b, a := img.At(5, 5).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 || a>>8 != 255 {
		t.Fatalf("pixel (5,5) = %d,%d,%d,%d, want opaque red", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestSVGSurface(t *testing.T) {
	s, err := New(SVG, 120, 80, font.NewBook())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	draw(t, s)

	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`width="120"`,
		`d="M0 0 h40 v30 h-40 Z"`,
		`fill:rgb(255,0,0)`,
		`d="M0 50 L100 50"`,
		`rotate(-90 50 60)`,
		`Height &lt;cm&gt;`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("svg output missing %q:\n%s", want, out)
		}
	}

	// a second encode yields the same document
	var again bytes.Buffer
	if err := s.Encode(&again); err != nil {
		t.Fatalf("second Encode() error = %v", err)
	}
	if again.String() != out {
		t.Fatalf("second Encode() differs")
	}
}

func TestSVGDrawAfterEncode(t *testing.T) {
	s, err := New(SVG, 120, 80, font.NewBook())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	draw(t, s)
	var first bytes.Buffer
	if err := s.Encode(&first); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	s.FillRect(50, 50, 10, 10)
	Line(s, 0, 0, 120, 80)
	if err := s.DrawText("late", style.Font(12, style.AlignLeft), 5, 5, 0, 0, 0); !errors.Is(err, ErrSurfaceClosed) {
		t.Fatalf("DrawText() after Encode error = %v, want ErrSurfaceClosed", err)
	}

	var second bytes.Buffer
	if err := s.Encode(&second); err != nil {
		t.Fatalf("second Encode() error = %v", err)
	}
	if second.String() != first.String() {
		t.Fatalf("drawing after Encode changed the document:\n%s", second.String())
	}
	if n := strings.Count(second.String(), "</svg>"); n != 1 {
		t.Fatalf("document has %d closing tags", n)
	}
}

func TestPDFSurface(t *testing.T) {
	s, err := New(PDF, 120, 80, font.NewBook())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	draw(t, s)

	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestMissingFontFails(t *testing.T) {
	for _, f := range Formats() {
		s, err := New(f, 50, 50, font.NewBook(t.TempDir()))
		if err != nil {
			t.Fatalf("New(%s) error = %v", f, err)
		}
		err = s.DrawText("x", style.FontStyle{Face: "nope.ttf", Size: 10}, 0, 0, 0, 0, 0)
		if !errors.Is(err, font.ErrFontNotFound) {
			t.Fatalf("%s DrawText() error = %v, want ErrFontNotFound", f, err)
		}
	}
}

type recorder struct {
	colors []style.Color
}

func (r *recorder) Format() Format              { return PNG }
func (r *recorder) Size() (float64, float64)    { return 10, 10 }
func (r *recorder) SetColor(c style.Color)      { r.colors = append(r.colors, c) }
func (r *recorder) SetLineWidth(float64)        {}
func (r *recorder) MoveTo(float64, float64)     {}
func (r *recorder) LineTo(float64, float64)     {}
func (r *recorder) Stroke()                     {}
func (r *recorder) FillRect(_, _, _, _ float64) {}
func (r *recorder) Encode(io.Writer) error      { return nil }
func (r *recorder) DrawText(string, style.FontStyle, float64, float64, float64, float64, style.Rotation) error {
	return nil
}

func TestOpacity(t *testing.T) {
	rec := &recorder{}
	if got := NewOpacity(rec, 1); got != Surface(rec) {
		t.Fatalf("NewOpacity(1) wrapped the surface")
	}

	s := NewOpacity(NewOpacity(rec, 0.5), 0.5)
	s.SetColor(style.White)
	s.SetColor(style.White.WithAlpha(0.5))

	want := []style.Color{{R: 1, G: 1, B: 1, A: 0.25}, {R: 1, G: 1, B: 1, A: 0.125}}
	if diff := cmp.Diff(want, rec.colors); diff != "" {
		t.Fatalf("colors mismatch (-want +got):\n%s", diff)
	}
}
