package chart

import (
	"context"
	"errors"
	"io"
	"testing"

	"chartkit/internal/render"
	"chartkit/internal/style"

	"github.com/google/go-cmp/cmp"
)

// canvas records what a chart draws.
type canvas struct {
	colors []style.Color
	fills  []Rect
	texts  []string
	lines  int
}

func (c *canvas) Format() render.Format       { return render.PNG }
func (c *canvas) Size() (float64, float64)    { return 400, 300 }
func (c *canvas) SetColor(col style.Color)    { c.colors = append(c.colors, col) }
func (c *canvas) SetLineWidth(float64)        {}
func (c *canvas) MoveTo(float64, float64)     {}
func (c *canvas) LineTo(float64, float64)     {}
func (c *canvas) Stroke()                     { c.lines++ }
func (c *canvas) FillRect(x, y, w, h float64) { c.fills = append(c.fills, Rect{x, y, w, h}) }
func (c *canvas) Encode(io.Writer) error      { return nil }
func (c *canvas) DrawText(text string, _ style.FontStyle, _, _, _, _ float64, _ style.Rotation) error {
	c.texts = append(c.texts, text)
	return nil
}

type box struct {
	bounds Rect
	layer  style.Layer
	err    error
	drawn  *[]string
	name   string
}

func (b *box) Bounds() Rect            { return b.bounds }
func (b *box) LayerStyle() style.Layer { return b.layer }
func (b *box) Render(s render.Surface) error {
	*b.drawn = append(*b.drawn, b.name)
	s.SetColor(style.Black)
	return b.err
}

func stack(t *testing.T, names ...string) (*LayerManager, *[]string) {
	t.Helper()
	m := NewLayerManager()
	drawn := &[]string{}
	for i, n := range names {
		l := &box{
			bounds: Rect{X: float64(i * 10), W: 15, H: 10},
			layer:  style.Layer{Enabled: true, Transparency: 100},
			drawn:  drawn,
			name:   n,
		}
		if err := m.New(n, l); err != nil {
			t.Fatalf("New(%q) error = %v", n, err)
		}
	}
	return m, drawn
}

func TestLayerOrdering(t *testing.T) {
	m, _ := stack(t, "a", "b", "c", "d")

	if err := m.New("a", &box{}); !errors.Is(err, ErrDuplicateLayer) {
		t.Fatalf("New(duplicate) error = %v, want ErrDuplicateLayer", err)
	}

	steps := []struct {
		move func(string) error
		name string
		want []string
	}{
		{m.MoveToTop, "a", []string{"b", "c", "d", "a"}},
		{m.MoveToBottom, "d", []string{"d", "b", "c", "a"}},
		{m.MoveUp, "b", []string{"d", "c", "b", "a"}},
		{m.MoveDown, "d", []string{"d", "c", "b", "a"}},
		{m.MoveUp, "a", []string{"d", "c", "b", "a"}},
	}
	for _, st := range steps {
		if err := st.move(st.name); err != nil {
			t.Fatalf("move(%q) error = %v", st.name, err)
		}
		if diff := cmp.Diff(st.want, m.Names()); diff != "" {
			t.Fatalf("after moving %q (-want +got):\n%s", st.name, diff)
		}
	}

	if z, err := m.ZIndex("b"); err != nil || z != 2 {
		t.Fatalf("ZIndex(b) = %d, %v", z, err)
	}
	if err := m.Remove("c"); err != nil {
		t.Fatalf("Remove(c) error = %v", err)
	}
	if err := m.MoveUp("c"); !errors.Is(err, ErrLayerNotFound) {
		t.Fatalf("MoveUp(removed) error = %v, want ErrLayerNotFound", err)
	}
	if m.Has("c") || m.Len() != 3 {
		t.Fatalf("Remove(c) left %v", m.Names())
	}
}

func TestLayerCollisions(t *testing.T) {
	m, _ := stack(t, "a", "b", "c")
	if hit, err := m.Collides("a", "b"); err != nil || !hit {
		t.Fatalf("Collides(a, b) = %v, %v; want true", hit, err)
	}
	if hit, err := m.Collides("a", "c"); err != nil || hit {
		t.Fatalf("Collides(a, c) = %v, %v; want false", hit, err)
	}
	if _, err := m.Collides("a", "zz"); !errors.Is(err, ErrLayerNotFound) {
		t.Fatalf("Collides(a, zz) error = %v", err)
	}
	if diff := cmp.Diff([]string{"b", "c"}, m.Within(Rect{X: 22, Y: 2, W: 1, H: 1})); diff != "" {
		t.Fatalf("Within() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderAll(t *testing.T) {
	m, drawn := stack(t, "a", "b", "c")
	b, _ := m.Get("b")
	b.(*box).layer.Enabled = false
	c, _ := m.Get("c")
	c.(*box).layer.Transparency = 50

	cv := &canvas{}
	if err := m.RenderAll(context.Background(), cv); err != nil {
		t.Fatalf("RenderAll() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, *drawn); diff != "" {
		t.Fatalf("drawn layers mismatch (-want +got):\n%s", diff)
	}
	want := []style.Color{style.Black, style.Black.WithAlpha(0.5)}
	if diff := cmp.Diff(want, cv.colors); diff != "" {
		t.Fatalf("colors mismatch (-want +got):\n%s", diff)
	}

	boom := errors.New("boom")
	a, _ := m.Get("a")
	a.(*box).err = boom
	if err := m.RenderAll(context.Background(), cv); !errors.Is(err, boom) {
		t.Fatalf("RenderAll() error = %v, want boom", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.RenderAll(ctx, cv); !errors.Is(err, context.Canceled) {
		t.Fatalf("RenderAll(cancelled) error = %v", err)
	}
}
