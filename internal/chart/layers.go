package chart

import (
	"context"
	"errors"
	"fmt"

	"chartkit/internal/render"
	"chartkit/internal/style"
)

var (
	ErrLayerNotFound  = errors.New("layer not found")
	ErrDuplicateLayer = errors.New("duplicate layer")
)

// Rect is an axis-aligned box in pixels, top-left origin.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Intersects reports whether r and o overlap by more than an edge.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Layer is one drawable slice of a chart.
type Layer interface {
	// Bounds is the area the layer paints into.
	Bounds() Rect
	Render(s render.Surface) error
}

// Styled layers carry an Enabled flag and a transparency.
type Styled interface {
	LayerStyle() style.Layer
}

type namedLayer struct {
	name  string
	layer Layer
}

// LayerManager is an ordered stack of named layers. Index 0 is the bottom
// and is painted first.
type LayerManager struct {
	layers []namedLayer
}

func NewLayerManager() *LayerManager {
	return &LayerManager{}
}

// New pushes a layer on top of the stack.
func (m *LayerManager) New(name string, l Layer) error {
	if m.Has(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateLayer, name)
	}
	m.layers = append(m.layers, namedLayer{name: name, layer: l})
	return nil
}

func (m *LayerManager) index(name string) int {
	for i, l := range m.layers {
		if l.name == name {
			return i
		}
	}
	return -1
}

func (m *LayerManager) Get(name string) (Layer, bool) {
	i := m.index(name)
	if i < 0 {
		return nil, false
	}
	return m.layers[i].layer, true
}

func (m *LayerManager) Has(name string) bool { return m.index(name) >= 0 }

func (m *LayerManager) Len() int { return len(m.layers) }

// ZIndex is the stack position of a layer, 0 being the bottom.
func (m *LayerManager) ZIndex(name string) (int, error) {
	i := m.index(name)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", ErrLayerNotFound, name)
	}
	return i, nil
}

// Names lists layers from bottom to top.
func (m *LayerManager) Names() []string {
	names := make([]string, len(m.layers))
	for i, l := range m.layers {
		names[i] = l.name
	}
	return names
}

func (m *LayerManager) Remove(name string) error {
	i, err := m.ZIndex(name)
	if err != nil {
		return err
	}
	m.layers = append(m.layers[:i], m.layers[i+1:]...)
	return nil
}

func (m *LayerManager) move(name string, to func(i int) int) error {
	i, err := m.ZIndex(name)
	if err != nil {
		return err
	}
	j := to(i)
	if j < 0 {
		j = 0
	}
	if j >= len(m.layers) {
		j = len(m.layers) - 1
	}
	l := m.layers[i]
	m.layers = append(m.layers[:i], m.layers[i+1:]...)
	m.layers = append(m.layers[:j], append([]namedLayer{l}, m.layers[j:]...)...)
	return nil
}

// MoveToTop makes the layer paint last.
func (m *LayerManager) MoveToTop(name string) error {
	return m.move(name, func(int) int { return len(m.layers) - 1 })
}

// MoveToBottom makes the layer paint first.
func (m *LayerManager) MoveToBottom(name string) error {
	return m.move(name, func(int) int { return 0 })
}

func (m *LayerManager) MoveUp(name string) error {
	return m.move(name, func(i int) int { return i + 1 })
}

func (m *LayerManager) MoveDown(name string) error {
	return m.move(name, func(i int) int { return i - 1 })
}

// Collides reports whether two layers' bounds overlap.
func (m *LayerManager) Collides(a, b string) (bool, error) {
	la, ok := m.Get(a)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrLayerNotFound, a)
	}
	lb, ok := m.Get(b)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrLayerNotFound, b)
	}
	return la.Bounds().Intersects(lb.Bounds()), nil
}

// Within lists the layers whose bounds overlap r, bottom first.
func (m *LayerManager) Within(r Rect) []string {
	var names []string
	for _, l := range m.layers {
		if l.layer.Bounds().Intersects(r) {
			names = append(names, l.name)
		}
	}
	return names
}

// RenderAll paints every enabled layer bottom to top, each through its
// own opacity.
func (m *LayerManager) RenderAll(ctx context.Context, s render.Surface) error {
	for _, l := range m.layers {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := s
		if st, ok := l.layer.(Styled); ok {
			ls := st.LayerStyle()
			if !ls.Enabled {
				continue
			}
			target = render.NewOpacity(s, ls.Opacity())
		}
		if err := l.layer.Render(target); err != nil {
			return fmt.Errorf("layer %q: %w", l.name, err)
		}
	}
	return nil
}
