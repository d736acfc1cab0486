package chart

import (
	"math"

	"chartkit/internal/font"
	"chartkit/internal/render"
	"chartkit/internal/style"
)

// Background fills the whole canvas.
type Background struct {
	scheme style.BackgroundStyle
	bounds Rect
}

func (b *Background) LayerStyle() style.Layer { return b.scheme.Layer }
func (b *Background) Bounds() Rect            { return b.bounds }

func (b *Background) Render(s render.Surface) error {
	s.SetColor(b.scheme.Color)
	s.FillRect(b.bounds.X, b.bounds.Y, b.bounds.W, b.bounds.H)
	return nil
}

// Title is the centred chart heading.
type Title struct {
	text   string
	scheme style.TitleStyle
	bounds Rect
}

func newTitle(text string, sc style.TitleStyle, width float64, book *font.Book) (*Title, error) {
	t := &Title{text: text, scheme: sc}
	// the heading is always centred
	t.scheme.Font.Align = style.AlignCenter
	if text == "" || !sc.Enabled {
		t.bounds = Rect{W: width}
		return t, nil
	}
	_, h, err := book.Measure(t.scheme.Font, text, 0)
	if err != nil {
		return nil, err
	}
	t.bounds = Rect{W: width, H: h + sc.MarginTop + sc.MarginBottom}
	return t, nil
}

func (t *Title) LayerStyle() style.Layer { return t.scheme.Layer }
func (t *Title) Bounds() Rect            { return t.bounds }

func (t *Title) Render(s render.Surface) error {
	if t.text == "" {
		return nil
	}
	s.SetColor(t.scheme.Color)
	return s.DrawText(t.text, t.scheme.Font, t.bounds.X+t.bounds.W/2, t.bounds.Y+t.scheme.MarginTop, 0.5, 1, 0)
}

const (
	legendPadding = 6.0
	legendGap     = 4.0
	legendSpacing = 12.0
)

type legendEntry struct {
	text  string
	color style.Color
	width float64
}

// Legend lists every series with a colour swatch.
type Legend struct {
	scheme  style.LegendStyle
	entries []legendEntry
	bounds  Rect
	textH   float64
}

func newLegend(g *Graph, book *font.Book) (*Legend, error) {
	l := &Legend{scheme: g.Scheme.Legend}
	for i, s := range g.series {
		w, h, err := book.Measure(l.scheme.Font, s.Title, 0)
		if err != nil {
			return nil, err
		}
		l.textH = math.Max(l.textH, h)
		l.entries = append(l.entries, legendEntry{
			text:  s.Title,
			color: g.colorFor(ColorContext{Series: i, SeriesTitle: s.Title}),
			width: l.scheme.Swatch + legendGap + w,
		})
	}
	l.bounds = Rect{W: float64(g.Width), H: l.Height()}
	return l, nil
}

// Height is the band the legend needs, 0 when disabled.
func (l *Legend) Height() float64 {
	if !l.scheme.Enabled || len(l.entries) == 0 {
		return 0
	}
	return math.Max(l.scheme.Swatch, l.textH) + 2*legendPadding
}

func (l *Legend) place(y float64) { l.bounds.Y = y }

func (l *Legend) LayerStyle() style.Layer { return l.scheme.Layer }
func (l *Legend) Bounds() Rect            { return l.bounds }

func (l *Legend) Render(s render.Surface) error {
	if len(l.entries) == 0 {
		return nil
	}
	if l.scheme.BackgroundTransparency > 0 {
		s.SetColor(l.scheme.BackgroundColor.WithAlpha(l.scheme.BackgroundTransparency / 100))
		s.FillRect(l.bounds.X, l.bounds.Y, l.bounds.W, l.bounds.H)
	}

	total := -legendSpacing
	for _, e := range l.entries {
		total += e.width + legendSpacing
	}
	x := l.bounds.X + (l.bounds.W-total)/2
	cy := l.bounds.Y + l.bounds.H/2
	sw := l.scheme.Swatch
	for _, e := range l.entries {
		s.SetColor(e.color)
		s.FillRect(x, cy-sw/2, sw, sw)
		s.SetColor(l.scheme.Color)
		if err := s.DrawText(e.text, l.scheme.Font, x+sw+legendGap, cy, 0, 0.5, 0); err != nil {
			return err
		}
		x += e.width + legendSpacing
	}
	return nil
}
