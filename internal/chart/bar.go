package chart

import (
	"math"

	"chartkit/internal/render"
	"chartkit/internal/style"
)

// BarGeometry splits a category cell into per-series bar slots.
type BarGeometry struct {
	// Slots is the number of bars in the widest set.
	Slots int
	// SeriesSpacing is the gap between bars, in percent of a bar.
	SeriesSpacing float64
	// SetSpacing is the room around a set, in percent of a bar.
	SetSpacing float64
}

func newBarGeometry(g *Graph) BarGeometry {
	slots := 0
	for _, label := range g.categories {
		n := 0
		for _, s := range g.series {
			n += max(s.Count(label), 1)
		}
		slots = max(slots, n)
	}
	return BarGeometry{
		Slots:         slots,
		SeriesSpacing: g.Scheme.Set.SeriesSpacing,
		SetSpacing:    g.Scheme.Set.SetSpacing,
	}
}

// Width is the width of one bar in a cell of width cell. Bars, gaps and the
// set margin add up to exactly one cell.
func (b BarGeometry) Width(cell float64) float64 {
	if b.Slots == 0 {
		return 0
	}
	n := float64(b.Slots)
	return cell / (n + b.SetSpacing/100 + (n-1)*b.SeriesSpacing/100)
}

// Gap is the space between two neighbouring bars.
func (b BarGeometry) Gap(cell float64) float64 {
	return b.Width(cell) * b.SeriesSpacing / 100
}

// Edge is the space between the cell edge and the first bar.
func (b BarGeometry) Edge(cell float64) float64 {
	return b.Width(cell) * b.SetSpacing / 100 / 2
}

// Lefts returns the left edge of every slot in the cell starting at x.
func (b BarGeometry) Lefts(x, cell float64) []float64 {
	w, gap := b.Width(cell), b.Gap(cell)
	lefts := make([]float64, b.Slots)
	for i := range lefts {
		lefts[i] = x + b.Edge(cell) + float64(i)*(w+gap)
	}
	return lefts
}

// Centres is a SlotFunc placing series labels under their bars.
func (b BarGeometry) Centres(x, cell float64) []float64 {
	lefts := b.Lefts(x, cell)
	w := b.Width(cell)
	for i := range lefts {
		lefts[i] += w / 2
	}
	return lefts
}

type bar struct {
	color style.Color
	value float64
}

// BarSet is the layer holding the bars of one category.
type BarSet struct {
	label  string
	index  int
	axes   *Axes
	geom   BarGeometry
	scheme style.SetStyle
	series style.Layer
	bars   []bar
}

func newBarSet(g *Graph, a *Axes, geom BarGeometry, index int, label string) *BarSet {
	set := &BarSet{
		label:  label,
		index:  index,
		axes:   a,
		geom:   geom,
		scheme: g.Scheme.Set,
		series: g.Scheme.Series.Layer,
	}
	slot := 0
	for si, s := range g.series {
		c, ok := s.Get(label)
		if !ok {
			// keep the slot so every series stays in its column
			set.bars = append(set.bars, bar{value: math.NaN()})
			slot++
			continue
		}
		for _, v := range c.Values {
			set.bars = append(set.bars, bar{
				value: v,
				color: g.colorFor(ColorContext{Series: si, SeriesTitle: s.Title, Label: label, Value: v, Slot: slot}),
			})
			slot++
		}
	}
	return set
}

func (b *BarSet) Label() string           { return b.label }
func (b *BarSet) LayerStyle() style.Layer { return b.scheme.Layer }

func (b *BarSet) Bounds() Rect {
	plot := b.axes.Plot()
	cell := b.axes.Independent().CellWidth()
	return Rect{X: b.axes.CellX(b.index), Y: plot.Y, W: cell, H: plot.H}
}

// Bars returns the rectangle of every drawn bar.
func (b *BarSet) Bars() []Rect {
	placed := b.place()
	rects := make([]Rect, len(placed))
	for i, p := range placed {
		rects[i] = p.rect
	}
	return rects
}

type placedBar struct {
	rect  Rect
	color style.Color
}

func (b *BarSet) place() []placedBar {
	cell := b.axes.Independent().CellWidth()
	lefts := b.geom.Lefts(b.axes.CellX(b.index), cell)
	w := b.geom.Width(cell)
	zero := b.axes.Y(0)

	placed := make([]placedBar, 0, len(b.bars))
	for i, br := range b.bars {
		if math.IsNaN(br.value) || i >= len(lefts) {
			continue
		}
		y := b.axes.Y(br.value)
		placed = append(placed, placedBar{
			rect:  Rect{X: lefts[i], Y: math.Min(y, zero), W: w, H: math.Abs(zero - y)},
			color: br.color,
		})
	}
	return placed
}

func (b *BarSet) Render(s render.Surface) error {
	if b.scheme.BackgroundTransparency > 0 {
		bg := b.Bounds()
		s.SetColor(b.scheme.BackgroundColor.WithAlpha(b.scheme.BackgroundTransparency / 100))
		s.FillRect(bg.X, bg.Y, bg.W, bg.H)
	}
	if !b.series.Enabled {
		return nil
	}
	s = render.NewOpacity(s, b.series.Opacity())
	for _, p := range b.place() {
		if p.rect.H == 0 {
			continue
		}
		s.SetColor(p.color)
		s.FillRect(p.rect.X, p.rect.Y, p.rect.W, p.rect.H)
	}
	return nil
}
