package chart

import (
	"fmt"
	"math"
	"strconv"

	"chartkit/internal/axis"
	"chartkit/internal/font"
	"chartkit/internal/render"
	"chartkit/internal/style"
)

// SlotFunc returns the centres of the per-series slots inside a category
// cell starting at x with width cell.
type SlotFunc func(x, cell float64) []float64

// Axes lays out the category (independent, horizontal) and value
// (dependent, vertical) axes inside an area and draws their decorations.
type Axes struct {
	scheme style.AxesStyle
	book   *font.Book
	area   Rect
	box    Rect

	xTitle, yTitle string
	seriesTitles   []string
	categoryTexts  []string
	valueTexts     []string
	slots          SlotFunc

	fixIndependent bool
	fixDependent   bool

	independent *axis.Axis
	dependent   *axis.Axis

	// thickness of the label bands next to each axis line
	indBand, depBand float64
	// where each axis line starts
	indOrigin, depOrigin axis.Point
}

// NewAxes computes both axes for g inside area. slots may be nil, in which
// case series labels are not drawn.
func NewAxes(g *Graph, area Rect, book *font.Book, bucket bool, slots SlotFunc) (*Axes, error) {
	sc := g.Scheme.Axes
	a := &Axes{
		scheme:         sc,
		book:           book,
		area:           area,
		box:            area.Inset(sc.Padding),
		xTitle:         g.XTitle,
		yTitle:         g.YTitle,
		seriesTitles:   g.SeriesTitles(),
		slots:          slots,
		fixIndependent: g.FixIndependent,
		fixDependent:   g.FixDependent,
	}

	labels := g.Categories()
	a.categoryTexts = make([]string, len(labels))
	numeric := g.NumericCategories()
	for i, l := range labels {
		a.categoryTexts[i] = categoryText(sc.Independent.Labeling.CategoryLabels, l, numeric)
	}

	values := g.Values()
	steps := sc.Dependent.Format.Steps
	w := axis.ComputeWindow(values, steps)
	for _, v := range windowTicks(w, steps) {
		a.valueTexts = append(a.valueTexts, valueText(sc.Dependent.Labeling.Value, v))
	}

	var err error
	if a.indBand, err = a.independentBand(); err != nil {
		return nil, err
	}
	if a.depBand, err = a.dependentBand(); err != nil {
		return nil, err
	}

	indLen, depLen := a.box.W, a.box.H
	if a.fixDependent {
		indLen -= a.depBand
	}
	if a.fixIndependent {
		depLen -= a.indBand
	}
	if indLen <= 0 || depLen <= 0 {
		return nil, fmt.Errorf("%w: %.0fx%.0f plot area leaves no room for the axes", render.ErrNoDimensions, a.box.W, a.box.H)
	}

	a.independent, err = axis.New(axis.Config{
		Kind:        axis.Categorical,
		Orientation: axis.Horizontal,
		Length:      indLen,
		Labels:      labels,
		Bucket:      bucket,
	})
	if err != nil {
		return nil, fmt.Errorf("category axis: %w", err)
	}
	a.dependent, err = axis.New(axis.Config{
		Kind:        axis.Numeric,
		Orientation: axis.Vertical,
		Length:      depLen,
		Steps:       steps,
		Values:      values,
	})
	if err != nil {
		return nil, fmt.Errorf("value axis: %w", err)
	}
	axis.Link(a.independent, a.dependent)
	a.placeOrigins()
	return a, nil
}

// placeOrigins positions both axis lines. A locked axis hugs the bottom or
// left edge behind its label band; a floating one crosses the other axis at
// its zero line.
func (a *Axes) placeOrigins() {
	bottom := axis.Point{X: a.box.X, Y: a.box.Bottom()}
	locked := axis.Point{X: a.box.X + a.depBand, Y: a.box.Bottom() - a.indBand}

	// the category axis has no zero offset; the value axis' zero is
	// measured from wherever its line starts
	depStartY := bottom.Y
	if a.fixIndependent {
		depStartY = locked.Y
	}
	floating := axis.Point{
		X: bottom.X + a.independent.InterceptOffset(),
		Y: depStartY - a.dependent.InterceptOffset(),
	}

	switch {
	case a.fixIndependent && a.fixDependent:
		a.indOrigin, a.depOrigin = locked, locked
	case a.fixIndependent:
		a.indOrigin = axis.Point{X: bottom.X, Y: locked.Y}
		a.depOrigin = axis.Point{X: floating.X, Y: locked.Y}
	case a.fixDependent:
		a.indOrigin = axis.Point{X: locked.X, Y: floating.Y}
		a.depOrigin = axis.Point{X: locked.X, Y: bottom.Y}
	default:
		a.indOrigin = axis.Point{X: bottom.X, Y: floating.Y}
		a.depOrigin = axis.Point{X: floating.X, Y: bottom.Y}
	}
}

func (a *Axes) Independent() *axis.Axis { return a.independent }
func (a *Axes) Dependent() *axis.Axis   { return a.dependent }
func (a *Axes) Bounds() Rect            { return a.area }
func (a *Axes) LayerStyle() style.Layer { return a.scheme.Layer }

// Plot is the rectangle spanned by the two axis lines.
func (a *Axes) Plot() Rect {
	return Rect{
		X: a.depOrigin.X,
		Y: a.depOrigin.Y - a.dependent.Length(),
		W: a.independent.Length(),
		H: a.dependent.Length(),
	}
}

// X maps a category index to a pixel column.
func (a *Axes) X(index float64) float64 {
	return a.independent.Point(a.indOrigin, a.independent.Position(index)).X
}

// CellX is the left edge of the category cell at index.
func (a *Axes) CellX(index int) float64 {
	return a.indOrigin.X + float64(index)*a.independent.CellWidth()
}

// Y maps a value to a pixel row.
func (a *Axes) Y(value float64) float64 {
	return a.dependent.Point(a.depOrigin, a.dependent.Position(value)).Y
}

// PointOf maps a labelled value to pixel space.
func (a *Axes) PointOf(label string, value float64) (axis.Point, error) {
	i, err := a.independent.IndexOf(label)
	if err != nil {
		return axis.Point{}, err
	}
	return axis.Point{X: a.X(float64(i)), Y: a.Y(value)}, nil
}

func (a *Axes) independentBand() (float64, error) {
	l := a.scheme.Independent.Labeling
	var band float64
	if l.SeriesLabels.Enabled && a.slots != nil {
		h, err := a.labelHeight(l.SeriesLabels, a.seriesTitles)
		if err != nil {
			return 0, err
		}
		band += h
	}
	if l.CategoryLabels.Enabled {
		h, err := a.labelHeight(l.CategoryLabels, a.categoryTexts)
		if err != nil {
			return 0, err
		}
		band += h
	}
	if l.Title.Enabled && a.xTitle != "" {
		h, err := a.labelHeight(l.Title, []string{a.xTitle})
		if err != nil {
			return 0, err
		}
		band += h
	}
	return band, nil
}

func (a *Axes) dependentBand() (float64, error) {
	l := a.scheme.Dependent.Labeling
	var band float64
	if l.Value.Enabled {
		w, err := a.labelWidth(l.Value, a.valueTexts)
		if err != nil {
			return 0, err
		}
		band += w
	}
	if l.Title.Enabled && a.yTitle != "" {
		w, err := a.labelWidth(l.Title, []string{a.yTitle})
		if err != nil {
			return 0, err
		}
		band += w
	}
	return band, nil
}

func (a *Axes) labelHeight(ls style.LabelStyle, texts []string) (float64, error) {
	_, h, err := a.book.MaxMeasure(ls.Font, texts, ls.Rotation)
	if err != nil {
		return 0, err
	}
	return h + ls.MarginTop + ls.MarginBottom, nil
}

func (a *Axes) labelWidth(ls style.LabelStyle, texts []string) (float64, error) {
	w, _, err := a.book.MaxMeasure(ls.Font, texts, ls.Rotation)
	if err != nil {
		return 0, err
	}
	return w + ls.MarginLeft + ls.MarginRight, nil
}

func (a *Axes) Render(s render.Surface) error {
	ind, dep := a.scheme.Independent, a.scheme.Dependent
	if dep.Enabled {
		if err := a.renderDependent(render.NewOpacity(s, dep.Opacity())); err != nil {
			return err
		}
	}
	if ind.Enabled {
		if err := a.renderIndependent(render.NewOpacity(s, ind.Opacity())); err != nil {
			return err
		}
	}
	return nil
}

func (a *Axes) renderDependent(s render.Surface) error {
	st := a.scheme.Dependent
	x := a.depOrigin.X
	whole := a.dependent.Ticks(axis.TickWhole)

	if st.Gridlines.Enabled {
		s.SetColor(st.Gridlines.Color)
		s.SetLineWidth(st.Gridlines.StrokeThickness)
		for _, t := range whole {
			y := a.depOrigin.Y - t.Offset
			render.Line(s, x, y, x+a.independent.Length(), y)
		}
	}
	if st.Border.Enabled {
		s.SetColor(st.Border.Color)
		s.SetLineWidth(st.Border.StrokeThickness)
		render.Line(s, x, a.depOrigin.Y, x, a.depOrigin.Y-a.dependent.Length())
	}

	ticks := []struct {
		style style.TickStyle
		kind  axis.TickKind
	}{{st.Ticks.Major, axis.TickWhole}, {st.Ticks.Minor, axis.TickHalf}}
	for _, tk := range ticks {
		if !tk.style.Enabled {
			continue
		}
		s.SetColor(tk.style.Color)
		s.SetLineWidth(tk.style.StrokeThickness)
		for _, t := range a.dependent.Ticks(tk.kind) {
			y := a.depOrigin.Y - t.Offset
			// inward is +x for the value axis
			from := x - tk.style.Offset() - tk.style.Length
			render.Line(s, from, y, from+tk.style.Length, y)
		}
	}

	lb := st.Labeling
	if lb.Value.Enabled {
		s.SetColor(lb.Value.Color)
		for _, t := range whole {
			y := a.depOrigin.Y - t.Offset
			text := valueText(lb.Value, t.Value)
			if err := s.DrawText(text, lb.Value.Font, x-lb.Value.MarginRight, y, lb.Value.Font.Align.Anchor(), 0.5, lb.Value.Rotation); err != nil {
				return err
			}
		}
	}
	if lb.Title.Enabled && a.yTitle != "" {
		w, _, err := a.book.Measure(lb.Title.Font, a.yTitle, lb.Title.Rotation)
		if err != nil {
			return err
		}
		s.SetColor(lb.Title.Color)
		cx := a.box.X + lb.Title.MarginLeft + w/2
		cy := a.depOrigin.Y - a.dependent.Length()/2
		if err := s.DrawText(a.yTitle, lb.Title.Font, cx, cy, 0.5, 0.5, lb.Title.Rotation); err != nil {
			return err
		}
	}
	return nil
}

func (a *Axes) renderIndependent(s render.Surface) error {
	st := a.scheme.Independent
	y := a.indOrigin.Y
	whole := a.independent.Ticks(axis.TickWhole)

	if st.Gridlines.Enabled {
		s.SetColor(st.Gridlines.Color)
		s.SetLineWidth(st.Gridlines.StrokeThickness)
		for _, t := range whole {
			x := a.indOrigin.X + t.Offset
			render.Line(s, x, a.depOrigin.Y, x, a.depOrigin.Y-a.dependent.Length())
		}
	}
	if st.Border.Enabled {
		s.SetColor(st.Border.Color)
		s.SetLineWidth(st.Border.StrokeThickness)
		render.Line(s, a.indOrigin.X, y, a.indOrigin.X+a.independent.Length(), y)
	}

	ticks := []struct {
		style style.TickStyle
		kind  axis.TickKind
	}{{st.Ticks.Major, axis.TickWhole}, {st.Ticks.Minor, axis.TickHalf}}
	for _, tk := range ticks {
		if !tk.style.Enabled {
			continue
		}
		s.SetColor(tk.style.Color)
		s.SetLineWidth(tk.style.StrokeThickness)
		for _, t := range a.independent.Ticks(tk.kind) {
			x := a.indOrigin.X + t.Offset
			from := y + tk.style.Offset()
			render.Line(s, x, from, x, from+tk.style.Length)
		}
	}

	lb := st.Labeling
	row := y
	if lb.SeriesLabels.Enabled && a.slots != nil {
		h, err := a.labelHeight(lb.SeriesLabels, a.seriesTitles)
		if err != nil {
			return err
		}
		s.SetColor(lb.SeriesLabels.Color)
		cell := a.independent.CellWidth()
		for i := range a.categoryTexts {
			centres := a.slots(a.CellX(i), cell)
			for j, cx := range centres {
				if j >= len(a.seriesTitles) {
					break
				}
				if err := s.DrawText(a.seriesTitles[j], lb.SeriesLabels.Font, cx, row+lb.SeriesLabels.MarginTop, 0.5, 1, lb.SeriesLabels.Rotation); err != nil {
					return err
				}
			}
		}
		row += h
	}
	if lb.CategoryLabels.Enabled {
		h, err := a.labelHeight(lb.CategoryLabels, a.categoryTexts)
		if err != nil {
			return err
		}
		s.SetColor(lb.CategoryLabels.Color)
		for i, text := range a.categoryTexts {
			if err := s.DrawText(text, lb.CategoryLabels.Font, a.X(float64(i)), row+lb.CategoryLabels.MarginTop, lb.CategoryLabels.Font.Align.Anchor(), 1, lb.CategoryLabels.Rotation); err != nil {
				return err
			}
		}
		row += h
	}
	if lb.Title.Enabled && a.xTitle != "" {
		s.SetColor(lb.Title.Color)
		cx := a.indOrigin.X + a.independent.Length()/2
		if err := s.DrawText(a.xTitle, lb.Title.Font, cx, row+lb.Title.MarginTop, 0.5, 1, lb.Title.Rotation); err != nil {
			return err
		}
	}
	return nil
}

// windowTicks lists the values of whole ticks for a window.
func windowTicks(w axis.Window, steps int) []float64 {
	if steps <= 0 {
		steps = axis.DefaultSteps
	}
	inc := w.Dominant() / float64(steps)
	if inc == 0 {
		return []float64{0}
	}
	n := int(math.Round(w.Extent() / inc))
	values := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		values = append(values, w.Min+float64(i)*inc)
	}
	return values
}

func valueText(ls style.LabelStyle, v float64) string {
	if ls.Formatter == "" {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprintf(ls.Formatter, v)
}

func categoryText(ls style.LabelStyle, label string, numeric bool) string {
	if !numeric || ls.NumberFormatter == "" {
		return label
	}
	v, err := strconv.ParseFloat(label, 64)
	if err != nil {
		return label
	}
	return fmt.Sprintf(ls.NumberFormatter, v)
}
