package chart

import (
	"chartkit/internal/axis"
	"chartkit/internal/render"
	"chartkit/internal/style"
)

// LineSet is the layer drawing one series as a polyline.
type LineSet struct {
	series *Series
	axes   *Axes
	color  style.Color
	width  float64
	scheme style.Layer
}

func newLineSet(g *Graph, a *Axes, index int, s *Series) *LineSet {
	var first float64
	if len(s.Categories) > 0 {
		first = s.Categories[0].Value()
	}
	return &LineSet{
		series: s,
		axes:   a,
		color:  g.colorFor(ColorContext{Series: index, SeriesTitle: s.Title, Value: first}),
		width:  g.Scheme.Series.StrokeThickness,
		scheme: g.Scheme.Series.Layer,
	}
}

func (l *LineSet) LayerStyle() style.Layer { return l.scheme }
func (l *LineSet) Bounds() Rect            { return l.axes.Plot() }

// Points returns the pixel position of every category of the series, using
// the first value filed under each label.
func (l *LineSet) Points() ([]axis.Point, error) {
	points := make([]axis.Point, 0, len(l.series.Categories))
	for _, c := range l.series.Categories {
		p, err := l.axes.PointOf(c.Label, c.Value())
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func (l *LineSet) Render(s render.Surface) error {
	points, err := l.Points()
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}
	s.SetColor(l.color)
	s.SetLineWidth(l.width)
	s.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		s.LineTo(p.X, p.Y)
	}
	s.Stroke()
	return nil
}
