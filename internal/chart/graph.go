// Package chart assembles bar and line charts from series data, lays out
// their layers and paints them onto a render surface.
package chart

import (
	"errors"
	"fmt"
	"strconv"

	"chartkit/internal/render"
	"chartkit/internal/style"
)

var ErrNoData = errors.New("graph has no data")

// ColorContext describes the bar or line a ColorFunc is asked to paint.
type ColorContext struct {
	Series      int
	SeriesTitle string
	Label       string
	Value       float64
	// Slot is the position of the bar inside its set.
	Slot int
}

// ColorFunc picks a colour per bar or line instead of the palette.
type ColorFunc func(ColorContext) style.Color

// Graph holds everything needed to draw one chart.
type Graph struct {
	Width  int
	Height int
	Title  string
	XTitle string
	YTitle string
	Scheme *style.Scheme
	// ColorFunc overrides the palette when set.
	ColorFunc ColorFunc
	// Bucket centres categories in their cells. Bar charts always do.
	Bucket bool
	// FixIndependent locks the category axis to the bottom of the plot;
	// otherwise it floats at the value axis' zero line.
	FixIndependent bool
	// FixDependent locks the value axis to the left of the plot.
	FixDependent bool

	series     []*Series
	categories []string
}

// NewGraph creates a graph of w x h pixels with both axes locked.
func NewGraph(w, h int, scheme *style.Scheme) *Graph {
	if scheme == nil {
		scheme = style.DefaultBarScheme()
	}
	return &Graph{
		Width:          w,
		Height:         h,
		Scheme:         scheme,
		FixIndependent: true,
		FixDependent:   true,
	}
}

// ImportSeries adds series to the graph. A series whose title is already
// present replaces the old one in place. Categories are merged in
// first-seen order.
func (g *Graph) ImportSeries(series ...*Series) error {
	for _, s := range series {
		if s == nil {
			return fmt.Errorf("%w: nil series", ErrNoData)
		}
		if err := s.validate(); err != nil {
			return err
		}
		replaced := false
		for i, old := range g.series {
			if old.Title == s.Title {
				g.series[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			g.series = append(g.series, s)
		}
	}
	g.rebuildCategories()
	return nil
}

// RemoveSeries drops a series by title.
func (g *Graph) RemoveSeries(title string) bool {
	for i, s := range g.series {
		if s.Title == title {
			g.series = append(g.series[:i], g.series[i+1:]...)
			g.rebuildCategories()
			return true
		}
	}
	return false
}

func (g *Graph) rebuildCategories() {
	seen := make(map[string]bool)
	g.categories = g.categories[:0]
	for _, s := range g.series {
		for _, c := range s.Categories {
			if !seen[c.Label] {
				seen[c.Label] = true
				g.categories = append(g.categories, c.Label)
			}
		}
	}
}

func (g *Graph) Series() []*Series {
	return append([]*Series(nil), g.series...)
}

// Categories returns every label across all series in first-seen order.
func (g *Graph) Categories() []string {
	return append([]string(nil), g.categories...)
}

// SeriesTitles lists series titles in import order.
func (g *Graph) SeriesTitles() []string {
	titles := make([]string, len(g.series))
	for i, s := range g.series {
		titles[i] = s.Title
	}
	return titles
}

// Values flattens every value of every series.
func (g *Graph) Values() []float64 {
	var values []float64
	for _, s := range g.series {
		values = append(values, s.Values()...)
	}
	return values
}

// NumericCategories reports whether every category label is a number, in
// which case labels go through the category number formatter.
func (g *Graph) NumericCategories() bool {
	if len(g.categories) == 0 {
		return false
	}
	for _, c := range g.categories {
		if _, err := strconv.ParseFloat(c, 64); err != nil {
			return false
		}
	}
	return true
}

func (g *Graph) colorFor(c ColorContext) style.Color {
	if g.ColorFunc != nil {
		return g.ColorFunc(c)
	}
	return g.Scheme.Series.ColorAt(c.Series)
}

func (g *Graph) validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: graph is %dx%d", render.ErrNoDimensions, g.Width, g.Height)
	}
	if len(g.series) == 0 || len(g.categories) == 0 {
		return ErrNoData
	}
	if g.Scheme == nil {
		return fmt.Errorf("%w: graph has no scheme", style.ErrScheme)
	}
	return g.Scheme.Validate()
}
