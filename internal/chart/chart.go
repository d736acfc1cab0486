package chart

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"chartkit/internal/font"
	"chartkit/internal/infra/fs"
	logging "chartkit/internal/infra/log"
	"chartkit/internal/render"
	"chartkit/internal/style"

	"go.uber.org/zap"
)

// Kind selects the plot type.
type Kind string

const (
	Bar  Kind = "bar"
	Line Kind = "line"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Bar, Line:
		return k, nil
	case "vbar", "":
		return Bar, nil
	}
	return "", fmt.Errorf("unknown chart kind %q (want bar or line)", s)
}

// Layer names used by Layout.
const (
	LayerBackground = "background"
	LayerTitle      = "title"
	LayerAxes       = "axes"
	LayerLegend     = "legend"
	setPrefix       = "set:"
	linePrefix      = "line:"
)

// SetLayer names the layer holding the bars of a category.
func SetLayer(label string) string { return setPrefix + label }

// LineLayer names the layer holding the line of a series.
func LineLayer(title string) string { return linePrefix + title }

// Chart is a graph laid out into layers.
type Chart struct {
	Graph  *Graph
	Kind   Kind
	Layers *LayerManager
	Axes   *Axes
}

// Layout measures every text, builds the axes and stacks the layers of g.
func Layout(g *Graph, kind Kind, book *font.Book) (*Chart, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	if book == nil {
		book = font.NewBook()
	}
	if err := book.Preload(g.Scheme.FontStyles()...); err != nil {
		return nil, err
	}

	w, h := float64(g.Width), float64(g.Height)
	c := &Chart{Graph: g, Kind: kind, Layers: NewLayerManager()}

	if err := c.Layers.New(LayerBackground, &Background{scheme: g.Scheme.Background, bounds: Rect{W: w, H: h}}); err != nil {
		return nil, err
	}
	title, err := newTitle(g.Title, g.Scheme.Title, w, book)
	if err != nil {
		return nil, err
	}
	if err := c.Layers.New(LayerTitle, title); err != nil {
		return nil, err
	}
	legend, err := newLegend(g, book)
	if err != nil {
		return nil, err
	}

	area := Rect{Y: title.Bounds().Bottom(), W: w, H: h - title.Bounds().Bottom() - legend.Height()}
	if g.Scheme.Legend.Position == style.LegendTop {
		legend.place(title.Bounds().Bottom())
		area.Y += legend.Height()
	} else {
		legend.place(h - legend.Height())
	}

	var slots SlotFunc
	var geom BarGeometry
	bucket := g.Bucket
	if kind == Bar {
		geom = newBarGeometry(g)
		slots = geom.Centres
		bucket = true
	}
	c.Axes, err = NewAxes(g, area, book, bucket, slots)
	if err != nil {
		return nil, err
	}
	if err := c.Layers.New(LayerAxes, c.Axes); err != nil {
		return nil, err
	}

	switch kind {
	case Bar:
		for i, label := range g.categories {
			if err := c.Layers.New(SetLayer(label), newBarSet(g, c.Axes, geom, i, label)); err != nil {
				return nil, err
			}
		}
	case Line:
		for i, s := range g.series {
			if err := c.Layers.New(LineLayer(s.Title), newLineSet(g, c.Axes, i, s)); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}

	if err := c.Layers.New(LayerLegend, legend); err != nil {
		return nil, err
	}

	win := c.Axes.Dependent().Window()
	logging.LogDebug("Chart laid out",
		zap.String("kind", string(kind)),
		zap.Int("layers", c.Layers.Len()),
		zap.Float64("window_min", win.Min),
		zap.Float64("window_max", win.Max),
		zap.Float64("zero", c.Axes.Dependent().Zero()),
	)
	return c, nil
}

// Paint renders every layer onto s.
func (c *Chart) Paint(ctx context.Context, s render.Surface) error {
	return c.Layers.RenderAll(ctx, s)
}

// Render lays out g and writes it to w in the given format.
func Render(ctx context.Context, g *Graph, kind Kind, format render.Format, w io.Writer, book *font.Book) error {
	start := time.Now()
	c, err := Layout(g, kind, book)
	if err != nil {
		return err
	}
	s, err := render.New(format, g.Width, g.Height, book)
	if err != nil {
		return err
	}
	if err := c.Paint(ctx, s); err != nil {
		return err
	}
	if err := s.Encode(w); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	logging.LogDebug("Chart rendered",
		zap.String("format", format.String()),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

// RenderFile renders g to path, picking the format from its extension.
// The file is replaced atomically.
func RenderFile(ctx context.Context, g *Graph, kind Kind, path string, book *font.Book) (render.Format, error) {
	format, err := render.FormatFromPath(path)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := Render(ctx, g, kind, format, &buf, book); err != nil {
		return "", err
	}
	if err := fs.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	return format, nil
}
