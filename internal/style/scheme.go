// Package style holds the presentation scheme of a chart: explicit nested
// records with defaults, merged with dotted-path overrides.
package style

import (
	"errors"
	"fmt"
)

var ErrScheme = errors.New("invalid scheme")

// Layer is shared by every drawable layer.
type Layer struct {
	Enabled bool `mapstructure:"enabled"`
	// Transparency is the layer opacity in percent (100 = opaque).
	Transparency float64 `mapstructure:"transparency"`
}

// Opacity converts Transparency to [0, 1].
func (l Layer) Opacity() float64 {
	return clamp01(l.Transparency / 100)
}

type Scheme struct {
	Name       string          `mapstructure:"name"`
	Background BackgroundStyle `mapstructure:"background"`
	Title      TitleStyle      `mapstructure:"title"`
	Axes       AxesStyle       `mapstructure:"axes"`
	Series     SeriesStyle     `mapstructure:"series"`
	Set        SetStyle        `mapstructure:"set"`
	Legend     LegendStyle     `mapstructure:"legend"`
}

type BackgroundStyle struct {
	Layer `mapstructure:",squash"`
	Color Color `mapstructure:"color"`
}

type TitleStyle struct {
	Layer        `mapstructure:",squash"`
	Font         FontStyle `mapstructure:"font"`
	Color        Color     `mapstructure:"color"`
	MarginTop    float64   `mapstructure:"margin-top"`
	MarginBottom float64   `mapstructure:"margin-bottom"`
}

type AxesStyle struct {
	Layer       `mapstructure:",squash"`
	Padding     float64   `mapstructure:"padding"`
	Independent AxisStyle `mapstructure:"independent"`
	Dependent   AxisStyle `mapstructure:"dependent"`
}

type AxisStyle struct {
	Layer     `mapstructure:",squash"`
	Format    FormatStyle `mapstructure:"format"`
	Labeling  Labeling    `mapstructure:"labeling"`
	Ticks     Ticks       `mapstructure:"ticks"`
	Gridlines GridStyle   `mapstructure:"gridlines"`
	Border    BorderStyle `mapstructure:"border"`
}

type FormatStyle struct {
	Steps     int     `mapstructure:"steps"`
	Increment float64 `mapstructure:"increment"`
}

type Labeling struct {
	SeriesLabels   LabelStyle `mapstructure:"series-labels"`
	CategoryLabels LabelStyle `mapstructure:"category-labels"`
	Value          LabelStyle `mapstructure:"value"`
	Title          LabelStyle `mapstructure:"title"`
}

type LabelStyle struct {
	Enabled      bool      `mapstructure:"enabled"`
	Rotation     Rotation  `mapstructure:"rotation"`
	Font         FontStyle `mapstructure:"font"`
	Color        Color     `mapstructure:"color"`
	MarginTop    float64   `mapstructure:"margin-top"`
	MarginBottom float64   `mapstructure:"margin-bottom"`
	MarginLeft   float64   `mapstructure:"margin-left"`
	MarginRight  float64   `mapstructure:"margin-right"`
	// Formatter is a fmt verb for value labels.
	Formatter string `mapstructure:"formatter"`
	// NumberFormatter formats numeric category labels.
	NumberFormatter string `mapstructure:"number-formatter"`
}

type TickAlign string

const (
	TickInside   TickAlign = "inside"
	TickOutside  TickAlign = "outside"
	TickCentered TickAlign = "centered"
)

type Ticks struct {
	Major TickStyle `mapstructure:"major"`
	Minor TickStyle `mapstructure:"minor"`
}

type TickStyle struct {
	Enabled         bool      `mapstructure:"enabled"`
	Color           Color     `mapstructure:"color"`
	Length          float64   `mapstructure:"length"`
	Align           TickAlign `mapstructure:"align"`
	StrokeThickness float64   `mapstructure:"stroke-thickness"`
}

// Offset is where a tick starts relative to the axis line.
func (t TickStyle) Offset() float64 {
	switch t.Align {
	case TickOutside:
		return 0
	case TickCentered:
		return -t.Length / 2
	default:
		return -t.Length
	}
}

type GridStyle struct {
	Enabled         bool    `mapstructure:"enabled"`
	Color           Color   `mapstructure:"color"`
	StrokeThickness float64 `mapstructure:"stroke-thickness"`
}

type BorderStyle struct {
	Enabled         bool    `mapstructure:"enabled"`
	Color           Color   `mapstructure:"color"`
	StrokeThickness float64 `mapstructure:"stroke-thickness"`
}

type SeriesStyle struct {
	Layer  `mapstructure:",squash"`
	Colors []Color `mapstructure:"color"`
	// StrokeThickness is the line width of line chart series.
	StrokeThickness float64 `mapstructure:"stroke-thickness"`
}

// ColorAt cycles through the palette.
func (s SeriesStyle) ColorAt(i int) Color {
	if len(s.Colors) == 0 {
		return Black
	}
	return s.Colors[i%len(s.Colors)]
}

type SetStyle struct {
	Layer           `mapstructure:",squash"`
	BackgroundColor Color `mapstructure:"background-color"`
	// BackgroundTransparency is the opacity of the cell behind a set in
	// percent; 0 leaves gridlines visible.
	BackgroundTransparency float64 `mapstructure:"background-transparency"`
	// SeriesSpacing is the gap between bars of one set, in percent of a bar.
	SeriesSpacing float64 `mapstructure:"series-spacing"`
	// SetSpacing is the space around a set, in percent of a bar.
	SetSpacing float64 `mapstructure:"set-spacing"`
}

type LegendPosition string

const (
	LegendBottom LegendPosition = "bottom"
	LegendTop    LegendPosition = "top"
)

type LegendStyle struct {
	Layer                  `mapstructure:",squash"`
	BackgroundColor        Color          `mapstructure:"background-color"`
	BackgroundTransparency float64        `mapstructure:"background-transparency"`
	Position               LegendPosition `mapstructure:"position"`
	Font                   FontStyle      `mapstructure:"font"`
	Color                  Color          `mapstructure:"color"`
	Swatch                 float64        `mapstructure:"swatch"`
}

// FontStyles returns every font style in the scheme.
func (s *Scheme) FontStyles() []FontStyle {
	ind, dep := s.Axes.Independent.Labeling, s.Axes.Dependent.Labeling
	return []FontStyle{
		s.Title.Font,
		ind.SeriesLabels.Font,
		ind.CategoryLabels.Font,
		ind.Title.Font,
		dep.Value.Font,
		dep.Title.Font,
		s.Legend.Font,
	}
}

// SetFace switches every font still on the default face to face.
func (s *Scheme) SetFace(face string) {
	ind, dep := &s.Axes.Independent.Labeling, &s.Axes.Dependent.Labeling
	for _, f := range []*FontStyle{
		&s.Title.Font,
		&ind.SeriesLabels.Font,
		&ind.CategoryLabels.Font,
		&ind.Title.Font,
		&dep.Value.Font,
		&dep.Title.Font,
		&s.Legend.Font,
	} {
		if f.Face == "" || f.Face == DefaultFace {
			f.Face = face
		}
	}
}

// Validate checks value ranges the type system cannot.
func (s *Scheme) Validate() error {
	layers := map[string]Layer{
		"background":       s.Background.Layer,
		"title":            s.Title.Layer,
		"axes":             s.Axes.Layer,
		"axes.independent": s.Axes.Independent.Layer,
		"axes.dependent":   s.Axes.Dependent.Layer,
		"series":           s.Series.Layer,
		"set":              s.Set.Layer,
		"legend":           s.Legend.Layer,
	}
	for name, l := range layers {
		if l.Transparency < 0 || l.Transparency > 100 {
			return fmt.Errorf("%w: %s.transparency must be within 0..100, got %v", ErrScheme, name, l.Transparency)
		}
	}
	for name, v := range map[string]float64{
		"set.background-transparency":    s.Set.BackgroundTransparency,
		"legend.background-transparency": s.Legend.BackgroundTransparency,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: %s must be within 0..100, got %v", ErrScheme, name, v)
		}
	}
	if s.Axes.Dependent.Format.Steps <= 0 {
		return fmt.Errorf("%w: axes.dependent.format.steps must be positive", ErrScheme)
	}
	if s.Axes.Padding < 0 {
		return fmt.Errorf("%w: axes.padding must not be negative", ErrScheme)
	}
	for _, f := range s.FontStyles() {
		if f.Size < 0 {
			return fmt.Errorf("%w: font size must not be negative, got %v", ErrScheme, f.Size)
		}
		if !f.Align.valid() {
			return fmt.Errorf("%w: unknown font alignment %q", ErrScheme, f.Align)
		}
	}
	for _, ax := range []AxisStyle{s.Axes.Independent, s.Axes.Dependent} {
		for _, t := range []TickStyle{ax.Ticks.Major, ax.Ticks.Minor} {
			switch t.Align {
			case TickInside, TickOutside, TickCentered:
			default:
				return fmt.Errorf("%w: unknown tick alignment %q", ErrScheme, t.Align)
			}
		}
	}
	if len(s.Series.Colors) == 0 {
		return fmt.Errorf("%w: series.color needs at least one color", ErrScheme)
	}
	if s.Set.SeriesSpacing < 0 || s.Set.SetSpacing < 0 {
		return fmt.Errorf("%w: set spacing must not be negative", ErrScheme)
	}
	return nil
}

// Clone returns a deep copy.
func (s *Scheme) Clone() *Scheme {
	c := *s
	c.Series.Colors = append([]Color(nil), s.Series.Colors...)
	return &c
}
