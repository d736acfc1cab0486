package style

var defaultPalette = []string{"#1E5691", "#3E9A3B", "#FAA014", "#DA2025", "#7E367F", "#76807F"}

func opaque(enabled bool) Layer {
	return Layer{Enabled: enabled, Transparency: 100}
}

// DefaultBarScheme is the stock look of a vertical bar chart.
func DefaultBarScheme() *Scheme {
	black := MustHex("#000000")
	palette := make([]Color, 0, len(defaultPalette))
	for _, h := range defaultPalette {
		palette = append(palette, MustHex(h))
	}

	return &Scheme{
		Name: "vbar",
		Background: BackgroundStyle{
			Layer: opaque(true),
			Color: MustHex("#ffffff"),
		},
		Title: TitleStyle{
			Layer:        opaque(true),
			Font:         Font(12, AlignCenter),
			Color:        MustHex("#333333"),
			MarginTop:    7,
			MarginBottom: 10,
		},
		Axes: AxesStyle{
			Layer:   opaque(true),
			Padding: 10,
			Independent: AxisStyle{
				Layer:  opaque(true),
				Format: FormatStyle{Steps: DefaultSteps, Increment: 1},
				Labeling: Labeling{
					SeriesLabels: LabelStyle{
						Font:         Font(10, AlignLeft),
						MarginTop:    2,
						MarginBottom: 2,
						Color:        black,
					},
					CategoryLabels: LabelStyle{
						Enabled:         true,
						Font:            Font(10, AlignCenter),
						MarginTop:       4,
						Color:           black,
						NumberFormatter: "%.2f",
					},
					Title: LabelStyle{
						Enabled:   true,
						Font:      Font(DefaultFontSize, AlignCenter),
						MarginTop: 4,
						Color:     black,
					},
				},
				Ticks: Ticks{
					Major: TickStyle{Enabled: true, Color: black, Length: 5, Align: TickInside, StrokeThickness: 1},
					Minor: TickStyle{Enabled: true, Color: black, Length: 3, Align: TickInside, StrokeThickness: 1},
				},
				Gridlines: GridStyle{Color: MustHex("#AAAAAA"), StrokeThickness: 2},
				Border:    BorderStyle{Enabled: true, Color: black, StrokeThickness: 1},
			},
			Dependent: AxisStyle{
				Layer:  opaque(true),
				Format: FormatStyle{Steps: DefaultSteps},
				Labeling: Labeling{
					Value: LabelStyle{
						Enabled:     true,
						Font:        Font(10, AlignRight),
						Color:       black,
						MarginLeft:  8,
						MarginRight: 10,
						Formatter:   "%.2f",
					},
					Title: LabelStyle{
						Rotation:   -90,
						Font:       Font(DefaultFontSize, AlignCenter),
						Color:      black,
						MarginLeft: 8,
					},
				},
				Ticks: Ticks{
					Major: TickStyle{Color: black, Length: 5, Align: TickInside, StrokeThickness: 1},
					Minor: TickStyle{Color: black, Length: 3, Align: TickInside, StrokeThickness: 1},
				},
				Gridlines: GridStyle{Enabled: true, Color: MustHex("#AAAAAA"), StrokeThickness: 1},
				Border:    BorderStyle{Color: MustHex("#BDBDBD"), StrokeThickness: 1},
			},
		},
		Series: SeriesStyle{
			Layer:           opaque(true),
			Colors:          palette,
			StrokeThickness: 2,
		},
		Set: SetStyle{
			Layer:                  opaque(true),
			BackgroundColor:        MustHex("#ffffff"),
			BackgroundTransparency: 0, // unpainted, gridlines show through
			SeriesSpacing:          10,
			SetSpacing:             100,
		},
		Legend: LegendStyle{
			Layer:                  opaque(true),
			BackgroundColor:        MustHex("#ffffff"),
			BackgroundTransparency: 100,
			Position:               LegendBottom,
			Font:                   Font(10, AlignLeft),
			Color:                  black,
			Swatch:                 10,
		},
	}
}

// DefaultLineScheme is the bar scheme without minor ticks on the category
// axis.
func DefaultLineScheme() *Scheme {
	s := DefaultBarScheme()
	s.Name = "line"
	s.Axes.Independent.Ticks.Minor.Enabled = false
	s.Set.SeriesSpacing = 0
	return s
}

// DefaultSteps is the default number of value-axis intervals.
const DefaultSteps = 4
