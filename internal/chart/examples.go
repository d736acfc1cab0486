package chart

import "chartkit/internal/style"

// Example is a ready-made chart used by the examples command and tests.
type Example struct {
	Name  string
	Kind  Kind
	Graph *Graph
}

// exampleStyle restyles the default bar scheme after a spreadsheet
// application's sample chart.
var exampleStyle = []struct {
	path  string
	value any
}{
	{"title.color", "#333333"},
	{"title.font", style.Font(10, style.AlignCenter)},
	{"axes.dependent.labeling.value.font", style.Font(8, style.AlignRight)},
	{"axes.independent.labeling.category-labels.font", style.Font(8, style.AlignCenter)},
	{"axes.independent.labeling.category-labels.margin-top", 8},
	{"axes.independent.ticks.major.enabled", false},
	{"axes.independent.ticks.minor.enabled", false},
}

func exampleGraph(title, xTitle, yTitle string) *Graph {
	scheme := style.DefaultBarScheme()
	for _, o := range exampleStyle {
		if err := scheme.Set(o.path, o.value); err != nil {
			panic(err)
		}
	}
	g := NewGraph(390, 160, scheme)
	g.Title, g.XTitle, g.YTitle = title, xTitle, yTitle
	return g
}

// NumbersExample compares plant heights over four weeks.
func NumbersExample() *Graph {
	g := exampleGraph("AVERAGE PLANT HEIGHTS", "Time", "Plant Height (cm)")
	control := NewSeries("Control").
		Append("Week 1", 2.1).
		Append("Week 5", 5.7).
		Append("Week 10", 8.6).
		Append("Week 15", 10.5)
	salt := NewSeries("Road Salt").
		Append("Week 1", 1.7).
		Append("Week 5", 4.1).
		Append("Week 10", 6.6).
		Append("Week 15", 7.6)
	if err := g.ImportSeries(control, salt); err != nil {
		panic(err)
	}
	return g
}

// EquationExample plots y=x^2 against y=-x^2 for x in 1..9.
func EquationExample() *Graph {
	g := exampleGraph("y=x^2 and y=-x^2", "X Value", "Y Value")
	xs := Range(1, 9, 1)
	normal := NewSeries("y as x^2").FromEquation(xs, func(x float64) float64 { return x * x })
	inverted := NewSeries("y as -x^2").FromEquation(xs, func(x float64) float64 { return -x * x })
	if err := g.ImportSeries(normal, inverted); err != nil {
		panic(err)
	}
	return g
}

// Examples lists the built-in charts.
func Examples() []Example {
	return []Example{
		{Name: "numbers_example", Kind: Bar, Graph: NumbersExample()},
		{Name: "equation_example", Kind: Bar, Graph: EquationExample()},
	}
}
