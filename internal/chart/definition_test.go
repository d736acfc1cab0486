package chart

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chartkit/internal/style"

	"github.com/google/go-cmp/cmp"
)

const plantHeights = `
kind: bar
title: AVERAGE PLANT HEIGHTS
x_title: Time
y_title: Plant Height (cm)
width: 390
height: 160
format: svg
series:
  - title: Control
    points:
      - {label: Week 1, value: 2.1}
      - {label: Week 5, value: 5.7}
  - title: Road Salt
    points:
      - {label: Week 1, value: 1.7}
      - {label: Week 5, value: 4.1}
style:
  title.color: "#333333"
  axes:
    independent:
      ticks.major.enabled: false
      labeling.category-labels.margin-top: 8
  axes.dependent.labeling.value.font: {size: 8, align: right}
  series.color: ["#1e5691", "#b1381c"]
`

func TestParseDefinition(t *testing.T) {
	d, err := ParseDefinition(strings.NewReader(plantHeights))
	if err != nil {
		t.Fatalf("ParseDefinition() error = %v", err)
	}
	if d.Width != 390 || d.Format != "svg" || len(d.Series) != 2 {
		t.Fatalf("definition = %+v", d)
	}

	g, kind, err := d.Graph(nil)
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	if kind != Bar {
		t.Fatalf("kind = %v", kind)
	}
	if diff := cmp.Diff([]string{"Week 1", "Week 5"}, g.Categories()); diff != "" {
		t.Fatalf("Categories() mismatch (-want +got):\n%s", diff)
	}
	sc := g.Scheme
	if sc.Title.Color != style.MustHex("#333333") {
		t.Fatalf("title color = %v", sc.Title.Color)
	}
	if sc.Axes.Independent.Ticks.Major.Enabled || sc.Axes.Independent.Labeling.CategoryLabels.MarginTop != 8 {
		t.Fatalf("nested overrides not applied: %+v", sc.Axes.Independent)
	}
	if f := sc.Axes.Dependent.Labeling.Value.Font; f.Size != 8 || f.Align != style.AlignRight {
		t.Fatalf("value font = %+v", f)
	}
	if len(sc.Series.Colors) != 2 {
		t.Fatalf("palette = %v", sc.Series.Colors)
	}
	if _, err := Layout(g, kind, nil); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
}

func TestDefinitionExtraOverrides(t *testing.T) {
	d, err := ParseDefinition(strings.NewReader(plantHeights))
	if err != nil {
		t.Fatalf("ParseDefinition() error = %v", err)
	}
	g, _, err := d.Graph(map[string]any{"title.color": "#ff0000"})
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	if g.Scheme.Title.Color != style.MustHex("#ff0000") {
		t.Fatalf("extra override lost: %v", g.Scheme.Title.Color)
	}
}

func TestDefinitionEquationSeries(t *testing.T) {
	src := `
kind: line
width: 300
height: 200
fix_independent: false
series:
  - title: y as -x^2
    equation: y = -x^2
    range: [1, 9]
`
	d, err := ParseDefinition(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseDefinition() error = %v", err)
	}
	g, kind, err := d.Graph(nil)
	if err != nil {
		t.Fatalf("Graph() error = %v", err)
	}
	if kind != Line || g.FixIndependent || !g.FixDependent {
		t.Fatalf("kind = %v, fixed = %v/%v", kind, g.FixIndependent, g.FixDependent)
	}
	s := g.Series()[0]
	if len(s.Categories) != 9 {
		t.Fatalf("equation series has %d points", len(s.Categories))
	}
	if c, _ := s.Get("9"); c.Value() != -81 {
		t.Fatalf("value at 9 = %v, want -81", c.Value())
	}
}

func TestDefinitionErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key":      "kind: bar\ncolour: red\n",
		"empty":            "",
		"bad kind":         "kind: pie\nseries: [{title: a, points: [{label: x, value: 1}]}]\n",
		"no series":        "kind: bar\n",
		"no title":         "series: [{points: [{label: x, value: 1}]}]\n",
		"no data":          "series: [{title: a}]\n",
		"both":             "series: [{title: a, equation: x, range: [1, 2], points: [{label: x, value: 1}]}]\n",
		"bad range":        "series: [{title: a, equation: x, range: [1]}]\n",
		"bad equation":     "series: [{title: a, equation: 'x^', range: [1, 2]}]\n",
		"bad style":        "series: [{title: a, points: [{label: x, value: 1}]}]\nstyle: {title.colour: red}\n",
		"point field typo": "series: [{title: a, points: [{lable: x, value: 1}]}]\n",
	}
	for name, src := range tests {
		d, err := ParseDefinition(strings.NewReader(src))
		if err == nil {
			_, _, err = d.Graph(nil)
		}
		if !errors.Is(err, ErrDefinition) {
			t.Fatalf("%s: error = %v, want ErrDefinition", name, err)
		}
	}
}

func TestLoadDefinition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plants.yaml")
	if err := os.WriteFile(path, []byte(plantHeights), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadDefinition(path); err != nil {
		t.Fatalf("LoadDefinition() error = %v", err)
	}
	if _, err := LoadDefinition(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadDefinition(missing) error = %v", err)
	}
}

func TestParseEquation(t *testing.T) {
	tests := []struct {
		expr string
		x    float64
		want float64
	}{
		{"x^2", 3, 9},
		{"-x^2", 3, -9},
		{"x", 4, 4},
		{"y=x**3", 2, 8},
		{"y = 2*x + 1", 5, 11},
		{"0.5*x^2 - x - 3", 4, 1},
		{"0.5*x^3 - 2*x + 1", 2, 1},
		{"(x+1)^2", 2, 9},
		{"7", 100, 7},
		{"x^0.5", 16, 4},
		{"X^2 + x^2", 2, 8},
	}
	for _, tt := range tests {
		eq, err := ParseEquation(tt.expr)
		if err != nil {
			t.Fatalf("ParseEquation(%q) error = %v", tt.expr, err)
		}
		got, err := eq.Eval(tt.x)
		if err != nil {
			t.Fatalf("ParseEquation(%q).Eval(%v) error = %v", tt.expr, tt.x, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("ParseEquation(%q).Eval(%v) = %v, want %v", tt.expr, tt.x, got, tt.want)
		}
	}

	for _, bad := range []string{"", "y=", "x^", "x*", "2**", "x+", "sin(x)", "x x", "z^2", "x > 1", "x >= 1"} {
		if _, err := ParseEquation(bad); !errors.Is(err, ErrDefinition) {
			t.Fatalf("ParseEquation(%q) error = %v, want ErrDefinition", bad, err)
		}
	}
}

func TestEquationUndefinedPoint(t *testing.T) {
	eq, err := ParseEquation("1/x")
	if err != nil {
		t.Fatalf("ParseEquation failed: %v", err)
	}
	if _, err := eq.Eval(0); !errors.Is(err, ErrDefinition) {
		t.Fatalf("Eval(0) error = %v, want ErrDefinition", err)
	}

	def, err := ParseDefinition(strings.NewReader(`kind: line
series:
  - title: inverse
    equation: 1/x
    range: [-1, 1]
`))
	if err != nil {
		t.Fatalf("ParseDefinition failed: %v", err)
	}
	if _, _, err := def.Graph(nil); !errors.Is(err, ErrDefinition) {
		t.Fatalf("Graph error = %v, want ErrDefinition", err)
	}
}
