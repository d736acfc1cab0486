package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"chartkit/internal/style"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"
)

var ErrDefinition = errors.New("invalid chart definition")

// Definition is a chart described in YAML (or JSON, which YAML accepts).
//
//	kind: bar
//	title: AVERAGE PLANT HEIGHTS
//	width: 390
//	height: 160
//	series:
//	  - title: Control
//	    points:
//	      - {label: Week 1, value: 2.1}
//	  - title: y as x^2
//	    equation: x^2
//	    range: [1, 9]
//	style:
//	  title.color: "#333333"
type Definition struct {
	Kind           string             `yaml:"kind"`
	Title          string             `yaml:"title"`
	XTitle         string             `yaml:"x_title"`
	YTitle         string             `yaml:"y_title"`
	Width          int                `yaml:"width"`
	Height         int                `yaml:"height"`
	Format         string             `yaml:"format"`
	Bucket         bool               `yaml:"bucket"`
	FixIndependent *bool              `yaml:"fix_independent"`
	FixDependent   *bool              `yaml:"fix_dependent"`
	Series         []SeriesDefinition `yaml:"series"`
	// Style holds scheme overrides, either as dotted paths or nested maps.
	Style map[string]any `yaml:"style"`
}

type SeriesDefinition struct {
	Title    string            `yaml:"title"`
	Points   []PointDefinition `yaml:"points"`
	Equation string            `yaml:"equation"`
	// Range is start, end and an optional step (default 1), end inclusive.
	Range []float64 `yaml:"range"`
}

type PointDefinition struct {
	Label string  `yaml:"label"`
	Value float64 `yaml:"value"`
}

// ParseDefinition decodes a definition, rejecting unknown keys.
func ParseDefinition(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var d Definition
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrDefinition)
		}
		return nil, fmt.Errorf("%w: %v", ErrDefinition, err)
	}
	return &d, nil
}

// LoadDefinition reads a definition file.
func LoadDefinition(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open definition: %w", err)
	}
	defer f.Close()

	d, err := ParseDefinition(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// ChartKind parses the kind field.
func (d *Definition) ChartKind() (Kind, error) {
	k, err := ParseKind(d.Kind)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDefinition, err)
	}
	return k, nil
}

// Overrides flattens Style into dotted paths.
func (d *Definition) Overrides() map[string]any {
	out := make(map[string]any)
	flatten("", d.Style, out)
	return out
}

func flatten(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(path, sub, out)
			continue
		}
		out[path] = v
	}
}

// Graph builds the graph described by d. extra overrides are applied after
// the definition's own style.
func (d *Definition) Graph(extra map[string]any) (*Graph, Kind, error) {
	kind, err := d.ChartKind()
	if err != nil {
		return nil, "", err
	}
	if len(d.Series) == 0 {
		return nil, "", fmt.Errorf("%w: no series", ErrDefinition)
	}

	scheme := style.DefaultBarScheme()
	if kind == Line {
		scheme = style.DefaultLineScheme()
	}
	if err := scheme.Merge(d.Overrides()); err != nil {
		return nil, "", fmt.Errorf("%w: style: %w", ErrDefinition, err)
	}
	if err := scheme.Merge(extra); err != nil {
		return nil, "", err
	}

	g := NewGraph(d.Width, d.Height, scheme)
	g.Title, g.XTitle, g.YTitle = d.Title, d.XTitle, d.YTitle
	g.Bucket = d.Bucket
	if d.FixIndependent != nil {
		g.FixIndependent = *d.FixIndependent
	}
	if d.FixDependent != nil {
		g.FixDependent = *d.FixDependent
	}

	for i, sd := range d.Series {
		s, err := sd.build()
		if err != nil {
			return nil, "", fmt.Errorf("%w: series %d: %w", ErrDefinition, i, err)
		}
		if err := g.ImportSeries(s); err != nil {
			return nil, "", err
		}
	}
	return g, kind, nil
}

func (sd SeriesDefinition) build() (*Series, error) {
	if sd.Title == "" {
		return nil, errors.New("missing title")
	}
	s := NewSeries(sd.Title)
	if sd.Equation == "" {
		if len(sd.Points) == 0 {
			return nil, fmt.Errorf("%q has neither points nor an equation", sd.Title)
		}
		for _, p := range sd.Points {
			s.Append(p.Label, p.Value)
		}
		return s, nil
	}

	if len(sd.Points) > 0 {
		return nil, fmt.Errorf("%q has both points and an equation", sd.Title)
	}
	eq, err := ParseEquation(sd.Equation)
	if err != nil {
		return nil, err
	}
	xs, err := rangeOf(sd.Range)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", sd.Title, err)
	}
	for _, x := range xs {
		y, err := eq.Eval(x)
		if err != nil {
			return nil, err
		}
		s.Append(strconv.FormatFloat(x, 'f', -1, 64), y)
	}
	return s, nil
}

func rangeOf(r []float64) ([]float64, error) {
	step := 1.0
	switch len(r) {
	case 2:
	case 3:
		step = r[2]
	default:
		return nil, fmt.Errorf("range needs [start, end] or [start, end, step], got %v", r)
	}
	xs := Range(r[0], r[1], step)
	if len(xs) == 0 {
		return nil, fmt.Errorf("range %v is empty", r)
	}
	return xs, nil
}

// Equation is a compiled expression in x, such as "x^2", "-x^2",
// "0.5*x^3 - 2*x + 1", "(x+1)^2" or "y = x**2".
type Equation struct {
	src     string
	program *vm.Program
}

// equationEnv is the only variable an equation can see.
type equationEnv struct {
	X float64 `expr:"x"`
}

// ParseEquation compiles src once. A leading "y =" is dropped and the
// expression must yield a number.
func ParseEquation(src string) (*Equation, error) {
	body := strings.ToLower(strings.TrimSpace(src))
	if lhs, rhs, ok := strings.Cut(body, "="); ok && strings.TrimSpace(lhs) == "y" {
		body = strings.TrimSpace(rhs)
	}
	if body == "" {
		return nil, fmt.Errorf("%w: empty equation %q", ErrDefinition, src)
	}
	program, err := expr.Compile(body, expr.Env(equationEnv{}), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("%w: equation %q: %w", ErrDefinition, src, err)
	}
	return &Equation{src: src, program: program}, nil
}

// Eval returns y for x. Non-finite results are errors.
func (e *Equation) Eval(x float64) (float64, error) {
	out, err := expr.Run(e.program, equationEnv{X: x})
	if err != nil {
		return 0, fmt.Errorf("%w: equation %q at x=%v: %w", ErrDefinition, e.src, x, err)
	}
	y, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: equation %q returned %T", ErrDefinition, e.src, out)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("%w: equation %q is undefined at x=%v", ErrDefinition, e.src, x)
	}
	return y, nil
}
