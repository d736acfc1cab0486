package commands

// Command to inspect how an axis scales a set of values or labels
// Prints window, intercept ratio, zero offset, positions and ticks

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"chartkit/internal/axis"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	axisValues []float64
	axisLabels []string
	axisLength float64
	axisSteps  int
	axisBucket bool
	axisOutput string
)

var axisCmd = &cobra.Command{
	Use:   "axis",
	Short: "Show how an axis scales values or categories",
	Long: `Compute a numeric axis for --values or a categorical axis for --labels and print the
window, intercept ratio, zero offset, every position and the tick offsets.`,
	Args: cobra.NoArgs,
	RunE: runAxis,
}

func init() {
	f := axisCmd.Flags()
	f.Float64SliceVar(&axisValues, "values", nil, "Numeric values, e.g. 2.1,5.7,8.6,10.5")
	f.StringSliceVar(&axisLabels, "labels", nil, "Category labels, e.g. \"Week 1,Week 5\"")
	f.Float64Var(&axisLength, "length", 300, "Axis length in pixels")
	f.IntVar(&axisSteps, "steps", 0, "Value axis intervals (default from config)")
	f.BoolVar(&axisBucket, "bucket", false, "Centre categories in their cells")
	f.StringVarP(&axisOutput, "output", "o", "text", "Output: text or yaml")
	axisCmd.MarkFlagsMutuallyExclusive("values", "labels")
	axisCmd.MarkFlagsOneRequired("values", "labels")
}

// axisReport is the printable summary of an axis.
type axisReport struct {
	Kind      string         `yaml:"kind"`
	Length    float64        `yaml:"length"`
	Window    [2]float64     `yaml:"window"`
	Ratio     float64        `yaml:"ratio"`
	Zero      float64        `yaml:"zero"`
	Cell      float64        `yaml:"cell"`
	Positions []axisPosition `yaml:"positions"`
	Ticks     []float64      `yaml:"ticks"`
}

type axisPosition struct {
	Input  string  `yaml:"input"`
	Offset float64 `yaml:"offset"`
}

func buildAxisReport() (*axisReport, error) {
	steps := axisSteps
	if steps == 0 && cfg != nil {
		steps = cfg.Render.Steps
	}
	c := axis.Config{
		Orientation: axis.Vertical,
		Length:      axisLength,
		Steps:       steps,
		Values:      axisValues,
		Labels:      axisLabels,
		Bucket:      axisBucket,
	}
	if len(axisLabels) > 0 {
		c.Kind, c.Orientation = axis.Categorical, axis.Horizontal
	}
	a, err := axis.New(c)
	if err != nil {
		return nil, err
	}

	w := a.Window()
	r := &axisReport{
		Kind:   a.String(),
		Length: a.Length(),
		Window: [2]float64{w.Min, w.Max},
		Ratio:  a.Ratio(),
		Zero:   a.Zero(),
		Cell:   a.CellWidth(),
	}
	if a.Numeric() {
		for _, v := range axisValues {
			r.Positions = append(r.Positions, axisPosition{strconv.FormatFloat(v, 'f', -1, 64), a.Position(v)})
		}
	} else {
		for _, l := range axisLabels {
			off, err := a.PositionOf(l)
			if err != nil {
				return nil, err
			}
			r.Positions = append(r.Positions, axisPosition{l, off})
		}
	}
	for _, t := range a.Ticks(axis.TickWhole) {
		r.Ticks = append(r.Ticks, t.Offset)
	}
	return r, nil
}

func runAxis(cmd *cobra.Command, args []string) error {
	r, err := buildAxisReport()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch axisOutput {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		return printAxisReport(out, r)
	}
	return fmt.Errorf("unknown output %q (want text or yaml)", axisOutput)
}

func printAxisReport(out io.Writer, r *axisReport) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "axis\t%s\n", r.Kind)
	fmt.Fprintf(tw, "length\t%g\n", r.Length)
	fmt.Fprintf(tw, "window\t[%g, %g]\n", r.Window[0], r.Window[1])
	fmt.Fprintf(tw, "ratio\t%g\n", r.Ratio)
	fmt.Fprintf(tw, "zero\t%g\n", r.Zero)
	fmt.Fprintf(tw, "cell\t%g\n", r.Cell)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "input\toffset")
	for _, p := range r.Positions {
		fmt.Fprintf(tw, "%s\t%.2f\n", p.Input, p.Offset)
	}
	fmt.Fprintln(tw)
	fmt.Fprint(tw, "ticks\t")
	for i, t := range r.Ticks {
		if i > 0 {
			fmt.Fprint(tw, " ")
		}
		fmt.Fprintf(tw, "%.2f", t)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}
