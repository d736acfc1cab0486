package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseOverrides(t *testing.T) {
	got, err := parseOverrides([]string{"title.color=#333333", " axes.padding = 4 ", "legend.text="})
	if err != nil {
		t.Fatalf("parseOverrides failed: %v", err)
	}
	want := map[string]any{
		"title.color":  "#333333",
		"axes.padding": "4",
		"legend.text":  "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("overrides mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"title.color", "=red"} {
		if _, err := parseOverrides([]string{bad}); err == nil {
			t.Fatalf("parseOverrides(%q) succeeded, want error", bad)
		}
	}
}

func setAxisFlags(t *testing.T, values []float64, labels []string) {
	t.Helper()
	axisValues, axisLabels = values, labels
	axisLength, axisSteps, axisBucket = 300, 4, false
	t.Cleanup(func() {
		axisValues, axisLabels = nil, nil
		axisSteps = 0
	})
}

func TestAxisReportNumeric(t *testing.T) {
	setAxisFlags(t, []float64{2.1, 5.7, 8.6, 10.5}, nil)

	r, err := buildAxisReport()
	if err != nil {
		t.Fatalf("buildAxisReport failed: %v", err)
	}
	if r.Window != [2]float64{0, 15} {
		t.Fatalf("window = %v, want [0 15]", r.Window)
	}
	if len(r.Positions) != 4 || r.Positions[3].Input != "10.5" {
		t.Fatalf("positions = %+v", r.Positions)
	}
	if len(r.Ticks) == 0 {
		t.Fatalf("no ticks")
	}

	var buf bytes.Buffer
	if err := printAxisReport(&buf, r); err != nil {
		t.Fatalf("printAxisReport failed: %v", err)
	}
	for _, want := range []string{"numeric/vertical", "[0, 15]", "10.5"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("report missing %q:\n%s", want, buf.String())
		}
	}
}

func TestAxisReportCategorical(t *testing.T) {
	setAxisFlags(t, nil, []string{"Week 1", "Week 5", "Week 10"})

	r, err := buildAxisReport()
	if err != nil {
		t.Fatalf("buildAxisReport failed: %v", err)
	}
	if r.Kind != "categorical/horizontal" {
		t.Fatalf("kind = %q", r.Kind)
	}
	if r.Cell != 100 {
		t.Fatalf("cell = %v, want 100", r.Cell)
	}
	var inputs []string
	for _, p := range r.Positions {
		inputs = append(inputs, p.Input)
	}
	if diff := cmp.Diff([]string{"Week 1", "Week 5", "Week 10"}, inputs); diff != "" {
		t.Fatalf("inputs mismatch (-want +got):\n%s", diff)
	}
}
