package style

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ffffff", Color{1, 1, 1, 1}},
		{"000000", Color{0, 0, 0, 1}},
		{"#f00", Color{1, 0, 0, 1}},
		{"#0f08", Color{0, 1, 0, 136.0 / 255}},
		{"#00000000", Color{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if err != nil {
			t.Fatalf("ParseHex(%q) error = %v", tt.in, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("ParseHex(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}

	for _, bad := range []string{"", "#12", "#gggggg", "#1234567"} {
		if _, err := ParseHex(bad); !errors.Is(err, ErrColor) {
			t.Fatalf("ParseHex(%q) error = %v, want ErrColor", bad, err)
		}
	}
}

func TestColorFormatting(t *testing.T) {
	c := MustHex("#1E5691")
	if got := c.Hex(); got != "#1e5691" {
		t.Fatalf("Hex() = %q", got)
	}
	if got := c.CSS(); got != "rgb(30,86,145)" {
		t.Fatalf("CSS() = %q", got)
	}
	if got := c.WithAlpha(0.5).NRGBA().A; got != 128 {
		t.Fatalf("WithAlpha(0.5) alpha = %d, want 128", got)
	}
}

func TestParseRotation(t *testing.T) {
	tests := map[string]Rotation{
		"horizontal": 0,
		"Vertical":   -90,
		"diagonal":   -45,
		"15":         15,
		"-30.5":      -30.5,
	}
	for in, want := range tests {
		got, err := ParseRotation(in)
		if err != nil || got != want {
			t.Fatalf("ParseRotation(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseRotation("sideways"); err == nil {
		t.Fatalf("ParseRotation(sideways) succeeded")
	}
}

func TestDefaultBarSchemeValid(t *testing.T) {
	s := DefaultBarScheme()
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if s.Axes.Dependent.Format.Steps != 4 {
		t.Fatalf("steps = %d, want 4", s.Axes.Dependent.Format.Steps)
	}
	if len(s.Series.Colors) != 6 {
		t.Fatalf("palette size = %d, want 6", len(s.Series.Colors))
	}
	// an opaque set background would hide the gridlines behind the bars
	if s.Set.BackgroundTransparency != 0 {
		t.Fatalf("set background-transparency = %v, want 0", s.Set.BackgroundTransparency)
	}
}

func TestSchemeSet(t *testing.T) {
	s := DefaultBarScheme()
	if err := s.Set("title.color", "#333333"); err != nil {
		t.Fatalf("Set(title.color) error = %v", err)
	}
	if err := s.Set("axes.independent.labeling.category-labels.margin-top", 8); err != nil {
		t.Fatalf("Set(margin-top) error = %v", err)
	}
	if err := s.Set("axes.independent.ticks.major.enabled", false); err != nil {
		t.Fatalf("Set(ticks) error = %v", err)
	}
	if err := s.Set("axes.dependent.labeling.value.font", FontStyle{Face: "sans", Size: 8, Align: AlignRight}); err != nil {
		t.Fatalf("Set(font) error = %v", err)
	}
	if err := s.Set("axes.dependent.labeling.title.rotation", "diagonal"); err != nil {
		t.Fatalf("Set(rotation) error = %v", err)
	}

	if s.Title.Color != MustHex("#333333") {
		t.Fatalf("title color = %v", s.Title.Color)
	}
	if s.Axes.Independent.Labeling.CategoryLabels.MarginTop != 8 {
		t.Fatalf("margin-top = %v", s.Axes.Independent.Labeling.CategoryLabels.MarginTop)
	}
	if s.Axes.Independent.Ticks.Major.Enabled {
		t.Fatalf("major ticks still enabled")
	}
	if got := s.Axes.Dependent.Labeling.Value.Font; got.Size != 8 || got.Align != AlignRight {
		t.Fatalf("value font = %+v", got)
	}
	if s.Axes.Dependent.Labeling.Title.Rotation != -45 {
		t.Fatalf("rotation = %v", s.Axes.Dependent.Labeling.Title.Rotation)
	}
	// untouched siblings keep their defaults
	if s.Title.MarginTop != 7 {
		t.Fatalf("title margin-top = %v, want 7", s.Title.MarginTop)
	}
}

func TestSchemeMergePalette(t *testing.T) {
	s := DefaultBarScheme()
	if err := s.Merge(map[string]any{"series.color": []string{"#000000", "#ffffff"}}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	want := []Color{Black, White}
	if diff := cmp.Diff(want, s.Series.Colors); diff != "" {
		t.Fatalf("palette mismatch (-want +got):\n%s", diff)
	}
	if got := s.Series.ColorAt(3); got != White {
		t.Fatalf("ColorAt(3) = %v, want white", got)
	}
}

func TestSchemeMergeRejects(t *testing.T) {
	tests := map[string]any{
		"title.colour":                "#fff",
		"title.color":                 "not a color",
		"title.margin-top":            "seven",
		"background.transparency":     150,
		"axes.dependent.format.steps": 0,
	}
	for path, value := range tests {
		s := DefaultBarScheme()
		before := s.Clone()
		err := s.Set(path, value)
		if !errors.Is(err, ErrScheme) {
			t.Fatalf("Set(%q) error = %v, want ErrScheme", path, err)
		}
		if diff := cmp.Diff(before, s); diff != "" {
			t.Fatalf("Set(%q) modified the scheme on failure:\n%s", path, diff)
		}
	}
}

func TestSchemeSetFace(t *testing.T) {
	s := DefaultBarScheme()
	s.Legend.Font.Face = "mono"
	s.SetFace("GillSans.ttf")
	for _, f := range s.FontStyles() {
		if f == s.Legend.Font {
			continue
		}
		if f.Face != "GillSans.ttf" {
			t.Fatalf("font %+v kept its face", f)
		}
	}
	if s.Legend.Font.Face != "mono" {
		t.Fatalf("explicit legend face replaced: %q", s.Legend.Font.Face)
	}
}
