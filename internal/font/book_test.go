package font

import (
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"chartkit/internal/style"
)

func TestBuiltinFaces(t *testing.T) {
	b := NewBook()
	for _, name := range []string{"sans", "Sans-Serif", "serif", "sans-bold", "mono", ""} {
		if _, err := b.Face(name, 12); err != nil {
			t.Fatalf("Face(%q) error = %v", name, err)
		}
	}
	if !Builtin("MONO") {
		t.Fatalf("Builtin(MONO) = false")
	}
	if Builtin("comic") {
		t.Fatalf("Builtin(comic) = true")
	}
}

func TestMissingFont(t *testing.T) {
	b := NewBook(t.TempDir())
	_, err := b.Face("missing.ttf", 12)
	if !errors.Is(err, ErrFontNotFound) {
		t.Fatalf("Face(missing.ttf) error = %v, want ErrFontNotFound", err)
	}
	_, _, err = b.Measure(style.FontStyle{Face: filepath.Join(t.TempDir(), "x.ttf")}, "abc", 0)
	if !errors.Is(err, ErrFontNotFound) {
		t.Fatalf("Measure() error = %v, want ErrFontNotFound", err)
	}
}

func TestMeasure(t *testing.T) {
	b := NewBook()
	s := style.Font(12, style.AlignLeft)

	short, h, err := b.Measure(s, "ab", 0)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	long, _, err := b.Measure(s, "abcdef", 0)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if short <= 0 || h <= 0 {
		t.Fatalf("Measure(ab) = %v x %v, want positive", short, h)
	}
	if long <= short {
		t.Fatalf("Measure(abcdef) width %v <= Measure(ab) width %v", long, short)
	}

	big, bigH, err := b.Measure(style.Font(24, style.AlignLeft), "ab", 0)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if big <= short || bigH <= h {
		t.Fatalf("24px box %vx%v not larger than 12px box %vx%v", big, bigH, short, h)
	}
}

func TestMeasureRotated(t *testing.T) {
	b := NewBook()
	s := style.Font(12, style.AlignLeft)
	w, h, err := b.Measure(s, "Average height", 0)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	for _, deg := range []style.Rotation{-90, 90} {
		rw, rh, err := b.Measure(s, "Average height", deg)
		if err != nil {
			t.Fatalf("Measure(%v) error = %v", deg, err)
		}
		if math.Abs(rw-h) > 1e-9 || math.Abs(rh-w) > 1e-9 {
			t.Fatalf("Measure(%v) = %vx%v, want %vx%v", deg, rw, rh, h, w)
		}
	}

	dw, dh, err := b.Measure(s, "Average height", -45)
	if err != nil {
		t.Fatalf("Measure(-45) error = %v", err)
	}
	want := (w + h) * math.Sqrt2 / 2
	if math.Abs(dw-want) > 1e-9 || math.Abs(dh-want) > 1e-9 {
		t.Fatalf("Measure(-45) = %vx%v, want %v square", dw, dh, want)
	}
}

func TestMaxMeasure(t *testing.T) {
	b := NewBook()
	s := style.Font(10, style.AlignRight)
	texts := []string{"0.00", "-10.00", "5.00"}
	mw, _, err := b.MaxMeasure(s, texts, 0)
	if err != nil {
		t.Fatalf("MaxMeasure() error = %v", err)
	}
	w, _, _ := b.Measure(s, "-10.00", 0)
	if mw != w {
		t.Fatalf("MaxMeasure() width = %v, want %v", mw, w)
	}

	if mw, mh, err := b.MaxMeasure(s, nil, 0); err != nil || mw != 0 || mh != 0 {
		t.Fatalf("MaxMeasure(nil) = %v, %v, %v", mw, mh, err)
	}
}

func TestMeasureConcurrent(t *testing.T) {
	b := NewBook()
	s := style.Font(11, style.AlignCenter)
	want, _, err := b.Measure(s, "Week 10", 0)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w, _, err := b.Measure(s, "Week 10", 0)
			if err == nil && w != want {
				err = errors.New("width differs between calls")
			}
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestLineHeight(t *testing.T) {
	b := NewBook()
	h, err := b.LineHeight(style.FontStyle{})
	if err != nil {
		t.Fatalf("LineHeight() error = %v", err)
	}
	if h <= 0 || h > 2*style.DefaultFontSize {
		t.Fatalf("LineHeight() = %v", h)
	}
}
