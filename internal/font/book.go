// Package font loads font faces and measures text for chart layout.
//
// A Book is an explicit context object handed to renderers; it parses each
// face once and caches faces per size and text dimensions per string.
package font

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"chartkit/internal/style"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

var ErrFontNotFound = errors.New("font not found")

var builtin = map[string][]byte{
	"sans":       goregular.TTF,
	"sans-serif": goregular.TTF,
	"serif":      goregular.TTF,
	"sans-bold":  gobold.TTF,
	"mono":       gomono.TTF,
}

// Builtin reports whether name is a face that ships with the binary.
func Builtin(name string) bool {
	_, ok := builtin[strings.ToLower(name)]
	return ok
}

type faceKey struct {
	name string
	size float64
}

type measureKey struct {
	name     string
	size     float64
	text     string
	rotation float64
}

// Book resolves face names to parsed fonts.
type Book struct {
	dirs []string

	mu       sync.Mutex
	raw      map[string][]byte
	parsed   map[string]*truetype.Font
	faces    map[faceKey]xfont.Face
	measures map[measureKey][2]float64
}

// NewBook creates a book that searches dirs for non built-in faces.
func NewBook(dirs ...string) *Book {
	return &Book{
		dirs:     dirs,
		raw:      make(map[string][]byte),
		parsed:   make(map[string]*truetype.Font),
		faces:    make(map[faceKey]xfont.Face),
		measures: make(map[measureKey][2]float64),
	}
}

// Bytes returns the raw font file for a face.
func (b *Book) Bytes(name string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bytesLocked(name)
}

func (b *Book) bytesLocked(name string) ([]byte, error) {
	if name == "" {
		name = style.DefaultFace
	}
	if data, ok := b.raw[name]; ok {
		return data, nil
	}
	if data, ok := builtin[strings.ToLower(name)]; ok {
		b.raw[name] = data
		return data, nil
	}

	path, err := b.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", path, err)
	}
	b.raw[name] = data
	return data, nil
}

func (b *Book) resolve(name string) (string, error) {
	candidates := []string{expandPath(name)}
	if !filepath.IsAbs(name) {
		for _, dir := range b.dirs {
			candidates = append(candidates, filepath.Join(expandPath(dir), name))
		}
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s (searched %s)", ErrFontNotFound, name, strings.Join(candidates, ", "))
}

func (b *Book) fontLocked(name string) (*truetype.Font, error) {
	if f, ok := b.parsed[name]; ok {
		return f, nil
	}
	data, err := b.bytesLocked(name)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	b.parsed[name] = f
	return f, nil
}

// Face returns a new face for name at size pixels. Faces keep a glyph cache
// and must not be shared between goroutines; the book's own measuring faces
// stay behind its lock.
func (b *Book) Face(name string, size float64) (xfont.Face, error) {
	b.mu.Lock()
	f, err := b.fontLocked(name)
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return newFace(f, size), nil
}

func newFace(f *truetype.Font, size float64) xfont.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
}

func (b *Book) faceLocked(name string, size float64) (xfont.Face, error) {
	key := faceKey{name, size}
	if face, ok := b.faces[key]; ok {
		return face, nil
	}
	f, err := b.fontLocked(name)
	if err != nil {
		return nil, err
	}
	face := newFace(f, size)
	b.faces[key] = face
	return face, nil
}

// Preload parses every face used by styles so missing files surface before
// drawing starts.
func (b *Book) Preload(styles ...style.FontStyle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range styles {
		s = s.Normalized()
		if _, err := b.faceLocked(s.Face, s.Size); err != nil {
			return err
		}
	}
	return nil
}

// Measure returns the width and height of text set in s. A non-zero rotation
// yields the bounding box of the rotated text.
func (b *Book) Measure(s style.FontStyle, text string, rotation style.Rotation) (float64, float64, error) {
	s = s.Normalized()
	key := measureKey{s.Face, s.Size, text, rotation.Degrees()}

	b.mu.Lock()
	defer b.mu.Unlock()
	if d, ok := b.measures[key]; ok {
		return d[0], d[1], nil
	}

	face, err := b.faceLocked(s.Face, s.Size)
	if err != nil {
		return 0, 0, err
	}
	w, h := textBox(face, text)
	w, h = rotateBox(w, h, rotation.Degrees())
	b.measures[key] = [2]float64{w, h}
	return w, h, nil
}

// MaxMeasure returns the largest width and height over texts.
func (b *Book) MaxMeasure(s style.FontStyle, texts []string, rotation style.Rotation) (float64, float64, error) {
	var mw, mh float64
	for _, t := range texts {
		w, h, err := b.Measure(s, t, rotation)
		if err != nil {
			return 0, 0, err
		}
		mw, mh = math.Max(mw, w), math.Max(mh, h)
	}
	return mw, mh, nil
}

// LineHeight is the ascent plus descent of a face.
func (b *Book) LineHeight(s style.FontStyle) (float64, error) {
	s = s.Normalized()
	b.mu.Lock()
	defer b.mu.Unlock()
	face, err := b.faceLocked(s.Face, s.Size)
	if err != nil {
		return 0, err
	}
	m := face.Metrics()
	return float64(m.Ascent+m.Descent) / 64, nil
}

// textBox measures like gg does: advance width and the face height.
func textBox(face xfont.Face, text string) (float64, float64) {
	adv := xfont.MeasureString(face, text)
	m := face.Metrics()
	return float64(adv) / 64, float64(m.Height) / 64
}

func rotateBox(w, h, deg float64) (float64, float64) {
	if deg == 0 {
		return w, h
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	return w*cos + h*sin, w*sin + h*cos
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
