package chart

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidValue    = errors.New("invalid value")
)

// Category is one labelled slot of a series. A series may hold several
// values under the same label.
type Category struct {
	Label  string
	Values []float64
}

// Value returns the first value of the category.
func (c Category) Value() float64 {
	if len(c.Values) == 0 {
		return 0
	}
	return c.Values[0]
}

// Series is an ordered row of labelled values.
type Series struct {
	Title      string
	Categories []Category
}

func NewSeries(title string) *Series {
	return &Series{Title: title}
}

// Append adds value under label, creating the category on first use.
func (s *Series) Append(label string, value float64) *Series {
	if i, err := s.Index(label); err == nil {
		s.Categories[i].Values = append(s.Categories[i].Values, value)
		return s
	}
	s.Categories = append(s.Categories, Category{Label: label, Values: []float64{value}})
	return s
}

// Insert places a new category at position i.
func (s *Series) Insert(i int, label string, value float64) error {
	if i < 0 || i > len(s.Categories) {
		return fmt.Errorf("insert %q at %d: index out of range [0,%d]", label, i, len(s.Categories))
	}
	if _, err := s.Index(label); err == nil {
		return fmt.Errorf("insert %q: category already exists", label)
	}
	s.Categories = append(s.Categories, Category{})
	copy(s.Categories[i+1:], s.Categories[i:])
	s.Categories[i] = Category{Label: label, Values: []float64{value}}
	return nil
}

// FromEquation appends f(x) for every x, labelled with the formatted x.
func (s *Series) FromEquation(xs []float64, f func(float64) float64) *Series {
	for _, x := range xs {
		s.Append(strconv.FormatFloat(x, 'f', -1, 64), f(x))
	}
	return s
}

// Index returns the position of label.
func (s *Series) Index(label string) (int, error) {
	for i, c := range s.Categories {
		if c.Label == label {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q in series %q", ErrUnknownCategory, label, s.Title)
}

// Get returns the category with label.
func (s *Series) Get(label string) (Category, bool) {
	i, err := s.Index(label)
	if err != nil {
		return Category{}, false
	}
	return s.Categories[i], true
}

// Remove drops the category with label.
func (s *Series) Remove(label string) error {
	i, err := s.Index(label)
	if err != nil {
		return err
	}
	s.Categories = append(s.Categories[:i], s.Categories[i+1:]...)
	return nil
}

func (s *Series) Labels() []string {
	labels := make([]string, len(s.Categories))
	for i, c := range s.Categories {
		labels[i] = c.Label
	}
	return labels
}

// Values flattens every value of the series in category order.
func (s *Series) Values() []float64 {
	var values []float64
	for _, c := range s.Categories {
		values = append(values, c.Values...)
	}
	return values
}

// Count is the number of values filed under label.
func (s *Series) Count(label string) int {
	c, ok := s.Get(label)
	if !ok {
		return 0
	}
	return len(c.Values)
}

func (s *Series) validate() error {
	for _, c := range s.Categories {
		for _, v := range c.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: series %q category %q holds %v", ErrInvalidValue, s.Title, c.Label, v)
			}
		}
	}
	return nil
}

// Range returns xs from start to end inclusive in steps of step.
func Range(start, end, step float64) []float64 {
	if step <= 0 || end < start {
		return nil
	}
	n := int(math.Floor((end-start)/step+1e-9)) + 1
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = start + float64(i)*step
	}
	return xs
}
