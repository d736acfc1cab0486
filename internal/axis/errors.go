package axis

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("axis configuration error")
	ErrLookup        = errors.New("axis lookup error")
)

// ConfigError describes why an axis could not be constructed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "axis configuration error: <nil>"
	}
	return fmt.Sprintf("axis configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// LookupError is returned when a label is not part of a categorical axis.
type LookupError struct {
	Label string
}

func (e *LookupError) Error() string {
	if e == nil {
		return "axis lookup error: <nil>"
	}
	return fmt.Sprintf("axis lookup error: unknown category %q", e.Label)
}

func (e *LookupError) Unwrap() error { return ErrLookup }

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
