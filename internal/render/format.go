// Package render turns drawing commands into PNG, SVG or PDF output.
package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrUnknownFormat = errors.New("unknown output format")

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
	PDF Format = "pdf"
)

// Formats lists every supported output format.
func Formats() []Format { return []Format{PNG, SVG, PDF} }

func (f Format) String() string { return string(f) }

// Ext is the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ParseFormat accepts a format name case-insensitively, with or without a
// leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case PNG, SVG, PDF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}
