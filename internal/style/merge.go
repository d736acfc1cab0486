package style

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Set overrides a single value addressed by a dotted path, for example
// "title.color" or "axes.dependent.labeling.value.font.size".
func (s *Scheme) Set(path string, value any) error {
	return s.Merge(map[string]any{path: value})
}

// Merge applies dotted-path overrides on top of the current values. Keys that
// do not exist in the scheme and values of the wrong type are rejected and
// leave the scheme untouched.
func (s *Scheme) Merge(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}

	v := viper.New()
	for path, value := range overrides {
		path = strings.TrimSpace(path)
		if path == "" {
			return fmt.Errorf("%w: empty override path", ErrScheme)
		}
		v.Set(path, value)
	}

	next := s.Clone()
	err := v.Unmarshal(next,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			colorHook,
			rotationHook,
			mapstructure.StringToSliceHookFunc(","),
		)),
		func(c *mapstructure.DecoderConfig) {
			c.ErrorUnused = true
		},
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScheme, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*s = *next
	return nil
}

var (
	colorType    = reflect.TypeOf(Color{})
	rotationType = reflect.TypeOf(Rotation(0))
)

func colorHook(from, to reflect.Type, data any) (any, error) {
	if to != colorType || from.Kind() != reflect.String {
		return data, nil
	}
	return ParseHex(reflect.ValueOf(data).String())
}

func rotationHook(from, to reflect.Type, data any) (any, error) {
	if to != rotationType || from.Kind() != reflect.String {
		return data, nil
	}
	return ParseRotation(reflect.ValueOf(data).String())
}
