package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB triple. In YAML it is a three-element sequence; on the
// command line it is written "(r, g, b)" or "r,g,b".
type Color [3]float32

// ParseColor parses "(r, g, b)" or "r,g,b".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("color %q: want 3 components, got %d", s, len(parts))
	}

	var c Color
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return Color{}, fmt.Errorf("color %q: component %d: %w", s, i, err)
		}
		c[i] = float32(v)
	}
	return c, nil
}

// String formats the color the way ParseColor reads it.
func (c Color) String() string {
	return fmt.Sprintf("(%g, %g, %g)", c[0], c[1], c[2])
}

// colorFlag is a flag.Value that records whether it was set.
type colorFlag struct {
	value Color
	set   bool
}

func (f *colorFlag) String() string {
	return f.value.String()
}

func (f *colorFlag) Set(s string) error {
	c, err := ParseColor(s)
	if err != nil {
		return err
	}
	f.value = c
	f.set = true
	return nil
}
