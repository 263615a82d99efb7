package state

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

var ErrUnknownColor = errors.New("color alias not defined by theme")

// ColorAlias is a logical stroke color. The concrete RGB value depends on the
// theme and the UI mode.
type ColorAlias int

const (
	White ColorAlias = iota
	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
)

var aliasNames = [...]string{"white", "black", "red", "green", "yellow", "blue", "magenta", "cyan"}

// Aliases lists every color alias in declaration order.
func Aliases() []ColorAlias {
	out := make([]ColorAlias, len(aliasNames))
	for i := range out {
		out[i] = ColorAlias(i)
	}
	return out
}

func (c ColorAlias) String() string {
	if c < 0 || int(c) >= len(aliasNames) {
		return fmt.Sprintf("ColorAlias(%d)", int(c))
	}
	return aliasNames[c]
}

func (c ColorAlias) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(aliasNames) {
		return nil, fmt.Errorf("marshal %v: %w", c, ErrUnknownColor)
	}
	return []byte(aliasNames[c]), nil
}

func (c *ColorAlias) UnmarshalText(text []byte) error {
	alias, err := ParseColorAlias(string(text))
	if err != nil {
		return err
	}
	*c = alias
	return nil
}

// ParseColorAlias maps a lowercase alias name back to its value.
func ParseColorAlias(name string) (ColorAlias, error) {
	for i, n := range aliasNames {
		if n == name {
			return ColorAlias(i), nil
		}
	}
	return 0, fmt.Errorf("parse %q: %w", name, ErrUnknownColor)
}

// Mode selects the light or dark half of a theme.
type Mode int

const (
	Light Mode = iota
	Dark
)

// RGB is an opaque color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ThemeColor holds an alias' value for both UI modes.
type ThemeColor struct {
	Light RGB `json:"light"`
	Dark  RGB `json:"dark"`
}

// Theme maps color aliases to concrete colors.
type Theme map[ColorAlias]ThemeColor

// DefaultTheme swaps white and black between modes so strokes stay visible
// against the canvas.
var DefaultTheme = Theme{
	White:   {Light: RGB{0x00, 0x00, 0x00}, Dark: RGB{0xFF, 0xFF, 0xFF}},
	Black:   {Light: RGB{0xFF, 0xFF, 0xFF}, Dark: RGB{0x00, 0x00, 0x00}},
	Red:     {Light: RGB{0xDF, 0x20, 0x20}, Dark: RGB{0xFF, 0x55, 0x55}},
	Green:   {Light: RGB{0x20, 0x9F, 0x40}, Dark: RGB{0x50, 0xFA, 0x7B}},
	Yellow:  {Light: RGB{0xD4, 0xA0, 0x00}, Dark: RGB{0xF1, 0xFA, 0x8C}},
	Blue:    {Light: RGB{0x20, 0x50, 0xDF}, Dark: RGB{0x62, 0x9F, 0xFF}},
	Magenta: {Light: RGB{0xB0, 0x30, 0xB0}, Dark: RGB{0xFF, 0x79, 0xC6}},
	Cyan:    {Light: RGB{0x10, 0xA0, 0xB0}, Dark: RGB{0x8B, 0xE9, 0xFD}},
}

// ColorResolver turns an alias and a target alpha into a concrete color.
type ColorResolver func(alias ColorAlias, alpha float64) (color.NRGBA, error)

// Resolve returns a ColorResolver bound to the given UI mode.
func (t Theme) Resolve(mode Mode) ColorResolver {
	return func(alias ColorAlias, alpha float64) (color.NRGBA, error) {
		tc, ok := t[alias]
		if !ok {
			return color.NRGBA{}, fmt.Errorf("resolve %v: %w", alias, ErrUnknownColor)
		}
		c := tc.Light
		if mode == Dark {
			c = tc.Dark
		}
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alphaByte(alpha)}, nil
	}
}

func alphaByte(alpha float64) uint8 {
	if math.IsNaN(alpha) || alpha <= 0 {
		return 0
	}
	if alpha >= 1 {
		return 0xFF
	}
	return uint8(alpha * 255)
}
