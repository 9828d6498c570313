// Package palette provides the pen colour sequences used to draw curves.
//
// A [Palette] is an ordered list of colours. The interpreter takes one colour
// per drawing symbol from a [Cursor], wrapping around forever, so consecutive
// segments of a curve step through the palette in order regardless of any
// turns, pushes or inert symbols in between.
package palette

import (
	"fmt"
	"image/color"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/fractaldraw/pkg/errors"
)

// Palette is an ordered list of pen colours.
type Palette []color.RGBA

// Background is the canvas colour every sink paints first.
var Background = color.RGBA{A: 0xff}

// Built-in palette names.
const (
	Rainbow = "rainbow"
	Alt     = "alt"
)

// Default is the palette used when none is configured.
const Default = Rainbow

// X11/Tk colour values for the names the built-in palettes and Parse accept.
var named = map[string]color.RGBA{
	"black":  {0x00, 0x00, 0x00, 0xff},
	"white":  {0xff, 0xff, 0xff, 0xff},
	"red":    {0xff, 0x00, 0x00, 0xff},
	"orange": {0xff, 0xa5, 0x00, 0xff},
	"yellow": {0xff, 0xff, 0x00, 0xff},
	"green":  {0x00, 0x80, 0x00, 0xff},
	"lime":   {0x00, 0xff, 0x00, 0xff},
	"cyan":   {0x00, 0xff, 0xff, 0xff},
	"blue":   {0x00, 0x00, 0xff, 0xff},
	"indigo": {0x4b, 0x00, 0x82, 0xff},
	"violet": {0xee, 0x82, 0xee, 0xff},
	"purple": {0x80, 0x00, 0x80, 0xff},
	"pink":   {0xff, 0xc0, 0xcb, 0xff},
	"gray":   {0xbe, 0xbe, 0xbe, 0xff},
}

var builtin = map[string][]string{
	Rainbow: {"red", "orange", "yellow", "green", "blue", "indigo", "violet"},
	Alt:     {"red", "green"},
}

// Names returns the built-in palette names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Named returns a built-in palette.
func Named(name string) (Palette, error) {
	cols, ok := builtin[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "unknown palette %q (available: %s)",
			name, strings.Join(Names(), ", "))
	}
	p := make(Palette, len(cols))
	for i, c := range cols {
		p[i] = named[c]
	}
	return p, nil
}

// Parse accepts a built-in palette name or a comma-separated list of colour
// names and #rgb / #rrggbb hex values.
func Parse(s string) (Palette, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "palette cannot be empty")
	}
	if _, ok := builtin[strings.ToLower(s)]; ok {
		return Named(s)
	}

	var p Palette
	for _, field := range strings.Split(s, ",") {
		c, err := ParseColor(field)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	return p, nil
}

// ParseColor parses a single colour name or hex value.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidPalette, "unknown colour %q", s)
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidPalette, "bad colour %q: want 3 or 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidPalette, err, "bad colour %q", s)
	}
	r, g, b := uint8(v>>16), uint8(v>>8), uint8(v)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Hex formats c as #rrggbb.
func Hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// Cursor cycles through a palette without end.
type Cursor struct {
	p Palette
	i int
}

// Cursor returns a cursor positioned at the first colour.
func (p Palette) Cursor() *Cursor {
	return &Cursor{p: p}
}

// Next returns the current colour and advances. An empty palette yields white.
func (c *Cursor) Next() color.RGBA {
	if len(c.p) == 0 {
		return named["white"]
	}
	col := c.p[c.i]
	c.i = (c.i + 1) % len(c.p)
	return col
}

// Reset rewinds the cursor to the first colour.
func (c *Cursor) Reset() { c.i = 0 }
