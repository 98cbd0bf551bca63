package styles

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// namedColors covers the color names accepted in options. Values follow the
// CSS named-color table.
var namedColors = map[string]color.RGBA{
	"black":       {0x00, 0x00, 0x00, 0xFF},
	"white":       {0xFF, 0xFF, 0xFF, 0xFF},
	"gray":        {0x80, 0x80, 0x80, 0xFF},
	"lightgray":   {0xD3, 0xD3, 0xD3, 0xFF},
	"darkgray":    {0xA9, 0xA9, 0xA9, 0xFF},
	"red":         {0xFF, 0x00, 0x00, 0xFF},
	"green":       {0x00, 0x80, 0x00, 0xFF},
	"blue":        {0x00, 0x00, 0xFF, 0xFF},
	"transparent": {0x00, 0x00, 0x00, 0x00},
}

// ARGBToRGBA converts a spreadsheet ARGB hex string (no '#') to a color.
// ok is false for empty or malformed input.
func ARGBToRGBA(argb string) (color.RGBA, bool) {
	if len(argb) != 8 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(argb, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, true
}

// ParseColor parses an option color string: a named color or a hex form
// (#RGB, #RRGGBB, #RRGGBBAA).
func ParseColor(s string) (color.RGBA, bool) {
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, true
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		v, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return color.RGBA{}, false
		}
		r := uint8(v >> 8 & 0xF)
		g := uint8(v >> 4 & 0xF)
		b := uint8(v & 0xF)
		return color.RGBA{R: r*16 + r, G: g*16 + g, B: b*16 + b, A: 0xFF}, true
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, false
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, true
	case 8:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, false
		}
		return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
	}
	return color.RGBA{}, false
}

// HexRGBA renders a color in the lowered "#RRGGBBAA" form.
func HexRGBA(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
