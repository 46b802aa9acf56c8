package willowtheme

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor parses a color literal. Accepted forms are #RGB, #ARGB,
// #RRGGBB, #AARRGGBB and the CSS color names ("red", "cornflowerblue",
// "transparent", ...). Names are case-insensitive.
func ParseColor(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, false
	}
	if s[0] == '#' {
		return parseHexColor(s[1:])
	}
	name := strings.ToLower(s)
	if name == "transparent" {
		return ColorTransparent, true
	}
	if c, ok := colornames.Map[name]; ok {
		return colorFromRGBA(c), true
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	var a, r, g, b uint64
	switch len(hex) {
	case 3:
		a, r, g, b = 0xF, v>>8&0xF, v>>4&0xF, v&0xF
		a, r, g, b = a*0x11, r*0x11, g*0x11, b*0x11
	case 4:
		a, r, g, b = v>>12&0xF, v>>8&0xF, v>>4&0xF, v&0xF
		a, r, g, b = a*0x11, r*0x11, g*0x11, b*0x11
	case 6:
		a, r, g, b = 0xFF, v>>16&0xFF, v>>8&0xFF, v&0xFF
	case 8:
		a, r, g, b = v>>24&0xFF, v>>16&0xFF, v>>8&0xFF, v&0xFF
	default:
		return Color{}, false
	}
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, true
}

// colorFromRGBA converts a premultiplied color.RGBA to a straight-alpha Color.
func colorFromRGBA(c color.RGBA) Color {
	if c.A == 0 {
		return Color{}
	}
	a := float64(c.A) / 255
	return Color{
		R: float64(c.R) / 255 / a,
		G: float64(c.G) / 255 / a,
		B: float64(c.B) / 255 / a,
		A: a,
	}
}

// toRGBA converts a Color to a premultiplied color.RGBA for image fills.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}
