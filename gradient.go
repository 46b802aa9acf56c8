package willowtheme

import (
	"fmt"
	"math"
	"strings"
)

// GradientType is the direction of a gradient.
type GradientType uint8

const (
	GradientHorizontal GradientType = iota
	GradientVertical
)

// GradientWrap controls how stops are mapped when they do not span [0, 1].
type GradientWrap uint8

const (
	WrapScale  GradientWrap = iota // stops are stretched to the draw area
	WrapClamp                      // first and last color extend outwards
	WrapRepeat                     // the stop pattern repeats
	WrapMirror                     // the stop pattern repeats mirrored
)

func parseGradientType(s string) (GradientType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal":
		return GradientHorizontal, nil
	case "vertical":
		return GradientVertical, nil
	}
	return 0, fmt.Errorf("unknown gradient type %q", s)
}

func parseGradientWrap(s string) (GradientWrap, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scale":
		return WrapScale, nil
	case "clamp":
		return WrapClamp, nil
	case "repeat":
		return WrapRepeat, nil
	case "mirror":
		return WrapMirror, nil
	}
	return 0, fmt.Errorf("unknown gradient wrap %q", s)
}

// GradientStop is a color at a position along the gradient axis.
type GradientStop struct {
	Pos   float64
	Color Color
}

// Gradient describes a linear color ramp. The renderer turns it into an
// Image.
type Gradient struct {
	Type  GradientType
	Wrap  GradientWrap
	Stops []GradientStop
}

// AddStop appends a stop. Positions must not decrease.
func (g *Gradient) AddStop(pos float64, c Color) error {
	if math.IsNaN(pos) || math.IsInf(pos, 0) {
		return fmt.Errorf("invalid stop position %v", pos)
	}
	if n := len(g.Stops); n > 0 && pos < g.Stops[n-1].Pos {
		return fmt.Errorf("stop position %v must not be less than %v", pos, g.Stops[n-1].Pos)
	}
	g.Stops = append(g.Stops, GradientStop{Pos: pos, Color: c})
	return nil
}

// ColorAt returns the color at position t along the axis after applying
// the wrap mode. With WrapScale t is mapped from [0, 1] onto the range
// covered by the stops.
func (g *Gradient) ColorAt(t float64) Color {
	switch len(g.Stops) {
	case 0:
		return ColorTransparent
	case 1:
		return g.Stops[0].Color
	}
	first, last := g.Stops[0].Pos, g.Stops[len(g.Stops)-1].Pos
	span := last - first
	switch g.Wrap {
	case WrapScale:
		t = first + t*span
	case WrapRepeat:
		if span > 0 {
			t = first + math.Mod(math.Mod(t-first, span)+span, span)
		}
	case WrapMirror:
		if span > 0 {
			m := math.Mod(math.Mod(t-first, 2*span)+2*span, 2*span)
			if m > span {
				m = 2*span - m
			}
			t = first + m
		}
	}
	if t <= first {
		return g.Stops[0].Color
	}
	for i := 1; i < len(g.Stops); i++ {
		a, b := g.Stops[i-1], g.Stops[i]
		if t <= b.Pos {
			if b.Pos == a.Pos {
				return b.Color
			}
			return a.Color.Lerp(b.Color, (t-a.Pos)/(b.Pos-a.Pos))
		}
	}
	return g.Stops[len(g.Stops)-1].Color
}
