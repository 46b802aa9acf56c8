package willowtheme

import (
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent is fully transparent black.
var ColorTransparent = Color{}

// Mul returns the component-wise product of c and o.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// IsWhite reports whether c leaves colors unchanged when used as a tint.
func (c Color) IsWhite() bool {
	return c == ColorWhite
}

// Lerp blends linearly from c to o. t is clamped to [0, 1].
func (c Color) Lerp(o Color, t float64) Color {
	t = clamp01(t)
	return Color{
		R: lerp(c.R, o.R, t),
		G: lerp(c.G, o.G, t),
		B: lerp(c.B, o.B, t),
		A: lerp(c.A, o.A, t),
	}
}

func lerp(a, b, t float64) float64 {
	return float64(ease.Linear(float32(t), float32(a), float32(b-a), 1))
}

// String formats the color as #AARRGGBB, the same form ParseColor accepts.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", to8(c.A), to8(c.R), to8(c.G), to8(c.B))
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Border holds the four edge sizes used for 9-patch layout and insets.
type Border struct {
	Top, Left, Bottom, Right int
}

// BorderZero is a border with all edges set to zero.
var BorderZero = Border{}

// NewBorder builds a border from 1, 2 or 4 values:
//
//	4          -> all edges 4
//	2, 3       -> top/bottom 2, left/right 3
//	1, 2, 3, 4 -> top 1, right 2, bottom 3, left 4
func NewBorder(values ...int) (Border, error) {
	switch len(values) {
	case 1:
		v := values[0]
		return Border{Top: v, Left: v, Bottom: v, Right: v}, nil
	case 2:
		return Border{Top: values[0], Bottom: values[0], Left: values[1], Right: values[1]}, nil
	case 4:
		return Border{Top: values[0], Right: values[1], Bottom: values[2], Left: values[3]}, nil
	default:
		return Border{}, fmt.Errorf("border requires 1, 2 or 4 values, got %d", len(values))
	}
}

// Horizontal returns Left+Right.
func (b Border) Horizontal() int { return b.Left + b.Right }

// Vertical returns Top+Bottom.
func (b Border) Vertical() int { return b.Top + b.Bottom }

// Dimension is an integer width/height pair.
type Dimension struct {
	X, Y int
}

// NewDimension builds a dimension from exactly two values.
func NewDimension(values ...int) (Dimension, error) {
	if len(values) != 2 {
		return Dimension{}, fmt.Errorf("dimension requires 2 values, got %d", len(values))
	}
	return Dimension{X: values[0], Y: values[1]}, nil
}

// Gap describes a layout gap or size with minimum, preferred and maximum
// extents.
type Gap struct {
	Min, Preferred, Max int
}

// NewGap builds a gap from 1 to 3 values. A single value fixes all three
// extents; two values set min and preferred with an unbounded max.
func NewGap(values ...int) (Gap, error) {
	switch len(values) {
	case 1:
		return Gap{values[0], values[0], values[0]}, nil
	case 2:
		return Gap{values[0], values[1], math.MaxInt16}, nil
	case 3:
		return Gap{values[0], values[1], values[2]}, nil
	default:
		return Gap{}, fmt.Errorf("gap requires 1 to 3 values, got %d", len(values))
	}
}

// Rotation is the clockwise rotation applied to a texture area.
type Rotation uint8

const (
	RotationNone Rotation = iota // no rotation
	Rotation90                   // 90 degrees clockwise
	Rotation180                  // 180 degrees
	Rotation270                  // 270 degrees clockwise
)

// Degrees returns the rotation angle in degrees.
func (r Rotation) Degrees() int {
	return int(r) * 90
}

// Rect is an axis-aligned integer rectangle. Width and Height may be negative
// for texture areas, which flips the sampled image along that axis.
type Rect struct {
	X, Y, Width, Height int
}
