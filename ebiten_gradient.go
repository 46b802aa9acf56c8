package willowtheme

import (
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxGradientSegments caps the quads emitted for repeating gradients.
const maxGradientSegments = 1024

// CreateGradient returns an image that draws g with vertex-colored
// triangles.
func (r *EbitenRenderer) CreateGradient(g *Gradient) (Image, error) {
	stops := append([]GradientStop(nil), g.Stops...)
	return &gradientImage{
		renderer: r,
		gradient: &Gradient{Type: g.Type, Wrap: g.Wrap, Stops: stops},
		tint:     ColorWhite,
	}, nil
}

type gradientImage struct {
	renderer *EbitenRenderer
	gradient *Gradient
	tint     Color

	verts []ebiten.Vertex
	inds  []uint32
}

func (gi *gradientImage) Width() int  { return 1 }
func (gi *gradientImage) Height() int { return 1 }

func (gi *gradientImage) TintedVersion(c Color) Image {
	if c.IsWhite() {
		return gi
	}
	return &gradientImage{renderer: gi.renderer, gradient: gi.gradient, tint: gi.tint.Mul(c)}
}

func (gi *gradientImage) Draw(_ AnimationState, x, y, width, height int) {
	dst := gi.renderer.target
	if dst == nil || width <= 0 || height <= 0 || len(gi.gradient.Stops) == 0 {
		return
	}
	length := float64(width)
	if gi.gradient.Type == GradientVertical {
		length = float64(height)
	}
	tint := gi.tint.Mul(gi.renderer.tint())

	gi.verts = gi.verts[:0]
	gi.inds = gi.inds[:0]
	for _, p := range gi.gradient.breakpoints(length) {
		c := gi.gradient.colorAtPixel(p, length).Mul(tint)
		var x0, y0, x1, y1 float32
		if gi.gradient.Type == GradientVertical {
			x0, y0 = float32(x), float32(float64(y)+p)
			x1, y1 = float32(x+width), y0
		} else {
			x0, y0 = float32(float64(x)+p), float32(y)
			x1, y1 = x0, float32(y+height)
		}
		base := uint32(len(gi.verts))
		gi.verts = append(gi.verts, gradientVertex(x0, y0, c), gradientVertex(x1, y1, c))
		if base > 0 {
			// Two triangles between the previous edge and this one.
			gi.inds = append(gi.inds,
				base-2, base-1, base,
				base-1, base+1, base,
			)
		}
	}
	var triOp ebiten.DrawTrianglesOptions
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	dst.DrawTriangles32(gi.verts, gi.inds, ensureWhitePixel(), &triOp)
}

func gradientVertex(x, y float32, c Color) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   x,
		DstY:   y,
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(c.R * c.A),
		ColorG: float32(c.G * c.A),
		ColorB: float32(c.B * c.A),
		ColorA: float32(c.A),
	}
}

// colorAtPixel returns the color at pixel offset p along an axis of the
// given length. WrapScale stretches the stops over the axis; the other
// modes treat stop positions as pixels.
func (g *Gradient) colorAtPixel(p, length float64) Color {
	if g.Wrap == WrapScale {
		if length <= 0 {
			return g.ColorAt(0)
		}
		return g.ColorAt(p / length)
	}
	return g.ColorAt(p)
}

// breakpoints returns the sorted pixel offsets in [0, length] at which the
// color ramp changes slope. Between two breakpoints the color is linear.
func (g *Gradient) breakpoints(length float64) []float64 {
	points := []float64{0, length}
	first, last := g.Stops[0].Pos, g.Stops[len(g.Stops)-1].Pos
	span := last - first
	add := func(p float64) {
		if p > 0 && p < length {
			points = append(points, p)
		}
	}
	switch {
	case g.Wrap == WrapScale:
		if span > 0 {
			for _, s := range g.Stops {
				add((s.Pos - first) / span * length)
			}
		}
	case g.Wrap == WrapClamp || span <= 0:
		for _, s := range g.Stops {
			add(s.Pos)
		}
	default:
		period := span
		if g.Wrap == WrapMirror {
			period = 2 * span
		}
		start := first + math.Floor(-first/period)*period
		for origin := start; origin < length && len(points) < maxGradientSegments; origin += period {
			for _, s := range g.Stops {
				off := s.Pos - first
				add(origin + off)
				if g.Wrap == WrapMirror {
					add(origin + period - off)
				}
			}
		}
	}
	sort.Float64s(points)
	out := points[:1]
	for _, p := range points[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
