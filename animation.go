package willowtheme

import (
	"fmt"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AnimElement is a node of an animation timeline: either a single frame
// (*AnimFrame) or a repeated sequence (*AnimRepeat).
type AnimElement interface {
	// Duration is the total play time in milliseconds. Endless repeats
	// report math.MaxInt.
	Duration() int
	width() int
	height() int
	firstFrame() *AnimFrame
	border() (Border, bool)
	render(t int, next *AnimFrame, x, y, w, h int, ai *AnimatedImage, as AnimationState)
}

// AnimFrame shows one image for a fixed time. Tint and zoom blend toward
// the following frame while it plays.
type AnimFrame struct {
	duration     int
	image        Image
	tint         Color
	zoomX, zoomY float64
	// zoomCenterX and zoomCenterY place the zoomed image inside the draw
	// rectangle: 0 is left/top aligned, 1 right/bottom aligned.
	zoomCenterX, zoomCenterY float64
}

// NewAnimFrame returns a frame. duration must not be negative.
func NewAnimFrame(duration int, image Image, tint Color, zoomX, zoomY, zoomCenterX, zoomCenterY float64) (*AnimFrame, error) {
	if duration < 0 {
		return nil, fmt.Errorf("duration must be >= 0 ms")
	}
	return &AnimFrame{
		duration:    duration,
		image:       image,
		tint:        tint,
		zoomX:       zoomX,
		zoomY:       zoomY,
		zoomCenterX: zoomCenterX,
		zoomCenterY: zoomCenterY,
	}, nil
}

func (f *AnimFrame) Duration() int          { return f.duration }
func (f *AnimFrame) width() int             { return f.image.Width() }
func (f *AnimFrame) height() int            { return f.image.Height() }
func (f *AnimFrame) firstFrame() *AnimFrame { return f }
func (f *AnimFrame) border() (Border, bool) { return imageBorder(f.image) }

// Image returns the frame's image.
func (f *AnimFrame) Image() Image { return f.image }

func (f *AnimFrame) render(t int, next *AnimFrame, x, y, w, h int, ai *AnimatedImage, as AnimationState) {
	tint := f.tint
	zx, zy, cx, cy := f.zoomX, f.zoomY, f.zoomCenterX, f.zoomCenterY
	if next != nil && f.duration > 0 {
		blend := func(from, to float64) float64 {
			v, _ := gween.New(float32(from), float32(to), float32(f.duration), ease.Linear).Set(float32(t))
			return float64(v)
		}
		tint = Color{
			R: blend(tint.R, next.tint.R),
			G: blend(tint.G, next.tint.G),
			B: blend(tint.B, next.tint.B),
			A: blend(tint.A, next.tint.A),
		}
		zx = blend(zx, next.zoomX)
		zy = blend(zy, next.zoomY)
		cx = blend(cx, next.zoomCenterX)
		cy = blend(cy, next.zoomCenterY)
	}
	ai.renderer.PushGlobalTintColor(tint.Mul(ai.tint))
	defer ai.renderer.PopGlobalTintColor()
	zw := int(float64(w) * zx)
	zh := int(float64(h) * zy)
	f.image.Draw(as, x+int(float64(w-zw)*cx), y+int(float64(h-zh)*cy), zw, zh)
}

// AnimRepeat plays its children in order, repeatCount times or forever
// when repeatCount is 0.
type AnimRepeat struct {
	children       []AnimElement
	repeatCount    int
	singleDuration int
	duration       int
}

// NewAnimRepeat returns a repeat over children. repeatCount must not be
// negative; 0 loops forever.
func NewAnimRepeat(children []AnimElement, repeatCount int) (*AnimRepeat, error) {
	if repeatCount < 0 {
		return nil, fmt.Errorf("invalid repeat count %d", repeatCount)
	}
	r := &AnimRepeat{children: children, repeatCount: repeatCount}
	for _, c := range children {
		r.singleDuration = saturatingAdd(r.singleDuration, c.Duration())
	}
	switch {
	case repeatCount == 0:
		r.duration = math.MaxInt
	case r.singleDuration > math.MaxInt/repeatCount:
		r.duration = math.MaxInt
	default:
		r.duration = r.singleDuration * repeatCount
	}
	return r, nil
}

func saturatingAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func (r *AnimRepeat) Duration() int { return r.duration }

// RepeatCount returns the number of loops, 0 for endless.
func (r *AnimRepeat) RepeatCount() int { return r.repeatCount }

func (r *AnimRepeat) width() int {
	w := 0
	for _, c := range r.children {
		w = max(w, c.width())
	}
	return w
}

func (r *AnimRepeat) height() int {
	h := 0
	for _, c := range r.children {
		h = max(h, c.height())
	}
	return h
}

func (r *AnimRepeat) firstFrame() *AnimFrame {
	if len(r.children) == 0 {
		return nil
	}
	return r.children[0].firstFrame()
}

func (r *AnimRepeat) border() (Border, bool) {
	for _, c := range r.children {
		if b, ok := c.border(); ok {
			return b, true
		}
	}
	return Border{}, false
}

func (r *AnimRepeat) render(t int, next *AnimFrame, x, y, w, h int, ai *AnimatedImage, as AnimationState) {
	if r.singleDuration == 0 {
		return
	}
	iteration := 0
	if r.repeatCount == 0 {
		t %= r.singleDuration
	} else {
		iteration = t / r.singleDuration
		t -= min(iteration, r.repeatCount-1) * r.singleDuration
	}
	var e AnimElement
	for i, c := range r.children {
		e = c
		if d := c.Duration(); t < d && d > 0 {
			if i+1 < len(r.children) {
				next = r.children[i+1].firstFrame()
			} else if r.repeatCount == 0 || iteration+1 < r.repeatCount {
				next = r.firstFrame()
			}
			break
		}
		t -= c.Duration()
	}
	if e != nil {
		e.render(t, next, x, y, w, h, ai, as)
	}
}

// AnimatedImage plays an animation timeline driven by the time of an
// animation state key.
type AnimatedImage struct {
	renderer   Renderer
	root       *AnimRepeat
	timeSource StateKey
	border     optBorder
	tint       Color
	frozenTime int
	width      int
	height     int
}

// NewAnimatedImage returns an animation. While timeSource should not
// animate the animation is shown at frozenTime; a negative frozenTime
// keeps it running.
func NewAnimatedImage(r Renderer, root *AnimRepeat, timeSource StateKey, tint Color, frozenTime int) *AnimatedImage {
	b, ok := root.border()
	return newAnimatedImage(r, root, timeSource, optBorder{b, ok}, tint, frozenTime)
}

func newAnimatedImage(r Renderer, root *AnimRepeat, timeSource StateKey, border optBorder, tint Color, frozenTime int) *AnimatedImage {
	return &AnimatedImage{
		renderer:   r,
		root:       root,
		timeSource: timeSource,
		border:     border,
		tint:       tint,
		frozenTime: frozenTime,
		width:      root.width(),
		height:     root.height(),
	}
}

func (a *AnimatedImage) Width() int  { return a.width }
func (a *AnimatedImage) Height() int { return a.height }

func (a *AnimatedImage) Draw(as AnimationState, x, y, width, height int) {
	a.root.render(a.timeAt(as), nil, x, y, width, height, a, as)
}

func (a *AnimatedImage) timeAt(as AnimationState) int {
	if as == nil {
		return 0
	}
	if a.frozenTime < 0 || as.ShouldAnimate(a.timeSource) {
		return as.Time(a.timeSource)
	}
	return a.frozenTime
}

func (a *AnimatedImage) TintedVersion(c Color) Image {
	t := *a
	t.tint = a.tint.Mul(c)
	return &t
}

func (a *AnimatedImage) Border() (Border, bool) { return a.border.b, a.border.ok }

// TimeSource returns the state key whose time drives the animation.
func (a *AnimatedImage) TimeSource() StateKey { return a.timeSource }
