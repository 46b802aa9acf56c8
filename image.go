package willowtheme

import "fmt"

// Image is a drawable produced by a theme. Images are immutable once the
// theme has loaded and may be shared by many widgets.
type Image interface {
	// Width and Height are the natural size in pixels.
	Width() int
	Height() int
	// Draw renders the image stretched into the given rectangle.
	Draw(as AnimationState, x, y, width, height int)
	// TintedVersion returns a copy whose output is multiplied by c.
	TintedVersion(c Color) Image
}

// HasBorder is implemented by images that carry a 9-patch border hint.
type HasBorder interface {
	Border() (Border, bool)
}

// RepeatDrawer is implemented by images that can tile themselves more
// efficiently than repeated Draw calls.
type RepeatDrawer interface {
	DrawRepeat(as AnimationState, x, y, width, height, countX, countY int)
}

// imageBorder returns the border of img when it has one.
func imageBorder(img Image) (Border, bool) {
	if hb, ok := img.(HasBorder); ok {
		return hb.Border()
	}
	return Border{}, false
}

// optBorder is a border that may be absent.
type optBorder struct {
	b  Border
	ok bool
}

func someBorder(b Border) optBorder { return optBorder{b, true} }

// orImage returns o when set, otherwise the border of img.
func (o optBorder) orImage(img Image) optBorder {
	if o.ok {
		return o
	}
	b, ok := imageBorder(img)
	return optBorder{b, ok}
}

// EmptyImage draws nothing but reports a size.
type EmptyImage struct {
	W, H int
}

// None is the built-in empty image registered under the name "none".
var None Image = &EmptyImage{}

func (e *EmptyImage) Width() int                              { return e.W }
func (e *EmptyImage) Height() int                             { return e.H }
func (e *EmptyImage) Draw(AnimationState, int, int, int, int) {}
func (e *EmptyImage) TintedVersion(Color) Image               { return e }

// ComposedImage draws its layers bottom to top into the same rectangle.
// Its natural size is that of the first layer.
type ComposedImage struct {
	layers []Image
	border optBorder
}

func newComposedImage(layers []Image, border optBorder) *ComposedImage {
	return &ComposedImage{layers: layers, border: border}
}

func (c *ComposedImage) Width() int  { return c.layers[0].Width() }
func (c *ComposedImage) Height() int { return c.layers[0].Height() }

func (c *ComposedImage) Draw(as AnimationState, x, y, width, height int) {
	for _, l := range c.layers {
		l.Draw(as, x, y, width, height)
	}
}

func (c *ComposedImage) TintedVersion(col Color) Image {
	layers := make([]Image, len(c.layers))
	for i, l := range c.layers {
		layers[i] = l.TintedVersion(col)
	}
	return newComposedImage(layers, c.border)
}

func (c *ComposedImage) Border() (Border, bool) { return c.border.b, c.border.ok }

// Layers returns the layer stack, bottom first.
func (c *ComposedImage) Layers() []Image { return c.layers }

// GridImage lays out cells in columns and rows. Each column is as wide as
// its widest cell and each row as tall as its tallest. Extra space is
// distributed across columns and rows in proportion to their weights.
type GridImage struct {
	images      []Image
	weightX     []int
	weightY     []int
	columnWidth []int
	rowHeight   []int
	width       int
	height      int
	weightSumX  int
	weightSumY  int
	border      optBorder
}

// NewGridImage builds a grid from row-major cells. The cell count must be
// len(weightX)*len(weightY).
func NewGridImage(images []Image, weightX, weightY []int, border Border) (*GridImage, error) {
	return newGridImage(images, weightX, weightY, someBorder(border))
}

func newGridImage(images []Image, weightX, weightY []int, border optBorder) (*GridImage, error) {
	if len(weightX) == 0 || len(weightY) == 0 {
		return nil, fmt.Errorf("zero dimension size not allowed")
	}
	if len(images) != len(weightX)*len(weightY) {
		return nil, fmt.Errorf("grid needs %d images, got %d", len(weightX)*len(weightY), len(images))
	}
	sumX, err := weightSum(weightX, "weightsX")
	if err != nil {
		return nil, err
	}
	sumY, err := weightSum(weightY, "weightsY")
	if err != nil {
		return nil, err
	}
	g := &GridImage{
		images:      images,
		weightX:     weightX,
		weightY:     weightY,
		columnWidth: make([]int, len(weightX)),
		rowHeight:   make([]int, len(weightY)),
		weightSumX:  sumX,
		weightSumY:  sumY,
		border:      border,
	}
	for x := range weightX {
		for y := range weightY {
			g.columnWidth[x] = max(g.columnWidth[x], g.cell(x, y).Width())
		}
		g.width += g.columnWidth[x]
	}
	for y := range weightY {
		for x := range weightX {
			g.rowHeight[y] = max(g.rowHeight[y], g.cell(x, y).Height())
		}
		g.height += g.rowHeight[y]
	}
	return g, nil
}

func weightSum(weights []int, name string) (int, error) {
	sum := 0
	for _, w := range weights {
		if w < 0 {
			return 0, fmt.Errorf("negative weight in %s", name)
		}
		sum += w
	}
	if sum <= 0 {
		return 0, fmt.Errorf("zero %s not allowed", name)
	}
	return sum, nil
}

func (g *GridImage) cell(x, y int) Image {
	return g.images[x+y*len(g.weightX)]
}

func (g *GridImage) Width() int  { return g.width }
func (g *GridImage) Height() int { return g.height }

func (g *GridImage) Draw(as AnimationState, x, y, width, height int) {
	deltaY := height - g.height
	remY := g.weightSumY
	idx := 0
	for yi, wy := range g.weightY {
		rowHeight := g.rowHeight[yi]
		if remY > 0 {
			part := deltaY * wy / remY
			remY -= wy
			rowHeight += part
			deltaY -= part
		}
		cx := x
		deltaX := width - g.width
		remX := g.weightSumX
		for xi, wx := range g.weightX {
			colWidth := g.columnWidth[xi]
			if remX > 0 {
				part := deltaX * wx / remX
				remX -= wx
				colWidth += part
				deltaX -= part
			}
			g.images[idx].Draw(as, cx, y, colWidth, rowHeight)
			idx++
			cx += colWidth
		}
		y += rowHeight
	}
}

func (g *GridImage) TintedVersion(c Color) Image {
	t := *g
	t.images = make([]Image, len(g.images))
	for i, img := range g.images {
		t.images[i] = img.TintedVersion(c)
	}
	return &t
}

func (g *GridImage) Border() (Border, bool) { return g.border.b, g.border.ok }

// Cells returns the cells in row-major order.
func (g *GridImage) Cells() []Image { return g.images }

// Columns returns the number of columns.
func (g *GridImage) Columns() int { return len(g.weightX) }

// RepeatImage tiles its base image along one or both axes.
type RepeatImage struct {
	base    Image
	border  optBorder
	repeatX bool
	repeatY bool
}

func newRepeatImage(base Image, border optBorder, repeatX, repeatY bool) *RepeatImage {
	return &RepeatImage{base: base, border: border, repeatX: repeatX, repeatY: repeatY}
}

func (r *RepeatImage) Width() int  { return r.base.Width() }
func (r *RepeatImage) Height() int { return r.base.Height() }

func (r *RepeatImage) Draw(as AnimationState, x, y, width, height int) {
	countX, countY := 1, 1
	if bw := r.base.Width(); r.repeatX && bw > 0 {
		countX = max(1, width/bw)
	}
	if bh := r.base.Height(); r.repeatY && bh > 0 {
		countY = max(1, height/bh)
	}
	if rd, ok := r.base.(RepeatDrawer); ok {
		rd.DrawRepeat(as, x, y, width, height, countX, countY)
		return
	}
	drawRepeat(r.base, as, x, y, width, height, countX, countY)
}

// drawRepeat stretches base over a countX by countY grid that exactly
// covers the rectangle.
func drawRepeat(base Image, as AnimationState, x, y, width, height, countX, countY int) {
	for ; countY > 0; countY-- {
		rowHeight := height / countY
		cx := 0
		for xi := 1; xi <= countX; xi++ {
			nx := xi * width / countX
			base.Draw(as, x+cx, y, nx-cx, rowHeight)
			cx = nx
		}
		y += rowHeight
		height -= rowHeight
	}
}

func (r *RepeatImage) TintedVersion(c Color) Image {
	return newRepeatImage(r.base.TintedVersion(c), r.border, r.repeatX, r.repeatY)
}

func (r *RepeatImage) Border() (Border, bool) { return r.border.b, r.border.ok }

// StateSelectImage draws the image chosen by a StateSelect. When the select
// has a default the image list is one longer than the expression list;
// otherwise nothing is drawn while no expression matches.
type StateSelectImage struct {
	sel    *StateSelect
	images []Image
	border optBorder
}

// NewStateSelectImage pairs images with the expressions of sel.
func NewStateSelectImage(sel *StateSelect, border Border, images ...Image) *StateSelectImage {
	return newStateSelectImage(sel, someBorder(border), images)
}

func newStateSelectImage(sel *StateSelect, border optBorder, images []Image) *StateSelectImage {
	return &StateSelectImage{sel: sel, images: images, border: border}
}

func (s *StateSelectImage) Width() int  { return s.images[0].Width() }
func (s *StateSelectImage) Height() int { return s.images[0].Height() }

func (s *StateSelectImage) Draw(as AnimationState, x, y, width, height int) {
	if img := s.Selected(as); img != nil {
		img.Draw(as, x, y, width, height)
	}
}

// Selected returns the image chosen for as, or nil when nothing matches and
// there is no default.
func (s *StateSelectImage) Selected(as AnimationState) Image {
	idx := s.sel.Evaluate(as)
	if idx < len(s.images) {
		return s.images[idx]
	}
	return nil
}

func (s *StateSelectImage) TintedVersion(c Color) Image {
	images := make([]Image, len(s.images))
	for i, img := range s.images {
		images[i] = img.TintedVersion(c)
	}
	return newStateSelectImage(s.sel, s.border, images)
}

func (s *StateSelectImage) Border() (Border, bool) { return s.border.b, s.border.ok }

// Select returns the underlying StateSelect.
func (s *StateSelectImage) Select() *StateSelect { return s.sel }

// Images returns the candidates in select order.
func (s *StateSelectImage) Images() []Image { return s.images }

// ImageAdjustments wraps an image with layout overrides and an optional
// draw condition.
type ImageAdjustments struct {
	image          Image
	border         optBorder
	inset          optBorder
	sizeOverwriteH int
	sizeOverwriteV int
	center         bool
	condition      StateExpression
}

func (a *ImageAdjustments) Width() int {
	switch {
	case a.sizeOverwriteH >= 0:
		return a.sizeOverwriteH
	case a.inset.ok:
		return a.image.Width() + a.inset.b.Horizontal()
	}
	return a.image.Width()
}

func (a *ImageAdjustments) Height() int {
	switch {
	case a.sizeOverwriteV >= 0:
		return a.sizeOverwriteV
	case a.inset.ok:
		return a.image.Height() + a.inset.b.Vertical()
	}
	return a.image.Height()
}

func (a *ImageAdjustments) Draw(as AnimationState, x, y, width, height int) {
	if a.condition != nil && !a.condition.Evaluate(as) {
		return
	}
	if a.inset.ok {
		in := a.inset.b
		x += in.Left
		y += in.Top
		width = max(0, width-in.Horizontal())
		height = max(0, height-in.Vertical())
	}
	if a.center {
		w := min(width, a.image.Width())
		h := min(height, a.image.Height())
		x += (width - w) / 2
		y += (height - h) / 2
		width, height = w, h
	}
	a.image.Draw(as, x, y, width, height)
}

func (a *ImageAdjustments) TintedVersion(c Color) Image {
	t := *a
	t.image = a.image.TintedVersion(c)
	return &t
}

func (a *ImageAdjustments) Border() (Border, bool) { return a.border.b, a.border.ok }

// IsSimple reports whether the wrapper changes nothing but the draw
// condition and border.
func (a *ImageAdjustments) IsSimple() bool {
	return !a.center && !a.inset.ok && a.sizeOverwriteH < 0 && a.sizeOverwriteV < 0
}

// Image returns the wrapped image.
func (a *ImageAdjustments) Image() Image { return a.image }

// Condition returns the draw condition, or nil.
func (a *ImageAdjustments) Condition() StateExpression { return a.condition }
