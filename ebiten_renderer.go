package willowtheme

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenRenderer implements Renderer on Ebitengine. Theme images draw onto
// the image set with SetTarget, normally the screen passed to Draw.
//
// Like the rest of Ebitengine, the renderer is not safe for concurrent use
// and must be driven from the game loop.
type EbitenRenderer struct {
	fsys       fs.FS
	target     *ebiten.Image
	tints      []Color
	active     *ebitenCacheContext
	registered map[string]*ebiten.Image
	mapper     *goFontMapper
}

// NewEbitenRenderer returns a renderer that loads texture and font files
// from fsys.
func NewEbitenRenderer(fsys fs.FS) *EbitenRenderer {
	r := &EbitenRenderer{
		fsys:       fsys,
		registered: make(map[string]*ebiten.Image),
	}
	r.mapper = newGoFontMapper(r)
	return r
}

// RegisterTexture makes img available under path. LoadTexture prefers
// registered images over files, which lets programs build textures in
// memory. Registered images are owned by the caller and are never
// deallocated by a cache context.
func (r *EbitenRenderer) RegisterTexture(path string, img *ebiten.Image) {
	r.registered[path] = img
}

// SetTarget sets the image theme images are drawn onto.
func (r *EbitenRenderer) SetTarget(dst *ebiten.Image) {
	r.target = dst
}

// Target returns the current draw target.
func (r *EbitenRenderer) Target() *ebiten.Image {
	return r.target
}

// tint returns the product of all pushed global tints.
func (r *EbitenRenderer) tint() Color {
	if n := len(r.tints); n > 0 {
		return r.tints[n-1]
	}
	return ColorWhite
}

func (r *EbitenRenderer) PushGlobalTintColor(c Color) {
	r.tints = append(r.tints, r.tint().Mul(c))
}

func (r *EbitenRenderer) PopGlobalTintColor() {
	if n := len(r.tints); n > 0 {
		r.tints = r.tints[:n-1]
	}
}

func (r *EbitenRenderer) CreateNewCacheContext() CacheContext {
	return &ebitenCacheContext{
		renderer: r,
		textures: make(map[string]*ebitenTexture),
	}
}

func (r *EbitenRenderer) SetActiveCacheContext(ctx CacheContext) error {
	c, ok := ctx.(*ebitenCacheContext)
	if !ok || c.renderer != r {
		return errors.New("cache context was not created by this renderer")
	}
	if c.destroyed {
		return errors.New("cache context already destroyed")
	}
	r.active = c
	return nil
}

func (r *EbitenRenderer) activeContext() *ebitenCacheContext {
	if r.active == nil {
		r.active = r.CreateNewCacheContext().(*ebitenCacheContext)
	}
	return r.active
}

// LoadTexture loads a PNG or JPEG file. format is accepted for theme
// compatibility; Ebitengine keeps every texture as RGBA. filter is
// "nearest" (the default) or "linear".
func (r *EbitenRenderer) LoadTexture(path, format, filter string) (Texture, error) {
	ctx := r.activeContext()
	if tex, ok := ctx.textures[path]; ok {
		return tex, nil
	}
	var f ebiten.Filter
	switch strings.ToLower(filter) {
	case "", "nearest":
		f = ebiten.FilterNearest
	case "linear":
		f = ebiten.FilterLinear
	default:
		return nil, fmt.Errorf("unknown texture filter %q", filter)
	}
	img, owned := r.registered[path], false
	if img == nil {
		var err error
		if img, err = r.decode(path); err != nil {
			return nil, err
		}
		owned = true
	}
	tex := &ebitenTexture{renderer: r, image: img, filter: f, owned: owned}
	ctx.textures[path] = tex
	return tex, nil
}

func (r *EbitenRenderer) decode(path string) (*ebiten.Image, error) {
	if r.fsys == nil {
		return nil, fmt.Errorf("no file system to load %s from", path)
	}
	file, err := r.fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	src, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return ebiten.NewImageFromImage(src), nil
}

func (r *EbitenRenderer) FontMapper() FontMapper {
	return r.mapper
}

// ebitenCacheContext owns the textures loaded while it was active.
type ebitenCacheContext struct {
	renderer  *EbitenRenderer
	textures  map[string]*ebitenTexture
	destroyed bool
}

func (c *ebitenCacheContext) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	for _, tex := range c.textures {
		if tex.owned {
			tex.image.Deallocate()
		}
	}
	c.textures = nil
	if c.renderer.active == c {
		c.renderer.active = nil
	}
}

type ebitenTexture struct {
	renderer *EbitenRenderer
	image    *ebiten.Image
	filter   ebiten.Filter
	owned    bool
}

func (t *ebitenTexture) Width() int  { return t.image.Bounds().Dx() }
func (t *ebitenTexture) Height() int { return t.image.Bounds().Dy() }

func (t *ebitenTexture) Image(x, y, w, h int, tint Color, tiled bool, rot Rotation) Image {
	rect := image.Rect(x, y, x+abs(w), y+abs(h))
	a := &textureArea{
		renderer: t.renderer,
		src:      t.image.SubImage(rect).(*ebiten.Image),
		filter:   t.filter,
		srcW:     abs(w),
		srcH:     abs(h),
		flipX:    w < 0,
		flipY:    h < 0,
		tint:     tint,
		tiled:    tiled,
		rot:      rot,
	}
	a.geom = a.baseGeoM()
	return a
}

func (t *ebitenTexture) CreateCursor(x, y, w, h, hotSpotX, hotSpotY int, imageRef Image) MouseCursor {
	c := &EbitenCursor{hotSpotX: hotSpotX, hotSpotY: hotSpotY, image: imageRef}
	if imageRef == nil {
		c.image = t.Image(x, y, w, h, ColorWhite, false, RotationNone)
	}
	return c
}

func (t *ebitenTexture) ThemeLoadingDone() {}

// textureArea is a rectangle of a texture, optionally flipped and rotated.
type textureArea struct {
	renderer   *EbitenRenderer
	src        *ebiten.Image
	filter     ebiten.Filter
	srcW, srcH int
	flipX      bool
	flipY      bool
	tint       Color
	tiled      bool
	rot        Rotation
	// geom maps the source rectangle onto (0, 0, Width, Height).
	geom ebiten.GeoM
}

func (a *textureArea) Width() int {
	if a.rot == Rotation90 || a.rot == Rotation270 {
		return a.srcH
	}
	return a.srcW
}

func (a *textureArea) Height() int {
	if a.rot == Rotation90 || a.rot == Rotation270 {
		return a.srcW
	}
	return a.srcH
}

func (a *textureArea) baseGeoM() ebiten.GeoM {
	var m ebiten.GeoM
	sw, sh := float64(a.srcW), float64(a.srcH)
	if a.flipX {
		m.Scale(-1, 1)
		m.Translate(sw, 0)
	}
	if a.flipY {
		m.Scale(1, -1)
		m.Translate(0, sh)
	}
	switch a.rot {
	case Rotation90:
		m.Rotate(math.Pi / 2)
		m.Translate(sh, 0)
	case Rotation180:
		m.Rotate(math.Pi)
		m.Translate(sw, sh)
	case Rotation270:
		m.Rotate(3 * math.Pi / 2)
		m.Translate(0, sw)
	}
	return m
}

func (a *textureArea) drawOptions(x, y, width, height int) *ebiten.DrawImageOptions {
	op := &ebiten.DrawImageOptions{GeoM: a.geom, Filter: a.filter}
	if w, h := a.Width(), a.Height(); w > 0 && h > 0 {
		op.GeoM.Scale(float64(width)/float64(w), float64(height)/float64(h))
	}
	op.GeoM.Translate(float64(x), float64(y))
	c := a.tint.Mul(a.renderer.tint())
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	return op
}

func (a *textureArea) Draw(_ AnimationState, x, y, width, height int) {
	dst := a.renderer.target
	if dst == nil || width <= 0 || height <= 0 {
		return
	}
	if a.tiled {
		a.drawTiled(dst, x, y, width, height)
		return
	}
	dst.DrawImage(a.src, a.drawOptions(x, y, width, height))
}

// drawTiled repeats the area at its natural size, clipping the last row
// and column.
func (a *textureArea) drawTiled(dst *ebiten.Image, x, y, width, height int) {
	w, h := a.Width(), a.Height()
	if w <= 0 || h <= 0 {
		return
	}
	clip, ok := dst.SubImage(image.Rect(x, y, x+width, y+height)).(*ebiten.Image)
	if !ok {
		return
	}
	for ty := 0; ty < height; ty += h {
		for tx := 0; tx < width; tx += w {
			clip.DrawImage(a.src, a.drawOptions(x+tx, y+ty, w, h))
		}
	}
}

// DrawRepeat draws the area countX by countY times covering the rectangle.
func (a *textureArea) DrawRepeat(_ AnimationState, x, y, width, height, countX, countY int) {
	dst := a.renderer.target
	if dst == nil {
		return
	}
	for ; countY > 0; countY-- {
		rowHeight := height / countY
		cx := 0
		for xi := 1; xi <= countX; xi++ {
			nx := xi * width / countX
			if nx > cx && rowHeight > 0 {
				dst.DrawImage(a.src, a.drawOptions(x+cx, y, nx-cx, rowHeight))
			}
			cx = nx
		}
		y += rowHeight
		height -= rowHeight
	}
}

func (a *textureArea) TintedVersion(c Color) Image {
	if c.IsWhite() {
		return a
	}
	t := *a
	t.tint = a.tint.Mul(c)
	return &t
}

// EbitenCursor is a cursor cut from a theme texture. Ebitengine only
// offers system cursor shapes, so programs hide the OS cursor and call
// Draw at the mouse position; ApplyCursor does both.
type EbitenCursor struct {
	image              Image
	hotSpotX, hotSpotY int
}

func (c *EbitenCursor) Shape() ebiten.CursorShapeType { return ebiten.CursorShapeDefault }

// HotSpot returns the offset of the click point from the top-left corner.
func (c *EbitenCursor) HotSpot() (int, int) { return c.hotSpotX, c.hotSpotY }

// Draw draws the cursor with its hot spot at (x, y).
func (c *EbitenCursor) Draw(as AnimationState, x, y int) {
	c.image.Draw(as, x-c.hotSpotX, y-c.hotSpotY, c.image.Width(), c.image.Height())
}

// ApplyCursor shows c for the next frame: a system cursor sets the OS
// shape, an *EbitenCursor hides the OS cursor and is drawn at the mouse
// position. A nil cursor restores the default shape. Call it from Draw
// after the target has been set.
func (r *EbitenRenderer) ApplyCursor(c MouseCursor, as AnimationState) {
	if ec, ok := c.(*EbitenCursor); ok {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
		mx, my := ebiten.CursorPosition()
		ec.Draw(as, mx, my)
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
	if c == nil {
		c = OSDefaultCursor
	}
	ebiten.SetCursorShape(c.Shape())
}

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used
// as the source of vertex-colored triangles.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
