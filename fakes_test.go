package willowtheme

import (
	"fmt"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
)

// drawCall is one draw recorded by fakeRenderer.
type drawCall struct {
	src        string
	x, y, w, h int
	tint       Color
}

// fakeRenderer records draws instead of rasterizing. Texture files are
// looked up in sizes by path; their content is never read.
type fakeRenderer struct {
	sizes     map[string][2]int
	fontFiles map[string]bool
	families  map[string]bool

	draws     []drawCall
	tints     []Color
	loaded    []string
	fonts     []*fakeFont
	contexts  []*fakeCacheContext
	active    *fakeCacheContext
	textures  []*fakeTexture
	gradients []*Gradient
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		sizes:     map[string][2]int{"tex.png": {64, 64}},
		fontFiles: map[string]bool{},
		families:  map[string]bool{},
	}
}

func (r *fakeRenderer) tint() Color {
	if n := len(r.tints); n > 0 {
		return r.tints[n-1]
	}
	return ColorWhite
}

func (r *fakeRenderer) PushGlobalTintColor(c Color) { r.tints = append(r.tints, r.tint().Mul(c)) }
func (r *fakeRenderer) PopGlobalTintColor()         { r.tints = r.tints[:len(r.tints)-1] }

func (r *fakeRenderer) LoadTexture(path, format, filter string) (Texture, error) {
	size, ok := r.sizes[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	r.loaded = append(r.loaded, path)
	tex := &fakeTexture{renderer: r, path: path, w: size[0], h: size[1]}
	r.textures = append(r.textures, tex)
	return tex, nil
}

func (r *fakeRenderer) LoadFont(path string, sel *StateSelect, params []*FontParameter) (Font, error) {
	if !r.fontFiles[path] {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	f := &fakeFont{renderer: r, name: path, sel: sel, params: params}
	r.fonts = append(r.fonts, f)
	return f, nil
}

func (r *fakeRenderer) FontMapper() FontMapper {
	if len(r.families) == 0 {
		return nil
	}
	return fakeFontMapper{r}
}

func (r *fakeRenderer) CreateGradient(g *Gradient) (Image, error) {
	r.gradients = append(r.gradients, g)
	return &fakeArea{renderer: r, src: "gradient", w: 1, h: 1, tint: ColorWhite}, nil
}

func (r *fakeRenderer) CreateNewCacheContext() CacheContext {
	c := &fakeCacheContext{}
	r.contexts = append(r.contexts, c)
	return c
}

func (r *fakeRenderer) SetActiveCacheContext(ctx CacheContext) error {
	c, ok := ctx.(*fakeCacheContext)
	if !ok {
		return fmt.Errorf("foreign cache context %T", ctx)
	}
	r.active = c
	return nil
}

// drawn returns the sources of all recorded draws in order.
func (r *fakeRenderer) drawn() []string {
	out := make([]string, len(r.draws))
	for i, d := range r.draws {
		out[i] = d.src
	}
	return out
}

type fakeCacheContext struct {
	destroyed bool
}

func (c *fakeCacheContext) Destroy() { c.destroyed = true }

type fakeTexture struct {
	renderer *fakeRenderer
	path     string
	w, h     int
	done     bool
}

func (t *fakeTexture) Width() int  { return t.w }
func (t *fakeTexture) Height() int { return t.h }

func (t *fakeTexture) Image(x, y, w, h int, tint Color, tiled bool, rot Rotation) Image {
	return &fakeArea{
		renderer: t.renderer,
		src:      fmt.Sprintf("%d,%d,%d,%d", x, y, w, h),
		w:        abs(w),
		h:        abs(h),
		tint:     tint,
		tiled:    tiled,
		rot:      rot,
	}
}

func (t *fakeTexture) CreateCursor(x, y, w, h, hotSpotX, hotSpotY int, imageRef Image) MouseCursor {
	return &fakeCursor{x: x, y: y, w: w, h: h, hotSpotX: hotSpotX, hotSpotY: hotSpotY, image: imageRef}
}

func (t *fakeTexture) ThemeLoadingDone() { t.done = true }

// fakeArea is a texture area. src is "x,y,w,h" of the cut rectangle.
type fakeArea struct {
	renderer *fakeRenderer
	src      string
	w, h     int
	tint     Color
	tiled    bool
	rot      Rotation
}

func (a *fakeArea) Width() int {
	if a.rot == Rotation90 || a.rot == Rotation270 {
		return a.h
	}
	return a.w
}

func (a *fakeArea) Height() int {
	if a.rot == Rotation90 || a.rot == Rotation270 {
		return a.w
	}
	return a.h
}

func (a *fakeArea) Draw(_ AnimationState, x, y, width, height int) {
	a.renderer.draws = append(a.renderer.draws, drawCall{
		src:  a.src,
		x:    x,
		y:    y,
		w:    width,
		h:    height,
		tint: a.tint.Mul(a.renderer.tint()),
	})
}

func (a *fakeArea) TintedVersion(c Color) Image {
	t := *a
	t.tint = a.tint.Mul(c)
	return &t
}

type fakeCursor struct {
	x, y, w, h         int
	hotSpotX, hotSpotY int
	image              Image
}

func (c *fakeCursor) Shape() ebiten.CursorShapeType { return ebiten.CursorShapeDefault }

type fakeFont struct {
	renderer  *fakeRenderer
	name      string
	size      int
	style     FontStyle
	sel       *StateSelect
	params    []*FontParameter
	destroyed bool
}

func (f *fakeFont) LineHeight() int        { return 16 }
func (f *fakeFont) BaseLine() int          { return 12 }
func (f *fakeFont) SpaceWidth() int        { return 4 }
func (f *fakeFont) TextWidth(s string) int { return 8 * len(s) }
func (f *fakeFont) Destroy()               { f.destroyed = true }

func (f *fakeFont) DrawText(as AnimationState, x, y int, s string) int {
	fp := selectFontParameter(f.sel, f.params, as)
	f.renderer.draws = append(f.renderer.draws, drawCall{src: "text:" + s, x: x, y: y, tint: fp.Color()})
	return f.TextWidth(s)
}

type fakeFontMapper struct{ r *fakeRenderer }

func (m fakeFontMapper) Font(families []string, size int, style FontStyle, sel *StateSelect, params []*FontParameter) Font {
	for _, fam := range families {
		if m.r.families[fam] {
			f := &fakeFont{renderer: m.r, name: fam, size: size, style: style, sel: sel, params: params}
			m.r.fonts = append(m.r.fonts, f)
			return f
		}
	}
	return nil
}

// diagRecorder collects diagnostics for assertions.
type diagRecorder struct {
	list []Diagnostic
}

func (d *diagRecorder) sink(diag Diagnostic) { d.list = append(d.list, diag) }

func (d *diagRecorder) count(kind DiagnosticKind) int {
	n := 0
	for _, diag := range d.list {
		if diag.Kind == kind {
			n++
		}
	}
	return n
}

// state builds an animation state from flag names.
func state(flags ...StateKey) *MapAnimationState {
	s := &MapAnimationState{Flags: map[StateKey]bool{}, Times: map[StateKey]int{}}
	for _, f := range flags {
		s.Flags[f] = true
	}
	return s
}

// themeFS wraps a theme body in <themes> and stores it as theme.xml.
// extra holds further files as name, content pairs.
func themeFS(body string, extra ...string) fstest.MapFS {
	fsys := fstest.MapFS{
		"theme.xml": {Data: []byte("<themes>\n" + body + "\n</themes>")},
	}
	for i := 0; i+1 < len(extra); i += 2 {
		fsys[extra[i]] = &fstest.MapFile{Data: []byte(extra[i+1])}
	}
	return fsys
}

// loadTestTheme loads theme.xml from fsys into a fake renderer and fails
// the test on error.
func loadTestTheme(t *testing.T, fsys fstest.MapFS) (*ThemeManager, *fakeRenderer, *diagRecorder) {
	t.Helper()
	r := newFakeRenderer()
	rec := &diagRecorder{}
	tm, err := LoadTheme(fsys, "theme.xml", r, LoadConfig{Diagnostics: rec.sink})
	if err != nil {
		t.Fatalf("LoadTheme: %v", err)
	}
	return tm, r, rec
}

// loadThemeError loads theme.xml and returns the resulting error, failing
// the test when loading succeeds.
func loadThemeError(t *testing.T, fsys fstest.MapFS) *ThemeError {
	t.Helper()
	_, err := LoadTheme(fsys, "theme.xml", newFakeRenderer(), LoadConfig{Diagnostics: func(Diagnostic) {}})
	if err == nil {
		t.Fatal("expected LoadTheme to fail")
	}
	te, ok := err.(*ThemeError)
	if !ok {
		t.Fatalf("error %T is not *ThemeError: %v", err, err)
	}
	return te
}
