package willowtheme

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"io/fs"
	"math"
	"path"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// LoadFont loads a BMFont text-format .fnt file. Its page images are loaded
// relative to the .fnt file through LoadTexture. TrueType faces come from
// the FontMapper instead.
func (r *EbitenRenderer) LoadFont(fontPath string, sel *StateSelect, params []*FontParameter) (Font, error) {
	if !strings.EqualFold(path.Ext(fontPath), ".fnt") {
		return nil, fmt.Errorf("unsupported font file %s: only BMFont .fnt files can be loaded, use families for TrueType", fontPath)
	}
	if r.fsys == nil {
		return nil, fmt.Errorf("no file system to load %s from", fontPath)
	}
	data, err := fs.ReadFile(r.fsys, fontPath)
	if err != nil {
		return nil, err
	}
	f, err := parseBitmapFont(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fontPath, err)
	}
	f.renderer = r
	f.sel = sel
	f.params = params
	dir := path.Dir(fontPath)
	for id, file := range f.pageFiles {
		tex, err := r.LoadTexture(path.Join(dir, file), "", "")
		if err != nil {
			return nil, fmt.Errorf("%s: page %d: %w", fontPath, id, err)
		}
		f.pages[id] = tex.(*ebitenTexture).image
	}
	return f, nil
}

type glyph struct {
	x, y     int
	width    int
	height   int
	xOffset  int
	yOffset  int
	xAdvance int
	page     int
}

const asciiGlyphCount = 128

// bitmapFont renders text from pre-rasterized glyph pages in BMFont format.
type bitmapFont struct {
	renderer *EbitenRenderer
	sel      *StateSelect
	params   []*FontParameter

	lineHeight int
	base       int
	pageFiles  map[int]string
	pages      map[int]*ebiten.Image

	asciiGlyphs [asciiGlyphCount]glyph // fixed array for ASCII, zero-alloc lookup
	asciiSet    [asciiGlyphCount]bool
	extGlyphs   map[rune]*glyph

	kernings map[[2]rune]int
}

// parseBitmapFont parses BMFont .fnt text-format data.
func parseBitmapFont(fntData []byte) (*bitmapFont, error) {
	f := &bitmapFont{
		pageFiles: make(map[int]string),
		pages:     make(map[int]*ebiten.Image),
	}
	scanner := bufio.NewScanner(bytes.NewReader(fntData))
	charCount := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tag, rest := splitTag(line)
		fields := parseFields(rest)
		switch tag {
		case "common":
			f.lineHeight = fields.num("lineHeight")
			f.base = fields.num("base")
		case "page":
			f.pageFiles[fields.num("id")] = fields["file"]
		case "char":
			charCount++
			id := rune(fields.num("id"))
			g := glyph{
				x:        fields.num("x"),
				y:        fields.num("y"),
				width:    fields.num("width"),
				height:   fields.num("height"),
				xOffset:  fields.num("xoffset"),
				yOffset:  fields.num("yoffset"),
				xAdvance: fields.num("xadvance"),
				page:     fields.num("page"),
			}
			if id >= 0 && id < asciiGlyphCount {
				f.asciiGlyphs[id] = g
				f.asciiSet[id] = true
			} else {
				if f.extGlyphs == nil {
					f.extGlyphs = make(map[rune]*glyph)
				}
				f.extGlyphs[id] = &g
			}
		case "kerning":
			if f.kernings == nil {
				f.kernings = make(map[[2]rune]int)
			}
			f.kernings[[2]rune{rune(fields.num("first")), rune(fields.num("second"))}] = fields.num("amount")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading .fnt data: %w", err)
	}
	if f.lineHeight == 0 {
		return nil, fmt.Errorf(".fnt data missing common lineHeight")
	}
	if charCount == 0 {
		return nil, fmt.Errorf(".fnt data has no char definitions")
	}
	if len(f.pageFiles) == 0 {
		return nil, fmt.Errorf(".fnt data has no pages")
	}
	return f, nil
}

// splitTag splits a BMFont line into its tag and the rest of the line.
func splitTag(line string) (string, string) {
	idx := strings.IndexByte(line, ' ')
	if idx == -1 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}

type fntFields map[string]string

func (f fntFields) num(key string) int {
	n, _ := strconv.Atoi(f[key])
	return n
}

// parseFields parses "key=value key=value ..." into a map.
func parseFields(s string) fntFields {
	fields := make(fntFields)
	for _, part := range strings.Fields(s) {
		eq := strings.IndexByte(part, '=')
		if eq == -1 {
			continue
		}
		key := part[:eq]
		val := part[eq+1:]
		// Strip quotes from values like face="Arial"
		if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			val = val[1 : len(val)-1]
		}
		fields[key] = val
	}
	return fields
}

func (f *bitmapFont) glyph(r rune) *glyph {
	if r >= 0 && r < asciiGlyphCount {
		if f.asciiSet[r] {
			return &f.asciiGlyphs[r]
		}
		return nil
	}
	return f.extGlyphs[r]
}

func (f *bitmapFont) kern(first, second rune) int {
	return f.kernings[[2]rune{first, second}]
}

func (f *bitmapFont) LineHeight() int { return f.lineHeight }
func (f *bitmapFont) BaseLine() int   { return f.base }

func (f *bitmapFont) SpaceWidth() int {
	if g := f.glyph(' '); g != nil {
		return g.xAdvance
	}
	return 0
}

// TextWidth returns the advance of s on a single line.
func (f *bitmapFont) TextWidth(s string) int {
	width := 0
	var prev rune
	hasPrev := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		g := f.glyph(r)
		if g == nil {
			hasPrev = false
			continue
		}
		if hasPrev {
			width += f.kern(prev, r)
		}
		width += g.xAdvance
		prev, hasPrev = r, true
	}
	return width
}

func (f *bitmapFont) DrawText(as AnimationState, x, y int, s string) int {
	fp := selectFontParameter(f.sel, f.params, as)
	dst := f.renderer.target
	c := fp.Color().Mul(f.renderer.tint())
	x += fp.Int("offsetX")
	y += fp.Int("offsetY")
	start := x
	var prev rune
	hasPrev := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		g := f.glyph(r)
		if g == nil {
			hasPrev = false
			continue
		}
		if hasPrev {
			x += f.kern(prev, r)
		}
		if page := f.pages[g.page]; dst != nil && page != nil && g.width > 0 && g.height > 0 {
			sub := page.SubImage(image.Rect(g.x, g.y, g.x+g.width, g.y+g.height)).(*ebiten.Image)
			var op ebiten.DrawImageOptions
			op.GeoM.Translate(float64(x+g.xOffset), float64(y+g.yOffset))
			op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
			dst.DrawImage(sub, &op)
		}
		x += g.xAdvance
		prev, hasPrev = r, true
	}
	drawDecorations(dst, fp, c, start, y, x-start, f.base, f.lineHeight)
	return x - start
}

func (f *bitmapFont) Destroy() {}

// drawDecorations draws underline and line-through rules.
func drawDecorations(dst *ebiten.Image, fp *FontParameter, c Color, x, y, width, base, lineHeight int) {
	if dst == nil || width <= 0 {
		return
	}
	if fp.Bool("underline") {
		fillRect(dst, x, y+base+fp.Int("underlineOffset"), width, 1, c)
	}
	if fp.Bool("lineThrough") {
		fillRect(dst, x, y+lineHeight/2, width, 1, c)
	}
}

func fillRect(dst *ebiten.Image, x, y, w, h int, c Color) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(w), float64(h))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	dst.DrawImage(ensureWhitePixel(), &op)
}

// ttfFont wraps Ebitengine's text/v2 for TrueType font rendering.
type ttfFont struct {
	renderer   *EbitenRenderer
	face       *text.GoTextFace
	sel        *StateSelect
	params     []*FontParameter
	lineHeight int
	baseLine   int
}

func newTTFFont(r *EbitenRenderer, source *text.GoTextFaceSource, size int, sel *StateSelect, params []*FontParameter) *ttfFont {
	face := &text.GoTextFace{Source: source, Size: float64(size)}
	m := face.Metrics()
	return &ttfFont{
		renderer:   r,
		face:       face,
		sel:        sel,
		params:     params,
		lineHeight: int(math.Ceil(m.HAscent + m.HDescent + m.HLineGap)),
		baseLine:   int(math.Round(m.HAscent)),
	}
}

func (f *ttfFont) LineHeight() int { return f.lineHeight }
func (f *ttfFont) BaseLine() int   { return f.baseLine }
func (f *ttfFont) SpaceWidth() int { return f.TextWidth(" ") }

func (f *ttfFont) TextWidth(s string) int {
	return int(math.Ceil(text.Advance(s, f.face)))
}

func (f *ttfFont) DrawText(as AnimationState, x, y int, s string) int {
	fp := selectFontParameter(f.sel, f.params, as)
	width := f.TextWidth(s)
	dst := f.renderer.target
	if dst == nil {
		return width
	}
	c := fp.Color().Mul(f.renderer.tint())
	x += fp.Int("offsetX")
	y += fp.Int("offsetY")
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	text.Draw(dst, s, f.face, op)
	drawDecorations(dst, fp, c, x, y, width, f.baseLine, f.lineHeight)
	return width
}

func (f *ttfFont) Destroy() {}

// goFontMapper resolves font families to TrueType faces. The Go font
// families are always available; more can be added with RegisterFontFamily.
type goFontMapper struct {
	renderer *EbitenRenderer
	families map[string]map[FontStyle][]byte
	sources  map[*byte]*text.GoTextFaceSource
}

func newGoFontMapper(r *EbitenRenderer) *goFontMapper {
	goSans := map[FontStyle][]byte{
		0:                     goregular.TTF,
		FontBold:              gobold.TTF,
		FontItalic:            goitalic.TTF,
		FontBold | FontItalic: gobolditalic.TTF,
	}
	goMono := map[FontStyle][]byte{
		0:                     gomono.TTF,
		FontBold:              gomonobold.TTF,
		FontItalic:            gomonoitalic.TTF,
		FontBold | FontItalic: gomonobolditalic.TTF,
	}
	return &goFontMapper{
		renderer: r,
		families: map[string]map[FontStyle][]byte{
			"go":         goSans,
			"goregular":  goSans,
			"sans":       goSans,
			"sans-serif": goSans,
			"gomono":     goMono,
			"mono":       goMono,
			"monospace":  goMono,
		},
		sources: make(map[*byte]*text.GoTextFaceSource),
	}
}

// RegisterFontFamily adds a TrueType or OpenType face to the font mapper.
// Register the regular style (0) of a family; other styles fall back to
// it.
func (r *EbitenRenderer) RegisterFontFamily(family string, style FontStyle, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty font data for family %q", family)
	}
	if _, err := r.mapper.source(data); err != nil {
		return fmt.Errorf("family %q: %w", family, err)
	}
	key := strings.ToLower(family)
	styles := r.mapper.families[key]
	if styles == nil {
		styles = make(map[FontStyle][]byte)
		r.mapper.families[key] = styles
	}
	styles[style] = data
	return nil
}

func (m *goFontMapper) source(data []byte) (*text.GoTextFaceSource, error) {
	if s, ok := m.sources[&data[0]]; ok {
		return s, nil
	}
	s, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	m.sources[&data[0]] = s
	return s, nil
}

func (m *goFontMapper) Font(families []string, size int, style FontStyle, sel *StateSelect, params []*FontParameter) Font {
	for _, family := range families {
		styles, ok := m.families[strings.ToLower(family)]
		if !ok {
			continue
		}
		data, ok := styles[style]
		if !ok {
			if data, ok = styles[0]; !ok {
				continue
			}
		}
		src, err := m.source(data)
		if err != nil {
			continue
		}
		return newTTFFont(m.renderer, src, size, sel, params)
	}
	return nil
}
