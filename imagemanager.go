package willowtheme

import (
	"path"
	"strconv"
	"strings"
)

// imageManager parses <images> elements and owns every named image and
// cursor of a theme.
type imageManager struct {
	constants    *ParameterMap
	renderer     Renderer
	diag         *diagnostics
	useOptimizer bool

	images  map[string]Image
	cursors map[string]MouseCursor
	math    mathInterpreter

	// texture is the file of the <images> element being parsed.
	texture Texture
}

func newImageManager(constants *ParameterMap, r Renderer, diag *diagnostics, useOptimizer bool) *imageManager {
	im := &imageManager{
		constants:    constants,
		renderer:     r,
		diag:         diag,
		useOptimizer: useOptimizer,
		images:       map[string]Image{"none": None},
		cursors:      map[string]MouseCursor{"inherit": inheritCursor},
	}
	for name, c := range builtinCursors {
		im.cursors[name] = c
	}
	im.math.env = im
	return im
}

// variable resolves math identifiers: images first, then constants.
func (im *imageManager) variable(name string) (any, bool) {
	if img, ok := im.images[name]; ok {
		return img, true
	}
	if v, ok := im.constants.Value(name, false); ok {
		return unwrapValue(v), true
	}
	return nil, false
}

func (im *imageManager) image(name string) Image {
	return im.images[name]
}

func (im *imageManager) cursor(name string) MouseCursor {
	return unwrapCursor(im.cursors[name])
}

func (im *imageManager) imageNames() []string {
	names := make([]string, 0, len(im.images))
	for n := range im.images {
		names = append(names, n)
	}
	return names
}

func (im *imageManager) referencedImage(p *xmlParser, ref string) (Image, error) {
	if strings.HasSuffix(ref, ".*") {
		return nil, p.errorf("wildcard mapping not allowed")
	}
	img, ok := im.images[ref]
	if !ok {
		return nil, p.errorf("referenced image %q not found%s", ref, suggestion(ref, im.imageNames()))
	}
	return img, nil
}

func (im *imageManager) referencedCursor(p *xmlParser, ref string) (MouseCursor, error) {
	c, ok := im.cursors[ref]
	if !ok {
		return nil, p.errorf("referenced cursor %q not found", ref)
	}
	return unwrapCursor(c), nil
}

func (im *imageManager) imagesWildcard(ref, name string) map[string]Value {
	return resolveWildcardMap(im.images, ref, name, ImageValue)
}

func (im *imageManager) cursorsWildcard(ref, name string) map[string]Value {
	return resolveWildcardMap(im.cursors, ref, name, func(c MouseCursor) Value {
		if c == inheritCursor {
			return Null
		}
		return CursorValue(c)
	})
}

// parseImages reads an <images> (or <textures>) element. dir is the
// directory of the theme file, against which file is resolved.
func (im *imageManager) parseImages(p *xmlParser, dir string) error {
	var tex Texture
	if file, ok := p.attr("file"); ok {
		format, _ := p.attr("format")
		filter, _ := p.attr("filter")
		p.attr("comment")
		var err error
		tex, err = im.renderer.LoadTexture(path.Join(dir, file), format, filter)
		if err != nil {
			return p.wrap(err, "unable to load image file: %s", file)
		}
		if tex == nil {
			return p.errorf("unable to load image file: %s", file)
		}
	}
	im.texture = tex
	defer func() {
		im.texture = nil
		if tex != nil {
			tex.ThemeLoadingDone()
		}
	}()

	if err := p.nextTag(); err != nil {
		return err
	}
	for !p.isEndTag() {
		if err := p.require(xmlStartTag, ""); err != nil {
			return err
		}
		tag := p.name
		name, err := p.attrNotNull("name")
		if err != nil {
			return err
		}
		if err := im.checkName(p, tag, name); err != nil {
			return err
		}
		if tag == "cursor" {
			if err := im.parseCursor(p, name); err != nil {
				return err
			}
		} else {
			img, err := im.parseImage(p, tag)
			if err != nil {
				return err
			}
			im.images[name] = img
		}
		if err := p.require(xmlEndTag, tag); err != nil {
			return err
		}
		if err := p.nextTag(); err != nil {
			return err
		}
	}
	return nil
}

func (im *imageManager) checkName(p *xmlParser, tag, name string) error {
	if err := checkNameNotEmpty(p, name); err != nil {
		return err
	}
	if tag == "cursor" {
		if _, ok := im.cursors[name]; ok {
			return p.errorf("cursor %q already defined", name)
		}
	} else if _, ok := im.images[name]; ok {
		return p.errorf("image %q already defined", name)
	}
	return nil
}

func (im *imageManager) parseCursor(p *xmlParser, name string) error {
	var cursor MouseCursor
	if ref, ok := p.attr("ref"); ok {
		c, ok := im.cursors[ref]
		if !ok {
			return p.errorf("referenced cursor %q not found", ref)
		}
		cursor = c
	} else {
		params := newImageParams()
		if err := im.parseRect(p, params); err != nil {
			return err
		}
		hotSpotX, err := p.intAttr("hotSpotX")
		if err != nil {
			return err
		}
		hotSpotY, err := p.intAttr("hotSpotY")
		if err != nil {
			return err
		}
		var imageRef Image
		if ref, ok := p.attr("imageRef"); ok {
			if imageRef, err = im.referencedImage(p, ref); err != nil {
				return err
			}
		}
		cursor = im.texture.CreateCursor(params.x, params.y, params.w, params.h, hotSpotX, hotSpotY, imageRef)
		if cursor == nil {
			cursor = OSDefaultCursor
		}
	}
	im.cursors[name] = cursor
	return p.nextTag()
}

// imageParams collects the attributes shared by every image element.
type imageParams struct {
	x, y, w, h     int
	rot            Rotation
	tint           Color
	hasTint        bool
	border         optBorder
	inset          optBorder
	repeatX        bool
	repeatY        bool
	sizeOverwriteH int
	sizeOverwriteV int
	center         bool
	condition      StateExpression
}

func newImageParams() *imageParams {
	return &imageParams{sizeOverwriteH: -1, sizeOverwriteV: -1}
}

func (im *imageManager) parseImage(p *xmlParser, tag string) (Image, error) {
	cond, err := parseCondition(p)
	if err != nil {
		return nil, err
	}
	params := newImageParams()
	params.condition = cond
	return im.parseImageNoCond(p, tag, params)
}

func (im *imageManager) parseImageNoCond(p *xmlParser, tag string, params *imageParams) (Image, error) {
	if err := im.parseStdAttributes(p, params); err != nil {
		return nil, err
	}
	img, err := im.parseImageDelegate(p, tag, params)
	if err != nil {
		return nil, err
	}
	return adjustImage(img, params), nil
}

// adjustImage applies tint, then repeat, then layout adjustments.
func adjustImage(img Image, params *imageParams) Image {
	border := params.border.orImage(img)
	if params.hasTint && !params.tint.IsWhite() {
		img = img.TintedVersion(params.tint)
	}
	if params.repeatX || params.repeatY {
		img = newRepeatImage(img, border, params.repeatX, params.repeatY)
	}
	imgBorder := optBorder{}.orImage(img)
	if (border.ok && border != imgBorder) || params.inset.ok || params.center ||
		params.condition != nil || params.sizeOverwriteH >= 0 || params.sizeOverwriteV >= 0 {
		img = &ImageAdjustments{
			image:          img,
			border:         border,
			inset:          params.inset,
			sizeOverwriteH: params.sizeOverwriteH,
			sizeOverwriteV: params.sizeOverwriteV,
			center:         params.center,
			condition:      params.condition,
		}
	}
	return img
}

func (im *imageManager) parseStdAttributes(p *xmlParser, params *imageParams) error {
	var err error
	if params.tint, params.hasTint, err = colorAttr(p, "tint", im.constants); err != nil {
		return err
	}
	if params.border, err = borderAttr(p, "border", &im.math); err != nil {
		return err
	}
	if params.inset, err = borderAttr(p, "inset", &im.math); err != nil {
		return err
	}
	if params.repeatX, err = p.boolAttr("repeatX", false); err != nil {
		return err
	}
	if params.repeatY, err = p.boolAttr("repeatY", false); err != nil {
		return err
	}
	if params.sizeOverwriteH, err = intExprAttr(p, "sizeOverwriteH", -1, &im.math); err != nil {
		return err
	}
	if params.sizeOverwriteV, err = intExprAttr(p, "sizeOverwriteV", -1, &im.math); err != nil {
		return err
	}
	params.center, err = p.boolAttr("center", false)
	return err
}

func (im *imageManager) parseImageDelegate(p *xmlParser, tag string, params *imageParams) (Image, error) {
	switch tag {
	case "area":
		return im.parseArea(p, params)
	case "alias":
		return im.parseAlias(p)
	case "composed":
		return im.parseComposed(p, params)
	case "select":
		return im.parseStateSelect(p, params)
	case "grid":
		return im.parseGrid(p, params)
	case "animation":
		return im.parseAnimation(p, params)
	case "gradient":
		return im.parseGradient(p)
	}
	return nil, p.errorf("unexpected <%s>", tag)
}

func (im *imageManager) parseAlias(p *xmlParser) (Image, error) {
	ref, err := p.attrNotNull("ref")
	if err != nil {
		return nil, err
	}
	img, err := im.referencedImage(p, ref)
	if err != nil {
		return nil, err
	}
	return img, p.nextTag()
}

func (im *imageManager) parseComposed(p *xmlParser, params *imageParams) (Image, error) {
	var layers []Image
	if err := p.nextTag(); err != nil {
		return nil, err
	}
	for !p.isEndTag() {
		if err := p.require(xmlStartTag, ""); err != nil {
			return nil, err
		}
		tag := p.name
		img, err := im.parseImage(p, tag)
		if err != nil {
			return nil, err
		}
		layers = append(layers, img)
		params.border = params.border.orImage(img)
		if err := p.require(xmlEndTag, tag); err != nil {
			return nil, err
		}
		if err := p.nextTag(); err != nil {
			return nil, err
		}
	}
	switch len(layers) {
	case 0:
		return None, nil
	case 1:
		return layers[0], nil
	}
	return newComposedImage(layers, params.border), nil
}

func (im *imageManager) parseStateSelect(p *xmlParser, params *imageParams) (Image, error) {
	var images []Image
	var conds []StateExpression
	if err := p.nextTag(); err != nil {
		return nil, err
	}
	for last := false; !last && !p.isEndTag(); {
		if err := p.require(xmlStartTag, ""); err != nil {
			return nil, err
		}
		cond, err := parseCondition(p)
		if err != nil {
			return nil, err
		}
		tag := p.name
		img, err := im.parseImageNoCond(p, tag, newImageParams())
		if err != nil {
			return nil, err
		}
		params.border = params.border.orImage(img)
		if err := p.require(xmlEndTag, tag); err != nil {
			return nil, err
		}
		if err := p.nextTag(); err != nil {
			return nil, err
		}
		last = cond == nil

		if ia, ok := img.(*ImageAdjustments); ok && ia.IsSimple() {
			cond = andExpr(cond, ia.condition)
			img = ia.image
		}
		if ssi, ok := img.(*StateSelectImage); ok && im.useOptimizer {
			images, conds = inlineSelect(ssi, cond, images, conds)
		} else {
			images = append(images, img)
			if cond != nil {
				conds = append(conds, cond)
			}
		}
	}
	if len(conds) == 0 {
		p.warnf("state select image needs at least 1 condition")
		if len(images) == 0 {
			return None, nil
		}
		return images[0], nil
	}
	return newStateSelectImage(NewStateSelect(conds...), params.border, images), nil
}

// inlineSelect flattens a nested select into the parent's lists, ANDing
// cond into each inner guard.
func inlineSelect(src *StateSelectImage, cond StateExpression, images []Image, conds []StateExpression) ([]Image, []StateExpression) {
	n := len(src.images)
	m := src.sel.NumExpressions()
	for i := 0; i < n; i++ {
		var imgCond StateExpression
		if i < m {
			imgCond = src.sel.Expression(i)
		}
		imgCond = andExpr(imgCond, cond)
		images = append(images, src.images[i])
		if imgCond != nil {
			conds = append(conds, imgCond)
		}
	}
	if n == m && cond != nil {
		// Without an inner default, a match of cond alone must still draw
		// nothing rather than fall through to later branches.
		images = append(images, None)
		conds = append(conds, cond)
	}
	return images, conds
}

var (
	splitWeights3 = []int{0, 1, 0}
	splitWeights1 = []int{1}
)

func (im *imageManager) parseArea(p *xmlParser, params *imageParams) (Image, error) {
	if err := im.parseRect(p, params); err != nil {
		return nil, err
	}
	if err := im.parseRotation(p, params); err != nil {
		return nil, err
	}
	tiled, err := p.boolAttr("tiled", false)
	if err != nil {
		return nil, err
	}
	splitx, err := parseSplit2(p, "splitx", abs(params.w))
	if err != nil {
		return nil, err
	}
	splity, err := parseSplit2(p, "splity", abs(params.h))
	if err != nil {
		return nil, err
	}
	tint := ColorWhite
	if params.hasTint {
		tint = params.tint
	}

	var img Image
	if splitx != nil || splity != nil {
		noCenter, err := p.boolAttr("nocenter", false)
		if err != nil {
			return nil, err
		}
		if img, err = im.sliceArea(p, params, splitx, splity, tint, tiled, noCenter); err != nil {
			return nil, err
		}
	} else {
		img = im.createImage(p, params.x, params.y, params.w, params.h, tint, tiled, params.rot)
	}
	if err := p.nextTag(); err != nil {
		return nil, err
	}
	params.hasTint = false
	if tiled {
		params.repeatX = false
		params.repeatY = false
	}
	return img, nil
}

// sliceArea cuts a 9-patch (or 3-patch) grid out of the area. Cells are
// placed so that the grid reads correctly after rotation.
func (im *imageManager) sliceArea(p *xmlParser, params *imageParams, splitx, splity []int, tint Color, tiled, noCenter bool) (Image, error) {
	columns, rows := 1, 1
	if splitx != nil {
		columns = 3
	}
	if splity != nil {
		rows = 3
	}
	parts := make([]Image, columns*rows)
	for r := 0; r < rows; r++ {
		imgY, imgH := params.y, params.h
		if splity != nil {
			imgY, imgH = splitSegment(params.y, params.h, splity, r)
		}
		for c := 0; c < columns; c++ {
			imgX, imgW := params.x, params.w
			if splitx != nil {
				imgX, imgW = splitSegment(params.x, params.w, splitx, c)
			}
			isCenter := r == rows/2 && c == columns/2
			var img Image
			if noCenter && isCenter {
				img = &EmptyImage{W: imgW, H: imgH}
			} else {
				img = im.createImage(p, imgX, imgY, imgW, imgH, tint, isCenter && tiled, params.rot)
			}
			parts[rotatedIndex(params.rot, r, c, rows, columns)] = img
		}
	}
	wx, wy := splitWeights1, splitWeights1
	if splitx != nil {
		wx = splitWeights3
	}
	if splity != nil {
		wy = splitWeights3
	}
	if params.rot == Rotation90 || params.rot == Rotation270 {
		wx, wy = wy, wx
	}
	g, err := newGridImage(parts, wx, wy, params.border)
	if err != nil {
		return nil, p.wrap(err, "invalid split")
	}
	return g, nil
}

// splitSegment returns the position and signed length of segment i of a
// split axis. Negative sizes address the area from its far edge.
func splitSegment(pos, size int, split []int, i int) (int, int) {
	length := (split[i+1] - split[i]) * sign(size)
	if size < 0 {
		return pos - size - split[i+1], length
	}
	return pos + split[i], length
}

// rotatedIndex maps cell (r, c) of an unrotated rows x columns grid to its
// row-major index in the rotated grid.
func rotatedIndex(rot Rotation, r, c, rows, columns int) int {
	switch rot {
	case Rotation90:
		return c*rows + (rows - 1 - r)
	case Rotation180:
		return (rows-1-r)*columns + (columns - 1 - c)
	case Rotation270:
		return (columns-1-c)*rows + r
	}
	return r*columns + c
}

// parseSplit2 parses a "a,b" split into [0, lo, hi, size]. Each value may
// be prefixed with t/l (from the start, the default) or b/r (from the
// end). Values are clamped to [0, size] and sorted. It returns nil when
// the attribute is absent.
func parseSplit2(p *xmlParser, attr string, size int) ([]int, error) {
	s, ok := p.attr(attr)
	if !ok {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, p.errorf("%s requires 2 values", attr)
	}
	result := make([]int, 4)
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, p.errorf("unable to parse %s: %q", attr, s)
		}
		off, sgn := 0, 1
		switch part[0] {
		case 'b', 'B', 'r', 'R':
			off, sgn = size, -1
			part = strings.TrimSpace(part[1:])
		case 't', 'T', 'l', 'L':
			part = strings.TrimSpace(part[1:])
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, p.wrap(err, "unable to parse %s: %q", attr, s)
		}
		result[i+1] = max(0, min(size, off+sgn*v))
	}
	if result[1] > result[2] {
		result[1], result[2] = result[2], result[1]
	}
	result[3] = size
	return result, nil
}

func (im *imageManager) parseGrid(p *xmlParser, params *imageParams) (Image, error) {
	wx, err := intArrayAttr(p, "weightsX")
	if err != nil {
		return nil, err
	}
	wy, err := intArrayAttr(p, "weightsY")
	if err != nil {
		return nil, err
	}
	cells := make([]Image, len(wx)*len(wy))
	if err := p.nextTag(); err != nil {
		return nil, err
	}
	if err := im.parseSubImages(p, cells); err != nil {
		return nil, err
	}
	g, err := newGridImage(cells, wx, wy, params.border)
	if err != nil {
		return nil, p.wrap(err, "invalid value")
	}
	return g, nil
}

func (im *imageManager) parseSubImages(p *xmlParser, cells []Image) error {
	idx := 0
	for p.isStartTag() {
		if idx == len(cells) {
			return p.errorf("too many sub images")
		}
		tag := p.name
		img, err := im.parseImage(p, tag)
		if err != nil {
			return err
		}
		cells[idx] = img
		idx++
		if err := p.require(xmlEndTag, tag); err != nil {
			return err
		}
		if err := p.nextTag(); err != nil {
			return err
		}
	}
	if idx != len(cells) {
		return p.errorf("not enough sub images")
	}
	return nil
}

func (im *imageManager) parseAnimation(p *xmlParser, params *imageParams) (Image, error) {
	timeSource, err := p.attrNotNull("timeSource")
	if err != nil {
		return nil, err
	}
	frozenTime, err := p.intAttrDefault("frozenTime", -1)
	if err != nil {
		return nil, err
	}
	root, err := im.parseAnimRepeat(p)
	if err != nil {
		return nil, err
	}
	if !params.border.ok {
		b, ok := root.border()
		params.border = optBorder{b, ok}
	}
	tint := ColorWhite
	if params.hasTint {
		tint = params.tint
	}
	params.hasTint = false
	return newAnimatedImage(im.renderer, root, StateKey(timeSource), params.border, tint, frozenTime), nil
}

func (im *imageManager) parseAnimRepeat(p *xmlParser) (*AnimRepeat, error) {
	repeatCount := 0
	if s, ok := p.attr("count"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n <= 0 {
			return nil, p.errorf("invalid repeat count %q", s)
		}
		repeatCount = n
	}
	var children []AnimElement
	lastEndless, warned := false, false
	if err := p.nextTag(); err != nil {
		return nil, err
	}
	for p.isStartTag() {
		if lastEndless && !warned {
			warned = true
			p.warnf("animation frames after an endless repeat won't be displayed")
		}
		tag := p.name
		var err error
		if children, err = im.parseAnimElement(p, tag, children); err != nil {
			return nil, err
		}
		r, ok := children[len(children)-1].(*AnimRepeat)
		lastEndless = ok && r.repeatCount == 0
		if err := p.require(xmlEndTag, tag); err != nil {
			return nil, err
		}
		if err := p.nextTag(); err != nil {
			return nil, err
		}
	}
	r, err := NewAnimRepeat(children, repeatCount)
	if err != nil {
		return nil, p.wrap(err, "unable to parse")
	}
	return r, nil
}

func (im *imageManager) parseAnimElement(p *xmlParser, tag string, children []AnimElement) ([]AnimElement, error) {
	switch tag {
	case "repeat":
		r, err := im.parseAnimRepeat(p)
		if err != nil {
			return nil, err
		}
		return append(children, r), nil
	case "frame":
		f, err := im.parseAnimFrame(p)
		if err != nil {
			return nil, err
		}
		return append(children, f), nil
	case "frames":
		return im.parseAnimFrames(p, children)
	}
	return nil, p.unexpected()
}

type animParams struct {
	tint                     Color
	zoomX, zoomY             float64
	zoomCenterX, zoomCenterY float64
}

func (im *imageManager) parseAnimParams(p *xmlParser) (animParams, error) {
	var ap animParams
	tint, ok, err := colorAttr(p, "tint", im.constants)
	if err != nil {
		return ap, err
	}
	ap.tint = ColorWhite
	if ok {
		ap.tint = tint
	}
	zoom, err := p.floatAttrDefault("zoom", 1)
	if err != nil {
		return ap, err
	}
	if ap.zoomX, err = p.floatAttrDefault("zoomX", zoom); err != nil {
		return ap, err
	}
	if ap.zoomY, err = p.floatAttrDefault("zoomY", zoom); err != nil {
		return ap, err
	}
	if ap.zoomCenterX, err = p.floatAttrDefault("zoomCenterX", 0.5); err != nil {
		return ap, err
	}
	ap.zoomCenterY, err = p.floatAttrDefault("zoomCenterY", 0.5)
	return ap, err
}

func (im *imageManager) parseAnimFrame(p *xmlParser) (*AnimFrame, error) {
	duration, err := p.intAttr("duration")
	if err != nil {
		return nil, err
	}
	if duration < 0 {
		return nil, p.errorf("duration must be >= 0 ms")
	}
	ap, err := im.parseAnimParams(p)
	if err != nil {
		return nil, err
	}
	ref, err := p.attrNotNull("ref")
	if err != nil {
		return nil, err
	}
	img, err := im.referencedImage(p, ref)
	if err != nil {
		return nil, err
	}
	f, err := NewAnimFrame(duration, img, ap.tint, ap.zoomX, ap.zoomY, ap.zoomCenterX, ap.zoomCenterY)
	if err != nil {
		return nil, p.wrap(err, "unable to parse")
	}
	return f, p.nextTag()
}

func (im *imageManager) parseAnimFrames(p *xmlParser, children []AnimElement) ([]AnimElement, error) {
	params := newImageParams()
	if err := im.parseRect(p, params); err != nil {
		return nil, err
	}
	if err := im.parseRotation(p, params); err != nil {
		return nil, err
	}
	duration, err := p.intAttr("duration")
	if err != nil {
		return nil, err
	}
	if duration < 1 {
		return nil, p.errorf("duration must be >= 1 ms")
	}
	count, err := p.intAttr("count")
	if err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, p.errorf("count must be >= 1")
	}
	ap, err := im.parseAnimParams(p)
	if err != nil {
		return nil, err
	}
	offX, err := p.intAttrDefault("offsetx", 0)
	if err != nil {
		return nil, err
	}
	offY, err := p.intAttrDefault("offsety", 0)
	if err != nil {
		return nil, err
	}
	if count > 1 && offX == 0 && offY == 0 {
		return nil, p.errorf("offsets required for multiple frames")
	}
	for i := 0; i < count; i++ {
		img := im.createImage(p, params.x, params.y, params.w, params.h, ColorWhite, false, params.rot)
		f, err := NewAnimFrame(duration, img, ap.tint, ap.zoomX, ap.zoomY, ap.zoomCenterX, ap.zoomCenterY)
		if err != nil {
			return nil, p.wrap(err, "unable to parse")
		}
		children = append(children, f)
		params.x += offX
		params.y += offY
	}
	return children, p.nextTag()
}

func (im *imageManager) parseGradient(p *xmlParser) (Image, error) {
	typ, err := p.attrNotNull("type")
	if err != nil {
		return nil, err
	}
	g := &Gradient{}
	if g.Type, err = parseGradientType(typ); err != nil {
		return nil, p.wrap(err, "unable to parse")
	}
	if wrap, ok := p.attr("wrap"); ok {
		if g.Wrap, err = parseGradientWrap(wrap); err != nil {
			return nil, p.wrap(err, "unable to parse")
		}
	}
	if err := p.nextTag(); err != nil {
		return nil, err
	}
	for p.isStartTag() {
		if err := p.require(xmlStartTag, "stop"); err != nil {
			return nil, err
		}
		pos, err := p.floatAttr("pos")
		if err != nil {
			return nil, err
		}
		colorStr, err := p.attrNotNull("color")
		if err != nil {
			return nil, err
		}
		c, err := parseColorValue(p, colorStr, im.constants)
		if err != nil {
			return nil, err
		}
		if err := g.AddStop(pos, c); err != nil {
			return nil, p.wrap(err, "unable to parse")
		}
		if err := p.nextTag(); err != nil {
			return nil, err
		}
		if err := p.require(xmlEndTag, "stop"); err != nil {
			return nil, err
		}
		if err := p.nextTag(); err != nil {
			return nil, err
		}
	}
	img, err := im.renderer.CreateGradient(g)
	if err != nil {
		return nil, p.wrap(err, "unable to create gradient")
	}
	return img, nil
}

// createImage cuts an area from the current texture. Areas reaching
// outside the texture are clamped with a warning.
func (im *imageManager) createImage(p *xmlParser, x, y, w, h int, tint Color, tiled bool, rot Rotation) Image {
	if w == 0 || h == 0 {
		return &EmptyImage{W: abs(w), H: abs(h)}
	}
	texW, texH := im.texture.Width(), im.texture.Height()
	x1 := x + abs(w)
	y1 := y + abs(h)
	if x < 0 || x >= texW || x1 < 0 || x1 > texW || y < 0 || y >= texH || y1 < 0 || y1 > texH {
		p.warnf("texture partly outside of file")
		x = max(0, min(x, texW))
		y = max(0, min(y, texH))
		w = sign(w) * (max(0, min(x1, texW)) - x)
		h = sign(h) * (max(0, min(y1, texH)) - y)
	}
	return im.texture.Image(x, y, w, h, tint, tiled, rot)
}

func (im *imageManager) parseRect(p *xmlParser, params *imageParams) error {
	if im.texture == nil {
		return p.errorf("can't create area outside of <images file=...> element")
	}
	xywh, err := p.attrNotNull("xywh")
	if err != nil {
		return err
	}
	if xywh == "*" {
		params.x, params.y = 0, 0
		params.w, params.h = im.texture.Width(), im.texture.Height()
		return nil
	}
	coords, err := parseIntArray(xywh)
	if err != nil {
		return p.wrap(err, "can't parse xywh argument")
	}
	if len(coords) != 4 {
		return p.errorf("xywh requires 4 integer arguments")
	}
	params.x, params.y, params.w, params.h = coords[0], coords[1], coords[2], coords[3]
	return nil
}

func (im *imageManager) parseRotation(p *xmlParser, params *imageParams) error {
	rot, err := p.intAttrDefault("rot", 0)
	if err != nil {
		return err
	}
	switch rot {
	case 0:
		params.rot = RotationNone
	case 90:
		params.rot = Rotation90
	case 180:
		params.rot = Rotation180
	case 270:
		params.rot = Rotation270
	default:
		return p.errorf("invalid rotation angle %d", rot)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
