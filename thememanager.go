package willowtheme

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// maxWildcardDepth bounds chains of wildcard imports so that cyclic
// imports resolve to nil instead of recursing forever.
const maxWildcardDepth = 32

// LoadConfig holds optional settings for LoadTheme. The zero value is
// usable.
type LoadConfig struct {
	// CacheContext receives every texture and font of the theme. When nil
	// a new one is created through the renderer.
	CacheContext CacheContext

	// Constants are visible to the theme as if declared by <constantDef>.
	Constants map[string]Value

	// Enums lists the types accepted by <enum>. Nil means
	// DefaultEnumRegistry().
	Enums *EnumRegistry

	// Diagnostics receives recoverable problems. Nil means LogDiagnostics.
	Diagnostics DiagnosticFunc

	// UseOptimizer flattens nested <select> images.
	UseOptimizer bool
}

// ThemeManager is a loaded theme: the theme tree, images, cursors, fonts,
// constants and input maps declared by a theme file and its includes.
//
// After LoadTheme returns, the manager is read-only and safe for
// concurrent use.
type ThemeManager struct {
	renderer     Renderer
	cacheContext CacheContext
	diag         *diagnostics
	enums        *EnumRegistry
	fsys         fs.FS

	constants *ParameterMap
	images    *imageManager
	themes    map[string]*ThemeInfo
	inputMaps map[string]*InputMap
	fonts     map[string]Font
	allFonts  []Font

	defaultFont Font
	firstFont   Font

	math mathInterpreter
	// dir is the directory of the file being parsed.
	dir string
}

// LoadTheme parses the theme file name from fsys and builds every image
// and font through r. Fatal problems are returned as *ThemeError.
func LoadTheme(fsys fs.FS, name string, r Renderer, cfg LoadConfig) (*ThemeManager, error) {
	if r == nil {
		return nil, errors.New("willowtheme: nil renderer")
	}
	ctx := cfg.CacheContext
	ownContext := ctx == nil
	if ownContext {
		ctx = r.CreateNewCacheContext()
	}
	if err := r.SetActiveCacheContext(ctx); err != nil {
		return nil, fmt.Errorf("willowtheme: activate cache context: %w", err)
	}
	enums := cfg.Enums
	if enums == nil {
		enums = DefaultEnumRegistry()
	}
	diag := newDiagnostics(cfg.Diagnostics)

	tm := &ThemeManager{
		renderer:     r,
		cacheContext: ctx,
		diag:         diag,
		enums:        enums,
		fsys:         fsys,
		constants:    newParameterMap(diag, "constants"),
		themes:       make(map[string]*ThemeInfo),
		inputMaps:    make(map[string]*InputMap),
		fonts:        make(map[string]Font),
	}
	tm.constants.Put("SINGLE_COLUMN", IntValue(-1))
	tm.constants.Put("MAX", IntValue(32767))
	tm.constants.Put("null", Null)
	tm.constants.PutAll(cfg.Constants)
	tm.images = newImageManager(tm.constants, r, diag, cfg.UseOptimizer)
	tm.math.env = themeScope{tm: tm}

	if err := tm.parseThemeFile(name); err != nil {
		for _, f := range tm.allFonts {
			f.Destroy()
		}
		if ownContext {
			ctx.Destroy()
		}
		return nil, err
	}
	if tm.defaultFont == nil {
		tm.defaultFont = tm.firstFont
	}
	return tm, nil
}

func (tm *ThemeManager) parseThemeFile(name string) error {
	f, err := tm.fsys.Open(name)
	if err != nil {
		return &ThemeError{Position: Position{Source: name}, Msg: "unable to open theme file", Err: err}
	}
	defer f.Close()

	savedDir := tm.dir
	tm.dir = path.Dir(name)
	defer func() { tm.dir = savedDir }()

	p := newXMLParser(f, name, tm.diag)
	if err := p.nextTag(); err != nil {
		return err
	}
	if err := p.require(xmlStartTag, "themes"); err != nil {
		return err
	}
	if err := p.nextTag(); err != nil {
		return err
	}
	for !p.isEndTag() {
		if err := p.require(xmlStartTag, ""); err != nil {
			return err
		}
		tag := p.name
		if err := tm.parseTopLevel(p, tag); err != nil {
			return err
		}
		if err := p.require(xmlEndTag, tag); err != nil {
			return err
		}
		if err := p.nextTag(); err != nil {
			return err
		}
	}
	if err := p.nextTag(); err != nil {
		return err
	}
	return p.require(xmlEndDocument, "")
}

func (tm *ThemeManager) parseTopLevel(p *xmlParser, tag string) error {
	switch tag {
	case "images", "textures":
		return tm.images.parseImages(p, tm.dir)
	case "include":
		file, err := p.attrNotNull("filename")
		if err != nil {
			return err
		}
		site := p.position()
		if err := tm.parseThemeFile(path.Join(tm.dir, file)); err != nil {
			var te *ThemeError
			if errors.As(err, &te) {
				te.addIncludedBy(site)
				return te
			}
			return err
		}
		return p.nextTag()
	}

	name, err := p.attrNotNull("name")
	if err != nil {
		return err
	}
	switch tag {
	case "theme":
		if _, ok := tm.themes[name]; ok {
			return p.errorf("theme %q already defined", name)
		}
		ti, err := tm.parseTheme(p, name, nil)
		if err != nil {
			return err
		}
		tm.themes[name] = ti
	case "inputMapDef":
		if err := checkNameNotEmpty(p, name); err != nil {
			return err
		}
		if _, ok := tm.inputMaps[name]; ok {
			return p.errorf("input map %q already defined", name)
		}
		m, err := tm.parseInputMap(p, name, nil)
		if err != nil {
			return err
		}
		tm.inputMaps[name] = m
	case "fontDef":
		if err := checkNameNotEmpty(p, name); err != nil {
			return err
		}
		if _, ok := tm.fonts[name]; ok {
			return p.errorf("font %q already defined", name)
		}
		isDefault, err := p.boolAttr("default", false)
		if err != nil {
			return err
		}
		font, err := tm.parseFont(p)
		if err != nil {
			return err
		}
		if isDefault {
			if tm.defaultFont != nil {
				return p.errorf("default font already set")
			}
			tm.defaultFont = font
		}
		if tm.firstFont == nil {
			tm.firstFont = font
		}
		tm.fonts[name] = font
	case "constantDef":
		return tm.parseParam(p, tm.constants, tag, nil, name)
	default:
		return p.unexpected()
	}
	return nil
}

func (tm *ThemeManager) parseTheme(p *xmlParser, name string, parent *ThemeInfo) (*ThemeInfo, error) {
	if parent != nil || name != "*" {
		if err := checkNameNotEmpty(p, name); err != nil {
			return nil, err
		}
		if strings.Contains(name, ".") {
			return nil, p.errorf("'.' is not allowed in theme names")
		}
	}
	ti := newThemeInfo(tm, name, parent)
	savedEnv := tm.math.env
	tm.math.env = themeScope{tm: tm, ti: ti}
	defer func() { tm.math.env = savedEnv }()

	merge, err := p.boolAttr("merge", false)
	if err != nil {
		return nil, err
	}
	if merge {
		if parent == nil {
			return nil, p.errorf("'merge' not allowed on top-level themes")
		}
		if src := parent.theme(name); src != nil {
			ti.copyFrom(src)
		}
	}
	if ref, ok := p.attr("ref"); ok {
		var src *ThemeInfo
		if parent != nil {
			src = parent.theme(ref)
		}
		if src == nil {
			src = tm.findThemeInfo(ref, false, false, 0)
		}
		if src == nil {
			return nil, p.errorf("referenced theme %q not found%s", ref, suggestion(ref, tm.ThemeNames()))
		}
		ti.copyFrom(src)
	}
	if ti.maybeUsedFromWildcard, err = p.boolAttr("allowWildcard", true); err != nil {
		return nil, err
	}

	if err := p.nextTag(); err != nil {
		return nil, err
	}
	for !p.isEndTag() {
		if err := p.require(xmlStartTag, ""); err != nil {
			return nil, err
		}
		tag := p.name
		switch tag {
		case "param":
			paramName, err := p.attrNotNull("name")
			if err != nil {
				return nil, err
			}
			if err := tm.parseParam(p, &ti.ParameterMap, tag, ti, paramName); err != nil {
				return nil, err
			}
		case "theme":
			childName, err := p.attrNotNull("name")
			if err != nil {
				return nil, err
			}
			if childName == "" {
				if err := parseWildcardImport(p, ti); err != nil {
					return nil, err
				}
				break
			}
			child, err := tm.parseTheme(p, childName, ti)
			if err != nil {
				return nil, err
			}
			ti.putTheme(childName, child)
		default:
			return nil, p.unexpected()
		}
		if err := p.require(xmlEndTag, tag); err != nil {
			return nil, err
		}
		if err := p.nextTag(); err != nil {
			return nil, err
		}
	}
	return ti, nil
}

// parseWildcardImport reads <theme name="" ref="prefix.*"/>.
func parseWildcardImport(p *xmlParser, ti *ThemeInfo) error {
	ref, err := p.attrNotNull("ref")
	if err != nil {
		return err
	}
	if !strings.HasSuffix(ref, "*") {
		return p.errorf("wildcard reference must end with '*': %q", ref)
	}
	prefix := ref[:len(ref)-1]
	if prefix != "" && !strings.HasSuffix(prefix, ".") {
		return p.errorf("wildcard reference must end with \".*\": %q", ref)
	}
	ti.wildcardImportPath = prefix
	ti.hasWildcardImport = true
	return p.nextTag()
}

// parseParam reads a <param> or <constantDef> element holding one value
// element and stores the value in target. A wildcard image or cursor
// reference stores one entry per match.
func (tm *ThemeManager) parseParam(p *xmlParser, target *ParameterMap, tag string, ti *ThemeInfo, name string) error {
	if err := p.nextTag(); err != nil {
		return err
	}
	if err := p.require(xmlStartTag, ""); err != nil {
		return err
	}
	valueTag := p.name
	v, expanded, err := tm.parseValue(p, valueTag, name, ti)
	if err != nil {
		return err
	}
	if err := p.require(xmlEndTag, valueTag); err != nil {
		return err
	}
	if err := p.nextTag(); err != nil {
		return err
	}
	if err := p.require(xmlEndTag, tag); err != nil {
		return err
	}
	if expanded != nil {
		if target == tm.constants && len(expanded) != 1 {
			return p.errorf("constant definitions must define exactly 1 value")
		}
		target.PutAll(expanded)
		return nil
	}
	if err := checkNameNotEmpty(p, name); err != nil {
		return err
	}
	target.Put(name, v)
	return nil
}

// parseValue parses the value element tag and leaves the parser on its end
// tag. For wildcard references it returns the expanded entries instead of
// a value.
func (tm *ThemeManager) parseValue(p *xmlParser, tag, wildcardName string, ti *ThemeInfo) (Value, map[string]Value, error) {
	switch tag {
	case "list":
		v, err := tm.parseList(p, ti)
		return v, nil, err
	case "map":
		v, err := tm.parseMap(p, wildcardName, ti)
		return v, nil, err
	case "inputMapDef":
		m, err := tm.parseInputMap(p, wildcardName, ti)
		if err != nil {
			return Null, nil, err
		}
		return InputMapValue(m), nil, nil
	case "fontDef":
		f, err := tm.parseFont(p)
		if err != nil {
			return Null, nil, err
		}
		return FontValue(f), nil, nil
	case "enum":
		typ, err := p.attrNotNull("type")
		if err != nil {
			return Null, nil, err
		}
		if !tm.enums.Has(typ) {
			return Null, nil, p.errorf("enum type %q not registered", typ)
		}
		text, err := p.nextText()
		if err != nil {
			return Null, nil, err
		}
		e, err := tm.enums.Parse(typ, text)
		if err != nil {
			return Null, nil, p.wrap(err, "unable to parse enum")
		}
		return EnumVal(e), nil, nil
	}

	text, err := p.nextText()
	if err != nil {
		return Null, nil, err
	}
	switch tag {
	case "bool":
		b, err := p.parseBool(text)
		return BoolValue(b), nil, err
	case "color":
		c, err := parseColorValue(p, text, tm.constants)
		return ColorValue(c), nil, err
	case "float":
		f, err := tm.math.evalFloat(text)
		if err != nil {
			return Null, nil, p.wrap(err, "unable to evaluate %q", text)
		}
		return FloatValue(f), nil, nil
	case "int":
		n, err := tm.math.evalInt(text)
		if err != nil {
			return Null, nil, p.wrap(err, "unable to evaluate %q", text)
		}
		return IntValue(n), nil, nil
	case "string":
		return StringValue(text), nil, nil
	case "font":
		f, ok := tm.fonts[text]
		if !ok {
			return Null, nil, p.errorf("font %q not found", text)
		}
		return FontValue(f), nil, nil
	case "border", "dimension", "gap", "size":
		kind := map[string]Kind{"border": KindBorder, "dimension": KindDimension, "gap": KindGap, "size": KindGap}[tag]
		v, err := tm.math.evalObject(text, kind)
		if err != nil {
			return Null, nil, p.wrap(err, "unable to evaluate %q", text)
		}
		return v, nil, nil
	case "constant":
		v, ok := tm.constants.Value(text, false)
		if !ok {
			return Null, nil, p.errorf("constant %q not found", text)
		}
		return v, nil, nil
	case "image":
		if strings.HasSuffix(text, ".*") {
			if wildcardName == "" {
				return Null, nil, p.errorf("wildcard image reference requires a name")
			}
			return Null, tm.images.imagesWildcard(text, wildcardName), nil
		}
		img, err := tm.images.referencedImage(p, text)
		if err != nil {
			return Null, nil, err
		}
		return ImageValue(img), nil, nil
	case "cursor":
		if strings.HasSuffix(text, ".*") {
			if wildcardName == "" {
				return Null, nil, p.errorf("wildcard cursor reference requires a name")
			}
			return Null, tm.images.cursorsWildcard(text, wildcardName), nil
		}
		c, err := tm.images.referencedCursor(p, text)
		if err != nil {
			return Null, nil, err
		}
		if c == nil {
			return Null, nil, nil
		}
		return CursorValue(c), nil, nil
	case "inputMap":
		m, ok := tm.inputMaps[text]
		if !ok {
			return Null, nil, p.errorf("input map %q not found", text)
		}
		return InputMapValue(m), nil, nil
	}
	return Null, nil, p.errorf("unknown type %q", tag)
}

func (tm *ThemeManager) parseList(p *xmlParser, ti *ThemeInfo) (Value, error) {
	l := newParameterList(tm.diag, "list")
	if err := p.nextTag(); err != nil {
		return Null, err
	}
	for p.isStartTag() {
		tag := p.name
		v, _, err := tm.parseValue(p, tag, "", ti)
		if err != nil {
			return Null, err
		}
		l.add(v)
		if err := p.require(xmlEndTag, tag); err != nil {
			return Null, err
		}
		if err := p.nextTag(); err != nil {
			return Null, err
		}
	}
	return ListValue(l), nil
}

func (tm *ThemeManager) parseMap(p *xmlParser, name string, ti *ThemeInfo) (Value, error) {
	m := newParameterMap(tm.diag, name)
	merge, err := p.boolAttr("merge", false)
	if err != nil {
		return Null, err
	}
	if merge {
		if ti == nil {
			return Null, p.errorf("'merge' not allowed outside of a theme")
		}
		v, _ := ti.Value(name, false)
		base, ok := v.Map()
		if !ok {
			return Null, p.errorf("'merge' requires an existing map parameter %q", name)
		}
		m.Copy(base)
	}
	if ref, ok := p.attr("ref"); ok {
		var v Value
		found := false
		if ti != nil {
			v, found = ti.Value(ref, false)
		}
		if !found {
			v, found = tm.constants.Value(ref, false)
		}
		base, ok := v.Map()
		if !found || !ok {
			return Null, p.errorf("referenced map %q not found", ref)
		}
		m.Copy(base)
	}
	if err := p.nextTag(); err != nil {
		return Null, err
	}
	for p.isStartTag() {
		if err := p.require(xmlStartTag, "param"); err != nil {
			return Null, err
		}
		paramName, err := p.attrNotNull("name")
		if err != nil {
			return Null, err
		}
		if err := tm.parseParam(p, m, "param", ti, paramName); err != nil {
			return Null, err
		}
		if err := p.nextTag(); err != nil {
			return Null, err
		}
	}
	return MapValue(m), nil
}

func (tm *ThemeManager) parseInputMap(p *xmlParser, name string, ti *ThemeInfo) (*InputMap, error) {
	base := EmptyInputMap()
	merge, err := p.boolAttr("merge", false)
	if err != nil {
		return nil, err
	}
	if merge {
		if ti == nil {
			return nil, p.errorf("'merge' not allowed outside of a theme")
		}
		v, _ := ti.Value(name, false)
		m, ok := v.InputMap()
		if !ok {
			return nil, p.errorf("'merge' requires an existing input map parameter %q", name)
		}
		base = m
	}
	if ref, ok := p.attr("ref"); ok {
		m, ok := tm.inputMaps[ref]
		if !ok {
			return nil, p.errorf("referenced input map %q not found", ref)
		}
		base = base.AddKeyStrokes(m.KeyStrokes()...)
	}
	if err := p.nextTag(); err != nil {
		return nil, err
	}
	strokes, err := parseInputMapBody(p)
	if err != nil {
		return nil, err
	}
	return base.AddKeyStrokes(strokes...), nil
}

// parseFont reads a font definition. Font parameter attributes on the
// element form the default parameter set; <fontParam> children add
// conditional sets in front of it.
func (tm *ThemeManager) parseFont(p *xmlParser) (Font, error) {
	filename, hasFile := p.attr("filename")
	var families []string
	if s, ok := p.attr("families"); ok {
		families = splitList(s)
	}
	size := 0
	if s, ok := p.attr("size"); ok {
		var err error
		if size, err = tm.math.evalInt(s); err != nil {
			return nil, p.wrap(err, "unable to evaluate font size %q", s)
		}
	} else if len(families) > 0 {
		return nil, p.errorf("'size' is required with 'families'")
	}
	style, _ := p.attr("style")

	base := NewFontParameter(nil)
	if err := tm.parseFontParameter(p, base); err != nil {
		return nil, err
	}
	var conds []StateExpression
	var params []*FontParameter
	if err := p.nextTag(); err != nil {
		return nil, err
	}
	for p.isStartTag() {
		if err := p.require(xmlStartTag, "fontParam"); err != nil {
			return nil, err
		}
		cond, err := parseCondition(p)
		if err != nil {
			return nil, err
		}
		if cond == nil {
			return nil, p.errorf("condition required")
		}
		fp := NewFontParameter(base)
		if err := tm.parseFontParameter(p, fp); err != nil {
			return nil, err
		}
		conds = append(conds, cond)
		params = append(params, fp)
		if err := p.nextTag(); err != nil {
			return nil, err
		}
		if err := p.require(xmlEndTag, "fontParam"); err != nil {
			return nil, err
		}
		if err := p.nextTag(); err != nil {
			return nil, err
		}
	}
	params = append(params, base)
	sel := NewStateSelect(conds...)

	var font Font
	if len(families) > 0 {
		if fm := tm.renderer.FontMapper(); fm != nil {
			font = fm.Font(families, size, parseFontStyle(style), sel, params)
		}
	}
	if font == nil {
		if !hasFile {
			return nil, p.errorf("no font file and no matching font family")
		}
		var err error
		font, err = tm.renderer.LoadFont(path.Join(tm.dir, filename), sel, params)
		if err != nil {
			return nil, p.wrap(err, "unable to load font %q", filename)
		}
		if font == nil {
			return nil, p.errorf("unable to load font %q", filename)
		}
	}
	tm.allFonts = append(tm.allFonts, font)
	return font, nil
}

// parseFontParameter stores the remaining font attributes of the current
// element in fp.
func (tm *ThemeManager) parseFontParameter(p *xmlParser, fp *FontParameter) error {
	for _, a := range p.unusedAttrs() {
		name := a.Name.Local
		kind, ok := fontParameterKinds[name]
		if !ok || a.Name.Space != "" {
			p.warnf("unused attribute %q on <%s>", name, p.name)
			continue
		}
		var v Value
		switch kind {
		case KindColor:
			c, err := parseColorValue(p, a.Value, tm.constants)
			if err != nil {
				return err
			}
			v = ColorValue(c)
		case KindInt:
			n, err := tm.math.evalInt(a.Value)
			if err != nil {
				return p.wrap(err, "unable to evaluate %s", name)
			}
			v = IntValue(n)
		case KindBool:
			b, err := p.parseBool(a.Value)
			if err != nil {
				return err
			}
			v = BoolValue(b)
		}
		if err := fp.Put(name, v); err != nil {
			return p.wrap(err, "invalid font parameter")
		}
	}
	return nil
}

// themeScope resolves math identifiers inside a theme: parameters and
// child themes of the theme and its enclosing themes, then constants, then
// fonts.
type themeScope struct {
	tm *ThemeManager
	ti *ThemeInfo
}

func (s themeScope) variable(name string) (any, bool) {
	for e := s.ti; e != nil; e = e.parent {
		if v, ok := e.Value(name, false); ok && !v.IsNull() {
			return unwrapValue(v), true
		}
		if child := e.lookupChild(name, false, 0); child != nil {
			return child, true
		}
	}
	if v, ok := s.tm.constants.Value(name, false); ok {
		return unwrapValue(v), true
	}
	if f, ok := s.tm.fonts[name]; ok {
		return f, true
	}
	return nil, false
}

// FindThemeInfo resolves a dotted theme path such as "button.label". A
// first segment that names no top-level theme resolves against the "*"
// theme when one exists. Misses are reported and return nil.
func (tm *ThemeManager) FindThemeInfo(themePath string) *ThemeInfo {
	return tm.findThemeInfo(themePath, true, true, 0)
}

func (tm *ThemeManager) findThemeInfo(themePath string, warn, useFallback bool, depth int) *ThemeInfo {
	segs := splitPath(themePath)
	ti := tm.themes[segs[0]]
	if ti == nil {
		if ti = tm.themes["*"]; ti != nil {
			if !useFallback {
				return nil
			}
			tm.diag.once("*\x00"+themePath, UsingFallbackTheme, "using fallback theme for %q", themePath)
		}
	}
	for _, seg := range segs[1:] {
		if ti == nil {
			break
		}
		ti = ti.lookupChild(seg, useFallback, depth)
	}
	if ti == nil && warn {
		tm.diag.once("theme\x00"+themePath, MissingTheme, "theme %q not found%s",
			themePath, suggestion(segs[0], tm.ThemeNames()))
	}
	return ti
}

// resolveWildcard looks up base+name from the top of the tree. Only themes
// that allow wildcard use are returned.
func (tm *ThemeManager) resolveWildcard(base, name string, useFallback bool, depth int) *ThemeInfo {
	if depth >= maxWildcardDepth {
		tm.diag.once("wildcard\x00"+base, ParseWarning, "wildcard import %q is cyclic", base+"*")
		return nil
	}
	ti := tm.findThemeInfo(base+name, false, useFallback, depth+1)
	if ti != nil && ti.maybeUsedFromWildcard {
		return ti
	}
	return nil
}

// ThemeNames returns the names of the top-level themes in sorted order.
func (tm *ThemeManager) ThemeNames() []string {
	names := make([]string, 0, len(tm.themes))
	for n := range tm.themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ImageNames returns the names of all images in sorted order.
func (tm *ThemeManager) ImageNames() []string {
	names := tm.images.imageNames()
	sort.Strings(names)
	return names
}

// Image returns the named image. A miss is reported once and returns nil.
func (tm *ThemeManager) Image(name string) Image {
	img := tm.images.image(name)
	if img == nil {
		tm.diag.once("image\x00"+name, MissingImage, "image %q not found%s",
			name, suggestion(name, tm.images.imageNames()))
	}
	return img
}

// ImageNoWarning returns the named image or nil.
func (tm *ThemeManager) ImageNoWarning(name string) Image {
	return tm.images.image(name)
}

// Font returns the font declared by a top-level <fontDef>, or nil.
func (tm *ThemeManager) Font(name string) Font {
	return tm.fonts[name]
}

// DefaultFont returns the font marked default="true", or the first font
// declared when none is.
func (tm *ThemeManager) DefaultFont() Font {
	return tm.defaultFont
}

// Cursor returns the named cursor. "inherit" and unknown names return
// nil.
func (tm *ThemeManager) Cursor(name string) MouseCursor {
	return tm.images.cursor(name)
}

func (tm *ThemeManager) Constants() *ParameterMap {
	return tm.constants
}

// InputMap returns the input map declared by a top-level <inputMapDef>,
// or nil.
func (tm *ThemeManager) InputMap(name string) *InputMap {
	return tm.inputMaps[name]
}

func (tm *ThemeManager) CacheContext() CacheContext {
	return tm.cacheContext
}

// Destroy releases every font and then the cache context. The manager
// must not be used afterwards.
func (tm *ThemeManager) Destroy() {
	for _, f := range tm.allFonts {
		f.Destroy()
	}
	tm.allFonts = nil
	tm.cacheContext.Destroy()
}
