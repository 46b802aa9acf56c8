package willowtheme

import (
	"fmt"
	"sort"
	"strings"
)

// Font is a renderer font. A font may carry several FontParameter sets
// selected by animation state.
type Font interface {
	LineHeight() int
	BaseLine() int
	SpaceWidth() int
	TextWidth(s string) int
	// DrawText draws s with its top-left corner at (x, y) and returns the
	// advance in pixels.
	DrawText(as AnimationState, x, y int, s string) int
	Destroy()
}

// FontStyle is a bit set of font style flags.
type FontStyle uint8

const (
	FontBold FontStyle = 1 << iota
	FontItalic
)

// FontMapper finds a font by family name. It returns nil when none of the
// families is known.
type FontMapper interface {
	Font(families []string, size int, style FontStyle, sel *StateSelect, params []*FontParameter) Font
}

// fontParameterKinds lists the attributes accepted on <fontDef> and
// <fontParam> and the kind each value parses to.
var fontParameterKinds = map[string]Kind{
	"color":           KindColor,
	"underline":       KindBool,
	"underlineOffset": KindInt,
	"lineThrough":     KindBool,
	"offsetX":         KindInt,
	"offsetY":         KindInt,
}

// FontParameter holds the render settings of a font for one state.
type FontParameter struct {
	values map[string]Value
}

// NewFontParameter returns a parameter set copied from base, which may be
// nil.
func NewFontParameter(base *FontParameter) *FontParameter {
	fp := &FontParameter{values: make(map[string]Value)}
	if base != nil {
		for k, v := range base.values {
			fp.values[k] = v
		}
	}
	return fp
}

// Put stores a parameter. The name must be one of the known font
// parameters and v must have its kind.
func (fp *FontParameter) Put(name string, v Value) error {
	kind, ok := fontParameterKinds[name]
	if !ok {
		return fmt.Errorf("unknown font parameter %q", name)
	}
	if v.kind != kind {
		return fmt.Errorf("font parameter %q requires %s, got %s", name, kind, v.kind)
	}
	fp.values[name] = v
	return nil
}

// Color returns the text color, white when unset.
func (fp *FontParameter) Color() Color {
	if c, ok := fp.values["color"].Color(); ok {
		return c
	}
	return ColorWhite
}

func (fp *FontParameter) Bool(name string) bool {
	b, _ := fp.values[name].Bool()
	return b
}

func (fp *FontParameter) Int(name string) int {
	n, _ := fp.values[name].Int()
	return n
}

func (fp *FontParameter) String() string {
	keys := make([]string, 0, len(fp.values))
	for k := range fp.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%#v", k, fp.values[k])
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// selectFontParameter picks the parameter set for as.
func selectFontParameter(sel *StateSelect, params []*FontParameter, as AnimationState) *FontParameter {
	idx := sel.Evaluate(as)
	if idx < len(params) {
		return params[idx]
	}
	return params[len(params)-1]
}

// parseFontStyle reads a comma separated style list such as "bold, italic".
func parseFontStyle(s string) FontStyle {
	var style FontStyle
	for _, part := range splitList(s) {
		switch strings.ToLower(part) {
		case "bold":
			style |= FontBold
		case "italic":
			style |= FontItalic
		}
	}
	return style
}

// splitList splits a comma separated list, trimming and dropping empty
// entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
