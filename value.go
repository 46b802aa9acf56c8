package willowtheme

import "fmt"

// Kind identifies which arm of a Value is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindFont
	KindImage
	KindColor
	KindInt
	KindFloat
	KindBool
	KindString
	KindBorder
	KindDimension
	KindGap
	KindEnum
	KindCursor
	KindInputMap
	KindMap
	KindList
)

var kindNames = [...]string{
	KindNull:      "null",
	KindFont:      "font",
	KindImage:     "image",
	KindColor:     "color",
	KindInt:       "int",
	KindFloat:     "float",
	KindBool:      "bool",
	KindString:    "string",
	KindBorder:    "border",
	KindDimension: "dimension",
	KindGap:       "gap",
	KindEnum:      "enum",
	KindCursor:    "cursor",
	KindInputMap:  "inputMap",
	KindMap:       "map",
	KindList:      "list",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// renderResource reports whether k belongs to the family of kinds that may
// replace each other without a diagnostic.
func (k Kind) renderResource() bool {
	return k == KindImage || k == KindFont || k == KindCursor
}

// EnumValue is a value of a registered enum type.
type EnumValue struct {
	Type    string
	Name    string
	Ordinal int
}

// Value is a typed theme parameter. The zero Value is the explicit null.
type Value struct {
	kind Kind
	v    any
}

// Null is the explicit null value.
var Null = Value{}

func FontValue(f Font) Value           { return Value{KindFont, f} }
func ImageValue(img Image) Value       { return Value{KindImage, img} }
func ColorValue(c Color) Value         { return Value{KindColor, c} }
func IntValue(i int) Value             { return Value{KindInt, i} }
func FloatValue(f float64) Value       { return Value{KindFloat, f} }
func BoolValue(b bool) Value           { return Value{KindBool, b} }
func StringValue(s string) Value       { return Value{KindString, s} }
func BorderValue(b Border) Value       { return Value{KindBorder, b} }
func DimensionValue(d Dimension) Value { return Value{KindDimension, d} }
func GapValue(g Gap) Value             { return Value{KindGap, g} }
func EnumVal(e EnumValue) Value        { return Value{KindEnum, e} }
func CursorValue(c MouseCursor) Value  { return Value{KindCursor, c} }
func InputMapValue(m *InputMap) Value  { return Value{KindInputMap, m} }
func MapValue(m *ParameterMap) Value   { return Value{KindMap, m} }
func ListValue(l *ParameterList) Value { return Value{KindList, l} }

// Kind returns the populated arm.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the explicit null.
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Font() (Font, bool) {
	f, ok := v.v.(Font)
	return f, ok && v.kind == KindFont
}

func (v Value) Image() (Image, bool) {
	img, ok := v.v.(Image)
	return img, ok && v.kind == KindImage
}

func (v Value) Color() (Color, bool) {
	c, ok := v.v.(Color)
	return c, ok
}

// Int returns the integer arm. Float values are not converted.
func (v Value) Int() (int, bool) {
	i, ok := v.v.(int)
	return i, ok
}

// Float returns the float arm, widening integers.
func (v Value) Float() (float64, bool) {
	switch n := v.v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func (v Value) Bool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok
}

func (v Value) Str() (string, bool) {
	s, ok := v.v.(string)
	return s, ok
}

func (v Value) Border() (Border, bool) {
	b, ok := v.v.(Border)
	return b, ok
}

func (v Value) Dimension() (Dimension, bool) {
	d, ok := v.v.(Dimension)
	return d, ok
}

func (v Value) Gap() (Gap, bool) {
	g, ok := v.v.(Gap)
	return g, ok
}

func (v Value) Enum() (EnumValue, bool) {
	e, ok := v.v.(EnumValue)
	return e, ok
}

func (v Value) Cursor() (MouseCursor, bool) {
	c, ok := v.v.(MouseCursor)
	return c, ok && v.kind == KindCursor
}

func (v Value) InputMap() (*InputMap, bool) {
	m, ok := v.v.(*InputMap)
	return m, ok
}

func (v Value) Map() (*ParameterMap, bool) {
	m, ok := v.v.(*ParameterMap)
	return m, ok
}

func (v Value) List() (*ParameterList, bool) {
	l, ok := v.v.(*ParameterList)
	return l, ok
}

// GoString is used by %#v and in diagnostics.
func (v Value) GoString() string {
	if v.kind == KindNull {
		return "null"
	}
	return fmt.Sprintf("%s(%v)", v.kind, v.v)
}
