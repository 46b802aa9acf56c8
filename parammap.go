package willowtheme

import (
	"sort"
	"strconv"
)

// cascadedMap is a local map with an optional fallback chain. A miss in the
// local map is retried in the fallback, which is never written through.
type cascadedMap[V any] struct {
	local    map[string]V
	fallback *cascadedMap[V]
}

func (c *cascadedMap[V]) get(key string) (V, bool) {
	for m := c; m != nil; m = m.fallback {
		if v, ok := m.local[key]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

func (c *cascadedMap[V]) getLocal(key string) (V, bool) {
	v, ok := c.local[key]
	return v, ok
}

// put stores v locally and returns the value it shadows, if any.
func (c *cascadedMap[V]) put(key string, v V) (V, bool) {
	old, had := c.get(key)
	if c.local == nil {
		c.local = make(map[string]V)
	}
	c.local[key] = v
	return old, had
}

// collapseAndSetFallback flattens src and its whole chain into a single
// snapshot and installs it as the nearest fallback of c. Entries already
// stored locally in c keep priority.
func (c *cascadedMap[V]) collapseAndSetFallback(src *cascadedMap[V]) {
	if src == nil {
		return
	}
	var chain []*cascadedMap[V]
	for m := src; m != nil; m = m.fallback {
		chain = append(chain, m)
	}
	flat := make(map[string]V)
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].local {
			flat[k] = v
		}
	}
	c.fallback = &cascadedMap[V]{local: flat, fallback: c.fallback}
}

func (c *cascadedMap[V]) keys() []string {
	seen := make(map[string]struct{})
	var out []string
	for m := c; m != nil; m = m.fallback {
		for k := range m.local {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}

// ParameterMap is a named scope of typed parameters. Lookups that miss the
// local entries fall through to the fallback installed by Copy.
//
// Typed getters never fail: they return the caller's default (or nil) and
// report MissingParameter or WrongParameterType to the diagnostic sink.
type ParameterMap struct {
	diag   *diagnostics
	scope  string
	params cascadedMap[Value]
}

// NewParameterMap returns an empty map reporting to sink. The scope names
// the map in diagnostics.
func NewParameterMap(scope string, sink DiagnosticFunc) *ParameterMap {
	return newParameterMap(newDiagnostics(sink), scope)
}

func newParameterMap(diag *diagnostics, scope string) *ParameterMap {
	return &ParameterMap{diag: diag, scope: scope}
}

func (m *ParameterMap) describe(name string) string {
	if m.scope == "" {
		return strconv.Quote(name)
	}
	return m.scope + "." + name
}

// Put stores v under name. Replacing a value of a different kind is
// reported unless both kinds are render resources (image, font, cursor).
func (m *ParameterMap) Put(name string, v Value) {
	old, had := m.params.put(name, v)
	if had && !old.IsNull() && !v.IsNull() && old.kind != v.kind &&
		!(old.kind.renderResource() && v.kind.renderResource()) {
		m.diag.warnf(ReplacingWithDifferentType, "%s: replacing %s with %s", m.describe(name), old.kind, v.kind)
	}
}

// PutAll stores every entry of values in key order.
func (m *ParameterMap) PutAll(values map[string]Value) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Put(k, values[k])
	}
}

// Copy installs a flattened snapshot of src (including its own fallbacks)
// as the fallback of m. Local entries of m keep priority.
func (m *ParameterMap) Copy(src *ParameterMap) {
	if src == nil || src == m {
		return
	}
	m.params.collapseAndSetFallback(&src.params)
}

// Has reports whether name is present in m or its fallbacks.
func (m *ParameterMap) Has(name string) bool {
	_, ok := m.params.get(name)
	return ok
}

// Keys returns every visible key in sorted order.
func (m *ParameterMap) Keys() []string {
	return m.params.keys()
}

// Value returns the raw value for name. When warn is set, an absent key is
// reported as MissingParameter.
func (m *ParameterMap) Value(name string, warn bool) (Value, bool) {
	v, ok := m.params.get(name)
	if !ok && warn {
		m.reportMissing(name)
	}
	return v, ok
}

func (m *ParameterMap) reportMissing(name string) {
	m.diag.warnf(MissingParameter, "%s%s", m.describe(name), suggestion(name, m.Keys()))
}

// lookup resolves name and checks it holds kind. ok is false for absent,
// null and mistyped values; only the first and last are reported.
func (m *ParameterMap) lookup(name string, kind Kind) (Value, bool) {
	v, ok := m.params.get(name)
	if !ok {
		m.reportMissing(name)
		return Value{}, false
	}
	if v.IsNull() {
		return v, false
	}
	if v.kind != kind && !(kind == KindFloat && v.kind == KindInt) {
		m.diag.warnf(WrongParameterType, "%s: expected %s, found %s", m.describe(name), kind, v.kind)
		return Value{}, false
	}
	return v, true
}

func (m *ParameterMap) Font(name string) Font {
	v, _ := m.lookup(name, KindFont)
	f, _ := v.Font()
	return f
}

func (m *ParameterMap) Image(name string) Image {
	v, _ := m.lookup(name, KindImage)
	img, _ := v.Image()
	return img
}

func (m *ParameterMap) Cursor(name string) MouseCursor {
	v, _ := m.lookup(name, KindCursor)
	c, _ := v.Cursor()
	return c
}

func (m *ParameterMap) Map(name string) *ParameterMap {
	v, _ := m.lookup(name, KindMap)
	pm, _ := v.Map()
	return pm
}

func (m *ParameterMap) List(name string) *ParameterList {
	v, _ := m.lookup(name, KindList)
	l, _ := v.List()
	return l
}

func (m *ParameterMap) InputMap(name string) *InputMap {
	v, _ := m.lookup(name, KindInputMap)
	im, _ := v.InputMap()
	return im
}

func (m *ParameterMap) Bool(name string, def bool) bool {
	if v, ok := m.lookup(name, KindBool); ok {
		b, _ := v.Bool()
		return b
	}
	return def
}

func (m *ParameterMap) Int(name string, def int) int {
	if v, ok := m.lookup(name, KindInt); ok {
		i, _ := v.Int()
		return i
	}
	return def
}

func (m *ParameterMap) Float(name string, def float64) float64 {
	if v, ok := m.lookup(name, KindFloat); ok {
		f, _ := v.Float()
		return f
	}
	return def
}

func (m *ParameterMap) String(name string, def string) string {
	if v, ok := m.lookup(name, KindString); ok {
		s, _ := v.Str()
		return s
	}
	return def
}

func (m *ParameterMap) Color(name string, def Color) Color {
	if v, ok := m.lookup(name, KindColor); ok {
		c, _ := v.Color()
		return c
	}
	return def
}

func (m *ParameterMap) Border(name string, def Border) Border {
	if v, ok := m.lookup(name, KindBorder); ok {
		b, _ := v.Border()
		return b
	}
	return def
}

func (m *ParameterMap) Dimension(name string, def Dimension) Dimension {
	if v, ok := m.lookup(name, KindDimension); ok {
		d, _ := v.Dimension()
		return d
	}
	return def
}

func (m *ParameterMap) Gap(name string, def Gap) Gap {
	if v, ok := m.lookup(name, KindGap); ok {
		g, _ := v.Gap()
		return g
	}
	return def
}

// Enum returns the enum stored under name. When def names a type, a value
// of another enum type is reported as WrongParameterType.
func (m *ParameterMap) Enum(name string, def EnumValue) EnumValue {
	v, ok := m.lookup(name, KindEnum)
	if !ok {
		return def
	}
	e, _ := v.Enum()
	if def.Type != "" && e.Type != def.Type {
		m.diag.warnf(WrongParameterType, "%s: expected enum %s, found enum %s", m.describe(name), def.Type, e.Type)
		return def
	}
	return e
}

// ParameterList is an ordered sequence of typed parameters.
type ParameterList struct {
	diag   *diagnostics
	scope  string
	values []Value
}

func newParameterList(diag *diagnostics, scope string) *ParameterList {
	return &ParameterList{diag: diag, scope: scope}
}

// NewParameterList returns a list holding values, reporting to sink.
func NewParameterList(scope string, sink DiagnosticFunc, values ...Value) *ParameterList {
	l := newParameterList(newDiagnostics(sink), scope)
	l.values = append(l.values, values...)
	return l
}

func (l *ParameterList) add(v Value) {
	l.values = append(l.values, v)
}

// Len returns the number of entries.
func (l *ParameterList) Len() int {
	return len(l.values)
}

// Value returns entry i, reporting an out of range index.
func (l *ParameterList) Value(i int) (Value, bool) {
	if i < 0 || i >= len(l.values) {
		l.diag.warnf(MissingParameter, "%s[%d]: index out of range (len %d)", l.scope, i, len(l.values))
		return Value{}, false
	}
	return l.values[i], true
}

func (l *ParameterList) lookup(i int, kind Kind) (Value, bool) {
	v, ok := l.Value(i)
	if !ok || v.IsNull() {
		return Value{}, false
	}
	if v.kind != kind && !(kind == KindFloat && v.kind == KindInt) {
		l.diag.warnf(WrongParameterType, "%s[%d]: expected %s, found %s", l.scope, i, kind, v.kind)
		return Value{}, false
	}
	return v, true
}

func (l *ParameterList) Font(i int) Font {
	v, _ := l.lookup(i, KindFont)
	f, _ := v.Font()
	return f
}

func (l *ParameterList) Image(i int) Image {
	v, _ := l.lookup(i, KindImage)
	img, _ := v.Image()
	return img
}

func (l *ParameterList) Cursor(i int) MouseCursor {
	v, _ := l.lookup(i, KindCursor)
	c, _ := v.Cursor()
	return c
}

func (l *ParameterList) Map(i int) *ParameterMap {
	v, _ := l.lookup(i, KindMap)
	m, _ := v.Map()
	return m
}

func (l *ParameterList) List(i int) *ParameterList {
	v, _ := l.lookup(i, KindList)
	sub, _ := v.List()
	return sub
}

func (l *ParameterList) Bool(i int, def bool) bool {
	if v, ok := l.lookup(i, KindBool); ok {
		b, _ := v.Bool()
		return b
	}
	return def
}

func (l *ParameterList) Int(i int, def int) int {
	if v, ok := l.lookup(i, KindInt); ok {
		n, _ := v.Int()
		return n
	}
	return def
}

func (l *ParameterList) Float(i int, def float64) float64 {
	if v, ok := l.lookup(i, KindFloat); ok {
		f, _ := v.Float()
		return f
	}
	return def
}

func (l *ParameterList) String(i int, def string) string {
	if v, ok := l.lookup(i, KindString); ok {
		s, _ := v.Str()
		return s
	}
	return def
}

func (l *ParameterList) Color(i int, def Color) Color {
	if v, ok := l.lookup(i, KindColor); ok {
		c, _ := v.Color()
		return c
	}
	return def
}

func (l *ParameterList) Enum(i int, def EnumValue) EnumValue {
	if v, ok := l.lookup(i, KindEnum); ok {
		e, _ := v.Enum()
		if def.Type == "" || e.Type == def.Type {
			return e
		}
	}
	return def
}
