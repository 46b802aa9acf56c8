package willowtheme

import (
	"sort"
	"strconv"
	"strings"
)

// parseCondition reads the if or unless attribute. It returns nil when
// neither is present.
func parseCondition(p *xmlParser) (StateExpression, error) {
	ifExpr, hasIf := p.attr("if")
	unlessExpr, hasUnless := p.attr("unless")
	switch {
	case hasIf && hasUnless:
		return nil, p.errorf("'if' and 'unless' can't be used together")
	case hasIf:
		e, err := ParseStateExpression(ifExpr, false)
		if err != nil {
			return nil, p.wrap(err, "unable to parse condition")
		}
		return e, nil
	case hasUnless:
		e, err := ParseStateExpression(unlessExpr, true)
		if err != nil {
			return nil, p.wrap(err, "unable to parse condition")
		}
		return e, nil
	}
	return nil, nil
}

func checkNameNotEmpty(p *xmlParser, name string) error {
	switch {
	case name == "":
		return p.errorf("empty name not allowed")
	case name == "none":
		return p.errorf("can't use reserved name %q", name)
	case strings.ContainsAny(name, "*?"):
		return p.errorf("'*' and '?' are not allowed in names")
	}
	return nil
}

// parseIntArray parses a comma separated list of integers.
func parseIntArray(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func intArrayAttr(p *xmlParser, name string) ([]int, error) {
	v, err := p.attrNotNull(name)
	if err != nil {
		return nil, err
	}
	ints, err := parseIntArray(v)
	if err != nil {
		return nil, p.wrap(err, "unable to parse %s", name)
	}
	return ints, nil
}

// parseColorValue parses a color literal or the name of a color constant.
func parseColorValue(p *xmlParser, value string, constants *ParameterMap) (Color, error) {
	if c, ok := ParseColor(value); ok {
		return c, nil
	}
	if constants != nil {
		if v, ok := constants.Value(value, false); ok {
			if c, ok := v.Color(); ok {
				return c, nil
			}
		}
	}
	return Color{}, p.errorf("unknown color name: %s", value)
}

func colorAttr(p *xmlParser, name string, constants *ParameterMap) (Color, bool, error) {
	v, ok := p.attr(name)
	if !ok {
		return Color{}, false, nil
	}
	c, err := parseColorValue(p, v, constants)
	return c, err == nil, err
}

// borderAttr parses a border attribute: 1, 2 or 4 integers, or any math
// expression that yields a border.
func borderAttr(p *xmlParser, name string, mi *mathInterpreter) (optBorder, error) {
	v, ok := p.attr(name)
	if !ok {
		return optBorder{}, nil
	}
	if ints, err := parseIntArray(v); err == nil {
		b, err := NewBorder(ints...)
		if err != nil {
			return optBorder{}, p.wrap(err, "unable to parse %s", name)
		}
		return someBorder(b), nil
	}
	val, err := mi.evalObject(v, KindBorder)
	if err != nil {
		return optBorder{}, p.wrap(err, "unable to parse %s", name)
	}
	b, _ := val.Border()
	return someBorder(b), nil
}

// intExprAttr evaluates an integer math expression attribute.
func intExprAttr(p *xmlParser, name string, def int, mi *mathInterpreter) (int, error) {
	v, ok := p.attr(name)
	if !ok {
		return def, nil
	}
	n, err := mi.evalInt(v)
	if err != nil {
		return 0, p.wrap(err, "unable to evaluate %s", name)
	}
	return n, nil
}

// resolveWildcardMap expands a reference such as "button.*" against the
// named entries of src. Each match is stored under name plus the suffix
// after the wildcard, so with name "background" the entry "button.hover"
// becomes "background.hover".
func resolveWildcardMap[V any](src map[string]V, ref, name string, convert func(V) Value) map[string]Value {
	prefix := strings.TrimSuffix(ref, "*")
	if name != "" && !strings.HasSuffix(name, ".") {
		name += "."
	}
	keys := make([]string, 0)
	for k := range src {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make(map[string]Value, len(keys))
	for _, k := range keys {
		out[name+k[len(prefix):]] = convert(src[k])
	}
	return out
}

// splitPath splits a dotted theme path. Empty segments are kept so they
// fail lookup instead of being skipped.
func splitPath(path string) []string {
	return strings.Split(path, ".")
}
