package willowtheme

import (
	"fmt"
	"strconv"
	"strings"
)

// mathEnv resolves the identifiers of a math expression.
type mathEnv interface {
	// variable looks up a bare name. Dotted names are passed whole first;
	// when that fails the interpreter retries shorter prefixes and applies
	// the rest as field accesses.
	variable(name string) (any, bool)
}

// mathInterpreter evaluates the small expression language used in
// attribute values: integer and float literals, + - * /, unary minus,
// parentheses, min/max/abs, identifiers and field access. Evaluation has
// no side effects.
type mathInterpreter struct {
	env mathEnv
}

// evalNumber evaluates src to an int or float64.
func (mi *mathInterpreter) evalNumber(src string) (any, error) {
	v, err := mi.eval(src)
	if err != nil {
		return nil, err
	}
	switch v.(type) {
	case int, float64:
		return v, nil
	}
	return nil, fmt.Errorf("%q is not a number (%T)", src, v)
}

func (mi *mathInterpreter) evalInt(src string) (int, error) {
	v, err := mi.evalNumber(src)
	if err != nil {
		return 0, err
	}
	if f, ok := v.(float64); ok {
		return int(f), nil
	}
	return v.(int), nil
}

func (mi *mathInterpreter) evalFloat(src string) (float64, error) {
	v, err := mi.evalNumber(src)
	if err != nil {
		return 0, err
	}
	if n, ok := v.(int); ok {
		return float64(n), nil
	}
	return v.(float64), nil
}

// eval evaluates a single expression to any value.
func (mi *mathInterpreter) eval(src string) (any, error) {
	vals, err := mi.evalList(src)
	if err != nil {
		return nil, err
	}
	if len(vals) != 1 {
		return nil, fmt.Errorf("expected a single value in %q", src)
	}
	return vals[0], nil
}

// evalList evaluates a comma separated list of expressions.
func (mi *mathInterpreter) evalList(src string) ([]any, error) {
	p := &mathParser{src: src, env: mi.env}
	var out []any
	for {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if p.peek() != ',' {
			break
		}
		p.pos++
	}
	if p.peek() != 0 {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	return out, nil
}

// evalObject evaluates src to a Border, Dimension or Gap. The list form
// ("1,2") builds a new object; a single expression may also yield an
// existing object of the requested kind, such as "button.border".
func (mi *mathInterpreter) evalObject(src string, kind Kind) (Value, error) {
	vals, err := mi.evalList(src)
	if err != nil {
		return Value{}, err
	}
	if len(vals) == 1 {
		switch v := vals[0].(type) {
		case Border:
			if kind == KindBorder {
				return BorderValue(v), nil
			}
		case Dimension:
			if kind == KindDimension {
				return DimensionValue(v), nil
			}
		case Gap:
			if kind == KindGap {
				return GapValue(v), nil
			}
		}
	}
	ints := make([]int, len(vals))
	for i, v := range vals {
		switch n := v.(type) {
		case int:
			ints[i] = n
		case float64:
			ints[i] = int(n)
		default:
			return Value{}, fmt.Errorf("can't build %s from %T", kind, v)
		}
	}
	switch kind {
	case KindBorder:
		b, err := NewBorder(ints...)
		return BorderValue(b), err
	case KindDimension:
		d, err := NewDimension(ints...)
		return DimensionValue(d), err
	case KindGap:
		g, err := NewGap(ints...)
		return GapValue(g), err
	}
	return Value{}, fmt.Errorf("can't build %s", kind)
}

type mathParser struct {
	src string
	pos int
	env mathEnv
}

func (p *mathParser) errorf(format string, args ...any) error {
	return fmt.Errorf("expression %q at %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *mathParser) peek() byte {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *mathParser) parseExpr() (any, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if left, err = arith(op, left, right); err != nil {
			return nil, p.errorf("%v", err)
		}
	}
}

func (p *mathParser) parseTerm() (any, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if left, err = arith(op, left, right); err != nil {
			return nil, p.errorf("%v", err)
		}
	}
}

func (p *mathParser) parseUnary() (any, error) {
	if p.peek() == '-' {
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		switch n := v.(type) {
		case int:
			return -n, nil
		case float64:
			return -n, nil
		}
		return nil, p.errorf("can't negate %T", v)
	}
	return p.parsePrimary()
}

func (p *mathParser) parsePrimary() (any, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, p.errorf("missing ')'")
		}
		p.pos++
		return v, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case isIdentStart(c):
		return p.parseIdent()
	case c == 0:
		return nil, p.errorf("unexpected end of expression")
	}
	return nil, p.errorf("unexpected %q", c)
}

func (p *mathParser) parseNumber() (any, error) {
	start := p.pos
	isFloat := false
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
		} else if c < '0' || c > '9' {
			break
		}
		p.pos++
	}
	text := p.src[start:p.pos]
	if p.pos < len(p.src) && (p.src[p.pos] == 'f' || p.src[p.pos] == 'F') {
		p.pos++
		isFloat = true
	}
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errorf("bad number %q", text)
		}
		return f, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, p.errorf("bad number %q", text)
	}
	return n, nil
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

func (p *mathParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// parseIdent handles function calls and dotted variable paths.
func (p *mathParser) parseIdent() (any, error) {
	first := p.ident()
	if p.peek() == '(' {
		p.pos++
		var args []any
		if p.peek() != ')' {
			for {
				v, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, v)
				if p.peek() != ',' {
					break
				}
				p.pos++
			}
		}
		if p.peek() != ')' {
			return nil, p.errorf("missing ')' after arguments of %s", first)
		}
		p.pos++
		v, err := callFunction(first, args)
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		return v, nil
	}
	path := []string{first}
	for p.pos < len(p.src) && p.src[p.pos] == '.' {
		p.pos++
		if p.pos >= len(p.src) || !isIdentStart(p.src[p.pos]) {
			return nil, p.errorf("expected field name after '.'")
		}
		path = append(path, p.ident())
	}
	for n := len(path); n > 0; n-- {
		v, ok := p.env.variable(strings.Join(path[:n], "."))
		if !ok {
			continue
		}
		for _, field := range path[n:] {
			var err error
			if v, err = accessField(v, field); err != nil {
				return nil, p.errorf("%v", err)
			}
		}
		return v, nil
	}
	return nil, p.errorf("variable not found: %s", strings.Join(path, "."))
}

// accessField implements obj.field for the values the interpreter sees.
func accessField(obj any, field string) (any, error) {
	switch o := obj.(type) {
	case *ThemeInfo:
		if child := o.theme(field); child != nil {
			return child, nil
		}
		if v, ok := o.Value(field, false); ok {
			return unwrapValue(v), nil
		}
	case *ParameterMap:
		if v, ok := o.Value(field, false); ok {
			return unwrapValue(v), nil
		}
	case Image:
		if field == "border" {
			b, _ := imageBorder(o)
			return b, nil
		}
		switch field {
		case "width":
			return o.Width(), nil
		case "height":
			return o.Height(), nil
		}
	case Font:
		switch field {
		case "lineHeight":
			return o.LineHeight(), nil
		case "baseLine":
			return o.BaseLine(), nil
		case "spaceWidth":
			return o.SpaceWidth(), nil
		}
	case Border:
		switch field {
		case "top":
			return o.Top, nil
		case "left":
			return o.Left, nil
		case "bottom":
			return o.Bottom, nil
		case "right":
			return o.Right, nil
		}
	case Dimension:
		switch field {
		case "x":
			return o.X, nil
		case "y":
			return o.Y, nil
		}
	case Gap:
		switch field {
		case "min":
			return o.Min, nil
		case "preferred":
			return o.Preferred, nil
		case "max":
			return o.Max, nil
		}
	}
	return nil, fmt.Errorf("field not found: %s", field)
}

// unwrapValue converts a parameter Value to the interpreter's
// representation.
func unwrapValue(v Value) any {
	if v.IsNull() {
		return nil
	}
	return v.v
}

func arith(op byte, a, b any) (any, error) {
	ai, aInt := a.(int)
	bi, bInt := b.(int)
	if aInt && bInt {
		switch op {
		case '+':
			return ai + bi, nil
		case '-':
			return ai - bi, nil
		case '*':
			return ai * bi, nil
		default:
			if bi == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return ai / bi, nil
		}
	}
	af, ok1 := toFloat(a)
	bf, ok2 := toFloat(b)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("can't apply %q to %T and %T", op, a, b)
	}
	switch op {
	case '+':
		return af + bf, nil
	case '-':
		return af - bf, nil
	case '*':
		return af * bf, nil
	default:
		return af / bf, nil
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func callFunction(name string, args []any) (any, error) {
	switch name {
	case "min", "max":
		if len(args) == 0 {
			return nil, fmt.Errorf("%s needs at least one argument", name)
		}
		best := args[0]
		for _, a := range args[1:] {
			x, ok1 := toFloat(best)
			y, ok2 := toFloat(a)
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("%s: arguments must be numbers", name)
			}
			if (name == "min" && y < x) || (name == "max" && y > x) {
				best = a
			}
		}
		if _, ok := toFloat(best); !ok {
			return nil, fmt.Errorf("%s: arguments must be numbers", name)
		}
		return best, nil
	case "abs":
		if len(args) != 1 {
			return nil, fmt.Errorf("abs needs one argument")
		}
		switch n := args[0].(type) {
		case int:
			return max(n, -n), nil
		case float64:
			if n < 0 {
				return -n, nil
			}
			return n, nil
		}
		return nil, fmt.Errorf("abs: argument must be a number")
	}
	return nil, fmt.Errorf("unknown function %s", name)
}
