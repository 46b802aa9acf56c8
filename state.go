package willowtheme

import (
	"fmt"
	"strings"
)

// StateKey names an animation state flag or time source, for example
// "hover" or "pressed".
type StateKey string

// AnimationState is the snapshot of named boolean flags and timers that
// conditional images, fonts and animations are evaluated against.
type AnimationState interface {
	// State reports whether the flag is set.
	State(key StateKey) bool
	// Time returns the milliseconds since the flag last changed.
	Time(key StateKey) int
	// ShouldAnimate reports whether animations driven by key should run.
	ShouldAnimate(key StateKey) bool
}

// MapAnimationState is a plain AnimationState backed by maps. Keys absent
// from Animate are treated as animating.
type MapAnimationState struct {
	Flags   map[StateKey]bool
	Times   map[StateKey]int
	Animate map[StateKey]bool
}

func (s *MapAnimationState) State(key StateKey) bool {
	return s != nil && s.Flags[key]
}

func (s *MapAnimationState) Time(key StateKey) int {
	if s == nil {
		return 0
	}
	return s.Times[key]
}

func (s *MapAnimationState) ShouldAnimate(key StateKey) bool {
	if s == nil || s.Animate == nil {
		return true
	}
	animate, ok := s.Animate[key]
	return !ok || animate
}

// StateExpression is a boolean formula over animation state flags.
type StateExpression interface {
	Evaluate(as AnimationState) bool
	String() string
}

type stateCheck struct {
	key StateKey
}

func (e stateCheck) Evaluate(as AnimationState) bool {
	return as != nil && as.State(e.key)
}

func (e stateCheck) String() string { return string(e.key) }

type stateNot struct {
	expr StateExpression
}

func (e stateNot) Evaluate(as AnimationState) bool { return !e.expr.Evaluate(as) }

func (e stateNot) String() string { return "!" + wrapExpr(e.expr) }

type stateLogic struct {
	op       byte // '+' and, '|' or, '^' xor
	children []StateExpression
}

func (e stateLogic) Evaluate(as AnimationState) bool {
	switch e.op {
	case '+':
		for _, c := range e.children {
			if !c.Evaluate(as) {
				return false
			}
		}
		return true
	case '|':
		for _, c := range e.children {
			if c.Evaluate(as) {
				return true
			}
		}
		return false
	default:
		result := false
		for _, c := range e.children {
			result = result != c.Evaluate(as)
		}
		return result
	}
}

func (e stateLogic) String() string {
	parts := make([]string, len(e.children))
	for i, c := range e.children {
		parts[i] = wrapExpr(c)
	}
	return strings.Join(parts, string(e.op))
}

func wrapExpr(e StateExpression) string {
	if _, ok := e.(stateLogic); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// andExpr combines two optional expressions with AND.
func andExpr(a, b StateExpression) StateExpression {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return stateLogic{op: '+', children: []StateExpression{a, b}}
}

// ParseStateExpression parses a condition such as "hover+!disabled".
// Operators, from tightest to loosest: ! (not), + or & (and), ^ (xor),
// | (or). Parentheses group. With negate set the result is inverted,
// which is how unless="..." is represented.
func ParseStateExpression(src string, negate bool) (StateExpression, error) {
	p := &stateParser{src: src}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	if negate {
		expr = stateNot{expr}
	}
	return expr, nil
}

type stateParser struct {
	src string
	pos int
}

func (p *stateParser) errorf(format string, args ...any) error {
	return fmt.Errorf("state expression %q at %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *stateParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *stateParser) peek() byte {
	p.skipSpace()
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *stateParser) parseOr() (StateExpression, error) {
	return p.parseBinary('|', p.parseXor)
}

func (p *stateParser) parseXor() (StateExpression, error) {
	return p.parseBinary('^', p.parseAnd)
}

func (p *stateParser) parseAnd() (StateExpression, error) {
	return p.parseBinary('+', p.parseUnary)
}

func (p *stateParser) parseBinary(op byte, operand func() (StateExpression, error)) (StateExpression, error) {
	first, err := operand()
	if err != nil {
		return nil, err
	}
	children := []StateExpression{first}
	for {
		c := p.peek()
		if c != op && !(op == '+' && c == '&') {
			break
		}
		p.pos++
		next, err := operand()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return first, nil
	}
	return stateLogic{op: op, children: children}, nil
}

func (p *stateParser) parseUnary() (StateExpression, error) {
	switch c := p.peek(); {
	case c == '!':
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return stateNot{inner}, nil
	case c == '(':
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, p.errorf("missing ')'")
		}
		p.pos++
		return inner, nil
	case isStateNameChar(c):
		start := p.pos
		for p.pos < len(p.src) && isStateNameChar(p.src[p.pos]) {
			p.pos++
		}
		return stateCheck{StateKey(p.src[start:p.pos])}, nil
	case c == 0:
		return nil, p.errorf("unexpected end of expression")
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

func isStateNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}
