package willowtheme

// StateSelect picks one of several candidates by evaluating guard
// expressions in declaration order. Candidates are indexed 0..N, where N
// (the number of expressions) is the default slot used when no guard
// matches.
type StateSelect struct {
	exprs []StateExpression
}

// NewStateSelect returns a select over exprs.
func NewStateSelect(exprs ...StateExpression) *StateSelect {
	return &StateSelect{exprs: exprs}
}

// NumExpressions returns the number of guards.
func (s *StateSelect) NumExpressions() int {
	if s == nil {
		return 0
	}
	return len(s.exprs)
}

// Expression returns guard i.
func (s *StateSelect) Expression(i int) StateExpression {
	return s.exprs[i]
}

// Evaluate returns the index of the first guard that holds for as, or
// NumExpressions when none does. When several guards hold the earliest
// wins.
func (s *StateSelect) Evaluate(as AnimationState) int {
	if s == nil {
		return 0
	}
	for i, e := range s.exprs {
		if e.Evaluate(as) {
			return i
		}
	}
	return len(s.exprs)
}
