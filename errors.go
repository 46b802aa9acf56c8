package willowtheme

import (
	"fmt"
	"strings"
)

// Position identifies a location in a theme source file.
type Position struct {
	Source       string
	Line, Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Source, p.Line, p.Column)
}

// IncludeSite is an <include> element through which a failing file was
// reached.
type IncludeSite = Position

// ThemeError is returned when a theme cannot be loaded. It carries the
// position of the offending element and, when the element lives in an
// included file, the chain of includes that led to it (innermost first).
type ThemeError struct {
	Position
	Msg        string
	Err        error
	IncludedBy []IncludeSite
}

func (e *ThemeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "willowtheme: %s: %s", e.Position, e.Msg)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	for _, site := range e.IncludedBy {
		fmt.Fprintf(&b, "\n\tincluded by %s", site)
	}
	return b.String()
}

func (e *ThemeError) Unwrap() error { return e.Err }

func (e *ThemeError) addIncludedBy(site IncludeSite) {
	e.IncludedBy = append(e.IncludedBy, site)
}
