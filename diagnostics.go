package willowtheme

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"
)

// DiagnosticKind classifies a recoverable problem found while loading or
// querying a theme.
type DiagnosticKind uint8

const (
	MissingParameter           DiagnosticKind = iota // typed lookup of an absent key
	WrongParameterType                               // key present with another kind
	ReplacingWithDifferentType                       // Put changed the kind of a key
	MissingTheme                                     // FindThemeInfo failed
	MissingChildTheme                                // ChildTheme failed
	UsingFallbackTheme                               // top-level "*" theme used
	MissingImage                                     // Image lookup failed
	ParseWarning                                     // suspicious but loadable input
)

var diagnosticKindNames = [...]string{
	MissingParameter:           "missing parameter",
	WrongParameterType:         "wrong parameter type",
	ReplacingWithDifferentType: "replacing with different type",
	MissingTheme:               "missing theme",
	MissingChildTheme:          "missing child theme",
	UsingFallbackTheme:         "using fallback theme",
	MissingImage:               "missing image",
	ParseWarning:               "warning",
}

func (k DiagnosticKind) String() string {
	if int(k) < len(diagnosticKindNames) {
		return diagnosticKindNames[k]
	}
	return fmt.Sprintf("DiagnosticKind(%d)", k)
}

// Diagnostic is a single recoverable problem. Position is zero when the
// problem was found after loading.
type Diagnostic struct {
	Kind     DiagnosticKind
	Message  string
	Position Position
}

func (d Diagnostic) String() string {
	if d.Position.Source != "" {
		return fmt.Sprintf("%s: %s: %s", d.Position, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// DiagnosticFunc receives recoverable diagnostics.
type DiagnosticFunc func(Diagnostic)

// LogDiagnostics is the default sink. It writes each diagnostic to the
// standard logger.
func LogDiagnostics(d Diagnostic) {
	log.Printf("willowtheme: %s", d)
}

// diagnostics wraps the sink supplied by the host. A nil *diagnostics falls
// back to LogDiagnostics so standalone maps and lists can report too.
type diagnostics struct {
	sink DiagnosticFunc

	mu       sync.Mutex
	reported map[string]struct{}
}

func newDiagnostics(sink DiagnosticFunc) *diagnostics {
	if sink == nil {
		sink = LogDiagnostics
	}
	return &diagnostics{sink: sink, reported: make(map[string]struct{})}
}

func (d *diagnostics) report(kind DiagnosticKind, pos Position, format string, args ...any) {
	diag := Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Position: pos}
	if d == nil {
		LogDiagnostics(diag)
		return
	}
	d.sink(diag)
}

func (d *diagnostics) warnf(kind DiagnosticKind, format string, args ...any) {
	d.report(kind, Position{}, format, args...)
}

// once reports only the first diagnostic for key. Used for lookups that a
// render loop repeats every frame.
func (d *diagnostics) once(key string, kind DiagnosticKind, format string, args ...any) {
	if d != nil {
		d.mu.Lock()
		_, seen := d.reported[key]
		if !seen {
			d.reported[key] = struct{}{}
		}
		d.mu.Unlock()
		if seen {
			return
		}
	}
	d.warnf(kind, format, args...)
}

// suggestion returns a " (did you mean ...?)" suffix naming the candidate
// closest to name, or "" when nothing is close enough.
func suggestion(name string, candidates []string) string {
	best, bestDist := "", -1
	sort.Strings(candidates)
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(name, c)
		if dist > suggestionLimit(len(c)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = c, dist
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}

func suggestionLimit(length int) int {
	switch {
	case length <= 3:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
