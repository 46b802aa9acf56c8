package willowtheme

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// EnumRegistry maps enum type names used by <enum type="..."> to their
// allowed values. A registry is safe for concurrent use.
type EnumRegistry struct {
	mu    sync.RWMutex
	types map[string][]string
}

// NewEnumRegistry returns an empty registry.
func NewEnumRegistry() *EnumRegistry {
	return &EnumRegistry{types: make(map[string][]string)}
}

// DefaultEnumRegistry returns a registry holding the "alignment" and
// "direction" types used by the standard widgets.
func DefaultEnumRegistry() *EnumRegistry {
	r := NewEnumRegistry()
	r.mustRegister("alignment", "LEFT", "CENTER", "RIGHT", "TOP", "BOTTOM",
		"TOPLEFT", "TOPRIGHT", "BOTTOMLEFT", "BOTTOMRIGHT", "FILL")
	r.mustRegister("direction", "TOP", "LEFT", "BOTTOM", "RIGHT")
	return r
}

func (r *EnumRegistry) mustRegister(name string, values ...string) {
	if err := r.Register(name, values...); err != nil {
		panic(err)
	}
}

// Register adds an enum type. Values are matched case-insensitively and
// their ordinal is their position. Registering a name again with the same
// values is a no-op; with different values it is an error.
func (r *EnumRegistry) Register(name string, values ...string) error {
	if name == "" || len(values) == 0 {
		return fmt.Errorf("willowtheme: enum %q needs a name and at least one value", name)
	}
	upper := make([]string, len(values))
	for i, v := range values {
		upper[i] = strings.ToUpper(v)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.types[name]; ok {
		if slices.Equal(cur, upper) {
			return nil
		}
		return fmt.Errorf("willowtheme: enum type name %q is already in use by %v", name, cur)
	}
	r.types[name] = upper
	return nil
}

// Has reports whether name is registered.
func (r *EnumRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[name]
	return ok
}

// Parse resolves text to a value of the enum type.
func (r *EnumRegistry) Parse(typ, text string) (EnumValue, error) {
	r.mu.RLock()
	values, ok := r.types[typ]
	r.mu.RUnlock()
	if !ok {
		return EnumValue{}, fmt.Errorf("enum type %q not registered", typ)
	}
	name := strings.ToUpper(strings.TrimSpace(text))
	idx := slices.Index(values, name)
	if idx < 0 {
		return EnumValue{}, fmt.Errorf("unknown %s value %q%s", typ, text, suggestion(name, slices.Clone(values)))
	}
	return EnumValue{Type: typ, Name: name, Ordinal: idx}, nil
}
