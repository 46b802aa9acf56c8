package willowtheme

import (
	"fmt"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt key
	ModMeta                           // Meta/Command key
)

// KeyStroke binds a key combination to an action name. A stroke matches
// either a physical key (Key) or a typed character (Char, when not 0).
type KeyStroke struct {
	Modifiers KeyModifiers
	Key       ebiten.Key
	Char      rune
	Action    string
}

var keyNames = func() map[string]ebiten.Key {
	m := make(map[string]ebiten.Key)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		m[strings.ToLower(k.String())] = k
	}
	for i := 0; i <= 9; i++ {
		m[fmt.Sprint(i)] = ebiten.KeyDigit0 + ebiten.Key(i)
	}
	aliases := map[string]ebiten.Key{
		"up":        ebiten.KeyArrowUp,
		"down":      ebiten.KeyArrowDown,
		"left":      ebiten.KeyArrowLeft,
		"right":     ebiten.KeyArrowRight,
		"return":    ebiten.KeyEnter,
		"esc":       ebiten.KeyEscape,
		"del":       ebiten.KeyDelete,
		"back":      ebiten.KeyBackspace,
		"pageup":    ebiten.KeyPageUp,
		"pagedown":  ebiten.KeyPageDown,
		"space":     ebiten.KeySpace,
		"insert":    ebiten.KeyInsert,
		"backspace": ebiten.KeyBackspace,
	}
	for name, k := range aliases {
		m[name] = k
	}
	return m
}()

// ParseKeyStroke parses strokes such as "ctrl shift Z", "F1" or "type a".
// Modifier names are shift, ctrl, alt, meta and cmd, where cmd is meta on
// macOS and ctrl elsewhere.
func ParseKeyStroke(s, action string) (KeyStroke, error) {
	ks := KeyStroke{Action: action}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ks, fmt.Errorf("empty key stroke")
	}
	for i, f := range fields {
		last := i == len(fields)-1
		switch strings.ToLower(f) {
		case "shift":
			ks.Modifiers |= ModShift
			continue
		case "ctrl", "control":
			ks.Modifiers |= ModCtrl
			continue
		case "alt":
			ks.Modifiers |= ModAlt
			continue
		case "meta":
			ks.Modifiers |= ModMeta
			continue
		case "cmd":
			if runtime.GOOS == "darwin" {
				ks.Modifiers |= ModMeta
			} else {
				ks.Modifiers |= ModCtrl
			}
			continue
		case "type":
			if i != len(fields)-2 {
				return ks, fmt.Errorf("'type' must be followed by a single character in %q", s)
			}
			r, size := utf8.DecodeRuneInString(fields[i+1])
			if size != len(fields[i+1]) {
				return ks, fmt.Errorf("'type' must be followed by a single character in %q", s)
			}
			ks.Char = r
			return ks, nil
		}
		if !last {
			return ks, fmt.Errorf("unknown modifier %q in %q", f, s)
		}
		k, ok := keyNames[strings.ToLower(f)]
		if !ok {
			return ks, fmt.Errorf("unknown key %q", f)
		}
		ks.Key = k
		return ks, nil
	}
	return ks, fmt.Errorf("key stroke %q has no key", s)
}

// sameInput reports whether both strokes are triggered by the same input.
func (ks KeyStroke) sameInput(o KeyStroke) bool {
	if ks.Modifiers != o.Modifiers || ks.Char != o.Char {
		return false
	}
	return ks.Char != 0 || ks.Key == o.Key
}

// EbitenKey returns the physical key of the stroke. It reports false for
// typed-character strokes.
func (ks KeyStroke) EbitenKey() (ebiten.Key, bool) {
	return ks.Key, ks.Char == 0
}

func (ks KeyStroke) String() string {
	var b strings.Builder
	for _, m := range []struct {
		mod  KeyModifiers
		name string
	}{{ModShift, "shift"}, {ModCtrl, "ctrl"}, {ModAlt, "alt"}, {ModMeta, "meta"}} {
		if ks.Modifiers&m.mod != 0 {
			b.WriteString(m.name)
			b.WriteByte(' ')
		}
	}
	if ks.Char != 0 {
		b.WriteString("type ")
		b.WriteRune(ks.Char)
	} else {
		b.WriteString(ks.Key.String())
	}
	return b.String()
}

// InputMap is an ordered, immutable set of key strokes. Lookups return the
// first matching stroke.
type InputMap struct {
	strokes []KeyStroke
}

// EmptyInputMap returns a map without strokes.
func EmptyInputMap() *InputMap {
	return &InputMap{}
}

// AddKeyStrokes returns a new map with strokes placed before the existing
// ones. Existing strokes for the same input are dropped.
func (m *InputMap) AddKeyStrokes(strokes ...KeyStroke) *InputMap {
	if len(strokes) == 0 {
		return m
	}
	combined := make([]KeyStroke, 0, len(strokes)+len(m.strokes))
	combined = append(combined, strokes...)
outer:
	for _, old := range m.strokes {
		for _, ks := range strokes {
			if ks.sameInput(old) {
				continue outer
			}
		}
		combined = append(combined, old)
	}
	return &InputMap{strokes: combined}
}

// KeyStrokes returns a copy of the strokes in lookup order.
func (m *InputMap) KeyStrokes() []KeyStroke {
	return append([]KeyStroke(nil), m.strokes...)
}

// Action returns the action bound to a physical key.
func (m *InputMap) Action(mods KeyModifiers, key ebiten.Key) (string, bool) {
	for _, ks := range m.strokes {
		if ks.Char == 0 && ks.Key == key && ks.Modifiers == mods {
			return ks.Action, true
		}
	}
	return "", false
}

// TypedAction returns the action bound to a typed character.
func (m *InputMap) TypedAction(mods KeyModifiers, ch rune) (string, bool) {
	for _, ks := range m.strokes {
		if ks.Char == ch && ks.Modifiers == mods {
			return ks.Action, true
		}
	}
	return "", false
}

// Poll reads the keyboard and returns the actions triggered this tick.
// It must be called from ebiten's Update.
func (m *InputMap) Poll() []string {
	mods := readModifiers()
	var actions []string
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if a, ok := m.Action(mods, k); ok {
			actions = append(actions, a)
		}
	}
	for _, ch := range ebiten.AppendInputChars(nil) {
		if a, ok := m.TypedAction(mods&^ModShift, ch); ok {
			actions = append(actions, a)
		}
	}
	return actions
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// parseInputMapBody reads <action name="...">stroke</action> children up to
// the enclosing end tag. Duplicate strokes are reported and the later one
// wins.
func parseInputMapBody(p *xmlParser) ([]KeyStroke, error) {
	var strokes []KeyStroke
	for !p.isEndTag() {
		if err := p.require(xmlStartTag, "action"); err != nil {
			return nil, err
		}
		name, err := p.attrNotNull("name")
		if err != nil {
			return nil, err
		}
		text, err := p.nextText()
		if err != nil {
			return nil, err
		}
		ks, err := ParseKeyStroke(text, name)
		if err != nil {
			return nil, p.wrap(err, "can't parse key stroke")
		}
		for i, old := range strokes {
			if old.sameInput(ks) {
				p.warnf("duplicate key stroke %q", ks)
				strokes = append(strokes[:i], strokes[i+1:]...)
				break
			}
		}
		strokes = append(strokes, ks)
		if err := p.require(xmlEndTag, "action"); err != nil {
			return nil, err
		}
		if err := p.nextTag(); err != nil {
			return nil, err
		}
	}
	return strokes, nil
}
