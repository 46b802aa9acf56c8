package willowtheme

import (
	"runtime"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestParseKeyStroke(t *testing.T) {
	cmd := ModCtrl
	if runtime.GOOS == "darwin" {
		cmd = ModMeta
	}
	tests := []struct {
		in   string
		want KeyStroke
	}{
		{"S", KeyStroke{Key: ebiten.KeyS}},
		{"ctrl S", KeyStroke{Modifiers: ModCtrl, Key: ebiten.KeyS}},
		{"control shift z", KeyStroke{Modifiers: ModCtrl | ModShift, Key: ebiten.KeyZ}},
		{"alt meta F1", KeyStroke{Modifiers: ModAlt | ModMeta, Key: ebiten.KeyF1}},
		{"cmd C", KeyStroke{Modifiers: cmd, Key: ebiten.KeyC}},
		{"up", KeyStroke{Key: ebiten.KeyArrowUp}},
		{"ArrowDown", KeyStroke{Key: ebiten.KeyArrowDown}},
		{"esc", KeyStroke{Key: ebiten.KeyEscape}},
		{"7", KeyStroke{Key: ebiten.KeyDigit7}},
		{"type a", KeyStroke{Char: 'a'}},
		{"ctrl type +", KeyStroke{Modifiers: ModCtrl, Char: '+'}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKeyStroke(tt.in, "act")
			if err != nil {
				t.Fatal(err)
			}
			tt.want.Action = "act"
			if got != tt.want {
				t.Errorf("ParseKeyStroke(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseKeyStroke_Errors(t *testing.T) {
	for _, in := range []string{"", "ctrl", "hyper S", "nokey", "type", "type ab", "type a b", "S T"} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseKeyStroke(in, "act"); err == nil {
				t.Errorf("expected error for %q", in)
			}
		})
	}
}

func TestKeyStroke_String(t *testing.T) {
	tests := []struct {
		ks   KeyStroke
		want string
	}{
		{KeyStroke{Modifiers: ModCtrl | ModShift, Key: ebiten.KeyS}, "shift ctrl S"},
		{KeyStroke{Char: 'x'}, "type x"},
		{KeyStroke{Key: ebiten.KeyF1}, "F1"},
	}
	for _, tt := range tests {
		if got := tt.ks.String(); got != tt.want {
			t.Errorf("String = %q, want %q", got, tt.want)
		}
	}
}

func mustStroke(t *testing.T, s, action string) KeyStroke {
	t.Helper()
	ks, err := ParseKeyStroke(s, action)
	if err != nil {
		t.Fatal(err)
	}
	return ks
}

func TestInputMap_AddKeyStrokes(t *testing.T) {
	base := EmptyInputMap().AddKeyStrokes(
		mustStroke(t, "ctrl S", "save"),
		mustStroke(t, "F1", "help"),
		mustStroke(t, "type ?", "help"),
	)
	derived := base.AddKeyStrokes(mustStroke(t, "ctrl S", "store"), mustStroke(t, "ctrl Q", "quit"))

	if a, _ := base.Action(ModCtrl, ebiten.KeyS); a != "save" {
		t.Errorf("base ctrl S = %q, want save", a)
	}
	if a, _ := derived.Action(ModCtrl, ebiten.KeyS); a != "store" {
		t.Errorf("derived ctrl S = %q, want store", a)
	}
	if a, ok := derived.Action(0, ebiten.KeyF1); !ok || a != "help" {
		t.Errorf("derived F1 = %q, %v", a, ok)
	}
	if _, ok := derived.Action(0, ebiten.KeyS); ok {
		t.Error("plain S should not match ctrl S")
	}
	if a, ok := derived.TypedAction(0, '?'); !ok || a != "help" {
		t.Errorf("typed ? = %q, %v", a, ok)
	}

	strokes := derived.KeyStrokes()
	want := []string{"store", "quit", "help", "help"}
	if len(strokes) != len(want) {
		t.Fatalf("got %d strokes, want %d", len(strokes), len(want))
	}
	for i, ks := range strokes {
		if ks.Action != want[i] {
			t.Errorf("stroke %d action = %q, want %q", i, ks.Action, want[i])
		}
	}
	if base.AddKeyStrokes() != base {
		t.Error("adding nothing should return the same map")
	}
}

func TestInputMap_KeyStrokesIsCopy(t *testing.T) {
	m := EmptyInputMap().AddKeyStrokes(mustStroke(t, "A", "a"))
	m.KeyStrokes()[0].Action = "changed"
	if a, _ := m.Action(0, ebiten.KeyA); a != "a" {
		t.Error("KeyStrokes exposed internal storage")
	}
}
