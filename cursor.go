package willowtheme

import "github.com/hajimehoshi/ebiten/v2"

// MouseCursor is a cursor handle defined by a theme. Hosts that cannot show
// custom cursors fall back to Shape.
type MouseCursor interface {
	Shape() ebiten.CursorShapeType
}

// SystemCursor is one of the cursors provided by the operating system.
type SystemCursor ebiten.CursorShapeType

func (c SystemCursor) Shape() ebiten.CursorShapeType { return ebiten.CursorShapeType(c) }

// OSDefaultCursor is the built-in "os-default" cursor.
var OSDefaultCursor MouseCursor = SystemCursor(ebiten.CursorShapeDefault)

type inheritMarker struct{}

func (inheritMarker) Shape() ebiten.CursorShapeType { return ebiten.CursorShapeDefault }

// inheritCursor is stored for the built-in "inherit" cursor and handed out
// as nil, meaning the widget uses its parent's cursor.
var inheritCursor MouseCursor = inheritMarker{}

// builtinCursors are registered in every theme before any <images> element
// is parsed.
var builtinCursors = map[string]MouseCursor{
	"os-default":  OSDefaultCursor,
	"text":        SystemCursor(ebiten.CursorShapeText),
	"crosshair":   SystemCursor(ebiten.CursorShapeCrosshair),
	"pointer":     SystemCursor(ebiten.CursorShapePointer),
	"ew-resize":   SystemCursor(ebiten.CursorShapeEWResize),
	"ns-resize":   SystemCursor(ebiten.CursorShapeNSResize),
	"move":        SystemCursor(ebiten.CursorShapeMove),
	"not-allowed": SystemCursor(ebiten.CursorShapeNotAllowed),
}

func unwrapCursor(c MouseCursor) MouseCursor {
	if c == inheritCursor {
		return nil
	}
	return c
}
