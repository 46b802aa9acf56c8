package willowtheme

// Renderer is the drawing backend a theme is loaded into. The theme engine
// never rasterizes pixels itself; every texture, font and gradient is
// created through this interface. EbitenRenderer is the bundled
// implementation.
type Renderer interface {
	// LoadTexture loads an image file. path is slash-separated and relative
	// to the file system the theme was loaded from. format and filter are
	// passed through from the <images> element and may be empty.
	LoadTexture(path, format, filter string) (Texture, error)

	// LoadFont loads a font file. Font parameters are selected per
	// animation state by sel; params has one more entry than sel has
	// expressions, the last being the default.
	LoadFont(path string, sel *StateSelect, params []*FontParameter) (Font, error)

	// FontMapper returns the system font mapper, or nil when the backend
	// only supports font files.
	FontMapper() FontMapper

	// CreateGradient builds an image that renders g.
	CreateGradient(g *Gradient) (Image, error)

	CreateNewCacheContext() CacheContext
	SetActiveCacheContext(ctx CacheContext) error

	// PushGlobalTintColor multiplies every following draw by c until the
	// matching PopGlobalTintColor.
	PushGlobalTintColor(c Color)
	PopGlobalTintColor()
}

// Texture is a loaded image file from which areas and cursors are cut.
type Texture interface {
	Width() int
	Height() int

	// Image returns the area (x, y, w, h). A negative w or h flips the area
	// along that axis. tiled requests that stretched draws repeat the area
	// instead of scaling it.
	Image(x, y, w, h int, tint Color, tiled bool, rot Rotation) Image

	// CreateCursor returns a cursor for the area, or nil when the backend
	// cannot create custom cursors. imageRef, when not nil, is drawn as a
	// software cursor instead of the area.
	CreateCursor(x, y, w, h, hotSpotX, hotSpotY int, imageRef Image) MouseCursor

	// ThemeLoadingDone is called after the last area has been cut.
	ThemeLoadingDone()
}

// CacheContext owns the textures and fonts loaded for one theme.
type CacheContext interface {
	Destroy()
}
