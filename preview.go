package willowtheme

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Preview draws img stretched to w by h into a new offscreen image. The
// renderer's draw target is restored afterwards.
func (r *EbitenRenderer) Preview(img Image, w, h int, as AnimationState) *ebiten.Image {
	target := ebiten.NewImage(w, h)
	saved := r.target
	r.target = target
	img.Draw(as, 0, 0, w, h)
	r.target = saved
	return target
}

// WritePreviewPNG writes target as a straight-alpha PNG to path, creating
// the directory if needed. Pixels can only be read while the game loop
// runs, so call it from Update or Draw.
func WritePreviewPNG(path string, target *ebiten.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return writePNG(path, straightAlpha(target))
}

// straightAlpha converts the premultiplied pixels of src to NRGBA.
func straightAlpha(src *ebiten.Image) *image.NRGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	src.ReadPixels(pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// PreviewFileName turns an image or theme name into a file name, replacing
// characters that are unsafe in file names with underscores.
func PreviewFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unnamed.png"
	}
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	b.WriteString(".png")
	return b.String()
}
