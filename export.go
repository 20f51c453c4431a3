package balloon

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// ExportPNG renders the current scene once into an offscreen target at an
// integer multiple of the given base size and writes the pixels as a PNG
// file. The live view is untouched: the export renders off-band and the
// offscreen image is released afterward.
//
// Must be called from within the game loop (Update or Draw); reading pixels
// requires a live graphics context.
func (st *Stage) ExportPNG(path string, baseW, baseH, scale int) error {
	if baseW <= 0 || baseH <= 0 || scale < 1 {
		return fmt.Errorf("export png: invalid size %dx%d x%d", baseW, baseH, scale)
	}

	target := ebiten.NewImage(baseW*scale, baseH*scale)
	defer target.Deallocate()
	st.Draw(target)

	w := baseW * scale
	h := baseH * scale
	pixels := make([]byte, 4*w*h)
	target.ReadPixels(pixels)

	// Convert premultiplied RGBA to straight-alpha NRGBA.
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

	return writePNG(path, img)
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
