package superres

import (
	"fmt"
	"image"
	"image/draw"
)

// Pad centers a tile onto a transparent-black canvas of exactly
// targetW x targetH, the model's fixed input size. Offsets use floor
// division, so an odd margin leaves the extra pixel on the right/bottom.
func Pad(tile *image.RGBA, targetW, targetH int) (*image.RGBA, error) {
	b := tile.Bounds()
	w, h := b.Dx(), b.Dy()
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("%w: target %dx%d", ErrPadding, targetW, targetH)
	}
	if w > targetW || h > targetH {
		return nil, fmt.Errorf("%w: tile %dx%d exceeds target %dx%d", ErrPadding, w, h, targetW, targetH)
	}

	offsetX := (targetW - w) / 2
	offsetY := (targetH - h) / 2

	canvas := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	dst := image.Rect(offsetX, offsetY, offsetX+w, offsetY+h)
	draw.Draw(canvas, dst, tile, b.Min, draw.Src)
	return canvas, nil
}
