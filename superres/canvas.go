package superres

import (
	"fmt"
	"image"
	"image/draw"
)

// Canvas is the mutable output raster a run composites into. Its drawing
// API uses a bottom-left origin, matching standard 2D canvas conventions;
// tile bookkeeping stays top-left, and the flip between the two happens in
// exactly one place (Draw). The canvas is owned exclusively by the
// orchestrator/compositor pair and is written sequentially.
type Canvas struct {
	img    *image.RGBA
	width  int
	height int
}

// NewCanvas allocates a canvas of the given size.
func NewCanvas(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas size %dx%d", width, height)
	}
	return &Canvas{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
	}, nil
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (w, h int) {
	return c.width, c.height
}

// Draw copies srcRect from src into the canvas. (dstX, dstY) is the
// bottom-left corner of the destination, measured up from the canvas
// bottom edge. The destination is clipped to the canvas.
func (c *Canvas) Draw(src *image.RGBA, srcRect image.Rectangle, dstX, dstY int) {
	w := srcRect.Dx()
	h := srcRect.Dy()
	topY := c.height - dstY - h
	dst := image.Rect(dstX, topY, dstX+w, topY+h)
	draw.Draw(c.img, dst, src, srcRect.Min, draw.Src)
}

// Finalize converts the canvas into the run's output image. The canvas
// must not be drawn into afterwards.
func (c *Canvas) Finalize() (*image.RGBA, error) {
	if c.img == nil {
		return nil, fmt.Errorf("canvas already finalized")
	}
	img := c.img
	c.img = nil
	return img, nil
}
