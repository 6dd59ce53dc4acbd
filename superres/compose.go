package superres

import (
	"fmt"
	"image"
)

// Compositor computes, for each upscaled tile, the crop rectangle that
// removes padding and redundant overlap, and the paste rectangle that
// places the cropped region into the output canvas.
//
// Edges that touch the source image boundary keep their pixels; interior
// edges lose half the scaled overlap so adjacent tiles meet without
// duplicated seams. Padding removal mirrors the Padder's centering exactly,
// including the off-by-one split when the margin is odd.
type Compositor struct {
	SrcWidth  int // source image width, pre-scale
	SrcHeight int // source image height, pre-scale
	Scale     int // integer upscale factor
	Overlap   int // tile overlap in source pixels
	InputW    int // model fixed input width
	InputH    int // model fixed input height

	// DrawUncroppedOnDegenerate restores the legacy behavior of pasting
	// the entire uncropped tile output when the crop collapses, trading a
	// possible visible misalignment for never leaving a hole. Off by
	// default: a degenerate crop drops the tile, whose region is already
	// covered by its boundary-reaching neighbor.
	DrawUncroppedOnDegenerate bool
}

// Place draws one upscaled tile into the canvas. tileRect is the tile's
// original (pre-pad) rectangle in source coordinates. Returns
// ErrDegenerateCrop when the crop collapses and the tile was dropped as
// redundant.
func (c *Compositor) Place(out *image.RGBA, tileRect image.Rectangle, canvas *Canvas) error {
	ob := out.Bounds()
	outW, outH := ob.Dx(), ob.Dy()

	x0, y0 := tileRect.Min.X, tileRect.Min.Y
	tw, th := tileRect.Dx(), tileRect.Dy()

	// Interior edges give up half the scaled overlap; true image edges
	// keep everything.
	half := (c.Overlap * c.Scale) / 2
	insetLeft, insetTop, insetRight, insetBottom := 0, 0, 0, 0
	if x0 > 0 {
		insetLeft = half
	}
	if y0 > 0 {
		insetTop = half
	}
	if x0+tw < c.SrcWidth {
		insetRight = half
	}
	if y0+th < c.SrcHeight {
		insetBottom = half
	}

	// Undo the Padder's centering, scaled. The floor/remainder split must
	// match Pad's, so the odd pixel lands on the same side.
	padLeft := (c.InputW - tw) / 2 * c.Scale
	padRight := (c.InputW-tw)*c.Scale - padLeft
	padTop := (c.InputH - th) / 2 * c.Scale
	padBottom := (c.InputH-th)*c.Scale - padTop

	// Built as a literal: image.Rect would swap an inverted pair and turn
	// a degenerate crop into a plausible-looking rectangle.
	crop := image.Rectangle{
		Min: image.Pt(insetLeft+padLeft, insetTop+padTop),
		Max: image.Pt(outW-insetRight-padRight, outH-insetBottom-padBottom),
	}.Intersect(ob.Sub(ob.Min))

	// Destination, bottom-left origin: x grows right from the canvas left
	// edge, y grows up from the canvas bottom edge.
	dstX := x0*c.Scale + insetLeft
	dstY := c.SrcHeight*c.Scale - (y0+th)*c.Scale + insetBottom

	if crop.Empty() {
		if c.DrawUncroppedOnDegenerate {
			canvas.Draw(out, ob.Sub(ob.Min), dstX, dstY)
			return nil
		}
		return fmt.Errorf("%w: tile at %v, output %dx%d", ErrDegenerateCrop, tileRect.Min, outW, outH)
	}

	canvas.Draw(out, crop.Add(ob.Min), dstX, dstY)
	return nil
}
