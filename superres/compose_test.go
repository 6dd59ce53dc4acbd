package superres

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

// gradientImage encodes each pixel's own coordinates into its channels so
// tests can tell exactly which source pixel landed where.
func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	return img
}

func TestPlaceInteriorEdgeInset(t *testing.T) {
	// Tile (4,4)-(12,12) in a 12x12 source: left and top edges are
	// interior, right and bottom touch the boundary. Scale 2, overlap 4,
	// no padding (tile size equals model input).
	comp := &Compositor{SrcWidth: 12, SrcHeight: 12, Scale: 2, Overlap: 4, InputW: 8, InputH: 8}
	canvas, err := NewCanvas(24, 24)
	require.NoError(t, err)

	out := solidImage(16, 16, color.RGBA{200, 0, 0, 255})
	require.NoError(t, comp.Place(out, image.Rect(4, 4, 12, 12), canvas))

	img := canvas.img
	// halfOverlap = 4*2/2 = 4 trimmed from left and top only.
	require.Equal(t, uint8(0), img.RGBAAt(11, 12).A, "left inset must stay empty")
	require.Equal(t, uint8(0), img.RGBAAt(12, 11).A, "top inset must stay empty")
	require.Equal(t, color.RGBA{200, 0, 0, 255}, img.RGBAAt(12, 12))
	require.Equal(t, color.RGBA{200, 0, 0, 255}, img.RGBAAt(23, 23), "boundary edges keep their pixels")
}

func TestPlaceWholeImageTileRemovesPadding(t *testing.T) {
	// A 4x4 source fits in one tile padded to 8x8; at scale 3 the crop
	// must recover exactly the 12x12 content region.
	comp := &Compositor{SrcWidth: 4, SrcHeight: 4, Scale: 3, Overlap: 2, InputW: 8, InputH: 8}
	canvas, err := NewCanvas(12, 12)
	require.NoError(t, err)

	out := solidImage(24, 24, color.RGBA{0, 150, 0, 255})
	require.NoError(t, comp.Place(out, image.Rect(0, 0, 4, 4), canvas))

	img := canvas.img
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			require.Equal(t, color.RGBA{0, 150, 0, 255}, img.RGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestPlaceOddPaddingSplit(t *testing.T) {
	// Tile 3 wide on an 8-wide model input: pad splits 2 left / 3 right,
	// scaled by 2 to 4 and 6. The crop must start where Pad put the
	// content, not at the symmetric midpoint.
	comp := &Compositor{SrcWidth: 3, SrcHeight: 3, Scale: 2, Overlap: 0, InputW: 8, InputH: 8}
	canvas, err := NewCanvas(6, 6)
	require.NoError(t, err)

	// Mark the scaled content region the way the real pipeline produces
	// it: source gradient, padded, then nearest-neighbor doubled.
	padded, err := Pad(gradientImage(3, 3), 8, 8)
	require.NoError(t, err)
	out := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			out.SetRGBA(x, y, padded.RGBAAt(x/2, y/2))
		}
	}

	require.NoError(t, comp.Place(out, image.Rect(0, 0, 3, 3), canvas))

	img := canvas.img
	require.Equal(t, color.RGBA{0, 0, 7, 255}, img.RGBAAt(0, 0))
	require.Equal(t, color.RGBA{2, 2, 7, 255}, img.RGBAAt(5, 5))
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			require.Equal(t, uint8(255), img.RGBAAt(x, y).A, "pixel (%d,%d) uncovered", x, y)
		}
	}
}

func TestPlaceVerticalFlip(t *testing.T) {
	// Two stacked half-height tiles; the first (top-of-image) tile must
	// land in the top rows of the canvas despite the bottom-left-origin
	// destination math.
	comp := &Compositor{SrcWidth: 8, SrcHeight: 8, Scale: 1, Overlap: 0, InputW: 8, InputH: 8}
	canvas, err := NewCanvas(8, 8)
	require.NoError(t, err)

	top := solidImage(8, 8, color.RGBA{10, 0, 0, 255})
	bottom := solidImage(8, 8, color.RGBA{0, 10, 0, 255})

	// Tiles are 8x4, centered by Pad at rows 2..6 of the 8x8 input.
	require.NoError(t, comp.Place(top, image.Rect(0, 0, 8, 4), canvas))
	require.NoError(t, comp.Place(bottom, image.Rect(0, 4, 8, 8), canvas))

	img := canvas.img
	require.Equal(t, color.RGBA{10, 0, 0, 255}, img.RGBAAt(4, 0))
	require.Equal(t, color.RGBA{10, 0, 0, 255}, img.RGBAAt(4, 3))
	require.Equal(t, color.RGBA{0, 10, 0, 255}, img.RGBAAt(4, 4))
	require.Equal(t, color.RGBA{0, 10, 0, 255}, img.RGBAAt(4, 7))
}

func TestPlaceDegenerateCropSkips(t *testing.T) {
	comp := &Compositor{SrcWidth: 100, SrcHeight: 100, Scale: 1, Overlap: 50, InputW: 4, InputH: 4}
	canvas, err := NewCanvas(100, 100)
	require.NoError(t, err)

	out := solidImage(4, 4, color.RGBA{255, 0, 0, 255})
	err = comp.Place(out, image.Rect(40, 40, 42, 42), canvas)
	require.ErrorIs(t, err, ErrDegenerateCrop)

	for i := 3; i < len(canvas.img.Pix); i += 4 {
		require.Equal(t, uint8(0), canvas.img.Pix[i], "degenerate crop must not draw")
	}
}

func TestPlaceDegenerateCropLegacyDrawsUncropped(t *testing.T) {
	comp := &Compositor{
		SrcWidth: 100, SrcHeight: 100, Scale: 1, Overlap: 50, InputW: 4, InputH: 4,
		DrawUncroppedOnDegenerate: true,
	}
	canvas, err := NewCanvas(100, 100)
	require.NoError(t, err)

	out := solidImage(4, 4, color.RGBA{255, 0, 0, 255})
	require.NoError(t, comp.Place(out, image.Rect(40, 40, 42, 42), canvas))

	// dstX = 40 + 25, dstY = 100 - 42 + 25 -> top-left (65, 13).
	require.Equal(t, color.RGBA{255, 0, 0, 255}, canvas.img.RGBAAt(65, 13))
	require.Equal(t, color.RGBA{255, 0, 0, 255}, canvas.img.RGBAAt(68, 16))
	require.Equal(t, uint8(0), canvas.img.RGBAAt(64, 13).A)
}

func TestCanvasFinalizeOnce(t *testing.T) {
	canvas, err := NewCanvas(4, 4)
	require.NoError(t, err)

	img, err := canvas.Finalize()
	require.NoError(t, err)
	require.NotNil(t, img)

	_, err = canvas.Finalize()
	require.Error(t, err)
}

func TestNewCanvasRejectsZeroExtent(t *testing.T) {
	_, err := NewCanvas(0, 10)
	require.Error(t, err)
	_, err = NewCanvas(10, -1)
	require.Error(t, err)
}
