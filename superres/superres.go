package superres

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/cocosip/go-superres/model"
)

// Default tiling parameters, clamped against the model's input extent at
// run time.
const (
	DefaultTileSize = 512
	DefaultOverlap  = 32
)

// Options configures one Upscaler.
type Options struct {
	// TileSize is the requested tile edge in source pixels; it never
	// exceeds the model's native input extent. 0 means DefaultTileSize.
	TileSize int

	// Overlap is the requested margin shared between adjacent tiles; it
	// never exceeds half the effective tile size. Negative values are
	// treated as 0.
	Overlap int

	// DrawUncroppedOnDegenerate passes through to the Compositor.
	DrawUncroppedOnDegenerate bool
}

// Result is the outcome of a completed run.
type Result struct {
	// Image is the output raster. When the source produced no tiles, or
	// the canvas could not be finalized, this is the original input.
	Image *image.RGBA

	// Scale is the integer factor discovered from the first tile.
	Scale int

	TotalTiles   int
	SkippedTiles int
}

// Upscaler drives the full pipeline: tiling, scale-factor discovery from
// the first tile, and the sequential per-tile inference and compositing
// loop. One Upscaler may serve many runs; the model handle is shared
// read-only.
type Upscaler struct {
	Model   model.Model
	Options Options

	// Logger receives per-tile diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// New creates an Upscaler for the given model.
func New(m model.Model, opts Options) *Upscaler {
	return &Upscaler{Model: m, Options: opts}
}

func (u *Upscaler) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}

// effectiveTiling clamps the requested tile size and overlap against the
// model's fixed input extent.
func (u *Upscaler) effectiveTiling(inW, inH int) (tileSize, overlap int) {
	tileSize = u.Options.TileSize
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	tileSize = min(tileSize, max(inW, inH))

	overlap = max(u.Options.Overlap, 0)
	overlap = min(overlap, tileSize/2)
	return tileSize, overlap
}

// Upscale runs the pipeline synchronously. The token is polled before the
// run and before each tile; progress (when non-nil) is called with
// completedTiles/totalTiles after each tile. Per-tile failures are logged
// and skipped; only first-tile failure and cancellation abort the run.
func (u *Upscaler) Upscale(img *image.RGBA, token *CancelToken, progress func(float64)) (*Result, error) {
	log := u.logger()

	if token.Cancelled() {
		return nil, ErrCancelled
	}

	inW, inH := u.Model.InputSize()
	tileSize, overlap := u.effectiveTiling(inW, inH)

	tiles := SplitIntoTiles(img, tileSize, overlap)
	if len(tiles) == 0 {
		// Zero-extent source: nothing to do, hand the input back.
		return &Result{Image: img}, nil
	}

	adapter := Adapter{Model: u.Model}

	firstOut, err := u.runTile(adapter, tiles[0], inW, inH)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFirstTile, err)
	}

	scale := discoverScale(firstOut.Bounds().Dx(), inW, log)

	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	canvas, err := NewCanvas(srcW*scale, srcH*scale)
	if err != nil {
		return nil, fmt.Errorf("%w: allocate output canvas: %v", ErrFirstTile, err)
	}

	comp := &Compositor{
		SrcWidth:                  srcW,
		SrcHeight:                 srcH,
		Scale:                     scale,
		Overlap:                   overlap,
		InputW:                    inW,
		InputH:                    inH,
		DrawUncroppedOnDegenerate: u.Options.DrawUncroppedOnDegenerate,
	}

	total := len(tiles)
	skipped := 0
	for i, tile := range tiles {
		if token.Cancelled() {
			return nil, ErrCancelled
		}

		out := firstOut
		if i > 0 {
			out, err = u.runTile(adapter, tile, inW, inH)
			if err != nil {
				skipped++
				log.Warn("tile skipped", "tile", i, "rect", tile.Rect, "error", err)
				reportProgress(progress, i+1, total)
				continue
			}
		}

		if err := comp.Place(out, tile.Rect, canvas); err != nil {
			if errors.Is(err, ErrDegenerateCrop) {
				// A collapsed crop means the tile's content is narrower
				// than the interior inset, which can only happen when the
				// neighboring tile already reaches the image boundary.
				// The region is covered; nothing was lost.
				log.Debug("redundant edge tile trimmed away", "tile", i, "rect", tile.Rect)
			} else {
				skipped++
				log.Warn("tile not placed", "tile", i, "rect", tile.Rect, "error", err)
			}
		}
		reportProgress(progress, i+1, total)
	}

	final, err := canvas.Finalize()
	if err != nil {
		log.Warn("canvas finalization failed, returning original image", "error", err)
		return &Result{Image: img, Scale: scale, TotalTiles: total, SkippedTiles: skipped}, nil
	}
	return &Result{Image: final, Scale: scale, TotalTiles: total, SkippedTiles: skipped}, nil
}

// runTile pads one tile to the model input size and runs inference.
// The padded buffer and tensors are transient; nothing outlives the call
// except the upscaled raster.
func (u *Upscaler) runTile(adapter Adapter, tile Tile, inW, inH int) (*image.RGBA, error) {
	padded, err := Pad(tile.Pixels, inW, inH)
	if err != nil {
		return nil, err
	}
	return adapter.Apply(padded)
}

// discoverScale derives the integer scale factor from the first tile's
// output width. A non-integer true ratio is rounded once here and the
// approximation applies to every later coordinate computation, so drift
// is logged rather than hidden.
func discoverScale(outW, inW int, log *slog.Logger) int {
	ratio := float64(outW) / float64(inW)
	scale := int(math.Round(ratio))
	if scale < 1 {
		scale = 1
	}
	if math.Abs(ratio-float64(scale)) > 1e-3 {
		log.Warn("model scale is not an integer; coordinates are approximated",
			"ratio", ratio, "using", scale)
	}
	return scale
}

func reportProgress(progress func(float64), done, total int) {
	if progress != nil {
		progress(float64(done) / float64(total))
	}
}
