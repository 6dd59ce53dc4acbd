package superres

import "errors"

var (
	// ErrCancelled is returned when the run is aborted through its cancel
	// token; it is a user action, not a failure
	ErrCancelled = errors.New("run cancelled")

	// ErrFirstTile is returned when inference on the first tile fails;
	// without it the scale factor is unknowable and no output canvas can
	// be sized
	ErrFirstTile = errors.New("first tile inference failed")

	// ErrPadding is returned when a tile cannot be centered onto the
	// model's fixed input canvas; recoverable per tile
	ErrPadding = errors.New("tile padding failed")

	// ErrDegenerateCrop is returned when a tile's crop rectangle collapses
	// to zero extent. Such tiles are redundant: the crop only collapses
	// when the content left after insets is empty, and then the
	// neighboring tile already spans to the image boundary, so dropping
	// the tile leaves no gap
	ErrDegenerateCrop = errors.New("degenerate tile crop")
)
