package superres

import (
	"fmt"
	"image"

	"github.com/cocosip/go-superres/model"
)

// Adapter wraps one inference model. It converts a padded tile image to the
// model's tensor input, invokes prediction, and normalizes either output
// form (float plane stack or ready-made pixel buffer) back into a raster.
type Adapter struct {
	Model model.Model
}

// Apply runs one padded tile through the model. Every failure here is a
// per-tile failure; the caller skips the tile rather than aborting the run.
func (a Adapter) Apply(padded *image.RGBA) (*image.RGBA, error) {
	in, err := model.ImageToTensor(padded)
	if err != nil {
		return nil, fmt.Errorf("tensorize input: %w", err)
	}

	pred, err := a.Model.Predict(in)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if !pred.Valid() {
		return nil, fmt.Errorf("%w: prediction carries neither planes nor pixels", model.ErrBadOutputShape)
	}

	if pred.Pixels != nil {
		return pred.Pixels, nil
	}
	out, err := model.TensorToImage(pred.Planes)
	if err != nil {
		return nil, fmt.Errorf("render output: %w", err)
	}
	return out, nil
}
