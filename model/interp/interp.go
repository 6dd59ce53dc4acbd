// Package interp provides a pure-Go interpolation backend implementing the
// model contract. It needs no external runtime, which makes it the default
// when no neural model is configured, and a convenient stand-in for tests.
package interp

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/cocosip/go-superres/model"
)

var _ model.Model = (*Model)(nil)

// Model upscales by a fixed integer factor using resampling interpolation.
type Model struct {
	inputW int
	inputH int
	scale  int
	kernel xdraw.Interpolator
	name   string
}

// New creates an interpolation model with the given fixed input size and
// integer scale, using Catmull-Rom resampling.
func New(inputW, inputH, scale int) (*Model, error) {
	return NewWithKernel(inputW, inputH, scale, xdraw.CatmullRom, "interp-catmullrom")
}

// NewWithKernel creates an interpolation model with an explicit kernel.
func NewWithKernel(inputW, inputH, scale int, kernel xdraw.Interpolator, name string) (*Model, error) {
	if inputW <= 0 || inputH <= 0 {
		return nil, fmt.Errorf("%w: input size %dx%d", model.ErrModelLoad, inputW, inputH)
	}
	if scale < 1 {
		return nil, fmt.Errorf("%w: scale %d", model.ErrModelLoad, scale)
	}
	return &Model{inputW: inputW, inputH: inputH, scale: scale, kernel: kernel, name: name}, nil
}

// Name returns the backend name
func (m *Model) Name() string {
	return m.name
}

// InputSize returns the fixed input dimensions
func (m *Model) InputSize() (int, int) {
	return m.inputW, m.inputH
}

// Scale returns the fixed integer upscale factor.
func (m *Model) Scale() int {
	return m.scale
}

// Predict resamples the input up by the fixed factor. The result is
// returned as a ready-made pixel buffer rather than float planes.
func (m *Model) Predict(input *model.Tensor) (*model.Prediction, error) {
	if input.Channels != 3 || input.Width != m.inputW || input.Height != m.inputH {
		return nil, fmt.Errorf("%w: got %dx%dx%d, want 3x%dx%d",
			model.ErrInvalidInput, input.Channels, input.Height, input.Width, m.inputH, m.inputW)
	}

	src, err := model.TensorToImage(input)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, m.inputW*m.scale, m.inputH*m.scale))
	m.kernel.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	return &model.Prediction{Pixels: dst}, nil
}
