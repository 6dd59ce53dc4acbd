package model

import (
	"fmt"
	"image"
)

// FakeModel is a deterministic in-memory Model implementation for testing.
// It upscales its input by an integer factor using nearest-neighbor
// replication, so solid-color inputs stay solid and output geometry is
// exactly predictable.
type FakeModel struct {
	InputW int
	InputH int
	Scale  int

	// PixelOutput makes Predict return a ready-made pixel buffer instead
	// of a float plane stack.
	PixelOutput bool

	// FailCalls injects a per-call failure: if FailCalls[n] is set, the
	// n-th Predict call (0-based) returns an error.
	FailCalls map[int]bool

	calls int
}

// NewFakeModel creates a FakeModel with the given fixed input size and
// integer upscale factor.
func NewFakeModel(inputW, inputH, scale int) *FakeModel {
	return &FakeModel{InputW: inputW, InputH: inputH, Scale: scale}
}

// Name returns the backend name
func (f *FakeModel) Name() string {
	return "fake"
}

// InputSize returns the fixed input dimensions
func (f *FakeModel) InputSize() (int, int) {
	return f.InputW, f.InputH
}

// Calls returns how many times Predict has been invoked.
func (f *FakeModel) Calls() int {
	return f.calls
}

// Predict upscales the input tensor by nearest-neighbor replication.
func (f *FakeModel) Predict(input *Tensor) (*Prediction, error) {
	call := f.calls
	f.calls++

	if f.FailCalls[call] {
		return nil, fmt.Errorf("injected failure on call %d", call)
	}
	if input.Width != f.InputW || input.Height != f.InputH || input.Channels != 3 {
		return nil, fmt.Errorf("%w: got %dx%dx%d, want 3x%dx%d",
			ErrInvalidInput, input.Channels, input.Height, input.Width, f.InputH, f.InputW)
	}

	outW := f.InputW * f.Scale
	outH := f.InputH * f.Scale
	out, err := NewTensor(3, outH, outW)
	if err != nil {
		return nil, err
	}
	for c := 0; c < 3; c++ {
		for y := 0; y < outH; y++ {
			for x := 0; x < outW; x++ {
				out.Set(c, x, y, input.At(c, x/f.Scale, y/f.Scale))
			}
		}
	}

	if !f.PixelOutput {
		return &Prediction{Planes: out}, nil
	}

	img := image.NewRGBA(image.Rect(0, 0, outW, outH))
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			o := img.PixOffset(x, y)
			img.Pix[o+0] = clampByte(out.At(0, x, y))
			img.Pix[o+1] = clampByte(out.At(1, x, y))
			img.Pix[o+2] = clampByte(out.At(2, x, y))
			img.Pix[o+3] = 0xff
		}
	}
	return &Prediction{Pixels: img}, nil
}
