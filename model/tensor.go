package model

import "fmt"

// Tensor is a dense float32 tensor in channel-height-width plane order.
// The value for channel c at pixel (x, y) lives at Data[c*H*W + y*W + x].
type Tensor struct {
	Data     []float32
	Channels int
	Height   int
	Width    int
}

// NewTensor allocates a zero-filled CHW tensor.
func NewTensor(channels, height, width int) (*Tensor, error) {
	if channels <= 0 || height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: tensor shape %dx%dx%d", ErrInvalidInput, channels, height, width)
	}
	return &Tensor{
		Data:     make([]float32, channels*height*width),
		Channels: channels,
		Height:   height,
		Width:    width,
	}, nil
}

// At returns the value for channel c at pixel (x, y).
func (t *Tensor) At(c, x, y int) float32 {
	return t.Data[c*t.Height*t.Width+y*t.Width+x]
}

// Set stores the value for channel c at pixel (x, y).
func (t *Tensor) Set(c, x, y int, v float32) {
	t.Data[c*t.Height*t.Width+y*t.Width+x] = v
}

// Len returns the expected element count for the tensor's shape.
func (t *Tensor) Len() int {
	return t.Channels * t.Height * t.Width
}

// CheckShape verifies that the data slice matches the declared shape.
func (t *Tensor) CheckShape() error {
	if t.Channels <= 0 || t.Height <= 0 || t.Width <= 0 {
		return fmt.Errorf("%w: tensor shape %dx%dx%d", ErrBadOutputShape, t.Channels, t.Height, t.Width)
	}
	if len(t.Data) != t.Len() {
		return fmt.Errorf("%w: have %d elements, shape wants %d", ErrBadOutputShape, len(t.Data), t.Len())
	}
	return nil
}
