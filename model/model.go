// Package model defines the contract between the super-resolution pipeline
// and the neural inference backends that implement it.
package model

import "image"

// Model is the universal interface for all inference backends.
//
// A loaded model is immutable and safe for concurrent read-only use; the
// pipeline shares one handle across runs.
type Model interface {
	// Name returns a human-readable backend name
	Name() string

	// InputSize returns the fixed input width and height the model requires
	InputSize() (w, h int)

	// Predict runs one inference on a fully-sized input tensor
	Predict(input *Tensor) (*Prediction, error)
}

// Prediction is the result of one inference call. Exactly one of the two
// fields is set: Planes for backends that emit a raw channel-height-width
// float tensor, Pixels for backends that emit a ready-made pixel buffer.
type Prediction struct {
	Planes *Tensor
	Pixels *image.RGBA
}

// Valid reports whether the prediction carries exactly one output form.
func (p *Prediction) Valid() bool {
	if p == nil {
		return false
	}
	return (p.Planes != nil) != (p.Pixels != nil)
}
