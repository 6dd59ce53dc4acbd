package model

import "errors"

var (
	// ErrModelNotFound is returned when a model is not found in the registry
	ErrModelNotFound = errors.New("model not found")

	// ErrModelLoad is returned when a model artifact cannot be located,
	// compiled or loaded; fatal before any run starts
	ErrModelLoad = errors.New("model load failed")

	// ErrInvalidInput is returned when a prediction input does not match
	// the model's declared fixed input size or pixel format
	ErrInvalidInput = errors.New("invalid model input")

	// ErrBadOutputShape is returned when a prediction output is not a
	// 3-channel plane stack or a pixel buffer
	ErrBadOutputShape = errors.New("unexpected model output shape")
)
