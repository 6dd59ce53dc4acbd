package model

import (
	"fmt"
	"image"
)

// ImageToTensor converts an RGBA raster to a 3-channel CHW float tensor
// with values in [0, 1]. Alpha is dropped; models see RGB only.
func ImageToTensor(img *image.RGBA) (*Tensor, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	t, err := NewTensor(3, h, w)
	if err != nil {
		return nil, err
	}
	size := h * w
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			idx := y*w + x
			t.Data[0*size+idx] = float32(img.Pix[o+0]) / 255.0
			t.Data[1*size+idx] = float32(img.Pix[o+1]) / 255.0
			t.Data[2*size+idx] = float32(img.Pix[o+2]) / 255.0
		}
	}
	return t, nil
}

// TensorToImage renders a 3-channel CHW float tensor as an opaque RGBA
// raster. Channel values are read at plane offsets c*h*w + y*w + x, scaled
// from [0, 1] to [0, 255] with clamping.
func TensorToImage(t *Tensor) (*image.RGBA, error) {
	if t.Channels != 3 {
		return nil, fmt.Errorf("%w: %d channels, want 3", ErrBadOutputShape, t.Channels)
	}
	if err := t.CheckShape(); err != nil {
		return nil, err
	}
	w, h := t.Width, t.Height
	size := h * w
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			o := img.PixOffset(x, y)
			img.Pix[o+0] = clampByte(t.Data[0*size+idx])
			img.Pix[o+1] = clampByte(t.Data[1*size+idx])
			img.Pix[o+2] = clampByte(t.Data[2*size+idx])
			img.Pix[o+3] = 0xff
		}
	}
	return img, nil
}

func clampByte(v float32) uint8 {
	s := v * 255.0
	if s < 0 {
		return 0
	}
	if s > 255 {
		return 255
	}
	return uint8(s + 0.5)
}
