package imageio

import (
	"fmt"
	"image"

	"github.com/cocosip/go-dicom/pkg/dicom/element"
	"github.com/cocosip/go-dicom/pkg/dicom/parser"
	"github.com/cocosip/go-dicom/pkg/dicom/tag"
)

// LoadDICOM reads the first frame of an uncompressed DICOM file as an RGBA
// raster. Supported layouts: 8-bit grayscale, 8-bit interleaved RGB, and
// 16-bit grayscale (normalized down to 8 bits over the frame's value
// range). Encapsulated transfer syntaxes are rejected.
func LoadDICOM(path string) (*image.RGBA, error) {
	result, err := parser.ParseFile(path,
		parser.WithReadOption(parser.ReadAll),
		parser.WithLargeObjectSize(100*1024*1024),
	)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	ds := result.Dataset
	if result.TransferSyntax.IsEncapsulated() {
		return nil, fmt.Errorf("%s: compressed DICOM is not supported, transcode to a native transfer syntax first", path)
	}

	rows := int(ds.TryGetUInt16(tag.Rows, 0))
	cols := int(ds.TryGetUInt16(tag.Columns, 0))
	samples := int(ds.TryGetUInt16(tag.SamplesPerPixel, 1))
	bits := int(ds.TryGetUInt16(tag.BitsAllocated, 8))
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%s: image has zero extent (%dx%d)", path, cols, rows)
	}

	pd, ok := ds.Get(tag.PixelData)
	if !ok {
		return nil, fmt.Errorf("%s: no pixel data", path)
	}

	var pixels []byte
	switch v := pd.(type) {
	case *element.OtherByte:
		pixels = v.GetData()
	case *element.OtherWord:
		pixels = v.GetData()
	default:
		return nil, fmt.Errorf("%s: unexpected pixel data type %T", path, pd)
	}

	switch {
	case samples == 3 && bits == 8:
		return rgbFrame(pixels, cols, rows)
	case samples == 1 && bits == 8:
		return grayFrame(pixels, cols, rows)
	case samples == 1 && bits == 16:
		return gray16Frame(pixels, cols, rows)
	default:
		return nil, fmt.Errorf("%s: unsupported layout (%d samples, %d bits)", path, samples, bits)
	}
}

func rgbFrame(data []byte, w, h int) (*image.RGBA, error) {
	need := w * h * 3
	if len(data) < need {
		return nil, fmt.Errorf("short pixel data: have %d bytes, want %d", len(data), need)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		img.Pix[i*4+0] = data[i*3+0]
		img.Pix[i*4+1] = data[i*3+1]
		img.Pix[i*4+2] = data[i*3+2]
		img.Pix[i*4+3] = 0xff
	}
	return img, nil
}

func grayFrame(data []byte, w, h int) (*image.RGBA, error) {
	need := w * h
	if len(data) < need {
		return nil, fmt.Errorf("short pixel data: have %d bytes, want %d", len(data), need)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < need; i++ {
		v := data[i]
		img.Pix[i*4+0] = v
		img.Pix[i*4+1] = v
		img.Pix[i*4+2] = v
		img.Pix[i*4+3] = 0xff
	}
	return img, nil
}

// gray16Frame maps a little-endian 16-bit frame onto 8 bits by stretching
// the frame's observed value range.
func gray16Frame(data []byte, w, h int) (*image.RGBA, error) {
	need := w * h * 2
	if len(data) < need {
		return nil, fmt.Errorf("short pixel data: have %d bytes, want %d", len(data), need)
	}

	lo, hi := uint16(0xffff), uint16(0)
	for i := 0; i < w*h; i++ {
		v := uint16(data[i*2]) | uint16(data[i*2+1])<<8
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := int(hi) - int(lo)
	if span == 0 {
		span = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		v := uint16(data[i*2]) | uint16(data[i*2+1])<<8
		g := uint8((int(v-lo)*255 + span/2) / span)
		img.Pix[i*4+0] = g
		img.Pix[i*4+1] = g
		img.Pix[i*4+2] = g
		img.Pix[i*4+3] = 0xff
	}
	return img, nil
}
