// Package imageio loads source rasters into the pipeline's 8-bit RGBA
// representation and encodes results back to disk.
package imageio

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Load reads an image file into an RGBA raster. PNG, JPEG, GIF, TIFF and
// BMP go through the imaging decoder with EXIF auto-orientation; .dcm files
// take the DICOM path.
func Load(path string) (*image.RGBA, error) {
	if strings.EqualFold(filepath.Ext(path), ".dcm") {
		return LoadDICOM(path)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return ToRGBA(img), nil
}

// Save encodes img to path, choosing the format by extension: .jpg/.jpeg
// for JPEG, anything else PNG.
func Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 95}); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
	default:
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
	}
	return nil
}

// ToRGBA converts any image to the pipeline's RGBA representation,
// copying only when the underlying type differs.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
