// Package superres performs single-image super-resolution by splitting the
// source into overlapping fixed-size tiles, running each tile through an
// inference model, and reassembling the upscaled tiles into one canvas with
// the overlap regions trimmed away.
package superres

import (
	"image"
	"image/draw"
)

// minTileStep bounds the grid step from below so the tiler always makes
// forward progress, even when the requested overlap reaches or exceeds the
// tile size.
const minTileStep = 32

// Tile is one grid cell of the source image: its position in source
// coordinates and a private copy of its pixels. Edge tiles are smaller than
// interior tiles; no padding happens at this stage.
type Tile struct {
	Rect   image.Rectangle
	Pixels *image.RGBA
}

// SplitIntoTiles splits the source raster into overlapping tiles of at most
// tileSize pixels per side, in row-major order. The result is empty only
// when the source has zero extent in either axis.
func SplitIntoTiles(img *image.RGBA, tileSize, overlap int) []Tile {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	step := tileSize - overlap
	if step < minTileStep {
		step = minTileStep
	}

	var tiles []Tile
	for y := 0; y < h; y += step {
		th := min(tileSize, h-y)
		for x := 0; x < w; x += step {
			tw := min(tileSize, w-x)
			rect := image.Rect(x, y, x+tw, y+th)
			pixels := image.NewRGBA(image.Rect(0, 0, tw, th))
			draw.Draw(pixels, pixels.Bounds(), img, b.Min.Add(rect.Min), draw.Src)
			tiles = append(tiles, Tile{Rect: rect, Pixels: pixels})
		}
	}
	return tiles
}
