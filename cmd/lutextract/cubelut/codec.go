package cubelut

import (
	"fmt"
)

const (
	// TileSize is the side of one r-tile: 16×16 pixels hold all 256 values of r.
	TileSize = 16
	// TemplateSize is the side of the square template raster.
	TemplateSize = 256 * TileSize
)

// RGB is an 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// Encode returns the template pixel that holds the color (r, g, b).
// The low 4 bits of r pick the column inside a tile, the high 4 bits the row,
// g picks the tile column and b the tile row.
func Encode(r, g, b uint8) (x, y int) {
	x = int(r)%TileSize + TileSize*int(g)
	y = int(r)/TileSize + TileSize*int(b)
	return x, y
}

// Decode is the inverse of Encode.
func Decode(x, y int) (RGB, error) {
	if x < 0 || x >= TemplateSize || y < 0 || y >= TemplateSize {
		return RGB{}, fmt.Errorf("coordinate (%d, %d) outside %dx%d template", x, y, TemplateSize, TemplateSize)
	}
	rLow := x % TileSize
	rHigh := y % TileSize
	return RGB{
		R: uint8(TileSize*rHigh + rLow),
		G: uint8(x / TileSize),
		B: uint8(y / TileSize),
	}, nil
}
