package cubelut

import (
	"fmt"
	"image"
	"image/color"
)

// Extract builds the color mapping by pairing every reference pixel with the
// corrected pixel at the same position. A reference color that occurs more
// than once keeps the last corrected color seen; colors that never occur stay
// unset.
func Extract(reference, corrected image.Image) (*Table, error) {
	rb, cb := reference.Bounds(), corrected.Bounds()
	if rb.Dx() != cb.Dx() || rb.Dy() != cb.Dy() {
		return nil, fmt.Errorf("%w: reference is %dx%d, corrected is %dx%d",
			ErrDimensionMismatch, rb.Dx(), rb.Dy(), cb.Dx(), cb.Dy())
	}

	table := NewTable()
	// column by column, so among repeated reference colors the bottom-most
	// pixel of the rightmost column wins
	for x := 0; x < rb.Dx(); x++ {
		for y := 0; y < rb.Dy(); y++ {
			in := pixelAt(reference, rb.Min.X+x, rb.Min.Y+y)
			out := pixelAt(corrected, cb.Min.X+x, cb.Min.Y+y)
			table.Set(in, out)
		}
	}
	return table, nil
}

// pixelAt reads the 8-bit color at (x, y), with direct access for the
// layouts the png and tiff decoders produce for 8-bit RGB data.
func pixelAt(img image.Image, x, y int) RGB {
	switch im := img.(type) {
	case *image.NRGBA:
		i := im.PixOffset(x, y)
		return RGB{R: im.Pix[i], G: im.Pix[i+1], B: im.Pix[i+2]}
	case *image.RGBA:
		i := im.PixOffset(x, y)
		if im.Pix[i+3] == 0xff {
			return RGB{R: im.Pix[i], G: im.Pix[i+1], B: im.Pix[i+2]}
		}
	}
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return RGB{R: c.R, G: c.G, B: c.B}
}
