package cubelut

import (
	"image"
)

// GenerateTemplate builds the 4096x4096 reference raster holding every 8-bit
// color exactly once, at the position given by Encode.
func GenerateTemplate() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, TemplateSize, TemplateSize))
	for r := 0; r < 256; r++ {
		for g := 0; g < 256; g++ {
			for b := 0; b < 256; b++ {
				x, y := Encode(uint8(r), uint8(g), uint8(b))
				i := img.PixOffset(x, y)
				img.Pix[i+0] = uint8(r)
				img.Pix[i+1] = uint8(g)
				img.Pix[i+2] = uint8(b)
				img.Pix[i+3] = 0xff
			}
		}
	}
	return img
}
