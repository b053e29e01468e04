package cubelut

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTemplate(t *testing.T) {
	img := GenerateTemplate()
	assert.Equal(t, image.Rect(0, 0, 4096, 4096), img.Bounds())

	for y := 0; y < TemplateSize; y++ {
		for x := 0; x < TemplateSize; x++ {
			want, err := Decode(x, y)
			if err != nil {
				t.Fatal(err)
			}
			c := img.NRGBAAt(x, y)
			if got := (RGB{c.R, c.G, c.B}); got != want || c.A != 0xff {
				t.Fatalf("pixel (%d, %d): expected %v opaque, got %v alpha %d", x, y, want, got, c.A)
			}
		}
	}
}
