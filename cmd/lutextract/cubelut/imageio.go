package cubelut

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// ImageFormat is a lossless raster encoding the template can round-trip through.
type ImageFormat int

const (
	// FormatPNG is written with fast deflate compression.
	FormatPNG ImageFormat = iota
	// FormatTIFF is written with deflate compression and a horizontal predictor.
	FormatTIFF
)

func (f ImageFormat) String() string {
	switch f {
	case FormatTIFF:
		return "tiff"
	default:
		return "png"
	}
}

// FormatFromPath picks the image format from the file extension.
func FormatFromPath(filename string) (ImageFormat, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return FormatPNG, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	}
	return 0, fmt.Errorf("%w: %q, use .png, .tif or .tiff", ErrUnsupportedFormat, filepath.Ext(filename))
}

// ReadImage decodes a png or tiff file.
func ReadImage(filename string) (image.Image, error) {
	format, err := FormatFromPath(filename)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := DecodeImage(file, format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	return img, nil
}

// DecodeImage decodes r in the given format.
func DecodeImage(r io.Reader, format ImageFormat) (image.Image, error) {
	if format == FormatTIFF {
		return tiff.Decode(r)
	}
	return png.Decode(r)
}

// EncodeImage encodes img in the given format. Both encodings are lossless.
func EncodeImage(w io.Writer, img image.Image, format ImageFormat) error {
	if format == FormatTIFF {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, img)
}

// WriteImage encodes img into filename, picking the format from the extension.
func WriteImage(filename string, img image.Image) error {
	format, err := FormatFromPath(filename)
	if err != nil {
		return err
	}
	return writeFileAtomic(filename, func(w io.Writer) error {
		return EncodeImage(w, img, format)
	})
}
