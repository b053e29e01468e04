package cubelut

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultSize is the grid size written when none is configured.
	DefaultSize = 33
	// MinSize is the smallest grid: one sample at 0 and one at 255.
	MinSize = 2
	// MaxSize samples every table index once.
	MaxSize = 256

	// Generator is written on the first header line.
	Generator = "lutextract"
)

// CubeOptions controls the .cube output.
type CubeOptions struct {
	// Size is the number of samples per channel, also written as LUT_3D_SIZE.
	Size  int
	Title string
}

// Validate checks the options before any output is produced.
func (o CubeOptions) Validate() error {
	if o.Size < MinSize || o.Size > MaxSize {
		return fmt.Errorf("%w: size %d, must be within %d..%d", ErrInvalidConfiguration, o.Size, MinSize, MaxSize)
	}
	// the title is written inside double quotes on a single header line
	if strings.ContainsAny(o.Title, "\"\r\n") {
		return fmt.Errorf("%w: title %q must not contain quotes or line breaks", ErrInvalidConfiguration, o.Title)
	}
	return nil
}

// SampleGrid returns the table indices sampled per channel: steps values spread
// evenly over 0..255, starting at 0 and ending at 255.
func SampleGrid(steps int) ([]uint8, error) {
	if steps < MinSize || steps > MaxSize {
		return nil, fmt.Errorf("%w: %d steps per channel, must be within %d..%d", ErrInvalidConfiguration, steps, MinSize, MaxSize)
	}
	grid := make([]uint8, steps)
	for i := range grid {
		v := math.Round(255 * float64(i) / float64(steps-1))
		grid[i] = uint8(max(0, min(255, v)))
	}
	return grid, nil
}

// WriteCube writes t as a .cube LUT, resampled to opts.Size points per
// channel. Entries run with red varying fastest, then green, then blue.
func WriteCube(w io.Writer, t *Table, opts CubeOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	grid, err := SampleGrid(opts.Size)
	if err != nil {
		return err
	}

	// every sampled cell is checked before the first byte goes out
	outs, err := sampleOutputs(t, grid)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(w)

	fmt.Fprintf(writer, "#Created with: %s\n", Generator)
	fmt.Fprintf(writer, "TITLE \"%s\"\n\n", opts.Title)
	fmt.Fprintf(writer, "LUT_3D_SIZE %d\n\n", opts.Size)
	writer.WriteString("DOMAIN_MIN 0.0 0.0 0.0\n")
	writer.WriteString("DOMAIN_MAX 1.0 1.0 1.0\n\n")

	for _, out := range outs {
		fmt.Fprintf(writer, "%.6f %.6f %.6f\n",
			float64(out.R)/255, float64(out.G)/255, float64(out.B)/255)
	}

	return writer.Flush()
}

// sampleOutputs looks up every grid point in .cube order (red fastest).
func sampleOutputs(t *Table, grid []uint8) ([]RGB, error) {
	outs := make([]RGB, 0, len(grid)*len(grid)*len(grid))
	for _, b := range grid {
		for _, g := range grid {
			for _, r := range grid {
				out, ok := t.Lookup(RGB{R: r, G: g, B: b})
				if !ok {
					return nil, fmt.Errorf("%w: no output recorded for color (%d, %d, %d)", ErrMissingMapping, r, g, b)
				}
				outs = append(outs, out)
			}
		}
	}
	return outs, nil
}

// WriteCubeFile writes the LUT next to filename under a temporary name and
// renames it into place only once the whole LUT was written.
func WriteCubeFile(filename string, t *Table, opts CubeOptions) error {
	return writeFileAtomic(filename, func(w io.Writer) error {
		return WriteCube(w, t, opts)
	})
}

func writeFileAtomic(filename string, write func(w io.Writer) error) (err error) {
	file, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(file.Name())
		}
	}()

	if err = write(file); err != nil {
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}
	if err = os.Chmod(file.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(file.Name(), filename)
}
