package cubelut

import (
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/lucasb-eyer/go-colorful"
)

// Sample is one grid point of the resampled LUT.
type Sample struct {
	InR  uint8 `csv:"in_r"`
	InG  uint8 `csv:"in_g"`
	InB  uint8 `csv:"in_b"`
	OutR uint8 `csv:"out_r"`
	OutG uint8 `csv:"out_g"`
	OutB uint8 `csv:"out_b"`
	// DeltaE is the CIEDE2000 distance between input and output.
	DeltaE float64 `csv:"delta_e"`
}

// Stats summarizes how far the LUT moves colors on its sample grid.
type Stats struct {
	Samples   int
	MeanDelta float64
	MaxDelta  float64
	// Worst is the sample with the largest DeltaE.
	Worst Sample
}

func toColorful(c RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Samples lists the grid points of t in .cube order (red fastest).
func Samples(t *Table, steps int) ([]Sample, error) {
	grid, err := SampleGrid(steps)
	if err != nil {
		return nil, err
	}
	samples := make([]Sample, 0, steps*steps*steps)
	for _, b := range grid {
		for _, g := range grid {
			for _, r := range grid {
				in := RGB{R: r, G: g, B: b}
				out, ok := t.Lookup(in)
				if !ok {
					return nil, fmt.Errorf("%w: no output recorded for color (%d, %d, %d)", ErrMissingMapping, r, g, b)
				}
				samples = append(samples, Sample{
					InR: in.R, InG: in.G, InB: in.B,
					OutR: out.R, OutG: out.G, OutB: out.B,
					DeltaE: toColorful(in).DistanceCIEDE2000(toColorful(out)),
				})
			}
		}
	}
	return samples, nil
}

// Measure computes DeltaE statistics of t over a steps^3 grid.
func Measure(t *Table, steps int) (Stats, error) {
	samples, err := Samples(t, steps)
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	sum := 0.0
	for i, s := range samples {
		sum += s.DeltaE
		if i == 0 || s.DeltaE > stats.MaxDelta {
			stats.MaxDelta = s.DeltaE
			stats.Worst = s
		}
	}
	stats.Samples = len(samples)
	stats.MeanDelta = sum / float64(len(samples))
	return stats, nil
}

// WriteSamplesCSV writes samples as CSV with a header row.
func WriteSamplesCSV(filename string, samples []Sample) error {
	b, err := csvutil.Marshal(samples)
	if err != nil {
		return fmt.Errorf("marshal samples: %w", err)
	}
	return writeFileAtomic(filename, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
}
