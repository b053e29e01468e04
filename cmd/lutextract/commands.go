package main

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lutkit/cmd/lutextract/cubelut"
)

var (
	rootCmd = &cobra.Command{
		Use:   "lutextract",
		Short: "Derive a .cube 3D LUT from a color template and its corrected copy",
		Long: `lutextract writes a template image holding every 8-bit color once.
Run the template through any color process (film emulation, grading) and
feed the result back to build a .cube LUT of that process.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	templateCmd = &cobra.Command{
		Use:     "template",
		Short:   "Write the reference template image (png or tiff)",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error { return templateOpts.validate() },
		RunE:    func(cmd *cobra.Command, args []string) error { return runTemplate(templateOpts) },
	}

	cubeCmd = &cobra.Command{
		Use:     "cube",
		Short:   "Build a .cube LUT from the template and the corrected image",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error { return cubeOpts.validate() },
		RunE:    func(cmd *cobra.Command, args []string) error { return runCube(cubeOpts) },
	}

	verifyCmd = &cobra.Command{
		Use:     "verify",
		Short:   "Check that a stored template yields the same LUT as a freshly generated one",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error { return verifyOpts.validate() },
		RunE:    func(cmd *cobra.Command, args []string) error { return runVerify(verifyOpts) },
	}

	statsCmd = &cobra.Command{
		Use:     "stats",
		Short:   "Report the CIEDE2000 color shift of the corrected image",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error { return statsOpts.validate() },
		RunE:    func(cmd *cobra.Command, args []string) error { return runStats(statsOpts) },
	}

	verbose      bool
	templateOpts templateOptions
	cubeOpts     cubeOptions
	verifyOpts   verifyOptions
	statsOpts    statsOptions
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	templateCmd.Flags().StringVarP(&templateOpts.Output, "output", "o", "lut_template.png", "template image (.png, .tif, .tiff)")

	cubeCmd.Flags().StringVarP(&cubeOpts.Reference, "reference", "r", "", "template image the corrected image was made from (default: generated in memory)")
	cubeCmd.Flags().StringVarP(&cubeOpts.Corrected, "corrected", "c", "", "corrected template image")
	cubeCmd.Flags().StringVarP(&cubeOpts.Output, "output", "o", "", "output .cube file, - for stdout (default: <corrected>.cube)")
	cubeCmd.Flags().IntVarP(&cubeOpts.Size, "size", "s", cubelut.DefaultSize, "LUT points per channel")
	cubeCmd.Flags().StringVarP(&cubeOpts.Title, "title", "t", "", "LUT title (default: output file name)")
	cubeCmd.Flags().StringVar(&cubeOpts.Samples, "samples", "", "also write the sampled grid as CSV")
	cubeCmd.Flags().BoolVar(&cubeOpts.Force, "force", false, "write to stdout even when it is a terminal")
	_ = cubeCmd.MarkFlagRequired("corrected")

	verifyCmd.Flags().StringVarP(&verifyOpts.Reference, "reference", "r", "", "stored template image")
	verifyCmd.Flags().StringVarP(&verifyOpts.Corrected, "corrected", "c", "", "corrected template image")
	_ = verifyCmd.MarkFlagRequired("reference")
	_ = verifyCmd.MarkFlagRequired("corrected")

	statsCmd.Flags().StringVarP(&statsOpts.Reference, "reference", "r", "", "template image the corrected image was made from (default: generated in memory)")
	statsCmd.Flags().StringVarP(&statsOpts.Corrected, "corrected", "c", "", "corrected template image")
	statsCmd.Flags().IntVarP(&statsOpts.Size, "size", "s", 17, "grid points per channel")
	_ = statsCmd.MarkFlagRequired("corrected")

	rootCmd.AddCommand(templateCmd, cubeCmd, verifyCmd, statsCmd)
}

func Execute() error {
	return rootCmd.Execute()
}

type templateOptions struct {
	Output string
}

func (o *templateOptions) validate() error {
	_, err := cubelut.FormatFromPath(o.Output)
	return err
}

type cubeOptions struct {
	Reference string
	Corrected string
	Output    string
	Size      int
	Title     string
	Samples   string
	Force     bool
}

func (o *cubeOptions) validate() error {
	if err := checkInputs(o.Reference, o.Corrected); err != nil {
		return err
	}
	if o.Output == "" {
		o.Output = trimExt(o.Corrected) + ".cube"
	}
	if o.Output != "-" && !strings.EqualFold(filepath.Ext(o.Output), ".cube") {
		return fmt.Errorf("%w: output %s must have the .cube extension", cubelut.ErrInvalidConfiguration, o.Output)
	}
	if o.Samples != "" && !strings.EqualFold(filepath.Ext(o.Samples), ".csv") {
		return fmt.Errorf("%w: samples %s must have the .csv extension", cubelut.ErrInvalidConfiguration, o.Samples)
	}
	if o.Output == "-" && !o.Force && term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("%w: refusing to write a LUT to a terminal, use --force", cubelut.ErrInvalidConfiguration)
	}
	if o.Title == "" {
		o.Title = filepath.Base(trimExt(o.Output))
		if o.Output == "-" {
			o.Title = filepath.Base(trimExt(o.Corrected))
		}
	}
	return o.lutOptions().Validate()
}

func (o *cubeOptions) lutOptions() cubelut.CubeOptions {
	return cubelut.CubeOptions{Size: o.Size, Title: o.Title}
}

type verifyOptions struct {
	Reference string
	Corrected string
}

func (o *verifyOptions) validate() error {
	return checkInputs(o.Reference, o.Corrected)
}

type statsOptions struct {
	Reference string
	Corrected string
	Size      int
}

func (o *statsOptions) validate() error {
	if err := checkInputs(o.Reference, o.Corrected); err != nil {
		return err
	}
	_, err := cubelut.SampleGrid(o.Size)
	return err
}

// checkInputs validates image paths; an empty reference is allowed.
func checkInputs(reference, corrected string) error {
	for _, filename := range []string{reference, corrected} {
		if filename == "" {
			continue
		}
		if _, err := cubelut.FormatFromPath(filename); err != nil {
			return err
		}
		st, err := os.Stat(filename)
		if err != nil {
			return err
		}
		if st.IsDir() {
			return fmt.Errorf("%s is a directory", filename)
		}
	}
	return nil
}

func trimExt(filename string) string {
	return filename[:len(filename)-len(filepath.Ext(filename))]
}

func runTemplate(o templateOptions) error {
	logrus.Infof("Generating %dx%d template", cubelut.TemplateSize, cubelut.TemplateSize)
	if err := cubelut.WriteImage(o.Output, cubelut.GenerateTemplate()); err != nil {
		return fmt.Errorf("write template %s: %w", o.Output, err)
	}
	logrus.Infof("Template written to %s", o.Output)
	return nil
}

// loadReference reads the stored template, or generates one when filename is empty.
func loadReference(filename string) (image.Image, error) {
	if filename == "" {
		logrus.Debug("no reference given, using generated template")
		return cubelut.GenerateTemplate(), nil
	}
	return readImage(filename)
}

func readImage(filename string) (image.Image, error) {
	logrus.Infof("Reading %s", filename)
	img, err := cubelut.ReadImage(filename)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("%s: %dx%d %T", filename, img.Bounds().Dx(), img.Bounds().Dy(), img)
	return img, nil
}

func extractTable(reference image.Image, corrected image.Image) (*cubelut.Table, error) {
	table, err := cubelut.Extract(reference, corrected)
	if err != nil {
		return nil, err
	}
	coverage := table.Coverage()
	if !table.Complete() {
		logrus.Warnf("reference covers %d of %d colors, the LUT may be incomplete", coverage, 1<<24)
	} else {
		logrus.Debugf("reference covers all %d colors", coverage)
	}
	return table, nil
}

func loadTable(referenceFile, correctedFile string) (*cubelut.Table, error) {
	reference, err := loadReference(referenceFile)
	if err != nil {
		return nil, err
	}
	corrected, err := readImage(correctedFile)
	if err != nil {
		return nil, err
	}
	return extractTable(reference, corrected)
}

func runCube(o cubeOptions) error {
	table, err := loadTable(o.Reference, o.Corrected)
	if err != nil {
		return err
	}

	opts := o.lutOptions()
	if o.Output == "-" {
		err = cubelut.WriteCube(os.Stdout, table, opts)
	} else {
		err = cubelut.WriteCubeFile(o.Output, table, opts)
	}
	if err != nil {
		return fmt.Errorf("write LUT: %w", err)
	}
	logrus.Infof("Done: %d^3 LUT %q written to %s", o.Size, o.Title, o.Output)

	if o.Samples != "" {
		samples, err := cubelut.Samples(table, o.Size)
		if err != nil {
			return err
		}
		if err := cubelut.WriteSamplesCSV(o.Samples, samples); err != nil {
			return fmt.Errorf("write samples %s: %w", o.Samples, err)
		}
		logrus.Infof("Samples written to %s", o.Samples)
	}
	return nil
}

var errTemplateMismatch = errors.New("stored template does not match the generated template")

func runVerify(o verifyOptions) error {
	corrected, err := readImage(o.Corrected)
	if err != nil {
		return err
	}
	stored, err := readImage(o.Reference)
	if err != nil {
		return err
	}

	fromStored, err := extractTable(stored, corrected)
	if err != nil {
		return err
	}
	fromGenerated, err := extractTable(cubelut.GenerateTemplate(), corrected)
	if err != nil {
		return err
	}

	if !fromStored.Equal(fromGenerated) {
		return fmt.Errorf("%w: %s", errTemplateMismatch, o.Reference)
	}
	logrus.Infof("Done: %s matches the generated template", o.Reference)
	return nil
}

func runStats(o statsOptions) error {
	table, err := loadTable(o.Reference, o.Corrected)
	if err != nil {
		return err
	}
	stats, err := cubelut.Measure(table, o.Size)
	if err != nil {
		return err
	}
	w := stats.Worst
	logrus.WithFields(logrus.Fields{
		"samples": stats.Samples,
		"mean":    fmt.Sprintf("%.4f", stats.MeanDelta),
		"max":     fmt.Sprintf("%.4f", stats.MaxDelta),
	}).Info("CIEDE2000 color shift")
	fmt.Printf("samples: %d\nmean dE: %.4f\nmax dE:  %.4f at (%d, %d, %d) -> (%d, %d, %d)\n",
		stats.Samples, stats.MeanDelta, stats.MaxDelta, w.InR, w.InG, w.InB, w.OutR, w.OutG, w.OutB)
	return nil
}
