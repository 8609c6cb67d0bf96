package dither

import (
	"context"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/dither/utils"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// AllMethods is the method name used to run every supported algorithm.
const AllMethods = "all"

// Processor options
type Processor struct {
	// Method is a dithering method name or AllMethods.
	Method string
	// Threshold used by the bilevel quantizer. Defaults to 128.
	Threshold int
	// Levels selects an N-level grey quantizer when greater than 2.
	Levels    int
	BayerSize int
	Seed      uint64
	// Width and Height rescale the source image before dithering. A zero
	// value preserves the aspect ratio, both zero keep the original size.
	Width  int
	Height int
	// Gamma correction applied before the greyscale conversion. 0 and 1 mean no correction.
	Gamma   float64
	Sheet   bool
	Workers int
	Spinner *utils.Spinner
}

// Quantizer returns the quantizer described by the processor options.
func (p *Processor) Quantizer() Quantizer {
	if p.Levels > 2 {
		return Levels(p.Levels)
	}
	if p.Threshold <= 0 || p.Threshold > 0xff {
		return DefaultBiLevel
	}
	return BiLevel{Threshold: uint8(p.Threshold)}
}

// Options returns the method parameters described by the processor options.
func (p *Processor) Options() Options {
	return Options{
		BayerSize: p.BayerSize,
		Seed:      p.Seed,
		Workers:   p.Workers,
	}
}

// Prepare rescales and gamma corrects the image, then converts it to a greyscale raster.
func (p *Processor) Prepare(img image.Image) *Raster {
	if p.Width > 0 || p.Height > 0 {
		img = imaging.Resize(img, p.Width, p.Height, imaging.Lanczos)
	}
	if p.Gamma > 0 && p.Gamma != 1 {
		img = imaging.AdjustGamma(img, p.Gamma)
	}
	return FromImage(img)
}

// Process decodes the source image, dithers it with the selected method and
// encodes the result into the writer. The output format depends on the
// destination file extension.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	if strings.EqualFold(p.Method, AllMethods) {
		return errors.New("the all method needs a destination directory")
	}
	m, err := ParseMethod(p.Method)
	if err != nil {
		return err
	}
	d, err := m.Ditherer(p.Options())
	if err != nil {
		return err
	}

	src, err := decodeImg(r)
	if err != nil {
		return err
	}
	raster := p.Prepare(src)

	if err := d.Dither(raster, p.Quantizer()); err != nil {
		return errors.Wrapf(err, "%s dithering failed", m.Title())
	}
	return encodeImg(w, raster.Gray())
}

// ProcessAll decodes the source image and writes into the dir folder the greyscale
// original together with the output of every dithering method, each of them in
// a PNG file prefixed by name. A contact sheet is also generated when the Sheet
// option is enabled.
func (p *Processor) ProcessAll(ctx context.Context, r io.Reader, dir, name string) ([]Result, error) {
	src, err := decodeImg(r)
	if err != nil {
		return nil, err
	}
	original := p.Prepare(src)

	suite := NewSuite(p.Quantizer(), p.Options())
	if p.Workers > 0 {
		suite.Concurrency = p.Workers
	}
	results, err := suite.Run(ctx, original)
	if err != nil {
		return nil, err
	}

	if err := writePNG(filepath.Join(dir, name+".original.png"), original.Gray()); err != nil {
		return nil, err
	}
	for _, res := range results {
		path := filepath.Join(dir, name+"."+slug(res.Name)+".png")
		if err := writePNG(path, res.Raster.Gray()); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"variant": res.Name,
			"file":    path,
		}).Debug("variant saved")
	}
	if p.Sheet {
		if err := writePNG(filepath.Join(dir, name+".sheet.png"), Sheet(original, results)); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// writePNG encodes the image into a newly created file.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "unable to create the destination file")
	}
	if err := encodeExt(f, img, ".png"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// slug converts a variant name to a file name friendly form.
func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
