package dither

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidRaster is returned when the pixel buffer does not match the raster dimensions.
	ErrInvalidRaster = errors.New("invalid raster")
	// ErrNilQuantizer is returned when no quantization function is provided.
	ErrNilQuantizer = errors.New("nil quantizer")
)

// Raster is an 8-bit single channel image stored in row-major order.
// Pix holds exactly Width*Height samples, the sample at (x, y) being Pix[y*Width+x].
type Raster struct {
	Pix    []uint8
	Width  int
	Height int
}

// NewRaster allocates a zero filled raster of the given size.
func NewRaster(width, height int) *Raster {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Raster{
		Pix:    make([]uint8, width*height),
		Width:  width,
		Height: height,
	}
}

// Validate checks the consistency between the raster dimensions and its pixel buffer.
func (r *Raster) Validate() error {
	if r == nil {
		return errors.Wrap(ErrInvalidRaster, "nil raster")
	}
	if r.Width < 0 || r.Height < 0 {
		return errors.Wrapf(ErrInvalidRaster, "negative dimensions %dx%d", r.Width, r.Height)
	}
	if r.Width > 0 && r.Height > math.MaxInt/r.Width {
		return errors.Wrapf(ErrInvalidRaster, "dimensions %dx%d overflow", r.Width, r.Height)
	}
	if len(r.Pix) != r.Width*r.Height {
		return errors.Wrapf(ErrInvalidRaster,
			"buffer holds %d samples, %dx%d expects %d", len(r.Pix), r.Width, r.Height, r.Width*r.Height,
		)
	}
	return nil
}

// Empty reports whether the raster has no pixels at all.
func (r *Raster) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// At returns the sample at (x, y).
func (r *Raster) At(x, y int) uint8 {
	return r.Pix[y*r.Width+x]
}

// Set stores the sample at (x, y).
func (r *Raster) Set(x, y int, v uint8) {
	r.Pix[y*r.Width+x] = v
}

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)

	return &Raster{
		Pix:    pix,
		Width:  r.Width,
		Height: r.Height,
	}
}

// prepare runs the precondition checks shared by all the algorithms.
// It reports false when there is nothing to do.
func prepare(r *Raster, q Quantizer) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, err
	}
	if q == nil {
		return false, ErrNilQuantizer
	}
	return !r.Empty(), nil
}
