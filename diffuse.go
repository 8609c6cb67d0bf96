package dither

import (
	"github.com/esimov/dither/utils"
	"github.com/pkg/errors"
)

// ErrInvalidKernel is returned when a kernel would push error onto already visited pixels.
var ErrInvalidKernel = errors.New("invalid diffusion kernel")

// FloydSteinberg dithers the raster in place, spreading the quantization error
// to the right (7/16), bottom-left (3/16), bottom (5/16) and bottom-right (1/16) neighbors.
func FloydSteinberg(r *Raster, q Quantizer) error {
	return Diffuse(r, q, FloydSteinbergKernel)
}

// Atkinson dithers the raster in place, spreading only 6/8 of the quantization error
// in equal parts over six neighbors. The remaining quarter is dropped.
func Atkinson(r *Raster, q Quantizer) error {
	return Diffuse(r, q, AtkinsonKernel)
}

// SierraLite dithers the raster in place using the three taps Sierra kernel.
func SierraLite(r *Raster, q Quantizer) error {
	return Diffuse(r, q, SierraLiteKernel)
}

// Diffuse is the generic weighted error diffusion routine. The pixels are visited
// in row-major order and every quantization error is distributed over the kernel taps.
// Taps falling outside the raster are skipped and their share of the error is lost.
//
// The scan is inherently sequential, since each pixel depends on the error
// accumulated from the previously visited ones.
func Diffuse(r *Raster, q Quantizer, k Kernel) error {
	ok, err := prepare(r, q)
	if err != nil || !ok {
		return err
	}
	if !k.valid() {
		return errors.Wrapf(ErrInvalidKernel, "kernel %q", k.Name)
	}

	var (
		width  = r.Width
		height = r.Height
		window = k.rows()
	)

	// The error accumulators are scaled by the kernel divisor, so the
	// division happens only once, when the pixel is read.
	acc := make([][]int32, window)
	for i := range acc {
		acc[i] = make([]int32, width)
	}

	for y := 0; y < height; y++ {
		cur := acc[y%window]
		for x := 0; x < width; x++ {
			idx := y*width + x
			v := utils.Clamp(int32(r.Pix[idx])+cur[x]/int32(k.Divisor), 0, 0xff)
			level := q.Quantize(uint8(v))
			r.Pix[idx] = level

			qe := v - int32(level)
			if qe == 0 {
				continue
			}
			for _, t := range k.Taps {
				nx, ny := x+t.Dx, y+t.Dy
				if nx < 0 || nx >= width || ny >= height {
					continue
				}
				acc[ny%window][nx] += qe * int32(t.Weight)
			}
		}
		// The current row becomes the farthest one of the window.
		for i := range cur {
			cur[i] = 0
		}
	}
	return nil
}
