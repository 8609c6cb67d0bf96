package dither

import (
	"runtime"

	"github.com/esimov/dither/utils"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidMatrix is returned for empty or non square threshold matrices.
var ErrInvalidMatrix = errors.New("invalid threshold matrix")

// minBandRows is the minimum number of rows a worker processes on its own.
const minBandRows = 64

// ThresholdMatrix is an immutable N×N table of threshold levels in the [0, 256) range,
// tiled over the image. It is safe for concurrent use.
type ThresholdMatrix struct {
	levels []uint8
	size   int
}

// The Bayer matrices commonly used for ordered dithering.
var (
	Bayer2x2 = BayerMatrix(2)
	Bayer4x4 = BayerMatrix(4)
	Bayer8x8 = BayerMatrix(8)
)

// NewThresholdMatrix builds a threshold matrix out of square rows of levels.
func NewThresholdMatrix(rows [][]uint8) (*ThresholdMatrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, errors.Wrap(ErrInvalidMatrix, "no rows")
	}
	m := &ThresholdMatrix{
		levels: make([]uint8, 0, n*n),
		size:   n,
	}
	for i, row := range rows {
		if len(row) != n {
			return nil, errors.Wrapf(ErrInvalidMatrix, "row %d has %d columns, expected %d", i, len(row), n)
		}
		m.levels = append(m.levels, row...)
	}
	return m, nil
}

// BayerMatrix returns the Bayer index matrix of size n scaled to the 0-255 range.
// The size is rounded up to the next power of two in the [2, 16] range.
func BayerMatrix(n int) *ThresholdMatrix {
	size := 2
	for size < n && size < 16 {
		size <<= 1
	}

	// Recursive construction: M(2n) = [[4M, 4M+2], [4M+3, 4M+1]].
	idx := []int{0}
	for s := 1; s < size; s <<= 1 {
		next := make([]int, 4*s*s)
		for y := 0; y < s; y++ {
			for x := 0; x < s; x++ {
				v := 4 * idx[y*s+x]
				next[y*2*s+x] = v
				next[y*2*s+x+s] = v + 2
				next[(y+s)*2*s+x] = v + 3
				next[(y+s)*2*s+x+s] = v + 1
			}
		}
		idx = next
	}

	m := &ThresholdMatrix{
		levels: make([]uint8, len(idx)),
		size:   size,
	}
	cells := size * size
	for i, v := range idx {
		m.levels[i] = uint8(v * 256 / cells)
	}
	return m
}

// Size returns the matrix dimension.
func (m *ThresholdMatrix) Size() int {
	return m.size
}

// At returns the threshold level used for the pixel at (x, y).
func (m *ThresholdMatrix) At(x, y int) uint8 {
	return m.levels[(y%m.size)*m.size+x%m.size]
}

// Bayer dithers the raster in place using ordered dithering. The matrix level, centered
// around zero, is added as a bias to every pixel before quantizing it.
// There is no dependency between the pixels, so the result does not depend on the scan order.
func Bayer(r *Raster, q Quantizer, m *ThresholdMatrix) error {
	return Ordered{Matrix: m, Workers: 1}.Dither(r, q)
}

// Ordered is a Ditherer applying a threshold matrix. Large rasters are split into
// row bands which are processed concurrently by up to Workers goroutines.
type Ordered struct {
	Matrix  *ThresholdMatrix
	Workers int
}

// Dither implements the Ditherer interface.
func (o Ordered) Dither(r *Raster, q Quantizer) error {
	ok, err := prepare(r, q)
	if err != nil || !ok {
		return err
	}
	m := o.Matrix
	if m == nil || m.size == 0 {
		return errors.Wrap(ErrInvalidMatrix, "missing matrix")
	}

	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	bands := utils.Min(workers, (r.Height+minBandRows-1)/minBandRows)
	if bands <= 1 {
		orderedRows(r, q, m, 0, r.Height)
		return nil
	}

	var g errgroup.Group
	step := (r.Height + bands - 1) / bands
	for y0 := 0; y0 < r.Height; y0 += step {
		y0, y1 := y0, utils.Min(y0+step, r.Height)
		g.Go(func() error {
			orderedRows(r, q, m, y0, y1)
			return nil
		})
	}
	return g.Wait()
}

// orderedRows thresholds the rows in the [y0, y1) interval.
func orderedRows(r *Raster, q Quantizer, m *ThresholdMatrix, y0, y1 int) {
	for y := y0; y < y1; y++ {
		row := r.Pix[y*r.Width : (y+1)*r.Width]
		for x, v := range row {
			bias := int(m.At(x, y)) - 128
			row[x] = q.Quantize(uint8(utils.Clamp(int(v)+bias, 0, 0xff)))
		}
	}
}
