package dither

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matrixRows(m *ThresholdMatrix) [][]uint8 {
	rows := make([][]uint8, m.Size())
	for y := range rows {
		rows[y] = make([]uint8, m.Size())
		for x := range rows[y] {
			rows[y][x] = m.At(x, y)
		}
	}
	return rows
}

func TestBayer_Matrix(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([][]uint8{{0, 128}, {192, 64}}, matrixRows(Bayer2x2))
	assert.Equal([][]uint8{
		{0, 128, 32, 160},
		{192, 64, 224, 96},
		{48, 176, 16, 144},
		{240, 112, 208, 80},
	}, matrixRows(Bayer4x4))

	for _, n := range []int{2, 4, 8, 16} {
		m := BayerMatrix(n)
		assert.Equal(n, m.Size())

		// Every level of the matrix is used exactly once.
		seen := map[uint8]bool{}
		for _, row := range matrixRows(m) {
			for _, v := range row {
				seen[v] = true
			}
		}
		assert.Len(seen, n*n)
	}
	assert.Equal(4, BayerMatrix(3).Size())
	assert.Equal(2, BayerMatrix(1).Size())
	assert.Equal(2, BayerMatrix(0).Size())
	assert.Equal(2, BayerMatrix(-8).Size())
	assert.Equal(16, BayerMatrix(64).Size())

	// The matrix is tiled over the image.
	assert.Equal(Bayer4x4.At(1, 2), Bayer4x4.At(5, 10))
}

func TestBayer_NewThresholdMatrix(t *testing.T) {
	m, err := NewThresholdMatrix([][]uint8{{0, 128}, {192, 64}})
	require.NoError(t, err)
	assert.Equal(t, Bayer2x2, m)

	_, err = NewThresholdMatrix(nil)
	assert.True(t, errors.Is(err, ErrInvalidMatrix))

	_, err = NewThresholdMatrix([][]uint8{{0, 128}, {192}})
	assert.True(t, errors.Is(err, ErrInvalidMatrix))
}

func TestBayer_Golden(t *testing.T) {
	m, err := NewThresholdMatrix([][]uint8{{0, 128}, {192, 64}})
	require.NoError(t, err)

	r := &Raster{Pix: []uint8{10, 200, 10, 200}, Width: 2, Height: 2}
	require.NoError(t, Bayer(r, BiLevel{Threshold: 128}, m))

	// 10-128 -> 0, 200+0 -> 255, 10+64 -> 0, 200-64 -> 255
	assert.Equal(t, []uint8{0, 255, 0, 255}, r.Pix)
}

func TestBayer_HalfTone(t *testing.T) {
	r := NewRaster(16, 16)
	for i := range r.Pix {
		r.Pix[i] = 128
	}
	require.NoError(t, Bayer(r, DefaultBiLevel, Bayer4x4))

	white := 0
	for _, v := range r.Pix {
		if v == 255 {
			white++
		}
	}
	assert.Equal(t, len(r.Pix)/2, white)
}

func TestBayer_SmallSizeKeepsMidTones(t *testing.T) {
	d, err := BayerMethod.Ditherer(Options{BayerSize: 1})
	require.NoError(t, err)

	r := NewRaster(8, 8)
	for i := range r.Pix {
		r.Pix[i] = 128
	}
	require.NoError(t, d.Dither(r, DefaultBiLevel))

	white := 0
	for _, v := range r.Pix {
		if v == 255 {
			white++
		}
	}
	assert.Equal(t, len(r.Pix)/2, white)
}

func TestBayer_ParallelBands(t *testing.T) {
	seq := gradient(300, 517)
	par := seq.Clone()

	require.NoError(t, Ordered{Matrix: Bayer8x8, Workers: 1}.Dither(seq, DefaultBiLevel))
	require.NoError(t, Ordered{Matrix: Bayer8x8, Workers: 4}.Dither(par, DefaultBiLevel))
	assert.Equal(t, seq.Pix, par.Pix)

	for _, v := range par.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("sample %d is not bilevel", v)
		}
	}
}

func TestBayer_EdgeCases(t *testing.T) {
	assert.NoError(t, Bayer(NewRaster(0, 0), DefaultBiLevel, Bayer4x4))

	r := &Raster{Pix: []uint8{1, 2, 3}, Width: 2, Height: 2}
	assert.True(t, errors.Is(Bayer(r, DefaultBiLevel, Bayer4x4), ErrInvalidRaster))
	assert.Equal(t, []uint8{1, 2, 3}, r.Pix)

	assert.True(t, errors.Is(Bayer(NewRaster(2, 2), DefaultBiLevel, nil), ErrInvalidMatrix))
	assert.True(t, errors.Is(Bayer(NewRaster(2, 2), nil, Bayer4x4), ErrNilQuantizer))

	// The top-left cell has the lowest level, every sample goes below the threshold.
	single := &Raster{Pix: []uint8{250}, Width: 1, Height: 1}
	require.NoError(t, Bayer(single, DefaultBiLevel, Bayer4x4))
	assert.Equal(t, []uint8{0}, single.Pix)
}
