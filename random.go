package dither

import (
	"time"

	"github.com/esimov/dither/utils"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// ErrNilRandomSource is returned when the random threshold algorithm has no source to draw from.
var ErrNilRandomSource = errors.New("nil random source")

// RandomSource provides the pseudo-random numbers used by the random threshold algorithm.
// Both *rand.Rand of golang.org/x/exp/rand and math/rand satisfy it.
type RandomSource interface {
	// Intn returns a number in the [0, n) interval.
	Intn(n int) int
}

// NewRandomSource returns a new random stream seeded with the given value.
func NewRandomSource(seed uint64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

// RandomThreshold dithers the raster in place, adding a uniformly distributed bias
// in the [-128, 127] interval to every pixel before quantizing it.
// The output is reproducible as long as the source is seeded identically.
func RandomThreshold(r *Raster, q Quantizer, rng RandomSource) error {
	ok, err := prepare(r, q)
	if err != nil || !ok {
		return err
	}
	if rng == nil {
		return ErrNilRandomSource
	}

	for i, v := range r.Pix {
		bias := rng.Intn(256) - 128
		r.Pix[i] = q.Quantize(uint8(utils.Clamp(int(v)+bias, 0, 0xff)))
	}
	return nil
}

// Random is a Ditherer using the random threshold algorithm. Every call draws from
// a new stream created out of Seed, so successive calls give identical results.
// A zero Seed picks a time based one, making the output non-deterministic.
type Random struct {
	Seed uint64
}

// Dither implements the Ditherer interface.
func (rd Random) Dither(r *Raster, q Quantizer) error {
	seed := rd.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return RandomThreshold(r, q, NewRandomSource(seed))
}
