package dither

import (
	"strings"

	"github.com/pkg/errors"
)

// Ditherer is implemented by every dithering strategy.
// Dither transforms the raster in place using the provided quantizer.
type Ditherer interface {
	Dither(r *Raster, q Quantizer) error
}

// ErrorDiffuser is a Ditherer spreading the quantization error with the given kernel.
type ErrorDiffuser struct {
	Kernel Kernel
}

// Dither implements the Ditherer interface.
func (e ErrorDiffuser) Dither(r *Raster, q Quantizer) error {
	return Diffuse(r, q, e.Kernel)
}

// Method identifies one of the supported dithering algorithms.
type Method string

// The supported dithering methods.
const (
	FloydSteinbergMethod Method = "floyd-steinberg"
	AtkinsonMethod       Method = "atkinson"
	SierraLiteMethod     Method = "sierra-lite"
	BayerMethod          Method = "bayer"
	RandomMethod         Method = "random"
)

var methods = []Method{
	FloydSteinbergMethod,
	AtkinsonMethod,
	SierraLiteMethod,
	BayerMethod,
	RandomMethod,
}

// Methods returns the supported methods in their presentation order.
func Methods() []Method {
	m := make([]Method, len(methods))
	copy(m, methods)
	return m
}

// ParseMethod resolves a method name, ignoring case, spaces and underscores.
func ParseMethod(name string) (Method, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("_", "-", " ", "-").Replace(n)

	switch n {
	case "fs", "floydsteinberg":
		n = string(FloydSteinbergMethod)
	case "sierralite", "sierra":
		n = string(SierraLiteMethod)
	case "ordered":
		n = string(BayerMethod)
	case "random-threshold", "randomthreshold":
		n = string(RandomMethod)
	}
	for _, m := range methods {
		if string(m) == n {
			return m, nil
		}
	}
	return "", errors.Errorf("unsupported dithering method: %q", name)
}

// Title returns the human readable name of the method.
func (m Method) Title() string {
	switch m {
	case FloydSteinbergMethod:
		return "Floyd-Steinberg"
	case AtkinsonMethod:
		return "Atkinson"
	case SierraLiteMethod:
		return "Sierra Lite"
	case BayerMethod:
		return "Bayer"
	case RandomMethod:
		return "Random threshold"
	}
	return string(m)
}

// Options holds the parameters of the methods which need more than a quantizer.
type Options struct {
	// BayerSize is the dimension of the Bayer matrix. Defaults to 4.
	BayerSize int
	// Seed of the random threshold method. Zero means non-deterministic output.
	Seed uint64
	// Workers limits the goroutines used by the ordered method. Defaults to the number of CPUs.
	Workers int
}

// Ditherer returns the strategy implementing the method.
func (m Method) Ditherer(opts Options) (Ditherer, error) {
	switch m {
	case FloydSteinbergMethod:
		return ErrorDiffuser{Kernel: FloydSteinbergKernel}, nil
	case AtkinsonMethod:
		return ErrorDiffuser{Kernel: AtkinsonKernel}, nil
	case SierraLiteMethod:
		return ErrorDiffuser{Kernel: SierraLiteKernel}, nil
	case BayerMethod:
		size := opts.BayerSize
		if size <= 0 {
			size = 4
		}
		return Ordered{Matrix: BayerMatrix(size), Workers: opts.Workers}, nil
	case RandomMethod:
		return Random{Seed: opts.Seed}, nil
	}
	return nil, errors.Errorf("unsupported dithering method: %q", string(m))
}
