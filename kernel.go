package dither

import (
	"math"

	ditherlib "github.com/makeworld-the-better-one/dither/v2"
)

// maxDivisor is the highest power of two tried when converting the fractional
// matrix weights to integers.
const maxDivisor = 1 << 12

// Tap is a single error diffusion target, relative to the pixel being processed.
type Tap struct {
	Dx, Dy int
	Weight int
}

// Kernel describes how the quantization error is spread over the not yet visited
// neighbors. Every tap receives err*Weight/Divisor. The sum of the weights
// may be lower than the divisor, in which case the remaining error is discarded.
type Kernel struct {
	Name    string
	Taps    []Tap
	Divisor int
}

// The error diffusion kernels supported out of the box.
var (
	FloydSteinbergKernel = NewKernel("floyd-steinberg", ditherlib.FloydSteinberg)
	AtkinsonKernel       = NewKernel("atkinson", ditherlib.Atkinson)
	SierraLiteKernel     = NewKernel("sierra-lite", ditherlib.SierraLite)
)

// NewKernel converts an error diffusion matrix into a kernel. The current pixel is
// located in the first row of the matrix, right before the first non-zero weight.
func NewKernel(name string, m ditherlib.ErrorDiffusionMatrix) Kernel {
	k := Kernel{Name: name, Divisor: 1}
	if len(m) == 0 || len(m[0]) == 0 {
		return k
	}
	cur := m.CurrentPixel()

	// Find the smallest divisor turning every weight into an integer.
	div := 1
	for ; div < maxDivisor; div <<= 1 {
		exact := true
		for _, row := range m {
			for _, w := range row {
				f := float64(w) * float64(div)
				if math.Abs(f-math.Round(f)) > 1e-4 {
					exact = false
				}
			}
		}
		if exact {
			break
		}
	}
	k.Divisor = div

	for dy, row := range m {
		for i, w := range row {
			if w == 0 {
				continue
			}
			k.Taps = append(k.Taps, Tap{
				Dx:     i - cur,
				Dy:     dy,
				Weight: int(math.Round(float64(w) * float64(div))),
			})
		}
	}
	return k
}

// rows returns the number of scanlines touched by the kernel, the current one included.
func (k Kernel) rows() int {
	n := 1
	for _, t := range k.Taps {
		if t.Dy+1 > n {
			n = t.Dy + 1
		}
	}
	return n
}

// valid reports whether the kernel only targets pixels not yet visited in a row-major scan.
func (k Kernel) valid() bool {
	if k.Divisor <= 0 {
		return false
	}
	for _, t := range k.Taps {
		if t.Dy < 0 || (t.Dy == 0 && t.Dx <= 0) {
			return false
		}
	}
	return true
}
