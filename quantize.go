package dither

import (
	"image/color"
)

// Quantizer maps a sample value to the nearest level representable on the output.
// Implementations must be pure functions, since they are shared between concurrently
// running dithering passes.
type Quantizer interface {
	Quantize(v uint8) uint8
}

// QuantizerFunc is an adapter allowing ordinary functions to be used as quantizers.
type QuantizerFunc func(v uint8) uint8

// Quantize calls f(v).
func (f QuantizerFunc) Quantize(v uint8) uint8 {
	return f(v)
}

// BiLevel quantizes to black or white. Values greater or equal to the threshold become white.
type BiLevel struct {
	Threshold uint8
}

// DefaultBiLevel splits the samples in the middle of the 0-255 range.
var DefaultBiLevel = BiLevel{Threshold: 128}

// Quantize implements the Quantizer interface.
func (b BiLevel) Quantize(v uint8) uint8 {
	if v >= b.Threshold {
		return 0xff
	}
	return 0
}

// Levels quantizes to n evenly spaced grey levels, including black and white.
// Values lower than 2 are treated as 2.
type Levels int

// Quantize implements the Quantizer interface.
func (l Levels) Quantize(v uint8) uint8 {
	n := int(l)
	if n < 2 {
		n = 2
	}
	if n > 256 {
		n = 256
	}
	steps := n - 1
	idx := (int(v)*steps + 127) / 255

	return uint8((idx*255 + steps/2) / steps)
}

// PaletteQuantizer quantizes to the grey value of the closest palette color.
type PaletteQuantizer struct {
	Palette color.Palette
}

// Quantize implements the Quantizer interface.
func (p PaletteQuantizer) Quantize(v uint8) uint8 {
	if len(p.Palette) == 0 {
		return v
	}
	c := p.Palette.Convert(color.Gray{Y: v})
	return color.GrayModel.Convert(c).(color.Gray).Y
}
