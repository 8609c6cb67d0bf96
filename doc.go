/*
Package dither is an image dithering library, which reduces a greyscale image to a small
set of output levels (black and white by default) while preserving the perceived tones
through error diffusion, ordered or random thresholding.

The package operates on a Raster, an 8-bit single channel pixel buffer, and provides
five algorithms sharing the same contract: Floyd-Steinberg, Atkinson, Sierra Lite,
Bayer and random threshold. The quantization policy is supplied by the caller, so the
same algorithms can be used for bilevel or N-level output.

The package also provides a command line interface. To check the supported commands type:

	$ dither --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/esimov/dither"
	)

	func main() {
		r := dither.FromImage(img)
		if err := dither.FloydSteinberg(r, dither.DefaultBiLevel); err != nil {
			fmt.Printf("Error dithering image: %s", err.Error())
		}
	}
*/
package dither
