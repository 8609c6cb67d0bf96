package dither

import (
	"image"

	"github.com/disintegration/imaging"
)

// FromImage converts any image to a greyscale raster, with min-point at (0, 0).
func FromImage(img image.Image) *Raster {
	if src, ok := img.(*image.Gray); ok {
		return FromGray(src)
	}

	// imaging.Grayscale returns an NRGBA image where R, G and B hold the luminance.
	gray := imaging.Grayscale(img)
	dx, dy := gray.Bounds().Dx(), gray.Bounds().Dy()
	dst := NewRaster(dx, dy)

	for y := 0; y < dy; y++ {
		si := y * gray.Stride
		di := y * dx
		for x := 0; x < dx; x++ {
			dst.Pix[di+x] = gray.Pix[si+x*4]
		}
	}
	return dst
}

// FromGray copies a greyscale image into a new raster.
func FromGray(src *image.Gray) *Raster {
	b := src.Bounds()
	dst := NewRaster(b.Dx(), b.Dy())

	for y := 0; y < dst.Height; y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*dst.Width:(y+1)*dst.Width], src.Pix[si:si+dst.Width])
	}
	return dst
}

// Gray converts the raster to a standard library greyscale image.
func (r *Raster) Gray() *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+r.Width], r.Pix[y*r.Width:(y+1)*r.Width])
	}
	return dst
}
