package dither

import (
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// sheetGap is the spacing in pixels between the images laid out on a contact sheet.
const sheetGap = 10

// decodeImg decodes the source into an image.Image.
func decodeImg(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode the source image")
	}
	return img, nil
}

// encodeImg encodes an image to a destination of type io.Writer.
// The format is chosen by the file extension, pipes and unnamed writers receive PNG data.
func encodeImg(w io.Writer, img image.Image) error {
	ext := ""
	if f, ok := w.(*os.File); ok {
		ext = strings.ToLower(filepath.Ext(f.Name()))
	}
	return encodeExt(w, img, ext)
}

// encodeExt encodes the image in the format associated with the extension.
func encodeExt(w io.Writer, img image.Image, ext string) error {
	switch ext {
	case "", ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case ".bmp":
		return bmp.Encode(w, img)
	case ".gif":
		return gif.Encode(w, img, &gif.Options{NumColors: 256})
	default:
		return errors.Errorf("unsupported image format: %s", ext)
	}
}

// Sheet lays out the images of the results side by side, preceded by the original one
// when it is not nil. The images are aligned at the top over a white background.
func Sheet(original *Raster, results []Result) *image.NRGBA {
	rasters := make([]*Raster, 0, len(results)+1)
	if original != nil {
		rasters = append(rasters, original)
	}
	for _, res := range results {
		if res.Raster != nil {
			rasters = append(rasters, res.Raster)
		}
	}

	var width, height int
	for i, r := range rasters {
		if i > 0 {
			width += sheetGap
		}
		width += r.Width
		if r.Height > height {
			height = r.Height
		}
	}
	if width == 0 || height == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	sheet := imaging.New(width, height, color.White)
	x := 0
	for _, r := range rasters {
		sheet = imaging.Paste(sheet, r.Gray(), image.Pt(x, 0))
		x += r.Width + sheetGap
	}
	return sheet
}
