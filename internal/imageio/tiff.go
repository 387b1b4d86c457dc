// Package imageio converts between TIFF files and in-memory rasters.
// Input images are read as single-band luminance in the 0..65535 sample
// range; results are written as 16-bit grayscale with clamping.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"golang.org/x/image/tiff"

	"github.com/jdries/jaitools/pkg/raster"
)

// ReadTIFF decodes a TIFF file into a single-band raster.
func ReadTIFF(path string) (*raster.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return FromImage(img), nil
}

// FromImage converts any image to a single-band luminance raster.
func FromImage(img image.Image) *raster.Raster {
	bounds := img.Bounds()
	r := raster.New(bounds.Dx(), bounds.Dy(), 1)
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			g := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
			r.Set(x, y, 0, float64(g.Y))
		}
	}
	return r
}

// WriteTIFF encodes one band of a raster as 16-bit grayscale TIFF.
// Samples are clamped to 0..65535; NaN writes as 0.
func WriteTIFF(path string, r *raster.Raster, band int) error {
	img := image.NewGray16(image.Rect(0, 0, r.Width(), r.Height()))
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			img.SetGray16(x, y, color.Gray16{Y: clamp16(r.Get(x, y, band))})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := tiff.Encode(f, img, nil); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

func clamp16(v float64) uint16 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 65535:
		return 65535
	}
	return uint16(math.Round(v))
}
