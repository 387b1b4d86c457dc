// Package raster provides the in-memory banded image the runtime reads
// and writes. The disk-backed tiled storage of large images is a
// separate concern; anything that can present per-band float64 samples
// can stand in for this type behind the runtime environment.
package raster

import "math"

// Raster is a width x height image with one or more bands of float64
// samples. The origin is (0, 0).
type Raster struct {
	width  int
	height int
	bands  int
	data   []float64
}

func New(width, height, bands int) *Raster {
	if width < 1 || height < 1 || bands < 1 {
		return nil
	}
	return &Raster{
		width:  width,
		height: height,
		bands:  bands,
		data:   make([]float64, width*height*bands),
	}
}

func (r *Raster) Width() int { return r.width }
func (r *Raster) Height() int { return r.height }
func (r *Raster) Bands() int { return r.bands }

func (r *Raster) index(x, y, band int) (int, bool) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height || band < 0 || band >= r.bands {
		return 0, false
	}
	return (band*r.height+y)*r.width + x, true
}

// Get returns the sample at (x, y, band), or NaN outside the bounds.
func (r *Raster) Get(x, y, band int) float64 {
	i, ok := r.index(x, y, band)
	if !ok {
		return math.NaN()
	}
	return r.data[i]
}

// Set stores a sample. Writes outside the bounds are dropped.
func (r *Raster) Set(x, y, band int, v float64) {
	if i, ok := r.index(x, y, band); ok {
		r.data[i] = v
	}
}

// Fill sets every sample in every band to v.
func (r *Raster) Fill(v float64) {
	for i := range r.data {
		r.data[i] = v
	}
}
