// Package runtime is the support library compiled procedures run
// against. It supplies the image read/write environment, the numeric
// functions generated code calls, and the default function and constant
// tables the code generator resolves against.
//
// One Env belongs to one procedure instance. It holds no global state,
// so independent procedures can run concurrently.
package runtime

import (
	"math"

	"github.com/jdries/jaitools/pkg/raster"
)

// Env binds source images, destination images and externally provided
// values for one procedure instance.
type Env struct {
	sources  map[string]*raster.Raster
	dests    map[string]*raster.Raster
	provided map[string]float64
}

func NewEnv() *Env {
	return &Env{
		sources:  make(map[string]*raster.Raster),
		dests:    make(map[string]*raster.Raster),
		provided: make(map[string]float64),
	}
}

func (e *Env) AddSource(name string, r *raster.Raster) { e.sources[name] = r }
func (e *Env) AddDest(name string, r *raster.Raster) { e.dests[name] = r }
func (e *Env) SetProvided(name string, v float64) { e.provided[name] = v }

// Source returns a bound source image, or nil.
func (e *Env) Source(name string) *raster.Raster { return e.sources[name] }

// Dest returns a bound destination image, or nil.
func (e *Env) Dest(name string) *raster.Raster { return e.dests[name] }

// DestNames returns the destination binding names.
func (e *Env) DestNames() []string {
	names := make([]string, 0, len(e.dests))
	for n := range e.dests {
		names = append(names, n)
	}
	return names
}

// Provided returns an externally provided value, or NaN when unbound.
func (e *Env) Provided(name string) float64 {
	if v, ok := e.provided[name]; ok {
		return v
	}
	return math.NaN()
}

// ReadPixel reads a source sample. Coordinates are truncated toward
// zero, not rounded; reads outside the image bounds yield NaN.
func (e *Env) ReadPixel(name string, x, y float64, band int) float64 {
	r := e.sources[name]
	if r == nil {
		return math.NaN()
	}
	return r.Get(int(math.Trunc(x)), int(math.Trunc(y)), band)
}

// WritePixel writes a destination sample at truncated coordinates.
func (e *Env) WritePixel(name string, x, y float64, band int, v float64) {
	r := e.dests[name]
	if r == nil {
		return
	}
	r.Set(int(math.Trunc(x)), int(math.Trunc(y)), band, v)
}
