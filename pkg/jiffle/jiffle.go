// Package jiffle is the public entry point of the raster-scripting
// toolkit: compile a per-pixel transformation script, bind it to
// images, and run it over every coordinate.
//
// A minimal direct-model session:
//
//	cs, err := jiffle.Compile("dest = src * 2;", jiffle.Options{
//		Model:        jiffle.Direct,
//		SourceImages: []string{"src"},
//		DestImages:   []string{"dest"},
//	})
//	...
//	env := runtime.NewEnv()
//	env.AddSource("src", srcRaster)
//	env.AddDest("dest", destRaster)
//	err = cs.Run(env)
package jiffle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jdries/jaitools/internal/codegen"
	"github.com/jdries/jaitools/internal/loader"
	"github.com/jdries/jaitools/internal/pipeline"
	"github.com/jdries/jaitools/pkg/runtime"
)

// EvaluationModel selects how the compiled procedure delivers results.
type EvaluationModel = codegen.EvaluationModel

const (
	// Direct procedures write explicitly to named destination images.
	Direct = codegen.Direct
	// Indirect procedures return one value per pixel for a single
	// implied destination.
	Indirect = codegen.Indirect
)

// Procedure is a loaded, runnable pixel evaluator.
type Procedure = loader.Procedure

// Options configures one compilation.
type Options struct {
	// Name is the generated procedure name. Defaults to "Proc".
	Name string
	// Model is the evaluation model. Defaults to Direct.
	Model EvaluationModel
	// SourceImages and DestImages bind the script's image names.
	SourceImages []string
	DestImages   []string
	// Provided lists externally supplied variable names; their values
	// are bound per run through the runtime environment.
	Provided []string
}

// CompiledScript is the result of one successful compilation.
type CompiledScript struct {
	// ID uniquely identifies this compilation.
	ID    string
	Name  string
	Model EvaluationModel

	dests []string
	cp    *codegen.CompiledProcedure
}

// CompileError aggregates the diagnostics of a failed compilation.
type CompileError struct {
	Diagnostics []error
}

func (e *CompileError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

// Compile runs the script through the full pipeline.
func Compile(script string, opts Options) (*CompiledScript, error) {
	if opts.Name == "" {
		opts.Name = "Proc"
	}

	ctx := &pipeline.Context{
		Script:       script,
		Name:         opts.Name,
		Model:        opts.Model,
		SourceImages: opts.SourceImages,
		DestImages:   opts.DestImages,
		Provided:     opts.Provided,
		Functions:    runtime.DefaultFunctions(),
		Constants:    runtime.DefaultConstants(),
	}
	ctx = pipeline.New(
		pipeline.ParseProcessor{},
		pipeline.AnalyzeProcessor{},
		pipeline.CompileProcessor{},
	).Run(ctx)

	if len(ctx.Errors) > 0 {
		ce := &CompileError{}
		for _, d := range ctx.Errors {
			ce.Diagnostics = append(ce.Diagnostics, d)
		}
		return nil, ce
	}

	return &CompiledScript{
		ID:    uuid.NewString(),
		Name:  opts.Name,
		Model: opts.Model,
		dests: opts.DestImages,
		cp:    ctx.Compiled,
	}, nil
}

// Source returns the formatted generated source for inspection.
func (cs *CompiledScript) Source() (string, error) {
	return loader.Render(cs.cp)
}

// Prepare loads the procedure and binds it to env. Each prepared
// procedure owns its image-scope state; prepare one per concurrent
// evaluation stream.
func (cs *CompiledScript) Prepare(env *runtime.Env) (*Procedure, error) {
	return loader.Load(cs.cp, env)
}

// Run prepares the procedure against env and drives it over every
// pixel of the destination bounds: per pixel per band under the direct
// model, per pixel with the returned value written to the single
// destination under the indirect model.
func (cs *CompiledScript) Run(env *runtime.Env) error {
	proc, err := cs.Prepare(env)
	if err != nil {
		return err
	}

	if cs.Model == Indirect {
		if len(cs.dests) != 1 {
			return errors.New("indirect model requires exactly one destination image")
		}
		dest := env.Dest(cs.dests[0])
		if dest == nil {
			return fmt.Errorf("destination image %q is not bound", cs.dests[0])
		}
		for y := 0; y < dest.Height(); y++ {
			for x := 0; x < dest.Width(); x++ {
				dest.Set(x, y, 0, proc.EvaluateValue(float64(x), float64(y), 0))
			}
		}
		return nil
	}

	width, height, bands, err := cs.destBounds(env)
	if err != nil {
		return err
	}
	for band := 0; band < bands; band++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				proc.Evaluate(float64(x), float64(y), band)
			}
		}
	}
	return nil
}

// destBounds verifies all destinations are bound with matching sizes
// and returns the common bounds.
func (cs *CompiledScript) destBounds(env *runtime.Env) (width, height, bands int, err error) {
	if len(cs.dests) == 0 {
		return 0, 0, 0, errors.New("no destination images bound")
	}
	for i, name := range cs.dests {
		d := env.Dest(name)
		if d == nil {
			return 0, 0, 0, fmt.Errorf("destination image %q is not bound", name)
		}
		if i == 0 {
			width, height, bands = d.Width(), d.Height(), d.Bands()
			continue
		}
		if d.Width() != width || d.Height() != height {
			return 0, 0, 0, fmt.Errorf("destination image %q has mismatched bounds", name)
		}
		if d.Bands() < bands {
			bands = d.Bands()
		}
	}
	return width, height, bands, nil
}
