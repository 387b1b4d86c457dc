// Package loader turns a CompiledProcedure into a callable pixel
// evaluator. The generated Go source is formatted, evaluated in an
// embedded interpreter and exposed through closures, so the rest of the
// toolkit never deals with interpreter values.
package loader

import (
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"golang.org/x/tools/imports"

	"github.com/jdries/jaitools/internal/codegen"
	"github.com/jdries/jaitools/pkg/runtime"
)

// Procedure is a loaded pixel evaluator bound to one environment.
// It is not safe for concurrent use; run independent instances for
// concurrent evaluation.
type Procedure struct {
	Model  codegen.EvaluationModel
	Source string

	evalDirect   func(x, y float64, band int)
	evalIndirect func(x, y float64, band int) float64
	getVar       func(name string) (float64, bool)
}

// Evaluate runs one direct-model invocation at (x, y, band).
func (p *Procedure) Evaluate(x, y float64, band int) {
	p.evalDirect(x, y, band)
}

// EvaluateValue runs one indirect-model invocation and returns the
// pixel value.
func (p *Procedure) EvaluateValue(x, y float64, band int) float64 {
	return p.evalIndirect(x, y, band)
}

// GetVar returns the live value of an image-scope variable, or
// ok=false for any unregistered name.
func (p *Procedure) GetVar(name string) (float64, bool) {
	return p.getVar(name)
}

// Load renders, formats and interprets the procedure, binding it to env.
func Load(cp *codegen.CompiledProcedure, env *runtime.Env) (*Procedure, error) {
	src, err := Render(cp)
	if err != nil {
		return nil, err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("loading interpreter stdlib: %w", err)
	}
	if err := i.Use(runtime.Symbols()); err != nil {
		return nil, fmt.Errorf("loading runtime symbols: %w", err)
	}
	if _, err := i.Eval(src); err != nil {
		return nil, fmt.Errorf("loading generated procedure: %w", err)
	}

	bridge, err := i.Eval("_load")
	if err != nil {
		return nil, fmt.Errorf("binding generated procedure: %w", err)
	}
	out := bridge.Call([]reflect.Value{reflect.ValueOf(env)})

	proc := &Procedure{Model: cp.Model, Source: src}
	getVar, ok := out[1].Interface().(func(string) (float64, bool))
	if !ok {
		return nil, fmt.Errorf("generated accessor has unexpected type %s", out[1].Type())
	}
	proc.getVar = getVar

	switch cp.Model {
	case codegen.Direct:
		proc.evalDirect, ok = out[0].Interface().(func(float64, float64, int))
	case codegen.Indirect:
		proc.evalIndirect, ok = out[0].Interface().(func(float64, float64, int) float64)
	}
	if !ok {
		return nil, fmt.Errorf("generated evaluator has unexpected type %s", out[0].Type())
	}
	return proc, nil
}

// Render stitches the procedure source together with its loader bridge
// and runs the result through the imports formatter.
func Render(cp *codegen.CompiledProcedure) (string, error) {
	src := cp.Source() + "\n" + bridgeSource(cp)
	formatted, err := imports.Process("procedure.go", []byte(src), nil)
	if err != nil {
		return "", fmt.Errorf("formatting generated procedure: %w", err)
	}
	return string(formatted), nil
}

// bridgeSource declares _load, which constructs the procedure and hands
// its entry points back as plain closures. The leading underscore keeps
// the name out of the script identifier namespace.
func bridgeSource(cp *codegen.CompiledProcedure) string {
	sig := "func(x, y float64, band int)"
	if cp.Model == codegen.Indirect {
		sig += " float64"
	}
	accessor := "p.GetVar"
	if cp.Accessor == "" {
		accessor = "func(string) (float64, bool) { return 0, false }"
	}
	return fmt.Sprintf(`func _load(rt *%s.Env) (%s, func(string) (float64, bool)) {
p := New%s(rt)
return p.Evaluate, %s
}
`, codegen.RuntimeAlias, sig, cp.Name, accessor)
}
