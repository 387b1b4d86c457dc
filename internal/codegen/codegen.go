// Package codegen lowers a validated, scope-annotated Jiffle syntax tree
// into a self-contained pixel-evaluator procedure rendered as Go source.
//
// The produced CompiledProcedure holds four segments: init (constructor),
// declarations (struct fields), body (the per-pixel Evaluate function)
// and an optional accessor for image-scope variables. An external loader
// stitches the segments into a source file and executes it once per
// image coordinate.
//
// All mutable state (scope registry, temp allocator, segments) is created
// fresh per Compile call, so concurrent independent compiles do not
// interfere.
package codegen

import (
	"fmt"
	"strings"
)

// EvaluationModel selects the shape of the generated procedure.
type EvaluationModel int

const (
	// Direct procedures write explicitly to named destination images and
	// return nothing. Invoked per pixel per band.
	Direct EvaluationModel = iota
	// Indirect procedures return one numeric value per pixel for a
	// single implied destination.
	Indirect
)

func (m EvaluationModel) String() string {
	switch m {
	case Direct:
		return "direct"
	case Indirect:
		return "indirect"
	}
	return fmt.Sprintf("model(%d)", int(m))
}

// RuntimeFunction is a runtime-callable identifier resolved from a
// script-level function name.
type RuntimeFunction struct {
	// Ident is the qualified Go identifier, e.g. "jifrt.Sin" or "math.Abs".
	Ident string
	// Variadic marks functions accepting any argument count at or above
	// the registered minimum.
	Variadic bool
}

// FunctionResolver maps (name, argument count) to a runtime-callable
// identifier. The real table lives in pkg/runtime.
type FunctionResolver interface {
	Lookup(name string, arity int) (RuntimeFunction, bool)
}

// ConstantLookup maps a named constant to its numeric value.
type ConstantLookup interface {
	ValueOf(name string) (float64, bool)
}

// RuntimeAlias is the import alias generated code uses for pkg/runtime.
const RuntimeAlias = "jifrt"

// RuntimeImportPath is the import path of the runtime support package.
const RuntimeImportPath = "github.com/jdries/jaitools/pkg/runtime"

// CompiledProcedure is the assembled output of one Compile call.
// Immutable once assembled.
type CompiledProcedure struct {
	Name         string
	Model        EvaluationModel
	Init         string // constructor function
	Declarations string // struct field lines
	Body         string // Evaluate function
	Accessor     string // GetVar function, empty when no image-scope vars
}

// Source renders the procedure as a complete Go source file. The result
// is valid but unformatted; the loader runs it through the imports
// formatter before execution.
func (cp *CompiledProcedure) Source() string {
	var b strings.Builder
	b.WriteString("package main\n\n")
	b.WriteString("import (\n")
	b.WriteString("\t\"math\"\n\n")
	fmt.Fprintf(&b, "\t%s %q\n", RuntimeAlias, RuntimeImportPath)
	b.WriteString(")\n\n")

	fmt.Fprintf(&b, "type %s struct {\n", cp.Name)
	fmt.Fprintf(&b, "\trt *%s.Env\n", RuntimeAlias)
	if cp.Declarations != "" {
		for _, line := range strings.Split(cp.Declarations, "\n") {
			b.WriteString("\t" + line + "\n")
		}
	}
	b.WriteString("}\n\n")

	b.WriteString(cp.Init)
	b.WriteString("\n\n")
	b.WriteString(cp.Body)
	if cp.Accessor != "" {
		b.WriteString("\n\n")
		b.WriteString(cp.Accessor)
	}
	b.WriteString("\n")
	return b.String()
}
