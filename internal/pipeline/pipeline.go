// Package pipeline chains the compilation stages: lex/parse, scope
// analysis, code generation. Each stage appends diagnostics instead of
// stopping the run, so a caller can report everything at once.
package pipeline

import (
	"github.com/jdries/jaitools/internal/ast"
	"github.com/jdries/jaitools/internal/codegen"
	"github.com/jdries/jaitools/internal/diagnostics"
)

// Context carries one script through the stages.
type Context struct {
	Script string
	Name   string
	Model  codegen.EvaluationModel

	SourceImages []string
	DestImages   []string
	Provided     []string

	Functions codegen.FunctionResolver
	Constants ConstantTable

	Program  *ast.Program
	Compiled *codegen.CompiledProcedure

	Errors []diagnostics.Error
}

// ConstantTable is what the stages need from a constant table: value
// lookup for the generator, name membership for the analyzer.
type ConstantTable interface {
	codegen.ConstantLookup
	Has(name string) bool
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline is a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the stages in order. Stages observe ctx.Errors and skip
// themselves when earlier stages failed.
func (p *Pipeline) Run(ctx *Context) *Context {
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
