package pipeline

import (
	"github.com/jdries/jaitools/internal/analyzer"
	"github.com/jdries/jaitools/internal/codegen"
	"github.com/jdries/jaitools/internal/diagnostics"
	"github.com/jdries/jaitools/internal/lexer"
	"github.com/jdries/jaitools/internal/parser"
	"github.com/jdries/jaitools/internal/token"
)

// ParseProcessor lexes and parses the script into ctx.Program.
type ParseProcessor struct{}

func (ParseProcessor) Process(ctx *Context) *Context {
	p := parser.New(lexer.New(ctx.Script))
	ctx.Program = p.ParseProgram()
	ctx.Errors = append(ctx.Errors, p.Errors()...)
	return ctx
}

// AnalyzeProcessor classifies identifier scopes and validates the
// program against the image bindings and evaluation model.
type AnalyzeProcessor struct{}

func (AnalyzeProcessor) Process(ctx *Context) *Context {
	if ctx.Program == nil || len(ctx.Errors) > 0 {
		return ctx
	}
	a := analyzer.New(analyzer.Options{
		SourceImages: ctx.SourceImages,
		DestImages:   ctx.DestImages,
		Provided:     ctx.Provided,
		Constants:    ctx.Constants,
		Model:        ctx.Model,
	})
	ctx.Errors = append(ctx.Errors, a.Analyze(ctx.Program)...)
	return ctx
}

// CompileProcessor lowers the annotated tree into a compiled procedure.
type CompileProcessor struct{}

func (CompileProcessor) Process(ctx *Context) *Context {
	if ctx.Program == nil || len(ctx.Errors) > 0 {
		return ctx
	}
	cp, err := codegen.Compile(ctx.Program, ctx.Model, ctx.Name, ctx.Functions, ctx.Constants)
	if err != nil {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrG001, token.Token{}, err.Error()))
		return ctx
	}
	ctx.Compiled = cp
	return ctx
}
