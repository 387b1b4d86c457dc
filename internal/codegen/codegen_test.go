package codegen_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jdries/jaitools/internal/analyzer"
	"github.com/jdries/jaitools/internal/ast"
	"github.com/jdries/jaitools/internal/codegen"
	"github.com/jdries/jaitools/internal/lexer"
	"github.com/jdries/jaitools/internal/parser"
	"github.com/jdries/jaitools/pkg/runtime"
)

type scriptOptions struct {
	model    codegen.EvaluationModel
	sources  []string
	provided []string
}

// lowerScript parses and annotates a script with "dest" as the only
// destination, then compiles it.
func lowerScript(t *testing.T, script string, opts scriptOptions) (*codegen.CompiledProcedure, error) {
	t.Helper()
	prog := annotate(t, script, opts)
	return codegen.Compile(prog, opts.model, "Proc", runtime.DefaultFunctions(), runtime.DefaultConstants())
}

func annotate(t *testing.T, script string, opts scriptOptions) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(script))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	a := analyzer.New(analyzer.Options{
		SourceImages: opts.sources,
		DestImages:   []string{"dest"},
		Provided:     opts.provided,
		Constants:    runtime.DefaultConstants(),
		Model:        opts.model,
	})
	if errs := a.Analyze(prog); len(errs) > 0 {
		t.Fatalf("analyze errors: %v", errs)
	}
	return prog
}

func mustLower(t *testing.T, script string, opts scriptOptions) *codegen.CompiledProcedure {
	t.Helper()
	cp, err := lowerScript(t, script, opts)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return cp
}

func TestDirectModelWritesDestination(t *testing.T) {
	cp := mustLower(t, "dest = 42;", scriptOptions{model: codegen.Direct})
	if !strings.Contains(cp.Body, `p.rt.WritePixel("dest", x, y, band, 42.0)`) {
		t.Errorf("direct body should contain an explicit destination write, got:\n%s", cp.Body)
	}
	if strings.Contains(cp.Body, "float64 {") {
		t.Error("direct body should not return a value")
	}
}

func TestIndirectModelReturnsValue(t *testing.T) {
	cp := mustLower(t, "dest = 42;", scriptOptions{model: codegen.Indirect})
	if !strings.Contains(cp.Body, "float64 {") {
		t.Errorf("indirect body should return float64, got signature in:\n%s", cp.Body)
	}
	lines := strings.Split(strings.TrimSuffix(cp.Body, "\n}"), "\n")
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "return ") {
		t.Errorf("indirect body should end in a value return, got %q", last)
	}
}

func TestInvalidEvaluationModel(t *testing.T) {
	prog := annotate(t, "dest = 1;", scriptOptions{model: codegen.Direct})
	_, err := codegen.Compile(prog, codegen.EvaluationModel(7), "Proc",
		runtime.DefaultFunctions(), runtime.DefaultConstants())
	var modelErr *codegen.InvalidEvaluationModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("err = %v, want InvalidEvaluationModelError", err)
	}
}

func TestUndefinedFunctionAbortsCompile(t *testing.T) {
	// atan2 exists only with two arguments.
	_, err := lowerScript(t, "dest = atan2(1, 2, 3);", scriptOptions{model: codegen.Direct})
	var fnErr *codegen.UndefinedFunctionError
	if !errors.As(err, &fnErr) {
		t.Fatalf("err = %v, want UndefinedFunctionError", err)
	}
	if fnErr.Name != "atan2" || fnErr.Arity != 3 {
		t.Errorf("got (%q, %d), want (atan2, 3)", fnErr.Name, fnErr.Arity)
	}
}

func TestConditionalArityError(t *testing.T) {
	_, err := lowerScript(t, "dest = if(1, 2, 3, 4, 5);", scriptOptions{model: codegen.Direct})
	var arityErr *codegen.InvalidConditionalArityError
	if !errors.As(err, &arityErr) {
		t.Fatalf("err = %v, want InvalidConditionalArityError", err)
	}
	if arityErr.Count != 5 {
		t.Errorf("Count = %d, want 5", arityErr.Count)
	}
}

func TestNaNConstantRendersNatively(t *testing.T) {
	cp := mustLower(t, "dest = NaN;", scriptOptions{model: codegen.Direct})
	if !strings.Contains(cp.Body, "math.NaN()") {
		t.Errorf("NaN should lower to math.NaN(), got:\n%s", cp.Body)
	}
	if strings.Contains(cp.Body, `"NaN"`) {
		t.Error("NaN must never render as the text \"NaN\"")
	}
}

func TestIntegerLiteralGainsFraction(t *testing.T) {
	cp := mustLower(t, "dest = 10;", scriptOptions{model: codegen.Direct})
	if !strings.Contains(cp.Body, "10.0") {
		t.Errorf("integer literal should gain a fractional marker, got:\n%s", cp.Body)
	}
}

func TestRelationalLowersToRuntimeCall(t *testing.T) {
	cp := mustLower(t, "dest = 5 > 3;", scriptOptions{model: codegen.Direct})
	if !strings.Contains(cp.Body, "jifrt.GT(5.0, 3.0)") {
		t.Errorf("relational operator should lower to a runtime call, got:\n%s", cp.Body)
	}
}

func TestPowerAndModuloLowerToCalls(t *testing.T) {
	cp := mustLower(t, "dest = 2 ^ 3 + 7 % 4;", scriptOptions{model: codegen.Direct})
	if !strings.Contains(cp.Body, "math.Pow(2.0, 3.0)") {
		t.Errorf("power should lower to a call, got:\n%s", cp.Body)
	}
	if !strings.Contains(cp.Body, "math.Mod(7.0, 4.0)") {
		t.Errorf("modulo should lower to a call, got:\n%s", cp.Body)
	}
}

func TestNeighborReferenceCoordinates(t *testing.T) {
	cp := mustLower(t, "dest = src[-1, @5];", scriptOptions{
		model:   codegen.Direct,
		sources: []string{"src"},
	})
	want := `p.rt.ReadPixel("src", x + (-(1.0)), 5.0, band)`
	if !strings.Contains(cp.Body, want) {
		t.Errorf("neighbor read not found, want %q in:\n%s", want, cp.Body)
	}
}

func TestBareSourceReadsCurrentPixel(t *testing.T) {
	cp := mustLower(t, "dest = src;", scriptOptions{
		model:   codegen.Direct,
		sources: []string{"src"},
	})
	if !strings.Contains(cp.Body, `p.rt.ReadPixel("src", x, y, band)`) {
		t.Errorf("bare source reference should read the current pixel, got:\n%s", cp.Body)
	}
}

func TestDuplicateDeclarationEmitsOneField(t *testing.T) {
	cp := mustLower(t, "var a = 1; var a = 2; dest = a;", scriptOptions{model: codegen.Direct})
	if got := strings.Count(cp.Declarations, "a float64"); got != 1 {
		t.Errorf("declarations contain %d fields for a, want 1:\n%s", got, cp.Declarations)
	}
	// The duplicate's initializer still runs.
	if got := strings.Count(cp.Init, "p.a = "); got != 2 {
		t.Errorf("init contains %d assignments for a, want 2:\n%s", got, cp.Init)
	}
}

func TestAccessorChainInDeclarationOrder(t *testing.T) {
	cp := mustLower(t, "var a = 1; var b = 2; dest = a + b;", scriptOptions{model: codegen.Direct})
	ia := strings.Index(cp.Accessor, `if name == "a"`)
	ib := strings.Index(cp.Accessor, `if name == "b"`)
	if ia < 0 || ib < 0 || ia > ib {
		t.Errorf("accessor should compare names in declaration order:\n%s", cp.Accessor)
	}
	if !strings.Contains(cp.Accessor, "return 0, false") {
		t.Errorf("accessor should end in the not-found sentinel:\n%s", cp.Accessor)
	}
}

func TestNoAccessorWithoutImageScopeVars(t *testing.T) {
	cp := mustLower(t, "dest = 1;", scriptOptions{model: codegen.Direct})
	if cp.Accessor != "" {
		t.Errorf("accessor should be empty without image-scope variables:\n%s", cp.Accessor)
	}
}

func TestProvidedVariableInitialization(t *testing.T) {
	cp := mustLower(t, "dest = thr * 2;", scriptOptions{
		model:    codegen.Direct,
		provided: []string{"thr"},
	})
	if !strings.Contains(cp.Declarations, "thr float64") {
		t.Errorf("provided variable should become a field:\n%s", cp.Declarations)
	}
	if !strings.Contains(cp.Init, `p.thr = rt.Provided("thr")`) {
		t.Errorf("provided variable should be initialized from the environment:\n%s", cp.Init)
	}
}

func TestConditionalHoistsBranchBlock(t *testing.T) {
	cp := mustLower(t, "dest = if(1, 2, 3);", scriptOptions{model: codegen.Direct})
	if !strings.Contains(cp.Body, "jifrt.Sign(1.0)") {
		t.Errorf("conditional should compute the sign of its first argument:\n%s", cp.Body)
	}
	if !strings.Contains(cp.Body, "} else {") {
		t.Errorf("three-argument conditional should branch:\n%s", cp.Body)
	}
}

func TestEmptyProgramRejected(t *testing.T) {
	if _, err := codegen.Compile(&ast.Program{}, codegen.Direct, "Proc",
		runtime.DefaultFunctions(), runtime.DefaultConstants()); err == nil {
		t.Fatal("compiling an empty program should fail")
	}
}
