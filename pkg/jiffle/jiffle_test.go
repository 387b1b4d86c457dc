package jiffle_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/jdries/jaitools/pkg/jiffle"
	"github.com/jdries/jaitools/pkg/raster"
	"github.com/jdries/jaitools/pkg/runtime"
)

// evalExpr compiles "dest = <expr>;" under the indirect model and
// returns the value written to a 1x1 destination.
func evalExpr(t *testing.T, expr string) float64 {
	t.Helper()
	cs, err := jiffle.Compile("dest = "+expr+";", jiffle.Options{
		Model:      jiffle.Indirect,
		DestImages: []string{"dest"},
	})
	if err != nil {
		t.Fatalf("Compile(%q): %v", expr, err)
	}
	dest := raster.New(1, 1, 1)
	env := runtime.NewEnv()
	env.AddDest("dest", dest)
	if err := cs.Run(env); err != nil {
		t.Fatalf("Run(%q): %v", expr, err)
	}
	return dest.Get(0, 0, 0)
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"7 * 6", 42},
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"2 ^ 10", 1024},
		{"2 ^ 3 ^ 2", 512},
		{"10 % 3", 1},
		{"-4 + 1", -3},
		{"7 / 2", 3.5},
	}
	for _, c := range cases {
		if got := evalExpr(t, c.expr); got != c.want {
			t.Errorf("%s = %v, want %v", c.expr, got, c.want)
		}
	}
}

func TestLogicalAndRelational(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"3 > 2", 1},
		{"3 < 2", 0},
		{"2 == 2", 1},
		{"2 != 2", 0},
		{"1 && 0", 0},
		{"1 || 0", 1},
		{"1 ^^ 1", 0},
		{"!0", 1},
	}
	for _, c := range cases {
		if got := evalExpr(t, c.expr); got != c.want {
			t.Errorf("%s = %v, want %v", c.expr, got, c.want)
		}
	}
}

func TestConditional(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"if(5, 10, 20, 30)", 10},
		{"if(0, 10, 20, 30)", 20},
		{"if(-3, 10, 20, 30)", 30},
		{"if(5, 10, 20)", 10},
		{"if(-5, 10, 20)", 10},
		{"if(0, 10, 20)", 20},
		{"if(0, 99)", 0},
		{"if(4, 99)", 99},
		{"if(7)", 1},
		{"if(0)", 0},
		{"if(-2)", 1},
	}
	for _, c := range cases {
		if got := evalExpr(t, c.expr); got != c.want {
			t.Errorf("%s = %v, want %v", c.expr, got, c.want)
		}
	}
}

func TestFunctionsAndConstants(t *testing.T) {
	if got := evalExpr(t, "sqrt(16)"); got != 4 {
		t.Errorf("sqrt(16) = %v, want 4", got)
	}
	if got := evalExpr(t, "max(1, 9, 4)"); got != 9 {
		t.Errorf("max = %v, want 9", got)
	}
	if got := evalExpr(t, "PI"); got != math.Pi {
		t.Errorf("PI = %v, want %v", got, math.Pi)
	}
	if got := evalExpr(t, "NaN"); !math.IsNaN(got) {
		t.Errorf("NaN = %v, want NaN", got)
	}
	if got := evalExpr(t, "isnull(NaN)"); got != 1 {
		t.Errorf("isnull(NaN) = %v, want 1", got)
	}
}

func TestDirectModelRun(t *testing.T) {
	cs, err := jiffle.Compile("dest = src * 2;", jiffle.Options{
		Model:        jiffle.Direct,
		SourceImages: []string{"src"},
		DestImages:   []string{"dest"},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	src := raster.New(3, 2, 1)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			src.Set(x, y, 0, float64(y*3+x))
		}
	}
	dest := raster.New(3, 2, 1)

	env := runtime.NewEnv()
	env.AddSource("src", src)
	env.AddDest("dest", dest)
	if err := cs.Run(env); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			want := float64(y*3+x) * 2
			if got := dest.Get(x, y, 0); got != want {
				t.Errorf("dest(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestNeighborReference(t *testing.T) {
	cs, err := jiffle.Compile("dest = src[-1, @5];", jiffle.Options{
		Model:        jiffle.Direct,
		SourceImages: []string{"src"},
		DestImages:   []string{"dest"},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	src := raster.New(32, 32, 1)
	src.Set(9, 5, 0, 77)
	dest := raster.New(32, 32, 1)

	env := runtime.NewEnv()
	env.AddSource("src", src)
	env.AddDest("dest", dest)

	proc, err := cs.Prepare(env)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	// At (10, 20) the reference resolves to column 10-1 and the
	// absolute row 5.
	proc.Evaluate(10, 20, 0)
	if got := dest.Get(10, 20, 0); got != 77 {
		t.Errorf("dest(10,20) = %v, want 77", got)
	}
}

func TestImageScopeVariableAndAccessor(t *testing.T) {
	cs, err := jiffle.Compile("var total = 0; total += src; dest = total;", jiffle.Options{
		Model:        jiffle.Direct,
		SourceImages: []string{"src"},
		DestImages:   []string{"dest"},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	src := raster.New(2, 2, 1)
	src.Fill(3)
	dest := raster.New(2, 2, 1)

	env := runtime.NewEnv()
	env.AddSource("src", src)
	env.AddDest("dest", dest)

	proc, err := cs.Prepare(env)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			proc.Evaluate(float64(x), float64(y), 0)
		}
	}

	if got, ok := proc.GetVar("total"); !ok || got != 12 {
		t.Errorf("GetVar(total) = (%v, %v), want (12, true)", got, ok)
	}
	if _, ok := proc.GetVar("nosuch"); ok {
		t.Error("GetVar(nosuch) should report ok=false")
	}
	// The running total persists across pixels, so the last pixel
	// sees the full accumulated value.
	if got := dest.Get(1, 1, 0); got != 12 {
		t.Errorf("dest(1,1) = %v, want 12", got)
	}
}

func TestGetVarWithoutImageScopeVars(t *testing.T) {
	cs, err := jiffle.Compile("dest = 1;", jiffle.Options{
		Model:      jiffle.Direct,
		DestImages: []string{"dest"},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	env := runtime.NewEnv()
	env.AddDest("dest", raster.New(1, 1, 1))
	proc, err := cs.Prepare(env)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if _, ok := proc.GetVar("anything"); ok {
		t.Error("a procedure without image-scope variables should answer ok=false")
	}
}

func TestProvidedVariable(t *testing.T) {
	cs, err := jiffle.Compile("dest = src > thr;", jiffle.Options{
		Model:        jiffle.Direct,
		SourceImages: []string{"src"},
		DestImages:   []string{"dest"},
		Provided:     []string{"thr"},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	src := raster.New(2, 1, 1)
	src.Set(0, 0, 0, 1)
	src.Set(1, 0, 0, 9)
	dest := raster.New(2, 1, 1)

	env := runtime.NewEnv()
	env.AddSource("src", src)
	env.AddDest("dest", dest)
	env.SetProvided("thr", 5)
	if err := cs.Run(env); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := dest.Get(0, 0, 0); got != 0 {
		t.Errorf("dest(0,0) = %v, want 0", got)
	}
	if got := dest.Get(1, 0, 0); got != 1 {
		t.Errorf("dest(1,0) = %v, want 1", got)
	}
}

func TestSourceRendering(t *testing.T) {
	cs, err := jiffle.Compile("dest = src + 1;", jiffle.Options{
		Name:         "Brighten",
		Model:        jiffle.Direct,
		SourceImages: []string{"src"},
		DestImages:   []string{"dest"},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	src, err := cs.Source()
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	for _, want := range []string{"type Brighten struct", "func NewBrighten", "func (p *Brighten) Evaluate"} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source missing %q:\n%s", want, src)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name   string
		script string
		opts   jiffle.Options
	}{
		{"syntax", "dest = ;", jiffle.Options{Model: jiffle.Direct, DestImages: []string{"dest"}}},
		{"undefined variable", "dest = nothere;", jiffle.Options{Model: jiffle.Direct, DestImages: []string{"dest"}}},
		{"unknown function", "dest = atan2(1, 2, 3);", jiffle.Options{Model: jiffle.Direct, DestImages: []string{"dest"}}},
		{"indirect trailing write", "dest = 1; v = 2;", jiffle.Options{Model: jiffle.Indirect, DestImages: []string{"dest"}}},
	}
	for _, c := range cases {
		_, err := jiffle.Compile(c.script, c.opts)
		if err == nil {
			t.Errorf("%s: Compile succeeded, want error", c.name)
			continue
		}
		var ce *jiffle.CompileError
		if !errors.As(err, &ce) || len(ce.Diagnostics) == 0 {
			t.Errorf("%s: error %v should carry diagnostics", c.name, err)
		}
	}
}

func TestRunRequiresBoundDestination(t *testing.T) {
	cs, err := jiffle.Compile("dest = 1;", jiffle.Options{
		Model:      jiffle.Direct,
		DestImages: []string{"dest"},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := cs.Run(runtime.NewEnv()); err == nil {
		t.Fatal("Run with no bound destination should fail")
	}
}
