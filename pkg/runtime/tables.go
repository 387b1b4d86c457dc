package runtime

import (
	"math"

	"github.com/jdries/jaitools/internal/codegen"
)

type tableEntry struct {
	arity    int // exact arity, or minimum arity for variadic entries
	variadic bool
	ident    string
}

// FunctionTable maps (script function name, argument count) to the
// qualified Go identifier the generated code calls. It implements the
// code generator's function resolver.
type FunctionTable struct {
	entries map[string][]tableEntry
}

func (t *FunctionTable) Lookup(name string, arity int) (codegen.RuntimeFunction, bool) {
	for _, e := range t.entries[name] {
		if e.variadic && arity >= e.arity {
			return codegen.RuntimeFunction{Ident: e.ident, Variadic: true}, true
		}
		if !e.variadic && arity == e.arity {
			return codegen.RuntimeFunction{Ident: e.ident}, true
		}
	}
	return codegen.RuntimeFunction{}, false
}

func (t *FunctionTable) add(name string, arity int, variadic bool, ident string) {
	t.entries[name] = append(t.entries[name], tableEntry{arity: arity, variadic: variadic, ident: ident})
}

// DefaultFunctions returns the standard Jiffle function table.
func DefaultFunctions() *FunctionTable {
	t := &FunctionTable{entries: make(map[string][]tableEntry)}

	q := func(name string) string { return codegen.RuntimeAlias + "." + name }

	// Plain math, passed straight through.
	t.add("abs", 1, false, "math.Abs")
	t.add("acos", 1, false, "math.Acos")
	t.add("asin", 1, false, "math.Asin")
	t.add("atan", 1, false, "math.Atan")
	t.add("atan2", 2, false, "math.Atan2")
	t.add("ceil", 1, false, "math.Ceil")
	t.add("cos", 1, false, "math.Cos")
	t.add("exp", 1, false, "math.Exp")
	t.add("floor", 1, false, "math.Floor")
	t.add("log", 1, false, "math.Log")
	t.add("pow", 2, false, "math.Pow")
	t.add("round", 1, false, "math.Round")
	t.add("sin", 1, false, "math.Sin")
	t.add("sqrt", 1, false, "math.Sqrt")
	t.add("tan", 1, false, "math.Tan")

	// Runtime-backed forms.
	t.add("log", 2, false, q("LogBase"))
	t.add("round", 2, false, q("RoundTo"))
	t.add("degToRad", 1, false, q("DegToRad"))
	t.add("radToDeg", 1, false, q("RadToDeg"))
	t.add("rand", 1, false, q("Rand"))
	t.add("randInt", 1, false, q("RandInt"))
	t.add("isnull", 1, false, q("IsNull"))
	t.add("sign", 1, false, q("Sign"))

	// Logical and relational operators lower to these under their
	// canonical names.
	t.add("OR", 2, false, q("OR"))
	t.add("AND", 2, false, q("AND"))
	t.add("XOR", 2, false, q("XOR"))
	t.add("NOT", 1, false, q("NOT"))
	t.add("GT", 2, false, q("GT"))
	t.add("GE", 2, false, q("GE"))
	t.add("LT", 2, false, q("LT"))
	t.add("LE", 2, false, q("LE"))
	t.add("EQ", 2, false, q("EQ"))
	t.add("NE", 2, false, q("NE"))

	// Aggregates, variadic at one or more arguments.
	t.add("max", 1, true, q("Max"))
	t.add("min", 1, true, q("Min"))
	t.add("sum", 1, true, q("Sum"))
	t.add("mean", 1, true, q("Mean"))
	t.add("median", 1, true, q("Median"))
	t.add("mode", 1, true, q("Mode"))
	t.add("range", 1, true, q("Range"))

	return t
}

// ConstantTable maps named constants to their values. It implements
// both the code generator's constant lookup and the analyzer's
// constant set.
type ConstantTable struct {
	values map[string]float64
}

func (t *ConstantTable) ValueOf(name string) (float64, bool) {
	v, ok := t.values[name]
	return v, ok
}

func (t *ConstantTable) Has(name string) bool {
	_, ok := t.values[name]
	return ok
}

// DefaultConstants returns the standard constant table. NaN is here so
// scripts can name it; the generator renders it as the native
// not-a-number value, never the text "NaN".
func DefaultConstants() *ConstantTable {
	return &ConstantTable{values: map[string]float64{
		"PI":  math.Pi,
		"E":   math.E,
		"NaN": math.NaN(),
		"Inf": math.Inf(1),
	}}
}
