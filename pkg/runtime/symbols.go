package runtime

import (
	"reflect"

	"github.com/jdries/jaitools/internal/codegen"
)

// Symbols exposes this package to interpreted procedure code, keyed the
// way yaegi expects: import path plus package name.
func Symbols() map[string]map[string]reflect.Value {
	return map[string]map[string]reflect.Value{
		codegen.RuntimeImportPath + "/runtime": {
			"Env": reflect.ValueOf((*Env)(nil)),

			"OR":  reflect.ValueOf(OR),
			"AND": reflect.ValueOf(AND),
			"XOR": reflect.ValueOf(XOR),
			"NOT": reflect.ValueOf(NOT),
			"GT":  reflect.ValueOf(GT),
			"GE":  reflect.ValueOf(GE),
			"LT":  reflect.ValueOf(LT),
			"LE":  reflect.ValueOf(LE),
			"EQ":  reflect.ValueOf(EQ),
			"NE":  reflect.ValueOf(NE),

			"Sign":     reflect.ValueOf(Sign),
			"IsNull":   reflect.ValueOf(IsNull),
			"LogBase":  reflect.ValueOf(LogBase),
			"RoundTo":  reflect.ValueOf(RoundTo),
			"DegToRad": reflect.ValueOf(DegToRad),
			"RadToDeg": reflect.ValueOf(RadToDeg),
			"Rand":     reflect.ValueOf(Rand),
			"RandInt":  reflect.ValueOf(RandInt),

			"Max":    reflect.ValueOf(Max),
			"Min":    reflect.ValueOf(Min),
			"Sum":    reflect.ValueOf(Sum),
			"Mean":   reflect.ValueOf(Mean),
			"Median": reflect.ValueOf(Median),
			"Mode":   reflect.ValueOf(Mode),
			"Range":  reflect.ValueOf(Range),
		},
	}
}
