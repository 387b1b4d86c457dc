package codegen

import "fmt"

// UndefinedFunctionError reports a call to a function the resolver does
// not know under the requested arity. Fatal for the whole compile.
type UndefinedFunctionError struct {
	Name  string
	Arity int
}

func (e *UndefinedFunctionError) Error() string {
	return fmt.Sprintf("undefined function %s with %d argument(s)", e.Name, e.Arity)
}

// InvalidConditionalArityError reports a sign-based conditional with an
// argument count outside 1..4.
type InvalidConditionalArityError struct {
	Count int
}

func (e *InvalidConditionalArityError) Error() string {
	return fmt.Sprintf("conditional takes 1 to 4 arguments, got %d", e.Count)
}

// InvalidEvaluationModelError reports an unrecognized evaluation model.
type InvalidEvaluationModelError struct {
	Model EvaluationModel
}

func (e *InvalidEvaluationModelError) Error() string {
	return fmt.Sprintf("invalid evaluation model %d", int(e.Model))
}
