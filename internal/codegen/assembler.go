package codegen

import (
	"fmt"
	"strings"

	"github.com/jdries/jaitools/internal/ast"
)

// Compile drives one traversal of the annotated tree and assembles the
// four output segments into a CompiledProcedure. Any unresolved
// function, malformed conditional arity, or unrecognized evaluation
// model aborts the whole compile; no partial result is produced.
func Compile(program *ast.Program, model EvaluationModel, name string, fns FunctionResolver, consts ConstantLookup) (*CompiledProcedure, error) {
	if model != Direct && model != Indirect {
		return nil, &InvalidEvaluationModelError{Model: model}
	}

	registry := NewScopeRegistry()
	tr := newTranslator(fns, consts, NewTempAllocator(), model)

	var fields []string
	var initLines []string
	var bodyLines []string

	for _, stmt := range program.Statements {
		if decl, ok := stmt.(*ast.VarDeclaration); ok {
			if registry.Declare(decl.Name.Value) {
				fields = append(fields, decl.Name.Value+" float64")
			}
			// A duplicate declaration re-emits no field, but its
			// initializer still runs.
			if decl.Init != nil {
				res, err := tr.lowerExpression(decl.Init)
				if err != nil {
					return nil, err
				}
				initLines = append(initLines, res.stmts...)
				initLines = append(initLines, "p."+decl.Name.Value+" = "+res.expr)
			}
			continue
		}
		lines, err := tr.lowerStatement(stmt)
		if err != nil {
			return nil, err
		}
		bodyLines = append(bodyLines, lines...)
	}

	if len(bodyLines) == 0 {
		return nil, fmt.Errorf("script has no statements")
	}
	if model == Indirect && !strings.HasPrefix(bodyLines[len(bodyLines)-1], "return ") {
		bodyLines = append(bodyLines, "return math.NaN()")
	}

	// Provided variables become fields initialized from the environment,
	// ahead of the declared image-scope variables they may feed.
	providedFields := make([]string, 0, len(tr.provided))
	providedInit := make([]string, 0, len(tr.provided))
	for _, p := range tr.provided {
		providedFields = append(providedFields, p+" float64")
		providedInit = append(providedInit, fmt.Sprintf("p.%s = rt.Provided(%q)", p, p))
	}

	cp := &CompiledProcedure{
		Name:         name,
		Model:        model,
		Declarations: strings.Join(append(providedFields, fields...), "\n"),
		Init:         renderInit(name, append(providedInit, initLines...)),
		Body:         renderBody(name, model, bodyLines),
	}
	if !registry.Empty() {
		cp.Accessor = renderAccessor(name, registry)
	}
	return cp, nil
}

func renderInit(name string, lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func New%s(rt *%s.Env) *%s {\n", name, RuntimeAlias, name)
	fmt.Fprintf(&b, "p := &%s{rt: rt}\n", name)
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	b.WriteString("return p\n}")
	return b.String()
}

func renderBody(name string, model EvaluationModel, lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func (p *%s) Evaluate(x, y float64, band int)", name)
	if model == Indirect {
		b.WriteString(" float64")
	}
	b.WriteString(" {\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	b.WriteString("}")
	return b.String()
}

// renderAccessor synthesizes the image-scope variable accessor: an
// ordered chain over the registered names in declaration order. The
// not-found sentinel is ok=false.
func renderAccessor(name string, registry *ScopeRegistry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func (p *%s) GetVar(name string) (float64, bool) {\n", name)
	for _, v := range registry.Names() {
		fmt.Fprintf(&b, "if name == %q {\nreturn p.%s, true\n}\n", v, v)
	}
	b.WriteString("return 0, false\n}")
	return b.String()
}
