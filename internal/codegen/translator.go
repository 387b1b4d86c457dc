package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jdries/jaitools/internal/ast"
	"github.com/jdries/jaitools/internal/token"
)

// exprResult is an expression lowered from the tree: a value expression
// plus the statements that must run immediately before any statement
// consuming it. Nested hoists keep outer-wraps-inner, left-to-right
// order across sibling operands.
type exprResult struct {
	stmts []string
	expr  string
}

// opFunctions maps logical and relational operators to their canonical
// runtime function names. These never lower to native Go boolean
// operators: results must be representable as numeric 0/1.
var opFunctions = map[token.Type]string{
	token.OR:  "OR",
	token.AND: "AND",
	token.XOR: "XOR",
	token.GT:  "GT",
	token.GE:  "GE",
	token.LT:  "LT",
	token.LE:  "LE",
	token.EQ:  "EQ",
	token.NEQ: "NE",
}

var arithOps = map[token.Type]string{
	token.PLUS:     "+",
	token.MINUS:    "-",
	token.ASTERISK: "*",
	token.SLASH:    "/",
}

type translator struct {
	fns    FunctionResolver
	consts ConstantLookup
	temps  *TempAllocator
	model  EvaluationModel

	provided     []string
	providedSeen map[string]bool
}

func newTranslator(fns FunctionResolver, consts ConstantLookup, temps *TempAllocator, model EvaluationModel) *translator {
	return &translator{
		fns:          fns,
		consts:       consts,
		temps:        temps,
		model:        model,
		providedSeen: make(map[string]bool),
	}
}

func (t *translator) resolve(name string, arity int) (RuntimeFunction, error) {
	fn, ok := t.fns.Lookup(name, arity)
	if !ok {
		return RuntimeFunction{}, &UndefinedFunctionError{Name: name, Arity: arity}
	}
	return fn, nil
}

// lowerStatement lowers one top-level statement into emitted lines.
func (t *translator) lowerStatement(stmt ast.Statement) ([]string, error) {
	switch s := stmt.(type) {
	case *ast.AssignStatement:
		return t.lowerAssign(s)
	case *ast.ImageWriteStatement:
		return t.lowerImageWrite(s)
	case *ast.ExpressionStatement:
		res, err := t.lowerExpression(s.Expression)
		if err != nil {
			return nil, err
		}
		return append(res.stmts, "_ = "+res.expr), nil
	}
	return nil, fmt.Errorf("cannot lower statement node %T", stmt)
}

func (t *translator) lowerAssign(s *ast.AssignStatement) ([]string, error) {
	rhs, err := t.lowerExpression(s.Value)
	if err != nil {
		return nil, err
	}
	target, err := t.identText(s.Target)
	if err != nil {
		return nil, err
	}

	lines := rhs.stmts
	switch {
	case s.NewVar:
		lines = append(lines, target+" := "+rhs.expr, "_ = "+target)
	case s.Operator == token.MOD_ASSIGN:
		// No %= on float64 in the target language.
		lines = append(lines, fmt.Sprintf("%s = math.Mod(%s, %s)", target, target, rhs.expr))
	default:
		lines = append(lines, target+" "+assignOp(s.Operator)+" "+rhs.expr)
	}
	return lines, nil
}

func assignOp(op token.Type) string {
	switch op {
	case token.PLUS_ASSIGN:
		return "+="
	case token.MINUS_ASSIGN:
		return "-="
	case token.TIMES_ASSIGN:
		return "*="
	case token.DIV_ASSIGN:
		return "/="
	}
	return "="
}

func (t *translator) lowerImageWrite(s *ast.ImageWriteStatement) ([]string, error) {
	res, err := t.lowerExpression(s.Value)
	if err != nil {
		return nil, err
	}
	if t.model == Indirect {
		return append(res.stmts, "return "+res.expr), nil
	}
	return append(res.stmts, fmt.Sprintf("p.rt.WritePixel(%q, x, y, band, %s)", s.Dest.Value, res.expr)), nil
}

func (t *translator) lowerExpression(expr ast.Expression) (exprResult, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return t.lowerIdentifier(e)
	case *ast.IntegerLiteral:
		// No integer type in the pixel value model.
		return exprResult{expr: strconv.FormatInt(e.Value, 10) + ".0"}, nil
	case *ast.FloatLiteral:
		return exprResult{expr: formatFloat(e.Value)}, nil
	case *ast.BinaryExpression:
		return t.lowerBinary(e)
	case *ast.PrefixExpression:
		return t.lowerPrefix(e)
	case *ast.IncDecExpression:
		return t.lowerIncDec(e)
	case *ast.ParenExpression:
		inner, err := t.lowerExpression(e.Inner)
		if err != nil {
			return exprResult{}, err
		}
		return exprResult{stmts: inner.stmts, expr: "(" + inner.expr + ")"}, nil
	case *ast.CallExpression:
		return t.lowerCall(e)
	case *ast.ConditionalExpression:
		return t.lowerConditional(e)
	case *ast.NeighborRef:
		return t.lowerNeighborRef(e)
	}
	return exprResult{}, fmt.Errorf("cannot lower expression node %T", expr)
}

func (t *translator) lowerIdentifier(id *ast.Identifier) (exprResult, error) {
	switch id.Scope {
	case ast.ScopeSource:
		// A bare source reference reads the current pixel and band.
		return exprResult{expr: fmt.Sprintf("p.rt.ReadPixel(%q, x, y, band)", id.Value)}, nil
	case ast.ScopeConstant:
		v, ok := t.consts.ValueOf(id.Value)
		if !ok {
			return exprResult{}, fmt.Errorf("unknown constant %q", id.Value)
		}
		return exprResult{expr: formatFloat(v)}, nil
	}
	text, err := t.identText(id)
	if err != nil {
		return exprResult{}, err
	}
	return exprResult{expr: text}, nil
}

func (t *translator) identText(id *ast.Identifier) (string, error) {
	switch id.Scope {
	case ast.ScopePixel:
		return id.Value, nil
	case ast.ScopeImage:
		return "p." + id.Value, nil
	case ast.ScopeProvided:
		if !t.providedSeen[id.Value] {
			t.providedSeen[id.Value] = true
			t.provided = append(t.provided, id.Value)
		}
		return "p." + id.Value, nil
	}
	return "", fmt.Errorf("variable %q has scope %s", id.Value, id.Scope)
}

func (t *translator) lowerBinary(e *ast.BinaryExpression) (exprResult, error) {
	left, err := t.lowerExpression(e.Left)
	if err != nil {
		return exprResult{}, err
	}
	right, err := t.lowerExpression(e.Right)
	if err != nil {
		return exprResult{}, err
	}
	stmts := append(left.stmts, right.stmts...)

	if op, ok := arithOps[e.Operator]; ok {
		return exprResult{stmts: stmts, expr: left.expr + " " + op + " " + right.expr}, nil
	}
	if e.Operator == token.CARET {
		fn, err := t.resolve("pow", 2)
		if err != nil {
			return exprResult{}, err
		}
		return exprResult{stmts: stmts, expr: fmt.Sprintf("%s(%s, %s)", fn.Ident, left.expr, right.expr)}, nil
	}
	if e.Operator == token.PERCENT {
		// No float64 % in the target language.
		return exprResult{stmts: stmts, expr: fmt.Sprintf("math.Mod(%s, %s)", left.expr, right.expr)}, nil
	}
	if name, ok := opFunctions[e.Operator]; ok {
		fn, err := t.resolve(name, 2)
		if err != nil {
			return exprResult{}, err
		}
		return exprResult{stmts: stmts, expr: fmt.Sprintf("%s(%s, %s)", fn.Ident, left.expr, right.expr)}, nil
	}
	return exprResult{}, fmt.Errorf("cannot lower binary operator %s", e.Operator)
}

func (t *translator) lowerPrefix(e *ast.PrefixExpression) (exprResult, error) {
	operand, err := t.lowerExpression(e.Operand)
	if err != nil {
		return exprResult{}, err
	}
	switch e.Operator {
	case token.MINUS:
		return exprResult{stmts: operand.stmts, expr: "-(" + operand.expr + ")"}, nil
	case token.PLUS:
		return operand, nil
	case token.NOT:
		fn, err := t.resolve("NOT", 1)
		if err != nil {
			return exprResult{}, err
		}
		return exprResult{stmts: operand.stmts, expr: fmt.Sprintf("%s(%s)", fn.Ident, operand.expr)}, nil
	}
	return exprResult{}, fmt.Errorf("cannot lower prefix operator %s", e.Operator)
}

// lowerIncDec hoists the mutation: the target language has no
// expression-position increment, so the old value is captured in a temp
// for the postfix forms.
func (t *translator) lowerIncDec(e *ast.IncDecExpression) (exprResult, error) {
	target, err := t.identText(e.Operand)
	if err != nil {
		return exprResult{}, err
	}
	mut := target + "++"
	if e.Operator == token.DECR {
		mut = target + "--"
	}
	if e.Prefix {
		return exprResult{stmts: []string{mut}, expr: target}, nil
	}
	old := t.temps.Fresh("old")
	return exprResult{stmts: []string{old + " := " + target, mut}, expr: old}, nil
}

func (t *translator) lowerCall(e *ast.CallExpression) (exprResult, error) {
	fn, err := t.resolve(e.Name, len(e.Args))
	if err != nil {
		return exprResult{}, err
	}
	var stmts []string
	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		res, err := t.lowerExpression(arg)
		if err != nil {
			return exprResult{}, err
		}
		stmts = append(stmts, res.stmts...)
		args[i] = res.expr
	}
	return exprResult{stmts: stmts, expr: fn.Ident + "(" + strings.Join(args, ", ") + ")"}, nil
}

// lowerConditional lowers the sign-based conditional. It is never a pure
// expression: the branch block is hoisted and the fresh result temp is
// the value. Each branch argument's own hoisted statements run inside
// its branch, just before the result assignment.
func (t *translator) lowerConditional(e *ast.ConditionalExpression) (exprResult, error) {
	if len(e.Args) < 1 || len(e.Args) > 4 {
		return exprResult{}, &InvalidConditionalArityError{Count: len(e.Args)}
	}

	sign, err := t.resolve("sign", 1)
	if err != nil {
		return exprResult{}, err
	}
	condArg, err := t.lowerExpression(e.Args[0])
	if err != nil {
		return exprResult{}, err
	}

	branches := make([]exprResult, 0, 3)
	for _, arg := range e.Args[1:] {
		res, err := t.lowerExpression(arg)
		if err != nil {
			return exprResult{}, err
		}
		branches = append(branches, res)
	}

	cond := t.temps.Fresh("cond")
	result := t.temps.Fresh("res")

	stmts := condArg.stmts
	stmts = append(stmts,
		fmt.Sprintf("%s := %s(%s)", cond, sign.Ident, condArg.expr),
		result+" := 0.0",
	)

	branch := func(res exprResult) string {
		lines := append(append([]string{}, res.stmts...), result+" = "+res.expr)
		return strings.Join(lines, "\n")
	}

	switch len(e.Args) {
	case 1:
		stmts = append(stmts, fmt.Sprintf("if %s != 0 {\n%s = 1.0\n}", cond, result))
	case 2:
		stmts = append(stmts, fmt.Sprintf("if %s != 0 {\n%s\n}", cond, branch(branches[0])))
	case 3:
		stmts = append(stmts, fmt.Sprintf("if %s != 0 {\n%s\n} else {\n%s\n}",
			cond, branch(branches[0]), branch(branches[1])))
	case 4:
		stmts = append(stmts, fmt.Sprintf("if %s > 0 {\n%s\n} else if %s == 0 {\n%s\n} else {\n%s\n}",
			cond, branch(branches[0]), cond, branch(branches[1]), branch(branches[2])))
	}

	return exprResult{stmts: stmts, expr: result}, nil
}

// lowerNeighborRef reads a source image at a per-axis absolute or
// relative coordinate. Coordinates are truncated to integers by the
// runtime read, not rounded.
func (t *translator) lowerNeighborRef(e *ast.NeighborRef) (exprResult, error) {
	xres, err := t.lowerExpression(e.X.Value)
	if err != nil {
		return exprResult{}, err
	}
	yres, err := t.lowerExpression(e.Y.Value)
	if err != nil {
		return exprResult{}, err
	}

	cx := xres.expr
	if !e.X.Absolute {
		cx = "x + (" + cx + ")"
	}
	cy := yres.expr
	if !e.Y.Absolute {
		cy = "y + (" + cy + ")"
	}

	stmts := append(xres.stmts, yres.stmts...)
	return exprResult{
		stmts: stmts,
		expr:  fmt.Sprintf("p.rt.ReadPixel(%q, %s, %s, band)", e.Image.Value, cx, cy),
	}, nil
}

// formatFloat renders a value as a Go literal. NaN and the infinities
// have no literal form and render as math calls; whole numbers keep a
// fractional marker.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "math.NaN()"
	case math.IsInf(v, 1):
		return "math.Inf(1)"
	case math.IsInf(v, -1):
		return "math.Inf(-1)"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
