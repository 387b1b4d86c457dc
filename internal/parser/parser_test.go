package parser

import (
	"testing"

	"github.com/jdries/jaitools/internal/ast"
	"github.com/jdries/jaitools/internal/lexer"
	"github.com/jdries/jaitools/internal/token"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return prog
}

func TestParseAssignStatement(t *testing.T) {
	prog := parse(t, "a = 1 + 2 * 3;")
	if len(prog.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Statements))
	}
	stmt, ok := prog.Statements[0].(*ast.AssignStatement)
	if !ok {
		t.Fatalf("statement is %T, want AssignStatement", prog.Statements[0])
	}
	if stmt.Target.Value != "a" || stmt.Operator != token.ASSIGN {
		t.Errorf("got target %q op %s", stmt.Target.Value, stmt.Operator)
	}
	add, ok := stmt.Value.(*ast.BinaryExpression)
	if !ok || add.Operator != token.PLUS {
		t.Fatalf("value should be an addition, got %T", stmt.Value)
	}
	mul, ok := add.Right.(*ast.BinaryExpression)
	if !ok || mul.Operator != token.ASTERISK {
		t.Fatalf("multiplication should bind tighter than addition, got %T", add.Right)
	}
}

func TestParsePowerRightAssociative(t *testing.T) {
	prog := parse(t, "a = 2 ^ 3 ^ 2;")
	stmt := prog.Statements[0].(*ast.AssignStatement)
	outer := stmt.Value.(*ast.BinaryExpression)
	if outer.Operator != token.CARET {
		t.Fatalf("outer operator = %s, want ^", outer.Operator)
	}
	if _, ok := outer.Right.(*ast.BinaryExpression); !ok {
		t.Error("power should be right-associative")
	}
	if _, ok := outer.Left.(*ast.IntegerLiteral); !ok {
		t.Error("left operand of right-associative power should be a literal")
	}
}

func TestParseVarDeclaration(t *testing.T) {
	prog := parse(t, "var total = 0; var bare;")
	decl := prog.Statements[0].(*ast.VarDeclaration)
	if decl.Name.Value != "total" {
		t.Errorf("name = %q, want total", decl.Name.Value)
	}
	if decl.Init == nil {
		t.Error("total should have an initializer")
	}
	bare := prog.Statements[1].(*ast.VarDeclaration)
	if bare.Init != nil {
		t.Error("bare should have no initializer")
	}
}

func TestParseConditionalCall(t *testing.T) {
	prog := parse(t, "a = if(x, 1, 2, 3);")
	stmt := prog.Statements[0].(*ast.AssignStatement)
	cond, ok := stmt.Value.(*ast.ConditionalExpression)
	if !ok {
		t.Fatalf("value is %T, want ConditionalExpression", stmt.Value)
	}
	if len(cond.Args) != 4 {
		t.Errorf("got %d arguments, want 4", len(cond.Args))
	}
}

func TestParseFunctionCall(t *testing.T) {
	prog := parse(t, "a = max(1, 2, 3);")
	stmt := prog.Statements[0].(*ast.AssignStatement)
	call, ok := stmt.Value.(*ast.CallExpression)
	if !ok {
		t.Fatalf("value is %T, want CallExpression", stmt.Value)
	}
	if call.Name != "max" || len(call.Args) != 3 {
		t.Errorf("got %s/%d, want max/3", call.Name, len(call.Args))
	}
}

func TestParseNeighborRef(t *testing.T) {
	prog := parse(t, "a = src[-1, @5];")
	stmt := prog.Statements[0].(*ast.AssignStatement)
	ref, ok := stmt.Value.(*ast.NeighborRef)
	if !ok {
		t.Fatalf("value is %T, want NeighborRef", stmt.Value)
	}
	if ref.Image.Value != "src" {
		t.Errorf("image = %q, want src", ref.Image.Value)
	}
	if ref.X.Absolute {
		t.Error("x coordinate should be relative")
	}
	if !ref.Y.Absolute {
		t.Error("y coordinate should be absolute")
	}
}

func TestParseIncDec(t *testing.T) {
	prog := parse(t, "a = b++; c = --d;")
	post := prog.Statements[0].(*ast.AssignStatement).Value.(*ast.IncDecExpression)
	if post.Prefix || post.Operator != token.INCR || post.Operand.Value != "b" {
		t.Errorf("got prefix=%v op=%s operand=%q, want postfix ++ b", post.Prefix, post.Operator, post.Operand.Value)
	}
	pre := prog.Statements[1].(*ast.AssignStatement).Value.(*ast.IncDecExpression)
	if !pre.Prefix || pre.Operator != token.DECR || pre.Operand.Value != "d" {
		t.Errorf("got prefix=%v op=%s operand=%q, want prefix -- d", pre.Prefix, pre.Operator, pre.Operand.Value)
	}
}

func TestParseExpressionStatement(t *testing.T) {
	prog := parse(t, "count++;")
	stmt, ok := prog.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("statement is %T, want ExpressionStatement", prog.Statements[0])
	}
	if _, ok := stmt.Expression.(*ast.IncDecExpression); !ok {
		t.Errorf("expression is %T, want IncDecExpression", stmt.Expression)
	}
}

func TestParseErrorReported(t *testing.T) {
	p := New(lexer.New("a = ;"))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a parse error")
	}
}
