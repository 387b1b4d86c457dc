// Package ast defines the syntax tree for Jiffle scripts.
//
// The parser produces the tree; the analyzer annotates identifiers with
// their scope class and rewrites top-level assignments that target
// destination images into ImageWriteStatement nodes. The code generator
// consumes the annotated tree read-only.
package ast

import (
	"github.com/jdries/jaitools/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Statement is a Node that represents a top-level statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// ScopeClass is the analyzer's classification of an identifier.
type ScopeClass int

const (
	ScopeUnknown  ScopeClass = iota
	ScopePixel               // local to one pixel evaluation
	ScopeImage               // persists across pixel evaluations
	ScopeProvided            // supplied by the runtime environment
	ScopeSource              // a source image name
	ScopeDest                // a destination image name
	ScopeConstant            // a named numeric constant
)

func (s ScopeClass) String() string {
	switch s {
	case ScopePixel:
		return "pixel"
	case ScopeImage:
		return "image"
	case ScopeProvided:
		return "provided"
	case ScopeSource:
		return "source"
	case ScopeDest:
		return "dest"
	case ScopeConstant:
		return "constant"
	}
	return "unknown"
}

// Program is the root node of every script.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}

// Identifier is a reference to a variable, image, or named constant.
// Scope is ScopeUnknown until the analyzer has run.
type Identifier struct {
	Token token.Token
	Value string
	Scope ScopeClass
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }

// IntegerLiteral is a whole-number literal. There is no integer runtime
// type; the literal still lowers to a double.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode() {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }

// FloatLiteral is a fractional or exponent-form literal.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode() {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token { return fl.Token }

// BinaryExpression covers arithmetic (+ - * / % ^) and logical/relational
// (|| && ^^ == != > >= < <=) operators. The operator class decides the
// lowering strategy, not the node shape.
type BinaryExpression struct {
	Token    token.Token // the operator token
	Operator token.Type
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) expressionNode() {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Lexeme }
func (be *BinaryExpression) GetToken() token.Token { return be.Token }

// PrefixExpression is unary sign (+x, -x) or logical not (!x).
type PrefixExpression struct {
	Token    token.Token
	Operator token.Type
	Operand  Expression
}

func (pe *PrefixExpression) expressionNode() {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }

// IncDecExpression is ++x, --x, x++ or x--. The operand is always a
// variable reference; the analyzer rejects anything else.
type IncDecExpression struct {
	Token    token.Token
	Operator token.Type // INCR or DECR
	Prefix   bool
	Operand  *Identifier
}

func (ie *IncDecExpression) expressionNode() {}
func (ie *IncDecExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *IncDecExpression) GetToken() token.Token { return ie.Token }

// ParenExpression is a bracketed expression. No semantic effect.
type ParenExpression struct {
	Token token.Token // the '(' token
	Inner Expression
}

func (pe *ParenExpression) expressionNode() {}
func (pe *ParenExpression) TokenLiteral() string { return pe.Token.Lexeme }
func (pe *ParenExpression) GetToken() token.Token { return pe.Token }

// CallExpression is a call to a named runtime function.
type CallExpression struct {
	Token token.Token // the function name token
	Name  string
	Args  []Expression
}

func (ce *CallExpression) expressionNode() {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

// ConditionalExpression is the sign-based conditional, written with call
// syntax: if(cond), if(cond, a), if(cond, a, b), if(cond, a, b, c).
type ConditionalExpression struct {
	Token token.Token // the 'if' token
	Args  []Expression
}

func (ce *ConditionalExpression) expressionNode() {}
func (ce *ConditionalExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *ConditionalExpression) GetToken() token.Token { return ce.Token }

// CoordRef is one coordinate of a neighbor reference. A relative
// coordinate is an offset from the current pixel; an absolute one
// (marked with @) is used as-is.
type CoordRef struct {
	Absolute bool
	Value    Expression
}

// NeighborRef reads a source image at a per-axis absolute or relative
// coordinate: src[-1, @5].
type NeighborRef struct {
	Token token.Token // the image name token
	Image *Identifier
	X     CoordRef
	Y     CoordRef
}

func (nr *NeighborRef) expressionNode() {}
func (nr *NeighborRef) TokenLiteral() string { return nr.Token.Lexeme }
func (nr *NeighborRef) GetToken() token.Token { return nr.Token }

// VarDeclaration is a top-level image-scope declaration with an optional
// initializer: var total = 0;
type VarDeclaration struct {
	Token token.Token // the 'var' token
	Name  *Identifier
	Init  Expression // may be nil
}

func (vd *VarDeclaration) statementNode() {}
func (vd *VarDeclaration) TokenLiteral() string { return vd.Token.Lexeme }
func (vd *VarDeclaration) GetToken() token.Token { return vd.Token }

// AssignStatement assigns to an image-scope or pixel-scope variable,
// possibly with a compound operator. NewVar is set by the analyzer on the
// first assignment of a pixel-scope variable.
type AssignStatement struct {
	Token    token.Token // the target name token
	Target   *Identifier
	Operator token.Type // ASSIGN or a compound-assign type
	Value    Expression
	NewVar   bool
}

func (as *AssignStatement) statementNode() {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Lexeme }
func (as *AssignStatement) GetToken() token.Token { return as.Token }

// ImageWriteStatement writes a value to a destination image at the
// current coordinates and band. Produced by the analyzer from
// assignments whose target is a destination image.
type ImageWriteStatement struct {
	Token token.Token
	Dest  *Identifier
	Value Expression
}

func (iw *ImageWriteStatement) statementNode() {}
func (iw *ImageWriteStatement) TokenLiteral() string { return iw.Token.Lexeme }
func (iw *ImageWriteStatement) GetToken() token.Token { return iw.Token }

// ExpressionStatement is an expression evaluated for its side effects,
// e.g. a bare count++;
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode() {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }
