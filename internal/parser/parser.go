// Package parser turns a token stream into a Jiffle syntax tree using a
// Pratt (top-down operator precedence) parser.
package parser

import (
	"fmt"
	"strconv"

	"github.com/jdries/jaitools/internal/ast"
	"github.com/jdries/jaitools/internal/diagnostics"
	"github.com/jdries/jaitools/internal/lexer"
	"github.com/jdries/jaitools/internal/token"
)

const (
	_ int = iota
	LOWEST
	LOGIC_OR   // ||
	LOGIC_AND  // &&
	LOGIC_XOR  // ^^
	EQUALITY   // == !=
	COMPARISON // > >= < <=
	SUM        // + -
	PRODUCT    // * / %
	POWER      // ^
	PREFIX     // -x !x ++x
	POSTFIX    // x++ x--
)

var precedences = map[token.Type]int{
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.XOR:      LOGIC_XOR,
	token.EQ:       EQUALITY,
	token.NEQ:      EQUALITY,
	token.GT:       COMPARISON,
	token.GE:       COMPARISON,
	token.LT:       COMPARISON,
	token.LE:       COMPARISON,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.CARET:    POWER,
	token.INCR:     POSTFIX,
	token.DECR:     POSTFIX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []diagnostics.Error

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:  p.parseIdentifierExpression,
		token.INT:    p.parseIntegerLiteral,
		token.FLOAT:  p.parseFloatLiteral,
		token.MINUS:  p.parsePrefixExpression,
		token.PLUS:   p.parsePrefixExpression,
		token.NOT:    p.parsePrefixExpression,
		token.INCR:   p.parseIncDecPrefix,
		token.DECR:   p.parseIncDecPrefix,
		token.LPAREN: p.parseParenExpression,
	}
	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:     p.parseBinaryExpression,
		token.MINUS:    p.parseBinaryExpression,
		token.ASTERISK: p.parseBinaryExpression,
		token.SLASH:    p.parseBinaryExpression,
		token.PERCENT:  p.parseBinaryExpression,
		token.CARET:    p.parseBinaryExpression,
		token.OR:       p.parseBinaryExpression,
		token.AND:      p.parseBinaryExpression,
		token.XOR:      p.parseBinaryExpression,
		token.EQ:       p.parseBinaryExpression,
		token.NEQ:      p.parseBinaryExpression,
		token.GT:       p.parseBinaryExpression,
		token.GE:       p.parseBinaryExpression,
		token.LT:       p.parseBinaryExpression,
		token.LE:       p.parseBinaryExpression,
		token.INCR:     p.parseIncDecPostfix,
		token.DECR:     p.parseIncDecPostfix,
	}

	// Read two tokens so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []diagnostics.Error { return p.errors }

func (p *Parser) addError(tok token.Token, format string, args ...any) {
	p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP001, tok, fmt.Sprintf(format, args...)))
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekToken.Type == t {
		p.nextToken()
		return true
	}
	p.addError(p.peekToken, "expected %s, got %q", t, p.peekToken.Lexeme)
	return false
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for p.curToken.Type != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.VAR:
		return p.parseVarDeclaration()
	case token.IDENT:
		if isAssignOp(p.peekToken.Type) {
			return p.parseAssignStatement()
		}
		return p.parseExpressionStatement()
	case token.SEMICOLON:
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func isAssignOp(t token.Type) bool {
	switch t {
	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN,
		token.TIMES_ASSIGN, token.DIV_ASSIGN, token.MOD_ASSIGN:
		return true
	}
	return false
}

func (p *Parser) parseVarDeclaration() ast.Statement {
	decl := &ast.VarDeclaration{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if p.peekToken.Type == token.ASSIGN {
		p.nextToken()
		p.nextToken()
		decl.Init = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return decl
}

func (p *Parser) parseAssignStatement() ast.Statement {
	stmt := &ast.AssignStatement{
		Token:  p.curToken,
		Target: &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
	}
	p.nextToken()
	stmt.Operator = p.curToken.Type
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.addError(p.curToken, "unexpected token %q", p.curToken.Lexeme)
		return nil
	}
	left := prefix()

	for p.peekToken.Type != token.SEMICOLON && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// parseIdentifierExpression handles a bare name and the constructs that
// start with one: function calls, the sign-based conditional, and
// neighbor references.
func (p *Parser) parseIdentifierExpression() ast.Expression {
	nameTok := p.curToken

	switch p.peekToken.Type {
	case token.LPAREN:
		p.nextToken()
		args := p.parseCallArguments()
		if nameTok.Lexeme == "if" {
			return &ast.ConditionalExpression{Token: nameTok, Args: args}
		}
		return &ast.CallExpression{Token: nameTok, Name: nameTok.Lexeme, Args: args}
	case token.LBRACKET:
		return p.parseNeighborRef(nameTok)
	}
	return &ast.Identifier{Token: nameTok, Value: nameTok.Lexeme}
}

func (p *Parser) parseCallArguments() []ast.Expression {
	args := []ast.Expression{}
	if p.peekToken.Type == token.RPAREN {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekToken.Type == token.COMMA {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return args
}

func (p *Parser) parseNeighborRef(nameTok token.Token) ast.Expression {
	ref := &ast.NeighborRef{
		Token: nameTok,
		Image: &ast.Identifier{Token: nameTok, Value: nameTok.Lexeme},
	}
	p.nextToken() // consume '['
	p.nextToken()
	ref.X = p.parseCoordRef()
	if !p.expectPeek(token.COMMA) {
		return nil
	}
	p.nextToken()
	ref.Y = p.parseCoordRef()
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return ref
}

func (p *Parser) parseCoordRef() ast.CoordRef {
	ref := ast.CoordRef{}
	if p.curToken.Type == token.AT {
		ref.Absolute = true
		p.nextToken()
	}
	ref.Value = p.parseExpression(LOWEST)
	return ref
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	v, err := strconv.ParseInt(p.curToken.Lexeme, 10, 64)
	if err != nil {
		p.addError(p.curToken, "could not parse %q as integer", p.curToken.Lexeme)
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	v, err := strconv.ParseFloat(p.curToken.Lexeme, 64)
	if err != nil {
		p.addError(p.curToken, "could not parse %q as float", p.curToken.Lexeme)
		return nil
	}
	return &ast.FloatLiteral{Token: p.curToken, Value: v}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Type}
	p.nextToken()
	expr.Operand = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseIncDecPrefix() ast.Expression {
	opTok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return &ast.IncDecExpression{
		Token:    opTok,
		Operator: opTok.Type,
		Prefix:   true,
		Operand:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
	}
}

func (p *Parser) parseIncDecPostfix(left ast.Expression) ast.Expression {
	ident, ok := left.(*ast.Identifier)
	if !ok {
		p.addError(p.curToken, "%s requires a variable operand", p.curToken.Lexeme)
		return nil
	}
	return &ast.IncDecExpression{
		Token:    p.curToken,
		Operator: p.curToken.Type,
		Prefix:   false,
		Operand:  ident,
	}
}

func (p *Parser) parseParenExpression() ast.Expression {
	tok := p.curToken
	p.nextToken()
	inner := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.ParenExpression{Token: tok, Inner: inner}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpression{
		Token:    p.curToken,
		Operator: p.curToken.Type,
		Left:     left,
	}
	precedence := p.curPrecedence()
	if expr.Operator == token.CARET {
		// Power is right-associative.
		precedence--
	}
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}
