package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/jdries/jaitools/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
		l.column++
		return
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	var tok token.Token

	switch l.ch {
	case '+':
		switch l.peekChar() {
		case '+':
			tok = l.twoCharToken(token.INCR)
		case '=':
			tok = l.twoCharToken(token.PLUS_ASSIGN)
		default:
			tok = l.newToken(token.PLUS)
		}
	case '-':
		switch l.peekChar() {
		case '-':
			tok = l.twoCharToken(token.DECR)
		case '=':
			tok = l.twoCharToken(token.MINUS_ASSIGN)
		default:
			tok = l.newToken(token.MINUS)
		}
	case '*':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.TIMES_ASSIGN)
		} else {
			tok = l.newToken(token.ASTERISK)
		}
	case '/':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.DIV_ASSIGN)
		} else {
			tok = l.newToken(token.SLASH)
		}
	case '%':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.MOD_ASSIGN)
		} else {
			tok = l.newToken(token.PERCENT)
		}
	case '^':
		if l.peekChar() == '^' {
			tok = l.twoCharToken(token.XOR)
		} else {
			tok = l.newToken(token.CARET)
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.twoCharToken(token.OR)
		} else {
			tok = l.newToken(token.ILLEGAL)
		}
	case '&':
		if l.peekChar() == '&' {
			tok = l.twoCharToken(token.AND)
		} else {
			tok = l.newToken(token.ILLEGAL)
		}
	case '!':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.NEQ)
		} else {
			tok = l.newToken(token.NOT)
		}
	case '=':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.EQ)
		} else {
			tok = l.newToken(token.ASSIGN)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.GE)
		} else {
			tok = l.newToken(token.GT)
		}
	case '<':
		if l.peekChar() == '=' {
			tok = l.twoCharToken(token.LE)
		} else {
			tok = l.newToken(token.LT)
		}
	case '(':
		tok = l.newToken(token.LPAREN)
	case ')':
		tok = l.newToken(token.RPAREN)
	case '[':
		tok = l.newToken(token.LBRACKET)
	case ']':
		tok = l.newToken(token.RBRACKET)
	case ',':
		tok = l.newToken(token.COMMA)
	case ';':
		tok = l.newToken(token.SEMICOLON)
	case '@':
		tok = l.newToken(token.AT)
	case 0:
		tok = token.Token{Type: token.EOF, Lexeme: "", Line: l.line, Column: l.column}
	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		}
		if unicode.IsDigit(l.ch) {
			return l.readNumber()
		}
		tok = l.newToken(token.ILLEGAL)
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(t token.Type) token.Token {
	return token.Token{Type: t, Lexeme: string(l.ch), Line: l.line, Column: l.column}
}

func (l *Lexer) twoCharToken(t token.Type) token.Token {
	line, col := l.line, l.column
	first := l.ch
	l.readChar()
	return token.Token{Type: t, Lexeme: string(first) + string(l.ch), Line: line, Column: col}
}

// readIdentifier scans a name. Identifiers must start with a letter; a
// leading underscore is reserved for compiler-generated temporaries.
func (l *Lexer) readIdentifier() token.Token {
	line, col := l.line, l.column
	start := l.position
	for isLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	return token.Token{Type: token.LookupIdent(lexeme), Lexeme: lexeme, Line: line, Column: col}
}

func (l *Lexer) readNumber() token.Token {
	line, col := l.line, l.column
	start := l.position
	typ := token.INT
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		typ = token.FLOAT
		l.readChar()
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		peek := l.peekChar()
		if unicode.IsDigit(peek) || peek == '+' || peek == '-' {
			typ = token.FLOAT
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for unicode.IsDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return token.Token{Type: typ, Lexeme: l.input[start:l.position], Line: line, Column: col}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar()
				l.readChar()
			}
			continue
		}
		return
	}
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch)
}
