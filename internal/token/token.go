package token

type Type int

const (
	ILLEGAL Type = iota
	EOF

	IDENT
	INT
	FLOAT

	// Arithmetic
	PLUS
	MINUS
	ASTERISK
	SLASH
	PERCENT
	CARET // power

	// Logical / relational
	OR  // ||
	AND // &&
	XOR // ^^
	NOT // !
	EQ  // ==
	NEQ // !=
	GT
	GE
	LT
	LE

	// Mutation
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	TIMES_ASSIGN
	DIV_ASSIGN
	MOD_ASSIGN
	INCR // ++
	DECR // --

	// Delimiters
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	COMMA
	SEMICOLON
	AT // absolute coordinate marker in neighbor references

	// Keywords
	VAR
)

var typeNames = map[Type]string{
	ILLEGAL:      "ILLEGAL",
	EOF:          "EOF",
	IDENT:        "IDENT",
	INT:          "INT",
	FLOAT:        "FLOAT",
	PLUS:         "+",
	MINUS:        "-",
	ASTERISK:     "*",
	SLASH:        "/",
	PERCENT:      "%",
	CARET:        "^",
	OR:           "||",
	AND:          "&&",
	XOR:          "^^",
	NOT:          "!",
	EQ:           "==",
	NEQ:          "!=",
	GT:           ">",
	GE:           ">=",
	LT:           "<",
	LE:           "<=",
	ASSIGN:       "=",
	PLUS_ASSIGN:  "+=",
	MINUS_ASSIGN: "-=",
	TIMES_ASSIGN: "*=",
	DIV_ASSIGN:   "/=",
	MOD_ASSIGN:   "%=",
	INCR:         "++",
	DECR:         "--",
	LPAREN:       "(",
	RPAREN:       ")",
	LBRACKET:     "[",
	RBRACKET:     "]",
	COMMA:        ",",
	SEMICOLON:    ";",
	AT:           "@",
	VAR:          "var",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token is a single lexeme with its source position.
type Token struct {
	Type   Type
	Lexeme string
	Line   int
	Column int
}

var keywords = map[string]Type{
	"var": VAR,
}

// LookupIdent returns the keyword type for an identifier lexeme, or IDENT.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}
