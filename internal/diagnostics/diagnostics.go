// Package diagnostics carries positioned compile errors through the
// pipeline so the caller can report precise messages to the script author.
package diagnostics

import (
	"fmt"

	"github.com/jdries/jaitools/internal/token"
)

type Code string

const (
	ErrL001 Code = "L001" // lexical error
	ErrP001 Code = "P001" // parse error
	ErrS001 Code = "S001" // scope/semantic error
	ErrG001 Code = "G001" // code generation error
)

// Error is a single diagnostic with its source position.
type Error struct {
	Code    Code
	Line    int
	Column  int
	Message string
}

func NewError(code Code, tok token.Token, message string) Error {
	return Error{Code: code, Line: tok.Line, Column: tok.Column, Message: message}
}

func (e Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %d:%d: %s", e.Code, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
