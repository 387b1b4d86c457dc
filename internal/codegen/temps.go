package codegen

import "strconv"

// TempAllocator issues unique local binding names for one compilation.
// Generated names start with an underscore, which the lexer forbids in
// user identifiers, so they can never collide with script variables.
type TempAllocator struct {
	n int
}

func NewTempAllocator() *TempAllocator {
	return &TempAllocator{}
}

// Fresh returns a new name of the form _<kind><n>.
func (t *TempAllocator) Fresh(kind string) string {
	name := "_" + kind + strconv.Itoa(t.n)
	t.n++
	return name
}
