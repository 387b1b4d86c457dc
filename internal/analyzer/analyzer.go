// Package analyzer classifies every identifier in a parsed script and
// validates it against the image bindings and evaluation model before
// code generation runs.
//
// Classification rules:
//   - names bound as source images read the current pixel (or a neighbor
//     via the bracket syntax),
//   - names bound as destination images may only be assignment targets;
//     those assignments are rewritten into ImageWriteStatement nodes,
//   - names declared with `var` at the top level are image-scope,
//   - names supplied by the run configuration are externally provided,
//   - names in the constant table are named constants,
//   - everything else is a pixel-scope variable and must be assigned
//     before it is read.
package analyzer

import (
	"fmt"

	"github.com/jdries/jaitools/internal/ast"
	"github.com/jdries/jaitools/internal/codegen"
	"github.com/jdries/jaitools/internal/diagnostics"
	"github.com/jdries/jaitools/internal/token"
)

// ConstantSet reports whether a name is a known named constant.
type ConstantSet interface {
	Has(name string) bool
}

// Options binds the script's free names to their roles.
type Options struct {
	SourceImages []string
	DestImages   []string
	Provided     []string
	Constants    ConstantSet
	Model        codegen.EvaluationModel
}

type Analyzer struct {
	opts Options

	sources  map[string]bool
	dests    map[string]bool
	provided map[string]bool

	imageVars map[string]bool // declared with var, image-scope
	pixelVars map[string]bool // assigned pixel-scope locals

	inInit bool // walking an image-scope initializer

	errors []diagnostics.Error
}

func New(opts Options) *Analyzer {
	a := &Analyzer{
		opts:      opts,
		sources:   make(map[string]bool),
		dests:     make(map[string]bool),
		provided:  make(map[string]bool),
		imageVars: make(map[string]bool),
		pixelVars: make(map[string]bool),
	}
	for _, s := range opts.SourceImages {
		a.sources[s] = true
	}
	for _, d := range opts.DestImages {
		a.dests[d] = true
	}
	for _, p := range opts.Provided {
		a.provided[p] = true
	}
	return a
}

func (a *Analyzer) Errors() []diagnostics.Error { return a.errors }

func (a *Analyzer) addError(tok token.Token, format string, args ...any) {
	a.errors = append(a.errors, diagnostics.NewError(diagnostics.ErrS001, tok, fmt.Sprintf(format, args...)))
}

// Analyze annotates the program in place and rewrites destination-image
// assignments into write statements. It returns the accumulated errors.
func (a *Analyzer) Analyze(program *ast.Program) []diagnostics.Error {
	writeCount := 0
	lastWriteIdx := -1

	for i, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.VarDeclaration:
			a.analyzeVarDeclaration(s)
		case *ast.AssignStatement:
			if a.dests[s.Target.Value] {
				w := a.rewriteImageWrite(s)
				if w != nil {
					program.Statements[i] = w
					writeCount++
					lastWriteIdx = i
				}
				continue
			}
			a.analyzeAssign(s)
		case *ast.ExpressionStatement:
			a.walkExpression(s.Expression)
		}
	}

	switch a.opts.Model {
	case codegen.Direct:
		if writeCount == 0 {
			a.addError(program.GetToken(), "script writes to no destination image")
		}
	case codegen.Indirect:
		if writeCount != 1 {
			a.addError(program.GetToken(), "indirect model requires exactly one destination write, found %d", writeCount)
		} else if lastWriteIdx != len(program.Statements)-1 {
			a.addError(program.Statements[lastWriteIdx].GetToken(), "destination write must be the last statement under the indirect model")
		}
	}

	return a.errors
}

func (a *Analyzer) analyzeVarDeclaration(decl *ast.VarDeclaration) {
	name := decl.Name.Value
	if a.sources[name] || a.dests[name] {
		a.addError(decl.Name.Token, "%q is bound to an image and cannot be declared", name)
		return
	}
	if a.provided[name] {
		a.addError(decl.Name.Token, "%q is provided by the runtime and cannot be declared", name)
		return
	}
	if a.opts.Constants != nil && a.opts.Constants.Has(name) {
		a.addError(decl.Name.Token, "%q is a constant and cannot be declared", name)
		return
	}
	decl.Name.Scope = ast.ScopeImage
	a.imageVars[name] = true
	if decl.Init != nil {
		a.inInit = true
		a.walkExpression(decl.Init)
		a.inInit = false
	}
}

func (a *Analyzer) rewriteImageWrite(s *ast.AssignStatement) *ast.ImageWriteStatement {
	if s.Operator != token.ASSIGN {
		a.addError(s.Token, "compound assignment to destination image %q", s.Target.Value)
		return nil
	}
	s.Target.Scope = ast.ScopeDest
	a.walkExpression(s.Value)
	return &ast.ImageWriteStatement{Token: s.Token, Dest: s.Target, Value: s.Value}
}

func (a *Analyzer) analyzeAssign(s *ast.AssignStatement) {
	name := s.Target.Value
	switch {
	case a.sources[name]:
		a.addError(s.Token, "cannot assign to source image %q", name)
		return
	case a.provided[name]:
		a.addError(s.Token, "cannot assign to provided variable %q", name)
		return
	case a.opts.Constants != nil && a.opts.Constants.Has(name):
		a.addError(s.Token, "cannot assign to constant %q", name)
		return
	case a.imageVars[name]:
		s.Target.Scope = ast.ScopeImage
	case a.pixelVars[name]:
		s.Target.Scope = ast.ScopePixel
	default:
		if s.Operator != token.ASSIGN {
			a.addError(s.Token, "variable %q read before assignment", name)
			return
		}
		s.Target.Scope = ast.ScopePixel
		s.NewVar = true
		a.pixelVars[name] = true
	}
	a.walkExpression(s.Value)
}

func (a *Analyzer) walkExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Identifier:
		a.classifyIdentifier(e)
	case *ast.BinaryExpression:
		a.walkExpression(e.Left)
		a.walkExpression(e.Right)
	case *ast.PrefixExpression:
		a.walkExpression(e.Operand)
	case *ast.IncDecExpression:
		a.classifyIdentifier(e.Operand)
		if e.Operand.Scope != ast.ScopeImage && e.Operand.Scope != ast.ScopePixel {
			a.addError(e.Token, "%s requires a variable operand, %q is %s",
				e.Operator, e.Operand.Value, e.Operand.Scope)
		}
	case *ast.ParenExpression:
		a.walkExpression(e.Inner)
	case *ast.CallExpression:
		for _, arg := range e.Args {
			a.walkExpression(arg)
		}
	case *ast.ConditionalExpression:
		for _, arg := range e.Args {
			a.walkExpression(arg)
		}
	case *ast.NeighborRef:
		if a.inInit {
			a.addError(e.Token, "image read in an image-scope initializer")
			return
		}
		if !a.sources[e.Image.Value] {
			a.addError(e.Image.Token, "%q is not a source image", e.Image.Value)
			return
		}
		e.Image.Scope = ast.ScopeSource
		a.walkExpression(e.X.Value)
		a.walkExpression(e.Y.Value)
	}
}

func (a *Analyzer) classifyIdentifier(id *ast.Identifier) {
	name := id.Value
	switch {
	case a.sources[name]:
		if a.inInit {
			a.addError(id.Token, "image read in an image-scope initializer")
			return
		}
		id.Scope = ast.ScopeSource
	case a.dests[name]:
		a.addError(id.Token, "destination image %q cannot be read", name)
	case a.imageVars[name]:
		id.Scope = ast.ScopeImage
	case a.provided[name]:
		id.Scope = ast.ScopeProvided
	case a.opts.Constants != nil && a.opts.Constants.Has(name):
		id.Scope = ast.ScopeConstant
	case a.pixelVars[name]:
		if a.inInit {
			a.addError(id.Token, "pixel-scope variable %q used in an image-scope initializer", name)
			return
		}
		id.Scope = ast.ScopePixel
	default:
		a.addError(id.Token, "undefined variable %q", name)
	}
}
