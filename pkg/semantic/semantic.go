// Package semantic validates parsed source units: declaration uniqueness,
// default-value literal kinds against declared types, and identifier
// resolution inside markup and event bodies.
//
// Unlike the lexer and parser, validation never stops at the first problem:
// every error in the unit is collected and returned together so that tooling
// can report all of them in one pass.
package semantic

import (
	"fmt"
	"strings"

	"github.com/sift-dev/sift/pkg/ast"
	"github.com/sift-dev/sift/pkg/token"
)

// ErrorCode categorizes semantic errors.
type ErrorCode string

const (
	ErrDuplicateDecl   ErrorCode = "DUPLICATE_DECL"
	ErrTypeMismatch    ErrorCode = "TYPE_MISMATCH"
	ErrUnresolvedIdent ErrorCode = "UNRESOLVED_IDENT"
	ErrUnknownExport   ErrorCode = "UNKNOWN_EXPORT"
)

// SemanticError is one validation finding. It is a pure data value.
type SemanticError struct {
	Code ErrorCode
	File string
	Pos  token.Position
	Name string // the offending identifier
	Msg  string
}

// Error implements the error interface.
func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s:%s: %s: %s", e.File, e.Pos, e.Code, e.Msg)
}

// ErrorList wraps the collected errors of one unit so callers can hand them
// around as a single error value.
type ErrorList []*SemanticError

// Error implements the error interface.
func (l ErrorList) Error() string {
	if len(l) == 0 {
		return "no semantic errors"
	}
	if len(l) == 1 {
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", l[0].Error(), len(l)-1)
}

// validator carries the scope and findings for one unit.
type validator struct {
	unit   *ast.SourceUnit
	scope  map[string]bool
	errors []*SemanticError
}

// Validate checks one source unit and returns every semantic error found,
// or nil when the unit is valid.
func Validate(unit *ast.SourceUnit) []*SemanticError {
	v := &validator{unit: unit, scope: make(map[string]bool)}

	if unit.Kind == ast.UnitAPI {
		v.validateAPI()
	} else {
		v.validateUnit()
	}
	return v.errors
}

func (v *validator) errorf(code ErrorCode, pos token.Position, name, format string, args ...any) {
	v.errors = append(v.errors, &SemanticError{
		Code: code, File: v.unit.File, Pos: pos, Name: name,
		Msg: fmt.Sprintf(format, args...),
	})
}

// validateUnit checks a component/page/layout declaration.
func (v *validator) validateUnit() {
	unit := v.unit

	// Declaration pass: uniqueness and default-value kinds. Prop and state
	// names share one namespace inside a unit.
	for _, d := range unit.Props {
		if v.scope[d.Name] {
			v.errorf(ErrDuplicateDecl, d.Position, d.Name, "duplicate declaration of %q", d.Name)
			continue
		}
		v.scope[d.Name] = true
		v.checkDefault(d.Name, d.Type, d.Default)
	}
	for _, d := range unit.State {
		if v.scope[d.Name] {
			v.errorf(ErrDuplicateDecl, d.Position, d.Name, "duplicate declaration of %q", d.Name)
			continue
		}
		v.scope[d.Name] = true
		v.checkDefault(d.Name, d.Type, d.Default)

		// Every state field gets a synthesized setter; the derived name is
		// resolvable wherever the field is.
		v.scope[SetterName(d.Name)] = true
	}

	for _, ev := range unit.Events {
		if v.scope[ev.Name] {
			v.errorf(ErrDuplicateDecl, ev.Position, ev.Name, "duplicate declaration of %q", ev.Name)
			continue
		}
		v.scope[ev.Name] = true
	}

	// Implicit bindings of the unit kind.
	switch unit.Kind {
	case ast.UnitPage:
		v.scope["params"] = true
	case ast.UnitLayout:
		v.scope["children"] = true
	}

	// Reference pass.
	for _, ev := range unit.Events {
		local := map[string]bool{}
		if ev.Param != "" {
			local[ev.Param] = true
		}
		for _, expr := range ev.Body {
			v.checkExpr(expr, local)
		}
	}
	if unit.Markup != nil {
		v.checkMarkup(unit.Markup, map[string]bool{})
	}

	for _, ex := range unit.Exports {
		if !v.scope[ex.Name] {
			v.errorf(ErrUnknownExport, ex.Position, ex.Name, "export of undeclared identifier %q", ex.Name)
		}
	}
}

// validateAPI checks an API module: duplicate method handlers and handler
// body references (only the request parameter is in scope).
func (v *validator) validateAPI() {
	seen := map[string]bool{}
	for _, h := range v.unit.Handlers {
		if seen[h.Method] {
			v.errorf(ErrDuplicateDecl, h.Position, h.Method, "duplicate handler for %s", h.Method)
			continue
		}
		seen[h.Method] = true

		local := map[string]bool{}
		if h.Param != "" {
			local[h.Param] = true
		}
		for _, expr := range h.Body {
			v.checkExpr(expr, local)
		}
	}
}

// literalMatches reports whether a default expression's literal kind
// satisfies the declared type tag. Only literals are checked; function and
// array/object element types beyond the literal kind are not inspected.
func literalMatches(tag ast.TypeTag, def ast.Expr) (ok, checked bool) {
	switch def.(type) {
	case *ast.StringLit:
		return tag == ast.TagString, true
	case *ast.NumberLit:
		return tag == ast.TagNumber, true
	case *ast.BoolLit:
		return tag == ast.TagBoolean, true
	case *ast.ArrayLit:
		return tag == ast.TagArray, true
	case *ast.ObjectLit:
		return tag == ast.TagObject, true
	case *ast.TemplateLit:
		return tag == ast.TagString, true
	case *ast.MarkupExpr:
		return tag == ast.TagNode, true
	default:
		// Non-literal defaults (identifiers, calls, arithmetic) cannot be
		// kind-checked statically and pass through.
		return true, false
	}
}

func (v *validator) checkDefault(name string, tag ast.TypeTag, def ast.Expr) {
	if def == nil {
		return
	}
	if ok, checked := literalMatches(tag, def); checked && !ok {
		v.errorf(ErrTypeMismatch, def.Pos(), name,
			"default value for %q does not match declared type %s", name, tag)
	}
	// Literal defaults may still reference identifiers inside array/object
	// elements; resolve those too.
	v.checkExpr(def, map[string]bool{})
}

// checkMarkup resolves identifier references in a markup subtree. local is
// the set of loop variables in scope, copied per branch.
func (v *validator) checkMarkup(node ast.MarkupNode, local map[string]bool) {
	switch m := node.(type) {
	case *ast.Element:
		for _, attr := range m.Attrs {
			if attr.Value != nil {
				v.checkExpr(attr.Value, local)
			}
		}
		for _, child := range m.Children {
			v.checkMarkup(child, local)
		}

	case *ast.ExprNode:
		v.checkExpr(m.Expr, local)

	case *ast.If:
		v.checkExpr(m.Cond, local)
		for _, child := range m.Then {
			v.checkMarkup(child, local)
		}
		for _, child := range m.Else {
			v.checkMarkup(child, local)
		}

	case *ast.For:
		v.checkExpr(m.Iterable, local)
		inner := make(map[string]bool, len(local)+1)
		for k := range local {
			inner[k] = true
		}
		inner[m.Var] = true
		for _, child := range m.Body {
			v.checkMarkup(child, inner)
		}

	case *ast.Text:
		// literal text references nothing
	}
}

// checkExpr resolves identifier references in an expression subtree.
func (v *validator) checkExpr(expr ast.Expr, local map[string]bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		if !v.scope[e.Name] && !local[e.Name] {
			v.errorf(ErrUnresolvedIdent, e.Position, e.Name, "unresolved identifier %q", e.Name)
		}

	case *ast.TemplateLit:
		for _, sub := range e.Exprs {
			v.checkExpr(sub, local)
		}
	case *ast.ArrayLit:
		for _, sub := range e.Elems {
			v.checkExpr(sub, local)
		}
	case *ast.ObjectLit:
		for _, f := range e.Fields {
			v.checkExpr(f.Value, local)
		}
	case *ast.Unary:
		v.checkExpr(e.Operand, local)
	case *ast.Binary:
		v.checkExpr(e.Left, local)
		v.checkExpr(e.Right, local)
	case *ast.Ternary:
		v.checkExpr(e.Cond, local)
		v.checkExpr(e.Then, local)
		v.checkExpr(e.Else, local)
	case *ast.Member:
		// Only the base needs to resolve; member names are dynamic.
		v.checkExpr(e.Base, local)
	case *ast.Index:
		v.checkExpr(e.Base, local)
		v.checkExpr(e.Index, local)
	case *ast.Call:
		v.checkExpr(e.Callee, local)
		for _, arg := range e.Args {
			v.checkExpr(arg, local)
		}
	case *ast.MarkupExpr:
		v.checkMarkup(e.Markup, local)
	}
}

// SetterName derives the synthesized state setter name for a field:
// count -> setCount. The derivation is a fixed structural rule.
func SetterName(field string) string {
	if field == "" {
		return "set"
	}
	return "set" + strings.ToUpper(field[:1]) + field[1:]
}
