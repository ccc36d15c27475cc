// Package ast defines the syntax tree for Sift source units: component,
// page, and layout declarations with their props/state/event blocks, markup
// trees, and the embedded expression sublanguage. Each node owns its
// children exclusively and carries the source position of its first token.
package ast

import "github.com/sift-dev/sift/pkg/token"

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
}

// UnitKind discriminates the four source unit forms.
type UnitKind uint8

const (
	UnitComponent UnitKind = iota
	UnitPage
	UnitLayout
	UnitAPI
)

// String returns the source keyword for the unit kind.
func (k UnitKind) String() string {
	switch k {
	case UnitComponent:
		return "component"
	case UnitPage:
		return "page"
	case UnitLayout:
		return "layout"
	case UnitAPI:
		return "api"
	default:
		return "unknown"
	}
}

// TypeTag is a declared prop/state type.
type TypeTag string

const (
	TagString   TypeTag = "string"
	TagNumber   TypeTag = "number"
	TagBoolean  TypeTag = "boolean"
	TagObject   TypeTag = "object"
	TagArray    TypeTag = "array"
	TagFunction TypeTag = "function"
	TagNode     TypeTag = "node"
)

// ValidTypeTag reports whether s names a declarable type.
func ValidTypeTag(s string) bool {
	switch TypeTag(s) {
	case TagString, TagNumber, TagBoolean, TagObject, TagArray, TagFunction, TagNode:
		return true
	}
	return false
}

// SourceUnit is one parsed source file.
type SourceUnit struct {
	Kind     UnitKind
	Name     string // export identifier; empty for API modules
	File     string
	Props    []*PropDecl
	State    []*StateDecl
	Events   []*EventDecl
	Exports  []*ExportStmt
	Handlers []*APIHandler // API modules only
	Markup   *Element      // nil for API modules
	Position token.Position
}

func (u *SourceUnit) Pos() token.Position { return u.Position }

// PropDecl is one declaration inside a props block.
type PropDecl struct {
	Name     string
	Type     TypeTag
	Default  Expr // nil when no default
	Position token.Position
}

func (d *PropDecl) Pos() token.Position { return d.Position }

// StateDecl is one declaration inside a state block.
type StateDecl struct {
	Name     string
	Type     TypeTag
	Default  Expr // nil when no default
	Position token.Position
}

func (d *StateDecl) Pos() token.Position { return d.Position }

// EventDecl is an `on name(param?) { ... }` handler declaration. The body is
// an ordered sequence of expressions, treated as an opaque subtree by
// everything except the identifier resolver.
type EventDecl struct {
	Name     string
	Param    string // implicit request parameter name; empty when absent
	Body     []Expr
	Position token.Position
}

func (d *EventDecl) Pos() token.Position { return d.Position }

// ExportStmt is an `export name` statement inside a unit body.
type ExportStmt struct {
	Name     string
	Position token.Position
}

func (s *ExportStmt) Pos() token.Position { return s.Position }

// APIHandler is an exported HTTP-method handler in an API module:
// `export GET(request) { ... }`.
type APIHandler struct {
	Method   string // GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS
	Param    string // request parameter name; empty when absent
	Body     []Expr
	Position token.Position
}

func (h *APIHandler) Pos() token.Position { return h.Position }
