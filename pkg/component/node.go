package component

import "github.com/sift-dev/sift/pkg/ast"

// NodeKind is the markup node type discriminator.
type NodeKind uint8

const (
	NodeElement NodeKind = iota
	NodeText
	NodeExpr
	NodeIf
	NodeFor
)

// String returns the lowercase wire name of the NodeKind, as it appears in
// serialized bundles.
func (k NodeKind) String() string {
	switch k {
	case NodeElement:
		return "element"
	case NodeText:
		return "text"
	case NodeExpr:
		return "expr"
	case NodeIf:
		return "if"
	case NodeFor:
		return "for"
	default:
		return "unknown"
	}
}

// Attr is one lowered element attribute. Order is rendering order.
type Attr struct {
	Name  string
	Value ast.Expr // nil for bare attributes
}

// Node is one node of the lowered markup tree. A single struct with a kind
// discriminator keeps the tree uniform for renderers: element, text,
// expression, and the if/for control constructs are all walked the same way.
type Node struct {
	Kind NodeKind

	// NodeElement
	Tag      string
	Attrs    []Attr
	Children []*Node

	// NodeText
	Text string

	// NodeExpr
	Expr ast.Expr

	// NodeIf
	Cond ast.Expr
	Then []*Node
	Else []*Node

	// NodeFor
	Var      string
	Iterable ast.Expr
	Body     []*Node
}
