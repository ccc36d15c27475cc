package ast

import "github.com/sift-dev/sift/pkg/token"

// MarkupNode is implemented by the five markup node variants: Element, Text,
// ExprNode, If, and For. Child ordering is rendering order and is preserved.
type MarkupNode interface {
	Node
	markupNode()
}

// Attr is one attribute of an element. Attribute order is preserved.
type Attr struct {
	Name     string
	Value    Expr // nil for bare attributes like `disabled`
	Position token.Position
}

// Element is a markup element with a tag, attributes, and ordered children.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []MarkupNode
	Position token.Position
}

func (e *Element) Pos() token.Position { return e.Position }
func (e *Element) markupNode()         {}

// Text is a literal text run between tags.
type Text struct {
	Value    string
	Position token.Position
}

func (t *Text) Pos() token.Position { return t.Position }
func (t *Text) markupNode()         {}

// ExprNode is a `{expression}` interpolation in markup position.
type ExprNode struct {
	Expr     Expr
	Position token.Position
}

func (n *ExprNode) Pos() token.Position { return n.Position }
func (n *ExprNode) markupNode()         {}

// If is an `{ if (cond) { ... } else { ... } }` control construct. The else
// branch is nil when absent.
type If struct {
	Cond     Expr
	Then     []MarkupNode
	Else     []MarkupNode
	Position token.Position
}

func (n *If) Pos() token.Position { return n.Position }
func (n *If) markupNode()         {}

// For is a `{ for (name in iterable) { ... } }` control construct.
type For struct {
	Var      string
	Iterable Expr
	Body     []MarkupNode
	Position token.Position
}

func (n *For) Pos() token.Position { return n.Position }
func (n *For) markupNode()         {}
