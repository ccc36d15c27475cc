package ast

import "github.com/sift-dev/sift/pkg/token"

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Ident is a bare identifier reference.
type Ident struct {
	Name     string
	Position token.Position
}

func (e *Ident) Pos() token.Position { return e.Position }
func (e *Ident) exprNode()           {}

// StringLit is a quoted string literal. Value excludes the quotes.
type StringLit struct {
	Value    string
	Position token.Position
}

func (e *StringLit) Pos() token.Position { return e.Position }
func (e *StringLit) exprNode()           {}

// NumberLit is a numeric literal. Raw preserves the source spelling.
type NumberLit struct {
	Value    float64
	Raw      string
	Position token.Position
}

func (e *NumberLit) Pos() token.Position { return e.Position }
func (e *NumberLit) exprNode()           {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value    bool
	Position token.Position
}

func (e *BoolLit) Pos() token.Position { return e.Position }
func (e *BoolLit) exprNode()           {}

// TemplateLit is a backtick template literal. Chunks and Exprs interleave:
// len(Chunks) == len(Exprs)+1, with empty chunks where interpolations abut.
type TemplateLit struct {
	Chunks   []string
	Exprs    []Expr
	Position token.Position
}

func (e *TemplateLit) Pos() token.Position { return e.Position }
func (e *TemplateLit) exprNode()           {}

// ArrayLit is `[a, b, c]`.
type ArrayLit struct {
	Elems    []Expr
	Position token.Position
}

func (e *ArrayLit) Pos() token.Position { return e.Position }
func (e *ArrayLit) exprNode()           {}

// ObjectField is one `key: value` pair of an object literal.
type ObjectField struct {
	Key      string
	Value    Expr
	Position token.Position
}

// ObjectLit is `{k: v, ...}`. Field order is preserved.
type ObjectLit struct {
	Fields   []ObjectField
	Position token.Position
}

func (e *ObjectLit) Pos() token.Position { return e.Position }
func (e *ObjectLit) exprNode()           {}

// Unary is a prefix operator application: `!x`, `-x`.
type Unary struct {
	Op       string
	Operand  Expr
	Position token.Position
}

func (e *Unary) Pos() token.Position { return e.Position }
func (e *Unary) exprNode()           {}

// Binary is an infix operator application.
type Binary struct {
	Op       string
	Left     Expr
	Right    Expr
	Position token.Position
}

func (e *Binary) Pos() token.Position { return e.Position }
func (e *Binary) exprNode()           {}

// Ternary is `cond ? then : else`.
type Ternary struct {
	Cond     Expr
	Then     Expr
	Else     Expr
	Position token.Position
}

func (e *Ternary) Pos() token.Position { return e.Position }
func (e *Ternary) exprNode()           {}

// Member is `base.name`.
type Member struct {
	Base     Expr
	Name     string
	Position token.Position
}

func (e *Member) Pos() token.Position { return e.Position }
func (e *Member) exprNode()           {}

// Index is `base[index]`.
type Index struct {
	Base     Expr
	Index    Expr
	Position token.Position
}

func (e *Index) Pos() token.Position { return e.Position }
func (e *Index) exprNode()           {}

// Call is `callee(args...)`.
type Call struct {
	Callee   Expr
	Args     []Expr
	Position token.Position
}

func (e *Call) Pos() token.Position { return e.Position }
func (e *Call) exprNode()           {}

// MarkupExpr wraps a markup element appearing in expression position, which
// is how node-valued expressions are written.
type MarkupExpr struct {
	Markup   *Element
	Position token.Position
}

func (e *MarkupExpr) Pos() token.Position { return e.Position }
func (e *MarkupExpr) exprNode()           {}
