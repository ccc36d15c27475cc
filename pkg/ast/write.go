package ast

import (
	"strings"
)

// WriteMarkup serializes a markup tree back to source text. Reparsing the
// result yields a tree equal to the original up to source positions.
func WriteMarkup(n MarkupNode) string {
	var sb strings.Builder
	writeMarkup(&sb, n)
	return sb.String()
}

func writeMarkup(sb *strings.Builder, n MarkupNode) {
	switch m := n.(type) {
	case *Element:
		sb.WriteString("<")
		sb.WriteString(m.Tag)
		for _, attr := range m.Attrs {
			sb.WriteString(" ")
			sb.WriteString(attr.Name)
			if attr.Value == nil {
				continue
			}
			sb.WriteString("=")
			if s, ok := attr.Value.(*StringLit); ok {
				sb.WriteString("\"")
				sb.WriteString(s.Value)
				sb.WriteString("\"")
			} else {
				sb.WriteString("{")
				writeExpr(sb, attr.Value)
				sb.WriteString("}")
			}
		}
		if len(m.Children) == 0 {
			sb.WriteString("/>")
			return
		}
		sb.WriteString(">")
		for _, child := range m.Children {
			writeMarkup(sb, child)
		}
		sb.WriteString("</")
		sb.WriteString(m.Tag)
		sb.WriteString(">")

	case *Text:
		sb.WriteString(m.Value)

	case *ExprNode:
		sb.WriteString("{")
		writeExpr(sb, m.Expr)
		sb.WriteString("}")

	case *If:
		sb.WriteString("{ if (")
		writeExpr(sb, m.Cond)
		sb.WriteString(") {")
		for _, child := range m.Then {
			writeMarkup(sb, child)
		}
		sb.WriteString("}")
		if m.Else != nil {
			sb.WriteString(" else {")
			for _, child := range m.Else {
				writeMarkup(sb, child)
			}
			sb.WriteString("}")
		}
		sb.WriteString(" }")

	case *For:
		sb.WriteString("{ for (")
		sb.WriteString(m.Var)
		sb.WriteString(" in ")
		writeExpr(sb, m.Iterable)
		sb.WriteString(") {")
		for _, child := range m.Body {
			writeMarkup(sb, child)
		}
		sb.WriteString("} }")
	}
}

// WriteExpr serializes an expression back to source text. Output is fully
// parenthesized where nesting is involved, so precedence survives reparsing.
func WriteExpr(e Expr) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e Expr) {
	switch x := e.(type) {
	case *Ident:
		sb.WriteString(x.Name)
	case *StringLit:
		sb.WriteString("\"")
		sb.WriteString(x.Value)
		sb.WriteString("\"")
	case *NumberLit:
		sb.WriteString(x.Raw)
	case *BoolLit:
		if x.Value {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case *TemplateLit:
		sb.WriteString("`")
		for i, chunk := range x.Chunks {
			sb.WriteString(chunk)
			if i < len(x.Exprs) {
				sb.WriteString("${")
				writeExpr(sb, x.Exprs[i])
				sb.WriteString("}")
			}
		}
		sb.WriteString("`")
	case *ArrayLit:
		sb.WriteString("[")
		for i, el := range x.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeExpr(sb, el)
		}
		sb.WriteString("]")
	case *ObjectLit:
		sb.WriteString("{")
		for i, f := range x.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Key)
			sb.WriteString(": ")
			writeExpr(sb, f.Value)
		}
		sb.WriteString("}")
	case *Unary:
		sb.WriteString(x.Op)
		writeExpr(sb, x.Operand)
	case *Binary:
		sb.WriteString("(")
		writeExpr(sb, x.Left)
		sb.WriteString(" ")
		sb.WriteString(x.Op)
		sb.WriteString(" ")
		writeExpr(sb, x.Right)
		sb.WriteString(")")
	case *Ternary:
		sb.WriteString("(")
		writeExpr(sb, x.Cond)
		sb.WriteString(" ? ")
		writeExpr(sb, x.Then)
		sb.WriteString(" : ")
		writeExpr(sb, x.Else)
		sb.WriteString(")")
	case *Member:
		writeExpr(sb, x.Base)
		sb.WriteString(".")
		sb.WriteString(x.Name)
	case *Index:
		writeExpr(sb, x.Base)
		sb.WriteString("[")
		writeExpr(sb, x.Index)
		sb.WriteString("]")
	case *Call:
		writeExpr(sb, x.Callee)
		sb.WriteString("(")
		for i, arg := range x.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeExpr(sb, arg)
		}
		sb.WriteString(")")
	case *MarkupExpr:
		writeMarkup(sb, x.Markup)
	}
}
