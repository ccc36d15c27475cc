package component

import (
	"github.com/sift-dev/sift/pkg/ast"
	"github.com/sift-dev/sift/pkg/semantic"
)

// Lower builds the descriptor for a validated source unit. It has no
// failure path of its own: any input that passes validation lowers.
func Lower(unit *ast.SourceUnit) *Descriptor {
	d := &Descriptor{
		Name:   unit.Name,
		File:   unit.File,
		Source: unit,
	}

	switch unit.Kind {
	case ast.UnitComponent:
		d.Kind = KindComponent
	case ast.UnitPage:
		d.Kind = KindPage
	case ast.UnitLayout:
		d.Kind = KindLayout
	case ast.UnitAPI:
		d.Kind = KindAPI
		d.API = make(map[string]APIBinding, len(unit.Handlers))
		for _, h := range unit.Handlers {
			d.API[h.Method] = APIBinding{Method: h.Method, Param: h.Param, Body: h.Body}
		}
		return d
	}

	d.Props = make([]PropSpec, 0, len(unit.Props))
	for _, p := range unit.Props {
		spec := PropSpec{Name: p.Name, Tag: p.Type}
		if p.Default != nil {
			spec.Default = resolveValue(p.Type, p.Default)
			spec.HasDefault = true
		}
		d.Props = append(d.Props, spec)
	}

	d.State = make([]StateSpec, 0, len(unit.State))
	for _, s := range unit.State {
		spec := StateSpec{
			Name:   s.Name,
			Setter: semantic.SetterName(s.Name),
			Tag:    s.Type,
		}
		if s.Default != nil {
			spec.Initial = resolveValue(s.Type, s.Default)
		} else {
			spec.Initial = zeroValue(s.Type)
		}
		d.State = append(d.State, spec)
	}

	d.Events = make(map[string]EventBinding, len(unit.Events))
	for _, ev := range unit.Events {
		d.Events[ev.Name] = EventBinding{Name: ev.Name, Param: ev.Param, Body: ev.Body}
	}

	if unit.Markup != nil {
		d.Root = lowerMarkup(unit.Markup)
	}
	return d
}

// resolveValue turns a default expression into a concrete typed value.
// Literals resolve to their Go payloads; anything dynamic keeps the
// expression itself as the payload for the runtime to evaluate.
func resolveValue(tag ast.TypeTag, expr ast.Expr) Value {
	switch e := expr.(type) {
	case *ast.StringLit:
		return Value{Tag: tag, Data: e.Value}
	case *ast.NumberLit:
		return Value{Tag: tag, Data: e.Value}
	case *ast.BoolLit:
		return Value{Tag: tag, Data: e.Value}
	case *ast.ArrayLit:
		elems := make([]Value, 0, len(e.Elems))
		for _, el := range e.Elems {
			elems = append(elems, resolveValue(inferTag(el), el))
		}
		return Value{Tag: tag, Data: elems}
	case *ast.ObjectLit:
		fields := make(map[string]Value, len(e.Fields))
		for _, f := range e.Fields {
			fields[f.Key] = resolveValue(inferTag(f.Value), f.Value)
		}
		return Value{Tag: tag, Data: fields}
	default:
		return Value{Tag: tag, Data: expr}
	}
}

// inferTag guesses the tag of a nested literal; non-literals stay opaque
// under their parent's declared tag.
func inferTag(expr ast.Expr) ast.TypeTag {
	switch expr.(type) {
	case *ast.StringLit, *ast.TemplateLit:
		return ast.TagString
	case *ast.NumberLit:
		return ast.TagNumber
	case *ast.BoolLit:
		return ast.TagBoolean
	case *ast.ArrayLit:
		return ast.TagArray
	case *ast.ObjectLit:
		return ast.TagObject
	case *ast.MarkupExpr:
		return ast.TagNode
	default:
		return ast.TagObject
	}
}

// zeroValue is the initial value of a state field with no default.
func zeroValue(tag ast.TypeTag) Value {
	switch tag {
	case ast.TagString:
		return Value{Tag: tag, Data: ""}
	case ast.TagNumber:
		return Value{Tag: tag, Data: float64(0)}
	case ast.TagBoolean:
		return Value{Tag: tag, Data: false}
	case ast.TagArray:
		return Value{Tag: tag, Data: []Value{}}
	case ast.TagObject:
		return Value{Tag: tag, Data: map[string]Value{}}
	default:
		return Value{Tag: tag, Data: nil}
	}
}

// lowerMarkup flattens an AST markup node into the renderer-facing tree.
func lowerMarkup(node ast.MarkupNode) *Node {
	switch m := node.(type) {
	case *ast.Element:
		el := &Node{Kind: NodeElement, Tag: m.Tag}
		if len(m.Attrs) > 0 {
			el.Attrs = make([]Attr, 0, len(m.Attrs))
			for _, a := range m.Attrs {
				el.Attrs = append(el.Attrs, Attr{Name: a.Name, Value: a.Value})
			}
		}
		el.Children = lowerChildren(m.Children)
		return el

	case *ast.Text:
		return &Node{Kind: NodeText, Text: m.Value}

	case *ast.ExprNode:
		return &Node{Kind: NodeExpr, Expr: m.Expr}

	case *ast.If:
		return &Node{
			Kind: NodeIf,
			Cond: m.Cond,
			Then: lowerChildren(m.Then),
			Else: lowerChildren(m.Else),
		}

	case *ast.For:
		return &Node{
			Kind:     NodeFor,
			Var:      m.Var,
			Iterable: m.Iterable,
			Body:     lowerChildren(m.Body),
		}

	default:
		return nil
	}
}

func lowerChildren(children []ast.MarkupNode) []*Node {
	if len(children) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(children))
	for _, child := range children {
		if n := lowerMarkup(child); n != nil {
			out = append(out, n)
		}
	}
	return out
}
