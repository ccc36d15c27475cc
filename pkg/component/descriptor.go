// Package component lowers validated source units into immutable component
// descriptors: typed prop and state schemas with concrete initial values,
// synthesized state setters, event-handler bindings, and a markup tree a
// renderer can walk without re-parsing.
//
// Lowering is a pure, deterministic, total function over validated input.
// Descriptors are created once per compiled source file and never mutated;
// a source change invalidates and rebuilds the descriptor wholesale.
package component

import (
	"github.com/sift-dev/sift/pkg/ast"
)

// Kind mirrors the source unit kind of a descriptor.
type Kind uint8

const (
	KindComponent Kind = iota
	KindPage
	KindLayout
	KindAPI
)

// String returns the kind's source keyword.
func (k Kind) String() string {
	switch k {
	case KindComponent:
		return "component"
	case KindPage:
		return "page"
	case KindLayout:
		return "layout"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Value is a typed value slot: the declared type tag plus an opaque payload.
// object/array/function values stay dynamically typed beyond their tag.
type Value struct {
	Tag  ast.TypeTag
	Data any
}

// PropSpec is one entry of a descriptor's prop schema.
type PropSpec struct {
	Name       string
	Tag        ast.TypeTag
	Default    Value
	HasDefault bool
}

// StateSpec is one entry of a descriptor's state schema. Setter is the
// synthesized mutator name derived from the field name.
type StateSpec struct {
	Name    string
	Setter  string
	Tag     ast.TypeTag
	Initial Value
}

// EventBinding is one declared event handler. The body is the opaque
// expression sequence from the source; evaluation belongs to the runtime
// collaborator.
type EventBinding struct {
	Name  string
	Param string
	Body  []ast.Expr
}

// APIBinding is one exported HTTP-method handler of an API module.
type APIBinding struct {
	Method string
	Param  string
	Body   []ast.Expr
}

// Descriptor is the lowered, immutable form of one source unit.
type Descriptor struct {
	Kind   Kind
	Name   string
	File   string
	Props  []PropSpec
	State  []StateSpec
	Events map[string]EventBinding
	API    map[string]APIBinding // method -> handler, API modules only
	Root   *Node                 // nil for API modules

	// Source is the validated unit this descriptor was lowered from.
	Source *ast.SourceUnit
}

// Methods returns the HTTP methods an API descriptor handles, in no
// particular order. Nil for non-API descriptors.
func (d *Descriptor) Methods() []string {
	if len(d.API) == 0 {
		return nil
	}
	methods := make([]string, 0, len(d.API))
	for m := range d.API {
		methods = append(methods, m)
	}
	return methods
}
