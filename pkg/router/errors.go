package router

import "fmt"

// BuildErrorKind categorizes route-tree construction errors.
type BuildErrorKind string

const (
	// ErrCatchAllNotTerminal indicates a [...name] segment followed by
	// further segments on the same branch.
	ErrCatchAllNotTerminal BuildErrorKind = "CATCH_ALL_NOT_TERMINAL"

	// ErrAmbiguousDynamic indicates two sibling dynamic segments with
	// different parameter names under the same parent.
	ErrAmbiguousDynamic BuildErrorKind = "AMBIGUOUS_DYNAMIC_SIBLING"

	// ErrDuplicateRoute indicates two files attaching the same kind of
	// descriptor to the same route node.
	ErrDuplicateRoute BuildErrorKind = "DUPLICATE_ROUTE"
)

// BuildError reports a structural violation found while building the route
// tree. Construction fails fast: a malformed tree cannot be partially
// trusted.
type BuildError struct {
	Kind BuildErrorKind
	Path string // the offending file path
	Msg  string
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, e.Path)
}
