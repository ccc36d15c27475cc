package router

import "github.com/sift-dev/sift/pkg/component"

// SegmentKind classifies a route segment.
type SegmentKind uint8

const (
	SegmentRoot SegmentKind = iota
	SegmentStatic
	SegmentDynamic
	SegmentCatchAll
)

// String returns the segment kind name.
func (k SegmentKind) String() string {
	switch k {
	case SegmentRoot:
		return "root"
	case SegmentStatic:
		return "static"
	case SegmentDynamic:
		return "dynamic"
	case SegmentCatchAll:
		return "catch-all"
	default:
		return "unknown"
	}
}

// PageRef ties a route node to the page source file and, once compiled, its
// descriptor.
type PageRef struct {
	File       string
	Descriptor *component.Descriptor
}

// LayoutRef ties a route node to a layout source file and its descriptor.
type LayoutRef struct {
	File       string
	Descriptor *component.Descriptor
}

// APIRef ties a route node to an API module source file. The handled HTTP
// methods come from the compiled descriptor's exported handlers.
type APIRef struct {
	File       string
	Descriptor *component.Descriptor
}

// Match is the result of resolving a request path.
type Match struct {
	// Pattern is the URL pattern of the matched node, e.g. "/blog/[slug]".
	Pattern string

	// Page is the matched page, if the node carries one.
	Page *PageRef

	// API is the matched API module, if the node carries one.
	API *APIRef

	// Layouts are the layouts wrapping the match, outermost (root) first.
	Layouts []*LayoutRef

	// Params maps dynamic and catch-all parameter names to the matched
	// segment values. Catch-all values join the consumed segments with "/".
	Params map[string]string
}

// RouteInfo describes one registered route for listings and diagnostics.
type RouteInfo struct {
	// Pattern is the URL pattern, e.g. "/blog/[slug]".
	Pattern string

	// PageFile and LayoutFile are the attached source files, if any.
	PageFile   string
	LayoutFile string

	// APIFile is the attached API module, if any.
	APIFile string
}
