package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sift-dev/sift/pkg/component"
)

// RouteNode is a node in the route tree.
type RouteNode struct {
	// segment is the path segment this node matches (static nodes) or the
	// parameter name (dynamic and catch-all nodes).
	segment string

	// pattern is the full URL pattern down to this node, e.g. "/blog/[slug]".
	pattern string

	// kind classifies the segment.
	kind SegmentKind

	// attached descriptors
	page   *PageRef
	layout *LayoutRef
	api    *APIRef

	// children are static segment children
	children []*RouteNode

	// dynamicChild is the [name] child, at most one per node
	dynamicChild *RouteNode

	// catchAllChild is the [...name] child, at most one per node
	catchAllChild *RouteNode
}

// BuildRouteTree builds a route tree from the app-root file listing. Paths
// are relative to the app root and use either slash style. Files that do not
// follow the page/layout/api naming conventions are ignored. The build fails
// fast on structural violations.
func BuildRouteTree(paths []string) (*RouteNode, error) {
	root := &RouteNode{kind: SegmentRoot}

	// Insertion order must not affect the resulting tree.
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	for _, p := range sorted {
		if err := root.insert(p); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// insert registers one file in the tree.
func (n *RouteNode) insert(filePath string) error {
	clean := strings.Trim(strings.ReplaceAll(filePath, "\\", "/"), "/")
	if clean == "" {
		return nil
	}

	segments := strings.Split(clean, "/")
	dirs, base := segments[:len(segments)-1], segments[len(segments)-1]
	stem := strings.SplitN(base, ".", 2)[0]

	switch {
	case stem == "page":
		node, err := n.walk(dirs, filePath)
		if err != nil {
			return err
		}
		if node.page != nil {
			return &BuildError{
				Kind: ErrDuplicateRoute, Path: filePath,
				Msg: fmt.Sprintf("page already registered by %s", node.page.File),
			}
		}
		node.page = &PageRef{File: filePath}
		return nil

	case stem == "layout":
		node, err := n.walk(dirs, filePath)
		if err != nil {
			return err
		}
		if node.layout != nil {
			return &BuildError{
				Kind: ErrDuplicateRoute, Path: filePath,
				Msg: fmt.Sprintf("layout already registered by %s", node.layout.File),
			}
		}
		node.layout = &LayoutRef{File: filePath}
		return nil

	case underAPI(dirs):
		// The file stem becomes the final route segment: api/users.sft
		// serves /api/users.
		node, err := n.walk(append(dirs, stem), filePath)
		if err != nil {
			return err
		}
		if node.api != nil {
			return &BuildError{
				Kind: ErrDuplicateRoute, Path: filePath,
				Msg: fmt.Sprintf("API module already registered by %s", node.api.File),
			}
		}
		node.api = &APIRef{File: filePath}
		return nil

	default:
		// Not a route-bearing file (components, assets).
		return nil
	}
}

// underAPI reports whether the directory chain enters an api/ subtree.
func underAPI(dirs []string) bool {
	for _, d := range dirs {
		if d == "api" {
			return true
		}
	}
	return false
}

// walk descends from n along the given segments, creating nodes as needed.
func (n *RouteNode) walk(segments []string, filePath string) (*RouteNode, error) {
	current := n
	for i, seg := range segments {
		if current.kind == SegmentCatchAll {
			return nil, &BuildError{
				Kind: ErrCatchAllNotTerminal, Path: filePath,
				Msg: fmt.Sprintf("catch-all segment [...%s] must be the last segment on its branch", current.segment),
			}
		}

		var err error
		switch {
		case strings.HasPrefix(seg, "[...") && strings.HasSuffix(seg, "]"):
			name := seg[4 : len(seg)-1]
			if i != len(segments)-1 {
				return nil, &BuildError{
					Kind: ErrCatchAllNotTerminal, Path: filePath,
					Msg: fmt.Sprintf("catch-all segment [...%s] must be the last segment on its branch", name),
				}
			}
			current, err = current.addCatchAllChild(name, filePath)

		case strings.HasPrefix(seg, "[") && strings.HasSuffix(seg, "]"):
			name := seg[1 : len(seg)-1]
			current, err = current.addDynamicChild(name, filePath)

		default:
			current = current.addChild(seg)
		}
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

// findChild finds a static child with an exact segment match.
func (n *RouteNode) findChild(segment string) *RouteNode {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

// addChild adds or retrieves a static child node for the given segment.
func (n *RouteNode) addChild(segment string) *RouteNode {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := &RouteNode{segment: segment, kind: SegmentStatic, pattern: n.pattern + "/" + segment}
	n.children = append(n.children, child)
	return child
}

// addDynamicChild sets or retrieves the dynamic child node. Two sibling
// dynamic segments with different parameter names are ambiguous.
func (n *RouteNode) addDynamicChild(name, filePath string) (*RouteNode, error) {
	if n.dynamicChild != nil {
		if n.dynamicChild.segment != name {
			return nil, &BuildError{
				Kind: ErrAmbiguousDynamic, Path: filePath,
				Msg: fmt.Sprintf("dynamic segments [%s] and [%s] are siblings", n.dynamicChild.segment, name),
			}
		}
		return n.dynamicChild, nil
	}
	n.dynamicChild = &RouteNode{segment: name, kind: SegmentDynamic, pattern: n.pattern + "/[" + name + "]"}
	return n.dynamicChild, nil
}

// addCatchAllChild sets or retrieves the catch-all child node.
func (n *RouteNode) addCatchAllChild(name, filePath string) (*RouteNode, error) {
	if n.catchAllChild != nil {
		if n.catchAllChild.segment != name {
			return nil, &BuildError{
				Kind: ErrAmbiguousDynamic, Path: filePath,
				Msg: fmt.Sprintf("catch-all segments [...%s] and [...%s] are siblings", n.catchAllChild.segment, name),
			}
		}
		return n.catchAllChild, nil
	}
	n.catchAllChild = &RouteNode{segment: name, kind: SegmentCatchAll, pattern: n.pattern + "/[..." + name + "]"}
	return n.catchAllChild, nil
}

// Resolve matches a request path against the tree. Trailing slashes are
// normalized away; the empty path matches the root node's own page. A miss
// is a normal (nil, false) result, never an error.
func (n *RouteNode) Resolve(requestPath string) (*Match, bool) {
	params := make(map[string]string)

	var layouts []*LayoutRef
	node, layouts, ok := n.match(splitPath(requestPath), params, layouts)
	if !ok {
		return nil, false
	}
	pattern := node.pattern
	if pattern == "" {
		pattern = "/"
	}
	return &Match{
		Pattern: pattern,
		Page:    node.page,
		API:     node.api,
		Layouts: layouts,
		Params:  params,
	}, true
}

// match walks the tree one segment at a time, collecting layouts from the
// outside in. Precedence at every level is static > dynamic > catch-all.
func (n *RouteNode) match(segments []string, params map[string]string, layouts []*LayoutRef) (*RouteNode, []*LayoutRef, bool) {
	if n.layout != nil {
		layouts = append(layouts, n.layout)
	}

	if len(segments) == 0 {
		if n.page != nil || n.api != nil {
			return n, layouts, true
		}
		return nil, nil, false
	}

	segment := segments[0]
	remaining := segments[1:]

	// Static child first.
	if child := n.findChild(segment); child != nil {
		if node, l, ok := child.match(remaining, params, layouts); ok {
			return node, l, true
		}
	}

	// Fall back to the dynamic child, binding its parameter. An outer
	// segment may have bound the same name, so backtracking restores the
	// previous binding rather than deleting it.
	if n.dynamicChild != nil {
		prev, bound := params[n.dynamicChild.segment]
		params[n.dynamicChild.segment] = segment
		if node, l, ok := n.dynamicChild.match(remaining, params, layouts); ok {
			return node, l, true
		}
		if bound {
			params[n.dynamicChild.segment] = prev
		} else {
			delete(params, n.dynamicChild.segment)
		}
	}

	// Catch-all consumes the rest of the path in one step.
	if child := n.catchAllChild; child != nil && (child.page != nil || child.api != nil) {
		params[child.segment] = strings.Join(segments, "/")
		if child.layout != nil {
			layouts = append(layouts, child.layout)
		}
		return child, layouts, true
	}

	return nil, nil, false
}

// splitPath splits a URL path into segments, normalizing slashes.
func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// AttachDescriptors binds compiled descriptors to the refs in the tree,
// keyed by the source file path the tree was built from.
func (n *RouteNode) AttachDescriptors(byFile map[string]*component.Descriptor) {
	if n.page != nil {
		n.page.Descriptor = byFile[n.page.File]
	}
	if n.layout != nil {
		n.layout.Descriptor = byFile[n.layout.File]
	}
	if n.api != nil {
		n.api.Descriptor = byFile[n.api.File]
	}
	for _, child := range n.children {
		child.AttachDescriptors(byFile)
	}
	if n.dynamicChild != nil {
		n.dynamicChild.AttachDescriptors(byFile)
	}
	if n.catchAllChild != nil {
		n.catchAllChild.AttachDescriptors(byFile)
	}
}

// Routes lists every route-bearing node, depth first, for diagnostics and
// the CLI route table.
func (n *RouteNode) Routes() []RouteInfo {
	var out []RouteInfo
	n.collectRoutes(&out)
	return out
}

func (n *RouteNode) collectRoutes(out *[]RouteInfo) {
	pattern := n.pattern

	if n.page != nil || n.api != nil || n.layout != nil {
		info := RouteInfo{Pattern: pattern}
		if info.Pattern == "" {
			info.Pattern = "/"
		}
		if n.page != nil {
			info.PageFile = n.page.File
		}
		if n.layout != nil {
			info.LayoutFile = n.layout.File
		}
		if n.api != nil {
			info.APIFile = n.api.File
		}
		*out = append(*out, info)
	}

	for _, child := range n.children {
		child.collectRoutes(out)
	}
	if n.dynamicChild != nil {
		n.dynamicChild.collectRoutes(out)
	}
	if n.catchAllChild != nil {
		n.catchAllChild.collectRoutes(out)
	}
}
