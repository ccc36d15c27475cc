// Package artifact serializes compiled snapshots into JSON bundles and
// publishes them to a store. A bundle is the deployable form of an app:
// every descriptor plus the route table, keyed by build ID.
package artifact

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/sift-dev/sift/pkg/ast"
	"github.com/sift-dev/sift/pkg/compiler"
	"github.com/sift-dev/sift/pkg/component"
)

// Bundle is the JSON form of a snapshot. Expressions are serialized to
// source text, so the bundle is stable across builds of identical input.
type Bundle struct {
	BuildID    string          `json:"buildId"`
	CreatedAt  time.Time       `json:"createdAt"`
	Routes     []RouteJSON     `json:"routes"`
	Components []ComponentJSON `json:"components"`
}

// RouteJSON is one route table entry.
type RouteJSON struct {
	Pattern    string `json:"pattern"`
	PageFile   string `json:"pageFile,omitempty"`
	LayoutFile string `json:"layoutFile,omitempty"`
	APIFile    string `json:"apiFile,omitempty"`
}

// ComponentJSON is the JSON form of one descriptor.
type ComponentJSON struct {
	Kind   string      `json:"kind"`
	Name   string      `json:"name"`
	File   string      `json:"file"`
	Props  []PropJSON  `json:"props,omitempty"`
	State  []StateJSON `json:"state,omitempty"`
	Events []string    `json:"events,omitempty"`
	API    []string    `json:"api,omitempty"`
	Root   *NodeJSON   `json:"root,omitempty"`
}

// PropJSON is one prop schema entry.
type PropJSON struct {
	Name    string     `json:"name"`
	Type    string     `json:"type"`
	Default *ValueJSON `json:"default,omitempty"`
}

// StateJSON is one state schema entry.
type StateJSON struct {
	Name    string    `json:"name"`
	Setter  string    `json:"setter"`
	Type    string    `json:"type"`
	Initial ValueJSON `json:"initial"`
}

// ValueJSON is a typed value slot. Literal payloads serialize natively;
// dynamic payloads serialize as expression source text under Expr.
type ValueJSON struct {
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
	Expr  string `json:"expr,omitempty"`
}

// AttrJSON is one element attribute. Bare attributes have no value.
type AttrJSON struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// NodeJSON is one markup tree node.
type NodeJSON struct {
	Kind     string      `json:"kind"`
	Tag      string      `json:"tag,omitempty"`
	Attrs    []AttrJSON  `json:"attrs,omitempty"`
	Children []*NodeJSON `json:"children,omitempty"`
	Text     string      `json:"text,omitempty"`
	Expr     string      `json:"expr,omitempty"`
	Cond     string      `json:"cond,omitempty"`
	Then     []*NodeJSON `json:"then,omitempty"`
	Else     []*NodeJSON `json:"else,omitempty"`
	Var      string      `json:"var,omitempty"`
	Iterable string      `json:"iterable,omitempty"`
	Body     []*NodeJSON `json:"body,omitempty"`
}

// NewBundle converts a snapshot into its bundle form. Components are
// ordered by file path so identical input yields identical output.
func NewBundle(snap *compiler.Snapshot) *Bundle {
	files := make([]string, 0, len(snap.Descriptors))
	for file := range snap.Descriptors {
		files = append(files, file)
	}
	sort.Strings(files)

	components := make([]ComponentJSON, 0, len(files))
	for _, file := range files {
		components = append(components, newComponentJSON(snap.Descriptors[file]))
	}

	routes := snap.Routes.Routes()
	routeJSON := make([]RouteJSON, len(routes))
	for i, r := range routes {
		routeJSON[i] = RouteJSON{
			Pattern:    r.Pattern,
			PageFile:   r.PageFile,
			LayoutFile: r.LayoutFile,
			APIFile:    r.APIFile,
		}
	}

	return &Bundle{
		BuildID:    snap.BuildID,
		CreatedAt:  snap.CreatedAt,
		Routes:     routeJSON,
		Components: components,
	}
}

// Encode serializes the bundle, optionally indented.
func (b *Bundle) Encode(pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(b, "", "  ")
	}
	return json.Marshal(b)
}

func newComponentJSON(d *component.Descriptor) ComponentJSON {
	out := ComponentJSON{
		Kind: d.Kind.String(),
		Name: d.Name,
		File: d.File,
		Root: newNodeJSON(d.Root),
	}

	for _, p := range d.Props {
		pj := PropJSON{Name: p.Name, Type: string(p.Tag)}
		if p.HasDefault {
			v := newValueJSON(p.Default)
			pj.Default = &v
		}
		out.Props = append(out.Props, pj)
	}

	for _, s := range d.State {
		out.State = append(out.State, StateJSON{
			Name:    s.Name,
			Setter:  s.Setter,
			Type:    string(s.Tag),
			Initial: newValueJSON(s.Initial),
		})
	}

	for name := range d.Events {
		out.Events = append(out.Events, name)
	}
	sort.Strings(out.Events)

	for method := range d.API {
		out.API = append(out.API, method)
	}
	sort.Strings(out.API)

	return out
}

func newValueJSON(v component.Value) ValueJSON {
	out := ValueJSON{Type: string(v.Tag)}
	switch data := v.Data.(type) {
	case ast.Expr:
		out.Expr = ast.WriteExpr(data)
	case []component.Value:
		vals := make([]ValueJSON, len(data))
		for i, el := range data {
			vals[i] = newValueJSON(el)
		}
		out.Value = vals
	case map[string]component.Value:
		fields := make(map[string]ValueJSON, len(data))
		for k, el := range data {
			fields[k] = newValueJSON(el)
		}
		out.Value = fields
	default:
		out.Value = data
	}
	return out
}

func newNodeJSON(n *component.Node) *NodeJSON {
	if n == nil {
		return nil
	}
	out := &NodeJSON{Kind: n.Kind.String()}

	switch n.Kind {
	case component.NodeElement:
		out.Tag = n.Tag
		for _, a := range n.Attrs {
			aj := AttrJSON{Name: a.Name}
			if a.Value != nil {
				aj.Value = ast.WriteExpr(a.Value)
			}
			out.Attrs = append(out.Attrs, aj)
		}
		out.Children = newNodeListJSON(n.Children)

	case component.NodeText:
		out.Text = n.Text

	case component.NodeExpr:
		out.Expr = ast.WriteExpr(n.Expr)

	case component.NodeIf:
		out.Cond = ast.WriteExpr(n.Cond)
		out.Then = newNodeListJSON(n.Then)
		out.Else = newNodeListJSON(n.Else)

	case component.NodeFor:
		out.Var = n.Var
		out.Iterable = ast.WriteExpr(n.Iterable)
		out.Body = newNodeListJSON(n.Body)
	}
	return out
}

func newNodeListJSON(nodes []*component.Node) []*NodeJSON {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*NodeJSON, len(nodes))
	for i, n := range nodes {
		out[i] = newNodeJSON(n)
	}
	return out
}
