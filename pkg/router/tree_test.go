package router

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sift-dev/sift/pkg/component"
)

// appFiles is the file layout used across the resolution tests.
var appFiles = []string{
	"page.sft",
	"layout.sft",
	"about/page.sft",
	"blog/layout.sft",
	"blog/page.sft",
	"blog/[slug]/page.sft",
	"docs/[...path]/page.sft",
	"api/users.sft",
	"api/users/[id].sft",
	"components/Button.sft",
}

func mustBuild(t *testing.T, paths []string) *RouteNode {
	t.Helper()
	root, err := BuildRouteTree(paths)
	if err != nil {
		t.Fatalf("BuildRouteTree() error: %v", err)
	}
	return root
}

func TestResolveStaticRoutes(t *testing.T) {
	root := mustBuild(t, appFiles)

	tests := []struct {
		name     string
		path     string
		wantFile string
		pattern  string
	}{
		{"root", "/", "page.sft", "/"},
		{"root no slash", "", "page.sft", "/"},
		{"about", "/about", "about/page.sft", "/about"},
		{"trailing slash", "/about/", "about/page.sft", "/about"},
		{"blog index", "/blog", "blog/page.sft", "/blog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := root.Resolve(tt.path)
			if !ok {
				t.Fatalf("Resolve(%q) missed", tt.path)
			}
			if m.Page == nil || m.Page.File != tt.wantFile {
				t.Errorf("page = %+v, want %s", m.Page, tt.wantFile)
			}
			if m.Pattern != tt.pattern {
				t.Errorf("pattern = %q, want %q", m.Pattern, tt.pattern)
			}
			if len(m.Params) != 0 {
				t.Errorf("params = %v, want none", m.Params)
			}
		})
	}
}

func TestResolveDynamicSegment(t *testing.T) {
	root := mustBuild(t, appFiles)

	m, ok := root.Resolve("/blog/hello-world")
	if !ok {
		t.Fatal("Resolve(/blog/hello-world) missed")
	}
	if m.Page.File != "blog/[slug]/page.sft" {
		t.Errorf("page = %s, want blog/[slug]/page.sft", m.Page.File)
	}
	if m.Pattern != "/blog/[slug]" {
		t.Errorf("pattern = %q, want /blog/[slug]", m.Pattern)
	}
	if got := m.Params["slug"]; got != "hello-world" {
		t.Errorf("slug = %q, want hello-world", got)
	}
}

func TestResolveCatchAll(t *testing.T) {
	root := mustBuild(t, appFiles)

	tests := []struct {
		path string
		want string
	}{
		{"/docs/intro", "intro"},
		{"/docs/guide/setup/linux", "guide/setup/linux"},
	}
	for _, tt := range tests {
		m, ok := root.Resolve(tt.path)
		if !ok {
			t.Fatalf("Resolve(%q) missed", tt.path)
		}
		if m.Pattern != "/docs/[...path]" {
			t.Errorf("pattern = %q, want /docs/[...path]", m.Pattern)
		}
		if got := m.Params["path"]; got != tt.want {
			t.Errorf("path param = %q, want %q", got, tt.want)
		}
	}

	// A catch-all never matches zero segments.
	if _, ok := root.Resolve("/docs"); ok {
		t.Error("Resolve(/docs) matched, want miss")
	}
}

func TestPrecedence(t *testing.T) {
	root := mustBuild(t, []string{
		"shop/all/page.sft",
		"shop/[category]/page.sft",
		"shop/[...rest]/page.sft",
	})

	tests := []struct {
		name string
		path string
		want string
	}{
		{"static wins over dynamic", "/shop/all", "shop/all/page.sft"},
		{"dynamic wins over catch-all", "/shop/books", "shop/[category]/page.sft"},
		{"catch-all takes the rest", "/shop/books/rare/first", "shop/[...rest]/page.sft"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := root.Resolve(tt.path)
			if !ok {
				t.Fatalf("Resolve(%q) missed", tt.path)
			}
			if m.Page.File != tt.want {
				t.Errorf("page = %s, want %s", m.Page.File, tt.want)
			}
		})
	}
}

func TestDynamicBacktracking(t *testing.T) {
	// A static branch that dead-ends must fall back to the dynamic sibling,
	// and the failed binding must not leak into params.
	root := mustBuild(t, []string{
		"users/admin/settings/page.sft",
		"users/[name]/profile/page.sft",
	})

	m, ok := root.Resolve("/users/admin/profile")
	if !ok {
		t.Fatal("Resolve(/users/admin/profile) missed")
	}
	if m.Page.File != "users/[name]/profile/page.sft" {
		t.Errorf("page = %s, want the dynamic branch", m.Page.File)
	}
	if m.Params["name"] != "admin" {
		t.Errorf("params = %v, want name=admin", m.Params)
	}

	m, ok = root.Resolve("/users/admin/settings")
	if !ok {
		t.Fatal("Resolve(/users/admin/settings) missed")
	}
	if m.Page.File != "users/admin/settings/page.sft" {
		t.Errorf("page = %s, want the static branch", m.Page.File)
	}
	if len(m.Params) != 0 {
		t.Errorf("params = %v, want none after backtrack", m.Params)
	}
}

func TestBacktrackingRestoresOuterBinding(t *testing.T) {
	// The inner [id] reuses the outer parameter name. When the inner
	// branch dead-ends and the catch-all takes over, the outer binding
	// must survive the backtrack.
	root := mustBuild(t, []string{
		"[id]/x/[id]/y/page.sft",
		"[id]/x/[...rest]/page.sft",
	})

	m, ok := root.Resolve("/7/x/9/z")
	if !ok {
		t.Fatal("Resolve(/7/x/9/z) missed")
	}
	if m.Page.File != "[id]/x/[...rest]/page.sft" {
		t.Errorf("page = %s, want the catch-all branch", m.Page.File)
	}
	want := map[string]string{"id": "7", "rest": "9/z"}
	if !reflect.DeepEqual(m.Params, want) {
		t.Errorf("params = %v, want %v", m.Params, want)
	}

	m, ok = root.Resolve("/7/x/9/y")
	if !ok {
		t.Fatal("Resolve(/7/x/9/y) missed")
	}
	if m.Params["id"] != "9" {
		t.Errorf("params = %v, want the inner binding to win", m.Params)
	}
}

func TestLayoutChain(t *testing.T) {
	root := mustBuild(t, appFiles)

	m, ok := root.Resolve("/blog/post-1")
	if !ok {
		t.Fatal("Resolve(/blog/post-1) missed")
	}
	var files []string
	for _, l := range m.Layouts {
		files = append(files, l.File)
	}
	want := []string{"layout.sft", "blog/layout.sft"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("layouts = %v, want %v (outermost first)", files, want)
	}
}

func TestResolveAPIRoutes(t *testing.T) {
	root := mustBuild(t, appFiles)

	m, ok := root.Resolve("/api/users")
	if !ok {
		t.Fatal("Resolve(/api/users) missed")
	}
	if m.API == nil || m.API.File != "api/users.sft" {
		t.Errorf("api = %+v, want api/users.sft", m.API)
	}
	if m.Page != nil {
		t.Error("API match carries a page")
	}

	m, ok = root.Resolve("/api/users/42")
	if !ok {
		t.Fatal("Resolve(/api/users/42) missed")
	}
	if m.API.File != "api/users/[id].sft" {
		t.Errorf("api = %s, want api/users/[id].sft", m.API.File)
	}
	if m.Params["id"] != "42" {
		t.Errorf("params = %v, want id=42", m.Params)
	}
}

func TestMisses(t *testing.T) {
	root := mustBuild(t, appFiles)

	for _, path := range []string{"/nope", "/about/deeper", "/components/Button", "/api", "/blog/x/y"} {
		if m, ok := root.Resolve(path); ok {
			t.Errorf("Resolve(%q) = %+v, want miss", path, m)
		}
	}
}

func TestNonRouteFilesIgnored(t *testing.T) {
	root := mustBuild(t, []string{
		"page.sft",
		"components/Button.sft",
		"styles/main.css",
	})
	routes := root.Routes()
	if len(routes) != 1 || routes[0].Pattern != "/" {
		t.Errorf("routes = %+v, want only /", routes)
	}
}

func TestInsertionOrderIndependence(t *testing.T) {
	forward := mustBuild(t, appFiles)

	reversed := make([]string, len(appFiles))
	for i, p := range appFiles {
		reversed[len(appFiles)-1-i] = p
	}
	backward := mustBuild(t, reversed)

	if !reflect.DeepEqual(forward.Routes(), backward.Routes()) {
		t.Errorf("route listings differ by insertion order:\n%v\n%v",
			forward.Routes(), backward.Routes())
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		kind  BuildErrorKind
	}{
		{
			"catch-all not terminal",
			[]string{"docs/[...path]/deep/page.sft"},
			ErrCatchAllNotTerminal,
		},
		{
			"file under catch-all branch",
			[]string{"docs/[...path]/page.sft", "docs/[...path]/extra/page.sft"},
			ErrCatchAllNotTerminal,
		},
		{
			"ambiguous dynamic siblings",
			[]string{"blog/[slug]/page.sft", "blog/[id]/page.sft"},
			ErrAmbiguousDynamic,
		},
		{
			"ambiguous catch-all siblings",
			[]string{"docs/[...path]/page.sft", "docs/[...rest]/page.sft"},
			ErrAmbiguousDynamic,
		},
		{
			"duplicate page",
			[]string{"about/page.sft", "about/page.md"},
			ErrDuplicateRoute,
		},
		{
			"duplicate layout",
			[]string{"layout.sft", "layout.md"},
			ErrDuplicateRoute,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRouteTree(tt.paths)
			if err == nil {
				t.Fatal("BuildRouteTree() succeeded, want error")
			}
			var buildErr *BuildError
			if !errors.As(err, &buildErr) {
				t.Fatalf("error type = %T, want *BuildError", err)
			}
			if buildErr.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", buildErr.Kind, tt.kind)
			}
		})
	}
}

func TestSameDynamicNameMerges(t *testing.T) {
	// Re-using the same parameter name across files on one branch is fine.
	root := mustBuild(t, []string{
		"blog/[slug]/page.sft",
		"blog/[slug]/comments/page.sft",
	})
	if _, ok := root.Resolve("/blog/x/comments"); !ok {
		t.Error("Resolve(/blog/x/comments) missed")
	}
}

func TestRoutesListing(t *testing.T) {
	root := mustBuild(t, appFiles)
	byPattern := map[string]RouteInfo{}
	for _, r := range root.Routes() {
		byPattern[r.Pattern] = r
	}

	rootInfo, ok := byPattern["/"]
	if !ok || rootInfo.PageFile != "page.sft" || rootInfo.LayoutFile != "layout.sft" {
		t.Errorf("root info = %+v", rootInfo)
	}
	if info := byPattern["/blog/[slug]"]; info.PageFile != "blog/[slug]/page.sft" {
		t.Errorf("/blog/[slug] info = %+v", info)
	}
	if info := byPattern["/api/users"]; info.APIFile != "api/users.sft" {
		t.Errorf("/api/users info = %+v", info)
	}
	if _, ok := byPattern["/components/Button"]; ok {
		t.Error("non-route file produced a listing entry")
	}
}

func TestAttachDescriptors(t *testing.T) {
	root := mustBuild(t, []string{"page.sft", "layout.sft", "api/ping.sft"})

	byFile := map[string]*component.Descriptor{
		"page.sft":     {Kind: component.KindPage, File: "page.sft"},
		"layout.sft":   {Kind: component.KindLayout, File: "layout.sft"},
		"api/ping.sft": {Kind: component.KindAPI, File: "api/ping.sft"},
	}
	root.AttachDescriptors(byFile)

	m, ok := root.Resolve("/")
	if !ok {
		t.Fatal("Resolve(/) missed")
	}
	if m.Page.Descriptor != byFile["page.sft"] {
		t.Error("page descriptor not attached")
	}
	if len(m.Layouts) != 1 || m.Layouts[0].Descriptor != byFile["layout.sft"] {
		t.Error("layout descriptor not attached")
	}

	m, ok = root.Resolve("/api/ping")
	if !ok {
		t.Fatal("Resolve(/api/ping) missed")
	}
	if m.API.Descriptor != byFile["api/ping.sft"] {
		t.Error("API descriptor not attached")
	}
}
