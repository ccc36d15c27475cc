package compiler

import (
	"errors"
	"testing"

	"github.com/sift-dev/sift/pkg/component"
	"github.com/sift-dev/sift/pkg/lexer"
	"github.com/sift-dev/sift/pkg/parser"
	"github.com/sift-dev/sift/pkg/router"
	"github.com/sift-dev/sift/pkg/semantic"
)

// appFiles is a small valid app used across the snapshot tests.
var appFiles = map[string]string{
	"page.sft":             `page Home {} <main><h1>Welcome</h1></main>`,
	"layout.sft":           `layout Shell {} <div class="shell">{children}</div>`,
	"about/page.sft":       `page About {} <main>About {params.name}</main>`,
	"blog/[slug]/page.sft": `page Post {} <article>{params.slug}</article>`,
	"api/users.sft":        `export GET(request) { request.query }`,
	"components/Tag.sft":   `component Tag { props { label: string = "" } } <span>{label}</span>`,
}

func TestCompile(t *testing.T) {
	d, err := Compile("counter.sft", `component Counter {
  state { count: number = 0 }
  on increment() { setCount(count + 1) }
}
<button onClick={increment}>{count}</button>`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if d.Kind != component.KindComponent || d.Name != "Counter" {
		t.Errorf("descriptor = %s %s, want component Counter", d.Kind, d.Name)
	}
	if len(d.State) != 1 || d.State[0].Setter != "setCount" {
		t.Errorf("state = %+v", d.State)
	}
}

func TestCompileErrorTypes(t *testing.T) {
	t.Run("lex", func(t *testing.T) {
		_, err := Compile("bad.sft", `component C { @ } <div/>`)
		var lexErr *lexer.LexError
		if !errors.As(err, &lexErr) {
			t.Errorf("error = %T(%v), want *lexer.LexError", err, err)
		}
	})
	t.Run("parse", func(t *testing.T) {
		_, err := Compile("bad.sft", `component C {} <div><p>x</div>`)
		var parseErr *parser.ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("error = %T(%v), want *parser.ParseError", err, err)
		}
	})
	t.Run("semantic", func(t *testing.T) {
		_, err := Compile("bad.sft", `component C {} <p>{nope}</p>`)
		var list semantic.ErrorList
		if !errors.As(err, &list) {
			t.Fatalf("error = %T(%v), want semantic.ErrorList", err, err)
		}
		if len(list) != 1 || list[0].Code != semantic.ErrUnresolvedIdent {
			t.Errorf("list = %v", list)
		}
	})
}

func TestCompileAll(t *testing.T) {
	descriptors, failures := CompileAll(appFiles)
	if failures != nil {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(descriptors) != len(appFiles) {
		t.Errorf("descriptors = %d, want %d", len(descriptors), len(appFiles))
	}
	if d := descriptors["api/users.sft"]; d == nil || d.Kind != component.KindAPI {
		t.Errorf("api descriptor = %+v", d)
	}
}

func TestCompileAllCollectsPerFileErrors(t *testing.T) {
	files := map[string]string{
		"good.sft": `page Good {} <p>ok</p>`,
		"bad1.sft": `page Bad {} <p>{missing}</p>`,
		"bad2.sft": `component { } <div/>`,
	}
	descriptors, failures := CompileAll(files)
	if len(failures) != 2 {
		t.Fatalf("failures = %v, want bad1 and bad2", failures)
	}
	if _, ok := failures["bad1.sft"]; !ok {
		t.Error("bad1.sft missing from failures")
	}
	if _, ok := failures["bad2.sft"]; !ok {
		t.Error("bad2.sft missing from failures")
	}
	if descriptors["good.sft"] == nil {
		t.Error("good.sft descriptor missing despite sibling failures")
	}
}

func TestBuildFailureMessage(t *testing.T) {
	f := &BuildFailure{Errors: map[string]error{
		"b.sft": errors.New("second"),
		"a.sft": errors.New("first"),
	}}
	msg := f.Error()
	if msg != "2 files failed to compile:\n  first\n  second" {
		t.Errorf("message = %q", msg)
	}

	single := &BuildFailure{Errors: map[string]error{"a.sft": errors.New("only")}}
	if single.Error() != "only" {
		t.Errorf("single message = %q", single.Error())
	}
}

func TestBuildSnapshot(t *testing.T) {
	snap, err := BuildSnapshot(appFiles)
	if err != nil {
		t.Fatalf("BuildSnapshot() error: %v", err)
	}
	if snap.BuildID == "" {
		t.Error("BuildID is empty")
	}
	if snap.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
	if len(snap.Descriptors) != len(appFiles) {
		t.Errorf("descriptors = %d, want %d", len(snap.Descriptors), len(appFiles))
	}

	m, ok := snap.Resolve("/blog/first-post")
	if !ok {
		t.Fatal("Resolve(/blog/first-post) missed")
	}
	if m.Page.Descriptor == nil || m.Page.Descriptor.Name != "Post" {
		t.Errorf("attached descriptor = %+v, want Post", m.Page.Descriptor)
	}
	if len(m.Layouts) != 1 || m.Layouts[0].Descriptor.Name != "Shell" {
		t.Errorf("layouts = %+v, want Shell attached", m.Layouts)
	}

	other, err := BuildSnapshot(appFiles)
	if err != nil {
		t.Fatalf("second build error: %v", err)
	}
	if other.BuildID == snap.BuildID {
		t.Error("two builds share a BuildID")
	}
}

func TestBuildSnapshotFailures(t *testing.T) {
	t.Run("compile failure", func(t *testing.T) {
		_, err := BuildSnapshot(map[string]string{
			"page.sft": `page Home {} <p>{missing}</p>`,
		})
		var failure *BuildFailure
		if !errors.As(err, &failure) {
			t.Fatalf("error = %T(%v), want *BuildFailure", err, err)
		}
		if _, ok := failure.Errors["page.sft"]; !ok {
			t.Errorf("Errors = %v, want page.sft entry", failure.Errors)
		}
	})

	t.Run("route tree failure", func(t *testing.T) {
		_, err := BuildSnapshot(map[string]string{
			"blog/[a]/page.sft": `page A {} <p>a</p>`,
			"blog/[b]/page.sft": `page B {} <p>b</p>`,
		})
		var buildErr *router.BuildError
		if !errors.As(err, &buildErr) {
			t.Fatalf("error = %T(%v), want *router.BuildError", err, err)
		}
		if buildErr.Kind != router.ErrAmbiguousDynamic {
			t.Errorf("Kind = %s, want %s", buildErr.Kind, router.ErrAmbiguousDynamic)
		}
	})
}

func TestPublisher(t *testing.T) {
	p := NewPublisher(nil)
	if p.Current() != nil {
		t.Error("Current() != nil before first publish")
	}

	first, err := BuildSnapshot(appFiles)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	p.Publish(first)
	if p.Current() != first {
		t.Error("Current() did not return the published snapshot")
	}

	held := p.Current()
	second, err := BuildSnapshot(appFiles)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	p.Publish(second)

	if p.Current() != second {
		t.Error("Current() did not advance to the new snapshot")
	}
	// The previous generation stays intact for readers that loaded it.
	if _, ok := held.Resolve("/about"); !ok {
		t.Error("old snapshot stopped resolving after swap")
	}

	seeded := NewPublisher(first)
	if seeded.Current() != first {
		t.Error("seeded publisher does not return the initial snapshot")
	}
}
