package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/sift-dev/sift/pkg/ast"
)

func mustParse(t *testing.T, file, src string) *ast.SourceUnit {
	t.Helper()
	unit, err := ParseSource(file, src)
	if err != nil {
		t.Fatalf("ParseSource(%s) error: %v", file, err)
	}
	return unit
}

func TestParseComponent(t *testing.T) {
	src := `component Counter {
  props {
    label: string = "Count"
    step: number = 1
  }
  state {
    count: number = 0
  }
  on increment() {
    setCount(count + step)
  }
  export increment
}
<div class="counter">
  <span>{label}: {count}</span>
  <button onClick={increment}>+</button>
</div>`

	unit := mustParse(t, "counter.sft", src)

	if unit.Kind != ast.UnitComponent {
		t.Errorf("Kind = %v, want component", unit.Kind)
	}
	if unit.Name != "Counter" {
		t.Errorf("Name = %q, want Counter", unit.Name)
	}
	if len(unit.Props) != 2 {
		t.Fatalf("props = %d, want 2", len(unit.Props))
	}
	if unit.Props[0].Name != "label" || unit.Props[0].Type != ast.TagString {
		t.Errorf("prop[0] = %s:%s, want label:string", unit.Props[0].Name, unit.Props[0].Type)
	}
	if lit, ok := unit.Props[1].Default.(*ast.NumberLit); !ok || lit.Value != 1 {
		t.Errorf("prop step default = %#v, want NumberLit(1)", unit.Props[1].Default)
	}
	if len(unit.State) != 1 || unit.State[0].Name != "count" {
		t.Fatalf("state = %+v, want one count field", unit.State)
	}
	if len(unit.Events) != 1 || unit.Events[0].Name != "increment" {
		t.Fatalf("events = %+v, want one increment handler", unit.Events)
	}
	if len(unit.Events[0].Body) != 1 {
		t.Errorf("handler body exprs = %d, want 1", len(unit.Events[0].Body))
	}
	if len(unit.Exports) != 1 || unit.Exports[0].Name != "increment" {
		t.Errorf("exports = %+v, want [increment]", unit.Exports)
	}

	root := unit.Markup
	if root == nil || root.Tag != "div" {
		t.Fatalf("markup root = %+v, want <div>", root)
	}
	if len(root.Attrs) != 1 || root.Attrs[0].Name != "class" {
		t.Errorf("root attrs = %+v, want class", root.Attrs)
	}
	if len(root.Children) != 2 {
		t.Errorf("root children = %d, want 2", len(root.Children))
	}
}

func TestParsePageAndLayout(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind ast.UnitKind
	}{
		{"page", `page Home {} <main><h1>Home</h1></main>`, ast.UnitPage},
		{"layout", `layout Shell {} <div>{children}</div>`, ast.UnitLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := mustParse(t, tt.name+".sft", tt.src)
			if unit.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", unit.Kind, tt.kind)
			}
			if unit.Markup == nil {
				t.Error("Markup is nil")
			}
		})
	}
}

func TestParseAPIModule(t *testing.T) {
	src := `export GET(request) {
  respond(200, listUsers(request))
}
export POST(request) {
  respond(201, createUser(request))
}`
	unit := mustParse(t, "api/users.sft", src)

	if unit.Kind != ast.UnitAPI {
		t.Fatalf("Kind = %v, want api", unit.Kind)
	}
	if unit.Markup != nil {
		t.Error("API module carries markup")
	}
	if len(unit.Handlers) != 2 {
		t.Fatalf("handlers = %d, want 2", len(unit.Handlers))
	}
	if unit.Handlers[0].Method != "GET" || unit.Handlers[0].Param != "request" {
		t.Errorf("handler[0] = %s(%s), want GET(request)", unit.Handlers[0].Method, unit.Handlers[0].Param)
	}
	if unit.Handlers[1].Method != "POST" {
		t.Errorf("handler[1].Method = %s, want POST", unit.Handlers[1].Method)
	}
}

func TestParseControlConstructs(t *testing.T) {
	src := `component Status {
  props { items: array = [] }
  state { open: boolean = false }
}
<div>
  {if (open) {
    <ul>
      {for (item in items) {
        <li>{item.name}</li>
      }}
    </ul>
  } else {
    <p>closed</p>
  }}
</div>`

	unit := mustParse(t, "status.sft", src)

	root := unit.Markup
	if len(root.Children) != 1 {
		t.Fatalf("root children = %d, want 1", len(root.Children))
	}
	cond, ok := root.Children[0].(*ast.If)
	if !ok {
		t.Fatalf("child = %T, want *ast.If", root.Children[0])
	}
	if _, ok := cond.Cond.(*ast.Ident); !ok {
		t.Errorf("condition = %T, want *ast.Ident", cond.Cond)
	}
	if cond.Else == nil {
		t.Fatal("else branch missing")
	}

	ul, ok := cond.Then[0].(*ast.Element)
	if !ok || ul.Tag != "ul" {
		t.Fatalf("then[0] = %+v, want <ul>", cond.Then[0])
	}
	loop, ok := ul.Children[0].(*ast.For)
	if !ok {
		t.Fatalf("ul child = %T, want *ast.For", ul.Children[0])
	}
	if loop.Var != "item" {
		t.Errorf("loop var = %q, want item", loop.Var)
	}
	li, ok := loop.Body[0].(*ast.Element)
	if !ok || li.Tag != "li" {
		t.Fatalf("loop body = %+v, want <li>", loop.Body[0])
	}
}

func TestAttributeForms(t *testing.T) {
	unit := mustParse(t, "attrs.sft",
		`component B {} <button disabled class="btn" onClick={go} title={`+"`hi ${name}`"+`}>Go</button>`)

	attrs := unit.Markup.Attrs
	if len(attrs) != 4 {
		t.Fatalf("attrs = %d, want 4", len(attrs))
	}
	if attrs[0].Name != "disabled" || attrs[0].Value != nil {
		t.Errorf("bare attribute = %+v, want disabled with nil value", attrs[0])
	}
	if _, ok := attrs[1].Value.(*ast.StringLit); !ok {
		t.Errorf("class value = %T, want *ast.StringLit", attrs[1].Value)
	}
	if _, ok := attrs[2].Value.(*ast.Ident); !ok {
		t.Errorf("onClick value = %T, want *ast.Ident", attrs[2].Value)
	}
	if _, ok := attrs[3].Value.(*ast.TemplateLit); !ok {
		t.Errorf("title value = %T, want *ast.TemplateLit", attrs[3].Value)
	}
}

func TestInterTagWhitespaceDropped(t *testing.T) {
	unit := mustParse(t, "ws.sft", "component W {}\n<div>\n  <p>a</p>\n  <p>b</p>\n</div>")
	for _, child := range unit.Markup.Children {
		if txt, ok := child.(*ast.Text); ok {
			t.Errorf("formatting whitespace kept as text node %q", txt.Value)
		}
	}
	if len(unit.Markup.Children) != 2 {
		t.Errorf("children = %d, want 2", len(unit.Markup.Children))
	}
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"mul before add", "{a + b * c}", "(a + (b * c))"},
		{"comparison before and", "{a < b && c > d}", "((a < b) && (c > d))"},
		{"and before or", "{a || b && c}", "(a || (b && c))"},
		{"ternary", "{ok ? a : b}", "(ok ? a : b)"},
		{"unary binds tight", "{!a && b}", "(!a && b)"},
		{"member chain", "{user.profile.name}", "user.profile.name"},
		{"call with args", "{fmt(a, b + 1)}", "fmt(a, (b + 1))"},
		{"index", "{items[i + 1]}", "items[(i + 1)]"},
		{"parens override", "{(a + b) * c}", "((a + b) * c)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := mustParse(t, "expr.sft", "component E {} <p>"+tt.src+"</p>")
			node, ok := unit.Markup.Children[0].(*ast.ExprNode)
			if !ok {
				t.Fatalf("child = %T, want *ast.ExprNode", unit.Markup.Children[0])
			}
			if got := ast.WriteExpr(node.Expr); got != tt.want {
				t.Errorf("WriteExpr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkupRoundTrip(t *testing.T) {
	src := `component R {
  props { items: array = [] }
  state { open: boolean = false }
}
<div class="wrap">
  <h1>Heading</h1>
  {if (open) {<p>{items[0]}</p>} else {<p>empty</p>}}
  {for (it in items) {<span>{it}</span>}}
</div>`

	first := mustParse(t, "r.sft", src)
	printed := ast.WriteMarkup(first.Markup)

	second, err := ParseSource("r.sft", "component R { props { items: array = [] } state { open: boolean = false } }\n"+printed)
	if err != nil {
		t.Fatalf("reparse of %q failed: %v", printed, err)
	}
	if again := ast.WriteMarkup(second.Markup); again != printed {
		t.Errorf("round trip drifted:\nfirst  = %s\nsecond = %s", printed, again)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"missing name", `component { } <div/>`, "IDENT"},
		{"unknown unit keyword", `props Foo {} <div/>`, "expected component, page, layout or export"},
		{"unknown type", `component C { state { n: float } } <div/>`, "unknown type"},
		{"mismatched closing tag", `component C {} <div><p>x</span></div>`, "mismatched closing tag: <p> closed by </span>"},
		{"unclosed element", `component C {} <div><p>x`, "EOF"},
		{"bad api export", `export fetchUsers(request) { request }`, "expected an HTTP method name"},
		{"empty api module", `export `, "IDENT"},
		{"for without in", `component C { props { xs: array } } <ul>{for (x of xs) {<li/>}}</ul>`, `expected "in"`},
		{"trailing garbage", `component C {} <div/> <div/>`, "EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSource("bad.sft", tt.src)
			if err == nil {
				t.Fatal("ParseSource succeeded, want error")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestDeclSeparators(t *testing.T) {
	// Comma separators and bare newlines are both accepted.
	unit := mustParse(t, "sep.sft", `component S {
  props { a: string, b: number
    c: boolean }
} <div/>`)
	if len(unit.Props) != 3 {
		t.Errorf("props = %d, want 3", len(unit.Props))
	}
}
