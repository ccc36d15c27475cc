package lexer

import (
	"errors"
	"strings"
	"testing"

	"github.com/sift-dev/sift/pkg/token"
)

// kinds extracts the kind sequence of a token stream, excluding the EOF.
func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.EOF {
			break
		}
		out = append(out, t.Kind)
	}
	return out
}

func lexemes(toks []token.Token) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.EOF {
			break
		}
		out = append(out, t.Lexeme)
	}
	return out
}

func equalKinds(a, b []token.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTokenizeDeclarationHeader(t *testing.T) {
	toks, err := Tokenize("counter.sft", `component Counter { state { count: number = 0 } } <div/>`)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}

	want := []token.Kind{
		token.Keyword, token.Ident, token.LBrace,
		token.Keyword, token.LBrace,
		token.Ident, token.Punct, token.Ident, token.Punct, token.Number,
		token.RBrace, token.RBrace,
		token.MarkupOpen, token.Ident, token.MarkupSelfClose,
	}
	if got := kinds(toks); !equalKinds(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}
	if toks[len(toks)-1].Kind != token.EOF {
		t.Errorf("stream not terminated by EOF, last = %v", toks[len(toks)-1])
	}
}

func TestTokenizeMarkupWithInterpolation(t *testing.T) {
	toks, err := Tokenize("greeting.sft", `<p>Hello {name}!</p>`)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}

	want := []token.Kind{
		token.MarkupOpen, token.Ident, token.MarkupClose,
		token.Text,
		token.LBrace, token.Ident, token.RBrace,
		token.Text,
		token.MarkupEndOpen, token.Ident, token.MarkupClose,
	}
	if got := kinds(toks); !equalKinds(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	if toks[3].Lexeme != "Hello " {
		t.Errorf("text run = %q, want %q", toks[3].Lexeme, "Hello ")
	}
	if toks[5].Lexeme != "name" {
		t.Errorf("interpolated ident = %q, want %q", toks[5].Lexeme, "name")
	}
}

func TestLessThanIsOperatorAfterOperand(t *testing.T) {
	// Inside an interpolation, < after a complete operand is a comparison,
	// not a tag start.
	toks, err := Tokenize("cmp.sft", `<p>{count < limit}</p>`)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}

	var sawOperator bool
	for _, tok := range toks {
		if tok.Kind == token.Punct && tok.Lexeme == "<" {
			sawOperator = true
		}
		if tok.Kind == token.MarkupOpen && tok.Pos.Offset > 3 {
			t.Fatalf("< after operand lexed as markup open at %s", tok.Pos)
		}
	}
	if !sawOperator {
		t.Error("no < operator token produced")
	}
}

func TestTwoCharOperators(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"and", `<p>{a && b}</p>`, "&&"},
		{"or", `<p>{a || b}</p>`, "||"},
		{"eq", `<p>{a == b}</p>`, "=="},
		{"neq", `<p>{a != b}</p>`, "!="},
		{"lte", `<p>{a <= b}</p>`, "<="},
		{"gte", `<p>{a >= b}</p>`, ">="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize("op.sft", tt.src)
			if err != nil {
				t.Fatalf("Tokenize() error: %v", err)
			}
			found := false
			for _, tok := range toks {
				if tok.Kind == token.Punct && tok.Lexeme == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("operator %q not produced; lexemes = %v", tt.want, lexemes(toks))
			}
		})
	}
}

func TestControlConstructBodies(t *testing.T) {
	src := `<div>{if (ok) {<span>Yes</span>} else {<span>No</span>}}</div>`
	toks, err := Tokenize("cond.sft", src)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}

	// The if keyword must surface as a keyword token, and the nested spans
	// must lex as markup, not as object-literal braces.
	var haveIf, haveElse bool
	var spans int
	for _, tok := range toks {
		if tok.Kind == token.Keyword && tok.Lexeme == "if" {
			haveIf = true
		}
		if tok.Kind == token.Keyword && tok.Lexeme == "else" {
			haveElse = true
		}
		if tok.Kind == token.Ident && tok.Lexeme == "span" {
			spans++
		}
	}
	if !haveIf || !haveElse {
		t.Errorf("if/else keywords missing: if=%v else=%v", haveIf, haveElse)
	}
	if spans != 4 {
		t.Errorf("span tag idents = %d, want 4 (two open, two close)", spans)
	}
}

func TestForLoopLexesBodyAsMarkup(t *testing.T) {
	toks, err := Tokenize("list.sft", `<ul>{for (item in items) {<li>{item}</li>}}</ul>`)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	var haveFor, haveIn, haveLi bool
	for _, tok := range toks {
		switch {
		case tok.Kind == token.Keyword && tok.Lexeme == "for":
			haveFor = true
		case tok.Kind == token.Keyword && tok.Lexeme == "in":
			haveIn = true
		case tok.Kind == token.Ident && tok.Lexeme == "li":
			haveLi = true
		}
	}
	if !haveFor || !haveIn || !haveLi {
		t.Errorf("for=%v in=%v li=%v, want all true", haveFor, haveIn, haveLi)
	}
}

func TestObjectLiteralBracesStayInExpression(t *testing.T) {
	// Braces of an object literal inside an interpolation must not
	// terminate the expression frame.
	toks, err := Tokenize("obj.sft", `<p>{fmt({a: 1})}</p>`)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	var closeTag int
	for _, tok := range toks {
		if tok.Kind == token.MarkupEndOpen {
			closeTag++
		}
	}
	if closeTag != 1 {
		t.Errorf("closing tags = %d, want 1", closeTag)
	}
}

func TestTemplateLiteral(t *testing.T) {
	toks, err := Tokenize("tpl.sft", "<p>{`Hello ${name}!`}</p>")
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}

	want := []token.Kind{
		token.MarkupOpen, token.Ident, token.MarkupClose,
		token.LBrace,
		token.TemplateStart,
		token.TemplateChunk,
		token.TemplateExprStart, token.Ident, token.RBrace,
		token.TemplateChunk,
		token.TemplateEnd,
		token.RBrace,
		token.MarkupEndOpen, token.Ident, token.MarkupClose,
	}
	if got := kinds(toks); !equalKinds(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	if toks[5].Lexeme != "Hello " {
		t.Errorf("first chunk = %q, want %q", toks[5].Lexeme, "Hello ")
	}
	if toks[9].Lexeme != "!" {
		t.Errorf("second chunk = %q, want %q", toks[9].Lexeme, "!")
	}
}

func TestStringLiteralsAndEscapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"double", `component C { state { s: string = "hi" } } <div/>`, "hi"},
		{"single", `component C { state { s: string = 'hi' } } <div/>`, "hi"},
		{"escaped quote", `component C { state { s: string = "a\"b" } } <div/>`, `a\"b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize("str.sft", tt.src)
			if err != nil {
				t.Fatalf("Tokenize() error: %v", err)
			}
			var got string
			for _, tok := range toks {
				if tok.Kind == token.String {
					got = tok.Lexeme
				}
			}
			if got != tt.want {
				t.Errorf("string lexeme = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLineCommentsSkipped(t *testing.T) {
	src := "component C {\n\t// not a token\n} <div/>"
	toks, err := Tokenize("c.sft", src)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	for _, tok := range toks {
		if strings.Contains(tok.Lexeme, "not a token") {
			t.Errorf("comment leaked into token %v", tok)
		}
	}
}

func TestPositions(t *testing.T) {
	toks, err := Tokenize("pos.sft", "component C {\n  state { n: number }\n} <div/>")
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	// The state keyword sits on line 2, column 3.
	for _, tok := range toks {
		if tok.Kind == token.Keyword && tok.Lexeme == "state" {
			if tok.Pos.Line != 2 || tok.Pos.Column != 3 {
				t.Errorf("state position = %s, want 2:3", tok.Pos)
			}
			return
		}
	}
	t.Fatal("state keyword not found")
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{"unexpected char", `component C { @ } <div/>`, "unexpected character"},
		{"unterminated string", `component C { state { s: string = "oops } } <div/>`, "unterminated string"},
		{"string broken by newline", "component C { state { s: string = \"a\nb\" } } <div/>", "unterminated string"},
		{"unterminated template", "<p>{`never closed}</p>", "unterminated template"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize("bad.sft", tt.src)
			if err == nil {
				t.Fatal("Tokenize() succeeded, want error")
			}
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("error type = %T, want *LexError", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantMsg)
			}
			if lexErr.File != "bad.sft" {
				t.Errorf("File = %q, want %q", lexErr.File, "bad.sft")
			}
		})
	}
}

func TestTagAttributeNamesAllowDashes(t *testing.T) {
	toks, err := Tokenize("attr.sft", `<div data-id="x" aria-label="y"/>`)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	var names []string
	for _, tok := range toks {
		if tok.Kind == token.Ident && tok.Lexeme != "div" {
			names = append(names, tok.Lexeme)
		}
	}
	if len(names) != 2 || names[0] != "data-id" || names[1] != "aria-label" {
		t.Errorf("attribute names = %v, want [data-id aria-label]", names)
	}
}
