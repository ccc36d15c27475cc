// Package token defines the lexical tokens of the Sift template language
// and the source positions attached to every token and AST node.
package token

import "fmt"

// Kind is the token type discriminator.
type Kind uint8

const (
	EOF Kind = iota

	// Identifiers, keywords and literals
	Ident   // counter, setCount, div
	Keyword // component, page, layout, props, state, on, export, if, else, for, in
	String  // 'single' or "double" quoted, value without quotes
	Number  // 123, 1.5
	Bool    // true, false

	// Punctuation (operators, delimiters; lexeme carries the exact text)
	Punct

	// Expression braces
	LBrace // {
	RBrace // }

	// Markup delimiters
	MarkupOpen      // <
	MarkupEndOpen   // </
	MarkupClose     // >
	MarkupSelfClose // />

	// Text run between markup tags
	Text

	// Template literal parts: `chunk${expr}chunk`
	TemplateStart     // `
	TemplateChunk     // literal text between interpolations
	TemplateExprStart // ${
	TemplateEnd       // closing `
)

var kindNames = map[Kind]string{
	EOF:               "EOF",
	Ident:             "IDENT",
	Keyword:           "KEYWORD",
	String:            "STRING",
	Number:            "NUMBER",
	Bool:              "BOOL",
	Punct:             "PUNCT",
	LBrace:            "LBRACE",
	RBrace:            "RBRACE",
	MarkupOpen:        "MARKUP_OPEN",
	MarkupEndOpen:     "MARKUP_END_OPEN",
	MarkupClose:       "MARKUP_CLOSE",
	MarkupSelfClose:   "MARKUP_SELF_CLOSE",
	Text:              "TEXT",
	TemplateStart:     "TEMPLATE_START",
	TemplateChunk:     "TEMPLATE_CHUNK",
	TemplateExprStart: "TEMPLATE_EXPR_START",
	TemplateEnd:       "TEMPLATE_END",
}

// String returns the name of the token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND(%d)", k)
}

// Position is a location in a source file. Line and Column are 1-indexed;
// Offset is the byte offset from the start of the file.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical token. Tokens are immutable once produced.
type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
}

// String returns a compact representation for debugging.
func (t Token) String() string {
	if len(t.Lexeme) > 20 {
		return fmt.Sprintf("%s(%q...)", t.Kind, t.Lexeme[:20])
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
}

// keywords is the set of reserved words of the language.
var keywords = map[string]bool{
	"component": true,
	"page":      true,
	"layout":    true,
	"props":     true,
	"state":     true,
	"on":        true,
	"export":    true,
	"if":        true,
	"else":      true,
	"for":       true,
	"in":        true,
}

// IsKeyword reports whether the identifier is a reserved word.
func IsKeyword(ident string) bool {
	return keywords[ident]
}
