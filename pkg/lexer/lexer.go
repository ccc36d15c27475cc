// Package lexer turns Sift source text into a token stream.
//
// The lexer is a single left-to-right scan with one character of lookahead.
// Markup regions, embedded expressions, and template literals each get their
// own lexing mode, tracked with an explicit mode stack so that nested braces
// inside markup attributes, nested markup inside expressions, and `${...}`
// interpolation inside template literals all lex correctly.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/sift-dev/sift/pkg/token"
)

// mode is a lexing mode. One frame per region is pushed on the stack.
type mode uint8

const (
	modeCode     mode = iota // unit header, body blocks, event bodies
	modeExpr                 // inside a { } interpolation
	modeTag                  // inside < ... > of a markup tag
	modeText                 // markup children between tags
	modeTemplate             // inside a `...` template literal
)

// frame is one entry of the mode stack.
type frame struct {
	mode mode

	// expr frames
	braceDepth  int  // nested plain braces (object literals)
	parenDepth  int  // nested parentheses
	controlHead bool // frame opened with `if` or `for`: braces at depth 0 are markup bodies
	prevOperand bool // last token completed an operand (disambiguates < as operator vs tag)

	// tag frames
	closing bool // frame is a </tag> closer

	// text frames
	controlBody bool // a bare } terminates this frame
}

// Lexer scans one source file.
type Lexer struct {
	file   string
	input  string
	pos    int
	line   int
	column int

	stack []frame
}

// New creates a lexer for the given source text.
func New(file, input string) *Lexer {
	return &Lexer{
		file:   file,
		input:  input,
		line:   1,
		column: 1,
		stack:  []frame{{mode: modeCode}},
	}
}

// Tokenize scans the whole input and returns the token stream, terminated by
// an EOF token. It fails fast with a *LexError on the first malformed input.
func Tokenize(file, input string) ([]token.Token, error) {
	l := New(file, input)
	var tokens []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) top() *frame {
	return &l.stack[len(l.stack)-1]
}

func (l *Lexer) push(f frame) {
	l.stack = append(l.stack, f)
}

func (l *Lexer) pop() {
	if len(l.stack) > 1 {
		l.stack = l.stack[:len(l.stack)-1]
	}
}

// next returns the next token.
func (l *Lexer) next() (token.Token, error) {
	switch l.top().mode {
	case modeText:
		return l.lexText()
	case modeTag:
		return l.lexTag()
	case modeTemplate:
		return l.lexTemplate()
	default:
		return l.lexCode()
	}
}

// lexCode lexes code and expression regions: identifiers, keywords,
// literals, punctuation, braces, and markup entry points.
func (l *Lexer) lexCode() (token.Token, error) {
	l.skipSpaceAndComments()
	if l.pos >= len(l.input) {
		return l.makeToken(token.EOF, ""), nil
	}

	f := l.top()
	pos := l.position()
	ch := l.peek()

	switch {
	case ch == '{':
		l.advance()
		if f.mode == modeExpr && f.controlHead && f.parenDepth == 0 {
			// Body of an if/for control construct: markup children follow.
			l.push(frame{mode: modeText, controlBody: true})
		} else if f.mode == modeExpr {
			f.braceDepth++
		}
		f.prevOperand = false
		return token.Token{Kind: token.LBrace, Lexeme: "{", Pos: pos}, nil

	case ch == '}':
		l.advance()
		if f.mode == modeExpr {
			if f.braceDepth > 0 {
				f.braceDepth--
				f.prevOperand = true
			} else {
				l.pop()
			}
		} else {
			f.prevOperand = false
		}
		return token.Token{Kind: token.RBrace, Lexeme: "}", Pos: pos}, nil

	case ch == '<':
		if !f.prevOperand && isIdentStart(l.peekNext()) {
			l.advance()
			l.push(frame{mode: modeTag})
			return token.Token{Kind: token.MarkupOpen, Lexeme: "<", Pos: pos}, nil
		}
		return l.lexOperator()

	case ch == '`':
		l.advance()
		f.prevOperand = false
		l.push(frame{mode: modeTemplate})
		return token.Token{Kind: token.TemplateStart, Lexeme: "`", Pos: pos}, nil

	case ch == '\'' || ch == '"':
		return l.lexString(ch)

	case unicode.IsDigit(ch):
		return l.lexNumber()

	case isIdentStart(ch):
		return l.lexIdent()

	default:
		return l.lexOperator()
	}
}

// lexOperator lexes punctuation, preferring two-character operators.
func (l *Lexer) lexOperator() (token.Token, error) {
	f := l.top()
	pos := l.position()
	ch := l.peek()
	next := l.peekNext()

	two := ""
	switch {
	case ch == '&' && next == '&':
		two = "&&"
	case ch == '|' && next == '|':
		two = "||"
	case ch == '=' && next == '=':
		two = "=="
	case ch == '!' && next == '=':
		two = "!="
	case ch == '<' && next == '=':
		two = "<="
	case ch == '>' && next == '=':
		two = ">="
	case ch == '=' && next == '>':
		two = "=>"
	}
	if two != "" {
		l.advance()
		l.advance()
		f.prevOperand = false
		return token.Token{Kind: token.Punct, Lexeme: two, Pos: pos}, nil
	}

	switch ch {
	case '(', '[':
		l.advance()
		if f.mode == modeExpr && ch == '(' {
			f.parenDepth++
		}
		f.prevOperand = false
	case ')', ']':
		l.advance()
		if f.mode == modeExpr && ch == ')' {
			f.parenDepth--
		}
		f.prevOperand = true
	case '+', '-', '*', '/', '%', '!', '?', ':', ',', '.', '=', '<', '>':
		l.advance()
		f.prevOperand = false
	default:
		return token.Token{}, &LexError{File: l.file, Pos: pos, Char: ch}
	}
	return token.Token{Kind: token.Punct, Lexeme: string(ch), Pos: pos}, nil
}

// lexIdent lexes an identifier, keyword, or boolean literal.
func (l *Lexer) lexIdent() (token.Token, error) {
	f := l.top()
	pos := l.position()
	start := l.pos
	for l.pos < len(l.input) && isIdentChar(l.peek()) {
		l.advance()
	}
	word := l.input[start:l.pos]

	switch {
	case word == "true" || word == "false":
		f.prevOperand = true
		return token.Token{Kind: token.Bool, Lexeme: word, Pos: pos}, nil
	case token.IsKeyword(word):
		if (word == "if" || word == "for") && f.mode == modeExpr && !f.prevOperand && f.parenDepth == 0 && f.braceDepth == 0 {
			f.controlHead = true
		}
		f.prevOperand = false
		return token.Token{Kind: token.Keyword, Lexeme: word, Pos: pos}, nil
	default:
		f.prevOperand = true
		return token.Token{Kind: token.Ident, Lexeme: word, Pos: pos}, nil
	}
}

// lexNumber lexes an integer or decimal literal.
func (l *Lexer) lexNumber() (token.Token, error) {
	f := l.top()
	pos := l.position()
	start := l.pos
	for l.pos < len(l.input) && unicode.IsDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && unicode.IsDigit(l.peekNext()) {
		l.advance()
		for l.pos < len(l.input) && unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}
	f.prevOperand = true
	return token.Token{Kind: token.Number, Lexeme: l.input[start:l.pos], Pos: pos}, nil
}

// lexString lexes a single- or double-quoted string literal. The returned
// lexeme excludes the quotes; escape sequences are preserved verbatim.
func (l *Lexer) lexString(quote rune) (token.Token, error) {
	f := l.top()
	pos := l.position()
	l.advance() // opening quote
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '\\' {
			l.advance()
			l.advance()
			continue
		}
		if ch == quote {
			value := l.input[start:l.pos]
			l.advance() // closing quote
			f.prevOperand = true
			return token.Token{Kind: token.String, Lexeme: value, Pos: pos}, nil
		}
		if ch == '\n' {
			break
		}
		l.advance()
	}
	return token.Token{}, &LexError{File: l.file, Pos: pos, Char: quote, Msg: "unterminated string literal"}
}

// lexTag lexes inside a markup tag: tag name, attribute names, attribute
// values, and the tag terminators.
func (l *Lexer) lexTag() (token.Token, error) {
	l.skipSpace()
	if l.pos >= len(l.input) {
		return l.makeToken(token.EOF, ""), nil
	}

	f := l.top()
	pos := l.position()
	ch := l.peek()

	switch {
	case ch == '>':
		l.advance()
		closing := f.closing
		l.pop()
		if closing {
			// End of </tag>: the enclosing children region is finished too.
			if l.top().mode == modeText {
				l.pop()
			}
		} else {
			l.push(frame{mode: modeText})
		}
		return token.Token{Kind: token.MarkupClose, Lexeme: ">", Pos: pos}, nil

	case ch == '/' && l.peekNext() == '>':
		l.advance()
		l.advance()
		l.pop()
		return token.Token{Kind: token.MarkupSelfClose, Lexeme: "/>", Pos: pos}, nil

	case ch == '=':
		l.advance()
		return token.Token{Kind: token.Punct, Lexeme: "=", Pos: pos}, nil

	case ch == '{':
		l.advance()
		l.push(frame{mode: modeExpr})
		return token.Token{Kind: token.LBrace, Lexeme: "{", Pos: pos}, nil

	case ch == '\'' || ch == '"':
		return l.lexString(ch)

	case isIdentStart(ch):
		start := l.pos
		for l.pos < len(l.input) {
			c := l.peek()
			if !isIdentChar(c) && c != '-' && c != ':' {
				break
			}
			l.advance()
		}
		return token.Token{Kind: token.Ident, Lexeme: l.input[start:l.pos], Pos: pos}, nil

	default:
		return token.Token{}, &LexError{File: l.file, Pos: pos, Char: ch}
	}
}

// lexText lexes markup children: text runs, tag starts, and interpolations.
func (l *Lexer) lexText() (token.Token, error) {
	if l.pos >= len(l.input) {
		return l.makeToken(token.EOF, ""), nil
	}

	f := l.top()
	pos := l.position()
	ch := l.peek()

	switch {
	case ch == '<' && l.peekNext() == '/':
		l.advance()
		l.advance()
		l.push(frame{mode: modeTag, closing: true})
		return token.Token{Kind: token.MarkupEndOpen, Lexeme: "</", Pos: pos}, nil

	case ch == '<' && isIdentStart(l.peekNext()):
		l.advance()
		l.push(frame{mode: modeTag})
		return token.Token{Kind: token.MarkupOpen, Lexeme: "<", Pos: pos}, nil

	case ch == '{':
		l.advance()
		l.push(frame{mode: modeExpr})
		return token.Token{Kind: token.LBrace, Lexeme: "{", Pos: pos}, nil

	case ch == '}' && f.controlBody:
		l.advance()
		l.pop()
		return token.Token{Kind: token.RBrace, Lexeme: "}", Pos: pos}, nil
	}

	start := l.pos
	for l.pos < len(l.input) {
		c := l.peek()
		if c == '{' {
			break
		}
		if c == '<' && (l.peekNext() == '/' || isIdentStart(l.peekNext())) {
			break
		}
		if c == '}' && f.controlBody {
			break
		}
		l.advance()
	}
	return token.Token{Kind: token.Text, Lexeme: l.input[start:l.pos], Pos: pos}, nil
}

// lexTemplate lexes inside a template literal: chunks, `${` interpolation
// entries, and the closing backtick.
func (l *Lexer) lexTemplate() (token.Token, error) {
	pos := l.position()

	if l.pos >= len(l.input) {
		return token.Token{}, &LexError{File: l.file, Pos: pos, Char: '`', Msg: "unterminated template literal"}
	}

	if l.peek() == '`' {
		l.advance()
		l.pop()
		l.top().prevOperand = true
		return token.Token{Kind: token.TemplateEnd, Lexeme: "`", Pos: pos}, nil
	}

	if l.peek() == '$' && l.peekNext() == '{' {
		l.advance()
		l.advance()
		l.push(frame{mode: modeExpr})
		return token.Token{Kind: token.TemplateExprStart, Lexeme: "${", Pos: pos}, nil
	}

	start := l.pos
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '`' {
			break
		}
		if ch == '$' && l.peekNext() == '{' {
			break
		}
		if ch == '\\' {
			l.advance()
		}
		l.advance()
	}
	return token.Token{Kind: token.TemplateChunk, Lexeme: l.input[start:l.pos], Pos: pos}, nil
}

// Helpers

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	if l.pos+size >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos+size:])
	return r
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos += size
}

func (l *Lexer) position() token.Position {
	return token.Position{Line: l.line, Column: l.column, Offset: l.pos}
}

func (l *Lexer) makeToken(kind token.Kind, lexeme string) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Pos: l.position()}
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch != ' ' && ch != '\t' && ch != '\n' && ch != '\r' {
			break
		}
		l.advance()
	}
}

func (l *Lexer) skipSpaceAndComments() {
	for {
		l.skipSpace()
		if l.peek() == '/' && l.peekNext() == '/' {
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		return
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
