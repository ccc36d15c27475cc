// Package parser builds Sift syntax trees from token streams.
//
// A source unit is either a component/page/layout declaration followed by a
// markup tree, or an API module made of exported HTTP-method handlers.
// Markup is parsed by recursive descent; the embedded expression sublanguage
// by precedence climbing. The parser fails fast: the first grammar violation
// is returned as a *ParseError and no recovery is attempted.
package parser

import (
	"fmt"
	"strings"

	"github.com/sift-dev/sift/pkg/ast"
	"github.com/sift-dev/sift/pkg/lexer"
	"github.com/sift-dev/sift/pkg/token"
)

// httpMethods are the handler names an API module may export.
var httpMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "HEAD": true, "OPTIONS": true,
}

// Parser consumes a token stream for one source file.
type Parser struct {
	file string
	toks []token.Token
	pos  int
}

// New creates a parser over an already-lexed token stream.
func New(file string, toks []token.Token) *Parser {
	return &Parser{file: file, toks: toks}
}

// Parse parses one source unit from a token stream.
func Parse(file string, toks []token.Token) (*ast.SourceUnit, error) {
	return New(file, toks).parseUnit()
}

// ParseSource tokenizes and parses one source file.
func ParseSource(file, src string) (*ast.SourceUnit, error) {
	toks, err := lexer.Tokenize(file, src)
	if err != nil {
		return nil, err
	}
	return Parse(file, toks)
}

// cur returns the current token without consuming it.
func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

// next consumes and returns the current token.
func (p *Parser) next() token.Token {
	tok := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *Parser) at(kind token.Kind) bool {
	return p.cur().Kind == kind
}

func (p *Parser) atKeyword(word string) bool {
	tok := p.cur()
	return tok.Kind == token.Keyword && tok.Lexeme == word
}

func (p *Parser) atPunct(lit string) bool {
	tok := p.cur()
	return tok.Kind == token.Punct && tok.Lexeme == lit
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	tok := p.cur()
	if tok.Kind != kind {
		return tok, p.errExpected(tok, kind)
	}
	return p.next(), nil
}

func (p *Parser) expectPunct(lit string) (token.Token, error) {
	tok := p.cur()
	if tok.Kind != token.Punct || tok.Lexeme != lit {
		return tok, &ParseError{
			File: p.file, Pos: tok.Pos,
			Expected: []token.Kind{token.Punct},
			Found:    tok.Kind, Lexeme: tok.Lexeme,
			Msg: fmt.Sprintf("expected %q, found %s(%q)", lit, tok.Kind, tok.Lexeme),
		}
	}
	return p.next(), nil
}

func (p *Parser) errExpected(found token.Token, expected ...token.Kind) error {
	return &ParseError{
		File: p.file, Pos: found.Pos,
		Expected: expected,
		Found:    found.Kind, Lexeme: found.Lexeme,
	}
}

// parseUnit parses a whole source unit.
func (p *Parser) parseUnit() (*ast.SourceUnit, error) {
	tok := p.cur()
	if tok.Kind != token.Keyword {
		return nil, p.errExpected(tok, token.Keyword)
	}

	switch tok.Lexeme {
	case "component", "page", "layout":
		return p.parseDeclUnit()
	case "export":
		return p.parseAPIModule()
	default:
		return nil, &ParseError{
			File: p.file, Pos: tok.Pos,
			Expected: []token.Kind{token.Keyword},
			Found:    tok.Kind, Lexeme: tok.Lexeme,
			Msg: fmt.Sprintf("expected component, page, layout or export, found %q", tok.Lexeme),
		}
	}
}

// parseDeclUnit parses `component NAME { ... } <markup>` and the page and
// layout variants.
func (p *Parser) parseDeclUnit() (*ast.SourceUnit, error) {
	head := p.next()

	unit := &ast.SourceUnit{File: p.file, Position: head.Pos}
	switch head.Lexeme {
	case "component":
		unit.Kind = ast.UnitComponent
	case "page":
		unit.Kind = ast.UnitPage
	case "layout":
		unit.Kind = ast.UnitLayout
	}

	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	unit.Name = name.Lexeme

	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	for !p.at(token.RBrace) {
		tok := p.cur()
		if tok.Kind != token.Keyword {
			return nil, p.errExpected(tok, token.Keyword, token.RBrace)
		}
		switch tok.Lexeme {
		case "props":
			if err := p.parseDeclBlock(unit, true); err != nil {
				return nil, err
			}
		case "state":
			if err := p.parseDeclBlock(unit, false); err != nil {
				return nil, err
			}
		case "on":
			ev, err := p.parseEventDecl()
			if err != nil {
				return nil, err
			}
			unit.Events = append(unit.Events, ev)
		case "export":
			p.next()
			name, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			unit.Exports = append(unit.Exports, &ast.ExportStmt{Name: name.Lexeme, Position: tok.Pos})
		default:
			return nil, &ParseError{
				File: p.file, Pos: tok.Pos,
				Expected: []token.Kind{token.Keyword},
				Found:    tok.Kind, Lexeme: tok.Lexeme,
				Msg: fmt.Sprintf("expected props, state, on or export, found %q", tok.Lexeme),
			}
		}
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}

	markup, err := p.parseElement()
	if err != nil {
		return nil, err
	}
	unit.Markup = markup

	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return unit, nil
}

// parseDeclBlock parses a props or state block.
func (p *Parser) parseDeclBlock(unit *ast.SourceUnit, isProps bool) error {
	p.next() // props | state
	if _, err := p.expect(token.LBrace); err != nil {
		return err
	}

	for !p.at(token.RBrace) {
		name, err := p.expect(token.Ident)
		if err != nil {
			return err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return err
		}
		typ, err := p.expect(token.Ident)
		if err != nil {
			return err
		}
		if !ast.ValidTypeTag(typ.Lexeme) {
			return &ParseError{
				File: p.file, Pos: typ.Pos,
				Expected: []token.Kind{token.Ident},
				Found:    typ.Kind, Lexeme: typ.Lexeme,
				Msg: fmt.Sprintf("unknown type %q (want string, number, boolean, object, array, function or node)", typ.Lexeme),
			}
		}

		var def ast.Expr
		if p.atPunct("=") {
			p.next()
			def, err = p.parseExpr()
			if err != nil {
				return err
			}
		}

		if isProps {
			unit.Props = append(unit.Props, &ast.PropDecl{
				Name: name.Lexeme, Type: ast.TypeTag(typ.Lexeme), Default: def, Position: name.Pos,
			})
		} else {
			unit.State = append(unit.State, &ast.StateDecl{
				Name: name.Lexeme, Type: ast.TypeTag(typ.Lexeme), Default: def, Position: name.Pos,
			})
		}

		// Declarations may be separated by commas or just newlines.
		if p.atPunct(",") {
			p.next()
		}
	}
	_, err := p.expect(token.RBrace)
	return err
}

// parseEventDecl parses `on name(param?) { expr* }`.
func (p *Parser) parseEventDecl() (*ast.EventDecl, error) {
	head := p.next() // on

	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	param := ""
	if p.at(token.Ident) {
		param = p.next().Lexeme
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	body, err := p.parseExprBlock()
	if err != nil {
		return nil, err
	}
	return &ast.EventDecl{Name: name.Lexeme, Param: param, Body: body, Position: head.Pos}, nil
}

// parseExprBlock parses `{ expr* }`, the opaque statement body of event
// declarations and API handlers.
func (p *Parser) parseExprBlock() ([]ast.Expr, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	var body []ast.Expr
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			return nil, p.errExpected(p.cur(), token.RBrace)
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body = append(body, expr)
		if p.atPunct(";") {
			p.next()
		}
	}
	p.next() // }
	return body, nil
}

// parseAPIModule parses a module of exported HTTP-method handlers.
func (p *Parser) parseAPIModule() (*ast.SourceUnit, error) {
	unit := &ast.SourceUnit{Kind: ast.UnitAPI, File: p.file, Position: p.cur().Pos}

	for p.atKeyword("export") {
		head := p.next()

		method, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		if !httpMethods[method.Lexeme] {
			return nil, &ParseError{
				File: p.file, Pos: method.Pos,
				Expected: []token.Kind{token.Ident},
				Found:    method.Kind, Lexeme: method.Lexeme,
				Msg: fmt.Sprintf("expected an HTTP method name, found %q", method.Lexeme),
			}
		}
		if _, err := p.expectPunct("("); err != nil {
			return nil, err
		}
		param := ""
		if p.at(token.Ident) {
			param = p.next().Lexeme
		}
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}

		body, err := p.parseExprBlock()
		if err != nil {
			return nil, err
		}
		unit.Handlers = append(unit.Handlers, &ast.APIHandler{
			Method: method.Lexeme, Param: param, Body: body, Position: head.Pos,
		})
	}

	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	if len(unit.Handlers) == 0 {
		tok := p.cur()
		return nil, &ParseError{
			File: p.file, Pos: tok.Pos,
			Expected: []token.Kind{token.Keyword},
			Found:    tok.Kind, Lexeme: tok.Lexeme,
			Msg: "API module exports no handlers",
		}
	}
	return unit, nil
}

// parseElement parses one markup element, self-closing or with children.
func (p *Parser) parseElement() (*ast.Element, error) {
	open, err := p.expect(token.MarkupOpen)
	if err != nil {
		return nil, err
	}
	tag, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	el := &ast.Element{Tag: tag.Lexeme, Position: open.Pos}

	for p.at(token.Ident) {
		name := p.next()
		attr := ast.Attr{Name: name.Lexeme, Position: name.Pos}
		if p.atPunct("=") {
			p.next()
			switch {
			case p.at(token.String):
				str := p.next()
				attr.Value = &ast.StringLit{Value: str.Lexeme, Position: str.Pos}
			case p.at(token.LBrace):
				p.next()
				expr, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(token.RBrace); err != nil {
					return nil, err
				}
				attr.Value = expr
			default:
				return nil, p.errExpected(p.cur(), token.String, token.LBrace)
			}
		}
		el.Attrs = append(el.Attrs, attr)
	}

	switch p.cur().Kind {
	case token.MarkupSelfClose:
		p.next()
		return el, nil

	case token.MarkupClose:
		p.next()
		children, err := p.parseChildren()
		if err != nil {
			return nil, err
		}
		el.Children = children

		if _, err := p.expect(token.MarkupEndOpen); err != nil {
			return nil, err
		}
		closeTag, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		if closeTag.Lexeme != el.Tag {
			return nil, &ParseError{
				File: p.file, Pos: closeTag.Pos,
				Expected: []token.Kind{token.Ident},
				Found:    closeTag.Kind, Lexeme: closeTag.Lexeme,
				Msg: fmt.Sprintf("mismatched closing tag: <%s> closed by </%s>", el.Tag, closeTag.Lexeme),
			}
		}
		if _, err := p.expect(token.MarkupClose); err != nil {
			return nil, err
		}
		return el, nil

	default:
		return nil, p.errExpected(p.cur(), token.MarkupClose, token.MarkupSelfClose)
	}
}

// parseChildren parses markup children up to (not consuming) the enclosing
// terminator: </ for element children, } for control-construct bodies.
func (p *Parser) parseChildren() ([]ast.MarkupNode, error) {
	var children []ast.MarkupNode
	for {
		switch p.cur().Kind {
		case token.MarkupEndOpen, token.RBrace:
			return children, nil

		case token.EOF:
			return nil, p.errExpected(p.cur(), token.MarkupEndOpen)

		case token.Text:
			tok := p.next()
			if isInsignificantText(tok.Lexeme) {
				continue
			}
			children = append(children, &ast.Text{Value: tok.Lexeme, Position: tok.Pos})

		case token.MarkupOpen:
			el, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			children = append(children, el)

		case token.LBrace:
			node, err := p.parseBraced()
			if err != nil {
				return nil, err
			}
			children = append(children, node)

		default:
			return nil, p.errExpected(p.cur(), token.Text, token.MarkupOpen, token.LBrace)
		}
	}
}

// parseBraced parses a `{ ... }` region in markup position: an if or for
// control construct, or a plain expression interpolation.
func (p *Parser) parseBraced() (ast.MarkupNode, error) {
	open := p.next() // {

	switch {
	case p.atKeyword("if"):
		return p.parseIf(open.Pos)
	case p.atKeyword("for"):
		return p.parseFor(open.Pos)
	default:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBrace); err != nil {
			return nil, err
		}
		return &ast.ExprNode{Expr: expr, Position: open.Pos}, nil
	}
}

// parseIf parses `if (cond) { children } else { children }` followed by the
// closing brace of the surrounding interpolation.
func (p *Parser) parseIf(pos token.Position) (ast.MarkupNode, error) {
	p.next() // if
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	then, err := p.parseMarkupBody()
	if err != nil {
		return nil, err
	}

	node := &ast.If{Cond: cond, Then: then, Position: pos}

	if p.atKeyword("else") {
		p.next()
		alt, err := p.parseMarkupBody()
		if err != nil {
			return nil, err
		}
		if alt == nil {
			alt = []ast.MarkupNode{}
		}
		node.Else = alt
	}

	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return node, nil
}

// parseFor parses `for (name in iterable) { children }` followed by the
// closing brace of the surrounding interpolation.
func (p *Parser) parseFor(pos token.Position) (ast.MarkupNode, error) {
	p.next() // for
	if _, err := p.expectPunct("("); err != nil {
		return nil, err
	}
	loopVar, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	tok := p.cur()
	if tok.Kind != token.Keyword || tok.Lexeme != "in" {
		return nil, &ParseError{
			File: p.file, Pos: tok.Pos,
			Expected: []token.Kind{token.Keyword},
			Found:    tok.Kind, Lexeme: tok.Lexeme,
			Msg: fmt.Sprintf("expected \"in\", found %q", tok.Lexeme),
		}
	}
	p.next()
	iterable, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	body, err := p.parseMarkupBody()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return &ast.For{Var: loopVar.Lexeme, Iterable: iterable, Body: body, Position: pos}, nil
}

// parseMarkupBody parses `{ children }` inside a control construct.
func (p *Parser) parseMarkupBody() ([]ast.MarkupNode, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	children, err := p.parseChildren()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return children, nil
}

// isInsignificantText reports whether a text run is inter-tag whitespace
// containing a line break, which is formatting rather than content.
func isInsignificantText(s string) bool {
	return strings.TrimSpace(s) == "" && strings.ContainsRune(s, '\n')
}
