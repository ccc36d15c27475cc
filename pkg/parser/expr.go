package parser

import (
	"fmt"
	"strconv"

	"github.com/sift-dev/sift/pkg/ast"
	"github.com/sift-dev/sift/pkg/token"
)

// binaryPrec maps binary operators to their precedence level. Higher binds
// tighter. All binary operators are left-associative.
var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

// parseExpr parses a full expression, including ternaries.
func (p *Parser) parseExpr() (ast.Expr, error) {
	cond, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	if !p.atPunct("?") {
		return cond, nil
	}
	p.next()
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(":"); err != nil {
		return nil, err
	}
	alt, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Ternary{Cond: cond, Then: then, Else: alt, Position: cond.Pos()}, nil
}

// parseBinary climbs operator precedence starting from minPrec.
func (p *Parser) parseBinary(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.cur()
		if tok.Kind != token.Punct {
			return left, nil
		}
		prec, ok := binaryPrec[tok.Lexeme]
		if !ok || prec < minPrec {
			return left, nil
		}
		p.next()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: tok.Lexeme, Left: left, Right: right, Position: left.Pos()}
	}
}

// parseUnary parses prefix operators.
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.atPunct("!") || p.atPunct("-") {
		op := p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op.Lexeme, Operand: operand, Position: op.Pos}, nil
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary followed by member access, indexing, and
// call suffixes.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atPunct("."):
			p.next()
			name, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			expr = &ast.Member{Base: expr, Name: name.Lexeme, Position: expr.Pos()}

		case p.atPunct("["):
			p.next()
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			expr = &ast.Index{Base: expr, Index: index, Position: expr.Pos()}

		case p.atPunct("("):
			p.next()
			var args []ast.Expr
			for !p.atPunct(")") {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.atPunct(",") {
					p.next()
				} else {
					break
				}
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			expr = &ast.Call{Callee: expr, Args: args, Position: expr.Pos()}

		default:
			return expr, nil
		}
	}
}

// parsePrimary parses literals, identifiers, grouped expressions, array and
// object literals, template literals, and markup in expression position.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()

	switch tok.Kind {
	case token.Ident:
		p.next()
		return &ast.Ident{Name: tok.Lexeme, Position: tok.Pos}, nil

	case token.String:
		p.next()
		return &ast.StringLit{Value: tok.Lexeme, Position: tok.Pos}, nil

	case token.Number:
		p.next()
		value, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, &ParseError{
				File: p.file, Pos: tok.Pos,
				Expected: []token.Kind{token.Number},
				Found:    tok.Kind, Lexeme: tok.Lexeme,
				Msg: fmt.Sprintf("malformed number literal %q", tok.Lexeme),
			}
		}
		return &ast.NumberLit{Value: value, Raw: tok.Lexeme, Position: tok.Pos}, nil

	case token.Bool:
		p.next()
		return &ast.BoolLit{Value: tok.Lexeme == "true", Position: tok.Pos}, nil

	case token.TemplateStart:
		return p.parseTemplate()

	case token.MarkupOpen:
		el, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		return &ast.MarkupExpr{Markup: el, Position: el.Position}, nil

	case token.LBrace:
		return p.parseObjectLit()

	case token.Punct:
		switch tok.Lexeme {
		case "(":
			p.next()
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return expr, nil
		case "[":
			p.next()
			lit := &ast.ArrayLit{Position: tok.Pos}
			for !p.atPunct("]") {
				elem, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				lit.Elems = append(lit.Elems, elem)
				if p.atPunct(",") {
					p.next()
				} else {
					break
				}
			}
			if _, err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			return lit, nil
		}
	}

	return nil, p.errExpected(tok,
		token.Ident, token.String, token.Number, token.Bool,
		token.TemplateStart, token.MarkupOpen, token.LBrace, token.Punct)
}

// parseObjectLit parses `{key: value, ...}`.
func (p *Parser) parseObjectLit() (ast.Expr, error) {
	open := p.next() // {
	lit := &ast.ObjectLit{Position: open.Pos}

	for !p.at(token.RBrace) {
		var key string
		keyTok := p.cur()
		switch keyTok.Kind {
		case token.Ident, token.String:
			key = p.next().Lexeme
		default:
			return nil, p.errExpected(keyTok, token.Ident, token.String)
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Fields = append(lit.Fields, ast.ObjectField{Key: key, Value: value, Position: keyTok.Pos})
		if p.atPunct(",") {
			p.next()
		} else {
			break
		}
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return lit, nil
}

// parseTemplate parses a backtick template literal with `${}` interpolation.
func (p *Parser) parseTemplate() (ast.Expr, error) {
	open := p.next() // `
	lit := &ast.TemplateLit{Position: open.Pos}
	chunk := ""

	for {
		tok := p.cur()
		switch tok.Kind {
		case token.TemplateChunk:
			p.next()
			chunk = tok.Lexeme

		case token.TemplateExprStart:
			p.next()
			lit.Chunks = append(lit.Chunks, chunk)
			chunk = ""
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBrace); err != nil {
				return nil, err
			}
			lit.Exprs = append(lit.Exprs, expr)

		case token.TemplateEnd:
			p.next()
			lit.Chunks = append(lit.Chunks, chunk)
			return lit, nil

		default:
			return nil, p.errExpected(tok, token.TemplateChunk, token.TemplateExprStart, token.TemplateEnd)
		}
	}
}
