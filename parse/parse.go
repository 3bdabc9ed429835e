// Copyright 2023 The Hypatia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parse turns Hypatia source text into a resolved expression tree.
// Parse runs the scanner, the parser and the resolver; lexing and parsing
// errors are collected and reported together, and the resolver runs only
// on a tree that parsed cleanly.
package parse

import (
	"strings"

	"github.com/hypatia-lang/hypatia/ast"
	"github.com/hypatia-lang/hypatia/diag"
	"github.com/hypatia-lang/hypatia/scan"
)

// Parse produces the resolved AST for source, or the accumulated lexing
// and parsing errors, or else the first resolution error. The returned
// tree is nil whenever errors are returned.
func Parse(source string) (ast.Expr, []error) {
	tokens, errs := scan.Tokens(source)
	if len(tokens) == 0 && len(errs) > 0 {
		return nil, errs
	}
	p := &parser{source: source, tokens: tokens, errs: errs}
	prog := p.program()
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	if err := Resolve(prog); err != nil {
		return nil, []error{err}
	}
	return prog, nil
}

type parser struct {
	source string
	tokens []scan.Token
	pos    int
	errs   []error
}

// peek returns the current token without consuming it. Past the end it
// returns a synthetic EOF token at the end of the source.
func (p *parser) peek() scan.Token {
	if p.pos >= len(p.tokens) {
		return scan.Token{
			Type: scan.EOF,
			Span: diag.Span{Start: len(p.source), End: len(p.source)},
		}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() scan.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) at(t scan.Type) bool {
	return p.peek().Type == t
}

// accept consumes the current token if it has the given type.
func (p *parser) accept(t scan.Type) (scan.Token, bool) {
	if p.at(t) {
		return p.next(), true
	}
	return scan.Token{}, false
}

// errorf records a parsing error at the current token.
func (p *parser) errorf(expected ...string) {
	tok := p.peek()
	name := tok.Text
	if tok.Type == scan.EOF {
		name = ""
	}
	p.errs = append(p.errs, &diag.Error{
		Kind:     diag.Parsing,
		Name:     name,
		Span:     tok.Span,
		Expected: expected,
	})
}

// expect consumes a token of type t or records an error.
func (p *parser) expect(t scan.Type) (scan.Token, bool) {
	if tok, ok := p.accept(t); ok {
		return tok, true
	}
	p.errorf(t.String())
	return scan.Token{}, false
}

func isSeparator(t scan.Type) bool {
	return t == scan.Newline || t == scan.Semicolon || t == scan.Comment
}

// skipSeparators consumes a run of statement separators, reporting whether
// at least one was seen.
func (p *parser) skipSeparators() bool {
	seen := false
	for isSeparator(p.peek().Type) {
		p.next()
		seen = true
	}
	return seen
}

// sync advances to the next statement separator after an error, stopping
// short of a closing brace so an enclosing block can still finish.
func (p *parser) sync() {
	for !p.at(scan.EOF) && !p.at(scan.RightBrace) && !isSeparator(p.peek().Type) {
		p.next()
	}
}

// program parses a separator-delimited expression sequence up to EOF.
func (p *parser) program() *ast.Program {
	span := diag.Span{Start: 0, End: len(p.source)}
	exprs := p.sequence(scan.EOF)
	return &ast.Program{Node: ast.At(span), Exprs: exprs}
}

// sequence parses expressions separated by newlines, semicolons or comments
// until the given closing token. Leading and trailing separators are
// permitted.
func (p *parser) sequence(until scan.Type) []ast.Expr {
	var exprs []ast.Expr
	p.skipSeparators()
	for !p.at(until) && !p.at(scan.EOF) {
		mark := p.pos
		e := p.expr()
		if e == nil {
			p.sync()
			p.skipSeparators()
			if p.pos == mark {
				p.next() // always make progress
			}
			continue
		}
		exprs = append(exprs, e)
		if !p.skipSeparators() && !p.at(until) && !p.at(scan.EOF) {
			p.errorf("separator")
			p.sync()
			p.skipSeparators()
		}
	}
	return exprs
}

// expr parses a block, an if expression, or a conversion-level expression.
func (p *parser) expr() ast.Expr {
	switch p.peek().Type {
	case scan.LeftBrace:
		return p.block()
	case scan.If:
		return p.ifExpr()
	}
	return p.conversion()
}

// block parses '{' sequence '}'.
func (p *parser) block() ast.Expr {
	open, ok := p.expect(scan.LeftBrace)
	if !ok {
		return nil
	}
	exprs := p.sequence(scan.RightBrace)
	close, ok := p.expect(scan.RightBrace)
	if !ok {
		return nil
	}
	return &ast.Block{Node: ast.At(open.Span.Union(close.Span)), Exprs: exprs}
}

// ifExpr parses 'if' expr block ('else' (block | if))?. A missing else
// branch becomes a Nothing literal.
func (p *parser) ifExpr() ast.Expr {
	kw, _ := p.expect(scan.If)
	cond := p.expr()
	if cond == nil {
		return nil
	}
	then := p.block()
	if then == nil {
		return nil
	}
	span := kw.Span.Union(then.Span())
	var els ast.Expr
	if _, ok := p.accept(scan.Else); ok {
		if p.at(scan.If) {
			els = p.ifExpr()
		} else {
			els = p.block()
		}
		if els == nil {
			return nil
		}
		span = span.Union(els.Span())
	} else {
		els = &ast.Literal{Node: ast.At(span), Kind: ast.NothingLit}
	}
	return &ast.If{Node: ast.At(span), Cond: cond, Then: then, Else: els}
}

// conversion parses comparison ('in' product)?.
func (p *parser) conversion() ast.Expr {
	e := p.comparison()
	if e == nil {
		return nil
	}
	if _, ok := p.accept(scan.In); ok {
		target := p.product()
		if target == nil {
			return nil
		}
		return &ast.Conversion{
			Node:   ast.At(e.Span().Union(target.Span())),
			Value:  e,
			Target: target,
		}
	}
	return e
}

var comparisonOps = map[scan.Type]ast.BinOpKind{
	scan.Equal:        ast.Eq,
	scan.NotEqual:     ast.Neq,
	scan.Less:         ast.Lt,
	scan.Greater:      ast.Gt,
	scan.LessEqual:    ast.Lte,
	scan.GreaterEqual: ast.Gte,
}

func (p *parser) comparison() ast.Expr {
	e := p.sum()
	if e == nil {
		return nil
	}
	for {
		op, ok := comparisonOps[p.peek().Type]
		if !ok {
			return e
		}
		p.next()
		rhs := p.sum()
		if rhs == nil {
			return nil
		}
		e = &ast.BinOp{Node: ast.At(e.Span().Union(rhs.Span())), Op: op, Left: e, Right: rhs}
	}
}

func (p *parser) sum() ast.Expr {
	e := p.product()
	if e == nil {
		return nil
	}
	for {
		var op ast.BinOpKind
		switch p.peek().Type {
		case scan.Plus:
			op = ast.Add
		case scan.Minus:
			op = ast.Sub
		default:
			return e
		}
		p.next()
		rhs := p.product()
		if rhs == nil {
			return nil
		}
		e = &ast.BinOp{Node: ast.At(e.Span().Union(rhs.Span())), Op: op, Left: e, Right: rhs}
	}
}

func (p *parser) product() ast.Expr {
	e := p.unary()
	if e == nil {
		return nil
	}
	for {
		var op ast.BinOpKind
		switch p.peek().Type {
		case scan.Star:
			op = ast.Mul
		case scan.Slash:
			op = ast.Div
		default:
			return e
		}
		p.next()
		rhs := p.unary()
		if rhs == nil {
			return nil
		}
		e = &ast.BinOp{Node: ast.At(e.Span().Union(rhs.Span())), Op: op, Left: e, Right: rhs}
	}
}

func (p *parser) unary() ast.Expr {
	var op ast.UnaryOpKind
	switch p.peek().Type {
	case scan.Minus:
		op = ast.Negate
	case scan.Not:
		op = ast.Not
	default:
		return p.call()
	}
	tok := p.next()
	operand := p.unary()
	if operand == nil {
		return nil
	}
	return &ast.UnaryOp{Node: ast.At(tok.Span.Union(operand.Span())), Op: op, Operand: operand}
}

// call parses an atom followed by any number of argument lists.
func (p *parser) call() ast.Expr {
	e := p.atom()
	if e == nil {
		return nil
	}
	for p.at(scan.LeftParen) {
		p.next()
		var args []ast.Expr
		for !p.at(scan.RightParen) {
			arg := p.expr()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if _, ok := p.accept(scan.Comma); !ok {
				break
			}
		}
		close, ok := p.expect(scan.RightParen)
		if !ok {
			return nil
		}
		e = &ast.Call{Node: ast.At(e.Span().Union(close.Span)), Callee: e, Args: args}
	}
	return e
}

func (p *parser) atom() ast.Expr {
	tok := p.peek()
	switch tok.Type {
	case scan.Number, scan.BinNumber, scan.HexNumber, scan.SciNumber:
		return p.quantityLiteral()
	case scan.Bool:
		p.next()
		return &ast.Literal{Node: ast.At(tok.Span), Kind: ast.BoolLit, Bool: tok.Text == "true"}
	case scan.NothingWord:
		p.next()
		return &ast.Literal{Node: ast.At(tok.Span), Kind: ast.NothingLit}
	case scan.Unit:
		return p.unitDecl()
	case scan.Prefix:
		return p.prefixDecl()
	case scan.Update:
		return p.update()
	case scan.Identifier:
		return p.identifier()
	case scan.LeftParen:
		return p.paren()
	}
	p.errorf("expression")
	return nil
}

// quantityLiteral parses a number token with an optional trailing unit name.
func (p *parser) quantityLiteral() ast.Expr {
	tok := p.next()
	var num ast.NumberLit
	switch tok.Type {
	case scan.Number:
		num = ast.NumberLit{Kind: ast.Decimal, Digits: tok.Text}
	case scan.BinNumber:
		num = ast.NumberLit{Kind: ast.Binary, Digits: tok.Text[2:]}
	case scan.HexNumber:
		num = ast.NumberLit{Kind: ast.Hex, Digits: tok.Text[2:]}
	case scan.SciNumber:
		num = splitScientific(tok.Text)
	}
	span := tok.Span
	unitName := ""
	if u, ok := p.accept(scan.Identifier); ok {
		unitName = u.Text
		span = span.Union(u.Span)
	}
	return &ast.Literal{Node: ast.At(span), Kind: ast.QuantityLit, Num: num, Unit: unitName}
}

// splitScientific splits "1.5e-3" into its mantissa, exponent digits and
// exponent sign. The scanner guarantees the shape.
func splitScientific(text string) ast.NumberLit {
	i := strings.IndexAny(text, "eE")
	mantissa, exp := text[:i], text[i+1:]
	neg := false
	switch exp[0] {
	case '-':
		neg = true
		exp = exp[1:]
	case '+':
		exp = exp[1:]
	}
	return ast.NumberLit{Kind: ast.Scientific, Digits: mantissa, Exp: exp, NegExp: neg}
}

// unitDecl parses 'unit' ident ident? ('=' expr)?.
func (p *parser) unitDecl() ast.Expr {
	kw := p.next()
	name, ok := p.expect(scan.Identifier)
	if !ok {
		return nil
	}
	span := kw.Span.Union(name.Span)
	short := ""
	if s, ok := p.accept(scan.Identifier); ok {
		short = s.Text
		span = span.Union(s.Span)
	}
	if _, ok := p.accept(scan.Assign); ok {
		rhs := p.expr()
		if rhs == nil {
			return nil
		}
		return &ast.DerivedUnitDecl{
			Node: ast.At(span.Union(rhs.Span())),
			Name: name.Text, Short: short, RHS: rhs,
		}
	}
	return &ast.BaseUnitDecl{Node: ast.At(span), Name: name.Text, Short: short}
}

// prefixDecl parses 'prefix' ident ident? '=' expr.
func (p *parser) prefixDecl() ast.Expr {
	kw := p.next()
	name, ok := p.expect(scan.Identifier)
	if !ok {
		return nil
	}
	short := ""
	if s, ok := p.accept(scan.Identifier); ok {
		short = s.Text
	}
	if _, ok := p.expect(scan.Assign); !ok {
		return nil
	}
	rhs := p.expr()
	if rhs == nil {
		return nil
	}
	return &ast.PrefixDecl{
		Node: ast.At(kw.Span.Union(rhs.Span())),
		Name: name.Text, Short: short, RHS: rhs,
	}
}

// update parses 'update' ident ('(' params ')')? '=' expr.
func (p *parser) update() ast.Expr {
	kw := p.next()
	name, ok := p.expect(scan.Identifier)
	if !ok {
		return nil
	}
	if p.at(scan.LeftParen) {
		params, ok := p.paramList()
		if !ok {
			return nil
		}
		if _, ok := p.expect(scan.Assign); !ok {
			return nil
		}
		body := p.expr()
		if body == nil {
			return nil
		}
		return &ast.FuncUpdate{
			Node: ast.At(kw.Span.Union(body.Span())),
			Name: name.Text, Params: params, Body: body,
		}
	}
	if _, ok := p.expect(scan.Assign); !ok {
		return nil
	}
	rhs := p.expr()
	if rhs == nil {
		return nil
	}
	return &ast.VarUpdate{Node: ast.At(kw.Span.Union(rhs.Span())), Name: name.Text, RHS: rhs}
}

// identifier parses a variable reference, a variable declaration, or a
// function declaration. Declarations need lookahead: a parameter list is
// only a parameter list when ')' is followed by '='.
func (p *parser) identifier() ast.Expr {
	name := p.next()
	if p.at(scan.Assign) {
		p.next()
		rhs := p.expr()
		if rhs == nil {
			return nil
		}
		return &ast.VarDecl{Node: ast.At(name.Span.Union(rhs.Span())), Name: name.Text, RHS: rhs}
	}
	if p.at(scan.LeftParen) {
		mark := p.pos
		params, ok := p.tryParamList()
		if ok {
			if _, ok := p.accept(scan.Assign); ok {
				body := p.expr()
				if body == nil {
					return nil
				}
				return &ast.FuncDecl{
					Node: ast.At(name.Span.Union(body.Span())),
					Name: name.Text, Params: params, Body: body,
				}
			}
		}
		// Not a declaration after all; it is a call on this variable.
		p.pos = mark
	}
	return &ast.Variable{Node: ast.At(name.Span), Name: name.Text, Scope: ast.GlobalScope}
}

// paramList parses '(' ident (',' ident)* ')' reporting errors.
func (p *parser) paramList() ([]string, bool) {
	if _, ok := p.expect(scan.LeftParen); !ok {
		return nil, false
	}
	var params []string
	for !p.at(scan.RightParen) {
		name, ok := p.expect(scan.Identifier)
		if !ok {
			return nil, false
		}
		params = append(params, name.Text)
		if _, ok := p.accept(scan.Comma); !ok {
			break
		}
	}
	if _, ok := p.expect(scan.RightParen); !ok {
		return nil, false
	}
	return params, true
}

// tryParamList attempts a parameter list without reporting errors, so the
// caller can backtrack to a call.
func (p *parser) tryParamList() ([]string, bool) {
	mark := p.pos
	if _, ok := p.accept(scan.LeftParen); !ok {
		return nil, false
	}
	var params []string
	for !p.at(scan.RightParen) {
		name, ok := p.accept(scan.Identifier)
		if !ok {
			p.pos = mark
			return nil, false
		}
		params = append(params, name.Text)
		if _, ok := p.accept(scan.Comma); !ok {
			break
		}
	}
	if _, ok := p.accept(scan.RightParen); !ok {
		p.pos = mark
		return nil, false
	}
	return params, true
}

// paren parses a parenthesised expression. If the inside fails to parse,
// everything up to the matching ')' is consumed and an Error node covering
// the whole form is produced so parsing can continue.
func (p *parser) paren() ast.Expr {
	open := p.next()
	before := len(p.errs)
	e := p.expr()
	if e != nil && p.at(scan.RightParen) {
		close := p.next()
		// Widen the span to include the parentheses.
		return widen(e, open.Span.Union(close.Span))
	}
	if len(p.errs) == before {
		p.errorf("')'")
	}
	span := p.skipToMatch(open.Span)
	return &ast.Error{Node: ast.At(span)}
}

// skipToMatch consumes tokens until the ')' matching an already-consumed
// '(', tracking nested parens and braces, and returns the covered span.
func (p *parser) skipToMatch(open diag.Span) diag.Span {
	depth := 1
	span := open
	for depth > 0 && !p.at(scan.EOF) {
		tok := p.next()
		switch tok.Type {
		case scan.LeftParen, scan.LeftBrace:
			depth++
		case scan.RightParen, scan.RightBrace:
			depth--
		}
		span = span.Union(tok.Span)
	}
	return span
}

// widen returns e with its span grown to cover outer.
func widen(e ast.Expr, outer diag.Span) ast.Expr {
	switch e := e.(type) {
	case *ast.Literal:
		e.S = e.S.Union(outer)
	case *ast.Variable:
		e.S = e.S.Union(outer)
	case *ast.VarDecl:
		e.S = e.S.Union(outer)
	case *ast.VarUpdate:
		e.S = e.S.Union(outer)
	case *ast.FuncDecl:
		e.S = e.S.Union(outer)
	case *ast.FuncUpdate:
		e.S = e.S.Union(outer)
	case *ast.Call:
		e.S = e.S.Union(outer)
	case *ast.If:
		e.S = e.S.Union(outer)
	case *ast.Block:
		e.S = e.S.Union(outer)
	case *ast.BinOp:
		e.S = e.S.Union(outer)
	case *ast.UnaryOp:
		e.S = e.S.Union(outer)
	case *ast.BaseUnitDecl:
		e.S = e.S.Union(outer)
	case *ast.DerivedUnitDecl:
		e.S = e.S.Union(outer)
	case *ast.PrefixDecl:
		e.S = e.S.Union(outer)
	case *ast.Conversion:
		e.S = e.S.Union(outer)
	case *ast.Error:
		e.S = e.S.Union(outer)
	}
	return e
}
