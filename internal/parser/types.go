package parser

import (
	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/lexer"
)

// parseTypeExpression parses a type annotation into a
// *ast.TypeInstantiation, per SPEC_FULL.md §3.5. Entry: cur is the
// first token of the type. Exit: cur is one past the type.
//
// Array element counts are restricted to a literal integer at parse
// time ([N]T); a general constant expression would need to defer
// folding to the analyzer, which the grammar sketch in SPEC_FULL.md
// §4.2 does not ask for.
func (p *Parser) parseTypeExpression() ast.Expression {
	start := p.cur().Span

	switch p.cur().Type {
	case TokStar:
		p.advance()
		of := p.parseTypeExpression()
		ti := &ast.TypeInstantiation{PointerOf: of}
		ti.SetSpan(newSpanTo(start, p.prevSpan()))
		return ti

	case TokLBracket:
		p.advance()
		dynamic := false
		count := -1
		if p.curIs(lexer.RANGE_INCL) { // `[..]T`
			p.advance()
			dynamic = true
		} else if !p.curIs(TokRBracket) {
			lit, ok := p.expect(lexer.INT)
			if ok {
				count = int(lit.Int)
			}
		}
		p.expect(TokRBracket)
		elem := p.parseTypeExpression()
		ti := &ast.TypeInstantiation{ArrayOf: elem, ArrayCount: count, ArrayDyn: dynamic}
		ti.SetSpan(newSpanTo(start, p.prevSpan()))
		return ti

	case lexer.FUNC:
		p.advance()
		if _, ok := p.expect(TokLParen); !ok {
			return nil
		}
		var params []ast.Expression
		for !p.curIs(TokRParen) && !p.curIs(lexer.EOF) {
			params = append(params, p.parseTypeExpression())
			if p.curIs(TokComma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(TokRParen)
		var ret ast.Expression
		if p.curIs(lexer.ARROW) {
			p.advance()
			ret = p.parseTypeExpression()
		}
		ti := &ast.TypeInstantiation{IsFunctionType: true, FunctionParams: params, FunctionReturn: ret}
		ti.SetSpan(newSpanTo(start, p.prevSpan()))
		return ti

	case TokDollar:
		// `$T` polymorph placeholder: the '$' and name lex as separate
		// tokens since '$' has no dedicated TokenType of its own.
		p.advance()
		nameTok, ok := p.expect(lexer.IDENT)
		if !ok {
			return nil
		}
		ti := &ast.TypeInstantiation{Name: p.atoms.Intern("$" + nameTok.Literal)}
		ti.SetSpan(newSpanTo(start, nameTok.Span))
		return ti

	case lexer.IDENT:
		tok := p.advance()
		ti := &ast.TypeInstantiation{Name: p.atoms.Intern(tok.Literal)}
		ti.SetSpan(tok.Span)
		return ti

	default:
		p.errorf(p.cur().Span, ErrInvalidType, "expected a type, got %v", p.cur())
		return nil
	}
}

// prevSpan returns the span of the most recently consumed token,
// used to close off a multi-token type expression's span.
func (p *Parser) prevSpan() lexer.TextSpan {
	if p.pos == 0 {
		return p.toks[0].Span
	}
	return p.toks[p.pos-1].Span
}

func newSpanTo(start, end lexer.TextSpan) lexer.TextSpan {
	return lexer.TextSpan{File: start.File, Offset: start.Offset, Length: end.End() - start.Offset}
}
