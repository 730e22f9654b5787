package parser

import (
	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/lexer"
)

// registerExpressionFns wires the prefix/infix tables, mirroring the
// teacher's registerPrefix/registerInfix setup in parser.go.
func (p *Parser) registerExpressionFns() {
	p.prefixFns[lexer.IDENT] = p.parseIdentifier
	p.prefixFns[lexer.INT] = p.parseIntLiteral
	p.prefixFns[lexer.FLOAT] = p.parseFloatLiteral
	p.prefixFns[lexer.STRING] = p.parseStringLiteral
	p.prefixFns[lexer.CHAR] = p.parseCharLiteral
	p.prefixFns[lexer.TRUE] = p.parseBoolLiteral
	p.prefixFns[lexer.FALSE] = p.parseBoolLiteral
	p.prefixFns[lexer.NULL] = p.parseNullLiteral
	p.prefixFns[TokMinus] = p.parseUnary
	p.prefixFns[TokBang] = p.parseUnary
	p.prefixFns[TokTilde] = p.parseUnary
	p.prefixFns[TokStar] = p.parseUnary
	p.prefixFns[TokAmp] = p.parseUnary
	p.prefixFns[TokLParen] = p.parseGroupedOrTuple
	p.prefixFns[lexer.CAST] = p.parseCast
	p.prefixFns[lexer.SIZEOF] = p.parseTypeQuery
	p.prefixFns[lexer.STRIDEOF] = p.parseTypeQuery
	p.prefixFns[lexer.ALIGNOF] = p.parseTypeQuery
	p.prefixFns[lexer.TYPEOF] = p.parseTypeQuery

	p.infixFns[TokPlus] = p.parseBinary
	p.infixFns[TokMinus] = p.parseBinary
	p.infixFns[TokStar] = p.parseBinary
	p.infixFns[TokSlash] = p.parseBinary
	p.infixFns[TokPercent] = p.parseBinary
	p.infixFns[TokAmp] = p.parseBinary
	p.infixFns[TokPipe] = p.parseBinary
	p.infixFns[TokCaret] = p.parseBinary
	p.infixFns[TokLess] = p.parseBinary
	p.infixFns[TokGreater] = p.parseBinary
	p.infixFns[lexer.LE] = p.parseBinary
	p.infixFns[lexer.GE] = p.parseBinary
	p.infixFns[lexer.EQ] = p.parseBinary
	p.infixFns[lexer.NEQ] = p.parseBinary
	p.infixFns[lexer.SHL] = p.parseBinary
	p.infixFns[lexer.SHR] = p.parseBinary
	p.infixFns[lexer.LAND] = p.parseBinary
	p.infixFns[lexer.LOR] = p.parseBinary
	p.infixFns[lexer.LXOR] = p.parseBinary
	p.infixFns[TokLParen] = p.parseCall
	p.infixFns[TokLBracket] = p.parseIndex
	p.infixFns[TokDot] = p.parseDereference
}

var binOps = map[lexer.TokenType]ast.BinaryOp{
	TokPlus: ast.BinAdd, TokMinus: ast.BinSub, TokStar: ast.BinMul,
	TokSlash: ast.BinQuo, TokPercent: ast.BinRem,
	TokAmp: ast.BinBitAnd, TokPipe: ast.BinBitOr, TokCaret: ast.BinBitXor,
	TokLess: ast.BinLt, TokGreater: ast.BinGt, lexer.LE: ast.BinLe, lexer.GE: ast.BinGe,
	lexer.EQ: ast.BinEq, lexer.NEQ: ast.BinNeq,
	lexer.SHL: ast.BinShl, lexer.SHR: ast.BinShr,
	lexer.LAND: ast.BinLAnd, lexer.LOR: ast.BinLOr, lexer.LXOR: ast.BinLXor,
}

var compoundAssignOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.ADD_ASSIGN: ast.BinAdd, lexer.SUB_ASSIGN: ast.BinSub,
	lexer.MUL_ASSIGN: ast.BinMul, lexer.QUO_ASSIGN: ast.BinQuo, lexer.REM_ASSIGN: ast.BinRem,
	lexer.AND_ASSIGN: ast.BinBitAnd, lexer.OR_ASSIGN: ast.BinBitOr, lexer.XOR_ASSIGN: ast.BinBitXor,
	lexer.SHL_ASSIGN: ast.BinShl, lexer.SHR_ASSIGN: ast.BinShr,
}

// parseExpression is the Pratt-parsing core (SPEC_FULL.md §4.2).
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix, ok := p.prefixFns[p.cur().Type]
	if !ok {
		p.errorf(p.cur().Span, ErrNoPrefixParse, "no prefix parse function for %v", p.cur())
		p.advance()
		return nil
	}
	left := prefix()

	for !p.curIs(TokSemi) && precedence < p.precedenceOf(p.cur().Type) {
		infix, ok := p.infixFns[p.cur().Type]
		if !ok {
			return left
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.advance()
	id := &ast.Identifier{Name: p.intern(tok)}
	if d, ok := p.curScope().Lookup(id.Name); ok {
		id.Decl = d
	}
	id.SetSpan(tok.Span)
	return id
}

func (p *Parser) parseIntLiteral() ast.Expression {
	tok := p.advance()
	lit := &ast.Literal{Kind: ast.LitInt, Int: tok.Int, Radix: tok.Radix, Untyped: true}
	lit.SetSpan(tok.Span)
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.advance()
	lit := &ast.Literal{Kind: ast.LitFloat, Float: tok.Float, Untyped: true}
	lit.SetSpan(tok.Span)
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.advance()
	lit := &ast.Literal{Kind: ast.LitString, Str: tok.Str}
	lit.SetSpan(tok.Span)
	return lit
}

func (p *Parser) parseCharLiteral() ast.Expression {
	tok := p.advance()
	lit := &ast.Literal{Kind: ast.LitInt, Int: tok.Int, Untyped: true}
	lit.SetSpan(tok.Span)
	return lit
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	tok := p.advance()
	lit := &ast.Literal{Kind: ast.LitBool, Bool: tok.Type == lexer.TRUE}
	lit.SetSpan(tok.Span)
	return lit
}

func (p *Parser) parseNullLiteral() ast.Expression {
	tok := p.advance()
	lit := &ast.Literal{Kind: ast.LitNull}
	lit.SetSpan(tok.Span)
	return lit
}

var unaryOps = map[lexer.TokenType]ast.UnaryOp{
	TokMinus: ast.UnaryNeg, TokBang: ast.UnaryNot, TokTilde: ast.UnaryBitNot,
	TokStar: ast.UnaryDeref, TokAmp: ast.UnaryAddr,
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.advance()
	operand := p.parseExpression(PREFIX)
	u := &ast.Unary{Op: unaryOps[tok.Type], Operand: operand}
	if operand != nil {
		u.SetSpan(newSpanTo(tok.Span, operand.Span()))
	} else {
		u.SetSpan(tok.Span)
	}
	return u
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	tok := p.advance()
	prec := p.precedenceOf(tok.Type)
	right := p.parseExpression(prec)
	b := &ast.Binary{Op: binOps[tok.Type], Left: left, Right: right}
	if left != nil && right != nil {
		b.SetSpan(newSpanTo(left.Span(), right.Span()))
	}
	return b
}

// parseGroupedOrTuple handles `(expr)` and `(a, b, c)`.
func (p *Parser) parseGroupedOrTuple() ast.Expression {
	start := p.advance() // '('
	if p.curIs(TokRParen) {
		end := p.advance()
		t := &ast.TupleExpression{}
		t.SetSpan(newSpanTo(start.Span, end.Span))
		return t
	}
	first := p.parseExpression(LOWEST)
	if !p.curIs(TokComma) {
		p.expect(TokRParen)
		return first
	}
	elems := []ast.Expression{first}
	for p.curIs(TokComma) {
		p.advance()
		elems = append(elems, p.parseExpression(LOWEST))
	}
	end, _ := p.expect(TokRParen)
	t := &ast.TupleExpression{Elements: elems}
	t.SetSpan(newSpanTo(start.Span, end.Span))
	return t
}

func (p *Parser) parseCast() ast.Expression {
	start := p.advance() // 'cast'
	p.expect(TokLParen)
	target := p.parseTypeExpression()
	p.expect(TokComma)
	operand := p.parseExpression(LOWEST)
	end, _ := p.expect(TokRParen)
	c := &ast.Cast{TargetType: target, Operand: operand}
	c.SetSpan(newSpanTo(start.Span, end.Span))
	return c
}

// parseTypeQuery handles sizeof/strideof/alignof/typeof(expr-or-type).
// The analyzer (SPEC_FULL.md §4.5.10) folds these to an integer
// literal; the parser just records the callee name as an identifier
// applied to the operand, reusing FunctionCall so the analyzer has a
// single call-resolution path to special-case.
func (p *Parser) parseTypeQuery() ast.Expression {
	kwTok := p.advance()
	callee := &ast.Identifier{Name: p.atoms.Intern(kwTok.Literal)}
	callee.SetSpan(kwTok.Span)

	p.expect(TokLParen)
	var arg ast.Expression
	if kwTok.Type == lexer.TYPEOF {
		arg = p.parseExpression(LOWEST)
	} else {
		arg = p.parseTypeExpression()
	}
	end, _ := p.expect(TokRParen)

	call := &ast.FunctionCall{Callee: callee, Args: []ast.Expression{arg}}
	call.SetSpan(newSpanTo(kwTok.Span, end.Span))
	return call
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	start := p.advance() // '('
	var args []ast.Expression
	for !p.curIs(TokRParen) && !p.curIs(lexer.EOF) {
		args = append(args, p.parseExpression(LOWEST))
		if p.curIs(TokComma) {
			p.advance()
			continue
		}
		break
	}
	end, _ := p.expect(TokRParen)
	call := &ast.FunctionCall{Callee: callee, Args: args}
	if callee != nil {
		call.SetSpan(newSpanTo(callee.Span(), end.Span))
	} else {
		call.SetSpan(newSpanTo(start.Span, end.Span))
	}
	return call
}

func (p *Parser) parseIndex(target ast.Expression) ast.Expression {
	p.advance() // '['
	idx := p.parseExpression(LOWEST)
	end, _ := p.expect(TokRBracket)
	a := &ast.ArrayDereference{Target: target, Index: idx}
	if target != nil {
		a.SetSpan(newSpanTo(target.Span(), end.Span))
	}
	return a
}

func (p *Parser) parseDereference(target ast.Expression) ast.Expression {
	p.advance() // '.'
	nameTok, ok := p.expect(lexer.IDENT)
	d := &ast.Dereference{Target: target, ElementPathIndex: -1}
	if ok {
		d.Field = p.intern(nameTok)
		if target != nil {
			d.SetSpan(newSpanTo(target.Span(), nameTok.Span))
		}
	}
	return d
}
