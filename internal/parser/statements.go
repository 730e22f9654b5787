package parser

import (
	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/atom"
	"github.com/cwbudde/go-jiyu/internal/lexer"
)

func (p *Parser) pushScope(scope *ast.Scope) { p.scopes = append(p.scopes, scope) }
func (p *Parser) popScope()                  { p.scopes = p.scopes[:len(p.scopes)-1] }
func (p *Parser) curScope() *ast.Scope       { return p.scopes[len(p.scopes)-1] }

// parseBlockScope parses `{ stmt... }` into a fresh child scope of
// parent, per the parser's "mutable current scope stack" contract
// (SPEC_FULL.md §4.2).
func (p *Parser) parseBlockScope(parent *ast.Scope) *ast.Scope {
	start, _ := p.expect(TokLBrace)
	scope := ast.NewScope(start.Span, parent)
	p.pushScope(scope)
	defer p.popScope()

	for !p.curIs(TokRBrace) && !p.curIs(lexer.EOF) {
		before := p.pos
		p.parseStatementInto(scope)
		if p.pos == before {
			p.advance()
		}
	}
	end, _ := p.expect(TokRBrace)
	scope.SetSpan(newSpanTo(start.Span, end.Span))
	return scope
}

// parseStatementInto parses one statement or declaration and appends
// it to scope.Statements, declaring it in scope if it binds a name.
func (p *Parser) parseStatementInto(scope *ast.Scope) {
	switch p.cur().Type {
	case TokSemi:
		p.advance()
		return
	case lexer.VAR, lexer.LET:
		if d := p.parseVarOrLet(); d != nil {
			p.declareInto(scope, d.Name, d)
			scope.Statements = append(scope.Statements, d)
		}
		p.expect(TokSemi)
		return
	case lexer.STRUCT, lexer.UNION:
		if s := p.parseStruct(); s != nil {
			scope.Statements = append(scope.Statements, s)
		}
		return
	case lexer.ENUM:
		if e := p.parseEnum(); e != nil {
			scope.Statements = append(scope.Statements, e)
		}
		return
	case lexer.TYPEALIAS:
		if a := p.parseTypeAlias(); a != nil {
			scope.Statements = append(scope.Statements, a)
		}
		return
	case lexer.FUNC, lexer.TAG:
		if f := p.parseFunction(); f != nil {
			scope.Statements = append(scope.Statements, f)
		}
		return
	case lexer.IF:
		scope.Statements = append(scope.Statements, p.parseIf(scope))
		return
	case lexer.WHILE:
		scope.Statements = append(scope.Statements, p.parseWhile(scope))
		return
	case lexer.FOR:
		scope.Statements = append(scope.Statements, p.parseFor(scope))
		return
	case lexer.SWITCH:
		scope.Statements = append(scope.Statements, p.parseSwitch(scope))
		return
	case lexer.RETURN:
		scope.Statements = append(scope.Statements, p.parseReturn())
		p.expect(TokSemi)
		return
	case lexer.BREAK, lexer.CONTINUE:
		scope.Statements = append(scope.Statements, p.parseControlFlow())
		p.expect(TokSemi)
		return
	case lexer.LOAD:
		scope.Statements = append(scope.Statements, p.parseLoad())
		p.expect(TokSemi)
		return
	case lexer.IMPORT:
		scope.Statements = append(scope.Statements, p.parseImport())
		p.expect(TokSemi)
		return
	case lexer.STATIC_IF:
		scope.Statements = append(scope.Statements, p.parseStaticIf(scope))
		return
	case TokLBrace:
		inner := p.parseBlockScope(scope)
		expansion := &ast.ScopeExpansion{Source: inner}
		expansion.SetSpan(inner.Span())
		expansion.Apply(scope)
		scope.Statements = append(scope.Statements, expansion)
		return
	default:
		if p.curIs(lexer.IDENT) && p.peekIs(TokColon) {
			// `name: Type;` is a struct member declaration.
			nameTok := p.advance()
			p.advance() // ':'
			md := &ast.Declaration{Kind: ast.DeclStructMember, Name: p.intern(nameTok), TypeExpr: p.parseTypeExpression()}
			md.SetSpan(newSpanTo(nameTok.Span, p.prevSpan()))
			p.declareInto(scope, md.Name, md)
			scope.Statements = append(scope.Statements, md)
			p.expect(TokSemi)
			return
		}
		stmt := p.parseExpressionStatement()
		if stmt != nil {
			scope.Statements = append(scope.Statements, stmt)
		}
		p.expect(TokSemi)
		return
	}
}

// declareInto reports a duplicate-declaration error rather than
// silently shadowing within the same scope (SPEC_FULL.md §5).
func (p *Parser) declareInto(scope *ast.Scope, name atom.Atom, decl *ast.Declaration) {
	if !scope.Declare(name, decl) {
		p.errorf(decl.Span(), ErrDuplicateDecl, "%v already declared in this scope", name)
	}
}

// parseVarOrLet parses `var name[: Type] = init;` / `let name = init;`.
func (p *Parser) parseVarOrLet() *ast.Declaration {
	kwTok := p.advance()
	kind := ast.DeclVar
	if kwTok.Type == lexer.LET {
		kind = ast.DeclLet
	}
	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	d := &ast.Declaration{Kind: kind, Name: p.intern(nameTok)}

	if p.curIs(TokColon) {
		p.advance()
		d.TypeExpr = p.parseTypeExpression()
	}
	if p.curIs(TokAssign) {
		p.advance()
		d.Initializer = p.parseExpression(LOWEST)
	}
	d.IsReadonlyVariable = kind == ast.DeclVar && d.Initializer == nil
	d.SetSpan(newSpanTo(kwTok.Span, p.prevSpan()))
	return d
}

func (p *Parser) parseIf(scope *ast.Scope) ast.Statement {
	start := p.advance() // 'if'
	cond := p.parseExpression(LOWEST)
	then := p.parseBlockScope(scope)
	n := &ast.If{Cond: cond, Then: then}
	if p.curIs(lexer.ELSE) {
		p.advance()
		if p.curIs(lexer.IF) {
			n.Else = p.parseIf(scope)
		} else {
			blk := p.parseBlockScope(scope)
			exp := &ast.ScopeExpansion{Source: blk}
			exp.SetSpan(blk.Span())
			n.Else = exp
		}
	}
	n.SetSpan(newSpanTo(start.Span, p.prevSpan()))
	return n
}

func (p *Parser) parseWhile(scope *ast.Scope) ast.Statement {
	start := p.advance() // 'while'
	cond := p.parseExpression(LOWEST)
	body := p.parseBlockScope(scope)
	n := &ast.While{Cond: cond, Body: body}
	n.SetSpan(newSpanTo(start.Span, p.prevSpan()))
	return n
}

// parseFor handles the three forms of SPEC_FULL.md §4.2:
//
//	for v in a..b { }      (inclusive range)
//	for v in a..<b { }     (exclusive range)
//	for i, v in coll { }   (indexed)
func (p *Parser) parseFor(scope *ast.Scope) ast.Statement {
	start := p.advance() // 'for'

	firstTok, _ := p.expect(lexer.IDENT)
	first := &ast.Declaration{Kind: ast.DeclVar, Name: p.intern(firstTok)}
	first.SetSpan(firstTok.Span)

	n := &ast.For{}
	if p.curIs(TokComma) {
		p.advance()
		secondTok, _ := p.expect(lexer.IDENT)
		second := &ast.Declaration{Kind: ast.DeclVar, Name: p.intern(secondTok)}
		second.SetSpan(secondTok.Span)
		n.Kind = ast.ForIndexed
		n.IndexVar = first
		n.ValueVar = second
	} else {
		n.ValueVar = first
	}

	p.expect(lexer.IN)

	if n.Kind == ast.ForIndexed {
		n.Collection = p.parseExpression(LOWEST)
	} else {
		n.RangeStart = p.parseExpression(LOWEST)
		switch p.cur().Type {
		case lexer.RANGE_INCL:
			n.Kind = ast.ForRangeInclusive
			p.advance()
		case lexer.RANGE_EXCL:
			n.Kind = ast.ForRangeExclusive
			p.advance()
		default:
			p.errorf(p.cur().Span, ErrUnexpectedToken, "expected .. or ..< in for-range, got %v", p.cur())
		}
		n.RangeEnd = p.parseExpression(LOWEST)
	}

	body := p.parseBlockScope(scope)
	if n.IndexVar != nil {
		body.Declare(n.IndexVar.Name, n.IndexVar)
	}
	body.Declare(n.ValueVar.Name, n.ValueVar)
	n.Body = body
	n.SetSpan(newSpanTo(start.Span, p.prevSpan()))
	return n
}

func (p *Parser) parseSwitch(scope *ast.Scope) ast.Statement {
	start := p.advance() // 'switch'
	subject := p.parseExpression(LOWEST)
	p.expect(TokLBrace)

	n := &ast.Switch{Subject: subject}
	for !p.curIs(TokRBrace) && !p.curIs(lexer.EOF) {
		caseStart := p.cur().Span
		c := &ast.Case{}
		if p.curIs(lexer.DEFAULT) {
			p.advance()
		} else {
			p.expect(lexer.CASE)
			c.Values = append(c.Values, p.parseExpression(LOWEST))
			for p.curIs(TokComma) {
				p.advance()
				c.Values = append(c.Values, p.parseExpression(LOWEST))
			}
		}
		p.expect(TokColon)
		body := ast.NewScope(p.cur().Span, scope)
		p.pushScope(body)
		for !p.curIs(lexer.CASE) && !p.curIs(lexer.DEFAULT) && !p.curIs(TokRBrace) && !p.curIs(lexer.EOF) {
			before := p.pos
			p.parseStatementInto(body)
			if p.pos == before {
				p.advance()
			}
		}
		p.popScope()
		c.Body = body
		c.SetSpan(newSpanTo(caseStart, p.prevSpan()))
		n.Cases = append(n.Cases, c)
	}
	end, _ := p.expect(TokRBrace)
	n.SetSpan(newSpanTo(start.Span, end.Span))
	return n
}

func (p *Parser) parseReturn() ast.Statement {
	start := p.advance() // 'return'
	n := &ast.Return{}
	if !p.curIs(TokSemi) {
		n.Value = p.parseExpression(LOWEST)
	}
	n.SetSpan(newSpanTo(start.Span, p.prevSpan()))
	return n
}

func (p *Parser) parseControlFlow() ast.Statement {
	tok := p.advance()
	kind := ast.CFBreak
	if tok.Type == lexer.CONTINUE {
		kind = ast.CFContinue
	}
	n := &ast.ControlFlow{Kind: kind}
	n.SetSpan(tok.Span)
	return n
}

func (p *Parser) parseLoad() ast.Statement {
	tok := p.advance() // '#load'
	pathTok, _ := p.expect(lexer.STRING)
	n := &ast.Load{Path: pathTok.Str}
	n.SetSpan(newSpanTo(tok.Span, pathTok.Span))
	return n
}

func (p *Parser) parseImport() ast.Statement {
	tok := p.advance() // '#import'
	pathTok, _ := p.expect(lexer.STRING)
	n := &ast.Import{Module: pathTok.Str}
	n.SetSpan(newSpanTo(tok.Span, pathTok.Span))
	return n
}

// parseStaticIf parses `#if constexpr cond { ... } [else { ... }]`.
// "constexpr" is a fixed marker word, not a reserved keyword; cond is
// folded to a compile-time integer by the analyzer (evalConstInt).
func (p *Parser) parseStaticIf(scope *ast.Scope) ast.Statement {
	start := p.advance() // '#if'
	marker, ok := p.expect(lexer.IDENT)
	if ok && marker.Literal != "constexpr" {
		p.errorf(marker.Span, ErrUnexpectedToken, "expected constexpr after #if, got %v", marker)
	}
	cond := p.parseExpression(LOWEST)
	then := p.parseBlockScope(scope)
	n := &ast.StaticIf{Cond: cond, Then: then}
	if p.curIs(lexer.ELSE) {
		p.advance()
		n.Else = p.parseBlockScope(scope)
	}
	n.SetSpan(newSpanTo(start.Span, p.prevSpan()))
	return n
}

// parseExpressionStatement parses either a bare expression or an
// assignment (`lhs = rhs`, or a compound `lhs op= rhs`), per
// SPEC_FULL.md §4.2 ("assignment is a statement-expression form").
func (p *Parser) parseExpressionStatement() ast.Statement {
	start := p.cur().Span
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	if p.curIs(TokAssign) {
		p.advance()
		rhs := p.parseExpression(LOWEST)
		a := &ast.Assign{LHS: expr, RHS: rhs}
		a.SetSpan(newSpanTo(start, p.prevSpan()))
		stmt := &ast.ExpressionStatement{Expr: a}
		stmt.SetSpan(a.Span())
		return stmt
	}
	if op, ok := compoundAssignOps[p.cur().Type]; ok {
		p.advance()
		rhs := p.parseExpression(LOWEST)
		a := &ast.Assign{LHS: expr, RHS: rhs, Compound: true, CompoundOp: op}
		a.SetSpan(newSpanTo(start, p.prevSpan()))
		stmt := &ast.ExpressionStatement{Expr: a}
		stmt.SetSpan(a.Span())
		return stmt
	}

	stmt := &ast.ExpressionStatement{Expr: expr}
	stmt.SetSpan(expr.Span())
	return stmt
}
