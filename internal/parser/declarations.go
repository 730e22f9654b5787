package parser

import (
	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/lexer"
)

// parseTopLevel parses one top-level item into root: everything
// parseStatementInto handles (including `#if`, which is accepted in
// any scope), plus `library`/`framework` directives, which are only
// accepted here.
func (p *Parser) parseTopLevel(root *ast.Scope) {
	switch p.cur().Type {
	case lexer.LIBRARY, lexer.FRAMEWORK:
		root.Statements = append(root.Statements, p.parseLibrary())
	default:
		p.parseStatementInto(root)
	}
}

func (p *Parser) parseLibrary() ast.Statement {
	tok := p.advance()
	pathTok, _ := p.expect(lexer.STRING)
	n := &ast.Library{Path: pathTok.Str, Framework: tok.Type == lexer.FRAMEWORK}
	n.SetSpan(newSpanTo(tok.Span, pathTok.Span))
	p.expect(TokSemi)
	return n
}

// parseFunction parses `[@tag...] func name[<$T, ...>](params) -> ret { body }`.
func (p *Parser) parseFunction() *ast.Function {
	start := p.cur().Span
	f := &ast.Function{}

	for p.curIs(lexer.TAG) {
		tagTok := p.advance()
		switch tagTok.TagVal {
		case "c_function":
			f.IsCFunction = true
		case "export":
			f.IsExported = true
		case "metaprogram":
			f.IsMetaprogram = true
		}
	}

	if _, ok := p.expect(lexer.FUNC); !ok {
		return nil
	}
	nameTok, ok := p.expect(lexer.IDENT)
	if !ok {
		return nil
	}
	f.Name = p.intern(nameTok)

	if p.curIs(TokLess) {
		p.advance()
		for {
			p.expect(TokDollar)
			nt, _ := p.expect(lexer.IDENT)
			f.PolyParams = append(f.PolyParams, p.atoms.Intern("$"+nt.Literal))
			if p.curIs(TokComma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(TokGreater)
	}

	p.expect(TokLParen)
	for !p.curIs(TokRParen) && !p.curIs(lexer.EOF) {
		argStart := p.cur().Span
		pnameTok, _ := p.expect(lexer.IDENT)
		p.expect(TokColon)
		ptype := p.parseTypeExpression()
		pd := &ast.Declaration{Kind: ast.DeclArgument, Name: p.intern(pnameTok), TypeExpr: ptype}
		pd.SetSpan(newSpanTo(argStart, p.prevSpan()))
		f.Params = append(f.Params, pd)
		if p.curIs(TokComma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(TokRParen)

	if p.curIs(lexer.ARROW) {
		p.advance()
		f.ReturnType = p.parseTypeExpression()
	}

	if p.curIs(TokLBrace) {
		// Parameters are visible while the body is parsed, through a
		// temporary parent scope, so identifiers naming them bind.
		params := ast.NewScope(start, p.curScope())
		for _, param := range f.Params {
			params.Declare(param.Name, param)
		}
		f.Body = p.parseBlockScope(params)
		f.Body.Parent = params.Parent
		for _, param := range f.Params {
			f.Body.Declare(param.Name, param)
		}
	} else {
		p.expect(TokSemi)
	}

	f.SetSpan(newSpanTo(start, p.prevSpan()))
	return f
}

// parseStruct parses `struct|union Name[: Parent] { members }`.
// An anonymous nested struct (Name left as the zero atom) becomes its
// own Struct statement inside the enclosing Members scope; its members
// are not merged into the enclosing struct.
func (p *Parser) parseStruct() *ast.Struct {
	start := p.cur().Span
	kwTok := p.advance()
	s := &ast.Struct{IsUnion: kwTok.Type == lexer.UNION}

	if p.curIs(lexer.IDENT) {
		nameTok := p.advance()
		s.Name = p.intern(nameTok)
		if p.curIs(TokColon) {
			p.advance()
			s.Parent = p.parseTypeExpression()
		}
	}

	s.Members = p.parseBlockScope(p.curScope())
	s.SetSpan(newSpanTo(start, p.prevSpan()))
	return s
}

// parseEnum parses `enum Name[: BaseType] { member[, member]... }`.
func (p *Parser) parseEnum() *ast.Enum {
	start := p.advance() // 'enum'
	nameTok, _ := p.expect(lexer.IDENT)
	e := &ast.Enum{Name: p.intern(nameTok)}

	if p.curIs(TokColon) {
		p.advance()
		e.Base = p.parseTypeExpression()
	}

	lb, _ := p.expect(TokLBrace)
	members := ast.NewScope(lb.Span, p.curScope())
	for !p.curIs(TokRBrace) && !p.curIs(lexer.EOF) {
		mTok, ok := p.expect(lexer.IDENT)
		if !ok {
			break
		}
		md := &ast.Declaration{Kind: ast.DeclEnumMember, Name: p.intern(mTok)}
		if p.curIs(TokAssign) {
			p.advance()
			md.Initializer = p.parseExpression(LOWEST)
		}
		md.SetSpan(newSpanTo(mTok.Span, p.prevSpan()))
		if !members.Declare(md.Name, md) {
			p.errorf(md.Span(), ErrDuplicateDecl, "%v already declared in this enum", md.Name)
		}
		members.Statements = append(members.Statements, md)
		if p.curIs(TokComma) {
			p.advance()
		}
	}
	end, _ := p.expect(TokRBrace)
	members.SetSpan(newSpanTo(lb.Span, end.Span))
	e.Members = members
	e.SetSpan(newSpanTo(start.Span, end.Span))
	return e
}

func (p *Parser) parseTypeAlias() *ast.TypeAlias {
	start := p.advance() // 'typealias'
	nameTok, _ := p.expect(lexer.IDENT)
	p.expect(TokAssign)
	typeExpr := p.parseTypeExpression()
	end, _ := p.expect(TokSemi)
	a := &ast.TypeAlias{Name: p.intern(nameTok), TypeExpr: typeExpr}
	a.SetSpan(newSpanTo(start.Span, end.Span))
	return a
}
