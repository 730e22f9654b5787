// Package parser turns a token stream into the AST defined by
// internal/ast, via precedence-climbing expression parsing and
// recursive-descent statement/declaration parsing, per SPEC_FULL.md §4.2.
package parser

import (
	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/atom"
	"github.com/cwbudde/go-jiyu/internal/lexer"
)

// Precedence levels, lowest to highest (SPEC_FULL.md §4.2).
const (
	_ int = iota
	LOWEST
	LOR_LXOR
	LAND
	BITOR_XOR_AND
	EQUALS
	RELATIONAL
	SHIFT
	SUM
	PRODUCT
	PREFIX
	CALL // postfix: .ident, [expr], (args)
)

var precedences = map[lexer.TokenType]int{
	lexer.LOR:        LOR_LXOR,
	lexer.LXOR:       LOR_LXOR,
	lexer.LAND:       LAND,
	TokPipe:          BITOR_XOR_AND,
	TokCaret:         BITOR_XOR_AND,
	TokAmp:           BITOR_XOR_AND,
	lexer.EQ:         EQUALS,
	lexer.NEQ:        EQUALS,
	TokLess:          RELATIONAL,
	TokGreater:       RELATIONAL,
	lexer.LE:         RELATIONAL,
	lexer.GE:         RELATIONAL,
	lexer.SHL:        SHIFT,
	lexer.SHR:        SHIFT,
	TokPlus:          SUM,
	TokMinus:         SUM,
	TokStar:          PRODUCT,
	TokSlash:         PRODUCT,
	TokPercent:       PRODUCT,
	TokLParen:        CALL,
	TokLBracket:      CALL,
	TokDot:           CALL,
}

// Single-character punctuation tokens, named for readability at the
// call sites above and throughout the package (SPEC_FULL.md §3.3:
// these ARE the rune values, never a separate enum).
const (
	TokLParen   = lexer.TokenType('(')
	TokRParen   = lexer.TokenType(')')
	TokLBrace   = lexer.TokenType('{')
	TokRBrace   = lexer.TokenType('}')
	TokLBracket = lexer.TokenType('[')
	TokRBracket = lexer.TokenType(']')
	TokComma    = lexer.TokenType(',')
	TokColon    = lexer.TokenType(':')
	TokSemi     = lexer.TokenType(';')
	TokDot      = lexer.TokenType('.')
	TokPlus     = lexer.TokenType('+')
	TokMinus    = lexer.TokenType('-')
	TokStar     = lexer.TokenType('*')
	TokSlash    = lexer.TokenType('/')
	TokPercent  = lexer.TokenType('%')
	TokAmp      = lexer.TokenType('&')
	TokPipe     = lexer.TokenType('|')
	TokCaret    = lexer.TokenType('^')
	TokTilde    = lexer.TokenType('~')
	TokBang     = lexer.TokenType('!')
	TokLess     = lexer.TokenType('<')
	TokGreater  = lexer.TokenType('>')
	TokAssign   = lexer.TokenType('=')
	TokDollar   = lexer.TokenType('$')
)

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser holds a fully-tokenized input and an index cursor, the way
// the teacher's DWScript parser does for its own lexer output.
type Parser struct {
	atoms *atom.Table
	toks  []lexer.Token
	pos   int

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn

	scopes []*ast.Scope
	errors []*Error
}

// New builds a Parser over an already-tokenized source. atoms is the
// compiler instance's shared identifier table.
func New(atoms *atom.Table, toks []lexer.Token) *Parser {
	p := &Parser{atoms: atoms, toks: toks}
	p.prefixFns = make(map[lexer.TokenType]prefixParseFn)
	p.infixFns = make(map[lexer.TokenType]infixParseFn)
	p.registerExpressionFns()
	return p
}

// Errors returns accumulated parse errors.
func (p *Parser) Errors() []*Error { return p.errors }

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+1]
}

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur().Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek().Type == t }

// expect advances past the current token if it matches t, else records
// an error and returns the zero Token.
func (p *Parser) expect(t lexer.TokenType) (lexer.Token, bool) {
	if p.curIs(t) {
		return p.advance(), true
	}
	p.errorf(p.cur().Span, ErrUnexpectedToken, "expected %v, got %v", lexer.Token{Type: t}, p.cur())
	return lexer.Token{}, false
}

func (p *Parser) errorf(span lexer.TextSpan, code, format string, args ...interface{}) {
	p.errors = append(p.errors, newError(span, code, format, args...))
}

func (p *Parser) precedenceOf(t lexer.TokenType) int {
	if prec, ok := precedences[t]; ok {
		return prec
	}
	return LOWEST
}

// synchronize skips to the next statement boundary after a parse
// error (SPEC_FULL.md §4.2, "attempt to recover by skipping to the
// next `;`, `}`, or top-level keyword").
func (p *Parser) synchronize() {
	for !p.curIs(lexer.EOF) {
		switch p.cur().Type {
		case TokSemi:
			p.advance()
			return
		case TokRBrace, lexer.FUNC, lexer.STRUCT, lexer.UNION, lexer.ENUM,
			lexer.VAR, lexer.LET, lexer.TYPEALIAS, lexer.LIBRARY, lexer.FRAMEWORK,
			lexer.LOAD, lexer.IMPORT:
			return
		}
		p.advance()
	}
}

// intern interns an identifier-shaped token's literal text.
func (p *Parser) intern(tok lexer.Token) atom.Atom {
	return p.atoms.Intern(tok.Literal)
}

// ParseProgram parses the whole token stream's top-level declarations
// and statements into root, per SPEC_FULL.md §4.2's parser contract
// ("consume tokens and append declarations/statements to the scope").
func ParseProgram(atoms *atom.Table, toks []lexer.Token, root *ast.Scope) (*ast.Program, []*Error) {
	p := New(atoms, toks)
	p.pushScope(root)
	for !p.curIs(lexer.EOF) {
		before := p.pos
		p.parseTopLevel(root)
		if p.pos == before {
			// parseTopLevel must always make progress; guard against
			// an unhandled token type looping forever.
			p.advance()
		}
	}
	return &ast.Program{Root: root}, p.errors
}
