// Package ast defines the Abstract Syntax Tree node types produced by
// the parser and resolved in place by the semantic analyzer, per
// SPEC_FULL.md §3.5.
package ast

import (
	"github.com/cwbudde/go-jiyu/internal/atom"
	"github.com/cwbudde/go-jiyu/internal/lexer"
	"github.com/cwbudde/go-jiyu/internal/types"
)

// Node is the base interface every AST node implements.
type Node interface {
	// Span returns the node's source range.
	Span() lexer.TextSpan

	// String renders the node for debugging/snapshot tests.
	String() string

	// GetSubstitution returns the node this node has been replaced
	// by, or nil if it has not been substituted (SPEC_FULL.md §3.5).
	GetSubstitution() Node

	// SetSubstitution installs a substitution. Consumers must follow
	// the chain with FinalNode before using the result.
	SetSubstitution(Node)
}

// Expression is a Node that produces a value and therefore carries a
// resolved type once the semantic analyzer has visited it.
type Expression interface {
	Node
	expressionNode()
	GetType() *types.TypeInfo
	SetType(*types.TypeInfo)
}

// Statement is a Node that performs an action but produces no value.
type Statement interface {
	Node
	statementNode()
}

// base is embedded by every concrete node to provide the Span and
// substitution bookkeeping without repeating it per kind.
type base struct {
	span         lexer.TextSpan
	substitution Node
}

func (b *base) Span() lexer.TextSpan   { return b.span }
func (b *base) SetSpan(s lexer.TextSpan) { b.span = s }
func (b *base) GetSubstitution() Node  { return b.substitution }
func (b *base) SetSubstitution(n Node) { b.substitution = n }

// exprBase additionally carries the resolved type of an expression
// node (SPEC_FULL.md §3.5 "every expression node carries a TypeInfo*").
type exprBase struct {
	base
	typ *types.TypeInfo
}

func (e *exprBase) expressionNode()          {}
func (e *exprBase) GetType() *types.TypeInfo { return e.typ }
func (e *exprBase) SetType(t *types.TypeInfo) { e.typ = t }

// FinalNode follows n's substitution chain to its end. The chain is
// finite and cycle-free by construction (SPEC_FULL.md §8).
func FinalNode(n Node) Node {
	for {
		sub := n.GetSubstitution()
		if sub == nil {
			return n
		}
		n = sub
	}
}

// FinalExpr is FinalNode specialized for expressions; it panics if the
// substitution chain does not end on an Expression, which would be an
// analyzer bug (InternalError, SPEC_FULL.md §7).
func FinalExpr(e Expression) Expression {
	n := FinalNode(e)
	fe, ok := n.(Expression)
	if !ok {
		panic("ast: substitution chain did not terminate on an Expression")
	}
	return fe
}

// Scope owns a set of declarations for name lookup and a source-order
// list of statements (SPEC_FULL.md §3.5). declarations is a superset
// of the Declaration-typed entries in statements: it additionally
// holds everything pulled in by a ScopeExpansion.
type Scope struct {
	base
	Parent       *Scope
	Statements   []Statement
	declarations map[atom.Atom]*Declaration
	order        []atom.Atom // insertion order, for deterministic iteration
}

// NewScope creates an empty scope. parent may be nil for the root
// (preload) scope.
func NewScope(span lexer.TextSpan, parent *Scope) *Scope {
	return &Scope{
		base:         base{span: span},
		Parent:       parent,
		declarations: make(map[atom.Atom]*Declaration),
	}
}

func (s *Scope) String() string { return "<scope>" }

// Declare adds decl to the scope's lookup set, returning false (and
// leaving the scope unchanged) if name is already declared directly
// in this scope (duplicate-declaration is an error at the call site,
// SPEC_FULL.md §5).
func (s *Scope) Declare(name atom.Atom, decl *Declaration) bool {
	if _, exists := s.declarations[name]; exists {
		return false
	}
	s.declarations[name] = decl
	s.order = append(s.order, name)
	return true
}

// LookupLocal returns the declaration bound to name directly in this
// scope, without ascending to parents.
func (s *Scope) LookupLocal(name atom.Atom) (*Declaration, bool) {
	d, ok := s.declarations[name]
	return d, ok
}

// Lookup ascends from s through Parent scopes, returning the first
// binding found. Name lookup always prefers the innermost scope
// (SPEC_FULL.md §5).
func (s *Scope) Lookup(name atom.Atom) (*Declaration, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if d, ok := sc.declarations[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// Declarations returns the scope's declarations in the order they
// were added (source order for natively-declared names, followed by
// whatever order ScopeExpansion spliced in the rest).
func (s *Scope) Declarations() []*Declaration {
	out := make([]*Declaration, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.declarations[name])
	}
	return out
}

// ScopeExpansion splices another scope's declarations into this
// scope's lookup set without copying their contents (SPEC_FULL.md
// §3.5, §9 "Scope expansion"). It is itself a Statement so it can sit
// in source position among the statements of the enclosing scope.
type ScopeExpansion struct {
	base
	Source *Scope
}

func (e *ScopeExpansion) statementNode() {}
func (e *ScopeExpansion) String() string { return "<scope expansion>" }

// Apply merges Source's declarations into dst, skipping any name dst
// already declares directly (the enclosing declaration wins).
func (e *ScopeExpansion) Apply(dst *Scope) {
	for _, name := range e.Source.order {
		if _, exists := dst.declarations[name]; exists {
			continue
		}
		dst.declarations[name] = e.Source.declarations[name]
		dst.order = append(dst.order, name)
	}
}

// Program is the root of a parsed/analyzed translation unit.
type Program struct {
	base
	Root *Scope
}

func (p *Program) String() string { return "<program>" }
