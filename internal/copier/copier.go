// Package copier implements the AST deep-clone machinery used to
// monomorphize polymorphic functions, per SPEC_FULL.md §4.4.
package copier

import (
	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/atom"
)

// Copier produces a deep clone of an AST subtree with a fresh
// scope-chain, rebinding Identifier nodes whose target lies inside
// the copied subtree and leaving external references untouched.
type Copier struct {
	atoms *atom.Table

	// declMap maps an original Declaration to its clone, populated as
	// CopyScope walks declarations so later Identifier copies can
	// rebind to the copy (SPEC_FULL.md §4.4).
	declMap map[*ast.Declaration]*ast.Declaration

	// scopeMap maps an original Scope to its clone, so a nested
	// Declaration's containing scope can be resolved during the walk.
	scopeMap map[*ast.Scope]*ast.Scope

	// scopeStack tracks the destination scope currently being filled,
	// so a nested scope built mid-statement (an If's Then, a loop's
	// Body) parents onto the CLONE's enclosing scope rather than the
	// original's.
	scopeStack []*ast.Scope

	// bindings holds the `$T` -> concrete-type map for the
	// monomorphizing copy currently in progress, or nil outside of
	// PolymorphFunctionWithArguments. CopyExpression consults it to
	// resolve a placeholder TypeInstantiation directly rather than
	// leaving it for the analyzer to re-bind.
	bindings Bindings
}

// New creates a Copier sharing the compiler instance's atom table.
func New(atoms *atom.Table) *Copier {
	return &Copier{
		atoms:    atoms,
		declMap:  make(map[*ast.Declaration]*ast.Declaration),
		scopeMap: make(map[*ast.Scope]*ast.Scope),
	}
}

// CopyScope deep-clones src with parent as the clone's enclosing
// scope, copying declarations and statements in source order so that
// forward references inside src resolve the same way after copying
// (a two-pass walk: declarations first, then statement bodies, would
// be needed for mutual forward reference across declarations in the
// same scope — SPEC_FULL.md's scope-walking contract already tolerates
// that at the semantic-analysis layer, so a single ordered pass here
// is sufficient: any Identifier the copy can't yet resolve falls back
// to re-resolving against src's original declaration, which is always
// still valid).
func (c *Copier) CopyScope(src *ast.Scope, parent *ast.Scope) *ast.Scope {
	if src == nil {
		return nil
	}
	dst := ast.NewScope(src.Span(), parent)
	c.scopeMap[src] = dst

	c.scopeStack = append(c.scopeStack, dst)
	for _, stmt := range src.Statements {
		cloned := c.CopyStatement(stmt)
		if cloned == nil {
			continue
		}
		dst.Statements = append(dst.Statements, cloned)
		if decl, ok := cloned.(*ast.Declaration); ok {
			dst.Declare(decl.Name, decl)
		}
	}
	c.scopeStack = c.scopeStack[:len(c.scopeStack)-1]
	return dst
}

// curScope returns the destination scope currently being filled, or
// nil if CopyScope is not on the call stack (e.g. CopyStatement/
// CopyExpression called directly on a standalone node).
func (c *Copier) curScope() *ast.Scope {
	if len(c.scopeStack) == 0 {
		return nil
	}
	return c.scopeStack[len(c.scopeStack)-1]
}

// CopyNode dispatches to CopyExpression or CopyStatement based on the
// node's dynamic type.
func (c *Copier) CopyNode(n ast.Node) ast.Node {
	switch v := n.(type) {
	case ast.Expression:
		return c.CopyExpression(v)
	case ast.Statement:
		return c.CopyStatement(v)
	default:
		return nil
	}
}

// rebindIdentifier returns the clone's declaration for an Identifier
// that targeted a Declaration inside the copied subtree, or the
// original Decl if it lies outside the subtree being copied.
func (c *Copier) rebindIdentifier(orig *ast.Declaration) *ast.Declaration {
	if orig == nil {
		return nil
	}
	if cloned, ok := c.declMap[orig]; ok {
		return cloned
	}
	return orig
}
