package semantic

import (
	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/diag"
	"github.com/cwbudde/go-jiyu/internal/types"
)

// analyzeCall resolves a FunctionCall. sizeof/strideof/alignof/typeof
// are recognized here since the parser represents them as an ordinary
// FunctionCall whose callee is a synthetic Identifier with no Decl
// (SPEC_FULL.md §4.5.10). A callee naming a known function resolves
// directly, instantiating a polymorphic template as needed; any other
// callee must evaluate to a function-typed value (a function pointer).
func (a *Analyzer) analyzeCall(root, scope *ast.Scope, n *ast.FunctionCall) (*types.TypeInfo, bool) {
	if id, ok := n.Callee.(*ast.Identifier); ok {
		name := a.atoms.String(id.Name)
		switch name {
		case "sizeof", "strideof", "alignof":
			return a.foldTypeQuery(root, scope, n, name)
		case "typeof":
			return a.foldTypeOfQuery(root, scope, n)
		}
		if decl, ok := a.lookupName(scope, id.Name); ok {
			if fn, ok := decl.(*ast.Function); ok {
				return a.analyzeDirectCall(root, scope, n, fn)
			}
		}
	}

	ct, ok := a.analyzeExpression(root, scope, n.Callee)
	if !ok {
		return nil, false
	}
	cu := types.GetUnderlyingFinalType(ct)
	if cu.Kind != types.Function {
		a.diags.Report(diag.Type, n.Callee.Span(), "cannot call a value that is not a function")
		return nil, false
	}
	if len(n.Args) != len(cu.Params) {
		a.diags.Report(diag.Type, n.Span(), "expected %d arguments, got %d", len(cu.Params), len(n.Args))
		return nil, false
	}
	for i, arg := range n.Args {
		at, ok := a.analyzeExpression(root, scope, arg)
		if !ok {
			return nil, false
		}
		if !a.coerceTo(arg, at, cu.Params[i]) {
			a.diags.Report(diag.Type, arg.Span(), "argument %d: cannot use %v as %v", i+1, at, cu.Params[i])
			return nil, false
		}
	}
	n.SetType(cu.Return)
	return cu.Return, true
}

func (a *Analyzer) foldTypeQuery(root, scope *ast.Scope, n *ast.FunctionCall, which string) (*types.TypeInfo, bool) {
	if len(n.Args) != 1 {
		a.diags.Report(diag.Type, n.Span(), "%s expects exactly one type argument", which)
		return nil, false
	}
	t, ok := a.resolveTypeExpr(root, scope, n.Args[0])
	if !ok {
		return nil, false
	}

	var value uint64
	switch which {
	case "sizeof":
		value = uint64(t.Size)
	case "strideof":
		value = uint64(t.Stride)
	case "alignof":
		value = uint64(t.Alignment)
	}

	result := a.types.DefaultInt()
	lit := &ast.Literal{Kind: ast.LitInt, Int: value, Untyped: true}
	lit.SetSpan(n.Span())
	lit.SetType(result)
	n.SetSubstitution(lit)
	n.SetType(result)
	return result, true
}

func (a *Analyzer) foldTypeOfQuery(root, scope *ast.Scope, n *ast.FunctionCall) (*types.TypeInfo, bool) {
	if len(n.Args) != 1 {
		a.diags.Report(diag.Type, n.Span(), "typeof expects exactly one argument")
		return nil, false
	}
	t, ok := a.analyzeExpression(root, scope, n.Args[0])
	if !ok {
		return nil, false
	}
	result := a.types.DefaultInt()
	lit := &ast.Literal{Kind: ast.LitInt, Int: uint64(types.GetUnderlyingFinalType(t).Index), Untyped: true}
	lit.SetSpan(n.Span())
	lit.SetType(result)
	n.SetSubstitution(lit)
	n.SetType(result)
	return result, true
}
