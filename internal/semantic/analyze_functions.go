package semantic

import (
	"fmt"

	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/diag"
	"github.com/cwbudde/go-jiyu/internal/types"
)

// analyzeFunctionSignature resolves a function's parameter and return
// types, per SPEC_FULL.md §4.5.2. A polymorphic function's `$T`
// placeholders resolve to types.PolyPlaceholder values here; its body
// is analyzed only once PolymorphFunctionWithArguments produces a
// concrete clone (SPEC_FULL.md §4.4, §9).
func (a *Analyzer) analyzeFunctionSignature(root *ast.Scope, n *ast.Function) {
	var params []*types.TypeInfo
	ok := true
	for _, p := range n.Params {
		pt, pok := a.resolveTypeExpr(root, root, p.TypeExpr)
		if !pok {
			ok = false
			continue
		}
		p.Type = pt
		p.State = ast.StateResolved
		params = append(params, pt)
	}

	ret := a.types.Void
	if n.ReturnType != nil {
		rt, rok := a.resolveTypeExpr(root, root, n.ReturnType)
		if !rok {
			ok = false
		} else {
			ret = rt
		}
	}

	if !ok {
		a.setState(n, ast.StateErrored)
		return
	}

	n.Type = a.types.FunctionType(params, ret, n.IsCFunction, n.IsCVarargs)
	a.setState(n, ast.StateResolved)

	if n.IsPolymorphic() || n.Body == nil {
		return
	}
	a.analyzeFunctionBody(root, n)
}

// analyzeFunctionBody walks a concrete function's body once its
// signature has resolved, tracking the enclosing function for
// `return` and the loop/switch stacks for `break`/`continue`
// (SPEC_FULL.md §4.5.9).
func (a *Analyzer) analyzeFunctionBody(root *ast.Scope, n *ast.Function) {
	prevFn := a.currentFunction
	a.currentFunction = n
	defer func() { a.currentFunction = prevFn }()
	a.analyzeScope(root, n.Body)
}

// analyzeDirectCall resolves a call whose callee names a known
// function, instantiating a polymorphic template against the
// argument types when necessary.
func (a *Analyzer) analyzeDirectCall(root, scope *ast.Scope, n *ast.FunctionCall, fn *ast.Function) (*types.TypeInfo, bool) {
	if a.ensureResolved(root, fn) != ast.StateResolved {
		return nil, false
	}
	if len(n.Args) != len(fn.Params) {
		a.diags.Report(diag.Type, n.Span(), "%s expects %d arguments, got %d", a.atoms.String(fn.Name), len(fn.Params), len(n.Args))
		return nil, false
	}

	argTypes := make([]*types.TypeInfo, len(n.Args))
	for i, arg := range n.Args {
		at, ok := a.analyzeExpression(root, scope, arg)
		if !ok {
			return nil, false
		}
		argTypes[i] = at
	}

	if !fn.IsPolymorphic() {
		for i, arg := range n.Args {
			if !a.coerceTo(arg, argTypes[i], fn.Params[i].Type) {
				a.diags.Report(diag.Type, arg.Span(), "argument %d: cannot use %v as %v", i+1, argTypes[i], fn.Params[i].Type)
				return nil, false
			}
		}
		n.Target = fn
		n.SetType(fn.Type.Return)
		return fn.Type.Return, true
	}

	mono, ok := a.monomorphize(root, fn, argTypes, n)
	if !ok {
		return nil, false
	}
	for i, arg := range n.Args {
		if !a.coerceTo(arg, argTypes[i], mono.Params[i].Type) {
			a.diags.Report(diag.Type, arg.Span(), "argument %d: cannot use %v as %v", i+1, argTypes[i], mono.Params[i].Type)
			return nil, false
		}
	}
	n.Target = mono
	n.SetType(mono.Type.Return)
	return mono.Type.Return, true
}

// monomorphize instantiates fn against argTypes, memoizing by template
// and the ordered concrete bindings so repeated calls with the same
// argument types share one clone (SPEC_FULL.md §9).
func (a *Analyzer) monomorphize(root *ast.Scope, fn *ast.Function, argTypes []*types.TypeInfo, call *ast.FunctionCall) (*ast.Function, bool) {
	key := monoKey{template: fn, key: monoKeyString(argTypes)}
	if existing, ok := a.monomorphs[key]; ok {
		if a.stateOf(existing) != ast.StateResolved {
			return nil, false
		}
		return existing, true
	}

	clone, err := a.cp.PolymorphFunctionWithArguments(fn, argTypes)
	if err != nil {
		a.diags.Report(diag.Polymorph, call.Span(), "%v", err)
		return nil, false
	}
	clone.Template = fn

	a.monomorphs[key] = clone
	a.analyzeFunctionSignature(root, clone)
	if a.stateOf(clone) != ast.StateResolved {
		return nil, false
	}
	return clone, true
}

// monoKeyString builds a stable key from the concrete argument types
// bound during this call. Every argument type reaching here is
// concrete (call arguments are never PolyPlaceholder), and the type
// table canonicalizes concrete types to one *TypeInfo each, so raw
// pointer identity is a valid key component.
func monoKeyString(argTypes []*types.TypeInfo) string {
	s := make([]byte, 0, len(argTypes)*8)
	for _, t := range argTypes {
		u := types.GetUnderlyingFinalType(t)
		s = fmt.Appendf(s, "%p;", u)
	}
	return string(s)
}
