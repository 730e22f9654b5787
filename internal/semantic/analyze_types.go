package semantic

import (
	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/diag"
	"github.com/cwbudde/go-jiyu/internal/types"
)

// resolveTypeExpr looks up/synthesizes a types.TypeInfo for a parsed
// type expression, per SPEC_FULL.md §4.3. ok is false if expr could
// not be resolved in this visit; the caller (a struct/enum/typealias/
// function-signature resolver) is itself re-entrant through
// ensureResolved, so a forward reference to a not-yet-visited
// struct/enum/typealias resolves by recursing immediately rather than
// waiting for the next work-list pass.
func (a *Analyzer) resolveTypeExpr(root, scope *ast.Scope, expr ast.Expression) (*types.TypeInfo, bool) {
	ti, ok := expr.(*ast.TypeInstantiation)
	if !ok || ti == nil {
		a.diags.Report(diag.Type, expr.Span(), "expected a type expression")
		return nil, false
	}

	switch {
	case ti.PointerOf != nil:
		of, ok := a.resolveTypeExpr(root, scope, ti.PointerOf)
		if !ok {
			return nil, false
		}
		result := a.types.PointerTo(of)
		ti.ResolvedType = result
		return result, true

	case ti.ArrayOf != nil:
		el, ok := a.resolveTypeExpr(root, scope, ti.ArrayOf)
		if !ok {
			return nil, false
		}
		result := a.types.ArrayOf(el, ti.ArrayCount, ti.ArrayDyn)
		ti.ResolvedType = result
		return result, true

	case ti.IsFunctionType:
		var params []*types.TypeInfo
		for _, p := range ti.FunctionParams {
			pt, ok := a.resolveTypeExpr(root, scope, p)
			if !ok {
				return nil, false
			}
			params = append(params, pt)
		}
		ret := a.types.Void
		if ti.FunctionReturn != nil {
			rt, ok := a.resolveTypeExpr(root, scope, ti.FunctionReturn)
			if !ok {
				return nil, false
			}
			ret = rt
		}
		result := a.types.FunctionType(params, ret, ti.FunctionIsC, false)
		ti.ResolvedType = result
		return result, true

	default:
		return a.resolveNamedType(root, scope, ti)
	}
}

func (a *Analyzer) resolveNamedType(root, scope *ast.Scope, ti *ast.TypeInstantiation) (*types.TypeInfo, bool) {
	name := a.atoms.String(ti.Name)
	if len(name) > 0 && name[0] == '$' {
		if ti.ResolvedType != nil && types.IsConcrete(ti.ResolvedType) {
			// Bound to a concrete type by the copier during monomorphization.
			return ti.ResolvedType, true
		}
		result := types.NewPolyPlaceholder(ti.Name)
		ti.ResolvedType = result
		return result, true
	}
	if builtin, ok := a.builtins[name]; ok {
		ti.ResolvedType = builtin
		return builtin, true
	}

	decl, ok := a.lookupName(scope, ti.Name)
	if !ok {
		a.diags.Report(diag.Name, ti.Span(), "undefined type %q", name)
		return nil, false
	}

	switch n := decl.(type) {
	case *ast.Struct:
		if a.ensureResolved(root, n) != ast.StateResolved {
			return nil, false
		}
		ti.ResolvedType = n.Type
		return n.Type, true
	case *ast.Enum:
		if a.ensureResolved(root, n) != ast.StateResolved {
			return nil, false
		}
		ti.ResolvedType = n.Type
		return n.Type, true
	case *ast.TypeAlias:
		if a.ensureResolved(root, n) != ast.StateResolved {
			return nil, false
		}
		resolved, ok := n.TypeExpr.(*ast.TypeInstantiation)
		if !ok || resolved.ResolvedType == nil {
			return nil, false
		}
		result := types.NewAlias(n.Name, resolved.ResolvedType)
		ti.ResolvedType = result
		return result, true
	default:
		a.diags.Report(diag.Type, ti.Span(), "%q does not name a type", name)
		return nil, false
	}
}

func (a *Analyzer) analyzeTypeAliasDecl(root *ast.Scope, n *ast.TypeAlias) {
	if _, ok := a.resolveTypeExpr(root, root, n.TypeExpr); !ok {
		a.setState(n, ast.StateErrored)
		return
	}
	a.setState(n, ast.StateResolved)
}
