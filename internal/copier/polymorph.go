package copier

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/atom"
	"github.com/cwbudde/go-jiyu/internal/types"
)

// Bindings maps a `$T`-style placeholder name to the concrete type it
// was matched against.
type Bindings map[atom.Atom]*types.TypeInfo

// isPlaceholderName reports whether name, once resolved through the
// shared atom table, has the `$T` placeholder spelling.
func (c *Copier) isPlaceholderName(name atom.Atom) bool {
	s := c.atoms.String(name)
	return strings.HasPrefix(s, "$")
}

// TryToFillPolymorphicTypeAliases walks a parsed type expression and a
// resolved TypeInfo in lockstep, binding any `$T` placeholder it finds
// to the corresponding concrete type, per SPEC_FULL.md §4.4. It
// returns whether any placeholder was bound, and an error if a
// placeholder would have to bind to two non-equal types.
func (c *Copier) TryToFillPolymorphicTypeAliases(argTypeExpr ast.Expression, target *types.TypeInfo, bindings Bindings) (bool, error) {
	ti, ok := argTypeExpr.(*ast.TypeInstantiation)
	if !ok || ti == nil || target == nil {
		return false, nil
	}

	switch {
	case ti.PointerOf != nil:
		pt := types.GetUnderlyingFinalType(target)
		if pt.Kind != types.Pointer {
			return false, fmt.Errorf("copier: expected a pointer type, got %v", pt.Kind)
		}
		return c.TryToFillPolymorphicTypeAliases(ti.PointerOf, pt.Of, bindings)

	case ti.ArrayOf != nil:
		at := types.GetUnderlyingFinalType(target)
		if at.Kind != types.Array {
			return false, fmt.Errorf("copier: expected an array type, got %v", at.Kind)
		}
		return c.TryToFillPolymorphicTypeAliases(ti.ArrayOf, at.Element, bindings)

	case ti.IsFunctionType:
		ft := types.GetUnderlyingFinalType(target)
		if ft.Kind != types.Function {
			return false, fmt.Errorf("copier: expected a function type, got %v", ft.Kind)
		}
		bound := false
		if len(ti.FunctionParams) == len(ft.Params) {
			for i, p := range ti.FunctionParams {
				b, err := c.TryToFillPolymorphicTypeAliases(p, ft.Params[i], bindings)
				if err != nil {
					return bound, err
				}
				bound = bound || b
			}
		}
		if ti.FunctionReturn != nil {
			b, err := c.TryToFillPolymorphicTypeAliases(ti.FunctionReturn, ft.Return, bindings)
			if err != nil {
				return bound, err
			}
			bound = bound || b
		}
		return bound, nil

	default:
		if !c.isPlaceholderName(ti.Name) {
			return false, nil // a concrete named type: nothing to bind
		}
		if existing, ok := bindings[ti.Name]; ok {
			if !sameType(existing, target) {
				return false, fmt.Errorf("copier: %v bound to incompatible types", ti.Name)
			}
			return false, nil
		}
		bindings[ti.Name] = target
		return true, nil
	}
}

func sameType(a, b *types.TypeInfo) bool {
	return types.GetUnderlyingFinalType(a) == types.GetUnderlyingFinalType(b)
}

// PolymorphFunctionWithArguments monomorphizes fn against the
// concrete argument types argTypes, matching each parameter's type
// expression via TryToFillPolymorphicTypeAliases, then deep-copying
// fn's signature and body with `$T` type expressions replaced by
// TypeInstantiation nodes naming the bound concrete type. The
// returned Function has Template set to fn (SPEC_FULL.md §4.4).
func (c *Copier) PolymorphFunctionWithArguments(fn *ast.Function, argTypes []*types.TypeInfo) (*ast.Function, error) {
	if !fn.IsPolymorphic() {
		return fn, nil
	}
	if len(argTypes) != len(fn.Params) {
		return nil, fmt.Errorf("copier: arity mismatch monomorphizing %v", fn.Name)
	}

	bindings := make(Bindings)
	for i, param := range fn.Params {
		if _, err := c.TryToFillPolymorphicTypeAliases(param.TypeExpr, argTypes[i], bindings); err != nil {
			return nil, err
		}
	}
	for _, poly := range fn.PolyParams {
		if _, ok := bindings[poly]; !ok {
			return nil, fmt.Errorf("copier: %v could not be inferred from arguments", poly)
		}
	}

	c.bindings = bindings
	if fn.Body != nil {
		c.scopeStack = append(c.scopeStack, fn.Body.Parent)
		defer func() { c.scopeStack = c.scopeStack[:len(c.scopeStack)-1] }()
	}
	clone := c.copyFunction(fn)
	clone.PolyParams = nil
	c.bindings = nil
	return clone, nil
}
