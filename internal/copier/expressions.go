package copier

import "github.com/cwbudde/go-jiyu/internal/ast"

// CopyExpression deep-clones a single expression node. Types already
// resolved on the original (GetType) are NOT copied forward, except on
// a Literal, which is copied by value together with its type and
// Untyped flag: every other clone re-enters the semantic analyzer's
// `parsed` state so a polymorphic instantiation re-typechecks against
// its bound types.
func (c *Copier) CopyExpression(e ast.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.Identifier:
		clone := &ast.Identifier{Name: n.Name, Decl: c.rebindIdentifier(n.Decl)}
		clone.SetSpan(n.Span())
		return clone

	case *ast.Literal:
		clone := *n
		clone.SetSpan(n.Span())
		return &clone

	case *ast.Unary:
		clone := &ast.Unary{Op: n.Op, Operand: c.CopyExpression(n.Operand)}
		clone.SetSpan(n.Span())
		return clone

	case *ast.Binary:
		clone := &ast.Binary{Op: n.Op, Left: c.CopyExpression(n.Left), Right: c.CopyExpression(n.Right)}
		clone.SetSpan(n.Span())
		return clone

	case *ast.Assign:
		clone := &ast.Assign{
			LHS: c.CopyExpression(n.LHS), RHS: c.CopyExpression(n.RHS),
			Compound: n.Compound, CompoundOp: n.CompoundOp,
		}
		clone.SetSpan(n.Span())
		return clone

	case *ast.Dereference:
		clone := &ast.Dereference{
			Target: c.CopyExpression(n.Target), Field: n.Field, ElementPathIndex: -1,
		}
		clone.SetSpan(n.Span())
		return clone

	case *ast.ArrayDereference:
		clone := &ast.ArrayDereference{
			Target: c.CopyExpression(n.Target), Index: c.CopyExpression(n.Index), Kind: n.Kind,
		}
		clone.SetSpan(n.Span())
		return clone

	case *ast.Cast:
		clone := &ast.Cast{
			TargetType: c.CopyExpression(n.TargetType), Operand: c.CopyExpression(n.Operand),
		}
		clone.SetSpan(n.Span())
		return clone

	case *ast.FunctionCall:
		clone := &ast.FunctionCall{Callee: c.CopyExpression(n.Callee), Target: n.Target}
		for _, a := range n.Args {
			clone.Args = append(clone.Args, c.CopyExpression(a))
		}
		clone.SetSpan(n.Span())
		return clone

	case *ast.TupleExpression:
		clone := &ast.TupleExpression{}
		for _, el := range n.Elements {
			clone.Elements = append(clone.Elements, c.CopyExpression(el))
		}
		clone.SetSpan(n.Span())
		return clone

	case *ast.TypeInstantiation:
		if c.bindings != nil && n.PointerOf == nil && n.ArrayOf == nil && !n.IsFunctionType {
			if bound, ok := c.bindings[n.Name]; ok {
				clone := &ast.TypeInstantiation{Name: n.Name, ResolvedType: bound}
				clone.SetSpan(n.Span())
				return clone
			}
		}
		clone := &ast.TypeInstantiation{
			Name:           n.Name,
			PointerOf:      c.CopyExpression(n.PointerOf),
			ArrayOf:        c.CopyExpression(n.ArrayOf),
			ArrayCount:     n.ArrayCount,
			ArrayDyn:       n.ArrayDyn,
			IsFunctionType: n.IsFunctionType,
			FunctionReturn: c.CopyExpression(n.FunctionReturn),
			FunctionIsC:    n.FunctionIsC,
		}
		for _, p := range n.FunctionParams {
			clone.FunctionParams = append(clone.FunctionParams, c.CopyExpression(p))
		}
		clone.SetSpan(n.Span())
		return clone

	default:
		return e
	}
}
