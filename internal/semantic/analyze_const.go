package semantic

import (
	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/diag"
)

// evalConstInt folds expr to a compile-time integer constant, for
// enum member initializers, switch case values, `#if constexpr`
// conditions, integer `let` initializers, and the bounds check of a
// constant index into a static array (SPEC_FULL.md §4.5.3).
func (a *Analyzer) evalConstInt(root, scope *ast.Scope, expr ast.Expression) (uint64, bool) {
	switch n := expr.(type) {
	case *ast.Literal:
		switch n.Kind {
		case ast.LitInt:
			return n.Int, true
		case ast.LitBool:
			if n.Bool {
				return 1, true
			}
			return 0, true
		default:
			a.diags.Report(diag.Type, n.Span(), "expected a constant integer expression")
			return 0, false
		}

	case *ast.Unary:
		v, ok := a.evalConstInt(root, scope, n.Operand)
		if !ok {
			return 0, false
		}
		switch n.Op {
		case ast.UnaryNeg:
			return uint64(-int64(v)), true
		case ast.UnaryBitNot:
			return ^v, true
		case ast.UnaryNot:
			if v == 0 {
				return 1, true
			}
			return 0, true
		default:
			a.diags.Report(diag.Type, n.Span(), "operator not valid in a constant expression")
			return 0, false
		}

	case *ast.Binary:
		l, lok := a.evalConstInt(root, scope, n.Left)
		r, rok := a.evalConstInt(root, scope, n.Right)
		if !lok || !rok {
			return 0, false
		}
		switch n.Op {
		case ast.BinAdd:
			return l + r, true
		case ast.BinSub:
			return l - r, true
		case ast.BinMul:
			return l * r, true
		case ast.BinQuo:
			if r == 0 {
				a.diags.Report(diag.Type, n.Span(), "division by zero in constant expression")
				return 0, false
			}
			return l / r, true
		case ast.BinRem:
			if r == 0 {
				a.diags.Report(diag.Type, n.Span(), "division by zero in constant expression")
				return 0, false
			}
			return l % r, true
		case ast.BinShl:
			return l << r, true
		case ast.BinShr:
			return l >> r, true
		case ast.BinBitOr:
			return l | r, true
		case ast.BinBitAnd:
			return l & r, true
		case ast.BinBitXor:
			return l ^ r, true
		case ast.BinEq:
			return boolToUint64(l == r), true
		case ast.BinNeq:
			return boolToUint64(l != r), true
		case ast.BinLt:
			return boolToUint64(l < r), true
		case ast.BinLe:
			return boolToUint64(l <= r), true
		case ast.BinGt:
			return boolToUint64(l > r), true
		case ast.BinGe:
			return boolToUint64(l >= r), true
		case ast.BinLAnd:
			return boolToUint64(l != 0 && r != 0), true
		case ast.BinLOr:
			return boolToUint64(l != 0 || r != 0), true
		case ast.BinLXor:
			return boolToUint64((l != 0) != (r != 0)), true
		default:
			a.diags.Report(diag.Type, n.Span(), "operator not valid in a constant expression")
			return 0, false
		}

	case *ast.Identifier:
		if _, ok := a.analyzeExpression(root, scope, n); !ok {
			return 0, false
		}
		if lit, ok := ast.FinalExpr(n).(*ast.Literal); ok {
			return a.evalConstInt(root, scope, lit)
		}
		a.diags.Report(diag.Type, n.Span(), "expected a constant integer expression")
		return 0, false

	default:
		a.diags.Report(diag.Type, expr.Span(), "expected a constant integer expression")
		return 0, false
	}
}

// evalConstIntQuiet behaves like evalConstInt but discards any
// diagnostics the attempt produces, for call sites where failing to
// fold to a constant is not itself an error — e.g. a statically-sized
// array index that happens to be computed at runtime is perfectly
// legal and only gets range-checked when it does fold.
func (a *Analyzer) evalConstIntQuiet(root, scope *ast.Scope, expr ast.Expression) (uint64, bool) {
	saved := a.diags
	a.diags = diag.NewSink()
	value, ok := a.evalConstInt(root, scope, expr)
	a.diags = saved
	return value, ok
}

func boolToUint64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
