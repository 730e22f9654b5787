package semantic

import (
	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/diag"
	"github.com/cwbudde/go-jiyu/internal/types"
)

// analyzeExpression type-checks a single expression node, installing
// its resolved TypeInfo via SetType and, where SPEC_FULL.md §3.5 calls
// for it, a substitution to a simpler equivalent node.
func (a *Analyzer) analyzeExpression(root, scope *ast.Scope, expr ast.Expression) (*types.TypeInfo, bool) {
	switch n := expr.(type) {
	case *ast.Literal:
		return a.analyzeLiteral(n)
	case *ast.Identifier:
		return a.analyzeIdentifier(root, scope, n)
	case *ast.Unary:
		return a.analyzeUnary(root, scope, n)
	case *ast.Binary:
		return a.analyzeBinary(root, scope, n)
	case *ast.Assign:
		return a.analyzeAssign(root, scope, n)
	case *ast.Dereference:
		return a.analyzeDereference(root, scope, n)
	case *ast.ArrayDereference:
		return a.analyzeArrayDereference(root, scope, n)
	case *ast.Cast:
		return a.analyzeCast(root, scope, n)
	case *ast.FunctionCall:
		return a.analyzeCall(root, scope, n)
	case *ast.TupleExpression:
		return a.analyzeTuple(root, scope, n)
	case *ast.TypeInstantiation:
		if _, ok := a.resolveTypeExpr(root, scope, n); !ok {
			return nil, false
		}
		result := a.types.NewTypeOfType()
		n.SetType(result)
		return result, true
	default:
		a.diags.Report(diag.Internal, expr.Span(), "unhandled expression kind %T", expr)
		return nil, false
	}
}

func (a *Analyzer) analyzeLiteral(n *ast.Literal) (*types.TypeInfo, bool) {
	var t *types.TypeInfo
	switch n.Kind {
	case ast.LitInt:
		t = a.types.DefaultInt()
	case ast.LitFloat:
		t = a.types.DefaultFloat()
	case ast.LitBool:
		t = a.types.Bool
		n.Untyped = false
	case ast.LitString:
		t = a.types.Str
		n.Untyped = false
	case ast.LitNull:
		t = a.types.PointerTo(a.types.Void)
	}
	n.SetType(t)
	return t, true
}

// analyzeIdentifier resolves a name reference against the lexical
// scope chain first (locals, parameters, globals reachable through
// Scope.Declare), then falls back to the linear Function/Struct/Enum/
// TypeAlias scan for names the parser could not register in
// Scope.declarations (SPEC_FULL.md §4.5.1).
func (a *Analyzer) analyzeIdentifier(root, scope *ast.Scope, n *ast.Identifier) (*types.TypeInfo, bool) {
	if d, ok := scope.Lookup(n.Name); ok {
		if d.Type == nil {
			if a.ensureResolved(root, d) != ast.StateResolved {
				return nil, false
			}
		}
		n.Decl = d
		if sub := d.GetSubstitution(); sub != nil {
			if lit, ok := sub.(*ast.Literal); ok {
				n.SetSubstitution(lit)
			}
		}
		n.SetType(d.Type)
		return d.Type, true
	}

	if decl, ok := a.lookupName(scope, n.Name); ok {
		if fn, ok := decl.(*ast.Function); ok {
			if a.ensureResolved(root, fn) != ast.StateResolved {
				return nil, false
			}
			n.SetType(fn.Type)
			return fn.Type, true
		}
	}

	a.diags.Report(diag.Name, n.Span(), "undefined identifier %q", a.atoms.String(n.Name))
	return nil, false
}

func (a *Analyzer) analyzeUnary(root, scope *ast.Scope, n *ast.Unary) (*types.TypeInfo, bool) {
	operandType, ok := a.analyzeExpression(root, scope, n.Operand)
	if !ok {
		return nil, false
	}
	ut := types.GetUnderlyingFinalType(operandType)

	switch n.Op {
	case ast.UnaryNeg:
		if ut.Kind != types.Integer && ut.Kind != types.Float {
			a.diags.Report(diag.Type, n.Span(), "unary - requires a numeric operand")
			return nil, false
		}
		n.SetType(ut)
		return ut, true

	case ast.UnaryNot:
		if ut.Kind != types.Bool {
			a.diags.Report(diag.Type, n.Span(), "unary ! requires a bool operand")
			return nil, false
		}
		n.SetType(a.types.Bool)
		return a.types.Bool, true

	case ast.UnaryBitNot:
		if ut.Kind != types.Integer {
			a.diags.Report(diag.Type, n.Span(), "unary ~ requires an integer operand")
			return nil, false
		}
		n.SetType(ut)
		return ut, true

	case ast.UnaryDeref:
		if ut.Kind != types.Pointer {
			a.diags.Report(diag.Type, n.Span(), "cannot dereference a non-pointer")
			return nil, false
		}
		n.SetType(ut.Of)
		return ut.Of, true

	case ast.UnaryAddr:
		if !a.isAddressable(n.Operand) {
			a.diags.Report(diag.Type, n.Span(), "cannot take the address of this expression")
			return nil, false
		}
		result := a.types.PointerTo(operandType)
		n.SetType(result)
		return result, true

	default:
		a.diags.Report(diag.Internal, n.Span(), "unhandled unary operator")
		return nil, false
	}
}

// isAddressable implements the "&x on a let" design note (SPEC_FULL.md
// §9): taking the address of an identifier is forbidden once it has
// been substituted (folded to a literal constant with no storage
// location), but allowed for a readonly global that kept storage
// because its initializer could not be folded.
func (a *Analyzer) isAddressable(expr ast.Expression) bool {
	switch n := expr.(type) {
	case *ast.Identifier:
		if n.Decl == nil {
			return false
		}
		if n.Decl.GetSubstitution() != nil {
			return n.Decl.IsReadonlyVariable
		}
		return true
	case *ast.Dereference:
		return true
	case *ast.ArrayDereference:
		return true
	default:
		return false
	}
}

func (a *Analyzer) analyzeBinary(root, scope *ast.Scope, n *ast.Binary) (*types.TypeInfo, bool) {
	lt, lok := a.analyzeExpression(root, scope, n.Left)
	rt, rok := a.analyzeExpression(root, scope, n.Right)
	if !lok || !rok {
		return nil, false
	}

	switch n.Op {
	case ast.BinLOr, ast.BinLXor, ast.BinLAnd:
		if types.GetUnderlyingFinalType(lt).Kind != types.Bool || types.GetUnderlyingFinalType(rt).Kind != types.Bool {
			a.diags.Report(diag.Type, n.Span(), "logical operators require bool operands")
			return nil, false
		}
		n.SetType(a.types.Bool)
		return a.types.Bool, true

	case ast.BinEq, ast.BinNeq, ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		if _, ok := a.unifyOperands(n.Left, n.Right, lt, rt, types.Integer, types.Float, types.Pointer, types.Bool); !ok {
			a.diags.Report(diag.Type, n.Span(), "cannot compare %v and %v", lt, rt)
			return nil, false
		}
		n.SetType(a.types.Bool)
		return a.types.Bool, true

	case ast.BinAdd, ast.BinSub:
		lu, ru := types.GetUnderlyingFinalType(lt), types.GetUnderlyingFinalType(rt)
		if lu.Kind == types.Pointer && ru.Kind == types.Integer {
			n.SetType(lu)
			return lu, true
		}
		if n.Op == ast.BinAdd && lu.Kind == types.Integer && ru.Kind == types.Pointer {
			n.SetType(ru)
			return ru, true
		}
		result, ok := a.unifyOperands(n.Left, n.Right, lt, rt, types.Integer, types.Float)
		if !ok {
			a.diags.Report(diag.Type, n.Span(), "mismatched operand types %v and %v", lt, rt)
			return nil, false
		}
		n.SetType(result)
		return result, true

	case ast.BinMul, ast.BinQuo:
		result, ok := a.unifyOperands(n.Left, n.Right, lt, rt, types.Integer, types.Float)
		if !ok {
			a.diags.Report(diag.Type, n.Span(), "mismatched operand types %v and %v", lt, rt)
			return nil, false
		}
		n.SetType(result)
		return result, true

	case ast.BinRem, ast.BinBitOr, ast.BinBitXor, ast.BinBitAnd, ast.BinShl, ast.BinShr:
		result, ok := a.unifyOperands(n.Left, n.Right, lt, rt, types.Integer)
		if !ok {
			a.diags.Report(diag.Type, n.Span(), "%v requires matching integer operands", n.Op)
			return nil, false
		}
		n.SetType(result)
		return result, true

	default:
		a.diags.Report(diag.Internal, n.Span(), "unhandled binary operator")
		return nil, false
	}
}

// unifyOperands coerces whichever operand is an untyped literal to
// the other's concrete type, then requires the unified type's Kind to
// be one of allowed (SPEC_FULL.md §4.5.4, §4.5.5).
func (a *Analyzer) unifyOperands(left, right ast.Expression, lt, rt *types.TypeInfo, allowed ...types.Kind) (*types.TypeInfo, bool) {
	var result *types.TypeInfo
	switch {
	case lt == rt:
		result = lt
	case a.coerceTo(left, lt, rt):
		result = rt
	case a.coerceTo(right, rt, lt):
		result = lt
	default:
		return nil, false
	}
	u := types.GetUnderlyingFinalType(result)
	for _, k := range allowed {
		if u.Kind == k {
			return result, true
		}
	}
	return nil, false
}

// coerceTo reports whether a value of type from may stand in for a
// context expecting to, implicitly coercing expr in place when it is
// an untyped literal (SPEC_FULL.md §4.5.4).
func (a *Analyzer) coerceTo(expr ast.Expression, from, to *types.TypeInfo) bool {
	fu := types.GetUnderlyingFinalType(from)
	tu := types.GetUnderlyingFinalType(to)
	if fu == tu {
		return true
	}

	lit, ok := ast.FinalExpr(expr).(*ast.Literal)
	if !ok || (!lit.Untyped && lit.Kind != ast.LitNull) {
		return false
	}

	switch lit.Kind {
	case ast.LitInt:
		if tu.Kind == types.Integer || tu.Kind == types.Float {
			lit.Untyped = false
			lit.SetType(to)
			return true
		}
	case ast.LitFloat:
		if tu.Kind == types.Float {
			lit.Untyped = false
			lit.SetType(to)
			return true
		}
	case ast.LitNull:
		if tu.Kind == types.Pointer {
			lit.SetType(to)
			return true
		}
	}
	return false
}

func (a *Analyzer) analyzeAssign(root, scope *ast.Scope, n *ast.Assign) (*types.TypeInfo, bool) {
	lt, lok := a.analyzeExpression(root, scope, n.LHS)
	if !lok {
		return nil, false
	}
	if !a.isAssignable(n.LHS) {
		a.diags.Report(diag.Type, n.LHS.Span(), "left-hand side of an assignment must be a variable, member, or index expression")
		return nil, false
	}
	rt, rok := a.analyzeExpression(root, scope, n.RHS)
	if !rok {
		return nil, false
	}
	if n.Compound {
		if _, ok := a.unifyOperands(n.LHS, n.RHS, lt, rt, types.Integer, types.Float); !ok {
			a.diags.Report(diag.Type, n.Span(), "incompatible operand types for compound assignment")
			return nil, false
		}
	} else if !a.coerceTo(n.RHS, rt, lt) {
		a.diags.Report(diag.Type, n.Span(), "cannot assign %v to %v", rt, lt)
		return nil, false
	}
	n.SetType(lt)
	return lt, true
}

func (a *Analyzer) isAssignable(expr ast.Expression) bool {
	switch n := expr.(type) {
	case *ast.Identifier:
		return n.Decl != nil && n.Decl.Kind != ast.DeclLet
	case *ast.Dereference, *ast.ArrayDereference:
		return true
	default:
		return false
	}
}

func (a *Analyzer) analyzeDereference(root, scope *ast.Scope, n *ast.Dereference) (*types.TypeInfo, bool) {
	tt, ok := a.analyzeExpression(root, scope, n.Target)
	if !ok {
		return nil, false
	}
	u := types.GetUnderlyingFinalType(tt)
	if u.Kind == types.Pointer {
		u = types.GetUnderlyingFinalType(u.Of)
	}
	if u.Kind != types.Struct {
		a.diags.Report(diag.Type, n.Span(), "member access requires a struct (or pointer to struct) operand")
		return nil, false
	}

	fieldName := a.atoms.String(n.Field)
	depth := 0
	for s := u; s != nil; s = s.Parent {
		for i, m := range s.Members {
			if a.atoms.String(m.Name) == fieldName {
				n.ElementPathIndex = i + depth
				n.SetType(m.Type)
				return m.Type, true
			}
		}
		depth += len(s.Members)
	}
	a.diags.Report(diag.Type, n.Span(), "no field %q on this struct", fieldName)
	return nil, false
}

func (a *Analyzer) analyzeArrayDereference(root, scope *ast.Scope, n *ast.ArrayDereference) (*types.TypeInfo, bool) {
	tt, ok := a.analyzeExpression(root, scope, n.Target)
	if !ok {
		return nil, false
	}
	it, ok := a.analyzeExpression(root, scope, n.Index)
	if !ok {
		return nil, false
	}
	iu := types.GetUnderlyingFinalType(it)
	if iu.Kind != types.Integer {
		if !a.coerceTo(n.Index, it, a.types.DefaultInt()) {
			a.diags.Report(diag.Type, n.Index.Span(), "array index must be an integer")
			return nil, false
		}
	}

	u := types.GetUnderlyingFinalType(tt)
	switch u.Kind {
	case types.Array:
		switch {
		case u.Dynamic:
			n.Kind = ast.IndexDynamicArray
		case u.Count == -1:
			n.Kind = ast.IndexSlice
		default:
			n.Kind = ast.IndexStaticArray
			// A constant index into a fixed-size array is range-checked
			// here; a runtime-computed index is left to the backend
			// (SPEC_FULL.md §8 scenario 6).
			if value, constOk := a.evalConstIntQuiet(root, scope, n.Index); constOk {
				if int64(value) < 0 || value >= uint64(u.Count) {
					a.diags.Report(diag.Type, n.Index.Span(), "array index %d out of bounds for array of size %d", int64(value), u.Count)
					return nil, false
				}
			}
		}
		n.SetType(u.Element)
		return u.Element, true
	case types.String:
		n.Kind = ast.IndexString
		n.SetType(a.types.Int(8, false))
		return a.types.Int(8, false), true
	case types.Pointer:
		n.Kind = ast.IndexPointer
		n.SetType(u.Of)
		return u.Of, true
	default:
		a.diags.Report(diag.Type, n.Span(), "cannot index a value of type %v", u)
		return nil, false
	}
}

func (a *Analyzer) analyzeCast(root, scope *ast.Scope, n *ast.Cast) (*types.TypeInfo, bool) {
	target, ok := a.resolveTypeExpr(root, scope, n.TargetType)
	if !ok {
		return nil, false
	}
	if _, ok := a.analyzeExpression(root, scope, n.Operand); !ok {
		return nil, false
	}
	n.SetType(target)
	return target, true
}

func (a *Analyzer) analyzeTuple(root, scope *ast.Scope, n *ast.TupleExpression) (*types.TypeInfo, bool) {
	var params []*types.TypeInfo
	for _, el := range n.Elements {
		et, ok := a.analyzeExpression(root, scope, el)
		if !ok {
			return nil, false
		}
		params = append(params, et)
	}
	result := a.types.FunctionType(params, a.types.Void, false, false)
	n.SetType(result)
	return result, true
}
