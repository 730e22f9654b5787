package semantic

import (
	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/diag"
	"github.com/cwbudde/go-jiyu/internal/types"
)

// analyzeStructDecl resolves a struct/union declaration, flattening
// its parent's members ancestor-first and computing layout through the
// type table (SPEC_FULL.md §3.4, §4.3).
func (a *Analyzer) analyzeStructDecl(root *ast.Scope, n *ast.Struct) {
	var parentType *types.TypeInfo
	if n.Parent != nil {
		pt, ok := a.resolveTypeExpr(root, root, n.Parent)
		if !ok {
			a.setState(n, ast.StateErrored)
			return
		}
		parentType = types.GetUnderlyingFinalType(pt)
		if parentType.Kind != types.Struct {
			a.diags.Report(diag.Type, n.Parent.Span(), "%q does not name a struct", a.atoms.String(n.Name))
			a.setState(n, ast.StateErrored)
			return
		}
	}

	var members []types.Member
	ok := true
	if n.Members != nil {
		for _, member := range n.Members.Declarations() {
			if member.Kind != ast.DeclStructMember {
				continue
			}
			mt, mok := a.resolveTypeExpr(root, n.Members, member.TypeExpr)
			if !mok {
				ok = false
				continue
			}
			member.Type = mt
			members = append(members, types.Member{Name: member.Name, Type: mt})
		}
	}
	if !ok {
		a.setState(n, ast.StateErrored)
		return
	}

	n.Type = a.types.NewStruct(n.Name, members, n.IsUnion, parentType)
	a.writeBackMemberLayout(n)
	a.setState(n, ast.StateResolved)
}

// writeBackMemberLayout copies the type table's computed
// ByteOffset/ElementIndex for each member back onto its
// *ast.Declaration, per SPEC_FULL.md §3.5 ("Struct-member layout,
// filled by the type table").
func (a *Analyzer) writeBackMemberLayout(n *ast.Struct) {
	if n.Members == nil {
		return
	}
	byName := make(map[string]types.Member, len(n.Type.Members))
	for _, m := range n.Type.Members {
		byName[a.atoms.String(m.Name)] = m
	}
	for _, member := range n.Members.Declarations() {
		if member.Kind != ast.DeclStructMember {
			continue
		}
		if m, ok := byName[a.atoms.String(member.Name)]; ok {
			member.ByteOffset = m.ByteOffset
			member.ElementIndex = m.ElementIndex
		}
	}
}

// analyzeEnumDecl resolves an enum declaration: its underlying type
// (default int) and explicit/implicit member values.
func (a *Analyzer) analyzeEnumDecl(root *ast.Scope, n *ast.Enum) {
	base := a.types.DefaultInt()
	if n.Base != nil {
		bt, ok := a.resolveTypeExpr(root, root, n.Base)
		if !ok {
			a.setState(n, ast.StateErrored)
			return
		}
		base = types.GetUnderlyingFinalType(bt)
		if base.Kind != types.Integer {
			a.diags.Report(diag.Type, n.Base.Span(), "enum base type must be an integer type")
			a.setState(n, ast.StateErrored)
			return
		}
	}

	n.Type = a.types.NewEnum(n.Name, base)

	if n.Members != nil {
		next := uint64(0)
		seen := make(map[uint64]bool)
		for _, member := range n.Members.Declarations() {
			if member.Kind != ast.DeclEnumMember {
				continue
			}
			member.Type = n.Type
			value := next
			if member.Initializer != nil {
				if lit, ok := a.evalConstInt(root, n.Members, member.Initializer); ok {
					value = lit
				}
			}
			if seen[value] {
				a.diags.Report(diag.Type, member.Span(), "duplicate enum value %d for %q", value, a.atoms.String(member.Name))
			}
			seen[value] = true
			member.ElementIndex = int(value)
			next = value + 1
		}
	}

	a.setState(n, ast.StateResolved)
}

// analyzeGlobalVarLet resolves a top-level var/let, per SPEC_FULL.md
// §4.5.3 ("var x = expr takes the expression's type").
func (a *Analyzer) analyzeGlobalVarLet(root *ast.Scope, n *ast.Declaration) {
	a.analyzeVarLet(root, root, n)
}

func (a *Analyzer) analyzeVarLet(root, scope *ast.Scope, n *ast.Declaration) {
	var declared *types.TypeInfo
	if n.TypeExpr != nil {
		dt, ok := a.resolveTypeExpr(root, scope, n.TypeExpr)
		if !ok {
			n.State = ast.StateErrored
			return
		}
		declared = dt
	}

	var initType *types.TypeInfo
	if n.Initializer != nil {
		t, ok := a.analyzeExpression(root, scope, n.Initializer)
		if !ok {
			n.State = ast.StateErrored
			return
		}
		initType = t
	}

	switch {
	case declared != nil && initType != nil:
		if !a.coerceTo(n.Initializer, initType, declared) {
			a.diags.Report(diag.Type, n.Initializer.Span(), "cannot assign a value of type %v to %v", initType, declared)
			n.State = ast.StateErrored
			return
		}
		n.Type = declared
	case declared != nil:
		n.Type = declared
	case initType != nil:
		n.Type = initType
	default:
		a.diags.Report(diag.Type, n.Span(), "%q has neither a declared type nor an initializer", a.atoms.String(n.Name))
		n.State = ast.StateErrored
		return
	}

	if n.Kind == ast.DeclLet {
		a.foldLet(root, scope, n)
	} else {
		n.IsReadonlyVariable = false
	}

	n.State = ast.StateResolved
}

// foldLet installs a substitution pointing a `let` at its initializer
// literal when it can be folded, per SPEC_FULL.md §4.5.3 and the
// "&x on a let" design note in SPEC_FULL.md §9. An integer-typed
// initializer that evalConstInt can evaluate is replaced by the
// resulting literal first. A let whose initializer cannot be folded
// (e.g. it calls a function) keeps a backing storage location and is
// marked IsReadonlyVariable instead.
func (a *Analyzer) foldLet(root, scope *ast.Scope, n *ast.Declaration) {
	if lit, ok := ast.FinalExpr(n.Initializer).(*ast.Literal); ok {
		n.SetSubstitution(lit)
		return
	}
	if types.GetUnderlyingFinalType(n.Type).Kind == types.Integer {
		if v, ok := a.evalConstIntQuiet(root, scope, n.Initializer); ok {
			lit := &ast.Literal{Kind: ast.LitInt, Int: v, Untyped: true}
			lit.SetSpan(n.Initializer.Span())
			lit.SetType(n.Type)
			n.Initializer = lit
			n.SetSubstitution(lit)
			return
		}
	}
	n.IsReadonlyVariable = true
}
