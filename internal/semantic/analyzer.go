// Package semantic implements the multi-pass analyzer described in
// SPEC_FULL.md §4.5: name resolution, type inference, implicit
// coercion, polymorphic function instantiation, struct layout, and
// call resolution over the untyped AST the parser produces.
package semantic

import (
	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/atom"
	"github.com/cwbudde/go-jiyu/internal/copier"
	"github.com/cwbudde/go-jiyu/internal/diag"
	"github.com/cwbudde/go-jiyu/internal/types"
)

// Analyzer walks one compiler instance's root scope to a fixed point,
// per SPEC_FULL.md §4.5's state machine and §6.2's "typecheck program"
// driver operation.
type Analyzer struct {
	atoms *atom.Table
	types *types.Table
	diags *diag.Sink
	cp    *copier.Copier

	builtins map[string]*types.TypeInfo

	// declState tracks the parsed/typechecking/deferred/resolved/errored
	// state for declarable statements that are not *ast.Declaration
	// (which already carries its own State field).
	declState map[ast.Statement]ast.DeclState

	// loopStack holds the enclosing While/For statements, innermost
	// last, for `continue` resolution.
	loopStack []ast.Statement
	// breakStack holds the enclosing While/For/Switch statements,
	// innermost last, for `break` resolution (SPEC_FULL.md §4.5.9).
	breakStack []ast.Statement

	currentFunction *ast.Function

	// monomorphs memoizes PolymorphFunctionWithArguments results by
	// (template, ordered concrete bindings), per SPEC_FULL.md §9
	// ("Monomorphs are memoized ... so repeated calls share one
	// instance").
	monomorphs map[monoKey]*ast.Function
}

type monoKey struct {
	template *ast.Function
	key      string
}

// New creates an Analyzer sharing the compiler instance's atom table,
// type table, and diagnostic sink.
func New(atoms *atom.Table, tbl *types.Table, diags *diag.Sink) *Analyzer {
	a := &Analyzer{
		atoms:      atoms,
		types:      tbl,
		diags:      diags,
		cp:         copier.New(atoms),
		declState:  make(map[ast.Statement]ast.DeclState),
		monomorphs: make(map[monoKey]*ast.Function),
	}
	a.builtins = map[string]*types.TypeInfo{
		"void":    tbl.Void,
		"bool":    tbl.Bool,
		"string":  tbl.Str,
		"int":     tbl.DefaultInt(),
		"float":   tbl.DefaultFloat(),
		"int8":    tbl.Int(8, true),
		"int16":   tbl.Int(16, true),
		"int32":   tbl.Int(32, true),
		"int64":   tbl.Int(64, true),
		"uint8":   tbl.Int(8, false),
		"uint16":  tbl.Int(16, false),
		"uint32":  tbl.Int(32, false),
		"uint64":  tbl.Int(64, false),
		"float32": tbl.Float(32),
		"float64": tbl.Float(64),
	}
	return a
}

// stateOf returns the current DeclState of a declarable statement,
// per SPEC_FULL.md §4.5 ("State machine per declaration").
func (a *Analyzer) stateOf(s ast.Statement) ast.DeclState {
	if d, ok := s.(*ast.Declaration); ok {
		return d.State
	}
	if st, ok := a.declState[s]; ok {
		return st
	}
	return ast.StateParsed
}

func (a *Analyzer) setState(s ast.Statement, st ast.DeclState) {
	if d, ok := s.(*ast.Declaration); ok {
		d.State = st
		return
	}
	a.declState[s] = st
}

// isDeclarable reports whether s introduces a name resolved by the
// work-list (the five shapes SPEC_FULL.md §3.5 lists, minus
// arguments/struct-members/enum-members, which resolve as part of
// their owning Function/Struct/Enum).
func isDeclarable(s ast.Statement) bool {
	switch n := s.(type) {
	case *ast.Declaration:
		return n.Kind == ast.DeclVar || n.Kind == ast.DeclLet
	case *ast.Function, *ast.Struct, *ast.Enum, *ast.TypeAlias:
		return true
	default:
		return false
	}
}

// AnalyzeProgram type-checks every top-level declaration in root to a
// fixed point, per SPEC_FULL.md §4.5.2 ("multiple passes over a
// work-list until each declaration reaches a terminal state ... or a
// pass completes with no progress"). It returns true if the program is
// free of diagnostics.
func (a *Analyzer) AnalyzeProgram(root *ast.Scope) bool {
	var decls []ast.Statement
	for _, s := range root.Statements {
		if isDeclarable(s) {
			decls = append(decls, s)
		}
	}

	for {
		progress := false
		pending := 0
		for _, d := range decls {
			switch a.stateOf(d) {
			case ast.StateResolved, ast.StateErrored:
				continue
			}
			pending++
			before := a.stateOf(d)
			a.resolveTopLevel(root, d)
			after := a.stateOf(d)
			if after != before {
				progress = true
			}
		}
		if pending == 0 {
			break
		}
		if !progress {
			for _, d := range decls {
				switch a.stateOf(d) {
				case ast.StateResolved, ast.StateErrored:
					continue
				}
				a.diags.Report(diag.Cycle, d.Span(), "mutually recursive declaration with no progress")
				a.setState(d, ast.StateErrored)
			}
			break
		}
	}

	return !a.diags.HasErrors()
}

func (a *Analyzer) resolveTopLevel(root *ast.Scope, s ast.Statement) {
	a.ensureResolved(root, s)
}

// ensureResolved resolves stmt if it has not been visited yet,
// recursing eagerly into an unresolved dependency (a forward
// reference to a struct/enum/typealias/let declared later in the same
// scope) rather than always waiting for the next work-list pass. The
// Typechecking marker still catches a genuine cycle: re-entering a
// declaration already being typechecked reports CycleError instead of
// recursing forever (SPEC_FULL.md §4.5, "State machine per
// declaration").
func (a *Analyzer) ensureResolved(root *ast.Scope, stmt ast.Statement) ast.DeclState {
	switch a.stateOf(stmt) {
	case ast.StateResolved, ast.StateErrored:
		return a.stateOf(stmt)
	case ast.StateTypechecking:
		a.diags.Report(diag.Cycle, stmt.Span(), "circular dependency involving %s", a.describeDecl(stmt))
		a.setState(stmt, ast.StateErrored)
		return ast.StateErrored
	}
	a.setState(stmt, ast.StateTypechecking)
	switch n := stmt.(type) {
	case *ast.Declaration:
		a.analyzeGlobalVarLet(root, n)
	case *ast.Function:
		a.analyzeFunctionSignature(root, n)
	case *ast.Struct:
		a.analyzeStructDecl(root, n)
	case *ast.Enum:
		a.analyzeEnumDecl(root, n)
	case *ast.TypeAlias:
		a.analyzeTypeAliasDecl(root, n)
	}
	return a.stateOf(stmt)
}

// describeDecl names stmt for a diagnostic message.
func (a *Analyzer) describeDecl(stmt ast.Statement) string {
	switch n := stmt.(type) {
	case *ast.Declaration:
		return a.atoms.String(n.Name)
	case *ast.Function:
		return a.atoms.String(n.Name)
	case *ast.Struct:
		return a.atoms.String(n.Name)
	case *ast.Enum:
		return a.atoms.String(n.Name)
	case *ast.TypeAlias:
		return a.atoms.String(n.Name)
	default:
		return stmt.String()
	}
}

// lookupName resolves an identifier against scope and its ancestors.
// Declarations (var/let/argument/member) are found through the
// parser-maintained Scope.declarations map; Function/Struct/Enum/
// TypeAlias are found by a linear scan of each scope's Statements,
// since only *ast.Declaration is eligible for Scope.Declare
// (SPEC_FULL.md §3.5).
func (a *Analyzer) lookupName(scope *ast.Scope, name atom.Atom) (ast.Statement, bool) {
	for s := scope; s != nil; s = s.Parent {
		if d, ok := s.LookupLocal(name); ok {
			return d, true
		}
		for _, st := range s.Statements {
			switch n := st.(type) {
			case *ast.Function:
				if n.Name == name {
					return n, true
				}
			case *ast.Struct:
				if n.Name == name {
					return n, true
				}
			case *ast.Enum:
				if n.Name == name {
					return n, true
				}
			case *ast.TypeAlias:
				if n.Name == name {
					return n, true
				}
			}
		}
	}
	return nil, false
}
