package copier

import (
	"testing"

	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/atom"
	"github.com/cwbudde/go-jiyu/internal/lexer"
	"github.com/cwbudde/go-jiyu/internal/parser"
	"github.com/cwbudde/go-jiyu/internal/types"
)

func parseSrc(t *testing.T, src string) (*ast.Program, *atom.Table) {
	t.Helper()
	at := atom.New()
	toks := lexer.New(src, 0).Tokenize()
	root := ast.NewScope(lexer.TextSpan{}, nil)
	prog, errs := parser.ParseProgram(at, toks, root)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return prog, at
}

func findFunction(t *testing.T, prog *ast.Program, at *atom.Table, name string) *ast.Function {
	t.Helper()
	for _, stmt := range prog.Root.Statements {
		if fn, ok := stmt.(*ast.Function); ok && at.String(fn.Name) == name {
			return fn
		}
	}
	t.Fatalf("function %q not found", name)
	return nil
}

func TestCopyScopeProducesDistinctDeclarations(t *testing.T) {
	prog, at := parseSrc(t, `func add(a: int32, b: int32) -> int32 { let c = a + b; return c; }`)
	fn := findFunction(t, prog, at, "add")

	c := New(at)
	clone := c.CopyScope(fn.Body, nil)

	if clone == fn.Body {
		t.Fatalf("clone must not be the same scope object")
	}
	if len(clone.Statements) != len(fn.Body.Statements) {
		t.Fatalf("want %d statements, got %d", len(fn.Body.Statements), len(clone.Statements))
	}

	origLet := fn.Body.Statements[0].(*ast.Declaration)
	cloneLet := clone.Statements[0].(*ast.Declaration)
	if origLet == cloneLet {
		t.Fatalf("declaration was not cloned")
	}

	origRet := fn.Body.Statements[1].(*ast.Return)
	cloneRet := clone.Statements[1].(*ast.Return)
	ident, ok := cloneRet.Value.(*ast.Identifier)
	if !ok {
		t.Fatalf("want *ast.Identifier in cloned return, got %T", cloneRet.Value)
	}
	if ident.Decl != cloneLet {
		t.Fatalf("cloned identifier did not rebind to the cloned declaration")
	}
	if origRet.Value.(*ast.Identifier).Decl != origLet {
		t.Fatalf("copying must not mutate the original tree")
	}
}

func TestCopyExpressionLeavesExternalReferencesUntouched(t *testing.T) {
	prog, at := parseSrc(t, `
		func outer() -> int32 {
			let x = 1;
			return x;
		}
	`)
	fn := findFunction(t, prog, at, "outer")
	letDecl := fn.Body.Statements[0].(*ast.Declaration)
	origIdent := fn.Body.Statements[1].(*ast.Return).Value.(*ast.Identifier)

	c := New(at)
	// Copy only the identifier expression, without ever visiting
	// letDecl through CopyScope/CopyStatement: declMap has no entry
	// for it, so the clone must keep pointing at the original.
	cloned := c.CopyExpression(origIdent).(*ast.Identifier)
	if cloned.Decl != letDecl {
		t.Fatalf("identifier referencing a declaration outside the copied subtree must be left untouched")
	}
}

func TestPolymorphFunctionWithArgumentsBindsPlaceholder(t *testing.T) {
	prog, at := parseSrc(t, `func identity<$T>(x: $T) -> $T { return x; }`)
	fn := findFunction(t, prog, at, "identity")

	tbl := types.New()
	i32 := tbl.Int(32, true)

	c := New(at)
	mono, err := c.PolymorphFunctionWithArguments(fn, []*types.TypeInfo{i32})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mono.IsPolymorphic() {
		t.Fatalf("monomorphized function must not carry PolyParams forward")
	}
	if mono.Template != fn {
		t.Fatalf("monomorphized function must point Template back at the original")
	}

	paramType, ok := mono.Params[0].TypeExpr.(*ast.TypeInstantiation)
	if !ok {
		t.Fatalf("want *ast.TypeInstantiation for param type, got %T", mono.Params[0].TypeExpr)
	}
	if paramType.ResolvedType != i32 {
		t.Fatalf("want the bound concrete type substituted on the copied parameter type expression")
	}

	retType, ok := mono.ReturnType.(*ast.TypeInstantiation)
	if !ok {
		t.Fatalf("want *ast.TypeInstantiation for return type, got %T", mono.ReturnType)
	}
	if retType.ResolvedType != i32 {
		t.Fatalf("want the bound concrete type substituted on the copied return type expression")
	}

	bodyParam, ok := mono.Body.LookupLocal(mono.Params[0].Name)
	if !ok || bodyParam != mono.Params[0] {
		t.Fatalf("monomorphized function's body scope must declare its own cloned parameters")
	}
	retIdent, ok := mono.Body.Statements[0].(*ast.Return).Value.(*ast.Identifier)
	if !ok {
		t.Fatalf("want *ast.Identifier in cloned return, got %T", mono.Body.Statements[0].(*ast.Return).Value)
	}
	if retIdent.Decl != mono.Params[0] {
		t.Fatalf("cloned body identifier must rebind to the cloned parameter declaration")
	}
}

func TestPolymorphFunctionWithArgumentsRejectsArityMismatch(t *testing.T) {
	prog, at := parseSrc(t, `func identity<$T>(x: $T) -> $T { return x; }`)
	fn := findFunction(t, prog, at, "identity")

	tbl := types.New()
	c := New(at)
	if _, err := c.PolymorphFunctionWithArguments(fn, []*types.TypeInfo{tbl.Int(32, true), tbl.Int(32, true)}); err == nil {
		t.Fatalf("expected an arity mismatch error")
	}
}

func TestPolymorphFunctionWithArgumentsRejectsIncompatibleBinding(t *testing.T) {
	prog, at := parseSrc(t, `func pair<$T>(a: $T, b: $T) -> $T { return a; }`)
	fn := findFunction(t, prog, at, "pair")

	tbl := types.New()
	c := New(at)
	_, err := c.PolymorphFunctionWithArguments(fn, []*types.TypeInfo{tbl.Int(32, true), tbl.Float(64)})
	if err == nil {
		t.Fatalf("expected an error binding $T to two different types")
	}
}

func TestNonPolymorphicFunctionIsReturnedUnchanged(t *testing.T) {
	prog, at := parseSrc(t, `func add(a: int32, b: int32) -> int32 { return a + b; }`)
	fn := findFunction(t, prog, at, "add")

	c := New(at)
	out, err := c.PolymorphFunctionWithArguments(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != fn {
		t.Fatalf("a non-polymorphic function must be returned as-is")
	}
}
