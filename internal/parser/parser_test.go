package parser

import (
	"testing"

	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/atom"
	"github.com/cwbudde/go-jiyu/internal/lexer"
)

func parseSrc(t *testing.T, src string) (*ast.Program, *atom.Table, []*Error) {
	t.Helper()
	at := atom.New()
	toks := lexer.New(src, 0).Tokenize()
	root := ast.NewScope(lexer.TextSpan{}, nil)
	prog, errs := ParseProgram(at, toks, root)
	return prog, at, errs
}

func TestParseSimpleFunction(t *testing.T) {
	prog, at, errs := parseSrc(t, `func add(a: int32, b: int32) -> int32 { return a + b; }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(prog.Root.Statements) != 1 {
		t.Fatalf("want 1 top-level statement, got %d", len(prog.Root.Statements))
	}
	fn, ok := prog.Root.Statements[0].(*ast.Function)
	if !ok {
		t.Fatalf("want *ast.Function, got %T", prog.Root.Statements[0])
	}
	if at.String(fn.Name) != "add" {
		t.Fatalf("got name %q", at.String(fn.Name))
	}
	if len(fn.Params) != 2 {
		t.Fatalf("want 2 params, got %d", len(fn.Params))
	}
	if fn.Body == nil || len(fn.Body.Statements) != 1 {
		t.Fatalf("want a single-statement body")
	}
	ret, ok := fn.Body.Statements[0].(*ast.Return)
	if !ok {
		t.Fatalf("want *ast.Return, got %T", fn.Body.Statements[0])
	}
	if _, ok := ret.Value.(*ast.Binary); !ok {
		t.Fatalf("want a binary return expression, got %T", ret.Value)
	}
}

func TestParsePolymorphicFunction(t *testing.T) {
	prog, at, errs := parseSrc(t, `func identity<$T>(x: $T) -> $T { return x; }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := prog.Root.Statements[0].(*ast.Function)
	if !fn.IsPolymorphic() {
		t.Fatalf("expected a polymorphic function")
	}
	if len(fn.PolyParams) != 1 || at.String(fn.PolyParams[0]) != "$T" {
		t.Fatalf("got poly params %v", fn.PolyParams)
	}
}

func TestParseVarAndLet(t *testing.T) {
	prog, at, errs := parseSrc(t, `var x: int32 = 1; let y = 2;`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(prog.Root.Statements) != 2 {
		t.Fatalf("want 2 statements, got %d", len(prog.Root.Statements))
	}
	xDecl := prog.Root.Statements[0].(*ast.Declaration)
	if xDecl.Kind != ast.DeclVar || at.String(xDecl.Name) != "x" {
		t.Fatalf("got %+v", xDecl)
	}
	yDecl := prog.Root.Statements[1].(*ast.Declaration)
	if yDecl.Kind != ast.DeclLet {
		t.Fatalf("want DeclLet, got %v", yDecl.Kind)
	}
}

func TestBinaryOperatorPrecedence(t *testing.T) {
	prog, _, errs := parseSrc(t, `var x = 1 + 2 * 3;`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	d := prog.Root.Statements[0].(*ast.Declaration)
	bin := d.Initializer.(*ast.Binary)
	if bin.Op != ast.BinAdd {
		t.Fatalf("top-level op should be +, got %v", bin.Op)
	}
	rhs, ok := bin.Right.(*ast.Binary)
	if !ok || rhs.Op != ast.BinMul {
		t.Fatalf("right operand should be a * subtree, got %#v", bin.Right)
	}
}

func TestParseIfElseIf(t *testing.T) {
	prog, _, errs := parseSrc(t, `func f() { if a { } else if b { } else { } }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := prog.Root.Statements[0].(*ast.Function)
	ifStmt := fn.Body.Statements[0].(*ast.If)
	elseIf, ok := ifStmt.Else.(*ast.If)
	if !ok {
		t.Fatalf("want nested *ast.If for else-if, got %T", ifStmt.Else)
	}
	if elseIf.Else == nil {
		t.Fatalf("want a trailing else scope")
	}
}

func TestParseForRangeInclusiveAndExclusive(t *testing.T) {
	prog, _, errs := parseSrc(t, `func f() { for i in 0..10 { } for j in 0..<10 { } }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := prog.Root.Statements[0].(*ast.Function)
	incl := fn.Body.Statements[0].(*ast.For)
	if incl.Kind != ast.ForRangeInclusive {
		t.Fatalf("want inclusive range, got %v", incl.Kind)
	}
	excl := fn.Body.Statements[1].(*ast.For)
	if excl.Kind != ast.ForRangeExclusive {
		t.Fatalf("want exclusive range, got %v", excl.Kind)
	}
}

func TestParseForIndexed(t *testing.T) {
	prog, _, errs := parseSrc(t, `func f() { for i, v in items { } }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := prog.Root.Statements[0].(*ast.Function)
	forStmt := fn.Body.Statements[0].(*ast.For)
	if forStmt.Kind != ast.ForIndexed || forStmt.IndexVar == nil {
		t.Fatalf("want an indexed for loop, got %+v", forStmt)
	}
}

func TestParseSwitch(t *testing.T) {
	prog, _, errs := parseSrc(t, `func f() { switch x { case 1, 2: default: } }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := prog.Root.Statements[0].(*ast.Function)
	sw := fn.Body.Statements[0].(*ast.Switch)
	if len(sw.Cases) != 2 {
		t.Fatalf("want 2 arms, got %d", len(sw.Cases))
	}
	if len(sw.Cases[0].Values) != 2 {
		t.Fatalf("first arm should have 2 values, got %d", len(sw.Cases[0].Values))
	}
	if len(sw.Cases[1].Values) != 0 {
		t.Fatalf("default arm should have no values")
	}
}

func TestParseStructWithParentAndMembers(t *testing.T) {
	prog, at, errs := parseSrc(t, `struct Base { id: int32; } struct Derived : Base { name: string; }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	derived := prog.Root.Statements[1].(*ast.Struct)
	if at.String(derived.Name) != "Derived" {
		t.Fatalf("got %q", at.String(derived.Name))
	}
	if derived.Parent == nil {
		t.Fatalf("want a parent type expression")
	}
	if len(derived.Members.Declarations()) != 1 {
		t.Fatalf("want 1 own member, got %d", len(derived.Members.Declarations()))
	}
}

func TestParseUnion(t *testing.T) {
	prog, _, errs := parseSrc(t, `union U { a: int32; b: float32; }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	u := prog.Root.Statements[0].(*ast.Struct)
	if !u.IsUnion {
		t.Fatalf("want IsUnion true")
	}
}

func TestParseEnumWithExplicitValues(t *testing.T) {
	prog, at, errs := parseSrc(t, `enum Color { Red = 0, Green = 1, Blue }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	e := prog.Root.Statements[0].(*ast.Enum)
	members := e.Members.Declarations()
	if len(members) != 3 {
		t.Fatalf("want 3 members, got %d", len(members))
	}
	if at.String(members[0].Name) != "Red" {
		t.Fatalf("got %q", at.String(members[0].Name))
	}
}

func TestParseTypeAlias(t *testing.T) {
	prog, at, errs := parseSrc(t, `typealias MyInt = int32;`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	a := prog.Root.Statements[0].(*ast.TypeAlias)
	if at.String(a.Name) != "MyInt" {
		t.Fatalf("got %q", at.String(a.Name))
	}
}

func TestParsePointerAndArrayTypes(t *testing.T) {
	prog, _, errs := parseSrc(t, `var p: *int32; var a: [4]int32; var s: []int32; var d: [..]int32;`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	p := prog.Root.Statements[0].(*ast.Declaration)
	if _, ok := p.TypeExpr.(*ast.TypeInstantiation); !ok {
		t.Fatalf("want a type instantiation")
	}
	pty := p.TypeExpr.(*ast.TypeInstantiation)
	if pty.PointerOf == nil {
		t.Fatalf("want PointerOf set")
	}

	a := prog.Root.Statements[1].(*ast.Declaration).TypeExpr.(*ast.TypeInstantiation)
	if a.ArrayCount != 4 {
		t.Fatalf("want ArrayCount 4, got %d", a.ArrayCount)
	}

	s := prog.Root.Statements[2].(*ast.Declaration).TypeExpr.(*ast.TypeInstantiation)
	if s.ArrayCount != -1 || s.ArrayDyn {
		t.Fatalf("want a slice type, got %+v", s)
	}

	d := prog.Root.Statements[3].(*ast.Declaration).TypeExpr.(*ast.TypeInstantiation)
	if !d.ArrayDyn {
		t.Fatalf("want a dynamic array type, got %+v", d)
	}
}

func TestParseMemberAccessAndIndexAndCall(t *testing.T) {
	prog, _, errs := parseSrc(t, `var x = a.b[0].c(1, 2);`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	d := prog.Root.Statements[0].(*ast.Declaration)
	call, ok := d.Initializer.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("want *ast.FunctionCall, got %T", d.Initializer)
	}
	if len(call.Args) != 2 {
		t.Fatalf("want 2 args, got %d", len(call.Args))
	}
	deref, ok := call.Callee.(*ast.Dereference)
	if !ok {
		t.Fatalf("want *ast.Dereference, got %T", call.Callee)
	}
	_, ok = deref.Target.(*ast.ArrayDereference)
	if !ok {
		t.Fatalf("want *ast.ArrayDereference target, got %T", deref.Target)
	}
}

func TestParseCompoundAssign(t *testing.T) {
	prog, _, errs := parseSrc(t, `func f() { x += 1; }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := prog.Root.Statements[0].(*ast.Function)
	stmt := fn.Body.Statements[0].(*ast.ExpressionStatement)
	assign := stmt.Expr.(*ast.Assign)
	if !assign.Compound || assign.CompoundOp != ast.BinAdd {
		t.Fatalf("got %+v", assign)
	}
}

func TestParseSizeofAndCast(t *testing.T) {
	prog, _, errs := parseSrc(t, `var x = sizeof(int32); var y = cast(float32, x);`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	xCall, ok := prog.Root.Statements[0].(*ast.Declaration).Initializer.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("want sizeof to parse as a call, got %T", prog.Root.Statements[0].(*ast.Declaration).Initializer)
	}
	if len(xCall.Args) != 1 {
		t.Fatalf("want 1 arg")
	}
	yCast, ok := prog.Root.Statements[1].(*ast.Declaration).Initializer.(*ast.Cast)
	if !ok {
		t.Fatalf("want *ast.Cast, got %T", prog.Root.Statements[1].(*ast.Declaration).Initializer)
	}
	if yCast.TargetType == nil || yCast.Operand == nil {
		t.Fatalf("got %+v", yCast)
	}
}

func TestParseLoadAndImport(t *testing.T) {
	prog, _, errs := parseSrc(t, `#load "util.jiyu"; #import "std";`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	load := prog.Root.Statements[0].(*ast.Load)
	if load.Path != "util.jiyu" {
		t.Fatalf("got %q", load.Path)
	}
	imp := prog.Root.Statements[1].(*ast.Import)
	if imp.Module != "std" {
		t.Fatalf("got %q", imp.Module)
	}
}

func TestParseStaticIf(t *testing.T) {
	prog, _, errs := parseSrc(t, `#if constexpr 1 { var a = 1; } else { var b = 2; }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	si, ok := prog.Root.Statements[0].(*ast.StaticIf)
	if !ok {
		t.Fatalf("want *ast.StaticIf, got %T", prog.Root.Statements[0])
	}
	if si.Cond == nil || si.Then == nil {
		t.Fatalf("got %+v", si)
	}
	if si.Else == nil {
		t.Fatalf("want an else branch")
	}
}

func TestDuplicateDeclarationIsAnError(t *testing.T) {
	_, _, errs := parseSrc(t, `var x = 1; var x = 2;`)
	if len(errs) == 0 {
		t.Fatalf("want a duplicate-declaration error")
	}
}

func TestSyntaxErrorRecoversAtNextStatement(t *testing.T) {
	prog, _, errs := parseSrc(t, `var x = ; var y = 2;`)
	if len(errs) == 0 {
		t.Fatalf("want at least one error")
	}
	if len(prog.Root.Statements) != 2 {
		t.Fatalf("want to recover and parse the second declaration, got %d statements", len(prog.Root.Statements))
	}
}
