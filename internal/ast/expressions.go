package ast

import (
	"github.com/cwbudde/go-jiyu/internal/atom"
	"github.com/cwbudde/go-jiyu/internal/types"
)

// Identifier is a name reference. Once resolved, GetSubstitution
// points at the Declaration's Initializer (for a folded `let`) or is
// left nil and Decl is used directly (SPEC_FULL.md §3.5).
type Identifier struct {
	exprBase
	Name atom.Atom
	Decl *Declaration // set by the parser if the name is already declared in scope, and by the analyzer when it resolves
}

func (i *Identifier) String() string { return "<ident>" }

// LiteralKind tags the variant stored in a Literal node.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitBool
	LitString
	LitNull
)

// Literal is a constant value: integer, float, bool, string, or null
// (SPEC_FULL.md §3.5). Untyped integer/float literals are coercible
// per SPEC_FULL.md §4.5 until the analyzer pins a concrete type.
type Literal struct {
	exprBase
	Kind  LiteralKind
	Int   uint64
	Radix int
	Float float64
	Bool  bool
	Str   string

	// Untyped is true until a context (assignment, binary operand,
	// cast) fixes a concrete integer/float type on this literal.
	Untyped bool
}

func (l *Literal) String() string { return "<literal>" }

// UnaryOp enumerates the unary operators named in SPEC_FULL.md §4.2.
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota // -
	UnaryNot                // !
	UnaryBitNot             // ~
	UnaryDeref              // * (pointer dereference)
	UnaryAddr               // & (address-of)
)

// Unary is a prefix operator applied to an operand.
type Unary struct {
	exprBase
	Op      UnaryOp
	Operand Expression
}

func (u *Unary) String() string { return "<unary>" }

// BinaryOp enumerates the binary operators, ordered by the precedence
// table in SPEC_FULL.md §4.2 (lowest first).
type BinaryOp int

const (
	BinLOr BinaryOp = iota
	BinLXor
	BinLAnd
	BinBitOr
	BinBitXor
	BinBitAnd
	BinEq
	BinNeq
	BinLt
	BinLe
	BinGt
	BinGe
	BinShl
	BinShr
	BinAdd
	BinSub
	BinMul
	BinQuo
	BinRem
)

// Binary is a binary operation.
type Binary struct {
	exprBase
	Op    BinaryOp
	Left  Expression
	Right Expression
}

func (b *Binary) String() string { return "<binary>" }

// Assign is an assignment statement-expression: `lhs = rhs` or a
// compound form `lhs op= rhs` (SPEC_FULL.md §4.2). CompoundOp is
// unused (zero value meaningless) when Compound is false.
type Assign struct {
	exprBase
	LHS        Expression
	RHS        Expression
	Compound   bool
	CompoundOp BinaryOp
}

func (a *Assign) String() string { return "<assign>" }

// Dereference is member access `a.field`, auto-dereferencing once if
// a's type is a pointer (SPEC_FULL.md §4.5.6).
type Dereference struct {
	exprBase
	Target Expression
	Field  atom.Atom

	// ElementPathIndex is the resolved member index within the
	// (possibly flattened-from-parents) struct, recorded for codegen.
	ElementPathIndex int
}

func (d *Dereference) String() string { return "<member access>" }

// IndexKind records which of the SPEC_FULL.md §4.5.7 indexable
// categories an ArrayDereference resolved against.
type IndexKind int

const (
	IndexStaticArray IndexKind = iota
	IndexSlice
	IndexDynamicArray
	IndexString
	IndexPointer
)

// ArrayDereference is indexing `a[expr]`.
type ArrayDereference struct {
	exprBase
	Target Expression
	Index  Expression
	Kind   IndexKind
}

func (a *ArrayDereference) String() string { return "<index>" }

// Cast is an explicit `cast(T, expr)` conversion.
type Cast struct {
	exprBase
	TargetType Expression // type expression naming T
	Operand    Expression
}

func (c *Cast) String() string { return "<cast>" }

// FunctionCall is `callee(args...)`. Target is filled by the analyzer
// once overload-free resolution (and, for polymorphic callees,
// monomorphization) has picked the concrete function being called
// (SPEC_FULL.md §4.5.8).
type FunctionCall struct {
	exprBase
	Callee Expression
	Args   []Expression
	Target *Function
}

func (f *FunctionCall) String() string { return "<call>" }

// TupleExpression is a parenthesized comma-separated group of
// expressions treated as a single multi-value result.
type TupleExpression struct {
	exprBase
	Elements []Expression
}

func (t *TupleExpression) String() string { return "<tuple>" }

// TypeInstantiation is an expression that denotes a type rather than a
// value (e.g. the `T` in `sizeof(T)`, or a parameter's annotated
// type). It is resolved by the analyzer into a types.TypeInfo stored
// on ResolvedType (SPEC_FULL.md §3.5).
type TypeInstantiation struct {
	exprBase
	// Name is set for a simple named type reference (including a
	// `$T` polymorph placeholder, recognized by a leading '$').
	Name atom.Atom

	// PointerOf, ArrayOf, FunctionParams/FunctionReturn are mutually
	// exclusive alternatives to Name, used for compound type
	// expressions built directly by the parser (`*T`, `[N]T`, etc.).
	PointerOf Expression

	ArrayOf    Expression
	ArrayCount int  // -1 for a slice
	ArrayDyn   bool // dynamic array

	// IsFunctionType distinguishes a `func(...) -> T` type expression
	// (which may have zero params and an omitted/void return, making
	// FunctionParams/FunctionReturn both nil) from a plain named-type
	// leaf.
	IsFunctionType bool
	FunctionParams []Expression
	FunctionReturn Expression
	FunctionIsC    bool

	// ResolvedType is filled by the analyzer once the type expression
	// has been looked up / synthesized in the type table.
	ResolvedType *types.TypeInfo
}

func (t *TypeInstantiation) String() string { return "<type>" }

// IsPolymorphPlaceholder reports whether this is a bare `$T` name.
func (t *TypeInstantiation) IsPolymorphPlaceholder(tbl interface{ String(atom.Atom) string }) bool {
	n := tbl.String(t.Name)
	return len(n) > 0 && n[0] == '$'
}
