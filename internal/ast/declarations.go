package ast

import (
	"github.com/cwbudde/go-jiyu/internal/atom"
	"github.com/cwbudde/go-jiyu/internal/lexer"
	"github.com/cwbudde/go-jiyu/internal/types"
)

// DeclKind distinguishes the five declaration shapes named in
// SPEC_FULL.md §3.5.
type DeclKind int

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclStructMember
	DeclEnumMember
	DeclArgument
)

func (k DeclKind) String() string {
	switch k {
	case DeclVar:
		return "var"
	case DeclLet:
		return "let"
	case DeclStructMember:
		return "struct_member"
	case DeclEnumMember:
		return "enum_member"
	case DeclArgument:
		return "argument"
	default:
		return "decl"
	}
}

// DeclState is the per-declaration state machine driven by the
// semantic analyzer (SPEC_FULL.md §4.5).
type DeclState int

const (
	StateParsed DeclState = iota
	StateTypechecking
	StateDeferred
	StateResolved
	StateErrored
)

// Declaration is a named binding: a var/let, a struct or enum member,
// or a function argument.
type Declaration struct {
	base
	Kind DeclKind
	Name atom.Atom

	// TypeExpr is the parsed (unresolved) type annotation, if the
	// source wrote one explicitly. May be nil for `var x = expr`.
	TypeExpr Expression

	// Initializer is the declared value expression, if any.
	Initializer Expression

	// Type is filled by the analyzer once the declaration resolves.
	Type *types.TypeInfo

	// IsReadonlyVariable distinguishes an immutable global (which
	// keeps a backing storage location because its initializer could
	// not be folded) from a true constant `let` (which gets
	// substituted at every use site and has no storage). See
	// SPEC_FULL.md §9, "Open questions" on `&` of a `let`.
	IsReadonlyVariable bool

	// Struct-member layout, filled by the type table (SPEC_FULL.md §3.4).
	ByteOffset   int
	ElementIndex int

	State DeclState
}

func (d *Declaration) statementNode() {}
func (d *Declaration) String() string {
	return d.Kind.String()
}

// Function is a (possibly polymorphic) function declaration.
type Function struct {
	base
	Name       atom.Atom
	PolyParams []atom.Atom // `$T` placeholders named in <...>, empty if not polymorphic
	Params     []*Declaration
	ReturnType Expression // parsed return type annotation, may be nil (void)
	Body       *Scope     // nil for a declaration with no body (e.g. an external @c_function)
	Type       *types.TypeInfo

	IsCFunction   bool // @c_function
	IsCVarargs    bool
	IsExported    bool // @export
	IsMetaprogram bool // @metaprogram, SPEC_FULL.md §9 "Supplemented features"

	// Template is set on a monomorph produced by the copier; it
	// points back at the polymorphic function it was cloned from.
	Template *Function
}

func (f *Function) statementNode() {}
func (f *Function) String() string { return "func" }

// IsPolymorphic reports whether f declares any `$T`-style placeholder.
func (f *Function) IsPolymorphic() bool { return len(f.PolyParams) > 0 }

// Struct is a struct or union declaration. An anonymous nested struct
// parses into the same node, with Name left as the zero atom, and sits
// as a statement in the enclosing struct's Members scope; its members
// are not merged into the enclosing struct's members or layout.
type Struct struct {
	base
	Name     atom.Atom
	IsUnion  bool
	Parent   Expression // type expression naming the base struct, or nil
	Members  *Scope
	Type     *types.TypeInfo
}

func (s *Struct) statementNode() {}
func (s *Struct) String() string { return "struct" }

// Enum is an enum declaration; members are Declarations of kind
// DeclEnumMember owned by Members.
type Enum struct {
	base
	Name    atom.Atom
	Base    Expression // underlying integer type annotation, or nil (defaults to int)
	Members *Scope
	Type    *types.TypeInfo
}

func (e *Enum) statementNode() {}
func (e *Enum) String() string { return "enum" }

// TypeAlias is `typealias Name = TypeExpr;`.
type TypeAlias struct {
	base
	Name     atom.Atom
	TypeExpr Expression
}

func (t *TypeAlias) statementNode() {}
func (t *TypeAlias) String() string { return "typealias" }

// Library is a `library "name";` or `framework "name";` linker
// directive. The core only records it for the driver/backend; it has
// no type-system meaning.
type Library struct {
	base
	Path      string
	Framework bool
}

func (l *Library) statementNode() {}
func (l *Library) String() string { return "library " + l.Path }

// newSpan is a small helper shared by the parser when constructing a
// base from a start/end token span.
func newSpan(start, end lexer.TextSpan) lexer.TextSpan {
	return lexer.TextSpan{File: start.File, Offset: start.Offset, Length: end.End() - start.Offset}
}
