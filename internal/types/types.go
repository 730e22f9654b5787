// Package types implements the canonicalized type table described in
// SPEC_FULL.md §3.4: every concrete type is represented by exactly one
// *TypeInfo per Table (pointer, array and function types looked up or
// inserted by structural equality, struct and enum types one per
// declaration), and carries the size/alignment/stride a struct/array
// layout needs.
package types

import "github.com/cwbudde/go-jiyu/internal/atom"

// Kind tags the variant held by a TypeInfo.
type Kind int

const (
	Void Kind = iota
	Integer
	Bool
	Float
	String
	Pointer
	Array
	Struct
	Enum
	Function
	TypeOfType // the compile-time type of a type expression itself
	Alias
	PolyPlaceholder
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Integer:
		return "integer"
	case Bool:
		return "bool"
	case Float:
		return "float"
	case String:
		return "string"
	case Pointer:
		return "pointer"
	case Array:
		return "array"
	case Struct:
		return "struct"
	case Enum:
		return "enum"
	case Function:
		return "function"
	case TypeOfType:
		return "type"
	case Alias:
		return "alias"
	case PolyPlaceholder:
		return "polymorph_placeholder"
	default:
		return "unknown"
	}
}

// Member is one field of a struct/union, positioned by ComputeLayout.
type Member struct {
	Name         atom.Atom
	Type         *TypeInfo
	ByteOffset   int
	ElementIndex int
}

// TypeInfo is the tagged record from SPEC_FULL.md §3.4. Only the
// fields relevant to Kind are meaningful; the zero value of the rest
// is unused.
type TypeInfo struct {
	Kind Kind

	// Index is this type's position in the Table that interned it, or
	// -1 if the type was never interned (every Alias and every
	// PolyPlaceholder, plus any compound type built over a
	// PolyPlaceholder; a compound built over an alias is interned,
	// since aliases are stripped when checking concreteness).
	Index int

	// Integer / Float
	Bits   int
	Signed bool // Integer only

	// Pointer
	Of *TypeInfo

	// Array
	Element *TypeInfo
	Count   int // -1 for a slice, ignored for a dynamic array
	Dynamic bool

	// Struct / Enum
	DeclName atom.Atom
	Members  []Member // Struct only
	IsUnion  bool     // Struct only
	Parent   *TypeInfo // Struct only: flattened-in base struct, or nil
	Base     *TypeInfo // Enum only: underlying integer type

	// Function
	Params      []*TypeInfo
	Return      *TypeInfo
	IsCFunction bool
	IsCVarargs bool

	// Alias
	AliasName atom.Atom
	AliasOf   *TypeInfo

	// PolyPlaceholder
	PlaceholderName atom.Atom

	Size      int
	Alignment int
	Stride    int
}

func (t *TypeInfo) String() string { return t.Kind.String() }

// GetUnderlyingFinalType strips Alias wrappers, per SPEC_FULL.md §3.4
// ("get_underlying_final_type"). It does not strip PolyPlaceholder:
// that only resolves once a polymorphic function is monomorphized.
func GetUnderlyingFinalType(t *TypeInfo) *TypeInfo {
	for t.Kind == Alias {
		t = t.AliasOf
	}
	return t
}

// IsConcrete reports whether t (after stripping aliases) contains no
// PolyPlaceholder anywhere in its structure, and is therefore eligible
// for interning in a Table.
func IsConcrete(t *TypeInfo) bool {
	t = GetUnderlyingFinalType(t)
	switch t.Kind {
	case PolyPlaceholder:
		return false
	case Pointer:
		return IsConcrete(t.Of)
	case Array:
		return IsConcrete(t.Element)
	case Function:
		if t.Return != nil && !IsConcrete(t.Return) {
			return false
		}
		for _, p := range t.Params {
			if !IsConcrete(p) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
