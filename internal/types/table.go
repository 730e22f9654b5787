package types

import (
	"fmt"

	"github.com/cwbudde/go-jiyu/internal/atom"
)

// Table is a canonicalizing type table: concrete pointer-to, array-of
// and function types are looked up by structural identity and inserted
// at most once, per SPEC_FULL.md §3.4, while each struct and enum
// declaration gets an entry of its own (see NewStruct). Primitive
// types are predeclared singletons reachable directly off the Table.
type Table struct {
	entries []*TypeInfo

	Void *TypeInfo
	Bool *TypeInfo
	Str  *TypeInfo

	ints   map[string]*TypeInfo // "i8","u32", ...
	floats map[string]*TypeInfo // "f32","f64"

	pointerCache map[*TypeInfo]*TypeInfo
	arrayCache   map[arrayKey]*TypeInfo
	funcCache    map[string]*TypeInfo
}

type arrayKey struct {
	element *TypeInfo
	count   int
	dynamic bool
}

// New creates a Table with the primitive types of SPEC_FULL.md §3.4
// already interned.
func New() *Table {
	t := &Table{
		ints:         make(map[string]*TypeInfo),
		floats:       make(map[string]*TypeInfo),
		pointerCache: make(map[*TypeInfo]*TypeInfo),
		arrayCache:   make(map[arrayKey]*TypeInfo),
		funcCache:    make(map[string]*TypeInfo),
	}

	t.Void = t.intern(&TypeInfo{Kind: Void, Size: 0, Alignment: 1, Stride: 0})
	t.Bool = t.intern(&TypeInfo{Kind: Bool, Size: 1, Alignment: 1, Stride: 1})

	for _, spec := range []struct {
		key    string
		bits   int
		signed bool
	}{
		{"i8", 8, true}, {"i16", 16, true}, {"i32", 32, true}, {"i64", 64, true},
		{"u8", 8, false}, {"u16", 16, false}, {"u32", 32, false}, {"u64", 64, false},
	} {
		size := spec.bits / 8
		t.ints[spec.key] = t.intern(&TypeInfo{
			Kind: Integer, Bits: spec.bits, Signed: spec.signed,
			Size: size, Alignment: size, Stride: size,
		})
	}

	for _, spec := range []struct {
		key  string
		bits int
	}{{"f32", 32}, {"f64", 64}} {
		size := spec.bits / 8
		t.floats[spec.key] = t.intern(&TypeInfo{
			Kind: Float, Bits: spec.bits,
			Size: size, Alignment: size, Stride: size,
		})
	}

	// A string is represented as a {data *u8, length int} fat pointer,
	// matching the two-machine-word layout used for slices below.
	t.Str = t.intern(&TypeInfo{Kind: String, Size: 16, Alignment: 8, Stride: 16})

	return t
}

func (t *Table) intern(ti *TypeInfo) *TypeInfo {
	ti.Index = len(t.entries)
	t.entries = append(t.entries, ti)
	return ti
}

// Entries returns every interned type, indexed by TypeInfo.Index.
func (t *Table) Entries() []*TypeInfo { return t.entries }

// Int looks up a signed/unsigned integer type by bit width. DefaultInt
// is what an untyped integer literal folds to absent other context
// (SPEC_FULL.md §4.5, "literal 11 of type int (default integer)").
func (t *Table) Int(bits int, signed bool) *TypeInfo {
	key := fmt.Sprintf("i%d", bits)
	if !signed {
		key = fmt.Sprintf("u%d", bits)
	}
	ti, ok := t.ints[key]
	if !ok {
		panic(fmt.Sprintf("types: no predeclared integer of width %d", bits))
	}
	return ti
}

// DefaultInt is the 64-bit signed integer type, as assigned to an
// untyped integer literal once it must be given a concrete type.
func (t *Table) DefaultInt() *TypeInfo { return t.Int(64, true) }

// Float looks up a float type by bit width (32 or 64).
func (t *Table) Float(bits int) *TypeInfo {
	key := fmt.Sprintf("f%d", bits)
	ti, ok := t.floats[key]
	if !ok {
		panic(fmt.Sprintf("types: no predeclared float of width %d", bits))
	}
	return ti
}

// DefaultFloat is the 64-bit float type, mirroring DefaultInt.
func (t *Table) DefaultFloat() *TypeInfo { return t.Float(64) }

// PointerTo returns the canonical `*of` pointer type, interning it on
// first use. A pointer to a non-concrete type (one still containing a
// PolyPlaceholder) is constructed fresh and never cached, since it
// will never recur structurally-identically until monomorphized.
func (t *Table) PointerTo(of *TypeInfo) *TypeInfo {
	if !IsConcrete(of) {
		return &TypeInfo{Kind: Pointer, Of: of, Index: -1, Size: 8, Alignment: 8, Stride: 8}
	}
	if cached, ok := t.pointerCache[of]; ok {
		return cached
	}
	ti := &TypeInfo{Kind: Pointer, Of: of, Size: 8, Alignment: 8, Stride: 8}
	t.intern(ti)
	t.pointerCache[of] = ti
	return ti
}

// ArrayOf returns the canonical array type. count is -1 for a slice
// ([]T); dynamic marks a growable array (the jai-style [..]T), which
// ignores count. Layout follows SPEC_FULL.md §3.4's three array
// representations.
func (t *Table) ArrayOf(element *TypeInfo, count int, dynamic bool) *TypeInfo {
	if !IsConcrete(element) {
		ti := &TypeInfo{Kind: Array, Element: element, Count: count, Dynamic: dynamic, Index: -1}
		computeArrayLayout(ti)
		return ti
	}
	key := arrayKey{element: element, count: count, dynamic: dynamic}
	if cached, ok := t.arrayCache[key]; ok {
		return cached
	}
	ti := &TypeInfo{Kind: Array, Element: element, Count: count, Dynamic: dynamic}
	computeArrayLayout(ti)
	t.intern(ti)
	t.arrayCache[key] = ti
	return ti
}

// FunctionType returns the canonical function type for the given
// signature. A signature referencing a non-concrete parameter or
// return type (still containing a placeholder, as in a polymorphic
// function's own declared type before monomorphization) is
// constructed fresh and left uninterned.
func (t *Table) FunctionType(params []*TypeInfo, ret *TypeInfo, isCFunction, isCVarargs bool) *TypeInfo {
	concrete := IsConcrete(ret)
	for _, p := range params {
		if !IsConcrete(p) {
			concrete = false
		}
	}
	if !concrete {
		return &TypeInfo{
			Kind: Function, Params: params, Return: ret,
			IsCFunction: isCFunction, IsCVarargs: isCVarargs,
			Index: -1, Size: 8, Alignment: 8, Stride: 8,
		}
	}

	key := fmt.Sprintf("%d|%v|%v", GetUnderlyingFinalType(ret).Index, isCFunction, isCVarargs)
	for _, p := range params {
		key += fmt.Sprintf(",%d", GetUnderlyingFinalType(p).Index)
	}
	if cached, ok := t.funcCache[key]; ok {
		return cached
	}
	ti := &TypeInfo{
		Kind: Function, Params: params, Return: ret,
		IsCFunction: isCFunction, IsCVarargs: isCVarargs,
		Size: 8, Alignment: 8, Stride: 8,
	}
	t.intern(ti)
	t.funcCache[key] = ti
	return ti
}

// NewStruct interns a fresh struct/union type. Structs are
// canonicalized by declaration identity, not structural equality (two
// separately-declared structs with identical member lists are
// distinct types), so every call allocates a new entry. members must
// already have Type set; ComputeLayout fills ByteOffset/ElementIndex
// and the returned type's Size/Alignment/Stride.
func (t *Table) NewStruct(name atom.Atom, members []Member, isUnion bool, parent *TypeInfo) *TypeInfo {
	ti := &TypeInfo{Kind: Struct, DeclName: name, Members: members, IsUnion: isUnion, Parent: parent}
	ComputeLayout(ti)
	return t.intern(ti)
}

// NewEnum interns a fresh enum type sharing its underlying integer
// type's layout.
func (t *Table) NewEnum(name atom.Atom, base *TypeInfo) *TypeInfo {
	ti := &TypeInfo{
		Kind: Enum, DeclName: name, Base: base,
		Size: base.Size, Alignment: base.Alignment, Stride: base.Stride,
	}
	return t.intern(ti)
}

// NewAlias constructs a (never-interned) alias type. Aliases are
// transparent to layout and to IsConcrete/GetUnderlyingFinalType, so
// they do not need a Table identity of their own.
func NewAlias(name atom.Atom, of *TypeInfo) *TypeInfo {
	return &TypeInfo{Kind: Alias, AliasName: name, AliasOf: of, Index: -1}
}

// NewPolyPlaceholder constructs a `$T`-style placeholder type. Like
// aliases, these are never interned; they exist only until the copier
// substitutes a concrete type during monomorphization.
func NewPolyPlaceholder(name atom.Atom) *TypeInfo {
	return &TypeInfo{Kind: PolyPlaceholder, PlaceholderName: name, Index: -1}
}

// NewTypeOfType constructs the compile-time "type of a type" value
// produced by a bare type expression used where a value is expected
// (SPEC_FULL.md §3.4). It is interned once per Table; later calls
// return the same entry.
func (t *Table) NewTypeOfType() *TypeInfo {
	for _, e := range t.entries {
		if e.Kind == TypeOfType {
			return e
		}
	}
	return t.intern(&TypeInfo{Kind: TypeOfType, Size: 8, Alignment: 8, Stride: 8})
}
