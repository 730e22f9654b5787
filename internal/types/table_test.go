package types

import (
	"testing"

	"github.com/cwbudde/go-jiyu/internal/atom"
)

func TestPrimitivesHaveDistinctIndices(t *testing.T) {
	tbl := New()
	seen := map[int]bool{}
	for _, ti := range []*TypeInfo{tbl.Void, tbl.Bool, tbl.Str, tbl.Int(32, true), tbl.Float(64)} {
		if seen[ti.Index] {
			t.Fatalf("duplicate index %d", ti.Index)
		}
		seen[ti.Index] = true
	}
}

func TestIntLayout(t *testing.T) {
	tbl := New()
	i32 := tbl.Int(32, true)
	if i32.Size != 4 || i32.Alignment != 4 || i32.Stride != 4 {
		t.Fatalf("got %+v", i32)
	}
	u8 := tbl.Int(8, false)
	if u8.Signed {
		t.Fatalf("u8 should be unsigned")
	}
}

func TestPointerToIsCanonical(t *testing.T) {
	tbl := New()
	i32 := tbl.Int(32, true)
	p1 := tbl.PointerTo(i32)
	p2 := tbl.PointerTo(i32)
	if p1 != p2 {
		t.Fatalf("PointerTo should return the same *TypeInfo for the same pointee")
	}
	if p1.Size != 8 || p1.Alignment != 8 {
		t.Fatalf("got %+v", p1)
	}
}

func TestArrayOfCanonicalAndSliceVsStatic(t *testing.T) {
	tbl := New()
	i32 := tbl.Int(32, true)

	arr1 := tbl.ArrayOf(i32, 4, false)
	arr2 := tbl.ArrayOf(i32, 4, false)
	if arr1 != arr2 {
		t.Fatalf("ArrayOf should canonicalize identical static arrays")
	}
	if arr1.Size != 16 {
		t.Fatalf("static [4]int32 should be 16 bytes, got %d", arr1.Size)
	}

	slice := tbl.ArrayOf(i32, -1, false)
	if slice.Size != 16 || slice.Alignment != 8 {
		t.Fatalf("slice layout got %+v", slice)
	}

	dyn := tbl.ArrayOf(i32, -1, true)
	if dyn.Size != 24 {
		t.Fatalf("dynamic array layout got %+v", dyn)
	}

	if slice == dyn {
		t.Fatalf("a slice and a dynamic array of the same element must be distinct types")
	}
}

func TestFunctionTypeCanonical(t *testing.T) {
	tbl := New()
	i32 := tbl.Int(32, true)
	f1 := tbl.FunctionType([]*TypeInfo{i32, i32}, i32, false, false)
	f2 := tbl.FunctionType([]*TypeInfo{i32, i32}, i32, false, false)
	if f1 != f2 {
		t.Fatalf("FunctionType should canonicalize identical signatures")
	}
	fc := tbl.FunctionType([]*TypeInfo{i32}, tbl.Void, true, true)
	if fc == f1 {
		t.Fatalf("distinct signatures must not collide")
	}
}

func TestStructLayoutPacksAndAligns(t *testing.T) {
	tbl := New()
	at := atom.New()
	i8 := tbl.Int(8, false)
	i32 := tbl.Int(32, true)

	members := []Member{
		{Name: at.Intern("flag"), Type: i8},
		{Name: at.Intern("value"), Type: i32},
	}
	st := tbl.NewStruct(at.Intern("Foo"), members, false, nil)

	if st.Members[0].ByteOffset != 0 {
		t.Fatalf("first member should start at offset 0")
	}
	if st.Members[1].ByteOffset != 4 {
		t.Fatalf("second member should be aligned up to offset 4, got %d", st.Members[1].ByteOffset)
	}
	if st.Size != 8 || st.Alignment != 4 || st.Stride != 8 {
		t.Fatalf("got size=%d align=%d stride=%d", st.Size, st.Alignment, st.Stride)
	}
}

func TestStructInheritanceFlattensAncestorFirst(t *testing.T) {
	tbl := New()
	at := atom.New()
	i32 := tbl.Int(32, true)
	i64 := tbl.Int(64, true)

	base := tbl.NewStruct(at.Intern("Base"), []Member{
		{Name: at.Intern("id"), Type: i32},
	}, false, nil)

	child := tbl.NewStruct(at.Intern("Child"), []Member{
		{Name: at.Intern("extra"), Type: i64},
	}, false, base)

	if len(child.Members) != 2 {
		t.Fatalf("want 2 flattened members, got %d", len(child.Members))
	}
	if child.Members[0].Name != at.Intern("id") {
		t.Fatalf("ancestor member must come first")
	}
	// base.Size == 4, "extra" (int64, align 8) must start at offset 8.
	if child.Members[1].ByteOffset != 8 {
		t.Fatalf("child member should align up past the 4-byte base, got offset %d", child.Members[1].ByteOffset)
	}
}

func TestUnionMembersShareOffsetZero(t *testing.T) {
	tbl := New()
	at := atom.New()
	i8 := tbl.Int(8, false)
	i64 := tbl.Int(64, true)

	u := tbl.NewStruct(at.Intern("U"), []Member{
		{Name: at.Intern("small"), Type: i8},
		{Name: at.Intern("big"), Type: i64},
	}, true, nil)

	for _, m := range u.Members {
		if m.ByteOffset != 0 {
			t.Fatalf("union member %v should be at offset 0", m.Name)
		}
	}
	if u.Size != 8 || u.Alignment != 8 {
		t.Fatalf("union size should be its widest member, got size=%d align=%d", u.Size, u.Alignment)
	}
}

func TestEnumSharesBaseLayout(t *testing.T) {
	tbl := New()
	at := atom.New()
	i32 := tbl.Int(32, true)
	e := tbl.NewEnum(at.Intern("Color"), i32)
	if e.Size != i32.Size || e.Alignment != i32.Alignment {
		t.Fatalf("enum layout should mirror its base type")
	}
}

func TestAliasStripsToUnderlying(t *testing.T) {
	tbl := New()
	at := atom.New()
	i32 := tbl.Int(32, true)
	al := NewAlias(at.Intern("MyInt"), i32)
	if GetUnderlyingFinalType(al) != i32 {
		t.Fatalf("alias should strip to its underlying type")
	}
	if al.Index != -1 {
		t.Fatalf("an alias must never be interned")
	}
}

func TestPolyPlaceholderIsNotConcrete(t *testing.T) {
	tbl := New()
	at := atom.New()
	ph := NewPolyPlaceholder(at.Intern("$T"))
	if IsConcrete(ph) {
		t.Fatalf("a bare placeholder must not be concrete")
	}
	ptr := tbl.PointerTo(ph)
	if IsConcrete(ptr) {
		t.Fatalf("a pointer to a placeholder must not be concrete")
	}
	if ptr.Index != -1 {
		t.Fatalf("a non-concrete pointer type must never be interned")
	}
}
