package types

// alignUp rounds n up to the next multiple of align (align must be a
// positive power of two, as every Alignment value in this package is).
func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

// computeArrayLayout fills Size/Alignment/Stride for an array type,
// implementing the three representations of SPEC_FULL.md §3.4:
//   - dynamic array: {data *T, count int, allocated int}, fixed width
//   - slice (Count == -1): {data *T, count int}, fixed width
//   - static array: Count contiguous elements, each Element.Stride wide
func computeArrayLayout(ti *TypeInfo) {
	switch {
	case ti.Dynamic:
		ti.Size, ti.Alignment = 24, 8
	case ti.Count < 0:
		ti.Size, ti.Alignment = 16, 8
	default:
		ti.Alignment = ti.Element.Alignment
		if ti.Alignment == 0 {
			ti.Alignment = 1
		}
		ti.Size = ti.Element.Stride * ti.Count
	}
	ti.Stride = alignUp(ti.Size, ti.Alignment)
}

// ComputeLayout assigns ByteOffset/ElementIndex to every member of a
// struct or union type and fills the type's own Size/Alignment/Stride,
// per SPEC_FULL.md §3.4. Struct inheritance is flattened ancestor-first:
// a child's members start immediately after its parent's raw (unpadded)
// size, so the parent's own offsets are preserved verbatim.
func ComputeLayout(ti *TypeInfo) {
	if ti.Kind != Struct {
		panic("types: ComputeLayout called on a non-struct type")
	}

	var flattened []Member
	offset := 0
	align := 1

	if ti.Parent != nil {
		flattened = append(flattened, ti.Parent.Members...)
		offset = ti.Parent.Size
		align = ti.Parent.Alignment
	}

	if ti.IsUnion {
		maxSize := 0
		for i := range ti.Members {
			m := &ti.Members[i]
			m.ByteOffset = 0
			m.ElementIndex = i
			if m.Type.Alignment > align {
				align = m.Type.Alignment
			}
			if m.Type.Size > maxSize {
				maxSize = m.Type.Size
			}
		}
		flattened = append(flattened, ti.Members...)
		ti.Members = flattened
		ti.Alignment = align
		ti.Size = maxSize
		ti.Stride = alignUp(ti.Size, ti.Alignment)
		return
	}

	for i := range ti.Members {
		m := &ti.Members[i]
		if m.Type.Alignment > align {
			align = m.Type.Alignment
		}
		offset = alignUp(offset, m.Type.Alignment)
		m.ByteOffset = offset
		m.ElementIndex = len(flattened)
		offset += m.Type.Size
		flattened = append(flattened, *m)
	}

	ti.Members = flattened
	ti.Alignment = align
	ti.Size = offset
	ti.Stride = alignUp(ti.Size, ti.Alignment)
}
