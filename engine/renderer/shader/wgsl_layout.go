package shader

import (
	"strconv"
	"strings"
)

// typeLayout holds the byte size and alignment of a WGSL type in host-shareable memory.
type typeLayout struct {
	size  uint64
	align uint64
}

// primitiveLayouts maps WGSL scalar, vector and matrix types to their size and alignment.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var primitiveLayouts = map[string]typeLayout{
	"f32":  {4, 4},
	"i32":  {4, 4},
	"u32":  {4, 4},
	"f16":  {2, 2},
	"bool": {4, 4},

	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},

	"vec2<i32>": {8, 8},
	"vec2i":     {8, 8},
	"vec3<i32>": {12, 16},
	"vec3i":     {12, 16},
	"vec4<i32>": {16, 16},
	"vec4i":     {16, 16},

	"vec2<u32>": {8, 8},
	"vec2u":     {8, 8},
	"vec3<u32>": {12, 16},
	"vec3u":     {12, 16},
	"vec4<u32>": {16, 16},
	"vec4u":     {16, 16},

	// matCxR<f32>: C columns of vecR<f32>
	"mat2x2<f32>": {16, 8},
	"mat3x3<f32>": {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},

	"atomic<u32>": {4, 4},
	"atomic<i32>": {4, 4},
}

// roundUpAlign rounds value up to the next multiple of alignment, which must be a power of two.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// resolveTypeLayout resolves a type from the primitives and already-computed structs.
// Runtime-sized arrays resolve to one element stride.
func resolveTypeLayout(typeName string, known map[string]StructLayout) (typeLayout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	if s, ok := known[typeName]; ok {
		return typeLayout{s.Size, s.Align}, true
	}

	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return typeLayout{}, false
	}
	parts := splitAtTopLevelCommas(inner[:len(inner)-1])
	elem, ok := resolveTypeLayout(strings.TrimSpace(parts[0]), known)
	if !ok {
		return typeLayout{}, false
	}
	stride := roundUpAlign(elem.align, elem.size)
	if len(parts) == 1 {
		return typeLayout{stride, elem.align}, true
	}

	count, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return typeLayout{}, false
	}
	return typeLayout{count * stride, elem.align}, true
}

// computeStructLayout places each field at its next aligned offset and rounds the size up to the
// struct alignment.
func computeStructLayout(ps parsedStruct, known map[string]StructLayout) (StructLayout, bool) {
	out := StructLayout{Name: ps.name, Align: 1, Fields: make([]FieldLayout, 0, len(ps.fields))}
	offset := uint64(0)

	for _, f := range ps.fields {
		if f.isBuiltin {
			continue
		}
		l, ok := resolveTypeLayout(f.typeName, known)
		if !ok {
			return StructLayout{}, false
		}
		offset = roundUpAlign(l.align, offset)
		out.Fields = append(out.Fields, FieldLayout{
			Name:   f.name,
			Type:   f.typeName,
			Offset: offset,
			Size:   l.size,
			Align:  l.align,
		})
		offset += l.size
		out.Align = max(out.Align, l.align)
	}

	out.Size = roundUpAlign(out.Align, offset)
	return out, true
}

// computeStructLayouts resolves every struct, iterating until structs that embed other structs settle.
// Structs with unresolvable fields are left out.
func computeStructLayouts(structs []parsedStruct) map[string]StructLayout {
	resolved := make(map[string]StructLayout, len(structs))
	remaining := append([]parsedStruct(nil), structs...)

	for len(remaining) > 0 {
		progress := false
		next := remaining[:0]
		for _, ps := range remaining {
			if layout, ok := computeStructLayout(ps, resolved); ok {
				resolved[ps.name] = layout
				progress = true
			} else {
				next = append(next, ps)
			}
		}
		remaining = next
		if !progress {
			break
		}
	}
	return resolved
}
