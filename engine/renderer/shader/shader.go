// Package shader reflects WGSL sources: struct memory layouts and resource bindings.
//
// It is used to check that CPU-side records match the structs shaders read them as, and to
// derive bind group layout entries without hand-writing them.
package shader

import (
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// FieldLayout is one struct member in host-shareable memory.
type FieldLayout struct {
	Name   string
	Type   string
	Offset uint64
	Size   uint64
	Align  uint64
}

// StructLayout is the memory layout of a WGSL struct.
type StructLayout struct {
	Name   string
	Size   uint64
	Align  uint64
	Fields []FieldLayout
}

// Field returns the member called name.
func (s StructLayout) Field(name string) (FieldLayout, bool) {
	i := slices.IndexFunc(s.Fields, func(f FieldLayout) bool { return f.Name == name })
	if i < 0 {
		return FieldLayout{}, false
	}
	return s.Fields[i], true
}

// Binding is one @group/@binding resource declaration.
type Binding struct {
	Group        int
	Binding      int
	Name         string
	AddressSpace string
	Type         string
	// Entry is the bind group layout entry for the resource. Buffer entries carry the bound
	// type's size as MinBindingSize.
	Entry wgpu.BindGroupLayoutEntry
}

// Module is a reflected WGSL source.
type Module struct {
	source   string
	structs  map[string]StructLayout
	bindings []Binding
}

// Reflect parses source and computes the layout of every struct and the entry of every binding.
// Bindings are visible to the given shader stages.
//
// Parameters:
//   - source: the WGSL source
//   - visibility: stages the bindings are visible to
//
// Returns:
//   - *Module: the reflected module
func Reflect(source string, visibility wgpu.ShaderStage) *Module {
	cleaned := stripComments(source)
	structs := computeStructLayouts(parseStructBlocks(cleaned))
	return &Module{
		source:   source,
		structs:  structs,
		bindings: parseBindings(cleaned, structs, visibility),
	}
}

// Source returns the WGSL source the module was reflected from.
func (m *Module) Source() string {
	return m.source
}

// Struct returns the layout of the struct called name. Structs with unknown member types are absent.
func (m *Module) Struct(name string) (StructLayout, bool) {
	s, ok := m.structs[name]
	return s, ok
}

// Bindings returns every binding ordered by group, then binding index.
func (m *Module) Bindings() []Binding {
	out := slices.Clone(m.bindings)
	slices.SortFunc(out, func(a, b Binding) int {
		if a.Group != b.Group {
			return a.Group - b.Group
		}
		return a.Binding - b.Binding
	})
	return out
}

// Binding returns the binding declared with variable name.
func (m *Module) Binding(name string) (Binding, bool) {
	i := slices.IndexFunc(m.bindings, func(b Binding) bool { return b.Name == name })
	if i < 0 {
		return Binding{}, false
	}
	return m.bindings[i], true
}

// BindGroupLayoutDescriptor returns the layout descriptor of one bind group.
//
// Parameters:
//   - group: the @group index
//   - label: the descriptor label
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: entries ordered by binding index
func (m *Module) BindGroupLayoutDescriptor(group int, label string) wgpu.BindGroupLayoutDescriptor {
	var entries []wgpu.BindGroupLayoutEntry
	for _, b := range m.Bindings() {
		if b.Group == group {
			entries = append(entries, b.Entry)
		}
	}
	return wgpu.BindGroupLayoutDescriptor{Label: label, Entries: entries}
}
