package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `
/* lighting inputs /* nested */ still a comment */
struct Params {
    scale: f32,
    offset: vec3<f32>, // vec3 aligns to 16
    tint: vec2<f32>,
};

struct Wrapper {
    params: Params,
    weights: array<f32, 3>,
    basis: mat3x3<f32>,
};

struct VertexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

struct Broken {
    value: mystery_type,
};

@group(1) @binding(2) var<uniform> wrapper: Wrapper;
@group(0) @binding(1) var depth: texture_depth_2d_array;
@group(0) @binding(0) var<storage, read_write> params: array<Params>;
@group(0) @binding(3) var cmp: sampler_comparison;
@group(0) @binding(2) var linear: sampler;
// @group(3) @binding(0) var<uniform> ignored: Params;
`

func TestStructLayouts(t *testing.T) {
	m := Reflect(testSource, wgpu.ShaderStageVertex)

	params, ok := m.Struct("Params")
	require.True(t, ok)
	assert.Equal(t, uint64(16), params.Align)
	assert.Equal(t, uint64(48), params.Size)
	offsets := map[string]uint64{}
	for _, f := range params.Fields {
		offsets[f.Name] = f.Offset
	}
	assert.Equal(t, map[string]uint64{"scale": 0, "offset": 16, "tint": 32}, offsets)

	wrapper, ok := m.Struct("Wrapper")
	require.True(t, ok)
	weights, ok := wrapper.Field("weights")
	require.True(t, ok)
	assert.Equal(t, uint64(48), weights.Offset)
	assert.Equal(t, uint64(12), weights.Size)
	basis, ok := wrapper.Field("basis")
	require.True(t, ok)
	assert.Equal(t, uint64(64), basis.Offset)
	assert.Equal(t, uint64(112), wrapper.Size)

	out, ok := m.Struct("VertexOut")
	require.True(t, ok)
	require.Len(t, out.Fields, 1)
	assert.Equal(t, "uv", out.Fields[0].Name)

	_, ok = m.Struct("Broken")
	assert.False(t, ok)
	_, ok = wrapper.Field("missing")
	assert.False(t, ok)
}

func TestBindings(t *testing.T) {
	m := Reflect(testSource, wgpu.ShaderStageFragment)

	bindings := m.Bindings()
	require.Len(t, bindings, 5)
	var names []string
	for _, b := range bindings {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"params", "depth", "linear", "cmp", "wrapper"}, names)

	params, ok := m.Binding("params")
	require.True(t, ok)
	assert.Equal(t, "storage, read_write", params.AddressSpace)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, params.Entry.Buffer.Type)
	assert.Equal(t, uint64(48), params.Entry.Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageFragment, params.Entry.Visibility)

	depth, _ := m.Binding("depth")
	assert.Equal(t, wgpu.TextureSampleTypeDepth, depth.Entry.Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2DArray, depth.Entry.Texture.ViewDimension)

	cmp, _ := m.Binding("cmp")
	assert.Equal(t, wgpu.SamplerBindingTypeComparison, cmp.Entry.Sampler.Type)
	linear, _ := m.Binding("linear")
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, linear.Entry.Sampler.Type)

	wrapper, _ := m.Binding("wrapper")
	assert.Equal(t, 1, wrapper.Group)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, wrapper.Entry.Buffer.Type)
	assert.Equal(t, uint64(112), wrapper.Entry.Buffer.MinBindingSize)

	_, ok = m.Binding("ignored")
	assert.False(t, ok)
}

func TestBindGroupLayoutDescriptor(t *testing.T) {
	m := Reflect(testSource, wgpu.ShaderStageFragment)

	desc := m.BindGroupLayoutDescriptor(0, "lighting")
	assert.Equal(t, "lighting", desc.Label)
	require.Len(t, desc.Entries, 4)
	for i, e := range desc.Entries {
		assert.Equal(t, uint32(i), e.Binding)
	}
	assert.Empty(t, m.BindGroupLayoutDescriptor(2, "none").Entries)
}

func TestReadOnlyStorage(t *testing.T) {
	m := Reflect("@group(0) @binding(0) var<storage> data: array<vec4<f32>, 4>;", wgpu.ShaderStageCompute)
	b, ok := m.Binding("data")
	require.True(t, ok)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, b.Entry.Buffer.Type)
	assert.Equal(t, uint64(64), b.Entry.Buffer.MinBindingSize)
	assert.Equal(t, "@group(0) @binding(0) var<storage> data: array<vec4<f32>, 4>;", m.Source())
}

func TestRoundUpAlign(t *testing.T) {
	assert.Equal(t, uint64(16), roundUpAlign(16, 4))
	assert.Equal(t, uint64(32), roundUpAlign(16, 32))
	assert.Equal(t, uint64(7), roundUpAlign(0, 7))
}
