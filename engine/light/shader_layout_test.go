package light

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckShaderLayout(t *testing.T) {
	require.NoError(t, CheckShaderLayout())

	m := ReflectPointLightShader()
	cubes, ok := m.Binding("shadow_cubes")
	require.True(t, ok)
	assert.Equal(t, wgpu.TextureViewDimensionCube, cubes.Entry.Texture.ViewDimension)
	assert.Equal(t, wgpu.ShaderStageFragment, cubes.Entry.Visibility)
}

func TestCheckShaderLayoutDetectsDrift(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"missing struct", strings.Replace(GPUPointLightSource, "struct PointLight", "struct Light", 1)},
		{"reordered", strings.Replace(GPUPointLightSource,
			"position_radius: vec4<f32>,\n    color_intensity: vec4<f32>,",
			"color_intensity: vec4<f32>,\n    position_radius: vec4<f32>,", 1)},
		{"extra field", strings.Replace(GPUPointLightSource,
			"shadow_indices: vec4<u32>,", "shadow_indices: vec4<u32>,\n    extra: f32,", 1)},
		{"fewer faces", strings.Replace(GPUPointLightSource, "array<mat4x4<f32>, 6>", "array<mat4x4<f32>, 5>", 1)},
		{"missing binding", strings.Replace(GPUPointLightSource, "point_lights", "lights", 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NotEqual(t, GPUPointLightSource, tc.source)
			err := checkShaderLayout(shader.Reflect(tc.source, wgpu.ShaderStageFragment))
			require.ErrorIs(t, err, ErrShaderLayoutMismatch)
		})
	}
}
