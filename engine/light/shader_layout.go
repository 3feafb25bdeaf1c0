package light

import (
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"go.trai.ch/zerr"
)

// pointLightFieldOffsets are the WGSL member offsets GPUPointLight.MarshalTo writes to.
var pointLightFieldOffsets = []struct {
	name   string
	offset uint64
}{
	{"position_radius", 0},
	{"color_intensity", 16},
	{"face_view_proj", 32},
	{"shadow_params", 416},
	{"shadow_indices", 432},
}

// ReflectPointLightShader reflects GPUPointLightSource with fragment visibility.
func ReflectPointLightShader() *shader.Module {
	return shader.Reflect(GPUPointLightSource, wgpu.ShaderStageFragment)
}

// CheckShaderLayout verifies that the embedded PointLight struct and its storage binding match the
// packed record byte for byte.
//
// Returns:
//   - error: ErrShaderLayoutMismatch describing the first disagreement, or nil
func CheckShaderLayout() error {
	return checkShaderLayout(ReflectPointLightShader())
}

func checkShaderLayout(m *shader.Module) error {
	s, ok := m.Struct("PointLight")
	if !ok {
		return zerr.Wrap(ErrShaderLayoutMismatch, "struct PointLight not found")
	}
	if s.Size != GPUPointLightSize {
		return zerr.With(zerr.Wrap(ErrShaderLayoutMismatch, "struct size"), "size", s.Size)
	}
	for _, want := range pointLightFieldOffsets {
		f, ok := s.Field(want.name)
		if !ok {
			return zerr.With(zerr.Wrap(ErrShaderLayoutMismatch, "missing field"), "field", want.name)
		}
		if f.Offset != want.offset {
			return zerr.With(zerr.With(zerr.Wrap(ErrShaderLayoutMismatch, "field offset"), "field", want.name), "offset", f.Offset)
		}
	}

	b, ok := m.Binding("point_lights")
	if !ok {
		return zerr.Wrap(ErrShaderLayoutMismatch, "binding point_lights not found")
	}
	if b.Entry.Buffer.MinBindingSize != GPUPointLightSize {
		return zerr.With(zerr.Wrap(ErrShaderLayoutMismatch, "binding size"), "min_binding_size", b.Entry.Buffer.MinBindingSize)
	}
	return nil
}
