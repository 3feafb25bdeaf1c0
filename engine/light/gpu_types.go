package light

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-shadows/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUPointLightSize is the size in bytes of one packed point light record.
const GPUPointLightSize = 448

// GPUPointLightSource is the canonical WGSL definition of the PointLight struct.
// Matches GPUPointLight layout exactly (448 bytes, std430 aligned).
//
//go:embed assets/point_light.wgsl
var GPUPointLightSource string

// GPUPointLight is the GPU-aligned representation of a single point light and its cube shadow.
// Matches the WGSL PointLight struct layout exactly (see GPUPointLightSource).
// Size: 448 bytes (std430 / WGSL aligned).
//
// Layout:
//
//	vec4<f32>        position_radius   ( 16 bytes, offset   0)
//	vec4<f32>        color_intensity   ( 16 bytes, offset  16)
//	mat4x4<f32> x 6  face_view_proj    (384 bytes, offset  32)
//	vec4<f32>        shadow_params     ( 16 bytes, offset 416): bias, near, far, strength
//	vec4<u32>        shadow_indices    ( 16 bytes, offset 432): slot, casts shadows, reserved, reserved
type GPUPointLight struct {
	PositionRadius      mgl32.Vec4
	ColorIntensity      mgl32.Vec4
	FaceViewProjections [common.CubeFaceCount]mgl32.Mat4
	Params              mgl32.Vec4
	Indices             [4]uint32
}

// Size returns the size of the GPUPointLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (448)
func (g *GPUPointLight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPointLight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 448-byte buffer ready for GPU upload
func (g *GPUPointLight) Marshal() []byte {
	buf := make([]byte, GPUPointLightSize)
	g.MarshalTo(buf)
	return buf
}

// MarshalTo serializes the record into buf[0:448] without allocating.
//
// Parameters:
//   - buf: destination buffer, at least GPUPointLightSize bytes
func (g *GPUPointLight) MarshalTo(buf []byte) {
	_ = buf[GPUPointLightSize-1]
	common.PutVec4(buf[0:16], g.PositionRadius)
	common.PutVec4(buf[16:32], g.ColorIntensity)
	for i, m := range g.FaceViewProjections {
		off := 32 + i*64
		common.PutMat4(buf[off:off+64], m)
	}
	common.PutVec4(buf[416:432], g.Params)
	common.PutUVec4(buf[432:448], g.Indices)
}

// MarshalLightBuffer packs records back to back into one storage buffer payload.
//
// Parameters:
//   - records: the packed lights in buffer order
//
// Returns:
//   - []byte: len(records) * GPUPointLightSize bytes
func MarshalLightBuffer(records []GPUPointLight) []byte {
	buf := make([]byte, len(records)*GPUPointLightSize)
	for i := range records {
		records[i].MarshalTo(buf[i*GPUPointLightSize:])
	}
	return buf
}
