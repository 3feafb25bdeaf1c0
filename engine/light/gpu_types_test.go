package light

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-shadows/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUPointLightLayout(t *testing.T) {
	var g GPUPointLight
	assert.Equal(t, GPUPointLightSize, g.Size())
	assert.Equal(t, uintptr(0), unsafe.Offsetof(g.PositionRadius))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(g.ColorIntensity))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(g.FaceViewProjections))
	assert.Equal(t, uintptr(416), unsafe.Offsetof(g.Params))
	assert.Equal(t, uintptr(432), unsafe.Offsetof(g.Indices))
}

func TestGPUPointLightMarshal(t *testing.T) {
	g := GPUPointLight{
		PositionRadius: mgl32.Vec4{1, 2, 3, 9},
		ColorIntensity: mgl32.Vec4{0.5, 0.25, 1, 4},
		Params:         mgl32.Vec4{0.005, 0.1, 9, 1},
		Indices:        [4]uint32{3, 1, 0, 0},
	}
	for i := range g.FaceViewProjections {
		g.FaceViewProjections[i] = mgl32.Translate3D(float32(i), 0, 0)
	}

	buf := g.Marshal()
	require.Len(t, buf, GPUPointLightSize)

	assert.Equal(t, float32(1), common.Float32At(buf, 0))
	assert.Equal(t, float32(9), common.Float32At(buf, 12))
	assert.Equal(t, float32(0.5), common.Float32At(buf, 16))
	assert.Equal(t, float32(4), common.Float32At(buf, 28))
	for i := range common.CubeFaceCount {
		// column-major: translation x sits at element 12
		assert.Equal(t, float32(i), common.Float32At(buf, 32+i*64+12*4), "face %d", i)
		assert.Equal(t, float32(1), common.Float32At(buf, 32+i*64), "face %d", i)
	}
	assert.Equal(t, float32(0.005), common.Float32At(buf, 416))
	assert.Equal(t, float32(9), common.Float32At(buf, 424))
	assert.Equal(t, float32(1), common.Float32At(buf, 428))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(buf[432:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[436:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[444:]))
}

func TestMarshalLightBuffer(t *testing.T) {
	records := []GPUPointLight{
		{PositionRadius: mgl32.Vec4{1, 0, 0, 5}},
		{PositionRadius: mgl32.Vec4{2, 0, 0, 6}, Indices: [4]uint32{1, 1, 0, 0}},
	}

	buf := MarshalLightBuffer(records)
	require.Len(t, buf, 2*GPUPointLightSize)
	assert.Equal(t, records[0].Marshal(), buf[:GPUPointLightSize])
	assert.Equal(t, records[1].Marshal(), buf[GPUPointLightSize:])
	assert.Equal(t, float32(6), common.Float32At(buf, GPUPointLightSize+12))

	assert.Empty(t, MarshalLightBuffer(nil))
}

func TestGPUPointLightSourceDeclaresStruct(t *testing.T) {
	assert.Contains(t, GPUPointLightSource, "struct PointLight")
	assert.Contains(t, GPUPointLightSource, "array<mat4x4<f32>, 6>")
}
