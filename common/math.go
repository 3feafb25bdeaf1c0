package common

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PutFloat32 writes v little-endian at buf[0:4].
func PutFloat32(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
}

// PutVec4 writes the four components of v little-endian at buf[0:16].
//
// Parameters:
//   - buf: destination, at least 16 bytes
//   - v: the vector to write
func PutVec4(buf []byte, v mgl32.Vec4) {
	for i := range 4 {
		PutFloat32(buf[i*4:], v[i])
	}
}

// PutMat4 writes m in column-major order at buf[0:64], matching WGSL mat4x4<f32>.
//
// Parameters:
//   - buf: destination, at least 64 bytes
//   - m: the matrix to write
func PutMat4(buf []byte, m mgl32.Mat4) {
	for i := range 16 {
		PutFloat32(buf[i*4:], m[i])
	}
}

// PutUVec4 writes four unsigned integers little-endian at buf[0:16].
func PutUVec4(buf []byte, v [4]uint32) {
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], v[i])
	}
}

// Float32At reads a little-endian float32 from buf[off:off+4].
func Float32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

// TRS composes a translation, rotation and scale into one model matrix (T * R * S).
//
// Parameters:
//   - position: the translation
//   - rotation: the orientation
//   - scale: the per-axis scale
//
// Returns:
//   - mgl32.Mat4: the composed matrix
func TRS(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	t := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	return t.Mul4(rotation.Normalize().Mat4()).Mul4(s)
}
