// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// CubeFace indexes one of the six faces of a cubemap, in the order GPU APIs lay out cube layers.
type CubeFace int

const (
	CubeFacePosX CubeFace = iota
	CubeFaceNegX
	CubeFacePosY
	CubeFaceNegY
	CubeFacePosZ
	CubeFaceNegZ
)

// CubeFaceCount is the number of faces (and array layers) in a cubemap.
const CubeFaceCount = 6

// CubeFaces lists every face in layer order [+X, -X, +Y, -Y, +Z, -Z].
var CubeFaces = [CubeFaceCount]CubeFace{
	CubeFacePosX, CubeFaceNegX, CubeFacePosY, CubeFaceNegY, CubeFacePosZ, CubeFaceNegZ,
}

// cubeFaceBasis holds the look direction and up vector of each face.
// Up vectors follow the cubemap convention where +Y/-Y look along the Z axis.
var cubeFaceBasis = [CubeFaceCount][2]mgl32.Vec3{
	{{1, 0, 0}, {0, -1, 0}},
	{{-1, 0, 0}, {0, -1, 0}},
	{{0, 1, 0}, {0, 0, 1}},
	{{0, -1, 0}, {0, 0, -1}},
	{{0, 0, 1}, {0, -1, 0}},
	{{0, 0, -1}, {0, -1, 0}},
}

// Valid reports whether f is one of the six faces.
func (f CubeFace) Valid() bool {
	return f >= 0 && f < CubeFaceCount
}

// Direction returns the unit vector the face looks along.
func (f CubeFace) Direction() mgl32.Vec3 {
	return cubeFaceBasis[f][0]
}

// Up returns the up vector used when building the face's view matrix.
func (f CubeFace) Up() mgl32.Vec3 {
	return cubeFaceBasis[f][1]
}

func (f CubeFace) String() string {
	switch f {
	case CubeFacePosX:
		return "+X"
	case CubeFaceNegX:
		return "-X"
	case CubeFacePosY:
		return "+Y"
	case CubeFaceNegY:
		return "-Y"
	case CubeFacePosZ:
		return "+Z"
	case CubeFaceNegZ:
		return "-Z"
	default:
		return fmt.Sprintf("CubeFace(%d)", int(f))
	}
}
