package cubemap

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-cubemap-sh/pkg/core"
)

// ErrInvalidFace is returned for face indices outside [0, 5]
var ErrInvalidFace = errors.New("cubemap: invalid face index")

// TexelCoord maps a texel index to the [-1, 1] face coordinate of its center
func TexelCoord(index int, invSize float64) float64 {
	return 2*(float64(index)+0.5)*invSize - 1
}

// areaElement is the projected area on the unit sphere of the face rectangle
// from the face center to (x, y)
func areaElement(x, y float64) float64 {
	return math.Atan2(x*y, math.Sqrt(x*x+y*y+1))
}

// TexelSolidAngle returns the solid angle subtended by texel (u, v) of a face
// with 1/size = invSize. From AMD CubeMapGen via Rory Driscoll's
// "Cubemap Texel Solid Angle".
func TexelSolidAngle(u, v int, invSize float64) float64 {
	cu := TexelCoord(u, invSize)
	cv := TexelCoord(v, invSize)

	// Texel corners are half a texel (invSize in [-1, 1] units) from the center
	x0 := cu - invSize
	y0 := cv - invSize
	x1 := cu + invSize
	y1 := cv + invSize

	return areaElement(x0, y0) - areaElement(x0, y1) - areaElement(x1, y0) + areaElement(x1, y1)
}

// FaceDirection returns the unit direction through the center of texel
// (u, v) of the given face.
//
// The face files are read with the following axis assignment:
// px looks down +Z, nx down -Z, py down +Y, ny down -Y, pz down +X and
// nz down -X.
func FaceDirection(face Face, u, v int, invSize float64) (core.Vec3, error) {
	cu := TexelCoord(u, invSize)
	cv := TexelCoord(v, invSize)

	var dir core.Vec3
	switch face {
	case FacePosX:
		dir = core.NewVec3(-cu, -cv, 1)
	case FaceNegX:
		dir = core.NewVec3(cu, -cv, -1)
	case FacePosY:
		dir = core.NewVec3(cv, 1, cu)
	case FaceNegY:
		dir = core.NewVec3(-cv, -1, cu)
	case FacePosZ:
		dir = core.NewVec3(1, -cv, cu)
	case FaceNegZ:
		dir = core.NewVec3(-1, -cv, -cu)
	default:
		return core.Vec3{}, fmt.Errorf("%w: %d", ErrInvalidFace, int(face))
	}
	return dir.Normalize(), nil
}
