// Package cubemap projects six-face cubemaps of radiance onto Spherical
// Harmonics.
package cubemap

import "fmt"

// Face identifies one of the six cubemap faces
type Face int

// Faces in file order. Aggregation reduces per-face results in this order.
const (
	FacePosX Face = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// NumFaces is the number of faces of a cubemap
const NumFaces = 6

// AllFaces lists every face in reduction order
var AllFaces = [NumFaces]Face{FacePosX, FaceNegX, FacePosY, FaceNegY, FacePosZ, FaceNegZ}

var faceNames = [NumFaces]string{"px", "nx", "py", "ny", "pz", "nz"}

// Valid reports whether f is one of the six faces
func (f Face) Valid() bool {
	return f >= FacePosX && f <= FaceNegZ
}

// String returns the short face name used in file names (px, nx, ...)
func (f Face) String() string {
	if !f.Valid() {
		return fmt.Sprintf("face(%d)", int(f))
	}
	return faceNames[f]
}

// FileName returns the face image file name for the given extension
func (f Face) FileName(ext string) string {
	return f.String() + "." + ext
}
