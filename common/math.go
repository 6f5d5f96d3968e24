package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the shared threshold for "meaningful" changes in camera math:
// the minimum squared displacement that counts as movement and the margin kept
// between the polar angle and the poles.
const Epsilon = 0.000001

// Mat4ToFloat32 narrows a float64 matrix to the float32 layout used by GPU uniforms.
// Both layouts are column-major.
//
// Parameters:
//   - m: the source matrix
//
// Returns:
//   - [16]float32: the narrowed matrix
func Mat4ToFloat32(m mgl64.Mat4) [16]float32 {
	var out [16]float32
	for i := range 16 {
		out[i] = float32(m[i])
	}
	return out
}

// Vec3ToFloat32 narrows a float64 vector to three float32 components.
//
// Parameters:
//   - v: the source vector
//
// Returns:
//   - [3]float32: the narrowed vector
func Vec3ToFloat32(v mgl64.Vec3) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

// LookAtRotation builds the rotation that orients an object at eye so that its
// local -Z axis points at center, keeping local +Y as close to up as possible.
// This is the inverse rotation of a view matrix.
//
// If eye and center coincide the forward axis falls back to +Z. If up is parallel
// to the view direction the forward axis is nudged so that a right axis exists.
//
// Parameters:
//   - eye: the object position
//   - center: the point to look at
//   - up: the preferred up direction
//
// Returns:
//   - mgl64.Quat: the normalized orientation
func LookAtRotation(eye, center, up mgl64.Vec3) mgl64.Quat {
	z := eye.Sub(center)
	if z.LenSqr() == 0 {
		z = mgl64.Vec3{0, 0, 1}
	}
	z = z.Normalize()

	x := up.Cross(z)
	if x.LenSqr() == 0 {
		// up and z are parallel
		if math.Abs(up[2]) == 1 {
			z[0] += 0.0001
		} else {
			z[2] += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	m := mgl64.Mat3FromCols(x, y, z).Mat4()
	return mgl64.Mat4ToQuat(m).Normalize()
}
