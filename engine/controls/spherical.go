package controls

import (
	"math"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/go-gl/mathgl/mgl64"
)

// Spherical is a point relative to an origin in a +Y-up basis.
// Phi is the polar angle from +Y, Theta the azimuth around +Y measured from +Z.
type Spherical struct {
	Radius float64
	Phi    float64
	Theta  float64
}

// SphericalFromVec3 converts a cartesian offset into spherical coordinates.
// A zero vector yields all-zero angles.
//
// Parameters:
//   - v: the offset to convert
//
// Returns:
//   - Spherical: the equivalent spherical coordinates
func SphericalFromVec3(v mgl64.Vec3) Spherical {
	s := Spherical{Radius: v.Len()}
	if s.Radius == 0 {
		return s
	}
	s.Theta = math.Atan2(v[0], v[2])
	s.Phi = math.Acos(mgl64.Clamp(v[1]/s.Radius, -1, 1))
	return s
}

// Vec3 converts back to a cartesian offset.
func (s Spherical) Vec3() mgl64.Vec3 {
	sinPhiRadius := math.Sin(s.Phi) * s.Radius
	return mgl64.Vec3{
		sinPhiRadius * math.Sin(s.Theta),
		math.Cos(s.Phi) * s.Radius,
		sinPhiRadius * math.Cos(s.Theta),
	}
}

// MakeSafe keeps Phi strictly inside (0, π) so the azimuth stays defined.
func (s Spherical) MakeSafe() Spherical {
	s.Phi = math.Max(common.Epsilon, math.Min(math.Pi-common.Epsilon, s.Phi))
	return s
}
