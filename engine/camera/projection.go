package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ProjectionKind identifies which projection variant a camera carries.
type ProjectionKind int

const (
	// ProjectionUnknown is reported for a nil projection.
	ProjectionUnknown ProjectionKind = iota
	// ProjectionPerspective identifies a Perspective projection.
	ProjectionPerspective
	// ProjectionOrthographic identifies an Orthographic projection.
	ProjectionOrthographic
)

func (k ProjectionKind) String() string {
	switch k {
	case ProjectionPerspective:
		return "perspective"
	case ProjectionOrthographic:
		return "orthographic"
	default:
		return "unknown"
	}
}

// Projection is a closed union of the two supported projection variants,
// Perspective and Orthographic. Consumers select variant-specific math with a
// type switch; a nil Projection means the camera type is unsupported.
type Projection interface {
	// Kind returns the variant tag.
	//
	// Returns:
	//   - ProjectionKind: the projection variant
	Kind() ProjectionKind

	// Matrix builds the projection matrix for the given zoom factor.
	//
	// Parameters:
	//   - zoom: the camera zoom factor (1 = unzoomed)
	//
	// Returns:
	//   - mgl64.Mat4: the projection matrix (OpenGL clip conventions)
	Matrix(zoom float64) mgl64.Mat4

	sealed()
}

// Perspective is a symmetric perspective frustum.
type Perspective struct {
	// FovY is the vertical field of view in radians.
	FovY float64
	// Aspect is the viewport aspect ratio (width / height).
	Aspect float64
	// Near is the near clipping plane distance.
	Near float64
	// Far is the far clipping plane distance.
	Far float64
}

// Orthographic is an axis-aligned box projection. The extents are in view-space
// units at zoom 1; zooming divides the visible extent.
type Orthographic struct {
	Left, Right float64
	Top, Bottom float64
	Near, Far   float64
}

var (
	_ Projection = Perspective{}
	_ Projection = Orthographic{}
)

func (Perspective) Kind() ProjectionKind  { return ProjectionPerspective }
func (Orthographic) Kind() ProjectionKind { return ProjectionOrthographic }

func (Perspective) sealed()  {}
func (Orthographic) sealed() {}

// ZoomedFovY returns the vertical field of view at the given zoom. Zoom scales
// the visible half-height, tan(fov/2), so zoom 2 shows half the extent.
// Non-positive zoom is treated as 1.
func (p Perspective) ZoomedFovY(zoom float64) float64 {
	if zoom <= 0 {
		return p.FovY
	}
	return 2 * math.Atan(math.Tan(p.FovY/2)/zoom)
}

// Matrix builds the perspective matrix with the field of view narrowed by zoom.
func (p Perspective) Matrix(zoom float64) mgl64.Mat4 {
	return mgl64.Perspective(p.ZoomedFovY(zoom), p.Aspect, p.Near, p.Far)
}

// Matrix builds the orthographic matrix with the visible extent divided by zoom,
// centered on the configured box.
func (o Orthographic) Matrix(zoom float64) mgl64.Mat4 {
	if zoom <= 0 {
		zoom = 1
	}
	dx := (o.Right - o.Left) / (2 * zoom)
	dy := (o.Top - o.Bottom) / (2 * zoom)
	cx := (o.Right + o.Left) / 2
	cy := (o.Top + o.Bottom) / 2
	return mgl64.Ortho(cx-dx, cx+dx, cy-dy, cy+dy, o.Near, o.Far)
}

// Width returns the horizontal extent of the box at zoom 1.
func (o Orthographic) Width() float64 { return o.Right - o.Left }

// Height returns the vertical extent of the box at zoom 1.
func (o Orthographic) Height() float64 { return o.Top - o.Bottom }

// FitAspect returns a copy of the projection fitted to a new viewport aspect
// ratio. Orthographic boxes keep their height and recompute their width.
//
// Parameters:
//   - p: the projection to adapt (may be nil)
//   - aspect: the new aspect ratio (width / height)
//
// Returns:
//   - Projection: the adapted projection, or p unchanged if nil or aspect <= 0
func FitAspect(p Projection, aspect float64) Projection {
	if aspect <= 0 {
		return p
	}
	switch v := p.(type) {
	case Perspective:
		v.Aspect = aspect
		return v
	case Orthographic:
		halfW := v.Height() * aspect / 2
		cx := (v.Right + v.Left) / 2
		v.Left, v.Right = cx-halfW, cx+halfW
		return v
	default:
		return p
	}
}
