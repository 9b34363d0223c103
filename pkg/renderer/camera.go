package renderer

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// CameraConfig describes a thin-lens camera
type CameraConfig struct {
	LookFrom      core.Vec3 // Eye position
	LookAt        core.Vec3 // Point the camera faces
	VUp           core.Vec3 // Approximate up direction
	VFov          float64   // Vertical field of view in degrees
	AspectRatio   float64   // Width / height
	Aperture      float64   // Lens diameter, 0 for a pinhole
	FocusDistance float64   // Distance to the plane of perfect focus
}

// Validate checks that the config describes a usable camera
func (c CameraConfig) Validate() error {
	if c.VFov <= 0 || c.VFov >= 180 {
		return fmt.Errorf("vertical fov must be in (0, 180) degrees, got %v", c.VFov)
	}
	if c.AspectRatio <= 0 {
		return fmt.Errorf("aspect ratio must be positive, got %v", c.AspectRatio)
	}
	if c.Aperture < 0 {
		return fmt.Errorf("aperture must not be negative, got %v", c.Aperture)
	}
	if c.FocusDistance <= 0 {
		return fmt.Errorf("focus distance must be positive, got %v", c.FocusDistance)
	}
	if c.LookFrom.Equals(c.LookAt) {
		return fmt.Errorf("camera look-from and look-at are the same point %v", c.LookFrom)
	}
	return nil
}

// Camera generates primary rays through a thin lens
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3
	lensRadius      float64
}

// NewCamera builds the camera frame from config
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	from := toMgl(config.LookFrom)
	w := from.Sub(toMgl(config.LookAt)).Normalize()
	side := toMgl(config.VUp).Cross(w)
	if side.Len() < 1e-12 {
		return nil, fmt.Errorf("camera up vector %v is parallel to the view direction", config.VUp)
	}
	u := side.Normalize()
	v := w.Cross(u)

	halfHeight := math.Tan(mgl64.DegToRad(config.VFov)/2) * config.FocusDistance
	halfWidth := config.AspectRatio * halfHeight

	lowerLeft := from.
		Sub(u.Mul(halfWidth)).
		Sub(v.Mul(halfHeight)).
		Sub(w.Mul(config.FocusDistance))

	return &Camera{
		origin:          config.LookFrom,
		lowerLeftCorner: fromMgl(lowerLeft),
		horizontal:      fromMgl(u.Mul(2 * halfWidth)),
		vertical:        fromMgl(v.Mul(2 * halfHeight)),
		u:               fromMgl(u),
		v:               fromMgl(v),
		w:               fromMgl(w),
		lensRadius:      config.Aperture / 2,
	}, nil
}

// GetRay returns the ray through viewport coordinates (s, t), where (0, 0) is
// the lower-left corner and (1, 1) the upper-right. The origin is jittered
// across the lens when the aperture is open.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRay(origin, direction)
}

// Basis returns the camera's right, up and backward unit vectors
func (c *Camera) Basis() (u, v, w core.Vec3) {
	return c.u, c.v, c.w
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
