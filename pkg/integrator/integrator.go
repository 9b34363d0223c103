package integrator

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// World is anything that answers nearest-hit queries, typically a *geometry.ShapeList
type World interface {
	Hit(ray core.Ray, tMin, tMax float64) (material.HitResult, bool)
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the linear-space color carried back along a camera ray
	RayColor(ray core.Ray, world World, sampler core.Sampler) core.Vec3
}

// Background is the sky seen by rays that escape the scene:
// a vertical blend from Bottom (looking straight down) to Top (straight up).
type Background struct {
	Top    core.Vec3
	Bottom core.Vec3
}

// DefaultBackground returns the white-to-sky-blue gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Color returns the gradient color based on ray direction
func (b Background) Color(r core.Ray) core.Vec3 {
	// Normalize the ray direction to get consistent results
	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return b.Bottom.Multiply(1.0 - t).Add(b.Top.Multiply(t))
}
