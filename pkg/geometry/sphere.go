package geometry

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// Sphere represents a sphere shape.
// A negative radius keeps the same surface but turns the normals inward,
// which is how hollow glass is modelled.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit tests if a ray intersects with the sphere.
// The ray direction must be non-zero; a zero direction is reported as a miss.
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (material.HitResult, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	if a == 0 {
		return material.HitResult{}, false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant <= 0 {
		return material.HitResult{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return material.HitResult{}, false
		}
	}

	point := ray.At(root)
	return material.HitResult{
		Record: material.HitRecord{
			T:      root,
			Point:  point,
			Normal: point.Subtract(s.Center).Divide(s.Radius),
		},
		Material: s.Material,
	}, true
}

