package material

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Material interface for objects that can scatter rays.
// Returning false means the ray was absorbed.
type Material interface {
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point  core.Vec3 // Point of intersection
	Normal core.Vec3 // Outward surface normal at intersection
	T      float64   // Parameter t along the ray
}

// HitResult pairs a hit record with the material of the shape that produced it.
// Material refers to the shape's own material and is only meaningful for the
// query that returned it.
type HitResult struct {
	Record   HitRecord
	Material Material
}
