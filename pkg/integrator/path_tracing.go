package integrator

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

const (
	// DefaultMaxDepth is the bounce budget for a camera ray
	DefaultMaxDepth = 50
	// DefaultShadowEpsilon excludes hits caused by roundoff at the previous bounce point
	DefaultShadowEpsilon = 0.001
)

// Config controls path termination and the escape color
type Config struct {
	MaxDepth      int        // Bounces after which a hit contributes black
	ShadowEpsilon float64    // Lower bound on hit distance
	Background    Background // Color for rays that leave the scene
}

// DefaultConfig returns the standard settings
func DefaultConfig() Config {
	return Config{
		MaxDepth:      DefaultMaxDepth,
		ShadowEpsilon: DefaultShadowEpsilon,
		Background:    DefaultBackground(),
	}
}

// PathTracingIntegrator implements unidirectional path tracing without light sampling:
// all light comes from the background gradient.
type PathTracingIntegrator struct {
	config Config
}

// NewPathTracingIntegrator creates a new path tracing integrator.
// Non-positive MaxDepth or ShadowEpsilon fall back to the defaults.
func NewPathTracingIntegrator(config Config) *PathTracingIntegrator {
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultMaxDepth
	}
	if config.ShadowEpsilon <= 0 {
		config.ShadowEpsilon = DefaultShadowEpsilon
	}
	return &PathTracingIntegrator{config: config}
}

// Config returns the integrator settings
func (pt *PathTracingIntegrator) Config() Config {
	return pt.config
}

// RayColor computes the color for a camera ray starting at bounce zero
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world World, sampler core.Sampler) core.Vec3 {
	return pt.Trace(ray, world, 0, sampler)
}

// Trace computes the color of a ray that has already bounced depth times.
//
// A miss returns the background, a hit once the bounce budget is spent returns black,
// and an absorbed ray returns black. Otherwise the scattered ray is followed and its color
// is multiplied by the attenuation. The recursion is unrolled into a loop that keeps the
// product of attenuations in throughput, so stack use does not grow with depth.
func (pt *PathTracingIntegrator) Trace(ray core.Ray, world World, depth int, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)

	for {
		hit, isHit := world.Hit(ray, pt.config.ShadowEpsilon, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(pt.config.Background.Color(ray))
		}

		// Bounce budget exhausted
		if depth >= pt.config.MaxDepth {
			return core.Vec3{X: 0, Y: 0, Z: 0}
		}

		scatter, didScatter := hit.Material.Scatter(ray, hit.Record, sampler)
		if !didScatter {
			return core.Vec3{X: 0, Y: 0, Z: 0}
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
		depth++
	}
}
