package material

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Scatter implements the Material interface for dielectric scattering.
// It picks reflection or refraction stochastically and never absorbs.
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Clear glass does not tint
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	direction := rayIn.Direction
	dn := direction.Dot(hit.Normal)

	// Entering the medium by default (air to glass)
	outwardNormal := hit.Normal
	niOverNt := 1.0 / d.RefractiveIndex
	cosine := -dn / direction.Length()
	if dn > 0 {
		// Exiting the medium (glass to air)
		outwardNormal = hit.Normal.Negate()
		niOverNt = d.RefractiveIndex
		cosine *= -d.RefractiveIndex
	}

	reflectProb := 1.0
	refracted, canRefract := refract(direction, outwardNormal, niOverNt)
	if canRefract {
		reflectProb = Schlick(cosine, d.RefractiveIndex)
		// A matched index is an invisible interface
		if d.RefractiveIndex == 1.0 {
			reflectProb = 0
		}
	}

	scatterDirection := refracted
	if sampler.Get1D() < reflectProb {
		scatterDirection = reflect(direction, hit.Normal)
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: attenuation,
	}, true
}
