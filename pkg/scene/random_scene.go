package scene

import (
	"math/rand"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// Glass index used throughout the random scene
const crownGlassIndex = 1.52

// NewRandomScene creates the classic field of small random spheres around three
// large ones. The layout depends only on seed.
func NewRandomScene(seed int64, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	lookFrom := core.NewVec3(13, 2, 3)
	lookAt := core.NewVec3(0, 0, 0)
	defaultCameraConfig := renderer.CameraConfig{
		LookFrom:      lookFrom,
		LookAt:        lookAt,
		VUp:           core.NewVec3(0, 1, 0),
		VFov:          20,
		AspectRatio:   1200.0 / 800.0,
		Aperture:      0.1,
		FocusDistance: 10,
	}

	s, err := newScene(1200, 800, defaultCameraConfig, cameraOverrides)
	if err != nil {
		return nil, err
	}

	random := rand.New(rand.NewSource(seed))

	s.Shapes.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	// Small spheres keep clear of this point so they don't crowd the big metal sphere
	clearance := core.NewVec3(4, 0, 2)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				0.2,
				float64(b)+0.9*random.Float64(),
			)
			if center.Subtract(clearance).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case chooseMat < 0.8:
				mat = material.NewLambertian(core.NewVec3(
					random.Float64()*random.Float64(),
					random.Float64()*random.Float64(),
					random.Float64()*random.Float64(),
				))
			case chooseMat < 0.95:
				albedo := core.NewVec3(
					0.5*(1+random.Float64()),
					0.5*(1+random.Float64()),
					0.5*(1+random.Float64()),
				)
				mat = material.NewMetal(albedo, 0.5*random.Float64())
			default:
				mat = material.NewDielectric(crownGlassIndex)
			}
			s.Shapes.Add(geometry.NewSphere(center, 0.2, mat))
		}
	}

	s.Shapes.Add(geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewDielectric(crownGlassIndex)))
	s.Shapes.Add(geometry.NewSphere(core.NewVec3(-4, 1, 0), 1, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))))
	s.Shapes.Add(geometry.NewSphere(core.NewVec3(4, 1, 0), 1, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0)))

	return s, nil
}
