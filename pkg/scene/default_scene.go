package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// defaultCamera frames the three spheres around (0,0,-1) from above and to the left
func defaultCamera() renderer.CameraConfig {
	lookFrom := core.NewVec3(-2, 2, 1)
	lookAt := core.NewVec3(0, 0, -1)
	return renderer.CameraConfig{
		LookFrom:      lookFrom,
		LookAt:        lookAt,
		VUp:           core.NewVec3(0, 1, 0),
		VFov:          40,
		AspectRatio:   2,
		Aperture:      0,
		FocusDistance: distance(lookFrom, lookAt),
	}
}

// NewDefaultScene creates a row of diffuse, fuzzy metal and diamond spheres on a large yellow ground sphere
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	s, err := newScene(400, 200, defaultCamera(), cameraOverrides)
	if err != nil {
		return nil, err
	}

	s.Shapes.Add(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.8, 0.3, 0.3))))
	s.Shapes.Add(geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0))))
	s.Shapes.Add(geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 1.0)))
	s.Shapes.Add(geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewDielectric(2.4)))

	return s, nil
}

// NewHollowGlassScene replaces the diamond with a glass bubble: a glass sphere
// containing a slightly smaller one with negative radius, whose inward normals
// make it act as the inner surface of a thin shell.
func NewHollowGlassScene(cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	s, err := newScene(400, 200, defaultCamera(), cameraOverrides)
	if err != nil {
		return nil, err
	}

	glass := material.NewDielectric(1.5)
	bubbleCenter := core.NewVec3(-1, 0, -1)

	s.Shapes.Add(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))))
	s.Shapes.Add(geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0))))
	s.Shapes.Add(geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)))
	s.Shapes.Add(geometry.NewSphere(bubbleCenter, 0.5, glass))
	s.Shapes.Add(geometry.NewSphere(bubbleCenter, -0.45, glass))

	return s, nil
}
