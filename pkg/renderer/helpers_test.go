package renderer

import (
	"sync/atomic"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// testScene is a minimal Scene for renderer tests
type testScene struct {
	camera     *Camera
	world      integrator.World
	background integrator.Background
	sampling   SamplingConfig
}

func (s *testScene) GetCamera() *Camera                   { return s.camera }
func (s *testScene) GetWorld() integrator.World           { return s.world }
func (s *testScene) GetBackground() integrator.Background { return s.background }
func (s *testScene) GetSamplingConfig() SamplingConfig    { return s.sampling }

// newTestScene looks down -Z from the origin with a 90 degree pinhole camera
func newTestScene(t *testing.T, world integrator.World, aspect float64) *testScene {
	t.Helper()
	camera, err := NewCamera(CameraConfig{
		LookFrom:      core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		VUp:           core.NewVec3(0, 1, 0),
		VFov:          90,
		AspectRatio:   aspect,
		Aperture:      0,
		FocusDistance: 1,
	})
	if err != nil {
		t.Fatalf("Failed to create camera: %v", err)
	}
	return &testScene{
		camera:     camera,
		world:      world,
		background: integrator.DefaultBackground(),
		sampling:   SamplingConfig{SamplesPerPixel: 4, MaxDepth: 10},
	}
}

// sphereWorld is a single diffuse sphere in front of the camera above a ground sphere
func sphereWorld() *geometry.ShapeList {
	return geometry.NewShapeList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0))),
	)
}

// MockIntegrator returns a fixed color and counts calls
type MockIntegrator struct {
	returnColor core.Vec3
	callCount   atomic.Int64
	rays        []core.Ray
	recordRays  bool
}

func (m *MockIntegrator) RayColor(ray core.Ray, world integrator.World, sampler core.Sampler) core.Vec3 {
	m.callCount.Add(1)
	if m.recordRays {
		m.rays = append(m.rays, ray)
	}
	return m.returnColor
}

// panicWorld fails every intersection query
type panicWorld struct{}

func (panicWorld) Hit(ray core.Ray, tMin, tMax float64) (material.HitResult, bool) {
	panic("intersection failed")
}
