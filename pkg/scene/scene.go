package scene

import (
	"fmt"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	Shapes         *geometry.ShapeList // Objects in the scene
	Background     integrator.Background
	SamplingConfig renderer.SamplingConfig
	Width          int // Suggested image width
	Height         int // Suggested image height
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera { return s.Camera }

// GetWorld returns the shapes as a nearest-hit world
func (s *Scene) GetWorld() integrator.World { return s.Shapes }

// GetBackground returns the sky gradient
func (s *Scene) GetBackground() integrator.Background { return s.Background }

// GetSamplingConfig returns the scene's sampling settings
func (s *Scene) GetSamplingConfig() renderer.SamplingConfig { return s.SamplingConfig }

// newScene builds the camera from the default config merged with any override
func newScene(width, height int, defaultCamera renderer.CameraConfig, cameraOverrides []renderer.CameraConfig) (*Scene, error) {
	cameraConfig := defaultCamera
	if len(cameraOverrides) > 0 {
		cameraConfig = MergeCameraConfig(defaultCamera, cameraOverrides[0])
	}

	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return nil, fmt.Errorf("invalid camera: %w", err)
	}

	return &Scene{
		Camera:         camera,
		CameraConfig:   cameraConfig,
		Shapes:         geometry.NewShapeList(),
		Background:     integrator.DefaultBackground(),
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Width:          width,
		Height:         height,
	}, nil
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override renderer.CameraConfig) renderer.CameraConfig {
	result := base
	if !override.LookFrom.IsZero() {
		result.LookFrom = override.LookFrom
	}
	if !override.LookAt.IsZero() {
		result.LookAt = override.LookAt
	}
	if !override.VUp.IsZero() {
		result.VUp = override.VUp
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	return result
}

// AspectOverride is a camera override that only changes the aspect ratio to width/height
func AspectOverride(width, height int) renderer.CameraConfig {
	if width <= 0 || height <= 0 {
		return renderer.CameraConfig{}
	}
	return renderer.CameraConfig{AspectRatio: float64(width) / float64(height)}
}

// distance is the focus distance for a camera looking from one point at another
func distance(from, to core.Vec3) float64 {
	return from.Subtract(to).Length()
}
