package renderer

import (
	"image"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/output"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns the classic 50 samples and 50 bounces
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 50,
		MaxDepth:        integrator.DefaultMaxDepth,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetWorld() integrator.World
	GetBackground() integrator.Background
	GetSamplingConfig() SamplingConfig
}

// Raytracer renders a whole image on the calling goroutine
type Raytracer struct {
	scene   Scene
	width   int
	height  int
	config  SamplingConfig
	sampler core.Sampler
}

// NewRaytracer creates a new raytracer using the scene's sampling config
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	return &Raytracer{
		scene:   scene,
		width:   width,
		height:  height,
		config:  scene.GetSamplingConfig(),
		sampler: core.NewSeededSampler(42), // Deterministic for testing
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SetSampler replaces the random source
func (rt *Raytracer) SetSampler(sampler core.Sampler) {
	rt.sampler = sampler
}

// RenderPass renders every pixel with the configured sample count and returns
// the tone-mapped image
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	integ := integrator.NewPathTracingIntegrator(integrator.Config{
		MaxDepth:   rt.config.MaxDepth,
		Background: rt.scene.GetBackground(),
	})
	tiles := NewTileRenderer(rt.scene, integ, rt.width, rt.height)

	pixelStats := NewPixelStatsGrid(rt.width, rt.height)
	stats := tiles.RenderTileBounds(image.Rect(0, 0, rt.width, rt.height), pixelStats, rt.sampler, rt.config.SamplesPerPixel)

	img := output.ImageFromColors(rt.width, rt.height, func(x, y int) core.Vec3 {
		return pixelStats[y][x].GetColor()
	})
	return img, stats
}
