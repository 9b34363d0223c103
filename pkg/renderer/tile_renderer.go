package renderer

import (
	"image"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
)

// TileRenderer renders rectangular regions of the image using an integrator.
// It holds no per-call state, so one instance can serve many workers.
type TileRenderer struct {
	scene         Scene
	integrator    integrator.Integrator
	width, height int
}

// NewTileRenderer creates a tile renderer for a width x height image of scene
func NewTileRenderer(scene Scene, integratorInst integrator.Integrator, width, height int) *TileRenderer {
	return &TileRenderer{
		scene:      scene,
		integrator: integratorInst,
		width:      width,
		height:     height,
	}
}

// NewSceneIntegrator builds the path tracer configured by the scene's depth limit and sky
func NewSceneIntegrator(scene Scene) *integrator.PathTracingIntegrator {
	return integrator.NewPathTracingIntegrator(integrator.Config{
		MaxDepth:   scene.GetSamplingConfig().MaxDepth,
		Background: scene.GetBackground(),
	})
}

// RenderTileBounds samples every pixel within bounds until it holds targetSamples samples.
// Pixels that already have that many are left alone.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	camera := tr.scene.GetCamera()
	world := tr.scene.GetWorld()
	stats := newRenderStats(bounds.Dx()*bounds.Dy(), targetSamples)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pixelStats[y][x]
			for ps.SampleCount < targetSamples {
				ray := tr.primaryRay(camera, x, y, sampler)
				ps.AddSample(tr.integrator.RayColor(ray, world, sampler))
			}
			stats.record(ps.SampleCount)
		}
	}

	stats.finalize()
	return stats
}

// primaryRay jitters within pixel (x, y). Image row 0 is the top of the
// viewport, so rows are flipped into the camera's bottom-up t coordinate.
func (tr *TileRenderer) primaryRay(camera *Camera, x, y int, sampler core.Sampler) core.Ray {
	jitter := sampler.Get2D()
	s := (float64(x) + jitter.X) / float64(tr.width)
	t := (float64(tr.height-1-y) + jitter.Y) / float64(tr.height)
	return camera.GetRay(s, t, sampler)
}
