package renderer

import (
	"image"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

func TestTileRenderer_FillsToTargetSamples(t *testing.T) {
	scene := newTestScene(t, geometry.NewShapeList(), 1)
	mock := &MockIntegrator{returnColor: core.NewVec3(0.25, 0.5, 1)}
	tr := NewTileRenderer(scene, mock, 8, 8)
	pixelStats := NewPixelStatsGrid(8, 8)
	bounds := image.Rect(2, 2, 6, 5)
	sampler := core.NewSeededSampler(1)

	stats := tr.RenderTileBounds(bounds, pixelStats, sampler, 3)

	if mock.callCount.Load() != int64(bounds.Dx()*bounds.Dy()*3) {
		t.Errorf("Expected %d integrator calls, got %d", bounds.Dx()*bounds.Dy()*3, mock.callCount.Load())
	}
	if stats.TotalPixels != 12 || stats.TotalSamples != 36 {
		t.Errorf("Expected 12 pixels and 36 samples, got %d and %d", stats.TotalPixels, stats.TotalSamples)
	}
	if stats.MinSamples != 3 || stats.MaxSamplesUsed != 3 || stats.AverageSamples != 3 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			inside := image.Pt(x, y).In(bounds)
			count := pixelStats[y][x].SampleCount
			if inside && count != 3 {
				t.Errorf("Pixel (%d,%d) inside bounds has %d samples", x, y, count)
			}
			if !inside && count != 0 {
				t.Errorf("Pixel (%d,%d) outside bounds was sampled", x, y)
			}
		}
	}

	if got := pixelStats[3][3].GetColor(); !got.Equals(core.NewVec3(0.25, 0.5, 1)) {
		t.Errorf("Expected averaged color (0.25, 0.5, 1), got %v", got)
	}
}

func TestTileRenderer_OnlyTopsUpMissingSamples(t *testing.T) {
	scene := newTestScene(t, geometry.NewShapeList(), 1)
	mock := &MockIntegrator{returnColor: core.NewVec3(1, 1, 1)}
	tr := NewTileRenderer(scene, mock, 4, 4)
	pixelStats := NewPixelStatsGrid(4, 4)
	bounds := image.Rect(0, 0, 4, 4)
	sampler := core.NewSeededSampler(1)

	tests := []struct {
		target        int
		expectedCalls int64
	}{
		{2, 32},
		{2, 32}, // already satisfied
		{5, 80},
		{1, 80}, // lower target never removes samples
	}

	for _, tt := range tests {
		stats := tr.RenderTileBounds(bounds, pixelStats, sampler, tt.target)
		if mock.callCount.Load() != tt.expectedCalls {
			t.Errorf("Target %d: expected %d total calls, got %d", tt.target, tt.expectedCalls, mock.callCount.Load())
		}
		if stats.MaxSamplesUsed < tt.target {
			t.Errorf("Target %d: pixels hold only %d samples", tt.target, stats.MaxSamplesUsed)
		}
	}
}

func TestTileRenderer_TopRowLooksUp(t *testing.T) {
	scene := newTestScene(t, geometry.NewShapeList(), 1)
	mock := &MockIntegrator{recordRays: true}
	tr := NewTileRenderer(scene, mock, 1, 4)
	pixelStats := NewPixelStatsGrid(1, 4)
	sampler := core.NewSeededSampler(3)

	tr.RenderTileBounds(image.Rect(0, 0, 1, 1), pixelStats, sampler, 8)
	for _, ray := range mock.rays {
		if ray.Direction.Y <= 0 {
			t.Errorf("Top row ray should point up, got %v", ray.Direction)
		}
	}

	mock.rays = nil
	tr.RenderTileBounds(image.Rect(0, 3, 1, 4), pixelStats, sampler, 8)
	for _, ray := range mock.rays {
		if ray.Direction.Y >= 0 {
			t.Errorf("Bottom row ray should point down, got %v", ray.Direction)
		}
	}
}

func TestNewSceneIntegrator_UsesSceneSettings(t *testing.T) {
	scene := newTestScene(t, geometry.NewShapeList(), 1)
	scene.sampling.MaxDepth = 7
	scene.background.Top = core.NewVec3(0, 0, 1)

	config := NewSceneIntegrator(scene).Config()
	if config.MaxDepth != 7 {
		t.Errorf("Expected max depth 7, got %d", config.MaxDepth)
	}
	if !config.Background.Top.Equals(core.NewVec3(0, 0, 1)) {
		t.Errorf("Expected scene background, got %v", config.Background)
	}
}
