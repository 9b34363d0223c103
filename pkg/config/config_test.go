package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/output"
)

func mapLookup(values map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if cfg.Width != 1200 || cfg.Height != 800 {
		t.Errorf("Expected 1200x800, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.SamplesPerPixel != 50 || cfg.MaxDepth != 50 {
		t.Errorf("Expected 50 samples and depth 50, got %d and %d", cfg.SamplesPerPixel, cfg.MaxDepth)
	}
}

func TestLoadFrom_Precedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "RAYTRACER_WIDTH=320\nRAYTRACER_HEIGHT=240\nRAYTRACER_SCENE=default\nRAYTRACER_S3_BUCKET=from-file\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	env := mapLookup(map[string]string{
		"RAYTRACER_HEIGHT":  "180",
		"RAYTRACER_SAMPLES": "8",
	})

	cfg, err := LoadFrom(envFile, env, []string{"-samples", "4", "-seed", "7"})
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"file only", cfg.Width, 320},
		{"environment over file", cfg.Height, 180},
		{"flag over environment", cfg.SamplesPerPixel, 4},
		{"flag over default", cfg.Seed, int64(7)},
		{"file string", cfg.Scene, "default"},
		{"default kept", cfg.MaxDepth, 50},
		{"s3 from file", cfg.S3.Bucket, "from-file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestLoadFrom_MissingEnvFileIsIgnored(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.env")
	cfg, err := LoadFrom(missing, mapLookup(nil), nil)
	if err != nil {
		t.Fatalf("Expected missing env file to be ignored, got %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"non-numeric env", map[string]string{"RAYTRACER_WIDTH": "wide"}, nil},
		{"non-numeric seed", map[string]string{"RAYTRACER_SEED": "x"}, nil},
		{"unknown flag", nil, []string{"-bogus"}},
		{"zero width", nil, []string{"-width", "0"}},
		{"negative samples", nil, []string{"-samples", "-1"}},
		{"zero depth", map[string]string{"RAYTRACER_MAX_DEPTH": "0"}, nil},
		{"unknown format", nil, []string{"-format", "exr"}},
		{"output without extension", nil, []string{"-output", "render"}},
		{"negative workers", nil, []string{"-workers", "-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFrom("", mapLookup(tt.env), tt.args); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)

	cfg := Default()
	cfg.Format = "ppm"
	expected := filepath.Join("output", "random", "render_20240301_123045.ppm")
	if got := cfg.OutputPath(now); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}

	cfg.Output = "custom/spheres.jpg"
	if got := cfg.OutputPath(now); got != "custom/spheres.jpg" {
		t.Errorf("Expected explicit output path, got %s", got)
	}
	if got := cfg.OutputFormat(); got != output.FormatJPEG {
		t.Errorf("Expected extension to pick jpg, got %s", got)
	}
}

func TestPublishEnabled(t *testing.T) {
	cfg := Default()
	if cfg.PublishEnabled() {
		t.Error("Expected publishing disabled without a bucket")
	}
	cfg.S3.Bucket = "renders"
	if !cfg.PublishEnabled() {
		t.Error("Expected publishing enabled with a bucket")
	}
}

func TestUsage_ListsFlags(t *testing.T) {
	var sb strings.Builder
	Usage(&sb)
	for _, name := range []string{"-scene", "-samples", "-max-depth", "-s3-bucket"} {
		if !strings.Contains(sb.String(), name) {
			t.Errorf("Expected usage to mention %s", name)
		}
	}
}
