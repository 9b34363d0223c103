package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/config"
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/output"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// publisher uploads a finished render and returns where it went
type publisher interface {
	Publish(ctx context.Context, name string, img image.Image, format output.Format) (string, error)
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		printHelp()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		fmt.Fprintln(os.Stderr, "Options:")
		config.Usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var pub publisher
	if cfg.PublishEnabled() {
		s3Publisher, err := output.NewS3Publisher(cfg.S3)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		pub = s3Publisher
	}

	fmt.Println("Starting Sphere Path Tracer...")
	if _, err := run(ctx, cfg, renderer.NewDefaultLogger(), pub, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Sphere Path Tracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	config.Usage(os.Stdout)
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Printf("  %-13s %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("Every option can also be set with a RAYTRACER_* environment variable or in a .env file.")
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.<format> unless -output is given")
}

// createScene builds the configured scene framed for the configured image size
func createScene(cfg config.Config) (*scene.Scene, error) {
	s, err := scene.Lookup(cfg.Scene, cfg.Seed, scene.AspectOverride(cfg.Width, cfg.Height))
	if err != nil {
		return nil, err
	}
	s.SamplingConfig = renderer.SamplingConfig{
		SamplesPerPixel: cfg.SamplesPerPixel,
		MaxDepth:        cfg.MaxDepth,
	}
	return s, nil
}

// run renders cfg's scene progressively, saves the final pass and optionally
// a thumbnail, and uploads it when pub is set. It returns the saved path.
func run(ctx context.Context, cfg config.Config, logger core.Logger, pub publisher, now time.Time) (string, error) {
	s, err := createScene(cfg)
	if err != nil {
		return "", err
	}
	logger.Printf("Using %s scene (%d shapes) at %dx%d...\n", cfg.Scene, s.Shapes.Len(), cfg.Width, cfg.Height)

	progressiveConfig := renderer.ProgressiveConfig{
		TileSize:           cfg.TileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: cfg.SamplesPerPixel,
		MaxPasses:          min(cfg.MaxPasses, cfg.SamplesPerPixel),
		NumWorkers:         cfg.Workers,
		Seed:               cfg.Seed,
	}
	raytracer, err := renderer.NewProgressiveRaytracer(s, cfg.Width, cfg.Height, progressiveConfig, logger)
	if err != nil {
		return "", err
	}

	startTime := time.Now()
	passChan, _, errChan := raytracer.RenderProgressive(ctx, renderer.RenderOptions{})

	var final renderer.PassResult
	for pass := range passChan {
		final = pass
	}
	if err := <-errChan; err != nil {
		return "", fmt.Errorf("render failed: %w", err)
	}
	if final.Image == nil {
		return "", fmt.Errorf("render produced no image")
	}

	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		final.Stats.AverageSamples, final.Stats.MinSamples, final.Stats.MaxSamplesUsed)

	filename := cfg.OutputPath(now)
	if err := output.Save(final.Image, filename); err != nil {
		return "", err
	}
	logger.Printf("Render saved as %s\n", filename)

	if cfg.ThumbnailWidth > 0 {
		thumbName := output.ThumbnailPath(filename)
		if err := output.Save(output.Thumbnail(final.Image, cfg.ThumbnailWidth), thumbName); err != nil {
			return "", err
		}
		logger.Printf("Thumbnail saved as %s\n", thumbName)
	}

	if pub != nil {
		key, err := pub.Publish(ctx, filepath.Base(filename), final.Image, cfg.OutputFormat())
		if err != nil {
			return "", err
		}
		logger.Printf("Render uploaded to s3://%s/%s\n", cfg.S3.Bucket, key)
	}

	return filename, nil
}
