package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/df07/go-sphere-pathtracer/pkg/output"
)

// EnvPrefix is prepended to every environment variable the raytracer reads
const EnvPrefix = "RAYTRACER_"

// Config holds everything needed for a single command-line render
type Config struct {
	Scene           string
	Width           int
	Height          int
	SamplesPerPixel int
	MaxDepth        int
	MaxPasses       int
	TileSize        int
	Workers         int // 0 means one per CPU
	Seed            int64
	Output          string // Empty derives output/<scene>/render_<timestamp>.<format>
	Format          string
	ThumbnailWidth  int // 0 disables the thumbnail
	S3              output.S3Config
}

// Default returns the settings of the classic random-spheres render
func Default() Config {
	return Config{
		Scene:           "random",
		Width:           1200,
		Height:          800,
		SamplesPerPixel: 50,
		MaxDepth:        50,
		MaxPasses:       5,
		TileSize:        64,
		Workers:         0,
		Seed:            42,
		Format:          string(output.FormatPNG),
		ThumbnailWidth:  0,
	}
}

// Lookup reads a single variable, reporting whether it was set
type Lookup func(key string) (string, bool)

// Load builds a Config from defaults, the .env file named by RAYTRACER_ENV_FILE
// (default ".env"), the process environment and finally args.
func Load(args []string) (Config, error) {
	envFile := ".env"
	if v, ok := os.LookupEnv(EnvPrefix + "ENV_FILE"); ok {
		envFile = v
	}
	return LoadFrom(envFile, os.LookupEnv, args)
}

// LoadFrom is Load with an explicit env file and environment.
// A missing env file is not an error. Variables in the environment win over the file.
func LoadFrom(envFile string, lookup Lookup, args []string) (Config, error) {
	cfg := Default()

	fileValues := map[string]string{}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileValues = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return cfg, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	merged := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok
	}

	if err := cfg.applyEnv(merged); err != nil {
		return cfg, err
	}

	flags := cfg.flagSet()
	flags.SetOutput(io.Discard)
	if err := flags.Parse(args); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Usage writes the flag reference to w
func Usage(w io.Writer) {
	cfg := Default()
	flags := cfg.flagSet()
	flags.SetOutput(w)
	flags.PrintDefaults()
}

func (c *Config) flagSet() *flag.FlagSet {
	flags := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	flags.StringVar(&c.Scene, "scene", c.Scene, "Scene to render: 'random', 'default' or 'hollow-glass'")
	flags.IntVar(&c.Width, "width", c.Width, "Image width in pixels")
	flags.IntVar(&c.Height, "height", c.Height, "Image height in pixels")
	flags.IntVar(&c.SamplesPerPixel, "samples", c.SamplesPerPixel, "Samples per pixel")
	flags.IntVar(&c.MaxDepth, "max-depth", c.MaxDepth, "Maximum number of bounces per path")
	flags.IntVar(&c.MaxPasses, "max-passes", c.MaxPasses, "Number of progressive passes")
	flags.IntVar(&c.TileSize, "tile-size", c.TileSize, "Tile edge length in pixels")
	flags.IntVar(&c.Workers, "workers", c.Workers, "Number of render workers (0 = one per CPU)")
	flags.Int64Var(&c.Seed, "seed", c.Seed, "Random seed for scene layout and sampling")
	flags.StringVar(&c.Output, "output", c.Output, "Output file (default output/<scene>/render_<timestamp>.<format>)")
	flags.StringVar(&c.Format, "format", c.Format, "Output format: png, jpg, gif, tif, bmp or ppm")
	flags.IntVar(&c.ThumbnailWidth, "thumbnail", c.ThumbnailWidth, "Also write a thumbnail of this width (0 = off)")
	flags.StringVar(&c.S3.Bucket, "s3-bucket", c.S3.Bucket, "Upload the render to this S3 bucket")
	flags.StringVar(&c.S3.Prefix, "s3-prefix", c.S3.Prefix, "Key prefix for uploaded renders")
	return flags
}

func (c *Config) applyEnv(lookup Lookup) error {
	stringVars := map[string]*string{
		"SCENE":         &c.Scene,
		"OUTPUT":        &c.Output,
		"FORMAT":        &c.Format,
		"S3_ACCESS_KEY": &c.S3.AccessKey,
		"S3_SECRET_KEY": &c.S3.SecretKey,
		"S3_ENDPOINT":   &c.S3.Endpoint,
		"S3_REGION":     &c.S3.Region,
		"S3_BUCKET":     &c.S3.Bucket,
		"S3_PREFIX":     &c.S3.Prefix,
		"S3_ACL":        &c.S3.ACL,
	}
	for key, dst := range stringVars {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	intVars := map[string]*int{
		"WIDTH":     &c.Width,
		"HEIGHT":    &c.Height,
		"SAMPLES":   &c.SamplesPerPixel,
		"MAX_DEPTH": &c.MaxDepth,
		"PASSES":    &c.MaxPasses,
		"TILE_SIZE": &c.TileSize,
		"WORKERS":   &c.Workers,
		"THUMBNAIL": &c.ThumbnailWidth,
	}
	for key, dst := range intVars {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}

	if v, ok := lookup(EnvPrefix + "SEED"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSEED: %w", EnvPrefix, err)
		}
		c.Seed = n
	}
	return nil
}

// Validate rejects settings no render can use
func (c Config) Validate() error {
	if c.Scene == "" {
		return fmt.Errorf("scene name is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	if c.MaxPasses <= 0 {
		return fmt.Errorf("max passes must be positive, got %d", c.MaxPasses)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("tile size must be positive, got %d", c.TileSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.ThumbnailWidth < 0 {
		return fmt.Errorf("thumbnail width must not be negative, got %d", c.ThumbnailWidth)
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Output != "" {
		if _, err := output.FormatFromPath(c.Output); err != nil {
			return err
		}
	}
	return nil
}

// OutputFormat is the format the render is saved in. An explicit output
// path's extension takes precedence over Format.
func (c Config) OutputFormat() output.Format {
	if c.Output != "" {
		if f, err := output.FormatFromPath(c.Output); err == nil {
			return f
		}
	}
	f, err := output.ParseFormat(c.Format)
	if err != nil {
		return output.FormatPNG
	}
	return f
}

// OutputPath returns where the render is written, deriving a timestamped
// name under output/<scene>/ when none was given.
func (c Config) OutputPath(now time.Time) string {
	if c.Output != "" {
		return c.Output
	}
	name := fmt.Sprintf("render_%s%s", now.Format("20060102_150405"), c.OutputFormat().Extension())
	return filepath.Join("output", c.Scene, name)
}

// PublishEnabled reports whether renders should be uploaded to S3
func (c Config) PublishEnabled() bool {
	return c.S3.Bucket != ""
}
