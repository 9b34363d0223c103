package output

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Quantize converts one averaged linear channel to 8 bits:
// square-root gamma, clamp to [0,1], then truncate channel*255.99.
func Quantize(channel float64) uint8 {
	if math.IsNaN(channel) || channel <= 0 {
		return 0
	}
	v := min(math.Sqrt(channel), 1.0)
	return uint8(255.99 * v)
}

// ColorToRGBA converts an averaged linear-space color to an opaque 8-bit pixel
func ColorToRGBA(c core.Vec3) color.RGBA {
	return color.RGBA{
		R: Quantize(c.X),
		G: Quantize(c.Y),
		B: Quantize(c.Z),
		A: 255,
	}
}

// Average divides an accumulated color by its sample count
func Average(accum core.Vec3, samples int) core.Vec3 {
	if samples <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return accum.Multiply(1.0 / float64(samples))
}

// ImageFromColors builds an RGBA image from a row-major grid of averaged linear colors.
// Row 0 is the top of the image.
func ImageFromColors(width, height int, colorAt func(x, y int) core.Vec3) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, ColorToRGBA(colorAt(x, y)))
		}
	}
	return img
}
