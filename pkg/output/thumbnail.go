package output

import (
	"image"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// Thumbnail scales img down to the given width, keeping the aspect ratio.
// Images already narrower than width are returned unchanged.
func Thumbnail(img image.Image, width int) image.Image {
	if width <= 0 || img.Bounds().Dx() <= width {
		return img
	}
	return resize.Resize(uint(width), 0, img, resize.Lanczos3)
}

// ThumbnailPath derives the thumbnail file name from the render's path: out/render.png -> out/render_thumb.png
func ThumbnailPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_thumb" + ext
}
