package output

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Format is a raster output format
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpg"
	FormatGIF  Format = "gif"
	FormatTIFF Format = "tif"
	FormatBMP  Format = "bmp"
	FormatPPM  Format = "ppm"
)

var imagingFormats = map[Format]imaging.Format{
	FormatPNG:  imaging.PNG,
	FormatJPEG: imaging.JPEG,
	FormatGIF:  imaging.GIF,
	FormatTIFF: imaging.TIFF,
	FormatBMP:  imaging.BMP,
}

var contentTypes = map[Format]string{
	FormatPNG:  "image/png",
	FormatJPEG: "image/jpeg",
	FormatGIF:  "image/gif",
	FormatTIFF: "image/tiff",
	FormatBMP:  "image/bmp",
	FormatPPM:  "image/x-portable-pixmap",
}

// ParseFormat maps a format name or file extension ("png", ".jpeg", "PPM") to a Format
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	switch name {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "gif":
		return FormatGIF, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	case "ppm":
		return FormatPPM, nil
	}
	return "", fmt.Errorf("unsupported image format: %q", name)
}

// FormatFromPath picks the format from a file name's extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("no file extension in %q", path)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type for a format
func (f Format) ContentType() string {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Extension returns the file extension for a format, including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	if format == FormatPPM {
		return WritePPM(w, img)
	}

	imagingFormat, ok := imagingFormats[format]
	if !ok {
		return fmt.Errorf("unsupported image format: %q", format)
	}
	if err := imaging.Encode(w, img, imagingFormat, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// Save writes img to path, choosing the format from the extension and creating parent directories
func Save(img image.Image, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Encode(file, img, format); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
