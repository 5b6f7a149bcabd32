package converter

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const (
	defaultMaxImageWidth = 1200
	defaultJPEGQuality   = 85
	defaultMaxPixels     = 100 * 1000 * 1000 // decode guard, width * height
)

// ImageOptimizer normalizes page-scan images for the generated book:
// scans wider than MaxWidth are downscaled and re-encoded in their
// original format.
type ImageOptimizer struct {
	MaxWidth    int
	JPEGQuality int
	MaxPixels   int
}

// OptimizedImage holds the result of one optimization. Warning is set
// (non-empty) when the image was returned as-is because it could not be
// processed; Data is usable in both cases.
type OptimizedImage struct {
	Data    []byte
	Width   int
	Height  int
	Format  string
	Warning string
}

// NewImageOptimizer creates an optimizer with defaults applied for
// unset options.
func NewImageOptimizer(opts ConvertOptions) *ImageOptimizer {
	maxWidth := opts.MaxImageWidth
	if maxWidth <= 0 {
		maxWidth = defaultMaxImageWidth
	}

	quality := opts.JPEGQuality
	if quality <= 0 {
		quality = defaultJPEGQuality
	}
	if quality > 100 {
		quality = 100
	}

	return &ImageOptimizer{
		MaxWidth:    maxWidth,
		JPEGQuality: quality,
		MaxPixels:   defaultMaxPixels,
	}
}

// Optimize decodes and, when necessary, downscales image data. Images
// at or under MaxWidth pass through untouched. Decode failures and
// unsupported formats return the original data with Warning set; only
// an encoding failure returns a non-nil error.
func (o *ImageOptimizer) Optimize(path string, data []byte) (*OptimizedImage, error) {
	passthrough := func(warning string) *OptimizedImage {
		return &OptimizedImage{Data: data, Warning: warning}
	}

	cfg, formatName, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return passthrough(fmt.Sprintf("could not decode %s: %v", path, err)), nil
	}
	if cfg.Width*cfg.Height > o.MaxPixels {
		return passthrough(fmt.Sprintf("%s exceeds pixel limit (%dx%d)", path, cfg.Width, cfg.Height)), nil
	}
	if cfg.Width <= o.MaxWidth {
		return &OptimizedImage{Data: data, Width: cfg.Width, Height: cfg.Height, Format: formatName}, nil
	}

	format, err := imaging.FormatFromExtension(filepath.Ext(path))
	if err != nil {
		return passthrough(fmt.Sprintf("unsupported image format for %s", path)), nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return passthrough(fmt.Sprintf("could not decode %s: %v", path, err)), nil
	}

	resized := imaging.Resize(img, o.MaxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(o.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", path, err)
	}

	bounds := resized.Bounds()
	return &OptimizedImage{
		Data:   buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: formatName,
	}, nil
}
