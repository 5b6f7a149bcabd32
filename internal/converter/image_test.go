package converter

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func makeSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func mustEncodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("jpeg encode failed: %v", err)
	}
	return buf.Bytes()
}

func mustEncodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestImageOptimizer_ResizeOverMaxWidth(t *testing.T) {
	data := mustEncodeJPEG(t, makeSolidNRGBA(1200, 800, color.NRGBA{R: 20, G: 50, B: 200, A: 255}), 90)
	opt := NewImageOptimizer(ConvertOptions{MaxImageWidth: 600})

	out, err := opt.Optimize("scan.jpg", data)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if out.Width != 600 || out.Height != 400 {
		t.Fatalf("got %dx%d, want 600x400", out.Width, out.Height)
	}
	if out.Warning != "" {
		t.Errorf("Warning = %q, want empty", out.Warning)
	}
}

func TestImageOptimizer_PassthroughUnderMaxWidth(t *testing.T) {
	data := mustEncodeJPEG(t, makeSolidNRGBA(500, 300, color.NRGBA{R: 100, G: 120, B: 140, A: 255}), 90)
	opt := NewImageOptimizer(ConvertOptions{MaxImageWidth: 600})

	out, err := opt.Optimize("scan.jpg", data)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if !bytes.Equal(out.Data, data) {
		t.Error("under-width image must pass through untouched")
	}
	if out.Width != 500 || out.Height != 300 {
		t.Errorf("got %dx%d, want 500x300", out.Width, out.Height)
	}
}

func TestImageOptimizer_PNGKeepsFormat(t *testing.T) {
	data := mustEncodePNG(t, makeSolidNRGBA(800, 400, color.NRGBA{R: 10, G: 80, B: 180, A: 255}))
	opt := NewImageOptimizer(ConvertOptions{MaxImageWidth: 600})

	out, err := opt.Optimize("scan.png", data)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if out.Format != "png" {
		t.Errorf("Format = %q, want png", out.Format)
	}
	if _, err := png.Decode(bytes.NewReader(out.Data)); err != nil {
		t.Errorf("output is not decodable PNG: %v", err)
	}
}

func TestImageOptimizer_UndecodableDataWarns(t *testing.T) {
	data := []byte("definitely not an image")
	opt := NewImageOptimizer(ConvertOptions{})

	out, err := opt.Optimize("scan.jpg", data)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if out.Warning == "" {
		t.Error("Warning should be set for undecodable data")
	}
	if !bytes.Equal(out.Data, data) {
		t.Error("undecodable data must pass through as-is")
	}
}

func TestNewImageOptimizer_Defaults(t *testing.T) {
	opt := NewImageOptimizer(ConvertOptions{})
	if opt.MaxWidth != defaultMaxImageWidth {
		t.Errorf("MaxWidth = %d, want %d", opt.MaxWidth, defaultMaxImageWidth)
	}
	if opt.JPEGQuality != defaultJPEGQuality {
		t.Errorf("JPEGQuality = %d, want %d", opt.JPEGQuality, defaultJPEGQuality)
	}
}
