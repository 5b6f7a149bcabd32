package converter

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yomu-dev/scan2book/internal/book"
)

// Format selects the output serializer.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// ConvertOptions holds options for the conversion pipeline.
type ConvertOptions struct {
	InputPath  string
	OutputPath string
	Format     Format

	// ImagesDir is the directory holding the images the document
	// references. Defaults to the input file's directory.
	ImagesDir     string
	MaxImageWidth int
	JPEGQuality   int

	// InlineMarkdown applies to FormatMarkdown only.
	InlineMarkdown bool
}

// Pipeline orchestrates reading the input, the optional provider
// stages, parsing, generation, and output writing.
type Pipeline struct {
	Options   ConvertOptions
	Extractor Extractor
	Enricher  Enricher
}

// NewPipeline creates a new conversion pipeline.
func NewPipeline(opts ConvertOptions) *Pipeline {
	if opts.Format == "" {
		opts.Format = FormatHTML
	}
	return &Pipeline{Options: opts}
}

// Convert executes the pipeline.
func (p *Pipeline) Convert(ctx context.Context) error {
	src, err := p.loadSource(ctx)
	if err != nil {
		return err
	}

	b, diags, err := book.Parse(src)
	if err != nil {
		return fmt.Errorf("failed to parse book: %w", err)
	}

	var out string
	switch p.Options.Format {
	case FormatMarkdown:
		out, err = GenerateMarkdown(b, MarkdownOptions{InlineMarkdown: p.Options.InlineMarkdown})
	case FormatHTML:
		out, err = GenerateHTML(b, diags)
	default:
		err = fmt.Errorf("unknown output format %q", p.Options.Format)
	}
	if err != nil {
		return err
	}

	for _, w := range diags.Warnings() {
		log.Printf("warning: %s", w.Message)
	}

	if err := os.WriteFile(p.Options.OutputPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if p.Options.Format == FormatHTML {
		p.materializeImages(b)
	}
	return nil
}

// loadSource resolves the input to dialect markdown. A directory input
// requires an Extractor and is treated as ordered page scans; a file
// input is read as-is. The Enricher, when configured, runs on either.
func (p *Pipeline) loadSource(ctx context.Context) (string, error) {
	info, err := os.Stat(p.Options.InputPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat input: %w", err)
	}

	var src string
	if info.IsDir() {
		if p.Extractor == nil {
			return "", fmt.Errorf("input %q is a directory but no extractor is configured", p.Options.InputPath)
		}
		scans, err := listScans(p.Options.InputPath)
		if err != nil {
			return "", err
		}
		src, err = p.Extractor.Extract(ctx, scans)
		if err != nil {
			return "", fmt.Errorf("extraction failed: %w", err)
		}
	} else {
		data, err := os.ReadFile(p.Options.InputPath)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		src = string(data)
	}

	if p.Enricher != nil {
		enriched, err := p.Enricher.Enrich(ctx, src)
		if err != nil {
			return "", fmt.Errorf("enrichment failed: %w", err)
		}
		src = enriched
	}
	return src, nil
}

// listScans returns the page-scan image paths in a directory, sorted by
// filename so page order follows scan numbering.
func listScans(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scans directory: %w", err)
	}
	var scans []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png", ".gif":
			scans = append(scans, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(scans)
	if len(scans) == 0 {
		return nil, fmt.Errorf("no page scans found in %q", dir)
	}
	return scans, nil
}

// materializeImages copies the images the book references next to the
// HTML output, downscaling oversized scans. Problems with individual
// images are reported and skipped; the document itself is already
// written.
func (p *Pipeline) materializeImages(b *book.Book) {
	srcDir := p.Options.ImagesDir
	if srcDir == "" {
		srcDir = filepath.Dir(p.Options.InputPath)
	}
	outDir := filepath.Dir(p.Options.OutputPath)
	if filepath.Clean(srcDir) == filepath.Clean(outDir) {
		return
	}

	optimizer := NewImageOptimizer(p.Options)
	seen := map[string]bool{}
	for _, img := range bookImages(b) {
		if seen[img.Src] || isExternalRef(img.Src) {
			continue
		}
		seen[img.Src] = true

		data, err := os.ReadFile(filepath.Join(srcDir, filepath.FromSlash(img.Src)))
		if err != nil {
			log.Printf("warning: failed to read image %q: %v, skipping", img.Src, err)
			continue
		}

		opt, err := optimizer.Optimize(img.Src, data)
		if err != nil {
			log.Printf("warning: failed to optimize image %q: %v, copying as-is", img.Src, err)
			opt = &OptimizedImage{Data: data}
		}
		if opt.Warning != "" {
			log.Printf("warning: %s", opt.Warning)
		}

		dst := filepath.Join(outDir, filepath.FromSlash(img.Src))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			log.Printf("warning: failed to create image directory for %q: %v, skipping", img.Src, err)
			continue
		}
		if err := os.WriteFile(dst, opt.Data, 0o644); err != nil {
			log.Printf("warning: failed to write image %q: %v, skipping", img.Src, err)
		}
	}
}

func bookImages(b *book.Book) []*book.Image {
	var images []*book.Image
	for _, p := range b.Pages {
		for _, el := range p.Elements {
			if img, ok := el.(*book.Image); ok {
				images = append(images, img)
			}
		}
	}
	return images
}

func isExternalRef(src string) bool {
	return strings.HasPrefix(src, "http://") ||
		strings.HasPrefix(src, "https://") ||
		strings.HasPrefix(src, "data:") ||
		filepath.IsAbs(src)
}
