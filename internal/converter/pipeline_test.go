package converter

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const pipelineTestDoc = `---
allTitles:
  en: Pipeline Book
languages:
  en: English
l1: en
---

<!-- page index=1 -->

![scan](images/page1.jpg){width=993}

<!-- text lang="en" -->

The cat sat.
`

func writeTestBook(t *testing.T, dir string) string {
	t.Helper()
	input := filepath.Join(dir, "book.md")
	if err := os.WriteFile(input, []byte(pipelineTestDoc), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	imgDir := filepath.Join(dir, "images")
	if err := os.MkdirAll(imgDir, 0o755); err != nil {
		t.Fatalf("failed to create images dir: %v", err)
	}
	data := mustEncodeJPEG(t, makeSolidNRGBA(400, 300, color.NRGBA{R: 200, G: 100, B: 50, A: 255}), 90)
	if err := os.WriteFile(filepath.Join(imgDir, "page1.jpg"), data, 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return input
}

func TestPipeline_ConvertHTML(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	input := writeTestBook(t, srcDir)
	output := filepath.Join(outDir, "book.html")

	p := NewPipeline(ConvertOptions{InputPath: input, OutputPath: output})
	if err := p.Convert(context.Background()); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	out, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(out), "<title>Pipeline Book</title>") {
		t.Error("output HTML is missing the book title")
	}

	if _, err := os.Stat(filepath.Join(outDir, "images", "page1.jpg")); err != nil {
		t.Errorf("referenced image was not copied next to the output: %v", err)
	}
}

func TestPipeline_ConvertMarkdown(t *testing.T) {
	dir := t.TempDir()
	input := writeTestBook(t, dir)
	output := filepath.Join(dir, "book.out.md")

	p := NewPipeline(ConvertOptions{
		InputPath:  input,
		OutputPath: output,
		Format:     FormatMarkdown,
	})
	if err := p.Convert(context.Background()); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	out, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	for _, want := range []string{
		"allTitles:",
		`<!-- page index=1 type="content" bilingual="false" -->`,
		"![scan](images/page1.jpg){width=993}",
	} {
		if !strings.Contains(string(out), want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestPipeline_MarkdownSkipsImageCopy(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	input := writeTestBook(t, srcDir)
	output := filepath.Join(outDir, "book.out.md")

	p := NewPipeline(ConvertOptions{
		InputPath:  input,
		OutputPath: output,
		Format:     FormatMarkdown,
	})
	if err := p.Convert(context.Background()); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "images", "page1.jpg")); !os.IsNotExist(err) {
		t.Error("markdown output should not materialize images")
	}
}

func TestPipeline_ParseFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "book.md")
	if err := os.WriteFile(input, []byte("no frontmatter here\n"), 0o644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	p := NewPipeline(ConvertOptions{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "book.html"),
	})
	if err := p.Convert(context.Background()); err == nil {
		t.Fatal("expected a parse error for input without frontmatter")
	}
}

type fakeExtractor struct {
	scans []string
}

func (f *fakeExtractor) Extract(_ context.Context, scanPaths []string) (string, error) {
	f.scans = scanPaths
	var sb strings.Builder
	sb.WriteString(pipelineTestDoc)
	for i := range scanPaths {
		fmt.Fprintf(&sb, "\n<!-- page index=%d -->\n\n<!-- text lang=\"en\" -->\n\nPage %d.\n", i+2, i+2)
	}
	return sb.String(), nil
}

func TestPipeline_DirectoryInputUsesExtractor(t *testing.T) {
	scanDir := t.TempDir()
	outDir := t.TempDir()
	data := mustEncodeJPEG(t, makeSolidNRGBA(100, 100, color.NRGBA{A: 255}), 80)
	for _, name := range []string{"02.jpg", "01.jpg"} {
		if err := os.WriteFile(filepath.Join(scanDir, name), data, 0o644); err != nil {
			t.Fatalf("failed to write scan: %v", err)
		}
	}

	ex := &fakeExtractor{}
	p := NewPipeline(ConvertOptions{
		InputPath:  scanDir,
		OutputPath: filepath.Join(outDir, "book.html"),
		ImagesDir:  scanDir,
	})
	p.Extractor = ex

	if err := p.Convert(context.Background()); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	want := []string{filepath.Join(scanDir, "01.jpg"), filepath.Join(scanDir, "02.jpg")}
	if len(ex.scans) != 2 || ex.scans[0] != want[0] || ex.scans[1] != want[1] {
		t.Errorf("extractor scans = %v, want %v (sorted)", ex.scans, want)
	}
}

func TestPipeline_DirectoryInputWithoutExtractor(t *testing.T) {
	dir := t.TempDir()
	p := NewPipeline(ConvertOptions{
		InputPath:  dir,
		OutputPath: filepath.Join(dir, "book.html"),
	})
	if err := p.Convert(context.Background()); err == nil {
		t.Fatal("expected an error for directory input without an extractor")
	}
}

type fakeEnricher struct{}

func (fakeEnricher) Enrich(_ context.Context, markdown string) (string, error) {
	return strings.Replace(markdown, "The cat sat.", "The brave cat sat.", 1), nil
}

func TestPipeline_EnricherRewritesSource(t *testing.T) {
	dir := t.TempDir()
	input := writeTestBook(t, dir)
	output := filepath.Join(dir, "book.out.md")

	p := NewPipeline(ConvertOptions{
		InputPath:  input,
		OutputPath: output,
		Format:     FormatMarkdown,
	})
	p.Enricher = fakeEnricher{}

	if err := p.Convert(context.Background()); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	out, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(out), "The brave cat sat.") {
		t.Error("enricher rewrite did not reach the output")
	}
}
