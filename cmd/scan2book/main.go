package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yomu-dev/scan2book/internal/converter"
)

var rootCmd = &cobra.Command{
	Use:   "scan2book <input.md>",
	Short: "Convert annotated book markdown into an editable book",
	Long: `scan2book converts children's-book page scans that have been OCR'd and
enriched into an annotated-markdown dialect into a structured,
re-editable book: a presentation HTML document with a split-pane
("origami") layout per page, or a regenerated markdown document.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := args[0]
		outputPath, _ := cmd.Flags().GetString("output")
		format, err := parseFormat(cmd)
		if err != nil {
			return err
		}

		if outputPath == "" {
			outputPath = defaultOutputPath(inputPath, format)
		}
		imagesDir, _ := cmd.Flags().GetString("images-dir")
		maxImageWidth, _ := cmd.Flags().GetInt("max-image-width")
		inlineMarkdown, _ := cmd.Flags().GetBool("inline-markdown")

		log.Printf("Converting: %s -> %s", inputPath, outputPath)

		p := converter.NewPipeline(converter.ConvertOptions{
			InputPath:      inputPath,
			OutputPath:     outputPath,
			Format:         format,
			ImagesDir:      imagesDir,
			MaxImageWidth:  maxImageWidth,
			InlineMarkdown: inlineMarkdown,
		})

		if err := p.Convert(cmd.Context()); err != nil {
			return fmt.Errorf("conversion failed: %w", err)
		}

		log.Printf("Done: %s", outputPath)
		return nil
	},
}

func parseFormat(cmd *cobra.Command) (converter.Format, error) {
	v, _ := cmd.Flags().GetString("format")
	switch converter.Format(strings.ToLower(v)) {
	case converter.FormatHTML:
		return converter.FormatHTML, nil
	case converter.FormatMarkdown:
		return converter.FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format %q (want html or markdown)", v)
	}
}

// defaultOutputPath derives the output path from the input path and the
// selected format.
func defaultOutputPath(inputPath string, format converter.Format) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	if format == converter.FormatMarkdown {
		return base + ".out.md"
	}
	return base + ".html"
}

func init() {
	rootCmd.Flags().StringP("output", "o", "", "Output file path (default: input with format extension)")
	rootCmd.Flags().String("format", "html", "Output format: html or markdown")
	rootCmd.Flags().String("images-dir", "", "Directory holding referenced images (default: input directory)")
	rootCmd.Flags().Int("max-image-width", 0, "Downscale images wider than this many pixels (0 = default)")
	rootCmd.Flags().Bool("inline-markdown", false, "Render text content as markdown inline syntax (markdown format only)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
