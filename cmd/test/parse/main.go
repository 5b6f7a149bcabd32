// Test program for the annotated-markdown parser
//
// Usage:
//   go run ./cmd/test/parse/main.go <book-md-path>
//
// This program will:
// - Extract and validate the YAML frontmatter
// - Parse the body into pages and elements
// - Display metadata, page structure, and all diagnostics

package main

import (
	"fmt"
	"os"

	"github.com/yomu-dev/scan2book/internal/book"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <book-md-path>\n", os.Args[0])
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	b, diags, err := book.Parse(string(data))
	if diags != nil {
		for _, e := range diags.Entries() {
			fmt.Printf("[%s] %s\n", e.Severity, e.Message)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing book: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("--- Metadata ---")
	fmt.Printf("Title:     %s\n", b.Metadata.Title())
	fmt.Printf("L1:        %s\n", b.Metadata.L1)
	if b.Metadata.L2 != "" {
		fmt.Printf("L2:        %s\n", b.Metadata.L2)
	}
	fmt.Printf("Languages: %d declared\n", len(b.Metadata.Languages))
	if len(b.Metadata.Extra) > 0 {
		fmt.Printf("Extra keys: %v\n", b.Metadata.SortedExtraKeys())
	}

	fmt.Printf("\n--- Pages (%d) ---\n", len(b.Pages))
	for _, p := range b.Pages {
		fmt.Printf("page %d (type=%s bilingual=%t)\n", p.Index, p.Type, p.Bilingual)
		for i, el := range p.Elements {
			switch el := el.(type) {
			case *book.TextBlock:
				field := el.Field
				if field == "" {
					field = "-"
				}
				fmt.Printf("  %d. text block langs=%v field=%s\n", i+1, el.Langs, field)
			case *book.Image:
				fmt.Printf("  %d. image src=%s attrs=%q\n", i+1, el.Src, el.Attributes)
			}
		}
	}
}
