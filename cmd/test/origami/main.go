// Test program for the origami layout compiler
//
// Usage:
//   go run ./cmd/test/origami/main.go <book-md-path> [orientation]
//
// orientation is "portrait" (default) or "landscape".
//
// This program parses the book and prints the compiled layout tree of
// every page.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/yomu-dev/scan2book/internal/book"
	"github.com/yomu-dev/scan2book/internal/origami"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <book-md-path> [portrait|landscape]\n", os.Args[0])
		os.Exit(1)
	}

	orientation := origami.Portrait
	if len(os.Args) > 2 && strings.EqualFold(os.Args[2], "landscape") {
		orientation = origami.Landscape
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	b, _, err := book.Parse(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing book: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Orientation: %s\n", orientation)
	for _, p := range b.Pages {
		tree, err := origami.Compile(p.Elements, orientation)
		if err != nil {
			fmt.Fprintf(os.Stderr, "page %d: %v\n", p.Index, err)
			os.Exit(1)
		}
		fmt.Printf("\npage %d (%d element(s), %d divider(s)):\n", p.Index, len(p.Elements), tree.Dividers())
		printNode(tree, 1)
	}
}

func printNode(n *origami.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsLeaf() {
		switch el := n.Item.(type) {
		case *book.TextBlock:
			fmt.Printf("%stext %v\n", indent, el.Langs)
		case *book.Image:
			fmt.Printf("%simage %s\n", indent, el.Src)
		}
		return
	}
	axis := "top/bottom"
	if n.Axis == origami.SplitVertical {
		axis = "left/right"
	}
	fmt.Printf("%ssplit %s\n", indent, axis)
	printNode(n.First, depth+1)
	printNode(n.Second, depth+1)
}
