package origami

import (
	"errors"
	"reflect"
	"testing"

	"github.com/yomu-dev/scan2book/internal/book"
)

func textEl(lang, html string) book.Element {
	return &book.TextBlock{Content: map[string]string{lang: html}, Langs: []string{lang}}
}

func imageEl(src string) book.Element {
	return &book.Image{Src: src}
}

func TestCompile_EmptyInput(t *testing.T) {
	_, err := Compile(nil, Portrait)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("Compile(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestCompile_SingleElementIsUnsplitLeaf(t *testing.T) {
	el := imageEl("cover.png")
	n, err := Compile([]book.Element{el}, Portrait)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !n.IsLeaf() {
		t.Fatal("single element must compile to an unsplit leaf")
	}
	if n.Item != el {
		t.Error("leaf does not carry the input element")
	}
	if n.Dividers() != 0 {
		t.Errorf("Dividers() = %d, want 0", n.Dividers())
	}
}

func TestCompile_RightSkewedNesting(t *testing.T) {
	items := []book.Element{
		imageEl("0.png"),
		textEl("en", "<p>one</p>"),
		imageEl("2.png"),
		textEl("fr", "<p>trois</p>"),
	}
	n, err := Compile(items, Landscape)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	// item0 | (item1 | (item2 | item3))
	for i := 0; i < 3; i++ {
		if n.IsLeaf() {
			t.Fatalf("depth %d: unexpected leaf", i)
		}
		if n.Axis != SplitVertical {
			t.Errorf("depth %d: Axis = %v, want SplitVertical", i, n.Axis)
		}
		if !n.First.IsLeaf() || n.First.Item != items[i] {
			t.Errorf("depth %d: first slot does not hold items[%d]", i, i)
		}
		n = n.Second
	}
	if !n.IsLeaf() || n.Item != items[3] {
		t.Error("deepest slot does not hold the last item")
	}
}

func TestCompile_DividerCount(t *testing.T) {
	var items []book.Element
	for i := 0; i < 7; i++ {
		items = append(items, textEl("en", "<p>x</p>"))
		n, err := Compile(items, Portrait)
		if err != nil {
			t.Fatalf("Compile() error = %v", err)
		}
		if got, want := n.Dividers(), len(items)-1; got != want {
			t.Errorf("%d items: Dividers() = %d, want %d", len(items), got, want)
		}
	}
}

func TestCompile_OrientationFixesAxis(t *testing.T) {
	items := []book.Element{textEl("en", "<p>a</p>"), imageEl("b.png")}

	portrait, err := Compile(items, Portrait)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if portrait.Axis != SplitHorizontal {
		t.Errorf("portrait Axis = %v, want SplitHorizontal", portrait.Axis)
	}

	landscape, err := Compile(items, Landscape)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if landscape.Axis != SplitVertical {
		t.Errorf("landscape Axis = %v, want SplitVertical", landscape.Axis)
	}
}

func TestCompile_Deterministic(t *testing.T) {
	items := []book.Element{
		textEl("en", "<p>a</p>"),
		imageEl("b.png"),
		textEl("fr", "<p>c</p>"),
	}
	first, err := Compile(items, Portrait)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	second, err := Compile(items, Portrait)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must yield structurally identical trees")
	}
}
