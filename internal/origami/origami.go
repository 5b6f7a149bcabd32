// Package origami compiles an ordered page-element sequence into a
// nested split-pane tree: one divider per additional element, nested
// strictly right-to-left, with the split axis fixed by the page
// orientation. Compilation is deterministic and side-effect-free.
package origami

import (
	"errors"

	"github.com/yomu-dev/scan2book/internal/book"
)

// Orientation selects the split axis used for every level of a page's
// layout tree.
type Orientation int

const (
	// Portrait stacks panes top/bottom.
	Portrait Orientation = iota
	// Landscape places panes left/right.
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// Axis is the split direction of a non-leaf node.
type Axis int

const (
	// SplitHorizontal divides a pane into a top and a bottom slot.
	SplitHorizontal Axis = iota
	// SplitVertical divides a pane into a left and a right slot.
	SplitVertical
)

// ErrEmptyInput is returned for an empty element sequence. This is
// always a defect in the caller, never bad user data: the parser drops
// element-less pages before they reach layout.
var ErrEmptyInput = errors.New("input sequence cannot be empty")

// Node is one node of the layout tree. A leaf carries the page element
// it renders; a split carries its axis and exactly two children, of
// which the first is always a leaf.
type Node struct {
	Item   book.Element
	Axis   Axis
	First  *Node
	Second *Node
}

// IsLeaf reports whether the node renders a single element with no
// split-pane wrapper.
func (n *Node) IsLeaf() bool {
	return n.Item != nil
}

// Dividers returns the number of split nodes in the subtree, which for
// a compiled sequence is always len(items)-1.
func (n *Node) Dividers() int {
	if n == nil || n.IsLeaf() {
		return 0
	}
	return 1 + n.First.Dividers() + n.Second.Dividers()
}

// Compile maps an ordered element sequence and an orientation to a
// layout tree. A single element compiles to an unsplit leaf; longer
// sequences produce a right-skewed binary tree whose first slot renders
// items[0] and whose second slot contains the compilation of the rest.
func Compile(items []book.Element, orientation Orientation) (*Node, error) {
	if len(items) == 0 {
		return nil, ErrEmptyInput
	}
	axis := SplitHorizontal
	if orientation == Landscape {
		axis = SplitVertical
	}
	return compile(items, axis), nil
}

func compile(items []book.Element, axis Axis) *Node {
	if len(items) == 1 {
		return &Node{Item: items[0]}
	}
	return &Node{
		Axis:   axis,
		First:  &Node{Item: items[0]},
		Second: compile(items[1:], axis),
	}
}
