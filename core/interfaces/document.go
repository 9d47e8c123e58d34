// ABOUTME: Narrow document-tree capability used by the article extractor
// ABOUTME: Lets extraction run against goquery or any fake tree without a browser

package interfaces

// Node is one element of a document tree.
// Implementations must be comparable: the extractor uses nodes as map keys.
type Node interface {
	// Text returns the concatenated text content of the node and its descendants.
	Text() string

	// Is reports whether the node itself matches the CSS selector.
	Is(selector string) bool

	// Parent returns the parent node, or nil at the root.
	Parent() Node

	// Find returns descendants matching the CSS selector in document order.
	Find(selector string) []Node
}

// Document is a read-only view of the current page.
type Document interface {
	// Root returns the top of the tree.
	Root() Node

	// SelectedText returns the user's active text selection, or "".
	SelectedText() string
}
