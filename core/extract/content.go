// ABOUTME: Extracted content model produced by the article/selection extractor
// ABOUTME: Content is created fresh per digest request and never cached

package extract

import "page-digest/core/interfaces"

// SourceKind says where extracted text came from
type SourceKind string

const (
	SourceSelection SourceKind = "selection"
	SourceArticle   SourceKind = "article"
)

// Content is the text to digest plus the nodes it was read from.
// Elements, Container and Title are nil for selections.
type Content struct {
	Text      string
	Source    SourceKind
	Elements  []interfaces.Node
	Container interfaces.Node
	Title     interfaces.Node
}

// HasContainer reports whether the content came from an article container
func (c *Content) HasContainer() bool {
	return c != nil && c.Container != nil
}
