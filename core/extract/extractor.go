// ABOUTME: Heuristic article and selection extraction over a narrow document tree
// ABOUTME: Prefers a long user selection, otherwise collects paragraph-level leaves of the main container

package extract

import (
	"strings"
	"unicode/utf8"

	"page-digest/core/interfaces"
)

const (
	// MinSelectionLength is the trimmed length a selection must exceed to be used
	MinSelectionLength = 100

	// MinLeafLength is the trimmed length below which a leaf is dropped
	MinLeafLength = 40

	minTitleLength = 10
	maxTitleLength = 300
)

var (
	// ContainerSelectors are tried in order; the first match wins
	ContainerSelectors = []string{
		`[itemprop="articleBody"]`,
		`[itemtype*="Article"]`,
		`article`,
		`[role="main"]`,
		`main`,
		`.entry-content`,
		`.post-content`,
		`.article-body`,
	}

	leafSelector = "p, li, blockquote, figcaption, dt, dd"

	titleSelectors = []string{
		`h1`,
		`[itemprop="headline"]`,
		`.entry-title`,
		`.post-title`,
		`.article-title`,
		`h2`,
	}

	// ownUISelector matches the nodes the pipeline injects into a page
	ownUISelector = `[data-page-digest], #page-digest-overlay, .page-digest-result`

	excludedSelector = strings.Join([]string{
		`nav`, `aside`, `footer`, `header`,
		`[role="navigation"]`, `[role="complementary"]`, `[role="contentinfo"]`, `[role="banner"]`,
		`.sidebar`, `#sidebar`, `.comments`, `#comments`, `.comment`,
		`.related`, `.share`, `.social`, `.newsletter`, `.advertisement`,
	}, ", ")
)

// FallbackDocument is implemented by documents that can locate a content
// container on their own when no known selector matches.
type FallbackDocument interface {
	FallbackContainer() interfaces.Node
}

// Extractor pulls digestible text out of a document.
// The zero value is ready to use.
type Extractor struct {
	// UseFallback lets a FallbackDocument supply the container when none of
	// the container selectors match.
	UseFallback bool
}

// New creates an Extractor
func New(useFallback bool) *Extractor {
	return &Extractor{UseFallback: useFallback}
}

// Extract returns the content to digest, or nil when the page has nothing usable.
// It never mutates the document.
func (e *Extractor) Extract(doc interfaces.Document) *Content {
	if doc == nil {
		return nil
	}

	if sel := strings.TrimSpace(doc.SelectedText()); utf8.RuneCountInString(sel) > MinSelectionLength {
		return &Content{Text: sel, Source: SourceSelection}
	}

	container := e.findContainer(doc)
	if container == nil {
		return nil
	}

	elements, texts := collectLeaves(container)
	if len(elements) == 0 {
		return nil
	}

	return &Content{
		Text:      strings.Join(texts, "\n\n"),
		Source:    SourceArticle,
		Elements:  elements,
		Container: container,
		Title:     findTitle(container),
	}
}

func (e *Extractor) findContainer(doc interfaces.Document) interfaces.Node {
	root := doc.Root()
	if root == nil {
		return nil
	}
	for _, sel := range ContainerSelectors {
		if found := root.Find(sel); len(found) > 0 {
			return found[0]
		}
	}
	if e.UseFallback {
		if fd, ok := doc.(FallbackDocument); ok {
			return fd.FallbackContainer()
		}
	}
	return nil
}

func collectLeaves(container interfaces.Node) ([]interfaces.Node, []string) {
	var (
		elements []interfaces.Node
		texts    []string
	)
	f := &leafFilter{
		container: container,
		captured:  make(map[interfaces.Node]struct{}),
		blocked:   make(map[interfaces.Node]bool),
	}

	for _, leaf := range container.Find(leafSelector) {
		text := strings.TrimSpace(leaf.Text())
		if utf8.RuneCountInString(text) < MinLeafLength {
			continue
		}
		if !f.keep(leaf) {
			continue
		}
		f.captured[leaf] = struct{}{}
		elements = append(elements, leaf)
		texts = append(texts, text)
	}

	return elements, texts
}

// leafFilter decides which leaves below container are captured.
// Each node is matched against the selectors at most once.
type leafFilter struct {
	container interfaces.Node
	captured  map[interfaces.Node]struct{}
	// blocked records whether a node or one of its ancestors below container
	// is injected UI or page chrome
	blocked map[interfaces.Node]bool
}

func (f *leafFilter) keep(leaf interfaces.Node) bool {
	if f.isBlocked(leaf) {
		return false
	}
	for n := leaf.Parent(); n != nil && n != f.container; n = n.Parent() {
		if _, ok := f.captured[n]; ok {
			return false
		}
	}
	return true
}

func (f *leafFilter) isBlocked(n interfaces.Node) bool {
	if n == nil || n == f.container {
		return false
	}
	if v, ok := f.blocked[n]; ok {
		return v
	}
	v := n.Is(ownUISelector) || n.Is(excludedSelector) || f.isBlocked(n.Parent())
	f.blocked[n] = v
	return v
}

func findTitle(container interfaces.Node) interfaces.Node {
	for _, sel := range titleSelectors {
		for _, n := range container.Find(sel) {
			l := utf8.RuneCountInString(strings.TrimSpace(n.Text()))
			if l >= minTitleLength && l <= maxTitleLength {
				return n
			}
		}
	}
	return nil
}
