// ABOUTME: goquery-backed Document adapter for the article extractor
// ABOUTME: Optionally locates a content container with go-readability when no selector matches

package dom

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"page-digest/core/interfaces"
)

var defaultPageURL = &url.URL{Scheme: "https", Host: "localhost", Path: "/"}

// Document is a parsed HTML page plus the user's selection
type Document struct {
	doc       *goquery.Document
	raw       []byte
	pageURL   *url.URL
	selection string

	fallbackOnce sync.Once
	fallback     interfaces.Node
}

// Parse reads an HTML page. pageURL may be nil.
func Parse(r io.Reader, pageURL *url.URL) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	if pageURL == nil {
		pageURL = defaultPageURL
	}

	return &Document{doc: doc, raw: raw, pageURL: pageURL}, nil
}

// ParseString parses literal HTML
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s), nil)
}

// WithSelection sets the text the user has selected
func (d *Document) WithSelection(text string) *Document {
	d.selection = text
	return d
}

// URL returns the page URL the document was loaded from
func (d *Document) URL() *url.URL {
	return d.pageURL
}

// Root implements interfaces.Document
func (d *Document) Root() interfaces.Node {
	if len(d.doc.Nodes) == 0 {
		return nil
	}
	return node{n: d.doc.Nodes[0]}
}

// SelectedText implements interfaces.Document
func (d *Document) SelectedText() string {
	return d.selection
}

// FallbackContainer runs readability over the raw page and returns the
// cleaned article tree, or nil when readability finds nothing.
func (d *Document) FallbackContainer() interfaces.Node {
	d.fallbackOnce.Do(func() {
		article, err := readability.FromReader(bytes.NewReader(d.raw), d.pageURL)
		if err != nil || article.Node == nil {
			return
		}
		d.fallback = node{n: article.Node}
	})
	return d.fallback
}

// node wraps an *html.Node. It is comparable, so equal nodes are equal keys.
type node struct {
	n *html.Node
}

func (x node) sel() *goquery.Selection {
	return goquery.NewDocumentFromNode(x.n).Selection
}

func (x node) Text() string {
	return x.sel().Text()
}

func (x node) Is(selector string) bool {
	if x.n.Type != html.ElementNode {
		return false
	}
	return x.sel().Is(selector)
}

func (x node) Parent() interfaces.Node {
	if x.n.Parent == nil {
		return nil
	}
	return node{n: x.n.Parent}
}

func (x node) Find(selector string) []interfaces.Node {
	found := x.sel().Find(selector)
	nodes := make([]interfaces.Node, 0, found.Length())
	for _, n := range found.Nodes {
		nodes = append(nodes, node{n: n})
	}
	return nodes
}
