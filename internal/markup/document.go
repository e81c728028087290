// Package markup wraps fetched HTML in a queryable structure so crawl
// logic can run against synthetic fixtures without a live network.
package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed HTML page supporting CSS-selector lookups.
type Document struct {
	doc *goquery.Document
}

// Element is a handle to a single matched node.
type Element struct {
	sel *goquery.Selection
}

// Parse builds a Document from raw HTML.
func Parse(html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// Query returns all elements matching the selector in document order.
func (d *Document) Query(selector string) []Element {
	return collect(d.doc.Find(selector))
}

// First returns the first element matching the selector, if any.
func (d *Document) First(selector string) (Element, bool) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return Element{}, false
	}
	return Element{sel: sel}, true
}

// Query returns all descendant elements matching the selector.
func (e Element) Query(selector string) []Element {
	return collect(e.sel.Find(selector))
}

// Attr returns the named attribute value and whether it is present.
func (e Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

// Text returns the concatenated text content of the element.
func (e Element) Text() string {
	return e.sel.Text()
}

func collect(sel *goquery.Selection) []Element {
	elements := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, Element{sel: s})
	})
	return elements
}
