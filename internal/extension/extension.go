// Package extension holds the built-in page extensions. An extension runs
// after parsing and before layout, transforming the document tree and
// optionally injecting keys into page data. Extensions must be idempotent
// so a page can be re-rendered after invalidation.
package extension

import (
	"github.com/jmorelli/trellis/internal/page"
)

// Run executes the chain in registration order, wrapping any failure in
// a page.ExtensionError.
func Run(extensions []page.Extension, doc *page.Document, p *page.Page) error {
	for _, ext := range extensions {
		if err := ext.Transform(doc, p); err != nil {
			return &page.ExtensionError{Extension: ext.Name(), Path: p.Path, Err: err}
		}
	}
	return nil
}

// Func adapts a plain function to the Extension interface.
type Func struct {
	name string
	fn   func(doc *page.Document, p *page.Page) error
}

// New wraps fn as a named extension.
func New(name string, fn func(doc *page.Document, p *page.Page) error) page.Extension {
	return &Func{name: name, fn: fn}
}

// Name returns the extension's registered name.
func (f *Func) Name() string { return f.name }

// Transform applies the wrapped function.
func (f *Func) Transform(doc *page.Document, p *page.Page) error {
	return f.fn(doc, p)
}
