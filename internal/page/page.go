// Package page defines the core content model for Trellis: the Page
// document, the PageSource build unit, the Config bundle that controls how
// a source is built, and the small capability interfaces (Parser,
// Extension, Layout, TemplateEngine) the build pipeline is assembled from.
package page

import (
	"context"

	"github.com/yuin/goldmark/ast"
)

// Document is the parsed representation of a page body: a goldmark AST
// plus the source bytes it was parsed from. Parsers that pass content
// through untouched (e.g. raw HTML) leave AST nil.
type Document struct {
	AST    ast.Node
	Source []byte
}

// Parser converts pre-processed body text into a Document and renders a
// Document back to output bytes. A parser is selected from the config's
// ordered parser list by the first Match on the source path.
type Parser interface {
	// Match reports whether this parser handles the given source path,
	// typically by file extension.
	Match(path string) bool
	Parse(source []byte) (*Document, error)
	Render(doc *Document) ([]byte, error)
}

// Extension transforms a parsed Document and may inject additional keys
// into the page's data (for example a table of contents). Extensions run
// in registration order, after parsing and before layout, and must be
// idempotent.
type Extension interface {
	Name() string
	Transform(doc *Document, p *Page) error
}

// Layout wraps a fully processed page and its rendered content into the
// final document, including head metadata derived from page data.
type Layout interface {
	Name() string
	Render(p *Page, content []byte) ([]byte, error)
}

// PartialReader resolves named partials scoped to a content origin. It is
// implemented by loaders that can serve template include directives.
type PartialReader interface {
	ReadPartial(ctx context.Context, name string) (string, error)
}

// TemplateEngine pre-processes raw body text against the page's data
// mapping before parsing. Partial includes are resolved through the
// owning origin's PartialReader, which may be nil.
type TemplateEngine interface {
	Render(ctx context.Context, content string, data map[string]any, partials PartialReader) (string, error)
}

// Origin identifies the loader a source or page came from. The concrete
// loader usually also implements PartialReader and, for mutable local
// origins, a watch capability.
type Origin interface {
	Name() string
}

// Config is the immutable per-URL configuration bundle produced by a
// ConfigResolver. Multiple URLs may share one instance.
type Config struct {
	// Parsers is evaluated in order; the first parser whose Match accepts
	// the source path wins.
	Parsers []Parser

	// Extensions run in order after parsing.
	Extensions []Extension

	// Layouts is the registered layout list. Index 0 is the default when
	// the front-matter layout key is absent or unmatched.
	Layouts []Layout

	// Templates enables the template stage when non-nil.
	Templates TemplateEngine

	// FrontMatter enables front-matter extraction from the content head.
	FrontMatter bool

	// DataDir, when set, points at a directory of YAML/JSON/TOML files
	// loaded as template-supplied default data. Front-matter keys always
	// take precedence over these defaults.
	DataDir string
}

// PagesKey is the reserved data key under which eager mode exposes the
// site-wide page index (URL -> data mapping) to every page at render
// time. Lazy mode never populates it.
const PagesKey = "pages"

// Reserved front-matter keys recognized by the pipeline. Arbitrary
// additional keys pass through to page data untouched.
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyLayout      = "layout"
	KeyKeywords    = "keywords"
)

// Page is a built document. It is immutable once constructed and lives
// until its owning source is invalidated or the process ends.
type Page struct {
	Path    string         // origin-relative source path
	URL     string         // resolved URL
	Content string         // body text after templating, before parsing
	Data    map[string]any // front-matter, extension-injected and default keys
	Config  *Config
	Origin  Origin
	Output  []byte // final rendered document
}

// Title returns the page title from data, or "" when unset.
func (p *Page) Title() string {
	s, _ := p.Data[KeyTitle].(string)
	return s
}

// LayoutName returns the layout requested by front-matter, or "" when the
// first registered layout should be used.
func (p *Page) LayoutName() string {
	s, _ := p.Data[KeyLayout].(string)
	return s
}
