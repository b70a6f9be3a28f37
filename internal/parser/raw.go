package parser

import "github.com/jmorelli/trellis/internal/page"

// Raw passes .html and .htm sources through unchanged. The Document
// carries no AST, so AST-based extensions skip these pages.
type Raw struct{}

// NewRaw creates the passthrough parser.
func NewRaw() *Raw { return &Raw{} }

// Match accepts .html and .htm sources.
func (p *Raw) Match(sourcePath string) bool {
	return matchExt(sourcePath, []string{".html", ".htm"})
}

// Parse wraps the source without interpreting it.
func (p *Raw) Parse(source []byte) (*page.Document, error) {
	return &page.Document{Source: source}, nil
}

// Render returns the source verbatim.
func (p *Raw) Render(doc *page.Document) ([]byte, error) {
	return doc.Source, nil
}
