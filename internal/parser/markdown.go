package parser

import (
	"bytes"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"github.com/jmorelli/trellis/internal/page"
)

// Markdown parses markdown body text with goldmark, configured with GFM,
// footnotes, typographer, syntax highlighting, auto heading IDs, and
// attributes. Parsing and rendering are split so the extension chain can
// transform the AST in between.
type Markdown struct {
	md   goldmark.Markdown
	exts []string
}

// NewMarkdown creates the markdown parser with the standard extension set.
func NewMarkdown() *Markdown {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			gmparser.WithAutoHeadingID(),
			gmparser.WithAttribute(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &Markdown{md: md, exts: []string{".md", ".markdown"}}
}

// Match accepts .md and .markdown sources.
func (p *Markdown) Match(sourcePath string) bool {
	return matchExt(sourcePath, p.exts)
}

// Parse builds the goldmark AST for the given body.
func (p *Markdown) Parse(source []byte) (*page.Document, error) {
	doc := p.md.Parser().Parse(text.NewReader(source))
	return &page.Document{AST: doc, Source: source}, nil
}

// Render converts a parsed (and possibly extension-transformed) document
// to HTML.
func (p *Markdown) Render(doc *page.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.md.Renderer().Render(&buf, doc.Source, doc.AST); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}
