package extension

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	gmparser "github.com/yuin/goldmark/parser"
	"go.abhg.dev/goldmark/toc"

	"github.com/jmorelli/trellis/internal/page"
)

// TOCKey is the data key the table-of-contents extension writes its
// rendered HTML list under, for later layout consumption.
const TOCKey = "toc"

// TOC extracts a table of contents from the document's heading structure
// and injects it into page data as a nested HTML list. Documents without
// an AST (raw passthrough pages) are left untouched.
type TOC struct {
	key string
	md  goldmark.Markdown
}

// NewTOC creates the extension writing under TOCKey.
func NewTOC() *TOC {
	return &TOC{
		key: TOCKey,
		md: goldmark.New(
			goldmark.WithParserOptions(gmparser.WithAutoHeadingID()),
		),
	}
}

// Name returns "toc".
func (t *TOC) Name() string { return t.key }

// Transform inspects the heading tree and stores the rendered list HTML
// in page data. Recomputing from the same document yields the same value,
// so re-running after invalidation is safe.
func (t *TOC) Transform(doc *page.Document, p *page.Page) error {
	if doc.AST == nil {
		return nil
	}

	tree, err := toc.Inspect(doc.AST, doc.Source)
	if err != nil {
		return fmt.Errorf("toc inspect: %w", err)
	}

	list := toc.RenderList(tree)
	if list == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := t.md.Renderer().Render(&buf, doc.Source, list); err != nil {
		return fmt.Errorf("toc render: %w", err)
	}
	p.Data[t.key] = buf.String()
	return nil
}
