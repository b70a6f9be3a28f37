package site

import (
	"context"
	"errors"
	"log"

	"github.com/jmorelli/trellis/internal/extension"
	"github.com/jmorelli/trellis/internal/layout"
	"github.com/jmorelli/trellis/internal/page"
	"github.com/jmorelli/trellis/internal/parser"
)

// buildPage is the pipeline installed on every source: template, parse,
// extend, layout. It runs at most once per source (memoized by the
// source) and produces the final Page.
func (s *Site) buildPage(ctx context.Context, src *page.Source) (*page.Page, error) {
	cfg := src.Config
	if cfg == nil {
		return nil, &page.UnresolvedConfigError{URL: src.URL}
	}

	body, meta, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	data, err := s.mergeData(src, meta)
	if err != nil {
		return nil, err
	}

	// The eager index is fully populated before any render path runs, so
	// reading it here never observes a partial view.
	if index := s.PageIndex(); index != nil {
		data[page.PagesKey] = index
	}

	p := &page.Page{
		Path:   src.Path,
		URL:    src.URL,
		Data:   data,
		Config: cfg,
		Origin: src.Origin,
	}

	// Builder-function sources skip templating, parsing, and extensions.
	// Their output is final unless page data names a layout explicitly;
	// generated documents like feeds must not be wrapped in HTML.
	if src.Render != nil {
		content, err := src.Render(p)
		if err != nil {
			return nil, err
		}
		p.Content = content
		if p.LayoutName() == "" {
			p.Output = []byte(content)
			return p, nil
		}
		return s.applyLayout(p, []byte(content))
	}

	text := string(body)
	if cfg.Templates != nil {
		partials, _ := src.Origin.(page.PartialReader)
		text, err = cfg.Templates.Render(ctx, text, data, partials)
		if err != nil {
			return nil, &page.TemplateError{Path: src.Path, Err: err}
		}
	}
	p.Content = text

	psr, err := parser.Select(cfg.Parsers, src.Path)
	if err != nil {
		return nil, err
	}
	doc, err := psr.Parse([]byte(text))
	if err != nil {
		return nil, err
	}

	if err := extension.Run(cfg.Extensions, doc, p); err != nil {
		return nil, err
	}

	rendered, err := psr.Render(doc)
	if err != nil {
		return nil, err
	}

	return s.applyLayout(p, rendered)
}

// applyLayout wraps rendered content in the page's layout. A config with
// no layouts emits the content unwrapped; an unmatched layout name falls
// back to the first registered layout and logs the miss.
func (s *Site) applyLayout(p *page.Page, content []byte) (*page.Page, error) {
	if len(p.Config.Layouts) == 0 {
		p.Output = content
		return p, nil
	}

	l, err := layout.Resolve(p.Config.Layouts, p.LayoutName())
	if err != nil {
		var notFound *page.LayoutNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Printf("page %s: %v, using %q", p.Path, err, l.Name())
	}

	out, err := l.Render(p, content)
	if err != nil {
		return nil, err
	}
	p.Output = out
	return p, nil
}
