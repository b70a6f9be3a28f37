// Package parser provides the built-in page parsers. A parser turns
// pre-processed body text into a page.Document (a goldmark AST plus its
// source) and renders a Document to output bytes. Parsers are selected
// per page config by matching the source path, first match wins.
package parser

import (
	"path"
	"strings"

	"github.com/jmorelli/trellis/internal/page"
)

// Select returns the first parser in the configured list that matches the
// source path, or a page.NoParserFoundError.
func Select(parsers []page.Parser, sourcePath string) (page.Parser, error) {
	for _, p := range parsers {
		if p.Match(sourcePath) {
			return p, nil
		}
	}
	return nil, &page.NoParserFoundError{Path: sourcePath}
}

// matchExt reports whether the path's extension is one of exts.
func matchExt(sourcePath string, exts []string) bool {
	ext := strings.ToLower(path.Ext(sourcePath))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
