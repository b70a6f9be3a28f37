// Package template implements the pre-parse template stage: mustache-style
// variable substitution ({{key}}), section blocks ({{#key}}...{{/key}})
// over mapping and sequence values, and partial includes ({{> name}})
// resolved through the owning loader's partial-read capability.
package template

import (
	"context"
	"fmt"

	"github.com/cbroglie/mustache"

	"github.com/jmorelli/trellis/internal/page"
)

// Engine renders raw content text against a page's data mapping. It is
// stateless and safe for concurrent use.
type Engine struct{}

// New creates a template engine.
func New() *Engine { return &Engine{} }

// Render substitutes data into content. Partial includes are resolved
// through partials; when the owning origin has no partial capability,
// any include directive fails the render.
func (e *Engine) Render(ctx context.Context, content string, data map[string]any, partials page.PartialReader) (string, error) {
	out, err := mustache.RenderPartials(content, &originPartials{ctx: ctx, reader: partials}, data)
	if err != nil {
		return "", err
	}
	return out, nil
}

// originPartials adapts a loader's PartialReader to the mustache partial
// provider contract.
type originPartials struct {
	ctx    context.Context
	reader page.PartialReader
}

// Get returns the named partial's text.
func (p *originPartials) Get(name string) (string, error) {
	if p.reader == nil {
		return "", fmt.Errorf("partial %q: origin has no partial source", name)
	}
	return p.reader.ReadPartial(p.ctx, name)
}
