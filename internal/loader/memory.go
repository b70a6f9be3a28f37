package loader

import (
	"context"
	"fmt"

	"github.com/jmorelli/trellis/internal/page"
)

// Entry is one pre-populated in-memory page. Exactly one of Content or
// Render is used: entries with a Render function bypass templating,
// parsing, and extensions entirely and are only optionally wrapped in a
// layout.
type Entry struct {
	Path    string
	Content string
	Render  page.RenderFunc
}

// Memory wraps a caller-supplied list of entries as a content origin. It
// implements Loader and page.PartialReader.
type Memory struct {
	name       string
	entries    []Entry
	partials   map[string]string
	keepSuffix []string
}

// MemoryOption configures a memory loader.
type MemoryOption func(*Memory)

// WithPartials registers named partials resolvable from this origin.
func WithPartials(partials map[string]string) MemoryOption {
	return func(l *Memory) { l.partials = partials }
}

// WithMemoryKeepSuffix registers glob patterns for paths whose file
// extension is retained in the derived URL.
func WithMemoryKeepSuffix(patterns ...string) MemoryOption {
	return func(l *Memory) { l.keepSuffix = patterns }
}

// NewMemory creates a loader over the given entries.
func NewMemory(name string, entries []Entry, opts ...MemoryOption) *Memory {
	l := &Memory{name: "memory:" + name, entries: entries}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name identifies this origin in errors and logs.
func (l *Memory) Name() string { return l.name }

// Discover returns one source per entry. The ignore and URL derivation
// rules match the filesystem loader's so in-memory fixtures route the
// same way files would.
func (l *Memory) Discover(_ context.Context) ([]*page.Source, error) {
	var sources []*page.Source
	for _, e := range l.entries {
		if e.Path == "" {
			return nil, &page.DiscoveryError{Origin: l.name, Err: fmt.Errorf("entry with empty path")}
		}
		if ignored(e.Path) {
			continue
		}
		content := e.Content
		sources = append(sources, &page.Source{
			Path:   e.Path,
			URL:    urlFromPath(e.Path, l.keepSuffix),
			Origin: l,
			Render: e.Render,
			Content: func(context.Context) ([]byte, error) {
				return []byte(content), nil
			},
		})
	}
	return sources, nil
}

// ReadPartial resolves a template include from the registered partials.
func (l *Memory) ReadPartial(_ context.Context, name string) (string, error) {
	if s, ok := l.partials[name]; ok {
		return s, nil
	}
	return "", &page.PartialNotFoundError{Name: name, Origin: l.name}
}
