package page

import (
	"context"
	"fmt"
	"sync"
)

// ContentFunc fetches the raw bytes of a source from its origin.
type ContentFunc func(ctx context.Context) ([]byte, error)

// RenderFunc produces body content directly, bypassing the template,
// parse, and extension stages. Used by in-memory sources registered with
// a builder function instead of static content.
type RenderFunc func(p *Page) (string, error)

// BuildFunc runs the full build pipeline for a source. It is installed by
// the site during assembly.
type BuildFunc func(ctx context.Context, s *Source) (*Page, error)

// Source is one discoverable content unit before it is built. Identity
// (path, URL, origin, config) is immutable after discovery. The built
// Page is memoized: concurrent callers collapse into a single build and
// all observe the same completed Page.
type Source struct {
	Path    string
	URL     string
	Origin  Origin
	Config  *Config
	Content ContentFunc
	Render  RenderFunc

	build BuildFunc

	loadMu sync.Mutex
	loaded bool
	body   []byte
	meta   map[string]any

	buildMu sync.Mutex
	page    *Page
	builds  int
}

// SetBuilder installs the pipeline build function. Called once during
// site assembly, before any Page call.
func (s *Source) SetBuilder(fn BuildFunc) { s.build = fn }

// Load fetches the source's raw content and extracts its front-matter
// block, memoizing the result. It returns the body with the front-matter
// stripped and the parsed metadata mapping (nil when the config disables
// front-matter or none is present). Eager mode calls Load on every source
// at startup to populate the page index without rendering anything.
func (s *Source) Load(ctx context.Context) (body []byte, meta map[string]any, err error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.loaded {
		return s.body, s.meta, nil
	}

	raw, err := s.Content(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", s.Path, err)
	}

	body = raw
	if s.Config != nil && s.Config.FrontMatter {
		meta, body, err = ParseFrontmatter(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("front-matter in %s: %w", s.Path, err)
		}
	}

	s.body = body
	s.meta = meta
	s.loaded = true
	return s.body, s.meta, nil
}

// Page returns the built page, running the pipeline at most once. Build
// failures are not memoized: the next request retries, which lets
// transient origin errors heal without an explicit invalidation.
func (s *Source) Page(ctx context.Context) (*Page, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	if s.page != nil {
		return s.page, nil
	}
	if s.build == nil {
		return nil, fmt.Errorf("source %s has no builder installed", s.Path)
	}

	p, err := s.build(ctx, s)
	if err != nil {
		return nil, err
	}
	s.builds++
	s.page = p
	return p, nil
}

// Built reports whether a page has been built and cached.
func (s *Source) Built() bool {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	return s.page != nil
}

// Builds returns how many times the pipeline has completed for this
// source. Under the single-build invariant it is at most 1 between
// invalidations.
func (s *Source) Builds() int {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()
	return s.builds
}

// Invalidate evicts the cached page and loaded content. The next request
// rebuilds from the origin. An in-flight build is allowed to complete and
// its (now stale) result is cached until the following invalidation.
func (s *Source) Invalidate() {
	s.loadMu.Lock()
	s.loaded = false
	s.body = nil
	s.meta = nil
	s.loadMu.Unlock()

	s.buildMu.Lock()
	s.page = nil
	s.buildMu.Unlock()
}
