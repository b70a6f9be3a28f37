// Package site ties the pipeline together: it discovers sources from all
// configured loaders, resolves each URL to a config, enforces URL
// uniqueness, installs the build pipeline on every source, and owns the
// eager-mode page index.
package site

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jmorelli/trellis/internal/loader"
	"github.com/jmorelli/trellis/internal/page"
	"github.com/jmorelli/trellis/internal/resolver"
)

// defaultEagerLimit bounds eager-load fan-out so rate-limited origins are
// not hammered at startup.
const defaultEagerLimit = 8

// Option configures a Site.
type Option func(*Site)

// WithLoaders registers the content origins, in order.
func WithLoaders(ls ...loader.Loader) Option {
	return func(s *Site) { s.loaders = append(s.loaders, ls...) }
}

// WithResolver sets the config resolution strategy.
func WithResolver(r resolver.Resolver) Option {
	return func(s *Site) { s.resolver = r }
}

// WithEager enables eager loading with the given fan-out limit (<=0 uses
// the default). In eager mode every source's content and front-matter is
// loaded at startup and the resulting page index is exposed to every page
// under the reserved "pages" data key.
func WithEager(limit int) Option {
	return func(s *Site) {
		s.eager = true
		if limit > 0 {
			s.eagerLimit = limit
		}
	}
}

// Site is the process-scoped root of the content pipeline.
type Site struct {
	loaders    []loader.Loader
	resolver   resolver.Resolver
	eager      bool
	eagerLimit int

	mu      sync.RWMutex
	sources []*page.Source
	byURL   map[string]*page.Source
	index   map[string]map[string]any

	dataMu    sync.Mutex
	dataCache map[string]map[string]any
}

// New creates a Site. A resolver must be supplied via WithResolver.
func New(opts ...Option) *Site {
	s := &Site{
		eagerLimit: defaultEagerLimit,
		byURL:      make(map[string]*page.Source),
		dataCache:  make(map[string]map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Eager reports whether eager mode is enabled.
func (s *Site) Eager() bool { return s.eager }

// Loaders returns the registered content origins.
func (s *Site) Loaders() []loader.Loader { return s.loaders }

// Discover runs discovery on every loader and assembles the source set.
// A URL collision between any two sources is a discovery error. Loader
// failures are joined and returned, but sources from healthy loaders are
// kept, so the caller can decide whether a partial site is acceptable.
func (s *Site) Discover(ctx context.Context) error {
	if s.resolver == nil {
		return fmt.Errorf("site has no config resolver")
	}

	var (
		sources  []*page.Source
		byURL    = make(map[string]*page.Source)
		failures []error
	)

	for _, l := range s.loaders {
		discovered, err := l.Discover(ctx)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		for _, src := range discovered {
			if prev, ok := byURL[src.URL]; ok {
				return &page.DiscoveryError{
					Origin: l.Name(),
					Err: fmt.Errorf("URL %q from %s collides with %s (%s)",
						src.URL, src.Path, prev.Path, prev.Origin.Name()),
				}
			}
			if err := s.prepare(src); err != nil {
				return err
			}
			byURL[src.URL] = src
			sources = append(sources, src)
		}
	}

	s.mu.Lock()
	// Carry over built pages for sources that are unchanged across a
	// re-discovery, so a watch-triggered route recompute does not evict
	// unrelated caches.
	for i, src := range sources {
		if old, ok := s.byURL[src.URL]; ok && old.Path == src.Path && old.Origin.Name() == src.Origin.Name() {
			sources[i] = old
			byURL[src.URL] = old
		}
	}
	s.sources = sources
	s.byURL = byURL
	s.mu.Unlock()

	return errors.Join(failures...)
}

// prepare resolves the source's config and installs the build pipeline.
// An unresolvable root URL is fatal; any other unresolved URL fails that
// page's build instead.
func (s *Site) prepare(src *page.Source) error {
	cfg, err := s.resolver.Resolve(src.URL)
	if err != nil {
		if src.URL == "/" {
			return fmt.Errorf("resolving config for root: %w", err)
		}
		resolveErr := err
		src.SetBuilder(func(context.Context, *page.Source) (*page.Page, error) {
			return nil, resolveErr
		})
		return nil
	}
	src.Config = cfg
	src.SetBuilder(s.buildPage)
	return nil
}

// Sources returns a snapshot of the assembled source set.
func (s *Site) Sources() []*page.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*page.Source, len(s.sources))
	copy(out, s.sources)
	return out
}

// Lookup returns the source for a URL.
func (s *Site) Lookup(url string) (*page.Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.byURL[url]
	return src, ok
}

// EagerLoad loads content and front-matter for every source concurrently,
// bounded by the configured fan-out limit, and publishes the page index.
// It must complete before any render path runs; the index is read-only
// afterwards. A source that fails to load is logged and omitted from the
// index; its page fails on its own at build time while the rest of the
// site proceeds. Sources with a builder function are derived from the
// index, so they never appear in it.
func (s *Site) EagerLoad(ctx context.Context) error {
	if !s.eager {
		return nil
	}

	srcs := s.Sources()
	entries := make([]map[string]any, len(srcs))

	var g errgroup.Group
	g.SetLimit(s.eagerLimit)
	for i, src := range srcs {
		if src.Render != nil {
			continue
		}
		g.Go(func() error {
			_, meta, err := src.Load(ctx)
			if err != nil {
				log.Printf("eager load: %s: %v", src.Path, err)
				return nil
			}
			data, err := s.mergeData(src, meta)
			if err != nil {
				log.Printf("eager load: %s: %v", src.Path, err)
				return nil
			}
			entries[i] = data
			return nil
		})
	}
	_ = g.Wait() // load failures are handled per source above

	index := make(map[string]map[string]any, len(srcs))
	for i, src := range srcs {
		if entries[i] == nil {
			continue
		}
		index[src.URL] = entries[i]
	}

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()
	return ctx.Err()
}

// PageIndex returns the eager-mode page index (URL to data mapping), or
// nil in lazy mode. The returned map is read-only by contract.
func (s *Site) PageIndex() map[string]map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Invalidate evicts the cached page for the source matching an origin and
// origin-relative path. It reports whether a source was found. Eviction
// is cheap on purpose: the rebuild happens on the next request.
func (s *Site) Invalidate(origin page.Origin, path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, src := range s.sources {
		if src.Path == path && src.Origin.Name() == origin.Name() {
			src.Invalidate()
			return true
		}
	}
	return false
}

// mergeData builds a page's data mapping: config data-directory defaults
// first, front-matter overlaid on top (front-matter always wins).
func (s *Site) mergeData(src *page.Source, meta map[string]any) (map[string]any, error) {
	data := make(map[string]any)
	if src.Config != nil && src.Config.DataDir != "" {
		defaults, err := s.dataDefaults(src.Config.DataDir)
		if err != nil {
			return nil, err
		}
		for k, v := range defaults {
			data[k] = v
		}
	}
	for k, v := range meta {
		data[k] = v
	}
	return data, nil
}

// dataDefaults loads and caches the data directory for a config.
func (s *Site) dataDefaults(dir string) (map[string]any, error) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	if cached, ok := s.dataCache[dir]; ok {
		return cached, nil
	}
	loaded, err := page.LoadDataDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loading data directory %s: %w", dir, err)
	}
	s.dataCache[dir] = loaded
	return loaded, nil
}
