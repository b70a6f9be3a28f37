// Package router assembles discovered sources into a servable route table
// and flattens it to static output. One route per source, keyed by URL;
// handlers invoke the source's memoized build-and-render.
package router

import (
	"errors"
	"log"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/jmorelli/trellis/internal/page"
	"github.com/jmorelli/trellis/internal/site"
)

// Route pairs a URL with its source. The slice handed to an AssembleFunc
// reflects the full discovered table in source order.
type Route struct {
	URL    string
	Source *page.Source
}

// AssembleFunc lets the caller wrap or interleave the generated routes
// with custom ones. It receives the route list and the mux the routes
// were mounted on and returns the handler to serve.
type AssembleFunc func(routes []Route, mux *chi.Mux) http.Handler

// Option configures router assembly.
type Option func(*options)

type options struct {
	assemble AssembleFunc
}

// WithAssemble installs a custom assembly function.
func WithAssemble(fn AssembleFunc) Option {
	return func(o *options) { o.assemble = fn }
}

// New builds the route table for the site's current source set. Requests
// for unknown URLs get a plain 404; a failed page build is rendered as a
// 500 with the page-local error.
func New(s *site.Site, opts ...Option) http.Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	mux := chi.NewRouter()
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		notFound := &page.NotFoundError{URL: r.URL.Path}
		http.Error(w, notFound.Error(), http.StatusNotFound)
	})

	sources := s.Sources()
	routes := make([]Route, 0, len(sources))
	for _, src := range sources {
		routes = append(routes, Route{URL: src.URL, Source: src})
		mux.Get(src.URL, serve(src))
		// Directory-style URLs answer with and without the trailing slash.
		if src.URL != "/" {
			mux.Get(src.URL+"/", serve(src))
		}
	}

	if o.assemble != nil {
		return o.assemble(routes, mux)
	}
	return mux
}

// serve renders one source on demand.
func serve(src *page.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := src.Page(r.Context())
		if err != nil {
			log.Printf("building %s: %v", src.URL, err)
			status := http.StatusInternalServerError
			var notFound *page.NotFoundError
			if errors.As(err, &notFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", contentType(src.URL))
		_, _ = w.Write(p.Output)
	}
}

// contentType derives the response type from the route URL. Extensionless
// routes (the common case) are HTML; suffix-retaining routes like a
// generated feed answer with their own type.
func contentType(url string) string {
	if ext := path.Ext(url); ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}
	return "text/html; charset=utf-8"
}
