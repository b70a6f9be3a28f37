// Package server provides the development HTTP server: dynamic page
// serving over the assembled route table, watch-driven cache invalidation
// and route recomputation, and WebSocket live reload.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jmorelli/trellis/internal/loader"
	"github.com/jmorelli/trellis/internal/router"
	"github.com/jmorelli/trellis/internal/site"
)

// debounceWindow coalesces bursts of watch events into one recompute.
const debounceWindow = 100 * time.Millisecond

// Options configures the development server.
type Options struct {
	Host       string
	Port       int
	LiveReload bool
}

// change is one watch event tagged with the loader that observed it.
type change struct {
	origin loader.Loader
	event  loader.Event
}

// Server serves the site dynamically and keeps it fresh while origins
// change underneath it.
type Server struct {
	site       *site.Site
	opts       Options
	routerOpts []router.Option
	hub        *Hub
	handler    atomic.Value // http.Handler
	changes    chan change
	httpSrv    *http.Server
}

// New creates a development server over an already-discovered site.
func New(s *site.Site, opts Options, routerOpts ...router.Option) *Server {
	srv := &Server{
		site:       s,
		opts:       opts,
		routerOpts: routerOpts,
		hub:        NewHub(),
		changes:    make(chan change, 64),
	}
	srv.handler.Store(router.New(s, routerOpts...))
	return srv
}

// Start runs the server until ctx is cancelled. It starts the live-reload
// hub, subscribes to every loader with watch support, and serves HTTP.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run()
	defer s.hub.Stop()

	for _, l := range s.site.Loaders() {
		w, ok := l.(loader.Watcher)
		if !ok {
			continue
		}
		events, err := w.Watch(ctx)
		if err != nil {
			return fmt.Errorf("watching %s: %w", l.Name(), err)
		}
		go s.forward(ctx, l, events)
	}
	go s.recomputeLoop(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/__trellis/ws", s.hub.HandleWS)
	mux.HandleFunc("/", s.serve)

	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	s.httpSrv = &http.Server{Addr: addr, Handler: mux}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	fmt.Printf("Serving at http://%s\n", addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
	}()

	if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// serve dispatches to the current route table, buffering HTML responses
// so the live-reload script can be injected.
func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	h := s.handler.Load().(http.Handler)
	if !s.opts.LiveReload {
		h.ServeHTTP(w, r)
		return
	}

	buf := &bufferingWriter{header: make(http.Header)}
	h.ServeHTTP(buf, r)

	body := buf.body
	if strings.Contains(buf.header.Get("Content-Type"), "text/html") {
		body = injectLiveReload(body, s.opts.Port)
	}
	for k, vs := range buf.header {
		if k == "Content-Length" {
			continue
		}
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(buf.status())
	_, _ = w.Write(body)
}

// forward funnels one loader's watch events into the shared change queue.
func (s *Server) forward(ctx context.Context, l loader.Loader, events <-chan loader.Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			select {
			case s.changes <- change{origin: l, event: ev}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// recomputeLoop debounces change bursts, evicts affected caches, and
// recomputes the route table. Modified paths are evicted in place; added
// or removed paths force a re-discovery so the table reflects the new
// source set.
func (s *Server) recomputeLoop(ctx context.Context) {
	var (
		pending    []change
		timer      *time.Timer
		timerFired <-chan time.Time
	)

	for {
		select {
		case c := <-s.changes:
			pending = append(pending, c)
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounceWindow)
			timerFired = timer.C

		case <-timerFired:
			s.apply(ctx, pending)
			pending = nil
			timerFired = nil

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// apply processes one debounced batch of changes.
func (s *Server) apply(ctx context.Context, batch []change) {
	structural := false
	for _, c := range batch {
		switch c.event.Op {
		case loader.Modified:
			if !s.site.Invalidate(c.origin, c.event.Path) {
				structural = true // unknown path: treat as added
			}
		case loader.Added, loader.Removed:
			structural = true
		}
		log.Printf("%s: %s %s", c.origin.Name(), c.event.Op, c.event.Path)
	}

	if structural {
		if err := s.site.Discover(ctx); err != nil {
			log.Printf("re-discovery failed: %v", err)
		}
	}
	if s.site.Eager() {
		if err := s.site.EagerLoad(ctx); err != nil {
			log.Printf("eager reload failed: %v", err)
		}
	}

	s.handler.Store(router.New(s.site, s.routerOpts...))
	s.hub.Broadcast([]byte("reload"))
}

// bufferingWriter captures a handler's response for post-processing.
type bufferingWriter struct {
	header     http.Header
	body       []byte
	statusCode int
}

func (b *bufferingWriter) Header() http.Header { return b.header }

func (b *bufferingWriter) WriteHeader(code int) {
	if b.statusCode == 0 {
		b.statusCode = code
	}
}

func (b *bufferingWriter) Write(p []byte) (int, error) {
	b.body = append(b.body, p...)
	return len(p), nil
}

func (b *bufferingWriter) status() int {
	if b.statusCode == 0 {
		return http.StatusOK
	}
	return b.statusCode
}
