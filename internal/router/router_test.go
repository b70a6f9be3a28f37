package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jmorelli/trellis/internal/extension"
	"github.com/jmorelli/trellis/internal/layout"
	"github.com/jmorelli/trellis/internal/loader"
	"github.com/jmorelli/trellis/internal/page"
	"github.com/jmorelli/trellis/internal/parser"
	"github.com/jmorelli/trellis/internal/resolver"
	"github.com/jmorelli/trellis/internal/site"
	"github.com/jmorelli/trellis/internal/template"
)

func testPageConfig() *page.Config {
	return &page.Config{
		Parsers:     []page.Parser{parser.NewMarkdown(), parser.NewRaw()},
		Extensions:  []page.Extension{extension.NewTOC()},
		Layouts:     []page.Layout{layout.Default()},
		Templates:   template.New(),
		FrontMatter: true,
	}
}

func testSite(t *testing.T, entries []loader.Entry, opts ...site.Option) *site.Site {
	t.Helper()
	s := site.New(append([]site.Option{
		site.WithLoaders(loader.NewMemory("test", entries)),
		site.WithResolver(resolver.Static{Config: testPageConfig()}),
	}, opts...)...)
	if err := s.Discover(context.Background()); err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	return s
}

func get(t *testing.T, h http.Handler, url string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatal(err)
	}
	return rec.Code, string(body)
}

func TestRouterServesPages(t *testing.T) {
	h := New(testSite(t, []loader.Entry{
		{Path: "index.md", Content: "# Home"},
		{Path: "about/team.md", Content: "# Team"},
	}))

	code, body := get(t, h, "/")
	if code != http.StatusOK {
		t.Fatalf("GET / = %d", code)
	}
	if !strings.Contains(body, "Home") {
		t.Errorf("GET / body = %q", body)
	}

	// Directory-style routes answer with and without the trailing slash.
	for _, url := range []string{"/about/team", "/about/team/"} {
		code, body = get(t, h, url)
		if code != http.StatusOK || !strings.Contains(body, "Team") {
			t.Errorf("GET %s = %d %q", url, code, body)
		}
	}
}

func TestRouterUnknownURL(t *testing.T) {
	h := New(testSite(t, []loader.Entry{{Path: "index.md", Content: "x"}}))
	code, body := get(t, h, "/nope")
	if code != http.StatusNotFound {
		t.Fatalf("GET /nope = %d, want 404", code)
	}
	if !strings.Contains(body, "/nope") {
		t.Errorf("404 body does not name the URL: %q", body)
	}
}

func TestRouterBuildFailureIs500(t *testing.T) {
	h := New(testSite(t, []loader.Entry{
		{Path: "bad.md", Content: "{{> missing-partial}}"},
	}))
	code, _ := get(t, h, "/bad")
	if code != http.StatusInternalServerError {
		t.Fatalf("GET /bad = %d, want 500", code)
	}
}

func TestRouterWithAssemble(t *testing.T) {
	var seen []string
	h := New(testSite(t, []loader.Entry{{Path: "index.md", Content: "x"}}),
		WithAssemble(func(routes []Route, mux *chi.Mux) http.Handler {
			for _, r := range routes {
				seen = append(seen, r.URL)
			}
			mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("ok"))
			})
			return mux
		}))

	if len(seen) != 1 || seen[0] != "/" {
		t.Errorf("assemble saw routes %v", seen)
	}
	if code, body := get(t, h, "/healthz"); code != http.StatusOK || body != "ok" {
		t.Errorf("custom route = %d %q", code, body)
	}
	if code, _ := get(t, h, "/"); code != http.StatusOK {
		t.Errorf("generated route lost after assembly: %d", code)
	}
}
