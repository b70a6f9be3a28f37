package page

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

// newTestSource returns a source whose content fetches and builds are
// counted, so the single-build invariant is observable.
func newTestSource(reads, builds *atomic.Int32) *Source {
	src := &Source{
		Path:   "note.md",
		URL:    "/note",
		Config: &Config{FrontMatter: true},
		Content: func(context.Context) ([]byte, error) {
			reads.Add(1)
			return []byte("---\ntitle: Note\n---\nbody"), nil
		},
	}
	src.SetBuilder(func(ctx context.Context, s *Source) (*Page, error) {
		body, meta, err := s.Load(ctx)
		if err != nil {
			return nil, err
		}
		builds.Add(1)
		return &Page{Path: s.Path, URL: s.URL, Content: string(body), Data: meta}, nil
	})
	return src
}

func TestSourceSingleBuild(t *testing.T) {
	var reads, builds atomic.Int32
	src := newTestSource(&reads, &builds)

	const callers = 32
	var wg sync.WaitGroup
	pages := make([]*Page, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := src.Page(context.Background())
			if err != nil {
				t.Errorf("Page() error: %v", err)
				return
			}
			pages[i] = p
		}(i)
	}
	wg.Wait()

	if got := builds.Load(); got != 1 {
		t.Errorf("pipeline ran %d times, want 1", got)
	}
	if got := reads.Load(); got != 1 {
		t.Errorf("content read %d times, want 1", got)
	}
	if got := src.Builds(); got != 1 {
		t.Errorf("Builds() = %d, want 1", got)
	}

	// Every caller observes the same completed page.
	for i := 1; i < callers; i++ {
		if pages[i] != pages[0] {
			t.Fatalf("caller %d observed a different page", i)
		}
	}
}

func TestSourceInvalidateRebuilds(t *testing.T) {
	var reads, builds atomic.Int32
	src := newTestSource(&reads, &builds)

	if _, err := src.Page(context.Background()); err != nil {
		t.Fatalf("Page() error: %v", err)
	}
	if !src.Built() {
		t.Fatal("source not marked built after first access")
	}

	src.Invalidate()
	if src.Built() {
		t.Fatal("source still built after Invalidate")
	}

	if _, err := src.Page(context.Background()); err != nil {
		t.Fatalf("Page() after invalidate error: %v", err)
	}
	if got := builds.Load(); got != 2 {
		t.Errorf("pipeline ran %d times across an invalidation, want 2", got)
	}
	if got := reads.Load(); got != 2 {
		t.Errorf("content read %d times across an invalidation, want 2", got)
	}
}

func TestSourceBuildErrorNotCached(t *testing.T) {
	var attempts atomic.Int32
	src := &Source{
		Path: "flaky.md",
		URL:  "/flaky",
		Content: func(context.Context) ([]byte, error) {
			if attempts.Add(1) == 1 {
				return nil, fmt.Errorf("origin unavailable")
			}
			return []byte("ok"), nil
		},
	}
	src.SetBuilder(func(ctx context.Context, s *Source) (*Page, error) {
		body, _, err := s.Load(ctx)
		if err != nil {
			return nil, err
		}
		return &Page{Content: string(body)}, nil
	})

	if _, err := src.Page(context.Background()); err == nil {
		t.Fatal("expected first build to fail")
	}
	p, err := src.Page(context.Background())
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if p.Content != "ok" {
		t.Errorf("Content = %q, want %q", p.Content, "ok")
	}
}

func TestSourceLoadExtractsFrontmatter(t *testing.T) {
	src := &Source{
		Path:   "post.md",
		Config: &Config{FrontMatter: true},
		Content: func(context.Context) ([]byte, error) {
			return []byte("---\ntitle: X\nlayout: blog\n---\nhello"), nil
		},
	}
	body, meta, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(body) != "hello" {
		t.Errorf("body = %q, want %q", body, "hello")
	}
	if meta["title"] != "X" || meta["layout"] != "blog" {
		t.Errorf("meta = %v, want title=X layout=blog", meta)
	}
}

func TestSourceLoadFrontmatterDisabled(t *testing.T) {
	raw := "---\ntitle: X\n---\nhello"
	src := &Source{
		Path:   "post.md",
		Config: &Config{},
		Content: func(context.Context) ([]byte, error) {
			return []byte(raw), nil
		},
	}
	body, meta, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if meta != nil {
		t.Errorf("meta = %v, want nil with front-matter disabled", meta)
	}
	if string(body) != raw {
		t.Errorf("body = %q, want raw content", body)
	}
}
