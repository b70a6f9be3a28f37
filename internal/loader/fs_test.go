package loader

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// writeTree materializes a fixture site under a temp root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestFSDiscover(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.md":          "# Home",
		"about/index.md":    "# About",
		"about/team.md":     "# Team",
		"_drafts/wip.md":    "unfinished",
		"_notes.md":         "hidden",
		"assets/styles.css": "body {}",
	})

	l := NewFS(root)
	sources, err := l.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	var urls []string
	for _, s := range sources {
		urls = append(urls, s.URL)
	}
	sort.Strings(urls)
	want := []string{"/", "/about", "/about/team"}
	if len(urls) != len(want) {
		t.Fatalf("discovered %v, want %v", urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Fatalf("discovered %v, want %v", urls, want)
		}
	}
}

func TestFSDiscoverReadsContent(t *testing.T) {
	root := writeTree(t, map[string]string{"post.md": "# Post body"})
	l := NewFS(root)
	sources, err := l.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("discovered %d sources, want 1", len(sources))
	}
	raw, err := sources[0].Content(context.Background())
	if err != nil {
		t.Fatalf("Content() error: %v", err)
	}
	if string(raw) != "# Post body" {
		t.Errorf("content = %q", raw)
	}
	if sources[0].Origin != l {
		t.Error("source origin is not the loader")
	}
}

func TestFSDiscoverMissingRoot(t *testing.T) {
	l := NewFS(filepath.Join(t.TempDir(), "nope"))
	if _, err := l.Discover(context.Background()); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestFSWithExtensions(t *testing.T) {
	root := writeTree(t, map[string]string{
		"page.md":  "md",
		"page.txt": "txt",
	})
	l := NewFS(root, WithExtensions(".txt"))
	sources, err := l.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(sources) != 1 || sources[0].Path != "page.txt" {
		t.Fatalf("discovered %v, want page.txt only", sources)
	}
}

func TestFSReadPartial(t *testing.T) {
	root := writeTree(t, map[string]string{
		"_partials/header.md": "## Header",
	})
	l := NewFS(root)

	for _, name := range []string{"header", "header.md"} {
		got, err := l.ReadPartial(context.Background(), name)
		if err != nil {
			t.Fatalf("ReadPartial(%q) error: %v", name, err)
		}
		if got != "## Header" {
			t.Errorf("ReadPartial(%q) = %q", name, got)
		}
	}

	if _, err := l.ReadPartial(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown partial")
	}
	if _, err := l.ReadPartial(context.Background(), "../secret"); err == nil {
		t.Error("expected error for path traversal")
	}
}
