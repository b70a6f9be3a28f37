package feed

import (
	"strings"
	"testing"
)

func testIndex() map[string]map[string]any {
	return map[string]map[string]any{
		"/": {
			"title": "Home",
		},
		"/posts/new": {
			"title":       "Newer Post",
			"description": "the second post",
			"date":        "2026-02-01",
		},
		"/posts/old": {
			"title": "Older Post",
			"date":  "2026-01-01",
		},
		"/feed.xml": {
			"title": "self",
		},
	}
}

func TestGenerate(t *testing.T) {
	out, err := Generate(testIndex(), Options{
		Title:       "My Site",
		Description: "posts",
		BaseURL:     "https://example.com",
		FeedURL:     "/feed.xml",
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	got := string(out)

	if !strings.HasPrefix(got, "<?xml") {
		t.Errorf("missing XML declaration: %q", got[:40])
	}
	if !strings.Contains(got, "<title>My Site</title>") {
		t.Errorf("channel title missing:\n%s", got)
	}
	if !strings.Contains(got, "<link>https://example.com/posts/new</link>") {
		t.Errorf("item link missing:\n%s", got)
	}
	if !strings.Contains(got, "<![CDATA[the second post]]>") {
		t.Errorf("description not CDATA-wrapped:\n%s", got)
	}
	if strings.Contains(got, "feed.xml</link>") {
		t.Errorf("feed lists itself:\n%s", got)
	}

	// Dated items sort newest first, undated after.
	newer := strings.Index(got, "Newer Post")
	older := strings.Index(got, "Older Post")
	home := strings.Index(got, "<title>Home</title>")
	if !(newer < older && older < home) {
		t.Errorf("item order wrong (newer=%d older=%d home=%d)", newer, older, home)
	}
}

func TestGenerateMaxItems(t *testing.T) {
	out, err := Generate(testIndex(), Options{
		BaseURL:  "https://example.com",
		FeedURL:  "/feed.xml",
		MaxItems: 1,
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if n := strings.Count(string(out), "<item>"); n != 1 {
		t.Errorf("feed has %d items, want 1", n)
	}
	if !strings.Contains(string(out), "Newer Post") {
		t.Error("truncation dropped the newest item")
	}
}

func TestGenerateEmptyIndex(t *testing.T) {
	out, err := Generate(nil, Options{Title: "Empty", BaseURL: "https://example.com"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if strings.Contains(string(out), "<item>") {
		t.Error("empty index produced items")
	}
}
