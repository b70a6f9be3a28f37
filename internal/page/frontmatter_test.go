package page

import "testing"

func TestParseFrontmatterYAML(t *testing.T) {
	raw := []byte("---\ntitle: Hello\ntags:\n  - a\n  - b\n---\n# Body\n")
	meta, body, err := ParseFrontmatter(raw)
	if err != nil {
		t.Fatalf("ParseFrontmatter() error: %v", err)
	}
	if meta["title"] != "Hello" {
		t.Errorf("title = %v, want Hello", meta["title"])
	}
	tags, ok := meta["tags"].([]any)
	if !ok || len(tags) != 2 {
		t.Errorf("tags = %v, want two entries", meta["tags"])
	}
	if string(body) != "# Body\n" {
		t.Errorf("body = %q, want %q", body, "# Body\n")
	}
}

func TestParseFrontmatterTOML(t *testing.T) {
	raw := []byte("+++\ntitle = \"Hello\"\nweight = 3\n+++\nbody")
	meta, body, err := ParseFrontmatter(raw)
	if err != nil {
		t.Fatalf("ParseFrontmatter() error: %v", err)
	}
	if meta["title"] != "Hello" {
		t.Errorf("title = %v, want Hello", meta["title"])
	}
	if string(body) != "body" {
		t.Errorf("body = %q, want %q", body, "body")
	}
}

func TestParseFrontmatterAbsent(t *testing.T) {
	raw := []byte("# Just a heading\n")
	meta, body, err := ParseFrontmatter(raw)
	if err != nil {
		t.Fatalf("ParseFrontmatter() error: %v", err)
	}
	if meta != nil {
		t.Errorf("meta = %v, want nil", meta)
	}
	if string(body) != string(raw) {
		t.Errorf("body = %q, want original content", body)
	}
}

func TestParseFrontmatterUnclosed(t *testing.T) {
	raw := []byte("---\ntitle: Hello\n")
	if _, _, err := ParseFrontmatter(raw); err == nil {
		t.Fatal("expected error for unclosed front-matter fence")
	}
}

func TestParseFrontmatterEmptyBlock(t *testing.T) {
	raw := []byte("---\n---\nbody")
	meta, body, err := ParseFrontmatter(raw)
	if err != nil {
		t.Fatalf("ParseFrontmatter() error: %v", err)
	}
	if meta == nil || len(meta) != 0 {
		t.Errorf("meta = %v, want empty map", meta)
	}
	if string(body) != "body" {
		t.Errorf("body = %q, want %q", body, "body")
	}
}

func TestParseFrontmatterArbitraryKeysPassThrough(t *testing.T) {
	raw := []byte("---\ntitle: X\nlayout: blog\ncustom: 42\n---\n")
	meta, _, err := ParseFrontmatter(raw)
	if err != nil {
		t.Fatalf("ParseFrontmatter() error: %v", err)
	}
	if meta["custom"] != 42 {
		t.Errorf("custom = %v (%T), want 42", meta["custom"], meta["custom"])
	}
}
