package page

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDataDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"site.yaml":        "author: Jane\n",
		"nav.json":         `[{"label": "Home", "url": "/"}]`,
		"build.toml":       "version = \"1.2\"\n",
		"people/team.yaml": "- Ada\n- Grace\n",
		"notes.txt":        "ignored",
	}
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	data, err := LoadDataDir(dir)
	if err != nil {
		t.Fatalf("LoadDataDir() error: %v", err)
	}

	site, ok := data["site"].(map[string]any)
	if !ok || site["author"] != "Jane" {
		t.Errorf("site = %v", data["site"])
	}
	if nav, ok := data["nav"].([]any); !ok || len(nav) != 1 {
		t.Errorf("nav = %v", data["nav"])
	}
	build, ok := data["build"].(map[string]any)
	if !ok || build["version"] != "1.2" {
		t.Errorf("build = %v", data["build"])
	}
	people, ok := data["people"].(map[string]any)
	if !ok {
		t.Fatalf("people = %v", data["people"])
	}
	if team, ok := people["team"].([]any); !ok || len(team) != 2 {
		t.Errorf("people.team = %v", people["team"])
	}
	if _, ok := data["notes"]; ok {
		t.Error("non-data file loaded")
	}
}

func TestLoadDataDirMissing(t *testing.T) {
	data, err := LoadDataDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("LoadDataDir() error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("data = %v, want empty", data)
	}
}

func TestLoadDataDirMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(":\n  - ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDataDir(dir); err == nil {
		t.Fatal("expected error for malformed data file")
	}
}
