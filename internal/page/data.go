package page

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadDataDir parses every YAML, JSON, and TOML file under dir into a
// nested mapping keyed by file stem, with subdirectories becoming nested
// maps (data/people/team.yaml -> result["people"]["team"]). The result
// serves as template-supplied default data; front-matter keys always take
// precedence. A missing directory yields an empty map.
func LoadDataDir(dir string) (map[string]any, error) {
	result := make(map[string]any)

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return result, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		var parse func([]byte, any) error
		switch ext {
		case ".yaml", ".yml":
			parse = func(b []byte, v any) error { return yaml.Unmarshal(b, v) }
		case ".json":
			parse = json.Unmarshal
		case ".toml":
			parse = toml.Unmarshal
		default:
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading data file %s: %w", path, err)
		}
		var value any
		if err := parse(raw, &value); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		keys := strings.Split(filepath.ToSlash(rel), "/")
		keys[len(keys)-1] = strings.TrimSuffix(keys[len(keys)-1], ext)
		nestInto(result, keys, value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// nestInto places value into m under the given key path, creating
// intermediate maps as needed. A file shadowed by a directory of the same
// name is overwritten by the directory's map.
func nestInto(m map[string]any, keys []string, value any) {
	for _, key := range keys[:len(keys)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[key] = next
		}
		m = next
	}
	m[keys[len(keys)-1]] = value
}
