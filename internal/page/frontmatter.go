package page

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	yamlFence = []byte("---")
	tomlFence = []byte("+++")
)

// ParseFrontmatter extracts the optional leading metadata block from raw
// content. YAML blocks are fenced with ---, TOML blocks with +++. It
// returns the parsed mapping and the remaining body. Content without an
// opening fence is returned unchanged with nil metadata; an opening fence
// without a matching closing fence is an error.
func ParseFrontmatter(raw []byte) (meta map[string]any, body []byte, err error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")

	var fence []byte
	switch {
	case bytes.HasPrefix(trimmed, yamlFence):
		fence = yamlFence
	case bytes.HasPrefix(trimmed, tomlFence):
		fence = tomlFence
	default:
		return nil, raw, nil
	}

	rest := trimmed[len(fence):]
	nl := bytes.IndexByte(rest, '\n')
	if nl == -1 {
		// A bare fence with nothing after it is not front-matter.
		return nil, raw, nil
	}
	rest = rest[nl+1:]

	block, after, ok := bytes.Cut(rest, fence)
	if !ok {
		return nil, raw, fmt.Errorf("front-matter fence %q is never closed", string(fence))
	}

	if nl := bytes.IndexByte(after, '\n'); nl != -1 {
		body = after[nl+1:]
	}

	if len(bytes.TrimSpace(block)) == 0 {
		return map[string]any{}, body, nil
	}

	meta = make(map[string]any)
	if bytes.Equal(fence, yamlFence) {
		if err := yaml.Unmarshal(block, &meta); err != nil {
			return nil, nil, fmt.Errorf("parsing YAML front-matter: %w", err)
		}
	} else {
		if err := toml.Unmarshal(block, &meta); err != nil {
			return nil, nil, fmt.Errorf("parsing TOML front-matter: %w", err)
		}
	}
	return meta, body, nil
}
