// Package search builds a client-side search index from the eager-mode
// page index. Like the feed, the index is a generated source rebuilt
// through the normal pipeline.
package search

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/jmorelli/trellis/internal/page"
)

// Entry is one page in the search index.
type Entry struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Build serializes the page index as a JSON array sorted by URL. The
// index's own URL is excluded so the search page does not list itself.
func Build(index map[string]map[string]any, selfURL string) ([]byte, error) {
	entries := make([]Entry, 0, len(index))
	for url, data := range index {
		if url == selfURL {
			continue
		}
		title, _ := data[page.KeyTitle].(string)
		desc, _ := data[page.KeyDescription].(string)
		entries = append(entries, Entry{
			Title:       title,
			URL:         url,
			Description: desc,
			Tags:        tags(data),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].URL < entries[j].URL })
	return json.MarshalIndent(entries, "", "  ")
}

// tags normalizes the "tags" data key, which front-matter may give as a
// string list or a single comma-separated string.
func tags(data map[string]any) []string {
	switch v := data["tags"].(type) {
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
