// Package layout wraps processed page content into final documents.
// Layouts are html/template files selected by the front-matter layout key;
// an absent or unmatched key falls back to the first registered layout.
package layout

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmorelli/trellis/internal/page"
)

// Context is the data a layout template executes against. Head metadata
// (title, description, keywords) is derived from page data.
type Context struct {
	Title       string
	Description string
	Keywords    []string
	Content     template.HTML
	URL         string
	Path        string
	Data        map[string]any
}

// Template is a named html/template layout.
type Template struct {
	name string
	tmpl *template.Template
}

// New parses text into a layout with the given name.
func New(name, text string) (*Template, error) {
	t, err := template.New(name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing layout %q: %w", name, err)
	}
	return &Template{name: name, tmpl: t}, nil
}

// Name returns the layout's registered name.
func (t *Template) Name() string { return t.name }

// Render executes the layout against the page and its rendered content.
func (t *Template) Render(p *page.Page, content []byte) ([]byte, error) {
	ctx := Context{
		Title:       p.Title(),
		Description: stringKey(p.Data, page.KeyDescription),
		Keywords:    keywords(p.Data),
		Content:     template.HTML(content),
		URL:         p.URL,
		Path:        p.Path,
		Data:        p.Data,
	}
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("executing layout %q for %s: %w", t.name, p.Path, err)
	}
	return buf.Bytes(), nil
}

// defaultLayout is the built-in document shell used when a site registers
// no layouts of its own.
const defaultLayout = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{if .Description}}<meta name="description" content="{{.Description}}">
{{end}}{{if .Keywords}}<meta name="keywords" content="{{range $i, $k := .Keywords}}{{if $i}},{{end}}{{$k}}{{end}}">
{{end}}</head>
<body>
{{.Content}}
</body>
</html>
`

// Default returns the built-in layout, named "default".
func Default() page.Layout {
	l, err := New("default", defaultLayout)
	if err != nil {
		panic(err) // the built-in layout always parses
	}
	return l
}

// LoadDir parses every .html file in dir as a layout named by its file
// stem. "default" sorts first so it becomes the fallback; the rest follow
// alphabetically. A missing directory yields no layouts and no error.
func LoadDir(dir string) ([]page.Layout, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading layout directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".html" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Slice(names, func(i, j int) bool {
		if strings.TrimSuffix(names[i], ".html") == "default" {
			return true
		}
		if strings.TrimSuffix(names[j], ".html") == "default" {
			return false
		}
		return names[i] < names[j]
	})

	var layouts []page.Layout
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading layout %s: %w", name, err)
		}
		l, err := New(strings.TrimSuffix(name, ".html"), string(raw))
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, l)
	}
	return layouts, nil
}

// Resolve picks the layout for a page: the one matching name, or the
// first registered layout when name is empty or unmatched. An unmatched
// name additionally returns a page.LayoutNotFoundError so the fallback
// can be logged; rendering proceeds with the returned layout.
func Resolve(layouts []page.Layout, name string) (page.Layout, error) {
	if len(layouts) == 0 {
		return nil, &page.NoLayoutsError{}
	}
	if name == "" {
		return layouts[0], nil
	}
	for _, l := range layouts {
		if l.Name() == name {
			return l, nil
		}
	}
	return layouts[0], &page.LayoutNotFoundError{Name: name}
}

// stringKey returns data[key] when it is a string.
func stringKey(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

// keywords normalizes the keywords data key, which front-matter may give
// as a string list or a single comma-separated string.
func keywords(data map[string]any) []string {
	switch v := data[page.KeyKeywords].(type) {
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
