package site

import (
	"fmt"
	"os"

	"github.com/jmorelli/trellis/internal/config"
	"github.com/jmorelli/trellis/internal/extension"
	"github.com/jmorelli/trellis/internal/feed"
	"github.com/jmorelli/trellis/internal/layout"
	"github.com/jmorelli/trellis/internal/loader"
	"github.com/jmorelli/trellis/internal/page"
	"github.com/jmorelli/trellis/internal/parser"
	"github.com/jmorelli/trellis/internal/resolver"
	"github.com/jmorelli/trellis/internal/search"
	"github.com/jmorelli/trellis/internal/template"
)

// FromConfig wires a Site from file configuration: a filesystem loader
// over the content directory, one GitHub loader per configured remote,
// layouts from the layout directory (or the built-in default), and a
// single global page config with the standard pipeline.
func FromConfig(cfg *config.SiteConfig) (*Site, error) {
	layouts, err := layout.LoadDir(cfg.LayoutDir)
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		layouts = []page.Layout{layout.Default()}
	}

	pageCfg := &page.Config{
		Parsers:     []page.Parser{parser.NewMarkdown(), parser.NewRaw()},
		Extensions:  []page.Extension{extension.NewTOC()},
		Layouts:     layouts,
		Templates:   template.New(),
		FrontMatter: true,
		DataDir:     cfg.DataDir,
	}

	loaders := []loader.Loader{
		loader.NewFS(cfg.ContentDir, loader.WithKeepSuffix(cfg.KeepSuffix...)),
	}
	for _, r := range cfg.Remotes {
		var opts []loader.GitHubOption
		if r.Ref != "" {
			opts = append(opts, loader.WithRef(r.Ref))
		}
		if r.Path != "" {
			opts = append(opts, loader.WithPathPrefix(r.Path))
		}
		if r.TokenEnv != "" {
			token := os.Getenv(r.TokenEnv)
			if token == "" {
				return nil, fmt.Errorf("remote %s: token environment variable %s is empty", r.Repo, r.TokenEnv)
			}
			opts = append(opts, loader.WithToken(token))
		}
		loaders = append(loaders, loader.NewGitHub(r.Repo, opts...))
	}

	// Eager mode publishes the page index, which is what the generated
	// feed and search documents are built from.
	if cfg.Eager.Enabled {
		loaders = append(loaders, loader.NewMemory("generated", []loader.Entry{
			{Path: "feed.xml", Render: renderFeed(cfg)},
			{Path: "search.json", Render: renderSearchIndex()},
		}, loader.WithMemoryKeepSuffix("*.xml", "*.json")))
	}

	siteOpts := []Option{
		WithLoaders(loaders...),
		WithResolver(resolver.Static{Config: pageCfg}),
	}
	if cfg.Eager.Enabled {
		siteOpts = append(siteOpts, WithEager(cfg.Eager.Limit))
	}
	return New(siteOpts...), nil
}

// renderFeed produces the site's RSS document from the eager page index.
func renderFeed(cfg *config.SiteConfig) page.RenderFunc {
	return func(p *page.Page) (string, error) {
		index, _ := p.Data[page.PagesKey].(map[string]map[string]any)
		out, err := feed.Generate(index, feed.Options{
			Title:   cfg.Title,
			BaseURL: cfg.BaseURL,
			FeedURL: p.URL,
		})
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

// renderSearchIndex produces the client-side search index.
func renderSearchIndex() page.RenderFunc {
	return func(p *page.Page) (string, error) {
		index, _ := p.Data[page.PagesKey].(map[string]map[string]any)
		out, err := search.Build(index, p.URL)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}
