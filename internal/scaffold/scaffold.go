// Package scaffold creates the starting files for a new Trellis site: a
// config, a content tree with front-matter examples, a default layout,
// and a sample partial.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// nowFunc is overridable so tests get stable dates.
var nowFunc = time.Now

const configTemplate = `title: %s
baseURL: ""
contentDir: content
layoutDir: layouts
dataDir: data
outputDir: public

eager:
  enabled: true
  limit: 8

server:
  port: 3000
  host: localhost
  livereload: true
`

const indexPage = `---
title: %s
description: A new Trellis site
---
# Welcome to {{title}}

Edit ` + "`content/index.md`" + ` to change this page, then run
` + "`trellis serve`" + ` to preview it.

{{> intro}}
`

const firstPost = `---
title: First Post
layout: default
date: %s
tags:
  - meta
---
## Hello

This page lives at ` + "`/posts/first-post`" + `.
`

const introPartial = `Pages are markdown with mustache templating; partials live in
` + "`content/_partials`" + `.
`

const defaultLayoutFile = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{if .Description}}<meta name="description" content="{{.Description}}">
{{end}}</head>
<body>
<main>
{{.Content}}
</main>
</body>
</html>
`

// NewSite creates the site skeleton under dir. It refuses to scaffold
// into an existing directory.
func NewSite(dir, title string) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}

	for _, sub := range []string{
		filepath.Join(dir, "content", "posts"),
		filepath.Join(dir, "content", "_partials"),
		filepath.Join(dir, "layouts"),
		filepath.Join(dir, "data"),
	} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", sub, err)
		}
	}

	files := map[string]string{
		"trellis.yaml":                fmt.Sprintf(configTemplate, title),
		"content/index.md":            fmt.Sprintf(indexPage, title),
		"content/posts/first-post.md": fmt.Sprintf(firstPost, nowFunc().Format("2006-01-02")),
		"content/_partials/intro.md":  introPartial,
		"layouts/default.html":        defaultLayoutFile,
	}
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", rel, err)
		}
	}
	return nil
}
