package router

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmorelli/trellis/internal/site"
)

// GenerateResult summarizes one static generation run.
type GenerateResult struct {
	Written  []string         // URLs whose output files were emitted
	Failures map[string]error // URL -> page-local build failure
	Duration time.Duration
}

// Err returns the aggregated failure summary, or nil when every page
// generated cleanly.
func (r *GenerateResult) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return fmt.Errorf("static generation: %d of %d page(s) failed", len(r.Failures), len(r.Failures)+len(r.Written))
}

// Generate renders every route exactly once and writes each result under
// outDir, keyed by URL. Individual page failures are recorded and the run
// continues; the caller checks result.Err for the aggregate outcome.
func Generate(ctx context.Context, s *site.Site, outDir string) (*GenerateResult, error) {
	start := time.Now()
	result := &GenerateResult{Failures: make(map[string]error)}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	for _, src := range s.Sources() {
		p, err := src.Page(ctx)
		if err != nil {
			result.Failures[src.URL] = err
			continue
		}
		if err := writePage(outDir, src.URL, src.Path, p.Output); err != nil {
			result.Failures[src.URL] = err
			continue
		}
		result.Written = append(result.Written, src.URL)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// writePage writes one page's output, deriving the file path from the
// route URL: "/" becomes index.html, "/about" becomes about/index.html,
// and a suffix-retaining URL like "/feed.xml" is written verbatim. Dots
// elsewhere in a URL ("/release/v1.2.3") do not make it a file: only a
// URL that kept its source extension is.
func writePage(outDir, url, srcPath string, data []byte) error {
	rel := strings.Trim(url, "/")
	dest := filepath.Join(outDir, filepath.FromSlash(rel), "index.html")
	if rel == "" {
		dest = filepath.Join(outDir, "index.html")
	} else if retainedSuffix(rel, srcPath) {
		dest = filepath.Join(outDir, filepath.FromSlash(rel))
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", url, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}

// retainedSuffix reports whether the URL kept its source file's extension,
// which marks the route as a standalone file rather than a directory page.
func retainedSuffix(rel, srcPath string) bool {
	ext := strings.ToLower(path.Ext(srcPath))
	return ext != "" && strings.HasSuffix(rel, ext)
}
