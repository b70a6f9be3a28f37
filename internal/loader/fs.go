package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/jmorelli/trellis/internal/page"
)

// partialsDir is the reserved directory (hidden from discovery by its
// underscore prefix) that holds template partials for a filesystem origin.
const partialsDir = "_partials"

// defaultExtensions are the file extensions discovered as content when no
// override is configured.
var defaultExtensions = []string{".md", ".markdown", ".html"}

// FSOption configures a filesystem loader.
type FSOption func(*FS)

// WithExtensions overrides the set of file extensions treated as content.
func WithExtensions(exts ...string) FSOption {
	return func(l *FS) { l.extensions = exts }
}

// WithKeepSuffix registers glob patterns for paths whose file extension is
// retained in the derived URL instead of being stripped.
func WithKeepSuffix(patterns ...string) FSOption {
	return func(l *FS) { l.keepSuffix = patterns }
}

// FS discovers content from a local directory tree. It implements
// Loader, page.PartialReader, and Watcher.
type FS struct {
	root       string
	name       string
	extensions []string
	keepSuffix []string
}

// NewFS creates a filesystem loader rooted at dir.
func NewFS(dir string, opts ...FSOption) *FS {
	l := &FS{
		root:       dir,
		name:       "fs:" + dir,
		extensions: defaultExtensions,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name identifies this origin in errors and logs.
func (l *FS) Name() string { return l.name }

// Discover walks the root recursively and returns one source per content
// file. Entries with a hidden (underscore or dot) prefix anywhere in
// their path are skipped; an index file becomes its directory's page.
func (l *FS) Discover(ctx context.Context) ([]*page.Source, error) {
	if _, err := os.Stat(l.root); err != nil {
		return nil, &page.DiscoveryError{Origin: l.name, Err: err}
	}

	var sources []*page.Source
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if ignored(rel) || !l.isContent(rel) {
			return nil
		}

		abs := p
		sources = append(sources, &page.Source{
			Path:   rel,
			URL:    urlFromPath(rel, l.keepSuffix),
			Origin: l,
			Content: func(context.Context) ([]byte, error) {
				return os.ReadFile(abs)
			},
		})
		return nil
	})
	if err != nil {
		return nil, &page.DiscoveryError{Origin: l.name, Err: err}
	}
	return sources, nil
}

// isContent reports whether the path carries a configured content extension.
func (l *FS) isContent(rel string) bool {
	ext := strings.ToLower(filepath.Ext(rel))
	for _, e := range l.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadPartial resolves a template include from the origin's _partials
// directory. The name is tried verbatim, then with each content extension
// appended.
func (l *FS) ReadPartial(_ context.Context, name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", fmt.Errorf("partial %q: invalid name", name)
	}
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		for _, ext := range l.extensions {
			candidates = append(candidates, name+ext)
		}
	}
	for _, c := range candidates {
		raw, err := os.ReadFile(filepath.Join(l.root, partialsDir, filepath.FromSlash(c)))
		if err == nil {
			return string(raw), nil
		}
	}
	return "", &page.PartialNotFoundError{Name: name, Origin: l.name}
}

// Watch emits one event per observed content-file change under the root.
// Directories created while watching are added recursively. The channel
// closes when ctx is cancelled.
func (l *FS) Watch(ctx context.Context) (<-chan Event, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addRecursive(fsw, l.root); err != nil {
		fsw.Close()
		return nil, err
	}

	events := make(chan Event)
	go func() {
		defer close(events)
		defer fsw.Close()
		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if ev.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						_ = addRecursive(fsw, ev.Name)
						continue
					}
				}
				rel, err := filepath.Rel(l.root, ev.Name)
				if err != nil {
					continue
				}
				rel = filepath.ToSlash(rel)
				if ignored(rel) || !l.isContent(rel) {
					continue
				}
				op, ok := eventOp(ev.Op)
				if !ok {
					continue
				}
				select {
				case events <- Event{Op: op, Path: rel}:
				case <-ctx.Done():
					return
				}

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				log.Printf("watch error on %s: %v", l.name, err)

			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

// eventOp maps an fsnotify operation onto the loader event taxonomy.
func eventOp(op fsnotify.Op) (EventOp, bool) {
	switch {
	case op&fsnotify.Create != 0:
		return Added, true
	case op&fsnotify.Write != 0:
		return Modified, true
	case op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return Removed, true
	default:
		return 0, false
	}
}

// addRecursive registers root and all its subdirectories with the watcher.
func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(p)
		}
		return nil
	})
}
