package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/jmorelli/trellis/internal/page"
)

// Defaults for the remote repository loader.
const (
	defaultAPIURL  = "https://api.github.com"
	defaultRef     = "main"
	defaultPrefix  = "docs/"
	listPageSize   = 100
	defaultRetries = 4
)

// RateLimitError reports a rate-limited response from the remote API.
// It is classified retryable: callers back off and try again. Requests
// without an access token hit these limits quickly.
type RateLimitError struct {
	StatusCode int
	URL        string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (HTTP %d) fetching %s", e.StatusCode, e.URL)
}

// githubEntry is one item of a contents listing response.
type githubEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// GitHubOption configures a GitHub loader.
type GitHubOption func(*GitHub)

// WithRef selects the branch, tag, or commit to read from.
func WithRef(ref string) GitHubOption {
	return func(l *GitHub) { l.ref = ref }
}

// WithPathPrefix scopes discovery to one subtree of the repository.
func WithPathPrefix(prefix string) GitHubOption {
	return func(l *GitHub) { l.prefix = strings.Trim(prefix, "/") }
}

// WithToken supplies a bearer access token. Without one, rate-limit
// errors are expected and retried with backoff.
func WithToken(token string) GitHubOption {
	return func(l *GitHub) { l.token = token }
}

// WithAPIURL overrides the API base URL. Used by tests.
func WithAPIURL(base string) GitHubOption {
	return func(l *GitHub) { l.apiURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) GitHubOption {
	return func(l *GitHub) { l.client = c }
}

// WithGitHubKeepSuffix registers glob patterns for paths whose file
// extension is retained in the derived URL.
func WithGitHubKeepSuffix(patterns ...string) GitHubOption {
	return func(l *GitHub) { l.keepSuffix = patterns }
}

// GitHub discovers content from a repository via the contents API.
// Remote content is treated as fixed for the process lifetime: there is
// no watch support.
type GitHub struct {
	repo       string // owner/name
	ref        string
	prefix     string
	token      string
	apiURL     string
	client     *http.Client
	extensions []string
	keepSuffix []string
	maxTries   uint
}

// NewGitHub creates a loader for the given "owner/name" repository.
func NewGitHub(repo string, opts ...GitHubOption) *GitHub {
	l := &GitHub{
		repo:       repo,
		ref:        defaultRef,
		prefix:     strings.Trim(defaultPrefix, "/"),
		apiURL:     defaultAPIURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		extensions: defaultExtensions,
		maxTries:   defaultRetries,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name identifies this origin in errors and logs.
func (l *GitHub) Name() string {
	return fmt.Sprintf("github:%s@%s/%s", l.repo, l.ref, l.prefix)
}

// Discover lists the configured subtree recursively and returns one
// source per content file, applying the same ignore and index rules as
// the filesystem loader.
func (l *GitHub) Discover(ctx context.Context) ([]*page.Source, error) {
	entries, err := l.listDir(ctx, l.prefix)
	if err != nil {
		return nil, &page.DiscoveryError{Origin: l.Name(), Err: err}
	}

	var sources []*page.Source
	for _, e := range entries {
		rel := strings.Trim(strings.TrimPrefix(e.Path, l.prefix), "/")
		if ignored(rel) || !l.isContent(rel) {
			continue
		}
		entry := e
		sources = append(sources, &page.Source{
			Path:   rel,
			URL:    urlFromPath(rel, l.keepSuffix),
			Origin: l,
			Content: func(ctx context.Context) ([]byte, error) {
				return l.fetchRaw(ctx, entry)
			},
		})
	}
	return sources, nil
}

// isContent reports whether the path carries a configured content extension.
func (l *GitHub) isContent(rel string) bool {
	ext := strings.ToLower(path.Ext(rel))
	for _, e := range l.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadPartial fetches a template include from the subtree's _partials
// directory.
func (l *GitHub) ReadPartial(ctx context.Context, name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", fmt.Errorf("partial %q: invalid name", name)
	}
	candidates := []string{name}
	if path.Ext(name) == "" {
		for _, ext := range l.extensions {
			candidates = append(candidates, name+ext)
		}
	}
	for _, c := range candidates {
		raw, err := l.fetchRaw(ctx, githubEntry{Path: path.Join(l.prefix, partialsDir, c)})
		if err == nil {
			return string(raw), nil
		}
	}
	return "", &page.PartialNotFoundError{Name: name, Origin: l.Name()}
}

// listDir fetches one directory level page by page, then descends into
// subdirectories. Hidden directories are pruned before descending.
func (l *GitHub) listDir(ctx context.Context, dir string) ([]githubEntry, error) {
	var all []githubEntry
	for pageNum := 1; ; pageNum++ {
		u := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s&per_page=%d&page=%d",
			l.apiURL, l.repo, dir, url.QueryEscape(l.ref), listPageSize, pageNum)

		body, err := l.get(ctx, u)
		if err != nil {
			return nil, err
		}
		var entries []githubEntry
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, fmt.Errorf("decoding listing of %s: %w", dir, err)
		}
		all = append(all, entries...)
		if len(entries) < listPageSize {
			break
		}
	}

	var flat []githubEntry
	for _, e := range all {
		switch e.Type {
		case "dir":
			if strings.HasPrefix(e.Name, hiddenPrefix) || strings.HasPrefix(e.Name, ".") {
				continue
			}
			children, err := l.listDir(ctx, e.Path)
			if err != nil {
				return nil, err
			}
			flat = append(flat, children...)
		case "file":
			flat = append(flat, e)
		}
	}
	return flat, nil
}

// fetchRaw retrieves a file's bytes, preferring the listing's download
// URL and falling back to the contents endpoint with the raw media type.
func (l *GitHub) fetchRaw(ctx context.Context, e githubEntry) ([]byte, error) {
	u := e.DownloadURL
	if u == "" {
		u = fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s", l.apiURL, l.repo, e.Path, url.QueryEscape(l.ref))
	}
	return l.get(ctx, u)
}

// get performs one API request with retry. Rate-limit responses (403 and
// 429) are retried with exponential backoff; 404 is definitive and other
// client errors are permanent.
func (l *GitHub) get(ctx context.Context, u string) ([]byte, error) {
	return backoff.Retry(ctx, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/vnd.github.raw+json")
		if l.token != "" {
			req.Header.Set("Authorization", "Bearer "+l.token)
		}

		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err // network errors are retryable
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			return io.ReadAll(resp.Body)
		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
			return nil, &RateLimitError{StatusCode: resp.StatusCode, URL: u}
		case resp.StatusCode == http.StatusNotFound:
			return nil, backoff.Permanent(fmt.Errorf("%s: not found", u))
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("%s: HTTP %d", u, resp.StatusCode)
		default:
			return nil, backoff.Permanent(fmt.Errorf("%s: HTTP %d", u, resp.StatusCode))
		}
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(l.maxTries))
}
