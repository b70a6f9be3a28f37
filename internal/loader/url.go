package loader

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/unicode/norm"
)

// hiddenPrefix marks files and directories excluded from discovery.
const hiddenPrefix = "_"

// indexStem is the file stem that makes an entry its directory's page.
const indexStem = "index"

var (
	slugStripRe   = regexp.MustCompile(`[^a-z0-9\-.]`)
	multiHyphenRe = regexp.MustCompile(`-{2,}`)
)

// ignored reports whether a slash-separated origin-relative path contains
// a hidden segment (leading underscore or dot).
func ignored(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, hiddenPrefix) || strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// urlFromPath derives the route URL for an origin-relative path:
// path/to/name.ext -> /path/to/name, path/to/index.ext -> /path/to, and a
// root index file -> /. Paths matching a keep-suffix pattern retain their
// extension as the final segment.
func urlFromPath(rel string, keepSuffix []string) string {
	rel = strings.Trim(path.Clean(rel), "/")

	dir, file := path.Split(rel)
	stem := strings.TrimSuffix(file, path.Ext(file))
	if retainsSuffix(rel, keepSuffix) {
		stem = file
	}

	var segments []string
	for _, seg := range strings.Split(strings.Trim(dir, "/"), "/") {
		if seg == "" {
			continue
		}
		segments = append(segments, slugify(seg))
	}
	if stem != indexStem {
		segments = append(segments, slugify(stem))
	}

	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/")
}

// retainsSuffix reports whether rel matches any keep-suffix glob.
func retainsSuffix(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// slugify converts one path segment into a URL-safe slug: accents are
// folded via NFKD, the result is lowercased, spaces and underscores
// become hyphens, and anything outside [a-z0-9-.] is dropped.
func slugify(seg string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(seg) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	s := strings.ToLower(b.String())
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = slugStripRe.ReplaceAllString(s, "")
	s = multiHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
