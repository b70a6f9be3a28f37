// Package resolver maps candidate URLs to page configurations. Resolution
// is a pure function of the URL and the registered rules: it never depends
// on build order or prior state.
package resolver

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jmorelli/trellis/internal/page"
)

// Resolver assigns a page.Config to every URL the loaders can produce.
type Resolver interface {
	Resolve(url string) (*page.Config, error)
}

// Static applies one config to all URLs. It is the default strategy.
type Static struct {
	Config *page.Config
}

// Resolve returns the single config for any URL.
func (s Static) Resolve(string) (*page.Config, error) {
	if s.Config == nil {
		return nil, fmt.Errorf("static resolver has no config")
	}
	return s.Config, nil
}

// Rule pairs a path-glob pattern with the config applied to matching
// URLs. Patterns support exact segments, * for a single segment, and **
// for any number of segments. They are matched against the URL with its
// leading slash stripped, so "blog/**" matches "/blog/first-post".
type Rule struct {
	Pattern string
	Config  *page.Config
}

// RuleSet evaluates rules in registration order; the first matching
// pattern wins. A trailing "**" rule acts as the catch-all. URLs matched
// by no rule fail with page.UnresolvedConfigError. Ties between patterns
// of equal specificity are broken strictly by registration order.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet validates each rule's pattern and returns the ordered set.
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	for _, r := range rules {
		if !doublestar.ValidatePattern(r.Pattern) {
			return nil, fmt.Errorf("invalid config pattern %q", r.Pattern)
		}
		if r.Config == nil {
			return nil, fmt.Errorf("config pattern %q has no config", r.Pattern)
		}
	}
	return &RuleSet{rules: rules}, nil
}

// Resolve returns the config of the first rule whose pattern matches url.
func (rs *RuleSet) Resolve(url string) (*page.Config, error) {
	candidate := strings.TrimPrefix(url, "/")
	for _, r := range rs.rules {
		ok, err := match(strings.TrimPrefix(r.Pattern, "/"), candidate)
		if err != nil {
			return nil, fmt.Errorf("matching pattern %q: %w", r.Pattern, err)
		}
		if ok {
			return r.Config, nil
		}
	}
	return nil, &page.UnresolvedConfigError{URL: url}
}

// match compares one normalized pattern against one normalized URL. The
// catch-all "**" matches everything including the root; the empty pattern
// (registered as "/") matches only the root.
func match(pattern, candidate string) (bool, error) {
	switch {
	case pattern == "**":
		return true, nil
	case pattern == "":
		return candidate == "", nil
	case candidate == "":
		return false, nil
	}
	return doublestar.Match(pattern, candidate)
}
