package resolver

import (
	"errors"
	"testing"

	"github.com/jmorelli/trellis/internal/page"
)

func TestStaticResolvesEverything(t *testing.T) {
	cfg := &page.Config{}
	r := Static{Config: cfg}
	for _, url := range []string{"/", "/about", "/blog/post"} {
		got, err := r.Resolve(url)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", url, err)
		}
		if got != cfg {
			t.Errorf("Resolve(%q) returned a different config", url)
		}
	}
}

func TestRuleSetFirstMatchWins(t *testing.T) {
	blogCfg := &page.Config{}
	docsCfg := &page.Config{}
	allCfg := &page.Config{}

	rs, err := NewRuleSet(
		Rule{Pattern: "blog/**", Config: blogCfg},
		Rule{Pattern: "docs/*", Config: docsCfg},
		Rule{Pattern: "**", Config: allCfg},
	)
	if err != nil {
		t.Fatalf("NewRuleSet() error: %v", err)
	}

	cases := []struct {
		url  string
		want *page.Config
	}{
		{"/blog/first-post", blogCfg},
		{"/blog/2024/deep/nesting", blogCfg},
		{"/docs/install", docsCfg},
		{"/docs/install/extra", allCfg}, // single-segment wildcard does not recurse
		{"/about", allCfg},
		{"/", allCfg}, // catch-all covers the root
	}
	for _, tc := range cases {
		got, err := rs.Resolve(tc.url)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", tc.url, err)
		}
		if got != tc.want {
			t.Errorf("Resolve(%q) picked the wrong config", tc.url)
		}
	}
}

func TestRuleSetRegistrationOrderBreaksTies(t *testing.T) {
	first := &page.Config{}
	second := &page.Config{}
	rs, err := NewRuleSet(
		Rule{Pattern: "blog/*", Config: first},
		Rule{Pattern: "blog/*", Config: second},
	)
	if err != nil {
		t.Fatalf("NewRuleSet() error: %v", err)
	}
	got, err := rs.Resolve("/blog/post")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != first {
		t.Error("equal-specificity tie not broken by registration order")
	}
}

func TestRuleSetNoMatchFails(t *testing.T) {
	rs, err := NewRuleSet(Rule{Pattern: "blog/**", Config: &page.Config{}})
	if err != nil {
		t.Fatalf("NewRuleSet() error: %v", err)
	}
	_, err = rs.Resolve("/about")
	var unresolved *page.UnresolvedConfigError
	if !errors.As(err, &unresolved) {
		t.Fatalf("Resolve() error = %v, want UnresolvedConfigError", err)
	}
	if unresolved.URL != "/about" {
		t.Errorf("error URL = %q, want /about", unresolved.URL)
	}
}

func TestRuleSetRootPattern(t *testing.T) {
	rootCfg := &page.Config{}
	restCfg := &page.Config{}
	rs, err := NewRuleSet(
		Rule{Pattern: "/", Config: rootCfg},
		Rule{Pattern: "**", Config: restCfg},
	)
	if err != nil {
		t.Fatalf("NewRuleSet() error: %v", err)
	}

	if got, _ := rs.Resolve("/"); got != rootCfg {
		t.Error("root URL did not match the root pattern")
	}
	if got, _ := rs.Resolve("/about"); got != restCfg {
		t.Error("non-root URL matched the root pattern")
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	rs, err := NewRuleSet(
		Rule{Pattern: "docs/**", Config: &page.Config{}},
		Rule{Pattern: "**", Config: &page.Config{}},
	)
	if err != nil {
		t.Fatalf("NewRuleSet() error: %v", err)
	}
	a, err := rs.Resolve("/docs/guide")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	b, err := rs.Resolve("/docs/guide")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if a != b {
		t.Error("two resolutions of the same URL returned different configs")
	}
}

func TestNewRuleSetRejectsBadPattern(t *testing.T) {
	if _, err := NewRuleSet(Rule{Pattern: "blog/[", Config: &page.Config{}}); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}
