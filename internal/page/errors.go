package page

import "fmt"

// DiscoveryError reports an unreachable or malformed origin, or a URL
// collision detected while assembling the route table. It is fatal to the
// owning loader.
type DiscoveryError struct {
	Origin string
	Err    error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery failed for origin %q: %v", e.Origin, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// UnresolvedConfigError reports that the config resolver has no rule
// matching a URL. It is a configuration bug: the resolver must be total
// over every URL the loaders can produce.
type UnresolvedConfigError struct {
	URL string
}

func (e *UnresolvedConfigError) Error() string {
	return fmt.Sprintf("no config rule matches URL %q", e.URL)
}

// TemplateError reports a failed template stage for one page. The failure
// is page-local, never pipeline-fatal.
type TemplateError struct {
	Path string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template stage failed for %s: %v", e.Path, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// NoParserFoundError reports that no configured parser matched a source.
type NoParserFoundError struct {
	Path string
}

func (e *NoParserFoundError) Error() string {
	return fmt.Sprintf("no parser matches %s", e.Path)
}

// ExtensionError reports a failed extension in the transform chain.
type ExtensionError struct {
	Extension string
	Path      string
	Err       error
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("extension %q failed for %s: %v", e.Extension, e.Path, e.Err)
}

func (e *ExtensionError) Unwrap() error { return e.Err }

// LayoutNotFoundError reports that a front-matter layout name did not
// match any registered layout. Callers fall back to the first registered
// layout rather than failing the build; the error exists so the fallback
// can be surfaced in logs.
type LayoutNotFoundError struct {
	Name string
}

func (e *LayoutNotFoundError) Error() string {
	return fmt.Sprintf("layout %q is not registered", e.Name)
}

// NoLayoutsError reports that a layout was required but the config has
// none registered. This is fatal.
type NoLayoutsError struct {
	Path string
}

func (e *NoLayoutsError) Error() string {
	return fmt.Sprintf("page %s requires a layout but none are registered", e.Path)
}

// PartialNotFoundError reports a template include that the owning origin
// could not resolve. It fails the page's template stage.
type PartialNotFoundError struct {
	Name   string
	Origin string
}

func (e *PartialNotFoundError) Error() string {
	return fmt.Sprintf("partial %q not found in %s", e.Name, e.Origin)
}

// NotFoundError reports a requested URL with no route. It is surfaced as
// a not-found response, never a crash.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no page at %q", e.URL)
}
