// Package loader discovers page sources from content origins. Built-in
// loaders cover a local directory tree, a remote GitHub repository, and a
// caller-supplied in-memory list; anything implementing Loader can be
// registered alongside them.
package loader

import (
	"context"

	"github.com/jmorelli/trellis/internal/page"
)

// Loader discovers the set of page sources for one origin. Discovery
// failures are reported as *page.DiscoveryError.
type Loader interface {
	page.Origin
	Discover(ctx context.Context) ([]*page.Source, error)
}

// EventOp classifies a change observed on a mutable origin.
type EventOp int

const (
	Added EventOp = iota
	Modified
	Removed
)

// String returns the lower-case name of the operation.
func (op EventOp) String() string {
	switch op {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is one observed change to an origin-relative path.
type Event struct {
	Op   EventOp
	Path string
}

// Watcher is implemented by loaders over mutable local origins. The
// returned channel closes when the context is cancelled.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}
