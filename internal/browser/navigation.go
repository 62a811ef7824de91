package browser

import (
	"fmt"
	"strings"

	"gallerist/internal/assets"
)

// Navigation tracks the current virtual path below a fixed root.
type Navigation struct {
	root        string
	path        string
	clientDepth int
}

// Descent describes the outcome of a descend request. When Review is set the
// target sits at client depth: the path did not change and Records holds
// every asset under Target for the review screen.
type Descent struct {
	Review  bool
	Folder  string
	Target  string
	Records []assets.Record
}

// NewNavigation starts at root. Descending into a path with clientDepth or
// more segments yields a review transition instead of moving.
func NewNavigation(root string, clientDepth int) Navigation {
	root = strings.Trim(root, "/")
	return Navigation{root: root, path: root, clientDepth: clientDepth}
}

func (n Navigation) Current() string { return n.path }

func (n Navigation) Root() string { return n.root }

func (n Navigation) AtRoot() bool { return n.path == n.root }

// Descend moves into name or, at client depth, reports a review transition.
func (n *Navigation) Descend(name string, records []assets.Record) (Descent, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "/") {
		return Descent{}, fmt.Errorf("%w: %q", ErrInvalidFolder, name)
	}
	target := assets.Join(n.path, name)
	if n.clientDepth > 0 && assets.Depth(target) >= n.clientDepth {
		return Descent{
			Review:  true,
			Folder:  name,
			Target:  target,
			Records: assets.CollectUnder(target, records),
		}, nil
	}
	n.path = target
	return Descent{Folder: name, Target: target}, nil
}

// Ascend removes the last path segment. It is a no-op at the root and
// reports whether the path changed.
func (n *Navigation) Ascend() bool {
	if n.AtRoot() || n.path == "" {
		return false
	}
	parent := assets.Parent(n.path)
	if len(parent) < len(n.root) {
		parent = n.root
	}
	n.path = parent
	return true
}

// Reset returns to the root.
func (n *Navigation) Reset() {
	n.path = n.root
}

// Rebase moves the root, for example when the day rolls over. The current
// path is kept when it still lies under the new root.
func (n *Navigation) Rebase(root string) {
	root = strings.Trim(root, "/")
	if root == n.root {
		return
	}
	n.root = root
	if n.path != root && !strings.HasPrefix(n.path, root+"/") {
		n.path = root
	}
}
