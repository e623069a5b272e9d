package flow

import (
	"errors"
	"fmt"

	"github.com/supportkit/pathfinder/pkg/domain"
)

// Graph is a validated, read-only forest of decision trees keyed by category id.
// Safe for concurrent use.
type Graph struct {
	roots []*domain.Node
}

// New validates the given roots and returns a Graph owning a private copy of them.
// All authoring problems are reported together as joined *ValidationError values.
func New(roots ...*domain.Node) (*Graph, error) {
	if err := validate(roots); err != nil {
		return nil, err
	}
	owned := make([]*domain.Node, len(roots))
	for i, r := range roots {
		owned[i] = clone(r)
	}
	return &Graph{roots: owned}, nil
}

// MustNew is like New but panics on invalid input. Intended for package level catalogs.
func MustNew(roots ...*domain.Node) *Graph {
	g, err := New(roots...)
	if err != nil {
		panic(err)
	}
	return g
}

// Roots returns the top-level categories in authoring order.
func (g *Graph) Roots() []*domain.Node {
	out := make([]*domain.Node, len(g.roots))
	copy(out, g.roots)
	return out
}

// Root returns the category with the given id.
func (g *Graph) Root(id string) (*domain.Node, bool) {
	for _, r := range g.roots {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Resolve walks path from the roots and returns the node it designates together with
// the breadcrumb titles collected on the way.
//
// Resolve never fails. An empty path yields (nil, []). When a segment does not match,
// resolution stops there and returns nil with the matched titles followed by the raw
// id of that segment.
func (g *Graph) Resolve(path domain.Path) (*domain.Node, []domain.Content) {
	titles := make([]domain.Content, 0, len(path))
	var current *domain.Node
	for i, id := range path {
		var next *domain.Node
		var ok bool
		if i == 0 {
			next, ok = g.Root(id)
		} else {
			next, ok = current.Choice(id)
		}
		if !ok {
			return nil, append(titles, domain.PlainText(id))
		}
		titles = append(titles, next.Title)
		current = next
	}
	return current, titles
}

// Lookup is the strict form of Resolve.
// It returns domain.ErrEmptyPath or a wrapped domain.ErrNodeNotFound naming the failing segment.
func (g *Graph) Lookup(path domain.Path) (*domain.Node, error) {
	if len(path) == 0 {
		return nil, domain.ErrEmptyPath
	}
	node, titles := g.Resolve(path)
	if node == nil {
		failed := path[:len(titles)]
		return nil, fmt.Errorf("%w: %q in %s", domain.ErrNodeNotFound, failed[len(failed)-1], failed.String())
	}
	return node, nil
}

// ErrSkipChildren can be returned by a WalkFunc to skip the children of the visited node.
var ErrSkipChildren = errors.New("skip children")

// WalkFunc is called for every node with the id path leading to it.
type WalkFunc func(path domain.Path, node *domain.Node) error

// Walk visits every node depth-first in display order, parents before children.
// It stops at the first error returned by fn, other than ErrSkipChildren.
func (g *Graph) Walk(fn WalkFunc) error {
	for _, r := range g.roots {
		if err := walk(domain.Path{r.ID}, r, fn); err != nil {
			return err
		}
	}
	return nil
}

func walk(path domain.Path, n *domain.Node, fn WalkFunc) error {
	if err := fn(path.Clone(), n); err != nil {
		if errors.Is(err, ErrSkipChildren) {
			return nil
		}
		return err
	}
	for _, child := range n.Choices() {
		if err := walk(append(path.Clone(), child.ID), child, fn); err != nil {
			return err
		}
	}
	return nil
}

// Stats summarizes the shape of a Graph.
type Stats struct {
	Categories int `json:"categories"`
	Nodes      int `json:"nodes"`
	Finals     int `json:"finals"`
	Dividers   int `json:"dividers"`
	MaxDepth   int `json:"max_depth"`
}

// Stats counts the nodes of the graph.
func (g *Graph) Stats() Stats {
	s := Stats{Categories: len(g.roots)}
	_ = g.Walk(func(path domain.Path, n *domain.Node) error {
		s.Nodes++
		if n.Final {
			s.Finals++
		}
		for _, e := range n.Entries {
			if _, ok := e.(domain.Divider); ok {
				s.Dividers++
			}
		}
		if len(path) > s.MaxDepth {
			s.MaxDepth = len(path)
		}
		return nil
	})
	return s
}

func clone(n *domain.Node) *domain.Node {
	c := *n
	c.Entries = make([]domain.Entry, len(n.Entries))
	for i, e := range n.Entries {
		if choice, ok := e.(domain.Choice); ok {
			c.Entries[i] = domain.Choice{Node: clone(choice.Node)}
			continue
		}
		c.Entries[i] = e
	}
	return &c
}
