package dsl

import (
	"fmt"

	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/flow"
)

// Builder manages the graph construction.
type Builder struct {
	roots []*NodeBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{}
}

// Add creates a new top-level category.
// If the category already exists, it returns the existing builder.
func (b *Builder) Add(id, title string) *NodeBuilder {
	for _, nb := range b.roots {
		if nb.node.ID == id {
			return nb
		}
	}
	nb := Node(id, title)
	b.roots = append(b.roots, nb)
	return nb
}

// Build validates the categories and compiles them into a flow.Graph.
func (b *Builder) Build() (*flow.Graph, error) {
	roots := make([]*domain.Node, 0, len(b.roots))
	for _, nb := range b.roots {
		roots = append(roots, nb.Build())
	}

	g, err := flow.New(roots...)
	if err != nil {
		return nil, fmt.Errorf("failed to build flow: %w", err)
	}
	return g, nil
}
