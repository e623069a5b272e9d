package dsl

import "github.com/supportkit/pathfinder/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node     domain.Node
	children []any // *NodeBuilder or domain.Divider, in display order
}

// Node starts a node with a plain text title.
func Node(id, title string) *NodeBuilder {
	return &NodeBuilder{node: domain.Node{ID: id, Title: domain.PlainText(title)}}
}

// RichTitle replaces the title with a structured block.
// Breadcrumbs sent to text-only consumers show it as domain.ActionPlaceholder.
func (n *NodeBuilder) RichTitle(kind string, fields map[string]any) *NodeBuilder {
	n.node.Title = domain.RichBlock{Kind: kind, Fields: fields}
	return n
}

// Describe sets the subtitle shown next to the option.
func (n *NodeBuilder) Describe(description string) *NodeBuilder {
	n.node.Description = description
	return n
}

// Text sets markdown content shown when the node becomes current.
func (n *NodeBuilder) Text(content string) *NodeBuilder {
	n.node.Content = domain.PlainText(content)
	return n
}

// Block sets structured content shown when the node becomes current.
func (n *NodeBuilder) Block(kind string, fields map[string]any) *NodeBuilder {
	n.node.Content = domain.RichBlock{Kind: kind, Fields: fields}
	return n
}

// Steps is a shorthand for an ordered checklist block.
func (n *NodeBuilder) Steps(items ...string) *NodeBuilder {
	list := make([]any, len(items))
	for i, it := range items {
		list[i] = it
	}
	return n.Block("steps", map[string]any{"items": list})
}

// Option appends selectable children in display order.
func (n *NodeBuilder) Option(children ...*NodeBuilder) *NodeBuilder {
	for _, c := range children {
		n.children = append(n.children, c)
	}
	return n
}

// Divider appends a non-selectable section separator.
func (n *NodeBuilder) Divider(title string) *NodeBuilder {
	n.children = append(n.children, domain.Divider{Title: title})
	return n
}

// Final marks the node as a terminal step where a script can be generated.
func (n *NodeBuilder) Final() *NodeBuilder {
	n.node.Final = true
	return n
}

// Build returns a fresh domain.Node tree.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() *domain.Node {
	node := n.node
	node.Entries = make([]domain.Entry, 0, len(n.children))
	for _, c := range n.children {
		switch v := c.(type) {
		case *NodeBuilder:
			if v == nil {
				node.Entries = append(node.Entries, domain.Choice{})
				continue
			}
			node.Entries = append(node.Entries, domain.Choice{Node: v.Build()})
		case domain.Divider:
			node.Entries = append(node.Entries, v)
		}
	}
	return &node
}
