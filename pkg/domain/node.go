package domain

// ActionPlaceholder replaces non-text titles when a breadcrumb has to be flattened to a string.
const ActionPlaceholder = "Action"

// Node represents a step in a resolution flow.
// A node is either final (a terminal action) or offers at least one selectable Choice.
type Node struct {
	// ID is unique only among the choices of the parent node.
	ID string

	// Title is the label shown when the node is offered as an option and as a breadcrumb segment.
	Title Content

	// Description is an optional subtitle shown next to the option.
	Description string

	// Content is shown when the node becomes current. Nil when absent.
	Content Content

	// Entries is the option set in display order.
	Entries []Entry

	// Final marks a terminal step where the script trigger becomes available.
	Final bool
}

// Choices returns the selectable children in display order, skipping dividers.
func (n *Node) Choices() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Entries))
	for _, e := range n.Entries {
		if c, ok := e.(Choice); ok && c.Node != nil {
			out = append(out, c.Node)
		}
	}
	return out
}

// Choice returns the selectable child with the given id.
func (n *Node) Choice(id string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	for _, e := range n.Entries {
		if c, ok := e.(Choice); ok && c.Node != nil && c.Node.ID == id {
			return c.Node, true
		}
	}
	return nil, false
}

// HasChoices reports whether the node offers at least one selectable child.
func (n *Node) HasChoices() bool {
	if n == nil {
		return false
	}
	for _, e := range n.Entries {
		if c, ok := e.(Choice); ok && c.Node != nil {
			return true
		}
	}
	return false
}

// Label returns the title as a string, substituting ActionPlaceholder for rich titles.
func (n *Node) Label() string {
	if n == nil {
		return ""
	}
	return Flatten(n.Title)
}

// Entry is an item of a node's option set.
// It is either a Choice or a Divider.
type Entry interface {
	isEntry()
}

// Choice is a selectable option leading to a child node.
type Choice struct {
	Node *Node
}

// Divider is a non-selectable section separator inside an option set.
type Divider struct {
	Title string
}

func (Choice) isEntry()  {}
func (Divider) isEntry() {}
