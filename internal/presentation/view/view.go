// Package view builds the JSON documents returned by the server adapters.
package view

import (
	"strings"

	"github.com/supportkit/pathfinder/internal/presentation/markup"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/flow"
	"github.com/supportkit/pathfinder/pkg/navigator"
)

// Entry kinds.
const (
	KindChoice  = "choice"
	KindDivider = "divider"
)

// Node is a rendered flow node.
type Node struct {
	ID          string `json:"id" jsonschema_description:"Option id, unique among its siblings"`
	Title       string `json:"title" jsonschema_description:"Display title"`
	Description string `json:"description,omitempty"`
	Final       bool   `json:"final" jsonschema_description:"Terminal step where a script can be generated"`

	Markdown string `json:"markdown,omitempty" jsonschema_description:"Node content as markdown"`
	HTML     string `json:"html,omitempty"`

	Options []Option `json:"options,omitempty"`
}

// TreeNode is a Node with its selectable subtrees.
// It is recursive, so it must not be used where a JSON schema is derived from the type.
type TreeNode struct {
	Node
	Children []TreeNode `json:"children,omitempty"`
}

// Option is one entry of an option set.
type Option struct {
	Kind        string `json:"kind" jsonschema_description:"choice or divider"`
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Final       bool   `json:"final,omitempty"`
}

// Result is the last generated script.
type Result struct {
	Text   string `json:"text"`
	Failed bool   `json:"failed" jsonschema_description:"Text is an error message, not a script"`
}

// State is the navigator state of a session.
type State struct {
	SessionID   string   `json:"session_id"`
	Path        []string `json:"path" jsonschema_description:"Chosen option ids, starting with a category id"`
	Breadcrumb  []string `json:"breadcrumb"`
	Description string   `json:"description" jsonschema_description:"Breadcrumb joined with arrows, as sent to the script generator"`
	Resolved    bool     `json:"resolved" jsonschema_description:"False when the path contains an unknown id"`
	Final       bool     `json:"final"`
	CanStepBack bool     `json:"can_step_back"`
	Epoch       uint64   `json:"epoch"`

	Current *Node    `json:"current,omitempty"`
	Options []Option `json:"options" jsonschema_description:"Selectable options; the categories when the path is empty"`
	Result  *Result  `json:"result,omitempty"`
}

// Flow is the full tree of a flow.
type Flow struct {
	Name       string     `json:"name,omitempty"`
	Stats      flow.Stats `json:"stats"`
	Categories []TreeNode `json:"categories"`
}

// Step is one node of an Outline.
type Step struct {
	Path     string `json:"path" jsonschema_description:"Slash separated option ids from the category to this step"`
	Depth    int    `json:"depth" jsonschema_description:"1 for categories"`
	Title    string `json:"title"`
	Final    bool   `json:"final" jsonschema_description:"Terminal step where a script can be generated"`
	Markdown string `json:"markdown,omitempty"`
}

// Outline is the flow flattened depth-first, parents before children.
type Outline struct {
	Name  string     `json:"name,omitempty"`
	Stats flow.Stats `json:"stats"`
	Steps []Step     `json:"steps"`
}

// NewState renders the state of session s.
// On the category screen the graph roots are listed as options.
func NewState(s *domain.Session, st domain.NavigatorState, g *flow.Graph) State {
	out := State{
		SessionID:   s.ID,
		Path:        st.Path.Clone(),
		Breadcrumb:  make([]string, len(st.Titles)),
		Description: navigator.Describe(st.Titles),
		Resolved:    st.Resolved(),
		Final:       st.Final(),
		CanStepBack: st.CanStepBack,
		Epoch:       s.Epoch,
		Options:     []Option{},
	}
	for i, t := range st.Titles {
		out.Breadcrumb[i] = markup.Title(t)
	}

	if st.Current != nil {
		n := newNode(st.Current)
		out.Current = &n
	}

	if len(st.Path) == 0 {
		out.Options = Categories(g)
	} else {
		out.Options = options(st.Options)
	}

	if st.Result != nil {
		out.Result = &Result{Text: st.Result.Text, Failed: st.Result.Failed}
	}
	return out
}

// Categories lists the graph roots as options.
func Categories(g *flow.Graph) []Option {
	roots := g.Roots()
	out := make([]Option, 0, len(roots))
	for _, r := range roots {
		out = append(out, choice(r))
	}
	return out
}

// NewFlow renders the whole graph.
func NewFlow(name string, g *flow.Graph) Flow {
	out := Flow{Name: name, Stats: g.Stats()}
	for _, r := range g.Roots() {
		out.Categories = append(out.Categories, newTree(r))
	}
	return out
}

// NewOutline lists every node of the graph with its path.
func NewOutline(name string, g *flow.Graph) Outline {
	out := Outline{Name: name, Stats: g.Stats(), Steps: []Step{}}
	_ = g.Walk(func(path domain.Path, n *domain.Node) error {
		step := Step{
			Path:  strings.Join(path, "/"),
			Depth: len(path),
			Title: markup.Title(n.Title),
			Final: n.Final,
		}
		step.Markdown, _ = markup.Markdown(n.Content)
		out.Steps = append(out.Steps, step)
		return nil
	})
	return out
}

func newTree(n *domain.Node) TreeNode {
	t := TreeNode{Node: newNode(n)}
	for _, c := range n.Choices() {
		t.Children = append(t.Children, newTree(c))
	}
	return t
}

func newNode(n *domain.Node) Node {
	out := Node{
		ID:          n.ID,
		Title:       markup.Title(n.Title),
		Description: n.Description,
		Final:       n.Final,
		Options:     options(n.Entries),
	}
	// Content errors are surfaced by validation tooling; the view degrades to no content.
	out.Markdown, _ = markup.Markdown(n.Content)
	out.HTML, _ = markup.HTML(n.Content)
	return out
}

func options(entries []domain.Entry) []Option {
	out := make([]Option, 0, len(entries))
	for _, e := range entries {
		switch entry := e.(type) {
		case domain.Divider:
			out = append(out, Option{Kind: KindDivider, Title: entry.Title})
		case domain.Choice:
			out = append(out, choice(entry.Node))
		}
	}
	return out
}

func choice(n *domain.Node) Option {
	return Option{
		Kind:        KindChoice,
		ID:          n.ID,
		Title:       markup.Title(n.Title),
		Description: n.Description,
		Final:       n.Final,
	}
}
