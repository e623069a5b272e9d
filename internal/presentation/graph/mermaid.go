package graph

import (
	"fmt"
	"strings"

	"github.com/supportkit/pathfinder/internal/presentation/markup"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/flow"
)

// rootID is the synthetic entry node linking to every category.
const rootID = "start"

// GraphOverlay contains the navigation state to highlight on the graph.
type GraphOverlay struct {
	// Path marks every prefix as visited and the full path as current.
	Path domain.Path
}

// GenerateMermaid produces a Mermaid flowchart of the whole flow.
// Node ids are the sanitized id paths, since ids are unique only among siblings.
// It applies semantic styling:
// - Entry: ((Circle))
// - Category: ([Stadium])
// - Final step: [[Subroutine]]
// - Default: [Rectangle]
// Options following a divider are linked with the divider title as edge label.
func GenerateMermaid(g *flow.Graph, title string, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if title == "" {
		title = "Categories"
	}
	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", rootID, escape(title))

	_ = g.Walk(func(path domain.Path, node *domain.Node) error {
		safeID := nodeID(path)

		opener, closer := "[", "]"
		switch {
		case node.Final:
			opener, closer = "[[", "]]"
		case len(path) == 1:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escape(markup.Title(node.Title)), closer)

		if len(path) == 1 {
			fmt.Fprintf(&sb, "    %s --> %s\n", rootID, safeID)
		}

		section := ""
		for _, e := range node.Entries {
			switch entry := e.(type) {
			case domain.Divider:
				section = entry.Title
			case domain.Choice:
				childID := nodeID(append(path.Clone(), entry.Node.ID))
				if section != "" {
					fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, escape(section), childID)
				} else {
					fmt.Fprintf(&sb, "    %s --> %s\n", safeID, childID)
				}
			}
		}
		return nil
	})

	if overlay != nil && len(overlay.Path) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		fmt.Fprintf(&sb, "    class %s visited;\n", rootID)
		for i := 1; i < len(overlay.Path); i++ {
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(overlay.Path[:i]))
		}
		fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.Path))
	}

	return sb.String()
}

func nodeID(path domain.Path) string {
	return "n_" + sanitizeMermaidID(strings.Join(path, "__"))
}

func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

func escape(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
