package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/supportkit/pathfinder/internal/presentation/markup"
	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/navigator"
)

// View prints navigator states for the interactive terminal session.
type View struct {
	out     io.Writer
	render  RenderFunc
	profile termenv.Profile
}

// NewView creates a view writing to out. Colours follow profile; use termenv.Ascii for plain output.
func NewView(out io.Writer, render RenderFunc, profile termenv.Profile) *View {
	if render == nil {
		render = PlainRenderer
	}
	return &View{out: out, render: render, profile: profile}
}

// Choices returns the selectable ids in the numbering used by Print.
func Choices(state domain.NavigatorState, roots []*domain.Node) []string {
	if len(state.Path) == 0 {
		ids := make([]string, len(roots))
		for i, r := range roots {
			ids[i] = r.ID
		}
		return ids
	}
	var ids []string
	for _, e := range state.Options {
		if c, ok := e.(domain.Choice); ok {
			ids = append(ids, c.Node.ID)
		}
	}
	return ids
}

// Print writes the breadcrumb, content, numbered options and any result of state.
// On the category screen roots are listed instead of options.
func (v *View) Print(state domain.NavigatorState, roots []*domain.Node) {
	fmt.Fprintln(v.out)
	if len(state.Path) > 0 {
		fmt.Fprintln(v.out, v.style(navigator.Describe(state.Titles), "#94a3b8").Bold())
	}

	if state.Current != nil {
		if state.Current.Description != "" {
			fmt.Fprintln(v.out, v.style(state.Current.Description, "#94a3b8").Italic())
		}
		if body, err := RenderContent(v.render, state.Current.Content); err != nil {
			fmt.Fprintln(v.out, v.style("content error: "+err.Error(), "#ef4444"))
		} else if body != "" {
			fmt.Fprintln(v.out, body)
		}
	} else if len(state.Path) > 0 {
		fmt.Fprintln(v.out, v.style("This step is not part of the flow. Go back or reset.", "#f59e0b"))
	}

	n := 0
	if len(state.Path) == 0 {
		fmt.Fprintln(v.out, v.style("Select a category:", "#2dd4bf").Bold())
		for _, r := range roots {
			n++
			fmt.Fprintf(v.out, "  %d) %s\n", n, markup.Title(r.Title))
		}
	} else {
		for _, e := range state.Options {
			switch entry := e.(type) {
			case domain.Divider:
				fmt.Fprintf(v.out, "  %s\n", v.style("── "+entry.Title+" ──", "#94a3b8"))
			case domain.Choice:
				n++
				line := fmt.Sprintf("  %d) %s", n, markup.Title(entry.Node.Title))
				if entry.Node.Description != "" {
					line += " " + v.style("("+entry.Node.Description+")", "#94a3b8").String()
				}
				fmt.Fprintln(v.out, line)
			}
		}
	}

	if state.Result != nil {
		fmt.Fprintln(v.out)
		if state.Result.Failed {
			fmt.Fprintln(v.out, v.style(state.Result.Text, "#ef4444"))
		} else {
			fmt.Fprintln(v.out, v.style("Script:", "#34d399").Bold())
			fmt.Fprintln(v.out, state.Result.Text)
		}
	}

	fmt.Fprintln(v.out, v.style(v.hints(state), "#64748b"))
}

// Message prints a status line.
func (v *View) Message(text string) {
	fmt.Fprintln(v.out, v.style(text, "#f59e0b"))
}

func (v *View) hints(state domain.NavigatorState) string {
	keys := []string{"[n] choose"}
	if state.CanStepBack {
		keys = append(keys, "[b] back")
	}
	if len(state.Path) > 0 {
		keys = append(keys, "[r] reset")
	}
	if state.Final() {
		keys = append(keys, "[g] generate script")
	}
	keys = append(keys, "[q] quit")
	return strings.Join(keys, "  ")
}

func (v *View) style(s, color string) termenv.Style {
	return v.profile.String(s).Foreground(v.profile.Color(color))
}
