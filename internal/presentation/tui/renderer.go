package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/supportkit/pathfinder/internal/presentation/markup"
	"github.com/supportkit/pathfinder/pkg/domain"
)

// RenderFunc turns markdown into terminal output.
type RenderFunc func(string) (string, error)

// NewRenderer returns a function that renders markdown using glamour.
// A width of zero keeps glamour's default wrapping.
func NewRenderer(width int) RenderFunc {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithEmoji(),
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return PlainRenderer
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// PlainRenderer returns markdown unchanged. It is used when stdout is not a terminal.
func PlainRenderer(markdown string) (string, error) {
	return markdown, nil
}

// RenderContent renders node content through render.
func RenderContent(render RenderFunc, c domain.Content) (string, error) {
	src, err := markup.Markdown(c)
	if err != nil || src == "" {
		return "", err
	}
	out, err := render(src)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
