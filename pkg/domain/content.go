package domain

import "strings"

// Content is a rendering payload.
// It is either PlainText (markdown is allowed) or a RichBlock.
type Content interface {
	isContent()
}

// PlainText is literal text, optionally formatted as markdown.
type PlainText string

// RichBlock is a structured payload rendered by the presentation layer.
// Kind selects the renderer; Fields carries its parameters as decoded from the flow source.
type RichBlock struct {
	Kind   string         `json:"kind"`
	Fields map[string]any `json:"fields,omitempty"`
}

func (PlainText) isContent() {}
func (RichBlock) isContent() {}

// Text returns the string form of plain content.
// The second value is false for nil and rich content.
func Text(c Content) (string, bool) {
	if t, ok := c.(PlainText); ok {
		return string(t), true
	}
	return "", false
}

// Flatten converts content to a single string for consumers that accept only text.
// Rich content becomes ActionPlaceholder.
func Flatten(c Content) string {
	switch v := c.(type) {
	case nil:
		return ""
	case PlainText:
		return string(v)
	default:
		return ActionPlaceholder
	}
}

// JoinTitles flattens titles and joins them with sep.
func JoinTitles(titles []Content, sep string) string {
	parts := make([]string, len(titles))
	for i, t := range titles {
		parts[i] = Flatten(t)
	}
	return strings.Join(parts, sep)
}
