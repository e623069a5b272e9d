package markup

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var toneIcons = map[string]string{
	"info":    "ℹ️",
	"success": "✅",
	"warning": "⚠️",
	"danger":  "⛔",
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Markdown renders content as markdown. Nil content renders as the empty string.
func Markdown(c domain.Content) (string, error) {
	switch v := c.(type) {
	case nil:
		return "", nil
	case domain.PlainText:
		return string(v), nil
	case domain.RichBlock:
		block, err := Decode(v)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		writeBlock(&sb, block)
		return strings.TrimRight(sb.String(), "\n"), nil
	}
	return "", fmt.Errorf("unsupported content type %T", c)
}

// HTML renders content as an HTML fragment.
func HTML(c domain.Content) (string, error) {
	src, err := Markdown(c)
	if err != nil || src == "" {
		return "", err
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Title renders a node title on a single line.
// Rich titles render as their markdown with line breaks collapsed.
func Title(c domain.Content) string {
	if t, ok := domain.Text(c); ok {
		return t
	}
	s, err := Markdown(c)
	if err != nil || s == "" {
		return domain.Flatten(c)
	}
	return strings.Join(strings.Fields(s), " ")
}

func writeBlock(sb *strings.Builder, block any) {
	switch b := block.(type) {
	case *Steps:
		if heading := firstNonEmpty(b.Title, b.Label); heading != "" {
			fmt.Fprintf(sb, "**%s**\n\n", heading)
		}
		for i, item := range b.Items {
			fmt.Fprintf(sb, "%d. %s\n", i+1, item)
		}
	case *Callout:
		icon := toneIcons[b.Tone]
		if icon == "" {
			icon = toneIcons["info"]
		}
		fmt.Fprintf(sb, "> %s %s\n", icon, b.Text)
	case *Panels:
		for _, p := range b.Panels {
			icon := toneIcons[p.Tone]
			if icon != "" {
				icon += " "
			}
			fmt.Fprintf(sb, "- %s**%s**: %s\n", icon, p.Title, p.Body)
		}
	case *Fallback:
		if b.Text != "" {
			fmt.Fprintf(sb, "%s\n\n", b.Text)
		}
		if b.Note != "" {
			fmt.Fprintf(sb, "_%s_\n\n", b.Note)
		}
		if b.Title != "" {
			fmt.Fprintf(sb, "**%s**\n\n", b.Title)
		}
		for _, item := range b.Items {
			fmt.Fprintf(sb, "- %s\n", item)
		}
	case *Unknown:
		fmt.Fprintf(sb, "_[%s]_\n", b.Kind)
		keys := make([]string, 0, len(b.Fields))
		for k := range b.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s, ok := b.Fields[k].(string); ok {
				fmt.Fprintf(sb, "- %s: %s\n", k, s)
			}
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
