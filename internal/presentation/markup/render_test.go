package markup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supportkit/pathfinder/internal/presentation/markup"
	"github.com/supportkit/pathfinder/pkg/catalog"
	"github.com/supportkit/pathfinder/pkg/domain"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		content domain.Content
		want    string
	}{
		{name: "nil", content: nil, want: ""},
		{name: "plain", content: domain.PlainText("Cancel in **LFY App**"), want: "Cancel in **LFY App**"},
		{
			name: "steps",
			content: domain.RichBlock{Kind: "steps", Fields: map[string]any{
				"label": "ขั้นตอน",
				"items": []any{"open the order", "tap Redispatch"},
			}},
			want: "**ขั้นตอน**\n\n1. open the order\n2. tap Redispatch",
		},
		{
			name:    "callout",
			content: domain.RichBlock{Kind: "callout", Fields: map[string]any{"tone": "warning", "text": "check the driver"}},
			want:    "> ⚠️ check the driver",
		},
		{
			name: "panels",
			content: domain.RichBlock{Kind: "panels", Fields: map[string]any{
				"panels": []any{
					map[string]any{"title": "Store", "body": "cook again", "tone": "info"},
					map[string]any{"title": "Refund", "body": "request refund"},
				},
			}},
			want: "- ℹ️ **Store**: cook again\n- **Refund**: request refund",
		},
		{
			name: "fallback",
			content: domain.RichBlock{Kind: "fallback", Fields: map[string]any{
				"text":  "Cancel Driver",
				"note":  "only while waiting",
				"title": "If that fails:",
				"items": []any{"negotiate", "refund"},
			}},
			want: "Cancel Driver\n\n_only while waiting_\n\n**If that fails:**\n\n- negotiate\n- refund",
		},
		{
			name:    "unknown kind",
			content: domain.RichBlock{Kind: "video", Fields: map[string]any{"url": "https://x", "n": 3}},
			want:    "_[video]_\n- url: https://x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := markup.Markdown(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarkdown_UnexpectedField(t *testing.T) {
	_, err := markup.Markdown(domain.RichBlock{Kind: "callout", Fields: map[string]any{"colour": "red"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "callout block")
}

func TestHTML(t *testing.T) {
	out, err := markup.HTML(domain.RichBlock{Kind: "steps", Fields: map[string]any{"items": []any{"one", "two"}}})
	require.NoError(t, err)
	assert.Contains(t, out, "<ol>")
	assert.Contains(t, out, "<li>two</li>")

	out, err = markup.HTML(domain.PlainText("see [panel](https://app.example)"))
	require.NoError(t, err)
	assert.Contains(t, out, `<a href="https://app.example">panel</a>`)

	out, err = markup.HTML(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Late driver", markup.Title(domain.PlainText("Late driver")))
	assert.Equal(t, "> ⛔ stop", markup.Title(domain.RichBlock{Kind: "callout", Fields: map[string]any{"tone": "danger", "text": "stop"}}))
	assert.Equal(t, "Action", markup.Title(domain.RichBlock{Kind: "callout", Fields: map[string]any{"bogus": 1}}))
}

func TestMarkdown_CatalogRendersEverywhere(t *testing.T) {
	g, err := catalog.Delivery()
	require.NoError(t, err)

	err = g.Walk(func(path domain.Path, n *domain.Node) error {
		_, err := markup.Markdown(n.Content)
		return err
	})
	assert.NoError(t, err)
}
