package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"emailbuilder/internal/domain"
)

func renderFragment(t *testing.T, els []*Element) string {
	t.Helper()
	var buf bytes.Buffer
	for _, e := range els {
		require.NoError(t, html.Render(&buf, toNode(e)))
	}
	return buf.String()
}

func doc(nodes ...domain.Node) domain.Node {
	return domain.Node{Type: domain.NodeDoc, Content: nodes}
}

func para(nodes ...domain.Node) domain.Node {
	return domain.Node{Type: domain.NodeParagraph, Content: nodes}
}

func text(s string, marks ...domain.Mark) domain.Node {
	return domain.Node{Type: domain.NodeText, Text: s, Marks: marks}
}

func TestRenderContent_Paragraph(t *testing.T) {
	els, err := renderContent(doc(para(text("hello"))), contentCtx{TextColor: "#374151", TextAlign: domain.AlignCenter})
	require.NoError(t, err)
	assert.Equal(t,
		`<p style="color:#374151;text-align:center;font-size:16px;line-height:1.6;margin:0 0 8px 0">hello</p>`,
		renderFragment(t, els))
}

func TestRenderContent_MarkOrder(t *testing.T) {
	n := text("x",
		domain.Mark{Type: domain.MarkCode},
		domain.Mark{Type: domain.MarkLink, Attrs: map[string]any{"href": "https://a.example"}},
		domain.Mark{Type: domain.MarkBold},
		domain.Mark{Type: domain.MarkStrike},
	)
	out := renderFragment(t, []*Element{applyMarks(n)})
	assert.Equal(t,
		`<code style="background-color:#f3f4f6;padding:2px 4px;border-radius:4px;font-family:monospace;font-size:0.875em">`+
			`<a href="https://a.example" target="_blank" style="color:inherit;text-decoration:underline">`+
			`<s><strong>x</strong></s></a></code>`,
		out)
}

func TestRenderContent_UnknownKindsFailSoft(t *testing.T) {
	tree := doc(
		domain.Node{Type: "callout", Content: []domain.Node{para(text("inside"))}},
		para(text("marked", domain.Mark{Type: "highlight"})),
	)
	els, err := renderContent(tree, contentCtx{})
	require.NoError(t, err)
	out := renderFragment(t, els)
	assert.Contains(t, out, ">inside</p>")
	assert.Contains(t, out, ">marked</p>")
}

func TestRenderContent_Nodes(t *testing.T) {
	tests := []struct {
		name string
		node domain.Node
		want []string
	}{
		{
			name: "nested heading",
			node: domain.Node{Type: domain.NodeHeading, Attrs: map[string]any{"level": float64(4)}, Content: []domain.Node{text("T")}},
			want: []string{`<h4 style="`, "font-size:20px"},
		},
		{
			name: "code block default language",
			node: domain.Node{Type: domain.NodeCodeBlock, Content: []domain.Node{text("ls -la")}},
			want: []string{`<pre style="`, `<code data-language="text">ls -la</code>`},
		},
		{
			name: "code block language",
			node: domain.Node{Type: domain.NodeCodeBlock, Attrs: map[string]any{"language": "go"}, Content: []domain.Node{text("x")}},
			want: []string{`data-language="go"`},
		},
		{
			name: "ordered list",
			node: domain.NewListDoc(domain.NodeOrderedList, "a").Content[0],
			want: []string{`<ol style="padding-left:24px;margin:0 0 8px 0">`, `<li style="margin-bottom:4px">`},
		},
		{
			name: "blockquote",
			node: domain.Node{Type: domain.NodeBlockquote, Content: []domain.Node{para(text("q"))}},
			want: []string{"border-left:3px solid #e5e7eb", "font-style:italic;color:#6b7280;margin:0", ">q</p>"},
		},
		{
			name: "image",
			node: domain.Node{Type: domain.NodeImage, Attrs: map[string]any{"src": "a.png", "alt": "A"}},
			want: []string{`<img src="a.png" alt="A" style="display:block;max-width:100%;margin:0 auto 16px auto"/>`},
		},
		{
			name: "rule and break",
			node: para(text("a"), domain.Node{Type: domain.NodeHardBreak}, text("b")),
			want: []string{"a<br/>b"},
		},
		{
			name: "horizontal rule",
			node: domain.Node{Type: domain.NodeHorizontalRule},
			want: []string{`<hr style="border-color:#e5e7eb;margin:24px 0"/>`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			els, err := renderContent(doc(tt.node), contentCtx{})
			require.NoError(t, err)
			out := renderFragment(t, els)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestRenderContent_Malformed(t *testing.T) {
	_, err := renderContent(doc(domain.Node{Type: domain.NodeParagraph, Text: "loose"}), contentCtx{})
	assert.ErrorIs(t, err, ErrMalformedContent)

	deep := text("leaf")
	for i := 0; i < maxContentDepth+2; i++ {
		deep = domain.Node{Type: domain.NodeBlockquote, Content: []domain.Node{deep}}
	}
	_, err = renderContent(deep, contentCtx{})
	assert.ErrorIs(t, err, ErrNestingTooDeep)
}

func TestSafeURL(t *testing.T) {
	assert.Equal(t, "https://x.test/a?b=1", safeURL("https://x.test/a?b=1"))
	assert.Equal(t, "#", safeURL("#"))
	assert.Equal(t, "mailto:a@b.test", safeURL("mailto:a@b.test"))
	assert.Equal(t, "#", safeURL("javascript:alert(1)"))
	assert.Equal(t, "", safeURL("  "))
}

func TestStyleCSS(t *testing.T) {
	s := Style{}.With("maxWidth", 600).With("lineHeight", 1.6).With("margin", 0).With("color", "")
	assert.Equal(t, "max-width:600px;line-height:1.6;margin:0", s.CSS())
}
