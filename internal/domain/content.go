package domain

import "strings"

// NodeType is the kind of a content-tree node.
type NodeType string

const (
	NodeDoc            NodeType = "doc"
	NodeParagraph      NodeType = "paragraph"
	NodeHeading        NodeType = "heading"
	NodeBulletList     NodeType = "bulletList"
	NodeOrderedList    NodeType = "orderedList"
	NodeListItem       NodeType = "listItem"
	NodeBlockquote     NodeType = "blockquote"
	NodeCodeBlock      NodeType = "codeBlock"
	NodeImage          NodeType = "image"
	NodeHorizontalRule NodeType = "horizontalRule"
	NodeHardBreak      NodeType = "hardBreak"
	NodeText           NodeType = "text"
)

// MarkType is the kind of an inline mark applied to a text node.
type MarkType string

const (
	MarkBold      MarkType = "bold"
	MarkItalic    MarkType = "italic"
	MarkUnderline MarkType = "underline"
	MarkStrike    MarkType = "strike"
	MarkLink      MarkType = "link"
	MarkCode      MarkType = "code"
)

// Node is one node of the rich-text content tree. The JSON shape is the
// one produced and consumed by the rich-text editor.
type Node struct {
	Type    NodeType       `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// Mark is an inline formatting mark on a text node.
type Mark struct {
	Type  MarkType       `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// NewTextDoc builds doc > paragraph > text. An empty string yields an
// empty paragraph.
func NewTextDoc(text string) Node {
	p := Node{Type: NodeParagraph}
	if text != "" {
		p.Content = []Node{{Type: NodeText, Text: text}}
	}
	return Node{Type: NodeDoc, Content: []Node{p}}
}

// NewListDoc builds a doc holding a single list with one paragraph per item.
func NewListDoc(listType NodeType, items ...string) Node {
	list := Node{Type: listType}
	for _, item := range items {
		list.Content = append(list.Content, Node{
			Type:    NodeListItem,
			Content: []Node{NewTextDoc(item).Content[0]},
		})
	}
	return Node{Type: NodeDoc, Content: []Node{list}}
}

// IsContainer reports whether nodes of this kind hold children.
func (t NodeType) IsContainer() bool {
	switch t {
	case NodeDoc, NodeParagraph, NodeHeading, NodeBulletList, NodeOrderedList,
		NodeListItem, NodeBlockquote, NodeCodeBlock:
		return true
	}
	return false
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := Node{Type: n.Type, Text: n.Text}
	if n.Attrs != nil {
		out.Attrs = cloneMap(n.Attrs)
	}
	if n.Content != nil {
		out.Content = make([]Node, len(n.Content))
		for i, c := range n.Content {
			out.Content[i] = c.Clone()
		}
	}
	if n.Marks != nil {
		out.Marks = make([]Mark, len(n.Marks))
		for i, m := range n.Marks {
			out.Marks[i] = Mark{Type: m.Type}
			if m.Attrs != nil {
				out.Marks[i].Attrs = cloneMap(m.Attrs)
			}
		}
	}
	return out
}

// PlainText flattens the tree to text. Block-level siblings are joined with
// newlines and hard breaks become newlines.
func (n Node) PlainText() string {
	switch n.Type {
	case NodeText:
		return n.Text
	case NodeHardBreak:
		return "\n"
	}
	parts := make([]string, 0, len(n.Content))
	inline := n.Type == NodeParagraph || n.Type == NodeHeading || n.Type == NodeCodeBlock
	for _, c := range n.Content {
		parts = append(parts, c.PlainText())
	}
	if inline {
		return strings.Join(parts, "")
	}
	return strings.Join(parts, "\n")
}

// HasMark reports whether the node carries a mark of the given kind.
func (n Node) HasMark(t MarkType) bool {
	for _, m := range n.Marks {
		if m.Type == t {
			return true
		}
	}
	return false
}

// Mark returns the first mark of the given kind.
func (n Node) Mark(t MarkType) (Mark, bool) {
	for _, m := range n.Marks {
		if m.Type == t {
			return m, true
		}
	}
	return Mark{}, false
}

// ── attribute helpers ──────────────────────────────────────

func AttrString(attrs map[string]any, key string) string {
	if attrs == nil {
		return ""
	}
	if v, ok := attrs[key].(string); ok {
		return v
	}
	return ""
}

// AttrInt reads a numeric attribute. JSON numbers decode as float64.
func AttrInt(attrs map[string]any, key string, def int) int {
	if attrs == nil {
		return def
	}
	switch v := attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return def
}

func AttrBool(attrs map[string]any, key string) bool {
	if attrs == nil {
		return false
	}
	v, _ := attrs[key].(bool)
	return v
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}
