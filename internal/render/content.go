package render

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"emailbuilder/internal/domain"
)

var (
	ErrMalformedContent = errors.New("malformed content tree")
	ErrNestingTooDeep   = errors.New("nesting too deep")
)

const (
	// DefaultCodeLanguage tags code blocks that carry no language.
	DefaultCodeLanguage = "text"

	maxContentDepth = 64
)

var headingSizes = map[int]int{1: 32, 2: 28, 3: 24, 4: 20, 5: 18, 6: 16}

// contentCtx carries the values a block passes down to its content tree.
type contentCtx struct {
	TextColor  string
	TextAlign  domain.Align
	FontSize   int
	LineHeight float64
	PreLine    bool
}

func (c contentCtx) fontSize() int {
	if c.FontSize > 0 {
		return c.FontSize
	}
	return 16
}

func (c contentCtx) lineHeight() float64 {
	if c.LineHeight > 0 {
		return c.LineHeight
	}
	return 1.6
}

// CheckContent validates the structural shape of a content tree: text
// nodes carry no children, container nodes carry no text, and nesting is
// bounded.
func CheckContent(n domain.Node) error {
	return checkNode(n, 0)
}

func checkNode(n domain.Node, depth int) error {
	if depth > maxContentDepth {
		return fmt.Errorf("%w: content deeper than %d levels", ErrNestingTooDeep, maxContentDepth)
	}
	if n.Type == domain.NodeText && len(n.Content) > 0 {
		return fmt.Errorf("%w: text node has %d children", ErrMalformedContent, len(n.Content))
	}
	if n.Type.IsContainer() && n.Text != "" {
		return fmt.Errorf("%w: %s node carries text", ErrMalformedContent, n.Type)
	}
	for _, c := range n.Content {
		if err := checkNode(c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// renderContent lowers a content tree. The root doc node itself produces
// no element.
func renderContent(root domain.Node, cx contentCtx) ([]*Element, error) {
	if err := CheckContent(root); err != nil {
		return nil, err
	}
	if root.Type == domain.NodeDoc {
		return renderNodes(root.Content, cx), nil
	}
	return renderNode(root, cx), nil
}

func renderNodes(nodes []domain.Node, cx contentCtx) []*Element {
	var out []*Element
	for _, n := range nodes {
		out = append(out, renderNode(n, cx)...)
	}
	return out
}

func renderNode(n domain.Node, cx contentCtx) []*Element {
	switch n.Type {
	case domain.NodeDoc:
		return renderNodes(n.Content, cx)

	case domain.NodeParagraph:
		st := Style{}.
			With("color", cx.TextColor).
			With("textAlign", string(cx.TextAlign)).
			With("fontSize", cx.fontSize()).
			With("lineHeight", cx.lineHeight()).
			With("margin", "0 0 8px 0")
		if cx.PreLine {
			st = st.With("whiteSpace", "pre-line")
		}
		return []*Element{newComponent(CompText, st, renderInline(n.Content)...)}

	case domain.NodeHeading:
		level := domain.AttrInt(n.Attrs, "level", 1)
		if level < 1 || level > 6 {
			level = 1
		}
		st := Style{}.
			With("color", cx.TextColor).
			With("textAlign", string(cx.TextAlign)).
			With("fontSize", headingSizes[level]).
			With("fontWeight", "bold").
			With("margin", "0 0 16px 0").
			With("lineHeight", 1.3)
		return []*Element{headingElement(level, st, renderInline(n.Content))}

	case domain.NodeBlockquote:
		color := cx.TextColor
		if color == "" {
			color = "#6b7280"
		}
		inner := newComponent(CompText, Style{}.
			With("fontStyle", "italic").
			With("color", color).
			With("margin", 0),
			flattenInline(n.Content, cx)...)
		return []*Element{newComponent(CompSection, Style{}.
			With("borderLeft", "3px solid #e5e7eb").
			With("paddingLeft", 16).
			With("margin", "0 0 16px 0"),
			inner)}

	case domain.NodeCodeBlock:
		lang := domain.AttrString(n.Attrs, "language")
		if lang == "" {
			lang = DefaultCodeLanguage
		}
		code := newTag("code", nil, textLeaf(n.PlainText())).attr("data-language", lang)
		return []*Element{newTag("pre", Style{}.
			With("backgroundColor", "#282a36").
			With("color", "#f8f8f2").
			With("padding", 16).
			With("borderRadius", 4).
			With("fontFamily", "monospace").
			With("fontSize", 14).
			With("whiteSpace", "pre-wrap").
			With("margin", "0 0 16px 0"),
			code)}

	case domain.NodeImage:
		img := newComponent(CompImg, Style{}.
			With("display", "block").
			With("maxWidth", "100%").
			With("margin", "0 auto 16px auto"))
		img.attr("src", domain.AttrString(n.Attrs, "src"))
		img.attr("alt", domain.AttrString(n.Attrs, "alt"))
		if w := domain.AttrInt(n.Attrs, "width", 0); w > 0 {
			img.attr("width", w)
		}
		if h := domain.AttrInt(n.Attrs, "height", 0); h > 0 {
			img.attr("height", h)
		}
		return []*Element{img}

	case domain.NodeHorizontalRule:
		return []*Element{newComponent(CompHr, Style{}.
			With("borderColor", "#e5e7eb").
			With("margin", "24px 0"))}

	case domain.NodeBulletList, domain.NodeOrderedList:
		tag := "ul"
		if n.Type == domain.NodeOrderedList {
			tag = "ol"
		}
		return []*Element{newTag(tag, Style{}.
			With("paddingLeft", 24).
			With("margin", "0 0 8px 0").
			With("color", cx.TextColor),
			renderNodes(n.Content, cx)...)}

	case domain.NodeListItem:
		return []*Element{newTag("li", Style{}.With("marginBottom", 4), renderNodes(n.Content, cx)...)}

	case domain.NodeHardBreak:
		return []*Element{newTag("br", nil)}

	case domain.NodeText:
		return []*Element{applyMarks(n)}
	}

	slog.Warn("Unknown content node type", "type", n.Type)
	return renderNodes(n.Content, cx)
}

func headingElement(level int, st Style, children []*Element) *Element {
	tag := fmt.Sprintf("h%d", level)
	h := newComponent(CompHeading, st, children...)
	h.Tag = tag
	h.prop("as", tag)
	return h
}

// renderInline renders the inline children of a paragraph or heading.
func renderInline(nodes []domain.Node) []*Element {
	return renderNodes(nodes, contentCtx{})
}

// flattenInline renders block children as a single run of inline content:
// paragraphs and headings are unwrapped and separated by line breaks. Any
// other block kind renders as usual.
func flattenInline(nodes []domain.Node, cx contentCtx) []*Element {
	var out []*Element
	for i, n := range nodes {
		if i > 0 {
			out = append(out, newTag("br", nil))
		}
		switch n.Type {
		case domain.NodeParagraph, domain.NodeHeading:
			out = append(out, renderInline(n.Content)...)
		case domain.NodeBlockquote:
			out = append(out, flattenInline(n.Content, cx)...)
		default:
			out = append(out, renderNode(n, cx)...)
		}
	}
	return out
}

// markOrder is the wrap order: the first entry wraps the text directly and
// each following one wraps the result.
var markOrder = map[domain.MarkType]int{
	domain.MarkBold:      0,
	domain.MarkItalic:    1,
	domain.MarkUnderline: 2,
	domain.MarkStrike:    3,
	domain.MarkLink:      4,
	domain.MarkCode:      5,
}

func applyMarks(n domain.Node) *Element {
	el := textLeaf(n.Text)
	if len(n.Marks) == 0 {
		return el
	}

	marks := make([]domain.Mark, 0, len(n.Marks))
	seen := make(map[domain.MarkType]bool, len(n.Marks))
	for _, m := range n.Marks {
		if _, ok := markOrder[m.Type]; !ok {
			slog.Warn("Unknown mark type", "type", m.Type)
			continue
		}
		if seen[m.Type] {
			continue
		}
		seen[m.Type] = true
		marks = append(marks, m)
	}
	sort.SliceStable(marks, func(i, j int) bool {
		return markOrder[marks[i].Type] < markOrder[marks[j].Type]
	})

	for _, m := range marks {
		switch m.Type {
		case domain.MarkBold:
			el = newTag("strong", nil, el)
		case domain.MarkItalic:
			el = newTag("em", nil, el)
		case domain.MarkUnderline:
			el = newTag("u", nil, el)
		case domain.MarkStrike:
			el = newTag("s", nil, el)
		case domain.MarkLink:
			el = newComponent(CompLink, Style{}.
				With("color", "inherit").
				With("textDecoration", "underline"), el).
				attr("href", safeURL(domain.AttrString(m.Attrs, "href")))
		case domain.MarkCode:
			el = newComponent(CompCodeInline, Style{}.
				With("backgroundColor", "#f3f4f6").
				With("padding", "2px 4px").
				With("borderRadius", 4).
				With("fontFamily", "monospace").
				With("fontSize", "0.875em"), el)
		}
	}
	return el
}
