package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"emailbuilder/internal/domain"
	"emailbuilder/internal/style"
)

// maxColumnsDepth bounds columns-inside-columns recursion. The editor only
// produces depth 1.
const maxColumnsDepth = 3

// MobileWidth is the container width used for the mobile viewport.
const MobileWidth = 375

type builder struct {
	tokens domain.Tokens
}

// buildDocument lowers a whole document into the element tree shared by
// both serializers.
func buildDocument(doc domain.Document, tokens domain.Tokens, o options) (*Element, error) {
	b := builder{tokens: tokens}

	width := doc.Settings.ContentWidth
	if width <= 0 {
		width = tokens.Global.ContentWidth
	}
	if o.viewport == Mobile {
		width = MobileWidth
	}
	bg := doc.Settings.BackgroundColor
	if bg == "" {
		bg = tokens.Global.BackgroundColor
	}

	title := plainText(doc.Name)
	if title == "" {
		title = domain.DefaultDocumentName
	}
	head := newComponent(CompHead, nil, newTag("title", nil, textLeaf(title)))

	container := newComponent(CompContainer, Style{}.
		With("maxWidth", width).
		With("margin", "0 auto").
		With("backgroundColor", "#ffffff").
		With("borderRadius", 8).
		With("padding", 24))

	blocks, err := b.blocks(doc.Blocks, 0)
	if err != nil {
		return nil, err
	}
	container.append(blocks...)

	body := newComponent(CompBody, Style{}.
		With("backgroundColor", bg).
		With("fontFamily", tokens.Global.FontFamily).
		With("margin", 0).
		With("padding", "40px 20px"),
		container)

	root := newComponent(CompHtml, nil, head).attr("lang", "en")
	if preview := plainText(doc.Settings.PreviewText); preview != "" {
		root.append(newComponent(CompPreview, nil, textLeaf(preview)))
	}
	root.append(body)
	return root, nil
}

func (b builder) blocks(list domain.BlockList, depth int) ([]*Element, error) {
	out := make([]*Element, 0, len(list))
	for _, blk := range list {
		el, err := b.block(blk, depth)
		if err != nil {
			return nil, fmt.Errorf("block %s (%s): %w", blk.BlockID(), blk.Kind(), err)
		}
		out = append(out, el)
	}
	return out, nil
}

// block renders one block. Only malformed content trees and runaway column
// nesting produce errors; missing values degrade to empty markup.
func (b builder) block(blk domain.Block, depth int) (*Element, error) {
	rs := style.Resolve(blk, b.tokens)

	switch v := blk.(type) {
	case domain.HeadingBlock:
		if err := CheckContent(v.Content); err != nil {
			return nil, err
		}
		level := v.Level
		if level < 1 || level > 6 {
			level = 1
		}
		st := Style{}.
			With("fontSize", headingSizes[level]).
			With("fontWeight", rs.FontWeight).
			With("fontFamily", rs.FontFamily).
			With("color", rs.Color).
			With("textAlign", string(v.Align)).
			With("margin", "0 0 16px 0")
		return headingElement(level, st, flattenInline(v.Content.Content, contentCtx{TextColor: rs.Color})), nil

	case domain.TextBlock:
		cx := contentCtx{TextColor: rs.Color, TextAlign: v.Align, FontSize: rs.FontSize, LineHeight: rs.LineHeight}
		return b.richSection(v.Content, cx, Style{}.
			With("fontFamily", rs.FontFamily).
			With("fontSize", rs.FontSize).
			With("lineHeight", rs.LineHeight).
			With("color", rs.Color).
			With("textAlign", string(v.Align)).
			With("marginBottom", 8))

	case domain.FooterBlock:
		cx := contentCtx{TextColor: rs.Color, TextAlign: v.Align, FontSize: rs.FontSize, PreLine: true}
		return b.richSection(v.Content, cx, Style{}.
			With("fontFamily", rs.FontFamily).
			With("fontSize", rs.FontSize).
			With("color", rs.Color).
			With("textAlign", string(v.Align)).
			With("marginTop", 16))

	case domain.ListBlock:
		cx := contentCtx{TextColor: rs.Color, TextAlign: v.Align}
		return b.richSection(v.Content, cx, Style{}.
			With("fontFamily", rs.FontFamily).
			With("color", rs.Color).
			With("textAlign", string(v.Align)).
			With("marginBottom", 8))

	case domain.BlockquoteBlock:
		if err := CheckContent(v.Content); err != nil {
			return nil, err
		}
		inner := newComponent(CompText, Style{}.
			With("fontStyle", "italic").
			With("fontFamily", rs.FontFamily).
			With("color", rs.Color).
			With("fontSize", b.tokens.Text.FontSize).
			With("lineHeight", 1.6).
			With("margin", 0),
			flattenInline(unwrapQuote(v.Content), contentCtx{TextColor: rs.Color})...)
		return newComponent(CompSection, Style{}.
			With("borderLeft", "3px solid "+rs.BorderColor).
			With("paddingLeft", 16).
			With("margin", "0 0 16px 0"),
			inner), nil

	case domain.ImageBlock:
		img := newComponent(CompImg, Style{}.
			With("borderRadius", 4).
			With("maxWidth", "100%").
			With("height", "auto")).
			attr("src", v.Src).
			attr("alt", v.Alt)
		if v.Width > 0 {
			img.attr("width", v.Width)
		}
		if v.Height > 0 {
			img.attr("height", v.Height)
		}
		return alignedSection(v.Align, img), nil

	case domain.ButtonBlock:
		btn := newComponent(CompButton, Style{}.
			With("display", "inline-block").
			With("padding", "12px 24px").
			With("fontSize", 16).
			With("fontWeight", 500).
			With("fontFamily", rs.FontFamily).
			With("color", rs.TextColor).
			With("backgroundColor", rs.BackgroundColor).
			With("textDecoration", "none").
			With("borderRadius", rs.BorderRadius),
			textLeaf(v.Text)).
			attr("href", safeURL(v.URL))
		return alignedSection(v.Align, btn), nil

	case domain.HeaderBlock:
		return b.header(v), nil

	case domain.ColumnsBlock:
		return b.columns(v, depth)

	case domain.DividerBlock:
		return newComponent(CompHr, Style{}.
			With("border", "none").
			With("borderTop", fmt.Sprintf("%dpx %s %s", rs.Thickness, rs.Style, rs.Color)).
			With("width", "100%").
			With("margin", "16px 0")), nil

	case domain.SpacerBlock:
		return newComponent(CompSection, Style{}.
			With("height", v.Height).
			With("lineHeight", strconv.Itoa(v.Height)+"px").
			With("fontSize", 0)), nil

	case domain.SocialLinksBlock:
		return b.socialLinks(v), nil
	}
	return nil, fmt.Errorf("%w: %T", domain.ErrUnknownBlockType, blk)
}

func (b builder) richSection(content domain.Node, cx contentCtx, st Style) (*Element, error) {
	children, err := renderContent(content, cx)
	if err != nil {
		return nil, err
	}
	return newComponent(CompSection, st, children...), nil
}

func alignedSection(align domain.Align, child *Element) *Element {
	return newComponent(CompSection, Style{}.
		With("textAlign", string(align)).
		With("marginBottom", 16),
		child)
}

// unwrapQuote drops a single top-level blockquote node so the block's own
// border isn't doubled.
func unwrapQuote(doc domain.Node) []domain.Node {
	if len(doc.Content) == 1 && doc.Content[0].Type == domain.NodeBlockquote {
		return doc.Content[0].Content
	}
	return doc.Content
}

func (b builder) header(v domain.HeaderBlock) *Element {
	row := newComponent(CompRow, nil)
	brandStyle := Style{}
	if v.ShowBadge {
		var badge *Element
		if v.LogoSrc != "" {
			badge = newComponent(CompImg, Style{}.
				With("width", 40).
				With("height", 40).
				With("borderRadius", 4).
				With("display", "block")).
				attr("src", v.LogoSrc).
				attr("alt", v.BrandName).
				attr("width", 40).
				attr("height", 40)
		} else {
			badge = newTag("div", Style{}.
				With("width", 40).
				With("height", 40).
				With("backgroundColor", "#f3f4f6").
				With("borderRadius", 4))
		}
		row.append(newComponent(CompColumn, Style{}.With("width", 52), badge))
		brandStyle = brandStyle.With("paddingLeft", 12)
	}
	row.append(newComponent(CompColumn, brandStyle,
		newComponent(CompText, Style{}.
			With("fontSize", 16).
			With("fontWeight", 600).
			With("fontFamily", b.tokens.Global.FontFamily).
			With("color", "#000000").
			With("margin", 0),
			textLeaf(v.BrandName))))
	return newComponent(CompSection, Style{}.With("marginBottom", 16), row)
}

func (b builder) columns(v domain.ColumnsBlock, depth int) (*Element, error) {
	if depth >= maxColumnsDepth {
		return nil, fmt.Errorf("%w: columns nested more than %d levels", ErrNestingTooDeep, maxColumnsDepth)
	}
	cells := v.Cells()
	n := len(cells)
	row := newComponent(CompRow, nil)
	for i, col := range cells {
		st := Style{}.
			With("width", percent(n)).
			With("verticalAlign", "top")
		if i > 0 {
			st = st.With("paddingLeft", halfGap(v.Gap, true))
		}
		if i < n-1 {
			st = st.With("paddingRight", halfGap(v.Gap, false))
		}
		children, err := b.blocks(col, depth+1)
		if err != nil {
			return nil, err
		}
		row.append(newComponent(CompColumn, st, children...))
	}
	return newComponent(CompSection, Style{}.With("marginBottom", 16), row), nil
}

// halfGap splits the gap between two neighbouring cells; an odd gap gives
// the extra pixel to the left side of the next cell.
func halfGap(gap int, leading bool) int {
	if leading {
		return gap - gap/2
	}
	return gap / 2
}

func percent(n int) string {
	if n <= 0 {
		return "100%"
	}
	p := math.Round(100/float64(n)*100) / 100
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

var platformLabels = map[domain.SocialPlatform]string{
	domain.PlatformTwitter:   "X",
	domain.PlatformFacebook:  "f",
	domain.PlatformInstagram: "IG",
	domain.PlatformLinkedIn:  "in",
	domain.PlatformYouTube:   "YT",
}

func (b builder) socialLinks(v domain.SocialLinksBlock) *Element {
	size := v.IconSize
	if size <= 0 {
		size = 24
	}
	sec := newComponent(CompSection, Style{}.
		With("textAlign", string(v.Align)).
		With("marginBottom", 16))
	for _, l := range v.Links {
		label, ok := platformLabels[l.Platform]
		if !ok {
			label = strings.ToUpper(string(l.Platform))
		}
		link := newComponent(CompLink, Style{}.
			With("display", "inline-block").
			With("width", size).
			With("height", size).
			With("lineHeight", strconv.Itoa(size)+"px").
			With("margin", "0 4px").
			With("borderRadius", "50%").
			With("backgroundColor", "#e5e7eb").
			With("color", "#374151").
			With("fontFamily", b.tokens.Global.FontFamily).
			With("fontSize", size/2).
			With("fontWeight", 700).
			With("textAlign", "center").
			With("textDecoration", "none"),
			textLeaf(label)).
			attr("href", safeURL(l.URL)).
			attr("title", string(l.Platform))
		sec.append(link)
	}
	return sec
}
