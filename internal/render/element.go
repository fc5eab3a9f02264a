// Package render turns an email document into markup. Blocks and their
// content trees are first lowered into an Element tree; the HTML and
// template-source serializers both walk that same tree, so style values and
// ordering are identical between the two outputs.
package render

import (
	"strconv"
	"strings"
)

// Component names used by the template output. Elements without a component
// name are plain tags in both outputs.
const (
	CompHtml       = "Html"
	CompHead       = "Head"
	CompBody       = "Body"
	CompPreview    = "Preview"
	CompContainer  = "Container"
	CompSection    = "Section"
	CompRow        = "Row"
	CompColumn     = "Column"
	CompText       = "Text"
	CompHeading    = "Heading"
	CompButton     = "Button"
	CompImg        = "Img"
	CompHr         = "Hr"
	CompLink       = "Link"
	CompCodeInline = "CodeInline"
)

// componentTags is the HTML tag each component renders as. Section, Row and
// Container expand into presentation tables in the HTML serializer.
var componentTags = map[string]string{
	CompHtml:       "html",
	CompHead:       "head",
	CompBody:       "body",
	CompPreview:    "div",
	CompContainer:  "table",
	CompSection:    "table",
	CompRow:        "table",
	CompColumn:     "td",
	CompText:       "p",
	CompHeading:    "h1",
	CompButton:     "a",
	CompImg:        "img",
	CompHr:         "hr",
	CompLink:       "a",
	CompCodeInline: "code",
}

// Decl is a single inline style declaration. Prop is camelCase; Value is a
// string, int or float64. Integer values on length properties mean pixels.
type Decl struct {
	Prop  string
	Value any
}

// Style is an ordered list of declarations.
type Style []Decl

// With appends a declaration. Empty strings are skipped so unset values
// never produce "color:" style noise.
func (s Style) With(prop string, v any) Style {
	if str, ok := v.(string); ok && str == "" {
		return s
	}
	return append(s, Decl{Prop: prop, Value: v})
}

// Attr is an element attribute. Values are strings or ints.
type Attr struct {
	Key   string
	Value any
}

// Element is a node of the intermediate markup tree.
type Element struct {
	Component string
	Tag       string
	Attrs     []Attr
	// Props are passed to the template component only (e.g. Heading's "as").
	Props    []Attr
	Style    Style
	Children []*Element
	// Text marks a text leaf when Component and Tag are both empty.
	Text string
}

func newComponent(name string, style Style, children ...*Element) *Element {
	return &Element{Component: name, Tag: componentTags[name], Style: style, Children: children}
}

func newTag(tag string, style Style, children ...*Element) *Element {
	return &Element{Tag: tag, Style: style, Children: children}
}

func textLeaf(s string) *Element {
	return &Element{Text: s}
}

func (e *Element) isText() bool {
	return e.Component == "" && e.Tag == ""
}

func (e *Element) attr(key string, v any) *Element {
	e.Attrs = append(e.Attrs, Attr{Key: key, Value: v})
	return e
}

func (e *Element) prop(key string, v any) *Element {
	e.Props = append(e.Props, Attr{Key: key, Value: v})
	return e
}

func (e *Element) append(children ...*Element) *Element {
	for _, c := range children {
		if c != nil {
			e.Children = append(e.Children, c)
		}
	}
	return e
}

// ── CSS value formatting ───────────────────────────────────

// unitless properties keep bare numbers; every other numeric value is px.
var unitless = map[string]bool{
	"lineHeight": true,
	"fontWeight": true,
	"opacity":    true,
	"zIndex":     true,
	"flex":       true,
}

// CSS renders the declarations as an inline style attribute value.
func (s Style) CSS() string {
	var sb strings.Builder
	for i, d := range s {
		if i > 0 {
			sb.WriteString(";")
		}
		sb.WriteString(kebab(d.Prop))
		sb.WriteString(":")
		sb.WriteString(cssValue(d.Prop, d.Value))
	}
	return sb.String()
}

func cssValue(prop string, v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		if unitless[prop] || t == 0 {
			return strconv.Itoa(t)
		}
		return strconv.Itoa(t) + "px"
	case float64:
		f := strconv.FormatFloat(t, 'f', -1, 64)
		if unitless[prop] || t == 0 {
			return f
		}
		return f + "px"
	}
	return ""
}

func kebab(prop string) string {
	var sb strings.Builder
	for i, r := range prop {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func attrString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}
