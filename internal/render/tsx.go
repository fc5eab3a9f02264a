package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"emailbuilder/internal/domain"
)

const templatePackage = "@react-email/components"

// componentOrder is the order components are listed in the import clause.
var componentOrder = []string{
	CompHtml, CompHead, CompPreview, CompBody, CompContainer, CompSection,
	CompRow, CompColumn, CompText, CompHeading, CompButton, CompImg, CompHr,
	CompLink, CompCodeInline,
}

// RenderTemplate renders doc as the source of a React Email template module
// whose default export returns the email tree.
func RenderTemplate(ctx context.Context, doc domain.Document, tokens domain.Tokens, opts ...Option) (string, error) {
	o := newOptions(opts)
	start := time.Now()

	out, err := renderTemplate(ctx, doc, tokens, o)
	o.observe(FormatTemplate, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return out, nil
}

func renderTemplate(ctx context.Context, doc domain.Document, tokens domain.Tokens, o options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	root, err := buildDocument(doc, tokens, o)
	if err != nil {
		return "", err
	}

	used := map[string]bool{}
	collectComponents(root, used)
	var imports []string
	for _, c := range componentOrder {
		if used[c] {
			imports = append(imports, c)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("import {\n")
	for _, c := range imports {
		fmt.Fprintf(&buf, "  %s,\n", c)
	}
	fmt.Fprintf(&buf, "} from %q\n\n", templatePackage)
	buf.WriteString("export function EmailTemplate() {\n")
	buf.WriteString("  return (\n")
	writeJSX(&buf, root, 2)
	buf.WriteString("  )\n")
	buf.WriteString("}\n\n")
	buf.WriteString("export default EmailTemplate\n")
	return buf.String(), nil
}

func collectComponents(e *Element, used map[string]bool) {
	if e.Component != "" {
		used[e.Component] = true
	}
	for _, c := range e.Children {
		collectComponents(c, used)
	}
}

func writeJSX(buf *bytes.Buffer, e *Element, depth int) {
	indent := strings.Repeat("  ", depth)
	if e.isText() {
		buf.WriteString(indent)
		buf.WriteString("{")
		buf.WriteString(jsString(e.Text))
		buf.WriteString("}\n")
		return
	}

	name := e.Component
	if name == "" {
		name = e.Tag
	}
	buf.WriteString(indent)
	buf.WriteString("<")
	buf.WriteString(name)
	for _, a := range e.Attrs {
		writeJSXAttr(buf, a)
	}
	for _, p := range e.Props {
		writeJSXAttr(buf, p)
	}
	if len(e.Style) > 0 {
		buf.WriteString(" style={")
		buf.WriteString(styleObject(e.Style))
		buf.WriteString("}")
	}
	if len(e.Children) == 0 {
		buf.WriteString(" />\n")
		return
	}
	buf.WriteString(">\n")
	for _, c := range e.Children {
		writeJSX(buf, c, depth+1)
	}
	buf.WriteString(indent)
	buf.WriteString("</")
	buf.WriteString(name)
	buf.WriteString(">\n")
}

func writeJSXAttr(buf *bytes.Buffer, a Attr) {
	buf.WriteString(" ")
	buf.WriteString(a.Key)
	buf.WriteString("=")
	switch v := a.Value.(type) {
	case string:
		if strings.ContainsAny(v, "\"\\{}<>&\n") {
			buf.WriteString("{")
			buf.WriteString(jsString(v))
			buf.WriteString("}")
			return
		}
		buf.WriteString(`"`)
		buf.WriteString(v)
		buf.WriteString(`"`)
	default:
		buf.WriteString("{")
		buf.WriteString(attrString(v))
		buf.WriteString("}")
	}
}

// styleObject renders declarations as a JS object literal. Numbers stay
// numbers so React applies the same px/unitless rules as the HTML output.
func styleObject(s Style) string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for i, d := range s {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.Prop)
		sb.WriteString(": ")
		switch v := d.Value.(type) {
		case string:
			sb.WriteString(jsString(v))
		case int:
			sb.WriteString(strconv.Itoa(v))
		case float64:
			sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		default:
			sb.WriteString("undefined")
		}
	}
	sb.WriteString(" }")
	return sb.String()
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
