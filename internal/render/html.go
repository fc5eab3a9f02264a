package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"emailbuilder/internal/domain"
)

// HTMLComponent renders doc as a complete HTML document.
func HTMLComponent(doc domain.Document, tokens domain.Tokens, opts ...Option) templ.Component {
	o := newOptions(opts)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		root, err := buildDocument(doc, tokens, o)
		if err != nil {
			return err
		}
		return writeHTML(w, root)
	})
}

// RenderHTML renders doc to a standalone HTML string with every style
// inlined.
func RenderHTML(ctx context.Context, doc domain.Document, tokens domain.Tokens, opts ...Option) (string, error) {
	o := newOptions(opts)
	start := time.Now()

	out, err := ToString(ctx, HTMLComponent(doc, tokens, opts...))
	if err == nil && o.minify {
		out, err = minifyHTML(out)
	}
	o.observe(FormatHTML, time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return out, nil
}

// ToString renders a component into a string.
func ToString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

var minifier = newMinifier()

func newMinifier() *minify.M {
	m := minify.New()
	m.Add("text/html", &mhtml.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return m
}

func minifyHTML(s string) (string, error) {
	out, err := minifier.String("text/html", s)
	if err != nil {
		return "", fmt.Errorf("minify: %w", err)
	}
	return out, nil
}

func writeHTML(w io.Writer, root *Element) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(toNode(root))

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func toNode(e *Element) *html.Node {
	if e.isText() {
		return &html.Node{Type: html.TextNode, Data: e.Text}
	}

	switch e.Component {
	case CompSection:
		table, cell := presentationTable(e.Style)
		appendChildren(cell, e.Children)
		return table
	case CompContainer:
		table, cell := presentationTable(e.Style)
		table.Attr = append(table.Attr, html.Attribute{Key: "class", Val: "container"})
		appendChildren(cell, e.Children)
		return table
	case CompRow:
		table := element("table", tableAttrs(e.Style)...)
		tbody := element("tbody", html.Attribute{Key: "style", Val: "width:100%"})
		tr := element("tr", html.Attribute{Key: "style", Val: "width:100%"})
		table.AppendChild(tbody)
		tbody.AppendChild(tr)
		appendChildren(tr, e.Children)
		return table
	case CompPreview:
		div := element("div", html.Attribute{
			Key: "style",
			Val: "display:none;overflow:hidden;line-height:1px;opacity:0;max-height:0;max-width:0",
		})
		appendChildren(div, e.Children)
		return div
	case CompHead:
		head := element("head")
		head.AppendChild(element("meta",
			html.Attribute{Key: "http-equiv", Val: "Content-Type"},
			html.Attribute{Key: "content", Val: "text/html; charset=UTF-8"}))
		head.AppendChild(element("meta",
			html.Attribute{Key: "name", Val: "viewport"},
			html.Attribute{Key: "content", Val: "width=device-width, initial-scale=1.0"}))
		head.AppendChild(element("meta",
			html.Attribute{Key: "name", Val: "x-apple-disable-message-reformatting"}))
		appendChildren(head, e.Children)
		return head
	}

	n := element(e.Tag)
	for _, a := range e.Attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: attrString(a.Value)})
	}
	switch e.Component {
	case CompButton, CompLink:
		n.Attr = append(n.Attr, html.Attribute{Key: "target", Val: "_blank"})
	case CompHtml:
		n.Attr = append(n.Attr, html.Attribute{Key: "dir", Val: "ltr"})
	case CompColumn:
		n.Attr = append(n.Attr, html.Attribute{Key: "valign", Val: "top"})
	}
	if len(e.Style) > 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: e.Style.CSS()})
	}
	appendChildren(n, e.Children)
	return n
}

// presentationTable builds the table > tbody > tr > td wrapper email
// clients lay out reliably, returning the table and its single cell.
func presentationTable(st Style) (*html.Node, *html.Node) {
	table := element("table", tableAttrs(st)...)
	tbody := element("tbody")
	tr := element("tr")
	td := element("td")
	table.AppendChild(tbody)
	tbody.AppendChild(tr)
	tr.AppendChild(td)
	return table, td
}

func tableAttrs(st Style) []html.Attribute {
	attrs := []html.Attribute{
		{Key: "align", Val: "center"},
		{Key: "width", Val: "100%"},
		{Key: "border", Val: "0"},
		{Key: "cellpadding", Val: "0"},
		{Key: "cellspacing", Val: "0"},
		{Key: "role", Val: "presentation"},
	}
	if len(st) > 0 {
		attrs = append(attrs, html.Attribute{Key: "style", Val: st.CSS()})
	}
	return attrs
}

func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func appendChildren(parent *html.Node, children []*Element) {
	for _, c := range children {
		parent.AppendChild(toNode(c))
	}
}
