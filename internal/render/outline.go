package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xlab/treeprint"

	"emailbuilder/internal/domain"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExportFilename derives the download name for a document: whitespace runs
// become dashes and the result is lowercased.
func ExportFilename(name, ext string) string {
	base := strings.ToLower(whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "-"))
	if base == "" {
		base = "email"
	}
	return base + "." + strings.TrimPrefix(ext, ".")
}

// Outline prints the block structure of doc as a tree.
func Outline(doc domain.Document) string {
	root := treeprint.NewWithRoot(fmt.Sprintf("%s (%d blocks)", doc.Name, len(doc.Blocks)))
	addOutline(root, doc.Blocks)
	return root.String()
}

func addOutline(tree treeprint.Tree, blocks domain.BlockList) {
	for _, b := range blocks {
		label := fmt.Sprintf("%s [%s]", b.Kind(), shortID(b.BlockID()))
		if s := summary(b); s != "" {
			label += " " + s
		}
		cols, ok := b.(domain.ColumnsBlock)
		if !ok {
			tree.AddNode(label)
			continue
		}
		branch := tree.AddBranch(label)
		for i, col := range cols.Content {
			colBranch := branch.AddBranch(fmt.Sprintf("column %d", i+1))
			addOutline(colBranch, col)
		}
	}
}

func summary(b domain.Block) string {
	var s string
	switch v := b.(type) {
	case domain.ImageBlock:
		s = v.Src
		if s == "" {
			s = v.Alt
		}
	case domain.ButtonBlock:
		s = v.Text + " -> " + v.URL
	case domain.HeaderBlock:
		s = v.BrandName
	case domain.SpacerBlock:
		s = fmt.Sprintf("%dpx", v.Height)
	case domain.SocialLinksBlock:
		names := make([]string, len(v.Links))
		for i, l := range v.Links {
			names[i] = string(l.Platform)
		}
		s = strings.Join(names, ", ")
	case domain.ColumnsBlock:
		s = fmt.Sprintf("%d cols, gap %d", v.Columns, v.Gap)
	default:
		if content, ok := domain.ContentOf(b); ok {
			s = content.PlainText()
		}
	}
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	if r := []rune(s); len(r) > 40 {
		s = string(r[:40]) + "..."
	}
	if s == "" {
		return ""
	}
	return fmt.Sprintf("%q", s)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
