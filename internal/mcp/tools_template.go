package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTemplateTools() {
	// ── save_template ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_template",
		mcp.WithDescription("Save the email as a template. Updates the current template unless saveAs is set."),
		mcp.WithString("name", mcp.Description("Template name (defaults to the email name)")),
		mcp.WithBoolean("saveAs", mcp.Description("Always create a new template")),
	), s.handleSaveTemplate)

	// ── list_templates ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List saved templates, most recently updated first"),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleListTemplates)

	// ── load_template ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("load_template",
		mcp.WithDescription("Open a saved template in the editor. Unsaved changes and undo history are discarded."),
		mcp.WithString("id", mcp.Description("Template ID"), mcp.Required()),
	), s.handleLoadTemplate)

	// ── delete_template ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_template",
		mcp.WithDescription("Delete a saved template"),
		mcp.WithString("id", mcp.Description("Template ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteTemplate)
}

// ── Handlers ───────────────────────────────────────────────

type templateSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Blocks    int    `json:"blocks"`
	UpdatedAt int64  `json:"updatedAt"`
	Current   bool   `json:"current"`
}

func (s *Server) handleSaveTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name := stringArg(args, "name")
	doc := s.editor.Document()

	save := s.templates.Save
	if boolArg(args, "saveAs", false) {
		save = s.templates.SaveAs
	}
	saved := save(ctx, name, doc)
	s.editor.MarkClean()
	return textResult(fmt.Sprintf("Saved template %q (%s).", saved.Name, saved.ID)), nil
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var current string
	if cur, ok := s.templates.Current(); ok {
		current = cur.ID
	}
	list := s.templates.List()
	out := make([]templateSummary, len(list))
	for i, t := range list {
		out[i] = templateSummary{
			ID:        t.ID,
			Name:      t.Name,
			Blocks:    len(t.Document.Blocks),
			UpdatedAt: t.UpdatedAt,
			Current:   t.ID == current,
		}
	}
	return jsonResult(out)
}

func (s *Server) handleLoadTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "id")
	if err != nil {
		return nil, err
	}
	doc, ok := s.templates.Load(ctx, id)
	if !ok {
		return textResult(fmt.Sprintf("No template %s.", id)), nil
	}
	s.editor.Load(ctx, doc)
	return jsonResult(summarizeBlocks(doc.Blocks))
}

func (s *Server) handleDeleteTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "id")
	if err != nil {
		return nil, err
	}
	if !s.templates.Delete(ctx, id) {
		return textResult(fmt.Sprintf("No template %s.", id)), nil
	}
	return textResult(fmt.Sprintf("Deleted template %s.", id)), nil
}
