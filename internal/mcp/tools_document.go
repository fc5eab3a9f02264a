package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"emailbuilder/internal/domain"
	"emailbuilder/internal/render"
	"emailbuilder/internal/service"
)

func (s *Server) registerDocumentTools() {
	// ── get_document ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Return the full email document as JSON, including every block and its overrides"),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleGetDocument)

	// ── document_outline ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("document_outline",
		mcp.WithDescription("Return a compact tree of the email's blocks with their IDs"),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleDocumentOutline)

	// ── set_document_name ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_document_name",
		mcp.WithDescription("Rename the email. The name is used for exported file names."),
		mcp.WithString("name", mcp.Description("New name"), mcp.Required()),
	), s.handleSetDocumentName)

	// ── update_settings ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_settings",
		mcp.WithDescription("Update email-wide settings. Omitted fields keep their value."),
		mcp.WithString("backgroundColor", mcp.Description("Canvas color behind the content, e.g. #f3f4f6")),
		mcp.WithNumber("contentWidth", mcp.Description("Content column width in pixels")),
		mcp.WithString("previewText", mcp.Description("Inbox preview text")),
		mcp.WithString("designSystemId", mcp.Description("Design system this email renders with, overriding the active one. Empty string clears it.")),
	), s.handleUpdateSettings)

	// ── undo / redo ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last committed change"),
	), s.handleUndo)
	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone change"),
	), s.handleRedo)

	// ── new_document ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("new_document",
		mcp.WithDescription("Start a blank email. Unsaved changes are discarded and the current template is cleared."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleNewDocument)
}

// ── Handlers ───────────────────────────────────────────────

type documentView struct {
	Document       any    `json:"document"`
	SelectedID     string `json:"selectedId,omitempty"`
	CanUndo        bool   `json:"canUndo"`
	CanRedo        bool   `json:"canRedo"`
	Dirty          bool   `json:"dirty"`
	ActiveSystemID string `json:"activeDesignSystemId,omitempty"`
}

func (s *Server) documentView() documentView {
	return documentView{
		Document:       s.editor.Document(),
		SelectedID:     s.editor.SelectedID(),
		CanUndo:        s.editor.CanUndo(),
		CanRedo:        s.editor.CanRedo(),
		Dirty:          s.editor.Dirty(),
		ActiveSystemID: s.systems.ActiveID(),
	}
}

func (s *Server) handleGetDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.documentView())
}

func (s *Server) handleDocumentOutline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(render.Outline(s.editor.Document())), nil
}

func (s *Server) handleSetDocumentName(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requireString(req.GetArguments(), "name")
	if err != nil {
		return nil, err
	}
	s.editor.SetName(ctx, name)
	return textResult(fmt.Sprintf("Renamed email to %q.", name)), nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	patch := service.SettingsPatch{
		BackgroundColor: optionalString(args, "backgroundColor"),
		ContentWidth:    optionalInt(args, "contentWidth"),
		PreviewText:     optionalString(args, "previewText"),
	}
	if patch.ContentWidth != nil && *patch.ContentWidth <= 0 {
		return nil, fmt.Errorf("contentWidth must be positive")
	}
	systemID := optionalString(args, "designSystemId")
	if systemID != nil && *systemID != "" {
		if _, ok := s.systems.Get(*systemID); !ok {
			return nil, fmt.Errorf("design system %q not found", *systemID)
		}
	}

	if patch.BackgroundColor != nil || patch.ContentWidth != nil || patch.PreviewText != nil {
		s.editor.UpdateSettings(ctx, patch)
	}
	if systemID != nil {
		s.editor.SetDesignSystemID(ctx, *systemID)
	}
	doc := s.editor.Document()
	return jsonResult(struct {
		domain.Settings
		DesignSystemID string `json:"designSystemId,omitempty"`
	}{doc.Settings, doc.DesignSystemID})
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.editor.Undo(ctx) {
		return textResult("Nothing to undo."), nil
	}
	return jsonResult(summarizeBlocks(s.editor.Document().Blocks))
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.editor.Redo(ctx) {
		return textResult("Nothing to redo."), nil
	}
	return jsonResult(summarizeBlocks(s.editor.Document().Blocks))
}

func (s *Server) handleNewDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.templates.New(ctx)
	s.editor.Reset(ctx)
	return textResult("Started a new email."), nil
}
