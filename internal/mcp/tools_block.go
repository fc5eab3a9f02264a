package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"emailbuilder/internal/domain"
	"emailbuilder/internal/service"
)

func (s *Server) registerBlockTools() {
	types := make([]string, 0, len(domain.BlockTypes()))
	for _, t := range domain.BlockTypes() {
		types = append(types, string(t))
	}
	typeList := strings.Join(types, ", ")

	// ── list_block_types ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_block_types",
		mcp.WithDescription("List the block types that can be added to the email"),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleListBlockTypes)

	// ── add_block ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_block",
		mcp.WithDescription("Append a block with default content to the end of the email and select it"),
		mcp.WithString("type",
			mcp.Description("Block type: "+typeList),
			mcp.Required(),
		),
	), s.handleAddBlock)

	// ── update_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_block",
		mcp.WithDescription("Update fields of a top-level block. The patch is a JSON merge patch: "+
			"present keys replace the field, null clears a style override so the design system value applies. "+
			`Rich-text fields take a TipTap JSON document, e.g. {"type":"doc","content":[...]}.`),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("patch", mcp.Description(`JSON object, e.g. {"backgroundColor":"#ff0000","borderRadius":null}`), mcp.Required()),
		mcp.WithBoolean("commit", mcp.Description("Record an undo step (default true)")),
	), s.handleUpdateBlock)

	// ── delete_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_block",
		mcp.WithDescription("Delete a top-level block. Undo restores it."),
		mcp.WithString("blockId", mcp.Description("Block ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteBlock)

	// ── move_block ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_block",
		mcp.WithDescription("Move a block one position up or down"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("direction", mcp.Description("up or down"), mcp.Required(), mcp.Enum("up", "down")),
	), s.handleMoveBlock)

	// ── select_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_block",
		mcp.WithDescription("Select a block in the live preview. Pass an empty blockId to clear the selection."),
		mcp.WithString("blockId", mcp.Description("Block ID")),
	), s.handleSelectBlock)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListBlockTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(domain.BlockTypes())
}

func (s *Server) handleAddBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bt, err := requireString(req.GetArguments(), "type")
	if err != nil {
		return nil, err
	}
	b, err := s.editor.AddBlock(ctx, domain.BlockType(bt))
	if err != nil {
		return nil, err
	}
	return jsonResult(b)
}

func (s *Server) handleUpdateBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	patch, err := objectArg(args, "patch")
	if err != nil {
		return nil, err
	}
	if patch == nil {
		return nil, fmt.Errorf("patch is required")
	}
	if _, i := s.editor.Document().FindBlock(id); i < 0 {
		return textResult(fmt.Sprintf("No top-level block %s; nothing changed.", id)), nil
	}

	if boolArg(args, "commit", true) {
		err = s.editor.UpdateBlockCommitted(ctx, id, domain.Patch(patch))
	} else {
		err = s.editor.UpdateBlock(ctx, id, domain.Patch(patch))
	}
	if err != nil {
		return nil, err
	}
	b, _ := s.editor.Document().FindBlock(id)
	return jsonResult(b)
}

func (s *Server) handleDeleteBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "blockId")
	if err != nil {
		return nil, err
	}
	if _, i := s.editor.Document().FindBlock(id); i < 0 {
		return textResult(fmt.Sprintf("No top-level block %s; nothing deleted.", id)), nil
	}
	s.editor.DeleteBlock(ctx, id)
	return textResult(fmt.Sprintf("Deleted block %s.", id)), nil
}

func (s *Server) handleMoveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	dir := service.MoveDirection(stringArg(args, "direction"))
	if dir != service.MoveUp && dir != service.MoveDown {
		return nil, fmt.Errorf("direction must be up or down")
	}
	s.editor.MoveBlock(ctx, id, dir)
	return jsonResult(summarizeBlocks(s.editor.Document().Blocks))
}

func (s *Server) handleSelectBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringArg(req.GetArguments(), "blockId")
	s.editor.Select(ctx, id)
	if sel := s.editor.SelectedID(); sel != "" {
		return textResult("Selected " + sel + "."), nil
	}
	return textResult("Selection cleared."), nil
}
