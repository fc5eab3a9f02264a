package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"emailbuilder/internal/service"
)

func (s *Server) registerExportTools() {
	// ── render_html ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("render_html",
		mcp.WithDescription("Render the email to email-client HTML"),
		mcp.WithString("viewport", mcp.Description("desktop (default) or mobile"), mcp.Enum("desktop", "mobile")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleRenderHTML)

	// ── render_template ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("render_template",
		mcp.WithDescription("Render the email as a React Email component module (.tsx source)"),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleRenderTemplate)

	// ── export_files ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_files",
		mcp.WithDescription("Write <name>.html and <name>.tsx for the email to a directory"),
		mcp.WithString("dir", mcp.Description("Output directory (defaults to the configured export dir)")),
	), s.handleExportFiles)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleRenderHTML(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vp, err := parseViewport(stringArg(req.GetArguments(), "viewport"))
	if err != nil {
		return nil, err
	}
	out, err := s.exporter.HTML(ctx, vp)
	if err != nil {
		return nil, err
	}
	return textResult(out), nil
}

func (s *Server) handleRenderTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.exporter.Template(ctx)
	if err != nil {
		return nil, err
	}
	return textResult(out), nil
}

func (s *Server) handleExportFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := stringArg(req.GetArguments(), "dir")
	if dir == "" {
		dir = s.exportDir
	}
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	res, err := s.exporter.WriteFiles(ctx, dir)
	if errors.Is(err, service.ErrExportInProgress) {
		return textResult("An export to " + dir + " is already running; try again shortly."), nil
	}
	if err != nil {
		return nil, err
	}
	return jsonResult(res)
}
