package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"emailbuilder/internal/domain"
	"emailbuilder/internal/style"
)

func (s *Server) registerDesignSystemTools() {
	tokensHelp := `Token patch keyed by category then field, e.g. {"button":{"backgroundColor":"#2563eb","borderRadius":8}}. ` +
		"Categories: heading, text, button, divider, footer, list, blockquote, global. " +
		"Divider style: solid, dashed or dotted. " +
		"Email-safe font families: " + strings.Join(domain.FontFamilies, " | ") + ". " +
		"Heading font weights: " + strings.Join(domain.FontWeights, ", ") + "."

	// ── list_design_systems ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_design_systems",
		mcp.WithDescription("List presets and user design systems, marking the active one"),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleListDesignSystems)

	// ── set_active_design_system ───────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_design_system",
		mcp.WithDescription("Activate a design system. Pass an empty id to fall back to the default tokens."),
		mcp.WithString("id", mcp.Description("Design system ID")),
	), s.handleSetActiveDesignSystem)

	// ── create_design_system ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_design_system",
		mcp.WithDescription("Create a user design system, optionally starting from another system's tokens"),
		mcp.WithString("name", mcp.Description("Display name"), mcp.Required()),
		mcp.WithString("basedOn", mcp.Description("ID of a preset or user system to copy tokens from (default tokens when omitted)")),
		mcp.WithString("tokens", mcp.Description(tokensHelp)),
	), s.handleCreateDesignSystem)

	// ── update_design_system ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_design_system",
		mcp.WithDescription("Rename a user design system and/or merge token changes into it. Presets are read-only."),
		mcp.WithString("id", mcp.Description("Design system ID"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("tokens", mcp.Description(tokensHelp)),
	), s.handleUpdateDesignSystem)

	// ── delete_design_system ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_design_system",
		mcp.WithDescription("Delete a user design system. Presets cannot be deleted."),
		mcp.WithString("id", mcp.Description("Design system ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteDesignSystem)

	// ── duplicate_design_system ────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_design_system",
		mcp.WithDescription("Copy a preset or user design system into a new editable user system"),
		mcp.WithString("id", mcp.Description("Design system ID"), mcp.Required()),
	), s.handleDuplicateDesignSystem)

	// ── resolve_block_styles ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("resolve_block_styles",
		mcp.WithDescription("Show the effective style of a block after applying its overrides to the design system tokens"),
		mcp.WithString("blockId", mcp.Description("Block ID, top-level or inside columns"), mcp.Required()),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleResolveBlockStyles)

	// ── import_brand_kit ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("import_brand_kit",
		mcp.WithDescription("Create a design system from a YAML brand kit (name plus tokens)"),
		mcp.WithString("yaml", mcp.Description("Brand kit YAML text")),
		mcp.WithString("path", mcp.Description("Path to a brand kit YAML file, used when yaml is omitted")),
	), s.handleImportBrandKit)

	// ── export_brand_kit ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_brand_kit",
		mcp.WithDescription("Return a design system as a YAML brand kit"),
		mcp.WithString("id", mcp.Description("Design system ID (active system when omitted)")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleExportBrandKit)
}

// ── Handlers ───────────────────────────────────────────────

type designSystemSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Preset bool   `json:"preset"`
	Active bool   `json:"active"`
}

func (s *Server) handleListDesignSystems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	active := s.systems.ActiveID()
	all := s.systems.All()
	out := make([]designSystemSummary, len(all))
	for i, ds := range all {
		out[i] = designSystemSummary{
			ID:     ds.ID,
			Name:   ds.Name,
			Preset: domain.IsPreset(ds.ID),
			Active: ds.ID == active,
		}
	}
	return jsonResult(out)
}

func (s *Server) handleSetActiveDesignSystem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringArg(req.GetArguments(), "id")
	if id != "" {
		if _, ok := s.systems.Get(id); !ok {
			return textResult(fmt.Sprintf("No design system %s; active system unchanged.", id)), nil
		}
	}
	s.systems.SetActive(ctx, id)
	if id == "" {
		return textResult("Cleared the active design system; default tokens apply."), nil
	}
	return textResult(fmt.Sprintf("Activated design system %s.", id)), nil
}

func (s *Server) handleCreateDesignSystem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}
	tokens := domain.DefaultTokens()
	if base := stringArg(args, "basedOn"); base != "" {
		src, ok := s.systems.Get(base)
		if !ok {
			return nil, fmt.Errorf("design system %s not found", base)
		}
		tokens = src.Tokens
	}
	patch, err := tokensPatchArg(args, "tokens")
	if err != nil {
		return nil, err
	}
	if tokens, err = domain.MergeTokens(tokens, patch); err != nil {
		return nil, err
	}
	return jsonResult(s.systems.Create(ctx, name, tokens))
}

func (s *Server) handleUpdateDesignSystem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "id")
	if err != nil {
		return nil, err
	}
	patch, err := tokensPatchArg(args, "tokens")
	if err != nil {
		return nil, err
	}
	ds, ok, err := s.systems.Update(ctx, id, optionalString(args, "name"), patch)
	if err != nil {
		return nil, err
	}
	if !ok {
		return textResult(fmt.Sprintf("Design system %s is a preset or does not exist; nothing changed.", id)), nil
	}
	return jsonResult(ds)
}

func (s *Server) handleDeleteDesignSystem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "id")
	if err != nil {
		return nil, err
	}
	if !s.systems.Delete(ctx, id) {
		return textResult(fmt.Sprintf("Design system %s is a preset or does not exist; nothing deleted.", id)), nil
	}
	return textResult(fmt.Sprintf("Deleted design system %s.", id)), nil
}

func (s *Server) handleDuplicateDesignSystem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "id")
	if err != nil {
		return nil, err
	}
	ds, ok := s.systems.Duplicate(ctx, id)
	if !ok {
		return textResult(fmt.Sprintf("No design system %s.", id)), nil
	}
	return jsonResult(ds)
}

func (s *Server) handleResolveBlockStyles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "blockId")
	if err != nil {
		return nil, err
	}
	doc := s.editor.Document()
	b, ok := doc.FindNested(id)
	if !ok {
		return textResult(fmt.Sprintf("No block %s.", id)), nil
	}
	return jsonResult(struct {
		ID       string           `json:"id"`
		Type     domain.BlockType `json:"type"`
		Resolved any              `json:"resolved"`
	}{id, b.Kind(), style.Resolve(b, s.systems.TokensFor(doc.DesignSystemID))})
}

func (s *Server) handleImportBrandKit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	var r io.Reader
	if text, ok := args["yaml"].(string); ok && strings.TrimSpace(text) != "" {
		r = strings.NewReader(text)
	} else if path := stringArg(args, "path"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open brand kit: %w", err)
		}
		defer f.Close()
		r = f
	} else {
		return nil, fmt.Errorf("yaml or path is required")
	}

	ds, err := s.systems.ImportBrandKit(ctx, r)
	if err != nil {
		return nil, err
	}
	return jsonResult(ds)
}

func (s *Server) handleExportBrandKit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringArg(req.GetArguments(), "id")
	if id == "" {
		id = s.systems.ActiveID()
	}
	if id == "" {
		return nil, fmt.Errorf("id is required when no design system is active")
	}
	var buf bytes.Buffer
	if err := s.systems.ExportBrandKit(&buf, id); err != nil {
		return nil, err
	}
	return textResult(buf.String()), nil
}

// tokensPatchArg reads a {category: {field: value}} object.
func tokensPatchArg(args map[string]any, key string) (domain.TokensPatch, error) {
	raw, err := objectArg(args, key)
	if err != nil || raw == nil {
		return nil, err
	}
	patch := make(domain.TokensPatch, len(raw))
	for category, v := range raw {
		fields, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s.%s must be an object", key, category)
		}
		patch[category] = fields
	}
	return patch, nil
}
