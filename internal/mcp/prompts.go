package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("compose_email",
		mcp.WithPromptDescription("Guide through composing a complete marketing or transactional email"),
		mcp.WithArgument("purpose",
			mcp.ArgumentDescription("What the email is for, e.g. product launch, password reset, newsletter"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("brand",
			mcp.ArgumentDescription("Brand or company name"),
		),
	), s.handleComposeEmailPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("restyle_email",
		mcp.WithPromptDescription("Apply a new look to the current email through a design system instead of per-block overrides"),
		mcp.WithArgument("style",
			mcp.ArgumentDescription("Desired look, e.g. dark and bold, soft pastel"),
			mcp.RequiredArgument(),
		),
	), s.handleRestyleEmailPrompt)
}

func (s *Server) handleComposeEmailPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	purpose := req.Params.Arguments["purpose"]
	brand := req.Params.Arguments["brand"]
	if brand == "" {
		brand = "the brand"
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Compose an email for: %s", purpose),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Compose a %s email for %s. Follow these steps:

1. Call list_design_systems and set_active_design_system to pick a fitting look (or create_design_system)
2. Use new_document, then set_document_name with a short descriptive name
3. Add blocks with add_block in reading order: header, heading, text, image or columns, button, divider, social_links, footer
4. Fill each block with update_block. Rich text fields take a TipTap JSON document
5. Set settings.previewText with update_settings
6. Check the result with document_outline and render_html
7. save_template, then export_files

Prefer design system tokens over per-block style overrides so the email restyles cleanly.`, purpose, brand),
				},
			},
		},
	}, nil
}

func (s *Server) handleRestyleEmailPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	look := req.Params.Arguments["style"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Restyle the email: %s", look),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Restyle the current email to look "%s". Follow these steps:

1. Read email://document and note blocks that carry style overrides
2. Duplicate the closest design system with duplicate_design_system
3. Adjust its tokens with update_design_system and activate it
4. Clear conflicting overrides with update_block using null values, e.g. {"backgroundColor":null}
5. Verify with resolve_block_styles and render_html`, look),
				},
			},
		},
	}, nil
}
