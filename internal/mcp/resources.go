package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	uriDocument      = "email://document"
	uriDesignSystems = "email://design-systems"
	uriTemplates     = "email://templates"
	uriBlockPrefix   = "email://blocks/"
)

func (s *Server) registerResources() {
	// ── email://document ───────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		uriDocument,
		"Current Email",
		mcp.WithResourceDescription("The email being edited, with selection and undo state"),
		mcp.WithMIMEType("application/json"),
	), s.handleDocumentResource)

	// ── email://design-systems ─────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		uriDesignSystems,
		"Design Systems",
		mcp.WithMIMEType("application/json"),
	), s.handleDesignSystemsResource)

	// ── email://templates ──────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		uriTemplates,
		"Saved Templates",
		mcp.WithMIMEType("application/json"),
	), s.handleTemplatesResource)

	// ── email://blocks/{blockId} ───────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			uriBlockPrefix+"{blockId}",
			"Email Block",
		),
		s.handleBlockResource,
	)
}

func (s *Server) handleDocumentResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(uriDocument, s.documentView())
}

func (s *Server) handleDesignSystemsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(uriDesignSystems, struct {
		ActiveID string `json:"activeId,omitempty"`
		Systems  any    `json:"systems"`
	}{s.systems.ActiveID(), s.systems.All()})
}

func (s *Server) handleTemplatesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(uriTemplates, s.templates.List())
}

func (s *Server) handleBlockResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id := blockIDFromURI(uri)
	if id == "" {
		return nil, fmt.Errorf("could not extract blockId from URI: %s", uri)
	}
	b, ok := s.editor.Document().FindNested(id)
	if !ok {
		return nil, fmt.Errorf("block %s not found", id)
	}
	return jsonContents(uri, b)
}

// blockIDFromURI extracts the id from "email://blocks/{id}".
func blockIDFromURI(uri string) string {
	id, ok := strings.CutPrefix(uri, uriBlockPrefix)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
