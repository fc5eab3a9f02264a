package mcpserver

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"emailbuilder/internal/service"
)

// Server is the MCP server for the email builder.
// It exposes the editing session as tools, resources, and prompts so an
// agent can compose, style, and export an email.
type Server struct {
	mcp *server.MCPServer

	editor    *service.Editor
	systems   *service.DesignSystems
	templates *service.Templates
	exporter  *service.Exporter
	exportDir string
}

// Deps holds the services passed from the App layer.
type Deps struct {
	Editor    *service.Editor
	Systems   *service.DesignSystems
	Templates *service.Templates
	Exporter  *service.Exporter
	ExportDir string
	Version   string
}

// New creates and configures the MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		editor:    deps.Editor,
		systems:   deps.Systems,
		templates: deps.Templates,
		exporter:  deps.Exporter,
		exportDir: deps.ExportDir,
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	s.mcp = server.NewMCPServer(
		"emailbuilder",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerBlockTools()
	s.registerDocumentTools()
	s.registerDesignSystemTools()
	s.registerTemplateTools()
	s.registerExportTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio serves MCP over stdin/stdout until stdin closes.
func (s *Server) ServeStdio() error {
	slog.Info("mcp stdio server starting")
	return server.ServeStdio(s.mcp)
}
