package app

import (
	"context"
	"log/slog"

	mcpserver "emailbuilder/internal/mcp"
)

// ServeMCP runs the session as an MCP server on stdin/stdout. When
// withPreview is set the preview server runs alongside it so a browser
// follows the agent's edits live.
func (a *App) ServeMCP(ctx context.Context, version string, withPreview bool) error {
	if withPreview {
		go func() {
			if err := a.RunPreview(ctx, a.cfg.PreviewAddr); err != nil {
				slog.Error("preview server stopped", "err", err)
			}
		}()
	}

	srv := mcpserver.New(mcpserver.Deps{
		Editor:    a.Editor,
		Systems:   a.Systems,
		Templates: a.Templates,
		Exporter:  a.Exporter,
		ExportDir: a.cfg.ExportDir,
		Version:   version,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ServeStdio() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}
