package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"emailbuilder/internal/domain"
	"emailbuilder/internal/preview"
	"emailbuilder/internal/render"
	"emailbuilder/internal/service"
	"emailbuilder/internal/watch"
)

// LoadDocument replaces the session document with the JSON file at path.
func (a *App) LoadDocument(ctx context.Context, path string) error {
	doc, err := watch.LoadFile(path)
	if err != nil {
		return err
	}
	a.Editor.Load(ctx, doc)
	return nil
}

// RunExport writes <name>.html and <name>.tsx into dir. A non-empty docPath
// is loaded first; otherwise the resumed session document is exported.
func (a *App) RunExport(ctx context.Context, docPath, dir string) (service.ExportResult, error) {
	if docPath != "" {
		if err := a.LoadDocument(ctx, docPath); err != nil {
			return service.ExportResult{}, err
		}
	}
	return a.Exporter.WriteFiles(ctx, a.exportDir(dir))
}

// RunWatch exports docPath now and again after every change until ctx is
// cancelled.
func (a *App) RunWatch(ctx context.Context, docPath, dir string) error {
	if docPath == "" {
		return fmt.Errorf("watch: a document file is required")
	}
	dir = a.exportDir(dir)

	w, err := watch.New(ctx, func(ctx context.Context, path string, doc domain.Document) error {
		a.Editor.Load(ctx, doc)
		res, err := a.Exporter.WriteFiles(ctx, dir)
		if err != nil {
			return err
		}
		slog.Info("exported", "source", path, "html", res.HTMLPath, "template", res.TemplatePath)
		return nil
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.WatchFile(docPath); err != nil {
		return err
	}
	if err := w.Reload(docPath); err != nil {
		return err
	}
	slog.Info("watching", "file", docPath, "dir", dir)

	<-w.Done()
	return nil
}

// RunPreview serves the live preview on addr until ctx is cancelled.
func (a *App) RunPreview(ctx context.Context, addr string) error {
	if addr == "" {
		addr = a.cfg.PreviewAddr
	}
	srv := preview.New(preview.Deps{
		Editor:   a.Editor,
		Exporter: a.Exporter,
		Hub:      a.hub,
		Metrics:  a.metrics,
	})
	return srv.ListenAndServe(ctx, addr)
}

// RunOutline prints the block tree of docPath, or of the session document
// when docPath is empty.
func (a *App) RunOutline(ctx context.Context, docPath string, w io.Writer) error {
	if docPath != "" {
		if err := a.LoadDocument(ctx, docPath); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, render.Outline(a.Editor.Document()))
	return err
}

func (a *App) exportDir(dir string) string {
	if dir != "" {
		return dir
	}
	return a.cfg.ExportDir
}
