package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"emailbuilder/internal/render"
)

// ErrExportInProgress is returned when another export is already writing
// to the same directory.
var ErrExportInProgress = errors.New("export already in progress")

// ─────────────────────────────────────────────────────────────
// Exporter: renders the session document with the active tokens
// ─────────────────────────────────────────────────────────────

// ExportOptions configures every render the Exporter performs.
type ExportOptions struct {
	Minify   bool
	Observer render.Observer
}

// ExportResult lists the files written by WriteFiles.
type ExportResult struct {
	HTMLPath     string `json:"htmlPath"`
	TemplatePath string `json:"templatePath"`
}

type Exporter struct {
	editor  *Editor
	systems *DesignSystems
	opts    ExportOptions
	locks   ExportLocks
}

func NewExporter(editor *Editor, systems *DesignSystems, opts ExportOptions) *Exporter {
	return &Exporter{editor: editor, systems: systems, opts: opts}
}

func (x *Exporter) renderOptions(extra ...render.Option) []render.Option {
	var out []render.Option
	if x.opts.Minify {
		out = append(out, render.WithMinify())
	}
	if x.opts.Observer != nil {
		out = append(out, render.WithObserver(x.opts.Observer))
	}
	return append(out, extra...)
}

// HTML renders the current document as a standalone HTML page.
func (x *Exporter) HTML(ctx context.Context, viewport render.Viewport) (string, error) {
	doc := x.editor.Document()
	tokens := x.systems.TokensFor(doc.DesignSystemID)
	return render.RenderHTML(ctx, doc, tokens, x.renderOptions(render.WithViewport(viewport))...)
}

// Template renders the current document as React Email source.
func (x *Exporter) Template(ctx context.Context) (string, error) {
	doc := x.editor.Document()
	tokens := x.systems.TokensFor(doc.DesignSystemID)
	return render.RenderTemplate(ctx, doc, tokens, x.renderOptions()...)
}

// WriteFiles renders both formats and writes <slug>.html and <slug>.tsx
// into dir. Nothing is written unless both renders succeed.
func (x *Exporter) WriteFiles(ctx context.Context, dir string) (ExportResult, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ExportResult{}, fmt.Errorf("export: %w", err)
	}
	release, ok := x.locks.Acquire(abs)
	if !ok {
		return ExportResult{}, fmt.Errorf("export %s: %w", abs, ErrExportInProgress)
	}
	defer release()

	doc := x.editor.Document()
	tokens := x.systems.TokensFor(doc.DesignSystemID)

	htmlOut, err := render.RenderHTML(ctx, doc, tokens, x.renderOptions()...)
	if err != nil {
		return ExportResult{}, fmt.Errorf("export html: %w", err)
	}
	tsxOut, err := render.RenderTemplate(ctx, doc, tokens, x.renderOptions()...)
	if err != nil {
		return ExportResult{}, fmt.Errorf("export template: %w", err)
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return ExportResult{}, fmt.Errorf("create export directory: %w", err)
	}
	res := ExportResult{
		HTMLPath:     filepath.Join(abs, render.ExportFilename(doc.Name, "html")),
		TemplatePath: filepath.Join(abs, render.ExportFilename(doc.Name, "tsx")),
	}
	if err := os.WriteFile(res.HTMLPath, []byte(htmlOut), 0644); err != nil {
		return ExportResult{}, fmt.Errorf("write html: %w", err)
	}
	if err := os.WriteFile(res.TemplatePath, []byte(tsxOut), 0644); err != nil {
		return ExportResult{}, fmt.Errorf("write template: %w", err)
	}
	slog.Info("exported", "html", res.HTMLPath, "template", res.TemplatePath)
	return res, nil
}

// Wait blocks until in-flight exports finish or ctx is done.
func (x *Exporter) Wait(ctx context.Context) error {
	return x.locks.Wait(ctx)
}
