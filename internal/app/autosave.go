package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// StartAutosave saves the session into the current template on schedule, a
// cron expression such as "@every 30s". An empty schedule disables autosave.
func (a *App) StartAutosave(ctx context.Context, schedule string) error {
	if schedule == "" {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cron != nil {
		return fmt.Errorf("autosave already running")
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { a.Autosave(ctx) }); err != nil {
		return fmt.Errorf("autosave schedule %q: %w", schedule, err)
	}
	c.Start()
	a.cron = c
	slog.Debug("autosave scheduled", "schedule", schedule)
	return nil
}

// StopAutosave stops the schedule and waits for a running save to finish.
func (a *App) StopAutosave() {
	a.mu.Lock()
	c := a.cron
	a.cron = nil
	a.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

// Autosave stores the document when it has unsaved changes. It reports
// whether anything was written.
func (a *App) Autosave(ctx context.Context) bool {
	if !a.Editor.Dirty() {
		return false
	}
	tpl := a.Templates.Save(ctx, "", a.Editor.Document())
	a.Editor.MarkClean()
	slog.Debug("autosaved", "template", tpl.ID)
	return true
}
