// Package app wires configuration, storage, and services into one editing
// session and exposes the run modes the CLI dispatches to.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"emailbuilder/internal/config"
	"emailbuilder/internal/dbclient"
	"emailbuilder/internal/domain"
	"emailbuilder/internal/preview"
	"emailbuilder/internal/service"
	"emailbuilder/internal/storage"
)

// Store drivers handled locally; everything else goes through dbclient.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

const exportDrainTimeout = 10 * time.Second

// App is the session context: one document, the design systems, and the
// saved templates, all backed by the configured store.
type App struct {
	cfg config.App

	kv     domain.KVStore
	closer io.Closer

	Editor    *service.Editor
	Systems   *service.DesignSystems
	Templates *service.Templates
	Exporter  *service.Exporter

	hub     *preview.Hub
	metrics *preview.Metrics

	mu   sync.Mutex
	cron *cron.Cron
}

// New opens the store named by cfg, builds the services, and resumes the
// most recent template so a restarted session picks up where it stopped.
func New(ctx context.Context, cfg config.App) (*App, error) {
	cfg.ResolveDataDir()

	kv, closer, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, kv: kv, closer: closer}
	a.metrics = preview.NewMetrics()
	a.hub = preview.NewHub(a.metrics)
	emitter := service.MultiEmitter{a.hub}

	session := storage.NewSessionStore(kv)
	a.Editor = service.NewEditor(emitter)
	a.Systems = service.NewDesignSystems(storage.NewDesignSystemStore(kv), session, emitter)
	a.Templates = service.NewTemplates(storage.NewTemplateStore(kv), session, emitter)
	a.Exporter = service.NewExporter(a.Editor, a.Systems, service.ExportOptions{
		Minify:   cfg.MinifyHTML,
		Observer: a.metrics,
	})

	a.restore(ctx)
	return a, nil
}

// Config returns the resolved configuration.
func (a *App) Config() config.App {
	return a.cfg
}

// Close stops autosave, waits for running exports, and closes the store.
func (a *App) Close() error {
	a.StopAutosave()
	ctx, cancel := context.WithTimeout(context.Background(), exportDrainTimeout)
	defer cancel()
	a.Exporter.Wait(ctx)
	a.hub.Close()
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func (a *App) restore(ctx context.Context) {
	tpl, ok := a.Templates.MostRecent()
	if !ok {
		return
	}
	doc, ok := a.Templates.Load(ctx, tpl.ID)
	if !ok {
		return
	}
	a.Editor.Load(ctx, doc)
	slog.Info("resumed template", "id", tpl.ID, "name", tpl.Name)
}

func openStore(ctx context.Context, cfg config.App) (domain.KVStore, io.Closer, error) {
	switch cfg.StoreDriver {
	case "", DriverSQLite:
		db, err := storage.New(cfg.DBPath(), cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return db.KV(), db, nil
	case DriverMemory:
		return storage.NewMemoryKV(), nil, nil
	default:
		store, err := dbclient.Open(ctx, cfg.StoreDriver, dbclient.Options{
			DSN:      cfg.StoreDSN,
			Database: cfg.StoreDatabase,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
		}
		return store, store, nil
	}
}
