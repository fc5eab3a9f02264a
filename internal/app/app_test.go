package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emailbuilder/internal/app"
	"emailbuilder/internal/config"
	"emailbuilder/internal/domain"
	"emailbuilder/internal/storage"
)

func testConfig(t *testing.T, driver string) config.App {
	t.Helper()
	dir := t.TempDir()
	return config.App{
		DataDir:     dir,
		StoreDriver: driver,
		ExportDir:   filepath.Join(dir, "out"),
		PreviewAddr: "127.0.0.1:0",
	}
}

func newApp(t *testing.T, cfg config.App) *app.App {
	t.Helper()
	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

const sampleDoc = `{
  "name": "Spring Sale",
  "blocks": [
    {"id": "h1", "type": "heading", "level": 1, "align": "center",
     "content": {"type": "doc", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "Spring is here"}]}]}},
    {"id": "b1", "type": "button", "text": "Shop now", "url": "https://example.com", "align": "center"}
  ]
}`

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "email.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))
	return path
}

// ─────────────────────────────────────────────────────────────
// Startup
// ─────────────────────────────────────────────────────────────

func TestNew_BlankSession(t *testing.T) {
	a := newApp(t, testConfig(t, app.DriverMemory))

	doc := a.Editor.Document()
	assert.Equal(t, domain.DefaultDocumentName, doc.Name)
	assert.Empty(t, doc.Blocks)
	assert.Len(t, a.Systems.All(), 3)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := app.New(context.Background(), testConfig(t, "cassandra"))
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrUnsupportedDriver)
}

func TestNew_ResumesMostRecentTemplate(t *testing.T) {
	cfg := testConfig(t, app.DriverSQLite)
	ctx := context.Background()

	first, err := app.New(ctx, cfg)
	require.NoError(t, err)
	_, err = first.Editor.AddBlock(ctx, domain.BlockTypeDivider)
	require.NoError(t, err)
	first.Systems.SetActive(ctx, domain.PresetBoldCorporate)
	first.Templates.Save(ctx, "Resumable", first.Editor.Document())
	require.NoError(t, first.Close())

	second := newApp(t, cfg)
	doc := second.Editor.Document()
	assert.Equal(t, "Resumable", doc.Name)
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, domain.BlockTypeDivider, doc.Blocks[0].Kind())
	assert.Equal(t, domain.PresetBoldCorporate, second.Systems.ActiveID())
	assert.False(t, second.Editor.CanUndo())
	assert.False(t, second.Editor.Dirty())
}

// ─────────────────────────────────────────────────────────────
// Autosave
// ─────────────────────────────────────────────────────────────

func TestAutosave_OnlyWhenDirty(t *testing.T) {
	a := newApp(t, testConfig(t, app.DriverMemory))
	ctx := context.Background()

	assert.False(t, a.Autosave(ctx))
	assert.Empty(t, a.Templates.List())

	_, err := a.Editor.AddBlock(ctx, domain.BlockTypeText)
	require.NoError(t, err)
	assert.True(t, a.Autosave(ctx))
	assert.False(t, a.Editor.Dirty())
	require.Len(t, a.Templates.List(), 1)

	// a second save updates the same template
	a.Editor.SetName(ctx, "Renamed")
	assert.True(t, a.Autosave(ctx))
	list := a.Templates.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Renamed", list[0].Name)
}

func TestStartAutosave(t *testing.T) {
	a := newApp(t, testConfig(t, app.DriverMemory))
	ctx := context.Background()

	assert.NoError(t, a.StartAutosave(ctx, ""))
	assert.Error(t, a.StartAutosave(ctx, "every now and then"))

	require.NoError(t, a.StartAutosave(ctx, "@every 1h"))
	assert.Error(t, a.StartAutosave(ctx, "@every 1h"))
	a.StopAutosave()
	assert.NoError(t, a.StartAutosave(ctx, "@every 1h"))
}

// ─────────────────────────────────────────────────────────────
// Run modes
// ─────────────────────────────────────────────────────────────

func TestRunExport_FromFile(t *testing.T) {
	cfg := testConfig(t, app.DriverMemory)
	a := newApp(t, cfg)

	res, err := a.RunExport(context.Background(), writeDoc(t), "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.ExportDir, "spring-sale.html"), res.HTMLPath)
	html, err := os.ReadFile(res.HTMLPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Shop now")
	assert.FileExists(t, res.TemplatePath)
}

func TestRunExport_BadFile(t *testing.T) {
	a := newApp(t, testConfig(t, app.DriverMemory))
	_, err := a.RunExport(context.Background(), filepath.Join(t.TempDir(), "missing.json"), "")
	assert.Error(t, err)
}

func TestRunOutline(t *testing.T) {
	a := newApp(t, testConfig(t, app.DriverMemory))

	var buf bytes.Buffer
	require.NoError(t, a.RunOutline(context.Background(), writeDoc(t), &buf))
	out := buf.String()
	assert.Contains(t, out, "Spring Sale")
	assert.Contains(t, out, "heading")
	assert.Contains(t, out, "button")
}

func TestRunWatch_RequiresFile(t *testing.T) {
	a := newApp(t, testConfig(t, app.DriverMemory))
	assert.Error(t, a.RunWatch(context.Background(), "", ""))
}

func TestRunWatch_ExportsUntilCancelled(t *testing.T) {
	cfg := testConfig(t, app.DriverMemory)
	a := newApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunWatch(ctx, writeDoc(t), "") }()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(cfg.ExportDir, "spring-sale.tsx"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
