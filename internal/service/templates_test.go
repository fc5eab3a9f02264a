package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emailbuilder/internal/domain"
	"emailbuilder/internal/service"
)

func TestTemplates_SaveUpdatesCurrent(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	addBlock(t, s.editor, domain.BlockTypeHeading)

	first := s.templates.Save(ctx, "Welcome", s.editor.Document())
	addBlock(t, s.editor, domain.BlockTypeButton)
	second := s.templates.Save(ctx, "Welcome v2", s.editor.Document())

	assert.Equal(t, first.ID, second.ID)
	list := s.templates.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Welcome v2", list[0].Name)
	assert.Equal(t, "Welcome v2", list[0].Document.Name)
	assert.Len(t, list[0].Document.Blocks, 2)
	assert.Equal(t, first.CreatedAt, list[0].CreatedAt)
}

func TestTemplates_SaveAsCreatesCopy(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()

	a := s.templates.Save(ctx, "A", s.editor.Document())
	b := s.templates.SaveAs(ctx, "B", s.editor.Document())

	assert.NotEqual(t, a.ID, b.ID)
	cur, ok := s.templates.Current()
	require.True(t, ok)
	assert.Equal(t, b.ID, cur.ID)
	assert.Len(t, s.templates.List(), 2)
}

func TestTemplates_EmptyNameFallsBack(t *testing.T) {
	s := newSession(t)
	tpl := s.templates.Save(context.Background(), "  ", s.editor.Document())
	assert.Equal(t, domain.DefaultDocumentName, tpl.Name)
}

func TestTemplates_ListMostRecentFirst(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()

	older := s.templates.SaveAs(ctx, "older", s.editor.Document())
	time.Sleep(2 * time.Millisecond)
	newer := s.templates.SaveAs(ctx, "newer", s.editor.Document())

	list := s.templates.List()
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestTemplates_LoadIntoEditor(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	addBlock(t, s.editor, domain.BlockTypeFooter)
	saved := s.templates.Save(ctx, "Footer only", s.editor.Document())

	s.editor.Reset(ctx)
	s.templates.New(ctx)
	_, ok := s.templates.Current()
	require.False(t, ok)

	doc, ok := s.templates.Load(ctx, saved.ID)
	require.True(t, ok)
	s.editor.Load(ctx, doc)

	assert.Equal(t, "Footer only", s.editor.Document().Name)
	assert.Len(t, s.editor.Document().Blocks, 1)
	cur, _ := s.templates.Current()
	assert.Equal(t, saved.ID, cur.ID)

	_, ok = s.templates.Load(ctx, "missing")
	assert.False(t, ok)
}

func TestTemplates_DeleteClearsCurrent(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	tpl := s.templates.Save(ctx, "Gone", s.editor.Document())

	require.True(t, s.templates.Delete(ctx, tpl.ID))
	_, ok := s.templates.Current()
	assert.False(t, ok)
	assert.Empty(t, s.templates.List())
	assert.False(t, s.templates.Delete(ctx, tpl.ID))

	next := s.templates.Save(ctx, "Fresh", s.editor.Document())
	assert.NotEqual(t, tpl.ID, next.ID)
	assert.Equal(t, 3, s.emitter.Count(service.EventTemplatesChanged))
}

func TestTemplates_MostRecentResumesSession(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	a := s.templates.SaveAs(ctx, "A", s.editor.Document())
	time.Sleep(2 * time.Millisecond)
	s.templates.SaveAs(ctx, "B", s.editor.Document())
	_, ok := s.templates.Load(ctx, a.ID)
	require.True(t, ok)

	reopened := newSessionOn(t, s.kv)
	got, ok := reopened.templates.MostRecent()
	require.True(t, ok)
	assert.Equal(t, a.ID, got.ID, "the remembered template wins over the newest")

	reopened.templates.New(ctx)
	got, ok = reopened.templates.MostRecent()
	require.True(t, ok)
	assert.Equal(t, "B", got.Name)
}

func TestTemplates_CorruptStoreStartsEmpty(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.kv.Set(domain.KeyTemplates, `[{"id":1}`))

	reopened := newSessionOn(t, s.kv)
	assert.Empty(t, reopened.templates.List())
	_, ok := reopened.templates.MostRecent()
	assert.False(t, ok)
}
