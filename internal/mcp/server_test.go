package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emailbuilder/internal/domain"
	"emailbuilder/internal/render"
	"emailbuilder/internal/service"
	"emailbuilder/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	kv := storage.NewMemoryKV()
	sess := storage.NewSessionStore(kv)
	editor := service.NewEditor(service.NoopEmitter{})
	systems := service.NewDesignSystems(storage.NewDesignSystemStore(kv), sess, service.NoopEmitter{})
	return New(Deps{
		Editor:    editor,
		Systems:   systems,
		Templates: service.NewTemplates(storage.NewTemplateStore(kv), sess, service.NoopEmitter{}),
		Exporter:  service.NewExporter(editor, systems, service.ExportOptions{}),
		ExportDir: t.TempDir(),
	})
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func addViaTool(t *testing.T, s *Server, typ domain.BlockType) string {
	t.Helper()
	res, err := s.handleAddBlock(context.Background(), call(map[string]any{"type": string(typ)}))
	require.NoError(t, err)
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

// ─────────────────────────────────────────────────────────────
// Block tools
// ─────────────────────────────────────────────────────────────

func TestAddBlock_SelectsNewBlock(t *testing.T) {
	s := newTestServer(t)
	id := addViaTool(t, s, domain.BlockTypeButton)

	assert.Equal(t, id, s.editor.SelectedID())
	assert.Len(t, s.editor.Document().Blocks, 1)
}

func TestAddBlock_UnknownType(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleAddBlock(context.Background(), call(map[string]any{"type": "carousel"}))
	assert.Error(t, err)

	_, err = s.handleAddBlock(context.Background(), call(map[string]any{}))
	assert.Error(t, err)
}

func TestUpdateBlock_PatchAsStringOrObject(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	id := addViaTool(t, s, domain.BlockTypeButton)

	_, err := s.handleUpdateBlock(ctx, call(map[string]any{
		"blockId": id,
		"patch":   `{"text":"Buy now","backgroundColor":"#ff0000"}`,
	}))
	require.NoError(t, err)

	b, _ := s.editor.Document().FindBlock(id)
	btn := b.(domain.ButtonBlock)
	assert.Equal(t, "Buy now", btn.Text)
	require.NotNil(t, btn.BackgroundColor)
	assert.Equal(t, "#ff0000", *btn.BackgroundColor)

	_, err = s.handleUpdateBlock(ctx, call(map[string]any{
		"blockId": id,
		"patch":   map[string]any{"backgroundColor": nil},
	}))
	require.NoError(t, err)
	b, _ = s.editor.Document().FindBlock(id)
	assert.Nil(t, b.(domain.ButtonBlock).BackgroundColor)

	// add + two committed updates
	assert.True(t, s.editor.Undo(ctx))
	b, _ = s.editor.Document().FindBlock(id)
	assert.Equal(t, "#ff0000", *b.(domain.ButtonBlock).BackgroundColor)
}

func TestUpdateBlock_WithoutCommitSkipsHistory(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	id := addViaTool(t, s, domain.BlockTypeSpacer)

	_, err := s.handleUpdateBlock(ctx, call(map[string]any{
		"blockId": id,
		"patch":   map[string]any{"height": float64(48)},
		"commit":  false,
	}))
	require.NoError(t, err)

	// the only history entry is the add
	require.True(t, s.editor.Undo(ctx))
	assert.Empty(t, s.editor.Document().Blocks)
	assert.False(t, s.editor.CanUndo())
}

func TestUpdateBlock_UnknownID(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleUpdateBlock(context.Background(), call(map[string]any{
		"blockId": "nope",
		"patch":   map[string]any{"text": "x"},
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "nothing changed")
}

func TestUpdateBlock_BadPatch(t *testing.T) {
	s := newTestServer(t)
	id := addViaTool(t, s, domain.BlockTypeText)
	_, err := s.handleUpdateBlock(context.Background(), call(map[string]any{"blockId": id, "patch": "{not json"}))
	assert.Error(t, err)
}

func TestMoveAndDeleteBlock(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	a := addViaTool(t, s, domain.BlockTypeHeading)
	b := addViaTool(t, s, domain.BlockTypeText)

	_, err := s.handleMoveBlock(ctx, call(map[string]any{"blockId": b, "direction": "up"}))
	require.NoError(t, err)
	doc := s.editor.Document()
	assert.Equal(t, b, doc.Blocks[0].BlockID())
	assert.Equal(t, a, doc.Blocks[1].BlockID())

	_, err = s.handleMoveBlock(ctx, call(map[string]any{"blockId": b, "direction": "sideways"}))
	assert.Error(t, err)

	res, err := s.handleDeleteBlock(ctx, call(map[string]any{"blockId": b}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "Deleted")
	assert.Len(t, s.editor.Document().Blocks, 1)
}

func TestSelectBlock(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	id := addViaTool(t, s, domain.BlockTypeDivider)

	res, err := s.handleSelectBlock(ctx, call(map[string]any{"blockId": ""}))
	require.NoError(t, err)
	assert.Equal(t, "Selection cleared.", resultText(t, res))

	_, err = s.handleSelectBlock(ctx, call(map[string]any{"blockId": id}))
	require.NoError(t, err)
	assert.Equal(t, id, s.editor.SelectedID())
}

// ─────────────────────────────────────────────────────────────
// Document tools
// ─────────────────────────────────────────────────────────────

func TestUpdateSettings_PartialPatch(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleUpdateSettings(ctx, call(map[string]any{"contentWidth": float64(640)}))
	require.NoError(t, err)
	settings := s.editor.Document().Settings
	assert.Equal(t, 640, settings.ContentWidth)
	assert.Equal(t, "#f3f4f6", settings.BackgroundColor)

	_, err = s.handleUpdateSettings(ctx, call(map[string]any{"contentWidth": float64(0)}))
	assert.Error(t, err)
}

func TestUpdateSettings_DesignSystemID(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	addViaTool(t, s, domain.BlockTypeButton)

	res, err := s.handleUpdateSettings(ctx, call(map[string]any{"designSystemId": domain.PresetBoldCorporate}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), `"designSystemId":"`+domain.PresetBoldCorporate+`"`)
	assert.Equal(t, domain.PresetBoldCorporate, s.editor.Document().DesignSystemID)

	html, err := s.exporter.HTML(ctx, render.Desktop)
	require.NoError(t, err)
	assert.Contains(t, html, "#2563eb")

	_, err = s.handleUpdateSettings(ctx, call(map[string]any{"designSystemId": "nope"}))
	assert.Error(t, err)
	assert.Equal(t, domain.PresetBoldCorporate, s.editor.Document().DesignSystemID)

	_, err = s.handleUpdateSettings(ctx, call(map[string]any{"designSystemId": ""}))
	require.NoError(t, err)
	assert.Empty(t, s.editor.Document().DesignSystemID)
}

func TestUndoRedo_NothingToDo(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleUndo(ctx, call(nil))
	require.NoError(t, err)
	assert.Equal(t, "Nothing to undo.", resultText(t, res))

	res, err = s.handleRedo(ctx, call(nil))
	require.NoError(t, err)
	assert.Equal(t, "Nothing to redo.", resultText(t, res))
}

func TestDocumentOutline(t *testing.T) {
	s := newTestServer(t)
	addViaTool(t, s, domain.BlockTypeColumns)

	res, err := s.handleDocumentOutline(context.Background(), call(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "columns")
}

func TestNewDocument_ClearsCurrentTemplate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	addViaTool(t, s, domain.BlockTypeText)
	_, err := s.handleSaveTemplate(ctx, call(map[string]any{"name": "Welcome"}))
	require.NoError(t, err)

	_, err = s.handleNewDocument(ctx, call(nil))
	require.NoError(t, err)

	assert.Empty(t, s.editor.Document().Blocks)
	_, ok := s.templates.Current()
	assert.False(t, ok)
}

// ─────────────────────────────────────────────────────────────
// Design system tools
// ─────────────────────────────────────────────────────────────

func TestCreateDesignSystem_BasedOnPresetWithPatch(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleCreateDesignSystem(ctx, call(map[string]any{
		"name":    "Acme",
		"basedOn": domain.PresetBoldCorporate,
		"tokens":  `{"button":{"borderRadius":12}}`,
	}))
	require.NoError(t, err)

	var ds domain.DesignSystem
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &ds))
	assert.Equal(t, "Acme", ds.Name)
	assert.Equal(t, 12, ds.Tokens.Button.BorderRadius)
	assert.Equal(t, "#2563eb", ds.Tokens.Button.BackgroundColor)
}

func TestCreateDesignSystem_BadTokens(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleCreateDesignSystem(context.Background(), call(map[string]any{
		"name":   "Acme",
		"tokens": `{"button":"red"}`,
	}))
	assert.Error(t, err)
}

func TestUpdateDesignSystem_RejectsInvalidTokenValues(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	ds := s.systems.Create(ctx, "Acme", domain.DefaultTokens())

	_, err := s.handleUpdateDesignSystem(ctx, call(map[string]any{
		"id":     ds.ID,
		"tokens": `{"divider":{"style":"wavy"}}`,
	}))
	assert.ErrorIs(t, err, domain.ErrInvalidTokens)

	_, err = s.handleUpdateDesignSystem(ctx, call(map[string]any{
		"id":     ds.ID,
		"tokens": `{"divider":{"pattern":"zigzag"}}`,
	}))
	assert.ErrorIs(t, err, domain.ErrInvalidTokens)

	got, ok := s.systems.Get(ds.ID)
	require.True(t, ok)
	assert.Equal(t, domain.DividerSolid, got.Tokens.Divider.Style)
}

func TestUpdateDesignSystem_PresetIsReadOnly(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleUpdateDesignSystem(context.Background(), call(map[string]any{
		"id":   domain.PresetModernMinimal,
		"name": "Mine",
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "nothing changed")
}

func TestListDesignSystems_MarksActive(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	_, err := s.handleSetActiveDesignSystem(ctx, call(map[string]any{"id": domain.PresetWarmFriendly}))
	require.NoError(t, err)

	res, err := s.handleListDesignSystems(ctx, call(nil))
	require.NoError(t, err)
	var list []designSystemSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &list))
	require.Len(t, list, 3)
	for _, ds := range list {
		assert.True(t, ds.Preset)
		assert.Equal(t, ds.ID == domain.PresetWarmFriendly, ds.Active)
	}
}

func TestSetActiveDesignSystem_Unknown(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleSetActiveDesignSystem(context.Background(), call(map[string]any{"id": "ghost"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "unchanged")
	assert.Empty(t, s.systems.ActiveID())
}

func TestResolveBlockStyles(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.systems.SetActive(ctx, domain.PresetBoldCorporate)
	id := addViaTool(t, s, domain.BlockTypeHeading)

	res, err := s.handleResolveBlockStyles(ctx, call(map[string]any{"blockId": id}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "#1e3a8a")
}

func TestBrandKit_ExportThenImport(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleExportBrandKit(ctx, call(map[string]any{"id": domain.PresetWarmFriendly}))
	require.NoError(t, err)
	kit := resultText(t, res)
	assert.Contains(t, kit, "name: Warm & Friendly")

	path := filepath.Join(t.TempDir(), "kit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(kit), 0o644))
	res, err = s.handleImportBrandKit(ctx, call(map[string]any{"path": path}))
	require.NoError(t, err)

	require.Len(t, s.systems.User(), 1)
	warm, _ := domain.FindPreset(domain.PresetWarmFriendly)
	assert.Equal(t, warm.Tokens, s.systems.User()[0].Tokens)
	assert.Contains(t, resultText(t, res), s.systems.User()[0].ID)
}

func TestExportBrandKit_NoActiveSystem(t *testing.T) {
	s := newTestServer(t)
	_, err := s.handleExportBrandKit(context.Background(), call(nil))
	assert.Error(t, err)
}

// ─────────────────────────────────────────────────────────────
// Template tools
// ─────────────────────────────────────────────────────────────

func TestTemplates_SaveListLoad(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	addViaTool(t, s, domain.BlockTypeHeading)

	_, err := s.handleSaveTemplate(ctx, call(map[string]any{"name": "Launch"}))
	require.NoError(t, err)
	assert.False(t, s.editor.Dirty())

	_, err = s.handleSaveTemplate(ctx, call(map[string]any{"name": "Launch v2", "saveAs": true}))
	require.NoError(t, err)

	res, err := s.handleListTemplates(ctx, call(nil))
	require.NoError(t, err)
	var list []templateSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &list))
	require.Len(t, list, 2)

	first := list[0].ID
	if list[0].Name != "Launch" {
		first = list[1].ID
	}
	s.editor.Reset(ctx)
	_, err = s.handleLoadTemplate(ctx, call(map[string]any{"id": first}))
	require.NoError(t, err)
	assert.Len(t, s.editor.Document().Blocks, 1)
	assert.False(t, s.editor.CanUndo())

	res, err = s.handleLoadTemplate(ctx, call(map[string]any{"id": "missing"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "No template")
}

func TestDeleteTemplate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	saved := s.templates.Save(ctx, "Gone", s.editor.Document())

	res, err := s.handleDeleteTemplate(ctx, call(map[string]any{"id": saved.ID}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "Deleted")
	assert.Empty(t, s.templates.List())
}

// ─────────────────────────────────────────────────────────────
// Export tools
// ─────────────────────────────────────────────────────────────

func TestRenderHTML(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	addViaTool(t, s, domain.BlockTypeButton)

	res, err := s.handleRenderHTML(ctx, call(map[string]any{"viewport": "mobile"}))
	require.NoError(t, err)
	assert.True(t, strings.Contains(resultText(t, res), "<html"))

	_, err = s.handleRenderHTML(ctx, call(map[string]any{"viewport": "tablet"}))
	assert.Error(t, err)
}

func TestRenderTemplate(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleRenderTemplate(context.Background(), call(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "@react-email/components")
}

func TestExportFiles_DefaultDir(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.editor.SetName(ctx, "Spring Sale")

	res, err := s.handleExportFiles(ctx, call(nil))
	require.NoError(t, err)

	var out service.ExportResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, s.exportDir, filepath.Dir(out.HTMLPath))
	assert.FileExists(t, out.HTMLPath)
	assert.FileExists(t, out.TemplatePath)
}

// ─────────────────────────────────────────────────────────────
// Resources and prompts
// ─────────────────────────────────────────────────────────────

func TestBlockIDFromURI(t *testing.T) {
	assert.Equal(t, "abc-123", blockIDFromURI("email://blocks/abc-123"))
	assert.Empty(t, blockIDFromURI("email://blocks/"))
	assert.Empty(t, blockIDFromURI("email://blocks/a/b"))
	assert.Empty(t, blockIDFromURI("notes://page/x"))
}

func TestBlockResource(t *testing.T) {
	s := newTestServer(t)
	id := addViaTool(t, s, domain.BlockTypeFooter)

	var req mcp.ReadResourceRequest
	req.Params.URI = uriBlockPrefix + id
	contents, err := s.handleBlockResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text := contents[0].(mcp.TextResourceContents).Text
	assert.Contains(t, text, `"type": "footer"`)

	req.Params.URI = uriBlockPrefix + "missing"
	_, err = s.handleBlockResource(context.Background(), req)
	assert.Error(t, err)
}

func TestComposeEmailPrompt(t *testing.T) {
	s := newTestServer(t)
	var req mcp.GetPromptRequest
	req.Params.Arguments = map[string]string{"purpose": "product launch"}

	res, err := s.handleComposeEmailPrompt(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	text := res.Messages[0].Content.(mcp.TextContent).Text
	assert.Contains(t, text, "product launch")
	assert.Contains(t, text, "the brand")
}
