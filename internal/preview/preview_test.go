package preview_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emailbuilder/internal/domain"
	"emailbuilder/internal/preview"
	"emailbuilder/internal/service"
	"emailbuilder/internal/storage"
)

type fixture struct {
	editor *service.Editor
	hub    *preview.Hub
	srv    *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	metrics := preview.NewMetrics()
	hub := preview.NewHub(metrics)
	kv := storage.NewMemoryKV()

	editor := service.NewEditor(hub)
	systems := service.NewDesignSystems(storage.NewDesignSystemStore(kv), storage.NewSessionStore(kv), hub)
	exporter := service.NewExporter(editor, systems, service.ExportOptions{Observer: metrics})

	srv := httptest.NewServer(preview.New(preview.Deps{
		Editor:   editor,
		Exporter: exporter,
		Hub:      hub,
		Metrics:  metrics,
	}).Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return &fixture{editor: editor, hub: hub, srv: srv}
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// ─────────────────────────────────────────────────────────────
// HTTP routes
// ─────────────────────────────────────────────────────────────

func TestIndex_ServesRenderedHTML(t *testing.T) {
	f := newFixture(t)
	_, err := f.editor.AddBlock(context.Background(), domain.BlockTypeButton)
	require.NoError(t, err)

	resp, body := get(t, f.srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "new WebSocket")
	assert.Less(t, strings.Index(body, "new WebSocket"), strings.LastIndex(body, "</body>"))
}

func TestTemplateAndDocumentRoutes(t *testing.T) {
	f := newFixture(t)
	f.editor.SetName(context.Background(), "Weekly Digest")

	resp, body := get(t, f.srv.URL+"/template.tsx")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "@react-email/components")

	resp, body = get(t, f.srv.URL+"/document.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var doc domain.Document
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, "Weekly Digest", doc.Name)
}

func TestMetrics_CountRenders(t *testing.T) {
	f := newFixture(t)
	get(t, f.srv.URL+"/")
	get(t, f.srv.URL+"/template.tsx")

	resp, body := get(t, f.srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `emailbuilder_renders_total{format="html",result="ok"} 1`)
	assert.Contains(t, body, `emailbuilder_renders_total{format="template",result="ok"} 1`)
	assert.Contains(t, body, "emailbuilder_render_duration_seconds_bucket")
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)
	resp, _ := get(t, f.srv.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ─────────────────────────────────────────────────────────────
// Live reload
// ─────────────────────────────────────────────────────────────

func TestHub_BroadcastsDocumentChanges(t *testing.T) {
	f := newFixture(t)
	wsURL := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return f.hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	f.editor.SetName(context.Background(), "Changed")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg struct {
		Event string `json:"event"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, service.EventDocumentChanged, msg.Event)
}

func TestHub_SelectionCarriesID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b, err := f.editor.AddBlock(ctx, domain.BlockTypeText)
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return f.hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	f.editor.Select(ctx, "")
	f.editor.Select(ctx, b.BlockID())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var last struct {
		Event string `json:"event"`
		ID    string `json:"id"`
	}
	for i := 0; i < 2; i++ {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &last))
	}
	assert.Equal(t, service.EventSelectionChanged, last.Event)
	assert.Equal(t, b.BlockID(), last.ID)
}

func TestHub_EmitWithoutClients(t *testing.T) {
	hub := preview.NewHub(nil)
	assert.NotPanics(t, func() {
		hub.Emit(context.Background(), service.EventTemplatesChanged, nil)
	})
	assert.Zero(t, hub.Clients())
}
