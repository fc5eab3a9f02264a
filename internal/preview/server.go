// Package preview serves the email being edited over HTTP with live reload,
// so a browser shows every change an agent makes.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"emailbuilder/internal/render"
	"emailbuilder/internal/service"
)

// reloadScript reconnects after restarts and reloads on any document,
// selection, or design-system change.
const reloadScript = `<script>
(function(){
  function connect(){
    var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
    ws.onmessage = function(){ location.reload(); };
    ws.onclose = function(){ setTimeout(connect, 1000); };
  }
  connect();
})();
</script>`

// Deps holds the services the preview reads from.
type Deps struct {
	Editor   *service.Editor
	Exporter *service.Exporter
	Hub      *Hub
	Metrics  *Metrics
}

type Server struct {
	editor   *service.Editor
	exporter *service.Exporter
	hub      *Hub
	metrics  *Metrics
	router   chi.Router
}

func New(deps Deps) *Server {
	s := &Server{
		editor:   deps.Editor,
		exporter: deps.Exporter,
		hub:      deps.Hub,
		metrics:  deps.Metrics,
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.hub == nil {
		s.hub = NewHub(s.metrics)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHTML)
	r.Get("/template.tsx", s.handleTemplate)
	r.Get("/document.json", s.handleDocument)
	r.Get("/ws", s.hub.ServeWS)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("preview server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.hub.Close()
	return srv.Shutdown(shutdownCtx)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	viewport := render.Viewport(r.URL.Query().Get("viewport"))
	if viewport != render.Mobile {
		viewport = render.Desktop
	}
	out, err := s.exporter.HTML(r.Context(), viewport)
	if err != nil {
		slog.Error("preview: render html", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(injectReload(out)))
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	out, err := s.exporter.Template(r.Context())
	if err != nil {
		slog.Error("preview: render template", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(out))
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.editor.Document()); err != nil {
		slog.Warn("preview: encode document", "err", err)
	}
}

func injectReload(page string) string {
	if i := strings.LastIndex(page, "</body>"); i >= 0 {
		return page[:i] + reloadScript + page[i:]
	}
	return page + reloadScript
}
