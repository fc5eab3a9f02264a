package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"emailbuilder/internal/domain"
	"emailbuilder/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Templates: named, saved documents
// ─────────────────────────────────────────────────────────────

// Templates stores named documents and remembers which one the session is
// editing, so a plain Save overwrites it instead of creating a copy.
type Templates struct {
	mu        sync.Mutex
	list      []domain.SavedTemplate
	currentID string

	store   *storage.TemplateStore
	session *storage.SessionStore
	emitter EventEmitter
	newID   func() string
	now     func() time.Time
}

func NewTemplates(store *storage.TemplateStore, session *storage.SessionStore, emitter EventEmitter) *Templates {
	if emitter == nil {
		emitter = NoopEmitter{}
	}
	t := &Templates{
		list:    store.Load(),
		store:   store,
		session: session,
		emitter: emitter,
		newID:   uuid.NewString,
		now:     time.Now,
	}
	if id := session.Load().CurrentTemplateID; id != "" && t.indexLocked(id) >= 0 {
		t.currentID = id
	}
	return t
}

// List returns the saved templates, most recently updated first.
func (t *Templates) List() []domain.SavedTemplate {
	t.mu.Lock()
	out := make([]domain.SavedTemplate, len(t.list))
	for i, tpl := range t.list {
		tpl.Document = tpl.Document.Clone()
		out[i] = tpl
	}
	t.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt > out[j].UpdatedAt })
	return out
}

// Current returns the template being edited, if any.
func (t *Templates) Current() (domain.SavedTemplate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexLocked(t.currentID)
	if i < 0 {
		return domain.SavedTemplate{}, false
	}
	tpl := t.list[i]
	tpl.Document = tpl.Document.Clone()
	return tpl, true
}

// Save overwrites the current template, or creates one when the session
// isn't editing a saved template yet. The stored document takes name.
func (t *Templates) Save(ctx context.Context, name string, doc domain.Document) domain.SavedTemplate {
	t.mu.Lock()
	i := t.indexLocked(t.currentID)
	if i < 0 {
		tpl := t.createLocked(name, doc)
		t.mu.Unlock()
		t.afterCreate(ctx, tpl.ID)
		return tpl
	}
	tpl := t.list[i]
	tpl.Name = templateName(name, doc)
	tpl.Document = doc.Clone()
	tpl.Document.Name = tpl.Name
	tpl.UpdatedAt = t.now().UnixMilli()
	t.list[i] = tpl
	t.persistLocked()
	t.mu.Unlock()

	t.emitter.Emit(ctx, EventTemplatesChanged, tpl.ID)
	return tpl
}

// SaveAs always creates a new template and makes it current.
func (t *Templates) SaveAs(ctx context.Context, name string, doc domain.Document) domain.SavedTemplate {
	t.mu.Lock()
	tpl := t.createLocked(name, doc)
	t.mu.Unlock()
	t.afterCreate(ctx, tpl.ID)
	return tpl
}

func (t *Templates) createLocked(name string, doc domain.Document) domain.SavedTemplate {
	now := t.now().UnixMilli()
	tpl := domain.SavedTemplate{
		ID:        t.newID(),
		Name:      templateName(name, doc),
		Document:  doc.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	tpl.Document.Name = tpl.Name
	t.list = append(t.list, tpl)
	t.currentID = tpl.ID
	t.persistLocked()
	return tpl
}

func (t *Templates) afterCreate(ctx context.Context, id string) {
	t.persistCurrent(id)
	t.emitter.Emit(ctx, EventTemplatesChanged, id)
}

// Load makes a template current and returns a copy of its document.
func (t *Templates) Load(ctx context.Context, id string) (domain.Document, bool) {
	t.mu.Lock()
	i := t.indexLocked(id)
	if i < 0 {
		t.mu.Unlock()
		slog.Warn("load template: not found", "id", id)
		return domain.Document{}, false
	}
	doc := t.list[i].Document.Clone()
	t.currentID = id
	t.mu.Unlock()

	t.persistCurrent(id)
	return doc, true
}

// Delete removes a template. Deleting the current one detaches the
// session from it.
func (t *Templates) Delete(ctx context.Context, id string) bool {
	t.mu.Lock()
	i := t.indexLocked(id)
	if i < 0 {
		t.mu.Unlock()
		slog.Warn("delete template: not found", "id", id)
		return false
	}
	t.list = append(t.list[:i:i], t.list[i+1:]...)
	t.persistLocked()
	cleared := t.currentID == id
	if cleared {
		t.currentID = ""
	}
	t.mu.Unlock()

	if cleared {
		t.persistCurrent("")
	}
	t.emitter.Emit(ctx, EventTemplatesChanged, id)
	return true
}

// New detaches the session from any saved template.
func (t *Templates) New(ctx context.Context) {
	t.mu.Lock()
	t.currentID = ""
	t.mu.Unlock()
	t.persistCurrent("")
}

// MostRecent returns the template to resume on startup: the remembered
// current template, else the most recently updated one.
func (t *Templates) MostRecent() (domain.SavedTemplate, bool) {
	if cur, ok := t.Current(); ok {
		return cur, true
	}
	list := t.List()
	if len(list) == 0 {
		return domain.SavedTemplate{}, false
	}
	return list[0], true
}

func (t *Templates) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, tpl := range t.list {
		if tpl.ID == id {
			return i
		}
	}
	return -1
}

func (t *Templates) persistLocked() {
	if err := t.store.Save(t.list); err != nil {
		slog.Warn("persist templates", "key", domain.KeyTemplates, "err", err)
	}
}

func (t *Templates) persistCurrent(id string) {
	err := t.session.Update(func(st *domain.SessionState) { st.CurrentTemplateID = id })
	if err != nil {
		slog.Warn("persist current template", "key", domain.KeySession, "err", err)
	}
}

func templateName(name string, doc domain.Document) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	if n := strings.TrimSpace(doc.Name); n != "" {
		return n
	}
	return domain.DefaultDocumentName
}
