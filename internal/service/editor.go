package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"emailbuilder/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Editor: the single document session
// ─────────────────────────────────────────────────────────────

// MoveDirection is the direction of a one-step block move.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// SettingsPatch is a partial update of the document settings. Nil fields
// are left unchanged.
type SettingsPatch struct {
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	ContentWidth    *int    `json:"contentWidth,omitempty"`
	PreviewText     *string `json:"previewText,omitempty"`
}

// Editor owns the document being composed, the current selection and the
// undo history. All methods are safe for concurrent use.
type Editor struct {
	mu       sync.Mutex
	doc      domain.Document
	selected string
	history  *History
	dirty    bool

	emitter EventEmitter
	newID   func() string
}

// NewEditor starts a session on a blank document.
func NewEditor(emitter EventEmitter) *Editor {
	if emitter == nil {
		emitter = NoopEmitter{}
	}
	doc := domain.NewDocument()
	return &Editor{
		doc:     doc,
		history: NewHistory(doc, DefaultHistoryLimit),
		emitter: emitter,
		newID:   uuid.NewString,
	}
}

// Document returns a copy of the current document.
func (e *Editor) Document() domain.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

func (e *Editor) SelectedID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

// Select marks a block as selected. An empty id clears the selection.
func (e *Editor) Select(ctx context.Context, id string) {
	e.mu.Lock()
	if id != "" {
		if _, ok := e.doc.FindNested(id); !ok {
			e.mu.Unlock()
			slog.Warn("select", "id", id, "err", domain.ErrBlockNotFound)
			return
		}
	}
	e.selected = id
	e.mu.Unlock()
	e.emitter.Emit(ctx, EventSelectionChanged, id)
}

// AddBlock appends a block of type t with default content, selects it and
// records a history step.
func (e *Editor) AddBlock(ctx context.Context, t domain.BlockType) (domain.Block, error) {
	b, err := domain.NewBlock(t, e.newID())
	if err != nil {
		return nil, fmt.Errorf("add block: %w", err)
	}

	e.mu.Lock()
	e.doc.Blocks = append(e.doc.Blocks, b)
	e.selected = b.BlockID()
	e.commitLocked()
	doc := e.doc.Clone()
	e.mu.Unlock()

	e.emitter.Emit(ctx, EventDocumentChanged, doc)
	return domain.CloneBlock(b), nil
}

// UpdateBlock applies patch to a top-level block without recording history.
// Rapid edits (typing, dragging a color picker) go through here and are
// committed later with UpdateBlockCommitted.
func (e *Editor) UpdateBlock(ctx context.Context, id string, patch domain.Patch) error {
	return e.updateBlock(ctx, id, patch, false)
}

// UpdateBlockCommitted applies patch and records a history step.
func (e *Editor) UpdateBlockCommitted(ctx context.Context, id string, patch domain.Patch) error {
	return e.updateBlock(ctx, id, patch, true)
}

func (e *Editor) updateBlock(ctx context.Context, id string, patch domain.Patch, commit bool) error {
	e.mu.Lock()
	cur, i := e.doc.FindBlock(id)
	if cur == nil {
		e.mu.Unlock()
		slog.Warn("update block", "id", id, "err", domain.ErrBlockNotFound)
		return nil
	}
	next, err := domain.ApplyPatch(cur, patch)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("update block %s: %w", id, err)
	}
	e.doc.Blocks[i] = next
	if commit {
		e.commitLocked()
	} else {
		e.dirty = true
	}
	doc := e.doc.Clone()
	e.mu.Unlock()

	e.emitter.Emit(ctx, EventDocumentChanged, doc)
	return nil
}

// DeleteBlock removes a top-level block and clears the selection if it
// pointed at it.
func (e *Editor) DeleteBlock(ctx context.Context, id string) {
	e.mu.Lock()
	_, i := e.doc.FindBlock(id)
	if i < 0 {
		e.mu.Unlock()
		slog.Warn("delete block", "id", id, "err", domain.ErrBlockNotFound)
		return
	}
	blocks := make(domain.BlockList, 0, len(e.doc.Blocks)-1)
	blocks = append(blocks, e.doc.Blocks[:i]...)
	e.doc.Blocks = append(blocks, e.doc.Blocks[i+1:]...)
	if e.selected == id {
		e.selected = ""
	}
	e.commitLocked()
	doc := e.doc.Clone()
	e.mu.Unlock()

	e.emitter.Emit(ctx, EventDocumentChanged, doc)
}

// MoveBlock swaps a block with its neighbour. Moving past either end is a
// no-op and records nothing.
func (e *Editor) MoveBlock(ctx context.Context, id string, dir MoveDirection) {
	e.mu.Lock()
	_, i := e.doc.FindBlock(id)
	if i < 0 {
		e.mu.Unlock()
		slog.Warn("move block", "id", id, "err", domain.ErrBlockNotFound)
		return
	}
	j := i - 1
	if dir == MoveDown {
		j = i + 1
	}
	if j < 0 || j >= len(e.doc.Blocks) {
		e.mu.Unlock()
		return
	}
	e.doc.Blocks[i], e.doc.Blocks[j] = e.doc.Blocks[j], e.doc.Blocks[i]
	e.commitLocked()
	doc := e.doc.Clone()
	e.mu.Unlock()

	e.emitter.Emit(ctx, EventDocumentChanged, doc)
}

// Undo restores the previous snapshot. It reports whether anything changed.
func (e *Editor) Undo(ctx context.Context) bool {
	return e.step(ctx, "undo", e.history.Undo)
}

// Redo re-applies the next snapshot. It reports whether anything changed.
func (e *Editor) Redo(ctx context.Context) bool {
	return e.step(ctx, "redo", e.history.Redo)
}

func (e *Editor) step(ctx context.Context, op string, move func() (domain.Document, bool)) bool {
	e.mu.Lock()
	doc, ok := move()
	if !ok {
		e.mu.Unlock()
		slog.Debug("history boundary", "op", op)
		return false
	}
	e.doc = doc
	if _, found := e.doc.FindNested(e.selected); !found {
		e.selected = ""
	}
	e.dirty = true
	out := e.doc.Clone()
	e.mu.Unlock()

	e.emitter.Emit(ctx, EventDocumentChanged, out)
	return true
}

func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// SetName renames the document. Renames are not undoable.
func (e *Editor) SetName(ctx context.Context, name string) {
	e.mutate(ctx, false, func(d *domain.Document) { d.Name = name })
}

// UpdateSettings merges patch into the document settings and records a
// history step.
func (e *Editor) UpdateSettings(ctx context.Context, patch SettingsPatch) {
	e.mutate(ctx, true, func(d *domain.Document) {
		if patch.BackgroundColor != nil {
			d.Settings.BackgroundColor = *patch.BackgroundColor
		}
		if patch.ContentWidth != nil {
			d.Settings.ContentWidth = *patch.ContentWidth
		}
		if patch.PreviewText != nil {
			d.Settings.PreviewText = *patch.PreviewText
		}
	})
}

// SetDesignSystemID points the document at a design system. An empty id
// falls back to the session's active system at render time.
func (e *Editor) SetDesignSystemID(ctx context.Context, id string) {
	e.mutate(ctx, false, func(d *domain.Document) { d.DesignSystemID = id })
}

func (e *Editor) mutate(ctx context.Context, commit bool, fn func(*domain.Document)) {
	e.mu.Lock()
	fn(&e.doc)
	if commit {
		e.commitLocked()
	} else {
		e.dirty = true
	}
	doc := e.doc.Clone()
	e.mu.Unlock()

	e.emitter.Emit(ctx, EventDocumentChanged, doc)
}

// Load replaces the document and starts a fresh history at it. A loaded
// document is considered saved.
func (e *Editor) Load(ctx context.Context, doc domain.Document) {
	if doc.Blocks == nil {
		doc.Blocks = domain.BlockList{}
	}
	e.mu.Lock()
	e.doc = doc.Clone()
	e.selected = ""
	e.history.Reset(e.doc)
	e.dirty = false
	out := e.doc.Clone()
	e.mu.Unlock()

	e.emitter.Emit(ctx, EventDocumentChanged, out)
}

// Reset starts over with a blank document.
func (e *Editor) Reset(ctx context.Context) {
	e.Load(ctx, domain.NewDocument())
}

// Dirty reports whether the document changed since the last Load or
// MarkClean.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

func (e *Editor) MarkClean() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirty = false
}

// commitLocked records the current document as a history step. Callers
// hold e.mu.
func (e *Editor) commitLocked() {
	e.history.Push(e.doc)
	e.dirty = true
}
