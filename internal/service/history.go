package service

import "emailbuilder/internal/domain"

// DefaultHistoryLimit caps the number of snapshots kept per session.
const DefaultHistoryLimit = 100

// History is a linear undo log of full document snapshots. Snapshots before
// the cursor are past states, snapshots after it can be redone. The log is
// never empty and the cursor always points at a snapshot.
type History struct {
	snapshots []domain.Document
	cursor    int
	limit     int
}

// NewHistory starts a log holding only initial. A limit <= 0 means
// DefaultHistoryLimit; the smallest usable limit is 2.
func NewHistory(initial domain.Document, limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 2 {
		limit = 2
	}
	return &History{
		snapshots: []domain.Document{initial.Clone()},
		limit:     limit,
	}
}

// Push discards every snapshot after the cursor, appends doc and moves the
// cursor onto it. Past the limit the oldest snapshots after the initial one
// are pruned, so undo can always return to where the session started.
func (h *History) Push(doc domain.Document) {
	h.snapshots = append(h.snapshots[:h.cursor+1], doc.Clone())
	h.cursor = len(h.snapshots) - 1
	h.pruneIfNeeded()
}

func (h *History) pruneIfNeeded() {
	excess := len(h.snapshots) - h.limit
	if excess <= 0 {
		return
	}
	kept := make([]domain.Document, 0, h.limit)
	kept = append(kept, h.snapshots[0])
	kept = append(kept, h.snapshots[1+excess:]...)
	h.snapshots = kept
	h.cursor -= excess
}

// Undo steps back one snapshot. It reports false at the start of the log.
func (h *History) Undo() (domain.Document, bool) {
	if !h.CanUndo() {
		return domain.Document{}, false
	}
	h.cursor--
	return h.snapshots[h.cursor].Clone(), true
}

// Redo steps forward one snapshot. It reports false at the end of the log.
func (h *History) Redo() (domain.Document, bool) {
	if !h.CanRedo() {
		return domain.Document{}, false
	}
	h.cursor++
	return h.snapshots[h.cursor].Clone(), true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }
func (h *History) Cursor() int   { return h.cursor }
func (h *History) Len() int      { return len(h.snapshots) }

// Current returns a copy of the snapshot at the cursor.
func (h *History) Current() domain.Document {
	return h.snapshots[h.cursor].Clone()
}

// Reset replaces the whole log with a single snapshot.
func (h *History) Reset(doc domain.Document) {
	h.snapshots = []domain.Document{doc.Clone()}
	h.cursor = 0
}
