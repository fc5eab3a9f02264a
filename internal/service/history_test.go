package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emailbuilder/internal/domain"
	"emailbuilder/internal/service"
)

func named(name string) domain.Document {
	d := domain.NewDocument()
	d.Name = name
	return d
}

func TestHistory_UndoRedo(t *testing.T) {
	h := service.NewHistory(named("v0"), 0)
	h.Push(named("v1"))
	h.Push(named("v2"))

	require.Equal(t, 3, h.Len())
	assert.Equal(t, 2, h.Cursor())
	assert.False(t, h.CanRedo())

	d, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "v1", d.Name)

	d, ok = h.Undo()
	require.True(t, ok)
	assert.Equal(t, "v0", d.Name)

	_, ok = h.Undo()
	assert.False(t, ok, "undo at the start of the log is a no-op")
	assert.Equal(t, 0, h.Cursor())

	d, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "v1", d.Name)
}

func TestHistory_PushTruncatesFuture(t *testing.T) {
	h := service.NewHistory(named("v0"), 0)
	h.Push(named("v1"))
	h.Push(named("v2"))
	h.Undo()
	h.Undo()

	h.Push(named("branch"))

	assert.Equal(t, 2, h.Len())
	assert.False(t, h.CanRedo())
	assert.Equal(t, "branch", h.Current().Name)
}

func TestHistory_LimitKeepsInitialSnapshot(t *testing.T) {
	h := service.NewHistory(named("v0"), 3)
	for _, n := range []string{"v1", "v2", "v3", "v4"} {
		h.Push(named(n))
	}

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 2, h.Cursor())
	assert.Equal(t, "v4", h.Current().Name)

	d, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "v3", d.Name, "middle snapshots are pruned")

	d, ok = h.Undo()
	require.True(t, ok)
	assert.Equal(t, "v0", d.Name, "the initial snapshot survives pruning")
	assert.False(t, h.CanUndo())
}

func TestHistory_SnapshotsAreIsolated(t *testing.T) {
	doc := named("v0")
	h := service.NewHistory(doc, 0)
	doc.Name = "mutated"

	assert.Equal(t, "v0", h.Current().Name)

	cur := h.Current()
	cur.Name = "changed"
	assert.Equal(t, "v0", h.Current().Name)
}

func TestHistory_Reset(t *testing.T) {
	h := service.NewHistory(named("v0"), 0)
	h.Push(named("v1"))
	h.Reset(named("loaded"))

	assert.Equal(t, 1, h.Len())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.Equal(t, "loaded", h.Current().Name)
}
