package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"emailbuilder/internal/domain"
	"emailbuilder/internal/storage"
	"emailbuilder/internal/style"
)

// ─────────────────────────────────────────────────────────────
// Design Systems: presets plus user brand kits
// ─────────────────────────────────────────────────────────────

// DesignSystems manages the built-in presets and user-created design
// systems and tracks which one is active. Presets are read-only.
type DesignSystems struct {
	mu       sync.Mutex
	user     []domain.DesignSystem
	activeID string

	store   *storage.DesignSystemStore
	session *storage.SessionStore
	emitter EventEmitter
	newID   func() string
	now     func() time.Time
}

// NewDesignSystems loads user systems and the active id from the stores.
// An active id that no longer resolves is dropped.
func NewDesignSystems(store *storage.DesignSystemStore, session *storage.SessionStore, emitter EventEmitter) *DesignSystems {
	if emitter == nil {
		emitter = NoopEmitter{}
	}
	s := &DesignSystems{
		user:    store.Load(),
		store:   store,
		session: session,
		emitter: emitter,
		newID:   uuid.NewString,
		now:     time.Now,
	}
	if id := session.Load().ActiveDesignSystemID; id != "" {
		if _, ok := s.findLocked(id); ok {
			s.activeID = id
		}
	}
	return s
}

// All returns the presets followed by the user systems.
func (s *DesignSystems) All() []domain.DesignSystem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(domain.Presets(), s.user...)
}

func (s *DesignSystems) User() []domain.DesignSystem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.DesignSystem(nil), s.user...)
}

func (s *DesignSystems) Get(id string) (domain.DesignSystem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

// Active returns the active design system, if any.
func (s *DesignSystems) Active() (domain.DesignSystem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == "" {
		return domain.DesignSystem{}, false
	}
	return s.findLocked(s.activeID)
}

func (s *DesignSystems) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// SetActive activates a design system. An empty id clears the selection,
// an unknown id is ignored.
func (s *DesignSystems) SetActive(ctx context.Context, id string) {
	s.mu.Lock()
	if id != "" {
		if _, ok := s.findLocked(id); !ok {
			s.mu.Unlock()
			slog.Warn("set active design system: not found", "id", id)
			return
		}
	}
	s.activeID = id
	s.mu.Unlock()

	s.persistActive(id)
	s.emitter.Emit(ctx, EventDesignSystemChanged, id)
}

// Create adds a user design system with a copy of tokens.
func (s *DesignSystems) Create(ctx context.Context, name string, tokens domain.Tokens) domain.DesignSystem {
	now := s.now().UnixMilli()
	ds := domain.DesignSystem{
		ID:        s.newID(),
		Name:      strings.TrimSpace(name),
		Tokens:    tokens,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	s.user = append(s.user, ds)
	s.persistLocked()
	s.mu.Unlock()

	s.emitter.Emit(ctx, EventDesignSystemChanged, ds.ID)
	return ds
}

// Update renames a user design system and/or merges a token patch into it.
// Presets and unknown ids are left alone and reported as false.
func (s *DesignSystems) Update(ctx context.Context, id string, name *string, patch domain.TokensPatch) (domain.DesignSystem, bool, error) {
	if domain.IsPreset(id) {
		slog.Warn("update design system: presets are read-only", "id", id)
		return domain.DesignSystem{}, false, nil
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		slog.Warn("update design system: not found", "id", id)
		return domain.DesignSystem{}, false, nil
	}
	ds := s.user[i]
	tokens, err := domain.MergeTokens(ds.Tokens, patch)
	if err != nil {
		s.mu.Unlock()
		return domain.DesignSystem{}, false, fmt.Errorf("update design system %s: %w", id, err)
	}
	if name != nil {
		ds.Name = strings.TrimSpace(*name)
	}
	ds.Tokens = tokens
	ds.UpdatedAt = s.now().UnixMilli()
	s.user[i] = ds
	s.persistLocked()
	s.mu.Unlock()

	s.emitter.Emit(ctx, EventDesignSystemChanged, id)
	return ds, true, nil
}

// Delete removes a user design system. Deleting the active one clears the
// active selection so rendering falls back to the default tokens.
func (s *DesignSystems) Delete(ctx context.Context, id string) bool {
	if domain.IsPreset(id) {
		slog.Warn("delete design system: presets are read-only", "id", id)
		return false
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		slog.Warn("delete design system: not found", "id", id)
		return false
	}
	s.user = append(s.user[:i:i], s.user[i+1:]...)
	s.persistLocked()
	cleared := s.activeID == id
	if cleared {
		s.activeID = ""
	}
	s.mu.Unlock()

	if cleared {
		s.persistActive("")
	}
	s.emitter.Emit(ctx, EventDesignSystemChanged, id)
	return true
}

// Duplicate copies any design system, preset or user, into a new user
// system named "<name> (Copy)".
func (s *DesignSystems) Duplicate(ctx context.Context, id string) (domain.DesignSystem, bool) {
	src, ok := s.Get(id)
	if !ok {
		slog.Warn("duplicate design system: not found", "id", id)
		return domain.DesignSystem{}, false
	}
	return s.Create(ctx, src.Name+" (Copy)", src.Tokens), true
}

// Tokens returns the active tokens, or the defaults when none is active.
func (s *DesignSystems) Tokens() domain.Tokens {
	if ds, ok := s.Active(); ok {
		return style.TokensFor(&ds)
	}
	return style.TokensFor(nil)
}

// TokensFor resolves a document's design-system reference. An empty or
// dangling id falls back to the active system.
func (s *DesignSystems) TokensFor(id string) domain.Tokens {
	if id != "" {
		if ds, ok := s.Get(id); ok {
			return style.TokensFor(&ds)
		}
	}
	return s.Tokens()
}

// Resolve computes the effective style of b under the active tokens.
func (s *DesignSystems) Resolve(b domain.Block) style.Resolved {
	return style.Resolve(b, s.Tokens())
}

// ImportBrandKit creates a user design system from a YAML brand kit.
func (s *DesignSystems) ImportBrandKit(ctx context.Context, r io.Reader) (domain.DesignSystem, error) {
	kit, err := storage.DecodeBrandKit(r)
	if err != nil {
		return domain.DesignSystem{}, err
	}
	return s.Create(ctx, kit.Name, kit.Tokens), nil
}

// ExportBrandKit writes a design system as a YAML brand kit.
func (s *DesignSystems) ExportBrandKit(w io.Writer, id string) error {
	ds, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("export brand kit: design system %q not found", id)
	}
	return storage.EncodeBrandKit(w, ds)
}

func (s *DesignSystems) findLocked(id string) (domain.DesignSystem, bool) {
	if p, ok := domain.FindPreset(id); ok {
		return p, true
	}
	if i := s.indexLocked(id); i >= 0 {
		return s.user[i], true
	}
	return domain.DesignSystem{}, false
}

func (s *DesignSystems) indexLocked(id string) int {
	for i, ds := range s.user {
		if ds.ID == id {
			return i
		}
	}
	return -1
}

func (s *DesignSystems) persistLocked() {
	if err := s.store.Save(s.user); err != nil {
		slog.Warn("persist design systems", "key", domain.KeyDesignSystems, "err", err)
	}
}

func (s *DesignSystems) persistActive(id string) {
	err := s.session.Update(func(st *domain.SessionState) { st.ActiveDesignSystemID = id })
	if err != nil {
		slog.Warn("persist active design system", "key", domain.KeySession, "err", err)
	}
}
