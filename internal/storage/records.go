package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"emailbuilder/internal/domain"
)

// loadJSON reads key and decodes it into a T. Missing keys and corrupt
// payloads both yield the zero value; corruption is logged and otherwise
// ignored so a bad record never blocks a session from starting.
func loadJSON[T any](kv domain.KVStore, key string) T {
	var zero T
	raw, err := kv.Get(key)
	if err != nil {
		slog.Warn("load record", "key", key, "err", err)
		return zero
	}
	if raw == "" {
		return zero
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		slog.Warn("corrupt record, using empty", "key", key, "err", err)
		return zero
	}
	return v
}

func saveJSON(kv domain.KVStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────
// Design systems
// ─────────────────────────────────────────────────────────────

// DesignSystemStore persists user design systems as one JSON array.
type DesignSystemStore struct {
	kv domain.KVStore
}

func NewDesignSystemStore(kv domain.KVStore) *DesignSystemStore {
	return &DesignSystemStore{kv: kv}
}

func (s *DesignSystemStore) Load() []domain.DesignSystem {
	list := loadJSON[[]domain.DesignSystem](s.kv, domain.KeyDesignSystems)
	if list == nil {
		return []domain.DesignSystem{}
	}
	return list
}

func (s *DesignSystemStore) Save(list []domain.DesignSystem) error {
	if list == nil {
		list = []domain.DesignSystem{}
	}
	return saveJSON(s.kv, domain.KeyDesignSystems, list)
}

// ─────────────────────────────────────────────────────────────
// Templates
// ─────────────────────────────────────────────────────────────

// TemplateStore persists saved templates as one JSON array.
type TemplateStore struct {
	kv domain.KVStore
}

func NewTemplateStore(kv domain.KVStore) *TemplateStore {
	return &TemplateStore{kv: kv}
}

func (s *TemplateStore) Load() []domain.SavedTemplate {
	list := loadJSON[[]domain.SavedTemplate](s.kv, domain.KeyTemplates)
	if list == nil {
		return []domain.SavedTemplate{}
	}
	return list
}

func (s *TemplateStore) Save(list []domain.SavedTemplate) error {
	if list == nil {
		list = []domain.SavedTemplate{}
	}
	return saveJSON(s.kv, domain.KeyTemplates, list)
}

// ─────────────────────────────────────────────────────────────
// Session
// ─────────────────────────────────────────────────────────────

// SessionStore persists the resume record shared by the design-system and
// template services. Update serializes read-modify-write cycles.
type SessionStore struct {
	mu sync.Mutex
	kv domain.KVStore
}

func NewSessionStore(kv domain.KVStore) *SessionStore {
	return &SessionStore{kv: kv}
}

func (s *SessionStore) Load() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadJSON[domain.SessionState](s.kv, domain.KeySession)
}

// Update applies fn to the stored state and writes it back.
func (s *SessionStore) Update(fn func(*domain.SessionState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := loadJSON[domain.SessionState](s.kv, domain.KeySession)
	fn(&state)
	return saveJSON(s.kv, domain.KeySession, state)
}
