package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"emailbuilder/internal/domain"
)

// ErrUnsupportedDriver is returned when a store driver name is not known.
var ErrUnsupportedDriver = errors.New("unsupported store driver")

// Dialect selects placeholder style and upsert syntax for SQLKV.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// Migrations returns the statements that create the kv_entries table.
func Migrations(d Dialect) []string {
	switch d {
	case DialectMySQL:
		return []string{`CREATE TABLE IF NOT EXISTS kv_entries (
			entry_key VARCHAR(191) PRIMARY KEY,
			entry_value LONGTEXT NOT NULL,
			updated_at BIGINT NOT NULL DEFAULT 0
		)`}
	default:
		return []string{`CREATE TABLE IF NOT EXISTS kv_entries (
			entry_key TEXT PRIMARY KEY,
			entry_value TEXT NOT NULL DEFAULT '',
			updated_at BIGINT NOT NULL DEFAULT 0
		)`}
	}
}

type kvQueries struct {
	get, upsert, del string
}

func queriesFor(d Dialect) kvQueries {
	switch d {
	case DialectPostgres:
		return kvQueries{
			get: `SELECT entry_value FROM kv_entries WHERE entry_key = $1`,
			upsert: `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES ($1, $2, $3)
				ON CONFLICT (entry_key) DO UPDATE SET entry_value = EXCLUDED.entry_value, updated_at = EXCLUDED.updated_at`,
			del: `DELETE FROM kv_entries WHERE entry_key = $1`,
		}
	case DialectMySQL:
		return kvQueries{
			get: `SELECT entry_value FROM kv_entries WHERE entry_key = ?`,
			upsert: `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES (?, ?, ?)
				ON DUPLICATE KEY UPDATE entry_value = VALUES(entry_value), updated_at = VALUES(updated_at)`,
			del: `DELETE FROM kv_entries WHERE entry_key = ?`,
		}
	default:
		return kvQueries{
			get: `SELECT entry_value FROM kv_entries WHERE entry_key = ?`,
			upsert: `INSERT INTO kv_entries (entry_key, entry_value, updated_at) VALUES (?, ?, ?)
				ON CONFLICT(entry_key) DO UPDATE SET entry_value = excluded.entry_value, updated_at = excluded.updated_at`,
			del: `DELETE FROM kv_entries WHERE entry_key = ?`,
		}
	}
}

// SQLKV implements domain.KVStore on a kv_entries table.
type SQLKV struct {
	conn *sql.DB
	q    kvQueries
}

var _ domain.KVStore = (*SQLKV)(nil)

func NewSQLKV(conn *sql.DB, d Dialect) *SQLKV {
	return &SQLKV{conn: conn, q: queriesFor(d)}
}

func (s *SQLKV) Get(key string) (string, error) {
	var v string
	err := s.conn.QueryRow(s.q.get, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("kv get %s: %w", key, err)
	}
	return v, nil
}

func (s *SQLKV) Set(key, value string) error {
	if _, err := s.conn.Exec(s.q.upsert, key, value, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (s *SQLKV) Delete(key string) error {
	if _, err := s.conn.Exec(s.q.del, key); err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *SQLKV) Close() error {
	return s.conn.Close()
}

// MemoryKV is an in-process domain.KVStore.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ domain.KVStore = (*MemoryKV)(nil)

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
