// Package store provides SQLite-backed persistence for ticklist.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/ticklist/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// KV is a synchronous key-value store of string values.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Store provides access to the ticklist SQLite database.
type Store struct {
	db *sql.DB
}

var _ KV = (*Store)(nil)

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=FULL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS journal (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		inputs_hash TEXT NOT NULL,
		task_id TEXT,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_journal_timestamp ON journal(timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Key-Value Operations ---

// Get returns the value stored under key. The bool is false when the key is absent.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query key %q: %w", key, err)
	}
	return value, true, nil
}

// Set replaces the value stored under key.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	return nil
}

// --- Journal Operations ---

// WriteJournal appends a journal entry.
func (s *Store) WriteJournal(action, inputsHash, taskID string) (*models.JournalEntry, error) {
	entry := &models.JournalEntry{
		ID:         uuid.New().String(),
		Action:     action,
		InputsHash: inputsHash,
		TaskID:     taskID,
		Timestamp:  time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO journal (id, action, inputs_hash, task_id, timestamp) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Action, entry.InputsHash, entry.TaskID, entry.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert journal: %w", err)
	}
	return entry, nil
}

// ListJournal returns the most recent journal entries, newest first.
func (s *Store) ListJournal(limit int) ([]models.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, action, inputs_hash, task_id, timestamp FROM journal ORDER BY timestamp DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var entry models.JournalEntry
		var taskID sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.InputsHash, &taskID, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		if taskID.Valid {
			entry.TaskID = taskID.String
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
