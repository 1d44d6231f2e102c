package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNew_MigrateIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := s.Set("tasks", "[]"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer s.Close()

	got, ok, err := s.Get("tasks")
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if got != "[]" {
		t.Errorf("Expected value to survive reopen, got %q", got)
	}
}

func TestKV(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	// Absent
	_, ok, err := s.Get("tasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Expected absent key")
	}

	// Set + overwrite
	if err := s.Set("tasks", `[{"id":"1"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("tasks", `[]`); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	got, ok, _ := s.Get("tasks")
	if !ok || got != "[]" {
		t.Errorf("Expected overwritten value [], got %q (ok=%v)", got, ok)
	}

	// Delete
	if err := s.Delete("tasks"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := s.Get("tasks"); ok {
		t.Error("Expected key to be gone after delete")
	}
	if err := s.Delete("tasks"); err != nil {
		t.Errorf("Deleting absent key should not fail: %v", err)
	}
}

func TestMemoryKV(t *testing.T) {
	m := NewMemory()

	if _, ok, _ := m.Get("tasks_filter"); ok {
		t.Error("Expected absent key")
	}
	m.Set("tasks_filter", "active")
	if v, ok, _ := m.Get("tasks_filter"); !ok || v != "active" {
		t.Errorf("Expected active, got %q", v)
	}
	m.Delete("tasks_filter")
	if _, ok, _ := m.Get("tasks_filter"); ok {
		t.Error("Expected key to be gone after delete")
	}
}

func TestJournal(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	entry, err := s.WriteJournal("task.add", "abc123", "task-1")
	if err != nil {
		t.Fatalf("WriteJournal failed: %v", err)
	}
	if entry.ID == "" {
		t.Error("Journal ID should not be empty")
	}
	if _, err := s.WriteJournal("task.clear_completed", "def456", ""); err != nil {
		t.Fatalf("WriteJournal failed: %v", err)
	}

	entries, err := s.ListJournal(10)
	if err != nil {
		t.Fatalf("ListJournal failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	entries, err = s.ListJournal(1)
	if err != nil {
		t.Fatalf("ListJournal failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected limit to apply, got %d entries", len(entries))
	}
}

func newTestStore(t *testing.T) *Store {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}
