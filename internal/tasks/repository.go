package tasks

import (
	"fmt"
	"log"
	"strings"

	"github.com/fentz26/ticklist/internal/models"
)

// Recorder receives every persisted mutation.
type Recorder interface {
	Record(action string, inputs interface{}, taskID string) error
}

// Repository provides task operations over the persisted collection.
// It holds no state between calls: every operation loads the whole
// collection, mutates it and saves it back. Safe only with a single writer.
type Repository struct {
	adapter  *Adapter
	newID    func() string
	recorder Recorder
}

// Option configures a Repository.
type Option func(*Repository)

// WithIDFunc overrides id generation.
func WithIDFunc(f func() string) Option {
	return func(r *Repository) { r.newID = f }
}

// WithRecorder journals mutations to rec.
func WithRecorder(rec Recorder) Option {
	return func(r *Repository) { r.recorder = rec }
}

// NewRepository creates a repository over a.
func NewRepository(a *Adapter, opts ...Option) *Repository {
	r := &Repository{adapter: a, newID: NewID}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MigrateIfNeeded assigns ids to legacy records and persists the result
// once if anything changed. It returns the number of records rewritten.
func (r *Repository) MigrateIfNeeded() (int, error) {
	records := r.adapter.LoadRecords()
	migrated := 0
	for i := range records {
		if records[i].ID != "" {
			continue
		}
		records[i].ID = r.newID()
		migrated++
	}
	if migrated == 0 {
		return 0, nil
	}
	if err := r.adapter.Save(records); err != nil {
		return 0, fmt.Errorf("save migrated tasks: %w", err)
	}
	log.Printf("Migrated %d legacy task record(s)", migrated)
	r.record("tasks.migrate", map[string]int{"count": migrated}, "")
	return migrated, nil
}

// List returns the persisted collection, unfiltered.
func (r *Repository) List() []models.Task {
	return r.adapter.Load()
}

// Get returns the task with id.
func (r *Repository) Get(id string) (models.Task, bool) {
	if id == "" {
		return models.Task{}, false
	}
	for _, t := range r.adapter.Load() {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// Add appends a new incomplete task. Blank text returns ErrEmptyText
// without touching the store.
func (r *Repository) Add(text string) (*models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	task := models.Task{ID: r.newID(), Text: text}
	records := append(r.adapter.LoadRecords(), NewRecord(task))
	if err := r.adapter.Save(records); err != nil {
		return nil, fmt.Errorf("save tasks: %w", err)
	}
	r.record("task.add", map[string]string{"text": text}, task.ID)
	return &task, nil
}

// SetCompleted sets the completed flag of the task with id.
// Unknown ids are ignored.
func (r *Repository) SetCompleted(id string, completed bool) error {
	found, err := r.update(id, func(t *models.Task) { t.Completed = completed })
	if err != nil || !found {
		return err
	}
	r.record("task.set_completed", map[string]interface{}{"id": id, "completed": completed}, id)
	return nil
}

// Remove deletes the task with id. Unknown ids are ignored.
func (r *Repository) Remove(id string) error {
	if id == "" {
		return nil
	}
	records := r.adapter.LoadRecords()
	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	if err := r.adapter.Save(kept); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	r.record("task.remove", map[string]string{"id": id}, id)
	return nil
}

// Edit replaces the text of the task with id, keeping id and completed.
// It reports false, leaving the task unchanged, when the trimmed text is
// blank or the id is unknown.
func (r *Repository) Edit(id, newText string) (bool, error) {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return false, nil
	}
	found, err := r.update(id, func(t *models.Task) { t.Text = newText })
	if err != nil || !found {
		return false, err
	}
	r.record("task.edit", map[string]string{"id": id, "text": newText}, id)
	return true, nil
}

// ClearCompleted removes every completed task, preserving the order of the
// rest, and returns how many were removed.
func (r *Repository) ClearCompleted() (int, error) {
	records := r.adapter.LoadRecords()
	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if !rec.Completed {
			kept = append(kept, rec)
		}
	}
	removed := len(records) - len(kept)
	if err := r.adapter.Save(kept); err != nil {
		return 0, fmt.Errorf("save tasks: %w", err)
	}
	if removed > 0 {
		r.record("task.clear_completed", map[string]int{"removed": removed}, "")
	}
	return removed, nil
}

// Resolve maps a full id or a unique prefix of at least four characters to a
// task id.
func (r *Repository) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrTaskNotFound
	}
	var match string
	for _, t := range r.adapter.Load() {
		if t.ID == ref {
			return t.ID, nil
		}
		if len(ref) >= 4 && strings.HasPrefix(t.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousID, ref)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
	}
	return match, nil
}

// update applies fn to the task with id and saves. It reports whether the
// task was found; nothing is written otherwise.
func (r *Repository) update(id string, fn func(*models.Task)) (bool, error) {
	if id == "" {
		return false, nil
	}
	records := r.adapter.LoadRecords()
	found := false
	for i := range records {
		if records[i].ID == id {
			fn(&records[i].Task)
			found = true
		}
	}
	if !found {
		return false, nil
	}
	if err := r.adapter.Save(records); err != nil {
		return false, fmt.Errorf("save tasks: %w", err)
	}
	return true, nil
}

func (r *Repository) record(action string, inputs interface{}, taskID string) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Record(action, inputs, taskID); err != nil {
		log.Printf("journal %s: %v", action, err)
	}
}
