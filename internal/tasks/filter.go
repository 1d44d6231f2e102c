package tasks

import "github.com/fentz26/ticklist/internal/models"

// FilterState tracks the persisted visibility filter.
type FilterState struct {
	adapter *Adapter
}

// NewFilterState creates a filter state backed by a.
func NewFilterState(a *Adapter) *FilterState {
	return &FilterState{adapter: a}
}

// Get returns the current filter.
func (s *FilterState) Get() models.Filter {
	return s.adapter.LoadFilter()
}

// Set persists f immediately.
func (s *FilterState) Set(f models.Filter) error {
	if _, ok := models.ParseFilter(string(f)); !ok {
		return ErrInvalidFilter
	}
	return s.adapter.SaveFilter(f)
}

// Reset forgets the persisted filter; Get returns FilterAll afterwards.
func (s *FilterState) Reset() error {
	return s.adapter.ClearFilter()
}

// Apply returns the tasks visible under f, in order. tasks is not modified.
func Apply(tasks []models.Task, f models.Filter) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Remaining counts incomplete tasks.
func Remaining(tasks []models.Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}
