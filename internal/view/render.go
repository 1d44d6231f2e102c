package view

import (
	"github.com/fentz26/ticklist/internal/models"
	"github.com/fentz26/ticklist/internal/tasks"
)

// Model is a pure projection of the task collection under a filter.
type Model struct {
	Rows      []Row
	Remaining int
	Filter    models.Filter
}

// Project derives the view model. Remaining counts the full collection, not
// the filtered rows.
func Project(all []models.Task, f models.Filter) Model {
	visible := tasks.Apply(all, f)
	rows := make([]Row, 0, len(visible))
	for _, t := range visible {
		rows = append(rows, Row{ID: t.ID, Text: t.Text, Completed: t.Completed})
	}
	return Model{Rows: rows, Remaining: tasks.Remaining(all), Filter: f}
}

// Renderer keeps a Document in sync with the repository and filter state.
type Renderer struct {
	doc    *Document
	repo   *tasks.Repository
	filter *tasks.FilterState
}

// NewRenderer creates a renderer for doc.
func NewRenderer(doc *Document, repo *tasks.Repository, filter *tasks.FilterState) *Renderer {
	return &Renderer{doc: doc, repo: repo, filter: filter}
}

// RenderAll rebuilds every row from the store and refreshes the count and
// filter indicator.
func (r *Renderer) RenderAll() Model {
	m := Project(r.repo.List(), r.filter.Get())
	r.Apply(m)
	return m
}

// Apply writes m into the document.
func (r *Renderer) Apply(m Model) {
	if r.doc.List != nil {
		r.doc.List.Clear()
		for _, row := range m.Rows {
			r.doc.List.Append(row)
		}
	}
	if r.doc.Count != nil {
		r.doc.Count.Set(m.Remaining)
	}
	if r.doc.Filters != nil {
		r.doc.Filters.Press(m.Filter)
	}
}

// RenderOne appends a row for a newly created task when the current filter
// shows it. It reports whether a row was appended.
func (r *Renderer) RenderOne(t models.Task) bool {
	if r.doc.List == nil || !r.filter.Get().Matches(t) {
		return false
	}
	r.doc.List.Append(Row{ID: t.ID, Text: t.Text, Completed: t.Completed})
	return true
}

// RefreshCount recomputes the remaining count over the full collection.
func (r *Renderer) RefreshCount() {
	if r.doc.Count == nil {
		return
	}
	r.doc.Count.Set(tasks.Remaining(r.repo.List()))
}
