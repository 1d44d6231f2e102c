// Package view projects the task collection onto a headless document of
// interactive elements.
package view

import (
	"fmt"

	"github.com/fentz26/ticklist/internal/models"
)

// TextEntry is a single-line text input element.
type TextEntry interface {
	Value() string
	SetValue(string)
}

// Document is the element tree the renderer keeps in sync. Every element is
// optional; a nil element is skipped by the renderer and the controller.
type Document struct {
	Input   TextEntry
	List    *List
	Count   *Counter
	Filters *FilterBar
}

// NewDocument creates a document with every element present.
func NewDocument(input TextEntry) *Document {
	return &Document{
		Input:   input,
		List:    &List{},
		Count:   &Counter{},
		Filters: &FilterBar{pressed: models.FilterAll},
	}
}

// Row is one task in the list container.
type Row struct {
	ID        string
	Text      string
	Completed bool
	// Editing is set while an inline editor replaces the label.
	Editing bool
}

// List is the list container element.
type List struct {
	rows []Row
}

// Rows returns a copy of the rows in display order.
func (l *List) Rows() []Row {
	return append([]Row(nil), l.rows...)
}

func (l *List) Len() int { return len(l.rows) }

// Clear removes every row.
func (l *List) Clear() { l.rows = l.rows[:0] }

// Append adds a row at the end.
func (l *List) Append(r Row) { l.rows = append(l.rows, r) }

// Index returns the position of the row with id, or -1.
func (l *List) Index(id string) int {
	for i, r := range l.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Row returns the row with id.
func (l *List) Row(id string) (Row, bool) {
	if i := l.Index(id); i >= 0 {
		return l.rows[i], true
	}
	return Row{}, false
}

// Remove deletes the row with id and reports whether it existed.
func (l *List) Remove(id string) bool {
	i := l.Index(id)
	if i < 0 {
		return false
	}
	l.rows = append(l.rows[:i], l.rows[i+1:]...)
	return true
}

// ToggleCompleted flips the completed visual state of the row with id and
// returns the new state.
func (l *List) ToggleCompleted(id string) (completed, ok bool) {
	i := l.Index(id)
	if i < 0 {
		return false, false
	}
	l.rows[i].Completed = !l.rows[i].Completed
	return l.rows[i].Completed, true
}

// SetText replaces the label of the row with id.
func (l *List) SetText(id, text string) bool {
	i := l.Index(id)
	if i < 0 {
		return false
	}
	l.rows[i].Text = text
	return true
}

// SetEditing mounts or unmounts the inline editor of the row with id.
func (l *List) SetEditing(id string, editing bool) bool {
	i := l.Index(id)
	if i < 0 {
		return false
	}
	l.rows[i].Editing = editing
	return true
}

// Counter displays the number of incomplete tasks.
type Counter struct {
	remaining int
}

func (c *Counter) Set(n int)      { c.remaining = n }
func (c *Counter) Remaining() int { return c.remaining }

// Text renders the count for display.
func (c *Counter) Text() string {
	if c.remaining == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", c.remaining)
}

// FilterBar holds the three filter controls; exactly one is pressed.
type FilterBar struct {
	pressed models.Filter
}

// Press marks f as the pressed control.
func (b *FilterBar) Press(f models.Filter) { b.pressed = f }

func (b *FilterBar) Pressed() models.Filter { return b.pressed }

func (b *FilterBar) IsPressed(f models.Filter) bool { return b.pressed == f }
