// Package controller turns user input events into task operations and keeps
// the rendered document in sync.
package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/fentz26/ticklist/internal/models"
	"github.com/fentz26/ticklist/internal/tasks"
	"github.com/fentz26/ticklist/internal/view"
)

// Target is the part of a row a click landed on.
type Target int

const (
	TargetRow Target = iota
	TargetDelete
)

// Controller handles one event at a time on the UI loop; it is not safe for
// concurrent use.
type Controller struct {
	repo     *tasks.Repository
	filter   *tasks.FilterState
	doc      *view.Document
	renderer *view.Renderer
	sessions map[string]*EditSession
}

// New creates a controller driving doc.
func New(repo *tasks.Repository, filter *tasks.FilterState, doc *view.Document) *Controller {
	return &Controller{
		repo:     repo,
		filter:   filter,
		doc:      doc,
		renderer: view.NewRenderer(doc, repo, filter),
		sessions: make(map[string]*EditSession),
	}
}

// Document returns the document the controller renders into.
func (c *Controller) Document() *view.Document { return c.doc }

// Start migrates legacy records and renders everything.
func (c *Controller) Start() error {
	if _, err := c.repo.MigrateIfNeeded(); err != nil {
		log.Printf("Migration failed: %v", err)
		c.renderer.RenderAll()
		return err
	}
	c.renderer.RenderAll()
	return nil
}

// SubmitAdd adds the add-input's value as a new task and clears the input.
// Blank input is ignored.
func (c *Controller) SubmitAdd() error {
	if c.doc.Input == nil {
		return nil
	}
	c.blurAll()

	task, err := c.repo.Add(c.doc.Input.Value())
	if errors.Is(err, tasks.ErrEmptyText) {
		return nil
	}
	if err != nil {
		return c.fail("add task", err)
	}
	c.renderer.RenderOne(*task)
	c.doc.Input.SetValue("")
	c.renderer.RefreshCount()
	return nil
}

// Click handles a click inside the row with rowID. A click on the delete
// control removes the task; anywhere else toggles it.
func (c *Controller) Click(rowID string, target Target) error {
	if target == TargetDelete {
		return c.remove(rowID)
	}
	if _, editing := c.sessions[rowID]; editing {
		// the click lands inside the row's own editor
		return nil
	}
	c.blurAll()
	return c.toggle(rowID)
}

func (c *Controller) remove(rowID string) error {
	delete(c.sessions, rowID)
	if err := c.repo.Remove(rowID); err != nil {
		return c.fail("remove task", err)
	}
	if c.doc.List != nil {
		c.doc.List.Remove(rowID)
	}
	c.renderer.RefreshCount()
	return nil
}

func (c *Controller) toggle(rowID string) error {
	var completed bool
	if c.doc.List != nil {
		var ok bool
		if completed, ok = c.doc.List.ToggleCompleted(rowID); !ok {
			return nil
		}
	} else {
		t, ok := c.repo.Get(rowID)
		if !ok {
			return nil
		}
		completed = !t.Completed
	}
	if err := c.repo.SetCompleted(rowID, completed); err != nil {
		return c.fail("update task", err)
	}
	c.renderer.RefreshCount()
	return nil
}

// BeginEdit mounts an inline editor on the row with rowID. If the row is
// already being edited the existing session is returned unchanged; any other
// open session loses focus first. It returns nil when the row is not shown.
func (c *Controller) BeginEdit(rowID string) *EditSession {
	if s, ok := c.sessions[rowID]; ok {
		return s
	}
	if c.doc.List == nil {
		return nil
	}
	row, ok := c.doc.List.Row(rowID)
	if !ok {
		return nil
	}
	c.blurAll()

	s := NewEditSession(rowID, row.Text)
	c.sessions[rowID] = s
	c.doc.List.SetEditing(rowID, true)
	return s
}

// Session returns the open edit session for rowID, if any.
func (c *Controller) Session(rowID string) *EditSession {
	return c.sessions[rowID]
}

// Confirm commits the edit of rowID, saving non-blank input.
func (c *Controller) Confirm(rowID string) error { return c.finish(rowID, true) }

// Cancel ends the edit of rowID and restores the original text.
func (c *Controller) Cancel(rowID string) error { return c.finish(rowID, false) }

// Blur handles the editor of rowID losing focus; it saves like Confirm.
func (c *Controller) Blur(rowID string) error { return c.finish(rowID, true) }

func (c *Controller) finish(rowID string, save bool) error {
	s, ok := c.sessions[rowID]
	if !ok {
		return nil
	}
	delete(c.sessions, rowID)

	label, persist := s.Commit(save)
	var err error
	if persist {
		var applied bool
		applied, err = c.repo.Edit(rowID, label)
		if err != nil {
			err = c.fail("edit task", err)
		}
		if !applied {
			// the task is gone or the write failed
			label = s.Original
		}
	}
	if c.doc.List != nil {
		c.doc.List.SetText(rowID, label)
		c.doc.List.SetEditing(rowID, false)
	}
	return err
}

func (c *Controller) blurAll() {
	for id := range c.sessions {
		c.Blur(id)
	}
}

// SelectFilter persists f and re-renders.
func (c *Controller) SelectFilter(f models.Filter) error {
	c.blurAll()
	if err := c.filter.Set(f); err != nil {
		return c.fail("set filter", err)
	}
	c.renderer.RenderAll()
	return nil
}

// ClearCompleted removes completed tasks and re-renders.
func (c *Controller) ClearCompleted() error {
	c.blurAll()
	if _, err := c.repo.ClearCompleted(); err != nil {
		return c.fail("clear completed", err)
	}
	c.renderer.RenderAll()
	return nil
}

// Filter returns the current filter.
func (c *Controller) Filter() models.Filter {
	return c.filter.Get()
}

func (c *Controller) fail(op string, err error) error {
	log.Printf("%s: %v", op, err)
	return fmt.Errorf("%s: %w", op, err)
}
