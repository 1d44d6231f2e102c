package controller

import "strings"

// EditState is the state of one row's inline edit.
type EditState int

const (
	Viewing EditState = iota
	Editing
)

func (s EditState) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// EditSession is one inline edit of a row's text. It starts in Editing with
// the input pre-filled and fully selected, and returns to Viewing on Commit.
type EditSession struct {
	RowID    string
	Original string

	input    string
	selected bool
	state    EditState
}

// NewEditSession opens an edit of original.
func NewEditSession(rowID, original string) *EditSession {
	return &EditSession{
		RowID:    rowID,
		Original: original,
		input:    original,
		selected: true,
		state:    Editing,
	}
}

func (s *EditSession) State() EditState { return s.state }

func (s *EditSession) Input() string { return s.input }

// Selected reports whether the whole input is still selected, i.e. nothing
// has been typed yet. The next keystroke replaces the selection.
func (s *EditSession) Selected() bool { return s.selected }

// SetInput records the current editor value and drops the selection.
func (s *EditSession) SetInput(v string) {
	s.input = v
	s.selected = false
}

// Commit ends the session. It returns the text the label must show and
// whether that text has to be persisted: only a save with non-blank input
// persists, anything else reverts to Original. Committing an ended session
// reverts.
func (s *EditSession) Commit(save bool) (label string, persist bool) {
	if s.state != Editing {
		return s.Original, false
	}
	s.state = Viewing
	text := strings.TrimSpace(s.input)
	if save && text != "" {
		return text, true
	}
	return s.Original, false
}
