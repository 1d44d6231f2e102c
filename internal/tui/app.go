// Package tui provides the interactive terminal UI for ticklist.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/ticklist/internal/config"
	"github.com/fentz26/ticklist/internal/controller"
	"github.com/fentz26/ticklist/internal/models"
	"github.com/fentz26/ticklist/internal/tasks"
	"github.com/fentz26/ticklist/internal/view"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	inputBoxBlurredStyle = inputBoxStyle.Copy().
				BorderForeground(mutedColor)

	cursorStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	deleteStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	doneStyle = lipgloss.NewStyle().
			Foreground(successColor)

	completedTextStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Strikethrough(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	countStyle = lipgloss.NewStyle().
			Bold(true)

	filterStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	filterPressedStyle = lipgloss.NewStyle().
				Background(primaryColor).
				Foreground(fgColor).
				Bold(true)

	clearStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	addStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true)
)

type focus int

const (
	focusInput focus = iota
	focusList
	focusEditor
)

// App is the main TUI application model.
type App struct {
	ctrl   *controller.Controller
	doc    *view.Document
	input  textinput.Model
	editor textinput.Model
	keys   keyMap
	help   help.Model

	focus   focus
	cursor  int
	editing string // row id of the mounted editor
	width   int
	height  int
	message string

	doubleClick time.Duration
	lastClickID string
	lastClickAt time.Time
	now         func() time.Time
}

// New creates a new TUI application over repo and filter.
func New(repo *tasks.Repository, filter *tasks.FilterState, cfg *config.Config) *App {
	a := &App{
		keys:        defaultKeyMap(),
		help:        help.New(),
		doubleClick: cfg.DoubleClick(),
		now:         time.Now,
	}

	a.input = textinput.New()
	a.input.Placeholder = cfg.Placeholder
	a.input.CharLimit = cfg.CharLimit
	a.input.Width = 80
	a.input.Focus()

	a.editor = textinput.New()
	a.editor.Prompt = ""
	a.editor.CharLimit = cfg.CharLimit

	a.doc = view.NewDocument(&a.input)
	a.ctrl = controller.New(repo, filter, a.doc)
	return a
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	a.report(a.ctrl.Start())
	return textinput.Blink
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		a.message = ""
		switch a.focus {
		case focusInput:
			cmd = a.updateInput(msg)
		case focusList:
			cmd = a.updateList(msg)
		case focusEditor:
			cmd = a.updateEditor(msg)
		}

	case tea.MouseMsg:
		if msg.Type == tea.MouseLeft {
			a.message = ""
			cmd = a.click(msg.X, msg.Y)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 9 - lipgloss.Width(addLabel)
		a.editor.Width = msg.Width - 12
		a.help.Width = msg.Width

	default:
		// cursor blink
		var inputCmd, editorCmd tea.Cmd
		a.input, inputCmd = a.input.Update(msg)
		a.editor, editorCmd = a.editor.Update(msg)
		cmd = tea.Batch(inputCmd, editorCmd)
	}

	a.syncEditor()
	a.clampCursor()
	return a, cmd
}

func (a *App) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Submit):
		a.report(a.ctrl.SubmitAdd())
		return nil
	case key.Matches(msg, a.keys.Focus), key.Matches(msg, a.keys.Cancel), msg.Type == tea.KeyDown:
		a.setFocus(focusList)
		return nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return cmd
}

func (a *App) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Focus):
		return a.setFocus(focusInput)
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		} else {
			return a.setFocus(focusInput)
		}
	case key.Matches(msg, a.keys.Down):
		a.cursor++
	case key.Matches(msg, a.keys.Toggle):
		if id, ok := a.selectedID(); ok {
			a.report(a.ctrl.Click(id, controller.TargetRow))
		}
	case key.Matches(msg, a.keys.Delete):
		if id, ok := a.selectedID(); ok {
			a.report(a.ctrl.Click(id, controller.TargetDelete))
		}
	case key.Matches(msg, a.keys.Edit):
		if id, ok := a.selectedID(); ok {
			return a.beginEdit(id)
		}
	case key.Matches(msg, a.keys.FilterAll):
		a.report(a.ctrl.SelectFilter(models.FilterAll))
	case key.Matches(msg, a.keys.FilterActive):
		a.report(a.ctrl.SelectFilter(models.FilterActive))
	case key.Matches(msg, a.keys.FilterDone):
		a.report(a.ctrl.SelectFilter(models.FilterCompleted))
	case key.Matches(msg, a.keys.ClearCompleted):
		a.report(a.ctrl.ClearCompleted())
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return nil
}

func (a *App) updateEditor(msg tea.KeyMsg) tea.Cmd {
	s := a.ctrl.Session(a.editing)
	if s == nil {
		a.setFocus(focusList)
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Submit):
		a.report(a.ctrl.Confirm(a.editing))
		return nil
	case key.Matches(msg, a.keys.Cancel):
		a.report(a.ctrl.Cancel(a.editing))
		return nil
	case key.Matches(msg, a.keys.Focus), msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
		a.report(a.ctrl.Blur(a.editing))
		return nil
	}

	if s.Selected() {
		switch msg.Type {
		case tea.KeyRunes, tea.KeySpace:
			a.editor.SetValue("")
		case tea.KeyBackspace, tea.KeyDelete:
			a.editor.SetValue("")
			s.SetInput("")
			return nil
		}
	}

	var cmd tea.Cmd
	a.editor, cmd = a.editor.Update(msg)
	s.SetInput(a.editor.Value())
	return cmd
}

// click handles a left click at screen position x, y.
func (a *App) click(x, y int) tea.Cmd {
	if i, ok := a.rowAt(y); ok {
		row := a.doc.List.Rows()[i]
		a.cursor = i
		if a.editing != "" && a.editing != row.ID {
			a.report(a.ctrl.Blur(a.editing))
		}
		if isDeleteHit(x) {
			a.lastClickID = ""
			a.report(a.ctrl.Click(row.ID, controller.TargetDelete))
			return a.setFocus(focusList)
		}

		now := a.now()
		double := a.lastClickID == row.ID && now.Sub(a.lastClickAt) <= a.doubleClick
		a.report(a.ctrl.Click(row.ID, controller.TargetRow))
		if double {
			a.lastClickID = ""
			return a.beginEdit(row.ID)
		}
		a.lastClickID, a.lastClickAt = row.ID, now
		if a.editing == row.ID {
			return nil
		}
		return a.setFocus(focusList)
	}

	a.lastClickID = ""
	if a.editing != "" {
		a.report(a.ctrl.Blur(a.editing))
	}

	switch {
	case a.isAddHit(x, y):
		a.report(a.ctrl.SubmitAdd())
		return a.setFocus(focusInput)
	case y >= 1 && y <= 3:
		return a.setFocus(focusInput)
	case y == a.footerY():
		if hit, ok := a.footerHitAt(x); ok {
			if hit.clear {
				a.report(a.ctrl.ClearCompleted())
			} else {
				a.report(a.ctrl.SelectFilter(hit.filter))
			}
		}
	}
	return nil
}

func (a *App) beginEdit(id string) tea.Cmd {
	s := a.ctrl.BeginEdit(id)
	if s == nil {
		return nil
	}
	if a.editing == id {
		return nil
	}
	a.editing = id
	a.editor.SetValue(s.Input())
	a.editor.CursorEnd()
	a.focus = focusEditor
	a.input.Blur()
	return a.editor.Focus()
}

// syncEditor unmounts the editor once the controller has ended its session.
func (a *App) syncEditor() {
	if a.editing == "" || a.ctrl.Session(a.editing) != nil {
		return
	}
	a.editing = ""
	a.editor.Blur()
	a.editor.SetValue("")
	if a.focus == focusEditor {
		a.focus = focusList
	}
}

func (a *App) setFocus(f focus) tea.Cmd {
	a.focus = f
	if f == focusInput {
		return a.input.Focus()
	}
	a.input.Blur()
	return nil
}

func (a *App) selectedID() (string, bool) {
	rows := a.doc.List.Rows()
	if a.cursor < 0 || a.cursor >= len(rows) {
		return "", false
	}
	return rows[a.cursor].ID, true
}

func (a *App) clampCursor() {
	n := a.doc.List.Len()
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) report(err error) {
	if err != nil {
		a.message = "Error: " + err.Error()
	}
}

func (a *App) renderInputBox() string {
	box := inputBoxStyle
	if a.focus != focusInput {
		box = inputBoxBlurredStyle
	}
	return box.Render(a.input.View())
}

// isAddHit reports whether x, y lands on the add control beside the input box.
func (a *App) isAddHit(x, y int) bool {
	if y < 1 || y > 3 {
		return false
	}
	pos := lipgloss.Width(a.renderInputBox()) + 1
	return x >= pos && x < pos+lipgloss.Width(addLabel)
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ticklist") + "\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		a.renderInputBox(), " ", addStyle.Render(addLabel)) + "\n")

	b.WriteString(a.renderTaskList() + "\n")
	b.WriteString("\n")
	b.WriteString(a.renderFooter() + "\n")
	b.WriteString(a.help.View(a.keys))

	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		if strings.HasPrefix(a.message, "Error") {
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	}

	return b.String()
}
