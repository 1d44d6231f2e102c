package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/ticklist/internal/models"
	"github.com/fentz26/ticklist/internal/view"
)

// Screen layout, top to bottom: title, add input box (3 lines), task rows,
// a blank line, the footer, then help and message lines.
const (
	listTop     = 4
	chromeLines = 9
	deleteCol   = 2 // x of the ✕ control in a row
)

var filterLabels = map[models.Filter]string{
	models.FilterAll:       " All ",
	models.FilterActive:    " Active ",
	models.FilterCompleted: " Completed ",
}

const (
	clearLabel = " Clear completed "
	addLabel   = " Add "
)

// footerHit is what a click on the footer line landed on.
type footerHit struct {
	filter models.Filter
	clear  bool
}

// listHeight is the number of row lines that fit on screen.
func (a *App) listHeight() int {
	h := a.height - chromeLines
	if h < 3 {
		h = 3
	}
	return h
}

// visibleRange returns the window [start, end) of rows to draw, keeping the
// cursor roughly centered.
func (a *App) visibleRange(n int) (int, int) {
	if a.height == 0 || n <= a.listHeight() {
		return 0, n
	}
	height := a.listHeight()
	start := a.cursor - height/2
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > n {
		end = n
		start = max(0, end-height)
	}
	return start, end
}

// bodyLines is the number of lines the list occupies.
func (a *App) bodyLines() int {
	n := a.doc.List.Len()
	if n == 0 {
		return 1
	}
	start, end := a.visibleRange(n)
	return end - start
}

func (a *App) footerY() int {
	return listTop + a.bodyLines() + 1
}

// rowAt maps a screen line to a row index.
func (a *App) rowAt(y int) (int, bool) {
	n := a.doc.List.Len()
	if y < listTop || n == 0 {
		return 0, false
	}
	start, end := a.visibleRange(n)
	i := start + y - listTop
	if i >= end {
		return 0, false
	}
	return i, true
}

func isDeleteHit(x int) bool {
	return x >= deleteCol && x <= deleteCol+1
}

func (a *App) renderTaskList() string {
	rows := a.doc.List.Rows()
	if len(rows) == 0 {
		if a.doc.Filters.Pressed() == models.FilterAll {
			return mutedStyle.Render("  Nothing to do. Type a task above and press enter.")
		}
		return mutedStyle.Render("  No " + string(a.doc.Filters.Pressed()) + " tasks.")
	}

	start, end := a.visibleRange(len(rows))
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, a.renderRow(i, rows[i]))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderRow(i int, row view.Row) string {
	prefix := "  "
	if i == a.cursor && a.focus != focusInput {
		prefix = cursorStyle.Render("▶ ")
	}

	check := "[ ]"
	if row.Completed {
		check = doneStyle.Render("[x]")
	}

	label := row.Text
	switch {
	case row.Editing:
		label = a.editor.View()
	case row.Completed:
		label = completedTextStyle.Render(label)
	case i == a.cursor && a.focus == focusList:
		label = cursorStyle.Render(label)
	}

	return prefix + deleteStyle.Render("✕") + " " + check + " " + label
}

// renderFooter draws the count, the filter controls and the clear control.
func (a *App) renderFooter() string {
	var b strings.Builder
	b.WriteString(countStyle.Render(a.footerCount()))
	b.WriteString("  ")
	for _, f := range models.Filters {
		style := filterStyle
		if a.doc.Filters.IsPressed(f) {
			style = filterPressedStyle
		}
		b.WriteString(style.Render(filterLabels[f]))
		b.WriteString(" ")
	}
	b.WriteString(" ")
	b.WriteString(clearStyle.Render(clearLabel))
	return b.String()
}

func (a *App) footerCount() string {
	return a.doc.Count.Text()
}

// footerHitAt maps an x position on the footer line to a control. Widths are
// measured on the unstyled text; the footer styles add no padding.
func (a *App) footerHitAt(x int) (footerHit, bool) {
	pos := lipgloss.Width(a.footerCount()) + 2
	for _, f := range models.Filters {
		w := lipgloss.Width(filterLabels[f])
		if x >= pos && x < pos+w {
			return footerHit{filter: f}, true
		}
		pos += w + 1
	}
	pos++
	if x >= pos && x < pos+lipgloss.Width(clearLabel) {
		return footerHit{clear: true}, true
	}
	return footerHit{}, false
}
