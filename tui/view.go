// ABOUTME: Rendering and display functions for the picker
// ABOUTME: Implements the Bubble Tea View() function and render helpers

package tui

import (
	"fmt"
	"strings"
)

// View renders the TUI
func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Build a playlist"))
	b.WriteString("\n\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.countInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))

	return b.String()
}

// renderList renders the visible part of the genre checklist
func (m model) renderList() string {
	if len(m.rows) == 0 {
		return dimStyle.Render("  No genres configured") + "\n"
	}

	start, end := NewViewportManager(m.listHeight(), m.cursorPos, len(m.rows)).Window()

	var b strings.Builder

	for i := start; i < end; i++ {
		line := m.renderRow(m.rows[i])
		if i == m.cursorPos && m.focus == focusList {
			line = cursorStyle.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// renderRow renders one checklist line
func (m model) renderRow(r row) string {
	check := "[ ]"
	if r.selected {
		check = "[x]"
	}

	status := okStyle.Render("OK")
	if !r.exists {
		status = missingStyle.Render("NOT FOUND")
	}

	files := dimStyle.Render("counting...")
	if r.counted {
		files = dimStyle.Render(fmt.Sprintf("%d files", r.files))
	}

	return fmt.Sprintf(" %s %-12s %s  %s  %s", check, r.entry.Name, status, files, dimStyle.Render(r.entry.Folder))
}

// renderStatus renders the selection summary or the current error
func (m model) renderStatus() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}

	selected := len(m.selectedNames())
	total, complete := m.selectedFiles()

	pool := fmt.Sprintf("%d files", total)
	if !complete {
		pool = "counting..."
	}

	status := fmt.Sprintf("%d/%d genres selected, pool: %s", selected, len(m.rows), pool)
	if m.statusMsg != "" {
		status += " | " + m.statusMsg
	}

	return statusStyle.Render(status)
}
