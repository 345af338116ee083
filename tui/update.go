// ABOUTME: Event handling and state updates for the picker
// ABOUTME: Implements the Bubble Tea Init() and Update() functions and key handlers

package tui

import (
	"fmt"
	"runtime/debug"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"playlist-maker/genre"
)

// countsMsg carries file counts computed in the background
type countsMsg struct {
	counts []genre.Count
	epoch  int
}

// Init starts counting files and watching the config
func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.countCmd(),
		waitForConfigChange(m.watcher, m.configPath, m.debugf),
	)
}

// countCmd counts files for the current rows off the UI goroutine
func (m model) countCmd() tea.Cmd {
	if m.countFiles == nil || len(m.rows) == 0 {
		return nil
	}

	entries := make([]genre.Entry, len(m.rows))
	for i, r := range m.rows {
		entries[i] = r.entry
	}

	countFiles := m.countFiles
	epoch := m.countEpoch

	return func() tea.Msg {
		return countsMsg{counts: countFiles(entries), epoch: epoch}
	}
}

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			logf(m.debugf, "[PANIC] Update panic: %v", r)
			logf(m.debugf, "[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		return m, nil

	case countsMsg:
		if msg.epoch != m.countEpoch {
			logf(m.debugf, "[TUI] Ignoring stale counts: epoch %d != current %d", msg.epoch, m.countEpoch)
			return m, nil
		}

		m.applyCounts(msg.counts)

		return m, nil

	case configChangeMsg:
		logf(m.debugf, "[TUI] Config changed, reloading %s", m.configPath)

		return m, tea.Batch(
			reloadConfig(m.loadGenres, m.configPath),
			waitForConfigChange(m.watcher, m.configPath, m.debugf),
		)

	case reloadCompleteMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Config reload failed: %v", msg.err)
			return m, nil
		}

		m.setEntries(msg.entries, m.selectedSet())
		m.errMsg = ""
		m.statusMsg = fmt.Sprintf("Config reloaded (%d genres)", len(m.rows))

		return m, m.countCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes key presses by focus
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC, msg.Type == tea.KeyEsc:
		return m.cancel()

	case key.Matches(msg, keys.Confirm):
		return m.confirm()

	case key.Matches(msg, keys.Tab):
		return m, m.switchFocus()
	}

	if m.focus == focusCount {
		var cmd tea.Cmd

		m.countInput, cmd = m.countInput.Update(msg)
		m.errMsg = ""

		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m.cancel()

	case key.Matches(msg, keys.Up):
		m.handleUpKey()

	case key.Matches(msg, keys.Down):
		m.handleDownKey()

	case key.Matches(msg, keys.Toggle):
		m.handleToggleKey()

	case key.Matches(msg, keys.All):
		m.setAll(true)

	case key.Matches(msg, keys.None):
		m.setAll(false)
	}

	return m, nil
}

func (m *model) handleUpKey() {
	if m.cursorPos > 0 {
		m.cursorPos--
	}
}

func (m *model) handleDownKey() {
	if m.cursorPos < len(m.rows)-1 {
		m.cursorPos++
	}
}

func (m *model) handleToggleKey() {
	if len(m.rows) == 0 {
		return
	}

	m.rows[m.cursorPos].selected = !m.rows[m.cursorPos].selected
	m.errMsg = ""
}

func (m *model) setAll(selected bool) {
	for i := range m.rows {
		m.rows[i].selected = selected
	}

	m.errMsg = ""
}

// switchFocus moves between the checklist and the count field
func (m *model) switchFocus() tea.Cmd {
	if m.focus == focusList {
		m.focus = focusCount
		return m.countInput.Focus()
	}

	m.focus = focusList
	m.countInput.Blur()

	return nil
}

// applyCounts merges background counts into the rows
func (m *model) applyCounts(counts []genre.Count) {
	byName := make(map[string]genre.Count, len(counts))
	for _, c := range counts {
		byName[c.Entry.Name] = c
	}

	for i := range m.rows {
		c, ok := byName[m.rows[i].entry.Name]
		if !ok {
			continue
		}

		m.rows[i].files = c.Files
		m.rows[i].counted = true
		m.rows[i].exists = !c.Missing
	}
}

func (m model) cancel() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.result = Result{Cancelled: true}

	return m, tea.Quit
}

// confirm validates the choice and quits with it
func (m model) confirm() (tea.Model, tea.Cmd) {
	names := m.selectedNames()
	if len(names) == 0 {
		m.errMsg = errNoGenreSelected.Error()
		return m, nil
	}

	n, err := m.parseCount()
	if err != nil {
		m.errMsg = err.Error()

		if m.focus != focusCount {
			return m, m.switchFocus()
		}

		return m, nil
	}

	m.confirmed = true
	m.quitting = true
	m.result = Result{Genres: names, Count: n}

	logf(m.debugf, "[TUI] Confirmed %d songs from %v", n, names)

	return m, tea.Quit
}
