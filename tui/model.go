// ABOUTME: Terminal UI model and core state management for the genre picker
// ABOUTME: Bubble Tea model with a genre checklist, a song count field and a config watcher

// Package tui provides an interactive terminal picker for genres and song count.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"playlist-maker/genre"
)

// Focus targets
const (
	focusList = iota
	focusCount
)

// Layout constants for UI dimensions
const (
	// Lines used by title, count field, status and help
	totalUIChrome = 8

	minListHeight = 3
	countCharLim  = 6
)

var (
	errNoGenreSelected = errors.New("select at least one genre")
	errBadCount        = errors.New("song count must be a positive number")
)

// row is one genre in the checklist
type row struct {
	entry    genre.Entry
	selected bool
	exists   bool
	files    int
	counted  bool
}

// model holds the TUI state
type model struct {
	// Dependencies
	loadGenres func(string) ([]genre.Entry, error)
	countFiles func([]genre.Entry) []genre.Count
	exists     func(genre.Entry) bool
	debugf     func(string, ...interface{})

	configPath string
	watcher    *fsnotify.Watcher

	// Checklist
	rows       []row
	cursorPos  int
	countEpoch int // Increments on reload so stale counts are dropped

	// Count field
	countInput textinput.Model
	focus      int

	// UI state
	width     int
	height    int
	help      help.Model
	statusMsg string
	errMsg    string

	// Outcome
	confirmed bool
	quitting  bool
	result    Result
}

// Key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	None    key.Binding
	Tab     key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Toggle, k.All, k.None, k.Tab, k.Confirm, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.All, k.None, k.Tab},
		{k.Confirm, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "navigate"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space", "x"),
		key.WithHelp("space", "toggle"),
	),
	All: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all"),
	),
	None: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "none"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "genres/count"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "build playlist"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "q", "ctrl+c"),
		key.WithHelp("esc/q", "cancel"),
	),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// Run loads the genres, shows the picker and returns what the user confirmed
func Run(opts Options, deps Dependencies) (Result, error) {
	entries, err := deps.LoadGenres(opts.ConfigPath)
	if err != nil {
		return Result{}, err
	}

	watcher, err := newConfigWatcher(opts.ConfigPath)
	if err != nil {
		// The picker still works, it just won't notice config edits
		logf(deps.Debugf, "[WATCHER] Disabled: %v", err)
	}

	if watcher != nil {
		defer func() { _ = watcher.Close() }()
	}

	m := initModel(entries, opts, deps, watcher)

	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("TUI error: %w", err)
	}

	if fm, ok := finalModel.(model); ok && fm.confirmed {
		return fm.result, nil
	}

	return Result{Cancelled: true}, nil
}

// initModel creates the initial model with injected dependencies
func initModel(entries []genre.Entry, opts Options, deps Dependencies, watcher *fsnotify.Watcher) model {
	ti := textinput.New()
	ti.Prompt = "Songs: "
	ti.Placeholder = "how many?"
	ti.CharLimit = countCharLim
	ti.Validate = func(s string) error {
		for _, r := range s {
			if r < '0' || r > '9' {
				return errBadCount
			}
		}

		return nil
	}

	if opts.Count > 0 {
		ti.SetValue(strconv.Itoa(opts.Count))
	}

	exists := deps.Exists
	if exists == nil {
		exists = genre.CheckExistence
	}

	m := model{
		loadGenres: deps.LoadGenres,
		countFiles: deps.CountFiles,
		exists:     exists,
		debugf:     deps.Debugf,
		configPath: opts.ConfigPath,
		watcher:    watcher,
		countInput: ti,
		focus:      focusList,
		help:       help.New(),
	}

	preselected := make(map[string]bool, len(opts.Genres))
	for _, name := range opts.Genres {
		preselected[genre.Normalize(name)] = true
	}

	m.setEntries(entries, preselected)

	return m
}

// setEntries rebuilds the checklist, keeping selections for names in selected
func (m *model) setEntries(entries []genre.Entry, selected map[string]bool) {
	rows := make([]row, len(entries))
	for i, e := range entries {
		rows[i] = row{
			entry:    e,
			selected: selected[e.Name],
			exists:   m.exists(e),
		}
	}

	m.rows = rows
	m.countEpoch++

	if m.cursorPos >= len(m.rows) {
		m.cursorPos = max(len(m.rows)-1, 0)
	}
}

// selectedNames returns the names of checked rows in list order
func (m model) selectedNames() []string {
	var names []string

	for _, r := range m.rows {
		if r.selected {
			names = append(names, r.entry.Name)
		}
	}

	return names
}

// selectedSet returns the checked names as a set
func (m model) selectedSet() map[string]bool {
	set := make(map[string]bool, len(m.rows))
	for _, name := range m.selectedNames() {
		set[name] = true
	}

	return set
}

// selectedFiles sums known file counts over checked rows
func (m model) selectedFiles() (total int, complete bool) {
	complete = true

	for _, r := range m.rows {
		if !r.selected {
			continue
		}

		if !r.counted {
			complete = false
			continue
		}

		total += r.files
	}

	return total, complete
}

// parseCount validates the count field
func (m model) parseCount() (int, error) {
	s := strings.TrimSpace(m.countInput.Value())

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errBadCount
	}

	return n, nil
}

// listHeight returns how many checklist rows fit on screen (0 = unknown, show all)
func (m model) listHeight() int {
	if m.height == 0 {
		return 0
	}

	return max(m.height-totalUIChrome, minListHeight)
}

func logf(debugf func(string, ...interface{}), format string, args ...interface{}) {
	if debugf != nil {
		debugf(format, args...)
	}
}
