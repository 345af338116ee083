// ABOUTME: Watches the config file so the picker can reload genres while open
// ABOUTME: Watches the containing directory because editors often replace files on save

package tui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"playlist-maker/genre"
)

// reloadDebounce lets atomic writes finish before the file is re-read
const reloadDebounce = 100 * time.Millisecond

// configChangeMsg is sent when the config file changes
type configChangeMsg struct{}

// reloadCompleteMsg is sent after the config reload completes
type reloadCompleteMsg struct {
	entries []genre.Entry
	err     error
}

// reloadConfig re-reads the genre list in the background
func reloadConfig(load func(string) ([]genre.Entry, error), configPath string) tea.Cmd {
	return func() tea.Msg {
		entries, err := load(configPath)
		return reloadCompleteMsg{entries: entries, err: err}
	}
}

// newConfigWatcher watches the directory holding path
func newConfigWatcher(path string) (*fsnotify.Watcher, error) {
	if path == "" {
		return nil, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return watcher, nil
}

// isConfigEvent reports whether event touches the config file with a content change
func isConfigEvent(event fsnotify.Event, configPath string) bool {
	if filepath.Clean(event.Name) != filepath.Clean(configPath) {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// waitForConfigChange returns a command that waits for the config file to change
func waitForConfigChange(watcher *fsnotify.Watcher, configPath string, debugf func(string, ...interface{})) tea.Cmd {
	if watcher == nil {
		return nil
	}

	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				if isConfigEvent(event, configPath) {
					time.Sleep(reloadDebounce)
					return configChangeMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}

				// Log error but continue watching
				logf(debugf, "[WATCHER] Error: %v", err)
			}
		}
	}
}
