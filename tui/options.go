// ABOUTME: Picker configuration, injected dependencies and the value it returns
// ABOUTME: Keeps the TUI free of config loading and discovery details

package tui

import (
	"playlist-maker/genre"
)

// Options contains configuration for running the picker
type Options struct {
	ConfigPath string   // Config file to load and watch
	Genres     []string // Genres to preselect
	Count      int      // Initial song count, 0 leaves the field empty
}

// Dependencies holds the external functions the picker calls.
// This allows easy testing with fakes.
type Dependencies struct {
	LoadGenres func(configPath string) ([]genre.Entry, error)
	CountFiles func(entries []genre.Entry) []genre.Count
	Exists     func(e genre.Entry) bool
	Debugf     func(format string, args ...interface{})
}

// Result is what the user confirmed
type Result struct {
	Genres    []string // Chosen genre names in list order
	Count     int
	Cancelled bool
}
