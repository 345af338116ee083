// ABOUTME: Shared setup for all modes (generate, list, interactive)
// ABOUTME: Holds run options, config loading, terminal detection and debug log setup

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"playlist-maker/config"
	"playlist-maker/discover"
	"playlist-maker/logging"
	"playlist-maker/sampler"
)

const debugLogFile = "playlist-maker-debug.log"

// ErrNoAudioFiles is returned when every selected genre folder is empty or missing
var ErrNoAudioFiles = errors.New("no audio files found in the selected genre folders")

// RunOptions contains command-line options for all modes
type RunOptions struct {
	Genres      []string // Requested genres; empty means all
	Count       int      // Songs to pick
	Output      string   // Playlist filename (default from config)
	CopyTo      string   // Export directory; empty writes a standard playlist
	List        bool     // List genres and exit
	Counts      bool     // With List, count files per genre
	ConfigPath  string   // Explicit config file
	MetricsFile string   // Write run metrics here
	Interactive bool
	Verbose     bool
	Debug       bool
}

// runner carries the collaborators a run needs so tests can swap them
type runner struct {
	out        io.Writer
	terminal   bool
	sampler    *sampler.Sampler
	discoverer *discover.Discoverer
}

// newRunner returns a runner writing to stdout with production collaborators
func newRunner() *runner {
	return &runner{
		out:        os.Stdout,
		terminal:   isTTY(os.Stdout),
		sampler:    sampler.New(),
		discoverer: discover.New(),
	}
}

// printf writes user-facing output
func (r *runner) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// loadConfig loads the explicit config file or the default one
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		path = config.GetConfigPath()
	}

	logging.Debug("Loading config from %s", path)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// configPathFor returns the config file a run would use
func configPathFor(opts RunOptions) string {
	if opts.ConfigPath != "" {
		return opts.ConfigPath
	}

	return config.GetConfigPath()
}

// isTTY checks if the given file is a terminal
func isTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// SetupDebugLog initializes debug logging to a file
func SetupDebugLog(filename string) error {
	if err := logging.SetupDebugFile(filename); err != nil {
		return fmt.Errorf("failed to initialize debug log: %w", err)
	}

	if isTTY(os.Stdout) {
		fmt.Printf("Debug logging enabled: %s\n", filename)
	}

	return nil
}
