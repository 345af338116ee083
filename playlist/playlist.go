// ABOUTME: Handles reading and writing M3U playlist files
// ABOUTME: Builds entries from a selection in standard (absolute) or portable (relative) mode

// Package playlist holds the audio file types produced by discovery and
// writes them out as basic-profile M3U playlists.
package playlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Header is the first line of every playlist we write
const Header = "#EXTM3U"

// Mode selects how playlist entries are written
type Mode int

const (
	// Standard lists each file by its original absolute path
	Standard Mode = iota
	// Portable lists each file by its exported filename, relative to the
	// directory the playlist is written into
	Portable
)

// String returns the mode name used in logs
func (m Mode) String() string {
	switch m {
	case Standard:
		return "standard"
	case Portable:
		return "portable"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ErrNoMapping is returned when portable entries are requested without names
var ErrNoMapping = errors.New("portable mode requires an export mapping")

// NameLookup resolves the exported filename of a selected file
type NameLookup interface {
	DestName(f AudioFile) (string, bool)
}

// Entries builds playlist lines for the selection in selection order.
// names is only consulted in Portable mode and may be nil otherwise.
func Entries(sel Selection, mode Mode, names NameLookup) ([]string, error) {
	switch mode {
	case Standard:
		return sel.Paths(), nil
	case Portable:
		if names == nil {
			return nil, ErrNoMapping
		}

		entries := make([]string, 0, len(sel))
		for _, f := range sel {
			name, ok := names.DestName(f)
			if !ok {
				return nil, fmt.Errorf("no exported name for %s", f.Path)
			}

			entries = append(entries, name)
		}

		return entries, nil
	default:
		return nil, fmt.Errorf("unknown playlist mode: %v", mode)
	}
}

// Write writes the header followed by one entry per line
func Write(w io.Writer, entries []string) error {
	writer := bufio.NewWriter(w)

	if _, err := writer.WriteString(Header + "\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, entry := range entries {
		if entry == "" {
			continue
		}

		if _, err := writer.WriteString(entry + "\n"); err != nil {
			return fmt.Errorf("failed to write entry: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	return nil
}

// WriteFile creates (or truncates) path and writes the playlist to it
func WriteFile(path string, entries []string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close playlist file: %w", closeErr)
		}
	}()

	return Write(file, entries)
}

// ReadPlaylist reads an M3U file and returns its entries.
// Comments, directives and blank lines are skipped.
func ReadPlaylist(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}

	defer func() {
		_ = file.Close() // Explicitly ignore error for read-only file
	}()

	var entries []string

	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entries = append(entries, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading playlist: %w", err)
	}

	return entries, nil
}
