// ABOUTME: Assigns unique flat destination filenames to selected files
// ABOUTME: Later collisions (in selection order) get _2, _3, ... before the extension

package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"playlist-maker/playlist"
)

// Assignment pairs a selected file with its destination filename
type Assignment struct {
	File playlist.AudioFile
	Name string // Base filename, no directory
}

// Mapping is the ordered set of assignments for one export.
// Names are pairwise distinct, compared case-insensitively.
type Mapping struct {
	Assignments []Assignment
	index       map[playlist.AudioFile]int
}

// DestName returns the destination filename assigned to f
func (m *Mapping) DestName(f playlist.AudioFile) (string, bool) {
	if m == nil {
		return "", false
	}

	i, ok := m.index[f]
	if !ok {
		return "", false
	}

	return m.Assignments[i].Name, true
}

// Len returns the number of assignments
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}

	return len(m.Assignments)
}

// Names returns the destination filenames in selection order
func (m *Mapping) Names() []string {
	names := make([]string, m.Len())
	for i, a := range m.Assignments {
		names[i] = a.Name
	}

	return names
}

// nameKey folds case so names stay distinct on FAT32/exFAT devices
func nameKey(name string) string {
	return strings.ToLower(name)
}

// ResolveNames assigns each selected file its base filename, suffixing later
// collisions with _N (N from 2) until the name is free. reserved names, such
// as files already in the destination directory, count as taken.
func ResolveNames(sel playlist.Selection, reserved ...string) *Mapping {
	claimed := make(map[string]bool, len(sel)+len(reserved))
	for _, name := range reserved {
		claimed[nameKey(name)] = true
	}

	m := &Mapping{
		Assignments: make([]Assignment, 0, len(sel)),
		index:       make(map[playlist.AudioFile]int, len(sel)),
	}

	for _, f := range sel {
		base := f.Name()
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)

		candidate := base
		for n := 2; claimed[nameKey(candidate)]; n++ {
			candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
		}

		claimed[nameKey(candidate)] = true

		if _, dup := m.index[f]; !dup {
			m.index[f] = len(m.Assignments)
		}

		m.Assignments = append(m.Assignments, Assignment{File: f, Name: candidate})
	}

	return m
}

// ExistingNames lists the entry names already present in dir.
// A directory that does not exist yet has no names.
func ExistingNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read destination directory: %w", err)
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}

	return names, nil
}
